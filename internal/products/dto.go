package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoponthefly/backend/pkg/db/models"
)

// ProductDTO is the catalog row shape returned to clients, with the category
// name joined in.
type ProductDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    *int64          `json:"categoryId,omitempty"`
	CategoryName  *string         `json:"categoryName,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateProductInput carries a validated admin create payload.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    *int64
	ImageURL      *string
}

// UpdateProductInput carries a partial admin update; nil fields are left untouched.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	CategoryID    *int64
	ImageURL      *string
}

func toDTO(p models.Product, categoryName *string) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		CategoryName:  categoryName,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
