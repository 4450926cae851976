package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoponthefly/backend/pkg/db/models"
)

// LineDetail is a cart row joined with the live product columns the view and
// the order placement pass both need.
type LineDetail struct {
	ID            int64
	ProductID     int64
	Quantity      int
	Name          string
	Price         decimal.Decimal
	ImageURL      *string
	StockQuantity int
	CreatedAt     time.Time
}

// Repository manages persistent cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindLine loads the user's line for one product.
func (r *Repository) FindLine(ctx context.Context, userID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateLine inserts a new cart line.
func (r *Repository) CreateLine(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity overwrites the line's quantity, reporting whether a line existed.
func (r *Repository) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLine removes the user's line for one product, reporting whether it existed.
func (r *Repository) DeleteLine(ctx context.Context, userID, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Clear removes every line belonging to the user. Clearing an empty cart is
// not an error.
func (r *Repository) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// ListWithProducts returns the user's lines joined with live product data,
// newest first.
func (r *Repository) ListWithProducts(ctx context.Context, userID int64) ([]LineDetail, error) {
	var lines []LineDetail
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id, cart_items.product_id, cart_items.quantity, cart_items.created_at,
			products.name, products.price, products.image_url, products.stock_quantity`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
