package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoponthefly/backend/pkg/db/models"
	pkgerrors "github.com/shoponthefly/backend/pkg/errors"
)

// LineView is one cart row as rendered to the client. Total is computed from
// the live unit price at view time, never from a stored snapshot.
type LineView struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	Quantity      int             `json:"quantity"`
	StockQuantity int             `json:"stockQuantity"`
	Total         decimal.Decimal `json:"total"`
}

// View is the full cart payload.
type View struct {
	Items     []LineView      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Service exposes the per-user cart operations.
type Service interface {
	Add(ctx context.Context, userID, productID int64, quantity int) error
	Update(ctx context.Context, userID, productID int64, quantity int) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
	View(ctx context.Context, userID int64) (*View, error)
}

type lineRepository interface {
	FindLine(ctx context.Context, userID, productID int64) (*models.CartItem, error)
	CreateLine(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (bool, error)
	DeleteLine(ctx context.Context, userID, productID int64) (bool, error)
	Clear(ctx context.Context, userID int64) error
	ListWithProducts(ctx context.Context, userID int64) ([]LineDetail, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	repo     lineRepository
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo lineRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Add folds the requested quantity into any existing line for the product and
// validates the summed quantity against current stock. The check is advisory:
// stock can still move before checkout, which is why order placement
// re-validates and decrements atomically.
func (s *service) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}

	requested := quantity
	existing, err := s.repo.FindLine(ctx, userID, productID)
	switch {
	case err == nil:
		requested += existing.Quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first line for this product
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if product.StockQuantity < requested {
		return insufficientStock(product)
	}

	if existing != nil {
		if _, err := s.repo.UpdateQuantity(ctx, userID, productID, requested); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		return nil
	}

	if err := s.repo.CreateLine(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return nil
}

// Update replaces the line's quantity outright.
func (s *service) Update(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.StockQuantity < quantity {
		return insufficientStock(product)
	}

	updated, err := s.repo.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID int64) error {
	removed, err := s.repo.DeleteLine(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID int64) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) View(ctx context.Context, userID int64) (*View, error) {
	lines, err := s.repo.ListWithProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	view := &View{
		Items: make([]LineView, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Items = append(view.Items, LineView{
			ID:            line.ID,
			ProductID:     line.ProductID,
			Name:          line.Name,
			Price:         line.Price,
			ImageURL:      line.ImageURL,
			Quantity:      line.Quantity,
			StockQuantity: line.StockQuantity,
			Total:         lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	view.ItemCount = len(view.Items)
	return view, nil
}

func (s *service) loadProduct(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func insufficientStock(product *models.Product) error {
	return pkgerrors.New(
		pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s", product.Name),
	).WithDetails(map[string]any{
		"productId": product.ID,
		"available": product.StockQuantity,
	})
}
