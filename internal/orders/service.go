package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoponthefly/backend/internal/cart"
	"github.com/shoponthefly/backend/internal/products"
	"github.com/shoponthefly/backend/pkg/db/models"
	"github.com/shoponthefly/backend/pkg/enums"
	pkgerrors "github.com/shoponthefly/backend/pkg/errors"
)

// Service exposes order placement and history operations.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	List(ctx context.Context, userID int64) ([]Summary, error)
	Get(ctx context.Context, orderID, userID int64) (*Detail, error)
	UpdateStatus(ctx context.Context, orderID, userID int64, status enums.OrderStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx       txRunner
	orders   *Repository
	cart     *cart.Repository
	products *products.Repository
}

func NewService(tx txRunner, ordersRepo *Repository, cartRepo *cart.Repository, productsRepo *products.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("orders service requires a transaction runner")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders service requires an orders repository")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("orders service requires a cart repository")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("orders service requires a products repository")
	}
	return &service{tx: tx, orders: ordersRepo, cart: cartRepo, products: productsRepo}, nil
}

// Place converts the user's cart into an order inside a single transaction.
// Stock is decremented with a conditional update, so a concurrent checkout
// that would oversell the same product rolls the whole order back.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	address := strings.TrimSpace(input.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	lines, err := s.cart.ListWithProducts(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	for _, line := range lines {
		if line.Quantity > line.StockQuantity {
			return nil, insufficientStock(line)
		}
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		UserID:          input.UserID,
		TotalAmount:     total,
		Status:          enums.OrderStatusPending,
		ShippingAddress: address,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		cartRepo := s.cart.WithTx(tx)
		productsRepo := s.products.WithTx(tx)

		if err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}
		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		for _, line := range lines {
			if err := productsRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, products.ErrInsufficientStock) {
					return insufficientStock(line)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
		}

		if err := cartRepo.Clear(ctx, input.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PlaceOrderResult{OrderID: order.ID, Total: total}, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]Summary, error) {
	summaries, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return summaries, nil
}

func (s *service) Get(ctx context.Context, orderID, userID int64) (*Detail, error) {
	order, err := s.orders.FindOwned(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	items, err := s.orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}

	return &Detail{
		ID:              order.ID,
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID, userID int64, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(status)})
	}
	updated, err := s.orders.UpdateStatus(ctx, orderID, userID, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func insufficientStock(line cart.LineDetail) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s", line.Name)).
		WithDetails(map[string]any{
			"productId": line.ProductID,
			"requested": line.Quantity,
			"available": line.StockQuantity,
		})
}
