package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoponthefly/backend/pkg/db/models"
	"github.com/shoponthefly/backend/pkg/enums"
)

// Repository persists orders and their line items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

type summaryRecord struct {
	ID              int64
	TotalAmount     decimal.Decimal
	Status          enums.OrderStatus
	ShippingAddress string
	ItemCount       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListByUser returns the user's orders newest first, with a per-order item count.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Summary, error) {
	var records []summaryRecord
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("orders.id, orders.total_amount, orders.status, orders.shipping_address, orders.created_at, orders.updated_at, COUNT(order_items.id) AS item_count").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ?", userID).
		Group("orders.id").
		Order("orders.created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, Summary{
			ID:              rec.ID,
			TotalAmount:     rec.TotalAmount,
			Status:          rec.Status,
			ShippingAddress: rec.ShippingAddress,
			ItemCount:       rec.ItemCount,
			CreatedAt:       rec.CreatedAt,
			UpdatedAt:       rec.UpdatedAt,
		})
	}
	return summaries, nil
}

// FindOwned loads an order only when it belongs to the given user.
func (r *Repository) FindOwned(ctx context.Context, orderID, userID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type itemRecord struct {
	ID        int64
	ProductID int64
	Name      string
	ImageURL  *string
	Quantity  int
	Price     decimal.Decimal
}

// ListItems returns an order's lines joined with current product name and image.
func (r *Repository) ListItems(ctx context.Context, orderID int64) ([]ItemDetail, error) {
	var records []itemRecord
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.id, order_items.product_id, order_items.quantity, order_items.price, products.name, products.image_url").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]ItemDetail, 0, len(records))
	for _, rec := range records {
		items = append(items, ItemDetail{
			ID:        rec.ID,
			ProductID: rec.ProductID,
			Name:      rec.Name,
			ImageURL:  rec.ImageURL,
			Quantity:  rec.Quantity,
			Price:     rec.Price,
			Total:     rec.Price.Mul(decimal.NewFromInt(int64(rec.Quantity))),
		})
	}
	return items, nil
}

// UpdateStatus sets the status of a user's order. Returns false when no
// matching order exists.
func (r *Repository) UpdateStatus(ctx context.Context, orderID, userID int64, status enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
