package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoponthefly/backend/pkg/enums"
)

// Order is created only by order placement. Total and shipping address are
// immutable once written; only the status changes afterward.
type Order struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64             `gorm:"column:user_id;not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	ShippingAddress string            `gorm:"column:shipping_address;not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
