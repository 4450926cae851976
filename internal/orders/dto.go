package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoponthefly/backend/pkg/enums"
)

// PlaceOrderInput captures the data required to convert a cart into an order.
type PlaceOrderInput struct {
	UserID          int64
	ShippingAddress string
}

// PlaceOrderResult is returned on successful placement.
type PlaceOrderResult struct {
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

// Summary is one row of a user's order history.
type Summary struct {
	ID              int64             `json:"id"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          enums.OrderStatus `json:"status"`
	ShippingAddress string            `json:"shippingAddress"`
	ItemCount       int               `json:"itemCount"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ItemDetail is one purchased line joined with live product name/image.
type ItemDetail struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// Detail is a full order with its items.
type Detail struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"userId"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          enums.OrderStatus `json:"status"`
	ShippingAddress string            `json:"shippingAddress"`
	Items           []ItemDetail      `json:"items"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
