package models

import "time"

// CartItem is one (user, product) quantity record prior to purchase.
// The (user_id, product_id) pair is unique: adding the same product again
// folds into the existing row.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_cart_items_user_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_user_product"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
