package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoponthefly/backend/pkg/db/models"
)

// ErrInsufficientStock is returned by DecrementStock when the guarded update
// matches no row, meaning the product is gone or its stock is too low.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository manages catalog persistence.
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

// FindByID loads a product by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

type productRecord struct {
	models.Product
	CategoryName *string
}

// FindDetailByID loads a product joined with its category name.
func (r *Repository) FindDetailByID(ctx context.Context, id int64) (*ProductDTO, error) {
	var record productRecord
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.id = ?", id).
		Take(&record).Error
	if err != nil {
		return nil, err
	}
	dto := toDTO(record.Product, record.CategoryName)
	return &dto, nil
}

// List returns catalog rows matching the filters, ordered by the allow-listed
// sort column.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	query := r.db.WithContext(ctx).
		Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if filters.Category != "" {
		query = query.Where("categories.name LIKE ?", "%"+filters.Category+"%")
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", pattern, pattern)
	}

	var records []productRecord
	if err := query.Order(filters.orderClause()).Find(&records).Error; err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record.Product, record.CategoryName))
	}
	return dtos, nil
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by primary key.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// DecrementStock atomically subtracts qty from the product's stock, guarded so
// the row is only touched while enough stock remains. The guard plus the
// affected-row check is what closes the window between any earlier read of
// stock_quantity and this write.
func (r *Repository) DecrementStock(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return errors.New("decrement quantity must be positive")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
