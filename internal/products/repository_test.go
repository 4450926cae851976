package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoponthefly/backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int, categoryID *int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		CategoryID:    categoryID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product
}

func TestDecrementStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)
	product := seedProduct(t, db, "Widget", "10.00", 5, nil)

	if err := repo.DecrementStock(ctx, product.ID, 3); err != nil {
		t.Fatalf("first decrement: %v", err)
	}

	// Only 2 left; a decrement of 3 must not go through.
	if err := repo.DecrementStock(ctx, product.ID, 3); err != ErrInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	var loaded models.Product
	if err := db.First(&loaded, product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if loaded.StockQuantity != 2 {
		t.Fatalf("expected stock 2, got %d", loaded.StockQuantity)
	}

	if err := repo.DecrementStock(ctx, product.ID, 2); err != nil {
		t.Fatalf("decrement to zero: %v", err)
	}
	if err := repo.DecrementStock(ctx, product.ID, 1); err != ErrInsufficientStock {
		t.Fatalf("expected insufficient stock at zero, got %v", err)
	}
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)

	if err := repo.DecrementStock(context.Background(), 9999, 1); err != ErrInsufficientStock {
		t.Fatalf("expected insufficient stock for unknown product, got %v", err)
	}
}

func TestListFiltersAndSorting(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	electronics := &models.Category{Name: "Electronics"}
	if err := db.Create(electronics).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	seedProduct(t, db, "Alpha Speaker", "30.00", 5, &electronics.ID)
	seedProduct(t, db, "Beta Lamp", "10.00", 5, nil)
	seedProduct(t, db, "Gamma Speaker", "20.00", 5, &electronics.ID)

	list, err := repo.List(ctx, ListFilters{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 products, got %d", len(list))
	}
	if list[0].Name != "Alpha Speaker" {
		t.Fatalf("expected default name sort, got %s first", list[0].Name)
	}

	list, err = repo.List(ctx, ListFilters{Category: "Electronics"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 electronics, got %d", len(list))
	}

	list, err = repo.List(ctx, ListFilters{Search: "Speaker", Sort: "price", Order: "desc"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Alpha Speaker" {
		t.Fatalf("expected price desc speakers, got %+v", list)
	}

	// Unknown sort fields fall back to the name column.
	list, err = repo.List(ctx, ListFilters{Sort: "id; DROP TABLE products"})
	if err != nil {
		t.Fatalf("list with hostile sort: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Alpha Speaker" {
		t.Fatalf("expected allowlist fallback to name, got %+v", list)
	}
}

func TestOrderClauseAllowlist(t *testing.T) {
	t.Parallel()

	cases := []struct {
		filters ListFilters
		want    string
	}{
		{ListFilters{}, "products.name ASC"},
		{ListFilters{Sort: "price", Order: "desc"}, "products.price DESC"},
		{ListFilters{Sort: "CREATED_AT", Order: "DESC"}, "products.created_at DESC"},
		{ListFilters{Sort: "stock_quantity"}, "products.name ASC"},
		{ListFilters{Sort: "name", Order: "sideways"}, "products.name ASC"},
	}

	for _, tc := range cases {
		if got := tc.filters.orderClause(); got != tc.want {
			t.Fatalf("filters %+v: expected %q, got %q", tc.filters, tc.want, got)
		}
	}
}

func TestFindDetailJoinsCategoryName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	garden := &models.Category{Name: "Garden"}
	if err := db.Create(garden).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := seedProduct(t, db, "Trowel", "12.50", 9, &garden.ID)
	orphan := seedProduct(t, db, "Mystery Box", "1.00", 1, nil)

	dto, err := repo.FindDetailByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find detail: %v", err)
	}
	if dto.CategoryName == nil || *dto.CategoryName != "Garden" {
		t.Fatalf("expected joined category name, got %+v", dto.CategoryName)
	}

	dto, err = repo.FindDetailByID(ctx, orphan.ID)
	if err != nil {
		t.Fatalf("find orphan detail: %v", err)
	}
	if dto.CategoryName != nil {
		t.Fatalf("expected nil category name, got %q", *dto.CategoryName)
	}
}
