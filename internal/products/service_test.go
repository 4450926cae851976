package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shoponthefly/backend/pkg/errors"
)

func TestServiceCreateValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("-1.00"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProductInput{
		Price:         decimal.RequireFromString("1.00"),
		StockQuantity: 1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	created, err := svc.Create(ctx, CreateProductInput{
		Name:          "Widget",
		Description:   "original",
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newStock := 12
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{StockQuantity: &newStock})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.StockQuantity != 12 {
		t.Fatalf("expected stock 12, got %d", updated.StockQuantity)
	}
	if updated.Name != "Widget" || !updated.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestServiceGetAndDeleteUnknown(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Get(ctx, 404)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on get, got %v", err)
	}

	err = svc.Delete(ctx, 404)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}
