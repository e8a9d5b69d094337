package repository

import (
	"context"

	"github.com/acampos/tiendita-api/internal/domain/entity"
	"github.com/acampos/tiendita-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations.
// GetForUpdate, DecrementStock and IncrementStock are the inventory ledger:
// they must be called inside a Transactor unit of work so the stock
// check-then-decrement sequence is serialized per product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// GetForUpdate resolves a product and locks its row for the duration of
	// the enclosing transaction. The returned handle is the authoritative
	// stock reading for both validation and mutation.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Deactivate marks a product inactive without removing it, so past sales
	// keep resolving their product references.
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	// DecrementStock reduces stock by quantity. Callers must have validated
	// availability against the locked row first.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
	// IncrementStock restores stock; used by sale reversal.
	IncrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	IsActive   *bool
	SortBy     string
	SortOrder  string
}
