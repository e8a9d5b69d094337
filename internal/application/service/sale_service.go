package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/acampos/tiendita-api/internal/domain/entity"
	"github.com/acampos/tiendita-api/internal/domain/enum"
	"github.com/acampos/tiendita-api/internal/domain/repository"
	"github.com/acampos/tiendita-api/pkg/apperror"
	"github.com/acampos/tiendita-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService handles sale transactions: recording a sale with its line items
// and inventory deductions, and reversing one by deleting it and restoring
// stock. Each operation is a single atomic unit of work.
type SaleService struct {
	tx          repository.Transactor
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	tx repository.Transactor,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		tx:          tx,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SaleItemInput represents a proposed line item
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	UserID        uuid.UUID
	PaymentMethod string
	Discount      decimal.Decimal
	CustomerName  *string
	CustomerEmail *string
	Notes         *string
	Items         []SaleItemInput
}

func (in *CreateSaleInput) validate() error {
	var fieldErrors []apperror.FieldError

	if in.PaymentMethod == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "payment_method", Message: "payment method is required",
		})
	}
	if in.Discount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "discount", Message: "discount must not be negative",
		})
	}
	if len(in.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "items", Message: "at least one item is required",
		})
	}
	for i, item := range in.Items {
		if !item.Quantity.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be greater than zero",
			})
		}
		if !item.Price.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "price must be greater than zero",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateSale validates a proposed sale, computes its totals with exact decimal
// arithmetic, and persists the sale, its items and the stock decrements in one
// transaction. Validation of every item happens against locked product rows
// before any stock is touched, so a failure on any item leaves all products
// unchanged.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Aggregate the requested quantity per product so a sale with the same
	// product on several lines is validated against its combined demand.
	requested := make(map[uuid.UUID]decimal.Decimal)
	for _, item := range input.Items {
		requested[item.ProductID] = requested[item.ProductID].Add(item.Quantity)
	}

	// Lock rows in a stable order to avoid deadlocks between concurrent sales.
	productIDs := make([]uuid.UUID, 0, len(requested))
	for id := range requested {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	var sale *entity.Sale
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		products := make(map[uuid.UUID]*entity.Product, len(productIDs))
		for _, id := range productIDs {
			product, err := s.productRepo.GetForUpdate(txCtx, id)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
			}
			if !product.HasStock(requested[id]) {
				s.logger.Warn("insufficient stock",
					zap.String("product_id", id.String()),
					zap.String("available", product.Stock.String()),
					zap.String("requested", requested[id].String()),
				)
				return apperror.NewInsufficientStockError(product.Name, product.Stock, requested[id])
			}
			products[id] = product
		}

		subtotal := decimal.Zero
		items := make([]entity.SaleItem, 0, len(input.Items))
		for _, item := range input.Items {
			lineSubtotal := item.Price.Mul(item.Quantity).Round(2)
			subtotal = subtotal.Add(lineSubtotal)
			items = append(items, entity.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Subtotal:  lineSubtotal,
			})
		}
		total := subtotal.Sub(input.Discount)

		sale = &entity.Sale{
			UserID:        input.UserID,
			Subtotal:      subtotal,
			Discount:      input.Discount,
			Tax:           decimal.Zero,
			Total:         total,
			PaymentMethod: input.PaymentMethod,
			CustomerName:  input.CustomerName,
			CustomerEmail: input.CustomerEmail,
			Notes:         input.Notes,
			Items:         items,
		}
		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			return err
		}

		for _, id := range productIDs {
			if err := s.productRepo.DecrementStock(txCtx, id, requested[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("items", len(sale.Items)),
	)

	created, err := s.saleRepo.GetWithItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		// The sale was removed between commit and re-read. The committed
		// state is still what the caller asked for.
		return sale, nil
	}
	return created, nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering, newest first
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// DeleteSale permanently deletes a sale and restores the stock its items
// consumed, in one transaction. Only administrators may delete sales.
// Restoration is best-effort per item: a product deleted after the sale
// cannot receive its stock back and is skipped.
func (s *SaleService) DeleteSale(ctx context.Context, actorRole enum.Role, saleID uuid.UUID) error {
	if actorRole != enum.RoleAdmin {
		return apperror.ErrForbidden
	}

	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.GetWithItems(txCtx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		for _, item := range sale.Items {
			product, err := s.productRepo.GetForUpdate(txCtx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				// Product removed after the sale; nothing to restore.
				s.logger.Warn("skipping stock restoration for missing product",
					zap.String("sale_id", saleID.String()),
					zap.String("product_id", item.ProductID.String()),
				)
				continue
			}
			if err := s.productRepo.IncrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return s.saleRepo.Delete(txCtx, sale)
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale deleted", zap.String("sale_id", saleID.String()))
	return nil
}
