package service

import (
	"context"
	"testing"

	"github.com/acampos/tiendita-api/internal/domain/repository"
	infraRepo "github.com/acampos/tiendita-api/internal/infrastructure/repository"
	"github.com/acampos/tiendita-api/pkg/apperror"
	"github.com/acampos/tiendita-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductService(t *testing.T, db *gorm.DB) *ProductService {
	t.Helper()
	return NewProductService(
		infraRepo.NewProductRepository(db),
		infraRepo.NewCategoryRepository(db),
	)
}

func strPtr(s string) *string { return &s }

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db)

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		CategoryID: category.ID,
		Name:       "Atun en lata",
		Price:      dec(t, "3.50"),
		Cost:       dec(t, "2.10"),
		Stock:      dec(t, "24.000"),
		MinStock:   dec(t, "6.000"),
		Barcode:    strPtr("7501000123456"),
		Unit:       strPtr("unit"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.True(t, product.IsActive)
	assert.True(t, product.Price.Equal(dec(t, "3.50")))
	assert.True(t, product.Stock.Equal(dec(t, "24.000")))
	require.NotNil(t, product.Category)
	assert.Equal(t, category.Name, product.Category.Name)
}

func TestCreateProduct_Rejections(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db)

	t.Run("non-positive price", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, &CreateProductInput{
			CategoryID: category.ID, Name: "Gratis", Price: decimal.Zero,
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("negative stock", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, &CreateProductInput{
			CategoryID: category.ID, Name: "Negativo",
			Price: dec(t, "1.00"), Stock: dec(t, "-1.000"),
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, &CreateProductInput{
			CategoryID: uuid.New(), Name: "Huerfano", Price: dec(t, "1.00"),
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("duplicate barcode", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, &CreateProductInput{
			CategoryID: category.ID, Name: "Primero",
			Price: dec(t, "1.00"), Barcode: strPtr("111222333"),
		})
		require.NoError(t, err)

		_, err = svc.CreateProduct(ctx, &CreateProductInput{
			CategoryID: category.ID, Name: "Segundo",
			Price: dec(t, "1.00"), Barcode: strPtr("111222333"),
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.Code)
	})
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db)
	product := seedProduct(t, db, category.ID, "Jabon", "2.00", "30.000")

	newPrice := dec(t, "2.25")
	updated, err := svc.UpdateProduct(ctx, &UpdateProductInput{
		ProductID: product.ID,
		Price:     &newPrice,
	})
	require.NoError(t, err)

	// Only the price changed.
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Jabon", updated.Name)
	assert.True(t, updated.Stock.Equal(dec(t, "30.000")))
}

func TestUpdateProduct_BarcodeConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db)
	first, err := svc.CreateProduct(ctx, &CreateProductInput{
		CategoryID: category.ID, Name: "Uno",
		Price: dec(t, "1.00"), Barcode: strPtr("900100"),
	})
	require.NoError(t, err)

	second := seedProduct(t, db, category.ID, "Dos", "1.00", "0.000")

	_, err = svc.UpdateProduct(ctx, &UpdateProductInput{
		ProductID: second.ID,
		Barcode:   strPtr("900100"),
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	// Re-submitting its own barcode is not a conflict.
	_, err = svc.UpdateProduct(ctx, &UpdateProductInput{
		ProductID: first.ID,
		Barcode:   strPtr("900100"),
	})
	require.NoError(t, err)
}

func TestDeleteProduct_Deactivates(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db)
	product := seedProduct(t, db, category.ID, "Viejo", "1.00", "5.000")

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	// Row survives, flagged inactive.
	kept := reloadProduct(t, db, product.ID)
	assert.False(t, kept.IsActive)

	isActive := true
	result, err := svc.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		IsActive:   &isActive,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestListProducts_SearchAndCategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	drinks := seedCategory(t, db)
	food := seedCategory(t, db)
	seedProduct(t, db, drinks.ID, "Agua mineral", "1.00", "10.000")
	seedProduct(t, db, drinks.ID, "Refresco cola", "1.50", "10.000")
	seedProduct(t, db, food.ID, "Agua de coco", "2.00", "10.000")

	byCategory, err := svc.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		CategoryID: &drinks.ID,
	})
	require.NoError(t, err)
	assert.Len(t, byCategory.Items, 2)

	bySearch, err := svc.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		Search:     "agua",
	})
	require.NoError(t, err)
	assert.Len(t, bySearch.Items, 2)
}

func TestGetLowStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db)

	low, err := svc.CreateProduct(ctx, &CreateProductInput{
		CategoryID: category.ID, Name: "Casi agotado",
		Price: dec(t, "1.00"), Stock: dec(t, "2.000"), MinStock: dec(t, "5.000"),
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &CreateProductInput{
		CategoryID: category.ID, Name: "Bien surtido",
		Price: dec(t, "1.00"), Stock: dec(t, "50.000"), MinStock: dec(t, "5.000"),
	})
	require.NoError(t, err)

	products, err := svc.GetLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}
