package service

import (
	"context"
	"testing"

	infraRepo "github.com/acampos/tiendita-api/internal/infrastructure/repository"
	"github.com/acampos/tiendita-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCategoryService(t *testing.T, db *gorm.DB) *CategoryService {
	t.Helper()
	return NewCategoryService(
		infraRepo.NewCategoryRepository(db),
		infraRepo.NewProductRepository(db),
	)
}

func TestCreateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(t, db)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Lacteos", strPtr("Leche, queso y derivados"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, category.ID)
	assert.Equal(t, "Lacteos", category.Name)

	_, err = svc.CreateCategory(ctx, "Lacteos", nil)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestUpdateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(t, db)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Limpiesa", nil)
	require.NoError(t, err)
	taken, err := svc.CreateCategory(ctx, "Bebidas", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, category.ID, strPtr("Limpieza"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Limpieza", updated.Name)

	_, err = svc.UpdateCategory(ctx, category.ID, &taken.Name, nil)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	_, err = svc.UpdateCategory(ctx, uuid.New(), strPtr("Nada"), nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestDeleteCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(t, db)
	ctx := context.Background()

	empty, err := svc.CreateCategory(ctx, "Vacia", nil)
	require.NoError(t, err)
	inUse, err := svc.CreateCategory(ctx, "En uso", nil)
	require.NoError(t, err)
	seedProduct(t, db, inUse.ID, "Algo", "1.00", "1.000")

	require.NoError(t, svc.DeleteCategory(ctx, empty.ID))

	err = svc.DeleteCategory(ctx, inUse.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
