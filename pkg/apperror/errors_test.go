package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(ErrForbidden)
	assert.Equal(t, 403, appErr.Code)

	wrapped := fmt.Errorf("handling request: %w", NewNotFoundError("Sale"))
	appErr = GetAppError(wrapped)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "Sale not found", appErr.Message)

	appErr = GetAppError(errors.New("boom"))
	assert.Equal(t, 500, appErr.Code)
}

func TestNewInsufficientStockError(t *testing.T) {
	available := decimal.RequireFromString("1.500")
	requested := decimal.RequireFromString("2")

	err := NewInsufficientStockError("Cafe", available, requested)
	assert.Equal(t, 400, err.Code)
	assert.Equal(t, "Insufficient stock for Cafe: 1.500 available, 2.000 requested", err.Message)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "items", Message: "at least one item is required"},
	})
	assert.Equal(t, 422, err.Code)
	assert.Len(t, err.Errors, 1)
}
