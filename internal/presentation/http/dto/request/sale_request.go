package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemRequest represents a line item in a sale creation request
type SaleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// CreateSaleRequest represents a sale creation request
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	Discount      decimal.Decimal   `json:"discount"`
	CustomerName  *string           `json:"customer_name"`
	CustomerEmail *string           `json:"customer_email" binding:"omitempty,email"`
	Notes         *string           `json:"notes"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Today     bool   `form:"today"`
	UserID    string `form:"user_id"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
