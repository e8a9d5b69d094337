package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID  uuid.UUID        `json:"category_id" binding:"required"`
	Name        string           `json:"name" binding:"required,min=2,max=255"`
	Description *string          `json:"description"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	Cost        decimal.Decimal  `json:"cost"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    decimal.Decimal  `json:"min_stock"`
	Barcode     *string          `json:"barcode" binding:"omitempty,max=100"`
	Unit        *string          `json:"unit" binding:"omitempty,max=50"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID  *uuid.UUID       `json:"category_id"`
	Name        *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Stock       *decimal.Decimal `json:"stock"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Barcode     *string          `json:"barcode" binding:"omitempty,max=100"`
	Unit        *string          `json:"unit" binding:"omitempty,max=50"`
	IsActive    *bool            `json:"is_active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	IsActive   *bool  `form:"is_active"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
