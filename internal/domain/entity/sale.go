package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale represents a completed sales transaction. A sale and its items are
// created together and never edited afterwards; the only mutation is full
// deletion, which restores the stock its items consumed.
//
// Invariant: Total = Subtotal - Discount. Tax is stored but always zero for now.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	CustomerName  *string         `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerEmail *string         `gorm:"size:255" json:"customer_email,omitempty"`
	Notes         *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	User  *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents a line item in a sale. Price is the unit price captured
// at transaction time and stays fixed when the product price later changes.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	// Relationships
	Sale    *Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// MarshalJSON includes the product name when the relation is loaded
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	var productName *string
	if si.Product != nil {
		productName = &si.Product.Name
	}
	return json.Marshal(&struct {
		Alias
		ProductName *string `json:"product_name,omitempty"`
	}{
		Alias:       Alias(si),
		ProductName: productName,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
