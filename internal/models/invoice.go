package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice carries the derived monetary fields (Subtotal, TaxAmount,
// TotalAmount). They are always recomputed server-side from the line set and
// the discount, never accepted from a caller.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"uniqueIndex;size:20;not null" json:"invoice_number"`
	ClientID      uint            `gorm:"not null;index" json:"client_id"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	TaxRate       decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"tax_rate"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status        string          `gorm:"size:20;not null;default:'draft'" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceLine belongs to exactly one invoice and is only ever written as part
// of the whole line set: creating or updating an invoice replaces its lines in
// the same transaction, and deleting an invoice removes them.
type InvoiceLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	InvoiceID uint            `gorm:"not null;index" json:"invoice_id"`
	ItemID    uint            `gorm:"not null;index" json:"item_id"`
	Quantity  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
}
