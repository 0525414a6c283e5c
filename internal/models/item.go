package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a billable product or service. Its current price is only a default:
// invoice lines capture the unit price at invoice time, so later price edits
// never touch historical invoices.
type Item struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;index" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Unit      string          `gorm:"size:40;not null" json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
