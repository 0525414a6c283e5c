package services

import "github.com/shopspring/decimal"

// TaxRate is fixed for the lifetime of the system.
var TaxRate = decimal.RequireFromString("0.1100")

// InvoiceLineInput is one requested line: a reference to an item plus the
// quantity and the unit price captured at invoice time.
type InvoiceLineInput struct {
	ItemID    uint            `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal is quantity × unit price at 2 fraction digits.
func (l InvoiceLineInput) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Round(2)
}

type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeTotals derives the invoice amounts from the line set and a flat
// discount. No clamping is applied: a discount larger than the subtotal
// produces a negative tax and total.
func ComputeTotals(lines []InvoiceLineInput, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: taxable.Add(tax),
	}
}
