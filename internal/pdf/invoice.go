// Package pdf renders a resolved invoice view to a PDF byte buffer. It is a
// pure function of its input: no storage access, no clock, no globals.
package pdf

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

type LineView struct {
	ItemName  string
	Unit      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type ClientView struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// InvoiceView is everything the renderer needs, already resolved by the
// caller: the invoice, its owning client, and the full line set.
type InvoiceView struct {
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Status        string
	Notes         string
	Client        ClientView
	Lines         []LineView
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Filename derives the download filename from the invoice number.
func Filename(invoiceNumber string) string {
	return "invoice-" + strings.ToLower(invoiceNumber) + ".pdf"
}

// Render produces the PDF bytes for the view.
func Render(v InvoiceView) ([]byte, error) {
	m := maroto.New(config.NewBuilder().Build())

	m.AddRow(12,
		text.NewCol(8, "INVOICE", props.Text{Size: 18, Style: fontstyle.Bold}),
		text.NewCol(4, v.InvoiceNumber, props.Text{Size: 12, Align: align.Right, Top: 3}),
	)
	m.AddRow(6,
		text.NewCol(6, "Date: "+v.InvoiceDate, props.Text{Size: 9}),
		text.NewCol(6, "Due: "+v.DueDate, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6, text.NewCol(12, "Status: "+v.Status, props.Text{Size: 9}))

	m.AddRow(8, text.NewCol(12, "Billed to", props.Text{Size: 10, Style: fontstyle.Bold, Top: 2}))
	m.AddRow(5, text.NewCol(12, v.Client.Name, props.Text{Size: 9}))
	if v.Client.Email != "" {
		m.AddRow(5, text.NewCol(12, v.Client.Email, props.Text{Size: 9}))
	}
	if v.Client.Address != "" {
		m.AddRow(5, text.NewCol(12, v.Client.Address, props.Text{Size: 9}))
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(5, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(3, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, l := range v.Lines {
		name := l.ItemName
		if l.Unit != "" {
			name = fmt.Sprintf("%s (%s)", l.ItemName, l.Unit)
		}
		m.AddRow(6,
			text.NewCol(5, name, props.Text{Size: 9}),
			text.NewCol(2, l.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(l.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, money(l.LineTotal), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))

	m.AddRows(
		totalRow("Subtotal", money(v.Subtotal), false),
		totalRow("Discount", money(v.Discount.Neg()), false),
		totalRow(fmt.Sprintf("Tax (%s%%)", v.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0)), money(v.TaxAmount), false),
		totalRow("Total due", money(v.TotalAmount), true),
	)

	if v.Notes != "" {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}))
		m.AddRow(6, text.NewCol(12, v.Notes, props.Text{Size: 9}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func totalRow(label, amount string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(7),
		text.NewCol(2, label, props.Text{Size: 9, Style: style, Align: align.Right}),
		text.NewCol(3, amount, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
