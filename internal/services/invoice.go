package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/apperr"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	"github.com/appdotbuilder/invoice-manager-internal/internal/validation"
)

// createAttempts bounds the number-allocation retry loop. Two concurrent
// creations in the same month can compute the same next number; the unique
// index rejects the loser, which recomputes in a fresh transaction.
const createAttempts = 3

// InvoiceService orchestrates the invoice lifecycle: reference validation,
// number allocation, totals derivation, and atomic persistence of an invoice
// with its line set.
type InvoiceService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db, now: time.Now}
}

type CreateInvoiceInput struct {
	ClientID    uint               `json:"client_id"`
	InvoiceDate time.Time          `json:"invoice_date"`
	DueDate     time.Time          `json:"due_date"`
	Discount    decimal.Decimal    `json:"discount"`
	Notes       string             `json:"notes"`
	Lines       []InvoiceLineInput `json:"items"`
}

func (in CreateInvoiceInput) validate() error {
	v := validation.Violations{}
	validation.NonZeroID("client_id", in.ClientID, v)
	if len(in.Lines) == 0 {
		v["items"] = "required"
	}
	validateLines(in.Lines, v)
	validation.NonNegativeDecimal("discount", in.Discount, v)
	if !v.Empty() {
		return apperr.Validation(v)
	}
	return nil
}

func validateLines(lines []InvoiceLineInput, v validation.Violations) {
	for _, l := range lines {
		if l.ItemID == 0 || !l.Quantity.IsPositive() || !l.UnitPrice.IsPositive() {
			v["items"] = "invalid_item_or_quantity"
			return
		}
	}
}

// Create persists a draft invoice and its lines as one atomic unit.
func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		inv, err := s.createOnce(ctx, in)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *InvoiceService) createOnce(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkClientExists(tx, in.ClientID); err != nil {
			return err
		}
		if err := checkItemsExist(tx, lineItemIDs(in.Lines)); err != nil {
			return err
		}
		number, err := nextInvoiceNumber(tx, s.now())
		if err != nil {
			return err
		}
		t := ComputeTotals(in.Lines, in.Discount)
		inv = models.Invoice{
			InvoiceNumber: number,
			ClientID:      in.ClientID,
			InvoiceDate:   in.InvoiceDate,
			DueDate:       in.DueDate,
			Subtotal:      t.Subtotal,
			Discount:      in.Discount,
			TaxRate:       TaxRate,
			TaxAmount:     t.TaxAmount,
			TotalAmount:   t.TotalAmount,
			Status:        models.StatusDraft,
			Notes:         in.Notes,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		return insertLines(tx, inv.ID, in.Lines)
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

type UpdateInvoiceInput struct {
	ID          uint                `json:"id"`
	ClientID    *uint               `json:"client_id"`
	InvoiceDate *time.Time          `json:"invoice_date"`
	DueDate     *time.Time          `json:"due_date"`
	Discount    *decimal.Decimal    `json:"discount"`
	Notes       *string             `json:"notes"`
	Lines       *[]InvoiceLineInput `json:"items"`
}

// Update applies a partial update. Omitted fields keep their stored values.
// A supplied line set replaces the previous one wholesale, and totals are
// recomputed whenever lines or discount change so the stored amounts always
// match the line set. The invoice number is never regenerated.
func (s *InvoiceService) Update(ctx context.Context, in UpdateInvoiceInput) (*models.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var inv models.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, in.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("invoice")
			}
			return err
		}
		if in.ClientID != nil && *in.ClientID != inv.ClientID {
			if err := checkClientExists(tx, *in.ClientID); err != nil {
				return err
			}
			inv.ClientID = *in.ClientID
		}
		if in.InvoiceDate != nil {
			inv.InvoiceDate = *in.InvoiceDate
		}
		if in.DueDate != nil {
			inv.DueDate = *in.DueDate
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if in.Discount != nil {
			inv.Discount = *in.Discount
		}
		if in.Lines != nil {
			lines := *in.Lines
			if err := checkItemsExist(tx, lineItemIDs(lines)); err != nil {
				return err
			}
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
				return err
			}
			if err := insertLines(tx, inv.ID, lines); err != nil {
				return err
			}
			applyTotals(&inv, ComputeTotals(lines, inv.Discount))
		} else if in.Discount != nil {
			stored, err := loadLineInputs(tx, inv.ID)
			if err != nil {
				return err
			}
			applyTotals(&inv, ComputeTotals(stored, inv.Discount))
		}
		return tx.Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (in UpdateInvoiceInput) validate() error {
	v := validation.Violations{}
	validation.NonZeroID("id", in.ID, v)
	if in.ClientID != nil {
		validation.NonZeroID("client_id", *in.ClientID, v)
	}
	if in.Discount != nil {
		validation.NonNegativeDecimal("discount", *in.Discount, v)
	}
	if in.Lines != nil {
		if len(*in.Lines) == 0 {
			v["items"] = "required"
		}
		validateLines(*in.Lines, v)
	}
	if !v.Empty() {
		return apperr.Validation(v)
	}
	return nil
}

// UpdateStatus sets the status only. Any status may move to any other status;
// the system imposes no transition restrictions.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Invoice, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.Validation(validation.Violations{"status": "unknown_status"})
	}
	var inv models.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("invoice")
			}
			return err
		}
		inv.Status = status
		return tx.Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Delete removes the invoice and its lines atomically. It reports false, not
// an error, when the invoice does not exist; a second delete of the same id is
// a no-op. This asymmetry with Update/UpdateStatus is part of the contract.
func (s *InvoiceService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Invoice{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// InvoiceFilter is a conjunction of optional criteria. Search matches the
// invoice number or the owning client's name, case-insensitively.
type InvoiceFilter struct {
	Status   string
	ClientID uint
	Search   string
}

// List returns invoices newest first. An empty filter returns everything.
func (s *InvoiceService) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	q := s.DB.WithContext(ctx).Model(&models.Invoice{})
	if f.Status != "" {
		q = q.Where("invoices.status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("invoices.client_id = ?", f.ClientID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN clients ON clients.id = invoices.client_id").
			Where("lower(invoices.invoice_number) LIKE ? OR lower(clients.name) LIKE ?", like, like)
	}
	invs := make([]models.Invoice, 0)
	if err := q.Order("invoices.created_at DESC, invoices.id DESC").Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

// GetByID returns nil, not an error, for an unknown id.
func (s *InvoiceService) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// GetLines returns the line set oldest first; an unknown invoice id yields an
// empty slice, never an error.
func (s *InvoiceService) GetLines(ctx context.Context, invoiceID uint) ([]models.InvoiceLine, error) {
	lines := make([]models.InvoiceLine, 0)
	err := s.DB.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func lineItemIDs(lines []InvoiceLineInput) []uint {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}

func insertLines(tx *gorm.DB, invoiceID uint, lines []InvoiceLineInput) error {
	recs := make([]models.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		recs = append(recs, models.InvoiceLine{
			InvoiceID: invoiceID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}
	return tx.Create(&recs).Error
}

func loadLineInputs(tx *gorm.DB, invoiceID uint) ([]InvoiceLineInput, error) {
	var recs []models.InvoiceLine
	if err := tx.Where("invoice_id = ?", invoiceID).Order("created_at ASC, id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	lines := make([]InvoiceLineInput, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, InvoiceLineInput{ItemID: r.ItemID, Quantity: r.Quantity, UnitPrice: r.UnitPrice})
	}
	return lines, nil
}

func applyTotals(inv *models.Invoice, t Totals) {
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.TotalAmount = t.TotalAmount
}
