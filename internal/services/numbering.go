package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
)

// InvoiceNumberPattern is the external contract for invoice numbers.
var InvoiceNumberPattern = regexp.MustCompile(`^INV-\d{6}-\d{4}$`)

func monthPrefix(at time.Time) string {
	return "INV-" + at.Format("200601") + "-"
}

// nextInvoiceNumber derives the next number in the month's sequence from the
// stored maximum, never from in-process state. The sequence restarts at 0001
// each calendar month; numbers from other months share no sequence space.
// Callers must run this inside the transaction that inserts the invoice: the
// unique index on invoice_number turns a lost race into gorm.ErrDuplicatedKey,
// which the creating service retries.
func nextInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	prefix := monthPrefix(at)
	var last []string
	err := tx.Model(&models.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &last).Error
	if err != nil {
		return "", err
	}
	seq := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix))
		if err != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", last[0], err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}
