package models

import "github.com/shopspring/decimal"

// Invoice statuses. The status field is free-form by contract: any status may
// move to any other status, so these are labels, not a state machine.
const (
	StatusDraft   = "draft"
	StatusSent    = "sent"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

func init() {
	// Monetary fields travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ValidStatus reports whether s is one of the known invoice statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}
