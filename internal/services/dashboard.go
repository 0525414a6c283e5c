package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
)

const recentInvoiceCount = 10

// DashboardService is read-only; it never mutates the store.
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{DB: db} }

type DashboardSummary struct {
	TotalInvoices  int64            `json:"total_invoices"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	PaidAmount     decimal.Decimal  `json:"paid_amount"`
	OverdueCount   int64            `json:"overdue_count"`
	RecentInvoices []models.Invoice `json:"recent_invoices"`
}

// Summary computes the dashboard aggregates over the full invoice set. An
// empty store yields zero amounts and an empty recent list.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	db := s.DB.WithContext(ctx)
	out := DashboardSummary{
		TotalAmount:    decimal.Zero,
		PaidAmount:     decimal.Zero,
		RecentInvoices: make([]models.Invoice, 0, recentInvoiceCount),
	}
	if err := db.Model(&models.Invoice{}).Count(&out.TotalInvoices).Error; err != nil {
		return nil, err
	}
	if err := sumTotalAmount(db, "", &out.TotalAmount); err != nil {
		return nil, err
	}
	if err := sumTotalAmount(db, models.StatusPaid, &out.PaidAmount); err != nil {
		return nil, err
	}
	if err := db.Model(&models.Invoice{}).Where("status = ?", models.StatusOverdue).Count(&out.OverdueCount).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at DESC, id DESC").Limit(recentInvoiceCount).Find(&out.RecentInvoices).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func sumTotalAmount(db *gorm.DB, status string, dst *decimal.Decimal) error {
	q := db.Model(&models.Invoice{}).Select("COALESCE(SUM(total_amount), 0)")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Row().Scan(dst)
}
