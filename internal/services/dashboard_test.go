package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
)

func TestDashboardEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalInvoices != 0 || sum.OverdueCount != 0 {
		t.Fatalf("counts not zero: %#v", sum)
	}
	if !sum.TotalAmount.IsZero() || !sum.PaidAmount.IsZero() {
		t.Fatalf("amounts not zero: total=%s paid=%s", sum.TotalAmount, sum.PaidAmount)
	}
	if len(sum.RecentInvoices) != 0 {
		t.Fatalf("recent not empty: %d", len(sum.RecentInvoices))
	}
}

func TestDashboardAggregates(t *testing.T) {
	db := setupTestDB(t)
	client, itemA, _ := seedFixtures(t, db)
	invoices := NewInvoiceService(db)
	svc := NewDashboardService(db)

	// 12 invoices at 11.10 each (10.00 + 11% tax); mark 3 paid and 2 overdue
	var ids []uint
	for i := 0; i < 12; i++ {
		inv, err := invoices.Create(context.Background(), CreateInvoiceInput{
			ClientID: client.ID,
			Notes:    fmt.Sprintf("invoice %d", i),
			Lines:    []InvoiceLineInput{{ItemID: itemA.ID, Quantity: dec("1"), UnitPrice: dec("10.00")}},
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, inv.ID)
	}
	for _, id := range ids[:3] {
		if _, err := invoices.UpdateStatus(context.Background(), id, models.StatusPaid); err != nil {
			t.Fatalf("paid: %v", err)
		}
	}
	for _, id := range ids[3:5] {
		if _, err := invoices.UpdateStatus(context.Background(), id, models.StatusOverdue); err != nil {
			t.Fatalf("overdue: %v", err)
		}
	}

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalInvoices != 12 {
		t.Fatalf("total_invoices = %d", sum.TotalInvoices)
	}
	mustEqualDec(t, "133.20", sum.TotalAmount, "total_amount")
	mustEqualDec(t, "33.30", sum.PaidAmount, "paid_amount")
	if sum.OverdueCount != 2 {
		t.Fatalf("overdue_count = %d", sum.OverdueCount)
	}
	if len(sum.RecentInvoices) != 10 {
		t.Fatalf("recent count = %d, want 10", len(sum.RecentInvoices))
	}
	// newest first: the last created invoice leads
	if sum.RecentInvoices[0].ID != ids[len(ids)-1] {
		t.Fatalf("recent[0].ID = %d, want %d", sum.RecentInvoices[0].ID, ids[len(ids)-1])
	}
}
