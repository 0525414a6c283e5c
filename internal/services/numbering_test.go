package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextInvoiceNumberStartsAtOne(t *testing.T) {
	db := setupTestDB(t)
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	num, err := nextInvoiceNumber(db, at)
	require.NoError(t, err)
	assert.Equal(t, "INV-202603-0001", num)
	assert.Regexp(t, InvoiceNumberPattern, num)
}

func TestNextInvoiceNumberIncrementsWithinMonth(t *testing.T) {
	db := setupTestDB(t)
	client, itemA, _ := seedFixtures(t, db)
	svc := NewInvoiceService(db)
	svc.now = func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }

	in := CreateInvoiceInput{
		ClientID: client.ID,
		Lines:    []InvoiceLineInput{{ItemID: itemA.ID, Quantity: dec("1"), UnitPrice: dec("10.00")}},
	}
	first, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "INV-202603-0001", first.InvoiceNumber)
	assert.Equal(t, "INV-202603-0002", second.InvoiceNumber)
}

func TestNextInvoiceNumberResetsAcrossMonths(t *testing.T) {
	db := setupTestDB(t)
	client, itemA, _ := seedFixtures(t, db)
	svc := NewInvoiceService(db)

	in := CreateInvoiceInput{
		ClientID: client.ID,
		Lines:    []InvoiceLineInput{{ItemID: itemA.ID, Quantity: dec("1"), UnitPrice: dec("10.00")}},
	}
	svc.now = func() time.Time { return time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC) }
	march, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, time.April, 1, 0, 30, 0, 0, time.UTC) }
	april, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "INV-202603-0001", march.InvoiceNumber)
	assert.Equal(t, "INV-202604-0001", april.InvoiceNumber)
}

func TestInvoiceNumberPatternMatchesAllocated(t *testing.T) {
	db := setupTestDB(t)
	for _, at := range []time.Time{
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC),
	} {
		num, err := nextInvoiceNumber(db, at)
		require.NoError(t, err)
		assert.Regexp(t, InvoiceNumberPattern, num)
	}
}
