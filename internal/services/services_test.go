package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Item{}, &models.Invoice{}, &models.InvoiceLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seed a client plus two items used throughout the invoice tests
func seedFixtures(t *testing.T, db *gorm.DB) (client models.Client, itemA, itemB models.Item) {
	t.Helper()
	client = models.Client{Name: "Acme Corp", Email: "billing@acme.test"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	itemA = models.Item{Name: "Consulting", Price: dec("10.00"), Unit: "hour"}
	if err := db.Create(&itemA).Error; err != nil {
		t.Fatalf("itemA: %v", err)
	}
	itemB = models.Item{Name: "Support", Price: dec("15.00"), Unit: "month"}
	if err := db.Create(&itemB).Error; err != nil {
		t.Fatalf("itemB: %v", err)
	}
	return
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustEqualDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", field, got, want)
	}
}
