package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/auth"
	"github.com/appdotbuilder/invoice-manager-internal/internal/config"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	srv "github.com/appdotbuilder/invoice-manager-internal/internal/server"
)

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Item{}, &models.Invoice{}, &models.InvoiceLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{JWTSecret: auth.Secret(), TokenTTL: time.Hour}
	return srv.New(db, cfg), db
}

func TestHealthEndpoints(t *testing.T) {
	root, _ := setupRouter(t)
	for _, path := range []string{"/health", "/healthz"} {
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rr.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	root, _ := setupRouter(t)
	for _, path := range []string{"/clients", "/items", "/invoices", "/dashboard"} {
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, rr.Code)
		}
	}
}

func TestAuthenticatedRoundTrip(t *testing.T) {
	root, db := setupRouter(t)

	user := models.User{Email: "ops@corp.test", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	token, err := auth.GenerateToken(user.ID, auth.Secret(), time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	root.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var sum struct {
		TotalInvoices int `json:"total_invoices"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.TotalInvoices != 0 {
		t.Fatalf("expected empty dashboard, got %d", sum.TotalInvoices)
	}
}

func TestStaleTokenRejected(t *testing.T) {
	root, _ := setupRouter(t)

	// token for a user that does not exist: the verifier rejects it
	token, err := auth.GenerateToken(999, auth.Secret(), time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	root.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
