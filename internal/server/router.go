package server

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/auth"
	"github.com/appdotbuilder/invoice-manager-internal/internal/config"
	"github.com/appdotbuilder/invoice-manager-internal/internal/handlers"
	"github.com/appdotbuilder/invoice-manager-internal/internal/httpx"
	"github.com/appdotbuilder/invoice-manager-internal/internal/middleware"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	"github.com/appdotbuilder/invoice-manager-internal/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth double-checks that the token's user still exists.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1)
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, cfg.TokenTTL)
	authHandler.Register(mux)

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	collection := func(list, create http.HandlerFunc) http.Handler {
		return protected(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}

	// Client endpoints. List/Create via /clients; Get/Update/Delete via flat
	// subpaths for simplicity.
	ch := handlers.NewClientHandler(services.NewClientService(db))
	mux.Handle("/clients", collection(ch.List, ch.Create))
	mux.Handle("/clients/get", protected(ch.Get))
	mux.Handle("/clients/update", protected(ch.Update))
	mux.Handle("/clients/delete", protected(ch.Delete))

	// Item endpoints
	th := handlers.NewItemHandler(services.NewItemService(db))
	mux.Handle("/items", collection(th.List, th.Create))
	mux.Handle("/items/get", protected(th.Get))
	mux.Handle("/items/update", protected(th.Update))
	mux.Handle("/items/delete", protected(th.Delete))

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(db, services.NewInvoiceService(db))
	mux.Handle("/invoices", collection(ih.List, ih.Create))
	mux.Handle("/invoices/get", protected(ih.Get))
	mux.Handle("/invoices/update", protected(ih.Update))
	mux.Handle("/invoices/status", protected(ih.UpdateStatus))
	mux.Handle("/invoices/delete", protected(ih.Delete))
	mux.Handle("/invoices/lines", protected(ih.Lines))
	mux.Handle("/invoices/pdf", protected(ih.PDF))

	// Dashboard
	dh := handlers.NewDashboardHandler(services.NewDashboardService(db))
	mux.Handle("/dashboard", protected(dh.Summary))

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Invoice Manager API"))
	})

	return withRecover(middleware.Logging(mux))
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
