package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/httpx"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	"github.com/appdotbuilder/invoice-manager-internal/internal/pdf"
	"github.com/appdotbuilder/invoice-manager-internal/internal/services"
)

type InvoiceHandler struct {
	DB  *gorm.DB
	Svc *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc}
}

// List: GET /invoices?status=&client_id=&q=&limit=&page=
// Filtering and ordering happen in the service; the limit/page window is
// applied here, on the already-ordered result.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.InvoiceFilter{
		Status:   r.URL.Query().Get("status"),
		ClientID: uintParam(r, "client_id"),
		Search:   r.URL.Query().Get("q"),
	}
	invs, err := h.Svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	total := len(invs)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": invs[offset:end], "total": total, "limit": limit, "offset": offset,
	})
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Get: GET /invoices/get?id=...
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if inv == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Update: POST /invoices/update
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateInvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv, err := h.Svc.Update(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// UpdateStatus: POST /invoices/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv, err := h.Svc.UpdateStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Delete: POST /invoices/delete?id=...
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": deleted})
}

// Lines: GET /invoices/lines?id=...
func (h *InvoiceHandler) Lines(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	lines, err := h.Svc.GetLines(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lines)
}

// PDF: GET /invoices/pdf?id=...
// Resolves the invoice, its client, and its lines into a view and delegates
// rendering to the pdf package.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if inv == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var client models.Client
	if err := h.DB.WithContext(r.Context()).First(&client, inv.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_client", nil)
		return
	}
	lines, err := h.Svc.GetLines(r.Context(), inv.ID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	view, err := h.buildView(r, inv, &client, lines)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	data, err := pdf.Render(*view)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	filename := pdf.Filename(inv.InvoiceNumber)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *InvoiceHandler) buildView(r *http.Request, inv *models.Invoice, client *models.Client, lines []models.InvoiceLine) (*pdf.InvoiceView, error) {
	itemIDs := make([]uint, 0, len(lines))
	for _, l := range lines {
		itemIDs = append(itemIDs, l.ItemID)
	}
	itemsByID := make(map[uint]models.Item, len(itemIDs))
	if len(itemIDs) > 0 {
		var items []models.Item
		if err := h.DB.WithContext(r.Context()).Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
			return nil, err
		}
		for _, it := range items {
			itemsByID[it.ID] = it
		}
	}
	view := pdf.InvoiceView{
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Status:        inv.Status,
		Notes:         inv.Notes,
		Client: pdf.ClientView{
			Name:    client.Name,
			Email:   client.Email,
			Phone:   client.Phone,
			Address: client.Address,
		},
		Subtotal:    inv.Subtotal,
		Discount:    inv.Discount,
		TaxRate:     inv.TaxRate,
		TaxAmount:   inv.TaxAmount,
		TotalAmount: inv.TotalAmount,
	}
	for _, l := range lines {
		it := itemsByID[l.ItemID]
		view.Lines = append(view.Lines, pdf.LineView{
			ItemName:  it.Name,
			Unit:      it.Unit,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return &view, nil
}
