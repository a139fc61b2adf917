package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/models"
	"github.com/agencydesk/billing-app/internal/services"
)

type InvoiceHandler struct {
	DB      *gorm.DB
	Ledger  *services.InvoiceLedger
	Profile *services.ProfileService
	Prefix  string
}

func NewInvoiceHandler(db *gorm.DB, ledger *services.InvoiceLedger, profile *services.ProfileService, prefix string) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Ledger: ledger, Profile: profile, Prefix: prefix}
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	invs, total, err := h.Ledger.List(limit, offset)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total, "limit": limit, "offset": offset})
}

type invoiceItemReq struct {
	ServiceName string          `json:"service_name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type invoiceCreateReq struct {
	ClientID uint             `json:"client_id"`
	GSTRate  *decimal.Decimal `json:"gst_rate,omitempty"` // defaults to the business profile rate
	DueDate  *time.Time       `json:"due_date,omitempty"`
	Notes    string           `json:"notes"`
	Terms    string           `json:"terms"`
	Category string           `json:"category"`
	Items    []invoiceItemReq `json:"items"`
}

// Create: POST /invoices — computes the GST split and the next sequential
// number, then persists header and items atomically through the ledger.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req invoiceCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ClientID == 0 || len(req.Items) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"client_id": "required", "items": "required"})
		return
	}
	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_client", nil)
		return
	}
	profile, err := h.Profile.Get()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	homeState := ""
	gstRate := decimal.Zero
	if profile != nil {
		homeState = profile.HomeState
		gstRate = profile.DefaultGSTRate
	}
	if req.GSTRate != nil {
		gstRate = *req.GSTRate
	}

	subtotal := decimal.Zero
	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, it := range req.Items {
		amount := it.Rate.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		items = append(items, models.InvoiceItem{
			ServiceName: it.ServiceName,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      amount,
		})
		subtotal = subtotal.Add(amount)
	}
	gst := services.ComputeGST(subtotal, gstRate, services.IsInterState(client.State, homeState))

	last, err := h.Ledger.LatestNumber()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_number_invoice", nil)
		return
	}
	category := req.Category
	if category == "" {
		category = models.CategoryAdhoc
	}
	inv := models.Invoice{
		Number:      services.NextInvoiceNumber(last, h.Prefix),
		InvoiceDate: time.Now(),
		DueDate:     req.DueDate,
		ClientID:    client.ID,
		Status:      models.InvoiceDraft,
		Subtotal:    subtotal,
		GSTRate:     gstRate,
		GSTTotal:    gst.Total,
		GrandTotal:  subtotal.Add(gst.Total),
		Notes:       req.Notes,
		Terms:       req.Terms,
		Category:    category,
	}
	if err := h.Ledger.Create(&inv, items); err != nil {
		serviceError(w, err, "failed_to_create_invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Get: GET /invoices/get?id=...
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	inv, err := h.Ledger.Get(id)
	if err != nil {
		serviceError(w, err, "failed_to_load_invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Delete: POST /invoices/delete?id=... — removes the invoice with its items
// and payments.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Ledger.Delete(id); err != nil {
		serviceError(w, err, "failed_to_delete_invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SendToAccountant: POST /invoices/send-accountant?id=...
func (h *InvoiceHandler) SendToAccountant(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Ledger.MarkSentToAccountant(id); err != nil {
		serviceError(w, err, "failed_to_mark_sent")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "sent_to_accountant"})
}
