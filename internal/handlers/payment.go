package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/services"
)

type PaymentHandler struct {
	DB         *gorm.DB
	Reconciler *services.PaymentReconciler
	PeriodDays int
}

func NewPaymentHandler(db *gorm.DB, reconciler *services.PaymentReconciler, periodDays int) *PaymentHandler {
	return &PaymentHandler{DB: db, Reconciler: reconciler, PeriodDays: periodDays}
}

type recordPaymentReq struct {
	InvoiceID uint            `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Notes     string          `json:"notes"`
}

// Record: POST /payments — the mark-as-paid fast path.
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.InvoiceID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"invoice_id": "required"})
		return
	}
	pay, err := h.Reconciler.RecordPayment(req.InvoiceID, req.Amount, req.Method, req.Notes)
	if err != nil {
		serviceError(w, err, "failed_to_record_payment")
		return
	}
	httpx.JSON(w, http.StatusCreated, pay)
}

type initiatePaymentReq struct {
	SubscriptionID uint `json:"subscription_id"`
	PeriodDays     int  `json:"period_days,omitempty"`
}

// Initiate: POST /payments/initiate — opens a pending subscription period
// payment.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.SubscriptionID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"subscription_id": "required"})
		return
	}
	days := req.PeriodDays
	if days <= 0 {
		days = h.PeriodDays
	}
	pay, err := h.Reconciler.InitiatePeriodPayment(req.SubscriptionID, days)
	if err != nil {
		serviceError(w, err, "failed_to_initiate_payment")
		return
	}
	httpx.JSON(w, http.StatusCreated, pay)
}

// Complete: POST /payments/complete?id=...
func (h *PaymentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	pay, err := h.Reconciler.CompletePendingPayment(id)
	if err != nil {
		serviceError(w, err, "failed_to_complete_payment")
		return
	}
	httpx.JSON(w, http.StatusOK, pay)
}

// Delete: POST /payments/delete?id=... — removes the payment and recomputes
// the parent invoice's paid amount and status.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Reconciler.DeletePayment(id); err != nil {
		serviceError(w, err, "failed_to_delete_payment")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
