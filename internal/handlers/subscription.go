package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/models"
	"github.com/agencydesk/billing-app/internal/services"
	"github.com/agencydesk/billing-app/internal/validation"
)

type SubscriptionHandler struct {
	DB     *gorm.DB
	Biller *services.SubscriptionBiller
}

func NewSubscriptionHandler(db *gorm.DB, biller *services.SubscriptionBiller) *SubscriptionHandler {
	return &SubscriptionHandler{DB: db, Biller: biller}
}

// List: GET /subscriptions
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	var total int64
	h.DB.Model(&models.Subscription{}).Count(&total)
	var subs []models.Subscription
	if err := h.DB.Preload("Client").Order("created_at desc").Limit(limit).Offset(offset).Find(&subs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_subscriptions", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": subs, "total": total, "limit": limit, "offset": offset})
}

type subscriptionCreateReq struct {
	ClientID    uint            `json:"client_id"`
	ServiceName string          `json:"service_name"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
}

// Create: POST /subscriptions
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req subscriptionCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("service_name", req.ServiceName, v)
	validation.PositiveDecimal("monthly_rate", req.MonthlyRate, v)
	validation.NonNegativeDecimal("gst_rate", req.GSTRate, v)
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_client", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_client", nil)
		return
	}
	sub := models.Subscription{
		ClientID:    client.ID,
		ServiceName: req.ServiceName,
		MonthlyRate: req.MonthlyRate,
		GSTRate:     req.GSTRate,
		Status:      models.SubscriptionActive,
	}
	if err := h.DB.Create(&sub).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_subscription", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, sub)
}

// GenerateInvoice: POST /subscriptions/generate-invoice?id=...
func (h *SubscriptionHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	inv, err := h.Biller.GenerateInvoice(id)
	if err != nil {
		serviceError(w, err, "failed_to_generate_invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Delete: POST /subscriptions/delete?id=... — already-generated invoices
// stay behind as historical records.
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Subscription{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_subscription", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
