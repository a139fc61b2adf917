package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/models"
	"github.com/agencydesk/billing-app/internal/services"
	"github.com/agencydesk/billing-app/internal/validation"
)

// SettingsHandler exposes the business profile: home state, default GST rate,
// accountant contact and bank details stamped onto generated invoices.
type SettingsHandler struct {
	Profile *services.ProfileService
}

func NewSettingsHandler(profile *services.ProfileService) *SettingsHandler {
	return &SettingsHandler{Profile: profile}
}

// Get: GET /settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	bp, err := h.Profile.Get()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	if bp == nil {
		httpx.JSONError(w, http.StatusNotFound, "profile_not_configured", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, bp)
}

// Save: POST /settings — creates the profile on first call, updates after.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in models.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("business_name", in.BusinessName, v)
	validation.NonNegativeDecimal("default_gst_rate", in.DefaultGSTRate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	bp, err := h.Profile.Save(&in)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, bp)
}
