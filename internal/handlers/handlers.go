package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/services"
)

// idParam parses the id query parameter shared by the get/delete/action
// endpoints. Writes the error response itself and returns ok=false.
func idParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}

// serviceError maps the service error taxonomy onto HTTP statuses. The
// fallback message keeps persistence details out of the response body.
func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrValidation):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, services.ErrIntegrity):
		httpx.JSONError(w, http.StatusInternalServerError, "store_integrity", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, fallback, nil)
	}
}

// pagination reads limit/page query params with the list defaults.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}
