package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/config"
	"github.com/agencydesk/billing-app/internal/models"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.BusinessProfile{}, &models.Client{}, &models.Subscription{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{InvoicePrefix: "INV", PeriodDays: 30}
	return New(conn, cfg, nil)
}

func TestHealthEndpoints(t *testing.T) {
	h := testRouter(t)

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := testRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/invoices", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != "GET,POST" {
		t.Fatalf("unexpected Allow header: %q", allow)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/delete", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
}

func TestStatsEndpointsEmptyStore(t *testing.T) {
	h := testRouter(t)

	for _, path := range []string{"/stats/revenue", "/stats/advanced", "/stats/top-clients"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d body=%s", path, w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/report?from=2026-01-01&to=2026-03-31", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("report: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/report?from=bad", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("report: expected 400 got %d", w.Code)
	}
}
