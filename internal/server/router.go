package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/config"
	"github.com/agencydesk/billing-app/internal/handlers"
	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – no detailed error in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	profileSvc := services.NewProfileService(db)
	ledger := services.NewInvoiceLedger(db, log)
	reconciler := services.NewPaymentReconciler(db, log)
	biller := services.NewSubscriptionBiller(db, ledger, profileSvc, cfg.InvoicePrefix, log)
	analytics := services.NewAnalyticsAggregator(db, profileSvc)

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(db, ledger, profileSvc, cfg.InvoicePrefix)
	mux.HandleFunc("/invoices", listCreate(ih.List, ih.Create))
	mux.HandleFunc("/invoices/get", getOnly(ih.Get))
	mux.HandleFunc("/invoices/delete", postOnly(ih.Delete))
	mux.HandleFunc("/invoices/send-accountant", postOnly(ih.SendToAccountant))

	// Payment endpoints
	ph := handlers.NewPaymentHandler(db, reconciler, cfg.PeriodDays)
	mux.HandleFunc("/payments", postOnly(ph.Record))
	mux.HandleFunc("/payments/initiate", postOnly(ph.Initiate))
	mux.HandleFunc("/payments/complete", postOnly(ph.Complete))
	mux.HandleFunc("/payments/delete", postOnly(ph.Delete))

	// Subscription endpoints
	sh := handlers.NewSubscriptionHandler(db, biller)
	mux.HandleFunc("/subscriptions", listCreate(sh.List, sh.Create))
	mux.HandleFunc("/subscriptions/generate-invoice", postOnly(sh.GenerateInvoice))
	mux.HandleFunc("/subscriptions/delete", postOnly(sh.Delete))

	// Read-side stats
	st := handlers.NewStatsHandler(analytics)
	mux.HandleFunc("/stats/revenue", getOnly(st.Revenue))
	mux.HandleFunc("/stats/advanced", getOnly(st.Advanced))
	mux.HandleFunc("/stats/top-clients", getOnly(st.TopClients))
	mux.HandleFunc("/stats/report", getOnly(st.Report))

	// Supporting resources
	ch := handlers.NewClientHandler(db)
	mux.HandleFunc("/clients", listCreate(ch.List, ch.Create))
	se := handlers.NewSettingsHandler(profileSvc)
	mux.HandleFunc("/settings", listCreate(se.Get, se.Save))

	return withRecover(withLogging(mux, log), log)
}

func listCreate(get, post http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			get(w, r)
		case http.MethodPost:
			post(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
