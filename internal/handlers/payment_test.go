package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
	"github.com/agencydesk/billing-app/internal/services"
)

func seedSentInvoice(t *testing.T, conn *gorm.DB, clientID uint) models.Invoice {
	t.Helper()
	inv := models.Invoice{
		Number:      "INV-0001",
		InvoiceDate: time.Now(),
		ClientID:    clientID,
		Status:      models.InvoiceSent,
		Subtotal:    decimal.NewFromInt(1000),
		GSTRate:     decimal.NewFromInt(18),
		GSTTotal:    decimal.NewFromInt(180),
		GrandTotal:  decimal.NewFromInt(1180),
		AmountPaid:  decimal.Zero,
	}
	if err := conn.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}
	return inv
}

func TestPaymentRecordAndDelete(t *testing.T) {
	conn := setupTestDB(t)
	_, client := seedFixtures(t, conn)
	inv := seedSentInvoice(t, conn, client.ID)
	h := NewPaymentHandler(conn, services.NewPaymentReconciler(conn, nil), 30)

	body := `{"invoice_id":` + strconv.Itoa(int(inv.ID)) + `,"amount":"700","method":"UPI"}`
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Record(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var pay models.Payment
	if err := json.Unmarshal(w.Body.Bytes(), &pay); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var got models.Invoice
	if err := conn.First(&got, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.InvoicePaid {
		t.Fatalf("expected paid got %s", got.Status)
	}
	if !got.AmountPaid.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("expected 700 got %s", got.AmountPaid)
	}

	delReq := httptest.NewRequest(http.MethodPost, "/payments/delete?id="+strconv.Itoa(int(pay.ID)), nil)
	delW := httptest.NewRecorder()
	h.Delete(delW, delReq)
	if delW.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", delW.Code, delW.Body.String())
	}
	if err := conn.First(&got, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.InvoiceSent {
		t.Fatalf("expected sent after deletion got %s", got.Status)
	}
	if !got.AmountPaid.IsZero() {
		t.Fatalf("expected zero paid got %s", got.AmountPaid)
	}
}

func TestPaymentInitiateAndComplete(t *testing.T) {
	conn := setupTestDB(t)
	_, client := seedFixtures(t, conn)
	sub := models.Subscription{
		ClientID:    client.ID,
		ServiceName: "SEO retainer",
		MonthlyRate: decimal.NewFromInt(5000),
		GSTRate:     decimal.NewFromInt(18),
		Status:      models.SubscriptionActive,
	}
	if err := conn.Create(&sub).Error; err != nil {
		t.Fatalf("subscription: %v", err)
	}
	h := NewPaymentHandler(conn, services.NewPaymentReconciler(conn, nil), 30)

	body := `{"subscription_id":` + strconv.Itoa(int(sub.ID)) + `}`
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Initiate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("initiate: %d %s", w.Code, w.Body.String())
	}
	var pending models.Payment
	if err := json.Unmarshal(w.Body.Bytes(), &pending); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pending.Status != models.PaymentPending {
		t.Fatalf("expected pending got %s", pending.Status)
	}

	compReq := httptest.NewRequest(http.MethodPost, "/payments/complete?id="+strconv.Itoa(int(pending.ID)), nil)
	compW := httptest.NewRecorder()
	h.Complete(compW, compReq)
	if compW.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", compW.Code, compW.Body.String())
	}
	var done models.Payment
	if err := json.Unmarshal(compW.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if done.Status != models.PaymentCompleted || done.TransactionRef == "" {
		t.Fatalf("unexpected completed payment: %#v", done)
	}

	var gotSub models.Subscription
	if err := conn.First(&gotSub, sub.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if gotSub.CurrentPeriodEnd == nil {
		t.Fatalf("subscription period not advanced")
	}

	// completing again must fail
	againW := httptest.NewRecorder()
	h.Complete(againW, httptest.NewRequest(http.MethodPost, "/payments/complete?id="+strconv.Itoa(int(pending.ID)), nil))
	if againW.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", againW.Code)
	}
}

func TestPaymentRecordUnknownInvoice(t *testing.T) {
	conn := setupTestDB(t)
	seedFixtures(t, conn)
	h := NewPaymentHandler(conn, services.NewPaymentReconciler(conn, nil), 30)

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"invoice_id":99,"amount":"100"}`))
	w := httptest.NewRecorder()
	h.Record(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
