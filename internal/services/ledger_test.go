package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/billing-app/internal/models"
)

func newInvoice(clientID uint, number string) (models.Invoice, []models.InvoiceItem) {
	inv := models.Invoice{
		Number:      number,
		InvoiceDate: time.Now(),
		ClientID:    clientID,
		Status:      models.InvoiceDraft,
		Subtotal:    d("1000"),
		GSTRate:     d("18"),
		GSTTotal:    d("180"),
		GrandTotal:  d("1180"),
		Category:    models.CategoryAdhoc,
	}
	items := []models.InvoiceItem{
		{ServiceName: "Web design", Description: "Landing page", Quantity: 1, Rate: d("1000"), Amount: d("1000")},
	}
	return inv, items
}

func TestLedgerCreatePersistsHeaderAndItems(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	ledger := NewInvoiceLedger(conn, nil)

	inv, items := newInvoice(client.ID, "INV-0001")
	require.NoError(t, ledger.Create(&inv, items))
	require.NotZero(t, inv.ID)

	got, err := ledger.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", got.Number)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, "Acme", got.Client.Name)
	assert.True(t, got.GrandTotal.Equal(got.Subtotal.Add(got.GSTTotal)))
}

func TestLedgerCreateRejectsEmptyItems(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	ledger := NewInvoiceLedger(conn, nil)

	inv, _ := newInvoice(client.ID, "INV-0001")
	err := ledger.Create(&inv, nil)
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	conn.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestLedgerCreateRejectsTotalMismatch(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	ledger := NewInvoiceLedger(conn, nil)

	inv, items := newInvoice(client.ID, "INV-0001")
	inv.GrandTotal = d("9999")
	assert.ErrorIs(t, ledger.Create(&inv, items), ErrValidation)
}

func TestLedgerCreateRollsBackHeaderWhenItemsFail(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	ledger := NewInvoiceLedger(conn, nil)

	// Simulate item insertion failure: the items table is gone.
	require.NoError(t, conn.Migrator().DropTable(&models.InvoiceItem{}))

	inv, items := newInvoice(client.ID, "INV-0001")
	err := ledger.Create(&inv, items)
	require.Error(t, err)
	assert.Zero(t, inv.ID)

	var count int64
	conn.Model(&models.Invoice{}).Where("number = ?", "INV-0001").Count(&count)
	assert.Zero(t, count, "header must not survive item insert failure")
}

func TestLedgerGetNotFound(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewInvoiceLedger(conn, nil)
	_, err := ledger.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerListNewestFirst(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	seedInvoice(t, conn, client.ID, "INV-0001", d("1000"), d("180"), models.InvoiceDraft)
	seedInvoice(t, conn, client.ID, "INV-0002", d("2000"), d("360"), models.InvoiceDraft)
	ledger := NewInvoiceLedger(conn, nil)

	invs, total, err := ledger.List(50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, invs, 2)
	assert.Equal(t, "INV-0002", invs[0].Number)
}

func TestLedgerDeleteRemovesDependents(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	inv := seedInvoice(t, conn, client.ID, "INV-0001", d("1000"), d("180"), models.InvoiceSent)
	reconciler := NewPaymentReconciler(conn, nil)
	_, err := reconciler.RecordPayment(inv.ID, d("1180"), "bank transfer", "")
	require.NoError(t, err)
	ledger := NewInvoiceLedger(conn, nil)

	require.NoError(t, ledger.Delete(inv.ID))

	var invoices, items, payments int64
	conn.Model(&models.Invoice{}).Count(&invoices)
	conn.Model(&models.InvoiceItem{}).Count(&items)
	conn.Model(&models.Payment{}).Count(&payments)
	assert.Zero(t, invoices)
	assert.Zero(t, items)
	assert.Zero(t, payments)

	assert.ErrorIs(t, ledger.Delete(inv.ID), ErrNotFound)
}

func TestLedgerMarkSentToAccountant(t *testing.T) {
	conn := openTestDB(t)
	client := seedClient(t, conn, "Acme", "Karnataka")
	inv := seedInvoice(t, conn, client.ID, "INV-0001", d("1000"), d("180"), models.InvoiceSent)
	ledger := NewInvoiceLedger(conn, nil)

	require.NoError(t, ledger.MarkSentToAccountant(inv.ID))
	got, err := ledger.Get(inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SentToAccountantAt)
	// status and totals untouched
	assert.Equal(t, models.InvoiceSent, got.Status)

	assert.ErrorIs(t, ledger.MarkSentToAccountant(999), ErrNotFound)
}

func TestLedgerLatestNumber(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewInvoiceLedger(conn, nil)

	last, err := ledger.LatestNumber()
	require.NoError(t, err)
	assert.Empty(t, last)

	client := seedClient(t, conn, "Acme", "Karnataka")
	seedInvoice(t, conn, client.ID, "INV-0001", d("1000"), d("180"), models.InvoiceDraft)
	seedInvoice(t, conn, client.ID, "INV-0002", d("1000"), d("180"), models.InvoiceDraft)

	last, err = ledger.LatestNumber()
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", last)
}
