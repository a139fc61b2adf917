package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
)

// SubscriptionBiller turns a recurring agreement into a draft invoice and
// advances the last-invoiced marker.
type SubscriptionBiller struct {
	DB      *gorm.DB
	Ledger  *InvoiceLedger
	Profile *ProfileService
	Prefix  string
	Log     *zap.Logger
}

func NewSubscriptionBiller(db *gorm.DB, ledger *InvoiceLedger, profile *ProfileService, prefix string, log *zap.Logger) *SubscriptionBiller {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubscriptionBiller{DB: db, Ledger: ledger, Profile: profile, Prefix: prefix, Log: log}
}

// GenerateInvoice builds a single-line draft invoice from the subscription:
// quantity 1 at the monthly rate, due in 7 days, tagged as a subscription
// invoice. The subscription is stamped only after the invoice is safely
// persisted; any earlier failure leaves it untouched. The stamp itself is
// best-effort — the invoice is the valuable artifact and is never rolled back
// because a timestamp update failed.
func (b *SubscriptionBiller) GenerateInvoice(subscriptionID uint) (*models.Invoice, error) {
	var sub models.Subscription
	if err := b.DB.Preload("Client").First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscription %d: %w", subscriptionID, ErrNotFound)
		}
		return nil, err
	}
	homeState := ""
	profile, err := b.Profile.Get()
	if err != nil {
		return nil, fmt.Errorf("load business profile: %w", err)
	}
	if profile != nil {
		homeState = profile.HomeState
	}

	interState := IsInterState(sub.Client.State, homeState)
	gst := ComputeGST(sub.MonthlyRate, sub.GSTRate, interState)

	last, err := b.Ledger.LatestNumber()
	if err != nil {
		return nil, fmt.Errorf("look up last invoice number: %w", err)
	}
	number := NextInvoiceNumber(last, b.Prefix)

	now := time.Now()
	due := now.AddDate(0, 0, 7)
	terms := ""
	if profile != nil && profile.BankAccount != "" {
		terms = fmt.Sprintf("Payable to %s, a/c %s, IFSC %s", profile.BankName, profile.BankAccount, profile.BankIFSC)
	}
	inv := models.Invoice{
		Number:      number,
		InvoiceDate: now,
		DueDate:     &due,
		ClientID:    sub.ClientID,
		Status:      models.InvoiceDraft,
		Subtotal:    sub.MonthlyRate,
		GSTRate:     sub.GSTRate,
		GSTTotal:    gst.Total,
		GrandTotal:  sub.MonthlyRate.Add(gst.Total),
		Terms:       terms,
		Category:    models.CategorySubscription,
	}
	items := []models.InvoiceItem{{
		ServiceName: sub.ServiceName,
		Description: fmt.Sprintf("Monthly retainer for %s", sub.ServiceName),
		Quantity:    1,
		Rate:        sub.MonthlyRate,
		Amount:      sub.MonthlyRate,
	}}
	if err := b.Ledger.Create(&inv, items); err != nil {
		return nil, err
	}

	if err := b.DB.Model(&models.Subscription{}).Where("id = ?", sub.ID).
		Update("last_invoice_date", &now).Error; err != nil {
		// best-effort: invoice exists, only the marker is stale
		b.Log.Warn("failed to stamp last_invoice_date",
			zap.Uint("subscription_id", sub.ID), zap.String("invoice", inv.Number), zap.Error(err))
	}
	return &inv, nil
}
