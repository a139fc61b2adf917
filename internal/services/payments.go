package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
)

// paidEpsilon absorbs rounding drift between a recorded payment and the
// invoice grand total: anything within half a rupee counts as settled.
var paidEpsilon = decimal.RequireFromString("0.5")

// PaymentReconciler records and deletes payments and keeps each invoice's
// AmountPaid and status consistent with its surviving payment set.
//
// Status machine: draft/sent -> paid on sufficient payment, paid -> sent when
// a deletion drops the paid amount below the total. There is no re-entry to
// draft from paid.
type PaymentReconciler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewPaymentReconciler(db *gorm.DB, log *zap.Logger) *PaymentReconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentReconciler{DB: db, Log: log}
}

// RecordPayment is the mark-as-paid fast path: a completed payment dated now,
// with the invoice stamped paid regardless of whether the amount covers the
// grand total. Partial and over-payments are recorded as-is.
func (r *PaymentReconciler) RecordPayment(invoiceID uint, amount decimal.Decimal, method, notes string) (*models.Payment, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("payment amount must be positive: %w", ErrValidation)
	}
	var inv models.Invoice
	if err := r.DB.First(&inv, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return nil, err
	}
	now := time.Now()
	pay := models.Payment{
		InvoiceID:   &inv.ID,
		Flow:        models.FlowInvoice,
		Amount:      amount,
		Status:      models.PaymentCompleted,
		PaymentDate: &now,
		Method:      method,
		Notes:       notes,
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pay).Error; err != nil {
			return err
		}
		return tx.Model(&inv).Updates(map[string]any{
			"amount_paid": amount,
			"status":      models.InvoicePaid,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record payment for invoice %d: %w", invoiceID, err)
	}
	return &pay, nil
}

// InitiatePeriodPayment opens a pending payment covering the subscription's
// next billing period. Period start is the current period end, or now when
// the subscription has never been billed. Nothing else changes until the
// payment completes.
func (r *PaymentReconciler) InitiatePeriodPayment(subscriptionID uint, periodDays int) (*models.Payment, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	var sub models.Subscription
	if err := r.DB.First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscription %d: %w", subscriptionID, ErrNotFound)
		}
		return nil, err
	}
	start := time.Now()
	if sub.CurrentPeriodEnd != nil {
		start = *sub.CurrentPeriodEnd
	}
	end := start.AddDate(0, 0, periodDays)
	gst := ComputeGST(sub.MonthlyRate, sub.GSTRate, false)
	pay := models.Payment{
		SubscriptionID: &sub.ID,
		Flow:           models.FlowSubscriptionPeriod,
		Amount:         sub.MonthlyRate.Add(gst.Total),
		Status:         models.PaymentPending,
		PeriodStart:    &start,
		PeriodEnd:      &end,
	}
	if err := r.DB.Create(&pay).Error; err != nil {
		return nil, fmt.Errorf("initiate period payment for subscription %d: %w", subscriptionID, err)
	}
	return &pay, nil
}

// CompletePendingPayment settles a pending period payment: stamps the date
// and a generated transaction reference, then rolls the owning subscription
// forward to the payment's period bounds.
func (r *PaymentReconciler) CompletePendingPayment(paymentID uint) (*models.Payment, error) {
	var pay models.Payment
	if err := r.DB.First(&pay, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
		}
		return nil, err
	}
	if pay.Status != models.PaymentPending {
		return nil, fmt.Errorf("payment %d is %s, not pending: %w", paymentID, pay.Status, ErrValidation)
	}
	now := time.Now()
	ref := "TXN-" + uuid.NewString()
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&pay).Updates(map[string]any{
			"status":          models.PaymentCompleted,
			"payment_date":    &now,
			"transaction_ref": ref,
		}).Error; err != nil {
			return err
		}
		if pay.SubscriptionID == nil {
			return nil
		}
		return tx.Model(&models.Subscription{}).Where("id = ?", *pay.SubscriptionID).Updates(map[string]any{
			"current_period_start": pay.PeriodStart,
			"current_period_end":   pay.PeriodEnd,
			"status":               models.SubscriptionActive,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("complete payment %d: %w", paymentID, err)
	}
	pay.Status = models.PaymentCompleted
	pay.PaymentDate = &now
	pay.TransactionRef = ref
	return &pay, nil
}

// DeletePayment removes a payment and recomputes the parent invoice from the
// full remaining completed-payment set. The recompute re-reads the set rather
// than subtracting the deleted amount, so it stays correct when payments were
// added or removed since the caller last looked.
//
// Known race: two concurrent deletions against one invoice can both read the
// pre-deletion set and write a stale total. The transaction narrows but does
// not close the window on stores without serializable isolation.
func (r *PaymentReconciler) DeletePayment(paymentID uint) error {
	var pay models.Payment
	if err := r.DB.First(&pay, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
		}
		return err
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Payment{}, paymentID).Error; err != nil {
			return err
		}
		if pay.InvoiceID == nil {
			return nil
		}
		var inv models.Invoice
		if err := tx.First(&inv, *pay.InvoiceID).Error; err != nil {
			// invoice already gone: nothing to reconcile
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		var remaining []models.Payment
		if err := tx.Where("invoice_id = ? AND status = ?", inv.ID, models.PaymentCompleted).Find(&remaining).Error; err != nil {
			return err
		}
		paid := decimal.Zero
		for _, p := range remaining {
			paid = paid.Add(p.Amount)
		}
		status := models.InvoiceSent
		if paid.GreaterThanOrEqual(inv.GrandTotal.Sub(paidEpsilon)) {
			status = models.InvoicePaid
		}
		return tx.Model(&inv).Updates(map[string]any{
			"amount_paid": paid,
			"status":      status,
		}).Error
	})
	if err != nil {
		r.Log.Error("payment deletion failed", zap.Uint("payment_id", paymentID), zap.Error(err))
		return fmt.Errorf("delete payment %d: %w", paymentID, err)
	}
	return nil
}
