package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
	"github.com/agencydesk/billing-app/internal/validation"
)

// InvoiceLedger owns invoice persistence. Header and line items are written
// inside one transaction so an invoice with zero items can never survive a
// partial failure.
type InvoiceLedger struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewInvoiceLedger(db *gorm.DB, log *zap.Logger) *InvoiceLedger {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceLedger{DB: db, Log: log}
}

// Create persists the invoice header and its line items atomically. The
// invoice must carry at least one item with a positive quantity and a
// non-negative rate; GrandTotal must equal Subtotal + GSTTotal.
func (l *InvoiceLedger) Create(inv *models.Invoice, items []models.InvoiceItem) error {
	if inv == nil {
		return fmt.Errorf("nil invoice: %w", ErrValidation)
	}
	if len(items) == 0 {
		return fmt.Errorf("invoice needs at least one line item: %w", ErrValidation)
	}
	v := validation.Violations{}
	validation.Required("number", inv.Number, v)
	validation.NonNegativeDecimal("subtotal", inv.Subtotal, v)
	for i := range items {
		validation.Required("service_name", items[i].ServiceName, v)
		validation.PositiveInt("quantity", items[i].Quantity, v)
		validation.NonNegativeDecimal("rate", items[i].Rate, v)
	}
	if !v.Empty() {
		return fmt.Errorf("invoice %s: %v: %w", inv.Number, v, ErrValidation)
	}
	if !inv.GrandTotal.Equal(inv.Subtotal.Add(inv.GSTTotal)) {
		return fmt.Errorf("invoice %s: grand total %s != subtotal %s + gst %s: %w",
			inv.Number, inv.GrandTotal, inv.Subtotal, inv.GSTTotal, ErrValidation)
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = time.Now()
	}
	err := l.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = inv.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		l.Log.Error("invoice create rolled back", zap.String("number", inv.Number), zap.Error(err))
		inv.ID = 0
		return fmt.Errorf("create invoice %s: %w", inv.Number, err)
	}
	inv.Items = items
	return nil
}

// Get loads one invoice with items and client.
func (l *InvoiceLedger) Get(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := l.DB.Preload("Items").Preload("Client").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns invoices newest first with client display fields preloaded.
func (l *InvoiceLedger) List(limit, offset int) ([]models.Invoice, int64, error) {
	var total int64
	if err := l.DB.Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := l.DB.Preload("Items").Preload("Client").Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var invs []models.Invoice
	if err := q.Find(&invs).Error; err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// Delete removes the invoice and its dependents. sqlite does not enforce
// cascades by default, so payments and items are deleted explicitly before
// the header, all in one transaction.
func (l *InvoiceLedger) Delete(id uint) error {
	var inv models.Invoice
	if err := l.DB.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return err
	}
	return l.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, id).Error
	})
}

// MarkSentToAccountant stamps the forwarded-to-accountant timestamp. No other
// side effects.
func (l *InvoiceLedger) MarkSentToAccountant(id uint) error {
	now := time.Now()
	res := l.DB.Model(&models.Invoice{}).Where("id = ?", id).Update("sent_to_accountant_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	return nil
}

// LatestNumber returns the number of the most recently created invoice, or ""
// when the ledger is empty. Ordered by creation time, not by number: prefix
// changes make lexical order unreliable.
func (l *InvoiceLedger) LatestNumber() (string, error) {
	var inv models.Invoice
	err := l.DB.Select("number").Order("created_at desc, id desc").First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return inv.Number, nil
}
