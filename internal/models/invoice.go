package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
)

// Invoice categories
const (
	CategoryAdhoc        = "Ad-hoc Invoice"
	CategorySubscription = "Subscription Invoice"
)

// Invoice is the billing document. GrandTotal = Subtotal + GSTTotal at
// creation; AmountPaid is always derived from the surviving completed
// payments (see services.PaymentReconciler), never edited by hand.
type Invoice struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Number             string          `gorm:"size:30;uniqueIndex;not null" json:"number"`
	InvoiceDate        time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	ClientID           uint            `gorm:"not null;index" json:"client_id"`
	Client             Client          `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Status             string          `gorm:"size:20;not null;default:'draft'" json:"status"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	GSTRate            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"gst_rate"`
	GSTTotal           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gst_total"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	AmountPaid         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`
	Notes              string          `gorm:"type:text" json:"notes"`
	Terms              string          `gorm:"type:text" json:"terms"`
	SentToAccountantAt *time.Time      `json:"sent_to_accountant_at,omitempty"`
	Category           string          `gorm:"size:40;not null;default:'Ad-hoc Invoice'" json:"category"`
	Items              []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// InvoiceItem lines are created together with their invoice, atomically.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"invoice_id"`
	ServiceName string          `gorm:"not null" json:"service_name"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}
