package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Payment flows. Direct invoice payments are recorded completed in one step;
// subscription period payments go pending first and are completed later.
const (
	FlowInvoice            = "invoice"
	FlowSubscriptionPeriod = "subscription_period"
)

// Payment tied to an invoice (direct flow) or a subscription (period flow).
// Payments are never edited in place, only created or deleted.
type Payment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	InvoiceID      *uint           `gorm:"index" json:"invoice_id,omitempty"`
	SubscriptionID *uint           `gorm:"index" json:"subscription_id,omitempty"`
	Flow           string          `gorm:"size:30;not null" json:"flow"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status         string          `gorm:"size:20;not null" json:"status"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	Method         string          `gorm:"size:40" json:"method"` // ex: bank transfer, UPI, cheque, cash
	TransactionRef string          `gorm:"size:64;index" json:"transaction_ref,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	PeriodStart    *time.Time      `json:"period_start,omitempty"`
	PeriodEnd      *time.Time      `json:"period_end,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
