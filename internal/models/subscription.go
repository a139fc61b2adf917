package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// Subscription is a recurring service agreement. The biller turns it into
// invoices; generated invoices remain independent historical records when the
// subscription is deleted.
type Subscription struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ClientID           uint            `gorm:"not null;index" json:"client_id"`
	Client             Client          `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ServiceName        string          `gorm:"not null" json:"service_name"`
	MonthlyRate        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_rate"`
	GSTRate            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"gst_rate"`
	Status             string          `gorm:"size:20;not null;default:'active'" json:"status"`
	LastInvoiceDate    *time.Time      `json:"last_invoice_date,omitempty"`
	CurrentPeriodStart *time.Time      `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time      `json:"current_period_end,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
