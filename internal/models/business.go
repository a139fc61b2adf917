package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessProfile is the single issuing-business record: home state for the
// GST split, defaults and banking details stamped onto generated invoices.
type BusinessProfile struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BusinessName    string          `gorm:"not null" json:"business_name"`
	GSTIN           string          `gorm:"size:15" json:"gstin,omitempty"`
	HomeState       string          `gorm:"size:50" json:"home_state"`
	DefaultGSTRate  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"default_gst_rate"`
	AccountantEmail string          `json:"accountant_email,omitempty"`
	BankName        string          `json:"bank_name,omitempty"`
	BankAccount     string          `json:"bank_account,omitempty"`
	BankIFSC        string          `gorm:"size:11" json:"bank_ifsc,omitempty"`
	Address         string          `gorm:"type:text" json:"address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
