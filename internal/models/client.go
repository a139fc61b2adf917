package models

import "time"

// Client entity. State decides domestic vs inter-state GST treatment when
// compared against the business profile's home state.
type Client struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null;index" json:"name"`
	Company        string    `gorm:"index" json:"company,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	BillingAddress string    `gorm:"type:text" json:"billing_address,omitempty"`
	GSTIN          string    `gorm:"size:15;index" json:"gstin,omitempty"`
	State          string    `gorm:"size:50;index" json:"state,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
