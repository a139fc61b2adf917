package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	all := []interface{}{
		&models.BusinessProfile{},
		&models.Client{},
		&models.Subscription{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
	}
	for _, m := range all {
		if err := conn.AutoMigrate(m); err != nil {
			t.Fatalf("migrate %T: %v", m, err)
		}
	}
	return conn
}

func seedProfile(t *testing.T, conn *gorm.DB, homeState string) models.BusinessProfile {
	t.Helper()
	bp := models.BusinessProfile{
		BusinessName:   "Studio North",
		GSTIN:          "29ABCDE1234F1Z5",
		HomeState:      homeState,
		DefaultGSTRate: decimal.NewFromInt(18),
	}
	if err := conn.Create(&bp).Error; err != nil {
		t.Fatalf("profile: %v", err)
	}
	return bp
}

func seedClient(t *testing.T, conn *gorm.DB, name, state string) models.Client {
	t.Helper()
	c := models.Client{Name: name, State: state}
	if err := conn.Create(&c).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func seedInvoice(t *testing.T, conn *gorm.DB, clientID uint, number string, subtotal, gstTotal decimal.Decimal, status string) models.Invoice {
	t.Helper()
	inv := models.Invoice{
		Number:      number,
		InvoiceDate: time.Now(),
		ClientID:    clientID,
		Status:      status,
		Subtotal:    subtotal,
		GSTRate:     decimal.NewFromInt(18),
		GSTTotal:    gstTotal,
		GrandTotal:  subtotal.Add(gstTotal),
		AmountPaid:  decimal.Zero,
	}
	if err := conn.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}
	item := models.InvoiceItem{InvoiceID: inv.ID, ServiceName: "Service", Quantity: 1, Rate: subtotal, Amount: subtotal}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("item: %v", err)
	}
	return inv
}
