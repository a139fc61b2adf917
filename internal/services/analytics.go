package services

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
)

// AnalyticsAggregator computes read-side rollups over invoices, payments and
// clients. It never writes.
type AnalyticsAggregator struct {
	DB      *gorm.DB
	Profile *ProfileService
}

func NewAnalyticsAggregator(db *gorm.DB, profile *ProfileService) *AnalyticsAggregator {
	return &AnalyticsAggregator{DB: db, Profile: profile}
}

type RevenueStats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	CollectedGST  decimal.Decimal `json:"collected_gst"`
	PendingGST    decimal.Decimal `json:"pending_gst"`
	InvoiceCounts map[string]int  `json:"invoice_counts"`
}

// RevenueStats counts only paid invoices as revenue; draft and sent invoices
// contribute to pending GST instead.
func (a *AnalyticsAggregator) RevenueStats() (*RevenueStats, error) {
	var invoices []models.Invoice
	if err := a.DB.Find(&invoices).Error; err != nil {
		return nil, err
	}
	stats := &RevenueStats{
		TotalRevenue:  decimal.Zero,
		CollectedGST:  decimal.Zero,
		PendingGST:    decimal.Zero,
		InvoiceCounts: lo.CountValuesBy(invoices, func(inv models.Invoice) string { return inv.Status }),
	}
	for _, inv := range invoices {
		if inv.Status == models.InvoicePaid {
			stats.TotalRevenue = stats.TotalRevenue.Add(inv.GrandTotal)
			stats.CollectedGST = stats.CollectedGST.Add(inv.GSTTotal)
		} else {
			stats.PendingGST = stats.PendingGST.Add(inv.GSTTotal)
		}
	}
	return stats, nil
}

type AdvancedStats struct {
	CGSTLiability    decimal.Decimal `json:"cgst_liability"`
	SGSTLiability    decimal.Decimal `json:"sgst_liability"`
	IGSTLiability    decimal.Decimal `json:"igst_liability"`
	TotalClients     int             `json:"total_clients"`
	ReturningClients int             `json:"returning_clients"`
}

// AdvancedStats recomputes the CGST/SGST/IGST attribution per invoice from
// the invoice's client state against the current business home state. The
// split is derived, not snapshotted: moving the business to another state
// reattributes historical invoices. A client is returning once it appears on
// more than one invoice of any status.
func (a *AnalyticsAggregator) AdvancedStats() (*AdvancedStats, error) {
	profile, err := a.Profile.Get()
	if err != nil {
		return nil, err
	}
	homeState := ""
	if profile != nil {
		homeState = profile.HomeState
	}
	var invoices []models.Invoice
	if err := a.DB.Preload("Client").Find(&invoices).Error; err != nil {
		return nil, err
	}
	var totalClients int64
	if err := a.DB.Model(&models.Client{}).Count(&totalClients).Error; err != nil {
		return nil, err
	}
	stats := &AdvancedStats{
		CGSTLiability: decimal.Zero,
		SGSTLiability: decimal.Zero,
		IGSTLiability: decimal.Zero,
		TotalClients:  int(totalClients),
	}
	for _, inv := range invoices {
		gst := ComputeGST(inv.Subtotal, inv.GSTRate, IsInterState(inv.Client.State, homeState))
		stats.CGSTLiability = stats.CGSTLiability.Add(gst.CGST)
		stats.SGSTLiability = stats.SGSTLiability.Add(gst.SGST)
		stats.IGSTLiability = stats.IGSTLiability.Add(gst.IGST)
	}
	perClient := lo.CountValuesBy(invoices, func(inv models.Invoice) uint { return inv.ClientID })
	stats.ReturningClients = lo.CountBy(lo.Values(perClient), func(n int) bool { return n > 1 })
	return stats, nil
}

type ClientRevenue struct {
	ClientID uint            `json:"client_id"`
	Name     string          `json:"name"`
	Company  string          `json:"company,omitempty"`
	Invoices int             `json:"invoices"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// TopClients ranks clients by paid-invoice revenue, highest first.
func (a *AnalyticsAggregator) TopClients(n int) ([]ClientRevenue, error) {
	if n <= 0 {
		n = 5
	}
	var invoices []models.Invoice
	if err := a.DB.Preload("Client").Where("status = ?", models.InvoicePaid).Find(&invoices).Error; err != nil {
		return nil, err
	}
	byClient := lo.GroupBy(invoices, func(inv models.Invoice) uint { return inv.ClientID })
	ranked := lo.MapToSlice(byClient, func(id uint, invs []models.Invoice) ClientRevenue {
		revenue := lo.Reduce(invs, func(acc decimal.Decimal, inv models.Invoice, _ int) decimal.Decimal {
			return acc.Add(inv.GrandTotal)
		}, decimal.Zero)
		return ClientRevenue{
			ClientID: id,
			Name:     invs[0].Client.Name,
			Company:  invs[0].Client.Company,
			Invoices: len(invs),
			Revenue:  revenue,
		}
	})
	// highest revenue first; stable enough for a dashboard list
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].Revenue.GreaterThan(ranked[i].Revenue) {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

type ReportData struct {
	From             time.Time        `json:"from"`
	To               time.Time        `json:"to"`
	InvoiceCount     int              `json:"invoice_count"`
	Revenue          decimal.Decimal  `json:"revenue"`
	GST              decimal.Decimal  `json:"gst"`
	PaymentsReceived decimal.Decimal  `json:"payments_received"`
	Invoices         []models.Invoice `json:"invoices"`
}

// ReportData summarizes invoices issued and payments completed in the range.
func (a *AnalyticsAggregator) ReportData(from, to time.Time) (*ReportData, error) {
	var invoices []models.Invoice
	if err := a.DB.Preload("Client").
		Where("invoice_date >= ? AND invoice_date <= ?", from, to).
		Order("invoice_date asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	var payments []models.Payment
	if err := a.DB.Where("status = ? AND payment_date >= ? AND payment_date <= ?",
		models.PaymentCompleted, from, to).Find(&payments).Error; err != nil {
		return nil, err
	}
	report := &ReportData{
		From:             from,
		To:               to,
		InvoiceCount:     len(invoices),
		Revenue:          decimal.Zero,
		GST:              decimal.Zero,
		PaymentsReceived: decimal.Zero,
		Invoices:         invoices,
	}
	for _, inv := range invoices {
		if inv.Status == models.InvoicePaid {
			report.Revenue = report.Revenue.Add(inv.GrandTotal)
		}
		report.GST = report.GST.Add(inv.GSTTotal)
	}
	for _, p := range payments {
		report.PaymentsReceived = report.PaymentsReceived.Add(p.Amount)
	}
	return report, nil
}
