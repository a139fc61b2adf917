package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// GSTBreakup is the tax split for one taxable amount. Exactly one of the two
// bucket pairs is non-zero: CGST+SGST for intra-state supplies, IGST for
// inter-state ones. CGST+SGST+IGST always equals Total.
type GSTBreakup struct {
	CGST  decimal.Decimal `json:"cgst"`
	SGST  decimal.Decimal `json:"sgst"`
	IGST  decimal.Decimal `json:"igst"`
	Total decimal.Decimal `json:"total"`
}

// ComputeGST splits the tax on amount at ratePercent. Negative inputs are
// clamped to zero rather than rejected, so callers never see an error from a
// pure rate computation. Totals are rounded half-up to the paisa; the odd
// paisa on a domestic split lands in CGST so the buckets sum exactly.
func ComputeGST(amount, ratePercent decimal.Decimal, interState bool) GSTBreakup {
	if amount.Sign() < 0 {
		amount = decimal.Zero
	}
	if ratePercent.Sign() < 0 {
		ratePercent = decimal.Zero
	}
	total := amount.Mul(ratePercent).Div(decimal.NewFromInt(100)).Round(2)
	if interState {
		return GSTBreakup{CGST: decimal.Zero, SGST: decimal.Zero, IGST: total, Total: total}
	}
	half := total.Div(two).Round(2)
	return GSTBreakup{CGST: total.Sub(half), SGST: half, IGST: decimal.Zero, Total: total}
}

// IsInterState reports whether a supply crosses state lines. Comparison is
// trimmed and case-insensitive. A blank state on either side counts as
// domestic; that keeps unconfigured profiles on the conservative CGST/SGST
// split. TODO: revisit the blank-state default once client state becomes a
// required field.
func IsInterState(clientState, homeState string) bool {
	c := strings.ToLower(strings.TrimSpace(clientState))
	h := strings.ToLower(strings.TrimSpace(homeState))
	if c == "" || h == "" {
		return false
	}
	return c != h
}
