package render

import (
	"fmt"
	"strconv"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

// QuantityDisplay renders the quantity suffix for a line item. The same
// text is used for on-screen preview and for the printed document. An
// empty string means no suffix.
func QuantityDisplay(item domain.QuoteItem) string {
	switch item.BillingType {
	case domain.BillingHour:
		// A precomputed effective quantity wins over quantity × duration.
		// The base quantity is never shown alone for hourly items.
		if item.EffectiveQuantity != nil && *item.EffectiveQuantity > 0 {
			return fmt.Sprintf("(%sh)", formatNumber(*item.EffectiveQuantity))
		}
		if item.DurationHours != nil && *item.DurationHours > 0 {
			base := item.Quantity
			if base <= 0 {
				base = 1
			}
			return fmt.Sprintf("(%sh)", formatNumber(base**item.DurationHours))
		}
		return ""
	default: // UNIT, SERVICE
		if item.Quantity > 1 {
			return fmt.Sprintf("(×%s)", formatNumber(item.Quantity))
		}
		return ""
	}
}

// formatNumber prints a quantity without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
