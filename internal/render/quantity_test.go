package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

func f64(v float64) *float64 { return &v }

func TestQuantityDisplayHourly(t *testing.T) {
	tests := []struct {
		name string
		item domain.QuoteItem
		want string
	}{
		{
			name: "duration with default quantity",
			item: domain.QuoteItem{BillingType: domain.BillingHour, Quantity: 1, DurationHours: f64(5)},
			want: "(5h)",
		},
		{
			name: "duration multiplied by quantity",
			item: domain.QuoteItem{BillingType: domain.BillingHour, Quantity: 2, DurationHours: f64(3)},
			want: "(6h)",
		},
		{
			name: "effective quantity wins over derivation",
			item: domain.QuoteItem{BillingType: domain.BillingHour, Quantity: 2, DurationHours: f64(3), EffectiveQuantity: f64(7)},
			want: "(7h)",
		},
		{
			name: "zero quantity defaults to one",
			item: domain.QuoteItem{BillingType: domain.BillingHour, Quantity: 0, DurationHours: f64(4)},
			want: "(4h)",
		},
		{
			name: "no duration and no effective quantity",
			item: domain.QuoteItem{BillingType: domain.BillingHour, Quantity: 3},
			want: "",
		},
		{
			name: "fractional hours keep no trailing zeros",
			item: domain.QuoteItem{BillingType: domain.BillingHour, EffectiveQuantity: f64(2.5)},
			want: "(2.5h)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuantityDisplay(tt.item))
		})
	}
}

func TestQuantityDisplayCountable(t *testing.T) {
	tests := []struct {
		name string
		item domain.QuoteItem
		want string
	}{
		{
			name: "single unit shows nothing",
			item: domain.QuoteItem{BillingType: domain.BillingUnit, Quantity: 1},
			want: "",
		},
		{
			name: "multiple units",
			item: domain.QuoteItem{BillingType: domain.BillingUnit, Quantity: 3},
			want: "(×3)",
		},
		{
			name: "single service shows nothing",
			item: domain.QuoteItem{BillingType: domain.BillingService, Quantity: 1},
			want: "",
		},
		{
			name: "multiple services",
			item: domain.QuoteItem{BillingType: domain.BillingService, Quantity: 2},
			want: "(×2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuantityDisplay(tt.item))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$12,500.00", formatMoney(12500))
	assert.Equal(t, "$0.00", formatMoney(0))
	assert.Equal(t, "$1,234,567.89", formatMoney(1234567.89))
	assert.Equal(t, "$999.50", formatMoney(999.5))
}
