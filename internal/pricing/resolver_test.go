package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

func f64(v float64) *float64 { return &v }

func adv(t domain.AdvanceType) *domain.AdvanceType { return &t }

func TestResolveRawCatalogPrice(t *testing.T) {
	out := Resolve(domain.PricingInput{PriceList: 12500})

	assert.Equal(t, 12500.0, out.TotalBeforeDiscount)
	assert.Equal(t, 12500.0, out.TotalAfterDiscount)
	assert.Equal(t, 0.0, out.DiscountApplied)
	assert.Equal(t, 0.0, out.AdvanceAmount)
	assert.Equal(t, 12500.0, out.RemainingBalance)
	assert.False(t, out.ConcessionsPresent)
}

func TestResolvePercentageDiscountWinsOverStored(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:          10000,
		StoredDiscount:     700,
		DiscountPercentage: f64(10),
	})

	assert.Equal(t, 1000.0, out.DiscountApplied)
	assert.Equal(t, 9000.0, out.TotalAfterDiscount)
}

func TestResolveStoredDiscountFallback(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:      10000,
		StoredDiscount: 700,
	})

	assert.Equal(t, 700.0, out.DiscountApplied)
	assert.Equal(t, 9300.0, out.TotalAfterDiscount)
}

func TestResolveNegotiationOverridesDiscounts(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:          10000,
		DiscountPercentage: f64(15),
		NegotiationMode:    true,
		NegotiatedPrice:    f64(8000),
		OriginalPrice:      f64(10000),
	})

	assert.Equal(t, 8000.0, out.TotalAfterDiscount)
	assert.Equal(t, 10000.0, out.TotalBeforeDiscount)
	assert.Equal(t, 2000.0, out.SavingsTotal)
	assert.Nil(t, out.DiscountPercentage)
	assert.Equal(t, 0.0, out.DiscountApplied)
}

func TestResolveNegotiationWithoutSavings(t *testing.T) {
	out := Resolve(domain.PricingInput{
		NegotiationMode: true,
		NegotiatedPrice: f64(9500),
		OriginalPrice:   f64(9500),
	})

	assert.Equal(t, 9500.0, out.TotalAfterDiscount)
	assert.Equal(t, 0.0, out.SavingsTotal)
}

func TestResolveClosingPriceIsAuthoritative(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:          10000,
		DiscountPercentage: f64(10),
		ClosingPrice:       f64(8990),
		AdvanceType:        adv(domain.AdvancePercentage),
		AdvancePercentage:  f64(30),
	})

	assert.Equal(t, 8990.0, out.TotalAfterDiscount)
	// Percentage advance rescales against the corrected total.
	assert.Equal(t, 2697.0, out.AdvanceAmount)
	assert.Equal(t, 6293.0, out.RemainingBalance)
}

func TestResolveFixedAdvanceUnchangedByClosingPrice(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:     10000,
		ClosingPrice:  f64(9200),
		AdvanceType:   adv(domain.AdvanceFixed),
		AdvanceAmount: f64(3000),
	})

	assert.Equal(t, 9200.0, out.TotalAfterDiscount)
	assert.Equal(t, 3000.0, out.AdvanceAmount)
	assert.Equal(t, 6200.0, out.RemainingBalance)
}

func TestResolvePercentageAdvance(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:         9000,
		AdvanceType:       adv(domain.AdvancePercentage),
		AdvancePercentage: f64(30),
	})

	assert.Equal(t, 2700.0, out.AdvanceAmount)
	assert.Equal(t, 6300.0, out.RemainingBalance)
}

func TestResolvePackageCharmRounding(t *testing.T) {
	out := Resolve(domain.PricingInput{PriceList: 9960, PackageOrigin: true})
	assert.Equal(t, 9950.0, out.TotalAfterDiscount)

	out = Resolve(domain.PricingInput{PriceList: 9975, PackageOrigin: true})
	assert.Equal(t, 10000.0, out.TotalAfterDiscount)
}

func TestResolveComplimentaryAmountSubtracted(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:           10500,
		ComplimentaryAmount: 500,
	})

	assert.Equal(t, 10000.0, out.TotalBeforeDiscount)
	assert.Equal(t, 10000.0, out.TotalAfterDiscount)
	assert.True(t, out.ConcessionsPresent)
}

func TestResolveBonusIsFixedCredit(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:          10000,
		DiscountPercentage: f64(10),
		Bonus:              300,
	})

	// Bonus is applied after the percentage discount, not compounded.
	assert.Equal(t, 8700.0, out.TotalAfterDiscount)
	assert.True(t, out.ConcessionsPresent)
}

func TestResolveConcessionFlagIgnoresRoundingNoise(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:    10000,
		ClosingPrice: f64(9999.50),
	})

	// Half a peso of closing adjustment is rounding noise, not a concession.
	assert.False(t, out.ConcessionsPresent)

	out = Resolve(domain.PricingInput{
		PriceList:    10000,
		ClosingPrice: f64(9900),
	})
	assert.True(t, out.ConcessionsPresent)
}

func TestResolveNeverReturnsNegativeAmounts(t *testing.T) {
	out := Resolve(domain.PricingInput{
		PriceList:      1000,
		StoredDiscount: 1500,
		AdvanceType:    adv(domain.AdvanceFixed),
		AdvanceAmount:  f64(400),
	})

	assert.Equal(t, 0.0, out.TotalAfterDiscount)
	assert.Equal(t, 0.0, out.RemainingBalance)
}
