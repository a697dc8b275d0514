package domain

// AdvanceType distinguishes percentage advances from fixed amounts.
type AdvanceType string

const (
	AdvancePercentage AdvanceType = "percentage"
	AdvanceFixed      AdvanceType = "fixed_amount"
)

// CommercialTerms is the named payment/discount/advance policy attached to
// a quote, as stored.
type CommercialTerms struct {
	Name               string
	Description        string
	DiscountPercentage *float64
	AdvancePercentage  *float64
	AdvanceType        *AdvanceType
	AdvanceAmount      *float64
}

// PricingInput gathers every independent pricing signal the resolver must
// reconcile into one authoritative number set.
type PricingInput struct {
	// PriceList is the catalog base price before any override.
	PriceList float64
	// StoredDiscount is a discount amount already applied to the quote.
	StoredDiscount float64
	// DiscountPercentage is the commercial-terms discount, applied to the
	// pre-discount base.
	DiscountPercentage *float64
	// NegotiatedPrice supersedes discount math entirely when NegotiationMode.
	NegotiationMode bool
	NegotiatedPrice *float64
	OriginalPrice   *float64
	// PackageOrigin triggers charm rounding of the computed total.
	PackageOrigin bool
	// ComplimentaryAmount is the sum of stored subtotals of complimentary
	// items; it contributes zero to the displayed total.
	ComplimentaryAmount float64
	// Bonus is a fixed credit independent of percentage discounts.
	Bonus float64
	// ClosingPrice is the authoritative price recorded at deal close; the
	// printed total must equal it exactly.
	ClosingPrice *float64

	AdvanceType       *AdvanceType
	AdvancePercentage *float64
	AdvanceAmount     *float64
}

// ResolvedPricing is the single authoritative number set consumed by the
// block renderers.
type ResolvedPricing struct {
	TotalBeforeDiscount float64
	TotalAfterDiscount  float64
	DiscountApplied     float64
	DiscountPercentage  *float64
	AdvanceType         *AdvanceType
	AdvancePercentage   *float64
	AdvanceAmount       float64
	RemainingBalance    float64
	NegotiationMode     bool
	NegotiatedPrice     *float64
	OriginalPrice       *float64
	SavingsTotal        float64
	// ConcessionsPresent tells collaborators to show a concessions
	// explanation; never rendered here.
	ConcessionsPresent bool
}
