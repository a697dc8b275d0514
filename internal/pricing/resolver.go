// Package pricing reconciles the independent pricing signals of a quote
// (catalog price, stored discount, commercial-terms discount, negotiation
// override, package rounding, complimentary items, bonus credit, closing
// price) into the one authoritative number set printed on the contract.
package pricing

import (
	"math"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

const (
	// charmStep is the granularity package totals are rounded to.
	charmStep = 50.0
	// congruenceEpsilon bounds acceptable drift from the closing price.
	congruenceEpsilon = 0.01
	// adjustmentThreshold separates a real price adjustment from rounding
	// noise when deciding whether concessions are present.
	adjustmentThreshold = 1.0
)

// Resolve computes the authoritative totals. Precedence when multiple
// signals are present: negotiation override, then closing-price
// correction, then commercial-terms discount, then stored discount, then
// the raw catalog price. A later stage only runs when no earlier stage
// already fixed the total.
func Resolve(in domain.PricingInput) domain.ResolvedPricing {
	// Complimentary items contribute zero to every displayed amount; their
	// stored subtotals stay untouched on the quote itself.
	displayedBase := roundCents(in.PriceList - in.ComplimentaryAmount)
	if displayedBase < 0 {
		displayedBase = 0
	}

	out := domain.ResolvedPricing{
		TotalBeforeDiscount: displayedBase,
		NegotiationMode:     in.NegotiationMode,
		NegotiatedPrice:     in.NegotiatedPrice,
		OriginalPrice:       in.OriginalPrice,
		AdvanceType:         in.AdvanceType,
		AdvancePercentage:   in.AdvancePercentage,
		DiscountPercentage:  in.DiscountPercentage,
	}

	var total float64
	var adjustment float64

	switch {
	case in.NegotiationMode && in.NegotiatedPrice != nil:
		// Manually agreed price supersedes all discount math.
		total = roundCents(*in.NegotiatedPrice)
		if in.OriginalPrice != nil {
			out.TotalBeforeDiscount = roundCents(*in.OriginalPrice)
			if savings := roundCents(*in.OriginalPrice - total); savings > 0 {
				out.SavingsTotal = savings
			}
		}
		out.DiscountPercentage = nil

	default:
		total = displayedBase
		if in.DiscountPercentage != nil && *in.DiscountPercentage > 0 {
			out.DiscountApplied = roundCents(displayedBase * *in.DiscountPercentage / 100)
			total = roundCents(displayedBase - out.DiscountApplied)
		} else if in.StoredDiscount > 0 {
			out.DiscountApplied = roundCents(in.StoredDiscount)
			total = roundCents(displayedBase - in.StoredDiscount)
		}
		if in.Bonus > 0 {
			total = roundCents(total - in.Bonus)
		}
		if total < 0 {
			total = 0
		}
		if in.PackageOrigin {
			charmed := charmRound(total)
			adjustment += charmed - total
			total = charmed
		}
		if in.ClosingPrice != nil {
			closing := roundCents(*in.ClosingPrice)
			if math.Abs(total-closing) > congruenceEpsilon {
				adjustment += closing - total
				total = closing
			} else {
				// Within epsilon the closing price still wins verbatim.
				total = closing
			}
		}
	}

	out.TotalAfterDiscount = total

	// Advances are re-derived against the final total so a closing-price
	// correction rescales percentage advances; fixed amounts pass through.
	switch {
	case in.AdvanceType != nil && *in.AdvanceType == domain.AdvancePercentage && in.AdvancePercentage != nil && *in.AdvancePercentage > 0:
		out.AdvanceAmount = roundCents(total * *in.AdvancePercentage / 100)
	case in.AdvanceType != nil && *in.AdvanceType == domain.AdvanceFixed && in.AdvanceAmount != nil:
		out.AdvanceAmount = roundCents(*in.AdvanceAmount)
	case in.AdvanceAmount != nil:
		out.AdvanceAmount = roundCents(*in.AdvanceAmount)
	}
	out.RemainingBalance = roundCents(total - out.AdvanceAmount)
	if out.RemainingBalance < 0 {
		out.RemainingBalance = 0
	}

	out.ConcessionsPresent = in.PriceList > 0 &&
		(in.ComplimentaryAmount > 0 || in.Bonus > 0 || math.Abs(adjustment) > adjustmentThreshold)

	return out
}

// charmRound snaps a computed package total to the nearest display-tuned
// step.
func charmRound(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Round(v/charmStep) * charmStep
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
