package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

const termsEmptyPlaceholder = `<p class="terms-empty"><em>Condiciones comerciales no disponibles</em></p>`

const (
	noteOverpayment    = "El excedente de tu anticipo se abona a tu saldo."
	noteFullSettlement = "Se requiere la liquidación total del contrato."
)

// RenderTermsBlock builds the price/discount/advance/balance/total
// breakdown. Negotiation mode and normal mode are mutually exclusive:
// negotiation suppresses every discount field.
func RenderTermsBlock(terms *domain.CommercialTerms, pricing domain.ResolvedPricing, paymentMethods []string) string {
	var b strings.Builder
	b.WriteString(`<div class="terms-block">`)

	if terms != nil {
		b.WriteString(`<div class="terms-header"><h3>`)
		b.WriteString(html.EscapeString(terms.Name))
		b.WriteString(`</h3>`)
		if desc := strings.TrimSpace(terms.Description); desc != "" {
			b.WriteString(`<p class="terms-description">`)
			b.WriteString(html.EscapeString(desc))
			b.WriteString(`</p>`)
		}
		b.WriteString(`</div>`)
	}

	if pricing.NegotiationMode {
		writeNegotiationRows(&b, pricing)
	} else {
		writeNormalRows(&b, pricing)
	}

	writeAdvanceRows(&b, pricing)

	// The total row always renders and is the most prominent one.
	b.WriteString(`<div class="terms-row terms-total"><strong>TOTAL A PAGAR</strong><strong>`)
	b.WriteString(formatMoney(pricing.TotalAfterDiscount))
	b.WriteString(`</strong></div>`)

	writeAdvanceNote(&b, pricing)

	if len(paymentMethods) > 0 {
		b.WriteString(`<ul class="payment-methods">`)
		for _, method := range paymentMethods {
			b.WriteString(`<li>`)
			b.WriteString(html.EscapeString(method))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func writeNegotiationRows(b *strings.Builder, pricing domain.ResolvedPricing) {
	if pricing.OriginalPrice != nil {
		writeRow(b, "", "Precio original", formatMoney(*pricing.OriginalPrice))
	}
	negotiated := pricing.TotalAfterDiscount
	if pricing.NegotiatedPrice != nil {
		negotiated = *pricing.NegotiatedPrice
	}
	writeRow(b, "terms-negotiated", "Precio especial", formatMoney(negotiated))
	if pricing.SavingsTotal > 0 {
		writeRow(b, "terms-savings", "Ahorro", formatMoney(pricing.SavingsTotal))
	}
}

func writeNormalRows(b *strings.Builder, pricing domain.ResolvedPricing) {
	writeRow(b, "", "Precio", formatMoney(pricing.TotalBeforeDiscount))

	// Any one of the three signals is enough to show the discount row.
	delta := pricing.TotalBeforeDiscount - pricing.TotalAfterDiscount
	showDiscount := pricing.DiscountApplied > 0 ||
		(pricing.DiscountPercentage != nil && *pricing.DiscountPercentage > 0) ||
		delta > 0
	if showDiscount {
		amount := pricing.DiscountApplied
		if amount <= 0 {
			amount = delta
		}
		label := "Descuento"
		if pricing.DiscountPercentage != nil && *pricing.DiscountPercentage > 0 {
			label = fmt.Sprintf("Descuento (%s%%)", formatNumber(*pricing.DiscountPercentage))
		}
		writeRow(b, "terms-discount", label, "-"+formatMoney(amount))
		writeRow(b, "", "Subtotal con descuento", formatMoney(pricing.TotalAfterDiscount))
	}
}

func writeAdvanceRows(b *strings.Builder, pricing domain.ResolvedPricing) {
	if pricing.AdvanceAmount <= 0 {
		return
	}
	if isFullAdvance(pricing) {
		writeRow(b, "terms-advance", "Pago total requerido", formatMoney(pricing.AdvanceAmount))
		return
	}
	label := "Anticipo mínimo"
	if pricing.AdvanceType != nil && *pricing.AdvanceType == domain.AdvancePercentage &&
		pricing.AdvancePercentage != nil && *pricing.AdvancePercentage > 0 {
		label = fmt.Sprintf("Anticipo mínimo (%s%%)", formatNumber(*pricing.AdvancePercentage))
	}
	writeRow(b, "terms-advance", label, formatMoney(pricing.AdvanceAmount))
	if pricing.RemainingBalance > 0 {
		writeRow(b, "terms-balance", "Saldo restante", formatMoney(pricing.RemainingBalance))
	}
}

func writeAdvanceNote(b *strings.Builder, pricing domain.ResolvedPricing) {
	if pricing.AdvanceAmount <= 0 {
		return
	}
	note := noteOverpayment
	if isFullAdvance(pricing) {
		note = noteFullSettlement
	}
	b.WriteString(`<p class="terms-note">`)
	b.WriteString(note)
	b.WriteString(`</p>`)
}

func isFullAdvance(pricing domain.ResolvedPricing) bool {
	return pricing.AdvanceAmount >= pricing.TotalAfterDiscount-0.01
}

func writeRow(b *strings.Builder, class, label, value string) {
	b.WriteString(`<div class="terms-row`)
	if class != "" {
		b.WriteString(" ")
		b.WriteString(class)
	}
	b.WriteString(`"><span>`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</span><span>`)
	b.WriteString(value)
	b.WriteString(`</span></div>`)
}
