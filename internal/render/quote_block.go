package render

import (
	"html"
	"sort"
	"strings"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

const quoteEmptyPlaceholder = `<p class="quote-empty"><em>Cotización no disponible</em></p>`

// RenderQuoteBlock builds the hierarchical section → category → item
// rendering of the authorized quote. Unit prices are never shown; only the
// quantity annotation next to the item name. Complimentary items display a
// subtotal of zero regardless of their stored subtotal.
func RenderQuoteBlock(sections []domain.QuoteSection) string {
	if len(sections) == 0 {
		return quoteEmptyPlaceholder
	}

	ordered := append([]domain.QuoteSection(nil), sections...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	var b strings.Builder
	b.WriteString(`<div class="quote-block">`)
	for _, section := range ordered {
		b.WriteString(`<div class="quote-section"><h3>`)
		b.WriteString(html.EscapeString(section.Name))
		b.WriteString(`</h3>`)

		categories := append([]domain.QuoteCategory(nil), section.Categories...)
		sort.SliceStable(categories, func(i, j int) bool { return categories[i].Order < categories[j].Order })

		for _, category := range categories {
			b.WriteString(`<div class="quote-category"><h4>`)
			b.WriteString(html.EscapeString(category.Name))
			b.WriteString(`</h4>`)
			for _, item := range category.Items {
				writeQuoteItem(&b, item)
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeQuoteItem(b *strings.Builder, item domain.QuoteItem) {
	subtotal := item.Subtotal
	if item.IsComplimentary {
		subtotal = 0
	}

	b.WriteString(`<div class="quote-item"><span class="item-name">`)
	b.WriteString(html.EscapeString(item.Name))
	if suffix := QuantityDisplay(item); suffix != "" {
		b.WriteString(" ")
		b.WriteString(html.EscapeString(suffix))
	}
	b.WriteString(`</span><span class="item-subtotal">`)
	b.WriteString(formatMoney(subtotal))
	b.WriteString(`</span></div>`)

	if desc := strings.TrimSpace(item.Description); desc != "" {
		b.WriteString(`<div class="item-description">`)
		b.WriteString(html.EscapeString(desc))
		b.WriteString(`</div>`)
	}
}
