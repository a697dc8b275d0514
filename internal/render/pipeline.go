package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

// Block placeholder keys. Both @key and {key} forms resolve; the bracket
// form is the legacy services list.
const (
	blockQuoteKey  = "cotizacion_autorizada"
	blockTermsKey  = "condiciones_comerciales"
	legacyBlockKey = "SERVICIOS_INCLUIDOS"
)

var (
	brRunRE = regexp.MustCompile(`(?i)(?:<br\s*/?>\s*){2,}`)
	// A stray <br> between two block-level boundaries adds nothing;
	// structural spacing governs layout there.
	brBetweenBlocksRE = regexp.MustCompile(`(?i)(</(?:div|p|h[1-6]|ul|ol|table)>)\s*(?:<br\s*/?>\s*)+(<(?:div|p|h[1-6]|ul|ol|table)\b)`)
)

// RenderTemplate resolves a template body against a RenderContext in one
// pass over the original text, then normalizes whitespace. Scalars and
// blocks resolve from the same parsed spans so a substituted value is
// never re-scanned for placeholders. Unknown placeholders stay verbatim
// by design.
func RenderTemplate(templateText string, rc domain.RenderContext) string {
	values := ScalarValues(rc)

	text := substitute(templateText, func(v ParsedVariable) (string, bool) {
		switch {
		case v.Syntax == SyntaxBracket:
			if v.Key == legacyBlockKey {
				return renderLegacyServicesBlock(rc.Quote), true
			}
			return "", false
		case v.Key == blockQuoteKey:
			if rc.Quote == nil {
				return quoteEmptyPlaceholder, true
			}
			return RenderQuoteBlock(rc.Quote), true
		case v.Key == blockTermsKey:
			if rc.Terms == nil && rc.Pricing.TotalAfterDiscount == 0 {
				return termsEmptyPlaceholder, true
			}
			return RenderTermsBlock(rc.Terms, rc.Pricing, rc.PaymentMethods), true
		default:
			value, known := values[v.Key]
			if !known {
				return "", false
			}
			return upperIfIdentity(v.Key, value), true
		}
	})

	return normalizeWhitespace(text)
}

// substitute rebuilds text replacing the placeholders resolve recognizes.
// Matches that overlap an already-consumed span are skipped.
func substitute(text string, resolve func(ParsedVariable) (string, bool)) string {
	vars := ParseVariables(text)
	if len(vars) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, v := range vars {
		if v.Start < last {
			continue
		}
		replacement, ok := resolve(v)
		if !ok {
			continue
		}
		b.WriteString(text[last:v.Start])
		b.WriteString(replacement)
		last = v.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// renderLegacyServicesBlock flattens the quote into a category → item list.
// Unit prices are omitted and complimentary items are annotated inline
// instead of zeroed; legacy templates depend on this exact shape.
func renderLegacyServicesBlock(sections []domain.QuoteSection) string {
	if len(sections) == 0 {
		return quoteEmptyPlaceholder
	}
	var b strings.Builder
	b.WriteString(`<div class="services-included">`)
	for _, section := range sections {
		for _, category := range section.Categories {
			b.WriteString(`<h4>`)
			b.WriteString(html.EscapeString(category.Name))
			b.WriteString(`</h4><ul>`)
			for _, item := range category.Items {
				b.WriteString(`<li>`)
				b.WriteString(html.EscapeString(item.Name))
				if suffix := QuantityDisplay(item); suffix != "" {
					b.WriteString(" ")
					b.WriteString(html.EscapeString(suffix))
				}
				if item.IsComplimentary {
					b.WriteString(" (Cortesía)")
				}
				b.WriteString(`</li>`)
			}
			b.WriteString(`</ul>`)
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}

func normalizeWhitespace(text string) string {
	text = brRunRE.ReplaceAllString(text, "<br>")
	text = brBetweenBlocksRE.ReplaceAllString(text, "$1$2")
	return text
}
