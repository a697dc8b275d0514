package render

import (
	"strings"

	"github.com/google/uuid"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

// Scalar placeholder vocabulary. Identity scalars are upper-cased on
// substitution; monetary strings and dates pass through as supplied.
var uppercaseKeys = map[string]bool{
	"nombre_cliente":       true,
	"direccion_cliente":    true,
	"telefono_cliente":     true,
	"nombre_studio":        true,
	"nombre_representante": true,
	"telefono_studio":      true,
	"direccion_studio":     true,
	"titular":              true,
}

// ScalarValues flattens a RenderContext into the placeholder vocabulary.
// Absent bank info renders those placeholders empty.
func ScalarValues(rc domain.RenderContext) map[string]string {
	return map[string]string{
		"nombre_cliente":       rc.Contact.Name,
		"email_cliente":        rc.Contact.Email,
		"telefono_cliente":     rc.Contact.Phone,
		"direccion_cliente":    rc.Contact.Address,
		"nombre_studio":        rc.Issuer.StudioName,
		"nombre_representante": rc.Issuer.RepresentativeName,
		"telefono_studio":      rc.Issuer.Phone,
		"correo_studio":        rc.Issuer.Email,
		"direccion_studio":     rc.Issuer.Address,
		"banco":                rc.Bank.Bank,
		"titular":              rc.Bank.Titular,
		"clabe":                rc.Bank.CLABE,
		"fecha_evento":         rc.Event.EventDate,
		"tipo_evento":          rc.Event.EventType,
		"nombre_evento":        rc.Event.Name,
		"fecha_firma_cliente":  rc.SignDate,
		"total_contrato":       formatMoney(rc.Pricing.TotalAfterDiscount),
		"condiciones_pago":     rc.PaymentTerms,
	}
}

// ApplyBillingTypes stamps each quote item with the billing type resolved
// for its catalog item. The map is built once per render call and threaded
// through; items without a catalog entry fall back to the coarse SERVICE
// classification.
func ApplyBillingTypes(sections []domain.QuoteSection, types map[uuid.UUID]domain.BillingType) []domain.QuoteSection {
	out := append([]domain.QuoteSection(nil), sections...)
	for si := range out {
		categories := append([]domain.QuoteCategory(nil), out[si].Categories...)
		for ci := range categories {
			items := append([]domain.QuoteItem(nil), categories[ci].Items...)
			for ii := range items {
				if items[ii].BillingType != "" {
					continue
				}
				resolved := domain.BillingService
				if items[ii].CatalogItemID != nil {
					if bt, ok := types[*items[ii].CatalogItemID]; ok && bt != "" {
						resolved = bt
					}
				}
				items[ii].BillingType = resolved
			}
			categories[ci].Items = items
		}
		out[si].Categories = categories
	}
	return out
}

func upperIfIdentity(key, value string) string {
	if uppercaseKeys[key] {
		return strings.ToUpper(value)
	}
	return value
}
