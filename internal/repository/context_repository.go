package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

type contextSource struct {
	pool    *pgxpool.Pool
	bank    BankInfoLookup
	catalog CatalogLookup
}

// NewContextSource assembles RenderContexts from the studio schema. The
// billing-type map is built once per Load and threaded through the render
// pipeline; no lookup is memoized across calls.
func NewContextSource(pool *pgxpool.Pool, bank BankInfoLookup, catalog CatalogLookup) ContextSource {
	return &contextSource{pool: pool, bank: bank, catalog: catalog}
}

func (s *contextSource) Load(ctx context.Context, eventID uuid.UUID) (domain.RenderContext, domain.PricingInput, error) {
	var (
		rc          domain.RenderContext
		in          domain.PricingInput
		studioID    uuid.UUID
		eventTypeID *uuid.UUID
	)

	err := s.pool.QueryRow(ctx, `
		SELECT e.studio_id, e.name, e.event_type_id, COALESCE(et.name, ''),
		       to_char(e.event_date, 'DD "de" TMMonth "de" YYYY'),
		       COALESCE(e.payment_terms, ''),
		       COALESCE(c.name, ''), COALESCE(c.email, ''), COALESCE(c.phone, ''), COALESCE(c.address, ''),
		       COALESCE(s.name, ''), COALESCE(s.representative_name, ''), COALESCE(s.phone, ''),
		       COALESCE(s.email, ''), COALESCE(s.address, '')
		FROM studio_events e
		LEFT JOIN event_types et ON et.id = e.event_type_id
		LEFT JOIN contacts c ON c.id = e.contact_id
		LEFT JOIN studios s ON s.id = e.studio_id
		WHERE e.id = $1`, eventID,
	).Scan(&studioID, &rc.Event.Name, &eventTypeID, &rc.Event.EventType,
		&rc.Event.EventDate, &rc.PaymentTerms,
		&rc.Contact.Name, &rc.Contact.Email, &rc.Contact.Phone, &rc.Contact.Address,
		&rc.Issuer.StudioName, &rc.Issuer.RepresentativeName, &rc.Issuer.Phone,
		&rc.Issuer.Email, &rc.Issuer.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rc, in, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return rc, in, fmt.Errorf("failed to load event context: %w", err)
	}
	rc.Event.EventTypeID = eventTypeID

	rc.Bank, err = s.bank.BankInfo(ctx, studioID)
	if err != nil {
		return rc, in, err
	}

	if err := s.loadPricing(ctx, eventID, &rc, &in); err != nil {
		return rc, in, err
	}
	if err := s.loadQuoteTree(ctx, eventID, &rc, &in); err != nil {
		return rc, in, err
	}

	itemIDs := collectCatalogItemIDs(rc.Quote)
	rc.BillingTypes, err = s.catalog.BillingTypes(ctx, itemIDs)
	if err != nil {
		return rc, in, err
	}
	return rc, in, nil
}

func (s *contextSource) Owner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	var studioID uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT studio_id FROM studio_events WHERE id = $1`, eventID).Scan(&studioID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("failed to resolve event owner: %w", err)
	}
	return studioID, nil
}

func (s *contextSource) loadPricing(ctx context.Context, eventID uuid.UUID, rc *domain.RenderContext, in *domain.PricingInput) error {
	var (
		terms       domain.CommercialTerms
		hasTerms    bool
		advanceType *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT q.price_list, COALESCE(q.stored_discount, 0), q.discount_percentage,
		       q.negotiation_mode, q.negotiated_price, q.original_price,
		       q.package_id IS NOT NULL, COALESCE(q.bonus, 0), q.closing_price,
		       q.advance_type, q.advance_percentage, q.advance_amount,
		       ct.id IS NOT NULL, COALESCE(ct.name, ''), COALESCE(ct.description, ''),
		       COALESCE(ct.payment_methods, '{}')
		FROM event_quotes q
		LEFT JOIN commercial_terms ct ON ct.id = q.commercial_terms_id
		WHERE q.event_id = $1 AND q.authorized`, eventID,
	).Scan(&in.PriceList, &in.StoredDiscount, &in.DiscountPercentage,
		&in.NegotiationMode, &in.NegotiatedPrice, &in.OriginalPrice,
		&in.PackageOrigin, &in.Bonus, &in.ClosingPrice,
		&advanceType, &in.AdvancePercentage, &in.AdvanceAmount,
		&hasTerms, &terms.Name, &terms.Description, &rc.PaymentMethods)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No authorized quote: blocks render their placeholders.
			return nil
		}
		return fmt.Errorf("failed to load quote pricing: %w", err)
	}
	if advanceType != nil {
		at := domain.AdvanceType(*advanceType)
		in.AdvanceType = &at
	}
	if hasTerms {
		terms.DiscountPercentage = in.DiscountPercentage
		terms.AdvancePercentage = in.AdvancePercentage
		terms.AdvanceType = in.AdvanceType
		terms.AdvanceAmount = in.AdvanceAmount
		rc.Terms = &terms
	}
	return nil
}

func (s *contextSource) loadQuoteTree(ctx context.Context, eventID uuid.UUID, rc *domain.RenderContext, in *domain.PricingInput) error {
	rows, err := s.pool.Query(ctx, `
		SELECT sec.name, sec.sort_order, cat.name, cat.sort_order,
		       i.id, i.name, COALESCE(i.description, ''), i.quantity, i.subtotal,
		       COALESCE(i.billing_type, ''), i.effective_quantity, i.duration_hours,
		       i.is_complimentary, i.catalog_item_id
		FROM quote_items i
		JOIN quote_categories cat ON cat.id = i.category_id
		JOIN quote_sections sec ON sec.id = cat.section_id
		JOIN event_quotes q ON q.id = sec.quote_id
		WHERE q.event_id = $1 AND q.authorized
		ORDER BY sec.sort_order, cat.sort_order, i.sort_order`, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to load quote tree: %w", err)
	}
	defer rows.Close()

	var sections []domain.QuoteSection
	for rows.Next() {
		var (
			sectionName, categoryName   string
			sectionOrder, categoryOrder int
			item                        domain.QuoteItem
			billingType                 string
		)
		if err := rows.Scan(&sectionName, &sectionOrder, &categoryName, &categoryOrder,
			&item.ID, &item.Name, &item.Description, &item.Quantity, &item.Subtotal,
			&billingType, &item.EffectiveQuantity, &item.DurationHours,
			&item.IsComplimentary, &item.CatalogItemID); err != nil {
			return fmt.Errorf("failed to scan quote item: %w", err)
		}
		item.BillingType = domain.BillingType(billingType)
		if item.IsComplimentary {
			in.ComplimentaryAmount += item.Subtotal
		}
		sections = appendQuoteItem(sections, sectionName, sectionOrder, categoryName, categoryOrder, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read quote tree: %w", err)
	}
	rc.Quote = sections
	return nil
}

func appendQuoteItem(sections []domain.QuoteSection, sectionName string, sectionOrder int, categoryName string, categoryOrder int, item domain.QuoteItem) []domain.QuoteSection {
	si := -1
	for i := range sections {
		if sections[i].Name == sectionName {
			si = i
			break
		}
	}
	if si == -1 {
		sections = append(sections, domain.QuoteSection{Name: sectionName, Order: sectionOrder})
		si = len(sections) - 1
	}
	section := &sections[si]

	ci := -1
	for i := range section.Categories {
		if section.Categories[i].Name == categoryName {
			ci = i
			break
		}
	}
	if ci == -1 {
		section.Categories = append(section.Categories, domain.QuoteCategory{Name: categoryName, Order: categoryOrder})
		ci = len(section.Categories) - 1
	}
	section.Categories[ci].Items = append(section.Categories[ci].Items, item)
	return sections
}

func collectCatalogItemIDs(sections []domain.QuoteSection) []uuid.UUID {
	var ids []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, section := range sections {
		for _, category := range section.Categories {
			for _, item := range category.Items {
				if item.CatalogItemID != nil && !seen[*item.CatalogItemID] {
					seen[*item.CatalogItemID] = true
					ids = append(ids, *item.CatalogItemID)
				}
			}
		}
	}
	return ids
}
