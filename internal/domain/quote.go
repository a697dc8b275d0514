package domain

import "github.com/google/uuid"

// BillingType drives how a line item's quantity is displayed.
type BillingType string

const (
	BillingHour    BillingType = "HOUR"
	BillingService BillingType = "SERVICE"
	BillingUnit    BillingType = "UNIT"
)

// QuoteItem is one line of the authorized quote. Subtotal is the stored
// contractual amount; complimentary items keep it for audit but display
// zero.
type QuoteItem struct {
	ID                uuid.UUID
	Name              string
	Description       string
	Quantity          float64
	Subtotal          float64
	BillingType       BillingType
	EffectiveQuantity *float64
	DurationHours     *float64
	IsComplimentary   bool
	CatalogItemID     *uuid.UUID
}

// QuoteCategory groups items inside a section, sorted by Order.
type QuoteCategory struct {
	Name  string
	Order int
	Items []QuoteItem
}

// QuoteSection is the top grouping of the quote tree, sorted by Order.
type QuoteSection struct {
	Name       string
	Order      int
	Categories []QuoteCategory
}

// ContactInfo identifies the client party on the contract.
type ContactInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// IssuerInfo identifies the studio issuing the contract.
type IssuerInfo struct {
	StudioName         string
	RepresentativeName string
	Phone              string
	Email              string
	Address            string
}

// BankInfo holds the deposit account printed on the contract; zero values
// render as empty placeholders.
type BankInfo struct {
	Bank    string
	Titular string
	CLABE   string
}

// EventInfo describes the booked event.
type EventInfo struct {
	Name        string
	EventType   string
	EventTypeID *uuid.UUID
	EventDate   string
}

// RenderContext is the read-only bag a single render call consumes. Billing
// types are resolved once into BillingTypes and threaded through the
// pipeline instead of being memoized globally.
type RenderContext struct {
	Contact        ContactInfo
	Issuer         IssuerInfo
	Bank           BankInfo
	Event          EventInfo
	Pricing        ResolvedPricing
	Terms          *CommercialTerms
	Quote          []QuoteSection
	PaymentTerms   string
	SignDate       string
	BillingTypes   map[uuid.UUID]BillingType
	PaymentMethods []string
}
