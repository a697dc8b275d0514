// Package repository persists contract templates, event contracts, and
// version snapshots, and resolves the external lookups the render pipeline
// depends on.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

// TemplateRepository defines the interface for contract template
// operations. Slug is unique per owner.
type TemplateRepository interface {
	Create(ctx context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ContractTemplate, error)
	GetBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (domain.ContractTemplate, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ContractTemplate, error)
	Update(ctx context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// FindDefault resolves the event-type default first, then the global
	// default for the owner.
	FindDefault(ctx context.Context, ownerID uuid.UUID, eventTypeID *uuid.UUID) (domain.ContractTemplate, error)
	// ClearDefault unsets is_default on every other template in the same
	// scope before a new default is saved.
	ClearDefault(ctx context.Context, ownerID uuid.UUID, eventTypeID *uuid.UUID) error
	CountActive(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// ContractRepository defines the interface for event contract operations.
// At most one contract exists per event.
type ContractRepository interface {
	Create(ctx context.Context, contract domain.EventContract) (domain.EventContract, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.EventContract, error)
	GetByEvent(ctx context.Context, eventID uuid.UUID) (domain.EventContract, error)
	ExistsForEvent(ctx context.Context, eventID uuid.UUID) (bool, error)
	// Update persists a content-changing mutation guarded by a
	// compare-and-swap on the version the caller read; a lost race returns
	// ErrConflict instead of silently skipping or duplicating a version.
	Update(ctx context.Context, contract domain.EventContract, expectedVersion int64) (domain.EventContract, error)
	UpdateStatus(ctx context.Context, contract domain.EventContract) (domain.EventContract, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VersionRepository manages immutable ContractVersion snapshots;
// (contract_id, version) is unique.
type VersionRepository interface {
	Insert(ctx context.Context, version domain.ContractVersion) error
	Exists(ctx context.Context, contractID uuid.UUID, version int64) (bool, error)
	// UpdateStatus rewrites the status recorded on an existing snapshot in
	// place; publish and sign do not create new versions.
	UpdateStatus(ctx context.Context, contractID uuid.UUID, version int64, status domain.ContractStatus) error
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.ContractVersion, error)
}

// ContextSource assembles the read-only RenderContext and raw pricing
// signals for an event. Loaded fresh per render call; nothing is cached
// between calls.
type ContextSource interface {
	Load(ctx context.Context, eventID uuid.UUID) (domain.RenderContext, domain.PricingInput, error)
	// Owner resolves the studio that owns an event. Ownership checks on
	// contract operations go through here.
	Owner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
}

// BankInfoLookup returns the deposit account placeholders for an owner.
// Absence is not an error; zero values render empty.
type BankInfoLookup interface {
	BankInfo(ctx context.Context, ownerID uuid.UUID) (domain.BankInfo, error)
}

// CatalogLookup resolves billing types per catalog item id, falling back
// to the coarse service/product classification when unset.
type CatalogLookup interface {
	BillingTypes(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.BillingType, error)
}
