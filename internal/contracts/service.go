// Package contracts manages the lifecycle of event contracts: generation
// from a template, edits, regeneration, template swaps, publication,
// signature, cancellation, and the immutable version history behind them.
package contracts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
	"github.com/israelwong/zenly-studio-sub011/internal/notify"
	"github.com/israelwong/zenly-studio-sub011/internal/pricing"
	"github.com/israelwong/zenly-studio-sub011/internal/render"
	"github.com/israelwong/zenly-studio-sub011/internal/repository"
	"github.com/israelwong/zenly-studio-sub011/pkg/metrics"
)

// Service is the document lifecycle manager. All operations are
// request-driven units of work; multi-step writes run sequentially within
// one call and rely on idempotent snapshot guards plus the repository's
// compare-and-swap for safety under concurrent edits.
type Service struct {
	templates repository.TemplateRepository
	contracts repository.ContractRepository
	versions  repository.VersionRepository
	source    repository.ContextSource
	notifier  notify.Notifier
	metrics   *metrics.Collector
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics attaches an operation metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Service) { s.metrics = collector }
}

func NewService(
	templates repository.TemplateRepository,
	contracts repository.ContractRepository,
	versions repository.VersionRepository,
	source repository.ContextSource,
	notifier notify.Notifier,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		templates: templates,
		contracts: contracts,
		versions:  versions,
		source:    source,
		notifier:  notifier,
		logger:    logger.With(zap.String("service", "contracts")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate creates the contract for an event. It fails if one already
// exists; the template resolves explicit id → event-type default → global
// default. The contract starts at DRAFT version 1 with a matching
// snapshot.
func (s *Service) Generate(ctx context.Context, ownerID, eventID uuid.UUID, templateID *uuid.UUID) (domain.EventContract, error) {
	defer s.count("contracts.generate")

	exists, err := s.contracts.ExistsForEvent(ctx, eventID)
	if err != nil {
		return domain.EventContract{}, err
	}
	if exists {
		return domain.EventContract{}, fmt.Errorf("contract already exists for event %s: %w", eventID, domain.ErrConflict)
	}

	rc, err := s.renderContext(ctx, eventID)
	if err != nil {
		return domain.EventContract{}, err
	}

	template, err := s.resolveTemplate(ctx, ownerID, rc.Event.EventTypeID, templateID)
	if err != nil {
		return domain.EventContract{}, err
	}

	content := render.RenderTemplate(template.Content, rc)
	contract, err := s.contracts.Create(ctx, domain.NewEventContract(eventID, &template.ID, content))
	if err != nil {
		return domain.EventContract{}, err
	}

	snapshot := domain.NewContractVersion(contract.ID, contract.Version, contract.Content, contract.Status, domain.ChangeAutoRegenerate, nil, nil)
	if err := s.ensureSnapshot(ctx, snapshot); err != nil {
		return domain.EventContract{}, err
	}

	s.logger.Info("contract generated",
		zap.String("contract_id", contract.ID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("template_id", template.ID.String()))
	return contract, nil
}

// Edit re-renders caller-supplied template source against the current
// context and stores both the resolved content and the editable source.
// With updateTemplate the edited source is also written back into the
// originating template.
func (s *Service) Edit(ctx context.Context, ownerID, contractID uuid.UUID, newSource string, reason *string, updateTemplate bool, author *string) (domain.EventContract, error) {
	defer s.count("contracts.edit")

	if strings.TrimSpace(newSource) == "" {
		return domain.EventContract{}, fmt.Errorf("contract source must not be empty: %w", domain.ErrValidation)
	}

	contract, err := s.editableContract(ctx, ownerID, contractID)
	if err != nil {
		return domain.EventContract{}, err
	}

	rc, err := s.renderContext(ctx, contract.EventID)
	if err != nil {
		return domain.EventContract{}, err
	}
	rendered := render.RenderTemplate(newSource, rc)

	if err := s.ensureCurrentSnapshot(ctx, contract, domain.ChangeManualEdit); err != nil {
		return domain.EventContract{}, err
	}

	updated := contract
	updated.Version = contract.Version + 1
	updated.Content = rendered
	updated.CustomTemplateContent = &newSource
	updated, err = s.contracts.Update(ctx, updated, contract.Version)
	if err != nil {
		return domain.EventContract{}, err
	}

	snapshot := domain.NewContractVersion(updated.ID, updated.Version, updated.Content, updated.Status, domain.ChangeManualEdit, reason, author)
	if err := s.ensureSnapshot(ctx, snapshot); err != nil {
		return domain.EventContract{}, err
	}

	if updateTemplate && contract.TemplateID != nil {
		if err := s.writeBackTemplate(ctx, *contract.TemplateID, newSource); err != nil {
			return domain.EventContract{}, err
		}
	}
	return updated, nil
}

// Regenerate re-renders the contract's current source against a freshly
// loaded context, preserving status. The editable source wins over the
// template body when present; that is why it retains placeholders.
func (s *Service) Regenerate(ctx context.Context, ownerID, contractID uuid.UUID, reason *string) (domain.EventContract, error) {
	defer s.count("contracts.regenerate")

	contract, err := s.editableContract(ctx, ownerID, contractID)
	if err != nil {
		return domain.EventContract{}, err
	}

	source, err := s.currentSource(ctx, contract)
	if err != nil {
		return domain.EventContract{}, err
	}

	rc, err := s.renderContext(ctx, contract.EventID)
	if err != nil {
		return domain.EventContract{}, err
	}
	rendered := render.RenderTemplate(source, rc)

	if err := s.ensureCurrentSnapshot(ctx, contract, domain.ChangeAutoRegenerate); err != nil {
		return domain.EventContract{}, err
	}

	updated := contract
	updated.Version = contract.Version + 1
	updated.Content = rendered
	updated, err = s.contracts.Update(ctx, updated, contract.Version)
	if err != nil {
		return domain.EventContract{}, err
	}

	snapshot := domain.NewContractVersion(updated.ID, updated.Version, updated.Content, updated.Status, domain.ChangeAutoRegenerate, reason, nil)
	if err := s.ensureSnapshot(ctx, snapshot); err != nil {
		return domain.EventContract{}, err
	}
	return updated, nil
}

// SwapTemplate re-renders with a different template and clears the
// editable source, which no longer matches the new template.
func (s *Service) SwapTemplate(ctx context.Context, ownerID, contractID, newTemplateID uuid.UUID, reason *string) (domain.EventContract, error) {
	defer s.count("contracts.swap_template")

	contract, err := s.editableContract(ctx, ownerID, contractID)
	if err != nil {
		return domain.EventContract{}, err
	}

	template, err := s.ownedTemplate(ctx, ownerID, newTemplateID)
	if err != nil {
		return domain.EventContract{}, err
	}

	rc, err := s.renderContext(ctx, contract.EventID)
	if err != nil {
		return domain.EventContract{}, err
	}
	rendered := render.RenderTemplate(template.Content, rc)

	if err := s.ensureCurrentSnapshot(ctx, contract, domain.ChangeTemplateUpdate); err != nil {
		return domain.EventContract{}, err
	}

	updated := contract
	updated.Version = contract.Version + 1
	updated.Content = rendered
	updated.TemplateID = &template.ID
	updated.CustomTemplateContent = nil
	updated, err = s.contracts.Update(ctx, updated, contract.Version)
	if err != nil {
		return domain.EventContract{}, err
	}

	snapshot := domain.NewContractVersion(updated.ID, updated.Version, updated.Content, updated.Status, domain.ChangeTemplateUpdate, reason, nil)
	if err := s.ensureSnapshot(ctx, snapshot); err != nil {
		return domain.EventContract{}, err
	}
	return updated, nil
}

// Publish moves DRAFT → PUBLISHED and restamps the current snapshot's
// status in place; no new version is created. The notification is
// best-effort and never rolls back the publish.
func (s *Service) Publish(ctx context.Context, ownerID, contractID uuid.UUID) (domain.EventContract, error) {
	defer s.count("contracts.publish")

	updated, err := s.transition(ctx, ownerID, contractID, domain.StatusPublished, nil)
	if err != nil {
		return domain.EventContract{}, err
	}
	s.notifier.ContractPublished(ctx, updated.ID, updated.Version)
	return updated, nil
}

// Sign moves PUBLISHED → SIGNED and stamps the signature time and
// optional reference.
func (s *Service) Sign(ctx context.Context, ownerID, contractID uuid.UUID, signatureRef *string) (domain.EventContract, error) {
	defer s.count("contracts.sign")

	signedAt := s.now()
	updated, err := s.transition(ctx, ownerID, contractID, domain.StatusSigned, func(c *domain.EventContract) {
		c.SignedAt = &signedAt
		c.SignatureRef = signatureRef
	})
	if err != nil {
		return domain.EventContract{}, err
	}
	s.notifier.ContractSigned(ctx, updated.ID, updated.Version)
	return updated, nil
}

// RequestCancellation records which party asked to cancel a published
// contract.
func (s *Service) RequestCancellation(ctx context.Context, ownerID, contractID uuid.UUID, origin notify.CancellationOrigin) (domain.EventContract, error) {
	defer s.count("contracts.request_cancellation")

	target := domain.StatusCancellationRequestedByStudio
	switch origin {
	case notify.CancellationByStudio:
	case notify.CancellationByClient:
		target = domain.StatusCancellationRequestedByClient
	default:
		return domain.EventContract{}, fmt.Errorf("unknown cancellation origin %q: %w", origin, domain.ErrValidation)
	}

	updated, err := s.transition(ctx, ownerID, contractID, target, nil)
	if err != nil {
		return domain.EventContract{}, err
	}
	s.notifier.CancellationRequested(ctx, updated.ID, updated.Version, origin)
	return updated, nil
}

// ConfirmCancellation finalizes a requested cancellation.
func (s *Service) ConfirmCancellation(ctx context.Context, ownerID, contractID uuid.UUID) (domain.EventContract, error) {
	defer s.count("contracts.cancel")

	updated, err := s.transition(ctx, ownerID, contractID, domain.StatusCancelled, nil)
	if err != nil {
		return domain.EventContract{}, err
	}
	s.notifier.ContractCancelled(ctx, updated.ID, updated.Version)
	return updated, nil
}

// Delete hard-removes a contract still in DRAFT or PUBLISHED.
func (s *Service) Delete(ctx context.Context, ownerID, contractID uuid.UUID) error {
	defer s.count("contracts.delete")

	contract, err := s.ownedContract(ctx, ownerID, contractID)
	if err != nil {
		return err
	}
	if !contract.Status.IsDeletable() {
		return fmt.Errorf("contract in status %s cannot be deleted: %w", contract.Status, domain.ErrInvalidState)
	}
	return s.contracts.Delete(ctx, contractID)
}

// Get returns the contract by id.
func (s *Service) Get(ctx context.Context, ownerID, contractID uuid.UUID) (domain.EventContract, error) {
	return s.ownedContract(ctx, ownerID, contractID)
}

// Versions returns the immutable snapshot history.
func (s *Service) Versions(ctx context.Context, ownerID, contractID uuid.UUID) ([]domain.ContractVersion, error) {
	if _, err := s.ownedContract(ctx, ownerID, contractID); err != nil {
		return nil, err
	}
	return s.versions.ListByContract(ctx, contractID)
}

// QuoteContext loads the render context for a contract's event, resolved
// and ready for the block renderers. Used by the export service.
func (s *Service) QuoteContext(ctx context.Context, ownerID, contractID uuid.UUID) (domain.EventContract, domain.RenderContext, error) {
	contract, err := s.ownedContract(ctx, ownerID, contractID)
	if err != nil {
		return domain.EventContract{}, domain.RenderContext{}, err
	}
	rc, err := s.renderContext(ctx, contract.EventID)
	if err != nil {
		return domain.EventContract{}, domain.RenderContext{}, err
	}
	return contract, rc, nil
}

func (s *Service) renderContext(ctx context.Context, eventID uuid.UUID) (domain.RenderContext, error) {
	rc, input, err := s.source.Load(ctx, eventID)
	if err != nil {
		return domain.RenderContext{}, err
	}
	rc.Pricing = pricing.Resolve(input)
	rc.Quote = render.ApplyBillingTypes(rc.Quote, rc.BillingTypes)
	return rc, nil
}

func (s *Service) resolveTemplate(ctx context.Context, ownerID uuid.UUID, eventTypeID, templateID *uuid.UUID) (domain.ContractTemplate, error) {
	if templateID != nil {
		return s.ownedTemplate(ctx, ownerID, *templateID)
	}
	return s.templates.FindDefault(ctx, ownerID, eventTypeID)
}

// ownedContract loads a contract and verifies the caller's studio owns
// the underlying event. A foreign contract is indistinguishable from a
// missing one.
func (s *Service) ownedContract(ctx context.Context, ownerID, contractID uuid.UUID) (domain.EventContract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return domain.EventContract{}, err
	}
	owner, err := s.source.Owner(ctx, contract.EventID)
	if err != nil {
		return domain.EventContract{}, err
	}
	if owner != ownerID {
		return domain.EventContract{}, fmt.Errorf("contract %s: %w", contractID, domain.ErrNotFound)
	}
	return contract, nil
}

func (s *Service) editableContract(ctx context.Context, ownerID, contractID uuid.UUID) (domain.EventContract, error) {
	contract, err := s.ownedContract(ctx, ownerID, contractID)
	if err != nil {
		return domain.EventContract{}, err
	}
	if !contract.Status.IsEditable() {
		return domain.EventContract{}, fmt.Errorf("contract in status %s is immutable: %w", contract.Status, domain.ErrInvalidState)
	}
	return contract, nil
}

func (s *Service) currentSource(ctx context.Context, contract domain.EventContract) (string, error) {
	if contract.CustomTemplateContent != nil && strings.TrimSpace(*contract.CustomTemplateContent) != "" {
		return *contract.CustomTemplateContent, nil
	}
	if contract.TemplateID == nil {
		return "", fmt.Errorf("contract %s has no template to regenerate from: %w", contract.ID, domain.ErrValidation)
	}
	template, err := s.templates.GetByID(ctx, *contract.TemplateID)
	if err != nil {
		return "", err
	}
	return template.Content, nil
}

// ensureCurrentSnapshot backfills the snapshot for the version being
// superseded, skipped when it already exists so re-runs stay idempotent.
func (s *Service) ensureCurrentSnapshot(ctx context.Context, contract domain.EventContract, changeType domain.ChangeType) error {
	return s.ensureSnapshot(ctx, domain.NewContractVersion(contract.ID, contract.Version, contract.Content, contract.Status, changeType, nil, nil))
}

func (s *Service) ensureSnapshot(ctx context.Context, snapshot domain.ContractVersion) error {
	exists, err := s.versions.Exists(ctx, snapshot.ContractID, snapshot.Version)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.versions.Insert(ctx, snapshot)
}

func (s *Service) transition(ctx context.Context, ownerID, contractID uuid.UUID, target domain.ContractStatus, mutate func(*domain.EventContract)) (domain.EventContract, error) {
	contract, err := s.ownedContract(ctx, ownerID, contractID)
	if err != nil {
		return domain.EventContract{}, err
	}
	if !domain.CanTransition(contract.Status, target) {
		return domain.EventContract{}, fmt.Errorf("cannot move contract from %s to %s: %w", contract.Status, target, domain.ErrInvalidState)
	}

	contract.Status = target
	if mutate != nil {
		mutate(&contract)
	}
	updated, err := s.contracts.UpdateStatus(ctx, contract)
	if err != nil {
		return domain.EventContract{}, err
	}
	if err := s.versions.UpdateStatus(ctx, updated.ID, updated.Version, target); err != nil {
		return domain.EventContract{}, err
	}
	return updated, nil
}

func (s *Service) writeBackTemplate(ctx context.Context, templateID uuid.UUID, source string) error {
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	template.Content = source
	if _, err := s.templates.Update(ctx, template); err != nil {
		return fmt.Errorf("failed to write edited source back to template: %w", err)
	}
	return nil
}

func (s *Service) count(op string) {
	if s.metrics != nil {
		s.metrics.Increment(op)
	}
}
