package contracts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
	"github.com/israelwong/zenly-studio-sub011/internal/notify"
)

// ---- in-memory fakes ----

type fakeTemplates struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.ContractTemplate
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{items: map[uuid.UUID]domain.ContractTemplate{}}
}

func (f *fakeTemplates) Create(_ context.Context, t domain.ContractTemplate) (domain.ContractTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id uuid.UUID) (domain.ContractTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return domain.ContractTemplate{}, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (f *fakeTemplates) GetBySlug(_ context.Context, ownerID uuid.UUID, slug string) (domain.ContractTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.items {
		if t.OwnerID == ownerID && t.Slug == slug {
			return t, nil
		}
	}
	return domain.ContractTemplate{}, fmt.Errorf("slug %s: %w", slug, domain.ErrNotFound)
}

func (f *fakeTemplates) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.ContractTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ContractTemplate
	for _, t := range f.items {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) Update(_ context.Context, t domain.ContractTemplate) (domain.ContractTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[t.ID]; !ok {
		return domain.ContractTemplate{}, domain.ErrNotFound
	}
	t.Version++
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTemplates) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeTemplates) FindDefault(_ context.Context, ownerID uuid.UUID, eventTypeID *uuid.UUID) (domain.ContractTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if eventTypeID != nil {
		for _, t := range f.items {
			if t.OwnerID == ownerID && t.IsDefault && t.IsActive && t.EventTypeID != nil && *t.EventTypeID == *eventTypeID {
				return t, nil
			}
		}
	}
	for _, t := range f.items {
		if t.OwnerID == ownerID && t.IsDefault && t.IsActive && t.EventTypeID == nil {
			return t, nil
		}
	}
	return domain.ContractTemplate{}, fmt.Errorf("no default template: %w", domain.ErrNotFound)
}

func (f *fakeTemplates) ClearDefault(_ context.Context, ownerID uuid.UUID, eventTypeID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.items {
		if t.OwnerID != ownerID || !t.IsDefault {
			continue
		}
		sameScope := (t.EventTypeID == nil && eventTypeID == nil) ||
			(t.EventTypeID != nil && eventTypeID != nil && *t.EventTypeID == *eventTypeID)
		if sameScope {
			t.IsDefault = false
			f.items[id] = t
		}
	}
	return nil
}

func (f *fakeTemplates) CountActive(_ context.Context, ownerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.items {
		if t.OwnerID == ownerID && t.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeContracts struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.EventContract
}

func newFakeContracts() *fakeContracts {
	return &fakeContracts{items: map[uuid.UUID]domain.EventContract{}}
}

func (f *fakeContracts) Create(_ context.Context, c domain.EventContract) (domain.EventContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.EventID == c.EventID {
			return domain.EventContract{}, domain.ErrConflict
		}
	}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeContracts) GetByID(_ context.Context, id uuid.UUID) (domain.EventContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return domain.EventContract{}, fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (f *fakeContracts) GetByEvent(_ context.Context, eventID uuid.UUID) (domain.EventContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.EventID == eventID {
			return c, nil
		}
	}
	return domain.EventContract{}, domain.ErrNotFound
}

func (f *fakeContracts) ExistsForEvent(_ context.Context, eventID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContracts) Update(_ context.Context, c domain.EventContract, expectedVersion int64) (domain.EventContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[c.ID]
	if !ok {
		return domain.EventContract{}, domain.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return domain.EventContract{}, fmt.Errorf("version moved from %d: %w", expectedVersion, domain.ErrConflict)
	}
	c.UpdatedAt = time.Now()
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeContracts) UpdateStatus(_ context.Context, c domain.EventContract) (domain.EventContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[c.ID]
	if !ok {
		return domain.EventContract{}, domain.ErrNotFound
	}
	stored.Status = c.Status
	stored.SignedAt = c.SignedAt
	stored.SignatureRef = c.SignatureRef
	stored.UpdatedAt = time.Now()
	f.items[c.ID] = stored
	return stored, nil
}

func (f *fakeContracts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type versionKey struct {
	contractID uuid.UUID
	version    int64
}

type fakeVersions struct {
	mu    sync.Mutex
	items map[versionKey]domain.ContractVersion
}

func newFakeVersions() *fakeVersions {
	return &fakeVersions{items: map[versionKey]domain.ContractVersion{}}
}

func (f *fakeVersions) Insert(_ context.Context, v domain.ContractVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := versionKey{v.ContractID, v.Version}
	if _, ok := f.items[key]; ok {
		return fmt.Errorf("duplicate snapshot %d: %w", v.Version, domain.ErrConflict)
	}
	f.items[key] = v
	return nil
}

func (f *fakeVersions) Exists(_ context.Context, contractID uuid.UUID, version int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[versionKey{contractID, version}]
	return ok, nil
}

func (f *fakeVersions) UpdateStatus(_ context.Context, contractID uuid.UUID, version int64, status domain.ContractStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := versionKey{contractID, version}
	v, ok := f.items[key]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	f.items[key] = v
	return nil
}

func (f *fakeVersions) ListByContract(_ context.Context, contractID uuid.UUID) ([]domain.ContractVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ContractVersion
	for key, v := range f.items {
		if key.contractID == contractID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

type fakeSource struct {
	owner uuid.UUID
	rc    domain.RenderContext
	input domain.PricingInput
}

func (f *fakeSource) Load(context.Context, uuid.UUID) (domain.RenderContext, domain.PricingInput, error) {
	return f.rc, f.input, nil
}

func (f *fakeSource) Owner(context.Context, uuid.UUID) (uuid.UUID, error) {
	return f.owner, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) record(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) ContractPublished(_ context.Context, _ uuid.UUID, _ int64) {
	r.record("published")
}

func (r *recordingNotifier) ContractSigned(_ context.Context, _ uuid.UUID, _ int64) {
	r.record("signed")
}

func (r *recordingNotifier) CancellationRequested(_ context.Context, _ uuid.UUID, _ int64, origin notify.CancellationOrigin) {
	r.record("cancellation_requested:" + string(origin))
}

func (r *recordingNotifier) ContractCancelled(_ context.Context, _ uuid.UUID, _ int64) {
	r.record("cancelled")
}

// ---- harness ----

type fixture struct {
	service   *Service
	templates *fakeTemplates
	contracts *fakeContracts
	versions  *fakeVersions
	notifier  *recordingNotifier
	ownerID   uuid.UUID
	eventID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	templates := newFakeTemplates()
	contracts := newFakeContracts()
	versions := newFakeVersions()
	notifier := &recordingNotifier{}
	ownerID := uuid.New()
	source := &fakeSource{
		owner: ownerID,
		rc: domain.RenderContext{
			Contact: domain.ContactInfo{Name: "ana lopez"},
			Issuer:  domain.IssuerInfo{StudioName: "zenly studio"},
			Event:   domain.EventInfo{Name: "Boda Ana", EventType: "Boda", EventDate: "12 de enero de 2025"},
		},
		input: domain.PricingInput{PriceList: 9000},
	}

	service := NewService(templates, contracts, versions, source, notifier, zap.NewNop(),
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }))
	return &fixture{
		service:   service,
		templates: templates,
		contracts: contracts,
		versions:  versions,
		notifier:  notifier,
		ownerID:   ownerID,
		eventID:   uuid.New(),
	}
}

func (fx *fixture) seedDefaultTemplate(t *testing.T, content string) domain.ContractTemplate {
	t.Helper()
	template := domain.NewContractTemplate(fx.ownerID, "Contrato general", content, nil)
	template.IsDefault = true
	created, err := fx.templates.Create(context.Background(), template)
	require.NoError(t, err)
	return created
}

func (fx *fixture) generate(t *testing.T) domain.EventContract {
	t.Helper()
	contract, err := fx.service.Generate(context.Background(), fx.ownerID, fx.eventID, nil)
	require.NoError(t, err)
	return contract
}

// ---- tests ----

func TestGenerateCreatesDraftWithSnapshot(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "Hola @nombre_cliente, evento {nombre_evento}.")

	contract := fx.generate(t)

	assert.Equal(t, domain.StatusDraft, contract.Status)
	assert.Equal(t, int64(1), contract.Version)
	assert.Equal(t, "Hola ANA LOPEZ, evento Boda Ana.", contract.Content)
	require.NotNil(t, contract.TemplateID)

	versions, err := fx.service.Versions(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, int64(1), versions[0].Version)
	assert.Equal(t, domain.ChangeAutoRegenerate, versions[0].ChangeType)
	assert.Equal(t, contract.Content, versions[0].Content)
}

func TestGenerateRejectsSecondContractForEvent(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	fx.generate(t)

	_, err := fx.service.Generate(context.Background(), fx.ownerID, fx.eventID, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGeneratePrefersEventTypeDefault(t *testing.T) {
	fx := newFixture(t)
	eventTypeID := uuid.New()
	fx.service.source.(*fakeSource).rc.Event.EventTypeID = &eventTypeID

	fx.seedDefaultTemplate(t, "global")
	typed := domain.NewContractTemplate(fx.ownerID, "Contrato bodas", "por tipo", &eventTypeID)
	typed.IsDefault = true
	_, err := fx.templates.Create(context.Background(), typed)
	require.NoError(t, err)

	contract := fx.generate(t)
	assert.Equal(t, "por tipo", contract.Content)
	assert.Equal(t, typed.ID, *contract.TemplateID)
}

func TestGenerateRejectsForeignTemplate(t *testing.T) {
	fx := newFixture(t)
	foreign := domain.NewContractTemplate(uuid.New(), "Ajena", "contenido", nil)
	_, err := fx.templates.Create(context.Background(), foreign)
	require.NoError(t, err)

	_, err = fx.service.Generate(context.Background(), fx.ownerID, fx.eventID, &foreign.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditBumpsVersionAndKeepsSource(t *testing.T) {
	fx := newFixture(t)
	template := fx.seedDefaultTemplate(t, "Hola @nombre_cliente.")
	contract := fx.generate(t)

	edited, err := fx.service.Edit(context.Background(), fx.ownerID, contract.ID, "Estimado @nombre_cliente:", nil, false, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), edited.Version)
	assert.Equal(t, "Estimado ANA LOPEZ:", edited.Content)
	require.NotNil(t, edited.CustomTemplateContent)
	assert.Equal(t, "Estimado @nombre_cliente:", *edited.CustomTemplateContent)

	versions, err := fx.service.Versions(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, domain.ChangeManualEdit, versions[1].ChangeType)

	// The originating template is untouched without the write-back flag.
	stored, err := fx.templates.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hola @nombre_cliente.", stored.Content)
}

func TestEditWritesBackToTemplateWhenAsked(t *testing.T) {
	fx := newFixture(t)
	template := fx.seedDefaultTemplate(t, "Hola @nombre_cliente.")
	contract := fx.generate(t)

	_, err := fx.service.Edit(context.Background(), fx.ownerID, contract.ID, "Estimado @nombre_cliente:", nil, true, nil)
	require.NoError(t, err)

	stored, err := fx.templates.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Estimado @nombre_cliente:", stored.Content)
}

func TestEditRejectsEmptySource(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	_, err := fx.service.Edit(context.Background(), fx.ownerID, contract.ID, "   ", nil, false, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEditRejectsSignedContract(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	_, err := fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	_, err = fx.service.Sign(context.Background(), fx.ownerID, contract.ID, nil)
	require.NoError(t, err)

	_, err = fx.service.Edit(context.Background(), fx.ownerID, contract.ID, "nuevo", nil, false, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRegeneratePrefersEditedSource(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "Plantilla @nombre_cliente")
	contract := fx.generate(t)

	_, err := fx.service.Edit(context.Background(), fx.ownerID, contract.ID, "Editado @nombre_cliente", nil, false, nil)
	require.NoError(t, err)

	regenerated, err := fx.service.Regenerate(context.Background(), fx.ownerID, contract.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), regenerated.Version)
	assert.Equal(t, "Editado ANA LOPEZ", regenerated.Content)
}

func TestRegeneratePreservesPublishedStatus(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido @nombre_cliente")
	contract := fx.generate(t)

	_, err := fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)

	regenerated, err := fx.service.Regenerate(context.Background(), fx.ownerID, contract.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, regenerated.Status)
}

func TestRegenerateNeverDuplicatesVersions(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	for i := 0; i < 3; i++ {
		_, err := fx.service.Regenerate(context.Background(), fx.ownerID, contract.ID, nil)
		require.NoError(t, err)
	}

	versions, err := fx.service.Versions(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, 4)
	seen := map[int64]bool{}
	for _, v := range versions {
		assert.False(t, seen[v.Version])
		seen[v.Version] = true
	}
}

func TestRegenerateToleratesPreexistingSnapshot(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	// A snapshot for the superseded version already exists; the backfill
	// guard must skip instead of failing on the unique constraint.
	require.NoError(t, fx.versions.UpdateStatus(context.Background(), contract.ID, 1, domain.StatusDraft))

	_, err := fx.service.Regenerate(context.Background(), fx.ownerID, contract.ID, nil)
	require.NoError(t, err)
}

func TestSwapTemplateClearsEditedSource(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "original")
	contract := fx.generate(t)

	_, err := fx.service.Edit(context.Background(), fx.ownerID, contract.ID, "editado", nil, false, nil)
	require.NoError(t, err)

	replacement := domain.NewContractTemplate(fx.ownerID, "Contrato nuevo", "Nuevo @nombre_cliente", nil)
	_, err = fx.templates.Create(context.Background(), replacement)
	require.NoError(t, err)

	swapped, err := fx.service.SwapTemplate(context.Background(), fx.ownerID, contract.ID, replacement.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), swapped.Version)
	assert.Equal(t, "Nuevo ANA LOPEZ", swapped.Content)
	assert.Nil(t, swapped.CustomTemplateContent)
	assert.Equal(t, replacement.ID, *swapped.TemplateID)
}

func TestPublishTransitionsAndNotifies(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	published, err := fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPublished, published.Status)
	// Publish restamps the current snapshot instead of adding one.
	assert.Equal(t, int64(1), published.Version)
	versions, err := fx.service.Versions(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, domain.StatusPublished, versions[0].Status)
	assert.Equal(t, []string{"published"}, fx.notifier.events)

	_, err = fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSignOnlyFromPublished(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	_, err := fx.service.Sign(context.Background(), fx.ownerID, contract.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)

	ref := "firma-123"
	signed, err := fx.service.Sign(context.Background(), fx.ownerID, contract.ID, &ref)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSigned, signed.Status)
	require.NotNil(t, signed.SignedAt)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), *signed.SignedAt)
	require.NotNil(t, signed.SignatureRef)
	assert.Equal(t, "firma-123", *signed.SignatureRef)
	assert.Contains(t, fx.notifier.events, "signed")
}

func TestCancellationFlow(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	// Cancellation can only be requested on a published contract.
	_, err := fx.service.RequestCancellation(context.Background(), fx.ownerID, contract.ID, notify.CancellationByClient)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)

	requested, err := fx.service.RequestCancellation(context.Background(), fx.ownerID, contract.ID, notify.CancellationByClient)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancellationRequestedByClient, requested.Status)

	cancelled, err := fx.service.ConfirmCancellation(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.True(t, cancelled.Status.IsTerminal())

	assert.Contains(t, fx.notifier.events, "cancellation_requested:client")
	assert.Contains(t, fx.notifier.events, "cancelled")

	_, err = fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRequestCancellationRejectsUnknownOrigin(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	_, err := fx.service.RequestCancellation(context.Background(), fx.ownerID, contract.ID, notify.CancellationOrigin("tercero"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteGuardsSignedContract(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	_, err := fx.service.Publish(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	_, err = fx.service.Sign(context.Background(), fx.ownerID, contract.ID, nil)
	require.NoError(t, err)

	err = fx.service.Delete(context.Background(), fx.ownerID, contract.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeleteDraftContract(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	require.NoError(t, fx.service.Delete(context.Background(), fx.ownerID, contract.ID))

	_, err := fx.service.Get(context.Background(), fx.ownerID, contract.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTemplateRejectsDuplicateSlug(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.CreateTemplate(context.Background(), fx.ownerID, TemplateInput{
		Name: "Contrato General", Content: "a", IsActive: true,
	})
	require.NoError(t, err)

	_, err = fx.service.CreateTemplate(context.Background(), fx.ownerID, TemplateInput{
		Name: "contrato general", Content: "b", IsActive: true,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateTemplateClearsPreviousDefault(t *testing.T) {
	fx := newFixture(t)
	first := fx.seedDefaultTemplate(t, "uno")

	_, err := fx.service.CreateTemplate(context.Background(), fx.ownerID, TemplateInput{
		Name: "Contrato premium", Content: "dos", IsDefault: true, IsActive: true,
	})
	require.NoError(t, err)

	stored, err := fx.templates.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDefault)
}

func TestDeleteTemplateKeepsLastActive(t *testing.T) {
	fx := newFixture(t)
	only := fx.seedDefaultTemplate(t, "contenido")

	err := fx.service.DeleteTemplate(context.Background(), fx.ownerID, only.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	other := domain.NewContractTemplate(fx.ownerID, "Segundo", "contenido", nil)
	_, err = fx.templates.Create(context.Background(), other)
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteTemplate(context.Background(), fx.ownerID, only.ID))
}

func TestOperationsRejectForeignStudio(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido @nombre_cliente")
	contract := fx.generate(t)
	intruder := uuid.New()

	_, err := fx.service.Get(context.Background(), intruder, contract.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.service.Edit(context.Background(), intruder, contract.ID, "Ajeno @nombre_cliente", nil, false, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.service.Regenerate(context.Background(), intruder, contract.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.service.Publish(context.Background(), intruder, contract.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.service.Versions(context.Background(), intruder, contract.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = fx.service.Delete(context.Background(), intruder, contract.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The contract is untouched.
	stored, err := fx.service.Get(context.Background(), fx.ownerID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.Content, stored.Content)
	assert.Equal(t, domain.StatusDraft, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
}

func TestConcurrentEditLosesCompareAndSwap(t *testing.T) {
	fx := newFixture(t)
	fx.seedDefaultTemplate(t, "contenido")
	contract := fx.generate(t)

	// Another writer bumps the version between read and write.
	stale := contract
	stale.Version = 5
	_, err := fx.contracts.Update(context.Background(), stale, 3)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
