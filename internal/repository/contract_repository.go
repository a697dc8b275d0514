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

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository creates a pgx-backed event contract repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

const contractColumns = `id, event_id, template_id, content, custom_template_content, status, version, signed_at, signature_ref, created_at, updated_at`

func (r *contractRepository) Create(ctx context.Context, c domain.EventContract) (domain.EventContract, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO event_contracts (id, event_id, template_id, content, custom_template_content, status, version, signed_at, signature_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+contractColumns,
		c.ID, c.EventID, c.TemplateID, c.Content, c.CustomTemplateContent, c.Status, c.Version, c.SignedAt, c.SignatureRef, c.CreatedAt, c.UpdatedAt,
	)
	created, err := scanContract(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.EventContract{}, fmt.Errorf("contract already exists for event %s: %w", c.EventID, domain.ErrConflict)
		}
		return domain.EventContract{}, fmt.Errorf("failed to create contract: %w", err)
	}
	return created, nil
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.EventContract, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM event_contracts WHERE id = $1`, id)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EventContract{}, fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
		}
		return domain.EventContract{}, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

func (r *contractRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) (domain.EventContract, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM event_contracts WHERE event_id = $1`, eventID)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EventContract{}, fmt.Errorf("contract for event %s: %w", eventID, domain.ErrNotFound)
		}
		return domain.EventContract{}, fmt.Errorf("failed to get contract by event: %w", err)
	}
	return c, nil
}

func (r *contractRepository) ExistsForEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM event_contracts WHERE event_id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check contract existence: %w", err)
	}
	return exists, nil
}

// Update applies a content-changing mutation with a compare-and-swap on
// the version column. Zero rows updated means another writer won the race.
func (r *contractRepository) Update(ctx context.Context, c domain.EventContract, expectedVersion int64) (domain.EventContract, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE event_contracts
		SET template_id = $3, content = $4, custom_template_content = $5, status = $6, version = $7, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING `+contractColumns,
		c.ID, expectedVersion, c.TemplateID, c.Content, c.CustomTemplateContent, c.Status, c.Version,
	)
	updated, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EventContract{}, fmt.Errorf("contract %s changed concurrently (expected version %d): %w", c.ID, expectedVersion, domain.ErrConflict)
		}
		return domain.EventContract{}, fmt.Errorf("failed to update contract: %w", err)
	}
	return updated, nil
}

func (r *contractRepository) UpdateStatus(ctx context.Context, c domain.EventContract) (domain.EventContract, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE event_contracts
		SET status = $2, signed_at = $3, signature_ref = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+contractColumns,
		c.ID, c.Status, c.SignedAt, c.SignatureRef,
	)
	updated, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EventContract{}, fmt.Errorf("contract %s: %w", c.ID, domain.ErrNotFound)
		}
		return domain.EventContract{}, fmt.Errorf("failed to update contract status: %w", err)
	}
	return updated, nil
}

func (r *contractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanContract(row pgx.Row) (domain.EventContract, error) {
	var c domain.EventContract
	err := row.Scan(&c.ID, &c.EventID, &c.TemplateID, &c.Content, &c.CustomTemplateContent,
		&c.Status, &c.Version, &c.SignedAt, &c.SignatureRef, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
