package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a pgx-backed template repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

const templateColumns = `id, owner_id, name, slug, content, event_type_id, is_default, is_active, version, created_at, updated_at`

func (r *templateRepository) Create(ctx context.Context, t domain.ContractTemplate) (domain.ContractTemplate, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contract_templates (id, owner_id, name, slug, content, event_type_id, is_default, is_active, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+templateColumns,
		t.ID, t.OwnerID, t.Name, t.Slug, t.Content, t.EventTypeID, t.IsDefault, t.IsActive, t.Version, t.CreatedAt, t.UpdatedAt,
	)
	created, err := scanTemplate(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ContractTemplate{}, fmt.Errorf("template slug %q already exists: %w", t.Slug, domain.ErrConflict)
		}
		return domain.ContractTemplate{}, fmt.Errorf("failed to create template: %w", err)
	}
	return created, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ContractTemplate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM contract_templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ContractTemplate{}, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return domain.ContractTemplate{}, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

func (r *templateRepository) GetBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (domain.ContractTemplate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM contract_templates WHERE owner_id = $1 AND slug = $2`, ownerID, slug)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ContractTemplate{}, fmt.Errorf("template slug %q: %w", slug, domain.ErrNotFound)
		}
		return domain.ContractTemplate{}, fmt.Errorf("failed to get template by slug: %w", err)
	}
	return t, nil
}

func (r *templateRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ContractTemplate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM contract_templates WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.ContractTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *templateRepository) Update(ctx context.Context, t domain.ContractTemplate) (domain.ContractTemplate, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE contract_templates
		SET name = $2, slug = $3, content = $4, event_type_id = $5, is_default = $6, is_active = $7,
		    version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns,
		t.ID, t.Name, t.Slug, t.Content, t.EventTypeID, t.IsDefault, t.IsActive,
	)
	updated, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ContractTemplate{}, fmt.Errorf("template %s: %w", t.ID, domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return domain.ContractTemplate{}, fmt.Errorf("template slug %q already exists: %w", t.Slug, domain.ErrConflict)
		}
		return domain.ContractTemplate{}, fmt.Errorf("failed to update template: %w", err)
	}
	return updated, nil
}

func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contract_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *templateRepository) FindDefault(ctx context.Context, ownerID uuid.UUID, eventTypeID *uuid.UUID) (domain.ContractTemplate, error) {
	if eventTypeID != nil {
		row := r.pool.QueryRow(ctx, `
			SELECT `+templateColumns+` FROM contract_templates
			WHERE owner_id = $1 AND event_type_id = $2 AND is_default AND is_active
			LIMIT 1`, ownerID, *eventTypeID)
		t, err := scanTemplate(row)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.ContractTemplate{}, fmt.Errorf("failed to find event-type default template: %w", err)
		}
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM contract_templates
		WHERE owner_id = $1 AND event_type_id IS NULL AND is_default AND is_active
		LIMIT 1`, ownerID)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ContractTemplate{}, fmt.Errorf("no default template for owner %s: %w", ownerID, domain.ErrNotFound)
		}
		return domain.ContractTemplate{}, fmt.Errorf("failed to find default template: %w", err)
	}
	return t, nil
}

func (r *templateRepository) ClearDefault(ctx context.Context, ownerID uuid.UUID, eventTypeID *uuid.UUID) error {
	var err error
	if eventTypeID != nil {
		_, err = r.pool.Exec(ctx, `UPDATE contract_templates SET is_default = false WHERE owner_id = $1 AND event_type_id = $2`, ownerID, *eventTypeID)
	} else {
		_, err = r.pool.Exec(ctx, `UPDATE contract_templates SET is_default = false WHERE owner_id = $1 AND event_type_id IS NULL`, ownerID)
	}
	if err != nil {
		return fmt.Errorf("failed to clear default templates: %w", err)
	}
	return nil
}

func (r *templateRepository) CountActive(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM contract_templates WHERE owner_id = $1 AND is_active`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active templates: %w", err)
	}
	return count, nil
}

func scanTemplate(row pgx.Row) (domain.ContractTemplate, error) {
	var t domain.ContractTemplate
	err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Slug, &t.Content, &t.EventTypeID,
		&t.IsDefault, &t.IsActive, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
