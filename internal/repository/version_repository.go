package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

type versionRepository struct {
	pool *pgxpool.Pool
}

// NewVersionRepository creates a pgx-backed contract version repository.
func NewVersionRepository(pool *pgxpool.Pool) VersionRepository {
	return &versionRepository{pool: pool}
}

// Insert records a snapshot. ON CONFLICT DO NOTHING keeps re-runs after a
// partial failure from duplicating (contract_id, version).
func (r *versionRepository) Insert(ctx context.Context, v domain.ContractVersion) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contract_versions (id, contract_id, version, content, status, change_type, change_reason, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (contract_id, version) DO NOTHING`,
		v.ID, v.ContractID, v.Version, v.Content, v.Status, v.ChangeType, v.ChangeReason, v.Author, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contract version: %w", err)
	}
	return nil
}

func (r *versionRepository) Exists(ctx context.Context, contractID uuid.UUID, version int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contract_versions WHERE contract_id = $1 AND version = $2)`,
		contractID, version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check version existence: %w", err)
	}
	return exists, nil
}

func (r *versionRepository) UpdateStatus(ctx context.Context, contractID uuid.UUID, version int64, status domain.ContractStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contract_versions SET status = $3 WHERE contract_id = $1 AND version = $2`,
		contractID, version, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update version status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("version %d of contract %s: %w", version, contractID, domain.ErrNotFound)
	}
	return nil
}

func (r *versionRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.ContractVersion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contract_id, version, content, status, change_type, change_reason, author, created_at
		FROM contract_versions WHERE contract_id = $1 ORDER BY version`,
		contractID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contract versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.ContractVersion
	for rows.Next() {
		var v domain.ContractVersion
		if err := rows.Scan(&v.ID, &v.ContractID, &v.Version, &v.Content, &v.Status,
			&v.ChangeType, &v.ChangeReason, &v.Author, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contract version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
