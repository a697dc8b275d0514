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

type bankInfoLookup struct {
	pool *pgxpool.Pool
}

// NewBankInfoLookup reads the owner's deposit account from the studio
// schema. A missing row is not an error; the placeholders render empty.
func NewBankInfoLookup(pool *pgxpool.Pool) BankInfoLookup {
	return &bankInfoLookup{pool: pool}
}

func (l *bankInfoLookup) BankInfo(ctx context.Context, ownerID uuid.UUID) (domain.BankInfo, error) {
	var info domain.BankInfo
	err := l.pool.QueryRow(ctx,
		`SELECT COALESCE(bank, ''), COALESCE(titular, ''), COALESCE(clabe, '') FROM studio_bank_accounts WHERE studio_id = $1`,
		ownerID,
	).Scan(&info.Bank, &info.Titular, &info.CLABE)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BankInfo{}, nil
		}
		return domain.BankInfo{}, fmt.Errorf("failed to look up bank info: %w", err)
	}
	return info, nil
}

type catalogLookup struct {
	pool *pgxpool.Pool
}

// NewCatalogLookup resolves billing types for catalog items. When an item
// has no explicit billing type the coarse service/product classification
// decides: products bill per UNIT, everything else per SERVICE.
func NewCatalogLookup(pool *pgxpool.Pool) CatalogLookup {
	return &catalogLookup{pool: pool}
}

func (l *catalogLookup) BillingTypes(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.BillingType, error) {
	types := make(map[uuid.UUID]domain.BillingType, len(itemIDs))
	if len(itemIDs) == 0 {
		return types, nil
	}

	rows, err := l.pool.Query(ctx,
		`SELECT id, COALESCE(billing_type, ''), COALESCE(item_class, '') FROM catalog_items WHERE id = ANY($1)`,
		itemIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up billing types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var billingType, itemClass string
		if err := rows.Scan(&id, &billingType, &itemClass); err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		types[id] = classifyBillingType(billingType, itemClass)
	}
	return types, rows.Err()
}

func classifyBillingType(billingType, itemClass string) domain.BillingType {
	switch domain.BillingType(billingType) {
	case domain.BillingHour, domain.BillingService, domain.BillingUnit:
		return domain.BillingType(billingType)
	}
	if itemClass == "product" {
		return domain.BillingUnit
	}
	return domain.BillingService
}
