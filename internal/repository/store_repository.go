package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/franchise-service/internal/domain"
)

// StoreRepository manages persistence for franchise stores.
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	Delete(ctx context.Context, franchiseID, storeID int64) error
	ListByFranchise(ctx context.Context, franchiseID int64) ([]domain.Store, error)
}

type storeRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository constructs repository.
func NewStoreRepository(pool *pgxpool.Pool) StoreRepository {
	return &storeRepository{pool: pool}
}

func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	const query = `
        INSERT INTO stores (franchise_id, name)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, store.FranchiseID, store.Name).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
}

func (r *storeRepository) Delete(ctx context.Context, franchiseID, storeID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id=$1 AND franchise_id=$2`, storeID, franchiseID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *storeRepository) ListByFranchise(ctx context.Context, franchiseID int64) ([]domain.Store, error) {
	const query = `
        SELECT id, franchise_id, name, created_at, updated_at
        FROM stores WHERE franchise_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Store
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(&store.ID, &store.FranchiseID, &store.Name, &store.CreatedAt, &store.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, store)
	}
	return result, rows.Err()
}
