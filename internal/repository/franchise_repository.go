package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/franchise-service/internal/domain"
)

// FranchiseRepository manages persistence for franchises and their admin
// (ownership) sets.
type FranchiseRepository interface {
	Create(ctx context.Context, franchise *domain.Franchise) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Franchise, error)
	List(ctx context.Context) ([]domain.Franchise, error)
	ListByAdmin(ctx context.Context, userID int64) ([]domain.Franchise, error)
	AdminIDs(ctx context.Context, franchiseID int64) ([]int64, error)
	AddAdmin(ctx context.Context, franchiseID, userID int64) error
}

type franchiseRepository struct {
	pool *pgxpool.Pool
}

// NewFranchiseRepository constructs repository.
func NewFranchiseRepository(pool *pgxpool.Pool) FranchiseRepository {
	return &franchiseRepository{pool: pool}
}

func (r *franchiseRepository) Create(ctx context.Context, franchise *domain.Franchise) error {
	const query = `
        INSERT INTO franchises (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, franchise.Name).
		Scan(&franchise.ID, &franchise.CreatedAt, &franchise.UpdatedAt)
}

func (r *franchiseRepository) Delete(ctx context.Context, id int64) error {
	// franchise_admins and stores cascade on delete.
	cmd, err := r.pool.Exec(ctx, `DELETE FROM franchises WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *franchiseRepository) GetByID(ctx context.Context, id int64) (*domain.Franchise, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM franchises WHERE id=$1`
	var franchise domain.Franchise
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&franchise.ID,
		&franchise.Name,
		&franchise.CreatedAt,
		&franchise.UpdatedAt,
	); err != nil {
		return nil, err
	}

	adminIDs, err := r.AdminIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	franchise.AdminIDs = adminIDs
	return &franchise, nil
}

func (r *franchiseRepository) List(ctx context.Context) ([]domain.Franchise, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM franchises ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	franchises, err := scanFranchises(rows)
	if err != nil {
		return nil, err
	}
	return r.attachAdminIDs(ctx, franchises)
}

func (r *franchiseRepository) ListByAdmin(ctx context.Context, userID int64) ([]domain.Franchise, error) {
	const query = `
        SELECT f.id, f.name, f.created_at, f.updated_at
        FROM franchises f
        JOIN franchise_admins fa ON fa.franchise_id = f.id
        WHERE fa.user_id=$1 ORDER BY f.id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	franchises, err := scanFranchises(rows)
	if err != nil {
		return nil, err
	}
	return r.attachAdminIDs(ctx, franchises)
}

// attachAdminIDs loads the ownership set for each listed franchise, so list
// paths expose the same membership data as GetByID.
func (r *franchiseRepository) attachAdminIDs(ctx context.Context, franchises []domain.Franchise) ([]domain.Franchise, error) {
	for i := range franchises {
		adminIDs, err := r.AdminIDs(ctx, franchises[i].ID)
		if err != nil {
			return nil, err
		}
		franchises[i].AdminIDs = adminIDs
	}
	return franchises, nil
}

func (r *franchiseRepository) AdminIDs(ctx context.Context, franchiseID int64) ([]int64, error) {
	const query = `
        SELECT user_id FROM franchise_admins WHERE franchise_id=$1`
	rows, err := r.pool.Query(ctx, query, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *franchiseRepository) AddAdmin(ctx context.Context, franchiseID, userID int64) error {
	const query = `
        INSERT INTO franchise_admins (franchise_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, franchiseID, userID)
	return err
}

func scanFranchises(rows pgx.Rows) ([]domain.Franchise, error) {
	var result []domain.Franchise
	for rows.Next() {
		var franchise domain.Franchise
		if err := rows.Scan(&franchise.ID, &franchise.Name, &franchise.CreatedAt, &franchise.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, franchise)
	}
	return result, rows.Err()
}
