package pictures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/dbx"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Picture, error) {
	query :=
		`SELECT id, COALESCE(user_id::text, ''), name, link, storage_key, created_at FROM pictures
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*Picture{}
	for rows.Next() {
		p := &Picture{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Link, &p.StorageKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Picture, error) {
	query :=
		`SELECT id, COALESCE(user_id::text, ''), name, link, storage_key, created_at FROM pictures
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*Picture, error) {
	query :=
		`SELECT id, COALESCE(user_id::text, ''), name, link, storage_key, created_at FROM pictures
		 WHERE id = $1 AND user_id = $2
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) FindByStorageKey(ctx context.Context, userID, storageKey, excludeID string) (*Picture, error) {
	query :=
		`SELECT id, COALESCE(user_id::text, ''), name, link, storage_key, created_at FROM pictures
		 WHERE user_id = $1 AND storage_key = $2 AND ($3 = '' OR id::text <> $3)
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, storageKey, excludeID))
}

// Create inserts a new picture. The unique index on (user_id, storage_key)
// is the authoritative duplicate-asset guard.
func (r *PostgresRepository) Create(ctx context.Context, p *Picture) (*Picture, error) {
	query :=
		`INSERT INTO pictures (user_id, name, link, storage_key)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Name, p.Link, p.StorageKey).
		Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *Picture) (*Picture, error) {
	query :=
		`UPDATE pictures SET name = $2, link = $3, storage_key = $4
		 WHERE id = $1
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Link, p.StorageKey).Scan(&p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM pictures WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Picture, error) {
	p := &Picture{}
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Link, &p.StorageKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
