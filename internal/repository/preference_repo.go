package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inventory-console/internal/database"
	"github.com/lib/pq"
)

// undefined_table, raised when migrations have not been applied
const pqUndefinedTable = "42P01"

// preferenceRepo is the concrete implementation of PreferenceRepository
type preferenceRepo struct {
	db *database.DB
}

// NewPreferenceRepo creates a new preference repository
func NewPreferenceRepo(db *database.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

// Get retrieves a preference value
func (r *preferenceRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapPQ(err)
	}
	return value, true, nil
}

// Set upserts a preference value
func (r *preferenceRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	return wrapPQ(err)
}

func wrapPQ(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
		return fmt.Errorf("preferences table missing, run migrations: %w", err)
	}
	return err
}
