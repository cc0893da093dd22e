package repository

import (
	"context"

	"github.com/inventory-console/internal/database"
)

// PreferenceRepository defines the interface for preference data operations
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Preference PreferenceRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Preference: NewPreferenceRepo(db),
	}
}
