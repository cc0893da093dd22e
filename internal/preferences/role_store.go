// Package preferences remembers console settings across sessions.
package preferences

import (
	"context"
	"fmt"
	"sync"

	"github.com/inventory-console/internal/models"
	"github.com/rs/zerolog"
)

// RoleKey is the storage key the selected role is kept under
const RoleKey = "inventory.role"

// Storage is a durable key-value store for preferences
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// RoleStore holds the session role. It is read once with Load and written
// back to storage on every change.
type RoleStore struct {
	mu      sync.RWMutex
	role    models.Role
	storage Storage
	log     zerolog.Logger
}

// NewRoleStore creates a RoleStore starting at the default role
func NewRoleStore(storage Storage, log zerolog.Logger) *RoleStore {
	return &RoleStore{
		role:    models.DefaultRole,
		storage: storage,
		log:     log.With().Str("component", "role_store").Logger(),
	}
}

// Load reads the stored role. A missing or unrecognised value leaves the
// default role in place.
func (s *RoleStore) Load(ctx context.Context) error {
	value, found, err := s.storage.Get(ctx, RoleKey)
	if err != nil {
		return fmt.Errorf("load role: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found {
		s.role = models.DefaultRole
		return nil
	}
	role, err := models.ParseRole(value)
	if err != nil {
		s.log.Warn().Str("stored", value).Msg("Ignoring unknown stored role")
		s.role = models.DefaultRole
		return nil
	}
	s.role = role
	s.log.Info().Str("role", string(role)).Msg("Role loaded")
	return nil
}

// Role returns the current role
func (s *RoleStore) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// CanMutate reports whether the current role may change inventory
func (s *RoleStore) CanMutate() bool {
	return s.Role().CanMutate()
}

// Set switches the role and persists it. The in-memory role changes even
// when persisting fails; the error is returned so callers can surface it.
func (s *RoleStore) Set(ctx context.Context, role models.Role) error {
	if !models.ValidRoles[role] {
		return fmt.Errorf("invalid role %q", role)
	}

	s.mu.Lock()
	s.role = role
	s.mu.Unlock()

	if err := s.storage.Set(ctx, RoleKey, string(role)); err != nil {
		return fmt.Errorf("save role: %w", err)
	}
	s.log.Info().Str("role", string(role)).Msg("Role changed")
	return nil
}

// Toggle flips between admin and viewer and returns the new role
func (s *RoleStore) Toggle(ctx context.Context) (models.Role, error) {
	next := s.Role().Toggled()
	return next, s.Set(ctx, next)
}
