package service

import (
	"context"
	"sync"

	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/preferences"
	"github.com/rs/zerolog"
)

// consoleService is the concrete implementation of ConsoleService
type consoleService struct {
	api   ItemsAPI
	roles *preferences.RoleStore
	log   zerolog.Logger

	mu    sync.RWMutex
	table []models.Item
}

// newConsoleService creates a new ConsoleService with an empty table
func newConsoleService(api ItemsAPI, roles *preferences.RoleStore, log zerolog.Logger) *consoleService {
	return &consoleService{
		api:   api,
		roles: roles,
		table: []models.Item{},
		log:   log.With().Str("service", "console").Logger(),
	}
}

// Items returns the displayed table
func (s *consoleService) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Item(nil), s.table...)
}

// Find looks an item up in the displayed table
func (s *consoleService) Find(id models.ItemID) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.table {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

// Refresh replaces the displayed table with the full backend list.
// On failure the previous table stays on display.
func (s *consoleService) Refresh(ctx context.Context) ([]models.Item, error) {
	items, err := s.api.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list items")
		return s.Items(), err
	}
	s.setTable(items)
	s.log.Debug().Int("count", len(items)).Msg("Item list refreshed")
	return items, nil
}

// Search replaces the displayed table with the items matching keyword
func (s *consoleService) Search(ctx context.Context, keyword string) ([]models.Item, error) {
	items, err := s.api.Search(ctx, keyword)
	if err != nil {
		s.log.Error().Err(err).Str("keyword", keyword).Msg("Search failed")
		return s.Items(), err
	}
	s.setTable(items)
	s.log.Info().Str("keyword", keyword).Int("matches", len(items)).Msg("Search completed")
	return items, nil
}

// Delete removes an item and re-fetches the list. Viewers are refused
// without contacting the backend.
func (s *consoleService) Delete(ctx context.Context, id models.ItemID) ([]models.Item, error) {
	if !s.roles.CanMutate() {
		return s.Items(), ErrReadOnly
	}
	if err := s.api.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("item_id", id.String()).Msg("Delete failed")
		return s.Items(), err
	}
	s.log.Info().Str("item_id", id.String()).Msg("Item deleted")
	return s.Refresh(ctx)
}

// Role returns the session role
func (s *consoleService) Role() models.Role {
	return s.roles.Role()
}

// SetRole switches and persists the session role
func (s *consoleService) SetRole(ctx context.Context, role models.Role) error {
	return s.roles.Set(ctx, role)
}

// ToggleRole flips the session role
func (s *consoleService) ToggleRole(ctx context.Context) (models.Role, error) {
	return s.roles.Toggle(ctx)
}

func (s *consoleService) refreshOnly(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	return err
}

func (s *consoleService) setTable(items []models.Item) {
	s.mu.Lock()
	s.table = items
	s.mu.Unlock()
}
