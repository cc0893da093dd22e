package service

import (
	"context"

	"github.com/inventory-console/internal/describe"
	"github.com/inventory-console/internal/form"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/preferences"
	"github.com/rs/zerolog"
)

// formService is the concrete implementation of FormService
type formService struct {
	registry *form.Registry
	console  *consoleService
	log      zerolog.Logger
}

// newFormService creates a new FormService whose forms refresh the console
// table after every successful write
func newFormService(api ItemsAPI, console *consoleService, roles *preferences.RoleStore, describer describe.Describer, log zerolog.Logger) *formService {
	logger := log.With().Str("service", "forms").Logger()
	registry := form.NewRegistry(form.Deps{
		Items:     api,
		Describer: describer,
		Roles:     roles,
		Refresh:   console.refreshOnly,
		Log:       logger,
	})
	return &formService{
		registry: registry,
		console:  console,
		log:      logger,
	}
}

// OpenCreate opens a blank create form
func (s *formService) OpenCreate() models.FormView {
	c := s.registry.OpenCreate()
	s.log.Debug().Str("form_id", c.ID()).Int("open_forms", s.registry.Len()).Msg("Create form opened")
	return c.View()
}

// OpenEdit opens an edit form for an item in the displayed table.
// No backend call is made.
func (s *formService) OpenEdit(itemID models.ItemID) (models.FormView, error) {
	if !s.console.roles.CanMutate() {
		return models.FormView{}, ErrReadOnly
	}
	item, ok := s.console.Find(itemID)
	if !ok {
		return models.FormView{}, ErrItemNotFound
	}
	c, err := s.registry.OpenEdit(item)
	if err != nil {
		return models.FormView{}, err
	}
	s.log.Debug().Str("form_id", c.ID()).Str("item_id", itemID.String()).Int("open_forms", s.registry.Len()).Msg("Edit form opened")
	return c.View(), nil
}

// Get returns a form snapshot
func (s *formService) Get(formID string) (models.FormView, error) {
	c, err := s.registry.Get(formID)
	if err != nil {
		return models.FormView{}, err
	}
	return c.View(), nil
}

// SetField applies one keystroke
func (s *formService) SetField(formID, field, value string) (models.FormView, error) {
	c, err := s.registry.Get(formID)
	if err != nil {
		return models.FormView{}, err
	}
	return c.SetField(field, value)
}

// Submit submits a form
func (s *formService) Submit(ctx context.Context, formID string) (models.FormView, error) {
	c, err := s.registry.Get(formID)
	if err != nil {
		return models.FormView{}, err
	}
	return c.Submit(ctx)
}

// Cancel closes a form
func (s *formService) Cancel(formID string) (models.FormView, error) {
	return s.registry.Close(formID)
}
