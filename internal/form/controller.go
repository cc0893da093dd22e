// Package form implements the create and edit form state machine.
package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/inventory-console/internal/describe"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrReadOnly is returned when the current role may not mutate inventory
	ErrReadOnly = errors.New("read-only role")
	// ErrInvalid is returned when a submit guard fails
	ErrInvalid = errors.New("form is not valid")
	// ErrBusy is returned for input while a submit is in flight
	ErrBusy = errors.New("form is submitting")
	// ErrClosed is returned for input to a closed form
	ErrClosed = errors.New("form is closed")
	// ErrStale is returned when a submit outlived the form instance it started on
	ErrStale = errors.New("form was reset or closed during submit")
)

// ItemWriter is the subset of the items API a form writes through
type ItemWriter interface {
	Create(ctx context.Context, item models.Item) error
	Update(ctx context.Context, id models.ItemID, item models.Item) error
}

// RoleGate answers whether mutating actions are allowed
type RoleGate interface {
	CanMutate() bool
}

var editableFields = map[string]bool{
	models.FieldName:        true,
	models.FieldQuantity:    true,
	models.FieldCategory:    true,
	models.FieldDescription: true,
}

// Deps are the collaborators of a form controller
type Deps struct {
	Items     ItemWriter
	Describer describe.Describer
	Roles     RoleGate
	// Refresh re-fetches the displayed list after a successful write
	Refresh func(ctx context.Context) error
	Log     zerolog.Logger
}

// Controller holds one open form: its draft, field errors and lifecycle state
type Controller struct {
	mu         sync.Mutex
	id         string
	mode       models.FormMode
	itemID     models.ItemID
	draft      models.Draft
	errors     map[string]string
	state      models.FormState
	generation uint64
	lastError  string
	deps       Deps
	log        zerolog.Logger
}

// NewCreate opens a blank create form
func NewCreate(id string, deps Deps) *Controller {
	c := newController(id, models.FormModeCreate, deps)
	c.draft = blankDraft()
	return c
}

// NewEdit opens an edit form pre-filled from item
func NewEdit(id string, item models.Item, deps Deps) *Controller {
	c := newController(id, models.FormModeEdit, deps)
	c.itemID = item.ID
	c.draft = models.Draft{
		Name:        item.Name,
		Quantity:    strconv.Itoa(item.Quantity),
		Category:    item.Category,
		Description: item.Description,
		Status:      item.Status,
	}
	if c.draft.Status == "" {
		c.draft.Status = validation.SuggestStatusText(c.draft.Name, c.draft.Quantity)
	}
	return c
}

func newController(id string, mode models.FormMode, deps Deps) *Controller {
	return &Controller{
		id:     id,
		mode:   mode,
		errors: make(map[string]string),
		state:  models.FormStateEditing,
		deps:   deps,
		log:    deps.Log.With().Str("form_id", id).Str("mode", string(mode)).Logger(),
	}
}

func blankDraft() models.Draft {
	return models.Draft{Quantity: "0", Status: models.StatusInStock}
}

// ID returns the form instance id
func (c *Controller) ID() string { return c.id }

// View returns a snapshot of the form
func (c *Controller) View() models.FormView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() models.FormView {
	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return models.FormView{
		ID:        c.id,
		Mode:      c.mode,
		ItemID:    c.itemID,
		State:     c.state,
		Draft:     c.draft,
		Errors:    errs,
		LastError: c.lastError,
	}
}

// SetField applies one keystroke to the draft.
//
// The field validator decides whether the value is stored and updates the
// error map. An accepted change to name or quantity recomputes the suggested
// status; writing status directly is a manual override that sticks until
// name or quantity change again.
func (c *Controller) SetField(field, raw string) (models.FormView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case models.FormStateClosed:
		return c.viewLocked(), ErrClosed
	case models.FormStateSubmitting:
		return c.viewLocked(), ErrBusy
	}

	if field == models.FieldStatus {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return c.viewLocked(), fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		c.draft.Status = status
		return c.viewLocked(), nil
	}

	if !editableFields[field] {
		return c.viewLocked(), fmt.Errorf("%w: unknown field %q", ErrInvalid, field)
	}

	res := validation.ValidateField(field, raw)
	if res.Accepted {
		delete(c.errors, field)
	} else {
		c.errors[field] = res.Message
	}
	if !res.Applied {
		return c.viewLocked(), nil
	}

	switch field {
	case models.FieldName:
		c.draft.Name = res.Value
	case models.FieldQuantity:
		c.draft.Quantity = res.Value
	case models.FieldCategory:
		c.draft.Category = res.Value
	case models.FieldDescription:
		c.draft.Description = res.Value
	}

	if field == models.FieldName || field == models.FieldQuantity {
		c.draft.Status = validation.SuggestStatusText(c.draft.Name, c.draft.Quantity)
	}
	return c.viewLocked(), nil
}

// Submit validates the draft, fills a blank description, writes the item
// and refreshes the displayed list.
//
// Non-admin roles are refused before any network call. If the form is reset
// or closed while the description is being generated, the submit is
// abandoned with ErrStale and nothing is written.
func (c *Controller) Submit(ctx context.Context) (models.FormView, error) {
	c.mu.Lock()
	if c.deps.Roles != nil && !c.deps.Roles.CanMutate() {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrReadOnly
	}
	switch c.state {
	case models.FormStateClosed:
		defer c.mu.Unlock()
		return c.viewLocked(), ErrClosed
	case models.FormStateSubmitting:
		defer c.mu.Unlock()
		return c.viewLocked(), ErrBusy
	}
	if problems := c.guardLocked(); len(problems) > 0 {
		defer c.mu.Unlock()
		return c.viewLocked(), fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	item, err := draftToItem(c.draft)
	if err != nil {
		defer c.mu.Unlock()
		return c.viewLocked(), fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	c.state = models.FormStateSubmitting
	c.lastError = ""
	token := c.generation
	c.mu.Unlock()

	if item.Description == "" && c.deps.Describer != nil {
		description := c.deps.Describer.Generate(ctx, item.Name, item.Category)

		c.mu.Lock()
		if c.generation != token {
			view := c.viewLocked()
			c.mu.Unlock()
			c.log.Warn().Msg("Discarding generated description for a stale form")
			return view, ErrStale
		}
		c.draft.Description = description
		item.Description = description
		c.mu.Unlock()
	}

	if c.mode == models.FormModeEdit {
		err = c.deps.Items.Update(ctx, c.itemID, item)
	} else {
		err = c.deps.Items.Create(ctx, item)
	}
	if err != nil {
		c.log.Error().Err(err).Msg("Saving item failed")
		return c.fail(token, err)
	}

	c.log.Info().Str("name", item.Name).Str("status", string(item.Status)).Msg("Item saved")

	var refreshErr error
	if c.deps.Refresh != nil {
		refreshErr = c.deps.Refresh(ctx)
		if refreshErr != nil {
			c.log.Error().Err(refreshErr).Msg("Refreshing item list failed")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == token {
		if c.mode == models.FormModeCreate {
			c.resetLocked()
		} else {
			c.closeLocked()
		}
	}
	if refreshErr != nil {
		c.lastError = refreshErr.Error()
		return c.viewLocked(), fmt.Errorf("item saved but list refresh failed: %w", refreshErr)
	}
	return c.viewLocked(), nil
}

// fail returns a submitting form to editing with the error recorded
func (c *Controller) fail(token uint64, err error) (models.FormView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == token && c.state == models.FormStateSubmitting {
		c.state = models.FormStateEditing
		c.lastError = err.Error()
	}
	return c.viewLocked(), err
}

// Reset discards the draft and starts a new instance generation
func (c *Controller) Reset() models.FormView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	return c.viewLocked()
}

// Cancel closes the form. In-flight submits become stale.
func (c *Controller) Cancel() models.FormView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return c.viewLocked()
}

// Closed reports whether the form has been closed
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == models.FormStateClosed
}

func (c *Controller) resetLocked() {
	c.generation++
	c.draft = blankDraft()
	c.errors = make(map[string]string)
	c.lastError = ""
	c.state = models.FormStateEditing
}

func (c *Controller) closeLocked() {
	c.generation++
	c.state = models.FormStateClosed
}

func (c *Controller) guardLocked() []string {
	var problems []string
	if strings.TrimSpace(c.draft.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(c.draft.Category) == "" {
		problems = append(problems, "category is required")
	}
	fields := make([]string, 0, len(c.errors))
	for field := range c.errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		problems = append(problems, field+": "+c.errors[field])
	}
	return problems
}

func draftToItem(d models.Draft) (models.Item, error) {
	qty := 0
	if d.Quantity != "" {
		n, err := strconv.Atoi(d.Quantity)
		if err != nil {
			return models.Item{}, fmt.Errorf("quantity %q: %w", d.Quantity, err)
		}
		qty = n
	}
	return models.Item{
		Name:        d.Name,
		Quantity:    qty,
		Category:    d.Category,
		Description: d.Description,
		Status:      d.Status,
	}, nil
}
