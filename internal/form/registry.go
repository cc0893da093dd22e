package form

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-console/internal/models"
)

// ErrNotFound is returned for an unknown form id
var ErrNotFound = errors.New("form not found")

// DefaultIdleTTL is how long an untouched form stays registered
const DefaultIdleTTL = 30 * time.Minute

type entry struct {
	c       *Controller
	touched time.Time
}

// Registry tracks the open form instances of a console session
type Registry struct {
	mu    sync.Mutex
	forms map[string]*entry
	deps  Deps

	// IdleTTL evicts forms not looked up for longer than this. Zero keeps
	// forms until they are closed.
	IdleTTL time.Duration
	// Now is the clock used for idle tracking
	Now func() time.Time
}

// NewRegistry creates an empty Registry whose forms share deps
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		forms:   make(map[string]*entry),
		deps:    deps,
		IdleTTL: DefaultIdleTTL,
		Now:     time.Now,
	}
}

// OpenCreate opens a new blank create form. Opening is allowed for every
// role; submitting is not.
func (r *Registry) OpenCreate() *Controller {
	c := NewCreate(uuid.NewString(), r.deps)
	r.add(c)
	return c
}

// OpenEdit opens an edit form for item. Viewers are refused.
func (r *Registry) OpenEdit(item models.Item) (*Controller, error) {
	if r.deps.Roles != nil && !r.deps.Roles.CanMutate() {
		return nil, ErrReadOnly
	}
	c := NewEdit(uuid.NewString(), item, r.deps)
	r.add(c)
	return c, nil
}

// Get returns an open form and marks it as recently used. Forms that
// closed themselves after a successful edit are dropped on lookup.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.forms[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.c.Closed() {
		delete(r.forms, id)
		return nil, ErrNotFound
	}
	e.touched = r.Now()
	return e.c, nil
}

// Close cancels a form and forgets it
func (r *Registry) Close(id string) (models.FormView, error) {
	r.mu.Lock()
	e, ok := r.forms[id]
	delete(r.forms, id)
	r.mu.Unlock()
	if !ok {
		return models.FormView{}, ErrNotFound
	}
	return e.c.Cancel(), nil
}

// Len returns the number of tracked forms
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

func (r *Registry) add(c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	r.forms[c.ID()] = &entry{c: c, touched: r.Now()}
}

// pruneLocked drops closed forms and forms idle past IdleTTL. A form in
// the middle of a submit is kept.
func (r *Registry) pruneLocked() {
	now := r.Now()
	for id, e := range r.forms {
		if e.c.Closed() {
			delete(r.forms, id)
			continue
		}
		if r.IdleTTL <= 0 || now.Sub(e.touched) <= r.IdleTTL {
			continue
		}
		if e.c.View().State == models.FormStateSubmitting {
			continue
		}
		e.c.Cancel()
		delete(r.forms, id)
	}
}
