package service

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/inventory-console/internal/describe"
	"github.com/inventory-console/internal/form"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/preferences"
	"github.com/rs/zerolog"
)

var (
	// ErrReadOnly is returned when the current role may not mutate inventory
	ErrReadOnly = form.ErrReadOnly
	// ErrItemNotFound is returned when an item is not in the displayed table
	ErrItemNotFound = errors.New("item not found")
	// ErrFormNotFound is returned for an unknown or closed form id
	ErrFormNotFound = form.ErrNotFound
	// ErrMalformedImport is returned when an import file has no usable header
	ErrMalformedImport = errors.New("malformed import file")

	ErrInvalid = form.ErrInvalid
	ErrBusy    = form.ErrBusy
	ErrClosed  = form.ErrClosed
	ErrStale   = form.ErrStale
)

// ItemsAPI is the items backend as seen by the console
type ItemsAPI interface {
	List(ctx context.Context) ([]models.Item, error)
	Create(ctx context.Context, item models.Item) error
	Update(ctx context.Context, id models.ItemID, item models.Item) error
	Delete(ctx context.Context, id models.ItemID) error
	Search(ctx context.Context, keyword string) ([]models.Item, error)
}

// ConsoleService defines the interface for the displayed table and role
type ConsoleService interface {
	Items() []models.Item
	Refresh(ctx context.Context) ([]models.Item, error)
	Search(ctx context.Context, keyword string) ([]models.Item, error)
	Delete(ctx context.Context, id models.ItemID) ([]models.Item, error)
	Find(id models.ItemID) (models.Item, bool)
	Role() models.Role
	SetRole(ctx context.Context, role models.Role) error
	ToggleRole(ctx context.Context) (models.Role, error)
}

// FormService defines the interface for open forms
type FormService interface {
	OpenCreate() models.FormView
	OpenEdit(itemID models.ItemID) (models.FormView, error)
	Get(formID string) (models.FormView, error)
	SetField(formID, field, value string) (models.FormView, error)
	Submit(ctx context.Context, formID string) (models.FormView, error)
	Cancel(formID string) (models.FormView, error)
}

// TransferService defines the interface for bulk import and export
type TransferService interface {
	Export(ctx context.Context, w http.ResponseWriter, format models.ExportFormat) error
	Import(ctx context.Context, r io.Reader) (*models.ImportReport, error)
}

// Services holds all service interfaces
type Services struct {
	Console  ConsoleService
	Forms    FormService
	Transfer TransferService
}

// NewServices creates all services for one console session
func NewServices(api ItemsAPI, roles *preferences.RoleStore, describer describe.Describer, log zerolog.Logger) *Services {
	console := newConsoleService(api, roles, log)
	forms := newFormService(api, console, roles, describer, log)
	transfer := newTransferService(api, console, roles, describer, log)

	return &Services{
		Console:  console,
		Forms:    forms,
		Transfer: transfer,
	}
}
