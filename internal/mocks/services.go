package mocks

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/service"
)

// MockConsoleService is a mock implementation of ConsoleService
type MockConsoleService struct {
	mu    sync.Mutex
	Table []models.Item
	// CurrentRole is returned by Role and changed by SetRole and ToggleRole
	CurrentRole models.Role
	// Err, when set, is returned by every backend-facing method
	Err      error
	Keywords []string
	Deleted  []models.ItemID
}

// Verify interface compliance
var _ service.ConsoleService = (*MockConsoleService)(nil)

func NewMockConsoleService(items ...models.Item) *MockConsoleService {
	return &MockConsoleService{
		Table:       append([]models.Item{}, items...),
		CurrentRole: models.RoleAdmin,
	}
}

func (m *MockConsoleService) Items() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Item{}, m.Table...)
}

func (m *MockConsoleService) Refresh(ctx context.Context) ([]models.Item, error) {
	return m.Items(), m.Err
}

func (m *MockConsoleService) Search(ctx context.Context, keyword string) ([]models.Item, error) {
	m.mu.Lock()
	m.Keywords = append(m.Keywords, keyword)
	m.mu.Unlock()
	return m.Items(), m.Err
}

func (m *MockConsoleService) Delete(ctx context.Context, id models.ItemID) ([]models.Item, error) {
	m.mu.Lock()
	if !m.CurrentRole.CanMutate() {
		m.mu.Unlock()
		return m.Items(), service.ErrReadOnly
	}
	if m.Err != nil {
		m.mu.Unlock()
		return m.Items(), m.Err
	}
	m.Deleted = append(m.Deleted, id)
	kept := m.Table[:0]
	for _, it := range m.Table {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	m.Table = kept
	m.mu.Unlock()
	return m.Items(), nil
}

func (m *MockConsoleService) Find(id models.ItemID) (models.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.Table {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

func (m *MockConsoleService) Role() models.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentRole
}

func (m *MockConsoleService) SetRole(ctx context.Context, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentRole = role
	return nil
}

func (m *MockConsoleService) ToggleRole(ctx context.Context) (models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentRole = m.CurrentRole.Toggled()
	return m.CurrentRole, nil
}

// MockFormService is a mock implementation of FormService
type MockFormService struct {
	Forms map[string]models.FormView

	OpenEditFunc func(itemID models.ItemID) (models.FormView, error)
	SetFieldFunc func(formID, field, value string) (models.FormView, error)
	SubmitFunc   func(ctx context.Context, formID string) (models.FormView, error)
}

// Verify interface compliance
var _ service.FormService = (*MockFormService)(nil)

func NewMockFormService() *MockFormService {
	return &MockFormService{Forms: make(map[string]models.FormView)}
}

func (m *MockFormService) OpenCreate() models.FormView {
	view := models.FormView{
		ID:     "6f1c2a54-3b7e-4d8a-9c10-2b5e8f7d4a01",
		Mode:   models.FormModeCreate,
		State:  models.FormStateEditing,
		Draft:  models.Draft{Status: models.StatusInStock},
		Errors: map[string]string{},
	}
	m.Forms[view.ID] = view
	return view
}

func (m *MockFormService) OpenEdit(itemID models.ItemID) (models.FormView, error) {
	if m.OpenEditFunc != nil {
		return m.OpenEditFunc(itemID)
	}
	view := models.FormView{
		ID:     "0b9e7c3d-52a1-4f6e-8d2c-7a4b1e9f3c02",
		Mode:   models.FormModeEdit,
		ItemID: itemID,
		State:  models.FormStateEditing,
		Errors: map[string]string{},
	}
	m.Forms[view.ID] = view
	return view, nil
}

func (m *MockFormService) Get(formID string) (models.FormView, error) {
	view, ok := m.Forms[formID]
	if !ok {
		return models.FormView{}, service.ErrFormNotFound
	}
	return view, nil
}

func (m *MockFormService) SetField(formID, field, value string) (models.FormView, error) {
	if m.SetFieldFunc != nil {
		return m.SetFieldFunc(formID, field, value)
	}
	return m.Get(formID)
}

func (m *MockFormService) Submit(ctx context.Context, formID string) (models.FormView, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, formID)
	}
	return m.Get(formID)
}

func (m *MockFormService) Cancel(formID string) (models.FormView, error) {
	view, err := m.Get(formID)
	if err != nil {
		return view, err
	}
	delete(m.Forms, formID)
	view.State = models.FormStateClosed
	return view, nil
}

// MockTransferService is a mock implementation of TransferService
type MockTransferService struct {
	ExportFunc func(ctx context.Context, w http.ResponseWriter, format models.ExportFormat) error
	ImportFunc func(ctx context.Context, r io.Reader) (*models.ImportReport, error)
	Imported   [][]byte
}

// Verify interface compliance
var _ service.TransferService = (*MockTransferService)(nil)

func NewMockTransferService() *MockTransferService {
	return &MockTransferService{}
}

func (m *MockTransferService) Export(ctx context.Context, w http.ResponseWriter, format models.ExportFormat) error {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, w, format)
	}
	return nil
}

func (m *MockTransferService) Import(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.Imported = append(m.Imported, data)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, bytes.NewReader(data))
	}
	return &models.ImportReport{}, nil
}
