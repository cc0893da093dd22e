package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/inventory-console/internal/models"
)

// MockDescriber is a stand-in for the description generator
type MockDescriber struct {
	mu    sync.Mutex
	calls int

	// GenerateFunc overrides the default fallback-style answer
	GenerateFunc func(ctx context.Context, name, category string) string
	// Started, when set, receives a value as each call begins
	Started chan struct{}
	// Release, when set, blocks each call until it can receive
	Release chan struct{}
}

// NewMockDescriber creates a describer answering with the fallback text
func NewMockDescriber() *MockDescriber {
	return &MockDescriber{}
}

func (m *MockDescriber) Generate(ctx context.Context, name, category string) string {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Release != nil {
		<-m.Release
	}
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, name, category)
	}
	return fmt.Sprintf("Smart description for %s in %s", name, category)
}

// Calls returns how many times Generate ran
func (m *MockDescriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockItemWriter records create and update calls
type MockItemWriter struct {
	mu      sync.Mutex
	Created []models.Item
	Updated map[models.ItemID]models.Item
	Err     error
}

// NewMockItemWriter creates an empty writer
func NewMockItemWriter() *MockItemWriter {
	return &MockItemWriter{Updated: make(map[models.ItemID]models.Item)}
}

func (m *MockItemWriter) Create(ctx context.Context, item models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, item)
	return nil
}

func (m *MockItemWriter) Update(ctx context.Context, id models.ItemID, item models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Updated[id] = item
	return nil
}

// Writes returns the number of successful writes
func (m *MockItemWriter) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created) + len(m.Updated)
}

// StaticRoles is a fixed role gate
type StaticRoles struct {
	Role models.Role
}

func (s StaticRoles) CanMutate() bool { return s.Role.CanMutate() }
