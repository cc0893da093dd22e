package preferences

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/inventory-console/internal/models"
	"github.com/rs/zerolog"
)

type failingStorage struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	f.sets++
	return f.setErr
}

func TestRoleStore_DefaultsToAdmin(t *testing.T) {
	store := NewRoleStore(NewMemoryStorage(), zerolog.Nop())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Role() != models.RoleAdmin {
		t.Errorf("expected admin, got %s", store.Role())
	}
	if !store.CanMutate() {
		t.Error("admin should be able to mutate")
	}
}

func TestRoleStore_PersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	first := NewRoleStore(storage, zerolog.Nop())
	if err := first.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	role, err := first.Toggle(ctx)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if role != models.RoleViewer {
		t.Fatalf("expected viewer after toggle, got %s", role)
	}

	second := NewRoleStore(storage, zerolog.Nop())
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second.Role() != models.RoleViewer {
		t.Errorf("expected persisted viewer, got %s", second.Role())
	}
	if second.CanMutate() {
		t.Error("viewer must not mutate")
	}
}

func TestRoleStore_UnknownStoredValue(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	storage.Set(ctx, RoleKey, "superuser")

	store := NewRoleStore(storage, zerolog.Nop())
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Role() != models.RoleAdmin {
		t.Errorf("expected fallback to admin, got %s", store.Role())
	}
}

func TestRoleStore_SetRejectsInvalid(t *testing.T) {
	storage := &failingStorage{}
	store := NewRoleStore(storage, zerolog.Nop())
	if err := store.Set(context.Background(), models.Role("root")); err == nil {
		t.Error("expected error for invalid role")
	}
	if storage.sets != 0 {
		t.Errorf("invalid role must not be written, got %d writes", storage.sets)
	}
}

func TestRoleStore_SaveFailure(t *testing.T) {
	boom := errors.New("disk full")
	store := NewRoleStore(&failingStorage{setErr: boom}, zerolog.Nop())

	err := store.Set(context.Background(), models.RoleViewer)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if store.Role() != models.RoleViewer {
		t.Errorf("in-memory role should still change, got %s", store.Role())
	}
}

func TestRoleStore_LoadFailure(t *testing.T) {
	boom := errors.New("unreachable")
	store := NewRoleStore(&failingStorage{getErr: boom}, zerolog.Nop())
	if err := store.Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped load error, got %v", err)
	}
	if store.Role() != models.RoleAdmin {
		t.Errorf("expected default role after failed load, got %s", store.Role())
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	storage := NewFileStorage(path)

	if _, found, err := storage.Get(ctx, RoleKey); err != nil || found {
		t.Fatalf("expected empty storage, found=%v err=%v", found, err)
	}

	if err := storage.Set(ctx, RoleKey, "viewer"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := storage.Set(ctx, "other", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewFileStorage(path)
	value, found, err := reopened.Get(ctx, RoleKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || value != "viewer" {
		t.Errorf("expected viewer, got %q (found=%v)", value, found)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("preferences: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStorage(path).Get(context.Background(), RoleKey); err == nil {
		t.Error("expected decode error for corrupt file")
	}
}
