package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
)

func TestWrapPQ(t *testing.T) {
	if wrapPQ(nil) != nil {
		t.Error("nil error should stay nil")
	}

	missing := &pq.Error{Code: pqUndefinedTable, Message: `relation "preferences" does not exist`}
	err := wrapPQ(missing)
	if !strings.Contains(err.Error(), "run migrations") {
		t.Errorf("expected migration hint, got %v", err)
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		t.Error("original pq error should stay reachable")
	}

	other := errors.New("connection reset")
	if wrapPQ(other) != other {
		t.Error("unrelated errors should pass through unchanged")
	}
}
