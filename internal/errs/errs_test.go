// ABOUTME: Tests for the error taxonomy.
// ABOUTME: Covers sentinel matching, cause unwrapping and message rendering.
package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMatchesSentinel(t *testing.T) {
	err := New(KindNotFound, "update", "GOALS", "g1", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrDuplicateID) {
		t.Error("did not expect match with ErrDuplicateID")
	}
}

func TestErrorKeepsCause(t *testing.T) {
	err := New(KindWrite, "put", "", "blob-1", io.ErrShortWrite)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if !errors.Is(err, ErrWrite) {
		t.Error("expected kind sentinel match")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"collection and id", New(KindDuplicateID, "add", "SESSIONS", "s1", nil), "add SESSIONS/s1: duplicate id"},
		{"id only", New(KindRead, "get", "", "k", io.EOF), "get k: read failed: EOF"},
		{"op only", Importf("missing %s", "settings"), "import: invalid import file: missing settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesClassification(t *testing.T) {
	inner := New(KindNotFound, "update", "GOALS", "g1", nil)
	wrapped := Wrap(KindWrite, "set", "GOALS", "", fmt.Errorf("tx: %w", inner))
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf = %q, want %q", KindOf(wrapped), KindNotFound)
	}
	if Wrap(KindWrite, "set", "", "", nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if KindOf(io.EOF) != "" {
		t.Error("unclassified error should have empty kind")
	}
}
