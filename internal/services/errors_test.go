package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"poparch/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("database is locked")
	err := services.Wrap(services.ErrStorage, "library", "add", "insert movie", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"library", "add", "insert movie"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

type kindError struct{ kind string }

func (e kindError) Error() string     { return "kind " + e.kind }
func (e kindError) ErrorKind() string { return e.kind }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.FailureKind
	}{
		{"classifier", fmt.Errorf("outer: %w", kindError{kind: "timeout"}), services.FailureTimeout},
		{"configuration", services.Wrap(services.ErrConfiguration, "tmdb", "", "missing key", nil), services.FailureNotConfigured},
		{"not found", services.Wrap(services.ErrNotFound, "library", "get", "", nil), services.FailureNotFound},
		{"timeout", services.Wrap(services.ErrTimeout, "tmdb", "search", "", nil), services.FailureTimeout},
		{"transient", services.Wrap(services.ErrTransient, "tmdb", "search", "", nil), services.FailureNetwork},
		{"storage", services.Wrap(services.ErrStorage, "library", "update", "", nil), services.FailureStorage},
		{"plain", errors.New("boom"), services.FailureUnexpected},
		{"nil", nil, services.FailureUnexpected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Classify(tc.err); got != tc.want {
				t.Fatalf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}
