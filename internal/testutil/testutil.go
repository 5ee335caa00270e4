// Package testutil carries shared test helpers: assertions, a recording mock
// HTTP server and canned monitor API responses.
package testutil

import (
	"strings"
	"testing"
)

// AssertEqual checks if two values are equal.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// AssertNil checks if error is nil.
func AssertNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError checks if error is not nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

// AssertContains checks if string contains substring.
func AssertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("got %q, want it to contain %q", got, want)
	}
}

// AssertTrue checks if condition is true.
func AssertTrue(t *testing.T, condition bool) {
	t.Helper()
	if !condition {
		t.Error("expected true but got false")
	}
}

// AssertLen checks if a slice has the expected length.
func AssertLen[T any](t *testing.T, items []T, want int) {
	t.Helper()
	if got := len(items); got != want {
		t.Errorf("got length %d, want %d", got, want)
	}
}

// AssertIntsEqual checks two int slices element-wise.
func AssertIntsEqual(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
