package core

import "testing"

// newTestLayout creates a fresh repository rooted at t.TempDir() and returns
// its Layout, the way the teacher package's tests lean on t.TempDir() for
// filesystem fixtures rather than a shared golden directory.
func newTestLayout(t *testing.T) Layout {
	t.Helper()
	layout, err := Create(t.TempDir())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return layout
}
