package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreate_MaterializesSkeleton(t *testing.T) {
	dir := t.TempDir()
	layout, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, sub := range []string{"objects", filepath.Join("refs", "heads"), filepath.Join("refs", "tags")} {
		if _, err := os.Stat(filepath.Join(layout.DataDir, sub)); err != nil {
			t.Fatalf("expected %s to exist: %v", sub, err)
		}
	}

	refs := RefStore{Layout: layout}
	head, err := refs.Get("HEAD")
	if err != nil {
		t.Fatalf("Get HEAD: %v", err)
	}
	if !head.Symbolic || head.Value != "refs/heads/master" {
		t.Fatalf("HEAD = %+v, want symbolic refs/heads/master", head)
	}
}

func TestCreate_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(dir); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := Create(dir)
	if err == nil {
		t.Fatal("expected error creating a repository over an existing one")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindAlreadyExists {
		t.Fatalf("expected KindAlreadyExists, got %v", err)
	}
}

func TestFind_WalksUpward(t *testing.T) {
	root := t.TempDir()
	if _, err := Create(root); err != nil {
		t.Fatalf("Create: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	layout, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if layout.WorkDir != root {
		t.Fatalf("Find located %s, want %s", layout.WorkDir, root)
	}
}

func TestFind_NotARepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err == nil {
		t.Fatal("expected NotARepository, got nil")
	}
}

func TestWithDataDir_RejectsNestedEntry(t *testing.T) {
	layout := newTestLayout(t)

	err := WithDataDir(layout, func() error {
		return WithDataDir(layout, func() error { return nil })
	})
	if err == nil {
		t.Fatal("expected Busy error for nested WithDataDir, got nil")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindBusy {
		t.Fatalf("expected KindBusy, got %v", err)
	}
}
