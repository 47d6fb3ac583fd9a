package core

import "testing"

func TestIndexStore_StageReadRoundTrip(t *testing.T) {
	layout := newTestLayout(t)
	idx := IndexStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := idx.Stage("a.txt", id); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	entries, err := idx.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if entries["a.txt"] != id {
		t.Fatalf("entries[a.txt] = %s, want %s", entries["a.txt"], id)
	}
}

func TestIndexStore_ReadMissingIsEmpty(t *testing.T) {
	layout := newTestLayout(t)
	idx := IndexStore{Layout: layout}

	entries, err := idx.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index, got %v", entries)
	}
	if idx.Exists() {
		t.Fatal("Exists() = true for a repository with no index written yet")
	}
}

func TestIndexStore_Unstage(t *testing.T) {
	layout := newTestLayout(t)
	idx := IndexStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := idx.Stage("a.txt", id); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := idx.Unstage("a.txt"); err != nil {
		t.Fatalf("Unstage: %v", err)
	}

	entries, err := idx.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, ok := entries["a.txt"]; ok {
		t.Fatal("a.txt still present after Unstage")
	}
}
