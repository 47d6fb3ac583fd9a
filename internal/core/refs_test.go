package core

import "testing"

func TestRefStore_SetGetDirect(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := refs.Set("refs/heads/feature", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := refs.Resolve("refs/heads/feature")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != id {
		t.Fatalf("Resolve = %s, want %s", got, id)
	}
}

func TestRefStore_SymbolicChain(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := refs.Set("refs/heads/master", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set branch: %v", err)
	}
	// HEAD was already written symbolic to refs/heads/master by Create.
	got, err := refs.Resolve("HEAD")
	if err != nil {
		t.Fatalf("Resolve HEAD: %v", err)
	}
	if got != id {
		t.Fatalf("Resolve(HEAD) = %s, want %s", got, id)
	}
}

func TestRefStore_SetDerefFollowsSymbolic(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}

	id1 := mustID(t, "1111111111111111111111111111111111111111")
	id2 := mustID(t, "2222222222222222222222222222222222222222")

	if err := refs.Set("refs/heads/master", RefValue{Value: string(id1)}, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// HEAD is symbolic to refs/heads/master; Set with deref=true should
	// land on refs/heads/master, not overwrite HEAD itself.
	if err := refs.Set("HEAD", RefValue{Value: string(id2)}, true); err != nil {
		t.Fatalf("Set deref: %v", err)
	}

	head, err := refs.Get("HEAD")
	if err != nil {
		t.Fatalf("Get HEAD: %v", err)
	}
	if !head.Symbolic {
		t.Fatal("expected HEAD to remain symbolic after deref'd Set")
	}

	branch, err := refs.Resolve("refs/heads/master")
	if err != nil {
		t.Fatalf("Resolve branch: %v", err)
	}
	if branch != id2 {
		t.Fatalf("refs/heads/master = %s, want %s", branch, id2)
	}
}

func TestRefStore_DeleteHEADRefused(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}
	if err := refs.Delete("HEAD"); err == nil {
		t.Fatal("expected error deleting HEAD, got nil")
	}
}

func TestRefStore_IterIncludesHEADAndMergeHead(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := refs.Set("refs/heads/master", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set branch: %v", err)
	}
	if err := refs.Set("MERGE_HEAD", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set MERGE_HEAD: %v", err)
	}

	entries, err := refs.Iter("", true)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
	}
	for _, want := range []string{"HEAD", "MERGE_HEAD", "refs/heads/master"} {
		if !names[want] {
			t.Fatalf("Iter(\"\", true) missing %s, got %v", want, names)
		}
	}
}

func TestRefStore_IterPrefixFilters(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := refs.Set("refs/heads/master", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set branch: %v", err)
	}
	if err := refs.Set("refs/tags/v1", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set tag: %v", err)
	}

	entries, err := refs.Iter("refs/heads/", true)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "refs/heads/master" {
		t.Fatalf("Iter(\"refs/heads/\", true) = %+v, want only refs/heads/master", entries)
	}
}

func TestRefStore_IterNoDerefReturnsSymbolicValue(t *testing.T) {
	layout := newTestLayout(t)
	refs := RefStore{Layout: layout}

	id := mustID(t, "1111111111111111111111111111111111111111")
	if err := refs.Set("refs/heads/master", RefValue{Value: string(id)}, false); err != nil {
		t.Fatalf("Set branch: %v", err)
	}

	entries, err := refs.Iter("HEAD", false)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Iter(\"HEAD\", false) = %+v, want exactly HEAD", entries)
	}
	if !entries[0].Value.Symbolic || entries[0].Value.Value != "refs/heads/master" {
		t.Fatalf("HEAD entry = %+v, want symbolic pointer at refs/heads/master", entries[0].Value)
	}
}
