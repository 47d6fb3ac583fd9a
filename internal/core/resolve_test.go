package core

import "testing"

func TestResolve_AtAliasesHEAD(t *testing.T) {
	repo, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeWorktreeFile(t, repo.Layout, "a.txt", "hi\n")
	c1, err := repo.Workflow.CreateCommit("m1")
	if err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}

	got, err := repo.Resolve("@")
	if err != nil {
		t.Fatalf("Resolve(@): %v", err)
	}
	if got != c1 {
		t.Fatalf("Resolve(@) = %s, want %s", got, c1)
	}
}

func TestResolve_TagThenLiteral(t *testing.T) {
	repo, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeWorktreeFile(t, repo.Layout, "a.txt", "hi\n")
	c1, err := repo.Workflow.CreateCommit("m1")
	if err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}

	if err := repo.Workflow.CreateTag("v1", c1); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	got, err := repo.Resolve("v1")
	if err != nil {
		t.Fatalf("Resolve(v1): %v", err)
	}
	if got != c1 {
		t.Fatalf("Resolve(v1) = %s, want %s", got, c1)
	}

	got, err = repo.Resolve(string(c1))
	if err != nil {
		t.Fatalf("Resolve(literal id): %v", err)
	}
	if got != c1 {
		t.Fatalf("Resolve(literal id) = %s, want %s", got, c1)
	}
}

func TestResolve_UnknownName(t *testing.T) {
	repo, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	_, err = repo.Resolve("does-not-exist")
	if err == nil {
		t.Fatal("expected UnknownName error, got nil")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindUnknownName {
		t.Fatalf("expected KindUnknownName, got %v", err)
	}
}
