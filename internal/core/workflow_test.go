package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWorktreeFile(t *testing.T, layout Layout, relPath, content string) {
	t.Helper()
	full := filepath.Join(layout.WorkDir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// TestScenarioS1_InitCommitLog exercises spec scenario S1.
func TestScenarioS1_InitCommitLog(t *testing.T) {
	repo, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	writeWorktreeFile(t, repo.Layout, "a.txt", "hi\n")

	blobID, err := repo.Objects.Write(BlobType, []byte("hi\n"))
	if err != nil {
		t.Fatalf("Write blob: %v", err)
	}
	if err := repo.Index.Stage("a.txt", blobID); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	c1, err := repo.Workflow.CreateCommit("m1")
	if err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}

	var found []ID
	err = repo.Graph.WalkAncestors([]ID{c1}, func(id ID, c Commit) bool {
		found = append(found, id)
		return true
	})
	if err != nil {
		t.Fatalf("WalkAncestors: %v", err)
	}
	if len(found) != 1 || found[0] != c1 {
		t.Fatalf("log = %v, want single commit %s", found, c1)
	}

	c, err := repo.Graph.Load(c1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Message != "m1\n" {
		t.Fatalf("message = %q, want %q", c.Message, "m1\n")
	}
}

// TestScenarioS2_Reproducibility exercises spec scenario S2.
func TestScenarioS2_Reproducibility(t *testing.T) {
	layout := newTestLayout(t)
	store := ObjectStore{Layout: layout}

	blobID, err := store.Write(BlobType, []byte("hi\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if blobID != "45b983be36b73c0788dc9cbcb76cbb80fc7bb057" {
		t.Fatalf("blob id = %s, want 45b983be36b73c0788dc9cbcb76cbb80fc7bb057", blobID)
	}

	treeID, err := store.Write(TreeType, mustEncodeTree(t, []TreeEntry{{Kind: BlobType, ID: blobID, Name: "a.txt"}}))
	if err != nil {
		t.Fatalf("Write tree: %v", err)
	}

	blobID2, err := store.Write(BlobType, []byte("hi\n"))
	if err != nil {
		t.Fatalf("Write (again): %v", err)
	}
	treeID2, err := store.Write(TreeType, mustEncodeTree(t, []TreeEntry{{Kind: BlobType, ID: blobID2, Name: "a.txt"}}))
	if err != nil {
		t.Fatalf("Write tree (again): %v", err)
	}

	if blobID != blobID2 || treeID != treeID2 {
		t.Fatalf("writing identical content twice diverged: blobs %s/%s, trees %s/%s", blobID, blobID2, treeID, treeID2)
	}
}

func mustEncodeTree(t *testing.T, entries []TreeEntry) []byte {
	t.Helper()
	payload, err := EncodeTree(entries)
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	return payload
}

// TestScenarioS3_BranchAndCheckout exercises spec scenario S3.
func TestScenarioS3_BranchAndCheckout(t *testing.T) {
	repo, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	writeWorktreeFile(t, repo.Layout, "a.txt", "hi\n")
	c1, err := repo.Workflow.CreateCommit("m1")
	if err != nil {
		t.Fatalf("CreateCommit m1: %v", err)
	}

	if err := repo.Workflow.CreateBranch("feature", c1); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	writeWorktreeFile(t, repo.Layout, "a.txt", "bye\n")
	c2, err := repo.Workflow.CreateCommit("m2")
	if err != nil {
		t.Fatalf("CreateCommit m2: %v", err)
	}
	if c2 == c1 {
		t.Fatal("expected a new commit id for m2")
	}

	if err := repo.Workflow.Checkout("feature"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(repo.Layout.WorkDir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "hi\n" {
		t.Fatalf("a.txt = %q after checking out feature, want %q", content, "hi\n")
	}

	head, err := repo.Refs.Get("HEAD")
	if err != nil {
		t.Fatalf("Get HEAD: %v", err)
	}
	if !head.Symbolic || head.Value != "refs/heads/feature" {
		t.Fatalf("HEAD = %+v, want symbolic refs/heads/feature", head)
	}

	resolved, err := repo.Refs.Resolve("HEAD")
	if err != nil {
		t.Fatalf("Resolve HEAD: %v", err)
	}
	if resolved != c1 {
		t.Fatalf("HEAD resolves to %s, want %s", resolved, c1)
	}
}

// TestScenarioS4_FastForwardMerge exercises spec scenario S4.
func TestScenarioS4_FastForwardMerge(t *testing.T) {
	repo, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	writeWorktreeFile(t, repo.Layout, "x.txt", "A\n")
	c1, err := repo.Workflow.CreateCommit("c1")
	if err != nil {
		t.Fatalf("CreateCommit c1: %v", err)
	}
	if err := repo.Workflow.CreateBranch("feature", c1); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	if err := repo.Workflow.Checkout("feature"); err != nil {
		t.Fatalf("Checkout feature: %v", err)
	}
	writeWorktreeFile(t, repo.Layout, "x.txt", "B\n")
	c3, err := repo.Workflow.CreateCommit("c3")
	if err != nil {
		t.Fatalf("CreateCommit c3: %v", err)
	}

	if err := repo.Workflow.Checkout("master"); err != nil {
		t.Fatalf("Checkout master: %v", err)
	}

	result, err := repo.Workflow.Merge(c3)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !result.FastForward {
		t.Fatal("expected a fast-forward merge")
	}

	resolved, err := repo.Refs.Resolve("HEAD")
	if err != nil {
		t.Fatalf("Resolve HEAD: %v", err)
	}
	if resolved != c3 {
		t.Fatalf("HEAD = %s after fast-forward, want %s", resolved, c3)
	}
	if _, err := repo.Refs.Get("MERGE_HEAD"); err == nil {
		t.Fatal("MERGE_HEAD should not exist after a fast-forward merge")
	}
}
