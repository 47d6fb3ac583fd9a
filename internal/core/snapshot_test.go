package core

import "testing"

func TestSnapshot_IndexAndWorktreeModesAgree(t *testing.T) {
	layout := newTestLayout(t)
	objects := ObjectStore{Layout: layout}
	snapshot := Snapshot{Layout: layout, Objects: objects}
	idx := IndexStore{Layout: layout}

	writeWorktreeFile(t, layout, "a.txt", "hi\n")
	writeWorktreeFile(t, layout, "dir/b.txt", "nested\n")

	worktreeRoot, err := snapshot.WriteTreeFromWorktree()
	if err != nil {
		t.Fatalf("WriteTreeFromWorktree: %v", err)
	}

	aBlob, err := objects.Write(BlobType, []byte("hi\n"))
	if err != nil {
		t.Fatalf("write blob a: %v", err)
	}
	bBlob, err := objects.Write(BlobType, []byte("nested\n"))
	if err != nil {
		t.Fatalf("write blob b: %v", err)
	}
	if err := idx.Stage("a.txt", aBlob); err != nil {
		t.Fatalf("Stage a: %v", err)
	}
	if err := idx.Stage("dir/b.txt", bBlob); err != nil {
		t.Fatalf("Stage b: %v", err)
	}

	indexRoot, err := snapshot.WriteTreeFromIndex()
	if err != nil {
		t.Fatalf("WriteTreeFromIndex: %v", err)
	}

	if worktreeRoot != indexRoot {
		t.Fatalf("WriteTreeFromWorktree = %s, WriteTreeFromIndex = %s, want equal", worktreeRoot, indexRoot)
	}
}
