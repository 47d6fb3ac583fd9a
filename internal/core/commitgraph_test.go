package core

import "testing"

func chainCommit(t *testing.T, objects ObjectStore, tree ID, parents []ID, msg string) ID {
	t.Helper()
	id, err := objects.Write(CommitType, EncodeCommit(Commit{Tree: tree, Parents: parents, Message: msg}))
	if err != nil {
		t.Fatalf("write commit: %v", err)
	}
	return id
}

func TestCommitGraph_IsAncestor(t *testing.T) {
	layout := newTestLayout(t)
	objects := ObjectStore{Layout: layout}
	graph := CommitGraph{Objects: objects}

	emptyTree, err := objects.Write(TreeType, []byte{})
	if err != nil {
		t.Fatalf("write empty tree: %v", err)
	}

	c1 := chainCommit(t, objects, emptyTree, nil, "c1")
	c2 := chainCommit(t, objects, emptyTree, []ID{c1}, "c2")
	c3 := chainCommit(t, objects, emptyTree, []ID{c2}, "c3")

	ok, err := graph.IsAncestor(c1, c3)
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if !ok {
		t.Fatal("expected c1 to be an ancestor of c3")
	}

	ok, err = graph.IsAncestor(c3, c1)
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if ok {
		t.Fatal("did not expect c3 to be an ancestor of c1")
	}
}

func TestCommitGraph_MergeBase(t *testing.T) {
	layout := newTestLayout(t)
	objects := ObjectStore{Layout: layout}
	graph := CommitGraph{Objects: objects}

	emptyTree, err := objects.Write(TreeType, []byte{})
	if err != nil {
		t.Fatalf("write empty tree: %v", err)
	}

	c1 := chainCommit(t, objects, emptyTree, nil, "c1")
	b1 := chainCommit(t, objects, emptyTree, []ID{c1}, "b1")
	b2 := chainCommit(t, objects, emptyTree, []ID{c1}, "b2")

	base, err := graph.MergeBase(b1, b2)
	if err != nil {
		t.Fatalf("MergeBase: %v", err)
	}
	if base != c1 {
		t.Fatalf("MergeBase(b1, b2) = %s, want %s", base, c1)
	}
}

func TestCommitGraph_ReachableObjects(t *testing.T) {
	layout := newTestLayout(t)
	objects := ObjectStore{Layout: layout}
	graph := CommitGraph{Objects: objects}

	blobID, err := objects.Write(BlobType, []byte("hi\n"))
	if err != nil {
		t.Fatalf("write blob: %v", err)
	}
	treeID, err := objects.Write(TreeType, mustEncodeTree(t, []TreeEntry{{Kind: BlobType, ID: blobID, Name: "a.txt"}}))
	if err != nil {
		t.Fatalf("write tree: %v", err)
	}
	c1 := chainCommit(t, objects, treeID, nil, "c1")

	reachable, err := graph.ReachableObjects([]ID{c1})
	if err != nil {
		t.Fatalf("ReachableObjects: %v", err)
	}

	want := map[ID]bool{c1: true, treeID: true, blobID: true}
	if len(reachable) != len(want) {
		t.Fatalf("reachable = %v, want exactly %v", reachable, want)
	}
	for _, id := range reachable {
		if !want[id] {
			t.Fatalf("unexpected id %s in reachable set", id)
		}
	}
}
