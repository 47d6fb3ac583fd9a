package core

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Snapshot builds tree objects either from the index or directly from the
// working tree. Both modes must yield identical tree ids when the index
// exactly mirrors the working tree — the shared buildTreeFromPaths below is
// what guarantees that, since both callers funnel into it with the same
// path-splitting and sorting logic.
type Snapshot struct {
	Layout  Layout
	Objects ObjectStore
}

// pathNode is one level of the in-memory directory tree being assembled
// before it's flushed to tree objects bottom-up.
type pathNode struct {
	blobs map[string]ID       // leaf name -> blob id, this directory level
	dirs  map[string]*pathNode // child directory name -> subtree
}

func newPathNode() *pathNode {
	return &pathNode{blobs: map[string]ID{}, dirs: map[string]*pathNode{}}
}

// insert places blobID at relPath, splitting on "/" into path components
// per spec §9's correction of the original's character-by-character walk.
func (n *pathNode) insert(relPath string, blobID ID) {
	parts := strings.Split(relPath, "/")
	cur := n
	for _, dir := range parts[:len(parts)-1] {
		child, ok := cur.dirs[dir]
		if !ok {
			child = newPathNode()
			cur.dirs[dir] = child
		}
		cur = child
	}
	cur.blobs[parts[len(parts)-1]] = blobID
}

// flush writes this node (and its children, depth-first) as a tree object
// and returns its id. Children are written before the parent so the parent's
// entries can reference already-materialized ids.
func (n *pathNode) flush(objects ObjectStore) (ID, error) {
	var entries []TreeEntry
	for name, blobID := range n.blobs {
		entries = append(entries, TreeEntry{Kind: BlobType, ID: blobID, Name: name})
	}
	for name, child := range n.dirs {
		childID, err := child.flush(objects)
		if err != nil {
			return "", err
		}
		entries = append(entries, TreeEntry{Kind: TreeType, ID: childID, Name: name})
	}

	payload, err := EncodeTree(entries)
	if err != nil {
		return "", err
	}
	return objects.Write(TreeType, payload)
}

// WriteTreeFromIndex reads the index and writes trees bottom-up from its
// path -> blob-id entries, returning the root tree id.
func (s Snapshot) WriteTreeFromIndex() (ID, error) {
	const op = "core.Snapshot.WriteTreeFromIndex"

	idx := IndexStore{Layout: s.Layout}
	var rootID ID
	err := idx.WithIndex(func(entries map[string]ID) error {
		root := newPathNode()
		for path, blobID := range entries {
			root.insert(path, blobID)
		}
		id, err := root.flush(s.Objects)
		if err != nil {
			return err
		}
		rootID = id
		return nil
	}, true)
	if err != nil {
		return "", newErr(op, KindIOError, err)
	}
	return rootID, nil
}

// WriteTreeFromWorktree scans the working tree, ignoring ".ugit", writing a
// blob for every file and recursing into subdirectories, producing the same
// sorted tree format as WriteTreeFromIndex.
func (s Snapshot) WriteTreeFromWorktree() (ID, error) {
	const op = "core.Snapshot.WriteTreeFromWorktree"

	wt := Worktree{Layout: s.Layout, Objects: s.Objects}
	files, err := wt.WalkWorktree()
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	root := newPathNode()
	for _, relPath := range files {
		full := filepath.Join(s.Layout.WorkDir, filepath.FromSlash(relPath))
		content, err := os.ReadFile(full)
		if err != nil {
			return "", newErr(op, KindIOError, err)
		}
		blobID, err := s.Objects.Write(BlobType, content)
		if err != nil {
			return "", err
		}
		root.insert(relPath, blobID)
	}

	return root.flush(s.Objects)
}
