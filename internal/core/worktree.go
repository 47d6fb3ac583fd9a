package core

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Worktree reconstructs and tears down working-tree contents from tree
// objects, mirroring gitcore.status.go's flattenTree but generalized to
// also write, not just read.
type Worktree struct {
	Layout  Layout
	Objects ObjectStore
}

// Flatten recursively walks the tree at id and returns one entry per blob,
// keyed by its full slash-separated path from the tree root. It rejects any
// entry whose name would violate invariant 3 (already enforced by
// DecodeTree, which Flatten relies on).
func (w Worktree) Flatten(id ID) (map[string]ID, error) {
	const op = "core.Worktree.Flatten"

	out := map[string]ID{}
	if id == ZeroID {
		return out, nil
	}
	if err := w.flattenInto(id, "", out); err != nil {
		return nil, newErr(op, KindIOError, err)
	}
	return out, nil
}

func (w Worktree) flattenInto(id ID, prefix string, out map[string]ID) error {
	payload, err := w.Objects.Read(id, TreeType)
	if err != nil {
		return err
	}
	entries, err := DecodeTree(payload)
	if err != nil {
		return err
	}
	for _, e := range entries {
		full := e.Name
		if prefix != "" {
			full = path.Join(prefix, e.Name)
		}
		switch e.Kind {
		case BlobType:
			out[full] = e.ID
		case TreeType:
			if err := w.flattenInto(e.ID, full, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// EmptyWorktree removes every file under the working tree except anything
// with a path component equal to ".ugit", then removes now-empty
// directories bottom-up. Non-empty-directory removal errors are swallowed
// by design (spec §7) — user files left behind by a directory that isn't
// fully empty are not a failure.
func (w Worktree) EmptyWorktree() error {
	const op = "core.Worktree.EmptyWorktree"

	var files []string
	var dirs []string

	err := filepath.Walk(w.Layout.WorkDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == w.Layout.WorkDir {
			return nil
		}
		rel, err := filepath.Rel(w.Layout.WorkDir, p)
		if err != nil {
			return err
		}
		if containsDataDirComponent(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return newErr(op, KindIOError, err)
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return newErr(op, KindIOError, err)
		}
	}
	// Bottom-up: iterate directories in reverse since Walk visits top-down.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i]) // ignored by design: non-empty directory stays
	}
	return nil
}

func containsDataDirComponent(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == DataDirName {
			return true
		}
	}
	return false
}

// Materialize empties the working tree and rewrites it from the flattened
// contents of the tree at id.
func (w Worktree) Materialize(id ID) error {
	const op = "core.Worktree.Materialize"

	if err := w.EmptyWorktree(); err != nil {
		return err
	}

	flat, err := w.Flatten(id)
	if err != nil {
		return err
	}

	for relPath, blobID := range flat {
		payload, err := w.Objects.Read(blobID, BlobType)
		if err != nil {
			return err
		}
		full := filepath.Join(w.Layout.WorkDir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return newErr(op, KindIOError, err)
		}
		if err := os.WriteFile(full, payload, 0o644); err != nil {
			return newErr(op, KindIOError, err)
		}
	}
	return nil
}

// AbsPath resolves a working-tree-relative path (forward-slash separated) to
// its absolute filesystem path.
func (w Worktree) AbsPath(relPath string) string {
	return filepath.Join(w.Layout.WorkDir, filepath.FromSlash(relPath))
}

// WalkWorktree scans the working tree (ignoring any path component equal to
// ".ugit") and returns the relative path of every regular file, used by
// write_tree_from_worktree and by status' untracked-file detection.
func (w Worktree) WalkWorktree() ([]string, error) {
	const op = "core.Worktree.WalkWorktree"

	var files []string
	err := filepath.Walk(w.Layout.WorkDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == w.Layout.WorkDir {
			return nil
		}
		rel, err := filepath.Rel(w.Layout.WorkDir, p)
		if err != nil {
			return err
		}
		if containsDataDirComponent(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, newErr(op, KindIOError, err)
	}
	return files, nil
}
