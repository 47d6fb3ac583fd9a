package core

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// IndexStore reads and writes the staging index: a JSON object mapping
// working-tree-relative paths (forward slashes, regardless of host OS) to
// blob ids. Unlike git's binary DIRC format, this is deliberately a flat
// JSON document — the spec calls for "a mutable mapping path→id... on exit,
// the mapping is serialized back as JSON."
type IndexStore struct {
	Layout Layout
}

func (s IndexStore) path() string {
	return resolveLayout(s.Layout).Join("index")
}

// Exists reports whether an index file has been written yet, used to choose
// between index-mode and worktree-mode snapshots when creating a commit.
func (s IndexStore) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}

// Read loads the index, returning an empty map if the file doesn't exist
// yet (a freshly created repository has no index).
func (s IndexStore) Read() (map[string]ID, error) {
	const op = "core.IndexStore.Read"

	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ID{}, nil
		}
		return nil, newErr(op, KindIOError, err)
	}

	var raw2 map[string]string
	if err := json.Unmarshal(raw, &raw2); err != nil {
		return nil, newErr(op, KindCorrupt, err)
	}

	entries := make(map[string]ID, len(raw2))
	for path, idStr := range raw2 {
		id, err := ParseID(idStr)
		if err != nil {
			return nil, newErr(op, KindCorrupt, err)
		}
		entries[path] = id
	}
	return entries, nil
}

// Write serializes entries back to the index file, atomically via
// temp-file-then-rename.
func (s IndexStore) Write(entries map[string]ID) error {
	const op = "core.IndexStore.Write"

	raw2 := make(map[string]string, len(entries))
	for path, id := range entries {
		raw2[path] = string(id)
	}

	buf, err := json.MarshalIndent(raw2, "", "  ")
	if err != nil {
		return newErr(op, KindIOError, err)
	}

	path := s.path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newErr(op, KindIOError, err)
	}

	tmp, err := os.CreateTemp(dir, "index-*.tmp")
	if err != nil {
		return newErr(op, KindIOError, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return newErr(op, KindIOError, err)
	}
	if err := tmp.Close(); err != nil {
		return newErr(op, KindIOError, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return newErr(op, KindIOError, err)
	}
	return nil
}

// WithIndex loads the index, calls fn with the mutable mapping, and — unless
// readOnly is set — persists whatever fn left in the map back to disk on
// success. fn's error aborts the write. This is the scoped acquisition the
// spec describes: "entering the scope returns a mutable mapping... on exit,
// the mapping is serialized back as JSON."
func (s IndexStore) WithIndex(fn func(entries map[string]ID) error, readOnly bool) error {
	entries, err := s.Read()
	if err != nil {
		return err
	}
	if err := fn(entries); err != nil {
		return err
	}
	if readOnly {
		return nil
	}
	return s.Write(entries)
}

// Stage sets path -> blobID in the index, creating the index file if absent.
func (s IndexStore) Stage(path string, blobID ID) error {
	return s.WithIndex(func(entries map[string]ID) error {
		entries[path] = blobID
		return nil
	}, false)
}

// Unstage removes path from the index; a no-op if it wasn't present.
func (s IndexStore) Unstage(path string) error {
	return s.WithIndex(func(entries map[string]ID) error {
		delete(entries, path)
		return nil
	}, false)
}
