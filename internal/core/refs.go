package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RefValue is the parsed form of a reference file: either a direct id or a
// symbolic pointer at another ref name. Exactly one of Value's two meanings
// applies depending on Symbolic, mirroring the "ref: {target}\n" vs.
// 40-hex-id-on-one-line distinction gitcore.loadHEAD makes for HEAD.
type RefValue struct {
	Symbolic bool
	Value    string // target ref name if Symbolic, else a 40-hex id
}

// RefStore reads and writes the direct/symbolic references under a
// Layout's refs/ tree plus the distinguished top-level refs HEAD and
// MERGE_HEAD.
type RefStore struct {
	Layout Layout
}

func (s RefStore) layout() Layout {
	return resolveLayout(s.Layout)
}

// refPath resolves a ref name to its on-disk path. HEAD and MERGE_HEAD live
// directly under the data directory; everything else is expected to already
// carry its "refs/..." prefix.
func (s RefStore) refPath(name string) string {
	if name == "HEAD" || name == "MERGE_HEAD" {
		return s.layout().Join(name)
	}
	return s.layout().Join(name)
}

// Get reads and parses the ref at name without following symbolic chains.
func (s RefStore) Get(name string) (RefValue, error) {
	const op = "core.RefStore.Get"

	raw, err := os.ReadFile(s.refPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return RefValue{}, newErr(op, KindNotFound, fmt.Errorf("ref %s not found", name))
		}
		return RefValue{}, newErr(op, KindIOError, err)
	}

	text := strings.TrimRight(string(raw), "\n")
	if target, ok := strings.CutPrefix(text, "ref: "); ok {
		return RefValue{Symbolic: true, Value: strings.TrimSpace(target)}, nil
	}

	id, err := ParseID(text)
	if err != nil {
		return RefValue{}, newErr(op, KindCorrupt, fmt.Errorf("ref %s: %w", name, err))
	}
	return RefValue{Symbolic: false, Value: string(id)}, nil
}

// Resolve follows a ref's symbolic chain until it lands on a direct id,
// matching gitcore.resolveRef's recursive dereference. It fails with
// KindCorrupt on a cycle rather than looping forever.
func (s RefStore) Resolve(name string) (ID, error) {
	const op = "core.RefStore.Resolve"

	seen := map[string]bool{}
	current := name
	for i := 0; i < 64; i++ {
		if seen[current] {
			return "", newErr(op, KindCorrupt, fmt.Errorf("symbolic ref cycle starting at %s", name))
		}
		seen[current] = true

		val, err := s.Get(current)
		if err != nil {
			return "", err
		}
		if !val.Symbolic {
			return ID(val.Value), nil
		}
		current = val.Value
	}
	return "", newErr(op, KindCorrupt, fmt.Errorf("symbolic ref chain too deep starting at %s", name))
}

// Set writes value at name. When deref is true and name resolves through a
// symbolic chain to some other ref, the write lands on that final ref
// instead of overwriting the symbolic pointer — used when committing to
// advance the branch HEAD points at rather than replacing HEAD itself.
func (s RefStore) Set(name string, value RefValue, deref bool) error {
	const op = "core.RefStore.Set"

	target := name
	if deref {
		if existing, err := s.Get(name); err == nil && existing.Symbolic {
			target = existing.Value
		}
	}

	path := s.refPath(target)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newErr(op, KindIOError, err)
	}

	var line string
	if value.Symbolic {
		line = fmt.Sprintf("ref: %s\n", value.Value)
	} else {
		id, err := ParseID(value.Value)
		if err != nil {
			return newErr(op, KindCorrupt, err)
		}
		line = string(id) + "\n"
	}

	tmp, err := os.CreateTemp(dir, "ref-*.tmp")
	if err != nil {
		return newErr(op, KindIOError, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(line); err != nil {
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

// Delete removes the ref at name. Deleting HEAD is refused; every other ref,
// including a dangling symbolic one, is removed unconditionally.
func (s RefStore) Delete(name string) error {
	const op = "core.RefStore.Delete"

	if name == "HEAD" {
		return newErr(op, KindCorrupt, fmt.Errorf("refusing to delete HEAD"))
	}
	if err := os.Remove(s.refPath(name)); err != nil {
		if os.IsNotExist(err) {
			return newErr(op, KindNotFound, fmt.Errorf("ref %s not found", name))
		}
		return newErr(op, KindIOError, err)
	}
	return nil
}

// RefEntry is one (name, value) pair produced by Iter. Value is the raw
// stored value when Iter was called with deref=false, or a resolved direct
// id (Symbolic always false) when called with deref=true.
type RefEntry struct {
	Name  string
	Value RefValue
}

// Iter walks every ref whose name has the given prefix, including the
// distinguished top-level HEAD and MERGE_HEAD refs alongside refs/heads,
// refs/tags, and refs/remote. Pass "" to walk everything. When deref is
// true, each entry's Value is resolved through its symbolic chain down to a
// direct id, and any ref that fails to resolve (e.g. a dangling or cyclic
// symbolic chain, or a malformed entry) is silently skipped, the way
// gitcore.loadLooseRefs continues past a malformed entry rather than
// aborting the whole walk; whether the id names an existing object is not
// checked; when deref is
// false the raw stored value (direct or symbolic) is returned unchanged.
func (s RefStore) Iter(prefix string, deref bool) ([]RefEntry, error) {
	const op = "core.RefStore.Iter"

	var names []string
	for _, special := range []string{"HEAD", "MERGE_HEAD"} {
		if !strings.HasPrefix(special, prefix) {
			continue
		}
		if _, err := os.Stat(s.refPath(special)); err == nil {
			names = append(names, special)
		}
	}

	for _, root := range []string{"refs/heads", "refs/tags", "refs/remote"} {
		if !strings.HasPrefix(root, prefix) && !strings.HasPrefix(prefix, root) {
			continue
		}
		dir := s.layout().Join(filepath.FromSlash(root))
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(s.layout().DataDir, path)
			if err != nil {
				return err
			}
			name := filepath.ToSlash(rel)
			if !strings.HasPrefix(name, prefix) {
				return nil
			}
			names = append(names, name)
			return nil
		})
		if err != nil {
			return nil, newErr(op, KindIOError, err)
		}
	}

	var entries []RefEntry
	for _, name := range names {
		if deref {
			id, err := s.Resolve(name)
			if err != nil {
				continue // skip malformed/dangling ref, continue walking
			}
			entries = append(entries, RefEntry{Name: name, Value: RefValue{Value: string(id)}})
			continue
		}
		val, err := s.Get(name)
		if err != nil {
			continue // skip malformed entry, continue walking
		}
		entries = append(entries, RefEntry{Name: name, Value: val})
	}
	return entries, nil
}
