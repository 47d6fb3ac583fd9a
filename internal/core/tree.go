package core

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// TreeEntry is one record of a tree object: "{kind} {id} {name}\n".
type TreeEntry struct {
	Kind ObjectType // BlobType or TreeType
	ID   ID
	Name string
}

// EncodeTree renders entries as a tree object's payload. Entries are sorted
// by Name ascending (invariant 3) regardless of the order passed in, so
// callers can build entries in whatever order is convenient.
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	var prev string
	for i, e := range sorted {
		if err := validateEntryName(e.Name); err != nil {
			return nil, err
		}
		if i > 0 && e.Name == prev {
			return nil, newErr("core.EncodeTree", KindCorrupt, fmt.Errorf("duplicate tree entry name %q", e.Name))
		}
		prev = e.Name
		fmt.Fprintf(&buf, "%s %s %s\n", e.Kind, e.ID, e.Name)
	}
	return buf.Bytes(), nil
}

// DecodeTree parses a tree object's payload into entries, verifying strict
// ascending order and rejecting malformed names on read (invariant 3
// reinforcement, matching spec's requirement that flatten() reject offending
// entries rather than silently accept them).
func DecodeTree(payload []byte) ([]TreeEntry, error) {
	const op = "core.DecodeTree"

	var entries []TreeEntry
	var prev string
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, newErr(op, KindCorrupt, fmt.Errorf("malformed tree record %q", line))
		}
		kind, err := parseObjectType(parts[0])
		if err != nil {
			return nil, newErr(op, KindCorrupt, fmt.Errorf("tree record %q: %w", line, err))
		}
		if kind != BlobType && kind != TreeType {
			return nil, newErr(op, KindCorrupt, fmt.Errorf("tree record %q: kind must be blob or tree", line))
		}
		id, err := ParseID(parts[1])
		if err != nil {
			return nil, newErr(op, KindCorrupt, fmt.Errorf("tree record %q: %w", line, err))
		}
		name := parts[2]
		if err := validateEntryName(name); err != nil {
			return nil, err
		}
		if len(entries) > 0 && name <= prev {
			return nil, newErr(op, KindCorrupt, fmt.Errorf("tree record %q out of order", line))
		}
		prev = name
		entries = append(entries, TreeEntry{Kind: kind, ID: id, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, newErr(op, KindCorrupt, err)
	}
	return entries, nil
}

func validateEntryName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return newErr("core.validateEntryName", KindCorrupt, fmt.Errorf("invalid tree entry name %q", name))
	}
	return nil
}
