package core

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Commit is the parsed form of a commit object: one tree, zero or more
// ordered parents (first is mainline, second is the merge parent when
// present), and a free-form message.
type Commit struct {
	Tree    ID
	Parents []ID
	Message string
}

// EncodeCommit renders c as a commit object's payload: "tree {id}\n",
// "parent {id}\n" per parent in order, a blank line, then the message.
func EncodeCommit(c Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	buf.WriteString("\n")
	buf.WriteString(c.Message)
	if !strings.HasSuffix(c.Message, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// DecodeCommit parses a commit object's payload. Headers are "tree" exactly
// once and "parent" zero or more times; the parser fails closed on any other
// header, per spec: "Parse tolerates additional unknown-but-well-formed
// headers by rejecting them."
func DecodeCommit(payload []byte) (Commit, error) {
	const op = "core.DecodeCommit"

	var c Commit
	var sawTree bool

	scanner := bufio.NewScanner(bytes.NewReader(payload))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // end of header block
		}
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			return Commit{}, newErr(op, KindCorrupt, fmt.Errorf("malformed commit header %q", line))
		}
		switch key {
		case "tree":
			id, err := ParseID(value)
			if err != nil {
				return Commit{}, newErr(op, KindCorrupt, fmt.Errorf("commit tree header: %w", err))
			}
			c.Tree = id
			sawTree = true
		case "parent":
			id, err := ParseID(value)
			if err != nil {
				return Commit{}, newErr(op, KindCorrupt, fmt.Errorf("commit parent header: %w", err))
			}
			c.Parents = append(c.Parents, id)
		default:
			return Commit{}, newErr(op, KindCorrupt, fmt.Errorf("unknown commit header %q", key))
		}
	}
	if err := scanner.Err(); err != nil {
		return Commit{}, newErr(op, KindCorrupt, err)
	}
	if !sawTree {
		return Commit{}, newErr(op, KindCorrupt, fmt.Errorf("commit missing tree header"))
	}

	// Whatever the scanner consumed up to and including the blank line is
	// the header block; the remainder of payload, starting right after that
	// blank line, is the message verbatim.
	idx := bytes.Index(payload, []byte("\n\n"))
	if idx < 0 {
		c.Message = ""
		return c, nil
	}
	c.Message = string(payload[idx+2:])
	return c, nil
}

// CommitGraph walks the commit history reachable from caller-supplied seed
// commits, backed by an ObjectStore.
type CommitGraph struct {
	Objects ObjectStore
}

// Load reads and parses the commit at id.
func (g CommitGraph) Load(id ID) (Commit, error) {
	payload, err := g.Objects.Read(id, CommitType)
	if err != nil {
		return Commit{}, err
	}
	return DecodeCommit(payload)
}

// WalkAncestors performs a mainline-first breadth-first walk from seeds,
// visiting each commit's first parent before its later parents — the
// correction spec §9 makes to the original's unordered recursive walk — and
// calls visit once per commit, stopping early if visit returns false.
func (g CommitGraph) WalkAncestors(seeds []ID, visit func(id ID, c Commit) bool) error {
	const op = "core.CommitGraph.WalkAncestors"

	visited := map[ID]bool{}
	queue := append([]ID{}, seeds...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == ZeroID || visited[id] {
			continue
		}
		visited[id] = true

		c, err := g.Load(id)
		if err != nil {
			return err
		}
		if !visit(id, c) {
			return nil
		}

		// Mainline-first: append first parent ahead of any later parents
		// already queued, by prepending here and relying on seed order for
		// stable results across equally-ranked branches.
		if len(c.Parents) > 0 {
			rest := append([]ID{}, c.Parents[1:]...)
			queue = append([]ID{c.Parents[0]}, append(queue, rest...)...)
		}
	}
	return nil
}

// IsAncestor reports whether ancestor is reachable from descendant by
// walking parents.
func (g CommitGraph) IsAncestor(ancestor, descendant ID) (bool, error) {
	found := false
	err := g.WalkAncestors([]ID{descendant}, func(id ID, c Commit) bool {
		if id == ancestor {
			found = true
			return false
		}
		return true
	})
	return found, err
}

// MergeBase finds a common ancestor of a and b via bidirectional BFS,
// mirroring gitcore.MergeBase's side-bitmask approach but without the
// committer-date heap (this core's commits carry no timestamp).
func (g CommitGraph) MergeBase(a, b ID) (ID, error) {
	const op = "core.CommitGraph.MergeBase"

	const (
		sideA = 1
		sideB = 2
	)
	seen := map[ID]int{}
	queueA := []ID{a}
	queueB := []ID{b}

	mark := func(q []ID, side int) (ID, []ID, error) {
		var next []ID
		for _, id := range q {
			if id == ZeroID {
				continue
			}
			if seen[id]&side != 0 {
				continue
			}
			seen[id] |= side
			if seen[id] == sideA|sideB {
				return id, nil, nil
			}
			c, err := g.Load(id)
			if err != nil {
				return "", nil, err
			}
			next = append(next, c.Parents...)
		}
		return "", next, nil
	}

	for len(queueA) > 0 || len(queueB) > 0 {
		if len(queueA) > 0 {
			found, next, err := mark(queueA, sideA)
			if err != nil {
				return "", err
			}
			if found != "" {
				return found, nil
			}
			queueA = next
		}
		if len(queueB) > 0 {
			found, next, err := mark(queueB, sideB)
			if err != nil {
				return "", err
			}
			if found != "" {
				return found, nil
			}
			queueB = next
		}
	}
	return "", newErr(op, KindNotFound, fmt.Errorf("no common ancestor of %s and %s", a, b))
}

// ReachableObjects returns the transitive closure of seeds' commits plus
// every tree and blob they reference, deduplicated via a visited set.
func (g CommitGraph) ReachableObjects(seeds []ID) ([]ID, error) {
	const op = "core.CommitGraph.ReachableObjects"

	visited := map[ID]bool{}
	var result []ID
	var walkErr error

	var walkObject func(id ID)
	walkObject = func(id ID) {
		if id == ZeroID || visited[id] || walkErr != nil {
			return
		}
		visited[id] = true
		result = append(result, id)

		t, err := g.Objects.Type(id)
		if err != nil {
			walkErr = err
			return
		}
		if t != TreeType {
			return
		}
		payload, err := g.Objects.Read(id, TreeType)
		if err != nil {
			walkErr = err
			return
		}
		entries, err := DecodeTree(payload)
		if err != nil {
			walkErr = err
			return
		}
		for _, e := range entries {
			walkObject(e.ID)
		}
	}

	err := g.WalkAncestors(seeds, func(id ID, c Commit) bool {
		walkObject(id)
		walkObject(c.Tree)
		return walkErr == nil
	})
	if err != nil {
		return nil, newErr(op, KindIOError, err)
	}
	if walkErr != nil {
		return nil, newErr(op, KindIOError, walkErr)
	}

	return result, nil
}
