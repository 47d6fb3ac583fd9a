package core

import (
	"os"
	"strings"
)

// StatusKind classifies one changed path in a working-tree status report.
type StatusKind int

const (
	StatusNew StatusKind = iota
	StatusModified
	StatusDeleted
)

func (k StatusKind) String() string {
	switch k {
	case StatusNew:
		return "new file"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// WorkingTreeStatus is the result of Workflow.Status: the current branch (or
// "" if detached) and one entry per path that differs between HEAD's tree
// and the working tree.
type WorkingTreeStatus struct {
	Branch  string // empty when HEAD is detached
	HeadID  ID
	Changes map[string]StatusKind
}

// Workflow composes the lower layers into the checkout/reset/branch/tag/
// status/merge operations spec.md §4.8 describes.
type Workflow struct {
	Layout    Layout
	Objects   ObjectStore
	Refs      RefStore
	Index     IndexStore
	Worktree  Worktree
	Snapshot  Snapshot
	Graph     CommitGraph
	ThreeWay  ThreeWayMerger
}

// Checkout resolves name, materializes its commit's tree, and points HEAD at
// it: symbolically at refs/heads/{name} if name names a branch, or directly
// (detached) otherwise.
func (w Workflow) Checkout(name string) error {
	const op = "core.Workflow.Checkout"

	id, err := Resolve(w.Refs, name)
	if err != nil {
		return err
	}

	c, err := w.Graph.Load(id)
	if err != nil {
		return err
	}

	if err := w.Worktree.Materialize(c.Tree); err != nil {
		return err
	}

	branchRef := "refs/heads/" + name
	if _, err := w.Refs.Get(branchRef); err == nil {
		if err := w.Refs.Set("HEAD", RefValue{Symbolic: true, Value: branchRef}, false); err != nil {
			return newErr(op, KindIOError, err)
		}
		return nil
	}

	if err := w.Refs.Set("HEAD", RefValue{Symbolic: false, Value: string(id)}, false); err != nil {
		return newErr(op, KindIOError, err)
	}
	return nil
}

// Reset points HEAD directly at id without touching the working tree.
func (w Workflow) Reset(id ID) error {
	const op = "core.Workflow.Reset"
	if err := w.Refs.Set("HEAD", RefValue{Symbolic: false, Value: string(id)}, false); err != nil {
		return newErr(op, KindIOError, err)
	}
	return nil
}

// CreateBranch writes refs/heads/{name} to startID.
func (w Workflow) CreateBranch(name string, startID ID) error {
	return w.Refs.Set("refs/heads/"+name, RefValue{Symbolic: false, Value: string(startID)}, false)
}

// CreateTag writes refs/tags/{name} to id.
func (w Workflow) CreateTag(name string, id ID) error {
	return w.Refs.Set("refs/tags/"+name, RefValue{Symbolic: false, Value: string(id)}, false)
}

// Status compares HEAD's commit tree against the working tree, reporting a
// classification per changed path. The index is not consulted.
func (w Workflow) Status() (WorkingTreeStatus, error) {
	const op = "core.Workflow.Status"

	head, err := w.Refs.Get("HEAD")
	if err != nil {
		return WorkingTreeStatus{}, err
	}

	var branch string
	if head.Symbolic {
		branch = strings.TrimPrefix(head.Value, "refs/heads/")
	}

	headID, err := w.Refs.Resolve("HEAD")
	if err != nil {
		return WorkingTreeStatus{}, err
	}

	c, err := w.Graph.Load(headID)
	if err != nil {
		return WorkingTreeStatus{}, err
	}
	headTree, err := w.Worktree.Flatten(c.Tree)
	if err != nil {
		return WorkingTreeStatus{}, err
	}

	diskFiles, err := w.Worktree.WalkWorktree()
	if err != nil {
		return WorkingTreeStatus{}, err
	}
	onDisk := map[string]bool{}
	for _, f := range diskFiles {
		onDisk[f] = true
	}

	changes := map[string]StatusKind{}
	for path, id := range headTree {
		present := onDisk[path]
		if !present {
			changes[path] = StatusDeleted
			continue
		}
		content, err := os.ReadFile(w.Worktree.AbsPath(path))
		if err != nil {
			return WorkingTreeStatus{}, newErr(op, KindIOError, err)
		}
		if Hash(BlobType, content) != id {
			changes[path] = StatusModified
		}
	}
	for path := range onDisk {
		if _, tracked := headTree[path]; !tracked {
			changes[path] = StatusNew
		}
	}

	return WorkingTreeStatus{Branch: branch, HeadID: headID, Changes: changes}, nil
}

// MergeResult reports the outcome of Merge.
type MergeResult struct {
	FastForward bool
	Conflicted  bool
}

// Merge merges other into the current HEAD commit. A fast-forward (HEAD is
// an ancestor of other) just moves HEAD and materializes other's tree. A
// true merge sets MERGE_HEAD, runs a three-way tree merge delegating
// conflicting blobs to the external merge collaborator, replaces the index
// with the result, and materializes it — leaving MERGE_HEAD set pending a
// commit, exactly as spec.md describes.
func (w Workflow) Merge(other ID) (MergeResult, error) {
	const op = "core.Workflow.Merge"

	headID, err := w.Refs.Resolve("HEAD")
	if err != nil {
		return MergeResult{}, err
	}

	base, err := w.Graph.MergeBase(other, headID)
	if err != nil {
		return MergeResult{}, err
	}

	if base == headID {
		c, err := w.Graph.Load(other)
		if err != nil {
			return MergeResult{}, err
		}
		if err := w.Worktree.Materialize(c.Tree); err != nil {
			return MergeResult{}, err
		}
		if err := w.Refs.Set("HEAD", RefValue{Symbolic: false, Value: string(other)}, false); err != nil {
			return MergeResult{}, newErr(op, KindIOError, err)
		}
		return MergeResult{FastForward: true}, nil
	}

	if err := w.Refs.Set("MERGE_HEAD", RefValue{Symbolic: false, Value: string(other)}, false); err != nil {
		return MergeResult{}, newErr(op, KindIOError, err)
	}

	headCommit, err := w.Graph.Load(headID)
	if err != nil {
		return MergeResult{}, err
	}
	otherCommit, err := w.Graph.Load(other)
	if err != nil {
		return MergeResult{}, err
	}
	baseCommit, err := w.Graph.Load(base)
	if err != nil {
		return MergeResult{}, err
	}

	merged, conflicted, err := w.ThreeWay.MergeTrees(baseCommit.Tree, headCommit.Tree, otherCommit.Tree, w.Worktree, w.Objects)
	if err != nil {
		return MergeResult{}, err
	}

	if err := w.Index.Write(merged); err != nil {
		return MergeResult{}, err
	}

	root, err := w.Snapshot.WriteTreeFromIndex()
	if err != nil {
		return MergeResult{}, err
	}
	if err := w.Worktree.Materialize(root); err != nil {
		return MergeResult{}, err
	}

	return MergeResult{Conflicted: conflicted}, nil
}

// CreateCommit serializes a new commit from the canonical snapshot (index
// mode when an index file exists, worktree mode otherwise), chaining it to
// HEAD's current target and, if MERGE_HEAD is set, as a second parent —
// consuming and deleting MERGE_HEAD in the process. HEAD's branch (not HEAD
// itself) is advanced to the new commit.
func (w Workflow) CreateCommit(message string) (ID, error) {
	const op = "core.Workflow.CreateCommit"

	treeID, err := w.canonicalTree()
	if err != nil {
		return "", err
	}

	var parents []ID
	if headID, err := w.Refs.Resolve("HEAD"); err == nil {
		parents = append(parents, headID)
	}
	mergeHeadPresent := false
	if mh, err := w.Refs.Get("MERGE_HEAD"); err == nil {
		mergeHeadPresent = true
		id, perr := ParseID(mh.Value)
		if perr != nil {
			return "", newErr(op, KindCorrupt, perr)
		}
		parents = append(parents, id)
	}

	payload := EncodeCommit(Commit{Tree: treeID, Parents: parents, Message: message})
	id, err := w.Objects.Write(CommitType, payload)
	if err != nil {
		return "", err
	}

	if err := w.Refs.Set("HEAD", RefValue{Symbolic: false, Value: string(id)}, true); err != nil {
		return "", newErr(op, KindIOError, err)
	}
	if mergeHeadPresent {
		if err := w.Refs.Delete("MERGE_HEAD"); err != nil {
			return "", newErr(op, KindIOError, err)
		}
	}
	return id, nil
}

func (w Workflow) canonicalTree() (ID, error) {
	if w.Index.Exists() {
		return w.Snapshot.WriteTreeFromIndex()
	}
	return w.Snapshot.WriteTreeFromWorktree()
}
