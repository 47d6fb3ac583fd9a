package core

import (
	"fmt"

	"github.com/ugit-vcs/ugit/internal/externaltool"
)

// ThreeWayMerger produces a merged index (path -> blob id) from three tree
// ids, delegating conflicting blobs to an external three-way-merge
// collaborator rather than implementing diff3 in-process (spec §6).
type ThreeWayMerger struct {
	Collaborators externaltool.Collaborators
}

// NewThreeWayMerger returns a merger backed by the real diff3 binary.
func NewThreeWayMerger() ThreeWayMerger {
	return ThreeWayMerger{Collaborators: externaltool.NewCollaborators()}
}

// MergeTrees walks the union of paths present in base/head/other's flattened
// trees and resolves each path:
//   - unchanged on one side relative to base: take the other side's blob
//   - changed identically on both sides: take that blob
//   - present on one side only: dropped if that side left it unchanged from
//     base, otherwise that side's blob is kept
//   - present on both sides with differing content, each changed from base
//     (including both adding it): delegate to the external three-way merge
//     collaborator
//
// It returns the resulting path -> blob id map and whether any path
// required a conflicted merge.
func (m ThreeWayMerger) MergeTrees(baseTree, headTree, otherTree ID, wt Worktree, objects ObjectStore) (map[string]ID, bool, error) {
	const op = "core.ThreeWayMerger.MergeTrees"

	baseFlat, err := wt.Flatten(baseTree)
	if err != nil {
		return nil, false, err
	}
	headFlat, err := wt.Flatten(headTree)
	if err != nil {
		return nil, false, err
	}
	otherFlat, err := wt.Flatten(otherTree)
	if err != nil {
		return nil, false, err
	}

	paths := map[string]bool{}
	for p := range baseFlat {
		paths[p] = true
	}
	for p := range headFlat {
		paths[p] = true
	}
	for p := range otherFlat {
		paths[p] = true
	}

	result := map[string]ID{}
	conflicted := false

	for p := range paths {
		baseID, inBase := baseFlat[p]
		headID, inHead := headFlat[p]
		otherID, inOther := otherFlat[p]

		switch {
		case inHead && inOther && headID == otherID:
			result[p] = headID
		case inHead && inBase && headID == baseID && inOther && otherID != baseID:
			result[p] = otherID
		case inOther && inBase && otherID == baseID && inHead && headID != baseID:
			result[p] = headID
		case inHead && !inOther:
			if inBase && headID == baseID {
				// deleted on other side, unchanged on head: deletion wins
				continue
			}
			result[p] = headID
		case inOther && !inHead:
			if inBase && otherID == baseID {
				continue
			}
			result[p] = otherID
		case !inHead && !inOther:
			// deleted on both sides
			continue
		default:
			baseBytes, err := readOrEmpty(objects, baseID, inBase)
			if err != nil {
				return nil, false, err
			}
			headBytes, err := readOrEmpty(objects, headID, inHead)
			if err != nil {
				return nil, false, err
			}
			otherBytes, err := readOrEmpty(objects, otherID, inOther)
			if err != nil {
				return nil, false, err
			}

			merged, status, err := m.Collaborators.Merge3(baseBytes, headBytes, otherBytes)
			if err != nil {
				return nil, false, newErr(op, KindIOError, fmt.Errorf("merging %s: %w", p, err))
			}
			if status == externaltool.MergeConflicted {
				conflicted = true
			}

			id, err := objects.Write(BlobType, merged)
			if err != nil {
				return nil, false, err
			}
			result[p] = id
		}
	}

	return result, conflicted, nil
}

func readOrEmpty(objects ObjectStore, id ID, present bool) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return objects.Read(id, BlobType)
}
