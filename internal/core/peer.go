package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Peer copies objects and refs between this repository and another
// on-disk repository, grounded on ugit/remote.py's fetch/push but using the
// scoped WithDataDir retarget (§4.1) instead of a process-global chdir.
type Peer struct {
	Local Layout
}

func (p Peer) localStores() (ObjectStore, RefStore) {
	return ObjectStore{Layout: p.Local}, RefStore{Layout: p.Local}
}

// Fetch reads remote's refs/heads/* (under the scoped retarget), copies
// every object reachable from those branch tips that's missing locally, and
// records each remote branch under local refs/remote/{name}.
func (p Peer) Fetch(remote Layout) error {
	const op = "core.Peer.Fetch"

	localObjects, localRefs := p.localStores()

	var remoteBranches []RefEntry
	var fetchErr error
	err := WithDataDir(remote, func() error {
		remoteRefs := RefStore{Layout: remote}
		entries, err := remoteRefs.Iter("refs/heads/", true)
		if err != nil {
			fetchErr = err
			return err
		}
		remoteBranches = entries
		return nil
	})
	if err != nil {
		return newErr(op, KindIOError, fetchErr)
	}

	seeds := make([]ID, 0, len(remoteBranches))
	for _, b := range remoteBranches {
		seeds = append(seeds, ID(b.Value.Value))
	}

	remoteGraph := CommitGraph{Objects: ObjectStore{Layout: remote}}
	reachable, err := remoteGraph.ReachableObjects(seeds)
	if err != nil {
		return newErr(op, KindIOError, err)
	}

	remoteObjects := ObjectStore{Layout: remote}
	for _, id := range reachable {
		if localObjects.Exists(id) {
			continue
		}
		if err := copyObjectFile(remoteObjects, localObjects, id); err != nil {
			return newErr(op, KindIOError, err)
		}
	}

	for _, b := range remoteBranches {
		name := "refs/remote/" + strings.TrimPrefix(b.Name, "refs/heads/")
		if err := localRefs.Set(name, RefValue{Symbolic: false, Value: b.Value.Value}, false); err != nil {
			return newErr(op, KindIOError, err)
		}
	}
	return nil
}

// Push requires local refname to already exist. If remote already has
// refname, the local commit must be a descendant of it or Push fails
// NonFastForward. It copies every object reachable locally but not already
// known on the remote, then sets the remote's refname to the local value.
func (p Peer) Push(remote Layout, refname string) error {
	const op = "core.Peer.Push"

	localObjects, localRefs := p.localStores()

	localID, err := localRefs.Resolve(refname)
	if err != nil {
		return newErr(op, KindNotFound, fmt.Errorf("local %s does not exist", refname))
	}

	var remoteHasID ID
	var remoteHasRef bool
	var remoteBranches []RefEntry

	err = WithDataDir(remote, func() error {
		remoteRefs := RefStore{Layout: remote}
		if id, err := remoteRefs.Resolve(refname); err == nil {
			remoteHasRef = true
			remoteHasID = id
		}
		entries, err := remoteRefs.Iter("refs/", true)
		if err != nil {
			return err
		}
		remoteBranches = entries
		return nil
	})
	if err != nil {
		return newErr(op, KindIOError, err)
	}

	localGraph := CommitGraph{Objects: localObjects}
	if remoteHasRef {
		isAncestor, err := localGraph.IsAncestor(remoteHasID, localID)
		if err != nil {
			return newErr(op, KindIOError, err)
		}
		if !isAncestor {
			return newErr(op, KindNonFastForward, fmt.Errorf("remote %s is not an ancestor of local %s", refname, refname))
		}
	}

	localReachable, err := localGraph.ReachableObjects([]ID{localID})
	if err != nil {
		return newErr(op, KindIOError, err)
	}

	knownSeeds := make([]ID, 0, len(remoteBranches))
	for _, b := range remoteBranches {
		knownSeeds = append(knownSeeds, ID(b.Value.Value))
	}
	remoteGraph := CommitGraph{Objects: ObjectStore{Layout: remote}}
	remoteReachable, err := remoteGraph.ReachableObjects(knownSeeds)
	if err != nil {
		return newErr(op, KindIOError, err)
	}
	remoteKnown := map[ID]bool{}
	for _, id := range remoteReachable {
		remoteKnown[id] = true
	}

	remoteObjects := ObjectStore{Layout: remote}
	for _, id := range localReachable {
		if remoteKnown[id] {
			continue
		}
		if err := copyObjectFile(localObjects, remoteObjects, id); err != nil {
			return newErr(op, KindIOError, err)
		}
	}

	err = WithDataDir(remote, func() error {
		remoteRefs := RefStore{Layout: remote}
		return remoteRefs.Set(refname, RefValue{Symbolic: false, Value: string(localID)}, false)
	})
	if err != nil {
		return newErr(op, KindIOError, err)
	}
	return nil
}

// copyObjectFile copies the compressed frame for id whole, without
// decompressing — "object copy is a whole-file copy of the compressed
// frame; ids remain identical."
func copyObjectFile(from, to ObjectStore, id ID) error {
	srcPath := from.objectPath(id)
	dstPath := to.objectPath(id)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dir := filepath.Dir(dstPath)
	tmp, err := os.CreateTemp(dir, "obj-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dstPath)
}
