package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/externaltool"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

func runDiff(repo *core.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ugit diff <commit1> <commit2>")
		return 1
	}

	idA, err := repo.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	idB, err := repo.Resolve(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	return printTreeDiff(repo, idA, idB, cw)
}

// printTreeDiff resolves both commit ids' trees, flattens them, and prints a
// unified diff for every path that was added, removed, or changed between
// them via the external diff collaborator.
func printTreeDiff(repo *core.Repository, commitA, commitB core.ID, cw *termcolor.Writer) int {
	treeA, err := treeOf(repo, commitA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	treeB, err := treeOf(repo, commitB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	filesA, err := repo.Worktree.Flatten(treeA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	filesB, err := repo.Worktree.Flatten(treeB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	paths := unionPaths(filesA, filesB)
	collab := externaltool.NewCollaborators()

	for _, path := range paths {
		blobA, inA := filesA[path]
		blobB, inB := filesB[path]
		if inA && inB && blobA == blobB {
			continue
		}

		var contentA, contentB []byte
		if inA {
			contentA, err = repo.Objects.Read(blobA, core.BlobType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				return 128
			}
		}
		if inB {
			contentB, err = repo.Objects.Read(blobB, core.BlobType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				return 128
			}
		}

		out, err := collab.Diff(path, contentA, contentB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		fmt.Print(cw.BoldCyan(fmt.Sprintf("diff --ugit a/%s b/%s\n", path, path)))
		os.Stdout.Write(out) //nolint:errcheck
	}
	return 0
}

func treeOf(repo *core.Repository, commitID core.ID) (core.ID, error) {
	if commitID == core.ZeroID {
		return core.ZeroID, nil
	}
	c, err := repo.Graph.Load(commitID)
	if err != nil {
		return core.ZeroID, err
	}
	return c.Tree, nil
}

func unionPaths(a, b map[string]core.ID) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var paths []string
	for p := range a {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for p := range b {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}
