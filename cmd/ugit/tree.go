package main

import (
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
)

func runWriteTree(repo *core.Repository, args []string) int {
	var (
		id  core.ID
		err error
	)
	if repo.Index.Exists() {
		id, err = repo.Snapshot.WriteTreeFromIndex()
	} else {
		id, err = repo.Snapshot.WriteTreeFromWorktree()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	fmt.Println(id)
	return 0
}

func runReadTree(repo *core.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ugit read-tree <id>")
		return 1
	}

	id, err := repo.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if err := repo.Worktree.Materialize(id); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
