package main

import (
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
)

func runMerge(repo *core.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ugit merge <id>")
		return 1
	}

	otherID, err := repo.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	result, err := repo.Workflow.Merge(otherID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	switch {
	case result.FastForward:
		fmt.Println("Fast-forward")
	case result.Conflicted:
		fmt.Println("Automatic merge failed; fix conflicts and then commit the result.")
		return 1
	default:
		fmt.Println("Merge made; commit the result.")
	}
	return 0
}
