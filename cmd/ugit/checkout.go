package main

import (
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
)

func runCheckout(repo *core.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ugit checkout <name>")
		return 1
	}

	if err := repo.Workflow.Checkout(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}

func runReset(repo *core.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ugit reset <id>")
		return 1
	}

	id, err := repo.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if err := repo.Workflow.Reset(id); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
