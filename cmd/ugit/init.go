package main

import (
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
)

func runInit(args []string) int {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	repo, err := core.Init(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Printf("Initialized empty ugit repository in %s\n", repo.Layout.DataDir)
	return 0
}
