package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
)

func runCommit(repo *core.Repository, args []string) int {
	fs := flag.NewFlagSet("commit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	message := fs.String("m", "", "commit message")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *message == "" {
		fmt.Fprintln(os.Stderr, "usage: ugit commit -m <message>")
		return 1
	}

	id, err := repo.Workflow.CreateCommit(*message)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Println(id)
	return 0
}
