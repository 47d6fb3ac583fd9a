package main

import (
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/progress"
)

func runFetch(repo *core.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ugit fetch <path>")
		return 1
	}

	remote, err := core.Find(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	spin := progress.New("Fetching objects...")
	spin.Start()
	err = repo.Peer().Fetch(remote)
	if err != nil {
		spin.Fail("fetch failed")
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	spin.Success("Fetch complete")
	return 0
}

func runPush(repo *core.Repository, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ugit push <path> <ref>")
		return 1
	}

	remote, err := core.Find(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	spin := progress.New("Pushing objects...")
	spin.Start()
	err = repo.Peer().Push(remote, args[1])
	if err != nil {
		spin.Fail("push failed")
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	spin.Success("Push complete")
	return 0
}
