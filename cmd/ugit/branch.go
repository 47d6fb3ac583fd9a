package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

func runBranch(repo *core.Repository, args []string, cw *termcolor.Writer) int {
	switch len(args) {
	case 0:
		return listBranches(repo, cw)
	case 1:
		return createBranch(repo, args[0], "@")
	case 2:
		return createBranch(repo, args[0], args[1])
	default:
		fmt.Fprintln(os.Stderr, "usage: ugit branch [name [start]]")
		return 1
	}
}

func listBranches(repo *core.Repository, cw *termcolor.Writer) int {
	entries, err := repo.Refs.Iter("refs/heads/", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	headRef, _ := repo.Refs.Get("HEAD")
	headBranch := ""
	if headRef.Symbolic {
		headBranch = strings.TrimPrefix(headRef.Value, "refs/heads/")
	}

	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimPrefix(e.Name, "refs/heads/"))
	}
	sort.Strings(names)

	for _, name := range names {
		if name == headBranch {
			fmt.Printf("* %s\n", cw.Green(name))
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return 0
}

func createBranch(repo *core.Repository, name, start string) int {
	startID, err := repo.Resolve(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if err := repo.Workflow.CreateBranch(name, startID); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
