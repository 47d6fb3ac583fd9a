package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

func runTag(repo *core.Repository, args []string, cw *termcolor.Writer) int {
	switch len(args) {
	case 0:
		return listTags(repo, cw)
	case 1:
		return createTag(repo, args[0], "@")
	case 2:
		return createTag(repo, args[0], args[1])
	default:
		fmt.Fprintln(os.Stderr, "usage: ugit tag [name [id]]")
		return 1
	}
}

func listTags(repo *core.Repository, cw *termcolor.Writer) int {
	entries, err := repo.Refs.Iter("refs/tags/", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimPrefix(e.Name, "refs/tags/"))
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Println(cw.Yellow(name))
	}
	return 0
}

func createTag(repo *core.Repository, name, target string) int {
	id, err := repo.Resolve(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if err := repo.Workflow.CreateTag(name, id); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
