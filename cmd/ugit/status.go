package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

func runStatus(repo *core.Repository, args []string, cw *termcolor.Writer) int {
	status, err := repo.Workflow.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if status.Branch != "" {
		fmt.Printf("On branch %s\n", status.Branch)
	} else {
		fmt.Printf("HEAD detached at %s\n", status.HeadID.Short())
	}

	if len(status.Changes) == 0 {
		fmt.Println("nothing to commit, working tree clean")
		return 0
	}

	paths := make([]string, 0, len(status.Changes))
	for path := range status.Changes {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fmt.Println("Changes:")
	for _, path := range paths {
		kind := status.Changes[path]
		var label string
		switch kind {
		case core.StatusNew:
			label = cw.Green("new file:   " + path)
		case core.StatusModified:
			label = cw.Yellow("modified:   " + path)
		case core.StatusDeleted:
			label = cw.Red("deleted:    " + path)
		default:
			label = path
		}
		fmt.Printf("\t%s\n", label)
	}
	return 0
}
