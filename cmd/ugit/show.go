package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/render"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

func runShow(repo *core.Repository, args []string, cw *termcolor.Writer) int {
	target := "@"
	renderMessage := false
	for _, a := range args {
		if a == "--render" {
			renderMessage = true
			continue
		}
		target = a
	}

	id, err := repo.Resolve(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	c, err := repo.Graph.Load(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Printf("%s %s\n", cw.Yellow("commit"), cw.Yellow(string(id)))
	if len(c.Parents) > 1 {
		parentStrs := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			parentStrs[i] = p.Short()
		}
		fmt.Printf("Merge: %s\n", strings.Join(parentStrs, " "))
	}
	fmt.Println()
	if renderMessage {
		html, err := render.MessageHTML(c.Message)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		fmt.Println(html)
	} else {
		for _, line := range strings.Split(c.Message, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	fmt.Println()

	var parentID core.ID
	if len(c.Parents) > 0 {
		parentID = c.Parents[0]
	}

	return printTreeDiff(repo, parentID, id, cw)
}
