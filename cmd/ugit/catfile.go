package main

import (
	"fmt"
	"os"

	"github.com/ugit-vcs/ugit/internal/core"
)

// runCatFile prints an object's content: a parsed rendering for trees and
// commits, raw bytes for blobs. The type and id are not printed.
func runCatFile(repo *core.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ugit cat-file <id>")
		return 1
	}

	id, err := repo.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	kind, err := repo.Objects.Type(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	switch kind {
	case core.BlobType:
		data, err := repo.Objects.Read(id, core.BlobType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		_, _ = os.Stdout.Write(data)
		return 0

	case core.TreeType:
		payload, err := repo.Objects.Read(id, core.TreeType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		entries, err := core.DecodeTree(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		for _, e := range entries {
			fmt.Printf("%s %s\t%s\n", e.Kind, e.ID, e.Name)
		}
		return 0

	case core.CommitType:
		payload, err := repo.Objects.Read(id, core.CommitType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		c, err := core.DecodeCommit(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		fmt.Printf("tree %s\n", c.Tree)
		for _, p := range c.Parents {
			fmt.Printf("parent %s\n", p)
		}
		fmt.Println()
		fmt.Println(c.Message)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "fatal: unknown object type for %s\n", id)
		return 128
	}
}
