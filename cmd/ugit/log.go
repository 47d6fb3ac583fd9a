package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

func runLog(repo *core.Repository, args []string, cw *termcolor.Writer) int {
	start := "@"
	if len(args) > 0 {
		start = args[0]
	}

	headID, err := repo.Resolve(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	if headID == core.ZeroID {
		return 0
	}

	decorations := buildDecorations(repo, cw)

	first := true
	err = repo.Graph.WalkAncestors([]core.ID{headID}, func(id core.ID, c core.Commit) bool {
		if !first {
			fmt.Println()
		}
		first = false

		decor := ""
		if d, ok := decorations[id]; ok {
			decor = " " + cw.Yellow("(") + d + cw.Yellow(")")
		}

		fmt.Printf("%s %s%s\n", cw.Yellow("commit"), cw.Yellow(string(id)), decor)
		if len(c.Parents) > 1 {
			parentStrs := make([]string, len(c.Parents))
			for j, p := range c.Parents {
				parentStrs[j] = p.Short()
			}
			fmt.Printf("Merge: %s\n", strings.Join(parentStrs, " "))
		}
		fmt.Println()
		for _, line := range strings.Split(c.Message, "\n") {
			fmt.Printf("    %s\n", line)
		}
		return true
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}

// buildDecorations maps commit ids to a rendered "(HEAD -> main, tag: v1)"
// style annotation, grouping every ref that points at each commit.
func buildDecorations(repo *core.Repository, cw *termcolor.Writer) map[core.ID]string {
	result := make(map[core.ID]string)

	headRef, err := repo.Refs.Get("HEAD")
	headBranch := ""
	if err == nil && headRef.Symbolic {
		headBranch = strings.TrimPrefix(headRef.Value, "refs/heads/")
	}

	entries, err := repo.Refs.Iter("refs/", true)
	if err != nil {
		return result
	}

	type decoInfo struct {
		headArrow string
		names     []string
	}
	byID := make(map[core.ID]*decoInfo)
	get := func(id core.ID) *decoInfo {
		if info, ok := byID[id]; ok {
			return info
		}
		info := &decoInfo{}
		byID[id] = info
		return info
	}

	for _, e := range entries {
		id := core.ID(e.Value.Value)
		switch {
		case strings.HasPrefix(e.Name, "refs/heads/"):
			name := strings.TrimPrefix(e.Name, "refs/heads/")
			info := get(id)
			if name == headBranch {
				info.headArrow = cw.BoldCyan("HEAD -> ") + cw.Green(name)
			} else {
				info.names = append(info.names, cw.Green(name))
			}
		case strings.HasPrefix(e.Name, "refs/tags/"):
			name := strings.TrimPrefix(e.Name, "refs/tags/")
			info := get(id)
			info.names = append(info.names, cw.Yellow("tag: "+name))
		case strings.HasPrefix(e.Name, "refs/remote/"):
			info := get(id)
			info.names = append(info.names, cw.Cyan(strings.TrimPrefix(e.Name, "refs/")))
		}
	}

	if headBranch == "" {
		if id, err := repo.Resolve("HEAD"); err == nil && id != core.ZeroID {
			info := get(id)
			info.headArrow = cw.BoldCyan("HEAD")
		}
	}

	for id, info := range byID {
		var parts []string
		if info.headArrow != "" {
			parts = append(parts, info.headArrow)
		}
		parts = append(parts, info.names...)
		if len(parts) > 0 {
			result[id] = strings.Join(parts, cw.Yellow(", "))
		}
	}

	return result
}
