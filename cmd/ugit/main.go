// Command ugit is a content-addressed version control engine in the spirit
// of Git, built around a single internal/core repository package.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/ugit-vcs/ugit/internal/cli"
	"github.com/ugit-vcs/ugit/internal/config"
	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/termcolor"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	// Flags are resolved from UGIT_* environment variables only; individual
	// commands (e.g. watch) register their own flags for command-specific
	// overrides. This just needs defaults in place before any command runs.
	fs := flag.NewFlagSet("ugit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	resolve := config.RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		os.Exit(1)
	}
	cfg, err := resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ugit: %v\n", err)
		os.Exit(1)
	}
	config.InitLogger(cfg)

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("ugit", version)
	app.Stderr = os.Stderr

	var repo *core.Repository

	app.Register(&cli.Command{
		Name:    "init",
		Summary: "Create a new repository",
		Usage:   "ugit init [path]",
		Run:     func(args []string) int { return runInit(args) },
	})

	app.Register(&cli.Command{
		Name:      "hash-object",
		Summary:   "Compute and store the id of a file",
		Usage:     "ugit hash-object <file>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runHashObject(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "cat-file",
		Summary:   "Print the content of an object",
		Usage:     "ugit cat-file <id>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCatFile(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "write-tree",
		Summary:   "Write the index (or working tree) as a tree object",
		Usage:     "ugit write-tree",
		NeedsRepo: true,
		Run:       func(args []string) int { return runWriteTree(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "read-tree",
		Summary:   "Materialize a tree into the working directory",
		Usage:     "ugit read-tree <id>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runReadTree(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record a new commit",
		Usage:     "ugit commit -m <message>",
		Examples:  []string{"ugit commit -m \"initial import\""},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCommit(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Show commit history",
		Usage:     "ugit log [id]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runLog(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Switch the working tree to a branch, tag, or commit",
		Usage:     "ugit checkout <name>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckout(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "branch",
		Summary:   "List or create branches",
		Usage:     "ugit branch [name [start]]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runBranch(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "tag",
		Summary:   "List or create tags",
		Usage:     "ugit tag [name [id]]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runTag(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show working tree status",
		Usage:     "ugit status",
		NeedsRepo: true,
		Run:       func(args []string) int { return runStatus(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "reset",
		Summary:   "Move HEAD to a commit without touching the working tree",
		Usage:     "ugit reset <id>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runReset(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "show",
		Summary:   "Show a commit and its diff against its first parent",
		Usage:     "ugit show [id]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runShow(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "diff",
		Summary:   "Show the diff between two commits",
		Usage:     "ugit diff <commit1> <commit2>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runDiff(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "merge",
		Summary:   "Merge another commit into HEAD",
		Usage:     "ugit merge <id>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runMerge(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "fetch",
		Summary:   "Fetch refs and objects from another repository",
		Usage:     "ugit fetch <path>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runFetch(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "push",
		Summary:   "Push a branch to another repository",
		Usage:     "ugit push <path> <ref>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runPush(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "watch",
		Summary:   "Serve working tree status over WebSocket",
		Usage:     "ugit watch [--host <host>] [--port <port>]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runWatch(repo, args, cfg) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "ugit version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	if len(args) > 0 {
		cmd := app.Lookup(args[0])
		if cmd != nil && cmd.NeedsRepo {
			repoPath := cfg.RepoPath
			if repoPath == "" {
				repoPath = "."
			}
			var err error
			repo, err = core.Open(repoPath)
			if err != nil {
				slog.Error("failed to open repository", "path", repoPath, "err", err)
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				os.Exit(128)
			}
		}
	}

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("ugit %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
