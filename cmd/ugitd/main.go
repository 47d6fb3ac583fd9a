// Command ugitd runs the watch server standalone against a repository path,
// without the rest of the ugit CLI surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ugit-vcs/ugit/internal/config"
	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/watchserver"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	fs := flag.NewFlagSet("ugitd", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	resolve := config.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "Show version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	cfg, err := resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ugitd: %v\n", err)
		os.Exit(1)
	}
	config.InitLogger(cfg)

	if *showVersion {
		printVersion()
		return
	}

	repoPath := cfg.RepoPath
	if repoPath == "" {
		repoPath = "."
	}

	repo, err := core.Open(repoPath)
	if err != nil {
		slog.Error("failed to open repository", "path", repoPath, "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%s", cfg.WatchHost, cfg.WatchPort)
	srv := watchserver.New(repo, addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	slog.Info("ugitd starting", "version", version, "addr", "http://"+addr, "repo", repoPath)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutdown initiated")
		srv.Shutdown()
	}
}

func printVersion() {
	fmt.Printf("ugitd %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
