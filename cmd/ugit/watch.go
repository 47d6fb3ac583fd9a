package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ugit-vcs/ugit/internal/config"
	"github.com/ugit-vcs/ugit/internal/core"
	"github.com/ugit-vcs/ugit/internal/watchserver"
)

func runWatch(repo *core.Repository, args []string, cfg config.Config) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	host := fs.String("host", cfg.WatchHost, "bind host")
	port := fs.String("port", cfg.WatchPort, "bind port")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	addr := fmt.Sprintf("%s:%s", *host, *port)
	srv := watchserver.New(repo, addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	slog.Info("watch server listening", "addr", "http://"+addr)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("watch server error", "err", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		srv.Shutdown()
	}
	return 0
}
