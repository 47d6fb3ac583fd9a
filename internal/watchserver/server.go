// Package watchserver broadcasts working-tree status changes over WebSocket
// so that external viewers (editors, dashboards) can follow a repository
// without polling the CLI.
package watchserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ugit-vcs/ugit/internal/core"
)

const (
	broadcastChannelSize = 16
	statusPollInterval   = 2 * time.Second
	writeWait            = 10 * time.Second
	pongWait             = 60 * time.Second
	pingPeriod           = 54 * time.Second
	maxMessageSize       = 512
)

// Server broadcasts core.WorkingTreeStatus snapshots to connected WebSocket
// clients whenever the repository's refs, index, or working tree change.
type Server struct {
	addr string
	repo *core.Repository

	logger *slog.Logger

	clientsMu sync.RWMutex
	clients   map[*wsConn]*sync.Mutex

	broadcast chan core.WorkingTreeStatus

	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Server for repo, ready to be started. addr is the
// listen address, e.g. ":7417" or "localhost:7417".
func New(repo *core.Repository, addr string) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		repo:      repo,
		logger:    slog.Default().With("component", "watchserver"),
		clients:   make(map[*wsConn]*sync.Mutex),
		broadcast: make(chan core.WorkingTreeStatus, broadcastChannelSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins serving and blocks until the server exits or hits a fatal
// error. Call it in its own goroutine and use Shutdown to stop it.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived.
		IdleTimeout:  120 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.handleBroadcasts()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.watchRepository(); err != nil {
			s.logger.Error("watcher failed to start", "err", err)
		}
	}()

	s.logger.Info("watch server starting", "addr", "http://"+s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server, the watcher, and all client
// connections.
func (s *Server) Shutdown() {
	if s.httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http shutdown error", "err", err)
		}
	}

	s.cancel()
	s.wg.Wait()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = make(map[*wsConn]*sync.Mutex)
	s.clientsMu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleBroadcasts drains the broadcast channel and fans each status out to
// every connected client, dropping clients that fail to receive it.
func (s *Server) handleBroadcasts() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case status := <-s.broadcast:
			s.sendToAllClients(status)
		}
	}
}

// queueBroadcast enqueues a status update without blocking; if the channel
// is full (a slow or stalled consumer), the update is dropped so that
// repository operations are never slowed down by broadcast backpressure.
func (s *Server) queueBroadcast(status core.WorkingTreeStatus) {
	select {
	case s.broadcast <- status:
	default:
		s.logger.Warn("broadcast channel full, dropping status update")
	}
}
