package watchserver

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ugit-vcs/ugit/internal/core"
)

const debounceTime = 100 * time.Millisecond

// watchRepository installs an fsnotify watch over the repository's data
// directory and starts a periodic poll loop that catches working-tree-only
// changes fsnotify can't see (since the data directory watch is scoped to
// .ugit, not the whole working tree).
func (s *Server) watchRepository() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dataDir := s.repo.Layout.DataDir
	if err := watcher.Add(dataDir); err != nil {
		return err
	}

	// fsnotify does not recurse; refs/heads, refs/tags, refs/remote hold the
	// files whose creation/deletion actually signals branch and tag changes.
	for _, sub := range []string{"refs/heads", "refs/tags", "refs/remote"} {
		walkAndWatch(watcher, filepath.Join(dataDir, sub), s.logger)
	}

	s.wg.Add(1)
	go s.statusPollLoop()

	s.wg.Add(1)
	go s.watchLoop(watcher)

	s.logger.Info("watching repository for changes", "dataDir", dataDir)
	return nil
}

func walkAndWatch(watcher *fsnotify.Watcher, dir string, logger interface {
	Warn(msg string, args ...any)
}) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	err = filepath.Walk(dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if fi.IsDir() {
			if addErr := watcher.Add(path); addErr != nil {
				logger.Warn("failed to watch directory", "dir", path, "err", addErr)
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("failed to walk refs directory", "dir", dir, "err", err)
	}
}

// statusPollLoop recomputes working tree status on a fixed interval and
// broadcasts it when it differs from the last broadcast, catching
// untracked/edited files that never touch the data directory.
func (s *Server) statusPollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	var last core.WorkingTreeStatus
	haveLast := false

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			status, err := s.repo.Workflow.Status()
			if err != nil {
				continue
			}
			if haveLast && statusEqual(last, status) {
				continue
			}
			last, haveLast = status, true
			s.queueBroadcast(status)
		}
	}
}

func statusEqual(a, b core.WorkingTreeStatus) bool {
	if a.Branch != b.Branch || a.HeadID != b.HeadID || len(a.Changes) != len(b.Changes) {
		return false
	}
	for path, kind := range a.Changes {
		if bKind, ok := b.Changes[path]; !ok || bKind != kind {
			return false
		}
	}
	return true
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher) {
	defer s.wg.Done()
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Error("failed to close watcher", "err", err)
		}
	}()

	var debounceTimer *time.Timer

	for {
		select {
		case <-s.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			s.logger.Debug("change detected", "file", filepath.Base(event.Name), "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				if s.ctx.Err() != nil {
					return
				}
				status, err := s.repo.Workflow.Status()
				if err != nil {
					s.logger.Error("failed to recompute status", "err", err)
					return
				}
				s.queueBroadcast(status)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "err", err)
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	path := event.Name

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if base == "config" {
		return true
	}
	return false
}
