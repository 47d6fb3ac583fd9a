package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DataDirName is the directory name ugit stores its data under, directly
// beneath the working tree — the ugit analogue of ".git".
const DataDirName = ".ugit"

// Layout resolves and materializes the on-disk skeleton of a repository's
// data directory. It is a thin value type; all the interesting state lives
// on disk, not in the struct.
type Layout struct {
	// DataDir is the absolute path to the ".ugit" directory.
	DataDir string
	// WorkDir is the absolute path to the working tree the data dir sits under.
	WorkDir string
}

// Join returns the absolute path of elem beneath the data directory.
func (l Layout) Join(elem ...string) string {
	return filepath.Join(append([]string{l.DataDir}, elem...)...)
}

// Create initializes a new repository rooted at path. path must be empty or
// not yet exist; Create fails with AlreadyExists if ".ugit" is already
// there, mirroring ugit/data.py's init() (os.makedirs without exist_ok), and
// also if path holds any other entry.
func Create(path string) (Layout, error) {
	const op = "core.Create"

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Layout{}, newErr(op, KindIOError, err)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return Layout{}, newErr(op, KindIOError, err)
	}

	dataDir := filepath.Join(absPath, DataDirName)
	if _, err := os.Stat(dataDir); err == nil {
		return Layout{}, newErr(op, KindAlreadyExists, fmt.Errorf("%s already exists", dataDir))
	} else if !os.IsNotExist(err) {
		return Layout{}, newErr(op, KindIOError, err)
	}
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return Layout{}, newErr(op, KindIOError, err)
	}
	if len(entries) > 0 {
		return Layout{}, newErr(op, KindAlreadyExists, fmt.Errorf("%s is not empty", absPath))
	}

	for _, sub := range []string{
		"objects",
		filepath.Join("refs", "heads"),
		filepath.Join("refs", "tags"),
	} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return Layout{}, newErr(op, KindIOError, err)
		}
	}

	layout := Layout{DataDir: dataDir, WorkDir: absPath}

	rs := RefStore{Layout: layout}
	if err := rs.Set("HEAD", RefValue{Symbolic: true, Value: "refs/heads/master"}, false); err != nil {
		return Layout{}, newErr(op, KindIOError, err)
	}

	config := "[core]\n\trepositoryformatversion = 0\n\tfilemode = false\n\tbare = false\n"
	if err := os.WriteFile(filepath.Join(dataDir, "config"), []byte(config), 0o644); err != nil {
		return Layout{}, newErr(op, KindIOError, err)
	}

	return layout, nil
}

// Find walks upward from path looking for a ".ugit" directory, the way
// gitcore's findGitDirectory walks for ".git". Returns NotARepository if it
// reaches the filesystem root without finding one.
func Find(path string) (Layout, error) {
	const op = "core.Find"

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Layout{}, newErr(op, KindIOError, err)
	}

	current := absPath
	for {
		dataDir := filepath.Join(current, DataDirName)
		if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
			return Layout{DataDir: dataDir, WorkDir: current}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return Layout{}, newErr(op, KindNotARepository, fmt.Errorf("not a ugit repository (or any parent up to mount point): %s", path))
		}
		current = parent
	}
}

// globalOverlay holds the process-global retarget installed by WithDataDir;
// it applies only while globalInUse is true, otherwise stores use their
// caller-supplied layout, consistent with the spec's requirement that with_data_dir is process-global
// mutable state restored unconditionally on exit.
var (
	globalMu      sync.Mutex
	globalInUse   bool
	globalOverlay Layout
)

// WithDataDir retargets the process-global overlay to other for the duration
// of fn, then restores the prior target unconditionally, even if fn panics
// or returns an error. A second concurrent entry fails with Busy — nested
// acquisition is forbidden by spec.
func WithDataDir(other Layout, fn func() error) error {
	const op = "core.WithDataDir"

	globalMu.Lock()
	if globalInUse {
		globalMu.Unlock()
		return newErr(op, KindBusy, fmt.Errorf("with_data_dir is already active"))
	}
	globalInUse = true
	globalOverlay = other
	globalMu.Unlock()

	defer func() {
		globalMu.Lock()
		globalInUse = false
		globalOverlay = Layout{}
		globalMu.Unlock()
	}()

	return fn()
}

// resolveLayout returns the overlay layout installed by an enclosing WithDataDir,
// or fallback if none is active. Object/ref stores call this so they honor
// the scoped retarget without threading an extra parameter through every
// call site.
func resolveLayout(fallback Layout) Layout {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalInUse {
		return globalOverlay
	}
	return fallback
}
