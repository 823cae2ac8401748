// Package snapshot keeps the last raw workflow runs response on disk for post-mortem inspection.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DefaultFileName is written in the working directory unless configured otherwise
const DefaultFileName = ".workflow.json"

// Store owns a single transient file. A Store with an empty path is disabled.
type Store struct {
	path   string
	logger *log.Logger
}

// New creates a store for path. Pass an empty path to disable persistence.
func New(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the snapshot location, or "" when disabled
func (s *Store) Path() string {
	return s.path
}

// Enabled reports whether writes reach the filesystem
func (s *Store) Enabled() bool {
	return s.path != ""
}

// Write replaces the snapshot with body. The data goes to a temp file in the
// same directory first so a concurrent reader never sees a partial file.
func (s *Store) Write(body []byte) error {
	if !s.Enabled() {
		return nil
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot %s: %w", s.path, err)
	}

	return nil
}

// Remove deletes the snapshot. A missing file is not an error.
func (s *Store) Remove() error {
	if !s.Enabled() {
		return nil
	}

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove snapshot %s: %w", s.path, err)
	}
	return nil
}

// Scope ties the snapshot lifetime to one watch session.
type Scope struct {
	store         *Store
	keepOnFailure bool
	closed        bool
}

// Begin opens a scope. With keepOnFailure the file survives a failed session
// as diagnostic evidence; otherwise it is removed on every exit path.
func (s *Store) Begin(keepOnFailure bool) *Scope {
	return &Scope{store: s, keepOnFailure: keepOnFailure}
}

// Close settles the snapshot for a session that ended with sessionErr.
// It reports whether the file was retained. Only the first call has effect.
func (sc *Scope) Close(sessionErr error) (retained bool, err error) {
	if sc.closed {
		return false, nil
	}
	sc.closed = true

	if !sc.store.Enabled() {
		return false, nil
	}

	if sessionErr != nil && sc.keepOnFailure {
		if _, statErr := os.Stat(sc.store.path); statErr != nil {
			return false, nil
		}
		sc.store.logger.Warn("keeping last response for inspection", "path", sc.store.path, "reason", sessionErr)
		return true, nil
	}

	return false, sc.store.Remove()
}
