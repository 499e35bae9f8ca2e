package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskdeck/taskdeck/internal/model"
)

// JSON-backed storage. One file holding the whole collection as an array,
// human-readable, portable. No locking; concurrent instances reconcile by
// re-reading on focus, last write wins.

const (
	dirName      = ".taskdeck"
	dataFileName = "tasks.json"

	// EnvFile overrides the data file location.
	EnvFile = "TASKDECK_FILE"
)

// Store reads and writes a single JSON file.
type Store struct {
	path string
}

// New returns a file store at path. Empty path means DefaultPath.
func New(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{path: path}, nil
}

// DefaultPath resolves the data file: $TASKDECK_FILE if set, otherwise
// ~/.taskdeck/tasks.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvFile); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName, dataFileName), nil
}

// Path reports where the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the persisted collection. A missing file is an empty
// collection, not an error; unreadable or unparsable content is an error
// the caller is expected to degrade on.
func (s *Store) Load() ([]model.Task, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Save serializes the collection and writes it out. Marshal runs first so a
// serialization failure leaves the previous file contents untouched.
func (s *Store) Save(tasks []model.Task) error {
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
