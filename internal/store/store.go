package store

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/taskdeck/taskdeck/internal/model"
)

var (
	// ErrEmptyText rejects add/edit with blank (after trimming) text.
	ErrEmptyText = errors.New("task text cannot be empty")
	// ErrNotFound reports an id-keyed operation against a task that no
	// longer exists, e.g. deleted by another instance since the last refresh.
	ErrNotFound = errors.New("task not found")
)

// SaveError wraps a backend write failure. The in-memory mutation that
// triggered the write is kept; only durability was lost.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "save tasks: " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }

// Backend persists the full collection as one unit.
type Backend interface {
	Load() ([]model.Task, error)
	Save([]model.Task) error
}

// Store owns the ordered in-memory task collection and mediates all
// persistence. Newest tasks sit at the front. Construct with Open and pass
// the handle to whichever frontend runs; there is no package-level instance.
type Store struct {
	backend Backend
	tasks   []model.Task
}

// Open loads the persisted collection through b. Load failures are never
// fatal: corrupt or unreadable data degrades to an empty collection and the
// second return is false so the caller can warn the user.
func Open(b Backend) (*Store, bool) {
	tasks, err := b.Load()
	if err != nil {
		return &Store{backend: b, tasks: []model.Task{}}, false
	}
	return &Store{backend: b, tasks: tasks}, true
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len reports the unfiltered task count.
func (s *Store) Len() int { return len(s.tasks) }

// Get looks a task up by id.
func (s *Store) Get(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Add validates text, prepends a new pending task and persists. The
// returned task carries the assigned id.
func (s *Store) Add(text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}
	t := model.NewTask(text)
	s.tasks = append([]model.Task{t}, s.tasks...)
	return t, s.flush()
}

// Toggle flips completion for id, maintaining the completed/completedAt
// invariant, and persists.
func (s *Store) Toggle(id string) (model.Task, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	if s.tasks[i].Completed {
		s.tasks[i].Reopen()
	} else {
		s.tasks[i].Complete()
	}
	return s.tasks[i], s.flush()
}

// Edit replaces the text of id and persists. Blank text is rejected without
// mutating anything.
func (s *Store) Edit(id, text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}
	i := s.index(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	s.tasks[i].Rename(text)
	return s.tasks[i], s.flush()
}

// Delete removes id and persists. The removed task is returned so callers
// can offer undo.
func (s *Store) Delete(id string) (model.Task, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return t, s.flush()
}

// Restore reinserts a previously deleted task at position at (clamped) and
// persists. Used by the TUI's single-level undo.
func (s *Store) Restore(t model.Task, at int) error {
	if at < 0 {
		at = 0
	}
	if at > len(s.tasks) {
		at = len(s.tasks)
	}
	s.tasks = append(s.tasks[:at], append([]model.Task{t}, s.tasks[at:]...)...)
	return s.flush()
}

// ClearCompleted removes every completed task and persists. Returns how
// many were removed; zero means nothing changed and nothing was written.
func (s *Store) ClearCompleted() (int, error) {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0, nil
	}
	s.tasks = kept
	return removed, s.flush()
}

// ClearAll empties the collection and persists. Returns how many tasks were
// removed; zero means the collection was already empty and nothing was
// written.
func (s *Store) ClearAll() (int, error) {
	removed := len(s.tasks)
	if removed == 0 {
		return 0, nil
	}
	s.tasks = []model.Task{}
	return removed, s.flush()
}

// Refresh re-reads the backend and replaces in-memory state when the
// persisted copy differs, tolerating edits made by another instance of the
// app against the same file. Last write wins; this is reconciliation, not
// merging. Returns whether state was replaced.
func (s *Store) Refresh() (bool, error) {
	loaded, err := s.backend.Load()
	if err != nil {
		return false, err
	}
	if equal(s.tasks, loaded) {
		return false, nil
	}
	s.tasks = loaded
	return true, nil
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// flush serializes and writes the whole collection. Marshal errors surface
// before any write happens, so a bad serialization can never replace a good
// persisted copy.
func (s *Store) flush() error {
	if err := s.backend.Save(s.tasks); err != nil {
		return &SaveError{Err: err}
	}
	return nil
}

// equal compares two collections by their serialized form, which sidesteps
// monotonic-clock noise in freshly created time.Time values.
func equal(a, b []model.Task) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(ab) == string(bb)
}
