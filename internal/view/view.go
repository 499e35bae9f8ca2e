package view

import (
	"regexp"
	"strings"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Filter is a display-time predicate over the collection. Filtering never
// mutates the underlying tasks.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilter maps a user-supplied name to a Filter. Unknown names fall
// back to FilterAll.
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, true
	case "pending", "todo", "open":
		return FilterPending, true
	case "completed", "done":
		return FilterCompleted, true
	}
	return FilterAll, false
}

// Next cycles all → pending → completed → all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Counts summarizes the unfiltered collection.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

// Count tallies the full collection, independent of any active filter.
func Count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

// Row is one visible task plus its view state.
type Row struct {
	Task    model.Task
	Index   int // 1-based position in the full collection, for CLI addressing
	Editing bool
}

// ViewModel is a pure projection of (tasks, filter, editingID): the rows to
// draw, the empty-state copy when there are none, and summary counts that
// always reflect the unfiltered set.
type ViewModel struct {
	Rows   []Row
	Empty  string
	Counts Counts
	Filter Filter
}

// Build projects the collection for rendering. At most one row is marked
// editing; an editingID not present in the filtered rows marks nothing.
func Build(tasks []model.Task, f Filter, editingID string) ViewModel {
	vm := ViewModel{Counts: Count(tasks), Filter: f}
	for i, t := range tasks {
		if !f.Match(t) {
			continue
		}
		t.Text = Sanitize(t.Text)
		vm.Rows = append(vm.Rows, Row{
			Task:    t,
			Index:   i + 1,
			Editing: editingID != "" && t.ID == editingID,
		})
	}
	if len(vm.Rows) == 0 {
		vm.Empty = emptyCopy(f)
	}
	return vm
}

func emptyCopy(f Filter) string {
	switch f {
	case FilterPending:
		return "No pending tasks. All caught up."
	case FilterCompleted:
		return "No completed tasks yet."
	default:
		return "No tasks yet. Add one to get started."
	}
}

var controlSeq = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]|\x1b.`)

// Sanitize strips escape sequences and control bytes from user text so a
// crafted task title cannot inject styling or cursor movement into either
// renderer. The terminal equivalent of HTML-escaping.
func Sanitize(s string) string {
	s = controlSeq.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
