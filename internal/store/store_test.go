package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/model"
)

// memBackend is an in-memory Backend with injectable failures.
type memBackend struct {
	tasks   []model.Task
	loadErr error
	saveErr error
	saves   int
}

func (b *memBackend) Load() ([]model.Task, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	out := make([]model.Task, len(b.tasks))
	copy(out, b.tasks)
	return out, nil
}

func (b *memBackend) Save(tasks []model.Task) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.tasks = make([]model.Task, len(tasks))
	copy(b.tasks, tasks)
	b.saves++
	return nil
}

func newStore(t *testing.T) (*Store, *memBackend) {
	t.Helper()
	b := &memBackend{}
	s, clean := Open(b)
	require.True(t, clean)
	return s, b
}

func TestOpenDegradesToEmptyOnLoadError(t *testing.T) {
	b := &memBackend{loadErr: errors.New("corrupt")}
	s, clean := Open(b)

	require.NotNil(t, s)
	assert.False(t, clean)
	assert.Zero(t, s.Len())
}

func TestAddPrependsNewestFirst(t *testing.T) {
	s, b := newStore(t)

	_, err := s.Add("A")
	require.NoError(t, err)
	_, err = s.Add("B")
	require.NoError(t, err)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "B", tasks[0].Text)
	assert.Equal(t, "A", tasks[1].Text)

	// persisted order matches in-memory order
	require.Len(t, b.tasks, 2)
	assert.Equal(t, "B", b.tasks[0].Text)
}

func TestAddRejectsBlankText(t *testing.T) {
	s, b := newStore(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(text)
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Zero(t, s.Len())
	assert.Zero(t, b.saves, "rejected adds must not write")
}

func TestAddTrimsText(t *testing.T) {
	s, _ := newStore(t)

	task, err := s.Add("  Buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Text)
}

func TestIDsAreUniqueWithinSession(t *testing.T) {
	s, _ := newStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task, err := s.Add("task")
		require.NoError(t, err)
		require.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestToggleMaintainsCompletedAtInvariant(t *testing.T) {
	s, _ := newStore(t)
	task, err := s.Add("Task")
	require.NoError(t, err)

	got, err := s.Toggle(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	got, err = s.Toggle(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestEditReplacesTextAndStampsUpdatedAt(t *testing.T) {
	s, _ := newStore(t)
	task, err := s.Add("Old text")
	require.NoError(t, err)

	got, err := s.Edit(task.ID, "New text")
	require.NoError(t, err)
	assert.Equal(t, "New text", got.Text)
	require.NotNil(t, got.UpdatedAt)
}

func TestEditRejectsBlankWithoutMutation(t *testing.T) {
	s, _ := newStore(t)
	task, err := s.Add("Old text")
	require.NoError(t, err)

	_, err = s.Edit(task.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	got, ok := s.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Old text", got.Text)
	assert.Nil(t, got.UpdatedAt)
}

func TestStaleIDReportsNotFound(t *testing.T) {
	s, b := newStore(t)
	_, err := s.Add("keep")
	require.NoError(t, err)
	writes := b.saves

	_, err = s.Toggle("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Edit("nope", "text")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Delete("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, writes, b.saves, "not-found must not write")
}

func TestDeleteAndRestore(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Add("A")
	require.NoError(t, err)
	b, err := s.Add("B")
	require.NoError(t, err)

	removed, err := s.Delete(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Text)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Restore(removed, 0))
	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "B", tasks[0].Text)
	assert.Equal(t, b.ID, tasks[0].ID)
}

func TestRestoreClampsPosition(t *testing.T) {
	s, _ := newStore(t)
	task := model.NewTask("late")

	require.NoError(t, s.Restore(task, 99))
	require.Equal(t, 1, s.Len())
}

func TestClearCompletedKeepsPending(t *testing.T) {
	s, _ := newStore(t)
	a, _ := s.Add("one")
	b, _ := s.Add("two")
	_, err := s.Add("three")
	require.NoError(t, err)
	_, err = s.Toggle(a.ID)
	require.NoError(t, err)
	_, err = s.Toggle(b.ID)
	require.NoError(t, err)

	n, err := s.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "three", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
}

func TestClearCompletedIsIdempotent(t *testing.T) {
	s, b := newStore(t)
	task, _ := s.Add("one")
	_, err := s.Toggle(task.ID)
	require.NoError(t, err)

	n, err := s.ClearCompleted()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	writes := b.saves

	n, err = s.ClearCompleted()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, writes, b.saves, "second clear must not write")
}

func TestClearAllOnEmptyIsNoop(t *testing.T) {
	s, b := newStore(t)

	n, err := s.ClearAll()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, b.saves)
}

func TestClearAllEmptiesCollection(t *testing.T) {
	s, _ := newStore(t)
	s.Add("one")
	s.Add("two")

	n, err := s.ClearAll()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, s.Len())
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	s, b := newStore(t)
	b.saveErr = errors.New("quota exceeded")

	task, err := s.Add("kept anyway")
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)

	got, ok := s.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "kept anyway", got.Text)
}

func TestRefreshAdoptsExternalChanges(t *testing.T) {
	s, b := newStore(t)
	_, err := s.Add("mine")
	require.NoError(t, err)

	// unchanged backend: no replacement
	changed, err := s.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)

	// another instance rewrote the file
	other := model.NewTask("theirs")
	b.tasks = []model.Task{other}

	changed, err = s.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "theirs", tasks[0].Text)
}

func TestTasksReturnsACopy(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Add("immutable")
	require.NoError(t, err)

	tasks := s.Tasks()
	tasks[0].Text = "mutated"

	got := s.Tasks()
	assert.Equal(t, "immutable", got[0].Text)
}
