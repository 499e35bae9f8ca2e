package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/model"
)

func fixture() []model.Task {
	a := model.NewTask("pending A")
	b := model.NewTask("done B")
	b.Complete()
	c := model.NewTask("pending C")
	return []model.Task{c, b, a} // newest first
}

func TestFilterCorrectness(t *testing.T) {
	tasks := fixture()

	all := Build(tasks, FilterAll, "")
	require.Len(t, all.Rows, 3)

	pending := Build(tasks, FilterPending, "")
	require.Len(t, pending.Rows, 2)
	for _, r := range pending.Rows {
		assert.False(t, r.Task.Completed)
	}

	completed := Build(tasks, FilterCompleted, "")
	require.Len(t, completed.Rows, 1)
	for _, r := range completed.Rows {
		assert.True(t, r.Task.Completed)
	}
}

func TestCountsAlwaysReflectUnfilteredSet(t *testing.T) {
	tasks := fixture()
	want := Counts{Total: 3, Pending: 2, Completed: 1}

	for _, f := range []Filter{FilterAll, FilterPending, FilterCompleted} {
		vm := Build(tasks, f, "")
		assert.Equal(t, want, vm.Counts, "filter %s", f)
	}
}

func TestRowIndexesAddressFullCollection(t *testing.T) {
	tasks := fixture()
	vm := Build(tasks, FilterCompleted, "")

	require.Len(t, vm.Rows, 1)
	// "done B" is second in the full list regardless of filter
	assert.Equal(t, 2, vm.Rows[0].Index)
}

func TestEmptyStateCopyDependsOnFilter(t *testing.T) {
	var tasks []model.Task
	copies := map[Filter]string{}
	for _, f := range []Filter{FilterAll, FilterPending, FilterCompleted} {
		vm := Build(tasks, f, "")
		require.NotEmpty(t, vm.Empty)
		copies[f] = vm.Empty
	}
	assert.NotEqual(t, copies[FilterAll], copies[FilterPending])
	assert.NotEqual(t, copies[FilterPending], copies[FilterCompleted])
	assert.NotEqual(t, copies[FilterAll], copies[FilterCompleted])
}

func TestEmptyStateForFilteredOutTasks(t *testing.T) {
	done := model.NewTask("done")
	done.Complete()
	vm := Build([]model.Task{done}, FilterPending, "")

	assert.Empty(t, vm.Rows)
	assert.NotEmpty(t, vm.Empty)
	assert.Equal(t, Counts{Total: 1, Completed: 1}, vm.Counts)
}

func TestAtMostOneRowEditing(t *testing.T) {
	tasks := fixture()
	vm := Build(tasks, FilterAll, tasks[1].ID)

	editing := 0
	for _, r := range vm.Rows {
		if r.Editing {
			editing++
			assert.Equal(t, tasks[1].ID, r.Task.ID)
		}
	}
	assert.Equal(t, 1, editing)
}

func TestUnknownEditingIDMarksNothing(t *testing.T) {
	vm := Build(fixture(), FilterAll, "gone")
	for _, r := range vm.Rows {
		assert.False(t, r.Editing)
	}
}

func TestFilteringNeverMutates(t *testing.T) {
	tasks := fixture()
	_ = Build(tasks, FilterCompleted, "")

	assert.Equal(t, "pending C", tasks[0].Text)
	assert.Len(t, tasks, 3)
}

func TestSanitizeStripsEscapes(t *testing.T) {
	assert.Equal(t, "redtext", Sanitize("\x1b[31mred\x1b[0mtext"))
	assert.Equal(t, "plain", Sanitize("pla\x07in"))
	assert.Equal(t, "keep\ttabs", Sanitize("keep\ttabs"))
	assert.Equal(t, "joined", Sanitize("joi\nned"))
}

func TestBuildSanitizesRowText(t *testing.T) {
	evil := model.NewTask("x")
	evil.Text = "\x1b[2Jboom"
	vm := Build([]model.Task{evil}, FilterAll, "")

	require.Len(t, vm.Rows, 1)
	assert.Equal(t, "boom", vm.Rows[0].Task.Text)
}

func TestParseFilter(t *testing.T) {
	for name, want := range map[string]Filter{
		"":          FilterAll,
		"all":       FilterAll,
		"pending":   FilterPending,
		"done":      FilterCompleted,
		"completed": FilterCompleted,
	} {
		got, ok := ParseFilter(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseFilter("bogus")
	assert.False(t, ok)
}

func TestFilterNextCycles(t *testing.T) {
	assert.Equal(t, FilterPending, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterPending.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
}
