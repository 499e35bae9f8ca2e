package ui

import (
	"fmt"

	"github.com/taskdeck/taskdeck/internal/view"
)

// RenderList formats a ViewModel as panel lines for the non-interactive
// listing. Group splits pending and done into two sections.
func RenderList(vm view.ViewModel, group bool) []string {
	t := Current()
	if vm.Empty != "" {
		return []string{C(t.Muted, vm.Empty), "", summaryLine(vm.Counts)}
	}

	var lines []string
	if group {
		lines = append(lines, C(t.Title, "Pending"))
		lines = append(lines, rowLines(vm, false)...)
		lines = append(lines, "", C(t.Title, "Done"))
		lines = append(lines, rowLines(vm, true)...)
	} else {
		for _, r := range vm.Rows {
			lines = append(lines, rowLine(r))
		}
	}
	lines = append(lines, "", summaryLine(vm.Counts))
	return lines
}

func rowLines(vm view.ViewModel, done bool) []string {
	t := Current()
	var lines []string
	for _, r := range vm.Rows {
		if r.Task.Completed == done {
			lines = append(lines, rowLine(r))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	}
	return lines
}

func rowLine(r view.Row) string {
	t := Current()
	box := t.BoxUnchecked
	text := r.Task.Text
	if r.Task.Completed {
		box = C(t.Success, t.BoxChecked)
		text = C(t.Muted, text)
	}
	return fmt.Sprintf("%s %s %s", C(t.Muted, fmt.Sprintf("%3d", r.Index)), box, text)
}

func summaryLine(c view.Counts) string {
	t := Current()
	return fmt.Sprintf("%s %d  %s %d  %s %d   %s",
		C(t.Success, t.SymDone), c.Completed,
		C(t.Pending, t.SymUnchecked), c.Pending,
		C(t.Accent, "Total"), c.Total,
		ProgressBar(c.Completed, c.Total, 20),
	)
}
