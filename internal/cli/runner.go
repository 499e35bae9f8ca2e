package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/store/jsonstore"
	"github.com/taskdeck/taskdeck/internal/tui"
	"github.com/taskdeck/taskdeck/internal/ui"
	"github.com/taskdeck/taskdeck/internal/view"
)

// Options tune behavior from root flags.
type Options struct {
	Group     bool        // list grouped by pending/done
	Filter    view.Filter // active display filter
	File      string      // data file override ("" = default)
	AssumeYes bool        // skip confirmation prompts
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "ui":
		return doUI(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: taskdeck add <text...>")
			return 2
		}
		return doAdd(opt, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck done <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("done: not a number: " + a[0])
			return 2
		}
		return doToggle(opt, n)

	case "edit":
		if len(a) < 2 {
			ui.Fail("usage: taskdeck edit <index> <text...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("edit: not a number: " + a[0])
			return 2
		}
		return doEdit(opt, n, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(opt, n)

	case "clear":
		if len(a) != 1 || (a[0] != "completed" && a[0] != "all") {
			ui.Fail("usage: taskdeck clear <completed|all>")
			return 2
		}
		return doClear(opt, a[0] == "all")

	case "theme":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck theme <" + strings.Join(ui.Names(), "|") + ">")
			return 2
		}
		return doTheme(a[0])
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskdeck - a local task manager

Usage:
  taskdeck [flags] <subcommand> [args]

Subcommands:
  add <text...>        Add a new task (text can be multiple words)
  ls                   List tasks (honors -filter and -group)
  ui                   Interactive full-screen list
  done <index>         Toggle completion for task at 1-based index
  edit <index> <text>  Replace the text of task at 1-based index
  rm <index>           Delete task at 1-based index (asks first)
  clear <completed|all>  Bulk delete (asks first, states the count)
  theme <name>         Persist the color theme (classic, mono, neon)

Examples:
  taskdeck add "Buy milk"
  taskdeck -filter pending ls
  taskdeck done 2
  taskdeck clear completed
`)
}

// open loads the store, degrading to empty with a warning when the saved
// data cannot be read.
func open(opt Options) (*store.Store, int) {
	backend, err := jsonstore.New(opt.File)
	if err != nil {
		ui.Fail("store: " + err.Error())
		return nil, 1
	}
	s, clean := store.Open(backend)
	if !clean {
		ui.Warn("saved tasks could not be read, starting empty")
	}
	return s, 0
}

// confirm asks a y/N question on the terminal. AssumeYes short-circuits.
func confirm(opt Options, prompt string) bool {
	if opt.AssumeYes {
		return true
	}
	fmt.Printf("%s [y/N] ", prompt)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

// taskAt resolves a 1-based index over the full (unfiltered) collection.
func taskAt(s *store.Store, userIndex int) (model.Task, bool) {
	tasks := s.Tasks()
	if userIndex < 1 || userIndex > len(tasks) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(tasks), userIndex))
		fmt.Fprintln(os.Stderr, ui.Muted("Hint: run `taskdeck ls` to see valid indexes"))
		return model.Task{}, false
	}
	return tasks[userIndex-1], true
}

// reportSave prints the outcome of a mutation, distinguishing a save
// failure (change kept for this session only) from success.
func reportSave(err error, okMsg string) int {
	if err == nil {
		ui.OK(okMsg)
		return 0
	}
	var saveErr *store.SaveError
	if errors.As(err, &saveErr) {
		ui.Warn(okMsg + ", but saving failed: " + saveErr.Err.Error())
		ui.Warn("the change will not survive this session")
		return 1
	}
	ui.Fail(err.Error())
	return 1
}

// ---------------------------------------------------
// Subcommands
// ---------------------------------------------------

func doList(opt Options) int {
	s, code := open(opt)
	if s == nil {
		return code
	}
	vm := view.Build(s.Tasks(), opt.Filter, "")
	ui.Panel(ui.RenderList(vm, opt.Group))
	return 0
}

func doUI(opt Options) int {
	backend, err := jsonstore.New(opt.File)
	if err != nil {
		ui.Fail("store: " + err.Error())
		return 1
	}
	s, clean := store.Open(backend)
	if err := tui.Run(s, opt.Filter, !clean); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doAdd(opt Options, text string) int {
	s, code := open(opt)
	if s == nil {
		return code
	}
	t, err := s.Add(text)
	if errors.Is(err, store.ErrEmptyText) {
		ui.Fail("add: task text cannot be empty")
		return 2
	}
	return reportSave(err, fmt.Sprintf("added %q", t.Text))
}

func doToggle(opt Options, userIndex int) int {
	s, code := open(opt)
	if s == nil {
		return code
	}
	t, ok := taskAt(s, userIndex)
	if !ok {
		return 2
	}
	t, err := s.Toggle(t.ID)
	msg := fmt.Sprintf("completed %q", t.Text)
	if err == nil && !t.Completed {
		msg = fmt.Sprintf("marked %q pending", t.Text)
	}
	return reportSave(err, msg)
}

func doEdit(opt Options, userIndex int, text string) int {
	s, code := open(opt)
	if s == nil {
		return code
	}
	t, ok := taskAt(s, userIndex)
	if !ok {
		return 2
	}
	t, err := s.Edit(t.ID, text)
	if errors.Is(err, store.ErrEmptyText) {
		ui.Fail("edit: task text cannot be empty")
		return 2
	}
	return reportSave(err, fmt.Sprintf("updated %q", t.Text))
}

func doRemove(opt Options, userIndex int) int {
	s, code := open(opt)
	if s == nil {
		return code
	}
	t, ok := taskAt(s, userIndex)
	if !ok {
		return 2
	}
	if !confirm(opt, fmt.Sprintf("Delete %q?", t.Text)) {
		ui.Info("nothing deleted")
		return 0
	}
	t, err := s.Delete(t.ID)
	return reportSave(err, fmt.Sprintf("deleted %q", t.Text))
}

func doClear(opt Options, all bool) int {
	s, code := open(opt)
	if s == nil {
		return code
	}
	c := view.Count(s.Tasks())

	if all {
		if c.Total == 0 {
			ui.Info("no tasks to clear")
			return 0
		}
		if !confirm(opt, fmt.Sprintf("Delete ALL %d task(s)?", c.Total)) {
			ui.Info("nothing deleted")
			return 0
		}
		n, err := s.ClearAll()
		return reportSave(err, fmt.Sprintf("cleared all %d task(s)", n))
	}

	if c.Completed == 0 {
		ui.Info("no completed tasks to clear")
		return 0
	}
	if !confirm(opt, fmt.Sprintf("Delete %d completed task(s)?", c.Completed)) {
		ui.Info("nothing deleted")
		return 0
	}
	n, err := s.ClearCompleted()
	return reportSave(err, fmt.Sprintf("cleared %d completed task(s)", n))
}

func doTheme(name string) int {
	if !ui.ValidTheme(name) {
		ui.Fail("unknown theme: " + name + " (valid: " + strings.Join(ui.Names(), ", ") + ")")
		return 2
	}
	c := config.Load()
	c.Theme = name
	if err := config.Save(c); err != nil {
		ui.Fail("save config: " + err.Error())
		return 1
	}
	ui.SetTheme(name)
	ui.OK("theme set to " + name)
	return 0
}
