package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/notify"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/view"
)

// listItem adapts a view.Row to bubbles/list.Item.
type listItem struct {
	row view.Row
}

func (i listItem) titleText() string {
	box := boxUnchecked
	if i.row.Task.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.row.Task.Text)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.titleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.row.Task.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := it.row.Task.Text
	if it.row.Task.Completed {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(textStyled)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
	modeConfirm
)

// pendingAction is what a confirm prompt will run on "y".
type pendingAction int

const (
	actDelete pendingAction = iota
	actClearCompleted
	actClearAll
)

type confirmState struct {
	prompt string
	action pendingAction
	id     string // delete target
}

type undoState struct {
	task model.Task
	at   int
}

type noticeExpiredMsg struct{ seq int }

// Model is the interactive frontend over a shared task store. All
// mutations run through the store and persist immediately; the model only
// owns view state (filter, input drafts, confirm prompts, notices).
type Model struct {
	store  *store.Store
	list   list.Model
	filter view.Filter

	mode      inputMode
	ti        textinput.Model
	editingID string

	confirm confirmState

	notices *notify.Presenter

	undo *undoState

	// queued notice shown on first frame (corrupt store warning)
	startupWarning string
}

// New builds the TUI model around an opened store.
func New(s *store.Store, f view.Filter) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	// Extend help with our bindings
	binds := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear done")),
		key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return binds[:4] }
	l.AdditionalFullHelpKeys = func() []key.Binding { return binds }

	m := Model{
		store:   s,
		list:    l,
		filter:  f,
		notices: notify.NewPresenter(notify.DefaultTTL),
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New task..."
	m.ti.CharLimit = 200

	m.rebuild()
	return m
}

// Run starts the program. corruptStore queues a startup warning when the
// persisted data could not be parsed and the session began empty.
func Run(s *store.Store, f view.Filter, corruptStore bool) error {
	m := New(s, f)
	if corruptStore {
		m.startupWarning = "saved tasks could not be read, starting empty"
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

// rebuild projects store state through the active filter into the list and
// refreshes the title counts.
func (m *Model) rebuild() {
	vm := view.Build(m.store.Tasks(), m.filter, m.editingID)
	items := make([]list.Item, 0, len(vm.Rows))
	selected := m.list.Index()
	for _, r := range vm.Rows {
		items = append(items, listItem{row: r})
	}
	m.list.SetItems(items)
	if selected >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	m.list.Title = fmt.Sprintf("%s %s  %s %d  %s %d  %s %d",
		titleStyle.Render("Tasks"),
		mutedStyle.Render("["+vm.Filter.String()+"]"),
		successStyle.Render("✔"), vm.Counts.Completed,
		pendingStyle.Render("•"), vm.Counts.Pending,
		accentStyle.Render("Total"), vm.Counts.Total,
	)
}

func (m *Model) selectedRow() (view.Row, bool) {
	i := m.list.Index()
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return view.Row{}, false
	}
	it, ok := items[i].(listItem)
	if !ok {
		return view.Row{}, false
	}
	return it.row, true
}

// startEdit switches editing to the given row, discarding any other task's
// in-progress draft. Only one task can ever be mid-edit.
func (m *Model) startEdit(r view.Row) {
	m.mode = modeEdit
	m.editingID = r.Task.ID
	m.ti.SetValue(r.Task.Text)
	m.ti.CursorEnd()
	m.ti.Placeholder = "Edit task..."
	m.ti.Focus()
	m.rebuild()
}

func (m *Model) stopInput() {
	m.mode = modeBrowse
	m.editingID = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.rebuild()
}

// notice shows a transient message and arms its expiry timer.
func (m *Model) notice(kind notify.Kind, text string) tea.Cmd {
	n := m.notices.Show(kind, text)
	return tea.Tick(m.notices.TTL(), func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: n.Seq}
	})
}

// report maps a store error to the right notice, distinguishing validation
// failures (nothing changed) from save failures (change kept in memory).
func (m *Model) report(err error, okText string) tea.Cmd {
	var saveErr *store.SaveError
	switch {
	case err == nil:
		return m.notice(notify.Success, okText)
	case errors.Is(err, store.ErrEmptyText):
		return m.notice(notify.Error, "task text cannot be empty")
	case errors.Is(err, store.ErrNotFound):
		return m.notice(notify.Warning, "task no longer exists")
	case errors.As(err, &saveErr):
		return m.notice(notify.Error, okText+", but saving failed: "+saveErr.Err.Error())
	default:
		return m.notice(notify.Error, err.Error())
	}
}

func (m Model) Init() tea.Cmd {
	if m.startupWarning != "" {
		w := m.startupWarning
		return func() tea.Msg { return startupMsg{text: w} }
	}
	return nil
}

type startupMsg struct{ text string }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startupMsg:
		return m, m.notice(notify.Warning, msg.text)

	case noticeExpiredMsg:
		m.notices.Expire(msg.seq)
		return m, nil

	case tea.FocusMsg:
		// Another instance may have written the store while we were in the
		// background; re-read and adopt its copy wholesale if it differs.
		changed, err := m.store.Refresh()
		if err != nil {
			return m, m.notice(notify.Warning, "reload failed: "+err.Error())
		}
		if changed {
			m.stopInput()
			return m, m.notice(notify.Info, "tasks reloaded from disk")
		}
		return m, nil

	case tea.WindowSizeMsg:
		extra := 4
		if m.mode != modeBrowse {
			extra = 7
		}
		m.list.SetSize(msg.Width-4, msg.Height-extra)
		return m, nil
	}

	switch m.mode {
	case modeAdd:
		return m.updateAdd(msg)
	case modeEdit:
		return m.updateEdit(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	}
	return m.updateBrowse(msg)
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "enter":
			t, err := m.store.Add(m.ti.Value())
			if errors.Is(err, store.ErrEmptyText) {
				// keep the draft so the user can fix it
				return m, m.notice(notify.Error, "task text cannot be empty")
			}
			m.stopInput()
			return m, m.report(err, fmt.Sprintf("added %q", t.Text))
		case "esc":
			m.stopInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "enter":
			id := m.editingID
			_, err := m.store.Edit(id, m.ti.Value())
			if errors.Is(err, store.ErrEmptyText) {
				return m, m.notice(notify.Error, "task text cannot be empty")
			}
			m.stopInput()
			return m, m.report(err, "task updated")
		case "esc":
			// cancel discards the draft without touching the store
			m.stopInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	x, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch x.String() {
	case "y", "Y":
		act := m.confirm
		m.mode = modeBrowse
		m.confirm = confirmState{}
		return m.perform(act)
	default:
		// declining mutates nothing
		m.mode = modeBrowse
		m.confirm = confirmState{}
		return m, nil
	}
}

func (m Model) perform(act confirmState) (tea.Model, tea.Cmd) {
	switch act.action {
	case actDelete:
		at := m.list.Index()
		t, err := m.store.Delete(act.id)
		if err == nil {
			m.undo = &undoState{task: t, at: at}
		}
		m.rebuild()
		return m, m.report(err, fmt.Sprintf("deleted %q", t.Text))
	case actClearCompleted:
		n, err := m.store.ClearCompleted()
		m.rebuild()
		return m, m.report(err, fmt.Sprintf("cleared %d completed", n))
	case actClearAll:
		n, err := m.store.ClearAll()
		m.rebuild()
		return m, m.report(err, fmt.Sprintf("cleared all %d tasks", n))
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		// let the list's own fuzzy filter input swallow keys while open
		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		switch x.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case " ":
			r, ok := m.selectedRow()
			if !ok {
				return m, nil
			}
			t, err := m.store.Toggle(r.Task.ID)
			m.rebuild()
			okText := fmt.Sprintf("completed %q", t.Text)
			if err == nil && !t.Completed {
				okText = fmt.Sprintf("marked %q pending", t.Text)
			}
			return m, m.report(err, okText)

		case "a":
			m.mode = modeAdd
			m.ti.SetValue("")
			m.ti.Placeholder = "New task..."
			m.ti.Focus()
			return m, nil

		case "e":
			if r, ok := m.selectedRow(); ok {
				m.startEdit(r)
			}
			return m, nil

		case "d":
			r, ok := m.selectedRow()
			if !ok {
				return m, nil
			}
			m.mode = modeConfirm
			m.confirm = confirmState{
				prompt: fmt.Sprintf("Delete %q?", r.Task.Text),
				action: actDelete,
				id:     r.Task.ID,
			}
			return m, nil

		case "C":
			c := view.Count(m.store.Tasks())
			if c.Completed == 0 {
				return m, m.notice(notify.Info, "no completed tasks to clear")
			}
			m.mode = modeConfirm
			m.confirm = confirmState{
				prompt: fmt.Sprintf("Clear %d completed task(s)?", c.Completed),
				action: actClearCompleted,
			}
			return m, nil

		case "X":
			n := m.store.Len()
			if n == 0 {
				return m, m.notice(notify.Info, "no tasks to clear")
			}
			m.mode = modeConfirm
			m.confirm = confirmState{
				prompt: fmt.Sprintf("Clear ALL %d task(s)?", n),
				action: actClearAll,
			}
			return m, nil

		case "f", "tab":
			m.filter = m.filter.Next()
			m.rebuild()
			return m, nil
		case "1":
			m.filter = view.FilterAll
			m.rebuild()
			return m, nil
		case "2":
			m.filter = view.FilterPending
			m.rebuild()
			return m, nil
		case "3":
			m.filter = view.FilterCompleted
			m.rebuild()
			return m, nil

		case "u":
			if m.undo == nil {
				return m, m.notice(notify.Info, "nothing to undo")
			}
			u := *m.undo
			m.undo = nil
			err := m.store.Restore(u.task, u.at)
			m.rebuild()
			return m, m.report(err, fmt.Sprintf("restored %q", u.task.Text))
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := m.list.View()

	if n := m.notices.Current(); n != nil {
		content += "\n" + renderNotice(*n)
	}

	switch m.mode {
	case modeAdd, modeEdit:
		title := "Add new task"
		if m.mode == modeEdit {
			title = "Edit task"
		}
		content += "\n" + barStyle.Render(title+"\n"+m.ti.View())
	case modeConfirm:
		line := m.confirm.prompt + "  " + mutedStyle.Render("y = confirm, any other key = cancel")
		content += "\n" + barStyle.Render(warnStyle.Render(line))
	}
	return content
}

func renderNotice(n notify.Notice) string {
	switch n.Kind {
	case notify.Success:
		return successStyle.Render("✔ " + n.Text)
	case notify.Error:
		return errorStyle.Render("✖ " + n.Text)
	case notify.Warning:
		return warnStyle.Render("▲ " + n.Text)
	default:
		return infoStyle.Render("ℹ " + n.Text)
	}
}
