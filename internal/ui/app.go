package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/dnd"
	"github.com/MarisaKirisame/mdo/internal/events"
	"github.com/MarisaKirisame/mdo/internal/task"
	"github.com/MarisaKirisame/mdo/internal/when"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

// View represents the current view.
type View int

const (
	ViewOutline View = iota
	ViewNewTask
	ViewDetail
	ViewDeleteConfirm
)

// Synthetic hover geometry for keyboard drags. Each row acts as a
// four-unit-tall rect, so the quarter bands are y<=1, 1<y<3 and y>=3.
const (
	grabRowHeight = 4.0
	grabYBefore   = 0.5
	grabYChild    = 2.0
	grabYAfter    = 3.5
)

// Model is the main application model.
type Model struct {
	db      *db.DB
	emitter *events.Emitter
	keys    KeyMap
	help    help.Model

	currentView View

	// Outline state
	outline *Outline
	loading bool
	err     error

	// Keyboard drag state
	session     *dnd.Session
	pendingMove *dnd.Move
	grabZone    dnd.Mode
	grabRoot    bool

	notification string
	notifyUntil  time.Time

	// Select this task id after the next reload
	selectAfterLoad string

	// File watcher for database changes
	watcher    *fsnotify.Watcher
	dbChangeCh chan struct{}

	// New task input state
	titleInput  textinput.Model
	whenInput   textinput.Model
	inputFocus  int
	newParentID *string

	// Detail view state
	detailTask *task.Task
	detailBody string

	// Delete confirmation state
	deleteConfirm      *huh.Form
	deleteConfirmValue bool
	pendingDeleteTask  *task.Task

	// Window size
	width  int
	height int
}

// NewModel creates the application model.
func NewModel(database *db.DB, emitter *events.Emitter, keys KeyMap) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.CharLimit = 200
	ti.Width = 40

	wi := textinput.New()
	wi.Placeholder = "When? (tomorrow, every friday, 5-1...)"
	wi.CharLimit = 50
	wi.Width = 40

	h := help.New()
	h.ShowAll = false

	// Setup file watcher for database changes
	watcher, _ := fsnotify.NewWatcher()
	dbChangeCh := make(chan struct{}, 1)

	m := &Model{
		db:          database,
		emitter:     emitter,
		keys:        keys,
		help:        h,
		currentView: ViewOutline,
		outline:     NewOutline(0, 0),
		loading:     true,
		titleInput:  ti,
		whenInput:   wi,
		watcher:     watcher,
		dbChangeCh:  dbChangeCh,
	}
	m.session = dnd.NewSession(func(mv dnd.Move) {
		m.pendingMove = &mv
	})
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.startDatabaseWatcher()
	return tea.Batch(m.loadTasks(), m.waitForDBChange())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentView == ViewNewTask {
		return m.updateNewTask(msg)
	}
	if m.currentView == ViewDeleteConfirm && m.deleteConfirm != nil {
		return m.updateDeleteConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keys
		if key.Matches(msg, m.keys.Quit) && !m.session.Dragging() {
			m.stopDatabaseWatcher()
			return m, tea.Quit
		}

		switch m.currentView {
		case ViewOutline:
			return m.updateOutline(msg)
		case ViewDetail:
			return m.updateDetail(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.outline.SetSize(msg.Width, msg.Height-4)

	case tasksLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.outline.SetForest(msg.forest)
			if m.selectAfterLoad != "" {
				m.outline.SelectByID(m.selectAfterLoad)
				m.selectAfterLoad = ""
			}
		}

	case taskMutatedMsg:
		if msg.err != nil {
			m.notify(Error.Render(msg.err.Error()), 5*time.Second)
		}
		return m, m.loadTasks()

	case dbChangeMsg:
		// Reload and keep waiting for further changes
		return m, tea.Batch(m.loadTasks(), m.waitForDBChange())
	}

	return m, nil
}

// updateOutline handles keys on the main list.
func (m *Model) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Dragging() {
		return m.updateGrab(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.outline.MoveUp()

	case key.Matches(msg, m.keys.Down):
		m.outline.MoveDown()

	case key.Matches(msg, m.keys.Collapse):
		m.outline.Collapse()

	case key.Matches(msg, m.keys.Expand):
		m.outline.Expand()

	case key.Matches(msg, m.keys.New):
		return m.showNewTask(nil)

	case key.Matches(msg, m.keys.NewSubtask):
		if row := m.outline.CursorRow(); row != nil {
			id := row.Task.ID
			// Children must be visible for the new subtask to appear.
			m.outline.Expand()
			return m.showNewTask(&id)
		}

	case key.Matches(msg, m.keys.Complete):
		if row := m.outline.CursorRow(); row != nil {
			return m, m.completeTask(row.Task.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if row := m.outline.CursorRow(); row != nil {
			return m.showDeleteConfirm(row.Task)
		}

	case key.Matches(msg, m.keys.Grab):
		if row := m.outline.CursorRow(); row != nil {
			m.session.Start(row.Task.ID)
			m.grabZone = dnd.ModeNone
			m.grabRoot = false
		}

	case key.Matches(msg, m.keys.Enter):
		if row := m.outline.CursorRow(); row != nil {
			return m.showDetail(row.Task)
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// updateGrab handles keys while a task is grabbed. Cursor movement
// hovers the grabbed task over other rows; the session resolves each
// hover into a drop indicator.
func (m *Model) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.outline.MoveUp()
		m.grabZone = dnd.ModeBefore
		m.grabRoot = false
		m.sendOver()

	case key.Matches(msg, m.keys.Down):
		m.outline.MoveDown()
		m.grabZone = dnd.ModeAfter
		m.grabRoot = false
		m.sendOver()

	case key.Matches(msg, m.keys.Nest):
		m.grabZone = dnd.ModeChild
		m.grabRoot = false
		m.sendOver()

	case key.Matches(msg, m.keys.Root):
		m.grabRoot = true
		m.sendOver()

	case key.Matches(msg, m.keys.Grab), key.Matches(msg, m.keys.Enter):
		m.pendingMove = nil
		m.session.End(m.outline.Forest())
		m.grabRoot = false
		if mv := m.pendingMove; mv != nil {
			m.pendingMove = nil
			m.selectAfterLoad = mv.TaskID
			return m, m.moveTask(*mv)
		}

	case key.Matches(msg, m.keys.Back):
		m.session.Cancel()
		m.grabRoot = false
	}

	return m, nil
}

// sendOver synthesizes a hover event for the current grab target.
func (m *Model) sendOver() {
	if m.grabRoot {
		m.session.Over(m.outline.Forest(), dnd.OverEvent{OverID: dnd.RootZone})
		return
	}

	row := m.outline.CursorRow()
	if row == nil {
		return
	}

	y := grabYChild
	switch m.grabZone {
	case dnd.ModeBefore:
		y = grabYBefore
	case dnd.ModeAfter:
		y = grabYAfter
	}

	m.session.Over(m.outline.Forest(), dnd.OverEvent{
		OverID:   row.Task.ID,
		ParentID: row.ParentID,
		Rect:     dnd.Rect{Top: 0, Height: grabRowHeight},
		PointerY: y,
	})
}

// updateDetail handles keys on the detail view.
func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Enter):
		m.currentView = ViewOutline
		m.detailTask = nil
		m.detailBody = ""
	}
	return m, nil
}

// showNewTask opens the new-task input, optionally under a parent.
func (m *Model) showNewTask(parentID *string) (tea.Model, tea.Cmd) {
	m.newParentID = parentID
	m.titleInput.SetValue("")
	m.whenInput.SetValue("")
	m.inputFocus = 0
	m.whenInput.Blur()
	m.currentView = ViewNewTask
	return m, m.titleInput.Focus()
}

// updateNewTask handles the new-task form.
func (m *Model) updateNewTask(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "esc":
		m.currentView = ViewOutline
		return m, nil

	case "tab", "shift+tab":
		if m.inputFocus == 0 {
			m.inputFocus = 1
			m.titleInput.Blur()
			return m, m.whenInput.Focus()
		}
		m.inputFocus = 0
		m.whenInput.Blur()
		return m, m.titleInput.Focus()

	case "enter":
		if m.inputFocus == 0 {
			m.inputFocus = 1
			m.titleInput.Blur()
			return m, m.whenInput.Focus()
		}

		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.currentView = ViewOutline
			return m, nil
		}
		parentID := m.newParentID
		raw := strings.TrimSpace(m.whenInput.Value())
		m.currentView = ViewOutline
		return m, m.createTask(title, parentID, raw)
	}

	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.inputFocus == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.whenInput, cmd = m.whenInput.Update(msg)
	}
	return m, cmd
}

// showDetail opens the detail view for a task.
func (m *Model) showDetail(t *task.Task) (tea.Model, tea.Cmd) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	fmt.Fprintf(&b, "- id: `%s`\n", t.ID)
	if t.Due != nil {
		fmt.Fprintf(&b, "- due: %s\n", t.Due)
	}
	if t.Every > 0 {
		fmt.Fprintf(&b, "- repeats: every %d day(s)\n", t.Every)
	}
	fmt.Fprintf(&b, "- created: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	if len(t.Children) > 0 {
		fmt.Fprintf(&b, "- subtasks: %d\n", len(t.Children))
	}

	rendered, err := glamour.Render(b.String(), "dark")
	if err != nil {
		rendered = b.String()
	}

	m.detailTask = t
	m.detailBody = rendered
	m.currentView = ViewDetail
	return m, nil
}

// showDeleteConfirm opens the delete confirmation modal.
func (m *Model) showDeleteConfirm(t *task.Task) (tea.Model, tea.Cmd) {
	m.pendingDeleteTask = t
	m.deleteConfirmValue = false
	modalWidth := min(50, m.width-8)
	description := t.Title
	if t.HasChildren() {
		description = fmt.Sprintf("%s (and %d subtask(s))", t.Title, len(t.Children))
	}
	m.deleteConfirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("delete").
				Title(fmt.Sprintf("Delete task %s?", task.ShortID(t.ID))).
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.deleteConfirmValue),
		),
	).WithTheme(huh.ThemeDracula()).
		WithWidth(modalWidth - 6).
		WithShowHelp(true)
	m.currentView = ViewDeleteConfirm
	return m, m.deleteConfirm.Init()
}

func (m *Model) updateDeleteConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle escape to cancel
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" {
			m.currentView = ViewOutline
			m.deleteConfirm = nil
			m.pendingDeleteTask = nil
			return m, nil
		}
	}

	// Update the huh form
	form, cmd := m.deleteConfirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.deleteConfirm = f
	}

	// Check if form completed
	if m.deleteConfirm.State == huh.StateCompleted {
		if m.pendingDeleteTask != nil && m.deleteConfirmValue {
			taskID := m.pendingDeleteTask.ID
			title := m.pendingDeleteTask.Title
			m.pendingDeleteTask = nil
			m.deleteConfirm = nil
			m.currentView = ViewOutline
			return m, m.deleteTask(taskID, title)
		}
		// Cancelled
		m.pendingDeleteTask = nil
		m.deleteConfirm = nil
		m.currentView = ViewOutline
		return m, nil
	}

	return m, cmd
}

// notify shows a transient banner.
func (m *Model) notify(text string, d time.Duration) {
	m.notification = text
	m.notifyUntil = time.Now().Add(d)
}

// View renders the model.
func (m *Model) View() string {
	// Wait for window size
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, "Loading tasks...")
	}

	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, fmt.Sprintf("Error: %s", m.err))
	}

	switch m.currentView {
	case ViewOutline:
		return m.viewOutline()
	case ViewNewTask:
		return m.viewNewTask()
	case ViewDetail:
		return m.detailBody
	case ViewDeleteConfirm:
		return m.viewDeleteConfirm()
	}

	return ""
}

func (m *Model) viewOutline() string {
	header := Header.Render("mdo")

	var bannerParts []string
	if m.notification != "" && time.Now().Before(m.notifyUntil) {
		bannerParts = append(bannerParts, m.notification)
	} else {
		m.notification = ""
	}
	if m.session.Dragging() {
		bannerParts = append(bannerParts, Warning.Render("moving: ↑/↓ place, tab nest, 0 top level, space drop, esc cancel"))
	}

	body := m.outline.Render(m.session.DraggedID(), m.session.Indicator())
	helpView := HelpBar.Render(m.help.View(m.keys))

	parts := []string{header}
	parts = append(parts, bannerParts...)
	parts = append(parts, body, helpView)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewNewTask() string {
	title := "New Task"
	if m.newParentID != nil {
		title = "New Subtask"
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1).
		Render(title)

	form := lipgloss.JoinVertical(lipgloss.Left,
		m.titleInput.View(),
		m.whenInput.View(),
		"",
		Dim.Render("enter submit  tab next field  esc cancel"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, form))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) viewDeleteConfirm() string {
	if m.deleteConfirm == nil {
		return ""
	}

	// Modal header with warning icon
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorError).
		MarginBottom(1).
		Render("Confirm Delete")

	formView := m.deleteConfirm.View()

	// Modal box with border
	modalWidth := min(50, m.width-8)
	modalBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(1, 2).
		Width(modalWidth)

	modalContent := modalBox.Render(lipgloss.JoinVertical(lipgloss.Center, header, formView))

	// Center the modal on screen
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(modalContent)
}

// Messages
type tasksLoadedMsg struct {
	forest []*task.Task
	err    error
}

type taskMutatedMsg struct {
	err error
}

type dbChangeMsg struct{}

func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		forest, err := m.db.ListForest()
		return tasksLoadedMsg{forest: forest, err: err}
	}
}

func (m *Model) createTask(title string, parentID *string, rawWhen string) tea.Cmd {
	database := m.db
	emitter := m.emitter
	return func() tea.Msg {
		opts := db.CreateOptions{ParentID: parentID}
		if rawWhen != "" {
			opts.Due, opts.Every = when.Parse(rawWhen, when.Today())
		}
		created, err := database.CreateTask(title, opts)
		if err == nil && emitter != nil {
			emitter.EmitTaskCreated(created)
		}
		return taskMutatedMsg{err: err}
	}
}

func (m *Model) moveTask(mv dnd.Move) tea.Cmd {
	database := m.db
	emitter := m.emitter
	return func() tea.Msg {
		_, err := database.MoveTask(mv.TaskID, mv.ParentID, mv.Index)
		if err == nil && emitter != nil {
			if moved, gerr := database.GetTask(mv.TaskID); gerr == nil && moved != nil {
				emitter.EmitTaskMoved(moved, mv.ParentID, mv.Index)
			}
		}
		return taskMutatedMsg{err: err}
	}
}

func (m *Model) completeTask(id string) tea.Cmd {
	database := m.db
	emitter := m.emitter
	return func() tea.Msg {
		done, rescheduled, err := database.CompleteTask(id)
		if err == nil && emitter != nil {
			emitter.EmitTaskCompleted(done, rescheduled)
		}
		return taskMutatedMsg{err: err}
	}
}

func (m *Model) deleteTask(id, title string) tea.Cmd {
	database := m.db
	emitter := m.emitter
	return func() tea.Msg {
		err := database.DeleteTask(id)
		if err == nil && emitter != nil {
			emitter.EmitTaskDeleted(id, title)
		}
		return taskMutatedMsg{err: err}
	}
}

// startDatabaseWatcher starts watching the database file for changes.
func (m *Model) startDatabaseWatcher() {
	if m.watcher == nil {
		return
	}

	dbPath := m.db.Path()
	if dbPath == "" {
		return
	}

	// Watch both the main database file and the WAL file (SQLite WAL mode)
	m.watcher.Add(dbPath)
	m.watcher.Add(dbPath + "-wal")

	// Start goroutine to forward fsnotify events to the channel
	go func() {
		for {
			select {
			case event, ok := <-m.watcher.Events:
				if !ok {
					return
				}
				// Only trigger on write events
				if event.Op&fsnotify.Write == fsnotify.Write {
					// Non-blocking send to debounce rapid changes
					select {
					case m.dbChangeCh <- struct{}{}:
					default:
					}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return
				}
				// Ignore errors, just keep watching
			}
		}
	}()
}

// waitForDBChange returns a command that waits for database file changes.
func (m *Model) waitForDBChange() tea.Cmd {
	return func() tea.Msg {
		_, ok := <-m.dbChangeCh
		if !ok {
			return nil
		}
		return dbChangeMsg{}
	}
}

// stopDatabaseWatcher stops the file watcher.
func (m *Model) stopDatabaseWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	if m.dbChangeCh != nil {
		close(m.dbChangeCh)
	}
}
