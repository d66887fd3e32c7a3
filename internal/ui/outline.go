package ui

import (
	"fmt"
	"strings"

	"github.com/MarisaKirisame/mdo/internal/dnd"
	"github.com/MarisaKirisame/mdo/internal/task"
	"github.com/MarisaKirisame/mdo/internal/tree"
	"github.com/MarisaKirisame/mdo/internal/when"
)

// Outline renders the task forest as an indented list with a cursor,
// collapse state, and drop indicators during a grab.
type Outline struct {
	forest    []*task.Task
	rows      []tree.Row
	collapsed map[string]bool
	cursor    int
	offset    int
	width     int
	height    int
}

// NewOutline creates an empty outline.
func NewOutline(width, height int) *Outline {
	return &Outline{
		collapsed: make(map[string]bool),
		width:     width,
		height:    height,
	}
}

// SetSize updates the viewport dimensions.
func (o *Outline) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.ensureVisible()
}

// SetForest replaces the tree and rebuilds the visible rows.
func (o *Outline) SetForest(forest []*task.Task) {
	o.forest = forest
	o.rebuild()
}

// Forest returns the current tree snapshot.
func (o *Outline) Forest() []*task.Task {
	return o.forest
}

// Rows returns the visible rows in render order.
func (o *Outline) Rows() []tree.Row {
	return o.rows
}

// rebuild recomputes visible rows, skipping children of collapsed tasks.
func (o *Outline) rebuild() {
	o.rows = o.rows[:0]
	var walk func(nodes []*task.Task, parentID *string, depth int)
	walk = func(nodes []*task.Task, parentID *string, depth int) {
		for _, t := range nodes {
			o.rows = append(o.rows, tree.Row{Task: t, Depth: depth, ParentID: parentID})
			if len(t.Children) > 0 && !o.collapsed[t.ID] {
				id := t.ID
				walk(t.Children, &id, depth+1)
			}
		}
	}
	walk(o.forest, nil, 0)

	if o.cursor >= len(o.rows) {
		o.cursor = len(o.rows) - 1
	}
	if o.cursor < 0 {
		o.cursor = 0
	}
	o.ensureVisible()
}

// Cursor returns the cursor row index.
func (o *Outline) Cursor() int {
	return o.cursor
}

// SetCursor moves the cursor to the given row, clamped to the list.
func (o *Outline) SetCursor(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(o.rows) {
		i = len(o.rows) - 1
	}
	o.cursor = i
	o.ensureVisible()
}

// CursorRow returns the row under the cursor, or nil for an empty list.
func (o *Outline) CursorRow() *tree.Row {
	if o.cursor < 0 || o.cursor >= len(o.rows) {
		return nil
	}
	return &o.rows[o.cursor]
}

// MoveUp moves the cursor one row up.
func (o *Outline) MoveUp() {
	o.SetCursor(o.cursor - 1)
}

// MoveDown moves the cursor one row down.
func (o *Outline) MoveDown() {
	o.SetCursor(o.cursor + 1)
}

// IndexOf returns the visible row index of a task id, or -1.
func (o *Outline) IndexOf(id string) int {
	for i, row := range o.rows {
		if row.Task.ID == id {
			return i
		}
	}
	return -1
}

// SelectByID moves the cursor onto the given task if it is visible.
func (o *Outline) SelectByID(id string) {
	if i := o.IndexOf(id); i >= 0 {
		o.SetCursor(i)
	}
}

// Collapse hides the cursor task's children. When the task has no
// children the cursor jumps to its parent instead.
func (o *Outline) Collapse() {
	row := o.CursorRow()
	if row == nil {
		return
	}
	if row.Task.HasChildren() && !o.collapsed[row.Task.ID] {
		o.collapsed[row.Task.ID] = true
		o.rebuild()
		return
	}
	if row.ParentID != nil {
		o.SelectByID(*row.ParentID)
	}
}

// Expand reveals the cursor task's children.
func (o *Outline) Expand() {
	row := o.CursorRow()
	if row == nil {
		return
	}
	if o.collapsed[row.Task.ID] {
		delete(o.collapsed, row.Task.ID)
		o.rebuild()
	}
}

// IsCollapsed reports whether a task's children are hidden.
func (o *Outline) IsCollapsed(id string) bool {
	return o.collapsed[id]
}

func (o *Outline) ensureVisible() {
	if o.height <= 0 {
		return
	}
	if o.cursor < o.offset {
		o.offset = o.cursor
	}
	if o.cursor >= o.offset+o.height {
		o.offset = o.cursor - o.height + 1
	}
	if o.offset < 0 {
		o.offset = 0
	}
}

// marker returns the branch/leaf marker for a row.
func (o *Outline) marker(row tree.Row) string {
	if row.Task.HasChildren() {
		if o.collapsed[row.Task.ID] {
			return IconCollapsed()
		}
		return IconExpanded()
	}
	return IconBullet()
}

// dueLabel renders a task's due date colored by urgency.
func dueLabel(t *task.Task, today when.Date) string {
	if t.Due == nil {
		return ""
	}
	label := t.Due.String()
	if t.Every > 0 {
		label = fmt.Sprintf("%s %s%dd", label, IconRepeat(), t.Every)
	}
	switch {
	case t.Due.Before(today):
		return Error.Render(label)
	case *t.Due == today:
		return Warning.Render(label)
	default:
		return Dim.Render(label)
	}
}

// renderRow renders one task row with indent, marker, title and due date.
func (o *Outline) renderRow(i int, grabbedID string, ind dnd.Indicator, today when.Date) string {
	row := o.rows[i]
	indent := strings.Repeat("  ", row.Depth)

	label := fmt.Sprintf("%s%s %s", indent, o.marker(row), row.Task.Title)
	if due := dueLabel(row.Task, today); due != "" {
		label += "  " + due
	}

	switch {
	case row.Task.ID == grabbedID:
		return GrabbedListItem.Render(IconGrabbed() + " " + label)
	case ind.Mode == dnd.ModeChild && ind.TargetID == row.Task.ID:
		return DropTarget.Render(ListItem.Render(label))
	case grabbedID == "" && i == o.cursor:
		return SelectedListItem.Render(label)
	default:
		return ListItem.Render(label)
	}
}

// Render draws the outline. During a grab, grabbedID marks the dragged
// task and ind places the drop indicator.
func (o *Outline) Render(grabbedID string, ind dnd.Indicator) string {
	if len(o.rows) == 0 {
		return Dim.Render("  No tasks. Press n to add one.")
	}

	today := when.Today()
	targetIdx := -1
	if ind.Mode == dnd.ModeBefore || ind.Mode == dnd.ModeAfter {
		targetIdx = o.IndexOf(ind.TargetID)
	}

	var lines []string
	for i := range o.rows {
		if ind.Mode == dnd.ModeBefore && i == targetIdx {
			lines = append(lines, o.dropLine(o.rows[i].Depth))
		}
		lines = append(lines, o.renderRow(i, grabbedID, ind, today))
		if ind.Mode == dnd.ModeAfter && i == targetIdx {
			lines = append(lines, o.dropLine(o.rows[i].Depth))
		}
	}

	// Root zone appears while dragging so top-level drops have a target.
	if grabbedID != "" {
		zone := Dim.Render(fmt.Sprintf("  %s top level", IconDrop()))
		if ind.Mode == dnd.ModeRoot {
			zone = DropLine.Render(fmt.Sprintf("  %s top level", IconDrop()))
		}
		lines = append(lines, zone)
	}

	// Window the lines by scroll offset.
	start := o.offset
	if start > len(lines) {
		start = len(lines)
	}
	end := len(lines)
	if o.height > 0 && start+o.height < end {
		end = start + o.height
	}

	return strings.Join(lines[start:end], "\n")
}

// dropLine renders an insertion indicator at the given depth.
func (o *Outline) dropLine(depth int) string {
	indent := strings.Repeat("  ", depth)
	width := o.width - len(indent) - 6
	if width < 4 {
		width = 4
	}
	return DropLine.Render(fmt.Sprintf(" %s%s%s", indent, IconDrop(), strings.Repeat(Icon("─", "-"), width)))
}
