package ui

import (
	"strings"
	"testing"

	"github.com/MarisaKirisame/mdo/internal/dnd"
	"github.com/MarisaKirisame/mdo/internal/task"
)

func testForest() []*task.Task {
	parent := "aaaa"
	rows := []*task.Task{
		{ID: "aaaa", Title: "Plan trip", Position: 0},
		{ID: "aaa1", Title: "Book flights", ParentID: &parent, Position: 0},
		{ID: "aaa2", Title: "Pack bags", ParentID: &parent, Position: 1},
		{ID: "bbbb", Title: "Write report", Position: 1},
	}
	return task.BuildForest(rows)
}

func testOutline() *Outline {
	o := NewOutline(80, 24)
	o.SetForest(testForest())
	return o
}

func TestOutlineRows(t *testing.T) {
	o := testOutline()

	rows := o.Rows()
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	wantIDs := []string{"aaaa", "aaa1", "aaa2", "bbbb"}
	wantDepths := []int{0, 1, 1, 0}
	for i, row := range rows {
		if row.Task.ID != wantIDs[i] {
			t.Errorf("row %d: expected id %s, got %s", i, wantIDs[i], row.Task.ID)
		}
		if row.Depth != wantDepths[i] {
			t.Errorf("row %d: expected depth %d, got %d", i, wantDepths[i], row.Depth)
		}
	}

	if rows[0].ParentID != nil {
		t.Errorf("expected top-level row to have nil parent, got %v", *rows[0].ParentID)
	}
	if rows[1].ParentID == nil || *rows[1].ParentID != "aaaa" {
		t.Errorf("expected subtask row parent aaaa, got %v", rows[1].ParentID)
	}
}

func TestOutlineCollapseAndExpand(t *testing.T) {
	o := testOutline()

	o.Collapse()
	if !o.IsCollapsed("aaaa") {
		t.Error("expected aaaa to be collapsed")
	}
	if len(o.Rows()) != 2 {
		t.Fatalf("expected 2 visible rows after collapse, got %d", len(o.Rows()))
	}
	if o.Rows()[1].Task.ID != "bbbb" {
		t.Errorf("expected second row bbbb, got %s", o.Rows()[1].Task.ID)
	}

	o.Expand()
	if o.IsCollapsed("aaaa") {
		t.Error("expected aaaa to be expanded again")
	}
	if len(o.Rows()) != 4 {
		t.Errorf("expected 4 visible rows after expand, got %d", len(o.Rows()))
	}
}

func TestOutlineCollapseOnLeafJumpsToParent(t *testing.T) {
	o := testOutline()

	o.SelectByID("aaa2")
	if o.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", o.Cursor())
	}

	o.Collapse()
	if o.Cursor() != 0 {
		t.Errorf("expected cursor on parent row 0, got %d", o.Cursor())
	}
}

func TestOutlineCursorClamping(t *testing.T) {
	o := testOutline()

	o.MoveUp()
	if o.Cursor() != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", o.Cursor())
	}

	o.SetCursor(99)
	if o.Cursor() != 3 {
		t.Errorf("expected cursor clamped to 3, got %d", o.Cursor())
	}

	o.MoveDown()
	if o.Cursor() != 3 {
		t.Errorf("expected cursor to stay at 3, got %d", o.Cursor())
	}
}

func TestOutlineCursorClampedAfterShrink(t *testing.T) {
	o := testOutline()
	o.SetCursor(3)

	o.SetForest(task.BuildForest([]*task.Task{{ID: "solo", Title: "Only task"}}))
	if o.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", o.Cursor())
	}
}

func TestOutlineSelectByID(t *testing.T) {
	o := testOutline()

	o.SelectByID("bbbb")
	if o.Cursor() != 3 {
		t.Errorf("expected cursor 3, got %d", o.Cursor())
	}

	o.SelectByID("missing")
	if o.Cursor() != 3 {
		t.Errorf("expected cursor unchanged for unknown id, got %d", o.Cursor())
	}
}

func TestOutlineRenderEmpty(t *testing.T) {
	o := NewOutline(80, 24)
	o.SetForest(nil)

	out := o.Render("", dnd.Indicator{})
	if !strings.Contains(out, "No tasks") {
		t.Errorf("expected empty-state message, got %q", out)
	}
}

func TestOutlineRenderDropIndicator(t *testing.T) {
	o := testOutline()

	out := o.Render("aaaa", dnd.Indicator{Mode: dnd.ModeBefore, TargetID: "bbbb"})
	lines := strings.Split(out, "\n")

	// 4 rows + insertion line + root zone
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], IconDrop()) {
		t.Errorf("expected insertion line before target, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "Write report") {
		t.Errorf("expected target row after insertion line, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "top level") {
		t.Errorf("expected root zone line, got %q", lines[5])
	}
}

func TestOutlineRenderAfterIndicator(t *testing.T) {
	o := testOutline()

	out := o.Render("bbbb", dnd.Indicator{Mode: dnd.ModeAfter, TargetID: "aaa1"})
	lines := strings.Split(out, "\n")

	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Book flights") {
		t.Errorf("expected target row, got %q", lines[1])
	}
	if !strings.Contains(lines[2], IconDrop()) {
		t.Errorf("expected insertion line after target, got %q", lines[2])
	}
}

func TestOutlineRenderChildIndicator(t *testing.T) {
	o := testOutline()

	out := o.Render("aaaa", dnd.Indicator{Mode: dnd.ModeChild, TargetID: "bbbb"})
	lines := strings.Split(out, "\n")

	// Nesting highlights the target row, no insertion line
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "Write report") {
		t.Errorf("expected highlighted target row, got %q", lines[3])
	}
}

func TestOutlineRenderRootZoneOnlyWhileDragging(t *testing.T) {
	o := testOutline()

	if out := o.Render("", dnd.Indicator{}); strings.Contains(out, "top level") {
		t.Error("expected no root zone while idle")
	}
	if out := o.Render("aaaa", dnd.Indicator{}); !strings.Contains(out, "top level") {
		t.Error("expected root zone while dragging")
	}
}
