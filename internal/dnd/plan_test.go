package dnd

import (
	"testing"

	"github.com/MarisaKirisame/mdo/internal/task"
)

// siblings returns three children [c1 c2 c3] under p, plus lone top-level x.
func siblingsFixture() []*task.Task {
	return []*task.Task{
		node("p", node("c1"), node("c2"), node("c3")),
		node("x"),
	}
}

func TestPlanBeforeAcrossSiblings(t *testing.T) {
	// Dragging the last sibling before the first lands at index 0.
	forest := siblingsFixture()
	mv, ok := Plan(forest, "c3", Indicator{Mode: ModeBefore, TargetID: "c1", ParentID: ptr("p")})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID == nil || *mv.ParentID != "p" || mv.Index != 0 {
		t.Errorf("expected (p, 0), got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanAfterWithSelfRemovalAdjustment(t *testing.T) {
	// Dragging the first sibling after the second: raw index 2, minus
	// one for the dragged task's own former slot.
	forest := siblingsFixture()
	mv, ok := Plan(forest, "c1", Indicator{Mode: ModeAfter, TargetID: "c2", ParentID: ptr("p")})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID == nil || *mv.ParentID != "p" || mv.Index != 1 {
		t.Errorf("expected (p, 1), got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanSiblingNoOps(t *testing.T) {
	forest := siblingsFixture()
	tests := []struct {
		name    string
		dragged string
		ind     Indicator
	}{
		{name: "before next sibling", dragged: "c1", ind: Indicator{Mode: ModeBefore, TargetID: "c2", ParentID: ptr("p")}},
		{name: "after previous sibling", dragged: "c2", ind: Indicator{Mode: ModeAfter, TargetID: "c1", ParentID: ptr("p")}},
		{name: "before self", dragged: "c2", ind: Indicator{Mode: ModeBefore, TargetID: "c2", ParentID: ptr("p")}},
		{name: "after self", dragged: "c2", ind: Indicator{Mode: ModeAfter, TargetID: "c2", ParentID: ptr("p")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if mv, ok := Plan(forest, tt.dragged, tt.ind); ok {
				t.Errorf("expected no move, got (%v, %d)", mv.ParentID, mv.Index)
			}
		})
	}
}

func TestPlanBeforeAfterAtTopLevel(t *testing.T) {
	forest := []*task.Task{node("a"), node("b"), node("c")}

	mv, ok := Plan(forest, "c", Indicator{Mode: ModeBefore, TargetID: "a", ParentID: nil})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != nil || mv.Index != 0 {
		t.Errorf("expected (nil, 0), got (%v, %d)", mv.ParentID, mv.Index)
	}

	mv, ok = Plan(forest, "a", Indicator{Mode: ModeAfter, TargetID: "b", ParentID: nil})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != nil || mv.Index != 1 {
		t.Errorf("expected (nil, 1), got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanSiblingFromAnotherParent(t *testing.T) {
	// No self-removal adjustment when the dragged task lives elsewhere.
	forest := siblingsFixture()
	mv, ok := Plan(forest, "x", Indicator{Mode: ModeAfter, TargetID: "c1", ParentID: ptr("p")})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID == nil || *mv.ParentID != "p" || mv.Index != 1 {
		t.Errorf("expected (p, 1), got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanSiblingTargetVanished(t *testing.T) {
	// The hover recorded a target that has since left the declared
	// sibling list; the drop quietly aborts.
	forest := siblingsFixture()
	if _, ok := Plan(forest, "x", Indicator{Mode: ModeBefore, TargetID: "ghost", ParentID: ptr("p")}); ok {
		t.Error("expected abort for vanished target")
	}
	if _, ok := Plan(forest, "x", Indicator{Mode: ModeBefore, TargetID: "x", ParentID: ptr("p")}); ok {
		t.Error("expected abort for target under a different parent")
	}
}

func TestPlanRootAppend(t *testing.T) {
	forest := fixture() // a(a1(a1x), a2), b

	mv, ok := Plan(forest, "a", Indicator{Mode: ModeRoot})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != nil || mv.Index != 2 {
		t.Errorf("expected (nil, 2), got (%v, %d)", mv.ParentID, mv.Index)
	}

	// A nested task moves up to the root the same way.
	mv, ok = Plan(forest, "a1x", Indicator{Mode: ModeRoot})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID != nil || mv.Index != 2 {
		t.Errorf("expected (nil, 2), got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanRootAlreadyLast(t *testing.T) {
	forest := fixture()
	if mv, ok := Plan(forest, "b", Indicator{Mode: ModeRoot}); ok {
		t.Errorf("expected no move for last top-level task, got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanChildAppend(t *testing.T) {
	forest := fixture()

	mv, ok := Plan(forest, "b", Indicator{Mode: ModeChild, TargetID: "a", ParentID: nil})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID == nil || *mv.ParentID != "a" || mv.Index != 2 {
		t.Errorf("expected (a, 2), got (%v, %d)", mv.ParentID, mv.Index)
	}

	// Appending to a leaf starts its child list.
	mv, ok = Plan(forest, "b", Indicator{Mode: ModeChild, TargetID: "a2", ParentID: ptr("a")})
	if !ok {
		t.Fatal("expected a move")
	}
	if mv.ParentID == nil || *mv.ParentID != "a2" || mv.Index != 0 {
		t.Errorf("expected (a2, 0), got (%v, %d)", mv.ParentID, mv.Index)
	}
}

func TestPlanChildRejections(t *testing.T) {
	forest := fixture()
	tests := []struct {
		name    string
		dragged string
		target  string
	}{
		{name: "own child", dragged: "a", target: "a1"},
		{name: "deep descendant", dragged: "a", target: "a1x"},
		{name: "self", dragged: "a", target: "a"},
		{name: "vanished target", dragged: "b", target: "ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Plan(forest, tt.dragged, Indicator{Mode: ModeChild, TargetID: tt.target}); ok {
				t.Error("expected no move")
			}
		})
	}
}

func TestPlanNoneIndicator(t *testing.T) {
	if _, ok := Plan(fixture(), "b", Indicator{}); ok {
		t.Error("expected no move for empty indicator")
	}
}

func TestPlanDraggedVanished(t *testing.T) {
	forest := fixture()
	indicators := []Indicator{
		{Mode: ModeRoot},
		{Mode: ModeChild, TargetID: "a"},
		{Mode: ModeBefore, TargetID: "a", ParentID: nil},
	}
	for _, ind := range indicators {
		if _, ok := Plan(forest, "ghost", ind); ok {
			t.Errorf("expected abort for vanished dragged task, mode %s", ind.Mode)
		}
	}
}
