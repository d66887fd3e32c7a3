package dnd

import (
	"testing"

	"github.com/MarisaKirisame/mdo/internal/task"
)

func overRow(id string, parentID *string, band Mode) OverEvent {
	rect := Rect{Top: 0, Height: 40}
	y := 20.0 // child band
	switch band {
	case ModeBefore:
		y = 5
	case ModeAfter:
		y = 35
	}
	return OverEvent{OverID: id, ParentID: parentID, Rect: rect, PointerY: y}
}

func TestSessionLifecycle(t *testing.T) {
	forest := fixture()
	var applied []Move
	s := NewSession(func(mv Move) { applied = append(applied, mv) })

	if s.State() != StateIdle {
		t.Fatal("expected new session to be idle")
	}

	s.Start("b")
	if !s.Dragging() || s.DraggedID() != "b" {
		t.Fatal("expected dragging b")
	}

	s.Over(forest, overRow("a", nil, ModeChild))
	if got := s.Indicator(); got.Mode != ModeChild || got.TargetID != "a" {
		t.Fatalf("expected child indicator on a, got %s %q", got.Mode, got.TargetID)
	}

	s.End(forest)
	if s.State() != StateIdle || s.DraggedID() != "" || s.Indicator().Active() {
		t.Error("expected all state cleared after end")
	}
	if len(applied) != 1 {
		t.Fatalf("expected exactly one applied move, got %d", len(applied))
	}
	mv := applied[0]
	if mv.TaskID != "b" || mv.ParentID == nil || *mv.ParentID != "a" || mv.Index != 2 {
		t.Errorf("expected b -> (a, 2), got %s -> (%v, %d)", mv.TaskID, mv.ParentID, mv.Index)
	}
}

func TestSessionOverReplacesIndicator(t *testing.T) {
	forest := fixture()
	s := NewSession(nil)
	s.Start("b")

	s.Over(forest, overRow("a", nil, ModeBefore))
	if s.Indicator().Mode != ModeBefore {
		t.Fatal("expected before indicator")
	}

	// Hovering the dragged task itself clears the indicator but stays
	// in the drag.
	s.Over(forest, overRow("b", nil, ModeChild))
	if s.Indicator().Active() {
		t.Error("expected indicator cleared")
	}
	if !s.Dragging() {
		t.Error("expected drag still active")
	}
}

func TestSessionEndWithoutIndicator(t *testing.T) {
	forest := fixture()
	applied := 0
	s := NewSession(func(Move) { applied++ })

	s.Start("b")
	s.End(forest)
	if applied != 0 {
		t.Error("expected no move without an indicator")
	}
	if s.State() != StateIdle {
		t.Error("expected idle after end")
	}
}

func TestSessionEndNoOpDrop(t *testing.T) {
	forest := siblingsFixture()
	applied := 0
	s := NewSession(func(Move) { applied++ })

	// Dropping c1 right before its next sibling leaves it in place.
	s.Start("c1")
	s.Over(forest, overRow("c2", ptr("p"), ModeBefore))
	s.End(forest)
	if applied != 0 {
		t.Error("expected no-op drop to apply nothing")
	}
}

func TestSessionCancelClearsState(t *testing.T) {
	forest := fixture()
	applied := 0
	s := NewSession(func(Move) { applied++ })

	s.Start("b")
	s.Over(forest, overRow("a", nil, ModeChild))
	s.Cancel()

	if s.State() != StateIdle || s.DraggedID() != "" || s.Indicator().Active() {
		t.Error("expected cancel to clear everything")
	}
	if applied != 0 {
		t.Error("expected cancel to plan nothing")
	}

	// Events after cancel, with no new start, fall on the floor.
	s.Over(forest, overRow("a", nil, ModeChild))
	if s.Indicator().Active() {
		t.Error("expected over after cancel to have no effect")
	}
	s.End(forest)
	if applied != 0 {
		t.Error("expected end after cancel to apply nothing")
	}
}

func TestSessionIgnoresNestedStart(t *testing.T) {
	s := NewSession(nil)
	s.Start("a")
	s.Start("b")
	if s.DraggedID() != "a" {
		t.Errorf("expected first drag to survive, got %q", s.DraggedID())
	}
}

func TestSessionEndOnlyOnce(t *testing.T) {
	forest := fixture()
	applied := 0
	s := NewSession(func(Move) { applied++ })

	s.Start("a")
	s.Over(forest, overRow("b", nil, ModeAfter))
	s.End(forest)
	s.End(forest)
	if applied != 1 {
		t.Errorf("expected exactly one apply, got %d", applied)
	}
}

func TestSessionRootZoneDrop(t *testing.T) {
	forest := fixture()
	var applied []Move
	s := NewSession(func(mv Move) { applied = append(applied, mv) })

	s.Start("a")
	s.Over(forest, OverEvent{OverID: RootZone})
	s.End(forest)

	if len(applied) != 1 {
		t.Fatalf("expected one move, got %d", len(applied))
	}
	if applied[0].ParentID != nil || applied[0].Index != 2 {
		t.Errorf("expected (nil, 2), got (%v, %d)", applied[0].ParentID, applied[0].Index)
	}
}
