package dnd

import (
	"testing"

	"github.com/MarisaKirisame/mdo/internal/task"
)

func node(id string, children ...*task.Task) *task.Task {
	return &task.Task{ID: id, Title: "task " + id, Children: children}
}

func ptr(s string) *string {
	return &s
}

// fixture returns:
//
//	a
//	  a1
//	    a1x
//	  a2
//	b
func fixture() []*task.Task {
	return []*task.Task{
		node("a", node("a1", node("a1x")), node("a2")),
		node("b"),
	}
}

func TestResolveTrisection(t *testing.T) {
	forest := fixture()
	// Row from y=100 to y=140: thresholds at 110 and 130.
	rect := Rect{Top: 100, Height: 40}

	tests := []struct {
		name     string
		pointerY float64
		want     Mode
	}{
		{name: "well above threshold", pointerY: 101, want: ModeBefore},
		{name: "exactly at top threshold", pointerY: 110, want: ModeBefore},
		{name: "just below top threshold", pointerY: 110.5, want: ModeChild},
		{name: "center", pointerY: 120, want: ModeChild},
		{name: "just above bottom threshold", pointerY: 129.5, want: ModeChild},
		{name: "exactly at bottom threshold", pointerY: 130, want: ModeAfter},
		{name: "well below threshold", pointerY: 139, want: ModeAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(forest, "b", OverEvent{
				OverID:   "a",
				ParentID: nil,
				Rect:     rect,
				PointerY: tt.pointerY,
			})
			if got.Mode != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Mode)
			}
			if got.TargetID != "a" {
				t.Errorf("expected target a, got %q", got.TargetID)
			}
		})
	}
}

func TestResolveRootZone(t *testing.T) {
	got := Resolve(fixture(), "b", OverEvent{OverID: RootZone, PointerY: 500})
	if got.Mode != ModeRoot {
		t.Errorf("expected root, got %s", got.Mode)
	}
	if got.TargetID != "" {
		t.Errorf("expected no target for root drop, got %q", got.TargetID)
	}
}

func TestResolveOverSelf(t *testing.T) {
	got := Resolve(fixture(), "a", OverEvent{OverID: "a", Rect: Rect{Top: 0, Height: 40}, PointerY: 20})
	if got.Active() {
		t.Errorf("expected no indicator over self, got %s", got.Mode)
	}
}

func TestResolveMissingTarget(t *testing.T) {
	got := Resolve(fixture(), "a", OverEvent{OverID: "", PointerY: 20})
	if got.Active() {
		t.Errorf("expected no indicator for unknown row, got %s", got.Mode)
	}
}

func TestResolveOverOwnDescendant(t *testing.T) {
	forest := fixture()
	for _, overID := range []string{"a1", "a1x"} {
		got := Resolve(forest, "a", OverEvent{
			OverID:   overID,
			ParentID: ptr("a"),
			Rect:     Rect{Top: 0, Height: 40},
			PointerY: 20,
		})
		if got.Active() {
			t.Errorf("expected no indicator over descendant %s, got %s", overID, got.Mode)
		}
	}
}

func TestResolvePropagatesDeclaredParent(t *testing.T) {
	// The declared parent rides along untouched; the resolver never
	// recomputes it from the tree.
	got := Resolve(fixture(), "b", OverEvent{
		OverID:   "a2",
		ParentID: ptr("a"),
		Rect:     Rect{Top: 0, Height: 40},
		PointerY: 20,
	})
	if got.Mode != ModeChild {
		t.Fatalf("expected child, got %s", got.Mode)
	}
	if got.ParentID == nil || *got.ParentID != "a" {
		t.Error("expected declared parent a to propagate")
	}
}

func TestResolveReplacesWholesale(t *testing.T) {
	forest := fixture()
	rect := Rect{Top: 0, Height: 40}

	first := Resolve(forest, "b", OverEvent{OverID: "a", Rect: rect, PointerY: 5})
	if first.Mode != ModeBefore {
		t.Fatalf("expected before, got %s", first.Mode)
	}
	second := Resolve(forest, "b", OverEvent{OverID: "b", Rect: rect, PointerY: 5})
	if second.Active() {
		t.Errorf("expected cleared indicator, got %s", second.Mode)
	}
	if second.TargetID != "" || second.ParentID != nil {
		t.Error("expected no stale target data after clearing")
	}
}
