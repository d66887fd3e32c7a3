// Package dnd turns drag gestures over the task forest into tree moves.
//
// The package is pure: it never touches storage or the network. A Session
// consumes hover events, Resolve classifies each one into a drop intent,
// and Plan converts the final intent into the flat (parent, index) move
// the store applies.
package dnd

import (
	"github.com/MarisaKirisame/mdo/internal/task"
	"github.com/MarisaKirisame/mdo/internal/tree"
)

// RootZone is the synthetic hover target for the root drop area below
// the last row. Task ids are hex strings, so it cannot collide.
const RootZone = "root"

// Mode classifies what a drop would do.
type Mode int

const (
	ModeNone Mode = iota
	ModeBefore
	ModeAfter
	ModeChild
	ModeRoot
)

func (m Mode) String() string {
	switch m {
	case ModeBefore:
		return "before"
	case ModeAfter:
		return "after"
	case ModeChild:
		return "child"
	case ModeRoot:
		return "root"
	default:
		return "none"
	}
}

// Rect is a hovered row's vertical extent, in whatever units the
// renderer measures (pixels, cells).
type Rect struct {
	Top    float64
	Height float64
}

// Bottom returns the rect's lower edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// OverEvent is one hover sample delivered by the drag-tracking layer.
// ParentID is the hovered row's declared parent, attached at render time.
type OverEvent struct {
	OverID   string // hovered task id, or RootZone; "" when unknown
	ParentID *string
	Rect     Rect
	PointerY float64 // vertical center of the dragged element
}

// Indicator is the resolved drop intent. The zero value means no valid
// drop. TargetID and ParentID are only set for Before/After/Child.
type Indicator struct {
	Mode     Mode
	TargetID string
	ParentID *string
}

// Active reports whether the indicator points at a valid drop.
func (i Indicator) Active() bool {
	return i.Mode != ModeNone
}

// Resolve classifies a hover sample against the forest snapshot.
//
// Hovering the top or bottom quarter of a row means insert as a sibling
// there; the middle half means nest inside. Hovering the dragged task
// itself or anything in its subtree resolves to nothing, as does a row
// with no usable identity.
func Resolve(forest []*task.Task, draggedID string, ev OverEvent) Indicator {
	if ev.OverID == RootZone {
		return Indicator{Mode: ModeRoot}
	}
	if ev.OverID == draggedID {
		return Indicator{}
	}
	if ev.OverID == "" {
		return Indicator{}
	}
	if tree.IsDescendant(forest, draggedID, ev.OverID) {
		return Indicator{}
	}

	topThreshold := ev.Rect.Top + ev.Rect.Height*0.25
	bottomThreshold := ev.Rect.Bottom() - ev.Rect.Height*0.25

	mode := ModeChild
	switch {
	case ev.PointerY <= topThreshold:
		mode = ModeBefore
	case ev.PointerY >= bottomThreshold:
		mode = ModeAfter
	}
	return Indicator{Mode: mode, TargetID: ev.OverID, ParentID: ev.ParentID}
}
