package dnd

import (
	"github.com/MarisaKirisame/mdo/internal/task"
	"github.com/MarisaKirisame/mdo/internal/tree"
)

// Move is the flat mutation a successful drop produces. A nil ParentID
// targets the top level.
type Move struct {
	TaskID   string
	ParentID *string
	Index    int
}

// Plan converts the final indicator into a concrete move against the
// snapshot. The second return is false when nothing should happen:
// no intent, a target that vanished since the hover, an illegal
// re-parent, or a move that lands the task exactly where it already is.
func Plan(forest []*task.Task, draggedID string, ind Indicator) (Move, bool) {
	switch ind.Mode {
	case ModeRoot:
		return planRoot(forest, draggedID)
	case ModeChild:
		return planChild(forest, draggedID, ind.TargetID)
	case ModeBefore, ModeAfter:
		return planSibling(forest, draggedID, ind)
	default:
		return Move{}, false
	}
}

// planRoot appends the dragged task to the top level.
func planRoot(forest []*task.Task, draggedID string) (Move, bool) {
	loc, ok := tree.Locate(forest, draggedID)
	if !ok {
		return Move{}, false
	}
	if loc.Parent == nil && loc.Index == len(forest)-1 {
		return Move{}, false
	}
	return Move{TaskID: draggedID, ParentID: nil, Index: len(forest)}, true
}

// planChild appends the dragged task to the target's children. The
// descendant check runs again here: the tree may have changed between
// hover and drop.
func planChild(forest []*task.Task, draggedID, targetID string) (Move, bool) {
	if targetID == draggedID {
		return Move{}, false
	}
	if tree.IsDescendant(forest, draggedID, targetID) {
		return Move{}, false
	}
	targetLoc, ok := tree.Locate(forest, targetID)
	if !ok {
		return Move{}, false
	}
	cur, ok := tree.Locate(forest, draggedID)
	if !ok {
		return Move{}, false
	}
	index := len(targetLoc.Task.Children)
	parentID := targetID
	if task.SameParent(cur.ParentID(), &parentID) && cur.Index == index {
		return Move{}, false
	}
	return Move{TaskID: draggedID, ParentID: &parentID, Index: index}, true
}

// planSibling inserts the dragged task before or after the target within
// the target row's declared sibling list. When the dragged task already
// lives in that list, the insertion index is adjusted for its own
// removal before the no-op comparison.
func planSibling(forest []*task.Task, draggedID string, ind Indicator) (Move, bool) {
	siblings := tree.ChildrenOf(forest, ind.ParentID)
	targetIndex := -1
	for i, s := range siblings {
		if s.ID == ind.TargetID {
			targetIndex = i
			break
		}
	}
	if targetIndex < 0 {
		return Move{}, false
	}

	insert := targetIndex
	if ind.Mode == ModeAfter {
		insert++
	}

	cur, ok := tree.Locate(forest, draggedID)
	if !ok {
		return Move{}, false
	}
	if task.SameParent(cur.ParentID(), ind.ParentID) {
		if insert > cur.Index {
			insert--
		}
		if insert == cur.Index {
			return Move{}, false
		}
	}
	return Move{TaskID: draggedID, ParentID: ind.ParentID, Index: insert}, true
}
