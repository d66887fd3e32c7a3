// Package tree provides read-only queries over a task forest snapshot.
//
// All functions are pure: they walk the snapshot they are given and never
// modify it. Results are only valid for that snapshot; callers must not
// cache them across mutations.
package tree

import (
	"github.com/MarisaKirisame/mdo/internal/task"
)

// maxDepth bounds traversals so a corrupted snapshot cannot loop forever.
const maxDepth = 10000

// Location describes where a task sits in the forest.
type Location struct {
	Task   *task.Task
	Parent *task.Task // nil when the task is top-level
	Index  int        // index among its current siblings
	Depth  int        // 0 for top-level tasks
}

// ParentID returns the located task's parent id, nil at the root.
func (l Location) ParentID() *string {
	if l.Parent == nil {
		return nil
	}
	return &l.Parent.ID
}

// Locate finds a task by id, depth-first. Ids are unique in a well-formed
// forest, so the first match is the only one.
func Locate(forest []*task.Task, id string) (Location, bool) {
	return locate(forest, nil, id, 0)
}

func locate(siblings []*task.Task, parent *task.Task, id string, depth int) (Location, bool) {
	if depth > maxDepth {
		return Location{}, false
	}
	for i, t := range siblings {
		if t.ID == id {
			return Location{Task: t, Parent: parent, Index: i, Depth: depth}, true
		}
		if loc, ok := locate(t.Children, t, id, depth+1); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// ChildrenOf returns the ordered sibling list under parentID. A nil
// parentID means the top level, which is the forest itself. An unknown
// parent yields an empty list.
func ChildrenOf(forest []*task.Task, parentID *string) []*task.Task {
	if parentID == nil {
		return forest
	}
	loc, ok := Locate(forest, *parentID)
	if !ok {
		return nil
	}
	return loc.Task.Children
}

// IsDescendant reports whether candidateID appears strictly inside the
// subtree rooted at ancestorID. Only id equality matters. An unknown
// ancestor yields false. A visited set guards against snapshots that
// violate the no-cycle invariant.
func IsDescendant(forest []*task.Task, ancestorID, candidateID string) bool {
	loc, ok := Locate(forest, ancestorID)
	if !ok {
		return false
	}
	visited := map[string]bool{ancestorID: true}
	frontier := make([]*task.Task, 0, len(loc.Task.Children))
	frontier = append(frontier, loc.Task.Children...)
	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if visited[current.ID] {
			continue
		}
		if current.ID == candidateID {
			return true
		}
		visited[current.ID] = true
		frontier = append(frontier, current.Children...)
	}
	return false
}

// Row is one rendered line of the forest: the task, its indentation
// depth, and the parent id the row was rendered under. Renderers attach
// the parent id to each row so sibling-insertion intents can be resolved
// without re-walking the tree.
type Row struct {
	Task     *task.Task
	Depth    int
	ParentID *string
}

// Flatten lists the forest depth-first in display order, recomputing
// every row's declared parent from the snapshot.
func Flatten(forest []*task.Task) []Row {
	var rows []Row
	flatten(forest, nil, 0, &rows)
	return rows
}

func flatten(siblings []*task.Task, parentID *string, depth int, out *[]Row) {
	if depth > maxDepth {
		return
	}
	for _, t := range siblings {
		*out = append(*out, Row{Task: t, Depth: depth, ParentID: parentID})
		flatten(t.Children, &t.ID, depth+1, out)
	}
}
