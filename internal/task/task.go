// Package task provides the core task model and forest utilities.
package task

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/MarisaKirisame/mdo/internal/when"
)

// Task is a node in the task forest. ParentID and Position describe the
// stored flat row; Children is populated by BuildForest.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ParentID  *string    `json:"parent_id"`
	Position  int        `json:"position"`
	CreatedAt UnixTime   `json:"created_at"`
	Due       *when.Date `json:"due,omitempty"`
	Every     int        `json:"every,omitempty"`
	Children  []*Task    `json:"children"`
}

// NewID returns a fresh 32-character lowercase hex task id.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// ShortID returns the display prefix of an id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// IsSubtask reports whether the task has a parent.
func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// HasChildren reports whether the task has subtasks attached.
func (t *Task) HasChildren() bool {
	return len(t.Children) > 0
}

// SameParent reports whether two nullable parent ids refer to the same parent.
func SameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// parentKey flattens a nullable parent id into a map key. Task ids are
// hex strings, so the empty key cannot collide.
func parentKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// Normalize repairs a flat row set in place: parent ids that reference a
// missing task become nil (orphans are promoted to the root), and every
// sibling group is re-indexed to dense positions preserving relative order.
func Normalize(rows []*Task) {
	valid := make(map[string]bool, len(rows))
	for _, row := range rows {
		valid[row.ID] = true
	}
	for _, row := range rows {
		if row.ParentID != nil && !valid[*row.ParentID] {
			row.ParentID = nil
		}
	}
	byParent := make(map[string][]*Task)
	for _, row := range rows {
		key := parentKey(row.ParentID)
		byParent[key] = append(byParent[key], row)
	}
	for _, siblings := range byParent {
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Position < siblings[j].Position
		})
		for position, row := range siblings {
			row.Position = position
		}
	}
}

// BuildForest assembles the nested forest from flat rows, attaching
// Children ordered by position. Rows are linked in place; every node gets
// a non-nil Children slice so the JSON shape is stable.
func BuildForest(rows []*Task) []*Task {
	byParent := make(map[string][]*Task)
	for _, row := range rows {
		key := parentKey(row.ParentID)
		byParent[key] = append(byParent[key], row)
	}
	for _, siblings := range byParent {
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Position < siblings[j].Position
		})
	}
	for _, row := range rows {
		row.Children = byParent[row.ID]
		if row.Children == nil {
			row.Children = []*Task{}
		}
	}
	forest := byParent[""]
	if forest == nil {
		forest = []*Task{}
	}
	return forest
}

// CollectDescendants returns the ids of every task strictly inside the
// subtree rooted at rootID, walking the flat rows iteratively.
func CollectDescendants(rows []*Task, rootID string) map[string]bool {
	descendants := make(map[string]bool)
	frontier := []string{rootID}
	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, row := range rows {
			if row.ParentID != nil && *row.ParentID == current && !descendants[row.ID] {
				descendants[row.ID] = true
				frontier = append(frontier, row.ID)
			}
		}
	}
	return descendants
}
