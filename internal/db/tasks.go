package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MarisaKirisame/mdo/internal/task"
	"github.com/MarisaKirisame/mdo/internal/when"
)

// Validation failures callers are expected to branch on.
var (
	ErrNotFound       = errors.New("task not found")
	ErrParentNotFound = errors.New("parent task not found")
	ErrEmptyTitle     = errors.New("task title must not be empty")
	ErrOwnParent      = errors.New("task cannot be its own parent")
	ErrInsideSubtree  = errors.New("cannot move a task inside its own subtree")
	ErrHasSubtasks    = errors.New("task still has subtasks")
	ErrBadReorder     = errors.New("reorder must include each top-level task exactly once")
)

const taskColumns = `id, title, parent_id, position, created_at, COALESCE(due, ''), COALESCE(every, 0)`

type rowQuerier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func scanTask(scanner interface{ Scan(dest ...any) error }) (*task.Task, error) {
	t := &task.Task{}
	var parentID sql.NullString
	var due string
	if err := scanner.Scan(&t.ID, &t.Title, &parentID, &t.Position, &t.CreatedAt, &due, &t.Every); err != nil {
		return nil, err
	}
	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	if due != "" {
		if d, err := when.ParseDate(due); err == nil {
			t.Due = &d
		}
	}
	return t, nil
}

// listRows loads every stored task as a flat row.
func listRows(q rowQuerier) ([]*task.Task, error) {
	rows, err := q.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// saveLayout writes every row's parent and position back to the store.
func saveLayout(e execer, rows []*task.Task) error {
	for _, r := range rows {
		if _, err := e.Exec(`UPDATE tasks SET parent_id = ?, position = ? WHERE id = ?`,
			parentValue(r.ParentID), r.Position, r.ID); err != nil {
			return fmt.Errorf("save layout: %w", err)
		}
	}
	return nil
}

func parentValue(parentID *string) any {
	if parentID == nil {
		return nil
	}
	return *parentID
}

func dueValue(due *when.Date) any {
	if due == nil {
		return nil
	}
	return due.String()
}

func findRow(rows []*task.Task, id string) *task.Task {
	for _, r := range rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// ListForest returns the full task tree, ordered by stored position.
func (db *DB) ListForest() ([]*task.Task, error) {
	rows, err := listRows(db)
	if err != nil {
		return nil, err
	}
	task.Normalize(rows)
	return task.BuildForest(rows), nil
}

// GetTask returns a single flat task row, nil when absent.
func (db *DB) GetTask(id string) (*task.Task, error) {
	t, err := scanTask(db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

// FindByPrefix returns the ids matching a prefix, for short-id lookups.
func (db *DB) FindByPrefix(prefix string) ([]string, error) {
	rows, err := db.Query(`SELECT id FROM tasks WHERE id LIKE ? || '%' ORDER BY id`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateOptions control placement and scheduling of a new task.
type CreateOptions struct {
	ParentID *string
	Position *int // nil appends after the last sibling
	Due      *when.Date
	Every    int
}

// CreateTask inserts a task under the given parent. The title is trimmed
// and must be non-empty; the position is clamped into the sibling range
// and later siblings shift down to make room.
func (db *DB) CreateTask(title string, opts CreateOptions) (*task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := listRows(tx)
	if err != nil {
		return nil, err
	}
	task.Normalize(rows)

	if opts.ParentID != nil && findRow(rows, *opts.ParentID) == nil {
		return nil, ErrParentNotFound
	}

	var siblings []*task.Task
	for _, r := range rows {
		if task.SameParent(r.ParentID, opts.ParentID) {
			siblings = append(siblings, r)
		}
	}
	insert := len(siblings)
	if opts.Position != nil {
		insert = clamp(*opts.Position, 0, len(siblings))
	}
	for _, s := range siblings {
		if s.Position >= insert {
			s.Position++
		}
	}

	created := &task.Task{
		ID:        task.NewID(),
		Title:     title,
		ParentID:  opts.ParentID,
		Position:  insert,
		CreatedAt: task.Now(),
		Due:       opts.Due,
		Every:     opts.Every,
		Children:  []*task.Task{},
	}

	if err := saveLayout(tx, rows); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		`INSERT INTO tasks (id, title, parent_id, position, created_at, due, every) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Title, parentValue(created.ParentID), created.Position,
		created.CreatedAt, dueValue(created.Due), created.Every,
	); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// DeleteTask removes a task and its whole subtree, closing the position
// gap it leaves behind.
func (db *DB) DeleteTask(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := listRows(tx)
	if err != nil {
		return err
	}
	task.Normalize(rows)

	if findRow(rows, id) == nil {
		return ErrNotFound
	}

	doomed := task.CollectDescendants(rows, id)
	doomed[id] = true

	var remaining []*task.Task
	for _, r := range rows {
		if !doomed[r.ID] {
			remaining = append(remaining, r)
		}
	}
	task.Normalize(remaining)

	for doomedID := range doomed {
		if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, doomedID); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
	}
	if err := saveLayout(tx, remaining); err != nil {
		return err
	}
	return tx.Commit()
}

// MoveTask re-parents a task and places it at the given position among
// its new siblings. Validation order: the task must exist, the parent
// must exist, a task cannot parent itself, and a task cannot move inside
// its own subtree. Returns the fresh forest.
func (db *DB) MoveTask(id string, parentID *string, position int) ([]*task.Task, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := listRows(tx)
	if err != nil {
		return nil, err
	}
	task.Normalize(rows)

	target := findRow(rows, id)
	if target == nil {
		return nil, ErrNotFound
	}
	if parentID != nil {
		if findRow(rows, *parentID) == nil {
			return nil, ErrParentNotFound
		}
		if *parentID == id {
			return nil, ErrOwnParent
		}
		if task.CollectDescendants(rows, id)[*parentID] {
			return nil, ErrInsideSubtree
		}
	}

	oldParent := target.ParentID
	oldPosition := target.Position

	// Close the gap at the old location.
	for _, r := range rows {
		if r != target && task.SameParent(r.ParentID, oldParent) && r.Position > oldPosition {
			r.Position--
		}
	}

	target.ParentID = parentID

	var siblings []*task.Task
	for _, r := range rows {
		if r != target && task.SameParent(r.ParentID, parentID) {
			siblings = append(siblings, r)
		}
	}
	insert := clamp(position, 0, len(siblings))
	for _, s := range siblings {
		if s.Position >= insert {
			s.Position++
		}
	}
	target.Position = insert

	task.Normalize(rows)
	if err := saveLayout(tx, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return task.BuildForest(rows), nil
}

// ReorderTop rewrites the order of the top-level tasks. The given ids
// must be exactly the current top level. Returns the fresh forest.
func (db *DB) ReorderTop(order []string) ([]*task.Task, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := listRows(tx)
	if err != nil {
		return nil, err
	}
	task.Normalize(rows)

	topIDs := make(map[string]bool)
	topCount := 0
	for _, r := range rows {
		if r.ParentID == nil {
			topIDs[r.ID] = true
			topCount++
		}
	}

	if len(order) != topCount {
		return nil, ErrBadReorder
	}
	ordering := make(map[string]int, len(order))
	for position, id := range order {
		if !topIDs[id] {
			return nil, ErrBadReorder
		}
		if _, dup := ordering[id]; dup {
			return nil, ErrBadReorder
		}
		ordering[id] = position
	}

	for _, r := range rows {
		if r.ParentID == nil {
			r.Position = ordering[r.ID]
		}
	}
	task.Normalize(rows)
	if err := saveLayout(tx, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return task.BuildForest(rows), nil
}

// CompleteTask finishes a task. Tasks that still have subtasks are
// refused. A repeating task advances its due date by the repeat interval
// instead of going away; the second return reports that reschedule.
func (db *DB) CompleteTask(id string) (*task.Task, bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := listRows(tx)
	if err != nil {
		return nil, false, err
	}
	task.Normalize(rows)

	target := findRow(rows, id)
	if target == nil {
		return nil, false, ErrNotFound
	}
	for _, r := range rows {
		if r.ParentID != nil && *r.ParentID == id {
			return nil, false, ErrHasSubtasks
		}
	}

	if target.Every > 0 && target.Due != nil {
		next := target.Due.AddDays(target.Every)
		target.Due = &next
		if _, err := tx.Exec(`UPDATE tasks SET due = ? WHERE id = ?`, dueValue(target.Due), id); err != nil {
			return nil, false, fmt.Errorf("reschedule task: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit: %w", err)
		}
		return target, true, nil
	}

	var remaining []*task.Task
	for _, r := range rows {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}
	task.Normalize(remaining)

	if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return nil, false, fmt.Errorf("delete task: %w", err)
	}
	if err := saveLayout(tx, remaining); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return target, false, nil
}

// Clear removes every task.
func (db *DB) Clear() error {
	if _, err := db.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}
