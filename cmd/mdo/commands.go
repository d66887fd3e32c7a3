package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/events"
	"github.com/MarisaKirisame/mdo/internal/task"
	"github.com/MarisaKirisame/mdo/internal/tree"
	"github.com/MarisaKirisame/mdo/internal/when"
)

// taskLine renders one task with its short id and annotations.
func taskLine(t *task.Task) string {
	line := fmt.Sprintf("%s: %s", task.ShortID(t.ID), t.Title)

	var notes []string
	if t.HasChildren() {
		notes = append(notes, fmt.Sprintf("%d subtask(s)", len(t.Children)))
	}
	if t.Due != nil {
		due := "due " + t.Due.String()
		if t.Every > 0 {
			due += fmt.Sprintf(" every %dd", t.Every)
		}
		notes = append(notes, due)
	}
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	return line
}

// renderTree writes nodes depth-first with positions and indentation.
func renderTree(b *strings.Builder, nodes []*task.Task, depth int) {
	for _, t := range nodes {
		fmt.Fprintf(b, "%s%d. %s\n", strings.Repeat("  ", depth), t.Position, taskLine(t))
		renderTree(b, t.Children, depth+1)
	}
}

// resolveID expands an id prefix to the full stored id.
func resolveID(database *db.DB, ref string) (string, error) {
	matches, err := database.FindByPrefix(ref)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d tasks, use more characters", ref, len(matches))
	}
}

// runAdd creates a task and returns the confirmation line.
func runAdd(database *db.DB, emitter *events.Emitter, title, parentRef, whenExpr string, today when.Date) (string, error) {
	opts := db.CreateOptions{}
	if parentRef != "" {
		parentID, err := resolveID(database, parentRef)
		if err != nil {
			return "", err
		}
		opts.ParentID = &parentID
	}
	if whenExpr != "" {
		due, every := when.Parse(whenExpr, today)
		if due == nil {
			return "", fmt.Errorf("cannot understand %q as a date", whenExpr)
		}
		opts.Due = due
		opts.Every = every
	}

	created, err := database.CreateTask(title, opts)
	if err != nil {
		return "", err
	}
	if emitter != nil {
		emitter.EmitTaskCreated(created)
	}
	return "Added " + taskLine(created), nil
}

// runList renders the subtree rooted at ref, or the whole forest.
func runList(database *db.DB, ref string) (string, error) {
	forest, err := database.ListForest()
	if err != nil {
		return "", err
	}

	if ref == "" {
		if len(forest) == 0 {
			return "(no tasks)\n", nil
		}
		var b strings.Builder
		renderTree(&b, forest, 0)
		return b.String(), nil
	}

	id, err := resolveID(database, ref)
	if err != nil {
		return "", err
	}
	loc, ok := tree.Locate(forest, id)
	if !ok {
		return "", fmt.Errorf("no task matches %q", ref)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", taskLine(loc.Task))
	renderTree(&b, loc.Task.Children, 1)
	return b.String(), nil
}

// runDo completes a task. A task that still has subtasks is refused with
// the list of what remains; a repeating task advances instead of going
// away.
func runDo(database *db.DB, emitter *events.Emitter, ref string) (string, error) {
	id, err := resolveID(database, ref)
	if err != nil {
		return "", err
	}

	done, rescheduled, err := database.CompleteTask(id)
	if errors.Is(err, db.ErrHasSubtasks) {
		forest, lerr := database.ListForest()
		if lerr != nil {
			return "", lerr
		}
		loc, ok := tree.Locate(forest, id)
		if !ok {
			return "", db.ErrNotFound
		}
		var b strings.Builder
		fmt.Fprintf(&b, "cannot complete %s, finish these first:\n", taskLine(loc.Task))
		renderTree(&b, loc.Task.Children, 1)
		return b.String(), nil
	}
	if err != nil {
		return "", err
	}

	if emitter != nil {
		emitter.EmitTaskCompleted(done, rescheduled)
	}
	if rescheduled {
		return "Done, next up " + taskLine(done), nil
	}
	return "Done " + taskLine(done), nil
}

// runMove re-parents a task. A parent of "-" means the top level.
func runMove(database *db.DB, emitter *events.Emitter, ref, parentRef string, position int) (string, error) {
	id, err := resolveID(database, ref)
	if err != nil {
		return "", err
	}

	var parentID *string
	if parentRef != "-" {
		parent, err := resolveID(database, parentRef)
		if err != nil {
			return "", err
		}
		parentID = &parent
	}

	if _, err := database.MoveTask(id, parentID, position); err != nil {
		return "", err
	}

	moved, err := database.GetTask(id)
	if err != nil {
		return "", err
	}
	if emitter != nil {
		emitter.EmitTaskMoved(moved, parentID, moved.Position)
	}
	return "Moved " + taskLine(moved), nil
}

// runClear wipes the store.
func runClear(database *db.DB) (string, error) {
	if err := database.Clear(); err != nil {
		return "", err
	}
	return "Cleared all tasks", nil
}
