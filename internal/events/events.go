// Package events provides a simple hook-based event system for task lifecycle events.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/MarisaKirisame/mdo/internal/task"
)

// Event types for task lifecycle
const (
	TaskCreated   = "task.created"
	TaskMoved     = "task.moved"
	TaskCompleted = "task.completed"
	TaskDeleted   = "task.deleted"
)

// Event represents a task lifecycle event.
type Event struct {
	Type      string                 `json:"type"`
	TaskID    string                 `json:"task_id"`
	Task      *task.Task             `json:"task,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Emitter handles event emission via hooks.
type Emitter struct {
	hooksDir string
}

// New creates a new event emitter.
func New(hooksDir string) *Emitter {
	return &Emitter{hooksDir: hooksDir}
}

// Emit triggers a hook script if it exists for the event type.
func (e *Emitter) Emit(event Event) {
	if e.hooksDir == "" {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	go e.runHook(event)
}

// runHook executes the hook script for an event.
func (e *Emitter) runHook(event Event) {
	hookPath := filepath.Join(e.hooksDir, event.Type)
	if _, err := os.Stat(hookPath); os.IsNotExist(err) {
		return
	}

	env := os.Environ()
	env = append(env,
		fmt.Sprintf("MDO_TASK_ID=%s", event.TaskID),
		fmt.Sprintf("MDO_EVENT=%s", event.Type),
		fmt.Sprintf("MDO_TIMESTAMP=%s", event.Timestamp.Format(time.RFC3339)),
	)

	if event.Task != nil {
		env = append(env, fmt.Sprintf("MDO_TASK_TITLE=%s", event.Task.Title))
		if event.Task.Due != nil {
			env = append(env, fmt.Sprintf("MDO_TASK_DUE=%s", event.Task.Due.String()))
		}
	}

	if len(event.Metadata) > 0 {
		if data, err := json.Marshal(event.Metadata); err == nil {
			env = append(env, fmt.Sprintf("MDO_METADATA=%s", string(data)))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, hookPath)
	cmd.Env = env
	if payload, err := json.Marshal(event); err == nil {
		cmd.Stdin = bytes.NewReader(payload)
	}
	_ = cmd.Run() // Ignore errors - hooks are best-effort
}

// Helper methods for common events

func (e *Emitter) EmitTaskCreated(t *task.Task) {
	e.Emit(Event{Type: TaskCreated, TaskID: t.ID, Task: t})
}

func (e *Emitter) EmitTaskMoved(t *task.Task, parentID *string, index int) {
	meta := map[string]interface{}{"position": index}
	if parentID != nil {
		meta["parent_id"] = *parentID
	}
	e.Emit(Event{Type: TaskMoved, TaskID: t.ID, Task: t, Metadata: meta})
}

func (e *Emitter) EmitTaskCompleted(t *task.Task, rescheduled bool) {
	e.Emit(Event{Type: TaskCompleted, TaskID: t.ID, Task: t, Metadata: map[string]interface{}{
		"rescheduled": rescheduled,
	}})
}

func (e *Emitter) EmitTaskDeleted(taskID string, title string) {
	e.Emit(Event{Type: TaskDeleted, TaskID: taskID, Message: title})
}
