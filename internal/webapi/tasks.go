package webapi

import (
	"errors"
	"net/http"

	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/dnd"
	"github.com/MarisaKirisame/mdo/internal/task"
)

// TaskListResponse wraps the task forest in JSON responses.
type TaskListResponse struct {
	Tasks []*task.Task `json:"tasks"`
}

// isValidationError reports whether err is a client-side mistake rather
// than a server failure.
func isValidationError(err error) bool {
	return errors.Is(err, db.ErrNotFound) ||
		errors.Is(err, db.ErrParentNotFound) ||
		errors.Is(err, db.ErrEmptyTitle) ||
		errors.Is(err, db.ErrOwnParent) ||
		errors.Is(err, db.ErrInsideSubtree) ||
		errors.Is(err, db.ErrHasSubtasks) ||
		errors.Is(err, db.ErrBadReorder)
}

// handleListTasks handles GET /api/tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	forest, err := s.db.ListForest()
	if err != nil {
		s.logger.Error("list tasks failed", "error", err)
		jsonError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, TaskListResponse{Tasks: forest}, http.StatusOK)
}

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// handleCreateTask handles POST /api/tasks
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := s.db.CreateTask(req.Title, db.CreateOptions{
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if err != nil {
		if isValidationError(err) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("create task failed", "error", err)
		jsonError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	if s.emitter != nil {
		s.emitter.EmitTaskCreated(created)
	}
	s.BroadcastTasksChanged()

	jsonResponse(w, created, http.StatusCreated)
}

// MoveTaskRequest represents a request to move a task.
type MoveTaskRequest struct {
	TaskID   string  `json:"task_id"`
	ParentID *string `json:"parent_id,omitempty"`
	Position int     `json:"position"`
}

// handleMoveTask handles POST /api/tasks/move
func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req MoveTaskRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	forest, err := s.db.MoveTask(req.TaskID, req.ParentID, req.Position)
	if err != nil {
		if isValidationError(err) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("move task failed", "error", err)
		jsonError(w, "Failed to move task", http.StatusInternalServerError)
		return
	}

	if s.emitter != nil {
		if moved, err := s.db.GetTask(req.TaskID); err == nil && moved != nil {
			s.emitter.EmitTaskMoved(moved, req.ParentID, req.Position)
		}
	}
	s.BroadcastTasksChanged()

	jsonResponse(w, TaskListResponse{Tasks: forest}, http.StatusOK)
}

// ReorderTasksRequest represents a request to reorder the top level.
type ReorderTasksRequest struct {
	Order []string `json:"order"`
}

// handleReorderTasks handles POST /api/tasks/reorder
func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req ReorderTasksRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	forest, err := s.db.ReorderTop(req.Order)
	if err != nil {
		if isValidationError(err) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("reorder tasks failed", "error", err)
		jsonError(w, "Failed to reorder tasks", http.StatusInternalServerError)
		return
	}

	s.BroadcastTasksChanged()

	jsonResponse(w, TaskListResponse{Tasks: forest}, http.StatusOK)
}

// handleDeleteTask handles DELETE /api/tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	title := ""
	if existing, err := s.db.GetTask(id); err == nil && existing != nil {
		title = existing.Title
	}

	if err := s.db.DeleteTask(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Task not found", http.StatusNotFound)
			return
		}
		s.logger.Error("delete task failed", "error", err)
		jsonError(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	if s.emitter != nil {
		s.emitter.EmitTaskDeleted(id, title)
	}
	s.BroadcastTasksChanged()

	w.WriteHeader(http.StatusNoContent)
}

// DropTaskRequest carries the pointer geometry of a drag-and-drop gesture.
type DropTaskRequest struct {
	DraggedID string  `json:"dragged_id"`
	OverID    string  `json:"over_id"`
	ParentID  *string `json:"parent_id,omitempty"`
	Rect      struct {
		Top    float64 `json:"top"`
		Height float64 `json:"height"`
	} `json:"rect"`
	PointerY float64 `json:"pointer_y"`
}

// DropTaskResponse reports how the gesture resolved and the resulting tree.
type DropTaskResponse struct {
	Mode    string       `json:"mode"`
	Applied bool         `json:"applied"`
	Tasks   []*task.Task `json:"tasks"`
}

// handleDropTask handles POST /api/tasks/drop. It resolves the drop
// intent from raw pointer geometry, plans the mutation, and applies it
// when the plan is a real move.
func (s *Server) handleDropTask(w http.ResponseWriter, r *http.Request) {
	var req DropTaskRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DraggedID == "" {
		jsonError(w, "dragged_id is required", http.StatusBadRequest)
		return
	}

	forest, err := s.db.ListForest()
	if err != nil {
		s.logger.Error("list tasks failed", "error", err)
		jsonError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	indicator := dnd.Resolve(forest, req.DraggedID, dnd.OverEvent{
		OverID:   req.OverID,
		ParentID: req.ParentID,
		Rect:     dnd.Rect{Top: req.Rect.Top, Height: req.Rect.Height},
		PointerY: req.PointerY,
	})

	resp := DropTaskResponse{Mode: indicator.Mode.String(), Tasks: forest}

	move, ok := dnd.Plan(forest, req.DraggedID, indicator)
	if ok {
		forest, err = s.db.MoveTask(move.TaskID, move.ParentID, move.Index)
		if err != nil {
			if isValidationError(err) {
				jsonError(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.logger.Error("drop move failed", "error", err)
			jsonError(w, "Failed to move task", http.StatusInternalServerError)
			return
		}

		if s.emitter != nil {
			if moved, err := s.db.GetTask(move.TaskID); err == nil && moved != nil {
				s.emitter.EmitTaskMoved(moved, move.ParentID, move.Index)
			}
		}
		s.BroadcastTasksChanged()

		resp.Applied = true
		resp.Tasks = forest
	}

	jsonResponse(w, resp, http.StatusOK)
}

// handleGetSettings handles GET /api/settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetAllSettings()
	if err != nil {
		s.logger.Error("get settings failed", "error", err)
		jsonError(w, "Failed to get settings", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, settings, http.StatusOK)
}

// handleGetSetting handles GET /api/settings/{key}
func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, err := s.db.GetSetting(key)
	if err != nil {
		s.logger.Error("get setting failed", "error", err)
		jsonError(w, "Failed to get setting", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"key": key, "value": value}, http.StatusOK)
}

// UpdateSettingRequest represents a request to update a setting.
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

// handleUpdateSetting handles PUT /api/settings/{key}
func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req UpdateSettingRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.db.SetSetting(key, req.Value); err != nil {
		s.logger.Error("update setting failed", "error", err)
		jsonError(w, "Failed to update setting", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"key": key, "value": req.Value}, http.StatusOK)
}
