package dnd

import (
	"github.com/MarisaKirisame/mdo/internal/task"
)

// State is the drag session lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateDropping
)

// Session tracks a single drag from start to end or cancel. At most one
// drag is active at a time, and all events must arrive on one goroutine;
// the session holds no locks.
type Session struct {
	state     State
	draggedID string
	indicator Indicator
	apply     func(Move)
}

// NewSession returns an idle session. apply receives the planned move
// after a successful drop; it may be nil when the caller only inspects
// the indicator.
func NewSession(apply func(Move)) *Session {
	return &Session{apply: apply}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	return s.state == StateDragging
}

// DraggedID returns the active drag's task id, "" when idle.
func (s *Session) DraggedID() string {
	return s.draggedID
}

// Indicator returns the current drop indicator.
func (s *Session) Indicator() Indicator {
	return s.indicator
}

// Start begins a drag and discards any stale indicator. A start while a
// drag is already active is ignored; the tracking layer is responsible
// for not sending one.
func (s *Session) Start(id string) {
	if s.state != StateIdle || id == "" {
		return
	}
	s.draggedID = id
	s.indicator = Indicator{}
	s.state = StateDragging
}

// Over records a hover sample, replacing the indicator wholesale. Events
// outside an active drag have no effect.
func (s *Session) Over(forest []*task.Task, ev OverEvent) {
	if s.state != StateDragging {
		return
	}
	s.indicator = Resolve(forest, s.draggedID, ev)
}

// End completes the drag. The indicator captured at this moment is
// planned exactly once; all transient state clears regardless of the
// outcome, and only a real move reaches the apply callback.
func (s *Session) End(forest []*task.Task) {
	if s.state != StateDragging {
		return
	}
	s.state = StateDropping
	mv, ok := Plan(forest, s.draggedID, s.indicator)
	s.draggedID = ""
	s.indicator = Indicator{}
	s.state = StateIdle
	if ok && s.apply != nil {
		s.apply(mv)
	}
}

// Cancel aborts the drag without planning.
func (s *Session) Cancel() {
	if s.state != StateDragging {
		return
	}
	s.draggedID = ""
	s.indicator = Indicator{}
	s.state = StateIdle
}
