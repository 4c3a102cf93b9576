package dragdrop

import "time"

// justEndedWindow suppresses the click/selection event that fires on the
// same pointer-up that finished a drag.
const justEndedWindow = 100 * time.Millisecond

// Session is the explicit drag state machine:
//
//	Idle -> Dragging        press on a tag row
//	Dragging -> Dragging    motion updates the pending target/ratio
//	Dragging -> Idle        release classifies, guards and hands back the edit
//
// One session exists per UI; it holds no tree state beyond the pending
// target, so resolution always runs against the snapshot the caller passes
// in. Not safe for concurrent use; the UI event loop is single-threaded.
type Session struct {
	dragging  bool
	draggedID int64

	hasTarget bool
	targetID  int64
	ratio     float64

	justEndedUntil time.Time
	now            func() time.Time
}

func NewSession() *Session {
	return &Session{now: time.Now}
}

// Begin starts a drag for id. It is ignored while another drag is active
// (pointer devices are single-pointer; a second press is not arbitrated).
func (s *Session) Begin(id int64) bool {
	if s.dragging {
		return false
	}
	s.dragging = true
	s.draggedID = id
	s.hasTarget = false
	return true
}

func (s *Session) Dragging() bool { return s.dragging }

func (s *Session) DraggedID() (int64, bool) {
	if !s.dragging {
		return 0, false
	}
	return s.draggedID, true
}

// Hover feeds a pointer-move over current at rawPos through the hover
// resolver and stores the effective target. No-op when no drag is active.
func (s *Session) Hover(nodes []Node, current Node, rawPos float64) {
	if !s.dragging {
		return
	}
	id, ratio := ResolveHover(nodes, current, rawPos)
	s.targetID = id
	s.ratio = ratio
	s.hasTarget = true
}

// PendingTarget exposes the stored effective target for rendering the drop
// indicator.
func (s *Session) PendingTarget() (id int64, ratio float64, ok bool) {
	if !s.dragging || !s.hasTarget {
		return 0, 0, false
	}
	return s.targetID, s.ratio, true
}

// Release ends the drag and classifies the pending target against the
// snapshot. ok is false for cancellations: no drag active, no target hovered,
// self-drop, or a guarded (cycle) drop.
func (s *Session) Release(nodes []Node) (DropAction, bool) {
	if !s.dragging {
		return DropAction{}, false
	}
	dragged := s.draggedID
	hadTarget := s.hasTarget
	targetID := s.targetID
	ratio := s.ratio
	s.end()

	if !hadTarget {
		return DropAction{}, false
	}
	return ClassifyDrop(nodes, dragged, targetID, ratio)
}

// Cancel ends the drag without classifying.
func (s *Session) Cancel() {
	if s.dragging {
		s.end()
	}
}

// JustEnded reports whether a drag finished within the debounce window. The
// flag clears itself by deadline; no timer runs.
func (s *Session) JustEnded() bool {
	return s.now().Before(s.justEndedUntil)
}

func (s *Session) end() {
	s.dragging = false
	s.hasTarget = false
	s.justEndedUntil = s.now().Add(justEndedWindow)
}
