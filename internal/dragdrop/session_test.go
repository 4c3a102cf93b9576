package dragdrop

import (
	"testing"
	"time"
)

func newTestSession(start time.Time) (*Session, *time.Time) {
	clock := start
	s := NewSession()
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestSession_PressMoveRelease(t *testing.T) {
	nodes := fixtureNodes()
	s, _ := newTestSession(time.Unix(0, 0))

	if s.Dragging() {
		t.Fatalf("fresh session must be idle")
	}
	if !s.Begin(1) {
		t.Fatalf("Begin from idle must succeed")
	}
	if s.Begin(2) {
		t.Fatalf("second press during a drag must be ignored")
	}
	if id, ok := s.DraggedID(); !ok || id != 1 {
		t.Fatalf("expected dragged id 1; got %d ok=%v", id, ok)
	}

	cur, _ := find(nodes, 2)
	s.Hover(nodes, cur, 0.5)
	if id, ratio, ok := s.PendingTarget(); !ok || id != 2 || ratio != 0.5 {
		t.Fatalf("expected pending (2, 0.5); got (%d, %v) ok=%v", id, ratio, ok)
	}

	act, ok := s.Release(nodes)
	if !ok {
		t.Fatalf("expected commit")
	}
	if act.Kind != DropAsChild || act.NewParentID == nil || *act.NewParentID != 2 {
		t.Fatalf("expected child-of-2; got %+v", act)
	}
	if s.Dragging() {
		t.Fatalf("release must return to idle")
	}
}

func TestSession_ReleaseWithoutTargetIsCancellation(t *testing.T) {
	nodes := fixtureNodes()
	s, _ := newTestSession(time.Unix(0, 0))

	s.Begin(1)
	if _, ok := s.Release(nodes); ok {
		t.Fatalf("release with no pending target must be a no-op")
	}
	if s.Dragging() {
		t.Fatalf("session must still end")
	}
}

func TestSession_HoverIgnoredWhileIdle(t *testing.T) {
	nodes := fixtureNodes()
	s, _ := newTestSession(time.Unix(0, 0))

	cur, _ := find(nodes, 2)
	s.Hover(nodes, cur, 0.5)
	if _, _, ok := s.PendingTarget(); ok {
		t.Fatalf("idle session must not record a target")
	}
}

func TestSession_JustEndedWindow(t *testing.T) {
	nodes := fixtureNodes()
	s, clock := newTestSession(time.Unix(1000, 0))

	s.Begin(1)
	cur, _ := find(nodes, 2)
	s.Hover(nodes, cur, 0.5)
	if s.JustEnded() {
		t.Fatalf("flag must be clear before release")
	}
	if _, ok := s.Release(nodes); !ok {
		t.Fatalf("expected commit")
	}
	if !s.JustEnded() {
		t.Fatalf("flag must be set right after release")
	}
	*clock = clock.Add(99 * time.Millisecond)
	if !s.JustEnded() {
		t.Fatalf("flag must hold inside the window")
	}
	*clock = clock.Add(2 * time.Millisecond)
	if s.JustEnded() {
		t.Fatalf("flag must clear after the window")
	}
}

func TestSession_CancelSetsJustEnded(t *testing.T) {
	s, _ := newTestSession(time.Unix(1000, 0))
	s.Begin(1)
	s.Cancel()
	if s.Dragging() {
		t.Fatalf("cancel must return to idle")
	}
	if !s.JustEnded() {
		t.Fatalf("cancel still suppresses the trailing click")
	}
}
