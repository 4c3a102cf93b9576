package store

import (
	"context"
	"errors"
	"testing"

	"tagme-cli/internal/dragdrop"
	"tagme-cli/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func mustCreate(t *testing.T, s Store, name string, parentID *int64) int64 {
	t.Helper()
	id, err := s.CreateTag(context.Background(), name, parentID, nil)
	if err != nil {
		t.Fatalf("CreateTag(%s): %v", name, err)
	}
	return id
}

func tagByID(t *testing.T, tags []model.Tag, id int64) model.Tag {
	t.Helper()
	for _, tag := range tags {
		if tag.ID == id {
			return tag
		}
	}
	t.Fatalf("tag %d not found", id)
	return model.Tag{}
}

// checkDense asserts that every sibling group's positions are exactly
// 0..count-1.
func checkDense(t *testing.T, tags []model.Tag) {
	t.Helper()
	groups := map[int64][]int{}
	rootKey := int64(-1)
	for _, tag := range tags {
		k := rootKey
		if tag.ParentID != nil {
			k = *tag.ParentID
		}
		groups[k] = append(groups[k], tag.Position)
	}
	for parent, positions := range groups {
		seen := make([]bool, len(positions))
		for _, p := range positions {
			if p < 0 || p >= len(positions) || seen[p] {
				t.Fatalf("group %d positions not dense: %v", parent, positions)
			}
			seen[p] = true
		}
	}
}

// checkAcyclic asserts every parent walk terminates at a root within the
// node count.
func checkAcyclic(t *testing.T, tags []model.Tag) {
	t.Helper()
	byID := map[int64]model.Tag{}
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	for _, tag := range tags {
		cur := tag
		for steps := 0; cur.ParentID != nil; steps++ {
			if steps > len(tags) {
				t.Fatalf("parent walk from %d does not terminate", tag.ID)
			}
			next, ok := byID[*cur.ParentID]
			if !ok {
				t.Fatalf("tag %d references missing parent %d", cur.ID, *cur.ParentID)
			}
			cur = next
		}
	}
}

func TestCreateTag_AppendsDense(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, "alpha", nil)
	b := mustCreate(t, s, "beta", nil)
	c1 := mustCreate(t, s, "child-1", &a)
	c2 := mustCreate(t, s, "child-2", &a)

	tags, err := s.GetAllTags(ctx)
	if err != nil {
		t.Fatalf("GetAllTags: %v", err)
	}
	if len(tags) != 4 {
		t.Fatalf("expected 4 tags; got %d", len(tags))
	}
	checkDense(t, tags)
	if tagByID(t, tags, a).Position != 0 || tagByID(t, tags, b).Position != 1 {
		t.Fatalf("root order wrong")
	}
	if tagByID(t, tags, c1).Position != 0 || tagByID(t, tags, c2).Position != 1 {
		t.Fatalf("child order wrong")
	}
}

func TestCreateTag_MissingParent(t *testing.T) {
	s := newTestStore(t)
	missing := int64(99)
	if _, err := s.CreateTag(context.Background(), "orphan", &missing, nil); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound; got %v", err)
	}
}

func TestMoveTag_SameParentForward(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)
	b := mustCreate(t, s, "b", nil)
	c := mustCreate(t, s, "c", nil)

	// a(0) b(1) c(2) -> b c a
	if err := s.MoveTag(ctx, a, nil, 2); err != nil {
		t.Fatalf("MoveTag: %v", err)
	}
	tags, _ := s.GetAllTags(ctx)
	checkDense(t, tags)
	if tagByID(t, tags, b).Position != 0 || tagByID(t, tags, c).Position != 1 || tagByID(t, tags, a).Position != 2 {
		t.Fatalf("expected order b c a; got %+v", tags)
	}
}

func TestMoveTag_SameParentBackward(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)
	b := mustCreate(t, s, "b", nil)
	c := mustCreate(t, s, "c", nil)

	// a(0) b(1) c(2) -> c a b
	if err := s.MoveTag(ctx, c, nil, 0); err != nil {
		t.Fatalf("MoveTag: %v", err)
	}
	tags, _ := s.GetAllTags(ctx)
	checkDense(t, tags)
	if tagByID(t, tags, c).Position != 0 || tagByID(t, tags, a).Position != 1 || tagByID(t, tags, b).Position != 2 {
		t.Fatalf("expected order c a b; got %+v", tags)
	}
}

func TestMoveTag_AfterLastSiblingStaysDense(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)
	b := mustCreate(t, s, "b", nil)
	c := mustCreate(t, s, "c", nil)

	// The after zone of the last sibling classifies to one past the end of
	// the group; the move must land on the last slot, not leave a gap there.
	tags, _ := s.GetAllTags(ctx)
	act, ok := dragdrop.ClassifyDrop(Nodes(tags), a, c, 0.9)
	if !ok {
		t.Fatalf("expected after-drop on last sibling to classify")
	}
	if act.Kind != dragdrop.DropAfter || act.NewParentID != nil || act.NewPosition != 3 {
		t.Fatalf("expected after at root pos 3; got %+v", act)
	}
	if err := s.MoveTag(ctx, a, act.NewParentID, act.NewPosition); err != nil {
		t.Fatalf("MoveTag: %v", err)
	}
	tags, _ = s.GetAllTags(ctx)
	checkDense(t, tags)
	if tagByID(t, tags, b).Position != 0 || tagByID(t, tags, c).Position != 1 || tagByID(t, tags, a).Position != 2 {
		t.Fatalf("expected order b c a; got %+v", tags)
	}

	// Same shape via the to-root path on a tag already at root: the target
	// position is the group size.
	if err := s.MoveTag(ctx, b, nil, 3); err != nil {
		t.Fatalf("MoveTag to root end: %v", err)
	}
	tags, _ = s.GetAllTags(ctx)
	checkDense(t, tags)
	if tagByID(t, tags, b).Position != 2 {
		t.Fatalf("expected b moved to the last slot; got %+v", tags)
	}
}

func TestMoveTag_CrossParentReindexesBothGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := mustCreate(t, s, "p", nil)
	q := mustCreate(t, s, "q", nil)
	p0 := mustCreate(t, s, "p0", &p)
	p1 := mustCreate(t, s, "p1", &p)
	p2 := mustCreate(t, s, "p2", &p)
	q0 := mustCreate(t, s, "q0", &q)
	q1 := mustCreate(t, s, "q1", &q)

	if err := s.MoveTag(ctx, p1, &q, 1); err != nil {
		t.Fatalf("MoveTag: %v", err)
	}
	tags, _ := s.GetAllTags(ctx)
	checkDense(t, tags)
	checkAcyclic(t, tags)

	if tagByID(t, tags, p0).Position != 0 || tagByID(t, tags, p2).Position != 1 {
		t.Fatalf("old group not reindexed: %+v", tags)
	}
	moved := tagByID(t, tags, p1)
	if moved.ParentID == nil || *moved.ParentID != q || moved.Position != 1 {
		t.Fatalf("moved tag misplaced: %+v", moved)
	}
	if tagByID(t, tags, q0).Position != 0 || tagByID(t, tags, q1).Position != 2 {
		t.Fatalf("new group not reindexed: %+v", tags)
	}
}

func TestMoveTag_ToRootFallbackReindexes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)
	b := mustCreate(t, s, "b", nil)
	child := mustCreate(t, s, "child", &a)

	// The unresolved-target fallback: drop at root with placeholder position 0.
	if err := s.MoveTag(ctx, child, nil, 0); err != nil {
		t.Fatalf("MoveTag: %v", err)
	}
	tags, _ := s.GetAllTags(ctx)
	checkDense(t, tags)
	if tagByID(t, tags, child).ParentID != nil {
		t.Fatalf("expected child at root")
	}
	// No collision: a and b keep distinct positions.
	if tagByID(t, tags, a).Position == tagByID(t, tags, b).Position {
		t.Fatalf("root positions collided: %+v", tags)
	}
}

func TestMoveTag_SequenceKeepsInvariants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)
	b := mustCreate(t, s, "b", nil)
	c := mustCreate(t, s, "c", nil)
	d := mustCreate(t, s, "d", &a)

	moves := []struct {
		id     int64
		parent *int64
		pos    int
	}{
		{b, &a, 0},
		{c, &a, 1},
		{d, nil, 0},
		{a, &d, 0},
		{c, nil, 1},
	}
	for i, mv := range moves {
		if err := s.MoveTag(ctx, mv.id, mv.parent, mv.pos); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		tags, err := s.GetAllTags(ctx)
		if err != nil {
			t.Fatalf("GetAllTags after move %d: %v", i, err)
		}
		checkDense(t, tags)
		checkAcyclic(t, tags)
	}
}

func TestMoveTag_MissingTag(t *testing.T) {
	s := newTestStore(t)
	if err := s.MoveTag(context.Background(), 42, nil, 0); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound; got %v", err)
	}
}

func TestDeleteTag_CascadesAndReindexes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)
	b := mustCreate(t, s, "b", nil)
	c := mustCreate(t, s, "c", nil)
	mustCreate(t, s, "b-child", &b)
	mustCreate(t, s, "b-grandchild", &b)

	if err := s.DeleteTag(ctx, b); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	tags, _ := s.GetAllTags(ctx)
	if len(tags) != 2 {
		t.Fatalf("expected cascade to remove subtree; got %d tags", len(tags))
	}
	checkDense(t, tags)
	if tagByID(t, tags, a).Position != 0 || tagByID(t, tags, c).Position != 1 {
		t.Fatalf("survivors not reindexed: %+v", tags)
	}
}

func TestRenameAndColor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a", nil)

	if err := s.RenameTag(ctx, a, "alpha"); err != nil {
		t.Fatalf("RenameTag: %v", err)
	}
	color := "#aabbcc"
	if err := s.SetTagColor(ctx, a, &color); err != nil {
		t.Fatalf("SetTagColor: %v", err)
	}
	tags, _ := s.GetAllTags(ctx)
	got := tagByID(t, tags, a)
	if got.Name != "alpha" {
		t.Fatalf("expected renamed tag; got %q", got.Name)
	}
	if got.Color == nil || *got.Color != color {
		t.Fatalf("expected color %q; got %v", color, got.Color)
	}
	if err := s.RenameTag(ctx, 99, "x"); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound; got %v", err)
	}
}

func TestNodesProjection(t *testing.T) {
	parent := int64(7)
	tags := []model.Tag{
		{ID: 7, Position: 0},
		{ID: 8, ParentID: &parent, Position: 1},
	}
	nodes := Nodes(tags)
	want := []dragdrop.Node{
		{ID: 7, ParentID: nil, Position: 0},
		{ID: 8, ParentID: &parent, Position: 1},
	}
	if len(nodes) != len(want) {
		t.Fatalf("length mismatch")
	}
	for i := range want {
		if nodes[i].ID != want[i].ID || nodes[i].Position != want[i].Position {
			t.Fatalf("node %d mismatch: %+v", i, nodes[i])
		}
	}
	if nodes[1].ParentID == nil || *nodes[1].ParentID != 7 {
		t.Fatalf("parent not carried")
	}
}
