package dragdrop

import "testing"

// Two roots; root 1 has a child (4) and grandchild (5).
func deepNodes() []Node {
	return []Node{
		{ID: 1, ParentID: nil, Position: 0},
		{ID: 2, ParentID: nil, Position: 1},
		{ID: 4, ParentID: p(1), Position: 0},
		{ID: 5, ParentID: p(4), Position: 0},
	}
}

func TestIsDescendant(t *testing.T) {
	nodes := deepNodes()

	if !IsDescendant(nodes, 1, 1) {
		t.Fatalf("node is its own descendant for guard purposes")
	}
	if !IsDescendant(nodes, 1, 4) || !IsDescendant(nodes, 1, 5) {
		t.Fatalf("expected 4 and 5 to be descendants of 1")
	}
	if IsDescendant(nodes, 4, 1) {
		t.Fatalf("ancestor is not a descendant")
	}
	if IsDescendant(nodes, 2, 5) {
		t.Fatalf("unrelated subtree")
	}
}

func TestIsDescendant_TerminatesOnCorruptSnapshot(t *testing.T) {
	// Parent cycle 7<->8 must not hang the walk.
	nodes := []Node{
		{ID: 7, ParentID: p(8)},
		{ID: 8, ParentID: p(7)},
	}
	if IsDescendant(nodes, 9, 7) {
		t.Fatalf("9 is not in the cycle")
	}
}

func TestClassifyDrop_SelfDrop(t *testing.T) {
	if _, ok := ClassifyDrop(deepNodes(), 1, 1, 0.5); ok {
		t.Fatalf("self-drop must be rejected")
	}
}

func TestClassifyDrop_RejectsDropIntoOwnSubtree(t *testing.T) {
	nodes := deepNodes()
	for _, target := range []int64{4, 5} {
		if _, ok := ClassifyDrop(nodes, 1, target, 0.5); ok {
			t.Fatalf("drop of 1 onto descendant %d must be rejected", target)
		}
	}
}

func TestClassifyDrop_BeforeSameParent(t *testing.T) {
	nodes := deepNodes()
	act, ok := ClassifyDrop(nodes, 2, 1, 0.1)
	if !ok {
		t.Fatalf("expected action")
	}
	if act.Kind != DropBeforeSameParent {
		t.Fatalf("expected before-same-parent; got %s", act.Kind)
	}
	if act.NewParentID != nil || act.NewPosition != 0 {
		t.Fatalf("expected (root, 0); got (%v, %d)", act.NewParentID, act.NewPosition)
	}
}

func TestClassifyDrop_BeforeAcrossParents(t *testing.T) {
	nodes := deepNodes()
	act, ok := ClassifyDrop(nodes, 2, 4, 0.1)
	if !ok {
		t.Fatalf("expected action")
	}
	if act.Kind != DropBefore {
		t.Fatalf("expected before; got %s", act.Kind)
	}
	if act.NewParentID == nil || *act.NewParentID != 1 || act.NewPosition != 0 {
		t.Fatalf("expected (1, 0); got (%v, %d)", act.NewParentID, act.NewPosition)
	}
}

func TestClassifyDrop_After(t *testing.T) {
	nodes := deepNodes()
	act, ok := ClassifyDrop(nodes, 2, 1, 0.9)
	if !ok {
		t.Fatalf("expected action")
	}
	if act.Kind != DropAfter {
		t.Fatalf("expected after; got %s", act.Kind)
	}
	if act.NewParentID != nil || act.NewPosition != 1 {
		t.Fatalf("expected (root, 1); got (%v, %d)", act.NewParentID, act.NewPosition)
	}
}

func TestClassifyDrop_MiddleMakesFirstChild(t *testing.T) {
	nodes := deepNodes()
	act, ok := ClassifyDrop(nodes, 2, 1, 0.5)
	if !ok {
		t.Fatalf("expected action")
	}
	if act.Kind != DropAsChild {
		t.Fatalf("expected child; got %s", act.Kind)
	}
	if act.NewParentID == nil || *act.NewParentID != 1 || act.NewPosition != 0 {
		t.Fatalf("expected (1, 0); got (%v, %d)", act.NewParentID, act.NewPosition)
	}
}

func TestClassifyDrop_MissingTargetFallsBackToRoot(t *testing.T) {
	nodes := deepNodes()
	act, ok := ClassifyDrop(nodes, 2, 99, 0.5)
	if !ok {
		t.Fatalf("expected fallback action, not rejection")
	}
	if act.Kind != DropToRoot {
		t.Fatalf("expected root fallback; got %s", act.Kind)
	}
	if act.NewParentID != nil || act.NewPosition != 0 {
		t.Fatalf("expected (root, 0); got (%v, %d)", act.NewParentID, act.NewPosition)
	}
}
