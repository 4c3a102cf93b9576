package dragdrop

// DropKind labels the edit a completed drop resolves to.
type DropKind string

const (
	DropBefore           DropKind = "before"
	DropBeforeSameParent DropKind = "before-same-parent"
	DropAfter            DropKind = "after"
	DropAsChild          DropKind = "child"
	DropToRoot           DropKind = "root"
)

// DropAction is the (parent, position) edit a drop resolves to. NewParentID
// nil means root level. Before and BeforeSameParent carry identical payloads;
// the label records whether the move stays inside one sibling group.
type DropAction struct {
	Kind        DropKind
	NewParentID *int64
	NewPosition int
}

// IsDescendant reports whether id is ancestorID or one of its descendants,
// by walking parent links from id. The walk is bounded by the node count so a
// corrupted snapshot (parent cycle) cannot loop forever.
func IsDescendant(nodes []Node, ancestorID, id int64) bool {
	cur := id
	for steps := 0; steps <= len(nodes); steps++ {
		if cur == ancestorID {
			return true
		}
		n, ok := find(nodes, cur)
		if !ok || n.ParentID == nil {
			return false
		}
		cur = *n.ParentID
	}
	return false
}

// ClassifyDrop decides the tree edit for releasing draggedID over targetID at
// the given effective ratio. It returns ok=false for a self-drop or when the
// target sits inside the dragged subtree (the move would create a cycle).
//
// A target that no longer exists in the snapshot (deleted mid-drag) falls
// back to a root-level drop; the store reindexes the destination group, so
// the placeholder position 0 cannot collide.
func ClassifyDrop(nodes []Node, draggedID, targetID int64, ratio float64) (DropAction, bool) {
	if draggedID == targetID {
		return DropAction{}, false
	}
	if IsDescendant(nodes, draggedID, targetID) {
		return DropAction{}, false
	}

	target, ok := find(nodes, targetID)
	if !ok {
		return DropAction{Kind: DropToRoot, NewPosition: 0}, true
	}

	var draggedParent *int64
	if d, ok := find(nodes, draggedID); ok {
		draggedParent = d.ParentID
	}

	switch {
	case ratio < topZone:
		kind := DropBefore
		if sameParent(target.ParentID, draggedParent) {
			kind = DropBeforeSameParent
		}
		return DropAction{Kind: kind, NewParentID: target.ParentID, NewPosition: target.Position}, true
	case ratio > bottomZone:
		return DropAction{Kind: DropAfter, NewParentID: target.ParentID, NewPosition: target.Position + 1}, true
	default:
		id := target.ID
		return DropAction{Kind: DropAsChild, NewParentID: &id, NewPosition: 0}, true
	}
}
