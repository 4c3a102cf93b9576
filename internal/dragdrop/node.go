// Package dragdrop turns continuous pointer coordinates over a tag tree into
// discrete, validated tree edits: hover-zone resolution, drop classification,
// the descendant guard, and the drag session state machine.
//
// Everything here is pure and snapshot-based. The tree is a flat slice of
// nodes keyed by id with a value-typed parent back-reference; traversals are
// iterative lookups, never pointer chasing.
package dragdrop

// Node is the projection of a tag the engine operates on.
type Node struct {
	ID       int64
	ParentID *int64
	Position int
}

func find(nodes []Node, id int64) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
