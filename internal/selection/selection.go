// Package selection applies subtree-aware select/deselect to the tag filter.
package selection

import "tagme-cli/internal/dragdrop"

// Subtree collects rootID plus all transitive descendants from the snapshot.
// The walk is an explicit stack over the flat node slice; a visited set keeps
// a corrupted snapshot from looping.
func Subtree(nodes []dragdrop.Node, rootID int64) []int64 {
	out := make([]int64, 0, 1)
	seen := map[int64]bool{}
	stack := []int64{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		for _, n := range nodes {
			if n.ParentID != nil && *n.ParentID == id {
				stack = append(stack, n.ID)
			}
		}
	}
	return out
}

// Toggle flips rootID in the selection, propagating to its whole subtree:
// selecting a node selects every descendant, deselecting removes them all.
//
// forceLoosen is true only when a multi-node subtree was newly selected. The
// consuming filter should then switch from all-of (intersection) to any-of
// (union) combination, so a parent with several children shows the union of
// their files, not the intersection.
func Toggle(selected []int64, rootID int64, nodes []dragdrop.Node) (next []int64, forceLoosen bool) {
	subtree := Subtree(nodes, rootID)

	wasSelected := false
	for _, id := range selected {
		if id == rootID {
			wasSelected = true
			break
		}
	}

	if wasSelected {
		drop := make(map[int64]bool, len(subtree))
		for _, id := range subtree {
			drop[id] = true
		}
		next = make([]int64, 0, len(selected))
		for _, id := range selected {
			if !drop[id] {
				next = append(next, id)
			}
		}
		return next, false
	}

	have := make(map[int64]bool, len(selected))
	next = append(make([]int64, 0, len(selected)+len(subtree)), selected...)
	for _, id := range selected {
		have[id] = true
	}
	for _, id := range subtree {
		if !have[id] {
			next = append(next, id)
		}
	}
	return next, len(subtree) > 1
}
