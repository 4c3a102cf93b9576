package dragdrop

import "sort"

// Hover zone thresholds as fractions of the hovered node's height.
// Below topZone means "insert before"; above bottomZone means "insert after";
// the band between means "make child".
const (
	topZone    = 0.25
	bottomZone = 0.75
)

// ResolveHover maps a raw vertical ratio over the hovered node onto the
// effective drop target and ratio.
//
// Hovering the bottom edge of a node and hovering the top edge of its next
// sibling mean the same insertion point, so the bottom zone is re-expressed
// as the next sibling's before-zone (target = next sibling, ratio = 0).
// This removes the off-by-one flicker at sibling boundaries. When the node is
// the last sibling there is no "next", and the ratio stays in the bottom zone
// so classification reads it as "after".
func ResolveHover(nodes []Node, current Node, rawPos float64) (int64, float64) {
	pos := clamp01(rawPos)
	target := current.ID

	switch {
	case pos > bottomZone:
		sibs := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			if sameParent(n.ParentID, current.ParentID) {
				sibs = append(sibs, n)
			}
		}
		sort.Slice(sibs, func(i, j int) bool { return sibs[i].Position < sibs[j].Position })
		for _, s := range sibs {
			if s.Position > current.Position {
				return s.ID, 0
			}
		}
	case pos < topZone:
		pos = 0
	}
	return target, pos
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
