package assembly

import (
	"sort"

	"github.com/grailbio/svassembly/interval"
)

// IntervalSet is a union of closed integer intervals, backed by the sorted
// endpoint representation from the interval package. TraversalNode uses it
// to hold terminal_ranges and terminal_leaf_anchor_ranges, which are derived
// afresh for each T by terminalRangesFor rather than carried forward from
// its predecessor.
type IntervalSet struct {
	// endpoints holds half-open [lo, hi) endpoints, matching the interval
	// package's UnionScanner convention; a closed range [a, b] is stored as
	// the pair (a, b+1).
	endpoints []interval.PosType
}

// NewIntervalSet builds an IntervalSet from zero or more closed ranges.
func NewIntervalSet(ranges ...[2]int) IntervalSet {
	var s IntervalSet
	for _, r := range ranges {
		s = s.Add(r[0], r[1])
	}
	return s
}

// NewIntervalSetWithCapacity returns an empty IntervalSet whose backing
// endpoint slice is pre-sized for expectedRanges ranges. The capacity is not
// kept across updates: Add always builds a new endpoint slice sized to the
// result.
func NewIntervalSetWithCapacity(expectedRanges int) IntervalSet {
	return IntervalSet{endpoints: make([]interval.PosType, 0, 2*expectedRanges)}
}

// Add merges the closed range [start, end] into the set, returning the
// updated set. Overlapping or abutting ranges are coalesced.
func (s IntervalSet) Add(start, end int) IntervalSet {
	if start > end {
		return s
	}
	lo := interval.PosType(start)
	hi := interval.PosType(end) + 1
	merged := make([]interval.PosType, 0, len(s.endpoints)+2)
	inserted := false
	for i := 0; i < len(s.endpoints); i += 2 {
		eLo, eHi := s.endpoints[i], s.endpoints[i+1]
		if !inserted && hi < eLo {
			merged = append(merged, lo, hi)
			inserted = true
		}
		if !inserted && lo <= eHi && eLo <= hi {
			// Overlaps or abuts the incoming range; absorb and keep scanning
			// for further overlaps to the right.
			if eLo < lo {
				lo = eLo
			}
			if eHi > hi {
				hi = eHi
			}
			continue
		}
		merged = append(merged, eLo, eHi)
	}
	if !inserted {
		merged = append(merged, lo, hi)
	}
	sort.Sort(pairSortable(merged))
	return IntervalSet{endpoints: coalesce(merged)}
}

// pairSortable sorts a flattened (lo, hi) endpoint slice by lo, keeping each
// pair together.
type pairSortable []interval.PosType

func (p pairSortable) Len() int { return len(p) / 2 }
func (p pairSortable) Less(i, j int) bool {
	return p[2*i] < p[2*j]
}
func (p pairSortable) Swap(i, j int) {
	p[2*i], p[2*j] = p[2*j], p[2*i]
	p[2*i+1], p[2*j+1] = p[2*j+1], p[2*i+1]
}

func coalesce(pairs []interval.PosType) []interval.PosType {
	if len(pairs) == 0 {
		return pairs
	}
	out := pairs[:2:2]
	for i := 2; i < len(pairs); i += 2 {
		lo, hi := pairs[i], pairs[i+1]
		lastHi := out[len(out)-1]
		if lo <= lastHi {
			if hi > lastHi {
				out[len(out)-1] = hi
			}
			continue
		}
		out = append(out, lo, hi)
	}
	return out
}

// Empty reports whether the set contains no ranges.
func (s IntervalSet) Empty() bool { return len(s.endpoints) == 0 }

// Overlaps reports whether the closed range [start, end] intersects the set.
func (s IntervalSet) Overlaps(start, end int) bool {
	if start > end || len(s.endpoints) == 0 {
		return false
	}
	lo, hi := interval.PosType(start), interval.PosType(end)+1
	idx := interval.SearchPosTypes(s.endpoints, lo+1)
	begin := idx.Begin()
	if int(begin) >= len(s.endpoints) {
		return false
	}
	return s.endpoints[begin] < hi
}

// Ranges returns the closed ranges making up the set, in ascending order.
func (s IntervalSet) Ranges() [][2]int {
	out := make([][2]int, 0, len(s.endpoints)/2)
	for i := 0; i < len(s.endpoints); i += 2 {
		out = append(out, [2]int{int(s.endpoints[i]), int(s.endpoints[i+1]) - 1})
	}
	return out
}

// TraversalNode (T) is the best known path-prefix reaching node within
// [SubStart, SubEnd]. It is created by memoization, possibly sliced into
// narrower sub-intervals as overlaps are resolved, and dropped once a
// superior path supplants it or the driver's iteration completes.
type TraversalNode struct {
	Node *PositionalNode

	// SubStart, SubEnd is the sub-interval of Node's position interval over
	// which this traversal is the best known path.
	// Invariant: Node.StartPosition <= SubStart <= SubEnd <= Node.EndPosition.
	SubStart int
	SubEnd   int

	// Predecessor is the best T leading into this one, or nil for a seed.
	Predecessor *TraversalNode

	// Score is the total path weight: Predecessor.Score + Node.Weight, or
	// just Node.Weight for a seed.
	Score int

	// PathLength is Predecessor.PathLength + 1, or 1 for a seed.
	PathLength int

	// TerminalRanges are the position intervals at which this path
	// represents a valid, local assembly terminus.
	TerminalRanges IntervalSet

	// TerminalLeafAnchorRanges are the position intervals at which this
	// path only reaches a remote anchor, not a genuine local terminus.
	TerminalLeafAnchorRanges IntervalSet

	// alive is cleared by the Memoizer when this T is supplanted. The
	// Frontier consults it during lazy invalidation instead of performing
	// an O(log n) heap removal on every supplant.
	alive bool

	// heapIndex is maintained by container/heap for O(log n) Fix/Remove.
	heapIndex int
}

// isSink reports whether node has no outgoing edges, the condition under
// which a traversal reaching node is itself a candidate assembly terminus:
// there is nowhere further for the Path Builder to extend.
func isSink(node *PositionalNode) bool {
	_, ok := node.Successors().Next()
	return !ok
}

// terminalRangesFor derives the terminal_ranges and terminal_leaf_anchor_ranges
// a T reaching node over [subStart, subEnd] carries. A non-sink node carries
// neither: there's more graph to traverse, so [subStart, subEnd] isn't yet a
// terminus. A sink node's own interval becomes the terminus; which set it
// lands in depends on whether the sink is reference-flagged (a remote
// anchor, not a genuine novel breakend) or not (a local terminus).
func terminalRangesFor(node *PositionalNode, subStart, subEnd int) (terminal, anchor IntervalSet) {
	if !isSink(node) {
		return IntervalSet{}, IntervalSet{}
	}
	if node.IsReference {
		return IntervalSet{}, NewIntervalSet([2]int{subStart, subEnd})
	}
	return NewIntervalSet([2]int{subStart, subEnd}), IntervalSet{}
}

// NewSeedTraversalNode constructs a seed T directly from a PositionalNode,
// with no predecessor. arena may be nil, in which case a fresh allocation is
// made directly; the Memoizer always passes its owning Arena so the backing
// storage can be recycled once the T is supplanted.
func NewSeedTraversalNode(arena *Arena, node *PositionalNode, subStart, subEnd int) *TraversalNode {
	assertSubInterval(node, subStart, subEnd)
	terminal, anchor := terminalRangesFor(node, subStart, subEnd)
	t := allocFrom(arena, node.FirstKmer)
	*t = TraversalNode{
		Node:                     node,
		SubStart:                 subStart,
		SubEnd:                   subEnd,
		Score:                    node.Weight,
		PathLength:               1,
		TerminalRanges:           terminal,
		TerminalLeafAnchorRanges: anchor,
		alive:                    true,
		heapIndex:                -1,
	}
	return t
}

// NewTraversalNode constructs a T extending pred onto node, over the given
// sub-interval, carrying forward node's own weight into the cumulative
// score. arena may be nil; see NewSeedTraversalNode.
func NewTraversalNode(arena *Arena, node *PositionalNode, pred *TraversalNode, subStart, subEnd int) *TraversalNode {
	assertSubInterval(node, subStart, subEnd)
	score := node.Weight
	pathLength := 1
	if pred != nil {
		score += pred.Score
		pathLength = pred.PathLength + 1
	}
	terminal, anchor := terminalRangesFor(node, subStart, subEnd)
	t := allocFrom(arena, node.FirstKmer)
	*t = TraversalNode{
		Node:                     node,
		SubStart:                 subStart,
		SubEnd:                   subEnd,
		Predecessor:              pred,
		Score:                    score,
		PathLength:               pathLength,
		TerminalRanges:           terminal,
		TerminalLeafAnchorRanges: anchor,
		alive:                    true,
		heapIndex:                -1,
	}
	return t
}

// Slice returns a copy of t narrowed to [s, e], a sub-range of t's own
// sub-interval. Predecessor and score are preserved unchanged: slicing
// reflects that a survivng region of t is still reached by the same best
// path, just over less of the position axis. Used exclusively by the
// Memoizer to carve surviving regions after overlap resolution.
func (t *TraversalNode) Slice(arena *Arena, s, e int) *TraversalNode {
	if s < t.SubStart || e > t.SubEnd || s > e {
		panic(errInvalidInterval(s, e, t.SubStart, t.SubEnd))
	}
	// Capture everything needed from t before allocating out: if t has
	// already been freed to arena's pool, out may land on the very same
	// backing struct as t, and allocFrom zeroes it on reuse.
	node := t.Node
	pred := t.Predecessor
	score := t.Score
	pathLength := t.PathLength
	// Recomputed, not carried forward: a narrower sub-interval still
	// terminates exactly where t did, but [s, e] may no longer cover all of
	// t's original terminal_ranges.
	terminal, anchor := terminalRangesFor(node, s, e)

	out := allocFrom(arena, node.FirstKmer)
	*out = TraversalNode{
		Node:                     node,
		SubStart:                 s,
		SubEnd:                   e,
		Predecessor:              pred,
		Score:                    score,
		PathLength:               pathLength,
		TerminalRanges:           terminal,
		TerminalLeafAnchorRanges: anchor,
		alive:                    true,
		heapIndex:                -1,
	}
	return out
}

func allocFrom(arena *Arena, firstKmer uint64) *TraversalNode {
	if arena == nil {
		return &TraversalNode{}
	}
	return arena.Alloc(firstKmer)
}

// Alive reports whether t is still present in the Memoizer's ordered index.
func (t *TraversalNode) Alive() bool { return t.alive }

func assertSubInterval(node *PositionalNode, subStart, subEnd int) {
	if subStart < node.StartPosition || subEnd > node.EndPosition || subStart > subEnd {
		panic(errInvalidInterval(subStart, subEnd, node.StartPosition, node.EndPosition))
	}
}
