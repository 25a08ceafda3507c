package assembly

import (
	"testing"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/testutil/expect"
)

func mkNode(firstKmer uint64, start, end, length, weight int, isRef bool) *PositionalNode {
	return NewPositionalNode(firstKmer, start, end, length, weight, isRef, nil)
}

// aliveRanges returns the alive sub-intervals for firstKmer, in ascending
// sub_start order, as stored in m's ordered index.
func aliveRanges(m *Memoizer, firstKmer uint64) [][2]int {
	tree := m.treeFor(firstKmer)
	var out [][2]int
	tree.Do(func(item llrb.Comparable) bool {
		e := item.(kmerIndexEntry)
		out = append(out, [2]int{e.t.SubStart, e.t.SubEnd})
		return true
	})
	return out
}

func TestMemoizeOverlapSlicing(t *testing.T) {
	// Concrete scenario 3: memoize T1 [100,110] score 5, then T2 [105,115]
	// score 8. Post-state: {T1'=[100,104] score 5, T2=[105,115] score 8}.
	arena := NewArena(16)
	m := NewMemoizer(DefaultOpts, arena)

	node := mkNode(7, 100, 120, 1, 5, false)
	t1 := NewSeedTraversalNode(arena, node, 100, 110)
	m.Memoize(t1)

	node2 := mkNode(7, 100, 120, 1, 8, false)
	t2 := NewSeedTraversalNode(arena, node2, 105, 115)
	m.Memoize(t2)

	got := aliveRanges(m, 7)
	expect.EQ(t, len(got), 2)
	expect.EQ(t, got[0], [2]int{100, 104})
	expect.EQ(t, got[1], [2]int{105, 115})
}

func TestMemoizeDominatedCandidateDropped(t *testing.T) {
	// Concrete scenario 4: existing [100,120] score 10; candidate
	// [105,115] score 10 -> candidate dropped, existing unchanged.
	arena := NewArena(16)
	m := NewMemoizer(DefaultOpts, arena)

	existingNode := mkNode(3, 100, 120, 1, 10, false)
	existing := NewSeedTraversalNode(arena, existingNode, 100, 120)
	m.Memoize(existing)

	candidateNode := mkNode(3, 100, 120, 1, 10, false)
	candidate := NewSeedTraversalNode(arena, candidateNode, 105, 115)
	m.Memoize(candidate)

	got := aliveRanges(m, 3)
	expect.EQ(t, len(got), 1)
	expect.EQ(t, got[0], [2]int{100, 120})
}

func TestMemoizeExactTieKeepsExisting(t *testing.T) {
	arena := NewArena(16)
	m := NewMemoizer(DefaultOpts, arena)

	existingNode := mkNode(9, 0, 50, 1, 4, false)
	existing := NewSeedTraversalNode(arena, existingNode, 10, 20)
	m.Memoize(existing)

	candidateNode := mkNode(9, 0, 50, 1, 4, false)
	candidate := NewSeedTraversalNode(arena, candidateNode, 10, 20)
	m.Memoize(candidate)

	expect.True(t, existing.Alive())
	expect.False(t, candidate.Alive())
}

func TestMemoizeDisjointness(t *testing.T) {
	// Property: alive T's sharing a k-mer never overlap, across a chain of
	// overlapping inserts with varying score.
	arena := NewArena(16)
	m := NewMemoizer(DefaultOpts, arena)

	inserts := [][3]int{
		{0, 100, 1},
		{50, 150, 2},
		{120, 220, 3},
		{10, 40, 5},
	}
	for _, in := range inserts {
		n := mkNode(42, 0, 1000, 1, in[2], false)
		m.Memoize(NewSeedTraversalNode(arena, n, in[0], in[1]))
	}

	ranges := aliveRanges(m, 42)
	for i := 1; i < len(ranges); i++ {
		expect.True(t, ranges[i-1][1] < ranges[i][0])
	}
}

func TestFrontierFreshness(t *testing.T) {
	arena := NewArena(16)
	m := NewMemoizer(DefaultOpts, arena)

	n1 := mkNode(1, 0, 10, 1, 5, false)
	t1 := NewSeedTraversalNode(arena, n1, 0, 10)
	m.Memoize(t1)

	n2 := mkNode(1, 0, 10, 1, 9, false)
	t2 := NewSeedTraversalNode(arena, n2, 0, 10)
	m.Memoize(t2)

	polled := m.PollFrontier()
	expect.NotNil(t, polled)
	expect.True(t, polled.Alive())
	expect.EQ(t, polled.Score, 9)
}
