package assembly

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestGreedyTraverseLinearDAG(t *testing.T) {
	// Concrete scenario 1: a straight chain A -> B -> C. Greedy extension
	// has only one successor to pick at each step, and should walk the
	// whole chain, landing on C's genuine local terminus.
	c := NewPositionalNode(3, 12, 12, 1, 3, false, nil)
	b := NewPositionalNode(2, 11, 11, 1, 2, false, NewSliceSuccessors([]Successor{
		{Node: c, SubStart: 12, SubEnd: 12},
	}))
	a := NewPositionalNode(1, 10, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: b, SubStart: 11, SubEnd: 11},
	}))

	arena := NewArena(16)
	root := NewSeedTraversalNode(arena, a, 10, 10)
	path := NewPath(DefaultOpts, root)
	expect.NoError(t, path.greedyTraverse(arena, true, true))

	nodes := path.Nodes()
	expect.EQ(t, len(nodes), 3)
	expect.EQ(t, nodes[0].Node.FirstKmer, uint64(1))
	expect.EQ(t, nodes[1].Node.FirstKmer, uint64(2))
	expect.EQ(t, nodes[2].Node.FirstKmer, uint64(3))
	expect.EQ(t, path.currentWeight(), 6)
	expect.EQ(t, path.currentLength(), 3)
	expect.False(t, path.terminalRanges().Empty())
	expect.EQ(t, path.terminalRanges().Ranges(), [][2]int{{12, 12}})
	expect.True(t, path.terminalLeafAnchorRanges().Empty())
}

func TestGreedyTraverseBranchingTieFirstWins(t *testing.T) {
	// Concrete scenario 2: A has two equally-weighted successors B and C.
	// greedyTraverse always extends to its single best candidate, so a tie
	// resolves to whichever the successor iterator yields first.
	b := NewPositionalNode(2, 11, 11, 1, 5, false, nil)
	c := NewPositionalNode(3, 11, 11, 1, 5, false, nil)
	a := NewPositionalNode(1, 10, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: b, SubStart: 11, SubEnd: 11},
		{Node: c, SubStart: 11, SubEnd: 11},
	}))

	arena := NewArena(16)
	root := NewSeedTraversalNode(arena, a, 10, 10)
	path := NewPath(DefaultOpts, root)
	expect.NoError(t, path.greedyTraverse(arena, true, true))

	nodes := path.Nodes()
	expect.EQ(t, len(nodes), 2)
	expect.EQ(t, nodes[1].Node.FirstKmer, uint64(2))
	expect.EQ(t, path.currentWeight(), 6)
	expect.EQ(t, path.currentLength(), 2)
}

func TestGreedyTraverseHonorsReferenceFilter(t *testing.T) {
	ref := NewPositionalNode(2, 11, 11, 1, 9, true, nil)
	nonRef := NewPositionalNode(3, 11, 11, 1, 1, false, nil)
	a := NewPositionalNode(1, 10, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: ref, SubStart: 11, SubEnd: 11},
		{Node: nonRef, SubStart: 11, SubEnd: 11},
	}))

	arena := NewArena(16)
	root := NewSeedTraversalNode(arena, a, 10, 10)
	path := NewPath(DefaultOpts, root)
	expect.NoError(t, path.greedyTraverse(arena, false, true))

	nodes := path.Nodes()
	expect.EQ(t, len(nodes), 2)
	expect.EQ(t, nodes[1].Node.FirstKmer, uint64(3))
}

func TestNextChildRespectsBranchingFactor(t *testing.T) {
	b := NewPositionalNode(2, 11, 11, 1, 1, false, nil)
	c := NewPositionalNode(3, 11, 11, 1, 1, false, nil)
	a := NewPositionalNode(1, 10, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: b, SubStart: 11, SubEnd: 11},
		{Node: c, SubStart: 11, SubEnd: 11},
	}))

	arena := NewArena(16)
	opts := DefaultOpts
	opts.BranchingFactor = 1
	root := NewSeedTraversalNode(arena, a, 10, 10)
	path := NewPath(opts, root)

	ok, err := path.nextChild(arena)
	expect.True(t, ok)
	expect.NoError(t, err)
	expect.EQ(t, path.head().Node.FirstKmer, uint64(2))

	path.pop()
	ok, err = path.nextChild(arena)
	expect.False(t, ok)
	expect.NoError(t, err)
}

func TestResetChildrenRewindsIterator(t *testing.T) {
	b := NewPositionalNode(2, 11, 11, 1, 1, false, nil)
	a := NewPositionalNode(1, 10, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: b, SubStart: 11, SubEnd: 11},
	}))

	arena := NewArena(16)
	opts := DefaultOpts
	opts.BranchingFactor = 1
	root := NewSeedTraversalNode(arena, a, 10, 10)
	path := NewPath(opts, root)

	ok, err := path.nextChild(arena)
	expect.True(t, ok)
	expect.NoError(t, err)
	path.pop()
	ok, err = path.nextChild(arena)
	expect.False(t, ok)
	expect.NoError(t, err)

	path.resetChildren()
	ok, err = path.nextChild(arena)
	expect.True(t, ok)
	expect.NoError(t, err)
}

func TestReverseDirectionPushesAtRoot(t *testing.T) {
	// A Reverse path extends past the root instead of past the head: push
	// must prepend, pop must remove from the front, and head() must track
	// index 0 — while Nodes() still reports canonical root-to-head order to
	// external callers.
	b := NewPositionalNode(2, 11, 11, 1, 2, false, nil)
	a := NewPositionalNode(1, 10, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: b, SubStart: 11, SubEnd: 11},
	}))

	arena := NewArena(16)
	root := NewSeedTraversalNode(arena, b, 11, 11)
	path := NewDirectedPath(DefaultOpts, root, Reverse)
	expect.EQ(t, path.head().Node.FirstKmer, uint64(2))

	extension := NewTraversalNode(arena, a, root, 10, 10)
	path.push(extension)
	expect.EQ(t, path.head().Node.FirstKmer, uint64(1))
	expect.EQ(t, len(path.nodes), 2)
	expect.EQ(t, path.nodes[0].Node.FirstKmer, uint64(1))
	expect.EQ(t, path.nodes[1].Node.FirstKmer, uint64(2))

	// Nodes() still reports root-to-head order: b is the root this path was
	// seeded from, a is the head it was extended to.
	nodes := path.Nodes()
	expect.EQ(t, len(nodes), 2)
	expect.EQ(t, nodes[0].Node.FirstKmer, uint64(2))
	expect.EQ(t, nodes[1].Node.FirstKmer, uint64(1))

	path.pop()
	expect.EQ(t, path.head().Node.FirstKmer, uint64(2))
	expect.EQ(t, len(path.nodes), 1)
}

func TestPathPopPanicsAtRoot(t *testing.T) {
	a := NewPositionalNode(1, 10, 10, 1, 1, false, nil)
	arena := NewArena(16)
	root := NewSeedTraversalNode(arena, a, 10, 10)
	path := NewPath(DefaultOpts, root)

	defer func() {
		r := recover()
		expect.NotNil(t, r)
	}()
	path.pop()
}
