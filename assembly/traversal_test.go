package assembly

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestIntervalSetAddCoalescesAdjacentRanges(t *testing.T) {
	s := NewIntervalSet()
	s = s.Add(10, 20)
	s = s.Add(21, 30)
	expect.EQ(t, s.Ranges(), [][2]int{{10, 30}})
}

func TestIntervalSetAddMergesOverlapping(t *testing.T) {
	s := NewIntervalSet([2]int{0, 10})
	s = s.Add(5, 15)
	expect.EQ(t, s.Ranges(), [][2]int{{0, 15}})
}

func TestIntervalSetAddKeepsDisjointRangesSeparate(t *testing.T) {
	s := NewIntervalSet([2]int{0, 5})
	s = s.Add(10, 15)
	expect.EQ(t, s.Ranges(), [][2]int{{0, 5}, {10, 15}})
}

func TestIntervalSetOverlaps(t *testing.T) {
	s := NewIntervalSet([2]int{10, 20}, [2]int{30, 40})
	expect.True(t, s.Overlaps(15, 16))
	expect.True(t, s.Overlaps(20, 25))
	expect.True(t, s.Overlaps(5, 30))
	expect.False(t, s.Overlaps(21, 29))
	expect.False(t, s.Overlaps(41, 50))
}

func TestIntervalSetEmpty(t *testing.T) {
	var s IntervalSet
	expect.True(t, s.Empty())
	s = s.Add(1, 1)
	expect.False(t, s.Empty())
}

func TestNewPositionalNodePanicsOnEmptyInterval(t *testing.T) {
	defer func() {
		r := recover()
		expect.NotNil(t, r)
	}()
	NewPositionalNode(1, 10, 5, 1, 1, false, nil)
}

func TestNewPositionalNodePanicsOnZeroLength(t *testing.T) {
	defer func() {
		r := recover()
		expect.NotNil(t, r)
	}()
	NewPositionalNode(1, 0, 10, 0, 1, false, nil)
}

func TestNewPositionalNodePanicsOnNegativeWeight(t *testing.T) {
	defer func() {
		r := recover()
		expect.NotNil(t, r)
	}()
	NewPositionalNode(1, 0, 10, 1, -1, false, nil)
}

func TestPositionalNodeSinkHasEmptySuccessors(t *testing.T) {
	n := NewPositionalNode(1, 0, 10, 1, 1, false, nil)
	_, ok := n.Successors().Next()
	expect.False(t, ok)
	expect.True(t, isSink(n))
}

func TestPositionalNodeSuccessorsRestartable(t *testing.T) {
	child := NewPositionalNode(2, 11, 11, 1, 1, false, nil)
	n := NewPositionalNode(1, 0, 10, 1, 1, false, NewSliceSuccessors([]Successor{
		{Node: child, SubStart: 11, SubEnd: 11},
	}))

	it1 := n.Successors()
	s1, ok1 := it1.Next()
	expect.True(t, ok1)
	expect.EQ(t, s1.Node.FirstKmer, uint64(2))

	it2 := n.Successors()
	s2, ok2 := it2.Next()
	expect.True(t, ok2)
	expect.EQ(t, s2.Node.FirstKmer, uint64(2))
	expect.False(t, isSink(n))
}

func TestSliceRecomputesTerminalRangesForNarrowedInterval(t *testing.T) {
	arena := NewArena(4)
	sink := NewPositionalNode(1, 0, 20, 1, 1, false, nil)
	seed := NewSeedTraversalNode(arena, sink, 0, 20)
	expect.EQ(t, seed.TerminalRanges.Ranges(), [][2]int{{0, 20}})

	narrowed := seed.Slice(arena, 0, 10)
	expect.EQ(t, narrowed.TerminalRanges.Ranges(), [][2]int{{0, 10}})
}
