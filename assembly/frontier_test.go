package assembly

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func mkAliveT(firstKmer uint64, subEnd, length int) *TraversalNode {
	node := NewPositionalNode(firstKmer, 0, subEnd+length, length, 1, false, nil)
	return &TraversalNode{Node: node, SubStart: 0, SubEnd: subEnd, alive: true, heapIndex: -1}
}

func TestFrontierOrdersBySubEndPlusLength(t *testing.T) {
	f := newFrontier()
	a := mkAliveT(1, 20, 1)
	b := mkAliveT(2, 5, 1)
	c := mkAliveT(3, 10, 1)
	f.push(a)
	f.push(b)
	f.push(c)

	expect.EQ(t, f.poll(), b)
	expect.EQ(t, f.poll(), c)
	expect.EQ(t, f.poll(), a)
	expect.Nil(t, f.poll())
}

func TestFrontierLazyInvalidationSkipsDeadHead(t *testing.T) {
	f := newFrontier()
	a := mkAliveT(1, 5, 1)
	b := mkAliveT(2, 10, 1)
	f.push(a)
	f.push(b)

	a.alive = false
	expect.EQ(t, f.peek(), b)
	expect.EQ(t, f.poll(), b)
}

func TestFrontierCompactDropsDeadEntries(t *testing.T) {
	f := newFrontier()
	a := mkAliveT(1, 5, 1)
	b := mkAliveT(2, 10, 1)
	c := mkAliveT(3, 15, 1)
	f.push(a)
	f.push(b)
	f.push(c)

	b.alive = false
	expect.EQ(t, f.size(), 3)
	f.compact()
	expect.EQ(t, f.size(), 2)

	expect.EQ(t, f.poll(), a)
	expect.EQ(t, f.poll(), c)
}
