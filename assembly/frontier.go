package assembly

import "container/heap"

// frontier is the Frontier: a min-heap over TraversalNodes ordered by
// sub_end + node.length, the earliest position at which downstream work
// becomes unblocked. It follows the lazy-invalidation idiom used for
// shortest-path lazy-decrease-key heaps: instead of paying for an O(log n)
// heap removal every time a T is supplanted, stale entries are simply left
// in the heap and skipped over (and ultimately dropped) the next time they
// reach the top.
type frontier struct {
	h frontierHeap
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(&f.h)
	return f
}

// push adds t to the heap. t must already be alive in the Memoizer's index;
// push does not itself mark it alive.
func (f *frontier) push(t *TraversalNode) {
	heap.Push(&f.h, t)
}

// flushInvalidHead discards heap-top entries that are no longer alive,
// restoring the invariant that the top is either alive or the heap is
// empty.
func (f *frontier) flushInvalidHead() {
	for len(f.h) > 0 && !f.h[0].alive {
		heap.Pop(&f.h)
	}
}

// peek returns the best alive T without removing it, or nil if drained.
func (f *frontier) peek() *TraversalNode {
	f.flushInvalidHead()
	if len(f.h) == 0 {
		return nil
	}
	return f.h[0]
}

// poll returns and removes the best alive T, or nil if drained.
func (f *frontier) poll() *TraversalNode {
	f.flushInvalidHead()
	if len(f.h) == 0 {
		return nil
	}
	return heap.Pop(&f.h).(*TraversalNode)
}

// compact rebuilds the heap with only the entries still alive, bounding
// memory growth from accumulated stale entries. Callers should invoke this
// once the heap's size exceeds roughly 2x the Memoizer's alive-entry count.
func (f *frontier) compact() {
	live := f.h[:0]
	for _, t := range f.h {
		if t.alive {
			live = append(live, t)
		}
	}
	f.h = live
	heap.Init(&f.h)
}

// size returns the raw heap length, including any not-yet-flushed stale
// entries; used to decide when compact is due.
func (f *frontier) size() int { return len(f.h) }

// frontierKey is the heap's sort key: sub_end + node.length, the earliest
// position at which a successor of this T could itself become reachable.
func frontierKey(t *TraversalNode) int { return t.SubEnd + t.Node.Length }

type frontierHeap []*TraversalNode

func (h frontierHeap) Len() int { return len(h) }
func (h frontierHeap) Less(i, j int) bool {
	return frontierKey(h[i]) < frontierKey(h[j])
}
func (h frontierHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *frontierHeap) Push(x interface{}) {
	t := x.(*TraversalNode)
	t.heapIndex = len(*h)
	*h = append(*h, t)
}

func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.heapIndex = -1
	*h = old[:n-1]
	return t
}
