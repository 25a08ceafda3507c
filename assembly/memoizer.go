package assembly

import (
	"blainsmith.com/go/seahash"
	"github.com/biogo/store/llrb"
)

// memoizerShards is the number of shards the Memoizer hashes first_kmer
// values across. Each shard owns an independent map of per-kmer ordered
// indexes, so unrelated k-mers never contend or get scanned together —
// the same sharding shape as bamprovider's concurrentMap, but keyed on
// seahash of the k-mer's bytes rather than a read name.
const memoizerShards = 256

// kmerIndexEntry is a llrb.Comparable ordering TraversalNodes that share a
// first_kmer by (SubStart, SubEnd, Score). Because the memoized-disjointness
// invariant holds for any given k-mer, a kmer's own tree stays small: the
// tree never needs to hold two alive, overlapping entries.
type kmerIndexEntry struct {
	t *TraversalNode
}

func (e kmerIndexEntry) Compare(other llrb.Comparable) int {
	o := other.(kmerIndexEntry).t
	t := e.t
	if d := t.SubStart - o.SubStart; d != 0 {
		return d
	}
	if d := t.SubEnd - o.SubEnd; d != 0 {
		return d
	}
	return t.Score - o.Score
}

type memoizerShard struct {
	// byKmer maps a first_kmer to the llrb.Tree ordering its (necessarily
	// disjoint) alive TraversalNodes by sub-interval.
	byKmer map[uint64]*llrb.Tree
}

// Memoizer is the interval-indexed best-score map at the heart of the
// engine: candidate TraversalNodes are accepted via Memoize, which slices
// and replaces overlapping entries so that, for any k-mer, the alive set
// covers each position with only its best-scoring T.
type Memoizer struct {
	opts   Opts
	arena  *Arena
	shards [memoizerShards]memoizerShard

	frontier *frontier
}

// NewMemoizer constructs an empty Memoizer backed by arena for T allocation
// and recycling.
func NewMemoizer(opts Opts, arena *Arena) *Memoizer {
	m := &Memoizer{opts: opts, arena: arena, frontier: newFrontier()}
	for i := range m.shards {
		m.shards[i].byKmer = make(map[uint64]*llrb.Tree)
	}
	return m
}

func kmerShard(firstKmer uint64) int {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(firstKmer >> (8 * i))
	}
	return int(seahash.Sum64(buf[:]) & (memoizerShards - 1))
}

func (m *Memoizer) treeFor(firstKmer uint64) *llrb.Tree {
	shard := &m.shards[kmerShard(firstKmer)]
	tree, ok := shard.byKmer[firstKmer]
	if !ok {
		tree = &llrb.Tree{}
		shard.byKmer[firstKmer] = tree
	}
	return tree
}

// overlapping collects, in ascending sub_start order, the alive entries in
// tree whose [SubStart, SubEnd] overlaps [s, e]. Because alive entries for a
// single k-mer are pairwise disjoint, this never returns more entries than
// the eventual result has distinct covering pieces.
func overlapping(tree *llrb.Tree, s, e int) []*TraversalNode {
	var out []*TraversalNode
	tree.Do(func(item llrb.Comparable) bool {
		t := item.(kmerIndexEntry).t
		if t.SubStart > e {
			return false
		}
		if t.SubEnd >= s {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Memoize accepts a candidate TraversalNode, as described in section 4.C:
// among stored T's sharing candidate's first_kmer whose sub-intervals
// overlap [candidate.SubStart, candidate.SubEnd], retain only the one with
// strictly greater score at each position; ties favor the existing entry.
// Surviving slices (of both candidate and any partly-overwritten existing
// entries) are added to the ordered index and offered to the Frontier.
func (m *Memoizer) Memoize(candidate *TraversalNode) {
	firstKmer := candidate.Node.FirstKmer
	tree := m.treeFor(firstKmer)

	existing := overlapping(tree, candidate.SubStart, candidate.SubEnd)
	if len(existing) == 0 {
		m.insert(tree, candidate)
		return
	}
	if cur := m.resolveOverlap(tree, candidate, existing); cur != nil {
		m.insert(tree, cur)
	}
}

// resolveOverlap processes the left-to-right overlapping existing entries
// against cur, applying 4.C step 2, and returns the remaining portion of
// cur still to be inserted, or nil if cur has been fully consumed (a slice
// of it already inserted, or narrowed to empty). existing was captured
// before any mutation, and narrowing cur only ever shrinks its interval, so
// it can never come to overlap anything outside existing: no second pass
// over the tree is needed once this loop finishes.
func (m *Memoizer) resolveOverlap(tree *llrb.Tree, candidate *TraversalNode, existing []*TraversalNode) *TraversalNode {
	cur := candidate
	for _, ex := range existing {
		if cur == nil {
			return nil
		}
		if ex.SubEnd < cur.SubStart || ex.SubStart > cur.SubEnd {
			continue
		}
		if cur.Score > ex.Score {
			// candidate wins this overlap: remove ex, keep surviving
			// slices of ex outside [cur.SubStart, cur.SubEnd]. Both slices
			// are cut before ex is freed, so neither can reuse ex's storage.
			var left, right *TraversalNode
			if ex.SubStart < cur.SubStart {
				left = ex.Slice(m.arena, ex.SubStart, cur.SubStart-1)
			}
			if ex.SubEnd > cur.SubEnd {
				right = ex.Slice(m.arena, cur.SubEnd+1, ex.SubEnd)
			}
			m.remove(tree, ex)
			if left != nil {
				m.insert(tree, left)
			}
			if right != nil {
				m.insert(tree, right)
			}
			continue
		}
		// ex wins (or ties): narrow cur to the portion of its interval
		// not covered by ex.
		if cur.SubStart < ex.SubStart {
			m.insert(tree, cur.Slice(m.arena, cur.SubStart, ex.SubStart-1))
		}
		newStart := ex.SubEnd + 1
		prev := cur
		if newStart > cur.SubEnd {
			cur = nil
		} else {
			cur = cur.Slice(m.arena, newStart, cur.SubEnd)
		}
		if m.arena != nil {
			m.arena.Free(prev)
		}
	}
	return cur
}

func (m *Memoizer) insert(tree *llrb.Tree, t *TraversalNode) {
	t.alive = true
	tree.Insert(kmerIndexEntry{t: t})
	m.frontier.push(t)
	if m.frontier.size() > 2*m.Len() {
		m.frontier.compact()
	}
}

func (m *Memoizer) remove(tree *llrb.Tree, t *TraversalNode) {
	tree.Delete(kmerIndexEntry{t: t})
	t.alive = false
	if m.arena != nil {
		m.arena.Free(t)
	}
}

// PollFrontier returns the alive TraversalNode with the smallest
// sub_end+node.length, removing it from the Frontier but leaving it alive
// in the Memoizer's index (the Assembly Driver still needs to reach it via
// Predecessor chains from later-emitted paths). Polling alone never retires
// a T: being supplanted, or an explicit Retire, does. Returns nil if the
// frontier is drained.
func (m *Memoizer) PollFrontier() *TraversalNode {
	return m.frontier.poll()
}

// PeekFrontier is PollFrontier without removing the entry.
func (m *Memoizer) PeekFrontier() *TraversalNode {
	return m.frontier.peek()
}

// Retire removes t from the Memoizer's ordered index and frontier, if it is
// still alive there. The Assembly Driver calls this for every node on a path
// it has just emitted: that evidence has now been spoken for by a contig, so
// the node must not remain reachable as a future frontier candidate, even
// though nothing has supplanted it.
func (m *Memoizer) Retire(t *TraversalNode) {
	if !t.alive {
		return
	}
	tree := m.treeFor(t.Node.FirstKmer)
	m.remove(tree, t)
}

// Alive reports whether t is still present in the Memoizer's ordered index.
func (m *Memoizer) Alive(t *TraversalNode) bool {
	return t.alive
}

// Len returns the total number of alive entries across all k-mers, mostly
// useful for the Frontier's periodic-compaction trigger (compact once
// frontier size exceeds 2x this count).
func (m *Memoizer) Len() int {
	n := 0
	for i := range m.shards {
		for _, tree := range m.shards[i].byKmer {
			n += tree.Len()
		}
	}
	return n
}
