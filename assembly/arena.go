package assembly

import (
	farm "github.com/dgryski/go-farm"

	"github.com/grailbio/svassembly/circular"
)

// arenaShards is the number of shards the Arena hashes TraversalNode
// ownership across, mirroring fusion's kmerIndex sharding (there, 256 shards
// selected by the low bits of farmhash(kmer)).
const arenaShards = 256

// Arena owns TraversalNode allocation for one driver's Memoizer. It shards
// by first_kmer hash, same as kmer_index.go's shard selection, and keeps a
// small per-shard free-list so that a supplanted T's backing allocation can
// be recycled by the next memoize() call instead of left for the GC —
// mirroring fusion's Stitcher.freePool pattern for Fragment reuse.
//
// Unlike kmer_index's shards, the Arena cannot live in an anonymous mmap
// region: a TraversalNode holds live Go pointers (Predecessor, and slices
// inside IntervalSet) that the garbage collector must be able to scan, and
// an unmanaged memory region is invisible to it. circular.NextExp2 still
// sizes each shard's free-list capacity, the same role it plays for
// kmer_index's hash-table sizing.
type Arena struct {
	shards [arenaShards]arenaShard
}

type arenaShard struct {
	freeList []*TraversalNode
}

// NewArena constructs an empty Arena. expectedNodesPerShard is a sizing
// hint; the free-list capacity for each shard is rounded up to the next
// power of two via circular.NextExp2, bounding reallocation churn under
// bursty supplant/insert cycles.
func NewArena(expectedNodesPerShard int) *Arena {
	cap := circular.NextExp2(expectedNodesPerShard)
	a := &Arena{}
	for i := range a.shards {
		a.shards[i].freeList = make([]*TraversalNode, 0, cap)
	}
	return a
}

// shardFor returns the shard index owning first_kmer, selected the same way
// fusion's kmerIndex picks a shard: low bits of farm.Hash64WithSeed.
func shardFor(firstKmer uint64) int {
	h := farm.Hash64WithSeed(nil, firstKmer)
	return int(h & (arenaShards - 1))
}

// Alloc returns a TraversalNode ready for NewTraversalNode/NewSeedTraversalNode
// to populate, reusing a freed allocation from first_kmer's shard when one is
// available.
func (a *Arena) Alloc(firstKmer uint64) *TraversalNode {
	shard := &a.shards[shardFor(firstKmer)]
	if l := len(shard.freeList); l > 0 {
		t := shard.freeList[l-1]
		shard.freeList = shard.freeList[:l-1]
		*t = TraversalNode{}
		return t
	}
	return &TraversalNode{}
}

// Free returns t to its shard's free-list. The caller must not retain any
// reference to t afterward: the Memoizer calls this only once a T has been
// supplanted and removed from the ordered index, and nothing else in the
// engine may still hold a pointer to it (Path Builder borrows T's only for
// the lifetime of a single emission, which precedes the next memoize()).
func (a *Arena) Free(t *TraversalNode) {
	t.alive = false
	shard := &a.shards[shardFor(t.Node.FirstKmer)]
	if len(shard.freeList) >= cap(shard.freeList) {
		return
	}
	shard.freeList = append(shard.freeList, t)
}
