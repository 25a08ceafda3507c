package assembly

import "github.com/grailbio/svassembly/circular"

// consumedTracker records the position spans consumed by already-emitted
// contigs, so that the driver can discount evidence a later candidate would
// otherwise double-count. It is a purpose-built replacement for fusion's
// columnar pileup Bitmap: that type is sized for per-base coverage columns
// keyed by read index, which doesn't fit a single append-only union of
// consumed ranges across one subgraph's position axis.
type consumedTracker struct {
	ranges IntervalSet
}

// newConsumedTracker sizes the tracker for a subgraph no wider than
// Opts.MaxSubgraphWidth, padded by Opts.SubgraphAssemblyMargin on either
// side. circular.NextExp2 rounds the hint up to the backing slice capacity
// a sharded arena would use, keeping the sizing convention consistent
// across the engine.
func newConsumedTracker(opts Opts) *consumedTracker {
	width := opts.MaxSubgraphWidth + 2*opts.SubgraphAssemblyMargin
	expectedRanges := circular.NextExp2(width/maxExpectedRangeWidth + 1)
	return &consumedTracker{ranges: NewIntervalSetWithCapacity(expectedRanges)}
}

// maxExpectedRangeWidth is a rough per-contig span used only to turn a
// subgraph's positional width into a ballpark range count for sizing the
// tracker's backing slice.
const maxExpectedRangeWidth = 256

// add marks [start, end] as consumed.
func (c *consumedTracker) add(start, end int) {
	c.ranges = c.ranges.Add(start, end)
}

// overlaps reports whether any portion of [start, end] has already been
// consumed.
func (c *consumedTracker) overlaps(start, end int) bool {
	return c.ranges.Overlaps(start, end)
}
