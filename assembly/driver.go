package assembly

import (
	"github.com/minio/highwayhash"

	"github.com/grailbio/base/log"
	"v.io/x/lib/vlog"
)

// DriverState names the Assembly Driver's state, per section 4.F:
// Idle -> Polling -> Building -> Emitting -> Polling ..., with Drained and
// Capped as terminal states.
type DriverState int

const (
	StateIdle DriverState = iota
	StatePolling
	StateBuilding
	StateEmitting
	StateDrained
	StateCapped
)

func (s DriverState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePolling:
		return "Polling"
	case StateBuilding:
		return "Building"
	case StateEmitting:
		return "Emitting"
	case StateDrained:
		return "Drained"
	case StateCapped:
		return "Capped"
	default:
		return "Unknown"
	}
}

// fingerprintKey is the zero seed highwayhash uses for supporting-evidence
// fingerprints, the same convention fusion's postprocess.go uses when
// hashing a candidate's constituent gene IDs.
var fingerprintKey = [highwayhash.Size]uint8{}

// Contig is one assembled candidate path, as delivered to the Assembly
// Driver's caller: the path itself, its total weight, a fingerprint
// summarizing the k-mer evidence it consumed (for downstream dedup across
// contigs), and the Acceptance Filter's verdict.
type Contig struct {
	Nodes       []*TraversalNode
	Weight      int
	Fingerprint [highwayhash.Size]uint8
	Filter      FilterResult
}

// Driver is the Assembly Driver: it repeatedly polls the Memoizer's
// frontier, reconstructs and extends the best path, and emits it as a
// Contig (after consulting the Acceptance Filter), enforcing the
// per-iteration contig cap and the per-path traversal-node budget.
type Driver struct {
	opts     Opts
	arena    *Arena
	memo     *Memoizer
	consumed *consumedTracker
	state    DriverState
	stats    Stats

	emittedThisIteration int

	// err holds a *GraphProviderFault once Next has encountered one; the
	// driver halts permanently at that point, per section 7's kind 3
	// handling, rather than attempting to continue past bad provider data.
	err error
}

// NewDriver constructs a Driver over a fresh Memoizer and Arena.
func NewDriver(opts Opts) *Driver {
	arena := NewArena(1024)
	return &Driver{
		opts:     opts,
		arena:    arena,
		memo:     NewMemoizer(opts, arena),
		consumed: newConsumedTracker(opts),
		state:    StateIdle,
	}
}

// Seed hands a PositionalNode's starting sub-interval to the Memoizer as a
// seed TraversalNode. Whether this seed alone already represents a valid
// assembly terminus is derived from node's own topology: a sink node (no
// successors) terminates here; everything else waits for the Path Builder
// to reach a sink by extension.
//
// Seed returns a *GraphProviderFault, without memoizing anything, if
// [subStart, subEnd] lies outside node's own position interval: the caller
// supplied the interval, so a malformed one is the external graph provider's
// fault, not an internal invariant violation.
func (d *Driver) Seed(node *PositionalNode, subStart, subEnd int) error {
	if err := validateProviderInterval(node, subStart, subEnd); err != nil {
		return err
	}
	t := NewSeedTraversalNode(d.arena, node, subStart, subEnd)
	if d.consumedOverlap(node, subStart, subEnd) {
		// Evidence already consumed by an earlier emission; discount this
		// seed's contribution so it cannot outcompete a fresh candidate
		// purely by double-counting the same reads.
		t.Score = 0
	}
	d.memo.Memoize(t)
	return nil
}

// consumedOverlap reports whether [subStart, subEnd] has already been
// consumed by a prior emission, honoring the reference-kmer-reuse
// exemption.
func (d *Driver) consumedOverlap(node *PositionalNode, subStart, subEnd int) bool {
	if node.IsReference && d.opts.AllowReferenceKmerReuse {
		return false
	}
	return d.consumed.overlaps(subStart, subEnd)
}

// Stats returns the driver's accumulated counters.
func (d *Driver) Stats() Stats { return d.stats }

// State returns the driver's current state.
func (d *Driver) State() DriverState { return d.state }

// Err returns the *GraphProviderFault that halted the driver, if any. Once
// set, Next always returns (Contig{}, false); the driver does not attempt to
// resume past malformed provider data.
func (d *Driver) Err() error { return d.err }

// Next runs one iteration of the driver's state machine and returns the
// next emitted Contig, or ok=false once the driver reaches a terminal
// state (Drained or Capped).
func (d *Driver) Next() (contig Contig, ok bool) {
	if d.err != nil || d.state == StateDrained || d.state == StateCapped {
		return Contig{}, false
	}
	if d.emittedThisIteration >= d.opts.MaxContigsPerIteration {
		d.state = StateCapped
		return Contig{}, false
	}

	d.state = StatePolling
	best := d.memo.PollFrontier()
	if best == nil {
		d.state = StateDrained
		return Contig{}, false
	}
	d.stats.Polled++
	vlog.VI(2).Infof("assembly: polled kmer=%d sub=[%d,%d] score=%d", best.Node.FirstKmer, best.SubStart, best.SubEnd, best.Score)

	d.state = StateBuilding
	path, budgetExceeded, err := d.buildPath(best)
	if err != nil {
		// A *GraphProviderFault: the external graph provider supplied a
		// malformed successor edge. This is section 7's kind 3, not an
		// internal invariant violation, so it is surfaced to the caller
		// instead of continuing to build on bad data.
		d.err = err
		log.Printf("assembly: halting on graph provider fault: %v", err)
		return Contig{}, false
	}
	if budgetExceeded {
		d.stats.BudgetExhausted++
		log.Debug.Printf("assembly: abandoning path at kmer=%d, exceeded max_path_traversal_nodes=%d", best.Node.FirstKmer, d.opts.MaxPathTraversalNodes)
		return d.Next()
	}

	if path.terminalRanges().Empty() && path.terminalLeafAnchorRanges().Empty() {
		// No valid terminus reached; this path isn't a candidate contig.
		// Move on to the next frontier entry.
		return d.Next()
	}

	d.state = StateEmitting
	c := d.emit(path)
	d.markConsumed(path)
	d.retirePath(path)
	d.emittedThisIteration++
	return c, true
}

// buildPath reconstructs the best path leading to best by walking
// predecessor pointers back to a seed, then attempts greedy forward
// extension past best. Returns (nil, true, nil) if the traversal-node
// budget was exceeded at any point.
// Returns (nil, false, err) if greedy extension hit a malformed successor
// edge from the graph provider.
func (d *Driver) buildPath(best *TraversalNode) (*Path, bool, error) {
	chain := []*TraversalNode{}
	for t := best; t != nil; t = t.Predecessor {
		chain = append(chain, t)
		if d.opts.MaxPathTraversalNodes > 0 && len(chain) > d.opts.MaxPathTraversalNodes {
			return nil, true, nil
		}
	}
	// chain is head-to-root; Path wants root-to-head.
	root := chain[len(chain)-1]
	path := NewPath(d.opts, root)
	for i := len(chain) - 2; i >= 0; i-- {
		path.push(chain[i])
	}
	d.stats.NodesVisited += len(chain)

	before := len(path.Nodes())
	if err := path.greedyTraverse(d.arena, true, true); err != nil {
		return nil, false, err
	}
	after := path.Nodes()
	if d.opts.MaxPathTraversalNodes > 0 && len(after) > d.opts.MaxPathTraversalNodes {
		return nil, true, nil
	}
	d.stats.NodesVisited += len(after) - before
	// Newly reachable successor nodes created during greedy extension must
	// themselves be memoized, so later iterations see them as candidates
	// competing for the same (kmer, position) cells.
	for _, t := range after[before:] {
		d.memo.Memoize(t)
	}
	return path, false, nil
}

// emit derives the Candidate observables from path, applies the Acceptance
// Filter, computes the supporting-evidence fingerprint, and updates Stats.
func (d *Driver) emit(path *Path) Contig {
	cand := deriveCandidate(path)
	result := Accept(cand, d.opts)
	if result.Passed() {
		d.stats.Emitted++
	} else {
		for _, r := range result.Reasons {
			d.stats.recordReject(r)
		}
	}
	nodes := path.Nodes()
	return Contig{
		Nodes:       nodes,
		Weight:      path.currentWeight(),
		Fingerprint: fingerprint(nodes),
		Filter:      result,
	}
}

// markConsumed records the position spans of path's non-reference nodes as
// consumed, so future memoize calls discount overlapping evidence.
// Reference-flagged nodes are exempt when Opts.AllowReferenceKmerReuse.
func (d *Driver) markConsumed(path *Path) {
	for _, t := range path.Nodes() {
		if t.Node.IsReference && d.opts.AllowReferenceKmerReuse {
			continue
		}
		d.consumed.add(t.SubStart, t.SubEnd)
	}
}

// retirePath removes every node on path from the Memoizer, so its k-mer
// evidence can't be walked again by a later, unrelated path: once emitted,
// an entry's job here is done regardless of whether it survives the
// Acceptance Filter.
func (d *Driver) retirePath(path *Path) {
	for _, t := range path.Nodes() {
		d.memo.Retire(t)
	}
}

// deriveCandidate maps a built Path onto the Acceptance Filter's observable
// inputs: a path's non-reference span forms its breakend, its reference
// span forms its anchor, and a path whose head reaches only a remote
// terminal-leaf-anchor range (and no genuine local terminus) counts as
// fully remote-supported.
func deriveCandidate(path *Path) Candidate {
	var c Candidate
	for _, t := range path.Nodes() {
		span := t.SubEnd - t.SubStart + 1
		if t.Node.IsReference {
			c.AnchorLength += span
		} else {
			c.BreakendLength += span
			c.ReadPairSupport += t.Node.Weight
		}
		if t.Node.Length > c.MaxReadPairReadLength {
			c.MaxReadPairReadLength = t.Node.Length
		}
	}
	local := path.terminalRanges()
	remote := path.terminalLeafAnchorRanges()
	c.HasBreakpoint = !local.Empty() || !remote.Empty()
	if local.Empty() && !remote.Empty() {
		support := c.ReadPairSupport + c.SoftClipSupport
		if support == 0 {
			support = 1
		}
		c.RemoteSupport = support
	}
	return c
}

// fingerprint summarizes the sorted first_kmer values making up path into a
// highwayhash digest, the same technique fusion's postprocess.go uses to
// group candidates by their constituent gene-ID pair.
func fingerprint(nodes []*TraversalNode) [highwayhash.Size]uint8 {
	kmers := make([]uint64, len(nodes))
	for i, t := range nodes {
		kmers[i] = t.Node.FirstKmer
	}
	for i := 1; i < len(kmers); i++ {
		for j := i; j > 0 && kmers[j-1] > kmers[j]; j-- {
			kmers[j-1], kmers[j] = kmers[j], kmers[j-1]
		}
	}
	buf := make([]byte, 8*len(kmers))
	for i, k := range kmers {
		for b := 0; b < 8; b++ {
			buf[8*i+b] = byte(k >> (8 * b))
		}
	}
	return highwayhash.Sum(buf, fingerprintKey[:])
}
