package assembly

// Opts configures a single assembly run. A zero Opts is not usable; start
// from DefaultOpts and override the fields that matter.
type Opts struct {
	// K is the k-mer length shared by every PositionalNode fed into the
	// engine. It must match the k used to build the upstream graph.
	K int

	// MaxContigsPerIteration caps how many contigs the Assembly Driver emits
	// before it stops polling the frontier for this subgraph, even if the
	// frontier is not yet drained.
	MaxContigsPerIteration int

	// MaxPathTraversalNodes is the soft cap on how many TraversalNodes a
	// single path-build may visit before the driver abandons the path and
	// moves on to the next frontier entry. Guards against pathological
	// branching.
	MaxPathTraversalNodes int

	// AllowReferenceKmerReuse exempts reference-backed TraversalNodes from
	// consumed-position discounting, so a path can reuse reference support
	// that an earlier emitted contig already walked over.
	AllowReferenceKmerReuse bool

	// BranchingFactor bounds how many distinct children the Path Builder's
	// nextChild may fan out to from a single TraversalNode. Zero or negative
	// means unbounded; 1 means pure greedy (no fan-out). greedyTraverse does
	// not consult it: it always extends to the single best successor.
	BranchingFactor int

	// SubgraphAssemblyMargin is added on either side of MaxSubgraphWidth
	// when sizing the consumed-position tracker's initial capacity. It is a
	// sizing hint only: it does not limit which positions the tracker
	// records.
	SubgraphAssemblyMargin int

	// MaxSubgraphWidth is the expected positional width of a single
	// subgraph; it sizes the consumed-position tracker's initial backing
	// slice. It does not limit which positions the tracker records.
	MaxSubgraphWidth int

	// MinReads is the minimum combined read-pair and soft-clip support a
	// candidate path must carry to survive the Acceptance Filter. Zero or
	// negative falls back to 3.
	MinReads int
}

// DefaultOpts holds the engine's default tuning. Callers typically copy this
// and override only the fields their subgraph shape requires.
var DefaultOpts = Opts{
	K:                       31,
	MaxContigsPerIteration:  1024,
	MaxPathTraversalNodes:   4096,
	AllowReferenceKmerReuse: true,
	BranchingFactor:         0,
	SubgraphAssemblyMargin:  64,
	MaxSubgraphWidth:        1 << 20,
	MinReads:                3,
}
