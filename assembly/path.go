package assembly

// Direction names which end of a Path push/pop/the head operate on: Forward
// extends past the root (the Assembly Driver's only use, per section 4.F:
// reconstruct back to the seed by walking predecessor pointers, then extend
// forward by greedy_traverse); Reverse extends back past the root instead,
// for a Path Builder walking the other way across a subgraph.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Path is the Path Builder's state: a deque of TraversalNodes representing
// the path under construction, with a parallel deque of restartable
// successor iterators — one per path element — supporting greedy extension
// and controlled backtracking, plus a traversal direction. Path elements are
// appended/removed only at the head, the end determined by direction; the
// other end is always the root T the path was seeded from.
type Path struct {
	opts      Opts
	direction Direction

	nodes []*TraversalNode
	iters []SuccessorIter

	// visited counts how many distinct children have been pushed from each
	// path element, enforcing Opts.BranchingFactor.
	visited []int
}

// NewPath seeds a forward Path Builder at root. root is borrowed for the
// lifetime of this Path; the Memoizer must keep it alive at least that long
// (Path Builder borrows are always shorter-lived than the Memoizer, per the
// engine's resource model).
func NewPath(opts Opts, root *TraversalNode) *Path {
	return NewDirectedPath(opts, root, Forward)
}

// NewDirectedPath seeds a Path Builder at root with the given direction.
func NewDirectedPath(opts Opts, root *TraversalNode, direction Direction) *Path {
	p := &Path{opts: opts, direction: direction}
	p.push(root)
	return p
}

// push appends t to the path end determined by direction and starts a fresh
// successor iterator for it.
func (p *Path) push(t *TraversalNode) {
	iter := t.Node.Successors()
	if p.direction == Reverse {
		p.nodes = append([]*TraversalNode{t}, p.nodes...)
		p.iters = append([]SuccessorIter{iter}, p.iters...)
		p.visited = append([]int{0}, p.visited...)
		return
	}
	p.nodes = append(p.nodes, t)
	p.iters = append(p.iters, iter)
	p.visited = append(p.visited, 0)
}

// pop removes the head of the path. It is a programming error to call pop
// when only the root remains.
func (p *Path) pop() {
	if len(p.nodes) <= 1 {
		panic("assembly: pop() called with only the root remaining on the path")
	}
	if p.direction == Reverse {
		p.nodes = p.nodes[1:]
		p.iters = p.iters[1:]
		p.visited = p.visited[1:]
		return
	}
	n := len(p.nodes)
	p.nodes = p.nodes[:n-1]
	p.iters = p.iters[:n-1]
	p.visited = p.visited[:n-1]
}

// headIndex returns the index into nodes/iters/visited of the current head,
// the end determined by direction.
func (p *Path) headIndex() int {
	if p.direction == Reverse {
		return 0
	}
	return len(p.nodes) - 1
}

// head returns the current path head.
func (p *Path) head() *TraversalNode { return p.nodes[p.headIndex()] }

// nextChild pushes the head's next unvisited successor, wrapped as a fresh
// TraversalNode whose predecessor is the head, and returns (true, nil). If the
// head's successor iterator is exhausted, or BranchingFactor children have
// already been visited from the head, it returns (false, nil) without
// modifying the path. It returns a non-nil *GraphProviderFault, again
// without modifying the path, if the successor edge's own sub-interval lies
// outside the successor node's position interval: that edge came from the
// external graph provider, not from this package's own computation.
func (p *Path) nextChild(arena *Arena) (bool, error) {
	i := p.headIndex()
	if p.opts.BranchingFactor > 0 && p.visited[i] >= p.opts.BranchingFactor {
		return false, nil
	}
	succ, ok := p.iters[i].Next()
	if !ok {
		return false, nil
	}
	p.visited[i]++
	if err := validateProviderInterval(succ.Node, succ.SubStart, succ.SubEnd); err != nil {
		return false, err
	}
	head := p.nodes[i]
	child := NewTraversalNode(arena, succ.Node, head, succ.SubStart, succ.SubEnd)
	p.push(child)
	return true, nil
}

// resetChildren replaces the head's successor iterator with a fresh one
// over the same node, and clears its visited-child count. Used when greedy
// extension must retry from the original branch point after a deeper
// extension attempt failed to find any admissible successor.
func (p *Path) resetChildren() {
	i := p.headIndex()
	p.iters[i] = p.nodes[i].Node.Successors()
	p.visited[i] = 0
}

// greedyTraverse repeatedly selects the highest-weight admissible successor
// of the head, pushing it, until no admissible successor exists. A
// successor is admissible if it is reference-flagged and allowRef, or
// non-reference and allowNonRef. Ties are broken by the order encountered
// in the successor iterator. It returns a non-nil *GraphProviderFault,
// leaving the path at whatever it had already extended to, if a selected
// successor's own sub-interval lies outside that successor node's position
// interval: that edge is the external graph provider's data, not this
// package's own computation.
func (p *Path) greedyTraverse(arena *Arena, allowRef, allowNonRef bool) error {
	for {
		i := p.headIndex()
		iter := p.nodes[i].Node.Successors()
		var (
			best  Successor
			found bool
			bestW int
		)
		for {
			succ, ok := iter.Next()
			if !ok {
				break
			}
			if succ.Node.IsReference && !allowRef {
				continue
			}
			if !succ.Node.IsReference && !allowNonRef {
				continue
			}
			if !found || succ.Node.Weight > bestW {
				best, bestW, found = succ, succ.Node.Weight, true
			}
		}
		if !found {
			return nil
		}
		if err := validateProviderInterval(best.Node, best.SubStart, best.SubEnd); err != nil {
			return err
		}
		head := p.nodes[i]
		child := NewTraversalNode(arena, best.Node, head, best.SubStart, best.SubEnd)
		p.push(child)
	}
}

// currentWeight sums the node weight of every element on the path.
func (p *Path) currentWeight() int {
	w := 0
	for _, t := range p.nodes {
		w += t.Node.Weight
	}
	return w
}

// currentLength returns the path-length of the head T.
func (p *Path) currentLength() int {
	return p.head().PathLength
}

// terminalRanges delegates to the head T: the position intervals at which
// this path represents a valid assembly terminus.
func (p *Path) terminalRanges() IntervalSet {
	return p.head().TerminalRanges
}

// terminalLeafAnchorRanges delegates to the head T: the position intervals
// at which this path only reaches a remote anchor.
func (p *Path) terminalLeafAnchorRanges() IntervalSet {
	return p.head().TerminalLeafAnchorRanges
}

// Nodes returns the path elements from root to head, for callers (the
// Assembly Driver) that need to walk the full assembled sequence. The
// returned order is always root-to-head regardless of direction: a Reverse
// path stores its head at index 0 internally, so this reverses before
// returning.
func (p *Path) Nodes() []*TraversalNode {
	out := make([]*TraversalNode, len(p.nodes))
	copy(out, p.nodes)
	if p.direction == Reverse {
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}
