package assembly

// Candidate is a completed assembly candidate as seen by the Acceptance
// Filter: the observables from section 4.G, derived by the Assembly Driver
// from a built Path plus the terminal-range/anchor bookkeeping carried on
// its head TraversalNode.
type Candidate struct {
	// BreakendLength is the length of the assembled breakend sequence; zero
	// or a candidate with no defined break position marks a reference
	// allele.
	BreakendLength int
	HasBreakpoint  bool

	// AnchorLength is the length of the portion of the contig aligned to
	// the reference.
	AnchorLength int

	// ReadPairSupport, SoftClipSupport, and RemoteSupport are supporting
	// read counts, as defined in the glossary.
	ReadPairSupport int
	SoftClipSupport int
	RemoteSupport   int

	// MaxReadPairReadLength is the longest individual read length among the
	// contributing read pairs.
	MaxReadPairReadLength int
}

// FilterResult is the Acceptance Filter's outcome: the set of reasons (any
// number, possibly zero) that fired for a candidate. A candidate passes iff
// Reasons is empty.
type FilterResult struct {
	Reasons []RejectReason
}

// Passed reports whether the candidate survived every rule.
func (r FilterResult) Passed() bool { return len(r.Reasons) == 0 }

// Accept applies the four Acceptance Filter rules to c, in the order listed
// in section 4.G. Each rule is independently triggered; a candidate may
// accumulate more than one reason. Applying Accept twice to the same
// candidate and Opts yields an identical FilterResult.
func Accept(c Candidate, opts Opts) FilterResult {
	var res FilterResult

	if c.BreakendLength == 0 || !c.HasBreakpoint {
		res.Reasons = append(res.Reasons, RejectReferenceOnly)
	}

	minReads := opts.MinReads
	if minReads <= 0 {
		minReads = 3
	}
	if c.ReadPairSupport+c.SoftClipSupport < minReads {
		res.Reasons = append(res.Reasons, RejectTooFewReads)
	}

	if c.AnchorLength == 0 && c.BreakendLength <= c.MaxReadPairReadLength {
		res.Reasons = append(res.Reasons, RejectSingleRead)
	}

	if c.RemoteSupport > 0 && c.RemoteSupport == c.ReadPairSupport+c.SoftClipSupport {
		res.Reasons = append(res.Reasons, RejectRemoteOnly)
	}

	return res
}
