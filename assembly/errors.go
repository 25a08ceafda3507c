package assembly

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// RejectReason names why the Acceptance Filter dropped a candidate path.
// Each reason is independently triggered; a candidate may accumulate more
// than one.
type RejectReason string

const (
	// RejectReferenceOnly fires when the candidate's breakend sequence is
	// empty or carries no defined break position.
	RejectReferenceOnly RejectReason = "reference_only"
	// RejectTooFewReads fires when read-pair-support + soft-clip-support
	// falls below Opts.MinReads.
	RejectTooFewReads RejectReason = "too_few_reads"
	// RejectSingleRead fires when the candidate has no anchor and its
	// breakend is no longer than the longest supporting read, i.e. a
	// single read could account for the whole thing.
	RejectSingleRead RejectReason = "single_read"
	// RejectRemoteOnly fires when every supporting read is remote: no read
	// maps locally via read-pair or soft-clip support.
	RejectRemoteOnly RejectReason = "remote_only"
)

// errInvalidInterval reports a closed interval [start, end] that is empty or
// lies outside the closed interval [nodeStart, nodeEnd] it must fit in: a
// node's position interval, or the sub-interval of a T being sliced.
func errInvalidInterval(start, end, nodeStart, nodeEnd int) error {
	return errors.E(fmt.Sprintf("assembly: interval [%d,%d] outside node interval [%d,%d]", start, end, nodeStart, nodeEnd))
}

// GraphProviderFault reports a malformed sub-interval supplied by the
// external graph provider: a successor edge's [sub_start, sub_end], or a
// Driver.Seed call, lying outside the node's own position interval. This is
// kind 3 of section 7's error taxonomy, not kind 1: the bad data originates
// outside this package, so it is returned to the caller with the offending
// node's identity rather than panicked, and the Driver halts rather than
// building further on it.
type GraphProviderFault struct {
	FirstKmer uint64
	err       error
}

func (f *GraphProviderFault) Error() string { return f.err.Error() }
func (f *GraphProviderFault) Unwrap() error { return f.err }

func newGraphProviderFault(node *PositionalNode, subStart, subEnd int) error {
	cause := errInvalidInterval(subStart, subEnd, node.StartPosition, node.EndPosition)
	return &GraphProviderFault{
		FirstKmer: node.FirstKmer,
		err:       errors.E(cause, fmt.Sprintf("graph provider: node first_kmer=%d", node.FirstKmer)),
	}
}

// validateProviderInterval reports a *GraphProviderFault if [subStart,
// subEnd] falls outside node's own position interval. It is the boundary
// check for data arriving from outside this package (a successor edge or a
// Seed call); the panics in assertSubInterval and in Slice's own bounds check
// remain for intervals this package computes itself.
func validateProviderInterval(node *PositionalNode, subStart, subEnd int) error {
	if subStart < node.StartPosition || subEnd > node.EndPosition || subStart > subEnd {
		return newGraphProviderFault(node, subStart, subEnd)
	}
	return nil
}
