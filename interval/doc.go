/*Package interval implements interval-union operations over sets of
  integer position intervals.

  Originally built for BED-file coverage sets, the scanner machinery here is
  domain-agnostic: given a sorted sequence of interval endpoints, it answers
  containment and iterates the union efficiently. The svassembly assembly
  engine (see github.com/grailbio/svassembly/assembly) reuses it to track a
  TraversalNode's terminal_ranges and terminal_leaf_anchor_ranges — the
  position intervals at which a path-prefix represents a valid assembly
  terminus — without re-deriving interval-union bookkeeping from scratch.

  It assumes every position fits in a PosType, which is currently defined as
  int32; that's generous for a single assembly region's positional extent.
*/
package interval
