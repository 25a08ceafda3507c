/*Package assembly implements the core positional de Bruijn graph traversal
  used to assemble structural-variant contigs from k-mer evidence.

  A PositionalNode is a k-mer annotated with the closed interval of genomic
  positions at which it's valid, an evidence weight, and a reference-support
  flag. The Memoizer accepts candidate TraversalNodes — (node, predecessor,
  sub-interval, score) records — and keeps, for each k-mer, only the
  non-overlapping best-scoring entries, slicing and replacing overlaps as
  better candidates arrive. The Frontier orders memoized entries by earliest
  completion position, lazily skipping over entries a later memoize call has
  supplanted.

  The Driver repeatedly polls the Frontier, reconstructs the best path by
  walking predecessor pointers, optionally extends it greedily past its
  memoized terminus, and emits the result through the Acceptance Filter.
  Reference-kmer-reuse policy and per-run budgets (contig cap, path-node cap)
  are configured through Opts.
*/
package assembly
