// sv-assemble is a demonstration driver for the svassembly engine: it reads a
// flat text description of a positional de Bruijn graph, runs the Assembly
// Driver over it, and prints the resulting contigs.
//
// Input format, one directive per line:
//
//   NODE <id> <first_kmer> <start> <end> <length> <weight> <is_reference:0|1>
//   EDGE <from_id> <to_id> <sub_start> <sub_end>
//   SEED <id> <sub_start> <sub_end>
//
// Blank lines and lines starting with # are ignored.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/svassembly/assembly"
)

type rawNode struct {
	firstKmer   uint64
	start, end  int
	length      int
	weight      int
	isReference bool
}

type rawEdge struct {
	to               string
	subStart, subEnd int
}

type rawSeed struct {
	id               string
	subStart, subEnd int
}

type graphSpec struct {
	nodes map[string]rawNode
	edges map[string][]rawEdge
	seeds []rawSeed
}

func parseGraphSpec(r io.Reader) (*graphSpec, error) {
	spec := &graphSpec{
		nodes: make(map[string]rawNode),
		edges: make(map[string][]rawEdge),
	}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "NODE":
			n, id, err := parseNodeLine(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			spec.nodes[id] = n
		case "EDGE":
			if len(fields) != 5 {
				return nil, fmt.Errorf("line %d: EDGE wants 4 fields, got %d", lineNo, len(fields)-1)
			}
			subStart, err1 := strconv.Atoi(fields[3])
			subEnd, err2 := strconv.Atoi(fields[4])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: malformed EDGE sub-interval", lineNo)
			}
			from := fields[1]
			spec.edges[from] = append(spec.edges[from], rawEdge{to: fields[2], subStart: subStart, subEnd: subEnd})
		case "SEED":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: SEED wants 3 fields, got %d", lineNo, len(fields)-1)
			}
			subStart, err1 := strconv.Atoi(fields[2])
			subEnd, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: malformed SEED sub-interval", lineNo)
			}
			spec.seeds = append(spec.seeds, rawSeed{id: fields[1], subStart: subStart, subEnd: subEnd})
		default:
			return nil, fmt.Errorf("line %d: unrecognized directive %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseNodeLine(fields []string) (rawNode, string, error) {
	if len(fields) != 8 {
		return rawNode{}, "", fmt.Errorf("NODE wants 7 fields, got %d", len(fields)-1)
	}
	id := fields[1]
	firstKmer, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return rawNode{}, "", fmt.Errorf("malformed first_kmer %q", fields[2])
	}
	ints := make([]int, 4)
	for i, f := range fields[3:7] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return rawNode{}, "", fmt.Errorf("malformed integer field %q", f)
		}
		ints[i] = v
	}
	isRef := fields[7] == "1"
	return rawNode{
		firstKmer:   firstKmer,
		start:       ints[0],
		end:         ints[1],
		length:      ints[2],
		weight:      ints[3],
		isReference: isRef,
	}, id, nil
}

// buildGraph turns a graphSpec into a map of id to PositionalNode, resolving
// each node's successors lazily as it's first needed; the graph's DAG
// invariant (section 3) guarantees this recursion terminates.
func buildGraph(spec *graphSpec) (map[string]*assembly.PositionalNode, error) {
	built := make(map[string]*assembly.PositionalNode, len(spec.nodes))
	building := make(map[string]bool, len(spec.nodes))

	var construct func(id string) (*assembly.PositionalNode, error)
	construct = func(id string) (*assembly.PositionalNode, error) {
		if n, ok := built[id]; ok {
			return n, nil
		}
		if building[id] {
			return nil, fmt.Errorf("cycle detected reaching node %q", id)
		}
		rn, ok := spec.nodes[id]
		if !ok {
			return nil, fmt.Errorf("edge or seed references undefined node %q", id)
		}
		building[id] = true
		edgeList := spec.edges[id]
		var successors func() assembly.SuccessorIter
		if len(edgeList) > 0 {
			items := make([]assembly.Successor, 0, len(edgeList))
			for _, e := range edgeList {
				child, err := construct(e.to)
				if err != nil {
					return nil, err
				}
				items = append(items, assembly.Successor{Node: child, SubStart: e.subStart, SubEnd: e.subEnd})
			}
			successors = assembly.NewSliceSuccessors(items)
		}
		node := assembly.NewPositionalNode(rn.firstKmer, rn.start, rn.end, rn.length, rn.weight, rn.isReference, successors)
		delete(building, id)
		built[id] = node
		return node, nil
	}

	for id := range spec.nodes {
		if _, err := construct(id); err != nil {
			return nil, err
		}
	}
	return built, nil
}

func writeContig(w io.Writer, c assembly.Contig) error {
	ids := make([]string, len(c.Nodes))
	for i, t := range c.Nodes {
		ids[i] = fmt.Sprintf("%d:[%d,%d]", t.Node.FirstKmer, t.SubStart, t.SubEnd)
	}
	status := "ACCEPT"
	if !c.Filter.Passed() {
		reasons := make([]string, len(c.Filter.Reasons))
		for i, r := range c.Filter.Reasons {
			reasons[i] = string(r)
		}
		status = "REJECT:" + strings.Join(reasons, ",")
	}
	_, err := fmt.Fprintf(w, "%s\tweight=%d\t%x\t%s\n", strings.Join(ids, "->"), c.Weight, c.Fingerprint, status)
	return err
}

func main() {
	var (
		inputPath  = flag.String("input", "", "path to a flat-text graph-spec file")
		outputPath = flag.String("output", "-", "output path for emitted contigs (- for stdout)")
		k          = flag.Int("k", assembly.DefaultOpts.K, "k-mer size")
		maxContigs = flag.Int("max-contigs-per-iteration", assembly.DefaultOpts.MaxContigsPerIteration, "per-subgraph contig cap")
		maxNodes   = flag.Int("max-path-traversal-nodes", assembly.DefaultOpts.MaxPathTraversalNodes, "per-path traversal-node budget")
		allowReuse = flag.Bool("allow-reference-kmer-reuse", assembly.DefaultOpts.AllowReferenceKmerReuse, "exempt reference-flagged nodes from consumed-position tracking")
		branching  = flag.Int("branching-factor", assembly.DefaultOpts.BranchingFactor, "per-node successor visit cap")
		minReads   = flag.Int("min-reads", assembly.DefaultOpts.MinReads, "acceptance filter minimum supporting reads")
	)
	flag.Parse()

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if *inputPath == "" {
		log.Fatal("sv-assemble: -input is required")
	}
	in, err := file.Open(ctx, *inputPath)
	if err != nil {
		log.Fatalf("sv-assemble: open %v: %v", *inputPath, err)
	}
	spec, parseErr := parseGraphSpec(in.Reader(ctx))
	once := errors.Once{}
	once.Set(parseErr)
	once.Set(in.Close(ctx))
	if err := once.Err(); err != nil {
		log.Fatalf("sv-assemble: %v: %v", *inputPath, err)
	}

	nodes, err := buildGraph(spec)
	if err != nil {
		log.Fatalf("sv-assemble: build graph: %v", err)
	}

	opts := assembly.DefaultOpts
	opts.K = *k
	opts.MaxContigsPerIteration = *maxContigs
	opts.MaxPathTraversalNodes = *maxNodes
	opts.AllowReferenceKmerReuse = *allowReuse
	opts.BranchingFactor = *branching
	opts.MinReads = *minReads

	driver := assembly.NewDriver(opts)
	for _, s := range spec.seeds {
		node, ok := nodes[s.id]
		if !ok {
			log.Fatalf("sv-assemble: SEED references undefined node %q", s.id)
		}
		if err := driver.Seed(node, s.subStart, s.subEnd); err != nil {
			log.Fatalf("sv-assemble: seed %q: %v", s.id, err)
		}
	}

	var (
		out      io.Writer
		closeOut = func() error { return nil }
	)
	if *outputPath == "-" {
		out = os.Stdout
	} else {
		f, err := file.Create(ctx, *outputPath)
		if err != nil {
			log.Fatalf("sv-assemble: create %v: %v", *outputPath, err)
		}
		out = f.Writer(ctx)
		closeOut = func() error { return f.Close(ctx) }
	}

	emitted := 0
	outErr := errors.Once{}
	for {
		contig, ok := driver.Next()
		if !ok {
			break
		}
		outErr.Set(writeContig(out, contig))
		emitted++
	}
	outErr.Set(closeOut())
	if err := outErr.Err(); err != nil {
		log.Fatalf("sv-assemble: %v: %v", *outputPath, err)
	}
	if err := driver.Err(); err != nil {
		log.Fatalf("sv-assemble: halted: %v", err)
	}
	log.Printf("sv-assemble: %s after emitting %d contigs; stats=%+v", driver.State(), emitted, driver.Stats())
}
