package fastjson

import (
	"sync"
	"sync/atomic"

	"github.com/fastjsonwest/fastjson-go/internal/arena"
	"github.com/fastjsonwest/fastjson-go/internal/scanner"
)

// chunkDelayHook, when set, runs before each chunk parse. Tests inject
// artificial completion skew with it to prove order preservation.
var chunkDelayHook func(chunk int)

// memberSpan is one top-level collection member: an element of the root
// array or one "key": value pair of the root object. Offsets are absolute
// and may include surrounding whitespace.
type memberSpan struct {
	start, end int
}

// chunkRange is a contiguous run of member spans assigned to one worker.
type chunkRange struct {
	first, last int // member indexes, inclusive
}

type chunkResult struct {
	elems   []*Value
	members []Member
	parser  *treeParser
	err     *Error
}

// parseParallel partitions the root collection's members into chunks,
// parses them on a fixed pool of workers and assembles the ordered tree.
// Inputs whose root is not a collection fall back to a single sequential
// parse; so do collections too small to split.
func parseParallel(data []byte, opts ParseOptions, kern scanner.Kernel, budget *arena.Budget) (*Document, *Error) {
	sc := scanner.NewWithKernel(data, kern)
	pos := sc.SkipWhitespace(0)
	if pos >= len(data) {
		return nil, newError(data, UnexpectedEndOfInput, len(data), "value expected")
	}
	open := data[pos]
	if open != '[' && open != '{' {
		return parseSequential(data, opts, kern, budget)
	}

	spans, closePos, err := scanTopLevel(sc, data, pos+1, open)
	if err != nil {
		return nil, err
	}
	if tail := sc.SkipWhitespace(closePos + 1); tail < len(data) {
		return nil, newError(data, InvalidCharacter, tail, "unexpected data after top-level value")
	}

	chunks := partition(data, spans, opts.ChunkTargetBytes)
	if len(chunks) < 2 {
		return parseSequential(data, opts, kern, budget)
	}

	workers := opts.MaxThreads
	if workers > len(chunks) {
		workers = len(chunks)
	}

	results := make([]chunkResult, len(chunks))
	tasks := make(chan int)
	var failed atomic.Bool
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range tasks {
				if chunkDelayHook != nil {
					chunkDelayHook(idx)
				}
				results[idx] = parseChunk(data, spans, chunks[idx], opts, kern, budget, open)
				if results[idx].err != nil {
					failed.Store(true)
				}
			}
		}()
	}

	// Dispatch stops on the first observed failure; chunks already
	// handed to a worker run to completion. One barrier, no preemption.
	for i := range chunks {
		if failed.Load() {
			break
		}
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	var firstErr *Error
	for i := range results {
		if e := results[i].err; e != nil {
			if firstErr == nil || e.Offset < firstErr.Offset {
				firstErr = e
			}
		}
	}
	if firstErr != nil {
		// Partial subtrees are dropped with their arenas.
		return nil, firstErr
	}

	return assemble(data, results, opts, kern, budget, open)
}

// scanTopLevel walks the root collection at depth zero, respecting nested
// brackets and strings, and records member boundaries at depth-zero
// commas. It never parses member contents. Returns the member spans and
// the position of the closing bracket.
func scanTopLevel(sc *scanner.Scanner, data []byte, pos int, open byte) ([]memberSpan, int, *Error) {
	closer := byte(']')
	if open == '{' {
		closer = '}'
	}
	var spans []memberSpan
	memberStart := pos
	depth := 0
	cur := pos
	for {
		i, c, ok := sc.NextStructural(cur)
		if !ok {
			return nil, 0, newError(data, UnexpectedEndOfInput, len(data), "unterminated "+containerName(open))
		}
		switch c {
		case '"':
			end, _, serr := sc.ScanStringSpan(i + 1)
			if serr != nil {
				code := InvalidString
				if serr.Truncated {
					code = UnexpectedEndOfInput
				}
				return nil, 0, newError(data, code, serr.Offset, serr.Msg)
			}
			cur = end + 1
		case '{', '[':
			depth++
			cur = i + 1
		case '}', ']':
			if depth > 0 {
				depth--
				cur = i + 1
				break
			}
			if c != closer {
				return nil, 0, newError(data, InvalidCharacter, i, "mismatched closing bracket")
			}
			if len(spans) > 0 || sc.SkipWhitespace(memberStart) < i {
				spans = append(spans, memberSpan{start: memberStart, end: i})
			}
			return spans, i, nil
		case ',':
			if depth == 0 {
				spans = append(spans, memberSpan{start: memberStart, end: i})
				memberStart = i + 1
			}
			cur = i + 1
		default: // ':'
			cur = i + 1
		}
	}
}

func containerName(open byte) string {
	if open == '{' {
		return "object"
	}
	return "array"
}

// partition groups consecutive members until a chunk reaches the target
// byte size. Static block partitioning: slot order is fixed here, before
// any worker runs.
func partition(data []byte, spans []memberSpan, targetBytes int) []chunkRange {
	if len(spans) == 0 {
		return nil
	}
	var chunks []chunkRange
	first := 0
	size := 0
	for i, sp := range spans {
		size += sp.end - sp.start
		if size >= targetBytes && i+1 < len(spans) {
			chunks = append(chunks, chunkRange{first: first, last: i})
			first = i + 1
			size = 0
		}
	}
	chunks = append(chunks, chunkRange{first: first, last: len(spans) - 1})
	return chunks
}

// parseChunk runs the ordinary sequential parser over each member range
// of one chunk, in its own arena. Results land in the chunk's own slot;
// no cross-worker synchronization beyond the final barrier.
func parseChunk(data []byte, spans []memberSpan, ch chunkRange, opts ParseOptions, kern scanner.Kernel, budget *arena.Budget, open byte) chunkResult {
	tp := newTreeParser(data, kern, budget, opts.MaxNestingDepth)
	res := chunkResult{parser: tp}
	n := ch.last - ch.first + 1
	if open == '[' {
		res.elems = make([]*Value, 0, n)
	} else {
		res.members = make([]Member, 0, n)
	}
	for m := ch.first; m <= ch.last; m++ {
		sp := spans[m]
		tp.rewindow(data[:sp.end], sp.start)
		// An empty member span means two adjacent separators; report the
		// separator position the way the in-container parse loop would.
		if tp.sc.SkipWhitespace(sp.start) >= sp.end {
			res.err = newError(data, InvalidCharacter, sp.end, "value expected")
			return res
		}
		if open == '[' {
			v, err := tp.parseValue(2)
			if err != nil {
				res.err = err
				return res
			}
			if err := tp.expectSpanEnd(sp.end); err != nil {
				res.err = err
				return res
			}
			res.elems = append(res.elems, v)
		} else {
			key, v, err := tp.parseMember(1)
			if err != nil {
				res.err = err
				return res
			}
			if err := tp.expectSpanEnd(sp.end); err != nil {
				res.err = err
				return res
			}
			res.members = append(res.members, Member{Key: key, Value: v})
		}
	}
	return res
}

// rewindow re-targets the parser at a sub-range of the shared input.
// Offsets stay absolute because the window is always a prefix slice.
func (p *treeParser) rewindow(window []byte, pos int) {
	p.buf = window
	p.sc.Rebind(window)
	p.pos = pos
}

func (p *treeParser) expectSpanEnd(end int) *Error {
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos < end {
		return newError(p.buf, InvalidCharacter, p.pos, "unexpected data after member")
	}
	return nil
}

// assemble writes the per-chunk results into the final tree in slot
// order. Subtrees are re-parented by adopting each worker's arena into
// the document, not copied.
func assemble(data []byte, results []chunkResult, opts ParseOptions, kern scanner.Kernel, budget *arena.Budget, open byte) (*Document, *Error) {
	main := newTreeParser(data, kern, budget, opts.MaxNestingDepth)
	root, err := main.newValue()
	if err != nil {
		return nil, err
	}
	if open == '[' {
		root.kind = KindArray
		total := 0
		for i := range results {
			total += len(results[i].elems)
		}
		root.arr = make([]*Value, 0, total)
		for i := range results {
			root.arr = append(root.arr, results[i].elems...)
		}
	} else {
		root.kind = KindObject
		root.obj = &Object{}
		for i := range results {
			for _, m := range results[i].members {
				root.obj.put(m.Key, m.Value)
			}
		}
	}
	doc := &Document{root: root, src: data}
	doc.adopt(main.mem, main.nodes)
	for i := range results {
		doc.adopt(results[i].parser.mem, results[i].parser.nodes)
	}
	return doc, nil
}

func parseSequential(data []byte, opts ParseOptions, kern scanner.Kernel, budget *arena.Budget) (*Document, *Error) {
	tp := newTreeParser(data, kern, budget, opts.MaxNestingDepth)
	root, err := tp.parseDocument()
	if err != nil {
		return nil, err
	}
	doc := &Document{root: root, src: data}
	doc.adopt(tp.mem, tp.nodes)
	return doc, nil
}
