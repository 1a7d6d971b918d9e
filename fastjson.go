// Package fastjson parses and serializes structured text documents with
// vectorized scanning, adaptive numeric precision and chunked parallel
// parsing for large inputs. Input must be valid UTF-8; validity is
// checked inline by the scanner, not as a separate pass.
package fastjson

import (
	"github.com/fastjsonwest/fastjson-go/internal/arena"
	"github.com/fastjsonwest/fastjson-go/internal/scanner"
)

// Parse parses data with DefaultOptions. The returned Document owns the
// parsed tree; data must stay unmodified for the Document's lifetime
// because string values alias it.
func Parse(data []byte) (*Document, error) {
	return ParseWithOptions(data, DefaultOptions())
}

// ParseWithOptions parses data, dispatching to the chunked path when the
// input exceeds opts.ParallelChunkThreshold. A single-threaded parse of a
// large input runs the same chunk code with a pool of one. Every failure
// is reported as a *Error; no parse error is fatal to the process.
func ParseWithOptions(data []byte, opts ParseOptions) (*Document, error) {
	opts = opts.normalized()
	kern := scanner.Active()
	if !opts.EnableSIMD {
		kern = scanner.Scalar()
	}
	budget := arena.NewBudget(opts.MaxArenaBytes)

	var doc *Document
	var err *Error
	if len(data) > opts.ParallelChunkThreshold {
		doc, err = parseParallel(data, opts, kern, budget)
	} else {
		doc, err = parseSequential(data, opts, kern, budget)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Valid reports whether data parses cleanly under DefaultOptions.
func Valid(data []byte) bool {
	doc, err := Parse(data)
	if err != nil {
		return false
	}
	doc.Close()
	return true
}
