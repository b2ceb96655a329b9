package script

import (
	"io"

	"github.com/shapestone/shape-linescan/internal/parser"
	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// LineReader provides a pull interface over the logical lines of a script.
//
// Example usage:
//
//	file, _ := os.Open("setup.cfg")
//	defer file.Close()
//
//	lr := script.NewLineReader(file)
//	for lr.Scan() {
//	    s := lr.Scanner()
//	    cmd, _ := s.Text(linescan.ModeAny)
//	    fmt.Println(lr.Row(), cmd)
//	}
//	if err := lr.Err(); err != nil {
//	    // handle error
//	}
type LineReader struct {
	reader  io.Reader
	opts    ReaderOptions
	lines   []parser.LogicalLine
	index   int
	err     error
	parsed  bool
	scanner linescan.Scanner
}

// NewLineReader creates a LineReader that reads a script from reader using
// DefaultReaderOptions.
func NewLineReader(reader io.Reader) *LineReader {
	return &LineReader{
		reader: reader,
		opts:   DefaultReaderOptions(),
		index:  -1,
	}
}

// SetOptions replaces the reader options. It has no effect once Scan has
// been called. Returns the LineReader for method chaining.
func (r *LineReader) SetOptions(opts ReaderOptions) *LineReader {
	if !r.parsed {
		r.opts = opts
	}
	return r
}

// Scan advances to the next logical line. It returns false at the end of the
// script or on error; call Err to tell the two apart.
func (r *LineReader) Scan() bool {
	if !r.parsed {
		r.parsed = true
		if err := r.parse(); err != nil {
			r.err = err
			return false
		}
	}

	r.index++
	if r.index >= len(r.lines) {
		return false
	}
	r.scanner.Escape = r.opts.Escape
	r.scanner.AssignString(r.lines[r.index].Text)
	return true
}

// Text returns the current logical line.
func (r *LineReader) Text() string {
	if r.index < 0 || r.index >= len(r.lines) {
		return ""
	}
	return r.lines[r.index].Text
}

// Row returns the line number of the first physical line of the current
// logical line, or 0 before the first Scan.
func (r *LineReader) Row() int {
	if r.index < 0 || r.index >= len(r.lines) {
		return 0
	}
	return r.lines[r.index].Row
}

// Scanner returns a Scanner positioned at the start of the current logical
// line. The same Scanner is reassigned on every Scan.
func (r *LineReader) Scanner() *linescan.Scanner {
	return &r.scanner
}

// Err returns the error, if any, that was encountered during scanning.
func (r *LineReader) Err() error {
	return r.err
}

// parse reads the whole script and keeps its logical lines.
func (r *LineReader) parse() error {
	if err := r.opts.Validate(); err != nil {
		return err
	}
	p := parser.NewParserFromReaderWithOptions(r.reader, r.opts.parserOptions())
	return p.EachValidLine(func(l parser.LogicalLine) error {
		r.lines = append(r.lines, l)
		return nil
	})
}
