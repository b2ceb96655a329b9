// Package script parses line-oriented command scripts into Shape's AST.
//
// A script is a sequence of physical lines. Unquoted '#' starts a comment, a
// trailing backslash continues a line onto the next one, and blank lines are
// ignored. Each resulting logical line is split into shell-like tokens where
// single or double quotes group whitespace into one token.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call creates its own parser and scanner with no shared mutable state.
// LineReader values are not safe for concurrent use.
//
// # Parsing APIs
//
//   - Parse(string) - parses a script held in memory
//   - ParseReader(io.Reader) - parses a script from any io.Reader
//   - ForEachLine(io.Reader, ReaderOptions, fn) - streams logical lines to fn
//   - ScanFile(path, fn) - memory-maps a file and hands fn a Scanner over it
//
// # Example usage with Parse:
//
//	node, err := script.Parse("size 640 480\ntitle 'My Window'\n")
//	if err != nil {
//	    // handle error
//	}
//	lines := node.(*ast.ArrayDataNode)
//	// lines.Get(0) is an *ast.ArrayDataNode with "size", "640", "480"
//
// # Example usage with ForEachLine:
//
//	err := script.ForEachLine(file, script.DefaultReaderOptions(), func(row int, s *linescan.Scanner) error {
//	    cmd, _ := s.Text(linescan.ModeAny)
//	    switch cmd {
//	    case "size":
//	        return s.GetAll(linescan.Into(&w, linescan.Int[int]{}), linescan.Into(&h, linescan.Int[int]{}))
//	    }
//	    return nil
//	})
package script

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-linescan/internal/parser"
	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// Parse parses a script into an AST from a string.
//
// Returns an ast.ArrayDataNode representing the parsed script:
//   - *ast.ArrayDataNode for the script (array of logical lines)
//   - Each logical line is an *ast.ArrayDataNode of tokens
//   - Each token is an *ast.LiteralNode containing a string value
//
// Logical lines without tokens are not part of the result.
func Parse(input string) (ast.SchemaNode, error) {
	p := parser.NewParser(input)
	return p.Parse()
}

// ParseReader parses a script into an AST from an io.Reader.
//
// The reader is consumed through a buffered stream, so the script does not
// have to be loaded into a string first.
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	p := parser.NewParserFromReader(reader)
	return p.Parse()
}

// Format returns the format identifier for this parser.
func Format() string {
	return "SCRIPT"
}

// Validate checks whether input parses under the default options.
// Without token limits only invalid UTF-8 is rejected, so this mainly matters
// for ValidateWithOptions.
func Validate(input string) error {
	_, err := Parse(input)
	return err
}

// ForEachLine streams the logical lines of reader to fn.
//
// fn receives the row of the first physical line and a Scanner positioned at
// the start of the logical line. The Scanner is reused between calls; tokens
// taken from it are only valid until fn returns. Iteration stops at the first
// error from fn, which is returned unchanged.
//
// Token limits in opts are applied before fn is called, following OnBadLine.
func ForEachLine(reader io.Reader, opts ReaderOptions, fn func(row int, s *linescan.Scanner) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	p := parser.NewParserFromReaderWithOptions(reader, opts.parserOptions())

	s := getScanner(opts.Escape)
	defer putScanner(s)

	return p.EachValidLine(func(l parser.LogicalLine) error {
		s.AssignString(l.Text)
		return fn(l.Row, s)
	})
}
