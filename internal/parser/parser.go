// Package parser builds Shape ASTs from command scripts.
//
// Input flows through three stages: the line tokenizer splits it into physical
// lines, the linescan Preprocessor strips comments and joins continued lines,
// and the linescan Scanner splits each logical line into tokens.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-linescan/internal/tokenizer"
	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// BadLineMode specifies how to handle lines that exceed the configured limits.
type BadLineMode int

const (
	// BadLineModeError returns an error on bad lines (default).
	BadLineModeError BadLineMode = iota
	// BadLineModeWarn reports a warning and drops the line.
	BadLineModeWarn
	// BadLineModeSkip silently drops the line.
	BadLineModeSkip
)

// Limit violations.
var (
	// ErrTooManyTokens indicates a logical line exceeded MaxTokens.
	ErrTooManyTokens = errors.New("too many tokens")

	// ErrTokenTooLarge indicates a token exceeded MaxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size")
)

// LineError reports a bad logical line.
type LineError struct {
	// Row is the line number where the logical line starts (1-indexed).
	Row int
	// Text is the logical line.
	Text string
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Row, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// Options configures the parser behavior.
type Options struct {
	// Escape enables backslash escapes inside quoted tokens.
	Escape bool
	// Continuation joins lines ending in a backslash. Default: true
	Continuation bool
	// Comments strips unquoted '#' comments. Default: true
	Comments bool
	// Delimiter separates joined physical lines. Default: '\n'
	Delimiter byte
	// MaxTokens is the maximum number of tokens per logical line. 0 means no limit.
	MaxTokens int
	// MaxTokenSize is the maximum size of a single token in bytes. 0 means no limit.
	MaxTokenSize int
	// OnBadLine specifies how to handle bad lines. Default: BadLineModeError
	OnBadLine BadLineMode
	// WarningCallback is invoked for warnings when OnBadLine is BadLineModeWarn
	WarningCallback func(line int, message string)
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	pp := linescan.DefaultPreprocessorOptions()
	return Options{
		Continuation: pp.Continuation,
		Comments:     pp.Comments,
		Delimiter:    pp.Delimiter,
	}
}

// LogicalLine is a preprocessed line with the location of its first physical line.
type LogicalLine struct {
	Text   string
	Row    int
	Offset int
}

// Parser turns script text into logical lines and token ASTs.
type Parser struct {
	tokenizer *shapetokenizer.Tokenizer
	opts      Options
	scanner   linescan.Scanner

	// source is set when reading from an io.Reader.
	source *tokenizer.ValidatingReader
	// err is an input error found before parsing started.
	err error
}

// NewParser creates a new parser for the given input string.
func NewParser(input string) *Parser {
	return NewParserWithOptions(input, DefaultOptions())
}

// NewParserWithOptions creates a new parser with custom options.
// Input that is not valid UTF-8 makes every parse fail with an *tokenizer.EncodingError.
func NewParserWithOptions(input string, opts Options) *Parser {
	p := NewParserFromStreamWithOptions(shapetokenizer.NewStream(input), opts)
	p.err = tokenizer.ValidateString(input)
	return p
}

// NewParserFromReader creates a new parser reading from r.
func NewParserFromReader(r io.Reader) *Parser {
	return NewParserFromReaderWithOptions(r, DefaultOptions())
}

// NewParserFromReaderWithOptions creates a new parser reading from r with custom options.
//
// Lines before the first invalid UTF-8 byte or read error are delivered; the
// failure is then returned by EachLine.
func NewParserFromReaderWithOptions(r io.Reader, opts Options) *Parser {
	source := tokenizer.NewValidatingReader(r)
	p := NewParserFromStreamWithOptions(shapetokenizer.NewStreamFromReader(source), opts)
	p.source = source
	return p
}

// NewParserFromStream creates a new parser using a pre-configured stream.
// The stream decodes runes, so its input must be valid UTF-8; readers should
// go through NewParserFromReader instead.
func NewParserFromStream(stream shapetokenizer.Stream) *Parser {
	return NewParserFromStreamWithOptions(stream, DefaultOptions())
}

// NewParserFromStreamWithOptions creates a new parser from a stream with custom options.
func NewParserFromStreamWithOptions(stream shapetokenizer.Stream, opts Options) *Parser {
	tok := tokenizer.NewTokenizerWithStream(stream)
	p := &Parser{
		tokenizer: &tok,
		opts:      opts,
	}
	p.scanner.Escape = opts.Escape
	return p
}

// EachLine calls fn for every logical line of the input, in order.
// It stops at the first error returned by fn or at the first input error.
func (p *Parser) EachLine(fn func(LogicalLine) error) error {
	if p.err != nil {
		return p.err
	}

	var (
		ready []LogicalLine
		row   int
		off   int
	)
	pp := linescan.NewPreprocessor(func(text string) {
		ready = append(ready, LogicalLine{Text: text, Row: row, Offset: off})
	}, linescan.PreprocessorOptions{
		Continuation: p.opts.Continuation,
		Comments:     p.opts.Comments,
		Delimiter:    p.opts.Delimiter,
	})

	deliver := func() error {
		for i, l := range ready {
			if err := fn(l); err != nil {
				ready = ready[:0]
				return err
			}
			ready[i] = LogicalLine{}
		}
		ready = ready[:0]
		return nil
	}

	err := tokenizer.SplitLines(p.tokenizer, func(line tokenizer.Line) error {
		if err := p.inputErr(line.Offset + len(line.Text)); err != nil {
			return err
		}
		if !pp.Pending() {
			row, off = line.Row, line.Offset
		}
		pp.ProcessLine(line.Text)
		return deliver()
	})
	if err != nil {
		return err
	}
	if p.source != nil {
		if err := p.source.Err(); err != nil {
			return err
		}
	}

	pp.Flush()
	return deliver()
}

// inputErr reports a reader failure that cut off the line ending at end.
func (p *Parser) inputErr(end int) error {
	if p.source == nil {
		return nil
	}
	return p.source.ErrAt(end)
}

// EachValidLine is EachLine with the token limits applied. Lines that break a
// limit are handled according to OnBadLine and are not passed to fn.
func (p *Parser) EachValidLine(fn func(LogicalLine) error) error {
	return p.EachLine(func(l LogicalLine) error {
		if err := p.checkLine(l); err != nil {
			return p.handleBadLine(err)
		}
		return fn(l)
	})
}

// checkLine tokenizes l and reports the first limit it breaks.
func (p *Parser) checkLine(l LogicalLine) *LineError {
	if p.opts.MaxTokens <= 0 && p.opts.MaxTokenSize <= 0 {
		return nil
	}

	p.scanner.AssignString(l.Text)
	n := 0
	for {
		tok, ok := p.scanner.NextAny()
		if !ok {
			return nil
		}
		if err := p.checkToken(tok, n); err != nil {
			return &LineError{Row: l.Row, Text: l.Text, Err: err}
		}
		n++
	}
}

// checkToken validates the token about to become the n-th (0-based) of its line.
func (p *Parser) checkToken(tok []byte, n int) error {
	if p.opts.MaxTokens > 0 && n >= p.opts.MaxTokens {
		return fmt.Errorf("%w (limit %d)", ErrTooManyTokens, p.opts.MaxTokens)
	}
	if p.opts.MaxTokenSize > 0 && len(tok) > p.opts.MaxTokenSize {
		return fmt.Errorf("%w (%d > %d)", ErrTokenTooLarge, len(tok), p.opts.MaxTokenSize)
	}
	return nil
}

// Parse parses the input and returns an AST representing the script.
//
// Returns *ast.ArrayDataNode - an array of logical lines, where each line is an
// ArrayDataNode of tokens. Each token is a LiteralNode containing a string value.
// Lines without tokens are left out.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	lines := make([]ast.SchemaNode, 0, 16)

	err := p.EachLine(func(l LogicalLine) error {
		node, err := p.parseLine(l)
		if err != nil {
			return p.handleBadLine(&LineError{Row: l.Row, Text: l.Text, Err: err})
		}
		if node != nil {
			lines = append(lines, node)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ast.NewArrayDataNode(lines, ast.ZeroPosition()), nil
}

// parseLine splits one logical line into literal nodes.
func (p *Parser) parseLine(l LogicalLine) (*ast.ArrayDataNode, error) {
	data := []byte(l.Text)
	p.scanner.Assign(data)

	tokens := make([]ast.SchemaNode, 0, 8)
	for {
		tok, ok := p.scanner.NextAny()
		if !ok {
			break
		}
		if err := p.checkToken(tok, len(tokens)); err != nil {
			return nil, err
		}
		index := cap(data) - cap(tok)
		tokens = append(tokens, ast.NewLiteralNode(string(tok), p.position(l, index)))
	}

	if len(tokens) == 0 {
		return nil, nil
	}
	return ast.NewArrayDataNode(tokens, ast.NewPosition(l.Offset, l.Row, 1)), nil
}

// position maps a byte index within a logical line to a source position.
// Rows advance across joined physical lines only when they are joined with '\n'.
func (p *Parser) position(l LogicalLine, index int) ast.Position {
	row, column := l.Row, index+1
	if p.opts.Delimiter == '\n' {
		head := l.Text[:index]
		if n := strings.Count(head, "\n"); n > 0 {
			row += n
			column = index - strings.LastIndexByte(head, '\n')
		}
	}
	return ast.NewPosition(l.Offset+index, row, column)
}

// handleBadLine handles a line error based on OnBadLine mode.
// Returns nil if parsing should continue, or the error if it should stop.
func (p *Parser) handleBadLine(err *LineError) error {
	switch p.opts.OnBadLine {
	case BadLineModeSkip:
		return nil
	case BadLineModeWarn:
		if p.opts.WarningCallback != nil {
			p.opts.WarningCallback(err.Row, err.Err.Error())
		}
		return nil
	default:
		return err
	}
}
