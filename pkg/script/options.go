package script

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-linescan/internal/parser"
	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// ReaderOptions configures script parsing behavior.
type ReaderOptions struct {
	// Escape enables backslash escapes inside quoted tokens. The backslash
	// stays in the token.
	// Default: false
	Escape bool

	// Continuation joins a line ending in a backslash with the next line.
	// Default: true
	Continuation bool

	// Comments strips everything from an unquoted '#' to the end of the line.
	// Default: true
	Comments bool

	// Delimiter is written between physical lines joined by a continuation.
	// It must not be 0.
	// Default: '\n'
	Delimiter byte

	// MaxTokens is the maximum number of tokens in a logical line.
	// 0 means no limit.
	MaxTokens int

	// MaxTokenSize is the maximum size of a single token in bytes.
	// 0 means no limit.
	MaxTokenSize int

	// OnBadLine specifies how to handle lines that break a limit.
	// Default: BadLineModeError
	OnBadLine BadLineMode

	// WarningCallback is invoked for bad lines when OnBadLine is BadLineModeWarn.
	// If nil, warnings are silently ignored.
	WarningCallback WarningHandler
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	pp := linescan.DefaultPreprocessorOptions()
	return ReaderOptions{
		Continuation: pp.Continuation,
		Comments:     pp.Comments,
		Delimiter:    pp.Delimiter,
		OnBadLine:    BadLineModeError,
	}
}

// Validate checks if the options are valid.
func (o ReaderOptions) Validate() error {
	if o.Delimiter == 0 {
		return &OptionsError{Field: "Delimiter", Message: "must not be zero"}
	}
	if o.MaxTokens < 0 {
		return &OptionsError{Field: "MaxTokens", Message: "must not be negative"}
	}
	if o.MaxTokenSize < 0 {
		return &OptionsError{Field: "MaxTokenSize", Message: "must not be negative"}
	}
	if o.OnBadLine < BadLineModeError || o.OnBadLine > BadLineModeSkip {
		return &OptionsError{Field: "OnBadLine", Message: "unknown mode " + o.OnBadLine.String()}
	}
	return nil
}

func (o ReaderOptions) parserOptions() parser.Options {
	return parser.Options{
		Escape:          o.Escape,
		Continuation:    o.Continuation,
		Comments:        o.Comments,
		Delimiter:       o.Delimiter,
		MaxTokens:       o.MaxTokens,
		MaxTokenSize:    o.MaxTokenSize,
		OnBadLine:       parser.BadLineMode(o.OnBadLine),
		WarningCallback: o.WarningCallback,
	}
}

// ParseWithOptions parses a script into an AST from a string with custom options.
//
// Example:
//
//	opts := script.DefaultReaderOptions()
//	opts.Escape = true
//	opts.MaxTokens = 16
//	node, err := script.ParseWithOptions(input, opts)
func ParseWithOptions(input string, opts ReaderOptions) (ast.SchemaNode, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := parser.NewParserWithOptions(input, opts.parserOptions())
	return p.Parse()
}

// ParseReaderWithOptions parses a script into an AST from an io.Reader with custom options.
func ParseReaderWithOptions(reader io.Reader, opts ReaderOptions) (ast.SchemaNode, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := parser.NewParserFromReaderWithOptions(reader, opts.parserOptions())
	return p.Parse()
}

// ValidateWithOptions checks whether input parses under opts.
func ValidateWithOptions(input string, opts ReaderOptions) error {
	_, err := ParseWithOptions(input, opts)
	return err
}
