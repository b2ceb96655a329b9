package script

import (
	"fmt"

	"github.com/shapestone/shape-linescan/internal/parser"
	"github.com/shapestone/shape-linescan/internal/tokenizer"
)

// BadLineMode specifies how lines that break token limits are handled.
type BadLineMode int

const (
	// BadLineModeError returns an error on bad lines (default).
	BadLineModeError BadLineMode = iota
	// BadLineModeWarn reports a warning but continues parsing.
	BadLineModeWarn
	// BadLineModeSkip silently skips bad lines.
	BadLineModeSkip
)

// String returns the string representation of BadLineMode.
func (m BadLineMode) String() string {
	switch m {
	case BadLineModeError:
		return "error"
	case BadLineModeWarn:
		return "warn"
	case BadLineModeSkip:
		return "skip"
	default:
		return fmt.Sprintf("BadLineMode(%d)", m)
	}
}

// LineError reports a logical line that broke a limit. Row is the line number
// of its first physical line.
type LineError = parser.LineError

// Limit errors, matched with errors.Is.
var (
	// ErrTooManyTokens indicates a logical line exceeded MaxTokens.
	ErrTooManyTokens = parser.ErrTooManyTokens

	// ErrTokenTooLarge indicates a token exceeded MaxTokenSize.
	ErrTokenTooLarge = parser.ErrTokenTooLarge
)

// ErrInvalidUTF8 is matched with errors.Is when input is not valid UTF-8.
// Such input is rejected rather than altered.
var ErrInvalidUTF8 = tokenizer.ErrInvalidUTF8

// EncodingError reports the byte offset of the first invalid UTF-8 sequence.
type EncodingError = tokenizer.EncodingError

// WarningHandler is a callback function for reporting warnings.
type WarningHandler func(line int, message string)

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "script: invalid " + e.Field + ": " + e.Message
}
