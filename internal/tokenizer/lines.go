package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Line is a physical line without its terminator.
type Line struct {
	// Text is the line content.
	Text string
	// Row is the 1-based line number.
	Row int
	// Offset is the byte offset of the first byte of the line.
	Offset int
}

// SplitLines reads tok to the end and calls fn for every physical line.
//
// A terminator always ends a line, so "a\n\nb" yields "a", "" and "b". Content
// after the last terminator forms a final line; a trailing terminator does not
// produce an extra empty line. Splitting stops at the first error from fn.
func SplitLines(tok *tokenizer.Tokenizer, fn func(Line) error) error {
	var (
		text    string
		hasText bool
		row     = 1
		offset  int
		start   int
	)

	for {
		token, ok := tok.NextToken()
		if !ok {
			break
		}
		value := token.ValueString()

		switch token.Kind() {
		case TokenText:
			text += value
			hasText = true
		case TokenNewline:
			if err := fn(Line{Text: text, Row: row, Offset: start}); err != nil {
				return err
			}
			text = ""
			hasText = false
			row++
			start = offset + len(value)
		}
		offset += len(value)
	}

	if hasText {
		return fn(Line{Text: text, Row: row, Offset: start})
	}
	return nil
}
