// Package tokenizer splits script text into physical lines using Shape's
// tokenizer framework.
package tokenizer

// Token type constants for physical line splitting.
//
// The tokenizer only separates line content from line terminators. Comment
// stripping, continuation joining and word splitting happen further up.
const (
	// TokenNewline is a line terminator: \r\n, \n or a lone \r.
	TokenNewline = "Newline"

	// TokenText is a run of bytes that contains no line terminator.
	TokenText = "Text"
)
