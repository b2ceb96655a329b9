// Package linescan provides a line-oriented scanner for configuration files and
// command scripts.
//
// The package has three parts:
//
//   - Scanner extracts shell-like, quote-aware tokens from a byte slice that is
//     already in memory. It never copies the data.
//   - Preprocessor turns physical lines into logical lines. It strips '#'
//     comments and joins lines that end in a backslash.
//   - Decoders convert tokens into typed values for Get and GetAll.
//
// # Tokens
//
// Tokens are separated by bytes <= ' '. A token that starts with ' or " runs to
// the matching quote and may contain spaces and line breaks:
//
//	set name 'hello world'   ->  set, name, hello world
//
// With Scanner.Escape set, a backslash inside quotes keeps the next byte from
// closing the quote. No unescaping is done, so both bytes stay in the token.
// A quote that is never closed is not an error: the token runs to the end of
// the data.
//
// # Modes
//
// Besides NextAny, which crosses lines freely, the scanner offers
// NextInLine (tokens of the current line only), NextFirst (first token of the
// next line) and Remainder (the raw rest of the line):
//
//	s := linescan.NewScannerString("size 640 480\ntitle My Window\n")
//	cmd, _ := s.NextAny()                 // "size"
//	w, _ := linescan.Get(s, linescan.ModeInLine, linescan.Int[int]{}) // 640
//	h, _ := linescan.Get(s, linescan.ModeInLine, linescan.Int[int]{}) // 480
//	_, ok := s.NextInLine()               // false: line ended
//	cmd, _ = s.NextFirst()                // "title"
//	rest, _ := s.Remainder()              // "My Window"
//
// # Diagnostics
//
// TrimmedLine returns the source line at the cursor, or the last non-blank line
// before it, for "near ..." error messages.
//
// # Thread Safety
//
// Scanner and Preprocessor hold mutable state and are not safe for concurrent
// use. Use one instance per scan session.
package linescan
