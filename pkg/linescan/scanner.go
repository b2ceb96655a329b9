package linescan

import "fmt"

// Mode selects the token extraction algorithm used by Next and the typed accessors.
type Mode int

const (
	// ModeAny extracts the next token wherever it is, crossing line boundaries.
	ModeAny Mode = iota
	// ModeInLine extracts the next token only if it is on the current line.
	ModeInLine
	// ModeFirst skips the rest of the current line and extracts the first token of the next one.
	ModeFirst
	// ModeRemainder returns the raw rest of the current line.
	ModeRemainder
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeAny:
		return "any"
	case ModeInLine:
		return "inline"
	case ModeFirst:
		return "first"
	case ModeRemainder:
		return "remainder"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Whence values for Seek.
const (
	SeekStart   = 0 // relative to the beginning of the data
	SeekCurrent = 1 // relative to the cursor
	SeekEnd     = 2 // relative to the end of the data
)

// Scanner extracts shell-like, quote-aware tokens from a byte slice.
//
// The scanner never copies the data it is assigned. Every token it returns is a
// sub-slice of that data and stays valid only as long as the caller keeps the
// backing array unchanged.
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	// Escape enables backslash escapes inside quoted tokens. An escaped byte
	// never closes the quote. Both the backslash and the escaped byte are kept
	// in the token.
	Escape bool

	// Label is a human-readable context copied into every DecodeError the
	// scanner produces, e.g. "switch --size".
	Label string

	data    []byte
	p       int
	newLine bool
}

// NewScanner creates a Scanner positioned at the start of data.
func NewScanner(data []byte) *Scanner {
	s := &Scanner{}
	s.Assign(data)
	return s
}

// NewScannerString creates a Scanner over the bytes of str.
func NewScannerString(str string) *Scanner {
	return NewScanner([]byte(str))
}

// Assign rebinds the scanner to data and rewinds the cursor.
func (s *Scanner) Assign(data []byte) {
	s.data = data
	s.p = 0
	s.newLine = true
}

// AssignString rebinds the scanner to the bytes of str.
func (s *Scanner) AssignString(str string) {
	s.Assign([]byte(str))
}

// Bytes returns the assigned data.
func (s *Scanner) Bytes() []byte { return s.data }

// Len returns the size of the assigned data.
func (s *Scanner) Len() int { return len(s.data) }

// Tell returns the cursor offset.
func (s *Scanner) Tell() int { return s.p }

// Seek moves the cursor and returns its new offset. The target is clamped into
// [0, Len()]. Seek leaves the line-start flag untouched.
func (s *Scanner) Seek(offset int, whence int) int {
	base := 0
	switch whence {
	case SeekCurrent:
		base = s.p
	case SeekEnd:
		base = len(s.data)
	}
	// Clamp against the distance to either end so base+offset cannot overflow.
	switch {
	case offset < -base:
		s.p = 0
	case offset > len(s.data)-base:
		s.p = len(s.data)
	default:
		s.p = base + offset
	}
	return s.p
}

// EOF reports whether the cursor reached the end of the data.
func (s *Scanner) EOF() bool { return s.p >= len(s.data) }

// AtLineStart reports whether the last scan ended past a line boundary, or
// nothing has been scanned since the data was assigned.
func (s *Scanner) AtLineStart() bool { return s.newLine }

// Next extracts a token using the given mode.
func (s *Scanner) Next(mode Mode) ([]byte, bool) {
	switch mode {
	case ModeAny:
		return s.NextAny()
	case ModeInLine:
		return s.NextInLine()
	case ModeFirst:
		return s.NextFirst()
	case ModeRemainder:
		return s.Remainder()
	default:
		return nil, false
	}
}

// Text extracts a token using the given mode and returns a copy of it.
// An empty token counts as no token.
func (s *Scanner) Text(mode Mode) (string, bool) {
	tok, ok := s.Next(mode)
	if !ok || len(tok) == 0 {
		return "", false
	}
	return string(tok), true
}

// NextAny extracts the next token, skipping any leading whitespace including
// line breaks.
//
// A token starting with ' or " runs to the matching unescaped quote and may
// contain whitespace and line breaks; the quotes are not part of the token.
// A quote left open at the end of the data yields everything up to the end.
// Any other token runs to the next byte <= ' '. When that byte is a line
// terminator the whole run of CR/LF bytes is consumed and the scanner is left
// at a line start.
func (s *Scanner) NextAny() ([]byte, bool) {
	var (
		quoted  bool
		escaped bool
		quote   byte
		start   = -1
	)
	s.newLine = false

	for s.p < len(s.data) {
		c := s.data[s.p]
		switch {
		case quoted:
			if escaped {
				escaped = false
			} else if s.Escape && c == '\\' {
				escaped = true
			} else if c == quote {
				tok := s.data[start:s.p]
				s.p++
				return tok, true
			}
			s.p++

		case c > ' ':
			if start < 0 {
				start = s.p
				if c == '"' || c == '\'' {
					quoted = true
					quote = c
					start++
				}
			}
			s.p++

		default:
			end := s.p
			if isLineBreak(c) {
				if start >= 0 {
					s.newLine = true
				}
				s.skipLineBreaks()
			} else {
				s.p++
			}
			if start >= 0 {
				return s.data[start:end], true
			}
		}
	}

	if start >= 0 {
		return s.data[start:], true
	}
	return nil, false
}

// NextInLine extracts the next token if one remains on the current line.
// Reaching a line break first consumes it, leaves the scanner at a line start
// and reports no token.
func (s *Scanner) NextInLine() ([]byte, bool) {
	if s.newLine {
		return nil, false
	}
	for s.p < len(s.data) && s.data[s.p] <= ' ' {
		if isLineBreak(s.data[s.p]) {
			s.skipLineBreaks()
			s.newLine = true
			return nil, false
		}
		s.p++
	}
	return s.NextAny()
}

// NextFirst extracts the first token of the next line, or of the current line
// if the scanner is already at a line start.
func (s *Scanner) NextFirst() ([]byte, bool) {
	if !s.newLine && !s.SeekNextLine(false) {
		return nil, false
	}
	return s.NextAny()
}

// Remainder returns the raw bytes from the cursor to the next line terminator
// or the end of the data. The terminator itself is left unconsumed.
func (s *Scanner) Remainder() ([]byte, bool) {
	if s.p >= len(s.data) {
		return nil, false
	}
	start := s.p
	for s.p < len(s.data) && !isLineBreak(s.data[s.p]) {
		s.p++
	}
	return s.data[start:s.p], true
}

// SeekNextLine moves the cursor to the first byte of the next line.
//
// If the scanner is already at a line start and force is false, it stays put
// and reports true. It reports false when no further line exists, which
// includes data ending in a line terminator.
func (s *Scanner) SeekNextLine(force bool) bool {
	if s.newLine && !force {
		return true
	}
	s.newLine = true

	for s.p < len(s.data) && !isLineBreak(s.data[s.p]) {
		s.p++
	}
	if s.p >= len(s.data) {
		return false
	}
	s.skipLineBreaks()
	return s.p < len(s.data)
}

func (s *Scanner) skipLineBreaks() {
	for s.p < len(s.data) && isLineBreak(s.data[s.p]) {
		s.p++
	}
}

func isLineBreak(c byte) bool {
	return c == '\n' || c == '\r'
}
