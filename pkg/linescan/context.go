package linescan

// TrimmedLine returns the line around the cursor with surrounding whitespace
// removed, for use in diagnostics. The cursor is not moved.
//
// Without rewind the line is the one holding the first non-whitespace byte at
// or after the cursor. With rewind it is the one holding the nearest
// non-whitespace byte before the cursor, which may lie several blank lines
// back. It reports false when no such byte exists.
func (s *Scanner) TrimmedLine(rewind bool) ([]byte, bool) {
	first, last, ok := s.LineSpan(rewind)
	if !ok {
		return nil, false
	}
	return s.data[first : last+1], true
}

// LineSpan is like TrimmedLine but returns the inclusive offsets of the
// trimmed line.
func (s *Scanner) LineSpan(rewind bool) (first, last int, ok bool) {
	var anchor int
	if rewind {
		for anchor = s.p - 1; anchor >= 0 && s.data[anchor] <= ' '; anchor-- {
		}
		if anchor < 0 {
			return 0, 0, false
		}
	} else {
		for anchor = s.p; anchor < len(s.data) && s.data[anchor] <= ' '; anchor++ {
		}
		if anchor >= len(s.data) {
			return 0, 0, false
		}
	}

	first, last = anchor, anchor
	for i := anchor; i >= 0 && !isLineBreak(s.data[i]); i-- {
		if s.data[i] > ' ' {
			first = i
		}
	}
	for i := anchor; i < len(s.data) && !isLineBreak(s.data[i]); i++ {
		if s.data[i] > ' ' {
			last = i
		}
	}
	return first, last, true
}
