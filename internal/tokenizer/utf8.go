package tokenizer

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrInvalidUTF8 indicates input that is not valid UTF-8.
//
// Line streams decode their input into runes, so bytes that do not form valid
// UTF-8 cannot be carried through to the scanner unchanged. Such input is
// rejected instead of being altered.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// EncodingError reports the first invalid UTF-8 byte of the input.
type EncodingError struct {
	// Offset is the byte offset of the invalid sequence.
	Offset int
}

// Error returns a formatted error message with the byte offset.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v at byte offset %d", ErrInvalidUTF8, e.Offset)
}

// Unwrap returns ErrInvalidUTF8.
func (e *EncodingError) Unwrap() error {
	return ErrInvalidUTF8
}

// ValidateString returns an *EncodingError if s is not valid UTF-8.
func ValidateString(s string) error {
	if n := validPrefix([]byte(s)); n < len(s) {
		return &EncodingError{Offset: n}
	}
	return nil
}

// maxEmptyReads bounds consecutive reads that return no data and no error.
const maxEmptyReads = 100

// ValidatingReader passes bytes through from an io.Reader and stops at the
// first invalid UTF-8 sequence or read error.
//
// Every Read returns whole runes only. A sequence cut by the underlying reader
// is completed by the following reads before it is passed on, so a stream
// decoding chunk by chunk never sees half of a character.
type ValidatingReader struct {
	r      io.Reader
	carry  [utf8.UTFMax]byte
	ncarry int
	offset int
	err    error
	failAt int
}

// NewValidatingReader wraps r.
func NewValidatingReader(r io.Reader) *ValidatingReader {
	return &ValidatingReader{r: r}
}

// Read implements io.Reader. After a failure it returns the failure on every
// call; the bytes before the failure are returned first.
func (v *ValidatingReader) Read(p []byte) (int, error) {
	if v.err != nil {
		return 0, v.err
	}
	if len(p) < utf8.UTFMax {
		return 0, io.ErrShortBuffer
	}

	n := copy(p, v.carry[:v.ncarry])
	v.ncarry = 0

	for empty := 0; ; {
		m, rerr := v.r.Read(p[n:])
		n += m
		valid := validPrefix(p[:n])
		rest := p[valid:n]

		switch {
		case len(rest) > 0 && (rerr != nil || len(rest) >= utf8.UTFMax || utf8.FullRune(rest)):
			v.fail(&EncodingError{Offset: v.offset + valid}, valid)
			return valid, nil
		case rerr == io.EOF:
			v.fail(io.EOF, valid)
			return valid, nil
		case rerr != nil:
			v.fail(rerr, valid)
			return valid, nil
		case valid > 0:
			v.ncarry = copy(v.carry[:], rest)
			v.offset += valid
			return valid, nil
		}

		if m == 0 {
			if empty++; empty >= maxEmptyReads {
				v.fail(io.ErrNoProgress, 0)
				return 0, nil
			}
		}
	}
}

func (v *ValidatingReader) fail(err error, valid int) {
	v.offset += valid
	v.err = err
	v.failAt = v.offset
}

// Err returns the failure that stopped the reader, or nil if it reached the
// end of the input cleanly or has not stopped yet.
func (v *ValidatingReader) Err() error {
	if v.err == io.EOF {
		return nil
	}
	return v.err
}

// ErrAt returns the failure if it happened at or before byte offset end.
// A line whose text ends at the failure offset was cut short by it.
func (v *ValidatingReader) ErrAt(end int) error {
	if err := v.Err(); err != nil && end >= v.failAt {
		return err
	}
	return nil
}

// validPrefix returns the length of the longest prefix of b made of complete,
// valid UTF-8 sequences.
func validPrefix(b []byte) int {
	i := 0
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return i
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return i
}
