package linescan

// Get extracts one token with mode and converts it with d.
//
// It returns a *DecodeError wrapping ErrNoToken when no token was found and
// ErrInvalidFormat when the token could not be converted.
func Get[T any](s *Scanner, mode Mode, d Decoder[T]) (T, error) {
	offset := s.p
	tok, ok := s.Next(mode)
	if !ok {
		var zero T
		return zero, &DecodeError{Label: s.Label, Offset: offset, Err: ErrNoToken}
	}
	v, ok := d.Decode(tok)
	if !ok {
		return v, &DecodeError{Label: s.Label, Offset: offset, Token: string(tok), Err: ErrInvalidFormat}
	}
	return v, nil
}

// Target is a destination for GetAll.
type Target interface {
	// DecodeToken stores the converted token and reports success.
	DecodeToken(tok []byte) bool
}

type into[T any] struct {
	dst *T
	dec Decoder[T]
}

func (t into[T]) DecodeToken(tok []byte) bool {
	v, ok := t.dec.Decode(tok)
	if ok {
		*t.dst = v
	}
	return ok
}

// Into returns a Target that decodes a token with d and stores it in dst.
// dst is left untouched when decoding fails.
func Into[T any](dst *T, d Decoder[T]) Target {
	return into[T]{dst: dst, dec: d}
}

// GetAll extracts one ModeAny token per target, in order, and decodes it into
// that target. It stops at the first missing or unconvertible token. Tokens
// consumed before the failure, and the failing token itself, stay consumed.
func (s *Scanner) GetAll(targets ...Target) error {
	for _, t := range targets {
		offset := s.p
		tok, ok := s.NextAny()
		if !ok {
			return &DecodeError{Label: s.Label, Offset: offset, Err: ErrNoToken}
		}
		if !t.DecodeToken(tok) {
			return &DecodeError{Label: s.Label, Offset: offset, Token: string(tok), Err: ErrInvalidFormat}
		}
	}
	return nil
}
