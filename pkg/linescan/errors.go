package linescan

import (
	"errors"
	"fmt"
)

// Decode failures.
var (
	// ErrNoToken indicates that extraction found nothing to decode.
	ErrNoToken = errors.New("no token")

	// ErrInvalidFormat indicates that a token could not be converted.
	ErrInvalidFormat = errors.New("invalid format")
)

// DecodeError describes a failed typed extraction.
type DecodeError struct {
	// Label is the scanner's context label, if any.
	Label string
	// Offset is the cursor offset at which extraction started.
	Offset int
	// Token is the text of the offending token; empty for ErrNoToken.
	Token string
	// Err is ErrNoToken or ErrInvalidFormat.
	Err error
}

// Error returns a formatted error message.
func (e *DecodeError) Error() string {
	var msg string
	if errors.Is(e.Err, ErrNoToken) {
		msg = "missing value"
	} else {
		msg = fmt.Sprintf("invalid value %q", e.Token)
	}
	if e.Label != "" {
		return msg + " for " + e.Label
	}
	return fmt.Sprintf("%s at offset %d", msg, e.Offset)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
