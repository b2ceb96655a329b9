package linescan

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Decoder converts the bytes of a token into a typed value.
// Decode reports false when the bytes cannot be converted.
type Decoder[T any] interface {
	Decode(b []byte) (T, bool)
}

// DecoderFunc is a function adapter for the Decoder interface.
type DecoderFunc[T any] func(b []byte) (T, bool)

// Decode implements Decoder.
func (f DecoderFunc[T]) Decode(b []byte) (T, bool) {
	return f(b)
}

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Floating is the set of floating point types.
type Floating interface {
	~float32 | ~float64
}

// Int decodes signed integers.
//
// The base is detected from the prefix: 0x or 0X selects hexadecimal, a leading
// 0 selects octal, anything else decimal. Leading whitespace and a sign are
// accepted. Decoding stops at the first byte that is not a digit, so "123abc"
// decodes to 123; at least one digit is required. Values that do not fit T are
// rejected.
type Int[T Signed] struct{}

// Decode implements Decoder for Int.
func (Int[T]) Decode(b []byte) (T, bool) {
	neg, mag, n, overflow := parseUintPrefix(b)
	if n == 0 || overflow {
		return 0, false
	}
	var v int64
	if neg {
		if mag > uint64(math.MaxInt64)+1 {
			return 0, false
		}
		v = int64(-mag)
	} else {
		if mag > math.MaxInt64 {
			return 0, false
		}
		v = int64(mag)
	}
	t := T(v)
	if int64(t) != v {
		return 0, false
	}
	return t, true
}

// Uint decodes unsigned integers with the same prefix rules as Int.
// A minus sign is accepted only in front of zero.
type Uint[T Unsigned] struct{}

// Decode implements Decoder for Uint.
func (Uint[T]) Decode(b []byte) (T, bool) {
	neg, mag, n, overflow := parseUintPrefix(b)
	if n == 0 || overflow || (neg && mag != 0) {
		return 0, false
	}
	t := T(mag)
	if uint64(t) != mag {
		return 0, false
	}
	return t, true
}

// Float decodes floating point numbers from the longest valid prefix of the
// token: decimal with optional exponent, hexadecimal with optional binary
// exponent, inf, infinity or nan. Trailing bytes are ignored. Values beyond
// the range of T decode to an infinity.
type Float[T Floating] struct{}

// Decode implements Decoder for Float.
func (Float[T]) Decode(b []byte) (T, bool) {
	var zero T
	bits := reflect.TypeOf(zero).Bits()
	num, ok := floatPrefix(b)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, bits)
	if err != nil && !isRangeError(err) {
		return 0, false
	}
	return T(v), true
}

// String decodes a token into a string copy of its bytes.
type String struct{}

// Decode implements Decoder for String.
func (String) Decode(b []byte) (string, bool) {
	return string(b), true
}

// Bytes decodes a token into a copy of its bytes that outlives the scanned data.
type Bytes struct{}

// Decode implements Decoder for Bytes.
func (Bytes) Decode(b []byte) ([]byte, bool) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, true
}

// Bool decodes true/false, 1/0, yes/no, y/n, on/off and t/f, ignoring case.
type Bool struct{}

// Decode implements Decoder for Bool.
func (Bool) Decode(b []byte) (bool, bool) {
	switch strings.ToLower(string(b)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}

// Optional holds a value that may be absent.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// OptionalOf decodes an Optional by running Inner.
//
// The result starts out empty. When Inner fails the decode fails as well and
// the empty Optional is returned; OptionalOf does not turn a bad token into an
// absent value.
type OptionalOf[T any] struct {
	Inner Decoder[T]
}

// Decode implements Decoder for OptionalOf.
func (d OptionalOf[T]) Decode(b []byte) (Optional[T], bool) {
	var res Optional[T]
	v, ok := d.Inner.Decode(b)
	if !ok {
		return res, false
	}
	res.Value = v
	res.Valid = true
	return res, true
}

// Decode converts b with d, returning ErrInvalidFormat wrapped in a
// DecodeError when the conversion fails.
func Decode[T any](b []byte, d Decoder[T]) (T, error) {
	v, ok := d.Decode(b)
	if !ok {
		return v, &DecodeError{Token: string(b), Err: ErrInvalidFormat}
	}
	return v, nil
}

// parseUintPrefix parses the longest integer prefix of b.
// n is the number of digits consumed; zero means no number was found.
func parseUintPrefix(b []byte) (neg bool, mag uint64, n int, overflow bool) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}

	base := uint64(10)
	if i+2 < len(b) && b[i] == '0' && (b[i+1] == 'x' || b[i+1] == 'X') && digitValue(b[i+2]) < 16 {
		base = 16
		i += 2
	} else if i < len(b) && b[i] == '0' {
		base = 8
	}

	for ; i < len(b); i++ {
		d := digitValue(b[i])
		if d >= base {
			break
		}
		n++
		if mag > (math.MaxUint64-d)/base {
			overflow = true
			continue
		}
		mag = mag*base + d
	}
	return neg, mag, n, overflow
}

func digitValue(c byte) uint64 {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0')
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10
	default:
		return 255
	}
}

func isSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

// floatPrefix returns the longest prefix of b that forms a floating point
// number, normalized so strconv.ParseFloat accepts it.
func floatPrefix(b []byte) (string, bool) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	start := i
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}

	if n := matchFold(b[i:], "infinity"); n > 0 {
		return string(b[start : i+n]), true
	}
	if n := matchFold(b[i:], "inf"); n > 0 {
		return string(b[start : i+n]), true
	}
	if n := matchFold(b[i:], "nan"); n > 0 {
		return "nan", true
	}

	if i+1 < len(b) && b[i] == '0' && (b[i+1] == 'x' || b[i+1] == 'X') {
		if end, ok := mantissa(b, i+2, 16); ok {
			end, hasExp := exponent(b, end, 'p', 'P')
			s := string(b[start:end])
			if !hasExp {
				s += "p0"
			}
			return s, true
		}
	}

	end, ok := mantissa(b, i, 10)
	if !ok {
		return "", false
	}
	end, _ = exponent(b, end, 'e', 'E')
	return string(b[start:end]), true
}

// mantissa consumes digits with an optional radix point starting at i and
// reports whether at least one digit was found.
func mantissa(b []byte, i int, base uint64) (int, bool) {
	digits := 0
	for i < len(b) && digitValue(b[i]) < base {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(b) && digitValue(b[j]) < base {
			j++
			frac++
		}
		if digits+frac > 0 {
			return j, true
		}
	}
	return i, digits > 0
}

// exponent consumes an exponent introduced by lower or upper at i, if a
// complete one is present.
func exponent(b []byte, i int, lower, upper byte) (int, bool) {
	if i >= len(b) || (b[i] != lower && b[i] != upper) {
		return i, false
	}
	j := i + 1
	if j < len(b) && (b[j] == '+' || b[j] == '-') {
		j++
	}
	k := j
	for k < len(b) && b[k] >= '0' && b[k] <= '9' {
		k++
	}
	if k == j {
		return i, false
	}
	return k, true
}

func matchFold(b []byte, word string) int {
	if len(b) < len(word) {
		return 0
	}
	if !strings.EqualFold(string(b[:len(word)]), word) {
		return 0
	}
	return len(word)
}

func isRangeError(err error) bool {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err == strconv.ErrRange
	}
	return false
}
