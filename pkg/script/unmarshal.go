package script

import (
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// UnmarshalLine decodes the remaining tokens of s into the struct pointed to
// by v, one token per exported field in declaration order.
//
// s should hold a single logical line, as handed out by ForEachLine or
// LineReader. Tokens left over after the last field are an error. See the
// "line" struct tag options below.
//
//	type Size struct {
//	    Width  int
//	    Height int
//	    Unit   string `line:"unit,optional"`
//	}
//
// Tag options:
//   - `line:"-"` skips the field
//   - `line:"name"` uses name in error messages
//   - `line:",optional"` leaves the field zero when the line has ended
//   - `line:",rest"` stores the rest of the logical line, continued lines included,
//     without leading blanks (string or []byte, last field)
//
// Supported field kinds are string, bool, all integer and float kinds and []byte.
func UnmarshalLine(s *linescan.Scanner, v interface{}) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("script: UnmarshalLine expects a non-nil struct pointer")
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return errors.New("script: UnmarshalLine expects a struct pointer, got " + rv.Type().String())
	}

	info, err := getStructInfo(elem.Type())
	if err != nil {
		return err
	}
	return decodeStruct(s, info, elem)
}

func decodeStruct(s *linescan.Scanner, info *structInfo, elem reflect.Value) error {
	label := s.Label
	defer func() { s.Label = label }()

	for _, fi := range info.fields {
		s.Label = fi.label
		if err := fi.set(s, elem.Field(fi.index)); err != nil {
			if fi.optional && errors.Is(err, linescan.ErrNoToken) {
				continue
			}
			return err
		}
	}

	if _, ok := s.NextAny(); ok {
		return ErrTooManyTokens
	}
	return nil
}

// Unmarshal decodes every logical line of input into a new element of the
// slice pointed to by v. The slice element must be a struct; see UnmarshalLine
// for the field rules.
//
// Example:
//
//	type User struct {
//	    Name  string
//	    Age   int
//	    Email string `line:",optional"`
//	}
//	var users []User
//	err := script.Unmarshal("alice 30 alice@example.com\nbob 25\n", &users)
func Unmarshal(input string, v interface{}) error {
	return UnmarshalReader(strings.NewReader(input), DefaultReaderOptions(), v)
}

// UnmarshalReader is Unmarshal for an io.Reader with custom options.
// Decoding errors are returned as *LineError carrying the row of the line.
func UnmarshalReader(reader io.Reader, opts ReaderOptions, v interface{}) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("script: Unmarshal expects a non-nil slice pointer")
	}
	slice := rv.Elem()
	if slice.Kind() != reflect.Slice || slice.Type().Elem().Kind() != reflect.Struct {
		return errors.New("script: Unmarshal expects a pointer to a slice of structs, got " + rv.Type().String())
	}

	elemType := slice.Type().Elem()
	info, err := getStructInfo(elemType)
	if err != nil {
		return err
	}

	result := reflect.MakeSlice(slice.Type(), 0, 8)
	err = ForEachLine(reader, opts, func(row int, s *linescan.Scanner) error {
		elem := reflect.New(elemType).Elem()
		if err := decodeStruct(s, info, elem); err != nil {
			return &LineError{Row: row, Text: string(s.Bytes()), Err: err}
		}
		result = reflect.Append(result, elem)
		return nil
	})
	if err != nil {
		return err
	}

	slice.Set(result)
	return nil
}
