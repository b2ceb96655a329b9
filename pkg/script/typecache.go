package script

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// fieldSetter decodes the next token of s into field.
type fieldSetter func(s *linescan.Scanner, field reflect.Value) error

// fieldInfo describes one struct field that takes a token.
type fieldInfo struct {
	index    int
	label    string
	optional bool
	set      fieldSetter
}

// structInfo holds cached metadata about a struct type.
type structInfo struct {
	fields []fieldInfo
}

// Global cache for struct metadata
var typeCache sync.Map // map[reflect.Type]*structInfo

// getStructInfo retrieves or computes struct metadata for the given type.
func getStructInfo(structType reflect.Type) (*structInfo, error) {
	if cached, ok := typeCache.Load(structType); ok {
		return cached.(*structInfo), nil
	}

	info, err := computeStructInfo(structType)
	if err != nil {
		return nil, err
	}
	typeCache.Store(structType, info)
	return info, nil
}

// computeStructInfo builds the setters for the exported fields of structType
// in declaration order.
//
// The "line" tag controls a field: "-" skips it, a name replaces the field
// name in error messages, "optional" lets the line end before the field and
// "rest" takes the raw remainder of the line (string or []byte, last field only).
func computeStructInfo(structType reflect.Type) (*structInfo, error) {
	info := &structInfo{}
	rest := false

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.PkgPath != "" {
			continue
		}

		tag := field.Tag.Get("line")
		if tag == "-" {
			continue
		}
		if rest {
			return nil, fmt.Errorf("script: field %s follows a rest field in %s", field.Name, structType)
		}

		fi := fieldInfo{index: i, label: field.Name}
		name, flags, _ := strings.Cut(tag, ",")
		if name != "" {
			fi.label = name
		}
		for _, flag := range strings.Split(flags, ",") {
			switch flag {
			case "":
			case "optional":
				fi.optional = true
			case "rest":
				rest = true
			default:
				return nil, fmt.Errorf("script: unknown tag option %q on %s.%s", flag, structType, field.Name)
			}
		}

		var err error
		if rest {
			fi.set, err = createRestSetter(field.Type)
		} else {
			fi.set, err = createSetter(field.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("script: %s.%s: %w", structType, field.Name, err)
		}
		info.fields = append(info.fields, fi)
	}

	return info, nil
}

// createSetter returns a pre-computed setter for a token field of fieldType.
func createSetter(fieldType reflect.Type) (fieldSetter, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return setWith(linescan.String{}, func(f reflect.Value, v string) { f.SetString(v) }), nil
	case reflect.Bool:
		return setWith(linescan.Bool{}, func(f reflect.Value, v bool) { f.SetBool(v) }), nil
	case reflect.Int:
		return setWith(linescan.Int[int]{}, setInt[int]), nil
	case reflect.Int8:
		return setWith(linescan.Int[int8]{}, setInt[int8]), nil
	case reflect.Int16:
		return setWith(linescan.Int[int16]{}, setInt[int16]), nil
	case reflect.Int32:
		return setWith(linescan.Int[int32]{}, setInt[int32]), nil
	case reflect.Int64:
		return setWith(linescan.Int[int64]{}, setInt[int64]), nil
	case reflect.Uint:
		return setWith(linescan.Uint[uint]{}, setUint[uint]), nil
	case reflect.Uint8:
		return setWith(linescan.Uint[uint8]{}, setUint[uint8]), nil
	case reflect.Uint16:
		return setWith(linescan.Uint[uint16]{}, setUint[uint16]), nil
	case reflect.Uint32:
		return setWith(linescan.Uint[uint32]{}, setUint[uint32]), nil
	case reflect.Uint64:
		return setWith(linescan.Uint[uint64]{}, setUint[uint64]), nil
	case reflect.Float32:
		return setWith(linescan.Float[float32]{}, func(f reflect.Value, v float32) { f.SetFloat(float64(v)) }), nil
	case reflect.Float64:
		return setWith(linescan.Float[float64]{}, func(f reflect.Value, v float64) { f.SetFloat(v) }), nil
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.Uint8 {
			return setWith(linescan.Bytes{}, func(f reflect.Value, v []byte) { f.SetBytes(v) }), nil
		}
	}
	return nil, fmt.Errorf("unsupported field type %s", fieldType)
}

// createRestSetter returns a setter that stores everything after the cursor,
// including lines joined by continuation, with leading blanks removed.
func createRestSetter(fieldType reflect.Type) (fieldSetter, error) {
	isBytes := fieldType.Kind() == reflect.Slice && fieldType.Elem().Kind() == reflect.Uint8
	if fieldType.Kind() != reflect.String && !isBytes {
		return nil, fmt.Errorf("rest field must be string or []byte, not %s", fieldType)
	}

	return func(s *linescan.Scanner, field reflect.Value) error {
		if s.EOF() {
			return &linescan.DecodeError{Label: s.Label, Offset: s.Tell(), Err: linescan.ErrNoToken}
		}
		rest := bytes.TrimLeft(s.Bytes()[s.Tell():], " \t\r\n")
		s.Seek(0, linescan.SeekEnd)
		if isBytes {
			field.SetBytes(bytes.Clone(rest))
		} else {
			field.SetString(string(rest))
		}
		return nil
	}, nil
}

func setWith[T any](d linescan.Decoder[T], store func(reflect.Value, T)) fieldSetter {
	return func(s *linescan.Scanner, field reflect.Value) error {
		v, err := linescan.Get(s, linescan.ModeAny, d)
		if err != nil {
			return err
		}
		store(field, v)
		return nil
	}
}

func setInt[T linescan.Signed](f reflect.Value, v T) {
	f.SetInt(int64(v))
}

func setUint[T linescan.Unsigned](f reflect.Value, v T) {
	f.SetUint(uint64(v))
}

// clearStructCache clears the entire type cache.
func clearStructCache() {
	typeCache.Range(func(key, value interface{}) bool {
		typeCache.Delete(key)
		return true
	})
}
