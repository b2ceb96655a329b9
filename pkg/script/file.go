package script

import (
	"github.com/shapestone/shape-linescan/internal/mmap"
	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// ScanFile memory-maps the file at path and calls fn with a Scanner over its
// raw bytes. No comment stripping or continuation joining is applied; the
// Scanner sees the file exactly as stored.
//
// The mapping is released when fn returns, so tokens must not be retained
// past the call without copying them (String and Bytes decoders copy).
func ScanFile(path string, fn func(s *linescan.Scanner) error) error {
	data, release, err := mmap.MapFile(path)
	if err != nil {
		return err
	}
	defer release()

	s := getScanner(false)
	defer putScanner(s)
	s.Assign(data)
	return fn(s)
}
