//go:build go1.18
// +build go1.18

package linescan

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzScanner drives every extraction mode over random input and checks that
// the cursor stays in range and tokens alias the scanned data.
// Run with: go test -fuzz=FuzzScanner -fuzztime=30s ./pkg/linescan
func FuzzScanner(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"  hello   world  ",
		"'a b' c",
		`'a\'b' c`,
		"a b\nc",
		"a\r\n\r\nb",
		"'unterminated",
		"\"x\ny\" z\n",
		"\n\n\n",
	}
	for _, s := range seeds {
		f.Add(s, false)
		f.Add(s, true)
	}

	f.Fuzz(func(t *testing.T, input string, escape bool) {
		data := []byte(input)
		s := NewScanner(data)
		s.Escape = escape

		for i := 0; i < 4*len(data)+8; i++ {
			mode := Mode(i % 4)
			tok, ok := s.Next(mode)
			if s.Tell() < 0 || s.Tell() > len(data) {
				t.Fatalf("cursor %d out of range [0, %d]", s.Tell(), len(data))
			}
			if ok && len(tok) > 0 && !bytes.Contains(data, tok) {
				t.Fatalf("token %q is not part of the input", tok)
			}
			if i%7 == 0 {
				s.TrimmedLine(i%2 == 0)
			}
			if s.EOF() && !ok {
				break
			}
		}
	})
}

// FuzzPreprocessor checks that logical lines never contain comment text from
// single-line inputs without quotes.
func FuzzPreprocessor(f *testing.F) {
	seeds := []string{
		"a b \\",
		"# comment",
		"a 'b#c'",
		"x # y",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, line string) {
		var out []string
		pp := NewPreprocessor(func(l string) { out = append(out, l) }, DefaultPreprocessorOptions())
		pp.ProcessLine(line)
		pp.Flush()

		if len(out) > 1 {
			t.Fatalf("one physical line produced %d logical lines", len(out))
		}
		if len(out) == 1 && !strings.ContainsAny(line, `'"`) && strings.Contains(out[0], "#") {
			t.Fatalf("comment survived in %q", out[0])
		}
	})
}
