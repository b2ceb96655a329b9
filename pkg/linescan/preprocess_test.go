package linescan

import (
	"reflect"
	"testing"
)

func runPreprocessor(opts PreprocessorOptions, lines ...string) []string {
	got := []string{}
	pp := NewPreprocessor(func(line string) {
		got = append(got, line)
	}, opts)
	for _, line := range lines {
		pp.ProcessLine(line)
	}
	pp.Flush()
	return got
}

func TestPreprocessor(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"single line", []string{"set a 1"}, []string{"set a 1"}},
		{"continuation", []string{"a b \\", "c d"}, []string{"a b \nc d"}},
		{"three way continuation", []string{"a \\", "b \\", "c"}, []string{"a \nb \nc"}},
		{"comment only", []string{"# comment"}, []string{}},
		{"indented comment", []string{"   # comment"}, []string{}},
		{"quoted hash", []string{"a 'b#c'"}, []string{"a 'b#c'"}},
		{"double quoted hash", []string{`a "b # c" d`}, []string{`a "b # c" d`}},
		{"trailing comment", []string{"cmd arg # trailing"}, []string{"cmd arg "}},
		{"blank lines", []string{"", "   ", "\t", "x"}, []string{"x"}},
		{"escaped quote", []string{`say "a \" # b" # c`}, []string{`say "a \" # b" `}},
		{"blank line ends continuation", []string{"one \\", "", "two"}, []string{"one ", "two"}},
		{"comment line ends continuation", []string{"one \\", "# note", "two"}, []string{"one ", "two"}},
		{"blank continuation is skipped", []string{"one \\", "   \\", "two"}, []string{"one \ntwo"}},
		{"unterminated continuation", []string{"a \\", "b \\"}, []string{"a \nb "}},
		{"quotes reset per line", []string{"x 'open \\", "y # gone"}, []string{"x 'open \ny "}},
		{"comment hides backslash", []string{"a # note \\", "b"}, []string{"a \nb"}},
		{"lines stay separate", []string{"a", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runPreprocessor(DefaultPreprocessorOptions(), tt.lines...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("logical lines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreprocessor_Options(t *testing.T) {
	t.Run("comments disabled", func(t *testing.T) {
		opts := DefaultPreprocessorOptions()
		opts.Comments = false
		got := runPreprocessor(opts, "a # b", "# c")
		want := []string{"a # b", "# c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("logical lines = %q, want %q", got, want)
		}
	})

	t.Run("continuation disabled", func(t *testing.T) {
		opts := DefaultPreprocessorOptions()
		opts.Continuation = false
		got := runPreprocessor(opts, "a \\", "b")
		want := []string{"a \\", "b"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("logical lines = %q, want %q", got, want)
		}
	})

	t.Run("custom delimiter", func(t *testing.T) {
		opts := DefaultPreprocessorOptions()
		opts.Delimiter = ' '
		got := runPreprocessor(opts, "a\\", "b\\", "c")
		want := []string{"a b c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("logical lines = %q, want %q", got, want)
		}
	})
}

func TestPreprocessor_EmitTiming(t *testing.T) {
	var got []string
	pp := NewPreprocessor(func(line string) { got = append(got, line) }, DefaultPreprocessorOptions())

	pp.ProcessLine("a b \\")
	if len(got) != 0 {
		t.Fatalf("continued line emitted early: %q", got)
	}
	if !pp.Pending() {
		t.Error("Pending() = false while a continuation is open")
	}

	pp.ProcessLine("c d")
	if want := []string{"a b \nc d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("logical lines = %q, want %q", got, want)
	}
	if pp.Pending() {
		t.Error("Pending() = true after the continuation closed")
	}

	pp.Flush()
	pp.Flush()
	if len(got) != 1 {
		t.Errorf("Flush without pending content emitted: %q", got)
	}
}

func TestPreprocessor_FeedsScanner(t *testing.T) {
	var tokens [][]string
	pp := NewPreprocessor(func(line string) {
		s := NewScannerString(line)
		tokens = append(tokens, drain(s, ModeAny))
	}, DefaultPreprocessorOptions())

	for _, line := range []string{
		"# window setup",
		"size 640 \\",
		"    480",
		"title 'My #1 Window' # shown in the bar",
	} {
		pp.ProcessLine(line)
	}
	pp.Flush()

	want := [][]string{
		{"size", "640", "480"},
		{"title", "My #1 Window"},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}
}
