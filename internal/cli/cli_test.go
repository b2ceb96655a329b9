package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-linescan/pkg/linescan"
)

type settings struct {
	width, height int
	scale         float64
	verbose       bool
	quiet         bool
	name          string
	files         []string
}

func newTestCLI(st *settings) *CLI {
	return &CLI{
		Synopsis:    "viewer [options] FILE...",
		Description: "Shows files in a window.",
		Switches: []Switch{
			{Short: 's', Long: "size", Description: "window size W H", Run: func(a *Args) error {
				return a.Scan(linescan.Into(&st.width, linescan.Int[int]{}), linescan.Into(&st.height, linescan.Int[int]{}))
			}},
			{Long: "scale", Run: func(a *Args) error {
				var err error
				st.scale, err = Arg(a, linescan.Float[float64]{})
				return err
			}},
			{Short: 'v', Description: "verbose output", Run: func(*Args) error {
				st.verbose = true
				return nil
			}},
			{Short: 'q', Long: "quiet", Run: func(*Args) error {
				st.quiet = true
				return nil
			}},
			{Short: 'n', Long: "name", Run: func(a *Args) error {
				var err error
				st.name, err = Arg(a, linescan.String{})
				return err
			}},
		},
		Positional: func(arg string) error {
			st.files = append(st.files, arg)
			return nil
		},
	}
}

func TestProcess(t *testing.T) {
	var st settings
	c := newTestCLI(&st)

	err := c.Process([]string{"--size", "640", "480", "-vq", "--scale", "1.5", "a.txt", "-n", "main window", "b.txt"})
	require.NoError(t, err)

	assert.Equal(t, 640, st.width)
	assert.Equal(t, 480, st.height)
	assert.Equal(t, 1.5, st.scale)
	assert.True(t, st.verbose)
	assert.True(t, st.quiet)
	assert.Equal(t, "main window", st.name)
	assert.Equal(t, []string{"a.txt", "b.txt"}, st.files)
}

func TestProcess_BundledShortsConsumeInOrder(t *testing.T) {
	var st settings
	c := newTestCLI(&st)

	require.NoError(t, c.Process([]string{"-sn", "3", "4", "title"}))
	assert.Equal(t, 3, st.width)
	assert.Equal(t, 4, st.height)
	assert.Equal(t, "title", st.name)
}

func TestProcess_Verbatim(t *testing.T) {
	var st settings
	c := newTestCLI(&st)

	require.NoError(t, c.Process([]string{"-v", "--", "-q", "--size", "-"}))
	assert.True(t, st.verbose)
	assert.False(t, st.quiet)
	assert.Equal(t, []string{"-q", "--size", "-"}, st.files)
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		target  error
		message string
	}{
		{"missing", []string{"--size", "640"}, ErrMissingArgument, "missing argument(s) for switch --size"},
		{"missing short", []string{"-s"}, ErrMissingArgument, "missing argument(s) for switch -s"},
		{"invalid", []string{"-s", "640", "tall"}, linescan.ErrInvalidFormat, `invalid argument "tall" for switch -s`},
		{"invalid arg helper", []string{"--scale", "big"}, linescan.ErrInvalidFormat, `invalid argument "big" for switch --scale`},
		{"unknown long", []string{"--color"}, ErrUnknownSwitch, "unknown switch --color"},
		{"unknown short", []string{"-vx"}, ErrUnknownSwitch, "unknown switch -x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st settings
			err := newTestCLI(&st).Process(tt.argv)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.message, err.Error())

			var ce *Error
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestEmptyArgument(t *testing.T) {
	a := &Args{argv: []string{"", ""}, context: "switch --x"}

	got, err := Arg(a, linescan.String{})
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got = "unset"
	require.NoError(t, a.Scan(linescan.Into(&got, linescan.String{})))
	assert.Equal(t, "", got)
	assert.Equal(t, 0, a.Len())

	var st settings
	err = newTestCLI(&st).Process([]string{"--name", "", "-v"})
	require.NoError(t, err)
	assert.Equal(t, "", st.name)
	assert.True(t, st.verbose)
}

func TestInvalidArgument_SameErrorBothWays(t *testing.T) {
	var n int
	scanArgs := &Args{argv: []string{""}, context: "switch --n"}
	scanErr := scanArgs.Scan(linescan.Into(&n, linescan.Int[int]{}))

	argArgs := &Args{argv: []string{""}, context: "switch --n"}
	_, argErr := Arg(argArgs, linescan.Int[int]{})

	for _, err := range []error{scanErr, argErr} {
		require.Error(t, err)
		assert.Equal(t, `invalid argument "" for switch --n`, err.Error())
		assert.ErrorIs(t, err, linescan.ErrInvalidFormat)

		var de *linescan.DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "switch --n", de.Label)
		assert.Equal(t, "", de.Token)
	}
	assert.Equal(t, 1, scanArgs.Len())
	assert.Equal(t, 1, argArgs.Len())
}

func TestProcess_NoPositionalHandler(t *testing.T) {
	c := &CLI{}
	err := c.Process([]string{"file"})
	assert.ErrorIs(t, err, ErrUnexpectedArgument)
	assert.Equal(t, "unexpected argument file", err.Error())

	assert.NoError(t, c.Process(nil))
}

func TestProcess_ArgumentPrefixIsEnough(t *testing.T) {
	var st settings
	c := newTestCLI(&st)

	require.NoError(t, c.Process([]string{"--size", "0x20px", "010"}))
	assert.Equal(t, 32, st.width)
	assert.Equal(t, 8, st.height)
}

func TestArgs(t *testing.T) {
	a := &Args{argv: []string{"x", "y"}, context: "switch -t"}
	assert.Equal(t, 2, a.Len())

	v, ok := a.Peek()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	got, err := Arg(a, linescan.String{})
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, 1, a.Len())

	require.NoError(t, a.Scan(linescan.Into(&got, linescan.String{})))
	assert.Equal(t, "y", got)

	_, ok = a.Peek()
	assert.False(t, ok)
	_, err = Arg(a, linescan.String{})
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestPrintHelp(t *testing.T) {
	var st settings
	var buf bytes.Buffer
	newTestCLI(&st).PrintHelp(&buf)

	want := "viewer [options] FILE...\n" +
		"  Shows files in a window.\n" +
		"Options:\n" +
		"  -s|--size\n" +
		"    window size W H\n" +
		"  --scale\n" +
		"  -v\n" +
		"    verbose output\n" +
		"  -q|--quiet\n" +
		"  -n|--name\n"
	assert.Equal(t, want, buf.String())
}

func TestRun(t *testing.T) {
	var st settings
	var buf bytes.Buffer
	c := newTestCLI(&st)

	assert.True(t, c.Run([]string{"-v"}, &buf))
	assert.Empty(t, buf.String())

	assert.False(t, c.Run([]string{"--bogus"}, &buf))
	assert.Contains(t, buf.String(), "Options:")
	assert.Contains(t, buf.String(), "error: unknown switch --bogus")
}
