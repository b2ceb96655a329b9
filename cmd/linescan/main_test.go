package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScript = "# setup\nsize 640 \\\n  480\ntitle 'My Window' # bar\n"

func runCmd(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Stdin(t *testing.T) {
	code, out, errOut := runCmd(t, testScript)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "2: \"size\" \"640\" \"480\"\n4: \"title\" \"My Window\"\n", out)
}

func TestRun_Files(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cfg")
	require.NoError(t, os.WriteFile(path, []byte(testScript), 0644))

	code, out, _ := runCmd(t, "", "--no-comments", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "1: \"#\" \"setup\"\n")
	assert.Contains(t, out, "\"#\" \"bar\"")

	code, _, errOut := runCmd(t, "", filepath.Join(t.TempDir(), "missing.cfg"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "missing.cfg")
}

func TestRun_Raw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.cfg")
	require.NoError(t, os.WriteFile(path, []byte("a 1 2\n\n'multi\nline' x\nb\n"), 0644))

	code, out, errOut := runCmd(t, "", "-r", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "1: \"a\" \"1\" \"2\"\n3: \"multi\\nline\" \"x\"\n5: \"b\"\n", out)

	code, _, errOut = runCmd(t, "", "-r", "-m", "2", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `line 1: too many tokens near "a 1 2"`)

	code, out, errOut = runCmd(t, "", "-rw", "-m", "2", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "5: \"b\"")
	assert.Contains(t, errOut, "warning: line 1")
}

func TestRun_RawCarriageReturns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cr.cfg")
	require.NoError(t, os.WriteFile(path, []byte("a\rb\r\r'c'\r\nd\n"), 0644))

	code, out, errOut := runCmd(t, "", "-r", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "1: \"a\"\n2: \"b\"\n4: \"c\"\n5: \"d\"\n", out)
}

func TestCountLineBreaks(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 0},
		{"a\nb\n", 2},
		{"a\r\nb", 1},
		{"a\rb\r", 2},
		{"\r\r\n\n", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countLineBreaks([]byte(tt.input)), "%q", tt.input)
	}
}

func TestRun_InvalidUTF8(t *testing.T) {
	code, out, errOut := runCmd(t, "ok\nx caf\xe9\n")
	assert.Equal(t, 1, code)
	assert.Equal(t, "1: \"ok\"\n", out)
	assert.Contains(t, errOut, "invalid UTF-8 at byte offset 8")
}

func TestRun_Limits(t *testing.T) {
	code, _, errOut := runCmd(t, "a b c\n", "--max-tokens", "2")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "line 1: too many tokens")

	code, out, errOut := runCmd(t, "a b c\nd\n", "-w", "-m", "2")
	assert.Equal(t, 0, code)
	assert.Equal(t, "2: \"d\"\n", out)
	assert.Contains(t, errOut, "warning: line 1")
}

func TestRun_Delimiter(t *testing.T) {
	code, out, _ := runCmd(t, "x\\\ny\n", "-C", "-d", `\s`)
	require.Equal(t, 0, code)
	assert.Equal(t, "1: \"x\" \"y\"\n", out)

	code, out, _ = runCmd(t, "x \\\ny\n", "-J")
	require.Equal(t, 0, code)
	assert.Equal(t, "1: \"x\" \"\\\\\"\n2: \"y\"\n", out)
}

func TestRun_Usage(t *testing.T) {
	code, out, _ := runCmd(t, "", "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Options:")
	assert.Contains(t, out, "-e|--escape")

	code, _, errOut := runCmd(t, "", "--bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown switch --bogus")

	code, _, errOut = runCmd(t, "", "-d", "ab")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `invalid argument "ab" for switch -d`)

	code, _, errOut = runCmd(t, "", "-m", "-3")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "MaxTokens")
}
