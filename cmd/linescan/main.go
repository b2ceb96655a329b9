// Command linescan tokenizes command scripts and prints one logical line per
// output line. With -i it reads lines interactively.
//
//	linescan [options] [FILE...]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/shapestone/shape-linescan/internal/cli"
	"github.com/shapestone/shape-linescan/pkg/linescan"
	"github.com/shapestone/shape-linescan/pkg/script"
)

const (
	appName     = "linescan"
	historyFile = ".linescan_history"
	promptMain  = "> "
	promptCont  = ". "
)

type config struct {
	opts        script.ReaderOptions
	raw         bool
	interactive bool
	help        bool
	files       []string
}

// delimiterDecoder accepts a single byte or one of the escapes \n, \t and \s.
var delimiterDecoder = linescan.DecoderFunc[byte](func(b []byte) (byte, bool) {
	switch string(b) {
	case `\n`:
		return '\n', true
	case `\t`:
		return '\t', true
	case `\s`:
		return ' ', true
	}
	if len(b) != 1 {
		return 0, false
	}
	return b[0], true
})

func newCLI(cfg *config) *cli.CLI {
	flag := func(dst *bool, v bool) func(*cli.Args) error {
		return func(*cli.Args) error {
			*dst = v
			return nil
		}
	}
	return &cli.CLI{
		Synopsis:    appName + " [options] [FILE...]",
		Description: "Prints the tokens of each logical line of a script. Reads stdin when no FILE is given.",
		Switches: []cli.Switch{
			{Short: 'e', Long: "escape", Description: "allow backslash escapes inside quotes", Run: flag(&cfg.opts.Escape, true)},
			{Short: 'C', Long: "no-comments", Description: "keep '#' comments", Run: flag(&cfg.opts.Comments, false)},
			{Short: 'J', Long: "no-join", Description: "do not join lines ending in a backslash", Run: flag(&cfg.opts.Continuation, false)},
			{Short: 'd', Long: "delimiter", Description: "CHAR written between joined lines (\\n, \\t, \\s or one byte)", Run: func(a *cli.Args) error {
				return a.Scan(linescan.Into(&cfg.opts.Delimiter, delimiterDecoder))
			}},
			{Short: 'm', Long: "max-tokens", Description: "N reject lines with more than N tokens", Run: func(a *cli.Args) error {
				return a.Scan(linescan.Into(&cfg.opts.MaxTokens, linescan.Int[int]{}))
			}},
			{Short: 's', Long: "max-token-size", Description: "N reject tokens longer than N bytes", Run: func(a *cli.Args) error {
				return a.Scan(linescan.Into(&cfg.opts.MaxTokenSize, linescan.Int[int]{}))
			}},
			{Short: 'w', Long: "warn", Description: "report bad lines and continue", Run: func(*cli.Args) error {
				cfg.opts.OnBadLine = script.BadLineModeWarn
				return nil
			}},
			{Short: 'r', Long: "raw", Description: "scan files as stored, without comment or continuation handling", Run: flag(&cfg.raw, true)},
			{Short: 'i', Long: "interactive", Description: "read lines from the terminal", Run: flag(&cfg.interactive, true)},
			{Short: 'h', Long: "help", Description: "show this help", Run: flag(&cfg.help, true)},
		},
		Positional: func(arg string) error {
			cfg.files = append(cfg.files, arg)
			return nil
		},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := &config{opts: script.DefaultReaderOptions()}
	c := newCLI(cfg)
	if !c.Run(args, stderr) {
		return 2
	}
	if cfg.help {
		c.PrintHelp(stdout)
		return 0
	}

	cfg.opts.WarningCallback = func(line int, message string) {
		fmt.Fprintf(stderr, "%s: warning: line %d: %s\n", appName, line, message)
	}
	if err := cfg.opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 2
	}

	if cfg.interactive {
		return interactive(cfg, stdout, stderr)
	}

	if len(cfg.files) == 0 {
		if err := printLines(stdin, cfg.opts, stdout); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 1
		}
		return 0
	}

	status := 0
	for _, name := range cfg.files {
		var err error
		if cfg.raw {
			err = printRaw(name, cfg.opts, stdout, stderr)
		} else {
			err = printFile(name, cfg.opts, stdout)
		}
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s: %v\n", appName, name, err)
			status = 1
		}
	}
	return status
}

func printFile(name string, opts script.ReaderOptions, w io.Writer) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return printLines(f, opts, w)
}

// printLines writes "ROW: TOKEN..." for every logical line.
func printLines(r io.Reader, opts script.ReaderOptions, w io.Writer) error {
	return script.ForEachLine(r, opts, func(row int, s *linescan.Scanner) error {
		fmt.Fprintf(w, "%d:", row)
		writeTokens(w, s, linescan.ModeAny)
		fmt.Fprintln(w)
		return nil
	})
}

func writeTokens(w io.Writer, s *linescan.Scanner, mode linescan.Mode) int {
	n := 0
	for {
		tok, ok := s.Next(mode)
		if !ok {
			return n
		}
		fmt.Fprintf(w, " %q", tok)
		n++
	}
}

// printRaw walks a mapped file line by line with NextFirst and NextInLine.
// Quoted tokens may span lines, so rows are counted from token offsets.
func printRaw(name string, opts script.ReaderOptions, w, stderr io.Writer) error {
	return script.ScanFile(name, func(s *linescan.Scanner) error {
		data := s.Bytes()
		row, counted := 1, 0
		for {
			first, ok := s.Next(linescan.ModeFirst)
			if !ok {
				return nil
			}
			offset := cap(data) - cap(first)
			row += countLineBreaks(data[counted:offset])
			counted = offset

			fmt.Fprintf(w, "%d: %q", row, first)
			n := 1 + writeTokens(w, s, linescan.ModeInLine)
			fmt.Fprintln(w)

			if opts.MaxTokens == 0 || n <= opts.MaxTokens {
				continue
			}
			line, _ := s.TrimmedLine(true)
			err := &script.LineError{Row: row, Text: string(line), Err: script.ErrTooManyTokens}
			switch opts.OnBadLine {
			case script.BadLineModeError:
				return fmt.Errorf("%w near %q", err, line)
			case script.BadLineModeWarn:
				fmt.Fprintf(stderr, "%s: warning: %v near %q\n", appName, err, line)
			}
		}
	})
}

// countLineBreaks counts the line terminators in b. CRLF counts once and a
// lone CR counts as a terminator of its own.
func countLineBreaks(b []byte) int {
	n := 0
	for i, c := range b {
		switch {
		case c == '\n':
			n++
		case c == '\r' && (i+1 == len(b) || b[i+1] != '\n'):
			n++
		}
	}
	return n
}

// interactive reads lines through liner, prompting with promptCont while a
// continued line is pending.
func interactive(cfg *config, stdout, stderr io.Writer) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	row := 0
	s := linescan.NewScanner(nil)
	s.Escape = cfg.opts.Escape
	pp := linescan.NewPreprocessor(func(line string) {
		s.AssignString(line)
		fmt.Fprintf(stdout, "%d:", row)
		writeTokens(stdout, s, linescan.ModeAny)
		fmt.Fprintln(stdout)
	}, linescan.PreprocessorOptions{
		Continuation: cfg.opts.Continuation,
		Comments:     cfg.opts.Comments,
		Delimiter:    cfg.opts.Delimiter,
	})

	for {
		prompt := promptMain
		if pp.Pending() {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 1
		}

		if !pp.Pending() {
			row++
		}
		pp.ProcessLine(line)
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}

	pp.Flush()
	return 0
}
