// Package cli dispatches command-line switches whose parameters are decoded
// with the linescan decoders.
//
//	var w, h int
//	c := &cli.CLI{
//	    Synopsis: "viewer [options] FILE",
//	    Switches: []cli.Switch{{
//	        Short: 's', Long: "size", Description: "window size W H",
//	        Run: func(a *cli.Args) error {
//	            return a.Scan(linescan.Into(&w, linescan.Int[int]{}), linescan.Into(&h, linescan.Int[int]{}))
//	        },
//	    }},
//	}
//	err := c.Process(os.Args[1:])
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// Command-line errors, matched with errors.Is.
var (
	// ErrMissingArgument indicates a switch ran out of arguments.
	ErrMissingArgument = errors.New("missing argument")

	// ErrUnknownSwitch indicates a switch that no Switch entry matches.
	ErrUnknownSwitch = errors.New("unknown switch")

	// ErrUnexpectedArgument indicates a positional argument with no handler.
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// Error reports a command-line problem together with the switch it belongs to.
type Error struct {
	// Context names the switch, e.g. "switch --size" or "switch -s".
	Context string
	// Arg is the offending argument, if any.
	Arg string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingArgument):
		return "missing argument(s) for " + e.Context
	case errors.Is(e.Err, ErrUnknownSwitch), errors.Is(e.Err, ErrUnexpectedArgument):
		return fmt.Sprintf("%v %s", e.Err, e.Arg)
	case e.Context == "":
		return fmt.Sprintf("invalid argument %q: %v", e.Arg, e.Err)
	default:
		return fmt.Sprintf("invalid argument %q for %s", e.Arg, e.Context)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Switch is a single command-line option. Either Short or Long may be empty.
type Switch struct {
	Short       byte
	Long        string
	Description string
	// Run consumes the switch's arguments, if any.
	Run func(a *Args) error
}

// CLI describes a program's command line.
type CLI struct {
	Synopsis    string
	Description string
	Switches    []Switch
	// Positional receives every argument that is not a switch, including
	// everything after "--". If nil, positional arguments are an error.
	Positional func(arg string) error
}

// Args is the argument cursor handed to a Switch. Each argument is decoded as
// a whole by a linescan Decoder; failures carry a *linescan.DecodeError
// labelled with the switch name.
type Args struct {
	argv    []string
	i       int
	context string
}

// Len returns the number of arguments not yet consumed.
func (a *Args) Len() int {
	return len(a.argv) - a.i
}

// Peek returns the next argument without consuming it.
func (a *Args) Peek() (string, bool) {
	if a.i >= len(a.argv) {
		return "", false
	}
	return a.argv[a.i], true
}

// Scan decodes one argument per target, in order. It stops at the first
// missing or invalid argument; arguments decoded before it stay consumed.
func (a *Args) Scan(targets ...linescan.Target) error {
	for _, t := range targets {
		arg, err := a.current()
		if err != nil {
			return err
		}
		if !t.DecodeToken([]byte(arg)) {
			return a.invalid(arg)
		}
		a.i++
	}
	return nil
}

// Arg decodes the next argument with d. The whole argument is one token, so
// an empty argument is passed to d like any other.
func Arg[T any](a *Args, d linescan.Decoder[T]) (T, error) {
	arg, err := a.current()
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := d.Decode([]byte(arg))
	if !ok {
		return v, a.invalid(arg)
	}
	a.i++
	return v, nil
}

func (a *Args) current() (string, error) {
	if a.i >= len(a.argv) {
		return "", &Error{Context: a.context, Err: ErrMissingArgument}
	}
	return a.argv[a.i], nil
}

// invalid reports arg as unconvertible for the running switch.
func (a *Args) invalid(arg string) *Error {
	return &Error{
		Context: a.context,
		Arg:     arg,
		Err:     &linescan.DecodeError{Label: a.context, Token: arg, Err: linescan.ErrInvalidFormat},
	}
}

// PrintHelp writes the synopsis, description and switch list to w.
func (c *CLI) PrintHelp(w io.Writer) {
	if c.Synopsis != "" {
		fmt.Fprintln(w, c.Synopsis)
	}
	if c.Description != "" {
		if c.Synopsis != "" {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintln(w, c.Description)
	}

	fmt.Fprintln(w, "Options:")
	for _, sw := range c.Switches {
		switch {
		case sw.Short != 0 && sw.Long != "":
			fmt.Fprintf(w, "  -%c|--%s\n", sw.Short, sw.Long)
		case sw.Short != 0:
			fmt.Fprintf(w, "  -%c\n", sw.Short)
		case sw.Long != "":
			fmt.Fprintf(w, "  --%s\n", sw.Long)
		default:
			continue
		}
		if sw.Description != "" {
			fmt.Fprintf(w, "    %s\n", sw.Description)
		}
	}
}

// Process dispatches argv, which must not include the program name.
//
// "--name" selects a switch by long name and "-abc" runs the short switches
// a, b and c in order, each consuming its own arguments. A lone "-" is a
// positional argument. After "--" every argument is positional.
func (c *CLI) Process(argv []string) error {
	a := &Args{argv: argv}
	verbatim := false

	for a.i < len(a.argv) {
		arg := a.argv[a.i]
		a.i++

		switch {
		case verbatim || len(arg) < 2 || arg[0] != '-':
			if err := c.positional(arg); err != nil {
				return err
			}
		case arg == "--":
			verbatim = true
		case arg[1] == '-':
			sw := c.findLong(arg[2:])
			if sw == nil {
				return &Error{Arg: arg, Err: ErrUnknownSwitch}
			}
			if err := c.run(sw, a, "switch --"+sw.Long); err != nil {
				return err
			}
		default:
			for j := 1; j < len(arg); j++ {
				sw := c.findShort(arg[j])
				if sw == nil {
					return &Error{Arg: "-" + string(arg[j]), Err: ErrUnknownSwitch}
				}
				if err := c.run(sw, a, "switch -"+string(sw.Short)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Run is Process for use from main: on error it prints
// the help text followed by the error to stderr and reports false.
func (c *CLI) Run(argv []string, stderr io.Writer) bool {
	if err := c.Process(argv); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			c.PrintHelp(stderr)
			fmt.Fprintln(stderr, "error:", err)
		} else {
			fmt.Fprintln(stderr, "fatal:", err)
		}
		return false
	}
	return true
}

func (c *CLI) positional(arg string) error {
	if c.Positional == nil {
		return &Error{Arg: arg, Err: ErrUnexpectedArgument}
	}
	return c.Positional(arg)
}

func (c *CLI) run(sw *Switch, a *Args, context string) error {
	if sw.Run == nil {
		return nil
	}
	a.context = context
	return sw.Run(a)
}

func (c *CLI) findLong(name string) *Switch {
	for i := range c.Switches {
		if c.Switches[i].Long != "" && c.Switches[i].Long == name {
			return &c.Switches[i]
		}
	}
	return nil
}

func (c *CLI) findShort(b byte) *Switch {
	for i := range c.Switches {
		if c.Switches[i].Short != 0 && c.Switches[i].Short == b {
			return &c.Switches[i]
		}
	}
	return nil
}
