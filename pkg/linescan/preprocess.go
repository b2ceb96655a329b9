package linescan

import "strings"

// PreprocessorOptions configures a Preprocessor.
type PreprocessorOptions struct {
	// Continuation joins a physical line ending in a backslash with the next one.
	// Default: true
	Continuation bool

	// Comments strips everything from an unquoted '#' to the end of the line.
	// Default: true
	Comments bool

	// Delimiter separates joined physical lines in a logical line.
	// Default: '\n'
	Delimiter byte
}

// DefaultPreprocessorOptions returns the default preprocessor configuration.
func DefaultPreprocessorOptions() PreprocessorOptions {
	return PreprocessorOptions{
		Continuation: true,
		Comments:     true,
		Delimiter:    '\n',
	}
}

// Preprocessor turns physical lines into logical lines. It strips comments,
// drops blank and comment-only lines, and joins continued lines.
//
// Lines are fed one at a time with ProcessLine. Each complete logical line is
// passed to the callback. When the input ends the caller must call Flush once
// so that a trailing continued line is emitted.
//
// A Preprocessor is not safe for concurrent use.
type Preprocessor struct {
	opts     PreprocessorOptions
	callback func(line string)
	compound strings.Builder
}

// NewPreprocessor creates a Preprocessor that delivers logical lines to callback.
func NewPreprocessor(callback func(line string), opts PreprocessorOptions) *Preprocessor {
	return &Preprocessor{
		opts:     opts,
		callback: callback,
	}
}

// Pending reports whether a continued logical line is being accumulated.
func (pp *Preprocessor) Pending() bool {
	return pp.compound.Len() > 0
}

// ProcessLine consumes one physical line without its terminator.
//
// Quotes are tracked per physical line only, so a quoted string never spans
// a continuation. Inside quotes a backslash protects the next byte.
func (pp *Preprocessor) ProcessLine(line string) {
	if line == "" {
		pp.Flush()
		return
	}

	continued := pp.opts.Continuation && line[len(line)-1] == '\\'
	end := len(line)
	if continued {
		end--
	}

	var (
		quote   byte
		escaped bool
		content bool
	)
scan:
	for i := 0; i < end; i++ {
		c := line[i]
		switch {
		case quote != 0:
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
		case c == '#' && pp.opts.Comments:
			end = i
			break scan
		default:
			if c != ' ' && c != '\t' {
				content = true
			}
			if c == '\'' || c == '"' {
				quote = c
			}
		}
	}

	if !content {
		if !continued {
			pp.Flush()
		}
		return
	}

	if pp.compound.Len() == 0 && !continued {
		pp.callback(line[:end])
		return
	}

	if pp.compound.Len() > 0 {
		pp.compound.WriteByte(pp.opts.Delimiter)
	}
	pp.compound.WriteString(line[:end])
	if !continued {
		pp.Flush()
	}
}

// Flush emits the pending logical line, if any.
func (pp *Preprocessor) Flush() {
	if pp.compound.Len() == 0 {
		return
	}
	line := pp.compound.String()
	pp.compound.Reset()
	pp.callback(line)
}
