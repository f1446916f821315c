package argv

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"
)

// Expander rewrites the argument state before the engine reads it.
// Failures are the expander's own business: it reports them however it
// likes and leaves the state usable.
type Expander interface {
	Expand(s *State)
}

// ExpanderFunc adapts a function to the Expander interface.
type ExpanderFunc func(s *State)

// Expand calls f(s).
func (f ExpanderFunc) Expand(s *State) { f(s) }

// NopExpander leaves the state untouched.
var NopExpander Expander = ExpanderFunc(func(*State) {})

// ResponseFilePrefix marks an argument that names a response file.
const ResponseFilePrefix = "@"

// ResponseFileExpander inlines "@file" arguments.
//
// Each argument after the program name that starts with "@" is replaced by
// the whitespace-separated tokens of the named file. Double quotes group a
// token and are stripped. Inlined tokens are not rescanned, so a file that
// names itself does not recurse. An unreadable file is logged and its
// argument is kept as-is.
type ResponseFileExpander struct {
	// ReadFile loads a response file. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	// Logger receives expansion diagnostics. Defaults to a discard logger.
	Logger *slog.Logger
}

// Expand implements Expander.
func (e *ResponseFileExpander) Expand(s *State) {
	readFile := e.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	args := s.Args()
	if len(args) < 2 {
		return
	}

	out := make([]string, 0, len(args))
	out = append(out, args[0])
	expanded := false

	for _, arg := range args[1:] {
		if !strings.HasPrefix(arg, ResponseFilePrefix) || len(arg) == len(ResponseFilePrefix) {
			out = append(out, arg)
			continue
		}

		name := strings.TrimPrefix(arg, ResponseFilePrefix)
		data, err := readFile(name)
		if err != nil {
			logger.Warn("response file unreadable", "file", name, "error", err)
			out = append(out, arg)
			continue
		}

		tokens := SplitResponse(string(data))
		logger.Debug("response file expanded", "file", name, "tokens", len(tokens))
		out = append(out, tokens...)
		expanded = true
	}

	if !expanded {
		return
	}
	if err := s.Replace(out); err != nil {
		logger.Warn("response file expansion discarded", "error", err)
	}
}

// SplitResponse tokenizes response-file contents.
// Tokens are separated by whitespace; a double-quoted run is a single token
// and may contain whitespace. An unterminated quote runs to end of input.
func SplitResponse(content string) []string {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		inToken bool
	)

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range content {
		switch {
		case r == '"':
			inQuote = !inQuote
			inToken = true
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()

	return tokens
}
