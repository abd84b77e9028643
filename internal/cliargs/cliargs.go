// Package cliargs splits raw argument lists into positionals and flags.
//
// Parsing is total: it never fails. Any token starting with "--" becomes
// a flag; when the next token exists and is not itself a flag, it is
// consumed as the value, otherwise the flag is boolean true. Everything
// else accumulates as a positional in order. Unrecognized flags simply
// appear in the map, pushing validation to each command handler - an
// intentional choice for a CLI surface this small.
package cliargs

import (
	"fmt"
	"strings"
)

// Args is the parsed form of a raw argument list.
type Args struct {
	// Positional holds non-flag tokens in order.
	Positional []string

	// Flags maps flag names (without the -- prefix) to string values.
	// Boolean flags are absent here; see Bools.
	Flags map[string]string

	// Bools holds flags that appeared without a value.
	Bools map[string]bool
}

// Parse splits argv into positionals and flags. It never fails.
func Parse(argv []string) Args {
	args := Args{
		Flags: make(map[string]string),
		Bools: make(map[string]bool),
	}

	for i := 0; i < len(argv); i++ {
		token := argv[i]
		if !strings.HasPrefix(token, "--") {
			args.Positional = append(args.Positional, token)
			continue
		}

		name := strings.TrimPrefix(token, "--")
		if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "--") {
			args.Flags[name] = argv[i+1]
			i++
		} else {
			args.Bools[name] = true
		}
	}
	return args
}

// String returns a flag's value, or fallback when absent.
func (a Args) String(name, fallback string) string {
	if v, ok := a.Flags[name]; ok {
		return v
	}
	return fallback
}

// Bool reports whether a flag appeared, with or without a value.
func (a Args) Bool(name string) bool {
	if a.Bools[name] {
		return true
	}
	_, ok := a.Flags[name]
	return ok
}

// UsageError reports a missing required argument or flag. The message
// restates correct usage for the command.
type UsageError struct {
	Usage   string
	Missing string
}

func (e *UsageError) Error() string {
	if e.Usage != "" {
		return fmt.Sprintf("missing required %s\nUsage: %s", e.Missing, e.Usage)
	}
	return fmt.Sprintf("missing required %s", e.Missing)
}

// Require checks that the named flags all have string values, returning
// a *UsageError naming the first missing one.
func (a Args) Require(usage string, names ...string) error {
	for _, name := range names {
		if _, ok := a.Flags[name]; !ok {
			return &UsageError{Usage: usage, Missing: "--" + name + " flag"}
		}
	}
	return nil
}

// RequirePositional checks that at least n positionals are present.
func (a Args) RequirePositional(usage string, n int, what string) error {
	if len(a.Positional) < n {
		return &UsageError{Usage: usage, Missing: what}
	}
	return nil
}
