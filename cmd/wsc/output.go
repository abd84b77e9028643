package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/wsc-dev/wsc/internal/request"
)

// stdoutIsTerminal reports whether stdout is attached to a TTY. Pretty
// printing is reserved for interactive use; piped output stays compact.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// writeJSON writes a raw JSON payload to w, indented when stdout is a
// terminal. Non-JSON payloads pass through unchanged.
func writeJSON(w io.Writer, raw []byte) {
	if len(raw) == 0 {
		return
	}
	if stdoutIsTerminal() {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err == nil {
			raw = buf.Bytes()
		}
	}
	w.Write(raw)
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		fmt.Fprintln(w)
	}
}

// dumpVerbose prints the raw response body when --verbose is set, after
// whatever formatted output the op produced.
func dumpVerbose(rc *runContext, res *request.Result) {
	if !rc.verbose || res == nil || len(res.Body) == 0 {
		return
	}
	writeJSON(rc.out, res.Body)
}
