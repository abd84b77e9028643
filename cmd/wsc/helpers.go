package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wsc-dev/wsc/internal/cliargs"
	"github.com/wsc-dev/wsc/internal/config"
	"github.com/wsc-dev/wsc/internal/connector"
	"github.com/wsc-dev/wsc/internal/creds"
	"github.com/wsc-dev/wsc/internal/errmsg"
	"github.com/wsc-dev/wsc/internal/log"
	"github.com/wsc-dev/wsc/internal/request"
	"github.com/wsc-dev/wsc/internal/userconfig"
)

// runContext carries the parsed arguments and output sink of one
// connector invocation. Ops write results to out, never to os.Stdout
// directly, so tests can capture them.
type runContext struct {
	args    cliargs.Args
	out     io.Writer
	verbose bool
}

// opFunc dispatches one connector's operations.
type opFunc func(ctx context.Context, rc *runContext) error

// runConnector is the shared entry point for every connector command.
// Connector commands disable cobra flag parsing and hand the raw argv
// here; parsing is total, so malformed input surfaces as a usage error
// from the op handler, never as a parser crash.
//
// Help is answered before any credential resolution, so it works with
// zero configuration.
func runConnector(name, usage string, op opFunc, argv []string) {
	args := cliargs.Parse(argv)

	// Flag parsing is disabled on connector commands, so the persistent
	// flags arrive here as raw tokens when placed after the connector
	// name; honor them the same as their pre-command forms.
	if v := args.String("config-root", ""); v != "" {
		flagConfigRoot = v
	}
	verbose := flagVerbose || args.Bool("verbose") || userVerbose()
	setupLogger(verbose)

	if len(args.Positional) == 0 || args.Positional[0] == "help" || args.Bool("help") {
		fmt.Print(usage)
		return
	}

	rc := &runContext{args: args, out: os.Stdout, verbose: verbose}
	if err := op(context.Background(), rc); err != nil {
		printError(err, name)
		exitWithCode(ExitError)
	}
}

// setupLogger installs the process logger. Verbose mode turns on debug
// output on stderr; otherwise only warnings and errors surface.
func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	log.SetDefault(log.New(handler))
}

// effectiveConfigRoot decides where connector configs are read from:
// the --config-root flag wins, then WSC_CONFIG_ROOT, then the
// config_root user setting, then the default under the wsc home.
func effectiveConfigRoot() (string, error) {
	if flagConfigRoot != "" {
		return flagConfigRoot, nil
	}

	cfg, err := config.DefaultConfig()
	if err != nil {
		return "", err
	}

	if os.Getenv(config.EnvConfigRoot) == "" {
		if uc, err := userconfig.Load(); err == nil && uc.ConfigRoot != "" {
			return uc.ConfigRoot, nil
		}
	}
	return cfg.ConfigRoot, nil
}

// userVerbose reports whether the persisted verbose setting is on, so
// "wsc config set verbose true" behaves like passing --verbose always.
func userVerbose() bool {
	uc, err := userconfig.Load()
	return err == nil && uc.Verbose
}

// selectorFrom returns the named-config selector for this invocation,
// from the in-command --selector flag or the persistent one.
func selectorFrom(args cliargs.Args) string {
	return args.String("selector", flagSelector)
}

// dial resolves credentials for a connector and returns a client bound
// to its base URL and auth headers.
func dial(def connector.Definition, args cliargs.Args) (*request.Client, *creds.Resolved, error) {
	return dialWith(def, selectorFrom(args), def.RequiredKeys)
}

// dialWith is dial with an explicit selector and required-key set, for
// operations whose credential scope differs from the connector default.
// Account-scoped operations pass an empty selector so a project
// selector on the command line never leaks into their resolution.
func dialWith(def connector.Definition, selector string, keys []string) (*request.Client, *creds.Resolved, error) {
	root, err := effectiveConfigRoot()
	if err != nil {
		return nil, nil, err
	}

	res, err := creds.ResolveKeys(root, def, selector, keys)
	if err != nil {
		return nil, nil, err
	}

	base, err := def.ResolveBaseURL(res.Values)
	if err != nil {
		return nil, nil, err
	}
	headers, err := def.Headers(res.Values)
	if err != nil {
		return nil, nil, err
	}

	return request.New(base, headers), res, nil
}

// mustLookup returns a registered connector definition. The registry is
// static, so a miss is a programming error.
func mustLookup(name string) connector.Definition {
	def, ok := connector.Lookup(name)
	if !ok {
		panic("unregistered connector: " + name)
	}
	return def
}

// printError renders a failure on stderr: the message first, then the
// HTTP status and vendor code when present, the raw payload under
// --verbose, and any suggestions.
func printError(err error, connectorName string) {
	n := errmsg.Normalize(err)
	fmt.Fprintf(os.Stderr, "Error: %s\n", n.Message)
	if n.Status != 0 {
		fmt.Fprintf(os.Stderr, "Status: %d\n", n.Status)
	}
	if n.Code != "" {
		fmt.Fprintf(os.Stderr, "Code: %s\n", n.Code)
	}
	if flagVerbose && n.Details != "" && n.Details != n.Message {
		fmt.Fprintf(os.Stderr, "Details: %s\n", n.Details)
	}

	var ctx *errmsg.Context
	if connectorName != "" {
		ctx = &errmsg.Context{Connector: connectorName}
	}
	if block := errmsg.Suggestions(err, ctx); block != "" {
		fmt.Fprintf(os.Stderr, "\n%s", block)
	}
}

// unknownOp builds the error for an unrecognized operation name.
func unknownOp(connectorName, op string) error {
	return fmt.Errorf("unknown operation %q, run 'wsc %s help' for usage", op, connectorName)
}
