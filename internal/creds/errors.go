package creds

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes credential resolution failures.
type ErrorKind int

const (
	// KindNotConfigured indicates no config exists for the connector at all.
	KindNotConfigured ErrorKind = iota
	// KindConfigNotFound indicates an expected config file does not exist.
	KindConfigNotFound
	// KindAmbiguous indicates multiple named configs exist and none was selected.
	KindAmbiguous
	// KindUnknownSelector indicates the given selector matched nothing.
	KindUnknownSelector
	// KindMissingCredential indicates a required key is absent after merge.
	KindMissingCredential
)

// ResolveError provides structured information for credential resolution
// failures. Error messages name key names and file paths only, never
// credential values.
type ResolveError struct {
	Kind      ErrorKind
	Connector string
	Path      string   // config file the user should create or edit
	Selector  string   // selector that failed to match, if any
	Missing   []string // missing required key names
	Selectors []string // valid selector names, for ambiguity/unknown errors
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	switch e.Kind {
	case KindNotConfigured:
		return fmt.Sprintf("%s is not configured: create %s (run 'wsc accounts %s' after setup to verify)",
			e.Connector, e.Path, e.Connector)
	case KindConfigNotFound:
		return fmt.Sprintf("%s config file not found: %s", e.Connector, e.Path)
	case KindAmbiguous:
		return fmt.Sprintf("multiple %s configs exist, pass --selector with one of: %s",
			e.Connector, strings.Join(e.Selectors, ", "))
	case KindUnknownSelector:
		return fmt.Sprintf("no %s config matches %q, valid selectors: %s",
			e.Connector, e.Selector, strings.Join(e.Selectors, ", "))
	case KindMissingCredential:
		return fmt.Sprintf("%s config %s is missing required keys: %s",
			e.Connector, e.Path, strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("%s credential resolution failed", e.Connector)
	}
}
