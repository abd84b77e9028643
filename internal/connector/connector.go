// Package connector defines the registry of supported vendor APIs.
//
// Each connector is described by a static Definition: where its config
// lives, which keys must be present after credential resolution, how its
// base URL is derived, and which authentication scheme it uses. The
// scheme is fixed per vendor, never negotiated at runtime.
package connector

import (
	"encoding/base64"
	"fmt"
	"sort"
)

// AuthScheme identifies how a connector authenticates requests.
type AuthScheme int

const (
	// AuthNone sends no authentication header.
	AuthNone AuthScheme = iota

	// AuthBearer sends "Authorization: <prefix> <token>".
	AuthBearer

	// AuthHeader sends the raw token in a vendor-named header.
	AuthHeader

	// AuthBasic sends "Authorization: Basic base64(user:password)".
	AuthBasic
)

// Definition is the static description of one vendor connector.
type Definition struct {
	// Name is the CLI-facing connector name (also its config directory).
	Name string

	// Title is the human-readable vendor name.
	Title string

	// BaseURL is the fixed API base URL, when the vendor has one.
	BaseURL string

	// BaseURLKey names the config key holding the base URL, for vendors
	// whose endpoint is per-account (e.g. a WordPress site).
	BaseURLKey string

	// BasePath is appended to a config-derived base URL (e.g. the
	// WordPress REST prefix).
	BasePath string

	// Auth selects the authentication scheme.
	Auth AuthScheme

	// TokenKey names the config key holding the API token
	// (AuthBearer and AuthHeader).
	TokenKey string

	// BearerPrefix overrides the "Bearer" prefix for AuthBearer.
	BearerPrefix string

	// HeaderName is the header carrying the token for AuthHeader.
	HeaderName string

	// UserKey and PassKey name the config keys for AuthBasic.
	UserKey string
	PassKey string

	// RequiredKeys must all be present after credential resolution.
	RequiredKeys []string

	// ProjectsDir, when non-empty, names a subdirectory scanned for
	// <name>.env named configs in addition to <selector>/.env
	// subdirectories.
	ProjectsDir string

	// StaticHeaders are sent on every request (e.g. Notion-Version).
	StaticHeaders map[string]string

	// KeyHeaders maps header names to config keys whose values are sent
	// on every request (e.g. a workspace id header).
	KeyHeaders map[string]string
}

// ResolveBaseURL returns the effective base URL for a credential set.
func (d Definition) ResolveBaseURL(values map[string]string) (string, error) {
	if d.BaseURL != "" {
		return d.BaseURL, nil
	}
	base := values[d.BaseURLKey]
	if base == "" {
		return "", fmt.Errorf("%s is not set for connector %s", d.BaseURLKey, d.Name)
	}
	return base + d.BasePath, nil
}

// Headers builds the authentication and vendor headers for a request
// from resolved credential values.
func (d Definition) Headers(values map[string]string) (map[string]string, error) {
	headers := make(map[string]string)

	switch d.Auth {
	case AuthNone:
	case AuthBearer:
		token := values[d.TokenKey]
		if token == "" {
			return nil, fmt.Errorf("%s is not set for connector %s", d.TokenKey, d.Name)
		}
		prefix := d.BearerPrefix
		if prefix == "" {
			prefix = "Bearer"
		}
		headers["Authorization"] = prefix + " " + token
	case AuthHeader:
		token := values[d.TokenKey]
		if token == "" {
			return nil, fmt.Errorf("%s is not set for connector %s", d.TokenKey, d.Name)
		}
		headers[d.HeaderName] = token
	case AuthBasic:
		user := values[d.UserKey]
		pass := values[d.PassKey]
		if user == "" || pass == "" {
			return nil, fmt.Errorf("%s and %s must be set for connector %s", d.UserKey, d.PassKey, d.Name)
		}
		cred := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
		headers["Authorization"] = "Basic " + cred
	}

	for name, value := range d.StaticHeaders {
		headers[name] = value
	}
	for name, key := range d.KeyHeaders {
		if v := values[key]; v != "" {
			headers[name] = v
		}
	}
	return headers, nil
}

// Lookup returns the definition for a connector name.
func Lookup(name string) (Definition, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns all registered connector names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
