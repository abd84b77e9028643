// Package creds resolves the single effective credential set for one
// process invocation.
//
// Resolution merges a connector's base config with an optional named
// config selected by the user. Named values win key-for-key. Selector
// lookup is two-tier: an exact name match first, then a scan of config
// values for a vendor-assigned identifier (a project ref, a URL
// fragment), so users can pass either a human label or a vendor id.
//
// Resolution is deterministic for a fixed filesystem state and selector,
// performs no network access, and never guesses between multiple
// configured accounts: ambiguity is a terminal error listing the valid
// selector names.
package creds

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/wsc-dev/wsc/internal/connector"
	"github.com/wsc-dev/wsc/internal/envfile"
	"github.com/wsc-dev/wsc/internal/log"
)

// Resolved is the merged credential set for one invocation.
type Resolved struct {
	// Connector is the connector name the credentials belong to.
	Connector string

	// Selector is the named config that was applied, empty when only the
	// base config was used.
	Selector string

	// Values is the merged key/value mapping, named over base.
	Values map[string]string

	// BasePath and NamedPath record which files contributed, for
	// diagnostics. Either may be empty.
	BasePath  string
	NamedPath string
}

// Resolve produces the credential set for a connector using its
// definition's required keys. See ResolveKeys.
func Resolve(root string, def connector.Definition, selector string) (*Resolved, error) {
	return ResolveKeys(root, def, selector, def.RequiredKeys)
}

// ResolveKeys resolves credentials and validates the given required keys
// against the merged result:
//
//  1. Load <root>/<connector>/.env when present.
//  2. With a selector: exact name match first, then a content scan of
//     named config values.
//  3. Without a selector: zero named configs means the base file alone
//     (its absence is KindNotConfigured); exactly one named config is
//     auto-selected when the base does not already satisfy the required
//     keys; two or more is KindAmbiguous.
//  4. Merge named over base, key-by-key.
//  5. Missing required keys fail with KindMissingCredential naming the
//     key names and the file to edit.
func ResolveKeys(root string, def connector.Definition, selector string, requiredKeys []string) (*Resolved, error) {
	dir := filepath.Join(root, def.Name)
	basePath := filepath.Join(dir, ".env")

	resolved := &Resolved{
		Connector: def.Name,
		Values:    make(map[string]string),
	}

	base, err := envfile.Load(basePath, envfile.OriginDefault)
	if err != nil {
		var nf *envfile.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	} else {
		resolved.BasePath = base.Path
		for k, v := range base.Entries {
			resolved.Values[k] = v
		}
	}

	named, err := envfile.ListNamed(dir, def.ProjectsDir)
	if err != nil {
		return nil, err
	}

	var chosen *envfile.Named
	if selector != "" {
		chosen, err = matchSelector(named, selector, def.Name)
		if err != nil {
			return nil, err
		}
	} else {
		switch len(named) {
		case 0:
			if base == nil {
				return nil, &ResolveError{
					Kind:      KindNotConfigured,
					Connector: def.Name,
					Path:      basePath,
				}
			}
		case 1:
			// A single named config is used only when the base alone
			// does not satisfy the operation.
			if len(missingKeys(resolved.Values, requiredKeys)) > 0 {
				chosen = &named[0]
			}
		default:
			selectors := make([]string, len(named))
			for i, n := range named {
				selectors[i] = n.Selector
			}
			return nil, &ResolveError{
				Kind:      KindAmbiguous,
				Connector: def.Name,
				Selectors: selectors,
			}
		}
	}

	if chosen != nil {
		cf, err := envfile.Load(chosen.Path, envfile.OriginNamed)
		if err != nil {
			return nil, err
		}
		resolved.Selector = chosen.Selector
		resolved.NamedPath = cf.Path
		for k, v := range cf.Entries {
			resolved.Values[k] = v
		}
		log.Default().Debug("using named config", "connector", def.Name, "selector", chosen.Selector, "path", cf.Path)
	}

	if missing := missingKeys(resolved.Values, requiredKeys); len(missing) > 0 {
		editPath := resolved.NamedPath
		if editPath == "" {
			editPath = basePath
		}
		return nil, &ResolveError{
			Kind:      KindMissingCredential,
			Connector: def.Name,
			Path:      editPath,
			Missing:   missing,
		}
	}

	return resolved, nil
}

// matchSelector finds a named config by exact selector name, falling back
// to a scan of config values for the selector as a substring.
func matchSelector(named []envfile.Named, selector, connectorName string) (*envfile.Named, error) {
	for i := range named {
		if named[i].Selector == selector {
			return &named[i], nil
		}
	}

	// Second tier: the selector may be a vendor-assigned id embedded in a
	// config value (a project ref inside a URL, for example).
	for i := range named {
		entries, err := envfile.Read(named[i].Path)
		if err != nil {
			continue
		}
		for _, v := range entries {
			if v != "" && strings.Contains(v, selector) {
				return &named[i], nil
			}
		}
	}

	selectors := make([]string, len(named))
	for i, n := range named {
		selectors[i] = n.Selector
	}
	return nil, &ResolveError{
		Kind:      KindUnknownSelector,
		Connector: connectorName,
		Selector:  selector,
		Selectors: selectors,
	}
}

func missingKeys(values map[string]string, required []string) []string {
	var missing []string
	for _, key := range required {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
