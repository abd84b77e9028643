// Package envfile locates and parses the .env files that hold connector
// credentials.
//
// The on-disk convention is two levels deep:
//
//	<config-root>/<connector>/.env                default config
//	<config-root>/<connector>/<selector>/.env     named account/site config
//	<config-root>/<connector>/projects/<name>.env named project config
//
// Files are newline-delimited KEY=VALUE pairs. Blank lines and # comments
// are ignored; a malformed line fails the whole file (strict parsing, so a
// typo surfaces immediately instead of silently dropping a credential).
// Keys are opaque strings at this layer; which keys a connector requires
// is decided by the connector definition.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSelector names the base config in selector listings.
const DefaultSelector = "default"

// Origin records where a config file sits in the lookup convention.
type Origin int

const (
	// OriginDefault is the connector-level .env file.
	OriginDefault Origin = iota

	// OriginNamed is a selector-scoped config (subdirectory or project file).
	OriginNamed
)

// ConfigFile is one parsed .env file.
type ConfigFile struct {
	// Path is the file location on disk.
	Path string

	// Entries maps keys to values as parsed from the file.
	Entries map[string]string

	// Origin records whether this is the default or a named config.
	Origin Origin
}

// NotFoundError reports a missing config file with the exact path the
// user is expected to create.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// Read parses a single .env file into a key/value map.
// Returns *NotFoundError when the file does not exist.
func Read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	entries, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return entries, nil
}

// Load reads a file into a ConfigFile with the given origin.
func Load(path string, origin Origin) (*ConfigFile, error) {
	entries, err := Read(path)
	if err != nil {
		return nil, err
	}
	return &ConfigFile{Path: path, Entries: entries, Origin: origin}, nil
}

// Named is one named config discovered under a connector directory.
type Named struct {
	// Selector is the user-facing name (directory or file stem).
	Selector string

	// Path is the .env file location.
	Path string
}

// ListNamed scans a connector directory for named configs: immediate
// subdirectories containing a .env file, plus <projectsDir>/<name>.env
// files when projectsDir is non-empty. Results are sorted by selector.
// A missing connector directory yields an empty slice, not an error.
func ListNamed(connectorDir, projectsDir string) ([]Named, error) {
	var named []Named

	entries, err := os.ReadDir(connectorDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", connectorDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == projectsDir {
			continue
		}
		envPath := filepath.Join(connectorDir, entry.Name(), ".env")
		if _, err := os.Stat(envPath); err == nil {
			named = append(named, Named{Selector: entry.Name(), Path: envPath})
		}
	}

	if projectsDir != "" {
		projEntries, err := os.ReadDir(filepath.Join(connectorDir, projectsDir))
		if err == nil {
			for _, entry := range projEntries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".env") {
					continue
				}
				name := strings.TrimSuffix(entry.Name(), ".env")
				if name == "" {
					continue
				}
				named = append(named, Named{
					Selector: name,
					Path:     filepath.Join(connectorDir, projectsDir, entry.Name()),
				})
			}
		}
	}

	sort.Slice(named, func(i, j int) bool {
		return named[i].Selector < named[j].Selector
	})
	return named, nil
}

// ListSelectors returns the human-readable selector names configured
// under a connector directory: "default" first when the base .env exists,
// then named selectors in sorted order. Empty when nothing is configured.
func ListSelectors(connectorDir, projectsDir string) ([]string, error) {
	var selectors []string

	if _, err := os.Stat(filepath.Join(connectorDir, ".env")); err == nil {
		selectors = append(selectors, DefaultSelector)
	}

	named, err := ListNamed(connectorDir, projectsDir)
	if err != nil {
		return nil, err
	}
	for _, n := range named {
		selectors = append(selectors, n.Selector)
	}
	return selectors, nil
}
