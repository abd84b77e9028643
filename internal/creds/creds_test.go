package creds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsc-dev/wsc/internal/connector"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func notionDef(t *testing.T) connector.Definition {
	t.Helper()
	d, ok := connector.Lookup("notion")
	require.True(t, ok)
	return d
}

func supabaseDef(t *testing.T) connector.Definition {
	t.Helper()
	d, ok := connector.Lookup("supabase")
	require.True(t, ok)
	return d
}

func TestResolveBaseOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notion", ".env"), "NOTION_API_KEY=abc\n")

	r, err := Resolve(root, notionDef(t), "")
	require.NoError(t, err)
	assert.Equal(t, "abc", r.Values["NOTION_API_KEY"])
	assert.Empty(t, r.Selector)
	assert.Equal(t, filepath.Join(root, "notion", ".env"), r.BasePath)
}

func TestResolveNotConfigured(t *testing.T) {
	root := t.TempDir()

	_, err := Resolve(root, notionDef(t), "")
	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindNotConfigured, re.Kind)
	assert.Equal(t, filepath.Join(root, "notion", ".env"), re.Path)
	assert.Contains(t, err.Error(), re.Path)
}

func TestResolveNamedMergesOverBase(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "supabase", ".env"),
		"SUPABASE_ACCESS_TOKEN=tok\n")
	writeFile(t, filepath.Join(root, "supabase", "projects", "my-app.env"),
		"SUPABASE_URL=https://x.supabase.co\nSUPABASE_SERVICE_KEY=svc\n")

	r, err := Resolve(root, supabaseDef(t), "my-app")
	require.NoError(t, err)
	assert.Equal(t, "my-app", r.Selector)
	assert.Equal(t, "tok", r.Values["SUPABASE_ACCESS_TOKEN"])
	assert.Equal(t, "https://x.supabase.co", r.Values["SUPABASE_URL"])
	assert.Equal(t, "svc", r.Values["SUPABASE_SERVICE_KEY"])
}

func TestResolveOverrideWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notion", ".env"),
		"NOTION_API_KEY=base\nSHARED=from-base\n")
	writeFile(t, filepath.Join(root, "notion", "work", ".env"),
		"NOTION_API_KEY=named\n")

	r, err := Resolve(root, notionDef(t), "work")
	require.NoError(t, err)
	assert.Equal(t, "named", r.Values["NOTION_API_KEY"])
	assert.Equal(t, "from-base", r.Values["SHARED"])
}

func TestResolveAmbiguousListsAllSelectors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "supabase", ".env"),
		"SUPABASE_ACCESS_TOKEN=tok\n")
	writeFile(t, filepath.Join(root, "supabase", "projects", "my-app.env"),
		"SUPABASE_URL=https://x.supabase.co\nSUPABASE_SERVICE_KEY=svc\n")
	writeFile(t, filepath.Join(root, "supabase", "projects", "test-project.env"),
		"SUPABASE_URL=https://y.supabase.co\nSUPABASE_SERVICE_KEY=svc2\n")

	_, err := Resolve(root, supabaseDef(t), "")
	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindAmbiguous, re.Kind)
	assert.ElementsMatch(t, []string{"my-app", "test-project"}, re.Selectors)
}

func TestResolveSingleNamedAutoSelected(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "supabase", ".env"),
		"SUPABASE_ACCESS_TOKEN=tok\n")
	writeFile(t, filepath.Join(root, "supabase", "projects", "my-app.env"),
		"SUPABASE_URL=https://x.supabase.co\nSUPABASE_SERVICE_KEY=svc\n")

	r, err := Resolve(root, supabaseDef(t), "")
	require.NoError(t, err)
	assert.Equal(t, "my-app", r.Selector)
	assert.Equal(t, "svc", r.Values["SUPABASE_SERVICE_KEY"])
}

func TestResolveBasePreferredWhenSufficient(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notion", ".env"),
		"NOTION_API_KEY=base\n")
	writeFile(t, filepath.Join(root, "notion", "work", ".env"),
		"NOTION_API_KEY=named\n")

	// The base file satisfies the required keys, so the single named
	// config is not auto-selected.
	r, err := Resolve(root, notionDef(t), "")
	require.NoError(t, err)
	assert.Empty(t, r.Selector)
	assert.Equal(t, "base", r.Values["NOTION_API_KEY"])
}

func TestResolveContentScanFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "supabase", ".env"),
		"SUPABASE_ACCESS_TOKEN=tok\n")
	writeFile(t, filepath.Join(root, "supabase", "projects", "my-app.env"),
		"SUPABASE_URL=https://abcdef123.supabase.co\nSUPABASE_SERVICE_KEY=svc\n")

	// A vendor-assigned project ref embedded in a URL matches by content.
	r, err := Resolve(root, supabaseDef(t), "abcdef123")
	require.NoError(t, err)
	assert.Equal(t, "my-app", r.Selector)
}

func TestResolveUnknownSelector(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "supabase", "projects", "my-app.env"),
		"SUPABASE_URL=https://x.supabase.co\nSUPABASE_SERVICE_KEY=svc\n")

	_, err := Resolve(root, supabaseDef(t), "nope")
	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindUnknownSelector, re.Kind)
	assert.Equal(t, []string{"my-app"}, re.Selectors)
	assert.Contains(t, err.Error(), "my-app")
}

func TestResolveMissingCredentialNamesKeyAndPath(t *testing.T) {
	root := t.TempDir()
	basePath := filepath.Join(root, "notion", ".env")
	writeFile(t, basePath, "OTHER=1\n")

	_, err := Resolve(root, notionDef(t), "")
	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindMissingCredential, re.Kind)
	assert.Equal(t, []string{"NOTION_API_KEY"}, re.Missing)
	assert.Equal(t, basePath, re.Path)
	assert.Contains(t, err.Error(), "NOTION_API_KEY")
	assert.Contains(t, err.Error(), basePath)
	// Key names only, never values.
	assert.NotContains(t, err.Error(), "OTHER=1")
}

func TestResolveDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notion", ".env"), "NOTION_API_KEY=abc\n")

	first, err := Resolve(root, notionDef(t), "")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Resolve(root, notionDef(t), "")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveKeysOverridesRequired(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "supabase", ".env"),
		"SUPABASE_ACCESS_TOKEN=tok\n")

	// Management operations only need the access token from the base file.
	r, err := ResolveKeys(root, connector.SupabaseManagement, "", connector.SupabaseManagement.RequiredKeys)
	require.NoError(t, err)
	assert.Equal(t, "tok", r.Values["SUPABASE_ACCESS_TOKEN"])
}
