package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownConnectors(t *testing.T) {
	for _, name := range []string{"notion", "publer", "supabase", "wordpress", "clickup", "airtable", "heygen"} {
		d, ok := Lookup(name)
		require.True(t, ok, "connector %s should be registered", name)
		assert.Equal(t, name, d.Name)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("jira")
	assert.False(t, ok)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"airtable", "clickup", "heygen", "notion", "publer", "supabase", "wordpress"}, names)
}

func TestBearerHeaders(t *testing.T) {
	d, _ := Lookup("notion")
	headers, err := d.Headers(map[string]string{"NOTION_API_KEY": "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", headers["Authorization"])
	assert.Equal(t, NotionVersion, headers["Notion-Version"])
}

func TestBearerPrefixOverride(t *testing.T) {
	d, _ := Lookup("publer")
	headers, err := d.Headers(map[string]string{
		"PUBLER_API_KEY":      "tok",
		"PUBLER_WORKSPACE_ID": "ws-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer-API tok", headers["Authorization"])
	assert.Equal(t, "ws-1", headers["Publer-Workspace-Id"])
}

func TestRawHeaderToken(t *testing.T) {
	d, _ := Lookup("clickup")
	headers, err := d.Headers(map[string]string{"CLICKUP_API_KEY": "pk_123"})
	require.NoError(t, err)
	assert.Equal(t, "pk_123", headers["Authorization"])
}

func TestBasicAuthHeaders(t *testing.T) {
	d, _ := Lookup("wordpress")
	headers, err := d.Headers(map[string]string{
		"WP_USERNAME":     "admin",
		"WP_APP_PASSWORD": "pass word",
	})
	require.NoError(t, err)
	// base64("admin:pass word")
	assert.Equal(t, "Basic YWRtaW46cGFzcyB3b3Jk", headers["Authorization"])
}

func TestHeadersMissingToken(t *testing.T) {
	d, _ := Lookup("notion")
	_, err := d.Headers(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTION_API_KEY")
}

func TestResolveBaseURLFixed(t *testing.T) {
	d, _ := Lookup("airtable")
	base, err := d.ResolveBaseURL(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.airtable.com/v0", base)
}

func TestResolveBaseURLFromConfig(t *testing.T) {
	d, _ := Lookup("wordpress")
	base, err := d.ResolveBaseURL(map[string]string{"WP_SITE_URL": "https://blog.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/wp-json/wp/v2", base)

	_, err = d.ResolveBaseURL(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WP_SITE_URL")
}

func TestSupabaseProjectHeaders(t *testing.T) {
	d, _ := Lookup("supabase")
	headers, err := d.Headers(map[string]string{"SUPABASE_SERVICE_KEY": "svc"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer svc", headers["Authorization"])
	assert.Equal(t, "svc", headers["apikey"])
}
