package connector

// NotionVersion is the Notion-Version header value sent on every request.
const NotionVersion = "2022-06-28"

// registry maps connector names to their definitions.
// Adding a new connector is one entry here plus a command file.
var registry = map[string]Definition{
	"notion": {
		Name:          "notion",
		Title:         "Notion",
		BaseURL:       "https://api.notion.com/v1",
		Auth:          AuthBearer,
		TokenKey:      "NOTION_API_KEY",
		RequiredKeys:  []string{"NOTION_API_KEY"},
		StaticHeaders: map[string]string{"Notion-Version": NotionVersion},
	},
	"publer": {
		Name:         "publer",
		Title:        "Publer",
		BaseURL:      "https://app.publer.io/api/v1",
		Auth:         AuthBearer,
		BearerPrefix: "Bearer-API",
		TokenKey:     "PUBLER_API_KEY",
		RequiredKeys: []string{"PUBLER_API_KEY", "PUBLER_WORKSPACE_ID"},
		KeyHeaders:   map[string]string{"Publer-Workspace-Id": "PUBLER_WORKSPACE_ID"},
	},
	"supabase": {
		Name:  "supabase",
		Title: "Supabase",
		// Project-scoped: the REST endpoint comes from the project config.
		BaseURLKey:   "SUPABASE_URL",
		Auth:         AuthBearer,
		TokenKey:     "SUPABASE_SERVICE_KEY",
		RequiredKeys: []string{"SUPABASE_URL", "SUPABASE_SERVICE_KEY"},
		ProjectsDir:  "projects",
		KeyHeaders:   map[string]string{"apikey": "SUPABASE_SERVICE_KEY"},
	},
	"wordpress": {
		Name:         "wordpress",
		Title:        "WordPress",
		BaseURLKey:   "WP_SITE_URL",
		BasePath:     "/wp-json/wp/v2",
		Auth:         AuthBasic,
		UserKey:      "WP_USERNAME",
		PassKey:      "WP_APP_PASSWORD",
		RequiredKeys: []string{"WP_SITE_URL", "WP_USERNAME", "WP_APP_PASSWORD"},
	},
	"clickup": {
		Name:         "clickup",
		Title:        "ClickUp",
		BaseURL:      "https://api.clickup.com/api/v2",
		Auth:         AuthHeader,
		HeaderName:   "Authorization",
		TokenKey:     "CLICKUP_API_KEY",
		RequiredKeys: []string{"CLICKUP_API_KEY"},
	},
	"airtable": {
		Name:         "airtable",
		Title:        "Airtable",
		BaseURL:      "https://api.airtable.com/v0",
		Auth:         AuthBearer,
		TokenKey:     "AIRTABLE_API_KEY",
		RequiredKeys: []string{"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID"},
	},
	"heygen": {
		Name:         "heygen",
		Title:        "HeyGen",
		BaseURL:      "https://api.heygen.com",
		Auth:         AuthHeader,
		HeaderName:   "X-Api-Key",
		TokenKey:     "HEYGEN_API_KEY",
		RequiredKeys: []string{"HEYGEN_API_KEY"},
	},
}

// SupabaseManagement describes the account-scoped Supabase management API,
// which authenticates with the personal access token from the base config
// rather than a project service key. ProjectsDir is intentionally empty:
// management operations are account-wide and must not trip project
// selection.
var SupabaseManagement = Definition{
	Name:         "supabase",
	Title:        "Supabase Management",
	BaseURL:      "https://api.supabase.com",
	Auth:         AuthBearer,
	TokenKey:     "SUPABASE_ACCESS_TOKEN",
	RequiredKeys: []string{"SUPABASE_ACCESS_TOKEN"},
}
