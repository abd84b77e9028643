package cliargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMixed(t *testing.T) {
	args := Parse([]string{"create", "--name", "Test", "--force"})

	assert.Equal(t, []string{"create"}, args.Positional)
	assert.Equal(t, "Test", args.Flags["name"])
	assert.True(t, args.Bools["force"])
}

func TestParseFlagFollowedByFlag(t *testing.T) {
	args := Parse([]string{"--dry-run", "--output", "json"})

	assert.True(t, args.Bools["dry-run"])
	assert.Equal(t, "json", args.Flags["output"])
	assert.Empty(t, args.Positional)
}

func TestParseTrailingBoolFlag(t *testing.T) {
	args := Parse([]string{"list", "--all"})

	assert.Equal(t, []string{"list"}, args.Positional)
	assert.True(t, args.Bools["all"])
}

func TestParsePositionalOrderPreserved(t *testing.T) {
	args := Parse([]string{"get", "page", "abc123", "--verbose"})

	assert.Equal(t, []string{"get", "page", "abc123"}, args.Positional)
	assert.True(t, args.Bools["verbose"])
}

func TestParseEmpty(t *testing.T) {
	args := Parse(nil)

	assert.Empty(t, args.Positional)
	assert.Empty(t, args.Flags)
	assert.Empty(t, args.Bools)
}

func TestParseNeverFailsOnUnrecognized(t *testing.T) {
	args := Parse([]string{"--totally-made-up", "value", "--another"})

	assert.Equal(t, "value", args.Flags["totally-made-up"])
	assert.True(t, args.Bools["another"])
}

func TestStringFallback(t *testing.T) {
	args := Parse([]string{"--limit", "10"})

	assert.Equal(t, "10", args.String("limit", "25"))
	assert.Equal(t, "25", args.String("per-page", "25"))
}

func TestBoolMatchesEitherForm(t *testing.T) {
	args := Parse([]string{"--force", "--format", "json"})

	assert.True(t, args.Bool("force"))
	assert.True(t, args.Bool("format"))
	assert.False(t, args.Bool("missing"))
}

func TestRequireMissing(t *testing.T) {
	args := Parse([]string{"create"})

	err := args.Require("wsc airtable create --table <name> --fields <json>", "table")
	require.Error(t, err)

	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, err.Error(), "--table")
	assert.Contains(t, err.Error(), "Usage:")
}

func TestRequireSatisfied(t *testing.T) {
	args := Parse([]string{"create", "--table", "Tasks"})
	assert.NoError(t, args.Require("usage", "table"))
}

func TestRequirePositional(t *testing.T) {
	args := Parse([]string{"delete"})

	err := args.RequirePositional("wsc clickup delete <task-id>", 2, "task id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task id")

	args = Parse([]string{"delete", "abc"})
	assert.NoError(t, args.RequirePositional("usage", 2, "task id"))
}
