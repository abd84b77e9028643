package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/cliargs"
	"github.com/wsc-dev/wsc/internal/connector"
	"github.com/wsc-dev/wsc/internal/creds"
	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/request"
)

const supabaseUsage = `Usage: wsc supabase <operation> [arguments]

Project operations (use the project config, --selector picks one):
  query <table> [--select <cols>] [--limit <n>] [--filter <col>=<value>]
                                           Read rows via PostgREST
  insert <table> --rows <json>             Insert rows (JSON object or array)
  update <table> --set <json> --filter <col>=<value>
                                           Update matching rows
  delete <table> --filter <col>=<value>    Delete matching rows
  storage                                  List storage buckets

Account operations (use SUPABASE_ACCESS_TOKEN from the base config):
  projects                                 List projects
  sql --query <statement>                  Run SQL against a project

Flags:
  --selector <name>   Pick a project config
  --verbose           Dump raw responses
`

var supabaseCmd = &cobra.Command{
	Use:                "supabase <operation> [arguments]",
	Short:              "Work with the Supabase APIs",
	Long:               supabaseUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("supabase", supabaseUsage, runSupabase, args)
	},
}

func runSupabase(ctx context.Context, rc *runContext) error {
	switch op := rc.args.Positional[0]; op {
	case "projects":
		return supabaseProjects(ctx, rc)
	case "sql":
		return supabaseSQL(ctx, rc)
	case "query":
		return supabaseQuery(ctx, rc)
	case "insert":
		return supabaseInsert(ctx, rc)
	case "update":
		return supabaseUpdate(ctx, rc)
	case "delete":
		return supabaseDelete(ctx, rc)
	case "storage":
		return supabaseStorage(ctx, rc)
	default:
		return unknownOp("supabase", op)
	}
}

// dialProject connects to one project's PostgREST endpoint.
func dialProject(rc *runContext) (*request.Client, error) {
	client, _, err := dial(mustLookup("supabase"), rc.args)
	return client, err
}

// dialManagement connects to the account-scoped management API. It uses
// the personal access token from the base config and resolves with an
// empty selector: a --selector on the command line picks the project an
// operation targets, not the account credentials, so it must never trip
// project selection here.
func dialManagement() (*request.Client, error) {
	def := connector.SupabaseManagement
	client, _, err := dialWith(def, "", def.RequiredKeys)
	return client, err
}

func supabaseProjects(ctx context.Context, rc *runContext) error {
	client, err := dialManagement()
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{URL: "/v1/projects"})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, "")
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(rc.out, "%s  %-12s  %s\n",
			r.Get("id").String(), r.Get("region").String(), r.Get("name").String())
	}
	fmt.Fprintf(rc.out, "%d projects\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

func supabaseSQL(ctx context.Context, rc *runContext) error {
	const usage = "wsc supabase sql --query <statement> [--selector <project>]"
	if err := rc.args.Require(usage, "query"); err != nil {
		return err
	}

	// The management endpoint addresses projects by ref, which is the
	// first host label of the project URL.
	root, err := effectiveConfigRoot()
	if err != nil {
		return err
	}
	projDef := mustLookup("supabase")
	projCreds, err := credsForSQL(root, projDef, selectorFrom(rc.args))
	if err != nil {
		return err
	}
	ref, err := projectRef(projCreds["SUPABASE_URL"])
	if err != nil {
		return err
	}

	client, err := dialManagement()
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/v1/projects/" + ref + "/database/query",
		Body:   map[string]string{"query": rc.args.String("query", "")},
	})
	if err != nil {
		return err
	}
	writeJSON(rc.out, res.Body)
	return nil
}

func supabaseQuery(ctx context.Context, rc *runContext) error {
	const usage = "wsc supabase query <table> [--select <cols>] [--limit <n>] [--filter <col>=<value>]"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}

	q := url.Values{}
	if sel := rc.args.String("select", ""); sel != "" {
		q.Set("select", sel)
	}
	if limit := rc.args.String("limit", ""); limit != "" {
		q.Set("limit", limit)
	}
	if err := applyFilter(q, rc.args, false); err != nil {
		return err
	}

	client, err := dialProject(rc)
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		URL:   "/rest/v1/" + rc.args.Positional[1],
		Query: q,
	})
	if err != nil {
		return err
	}
	writeJSON(rc.out, res.Body)
	return nil
}

func supabaseInsert(ctx context.Context, rc *runContext) error {
	const usage = "wsc supabase insert <table> --rows <json>"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}
	if err := rc.args.Require(usage, "rows"); err != nil {
		return err
	}
	rows := rc.args.String("rows", "")
	if !json.Valid([]byte(rows)) {
		return fmt.Errorf("--rows is not valid JSON")
	}

	client, err := dialProject(rc)
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		Method:  "POST",
		URL:     "/rest/v1/" + rc.args.Positional[1],
		Headers: map[string]string{"Prefer": "return=representation"},
		Body:    json.RawMessage(rows),
	})
	if err != nil {
		return err
	}

	if inserted, _, err := extract.Records(res.Body, ""); err == nil {
		fmt.Fprintf(rc.out, "Inserted %d rows\n", len(inserted))
	} else {
		fmt.Fprintln(rc.out, "Inserted")
	}
	dumpVerbose(rc, res)
	return nil
}

func supabaseUpdate(ctx context.Context, rc *runContext) error {
	const usage = "wsc supabase update <table> --set <json> --filter <col>=<value>"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}
	if err := rc.args.Require(usage, "set"); err != nil {
		return err
	}
	set := rc.args.String("set", "")
	if !json.Valid([]byte(set)) {
		return fmt.Errorf("--set is not valid JSON")
	}

	q := url.Values{}
	if err := applyFilter(q, rc.args, true); err != nil {
		return err
	}

	client, err := dialProject(rc)
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		Method:  "PATCH",
		URL:     "/rest/v1/" + rc.args.Positional[1],
		Query:   q,
		Headers: map[string]string{"Prefer": "return=representation"},
		Body:    json.RawMessage(set),
	})
	if err != nil {
		return err
	}

	if updated, _, err := extract.Records(res.Body, ""); err == nil {
		fmt.Fprintf(rc.out, "Updated %d rows\n", len(updated))
	} else {
		fmt.Fprintln(rc.out, "Updated")
	}
	dumpVerbose(rc, res)
	return nil
}

func supabaseDelete(ctx context.Context, rc *runContext) error {
	const usage = "wsc supabase delete <table> --filter <col>=<value>"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}

	// A delete without a filter would wipe the table; require one.
	q := url.Values{}
	if err := applyFilter(q, rc.args, true); err != nil {
		return err
	}

	client, err := dialProject(rc)
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		Method:  "DELETE",
		URL:     "/rest/v1/" + rc.args.Positional[1],
		Query:   q,
		Headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return err
	}

	if deleted, _, err := extract.Records(res.Body, ""); err == nil {
		fmt.Fprintf(rc.out, "Deleted %d rows\n", len(deleted))
	} else {
		fmt.Fprintln(rc.out, "Deleted")
	}
	dumpVerbose(rc, res)
	return nil
}

func supabaseStorage(ctx context.Context, rc *runContext) error {
	client, err := dialProject(rc)
	if err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{URL: "/storage/v1/bucket"})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, "")
	if err != nil {
		return err
	}
	for _, r := range records {
		visibility := "private"
		if r.Get("public").Bool() {
			visibility = "public"
		}
		fmt.Fprintf(rc.out, "%-8s  %s\n", visibility, r.Get("name").String())
	}
	fmt.Fprintf(rc.out, "%d buckets\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

// applyFilter translates --filter col=value into a PostgREST equality
// parameter. required makes its absence a usage error.
func applyFilter(q url.Values, args cliargs.Args, required bool) error {
	filter := args.String("filter", "")
	if filter == "" {
		if required {
			return &cliargs.UsageError{Usage: "--filter <col>=<value>", Missing: "--filter flag"}
		}
		return nil
	}

	col, value, ok := strings.Cut(filter, "=")
	if !ok || col == "" {
		return fmt.Errorf("--filter must look like <col>=<value>, got %q", filter)
	}
	q.Set(col, "eq."+value)
	return nil
}

// credsForSQL resolves just the project URL, so a project config that
// lacks a service key can still be addressed by ref.
func credsForSQL(root string, def connector.Definition, selector string) (map[string]string, error) {
	res, err := creds.ResolveKeys(root, def, selector, []string{"SUPABASE_URL"})
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// projectRef extracts the project ref from a Supabase project URL
// (https://<ref>.supabase.co).
func projectRef(projectURL string) (string, error) {
	u, err := url.Parse(projectURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("cannot derive project ref from SUPABASE_URL %q", projectURL)
	}
	ref, _, _ := strings.Cut(u.Host, ".")
	if ref == "" {
		return "", fmt.Errorf("cannot derive project ref from SUPABASE_URL %q", projectURL)
	}
	return ref, nil
}
