package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/wsc-dev/wsc/internal/cliargs"
	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/request"
)

const notionUsage = `Usage: wsc notion <operation> [arguments]

Operations:
  search --query <text>                    Search pages and databases
  page <page-id>                           Fetch one page
  page-create --parent <page-id> --title <text>
                                           Create a page under a parent page
  page-create --database <db-id> --title <text>
                                           Create a page in a database
  page-update <page-id> --title <text>     Rename a page
  db-query <database-id> [--filter <json>] Query a database

Flags:
  --selector <name>   Pick a named config
  --verbose           Dump raw responses
`

var notionCmd = &cobra.Command{
	Use:                "notion <operation> [arguments]",
	Short:              "Work with the Notion API",
	Long:               notionUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("notion", notionUsage, runNotion, args)
	},
}

func runNotion(ctx context.Context, rc *runContext) error {
	client, _, err := dial(mustLookup("notion"), rc.args)
	if err != nil {
		return err
	}

	switch op := rc.args.Positional[0]; op {
	case "search":
		return notionSearch(ctx, client, rc)
	case "page":
		return notionPage(ctx, client, rc)
	case "page-create":
		return notionPageCreate(ctx, client, rc)
	case "page-update":
		return notionPageUpdate(ctx, client, rc)
	case "db-query":
		return notionDBQuery(ctx, client, rc)
	default:
		return unknownOp("notion", op)
	}
}

func notionSearch(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc notion search --query <text>"
	if err := rc.args.Require(usage, "query"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/search",
		Body:   map[string]string{"query": rc.args.String("query", "")},
	})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, extract.NotionResults...)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(rc.out, "%s  %-8s  %s\n",
			r.Get("id").String(), r.Get("object").String(), notionTitle(r))
	}
	fmt.Fprintf(rc.out, "%d results\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

func notionPage(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc notion page <page-id>"
	if err := rc.args.RequirePositional(usage, 2, "page id"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{URL: "/pages/" + rc.args.Positional[1]})
	if err != nil {
		return err
	}
	writeJSON(rc.out, res.Body)
	return nil
}

func notionPageCreate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc notion page-create (--parent <page-id> | --database <db-id>) --title <text>"
	if err := rc.args.Require(usage, "title"); err != nil {
		return err
	}

	var parent map[string]string
	switch {
	case rc.args.String("database", "") != "":
		parent = map[string]string{"database_id": rc.args.String("database", "")}
	case rc.args.String("parent", "") != "":
		parent = map[string]string{"page_id": rc.args.String("parent", "")}
	default:
		return &cliargs.UsageError{Usage: usage, Missing: "--parent or --database flag"}
	}

	body := map[string]any{
		"parent":     parent,
		"properties": titleProperty(rc.args.String("title", "")),
	}
	res, err := client.Do(ctx, request.Spec{Method: "POST", URL: "/pages", Body: body})
	if err != nil {
		return err
	}

	if id, ok := extract.Field(res.Body, "id"); ok {
		fmt.Fprintf(rc.out, "Created page %s\n", id.String())
	}
	dumpVerbose(rc, res)
	return nil
}

func notionPageUpdate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc notion page-update <page-id> --title <text>"
	if err := rc.args.RequirePositional(usage, 2, "page id"); err != nil {
		return err
	}
	if err := rc.args.Require(usage, "title"); err != nil {
		return err
	}

	body := map[string]any{"properties": titleProperty(rc.args.String("title", ""))}
	res, err := client.Do(ctx, request.Spec{
		Method: "PATCH",
		URL:    "/pages/" + rc.args.Positional[1],
		Body:   body,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Updated page %s\n", rc.args.Positional[1])
	dumpVerbose(rc, res)
	return nil
}

func notionDBQuery(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc notion db-query <database-id> [--filter <json>]"
	if err := rc.args.RequirePositional(usage, 2, "database id"); err != nil {
		return err
	}

	body := map[string]any{}
	if filter := rc.args.String("filter", ""); filter != "" {
		if !json.Valid([]byte(filter)) {
			return fmt.Errorf("--filter is not valid JSON")
		}
		body["filter"] = json.RawMessage(filter)
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/databases/" + rc.args.Positional[1] + "/query",
		Body:   body,
	})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, extract.NotionResults...)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(rc.out, "%s  %s\n", r.Get("id").String(), notionTitle(r))
	}
	fmt.Fprintf(rc.out, "%d rows\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

// notionTitle digs the plain-text title out of a page or database
// object. The property name varies per database, so scan for the one
// property of type "title".
func notionTitle(r gjson.Result) string {
	if t := r.Get("title.0.plain_text"); t.Exists() {
		return t.String()
	}
	var title string
	r.Get("properties").ForEach(func(_, prop gjson.Result) bool {
		if prop.Get("type").String() == "title" {
			title = prop.Get("title.0.plain_text").String()
			return false
		}
		return true
	})
	return title
}

// titleProperty builds the properties payload for setting a page title.
func titleProperty(title string) map[string]any {
	return map[string]any{
		"title": map[string]any{
			"title": []map[string]any{
				{"text": map[string]string{"content": title}},
			},
		},
	}
}
