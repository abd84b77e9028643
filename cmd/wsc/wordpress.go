package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/request"
)

// defaultMaxPages bounds --all so a huge site cannot loop forever.
const defaultMaxPages = 10

const wordpressUsage = `Usage: wsc wordpress <operation> [arguments]

Operations:
  posts [--status <status>] [--all] [--pages <n>]
                                           List posts; --all walks pages up
                                           to the --pages bound (default 10)
  post <id>                                Fetch one post
  post-create --title <text> --content <text> [--status <status>]
                                           Create a post (default draft)
  post-update <id> [--title <text>] [--content <text>] [--status <status>]
                                           Update a post
  post-delete <id> [--force]               Trash a post; --force skips trash

Flags:
  --selector <name>   Pick a named site config
  --verbose           Dump raw responses
`

var wordpressCmd = &cobra.Command{
	Use:                "wordpress <operation> [arguments]",
	Short:              "Work with a WordPress site's REST API",
	Long:               wordpressUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("wordpress", wordpressUsage, runWordpress, args)
	},
}

func runWordpress(ctx context.Context, rc *runContext) error {
	client, _, err := dial(mustLookup("wordpress"), rc.args)
	if err != nil {
		return err
	}

	switch op := rc.args.Positional[0]; op {
	case "posts":
		return wordpressPosts(ctx, client, rc)
	case "post":
		return wordpressPost(ctx, client, rc)
	case "post-create":
		return wordpressPostCreate(ctx, client, rc)
	case "post-update":
		return wordpressPostUpdate(ctx, client, rc)
	case "post-delete":
		return wordpressPostDelete(ctx, client, rc)
	default:
		return unknownOp("wordpress", op)
	}
}

func wordpressPosts(ctx context.Context, client *request.Client, rc *runContext) error {
	q := url.Values{}
	if status := rc.args.String("status", ""); status != "" {
		q.Set("status", status)
	}
	spec := request.Spec{URL: "/posts", Query: q}

	var results []*request.Result
	if rc.args.Bool("all") {
		maxPages := defaultMaxPages
		if n, err := strconv.Atoi(rc.args.String("pages", "")); err == nil && n > 0 {
			maxPages = n
		}
		all, err := client.DoAll(ctx, spec, maxPages)
		if err != nil {
			return err
		}
		results = all
	} else {
		res, err := client.Do(ctx, spec)
		if err != nil {
			return err
		}
		results = []*request.Result{res}
	}

	count := 0
	for _, res := range results {
		records, _, err := extract.Records(res.Body, extract.WordPressPosts...)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintf(rc.out, "%-6s  %-8s  %s\n",
				r.Get("id").String(), r.Get("status").String(), wordpressTitle(r))
		}
		count += len(records)
		dumpVerbose(rc, res)
	}

	// The total across all pages comes from the count headers, not from
	// how many pages we chose to fetch.
	if page := results[len(results)-1].Page; page != nil && page.Total > count {
		fmt.Fprintf(rc.out, "%d posts (of %d total)\n", count, page.Total)
	} else {
		fmt.Fprintf(rc.out, "%d posts\n", count)
	}
	return nil
}

func wordpressPost(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc wordpress post <id>"
	if err := rc.args.RequirePositional(usage, 2, "post id"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{URL: "/posts/" + rc.args.Positional[1]})
	if err != nil {
		return err
	}
	writeJSON(rc.out, res.Body)
	return nil
}

func wordpressPostCreate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc wordpress post-create --title <text> --content <text> [--status <status>]"
	if err := rc.args.Require(usage, "title", "content"); err != nil {
		return err
	}

	body := map[string]string{
		"title":   rc.args.String("title", ""),
		"content": rc.args.String("content", ""),
		"status":  rc.args.String("status", "draft"),
	}
	res, err := client.Do(ctx, request.Spec{Method: "POST", URL: "/posts", Body: body})
	if err != nil {
		return err
	}

	if id, ok := extract.Field(res.Body, "id"); ok {
		fmt.Fprintf(rc.out, "Created post %s (%s)\n", id.String(), body["status"])
	}
	dumpVerbose(rc, res)
	return nil
}

func wordpressPostUpdate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc wordpress post-update <id> [--title <text>] [--content <text>] [--status <status>]"
	if err := rc.args.RequirePositional(usage, 2, "post id"); err != nil {
		return err
	}

	body := map[string]string{}
	for _, field := range []string{"title", "content", "status"} {
		if v := rc.args.String(field, ""); v != "" {
			body[field] = v
		}
	}
	if len(body) == 0 {
		return fmt.Errorf("nothing to update, pass --title, --content, or --status")
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/posts/" + rc.args.Positional[1],
		Body:   body,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Updated post %s\n", rc.args.Positional[1])
	dumpVerbose(rc, res)
	return nil
}

func wordpressPostDelete(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc wordpress post-delete <id> [--force]"
	if err := rc.args.RequirePositional(usage, 2, "post id"); err != nil {
		return err
	}

	q := url.Values{}
	if rc.args.Bool("force") {
		q.Set("force", "true")
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "DELETE",
		URL:    "/posts/" + rc.args.Positional[1],
		Query:  q,
	})
	if err != nil {
		return err
	}

	if rc.args.Bool("force") {
		fmt.Fprintf(rc.out, "Deleted post %s\n", rc.args.Positional[1])
	} else {
		fmt.Fprintf(rc.out, "Trashed post %s\n", rc.args.Positional[1])
	}
	dumpVerbose(rc, res)
	return nil
}

// wordpressTitle returns the rendered title, falling back to the raw
// field for contexts where rendering is absent.
func wordpressTitle(r gjson.Result) string {
	if t := r.Get("title.rendered"); t.Exists() {
		return t.String()
	}
	return r.Get("title").String()
}
