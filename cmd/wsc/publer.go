package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/request"
)

const publerUsage = `Usage: wsc publer <operation> [arguments]

Operations:
  accounts                                 List connected social accounts
  posts [--state <state>]                  List posts (draft, scheduled, ...)
  schedule --text <text> --accounts <id,id,...> [--at <time>]
                                           Schedule a post; --at accepts an
                                           ISO 8601 timestamp, omitted means
                                           the next free slot

Flags:
  --selector <name>   Pick a named config
  --verbose           Dump raw responses
`

var publerCmd = &cobra.Command{
	Use:                "publer <operation> [arguments]",
	Short:              "Work with the Publer API",
	Long:               publerUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("publer", publerUsage, runPubler, args)
	},
}

func runPubler(ctx context.Context, rc *runContext) error {
	client, _, err := dial(mustLookup("publer"), rc.args)
	if err != nil {
		return err
	}

	switch op := rc.args.Positional[0]; op {
	case "accounts":
		return publerAccounts(ctx, client, rc)
	case "posts":
		return publerPosts(ctx, client, rc)
	case "schedule":
		return publerSchedule(ctx, client, rc)
	default:
		return unknownOp("publer", op)
	}
}

func publerAccounts(ctx context.Context, client *request.Client, rc *runContext) error {
	res, err := client.Do(ctx, request.Spec{URL: "/accounts"})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, extract.PublerAccounts...)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(rc.out, "%s  %-12s  %s\n",
			r.Get("id").String(), r.Get("provider").String(), r.Get("name").String())
	}
	fmt.Fprintf(rc.out, "%d accounts\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

func publerPosts(ctx context.Context, client *request.Client, rc *runContext) error {
	q := url.Values{}
	if state := rc.args.String("state", ""); state != "" {
		q.Set("state", state)
	}

	res, err := client.Do(ctx, request.Spec{URL: "/posts", Query: q})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, extract.ListStrategies...)
	if err != nil {
		return err
	}
	for _, r := range records {
		text := r.Get("text").String()
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(rc.out, "%s  %-10s  %s\n",
			r.Get("id").String(), r.Get("state").String(), text)
	}
	fmt.Fprintf(rc.out, "%d posts\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

func publerSchedule(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc publer schedule --text <text> --accounts <id,id,...> [--at <time>]"
	if err := rc.args.Require(usage, "text", "accounts"); err != nil {
		return err
	}

	post := map[string]any{
		"text":     rc.args.String("text", ""),
		"accounts": strings.Split(rc.args.String("accounts", ""), ","),
	}
	if at := rc.args.String("at", ""); at != "" {
		post["scheduled_at"] = at
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/posts/schedule",
		Body:   map[string]any{"posts": []map[string]any{post}},
	})
	if err != nil {
		return err
	}

	// Publer queues scheduling as an async job and answers with its id.
	if jobID, ok := extract.Field(res.Body, "job_id", "id"); ok {
		fmt.Fprintf(rc.out, "Scheduled, job %s\n", jobID.String())
	} else {
		fmt.Fprintln(rc.out, "Scheduled")
	}
	dumpVerbose(rc, res)
	return nil
}
