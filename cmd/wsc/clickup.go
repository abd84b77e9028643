package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/request"
)

const clickupUsage = `Usage: wsc clickup <operation> [arguments]

Operations:
  tasks --list <list-id>                   List tasks in a list
  task <task-id>                           Fetch one task
  task-create --list <list-id> --name <text> [--description <text>]
                                           Create a task
  task-update <task-id> [--name <text>] [--status <status>]
                                           Update a task
  task-delete <task-id>                    Delete a task

Flags:
  --selector <name>   Pick a named config
  --verbose           Dump raw responses
`

var clickupCmd = &cobra.Command{
	Use:                "clickup <operation> [arguments]",
	Short:              "Work with the ClickUp API",
	Long:               clickupUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("clickup", clickupUsage, runClickup, args)
	},
}

func runClickup(ctx context.Context, rc *runContext) error {
	client, _, err := dial(mustLookup("clickup"), rc.args)
	if err != nil {
		return err
	}

	switch op := rc.args.Positional[0]; op {
	case "tasks":
		return clickupTasks(ctx, client, rc)
	case "task":
		return clickupTask(ctx, client, rc)
	case "task-create":
		return clickupTaskCreate(ctx, client, rc)
	case "task-update":
		return clickupTaskUpdate(ctx, client, rc)
	case "task-delete":
		return clickupTaskDelete(ctx, client, rc)
	default:
		return unknownOp("clickup", op)
	}
}

func clickupTasks(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc clickup tasks --list <list-id>"
	if err := rc.args.Require(usage, "list"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		URL: "/list/" + rc.args.String("list", "") + "/task",
	})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, extract.ClickUpTasks...)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(rc.out, "%-12s  %-12s  %s\n",
			r.Get("id").String(), r.Get("status.status").String(), r.Get("name").String())
	}
	fmt.Fprintf(rc.out, "%d tasks\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

func clickupTask(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc clickup task <task-id>"
	if err := rc.args.RequirePositional(usage, 2, "task id"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{URL: "/task/" + rc.args.Positional[1]})
	if err != nil {
		return err
	}
	writeJSON(rc.out, res.Body)
	return nil
}

func clickupTaskCreate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc clickup task-create --list <list-id> --name <text> [--description <text>]"
	if err := rc.args.Require(usage, "list", "name"); err != nil {
		return err
	}

	body := map[string]string{"name": rc.args.String("name", "")}
	if desc := rc.args.String("description", ""); desc != "" {
		body["description"] = desc
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/list/" + rc.args.String("list", "") + "/task",
		Body:   body,
	})
	if err != nil {
		return err
	}

	if id, ok := extract.Field(res.Body, "id"); ok {
		fmt.Fprintf(rc.out, "Created task %s\n", id.String())
	}
	dumpVerbose(rc, res)
	return nil
}

func clickupTaskUpdate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc clickup task-update <task-id> [--name <text>] [--status <status>]"
	if err := rc.args.RequirePositional(usage, 2, "task id"); err != nil {
		return err
	}

	body := map[string]string{}
	for _, field := range []string{"name", "status"} {
		if v := rc.args.String(field, ""); v != "" {
			body[field] = v
		}
	}
	if len(body) == 0 {
		return fmt.Errorf("nothing to update, pass --name or --status")
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "PUT",
		URL:    "/task/" + rc.args.Positional[1],
		Body:   body,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Updated task %s\n", rc.args.Positional[1])
	dumpVerbose(rc, res)
	return nil
}

func clickupTaskDelete(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc clickup task-delete <task-id>"
	if err := rc.args.RequirePositional(usage, 2, "task id"); err != nil {
		return err
	}

	// ClickUp answers deletes with 204 and no body.
	_, err := client.Do(ctx, request.Spec{
		Method: "DELETE",
		URL:    "/task/" + rc.args.Positional[1],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Deleted task %s\n", rc.args.Positional[1])
	return nil
}
