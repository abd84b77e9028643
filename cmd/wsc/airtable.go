package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/request"
)

// airtableBatchSize is the vendor's per-request record limit.
const airtableBatchSize = 10

const airtableUsage = `Usage: wsc airtable <operation> [arguments]

Operations:
  records <table> [--view <name>] [--max <n>]
                                           List records in a table
  record <table> <record-id>               Fetch one record
  record-create <table> --fields <json>    Create a record
  record-update <table> <record-id> --fields <json>
                                           Update a record
  record-delete <table> <record-id>        Delete a record
  batch-create <table> --records <json-array>
                                           Create many records in chunks of
                                           10, reporting exact success and
                                           failure counts

Flags:
  --selector <name>   Pick a named config
  --verbose           Dump raw responses
`

var airtableCmd = &cobra.Command{
	Use:                "airtable <operation> [arguments]",
	Short:              "Work with the Airtable API",
	Long:               airtableUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("airtable", airtableUsage, runAirtable, args)
	},
}

func runAirtable(ctx context.Context, rc *runContext) error {
	client, res, err := dial(mustLookup("airtable"), rc.args)
	if err != nil {
		return err
	}
	baseID := res.Values["AIRTABLE_BASE_ID"]

	switch op := rc.args.Positional[0]; op {
	case "records":
		return airtableRecords(ctx, client, baseID, rc)
	case "record":
		return airtableRecord(ctx, client, baseID, rc)
	case "record-create":
		return airtableRecordCreate(ctx, client, baseID, rc)
	case "record-update":
		return airtableRecordUpdate(ctx, client, baseID, rc)
	case "record-delete":
		return airtableRecordDelete(ctx, client, baseID, rc)
	case "batch-create":
		return airtableBatchCreate(ctx, client, baseID, rc)
	default:
		return unknownOp("airtable", op)
	}
}

func airtableRecords(ctx context.Context, client *request.Client, baseID string, rc *runContext) error {
	const usage = "wsc airtable records <table> [--view <name>] [--max <n>]"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}

	q := url.Values{}
	if view := rc.args.String("view", ""); view != "" {
		q.Set("view", view)
	}
	if max := rc.args.String("max", ""); max != "" {
		q.Set("maxRecords", max)
	}

	res, err := client.Do(ctx, request.Spec{
		URL:   "/" + baseID + "/" + url.PathEscape(rc.args.Positional[1]),
		Query: q,
	})
	if err != nil {
		return err
	}

	records, _, err := extract.Records(res.Body, extract.AirtableRecords...)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(rc.out, "%s  %s\n", r.Get("id").String(), r.Get("fields").Raw)
	}
	fmt.Fprintf(rc.out, "%d records\n", len(records))
	dumpVerbose(rc, res)
	return nil
}

func airtableRecord(ctx context.Context, client *request.Client, baseID string, rc *runContext) error {
	const usage = "wsc airtable record <table> <record-id>"
	if err := rc.args.RequirePositional(usage, 3, "table name and record id"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		URL: "/" + baseID + "/" + url.PathEscape(rc.args.Positional[1]) + "/" + rc.args.Positional[2],
	})
	if err != nil {
		return err
	}
	writeJSON(rc.out, res.Body)
	return nil
}

func airtableRecordCreate(ctx context.Context, client *request.Client, baseID string, rc *runContext) error {
	const usage = "wsc airtable record-create <table> --fields <json>"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}
	if err := rc.args.Require(usage, "fields"); err != nil {
		return err
	}
	fields := rc.args.String("fields", "")
	if !json.Valid([]byte(fields)) {
		return fmt.Errorf("--fields is not valid JSON")
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/" + baseID + "/" + url.PathEscape(rc.args.Positional[1]),
		Body:   map[string]any{"fields": json.RawMessage(fields)},
	})
	if err != nil {
		return err
	}

	if id, ok := extract.Field(res.Body, "id"); ok {
		fmt.Fprintf(rc.out, "Created record %s\n", id.String())
	}
	dumpVerbose(rc, res)
	return nil
}

func airtableRecordUpdate(ctx context.Context, client *request.Client, baseID string, rc *runContext) error {
	const usage = "wsc airtable record-update <table> <record-id> --fields <json>"
	if err := rc.args.RequirePositional(usage, 3, "table name and record id"); err != nil {
		return err
	}
	if err := rc.args.Require(usage, "fields"); err != nil {
		return err
	}
	fields := rc.args.String("fields", "")
	if !json.Valid([]byte(fields)) {
		return fmt.Errorf("--fields is not valid JSON")
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "PATCH",
		URL:    "/" + baseID + "/" + url.PathEscape(rc.args.Positional[1]) + "/" + rc.args.Positional[2],
		Body:   map[string]any{"fields": json.RawMessage(fields)},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Updated record %s\n", rc.args.Positional[2])
	dumpVerbose(rc, res)
	return nil
}

func airtableRecordDelete(ctx context.Context, client *request.Client, baseID string, rc *runContext) error {
	const usage = "wsc airtable record-delete <table> <record-id>"
	if err := rc.args.RequirePositional(usage, 3, "table name and record id"); err != nil {
		return err
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "DELETE",
		URL:    "/" + baseID + "/" + url.PathEscape(rc.args.Positional[1]) + "/" + rc.args.Positional[2],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Deleted record %s\n", rc.args.Positional[2])
	dumpVerbose(rc, res)
	return nil
}

// airtableBatchCreate creates records in chunks of the vendor limit.
// A failed chunk does not abort the rest; the exact created and failed
// counts are always reported, and any failure makes the whole command
// fail after the counts are printed.
func airtableBatchCreate(ctx context.Context, client *request.Client, baseID string, rc *runContext) error {
	const usage = "wsc airtable batch-create <table> --records <json-array>"
	if err := rc.args.RequirePositional(usage, 2, "table name"); err != nil {
		return err
	}
	if err := rc.args.Require(usage, "records"); err != nil {
		return err
	}

	var fieldSets []json.RawMessage
	if err := json.Unmarshal([]byte(rc.args.String("records", "")), &fieldSets); err != nil {
		return fmt.Errorf("--records must be a JSON array of field objects: %w", err)
	}
	if len(fieldSets) == 0 {
		return fmt.Errorf("--records is empty")
	}

	target := "/" + baseID + "/" + url.PathEscape(rc.args.Positional[1])

	created, failed := 0, 0
	var firstErr error
	for start := 0; start < len(fieldSets); start += airtableBatchSize {
		end := start + airtableBatchSize
		if end > len(fieldSets) {
			end = len(fieldSets)
		}
		chunk := fieldSets[start:end]

		records := make([]map[string]any, len(chunk))
		for i, fields := range chunk {
			records[i] = map[string]any{"fields": fields}
		}

		res, err := client.Do(ctx, request.Spec{
			Method: "POST",
			URL:    target,
			Body:   map[string]any{"records": records},
		})
		if err != nil {
			failed += len(chunk)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		made, _, err := extract.Records(res.Body, extract.AirtableRecords...)
		if err != nil {
			failed += len(chunk)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created += len(made)
		dumpVerbose(rc, res)
	}

	fmt.Fprintf(rc.out, "Created %d of %d records (%d failed)\n",
		created, len(fieldSets), failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed: %w", failed, len(fieldSets), firstErr)
	}
	return nil
}
