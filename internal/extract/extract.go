// Package extract pulls record arrays out of vendor response bodies.
//
// Vendors disagree about where the payload lives: some return a bare
// array, some wrap it in "data", some in a resource-named field like
// "posts" or "records". Instead of ad hoc property probing at each call
// site, each caller declares an ordered list of extraction strategies;
// the first one that structurally matches wins.
package extract

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Records extracts an array of records from a JSON body by trying each
// gjson path in order. The empty path "" matches a bare top-level array.
// Returns the matched results and the path that won.
func Records(body []byte, paths ...string) ([]gjson.Result, string, error) {
	if !gjson.ValidBytes(body) {
		return nil, "", fmt.Errorf("response body is not valid JSON")
	}

	for _, path := range paths {
		var v gjson.Result
		if path == "" {
			v = gjson.ParseBytes(body)
		} else {
			v = gjson.GetBytes(body, path)
		}
		if v.IsArray() {
			return v.Array(), path, nil
		}
	}
	return nil, "", fmt.Errorf("no record array found at any of %v", paths)
}

// Field returns the first present value among the given gjson paths.
func Field(body []byte, paths ...string) (gjson.Result, bool) {
	for _, path := range paths {
		if v := gjson.GetBytes(body, path); v.Exists() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// Default strategy lists per vendor response family. Order matters:
// the most specific wrapper is tried first, the bare array last.
var (
	// ListStrategies covers the common "data" wrapper and bare arrays.
	ListStrategies = []string{"data", "results", ""}

	// WordPressPosts is a bare array.
	WordPressPosts = []string{""}

	// AirtableRecords live under "records".
	AirtableRecords = []string{"records"}

	// ClickUpTasks live under "tasks".
	ClickUpTasks = []string{"tasks"}

	// PublerAccounts may be bare or wrapped depending on the endpoint.
	PublerAccounts = []string{"accounts", "data", ""}

	// NotionResults live under "results" (search and database queries).
	NotionResults = []string{"results"}
)
