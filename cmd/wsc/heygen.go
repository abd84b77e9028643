package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsc-dev/wsc/internal/extract"
	"github.com/wsc-dev/wsc/internal/poll"
	"github.com/wsc-dev/wsc/internal/request"
)

const (
	// heygenPollInterval is the default delay between status checks.
	heygenPollInterval = 10 * time.Second

	// heygenPollAttempts bounds video-wait; rendering a long video can
	// take several minutes.
	heygenPollAttempts = 60
)

const heygenUsage = `Usage: wsc heygen <operation> [arguments]

Operations:
  video-generate --avatar <id> --voice <id> --text <text> [--background <color>]
                                           Start rendering an avatar video
  video-status <video-id>                  Report rendering status
  video-wait <video-id> [--interval <dur>] [--attempts <n>]
                                           Poll until the video is done;
                                           prints the download URL on success

Flags:
  --selector <name>   Pick a named config
  --verbose           Dump raw responses
`

var heygenCmd = &cobra.Command{
	Use:                "heygen <operation> [arguments]",
	Short:              "Work with the HeyGen API",
	Long:               heygenUsage,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		runConnector("heygen", heygenUsage, runHeygen, args)
	},
}

func runHeygen(ctx context.Context, rc *runContext) error {
	client, _, err := dial(mustLookup("heygen"), rc.args)
	if err != nil {
		return err
	}

	switch op := rc.args.Positional[0]; op {
	case "video-generate":
		return heygenVideoGenerate(ctx, client, rc)
	case "video-status":
		return heygenVideoStatus(ctx, client, rc)
	case "video-wait":
		return heygenVideoWait(ctx, client, rc)
	default:
		return unknownOp("heygen", op)
	}
}

func heygenVideoGenerate(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc heygen video-generate --avatar <id> --voice <id> --text <text> [--background <color>]"
	if err := rc.args.Require(usage, "avatar", "voice", "text"); err != nil {
		return err
	}

	input := map[string]any{
		"character": map[string]string{
			"type":      "avatar",
			"avatar_id": rc.args.String("avatar", ""),
		},
		"voice": map[string]string{
			"type":       "text",
			"voice_id":   rc.args.String("voice", ""),
			"input_text": rc.args.String("text", ""),
		},
	}
	if bg := rc.args.String("background", ""); bg != "" {
		input["background"] = map[string]string{"type": "color", "value": bg}
	}

	res, err := client.Do(ctx, request.Spec{
		Method: "POST",
		URL:    "/v2/video/generate",
		Body:   map[string]any{"video_inputs": []map[string]any{input}},
	})
	if err != nil {
		return err
	}

	if id, ok := extract.Field(res.Body, "data.video_id", "video_id"); ok {
		fmt.Fprintf(rc.out, "Rendering started, video %s\n", id.String())
		fmt.Fprintf(rc.out, "Run 'wsc heygen video-wait %s' to wait for it\n", id.String())
	}
	dumpVerbose(rc, res)
	return nil
}

func heygenVideoStatus(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc heygen video-status <video-id>"
	if err := rc.args.RequirePositional(usage, 2, "video id"); err != nil {
		return err
	}

	status, videoURL, res, err := heygenCheck(ctx, client, rc.args.Positional[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(rc.out, "Status: %s\n", status)
	if videoURL != "" {
		fmt.Fprintf(rc.out, "URL: %s\n", videoURL)
	}
	dumpVerbose(rc, res)
	return nil
}

func heygenVideoWait(ctx context.Context, client *request.Client, rc *runContext) error {
	const usage = "wsc heygen video-wait <video-id> [--interval <dur>] [--attempts <n>]"
	if err := rc.args.RequirePositional(usage, 2, "video id"); err != nil {
		return err
	}
	videoID := rc.args.Positional[1]

	poller := poll.Poller{Interval: heygenPollInterval, MaxAttempts: heygenPollAttempts}
	if v := rc.args.String("interval", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid --interval %q: %w", v, err)
		}
		poller.Interval = d
	}
	if v := rc.args.String("attempts", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid --attempts %q", v)
		}
		poller.MaxAttempts = n
	}

	var videoURL string
	state, err := poller.Wait(ctx, func(ctx context.Context) (string, error) {
		status, u, _, err := heygenCheck(ctx, client, videoID)
		if err != nil {
			return "", err
		}
		if u != "" {
			videoURL = u
		}
		fmt.Fprintf(rc.out, "Status: %s\n", status)
		return status, nil
	})
	if err != nil {
		return err
	}

	switch state {
	case poll.StateCompleted:
		fmt.Fprintf(rc.out, "Video %s is ready\n", videoID)
		if videoURL != "" {
			fmt.Fprintf(rc.out, "URL: %s\n", videoURL)
		}
		return nil
	case poll.StateFailed:
		return fmt.Errorf("video %s failed to render", videoID)
	case poll.StateTimedOut:
		return fmt.Errorf("gave up waiting for video %s after %d checks", videoID, poller.MaxAttempts)
	default:
		return fmt.Errorf("polling stopped in state %s", state)
	}
}

// heygenCheck performs one status lookup and returns the vendor status
// string plus the download URL once available.
func heygenCheck(ctx context.Context, client *request.Client, videoID string) (string, string, *request.Result, error) {
	q := url.Values{}
	q.Set("video_id", videoID)

	res, err := client.Do(ctx, request.Spec{URL: "/v1/video_status.get", Query: q})
	if err != nil {
		return "", "", nil, err
	}

	status := ""
	if s, ok := extract.Field(res.Body, "data.status", "status"); ok {
		status = s.String()
	}
	videoURL := ""
	if u, ok := extract.Field(res.Body, "data.video_url", "video_url"); ok {
		videoURL = u.String()
	}
	return status, videoURL, res, nil
}
