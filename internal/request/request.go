// Package request performs single outbound HTTP calls against vendor
// APIs and normalizes the responses.
//
// One Do call is exactly one network call: no implicit retries and no
// automatic pagination. Callers that need every page compose Do in an
// explicit loop (see DoAll), tracking a page counter and stopping at an
// upper bound or when the server reports no further pages, whichever
// comes first.
//
// Failures are split into two kinds: *APIError when the vendor rejected
// the request (non-2xx), and *TransportError when no request reached the
// vendor at all (DNS, connection refused, timeout).
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wsc-dev/wsc/internal/log"
)

// Spec describes one outbound call.
type Spec struct {
	// Method is the HTTP method. Defaults to GET when empty.
	Method string

	// URL is either absolute (passed through unchanged) or relative to
	// the client's base URL.
	URL string

	// Query is appended to the final URL.
	Query url.Values

	// Headers are per-call headers, overriding the client's defaults
	// key-by-key.
	Headers map[string]string

	// Body is JSON-serialized for non-GET requests; GET never sends a body.
	Body any
}

// PageInfo is pagination metadata carried in response headers, kept
// separate from the body so callers never have to guess based on shape.
type PageInfo struct {
	// Total is the total record count across pages.
	Total int

	// TotalPages is the number of pages available.
	TotalPages int
}

// Result is the normalized outcome of one successful call.
type Result struct {
	// Status is the HTTP status code.
	Status int

	// JSON reports whether Body holds JSON (by response content type).
	JSON bool

	// Body is the raw response body. Empty on 204 responses.
	Body []byte

	// Page holds pagination metadata when the response carried it.
	Page *PageInfo
}

// Decode unmarshals a JSON body into v. An empty body decodes to nothing
// and is not an error, so 204 responses are safe to pass through.
func (r *Result) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Result) Text() string {
	return string(r.Body)
}

// Client dispatches requests against one resolved base URL and
// credential set. Construct once per invocation and discard.
type Client struct {
	base    string
	headers map[string]string
	http    *http.Client
	logger  log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client, for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for a base URL with default headers applied to
// every request (typically the connector's auth headers).
func New(base string, headers map[string]string, opts ...Option) *Client {
	c := &Client{
		base:    base,
		headers: headers,
		http:    newHTTPClient(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// JoinURL resolves a path against a base URL. Absolute URLs pass through
// unchanged; otherwise base and path are joined with exactly one
// separating slash regardless of trailing or leading slashes.
func JoinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Do performs one call and returns the normalized result.
// Non-2xx statuses return *APIError; transport failures return
// *TransportError.
func (c *Client) Do(ctx context.Context, spec Spec) (*Result, error) {
	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	target := JoinURL(c.base, spec.URL)
	if len(spec.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + spec.Query.Encode()
	}

	var body io.Reader
	if spec.Body != nil && method != http.MethodGet {
		payload, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for name, value := range c.headers {
		req.Header.Set(name, value)
	}
	for name, value := range spec.Headers {
		req.Header.Set(name, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("dispatching request", "method", method, "url", target)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	c.logger.Debug("received response", "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, raw)
	}

	result := &Result{
		Status: resp.StatusCode,
		Body:   raw,
		Page:   pageInfo(resp.Header),
	}

	// A 204 or an empty body is a defined "success, no data" result.
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		result.JSON = true
		result.Body = nil
		return result, nil
	}

	result.JSON = isJSONContentType(resp.Header.Get("Content-Type"))
	return result, nil
}

// DoAll fetches successive pages by incrementing a "page" query
// parameter, stopping at maxPages or when the server's pagination
// headers report no further pages. This is the only pagination loop;
// Do itself never follows pages.
func (c *Client) DoAll(ctx context.Context, spec Spec, maxPages int) ([]*Result, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	var results []*Result
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		for k, v := range spec.Query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))

		paged := spec
		paged.Query = q

		res, err := c.Do(ctx, paged)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if res.Page == nil || page >= res.Page.TotalPages {
			break
		}
	}
	return results, nil
}

// isJSONContentType reports whether a Content-Type header denotes JSON.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// pageInfo extracts pagination metadata from WordPress-style count
// headers. Returns nil when the response carries none.
func pageInfo(h http.Header) *PageInfo {
	total := h.Get("X-WP-Total")
	pages := h.Get("X-WP-TotalPages")
	if total == "" && pages == "" {
		return nil
	}

	info := &PageInfo{}
	if n, err := strconv.Atoi(total); err == nil {
		info.Total = n
	}
	if n, err := strconv.Atoi(pages); err == nil {
		info.TotalPages = n
	}
	return info
}
