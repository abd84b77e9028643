// Package errmsg converts the heterogeneous failure shapes produced by
// vendors and by credential resolution into one uniform shape for CLI
// display, with actionable suggestions.
package errmsg

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/wsc-dev/wsc/internal/cliargs"
	"github.com/wsc-dev/wsc/internal/creds"
	"github.com/wsc-dev/wsc/internal/request"
)

// Normalized is the uniform error shape the CLI renders. The raw vendor
// payload is always preserved under Details, never discarded.
type Normalized struct {
	// Message is the best available human-readable description.
	Message string

	// Status is the HTTP status code, when the failure is a vendor
	// rejection. Zero otherwise.
	Status int

	// Code is the vendor-supplied error code, when available.
	Code string

	// Details is the raw underlying payload for verbose display.
	Details string
}

// Normalize converts any error into the uniform shape. Vendor-supplied
// message fields are preferred over raw body text; the original status
// code is always preserved when available.
func Normalize(err error) Normalized {
	if err == nil {
		return Normalized{}
	}

	var apiErr *request.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(string(apiErr.Body))
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with HTTP %d", apiErr.Status)
		}
		return Normalized{
			Message: msg,
			Status:  apiErr.Status,
			Code:    apiErr.Code,
			Details: string(apiErr.Body),
		}
	}

	var transportErr *request.TransportError
	if errors.As(err, &transportErr) {
		return Normalized{
			Message: fmt.Sprintf("could not reach %s", transportErr.URL),
			Details: transportErr.Err.Error(),
		}
	}

	return Normalized{Message: err.Error()}
}

// Context provides additional context for error formatting.
type Context struct {
	// Connector is the connector being operated on, for suggestions.
	Connector string
}

// Format returns a formatted error message with possible causes and
// suggestions. The context parameter is optional - pass nil for generic
// formatting.
func Format(err error, ctx *Context) string {
	if err == nil {
		return ""
	}

	var usageErr *cliargs.UsageError
	if errors.As(err, &usageErr) {
		return usageErr.Error()
	}

	msg := err.Error()

	var apiErr *request.APIError
	if errors.As(err, &apiErr) {
		n := Normalize(err)
		msg = fmt.Sprintf("%s\nStatus: %d", n.Message, n.Status)
		if n.Code != "" {
			msg += fmt.Sprintf("\nCode: %s", n.Code)
		}
	}

	if block := Suggestions(err, ctx); block != "" {
		return msg + "\n\n" + block
	}
	return msg
}

// Suggestions returns the causes/suggestions block for an error, without
// the message itself. Empty when there is nothing useful to add.
func Suggestions(err error, ctx *Context) string {
	if err == nil {
		return ""
	}

	var resolveErr *creds.ResolveError
	if errors.As(err, &resolveErr) {
		return resolveSuggestions(resolveErr)
	}

	var apiErr *request.APIError
	if errors.As(err, &apiErr) {
		return apiSuggestions(apiErr, ctx)
	}

	var transportErr *request.TransportError
	if errors.As(err, &transportErr) {
		return transportSuggestions()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netSuggestions(netErr)
	}

	return ""
}

func resolveSuggestions(err *creds.ResolveError) string {
	var sb strings.Builder

	switch err.Kind {
	case creds.KindNotConfigured, creds.KindConfigNotFound:
		sb.WriteString("Suggestions:\n")
		sb.WriteString(fmt.Sprintf("  - Create %s with the credentials for %s\n", err.Path, err.Connector))
		sb.WriteString(fmt.Sprintf("  - Run 'wsc accounts %s' to list what is configured\n", err.Connector))

	case creds.KindAmbiguous:
		sb.WriteString("Configured selectors:\n")
		for _, s := range err.Selectors {
			sb.WriteString(fmt.Sprintf("  - %s\n", s))
		}
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Pass --selector <name> to pick one\n")

	case creds.KindUnknownSelector:
		if len(err.Selectors) > 0 {
			sb.WriteString("Configured selectors:\n")
			for _, s := range err.Selectors {
				sb.WriteString(fmt.Sprintf("  - %s\n", s))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("Suggestions:\n")
		sb.WriteString("  - Check the spelling of the selector\n")
		sb.WriteString(fmt.Sprintf("  - Run 'wsc accounts %s' to list configured names\n", err.Connector))

	case creds.KindMissingCredential:
		sb.WriteString("Suggestions:\n")
		sb.WriteString(fmt.Sprintf("  - Add the missing keys to %s\n", err.Path))
	}

	return sb.String()
}

func transportSuggestions() string {
	var sb strings.Builder
	sb.WriteString("Possible causes:\n")
	sb.WriteString("  - Network connectivity issue\n")
	sb.WriteString("  - DNS resolution failure\n")
	sb.WriteString("  - Service temporarily unavailable\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check your internet connection\n")
	sb.WriteString("  - Try again in a few minutes\n")
	return sb.String()
}

func netSuggestions(err net.Error) string {
	var sb strings.Builder
	sb.WriteString("Possible causes:\n")
	if err.Timeout() {
		sb.WriteString("  - Request timed out\n")
		sb.WriteString("  - Slow or unstable network connection\n")
	} else {
		sb.WriteString("  - Network connectivity issue\n")
		sb.WriteString("  - DNS resolution failure\n")
	}
	sb.WriteString("  - Firewall or proxy blocking the connection\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check your internet connection\n")
	sb.WriteString("  - Try again in a few minutes\n")
	return sb.String()
}

func apiSuggestions(err *request.APIError, ctx *Context) string {
	var sb strings.Builder

	switch {
	case err.Status == 401 || err.Status == 403:
		sb.WriteString("Possible causes:\n")
		sb.WriteString("  - Expired or revoked API token\n")
		sb.WriteString("  - Token lacks permission for this operation\n")
		sb.WriteString("\nSuggestions:\n")
		if ctx != nil && ctx.Connector != "" {
			sb.WriteString(fmt.Sprintf("  - Check the token in your %s config\n", ctx.Connector))
		} else {
			sb.WriteString("  - Check the token in the connector config\n")
		}
	case err.Status == 429:
		sb.WriteString("Suggestions:\n")
		sb.WriteString("  - Wait a few minutes before retrying\n")
	}

	return sb.String()
}
