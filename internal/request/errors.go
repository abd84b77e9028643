package request

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from a vendor API. The request reached
// the vendor and was rejected; contrast with TransportError.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Code is the vendor-supplied error code, when decodable.
	Code string

	// Message is the vendor-supplied human message, when decodable,
	// otherwise empty.
	Message string

	// Body is the raw response body, preserved for diagnostics.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// vendorMessagePaths are the body fields probed for a human-readable
// error message, tried in order. The first structural match wins.
var vendorMessagePaths = []string{
	"message",
	"error.message",
	"error_description",
	"error",
	"err",
	"msg",
}

// vendorCodePaths are the body fields probed for a vendor error code.
var vendorCodePaths = []string{
	"code",
	"error.code",
	"error.type",
	"err_code",
}

// newAPIError builds an APIError from a response, extracting the vendor
// message and code when the body is JSON.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}
	if !gjson.ValidBytes(body) {
		return apiErr
	}
	for _, path := range vendorMessagePaths {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			apiErr.Message = v.Str
			break
		}
	}
	for _, path := range vendorCodePaths {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type != gjson.JSON {
			apiErr.Code = v.String()
			break
		}
	}
	return apiErr
}

// TransportError is a network-level failure: DNS, connection refused,
// timeout. No request reached the vendor.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
