package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

const networkErrorMessage = "Network request failed"

// APIError is the single error kind returned by the gateway. Status is 0 when
// no HTTP response was received.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newHTTPError(res *Result) *APIError {
	msg := fmt.Sprintf("HTTP error! status: %d", res.StatusCode)
	if res.Kind == KindJSON {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(res.JSON, &body); err == nil && body.Message != "" {
			msg = body.Message
		}
	}
	return &APIError{Status: res.StatusCode, Message: msg}
}

// MessageOf returns the user-facing message of err, falling back to fallback
// when err carries none.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
