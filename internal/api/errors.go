// Package api provides the BactoCloud REST API client.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
)

// ErrFileUnavailable indicates an attachment could not be fetched. Callers
// treat this as non-fatal and skip the attachment.
var ErrFileUnavailable = errors.New("file unavailable")

// APIError is a non-200 response from the BactoCloud API, carrying the
// server-provided error message when one was present in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (status %d)", e.StatusCode)
}

// IsUnavailable checks whether an error marks a skippable attachment fetch.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrFileUnavailable)
}

// newAPIError builds an APIError from a response, decoding the server's
// {"error": "..."} body when possible.
func newAPIError(resp *nethttp.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
	} else if len(body) > 0 {
		apiErr.Message = string(body)
	}

	return apiErr
}
