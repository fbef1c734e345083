// Package apperrors defines the error taxonomy shared by the Bug Ghost SDK and
// the client controllers.
//
// Remote failures come in two shapes: APIError for a non-success HTTP
// response, and NetworkError for a transport-level failure. Local failures are
// ValidationErrors (form fields) and AuthError (OAuth callback). NotFoundError
// is returned when a requested resource identifier does not resolve.
package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError represents a non-success response from the Bug Ghost API
type APIError struct {
	StatusCode int
	Detail     string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("bugghost api error (status %d, request_id: %s): %s", e.StatusCode, e.RequestID, msg)
	}
	return fmt.Sprintf("bugghost api error (status %d): %s", e.StatusCode, msg)
}

// NetworkError represents a network-level error
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError represents a client-side validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every failing field of a form. It is never sent
// over the network.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for the named field, or "" when it passed.
func (e ValidationErrors) Field(name string) string {
	for _, v := range e {
		if v.Field == name {
			return v.Message
		}
	}
	return ""
}

// NotFoundError is returned when a resource identifier does not resolve
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// AuthError represents a failed or impossible OAuth exchange
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err came from the transport or the server.
func IsRemote(err error) bool {
	var apiErr *APIError
	var netErr *NetworkError
	return errors.As(err, &apiErr) || errors.As(err, &netErr)
}

// IsNotFound reports whether err is a NotFoundError or a 404 APIError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Detail returns the human-readable message the server attached to err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// Message picks the best user-facing text for err: the server detail, then
// the transport failure, then fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if d := Detail(err); d != "" {
		return d
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	return fallback
}

// FromResponse builds an APIError from a non-success response. The body is
// consumed.
func FromResponse(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	requestID := resp.Header.Get("X-Request-ID")
	if requestID == "" && resp.Request != nil {
		requestID = resp.Request.Header.Get("X-Request-ID")
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Detail:     parseDetail(body),
		RequestID:  requestID,
	}
}

// parseDetail understands {"detail": "..."} and the FastAPI validation shape
// {"detail": [{"msg": "..."}]}.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
