// ABOUTME: Error taxonomy for API calls: network, auth, validation, server failures
// ABOUTME: Classifies HTTP responses and transport faults into typed APIErrors

package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind partitions API call failures.
type Kind string

const (
	// KindNetwork is a transport-level failure: no response was received
	// (connection refused, timeout, DNS failure).
	KindNetwork Kind = "network"

	// KindAuthorizationExpired is an HTTP 401: the access credential was
	// rejected. Absorbed by the session layer unless the refresh itself fails.
	KindAuthorizationExpired Kind = "authorization_expired"

	// KindAuthenticationRequired means the session could not be repaired:
	// the refresh exchange failed and the local session has been torn down.
	KindAuthenticationRequired Kind = "authentication_required"

	// KindValidation is any other 4xx, optionally carrying field-level detail
	// for form display.
	KindValidation Kind = "validation"

	// KindServer is a 5xx, surfaced verbatim.
	KindServer Kind = "server"
)

// APIError is the failure result of an API call.
type APIError struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for network failures
	Message string

	// Fields holds field-level validation detail keyed by field name,
	// as returned by the backend for 4xx responses.
	Fields map[string][]string

	cause error
}

func (e *APIError) Error() string {
	switch {
	case e.Status > 0 && e.Message != "":
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Status > 0:
		return fmt.Sprintf("api: %s (%d)", e.Kind, e.Status)
	case e.cause != nil:
		return fmt.Sprintf("api: %s: %v", e.Kind, e.cause)
	default:
		return fmt.Sprintf("api: %s", e.Kind)
	}
}

func (e *APIError) Unwrap() error { return e.cause }

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(cause error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "request failed", cause: cause}
}

// NewAuthenticationRequired builds the terminal session-teardown error.
func NewAuthenticationRequired(cause error) *APIError {
	return &APIError{Kind: KindAuthenticationRequired, Message: "authentication required", cause: cause}
}

// errorBody is the shape of backend error payloads. Field errors arrive as
// {"field": ["msg", ...]}; simple errors as {"detail": "msg"}.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// classifyResponse maps a non-2xx response to an APIError.
func classifyResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = KindAuthorizationExpired
	case status >= 400 && status < 500:
		apiErr.Kind = KindValidation
	default:
		apiErr.Kind = KindServer
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			apiErr.Message = eb.Detail
		} else if eb.Message != "" {
			apiErr.Message = eb.Message
		}
	}

	if apiErr.Kind == KindValidation {
		apiErr.Fields = parseFieldErrors(body)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}

// parseFieldErrors extracts {"field": ["msg", ...]} style validation detail.
// Non-list values and reserved keys are ignored.
func parseFieldErrors(body []byte) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	fields := make(map[string][]string)
	for key, value := range raw {
		if key == "detail" || key == "message" {
			continue
		}
		var msgs []string
		if err := json.Unmarshal(value, &msgs); err == nil {
			fields[key] = msgs
			continue
		}
		var msg string
		if err := json.Unmarshal(value, &msg); err == nil {
			fields[key] = []string{msg}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
