package momoapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
)

// APIError is a non-2xx answer from the remote API. Detail is the
// human-readable message extracted from the body, if any.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}

// Message returns Detail, or fallback when the body carried none.
func (e *APIError) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// parseDetail understands both FastAPI error shapes: a plain string and a
// list of field-level validation issues.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if len(eb.Detail) > 0 {
		var text string
		if err := json.Unmarshal(eb.Detail, &text); err == nil {
			return text
		}

		var issues []validationIssue
		if err := json.Unmarshal(eb.Detail, &issues); err == nil {
			msgs := make([]string, 0, len(issues))
			for _, issue := range issues {
				msgs = append(msgs, issue.Msg)
			}
			return strings.Join(msgs, ", ")
		}
	}

	return eb.Message
}

// ErrorMessage converts any client error into the text shown to the user.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNetwork):
		return "network error"
	case errors.Is(err, ErrUnauthorized):
		return "authentication expired, please log in again"
	case errors.As(err, &apiErr):
		return apiErr.Message(fallback)
	}
	return fallback
}
