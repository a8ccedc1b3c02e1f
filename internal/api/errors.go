package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/omniwatch/cinema-client/internal/domain"
)

// Error is a server rejection that fits none of the richer categories:
// business rejections the backend reports as {"error": "..."} and plain
// HTTP failures. The message is surfaced to the caller verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}

	return e.Message
}

func decodeError(op string, status int, data []byte) error {
	message := extractMessage(data)

	switch status {
	case http.StatusUnauthorized:
		// only 401 marks a credential problem worth a refresh attempt; 403
		// means the identity is fine but the action is off limits
		return &domain.AuthError{Reason: message}
	case http.StatusNotFound:
		return domain.ErrRecordNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if fields := extractFieldErrors(data); len(fields) > 0 {
			return &domain.ValidationError{Fields: fields}
		}
	}

	if status >= 500 {
		return &domain.FetchError{Op: op, Err: fmt.Errorf("server error: %s", errorText(status, message))}
	}

	return &Error{StatusCode: status, Message: message}
}

func errorText(status int, message string) string {
	if message == "" {
		return http.StatusText(status)
	}

	return message
}

// extractMessage pulls the human-readable reason out of the backend's error
// body. The API is not uniform: token endpoints use {"detail": ...}, the
// booking endpoints use {"error": ...}.
func extractMessage(data []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		ErrMsg  string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	switch {
	case body.Detail != "":
		return body.Detail
	case body.ErrMsg != "":
		return body.ErrMsg
	default:
		return body.Message
	}
}

// extractFieldErrors decodes the field-to-issues map the backend returns for
// invalid registration or profile input. Issues are kept verbatim; only the
// ordering is normalized so callers render a stable list.
func extractFieldErrors(data []byte) []domain.FieldError {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var fields []domain.FieldError
	for name, issues := range raw {
		for _, issue := range issues {
			fields = append(fields, domain.FieldError{Field: name, Issue: issue})
		}
	}

	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Field != fields[j].Field {
			return fields[i].Field < fields[j].Field
		}

		return fields[i].Issue < fields[j].Issue
	})

	return fields
}
