package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("session expired, please sign in again")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource conflict")
	ErrServer       = errors.New("server error, please try again later")
	ErrUnreachable  = errors.New("service unreachable")
)

// Error is a non-2xx answer from a REST backend.
type Error struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Service == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s %s: %d %s", e.Service, e.Method, e.Path, e.StatusCode, msg)
}

// Is matches the status-class sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrBadRequest:
		return e.StatusCode >= 400 && e.StatusCode < 500 &&
			e.StatusCode != http.StatusUnauthorized && e.StatusCode != http.StatusForbidden
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// UserMessage is the text shown to the operator for this failure.
func (e *Error) UserMessage() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized.Error()
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden.Error()
	case e.StatusCode >= 500:
		return ErrServer.Error()
	case e.Message != "":
		return e.Message
	default:
		return http.StatusText(e.StatusCode)
	}
}

// errorBody covers both error shapes the backends emit: a top-level message
// (string or list of strings) and the nested {"error":{"code","message","details"}} form.
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Code       string          `json:"code"`
	Error      json.RawMessage `json:"error"`
}

type nestedError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func parseError(service, method, path string, status int, body []byte) *Error {
	e := &Error{Service: service, Method: method, Path: path, StatusCode: status}

	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "<") {
			e.Message = text
		}
		return e
	}

	e.Code = b.Code
	e.Message = messageText(b.Message)

	if len(b.Error) > 0 {
		var nested nestedError
		if err := json.Unmarshal(b.Error, &nested); err == nil {
			if nested.Code != "" {
				e.Code = nested.Code
			}
			if nested.Message != "" {
				e.Message = nested.Message
			}
			e.Details = nested.Details
		} else if e.Message == "" {
			e.Message = messageText(b.Error)
		}
	}
	return e
}

// messageText accepts a JSON string or an array of strings.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}
