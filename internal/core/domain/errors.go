package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrAdminOnly          = errors.New("admin access required")
	ErrInvalidCredentials = errors.New("username and password are required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUnknownField       = errors.New("field is not editable")
	ErrNotOwner           = errors.New("profile belongs to another user")
	ErrNoActiveContact    = errors.New("no conversation selected")
	ErrStaleResponse      = errors.New("response discarded: view changed")
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	KindUnreachable  ErrorKind = "unreachable"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindValidation   ErrorKind = "validation"
	KindServer       ErrorKind = "server"
	KindMalformed    ErrorKind = "malformed"
)

// APIError is the normalised failure of one backend call.
type APIError struct {
	Kind     ErrorKind
	Status   int
	Detail   string
	Endpoint string
	Err      error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s (%d): %s", e.Kind, e.Endpoint, http.StatusText(e.Status), e.Status, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d", e.Kind, e.Endpoint, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindFromStatus maps a non-2xx status code onto an ErrorKind.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// UserMessage is the text shown in a view's inline error panel.
//
//	unreachable  → generic notice
//	unauthorized → session expired
//	forbidden    → admin access notice
//	validation   → server detail, verbatim
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		switch {
		case errors.Is(err, ErrNotLoggedIn):
			return "Please log in to continue."
		case errors.Is(err, ErrAdminOnly):
			return "This page is reserved for administrators."
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidRole),
			errors.Is(err, ErrUnknownField), errors.Is(err, ErrNotOwner), errors.Is(err, ErrNoActiveContact):
			return err.Error()
		}
		return "Something went wrong."
	}
	switch apiErr.Kind {
	case KindUnreachable:
		return "The server is unreachable. Check your connection and try again."
	case KindUnauthorized:
		return "Your session has expired. Please log in again."
	case KindForbidden:
		return "Access denied: administrator rights are required."
	case KindNotFound:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return "Not found."
	case KindValidation:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return "The request was rejected."
	case KindMalformed:
		return "The server sent an unexpected response."
	default:
		return "The server encountered an error. Please try again."
	}
}
