package core

import (
	"errors"
)

// Failure taxonomy for collaborator API calls. The pager and mutator convert
// these into user-facing notices; callers can still branch with errors.Is.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrValidation   = errors.New("validation failed")
	ErrNetwork      = errors.New("network error")
)

// UserMessage renders an error as a short notification message. Transport and
// server detail stays in the logs, not in the notice.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrAuthRequired):
		return "sign in to continue"
	case errors.Is(err, ErrForbidden):
		return "you don't have permission to do that"
	case errors.Is(err, ErrNotFound):
		return "this content is no longer available"
	case errors.Is(err, ErrRateLimited):
		return "too many requests, try again in a moment"
	case errors.Is(err, ErrServer):
		return "something went wrong on our side, try again later"
	case errors.Is(err, ErrNetwork):
		return "connection failed, check your network"
	case errors.Is(err, ErrValidation):
		return "some fields are missing or invalid"
	default:
		return "something went wrong"
	}
}
