package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")

	// ErrParse indicates an upload that is not a readable PDF
	ErrParse = errors.New("unreadable pdf")
	// ErrIO indicates the upload could not be written to local storage
	ErrIO = errors.New("storage write failed")
	// ErrRemoteCall indicates the language-model provider call failed
	ErrRemoteCall = errors.New("remote model call failed")
	// ErrConfig indicates missing or invalid startup configuration
	ErrConfig = errors.New("invalid configuration")
)

// ErrorKind names the error class for logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrRemoteCall):
		return "remote_call"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
