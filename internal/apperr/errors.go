// Package apperr defines the error taxonomy shared by the backends, the
// façade and its client.
package apperr

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

type Kind string

const (
	KindFetch      Kind = "FETCH_ERROR"
	KindCreate     Kind = "CREATE_ERROR"
	KindUpdate     Kind = "UPDATE_ERROR"
	KindDelete     Kind = "DELETE_ERROR"
	KindNotFound   Kind = "NOT_FOUND_ERROR"
	KindValidation Kind = "VALIDATION_ERROR"
)

const (
	MsgFetchFailed  = "Failed to fetch articles"
	MsgCreateFailed = "Failed to create article"
	MsgUpdateFailed = "Failed to update article"
	MsgDeleteFailed = "Failed to delete article"
)

// Error is a failed operation with a machine-readable kind and, when one was
// received, the upstream HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind with an upstream status (0 if none).
func New(kind Kind, message string, status int) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, message string, status int, err error) *Error {
	return &Error{Kind: kind, Message: message, Status: status, Err: err}
}

// NotFound reports an article id that could not be resolved.
func NotFound(id int) *Error {
	return New(KindNotFound, fmt.Sprintf("Article not found: %d", id), http.StatusNotFound)
}

// Validation reports bad caller input.
func Validation(message string) *Error {
	return New(KindValidation, message, http.StatusBadRequest)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the upstream status of the first *Error in err's chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// MessageOf returns the user-facing message of the first *Error in err's
// chain, or fallback when there is none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsNotFound reports whether err is an id resolution failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// IsRetryable reports whether a caller may reasonably retry the operation
// that produced err. Nothing in this module retries on its own.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if status := StatusOf(err); status != 0 {
		return retryableStatuses[status]
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
