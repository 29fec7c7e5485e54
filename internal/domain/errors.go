package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// User-input errors that abort a run before any network activity.
var (
	ErrNoInput       = errors.New("no URLs given: provide a list file or paste URLs")
	ErrNoDestination = errors.New("no destination directory given")
)

// ErrorKind classifies a per-attempt fetch failure
type ErrorKind string

const (
	KindTimeout         ErrorKind = "timeout"
	KindConnection      ErrorKind = "connection"
	KindHTTPStatus      ErrorKind = "http_status"
	KindGenericRequest  ErrorKind = "request"
	KindDirectoryAccess ErrorKind = "directory_access"
	KindPermission      ErrorKind = "permission"
	KindDiskSpace       ErrorKind = "disk_space"
	KindUnexpected      ErrorKind = "unexpected"
)

// FetchError wraps a per-attempt failure with its classification so the
// retry decision is a function of the kind, not of the error's Go type.
type FetchError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the retry loop may attempt this request again.
// Filesystem and disk-space failures are terminal for the request; anything
// network-shaped, including the unexpected catch-all, gets another attempt.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case KindDirectoryAccess, KindPermission, KindDiskSpace:
		return false
	}
	return true
}

// FailureReason maps the error kind to the outcome-level reason
func (e *FetchError) FailureReason() FailureReason {
	switch e.Kind {
	case KindDiskSpace:
		return ReasonInsufficientDiskSpace
	case KindPermission:
		return ReasonPermissionDenied
	case KindDirectoryAccess:
		return ReasonDirectoryAccess
	}
	return ReasonRetriesExhausted
}

// NewFetchError creates a classified fetch error
func NewFetchError(kind ErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

// NewPathError creates a classified fetch error naming the offending path
func NewPathError(kind ErrorKind, path string, err error) *FetchError {
	return &FetchError{Kind: kind, Path: path, Err: err}
}

// ClassifyError maps an arbitrary error to a FetchError. Already-classified
// errors pass through unchanged; unrecognized errors become KindUnexpected,
// which stays retryable so an unanticipated transient condition does not
// silently lose a request.
func ClassifyError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	switch {
	case errors.Is(err, syscall.ENOSPC):
		return NewFetchError(KindDiskSpace, err)
	case os.IsPermission(err):
		return NewFetchError(KindPermission, err)
	case os.IsNotExist(err):
		return NewFetchError(KindDirectoryAccess, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewFetchError(KindTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewFetchError(KindTimeout, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return NewFetchError(KindConnection, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NewFetchError(KindConnection, err)
	}

	return NewFetchError(KindUnexpected, err)
}
