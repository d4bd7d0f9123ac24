package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"poparch/internal/services"
	"poparch/internal/tmdb"
)

// Kind classifies resolver failures.
type Kind string

const (
	KindNotConfigured Kind = "not_configured"
	KindNotFound      Kind = "not_found"
	KindTimeout       Kind = "timeout"
	KindNetwork       Kind = "network"
	KindUnexpected    Kind = "unexpected"
)

// Error is returned by Resolve and Details for every failure.
type Error struct {
	Kind  Kind
	Op    string
	Query string
	Err   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("resolver %s", e.Op)
	if e.Query != "" {
		msg += fmt.Sprintf(" %q", e.Query)
	}
	msg += ": " + e.Kind.Description()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind implements services.ErrorClassifier.
func (e *Error) ErrorKind() string { return string(e.Kind) }

// Is maps resolver kinds onto the shared service markers.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindNotConfigured:
		return target == services.ErrConfiguration
	case KindNotFound:
		return target == services.ErrNotFound
	case KindTimeout:
		return target == services.ErrTimeout
	case KindNetwork:
		return target == services.ErrTransient
	}
	return false
}

// Description returns a short human readable label for the kind.
func (k Kind) Description() string {
	switch k {
	case KindNotConfigured:
		return "TMDB API key not configured"
	case KindNotFound:
		return "no matching movie on TMDB"
	case KindTimeout:
		return "TMDB request timed out"
	case KindNetwork:
		return "TMDB request failed"
	default:
		return "unexpected error"
	}
}

// IsKind reports whether err is a resolver error of the given kind.
func IsKind(err error, kind Kind) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.Kind == kind
}

var errMissingAPIKey = errors.New("set one with 'poparch config set-key' or the TMDB_API_KEY environment variable")

// NotConfigured returns the error reported when no API key is set.
func NotConfigured(op string) *Error {
	return &Error{Kind: KindNotConfigured, Op: op, Err: errMissingAPIKey}
}

func classifyRequestError(op, query string, err error) *Error {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr
	}
	kind := KindUnexpected
	var (
		netErr    net.Error
		statusErr *tmdb.StatusError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.Is(err, context.Canceled):
		kind = KindUnexpected
	case errors.Is(err, tmdb.ErrDecode):
		kind = KindUnexpected
	case errors.As(err, &statusErr):
		kind = KindNetwork
	case errors.As(err, &netErr):
		kind = KindNetwork
	}
	return &Error{Kind: kind, Op: op, Query: query, Err: err}
}
