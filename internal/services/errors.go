package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
	ErrStorage       = errors.New("storage error")
)

// FailureKind is the short reason recorded for a failed batch item.
type FailureKind string

const (
	FailureNotConfigured FailureKind = "not_configured"
	FailureNotFound      FailureKind = "not_found"
	FailureAmbiguous     FailureKind = "ambiguous"
	FailureTimeout       FailureKind = "timeout"
	FailureNetwork       FailureKind = "network"
	FailureStorage       FailureKind = "storage"
	FailureUnexpected    FailureKind = "unexpected"
)

// ErrorClassifier is implemented by errors that already know their failure
// kind, such as resolver errors.
type ErrorClassifier interface {
	ErrorKind() string
}

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the failure kind reported in batch summaries.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnexpected
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		if kind := strings.TrimSpace(classifier.ErrorKind()); kind != "" {
			return FailureKind(kind)
		}
	}
	switch {
	case errors.Is(err, ErrConfiguration):
		return FailureNotConfigured
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrTimeout):
		return FailureTimeout
	case errors.Is(err, ErrTransient):
		return FailureNetwork
	case errors.Is(err, ErrStorage):
		return FailureStorage
	default:
		return FailureUnexpected
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
