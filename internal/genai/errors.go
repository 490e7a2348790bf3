package genai

import (
	"context"
	"errors"
	"net"
	"strings"
)

// GenerationError wraps a remote model failure that must surface to the
// caller as a generation failure (HTTP 500 at the boundary).
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return "failed to generate " + e.Op + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsTransient reports whether a remote call failure looks like quota
// exhaustion, rate limiting, or a timeout. Those failures are eligible for
// the static-content fallback instead of propagating.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "Too Many Requests")
}
