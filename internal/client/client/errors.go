package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Sentinel errors for the remote API. Connectivity-class failures are folded
// into ErrUnavailable so callers can decide "fall back to the local store"
// with a single errors.Is check.
var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("not found")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// APIError is a non-connectivity error body returned by the server
// (validation failures and the like). These must propagate to the caller
// unchanged: queueing them for replay would just repeat the failure.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsConnectivityError reports whether err means the remote service could not
// be reached, as opposed to the service rejecting the request. Timeouts,
// refused connections, DNS failures and 502/503/504 responses are
// connectivity class; 4xx responses are not.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// connectivityStatus reports whether an HTTP status code indicates a
// reachability problem rather than a request problem.
func connectivityStatus(status int) bool {
	switch status {
	case 0, 502, 503, 504:
		return true
	default:
		return false
	}
}
