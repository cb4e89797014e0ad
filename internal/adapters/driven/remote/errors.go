// Package remote classifies HTTP client failures into domain errors.
// It is shared by every adapter that calls an external service.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 512

// ClassifyTransport maps an http.Client error to a domain error.
// Cancellation by the caller is returned unchanged.
func ClassifyTransport(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%s: %w: %v", service, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", service, domain.ErrUnreachable, err)
}

// isTimeout reports whether err is a network timeout.
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// IsConnectionRefused reports whether err is a refused connection or DNS failure.
func IsConnectionRefused(err error) bool {
	var dnsErr *net.DNSError
	return errors.Is(err, syscall.ECONNREFUSED) || errors.As(err, &dnsErr)
}

// ClassifyStatus maps a non-2xx status code to a domain error.
// body is included in the message, truncated.
func ClassifyStatus(service string, status int, body string) error {
	body = strings.TrimSpace(body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.ErrAuthenticationFailed
	case status == http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = domain.ErrTimeout
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		kind = domain.ErrUnreachable
	default:
		kind = domain.ErrInvalidResponse
	}

	if body == "" {
		return fmt.Errorf("%s: %w (status %d)", service, kind, status)
	}
	return fmt.Errorf("%s: %w (status %d): %s", service, kind, status, body)
}

// CheckResponse returns nil for 2xx responses and a classified error otherwise.
// The body of failed responses is consumed.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return ClassifyStatus(service, resp.StatusCode, string(body))
}

// InvalidResponse wraps a payload problem.
func InvalidResponse(service, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", service, domain.ErrInvalidResponse, fmt.Sprintf(format, args...))
}
