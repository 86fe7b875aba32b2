package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the API refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeAPI indicates the API answered with a non-2xx status
	ErrTypeAPI
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeValidation indicates input rejected before any request was sent
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeAPI:
		return "API Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every gateway operation and by form validation.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (ErrTypeAPI only)
	Server     string    // Message from the {"error": ...} body, if any
	Field      string    // Offending form field (ErrTypeValidation only)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	if e.Server != "" {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Server)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// classifyTransportError narrows a transport failure down to timeout,
// refused, DNS or generic network.
func classifyTransportError(err error) ErrorType {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTypeTimeout
	}
	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrTypeDNS
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrTypeConnectionRefused
	}

	return ErrTypeNetwork
}

// NewNetworkError wraps a transport failure with automatic classification.
func NewNetworkError(message string, err error) *Error {
	return &Error{
		Type:    classifyTransportError(err),
		Message: message,
		Err:     err,
	}
}

// NewAPIError creates an error for a non-2xx response. server is the
// message the backend put in its error body and may be empty.
func NewAPIError(statusCode int, server string) *Error {
	return &Error{
		Type:       ErrTypeAPI,
		Message:    fmt.Sprintf("request failed with status %d", statusCode),
		StatusCode: statusCode,
		Server:     server,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error for a single form field.
func NewValidationError(field, message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
		Field:   field,
	}
}

func asError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error (including timeout,
// connection refused and DNS)
func IsNetworkError(err error) bool {
	if gwErr, ok := asError(err); ok {
		switch gwErr.Type {
		case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
			return true
		}
	}
	return false
}

// IsAPIError checks if an error is a non-2xx API response
func IsAPIError(err error) bool {
	if gwErr, ok := asError(err); ok {
		return gwErr.Type == ErrTypeAPI
	}
	return false
}

// IsNotFound reports a 404 from the API.
func IsNotFound(err error) bool {
	if gwErr, ok := asError(err); ok {
		return gwErr.Type == ErrTypeAPI && gwErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	if gwErr, ok := asError(err); ok {
		return gwErr.Type == ErrTypeParse
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if gwErr, ok := asError(err); ok {
		return gwErr.Type == ErrTypeValidation
	}
	return false
}

// ServerMessage returns the message supplied by the backend, or fallback
// when the error carries none.
func ServerMessage(err error, fallback string) string {
	if gwErr, ok := asError(err); ok && gwErr.Server != "" {
		return gwErr.Server
	}
	return fallback
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	gwErr, ok := asError(err)
	if !ok {
		return err.Error()
	}

	switch gwErr.Type {
	case ErrTypeTimeout:
		return "Inventory API not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Inventory API refused connection - is the backend running?"
	case ErrTypeDNS:
		return "Cannot resolve inventory API hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeAPI:
		if gwErr.Server != "" {
			return gwErr.Server
		}
		return fmt.Sprintf("Inventory API error (HTTP %d)", gwErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse inventory API response"
	case ErrTypeValidation:
		return gwErr.Message
	default:
		return gwErr.Message
	}
}

// TroubleshootingHint returns advice for errors shown by the CLI.
func TroubleshootingHint(err error) string {
	gwErr, ok := asError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch gwErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The inventory API did not respond in time.",
			"Troubleshooting:",
			"  • Check that the backend is running",
			"  • Try a longer --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The inventory API refused the connection.",
			"Troubleshooting:",
			"  • Start the backend service",
			"  • Verify the port in --api (default http://localhost:8080)",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the API hostname.",
			"Troubleshooting:",
			"  • Use an IP address in --api",
			"  • Run 'devinv discover' to locate the API on the local network",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the --api URL",
		}, "\n")

	case ErrTypeAPI:
		if gwErr.StatusCode == http.StatusNotFound {
			return "The requested device does not exist. Run 'devinv list' to see device codes."
		}
		if gwErr.StatusCode >= 500 {
			return fmt.Sprintf("The inventory API failed internally (HTTP %d). Check the backend logs.", gwErr.StatusCode)
		}
		return fmt.Sprintf("The inventory API rejected the request (HTTP %d). Check the field values.", gwErr.StatusCode)

	case ErrTypeParse:
		return "The API response was not the expected JSON. Check that --api points at the inventory backend."

	case ErrTypeValidation:
		return "Fill in every required field and try again."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
