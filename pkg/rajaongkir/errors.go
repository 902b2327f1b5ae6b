package rajaongkir

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	// ErrUnknownAccountTier indicates the account tier is not starter, basic or pro.
	ErrUnknownAccountTier = errors.New("unknown account tier")

	// ErrMissingAPIKey indicates the client was configured without an API key.
	ErrMissingAPIKey = errors.New("api key is required")

	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("transport error")

	// ErrResponseFormat matches any *ResponseFormatError.
	ErrResponseFormat = errors.New("response is not valid JSON")
)

// ConfigurationError is returned by New when the client configuration is invalid.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rajaongkir: invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel describing the failure.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// TransportError wraps a failure of the underlying HTTP transport: DNS,
// connection, TLS, timeout, cancellation or a truncated body.
type TransportError struct {
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("rajaongkir %s: transport: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports ErrTransport as a match.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ResponseFormatError is returned when the response body is not valid JSON.
// Body holds the raw bytes for diagnostics.
type ResponseFormatError struct {
	Operation  string
	StatusCode int
	Body       []byte
	Cause      error
}

// Error implements the error interface.
func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("rajaongkir %s: invalid JSON response (HTTP %d): %v", e.Operation, e.StatusCode, e.Cause)
}

// Unwrap returns the decoder error.
func (e *ResponseFormatError) Unwrap() error {
	return e.Cause
}

// Is reports ErrResponseFormat as a match.
func (e *ResponseFormatError) Is(target error) bool {
	return target == ErrResponseFormat
}

// IsConfigurationError returns true if err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsTransportError returns true if err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsResponseFormatError returns true if err is or wraps a *ResponseFormatError.
func IsResponseFormatError(err error) bool {
	var fErr *ResponseFormatError
	return errors.As(err, &fErr)
}
