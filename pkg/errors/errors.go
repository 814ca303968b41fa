package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of parsing errors
type ErrorType int

const (
	ErrorTypeInvalidFormat ErrorType = iota
	ErrorTypeMalformedHeader
	ErrorTypeInvalidStatusCode
	ErrorTypeMalformedCookie
	ErrorTypeCompressionError
)

// String returns a short name for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeInvalidFormat:
		return "invalid format"
	case ErrorTypeMalformedHeader:
		return "malformed header"
	case ErrorTypeInvalidStatusCode:
		return "invalid status code"
	case ErrorTypeMalformedCookie:
		return "malformed cookie"
	case ErrorTypeCompressionError:
		return "compression error"
	default:
		return "unknown"
	}
}

// Error represents a structured parsing error
type Error struct {
	Type    ErrorType
	Message string
	Context string
	Raw     []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("trackresp: %s (context: %s)", e.Message, e.Context)
}

// NewError creates a new Error
func NewError(errType ErrorType, message, context string, raw []byte) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: context,
		Raw:     raw,
	}
}

// IsParseError checks if an error is a parsing error
func IsParseError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// IsType reports whether err, or anything it wraps, is an *Error of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == errType
}
