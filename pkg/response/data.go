// Package response captures the status code and header fields of a
// completed HTTP exchange and extracts the cookies the server set.
package response

import (
	"fmt"
	"net/http"

	"github.com/WhileEndless/go-trackresp/pkg/headers"
	"go.uber.org/zap"
)

// FallbackStatusCode is reported when the status code cannot be retrieved.
// Callers cannot tell it apart from a real 500.
const FallbackStatusCode = http.StatusInternalServerError

// Connection is a completed HTTP exchange
type Connection interface {
	// HeaderFields returns the response header fields
	HeaderFields() *headers.Snapshot

	// ResponseCode returns the status code or the reason it is unavailable
	ResponseCode() (int, error)
}

// Option configures Data
type Option func(*Data)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(d *Data) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Data holds the status code and a header snapshot taken once at
// construction. It is never mutated afterwards.
type Data struct {
	headers    *headers.Snapshot
	statusCode int
	logger     *zap.Logger
}

// New captures the header fields and status code of conn
func New(conn Connection, opts ...Option) *Data {
	d := &Data{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.headers = conn.HeaderFields()
	if d.headers == nil {
		d.headers = headers.NewSnapshot(nil)
	}

	code, err := conn.ResponseCode()
	if err != nil {
		d.logger.Debug("status code unavailable, using fallback",
			zap.Int("fallback", FallbackStatusCode), zap.Error(err))
		code = FallbackStatusCode
	}
	d.statusCode = code

	return d
}

// StatusCode returns the HTTP status code
func (d *Data) StatusCode() int {
	return d.statusCode
}

// Headers returns the captured header snapshot
func (d *Data) Headers() *headers.Snapshot {
	return d.headers
}

// Cookies extracts the cookies from the Set-Cookie header fields.
// The result is computed on every call.
func (d *Data) Cookies() (Result, error) {
	return Extract(d.headers, d.logger)
}

// IsSuccessful returns true if the response has a 2xx status code
func (d *Data) IsSuccessful() bool {
	return d.statusCode >= 200 && d.statusCode < 300
}

func (d *Data) String() string {
	return fmt.Sprintf("Data [headers=%s, statusCode=%d]", d.headers, d.statusCode)
}
