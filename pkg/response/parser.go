package response

import (
	"strconv"
	"strings"

	"github.com/WhileEndless/go-trackresp/pkg/chunked"
	"github.com/WhileEndless/go-trackresp/pkg/compression"
	"github.com/WhileEndless/go-trackresp/pkg/errors"
	"github.com/WhileEndless/go-trackresp/pkg/headers"
)

// ParseOptions contains options for parsing raw HTTP responses
type ParseOptions struct {
	// AutoDecodeChunked decodes chunked transfer encoding before
	// decompression. When false, chunked bodies are kept as received.
	AutoDecodeChunked bool

	// CanonicalKeys rewrites header names to canonical MIME form, so a
	// lowercase "set-cookie" line is still extracted
	CanonicalKeys bool
}

// RawConnection is a Connection backed by a captured raw HTTP/1.x response
type RawConnection struct {
	Version    string // HTTP version from the status line
	StatusText string
	Body       []byte // decoded body
	RawBody    []byte // body bytes as received
	Raw        []byte // complete original response

	DetectedCompression compression.CompressionType
	IsBodyChunked       bool // body is still chunked encoded

	// Trailers holds fields sent after the final chunk. Empty unless the
	// body was de-chunked.
	Trailers *headers.Snapshot

	headers    *headers.Snapshot
	statusCode int
	statusErr  error
}

// ParseRaw parses a raw HTTP response with default options
func ParseRaw(data []byte) (*RawConnection, error) {
	return ParseRawWithOptions(data, ParseOptions{AutoDecodeChunked: true})
}

// ParseRawWithOptions parses a raw HTTP response.
// A status line without a usable code is not a parse error; it makes
// ResponseCode fail instead.
func ParseRawWithOptions(data []byte, opts ParseOptions) (*RawConnection, error) {
	if len(data) == 0 {
		return nil, errors.NewError(errors.ErrorTypeInvalidFormat,
			"empty response data", "parse", data)
	}

	if data[0] == '\r' || data[0] == '\n' {
		return nil, errors.NewError(errors.ErrorTypeInvalidFormat,
			"no status line found", "parse", data)
	}

	conn := &RawConnection{
		Raw: make([]byte, len(data)),
	}
	copy(conn.Raw, data)

	snap, bodyStart := headers.Parse(conn.Raw, headers.ParseOptions{
		StatusLine:    true,
		CanonicalKeys: opts.CanonicalKeys,
	})
	conn.headers = snap

	statusLine, _ := snap.StatusLine()
	conn.parseStatusLine(statusLine)

	conn.RawBody = conn.Raw[bodyStart:]
	conn.Body = conn.RawBody
	conn.Trailers = headers.NewSnapshot(nil)

	if isChunked(snap.Get("Transfer-Encoding")) {
		conn.IsBodyChunked = true
		if opts.AutoDecodeChunked {
			conn.Body, conn.Trailers = chunked.Decode(conn.Body)
			conn.IsBodyChunked = false
		}
	}

	if !conn.IsBodyChunked {
		// On decompression error the body stays as received
		body, ct, err := compression.Decode(conn.Body, snap.Get("Content-Encoding"))
		if err == nil {
			conn.Body = body
			conn.DetectedCompression = ct
		}
	}

	return conn, nil
}

// parseStatusLine reads "Version Code Text" with fault tolerance
func (c *RawConnection) parseStatusLine(line string) {
	parts := strings.Fields(line)

	if len(parts) < 2 {
		c.statusErr = errors.NewError(errors.ErrorTypeInvalidFormat,
			"invalid status line format", "parseStatusLine", []byte(line))
		return
	}

	c.Version = parts[0]
	if !strings.HasPrefix(strings.ToUpper(c.Version), "HTTP/") {
		c.Version = "HTTP/1.1"
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil || code < 100 || code > 999 {
		c.statusErr = errors.NewError(errors.ErrorTypeInvalidStatusCode,
			"invalid status code: "+parts[1], "parseStatusLine", []byte(line))
		return
	}
	c.statusCode = code

	if len(parts) >= 3 {
		c.StatusText = strings.Join(parts[2:], " ")
	}
}

// HeaderFields returns the parsed header snapshot, status line first
func (c *RawConnection) HeaderFields() *headers.Snapshot {
	return c.headers
}

// ResponseCode returns the parsed status code
func (c *RawConnection) ResponseCode() (int, error) {
	if c.statusErr != nil {
		return 0, c.statusErr
	}
	return c.statusCode, nil
}

func isChunked(transferEncoding string) bool {
	for _, enc := range strings.Split(transferEncoding, ",") {
		if strings.EqualFold(strings.TrimSpace(enc), "chunked") {
			return true
		}
	}
	return false
}
