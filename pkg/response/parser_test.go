package response

import (
	"bytes"
	"compress/gzip"
	"strconv"
	"testing"

	"github.com/WhileEndless/go-trackresp/pkg/compression"
	"github.com/WhileEndless/go-trackresp/pkg/errors"
)

const trackerResponse = "HTTP/1.1 200 OK\r\n" +
	"Server: nginx\r\n" +
	"Content-Type: image/gif\r\n" +
	"Set-Cookie: _pk_id=1a2b.1700000000; Path=/; Domain=.example.org\r\n" +
	"Set-Cookie: _pk_ses=1; Max-Age=1800; Path=/\r\n" +
	"Content-Length: 6\r\n" +
	"\r\n" +
	"GIF89a"

func TestParseRaw(t *testing.T) {
	conn, err := ParseRaw([]byte(trackerResponse))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if conn.Version != "HTTP/1.1" || conn.StatusText != "OK" {
		t.Errorf("Unexpected status line: %s %s", conn.Version, conn.StatusText)
	}
	if string(conn.Body) != "GIF89a" {
		t.Errorf("Expected body GIF89a, got %q", conn.Body)
	}

	data := New(conn)
	if data.StatusCode() != 200 {
		t.Errorf("Expected 200, got %d", data.StatusCode())
	}

	fields := data.Headers().Fields()
	if !fields[0].Absent {
		t.Error("Expected status line as absent-key field")
	}

	result, err := data.Cookies()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Cookies) != 2 {
		t.Fatalf("Expected 2 cookies, got %d", len(result.Cookies))
	}
	if result.Cookies[0].Domain != ".example.org" || result.Cookies[1].HasDomain() {
		t.Errorf("Unexpected domains: %q, %q", result.Cookies[0].Domain, result.Cookies[1].Domain)
	}
}

func TestParseRaw_EmptySetCookieLine(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nSet-Cookie: a=1\r\nSet-Cookie:\r\n\r\n"

	conn, err := ParseRaw([]byte(raw))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, err := New(conn).Cookies()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Cookies) != 1 || result.Cookies[0].Name != "a" || result.Cookies[0].Value != "1" {
		t.Errorf("Expected cookie a=1, got %+v", result.Cookies)
	}
}

func TestParseRaw_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"no status line", []byte("\r\nSet-Cookie: a=1\r\n\r\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRaw(tt.input)
			if !errors.IsType(err, errors.ErrorTypeInvalidFormat) {
				t.Errorf("Expected invalid format error, got %v", err)
			}
		})
	}
}

func TestParseRaw_BadStatusCodeFallsBack(t *testing.T) {
	tests := []struct {
		name       string
		statusLine string
	}{
		{"not a number", "HTTP/1.1 OK"},
		{"missing code", "HTTP/1.1"},
		{"out of range", "HTTP/1.1 42 Odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := ParseRaw([]byte(tt.statusLine + "\r\nSet-Cookie: a=1\r\n\r\n"))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if _, err := conn.ResponseCode(); err == nil {
				t.Error("Expected ResponseCode to fail")
			}

			data := New(conn)
			if data.StatusCode() != FallbackStatusCode {
				t.Errorf("Expected fallback status, got %d", data.StatusCode())
			}

			result, err := data.Cookies()
			if err != nil || len(result.Cookies) != 1 {
				t.Errorf("Expected cookie despite bad status: %+v, %v", result, err)
			}
		})
	}
}

func TestParseRaw_ChunkedGzipBody(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write([]byte("tracked"))
	w.Close()
	gz := buf.Bytes()

	// gzip payload split over two chunks
	var raw bytes.Buffer
	raw.WriteString("HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nTransfer-Encoding: chunked\r\n\r\n")
	half := len(gz) / 2
	for _, part := range [][]byte{gz[:half], gz[half:]} {
		raw.WriteString(strconv.FormatInt(int64(len(part)), 16) + "\r\n")
		raw.Write(part)
		raw.WriteString("\r\n")
	}
	raw.WriteString("0\r\n\r\n")

	conn, err := ParseRaw(raw.Bytes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if string(conn.Body) != "tracked" {
		t.Errorf("Expected decoded body, got %q", conn.Body)
	}
	if conn.DetectedCompression != compression.CompressionGzip {
		t.Errorf("Expected gzip, got %v", conn.DetectedCompression)
	}
	if conn.IsBodyChunked {
		t.Error("Expected body to be de-chunked")
	}
}

func TestParseRaw_ChunkedTrailers(t *testing.T) {
	input := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"3\r\nfoo\r\n0\r\nX-Checksum: abc123\r\n\r\n"

	conn, err := ParseRaw([]byte(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(conn.Body) != "foo" {
		t.Errorf("Expected body foo, got %q", conn.Body)
	}
	if conn.Trailers.Get("X-Checksum") != "abc123" {
		t.Errorf("Expected trailer X-Checksum=abc123, got %v", conn.Trailers)
	}
}

func TestParseRaw_KeepChunked(t *testing.T) {
	input := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n3\r\nfoo\r\n0\r\n\r\n"

	conn, err := ParseRawWithOptions([]byte(input), ParseOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !conn.IsBodyChunked {
		t.Error("Expected body to stay chunked")
	}
	if string(conn.Body) != "3\r\nfoo\r\n0\r\n\r\n" {
		t.Errorf("Expected raw chunked body, got %q", conn.Body)
	}
	if conn.Trailers.Len() != 0 {
		t.Errorf("Expected no trailers, got %v", conn.Trailers)
	}
}

func TestParseRaw_BrokenCompressionKeepsBody(t *testing.T) {
	input := "HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\n\r\nnot gzip"

	conn, err := ParseRaw([]byte(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(conn.Body) != "not gzip" {
		t.Errorf("Expected raw body, got %q", conn.Body)
	}
	if conn.DetectedCompression != compression.CompressionNone {
		t.Errorf("Expected no compression, got %v", conn.DetectedCompression)
	}
}

func TestParseRaw_CanonicalKeys(t *testing.T) {
	input := []byte("HTTP/1.1 200 OK\nset-cookie: a=1\n\n")

	conn, err := ParseRaw(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, _ := New(conn).Cookies()
	if result.Kind != KindEmpty {
		t.Errorf("Expected lowercase key ignored by default, got %v", result.Kind)
	}

	conn, err = ParseRawWithOptions(input, ParseOptions{CanonicalKeys: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, _ = New(conn).Cookies()
	if len(result.Cookies) != 1 {
		t.Errorf("Expected canonical key to be extracted, got %+v", result)
	}
}
