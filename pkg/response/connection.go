package response

import (
	stderrors "errors"
	"net/http"
	"sort"

	"github.com/WhileEndless/go-trackresp/pkg/headers"
)

var (
	// ErrNoResponse is returned by connections that wrap no response
	ErrNoResponse = stderrors.New("no response")
	// ErrNoStatusCode is returned when the response carries no usable status code
	ErrNoStatusCode = stderrors.New("status code unavailable")
)

type httpConnection struct {
	resp *http.Response
}

// FromHTTPResponse adapts a net/http response.
// The status line becomes the absent-key field, followed by the header
// fields sorted by name.
func FromHTTPResponse(resp *http.Response) Connection {
	return &httpConnection{resp: resp}
}

func (c *httpConnection) HeaderFields() *headers.Snapshot {
	if c.resp == nil {
		return headers.NewSnapshot(nil)
	}

	b := headers.NewBuilder()
	if statusLine := c.statusLine(); statusLine != "" {
		b.AddStatusLine(statusLine)
	}

	names := make([]string, 0, len(c.resp.Header))
	for name := range c.resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range c.resp.Header[name] {
			b.Add(name, value)
		}
	}
	return b.Build()
}

func (c *httpConnection) statusLine() string {
	switch {
	case c.resp.Proto != "" && c.resp.Status != "":
		return c.resp.Proto + " " + c.resp.Status
	case c.resp.Status != "":
		return c.resp.Status
	default:
		return ""
	}
}

func (c *httpConnection) ResponseCode() (int, error) {
	if c.resp == nil {
		return 0, ErrNoResponse
	}
	if c.resp.StatusCode <= 0 {
		return 0, ErrNoStatusCode
	}
	return c.resp.StatusCode, nil
}

// StaticConnection serves fixed header fields and status code.
// The key "" in Fields stands for the absent (status line) key.
type StaticConnection struct {
	Fields map[string][]string
	Code   int
	Err    error
}

// HeaderFields returns Fields as a snapshot with sorted names
func (c *StaticConnection) HeaderFields() *headers.Snapshot {
	return headers.FromMap(c.Fields)
}

// ResponseCode returns Code, or Err when it is set
func (c *StaticConnection) ResponseCode() (int, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	return c.Code, nil
}
