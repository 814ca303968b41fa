// Package cookies parses Set-Cookie header values into cookie records.
//
// Both Netscape (version 0) and RFC 2965 (version 1) syntaxes are accepted.
// Unlike a browser, the parser is strict about the name-value pair: a
// missing '=' or an illegal cookie name is reported as an error.
package cookies

import (
	"fmt"
	"strings"
)

// MaxAgeUnspecified marks a cookie without Max-Age or Expires
const MaxAgeUnspecified int64 = -1

// HTTPCookie represents one cookie parsed from a Set-Cookie header
type HTTPCookie struct {
	Name       string
	Value      string
	Comment    string
	CommentURL string
	Discard    bool
	Domain     string
	MaxAge     int64 // seconds; MaxAgeUnspecified when not set
	Path       string
	Port       string
	Secure     bool
	HttpOnly   bool
	Version    int    // 0 = Netscape, 1 = RFC 2965
	Raw        string // header the cookie was parsed from
}

// NewHTTPCookie creates a cookie with default attributes
func NewHTTPCookie(name, value string) HTTPCookie {
	return HTTPCookie{
		Name:    name,
		Value:   value,
		MaxAge:  MaxAgeUnspecified,
		Version: 1,
	}
}

// HasDomain reports whether a Domain attribute was set
func (c *HTTPCookie) HasDomain() bool {
	return c.Domain != ""
}

// String rebuilds a Set-Cookie header value from the cookie
func (c *HTTPCookie) String() string {
	var parts []string

	// Name=Value
	if c.Name != "" {
		parts = append(parts, c.Name+"="+c.Value)
	}

	if c.Path != "" {
		parts = append(parts, "Path="+c.Path)
	}

	if c.Domain != "" {
		parts = append(parts, "Domain="+c.Domain)
	}

	// Max-Age (only if explicitly set)
	if c.MaxAge != MaxAgeUnspecified {
		parts = append(parts, fmt.Sprintf("Max-Age=%d", c.MaxAge))
	}

	if c.Comment != "" {
		parts = append(parts, "Comment="+quoteIfNeeded(c.Comment))
	}

	if c.Port != "" {
		parts = append(parts, "Port="+quoteIfNeeded(c.Port))
	}

	if c.Discard {
		parts = append(parts, "Discard")
	}

	if c.Secure {
		parts = append(parts, "Secure")
	}

	if c.HttpOnly {
		parts = append(parts, "HttpOnly")
	}

	if c.Version == 1 {
		parts = append(parts, "Version=1")
	}

	return strings.Join(parts, "; ")
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " ;,\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
