package cookies

import (
	"strconv"
	"strings"
	"time"

	"github.com/WhileEndless/go-trackresp/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

const (
	prefixSetCookie  = "set-cookie:"
	prefixSetCookie2 = "set-cookie2:"
)

// reserved attribute names that cannot be used as cookie names
var reservedNames = map[string]bool{
	"comment":    true,
	"commenturl": true,
	"discard":    true,
	"domain":     true,
	"expires":    true,
	"httponly":   true,
	"max-age":    true,
	"path":       true,
	"port":       true,
	"secure":     true,
	"version":    true,
}

// expires date layouts seen in the wild
var expiresLayouts = []string{
	"Mon, 02-Jan-2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon, 02-Jan-06 15:04:05 MST",
	"Monday, 02-Jan-06 15:04:05 MST",
	"Mon Jan _2 15:04:05 2006",
}

// ParseSetCookie parses a Set-Cookie or Set-Cookie2 header value.
// The value may carry its "Set-Cookie:" prefix. A version 0 header yields
// exactly one cookie; a version 1 header may hold several comma-separated
// cookies.
func ParseSetCookie(header string) ([]HTTPCookie, error) {
	return parseSetCookie(header, time.Now())
}

func parseSetCookie(header string, now time.Time) ([]HTTPCookie, error) {
	version := guessVersion(header)

	lower := strings.ToLower(header)
	if strings.HasPrefix(lower, prefixSetCookie2) {
		header = header[len(prefixSetCookie2):]
	} else if strings.HasPrefix(lower, prefixSetCookie) {
		header = header[len(prefixSetCookie):]
	}

	if version == 0 {
		cookie, err := parseOne(header, now)
		if err != nil {
			return nil, err
		}
		cookie.Version = 0
		return []HTTPCookie{cookie}, nil
	}

	var result []HTTPCookie
	for _, part := range splitMultiCookies(header) {
		cookie, err := parseOne(part, now)
		if err != nil {
			return nil, err
		}
		cookie.Version = 1
		result = append(result, cookie)
	}
	return result, nil
}

// guessVersion decides between Netscape (0) and RFC 2965 (1) syntax
func guessVersion(header string) int {
	lower := strings.ToLower(header)
	switch {
	case strings.Contains(lower, "expires="):
		return 0
	case strings.Contains(lower, "version="):
		return 1
	case strings.Contains(lower, "max-age"):
		return 1
	case strings.HasPrefix(lower, prefixSetCookie2):
		return 1
	default:
		return 0
	}
}

// splitMultiCookies splits on commas that are not inside double quotes
func splitMultiCookies(header string) []string {
	var parts []string
	inQuotes := false
	start := 0

	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				parts = append(parts, header[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, header[start:])
}

// parseOne parses a single cookie: "name=value; attr=value; flag"
func parseOne(header string, now time.Time) (HTTPCookie, error) {
	tokens := splitTokens(header)
	if len(tokens) == 0 {
		return HTTPCookie{}, errors.NewError(errors.ErrorTypeMalformedCookie,
			"empty cookie header string", "ParseSetCookie", []byte(header))
	}

	idx := strings.Index(tokens[0], "=")
	if idx == -1 {
		return HTTPCookie{}, errors.NewError(errors.ErrorTypeMalformedCookie,
			"invalid cookie name-value pair", "ParseSetCookie", []byte(header))
	}

	name := strings.TrimSpace(tokens[0][:idx])
	value := strings.TrimSpace(tokens[0][idx+1:])

	if !isLegalName(name) {
		return HTTPCookie{}, errors.NewError(errors.ErrorTypeMalformedCookie,
			"illegal cookie name: "+name, "ParseSetCookie", []byte(header))
	}

	cookie := NewHTTPCookie(name, stripQuotes(value))
	cookie.Raw = strings.TrimSpace(header)

	for _, token := range tokens[1:] {
		var attrName, attrValue string
		if i := strings.Index(token, "="); i != -1 {
			attrName = strings.TrimSpace(token[:i])
			attrValue = stripQuotes(strings.TrimSpace(token[i+1:]))
		} else {
			attrName = strings.TrimSpace(token)
		}

		if err := assignAttribute(&cookie, strings.ToLower(attrName), attrValue, now); err != nil {
			return HTTPCookie{}, err
		}
	}

	return cookie, nil
}

// assignAttribute applies one attribute. The first occurrence of a
// valued attribute wins.
func assignAttribute(c *HTTPCookie, name, value string, now time.Time) error {
	switch name {
	case "comment":
		if c.Comment == "" {
			c.Comment = value
		}
	case "commenturl":
		if c.CommentURL == "" {
			c.CommentURL = value
		}
	case "discard":
		c.Discard = true
	case "domain":
		if c.Domain == "" {
			c.Domain = value
		}
	case "expires":
		if c.MaxAge == MaxAgeUnspecified {
			if delta, ok := expiresToDelta(value, now); ok {
				c.MaxAge = delta
			}
		}
	case "httponly":
		c.HttpOnly = true
	case "max-age":
		maxAge, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.NewError(errors.ErrorTypeMalformedCookie,
				"illegal cookie max-age attribute: "+value, "ParseSetCookie", []byte(c.Raw))
		}
		if c.MaxAge == MaxAgeUnspecified {
			c.MaxAge = maxAge
		}
	case "path":
		if c.Path == "" {
			c.Path = value
		}
	case "port":
		if c.Port == "" {
			c.Port = value
		}
	case "secure":
		c.Secure = true
	case "version":
		version, err := strconv.Atoi(value)
		if err != nil {
			return nil
		}
		if version != 0 && version != 1 {
			return errors.NewError(errors.ErrorTypeMalformedCookie,
				"cookie version should be 0 or 1", "ParseSetCookie", []byte(c.Raw))
		}
		c.Version = version
	}
	return nil
}

// expiresToDelta converts an Expires date into seconds from now.
// Dates in the past give 0.
func expiresToDelta(value string, now time.Time) (int64, bool) {
	for _, layout := range expiresLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		delta := int64(t.Sub(now) / time.Second)
		if delta < 0 {
			delta = 0
		}
		return delta, true
	}
	return 0, false
}

// splitTokens splits on ';' and drops zero-length tokens. Whitespace-only
// tokens are kept, so a blank leading token fails the name-value check.
func splitTokens(s string) []string {
	var tokens []string
	for _, part := range strings.Split(s, ";") {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func isLegalName(name string) bool {
	if !httpguts.ValidHeaderFieldName(name) {
		return false
	}
	if name[0] == '$' {
		return false
	}
	return !reservedNames[strings.ToLower(name)]
}

// stripQuotes removes one pair of surrounding double quotes
func stripQuotes(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
