package response

import (
	"math"
	"net/http"

	"github.com/WhileEndless/go-trackresp/pkg/cookies"
)

// Cookie is a cookie record shaped for sending from an HTTP server.
// MaxAge follows servlet rules: negative keeps the cookie for the browser
// session, zero deletes it, positive is a lifetime in seconds.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Comment  string `json:"comment,omitempty"`
	Domain   string `json:"domain,omitempty"` // empty when the source had no Domain attribute
	MaxAge   int    `json:"max_age"`
	Path     string `json:"path"`
	Secure   bool   `json:"secure"`
	HttpOnly bool   `json:"http_only"`
	Version  int    `json:"version"`
}

func fromHTTPCookie(h cookies.HTTPCookie) Cookie {
	c := Cookie{
		Name:  h.Name,
		Value: h.Value,
	}
	c.Comment = h.Comment
	if h.HasDomain() {
		c.Domain = h.Domain
	}
	c.MaxAge = clampMaxAge(h.MaxAge)
	c.Path = h.Path
	c.Secure = h.Secure
	c.HttpOnly = h.HttpOnly
	c.Version = h.Version
	return c
}

// clampMaxAge bounds a max-age to the 32-bit range
func clampMaxAge(maxAge int64) int {
	switch {
	case maxAge > math.MaxInt32:
		return math.MaxInt32
	case maxAge < math.MinInt32:
		return math.MinInt32
	default:
		return int(maxAge)
	}
}

// HasDomain reports whether the record carries a domain
func (c Cookie) HasDomain() bool {
	return c.Domain != ""
}

// HTTPCookie converts the record for use with http.SetCookie
func (c Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}

	// net/http: 0 means no Max-Age, negative means delete now
	switch {
	case c.MaxAge < 0:
		hc.MaxAge = 0
	case c.MaxAge == 0:
		hc.MaxAge = -1
	default:
		hc.MaxAge = c.MaxAge
	}

	return hc
}

// WriteCookies adds a Set-Cookie header to w for every record.
// Records net/http considers invalid are dropped by http.SetCookie.
func WriteCookies(w http.ResponseWriter, cs []Cookie) {
	for _, c := range cs {
		http.SetCookie(w, c.HTTPCookie())
	}
}
