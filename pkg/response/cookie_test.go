package response

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WhileEndless/go-trackresp/pkg/cookies"
)

func TestFromHTTPCookie_CopiesAttributes(t *testing.T) {
	src := cookies.HTTPCookie{
		Name:     "_pk_id",
		Value:    "1a2b",
		Comment:  "visitor",
		Domain:   ".example.org",
		MaxAge:   3600,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		Version:  1,
	}

	c := fromHTTPCookie(src)
	expected := Cookie{
		Name:     "_pk_id",
		Value:    "1a2b",
		Comment:  "visitor",
		Domain:   ".example.org",
		MaxAge:   3600,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		Version:  1,
	}
	if c != expected {
		t.Errorf("Expected %+v, got %+v", expected, c)
	}
}

func TestFromHTTPCookie_DomainOmitted(t *testing.T) {
	c := fromHTTPCookie(cookies.NewHTTPCookie("a", "1"))
	if c.HasDomain() || c.Domain != "" {
		t.Errorf("Expected no domain, got %q", c.Domain)
	}
	if c.HTTPCookie().Domain != "" {
		t.Errorf("Expected no domain on http.Cookie, got %q", c.HTTPCookie().Domain)
	}
}

func TestClampMaxAge(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected int
	}{
		{"unspecified", -1, -1},
		{"zero", 0, 0},
		{"in range", 86400, 86400},
		{"too large", math.MaxInt64, math.MaxInt32},
		{"too small", math.MinInt64, math.MinInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampMaxAge(tt.input); got != tt.expected {
				t.Errorf("clampMaxAge(%d) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCookie_HTTPCookieMaxAge(t *testing.T) {
	tests := []struct {
		name     string
		maxAge   int
		expected int
	}{
		{"session cookie", -1, 0},
		{"delete", 0, -1},
		{"lifetime", 1800, 1800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := Cookie{Name: "a", Value: "1", MaxAge: tt.maxAge}.HTTPCookie()
			if hc.MaxAge != tt.expected {
				t.Errorf("Expected http.Cookie MaxAge %d, got %d", tt.expected, hc.MaxAge)
			}
		})
	}
}

func TestWriteCookies(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteCookies(rec, []Cookie{
		{Name: "_pk_id", Value: "1a2b", Path: "/", MaxAge: -1, Secure: true},
		{Name: "_pk_ses", Value: "1", Path: "/", MaxAge: 1800, HttpOnly: true},
		{Name: "bad name", Value: "x", MaxAge: -1},
	})

	got := rec.Result().Header.Values("Set-Cookie")
	expected := []string{
		"_pk_id=1a2b; Path=/; Secure",
		"_pk_ses=1; Path=/; Max-Age=1800; HttpOnly",
	}

	if len(got) != len(expected) {
		t.Fatalf("Expected %d Set-Cookie headers, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Header %d: expected %q, got %q", i, expected[i], got[i])
		}
	}

	// What was written parses back into the same records
	resp := &http.Response{StatusCode: 200, Status: "200 OK", Proto: "HTTP/1.1", Header: rec.Result().Header}
	result, err := New(FromHTTPResponse(resp)).Cookies()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Cookies) != 2 || result.Cookies[1].MaxAge != 1800 {
		t.Errorf("Unexpected round trip: %+v", result.Cookies)
	}
}
