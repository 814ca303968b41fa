package response

import (
	"strings"

	"github.com/WhileEndless/go-trackresp/pkg/cookies"
	"github.com/WhileEndless/go-trackresp/pkg/headers"
	"go.uber.org/zap"
)

// SetCookieHeader is the header cookies are extracted from.
// Matching is exact, as delivered by the connection.
const SetCookieHeader = "Set-Cookie"

// Kind tells the three extraction outcomes apart
type Kind int

const (
	// KindEmpty means no cookies were found
	KindEmpty Kind = iota
	// KindStop means the end-of-headers sentinel was reached
	KindStop
	// KindCookies means at least one cookie was parsed
	KindCookies
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindStop:
		return "stop"
	case KindCookies:
		return "cookies"
	default:
		return "unknown"
	}
}

// Result is the outcome of Extract. It carries no meaning when Extract
// also returns an error.
type Result struct {
	Kind    Kind
	Cookies []Cookie // nil for KindStop, non-nil otherwise
}

// Stopped reports whether extraction hit the end-of-headers sentinel
func (r Result) Stopped() bool {
	return r.Kind == KindStop
}

// Extract scans the snapshot and converts every Set-Cookie field into
// cookie records. Each field's values are joined to classify the field.
//
// A field without a name and with an empty value is the end-of-headers
// sentinel: extraction stops and KindStop is returned, discarding any
// cookies seen before it. A field without a name but with a value is the
// status line and is skipped. Parse errors are returned unchanged.
func Extract(h *headers.Snapshot, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	found := []Cookie{}
	for _, field := range h.Fields() {
		value := field.Joined()

		if field.Absent && value == "" {
			logger.Debug("no more headers, not proceeding")
			return Result{Kind: KindStop}, nil
		}

		switch {
		case field.Absent:
			logger.Debug("header value contains the server's HTTP version, not proceeding",
				zap.String("value", value))
		case field.Name == SetCookieHeader:
			parsed, err := parseSetCookieField(field.Values, value)
			if err != nil {
				return Result{}, err
			}
			for _, c := range parsed {
				found = append(found, fromHTTPCookie(c))
			}
		default:
			logger.Debug("header not processed because the key is unknown",
				zap.String("key", field.Name), zap.String("value", value))
		}
	}

	if len(found) == 0 {
		return Result{Kind: KindEmpty, Cookies: found}, nil
	}
	return Result{Kind: KindCookies, Cookies: found}, nil
}

// parseSetCookieField parses each non-blank fragment on its own, since
// gluing header lines together would merge separate cookies into one.
// Blank fragments add nothing; a field with no other content is parsed
// as joined so the empty header error still surfaces.
func parseSetCookieField(fragments []string, joined string) ([]cookies.HTTPCookie, error) {
	var parsed []cookies.HTTPCookie
	seen := false
	for _, fragment := range fragments {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		seen = true

		cs, err := cookies.ParseSetCookie(fragment)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, cs...)
	}

	if !seen {
		return cookies.ParseSetCookie(joined)
	}
	return parsed, nil
}
