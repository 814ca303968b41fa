package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/WhileEndless/go-trackresp/pkg/response"
)

type report struct {
	Source     string            `json:"source"`
	StatusCode int               `json:"status_code"`
	Result     string            `json:"result"`
	Cookies    []response.Cookie `json:"cookies"`
	Error      string            `json:"error,omitempty"`
	Body       string            `json:"body,omitempty"`
}

func newReport(source string, data *response.Data) report {
	r := report{
		Source:     source,
		StatusCode: data.StatusCode(),
	}

	result, err := data.Cookies()
	if err != nil {
		r.Error = err.Error()
		r.Result = "error"
		return r
	}

	r.Result = result.Kind.String()
	r.Cookies = result.Cookies
	return r
}

// writeReport prints one report. A malformed cookie is reported, not returned.
func (a *app) writeReport(w io.Writer, source string, data *response.Data, body []byte) error {
	r := newReport(source, data)
	if a.cfg.Output.Body {
		r.Body = string(body)
	}

	if a.cfg.Output.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "== %s\n", r.Source)
	fmt.Fprintf(w, "Status: %d\n", r.StatusCode)
	if r.Error != "" {
		fmt.Fprintf(w, "Cookies: error: %s\n", r.Error)
	} else {
		fmt.Fprintf(w, "Cookies: %s (%d)\n", r.Result, len(r.Cookies))
	}

	for _, c := range r.Cookies {
		fmt.Fprintf(w, "  %s=%s", c.Name, c.Value)
		if c.HasDomain() {
			fmt.Fprintf(w, " domain=%s", c.Domain)
		}
		if c.Path != "" {
			fmt.Fprintf(w, " path=%s", c.Path)
		}
		fmt.Fprintf(w, " max-age=%d version=%d", c.MaxAge, c.Version)
		if c.Secure {
			fmt.Fprint(w, " secure")
		}
		if c.HttpOnly {
			fmt.Fprint(w, " httponly")
		}
		fmt.Fprintln(w)
	}

	if r.Body != "" {
		fmt.Fprintf(w, "Body:\n%s\n", r.Body)
	}
	return nil
}
