package headers

import (
	"strings"
)

// MalformedHeaderName holds lines that have no colon separator
const MalformedHeaderName = "X-Malformed-Header"

// ParseOptions controls how a header block is read
type ParseOptions struct {
	// StatusLine treats the first line as a status line (absent-key field)
	StatusLine bool

	// CanonicalKeys rewrites names to canonical MIME form
	CanonicalKeys bool
}

// Parse reads a header block with fault tolerance.
// Accepts \r\n, \n and stray \r line endings and stops at the first blank
// line. Returns the snapshot and the number of bytes consumed, including
// the blank line.
func Parse(data []byte, opts ParseOptions) (*Snapshot, int) {
	b := NewBuilder()
	b.CanonicalKeys = opts.CanonicalKeys

	first := opts.StatusLine
	i := 0
	for i < len(data) {
		line, next := readLine(data, i)
		i = next

		// Blank line ends the header block
		if len(strings.TrimSpace(line)) == 0 {
			break
		}

		if first {
			first = false
			b.AddStatusLine(strings.TrimSpace(line))
			continue
		}

		// Obsolete line folding continues the previous value
		if line[0] == ' ' || line[0] == '\t' {
			if b.appendToLast(strings.TrimSpace(line)) {
				continue
			}
		}

		colonPos := strings.Index(line, ":")
		if colonPos == -1 {
			b.Add(MalformedHeaderName, line)
			continue
		}

		name := strings.TrimSpace(line[:colonPos])
		value := strings.TrimSpace(line[colonPos+1:])

		if name == "" {
			name = "X-Empty-Header-Name"
		}

		b.Add(name, value)
	}

	return b.Build(), i
}

// readLine returns the line starting at pos without its ending and the
// position of the next line
func readLine(data []byte, pos int) (string, int) {
	lineEnd := pos
	for lineEnd < len(data) && data[lineEnd] != '\n' && data[lineEnd] != '\r' {
		lineEnd++
	}

	next := lineEnd
	if next < len(data) && data[next] == '\r' {
		// Could be \r, \r\n, \r\r\n
		for next < len(data) && data[next] == '\r' {
			next++
		}
		if next < len(data) && data[next] == '\n' {
			next++
		}
	} else if next < len(data) && data[next] == '\n' {
		next++
	}

	return string(data[pos:lineEnd]), next
}
