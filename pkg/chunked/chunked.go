// Package chunked decodes chunked transfer encoding
package chunked

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-trackresp/pkg/headers"
)

// Decode decodes chunked transfer encoding to plain body
// Always succeeds - if malformed, returns what it can parse
// Returns decoded body and any trailers found after final chunk
func Decode(chunkedBody []byte) (body []byte, trailers *headers.Snapshot) {
	trailers = headers.NewSnapshot(nil)

	if len(chunkedBody) == 0 {
		return []byte{}, trailers
	}

	var result bytes.Buffer
	data := chunkedBody
	pos := 0

	for pos < len(data) {
		// Chunk size line ends with \r\n or \n
		lineEnd := bytes.IndexByte(data[pos:], '\n')
		if lineEnd == -1 {
			break
		}

		sizeLine := string(data[pos : pos+lineEnd])
		pos += lineEnd + 1

		// Drop chunk extensions ("5;name=value")
		if idx := strings.Index(sizeLine, ";"); idx != -1 {
			sizeLine = sizeLine[:idx]
		}

		chunkSize, err := strconv.ParseInt(strings.TrimSpace(sizeLine), 16, 64)
		if err != nil || chunkSize < 0 {
			break
		}

		if chunkSize == 0 {
			trailers, _ = headers.Parse(data[pos:], headers.ParseOptions{})
			break
		}

		// Not enough data, take what we can
		if int64(len(data)-pos) < chunkSize {
			result.Write(data[pos:])
			break
		}

		result.Write(data[pos : pos+int(chunkSize)])
		pos += int(chunkSize)

		// Skip the line ending after chunk data, if any
		if pos+1 < len(data) && data[pos] == '\r' && data[pos+1] == '\n' {
			pos += 2
		} else if pos < len(data) && data[pos] == '\n' {
			pos++
		}
	}

	return result.Bytes(), trailers
}
