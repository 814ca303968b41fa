// Package compression decodes response bodies by Content-Encoding
package compression

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/WhileEndless/go-trackresp/pkg/errors"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// CompressionType represents supported compression algorithms
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionDeflate
	CompressionBrotli
	CompressionZstd
)

// String returns the Content-Encoding token for the type
func (ct CompressionType) String() string {
	switch ct {
	case CompressionGzip:
		return "gzip"
	case CompressionDeflate:
		return "deflate"
	case CompressionBrotli:
		return "br"
	case CompressionZstd:
		return "zstd"
	default:
		return "identity"
	}
}

// DetectCompression detects compression type from Content-Encoding header
// Supports: gzip, x-gzip, deflate, br, brotli, zstd, identity
func DetectCompression(contentEncoding string) CompressionType {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip", "x-gzip":
		return CompressionGzip
	case "deflate", "x-deflate":
		return CompressionDeflate
	case "br", "brotli":
		return CompressionBrotli
	case "zstd", "zstandard":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// DetectByMagicBytes attempts to detect compression type from data magic bytes.
// Brotli has no magic number and is never detected this way.
func DetectByMagicBytes(data []byte) CompressionType {
	if len(data) < 2 {
		return CompressionNone
	}

	// Gzip: 1f 8b
	if data[0] == 0x1f && data[1] == 0x8b {
		return CompressionGzip
	}

	// Zstd: 28 b5 2f fd
	if len(data) >= 4 && data[0] == 0x28 && data[1] == 0xb5 && data[2] == 0x2f && data[3] == 0xfd {
		return CompressionZstd
	}

	// zlib-wrapped deflate: 78 (01, 5e, 9c, da)
	if data[0] == 0x78 && (data[1] == 0x9c || data[1] == 0xda || data[1] == 0x5e || data[1] == 0x01) {
		return CompressionDeflate
	}

	return CompressionNone
}

// Decompress decompresses data based on the compression type
func Decompress(data []byte, compressionType CompressionType) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	switch compressionType {
	case CompressionGzip:
		return decompressGzip(data)
	case CompressionDeflate:
		return decompressDeflate(data)
	case CompressionBrotli:
		return decompressBrotli(data)
	case CompressionZstd:
		return decompressZstd(data)
	case CompressionNone:
		return data, nil
	default:
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"unsupported compression type", "decompress", data)
	}
}

// Decode detects the body compression from contentEncoding, falling back
// to magic bytes, and decompresses it. On failure the original body is
// returned with CompressionNone and the error.
func Decode(body []byte, contentEncoding string) ([]byte, CompressionType, error) {
	ct := DetectCompression(contentEncoding)
	if ct == CompressionNone {
		ct = DetectByMagicBytes(body)
	}
	if ct == CompressionNone {
		return body, CompressionNone, nil
	}

	decoded, err := Decompress(body, ct)
	if err != nil {
		return body, CompressionNone, err
	}
	return decoded, ct, nil
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"failed to create gzip reader: "+err.Error(), "decompressGzip", data)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"failed to decompress gzip data: "+err.Error(), "decompressGzip", data)
	}

	return decompressed, nil
}

// decompressDeflate accepts both zlib-wrapped and raw deflate streams
func decompressDeflate(data []byte) ([]byte, error) {
	var reader io.ReadCloser
	if DetectByMagicBytes(data) == CompressionDeflate {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewError(errors.ErrorTypeCompressionError,
				"failed to create zlib reader: "+err.Error(), "decompressDeflate", data)
		}
		reader = zr
	} else {
		reader = flate.NewReader(bytes.NewReader(data))
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"failed to decompress deflate data: "+err.Error(), "decompressDeflate", data)
	}

	return decompressed, nil
}

func decompressBrotli(data []byte) ([]byte, error) {
	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"failed to decompress brotli data: "+err.Error(), "decompressBrotli", data)
	}

	return decompressed, nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"failed to create zstd reader: "+err.Error(), "decompressZstd", data)
	}
	defer decoder.Close()

	decompressed, err := io.ReadAll(decoder)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError,
			"failed to decompress zstd data: "+err.Error(), "decompressZstd", data)
	}

	return decompressed, nil
}
