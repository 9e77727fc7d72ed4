package parser

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"
)

// Compression identifies the container format of an input file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DetectCompression sniffs the magic bytes at the start of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

var compressedSuffixes = []string{".gz", ".gzip", ".bz2", ".xz"}

// decompress unwraps data when it carries a known compression signature and
// returns the filename with the compression suffix removed so the inner
// format can be selected by extension.
func decompress(data []byte, name string) ([]byte, string, error) {
	kind := DetectCompression(data)
	if kind == CompressionNone {
		return data, name, nil
	}
	src := bytes.NewReader(data)
	var r io.Reader
	switch kind {
	case CompressionGzip:
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, name, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case CompressionBzip2:
		r = bzip2.NewReader(src)
	case CompressionXZ:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, name, fmt.Errorf("open xz: %w", err)
		}
		r = xr
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, name, fmt.Errorf("decompress %s: %w", kind, err)
	}
	lower := strings.ToLower(name)
	for _, sfx := range compressedSuffixes {
		if strings.HasSuffix(lower, sfx) {
			name = name[:len(name)-len(sfx)]
			break
		}
	}
	return out, name, nil
}
