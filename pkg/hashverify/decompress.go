package hashverify

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// decompress selects a decoder for relPath's extension. gzip and bzip2 stay
// on the standard library (bzip2 is read-only there, which is all a
// verifier ever needs; there is no write path in this module). xz and lzma
// have no standard-library decoder, so they go through this example
// collection's ulikunitz/xz dependency.
func decompress(relPath string, body []byte) (io.Reader, error) {
	r := bytes.NewReader(body)
	switch {
	case strings.HasSuffix(relPath, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s as gzip: %w", relPath, err)
		}
		return zr, nil
	case strings.HasSuffix(relPath, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s as xz: %w", relPath, err)
		}
		return xr, nil
	case strings.HasSuffix(relPath, ".lzma"):
		lr, err := lzma.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s as lzma: %w", relPath, err)
		}
		return lr, nil
	case strings.HasSuffix(relPath, ".bz2"):
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}
