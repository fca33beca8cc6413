package deb822

import (
	"fmt"
	"io"
	"iter"

	"github.com/aptveritas/reposcan/pkg/rfc822"
)

// ParseRecords returns an iterator over multiple headers from a deb822-style document.
// Each header is separated by a blank line, which is a deb822 extension of RFC 822;
// the underlying rfc822.Parser already treats blank lines as record separators, so
// this is a thin wrapper that retypes rfc822.Record as rfc822.Header for deb822 callers.
func ParseRecords(r io.Reader) iter.Seq2[rfc822.Header, error] {
	parser := rfc822.NewParser()

	return func(yield func(rfc822.Header, error) bool) {
		for record, err := range parser.ParseRecords(r) {
			if err != nil {
				yield(nil, fmt.Errorf("parsing deb822 document: %w", err))
				return
			}
			if !yield(rfc822.Header(record), nil) {
				return
			}
		}
	}
}
