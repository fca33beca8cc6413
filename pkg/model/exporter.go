package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// Exporter owns a sequence of scraped Repository values. It is a plain
// struct wrapping a slice, not a list subclass: Go has no inheritance to
// exploit the way the original JSONExporter subclassed list, and a bare
// slice type here would let callers mutate the backing array through
// indexing and defeat the Append/Save contract. Ownership stays explicit.
type Exporter struct {
	repositories []Repository
}

// NewExporter returns an Exporter seeded with the given repositories.
func NewExporter(repositories ...Repository) *Exporter {
	return &Exporter{repositories: repositories}
}

// Append adds a scraped Repository to the collection.
func (e *Exporter) Append(r Repository) {
	e.repositories = append(e.repositories, r)
}

// Repositories returns the collected repositories. The returned slice is
// owned by the caller; mutating it does not affect the Exporter.
func (e *Exporter) Repositories() []Repository {
	out := make([]Repository, len(e.repositories))
	copy(out, e.repositories)
	return out
}

// SaveJSON writes every collected repository to w as a JSON array.
func (e *Exporter) SaveJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(e.repositories); err != nil {
		return fmt.Errorf("encoding repositories: %w", err)
	}
	return nil
}

// LoadExporterJSON reads a JSON array of repositories previously written by
// SaveJSON and returns a new Exporter over them.
func LoadExporterJSON(r io.Reader) (*Exporter, error) {
	var repos []Repository
	if err := json.NewDecoder(r).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decoding repositories: %w", err)
	}
	return &Exporter{repositories: repos}, nil
}
