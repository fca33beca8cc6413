// Package model holds the scraped, immutable view of a repository: the
// output of a successful scrape, independent of how it was fetched or
// verified. Every type here is a plain value built once and never mutated.
package model

import (
	"time"

	"pault.ag/go/debian/version"
)

// Package is a single binary package record, captured from a Packages
// index entry together with the fetchable URL its Filename resolves to.
type Package struct {
	Name                     string    `json:"name"`
	Version                  string    `json:"version"`
	URL                      string    `json:"url"`
	Size                     int64     `json:"size"`
	SHA256                   string    `json:"sha256"`
	SHA1                     string    `json:"sha1"`
	MD5                      string    `json:"md5"`
	Architecture             string    `json:"architecture"`
	Date                     time.Time `json:"date"`
	Section                  string    `json:"section,omitempty"`
	Priority                 string    `json:"priority,omitempty"`
	Maintainer               string    `json:"maintainer,omitempty"`
	Description              string    `json:"description,omitempty"`
	DescriptionMD5           string    `json:"description_md5,omitempty"`
	PhasedUpdatePercentage   *int      `json:"phased_update_percentage,omitempty"`
}

// Newer reports whether p's version sorts after other's, using Debian
// version comparison rules. An empty version never outranks a non-empty
// one; if either version fails to parse, it falls back to a lexical
// comparison rather than erroring, since callers use this for best-effort
// dedup rather than strict validation.
func (p Package) Newer(other Package) bool {
	if p.Version == other.Version {
		return false
	}
	if p.Version == "" {
		return false
	}
	if other.Version == "" {
		return true
	}

	v1, err1 := version.Parse(p.Version)
	v2, err2 := version.Parse(other.Version)
	if err1 != nil || err2 != nil {
		return p.Version > other.Version
	}

	return version.Compare(v1, v2) > 0
}

// Component groups the packages listed under one component (e.g. "main",
// "contrib") of one suite.
type Component struct {
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Packages []Package `json:"packages"`
}

// Suite is one dists/<suite> tree: a Release manifest plus the components
// it names.
type Suite struct {
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Architectures []string  `json:"architectures"`
	Date          time.Time `json:"date"`
	Components    []Component `json:"components"`
}

// FlatSuite is the flat-repository analogue of Suite: a single Packages
// index with no binary-<arch>/component subdirectories, so it carries a
// single Package directly instead of a slice of Component.
type FlatSuite struct {
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Architectures []string  `json:"architectures"`
	Date          time.Time `json:"date"`
	Package       Package   `json:"package"`
}

// Repository is the root of a scrape: the base URL and every suite found
// under it. Flat is true when the suites are held in FlatSuites rather than
// Suites;
// the two are kept in separate fields (rather than a union) so JSON
// round-trips without a type discriminator on every suite entry.
type Repository struct {
	URL        string      `json:"url"`
	Flat       bool        `json:"flat"`
	Suites     []Suite     `json:"suites,omitempty"`
	FlatSuites []FlatSuite `json:"flat_suites,omitempty"`
}
