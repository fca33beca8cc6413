// Package manifest implements component B: accessors that turn raw
// Release/Packages bytes into parsed deb822 structures, resolved against a
// base repository URL.
package manifest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aptveritas/reposcan/pkg/deb822"
	"github.com/aptveritas/reposcan/pkg/httpfetch"
	"github.com/aptveritas/reposcan/pkg/integrity"
)

// SuiteDir returns the path, relative to base, of the directory holding
// suite's manifests: "dists/<suite>" for non-flat repositories, or suite
// itself (possibly empty, for the flat repository root) for flat ones.
func SuiteDir(suite string, flat bool) string {
	switch {
	case flat:
		return suite
	case suite == "":
		return "dists"
	default:
		return "dists/" + suite
	}
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// GetRelease fetches and parses the Release manifest for suite under base.
func GetRelease(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suite string, flat bool) (*deb822.Release, error) {
	path := joinRel(SuiteDir(suite, flat), "Release")
	resp, err := fetcher.Fetch(ctx, base.JoinPath(path))
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, &integrity.FileRequestError{FileError: integrity.FileError{File: path}, Status: resp.Status}
	}

	release, err := deb822.ParseRelease(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return release, nil
}

// GetPackagesFiles reads suite's Release, selects its first present hash
// table among SHA256, SHA1, MD5Sum (in that preference order — the reverse
// of the weakest-first order the hash verifier processes entries in, since
// this accessor only needs one authoritative listing of component Packages
// files, not a chain of checks), and fetches+parses every entry whose name
// ends in "Packages" (the uncompressed form only). Results are grouped by
// the first path segment of the entry's name, the component.
func GetPackagesFiles(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suite string, flat bool) (map[string][]*deb822.Package, error) {
	release, err := GetRelease(ctx, fetcher, base, suite, flat)
	if err != nil {
		return nil, err
	}

	var entries []deb822.HashEntry
	switch {
	case len(release.SHA256) > 0:
		entries = release.SHA256
	case len(release.SHA1) > 0:
		entries = release.SHA1
	default:
		entries = release.MD5Sum
	}

	suiteDir := SuiteDir(suite, flat)
	byComponent := make(map[string][]*deb822.Package)

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Path, "Packages") {
			continue
		}

		component := ""
		if idx := strings.Index(entry.Path, "/"); idx >= 0 {
			component = entry.Path[:idx]
		}

		relPath := joinRel(suiteDir, entry.Path)
		resp, err := fetcher.Fetch(ctx, base.JoinPath(relPath))
		if err != nil {
			return nil, err
		}
		if resp.Status != 200 {
			return nil, &integrity.FileRequestError{
				FileError: integrity.FileError{File: relPath, FileMentionedBy: joinRel(suiteDir, "Release")},
				Status:    resp.Status,
			}
		}

		for pkg, err := range deb822.ParsePackages(bytes.NewReader(resp.Body)) {
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", relPath, err)
			}
			byComponent[component] = append(byComponent[component], pkg)
		}
	}

	return byComponent, nil
}
