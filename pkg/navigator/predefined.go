package navigator

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aptveritas/reposcan/pkg/deb822"
	"github.com/aptveritas/reposcan/pkg/httpfetch"
)

// PredefinedNavigator serves repositories that answer requests for paths the
// caller already knows but render no directory listing at all ("blind"
// servers — typically a reverse proxy or object-store bucket with listing
// disabled). It pre-fetches every suite's Release and, transitively, every
// Packages index it names, at construction, and answers Directions purely
// from that recorded path set.
type PredefinedNavigator struct {
	*core
	paths []string // every known path, relative to base, no leading slash
}

// NewPredefined builds a PredefinedNavigator over base for the given suites.
// flat selects flat-repository layout (suite directories directly under
// base) instead of the usual dists/<suite> layout; an empty string in suites
// requests the flat repository's root suite, and is silently dropped if no
// Release exists there. extraPaths are added to the known path set verbatim,
// for content a "blind" server exposes outside any suite's Release (e.g. a
// pool/ root marker the caller already knows about).
func NewPredefined(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suites []string, flat bool, extraPaths ...string) (*PredefinedNavigator, error) {
	n := &PredefinedNavigator{}
	n.core = newCore(base, n)
	n.paths = append(n.paths, extraPaths...)

	for _, suite := range suites {
		suiteDir := suiteDirectory(suite, flat)
		releasePath := joinRel(suiteDir, "Release")

		releaseURL := n.core.base.JoinPath(releasePath)
		resp, err := fetcher.Fetch(ctx, releaseURL)
		if err != nil {
			return nil, fmt.Errorf("fetching Release for suite %q: %w", suite, err)
		}
		if resp.Status != 200 {
			if flat && suite == "" {
				// No root Release: this mirror isn't flat after all, or has
				// no root suite. Skip it rather than failing construction.
				continue
			}
			log.Warn().Str("suite", suite).Int("status", resp.Status).Msg("navigator: suite Release not found, skipping")
			continue
		}

		n.paths = append(n.paths, releasePath, joinRel(suiteDir, "Release.gpg"))

		release, err := deb822.ParseRelease(bytes.NewReader(resp.Body))
		if err != nil {
			return nil, fmt.Errorf("parsing Release for suite %q: %w", suite, err)
		}

		for _, entry := range release.SHA256 {
			entryPath := joinRel(suiteDir, entry.Path)
			n.paths = append(n.paths, entryPath)

			if strings.HasSuffix(entry.Path, "Packages") {
				pkgsURL := n.core.base.JoinPath(entryPath)
				pkgsResp, err := fetcher.Fetch(ctx, pkgsURL)
				if err != nil {
					return nil, fmt.Errorf("fetching %s: %w", entryPath, err)
				}
				if pkgsResp.Status != 200 {
					continue
				}
				for pkg, err := range deb822.ParsePackages(bytes.NewReader(pkgsResp.Body)) {
					if err != nil {
						return nil, fmt.Errorf("parsing %s: %w", entryPath, err)
					}
					if pkg.Filename != "" {
						n.paths = append(n.paths, pkg.Filename)
					}
				}
			}
		}
	}

	return n, nil
}

func suiteDirectory(suite string, flat bool) string {
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

// parseDirections projects the recorded path set through the current
// cursor: the visible directions at any depth are the next-path-segment
// prefixes of recorded paths that lie below the cursor.
func (n *PredefinedNavigator) parseDirections(_ context.Context, current *url.URL) ([]string, error) {
	diff := strings.Trim(strings.TrimPrefix(current.Path, n.core.base.Path), "/")

	seen := make(map[string]bool)
	var dirs []string
	for _, p := range n.paths {
		rest := p
		if diff != "" {
			prefix := diff + "/"
			if !strings.HasPrefix(p, prefix) {
				continue
			}
			rest = p[len(prefix):]
		}
		if rest == "" {
			continue
		}
		next := rest
		if idx := strings.Index(rest, "/"); idx >= 0 {
			next = rest[:idx]
		}
		if !seen[next] {
			seen[next] = true
			dirs = append(dirs, next)
		}
	}
	return dirs, nil
}
