package manifest

import (
	"context"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/aptveritas/reposcan/pkg/integrity"
	"github.com/aptveritas/reposcan/pkg/navigator"
)

var suspiciousDir = regexp.MustCompile(`^(binary-.+|sources)$`)

func containsRelease(dirs []string) bool {
	for _, d := range dirs {
		if d == "Release" {
			return true
		}
	}
	return false
}

func warnIfSuspicious(name string) {
	if suspiciousDir.MatchString(name) {
		log.Warn().Str("directory", name).Msg("manifest: descended into a binary/sources directory without finding a Release file first")
	}
}

// discoverSuites performs one level of depth-first enumeration from the
// navigator's current location, appending path (joined with "/" for each
// descent) to suites whenever a Release file is found, and otherwise
// recursing into every non-".." direction.
func discoverSuites(ctx context.Context, nav navigator.Navigator, path string, suites *[]string) error {
	dirs, err := nav.Directions(ctx)
	if err != nil {
		return err
	}
	if containsRelease(dirs) {
		*suites = append(*suites, path)
		return nil
	}
	return exploreChildren(ctx, nav, path, dirs, suites)
}

func exploreChildren(ctx context.Context, nav navigator.Navigator, path string, dirs []string, suites *[]string) error {
	for _, d := range dirs {
		if d == ".." {
			continue
		}
		warnIfSuspicious(d)

		nav.SetCheckpoint()
		if err := nav.Navigate(ctx, d); err != nil {
			nav.UseCheckpoint() //nolint:errcheck // best-effort restore before propagating the real error
			return err
		}

		childPath := d
		if path != "" {
			childPath = path + "/" + d
		}
		if err := discoverSuites(ctx, nav, childPath, suites); err != nil {
			nav.UseCheckpoint() //nolint:errcheck
			return err
		}
		if err := nav.UseCheckpoint(); err != nil {
			return err
		}
	}
	return nil
}

// GetSuites enumerates the non-flat suites reachable under base's "dists"
// directory via nav, restoring nav's cursor to base before returning.
func GetSuites(ctx context.Context, nav navigator.Navigator) ([]string, error) {
	nav.Reset()
	defer nav.Reset()
	if err := nav.Navigate(ctx, "dists"); err != nil {
		if _, ok := err.(*navigator.InvalidDirectionError); ok {
			return nil, &integrity.NoDistsPathError{}
		}
		return nil, err
	}

	var suites []string
	if err := discoverSuites(ctx, nav, "", &suites); err != nil {
		return nil, err
	}
	nav.Reset()
	return suites, nil
}

// GetSuitesFlat enumerates flat-repository suites: the empty suite name is
// included first if a Release exists at the repository root, and every
// other direction from the root is explored the same way GetSuites explores
// "dists"'s children.
func GetSuitesFlat(ctx context.Context, nav navigator.Navigator) ([]string, error) {
	nav.Reset()
	dirs, err := nav.Directions(ctx)
	if err != nil {
		return nil, err
	}

	var suites []string
	if containsRelease(dirs) {
		suites = append(suites, "")
	}
	if err := exploreChildren(ctx, nav, "", dirs, &suites); err != nil {
		return nil, err
	}
	nav.Reset()
	return suites, nil
}
