// Package scrape implements component F: turning a verified repository
// tree into the immutable model package's typed Repository value.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aptveritas/reposcan/pkg/deb822"
	"github.com/aptveritas/reposcan/pkg/hashverify"
	"github.com/aptveritas/reposcan/pkg/httpfetch"
	"github.com/aptveritas/reposcan/pkg/manifest"
	"github.com/aptveritas/reposcan/pkg/model"
	"github.com/aptveritas/reposcan/pkg/navigator"
)

// Options configures a Scrape call.
type Options struct {
	Flat bool
	// Mode is the hash-verification mode to run before scraping. A zero
	// value (empty string) skips verification entirely, matching the
	// "a mode of false skips verification entirely" rule.
	Mode hashverify.Mode
}

// Scrape enumerates every suite nav can discover under base, verifying it
// first unless opts.Mode is empty, and returns the resulting Repository.
func Scrape(ctx context.Context, fetcher *httpfetch.Fetcher, nav navigator.Navigator, base *url.URL, opts Options) (model.Repository, error) {
	if opts.Mode != "" {
		if err := hashverify.Verify(ctx, fetcher, nav, base, opts.Flat, opts.Mode); err != nil {
			return model.Repository{}, err
		}
	}

	repo := model.Repository{URL: base.String(), Flat: opts.Flat}

	if opts.Flat {
		suites, err := manifest.GetSuitesFlat(ctx, nav)
		if err != nil {
			return model.Repository{}, err
		}
		for _, suite := range suites {
			flatSuite, err := scrapeFlatSuite(ctx, fetcher, base, suite)
			if err != nil {
				return model.Repository{}, err
			}
			repo.FlatSuites = append(repo.FlatSuites, flatSuite)
		}
		return repo, nil
	}

	suites, err := manifest.GetSuites(ctx, nav)
	if err != nil {
		return model.Repository{}, err
	}
	for _, suite := range suites {
		s, err := scrapeSuite(ctx, fetcher, base, suite)
		if err != nil {
			return model.Repository{}, err
		}
		repo.Suites = append(repo.Suites, s)
	}
	return repo, nil
}

func scrapeSuite(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suite string) (model.Suite, error) {
	release, err := manifest.GetRelease(ctx, fetcher, base, suite, false)
	if err != nil {
		return model.Suite{}, err
	}

	byComponent, err := manifest.GetPackagesFiles(ctx, fetcher, base, suite, false)
	if err != nil {
		return model.Suite{}, err
	}

	suiteDir := manifest.SuiteDir(suite, false)
	s := model.Suite{
		Name:          suite,
		URL:           base.JoinPath(suiteDir).String(),
		Architectures: release.Architectures,
		Date:          release.Date,
	}

	for name, files := range byComponent {
		component := model.Component{
			Name: name,
			URL:  base.JoinPath(suiteDir, name).String(),
		}
		for _, pkgFile := range files {
			component.Packages = append(component.Packages, toModelPackage(base, pkgFile, release.Date))
		}
		s.Components = append(s.Components, component)
	}

	return s, nil
}

func scrapeFlatSuite(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suite string) (model.FlatSuite, error) {
	release, err := manifest.GetRelease(ctx, fetcher, base, suite, true)
	if err != nil {
		return model.FlatSuite{}, err
	}

	suiteDir := manifest.SuiteDir(suite, true)
	packagesPath := "Packages"
	if suiteDir != "" {
		packagesPath = suiteDir + "/Packages"
	}

	resp, err := fetcher.Fetch(ctx, base.JoinPath(packagesPath))
	if err != nil {
		return model.FlatSuite{}, err
	}
	if resp.Status != 200 {
		return model.FlatSuite{}, fmt.Errorf("fetching %s: status %d", packagesPath, resp.Status)
	}

	fs := model.FlatSuite{
		Name:          suite,
		URL:           base.JoinPath(suiteDir).String(),
		Architectures: release.Architectures,
		Date:          release.Date,
	}

	for pkg, err := range deb822.ParsePackages(bytes.NewReader(resp.Body)) {
		if err != nil {
			return model.FlatSuite{}, fmt.Errorf("parsing %s: %w", packagesPath, err)
		}
		fs.Package = toModelPackage(base, pkg, release.Date)
		break
	}

	return fs, nil
}

func toModelPackage(base *url.URL, pkg *deb822.Package, date time.Time) model.Package {
	var phased *int
	if pkg.PhasedUpdatePercentage != 0 {
		v := pkg.PhasedUpdatePercentage
		phased = &v
	}
	return model.Package{
		Name:                   pkg.Package,
		Version:                pkg.Version,
		URL:                    base.JoinPath(pkg.Filename).String(),
		Size:                   pkg.Size,
		SHA256:                 pkg.SHA256,
		SHA1:                   pkg.SHA1,
		MD5:                    pkg.MD5sum,
		Architecture:           pkg.Architecture,
		Date:                   date,
		Section:                pkg.Section,
		Priority:               pkg.Priority,
		Maintainer:             pkg.Maintainer,
		Description:            pkg.Description,
		DescriptionMD5:         pkg.DescriptionMd5,
		PhasedUpdatePercentage: phased,
	}
}
