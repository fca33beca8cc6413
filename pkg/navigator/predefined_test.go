package navigator

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptveritas/reposcan/internal/fixtureserver"
	"github.com/aptveritas/reposcan/pkg/httpfetch"
)

const fixtureRelease = `Suite: stable
Codename: stable
Date: Mon, 01 Jan 2024 00:00:00 UTC
Architectures: amd64
Components: main
SHA256:
 98f6bcd4621d373cade4e832627b4f6e1f8e4eddcd0e8b6f3a4bb0c1c5a7d3e 123 main/binary-amd64/Packages
`

const fixturePackages = `Package: poem
Version: 1.0
Architecture: amd64
Filename: pool/main/p/poem/poem_1.0_amd64.deb
Size: 1234

`

func TestPredefinedNavigatorRecordsReleaseAndPackagePaths(t *testing.T) {
	srv := fixtureserver.New()
	defer srv.Close()
	srv.PutFile("dists/stable/Release", []byte(fixtureRelease))
	srv.PutFile("dists/stable/main/binary-amd64/Packages", []byte(fixturePackages))

	base, err := url.Parse(srv.URL() + "/")
	require.NoError(t, err)

	fetcher := httpfetch.New(0)
	nav, err := NewPredefined(context.Background(), fetcher, base, []string{"stable"}, false)
	require.NoError(t, err)

	require.NoError(t, nav.Navigate(context.Background(), "dists"))
	dirs, err := nav.Directions(context.Background())
	require.NoError(t, err)
	assert.Contains(t, dirs, "stable")

	require.NoError(t, nav.Navigate(context.Background(), "stable"))
	dirs, err = nav.Directions(context.Background())
	require.NoError(t, err)
	assert.Contains(t, dirs, "Release")
	assert.Contains(t, dirs, "main")
}

func TestPredefinedNavigatorSkipsMissingSuite(t *testing.T) {
	srv := fixtureserver.New()
	defer srv.Close()

	base, err := url.Parse(srv.URL() + "/")
	require.NoError(t, err)

	fetcher := httpfetch.New(0)
	nav, err := NewPredefined(context.Background(), fetcher, base, []string{"missing"}, false)
	require.NoError(t, err)
	assert.Empty(t, nav.paths)
}

func TestPredefinedNavigatorFlatDropsMissingRootRelease(t *testing.T) {
	srv := fixtureserver.New()
	defer srv.Close()

	base, err := url.Parse(srv.URL() + "/")
	require.NoError(t, err)

	fetcher := httpfetch.New(0)
	nav, err := NewPredefined(context.Background(), fetcher, base, []string{""}, true)
	require.NoError(t, err)
	assert.Empty(t, nav.paths)
}
