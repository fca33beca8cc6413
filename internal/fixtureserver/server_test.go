package fixtureserver

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeRawFile(t *testing.T) {
	srv := New()
	defer srv.Close()
	srv.PutFile("dists/stable/Release", []byte("Suite: stable\n"))

	resp, err := http.Get(srv.URL() + "/dists/stable/Release")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Suite: stable\n", string(body))
}

func TestDirectoryListingShowsImmediateChildrenOnly(t *testing.T) {
	srv := New()
	defer srv.Close()
	srv.PutFile("dists/stable/Release", []byte("x"))
	srv.PutFile("dists/stable/main/binary-amd64/Packages", []byte("y"))
	srv.PutFile("pool/main/p/poem/poem_1.0_amd64.deb", []byte("z"))

	resp, err := http.Get(srv.URL() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, `href="dists/"`)
	assert.Contains(t, html, `href="pool/"`)
	assert.NotContains(t, html, "Release")
}

func TestUnknownPathReturns404(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.Get(srv.URL() + "/nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForbiddenPathReturns403(t *testing.T) {
	srv := New()
	defer srv.Close()
	srv.PutFile("dists/stable/Release", []byte("x"))
	srv.Forbid("dists/stable/Release")

	resp, err := http.Get(srv.URL() + "/dists/stable/Release")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRemoveFileFallsBackToListingOrNotFound(t *testing.T) {
	srv := New()
	defer srv.Close()
	srv.PutFile("dists/stable/Release", []byte("x"))
	srv.RemoveFile("dists/stable/Release")

	resp, err := http.Get(srv.URL() + "/dists/stable/Release")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
