package hashverify

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aptveritas/reposcan/pkg/deb822"
	"github.com/aptveritas/reposcan/pkg/httpfetch"
	"github.com/aptveritas/reposcan/pkg/integrity"
	"github.com/aptveritas/reposcan/pkg/manifest"
	"github.com/aptveritas/reposcan/pkg/navigator"
)

// Verify walks every suite nav can discover, hash-verifying its Release's
// declared files and, transitively, every .deb a Packages index names,
// under mode. It empties nav's checkpoint stack and clears fetcher's
// response cache before returning, on every exit path.
func Verify(ctx context.Context, fetcher *httpfetch.Fetcher, nav navigator.Navigator, base *url.URL, flat bool, mode Mode) error {
	defer nav.ClearCheckpoints()
	defer fetcher.Clear()

	var suites []string
	var err error
	if flat {
		suites, err = manifest.GetSuitesFlat(ctx, nav)
	} else {
		suites, err = manifest.GetSuites(ctx, nav)
	}
	if err != nil {
		return err
	}

	processed := make(map[string]bool)
	for _, suite := range suites {
		if err := verifySuite(ctx, fetcher, base, suite, flat, mode, processed); err != nil {
			return err
		}
	}
	return nil
}

func verifySuite(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suite string, flat bool, mode Mode, processed map[string]bool) error {
	release, err := manifest.GetRelease(ctx, fetcher, base, suite, flat)
	if err != nil {
		return err
	}

	suiteDir := manifest.SuiteDir(suite, flat)
	releaseRef := joinRel(suiteDir, "Release")

	// MD5Sum, SHA1, SHA256 in that order: error messages name the weakest
	// failing algorithm first, matching historical deb tooling.
	tables := []struct {
		algo    integrity.Algorithm
		entries []deb822.HashEntry
	}{
		{integrity.AlgorithmMD5Sum, release.MD5Sum},
		{integrity.AlgorithmSHA1, release.SHA1},
		{integrity.AlgorithmSHA256, release.SHA256},
	}

	for _, table := range tables {
		for _, entry := range table.entries {
			if mode.importantOnly() && !isImportant(entry.Path) {
				continue
			}
			if err := verifyEntry(ctx, fetcher, base, suiteDir, entry, table.algo, releaseRef, mode, release.AcquireByHash, processed); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func computeDigest(algo integrity.Algorithm, body []byte) string {
	switch algo {
	case integrity.AlgorithmMD5Sum:
		sum := md5.Sum(body)
		return hex.EncodeToString(sum[:])
	case integrity.AlgorithmSHA1:
		sum := sha1.Sum(body)
		return hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256(body)
		return hex.EncodeToString(sum[:])
	}
}

func verifyEntry(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suiteDir string, entry deb822.HashEntry, algo integrity.Algorithm, mentionedBy string, mode Mode, acquireByHash bool, processed map[string]bool) error {
	relPath := joinRel(suiteDir, entry.Path)
	important := isImportant(entry.Path)

	resp, err := fetcher.Fetch(ctx, base.JoinPath(relPath))
	if err != nil {
		return err
	}
	if resp.Status != 200 {
		finding := &integrity.FileRequestError{FileError: integrity.FileError{File: relPath, FileMentionedBy: mentionedBy}, Status: resp.Status}
		return dispatch(mode, failureMissing, important, finding)
	}

	if digest := computeDigest(algo, resp.Body); !strings.EqualFold(digest, entry.Hash) {
		finding := integrity.NewHashInvalid(algo, relPath, mentionedBy)
		if err := dispatch(mode, failureBadHash, important, finding); err != nil {
			return err
		}
	}

	if acquireByHash {
		if err := checkByHash(ctx, fetcher, base, relPath, algo, entry, mentionedBy, resp.Body); err != nil {
			return err
		}
	}

	base2 := path.Base(entry.Path)
	if packagesNamePattern.MatchString(base2) && !processed[relPath] {
		processed[relPath] = true
		if err := verifyNestedPackages(ctx, fetcher, base, relPath, resp.Body, mode); err != nil {
			return err
		}
	}

	return nil
}

// checkByHash fetches the Acquire-by-Hash path for entry and asserts it is
// byte-identical to the already-fetched primary response. This check is
// always strict: a by-hash mismatch indicates the server is serving
// genuinely different bytes for the same declared digest, which no
// verification mode downgrades to a warning.
func checkByHash(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, relPath string, algo integrity.Algorithm, entry deb822.HashEntry, mentionedBy string, primary []byte) error {
	byHashPath := path.Dir(relPath) + "/by-hash/" + string(algo) + "/" + entry.Hash

	resp, err := fetcher.Fetch(ctx, base.JoinPath(byHashPath))
	if err != nil {
		return err
	}
	if resp.Status != 200 {
		return &integrity.FileRequestError{FileError: integrity.FileError{File: byHashPath, FileMentionedBy: mentionedBy}, Status: resp.Status}
	}
	if !bytes.Equal(resp.Body, primary) {
		return integrity.NewHashInvalid(algo, byHashPath, mentionedBy)
	}
	return nil
}

// verifyNestedPackages decompresses a Packages index and, for every package
// record it contains, runs a nested MD5/SHA1/SHA256 chain against the
// .deb its Filename names.
func verifyNestedPackages(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, packagesRelPath string, body []byte, mode Mode) error {
	reader, err := decompress(packagesRelPath, body)
	if err != nil {
		return err
	}

	for pkg, err := range deb822.ParsePackages(reader) {
		if err != nil {
			return fmt.Errorf("parsing %s: %w", packagesRelPath, err)
		}
		if err := verifyPackageFile(ctx, fetcher, base, pkg, packagesRelPath, mode); err != nil {
			return err
		}
	}
	return nil
}

func verifyPackageFile(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, pkg *deb822.Package, mentionedBy string, mode Mode) error {
	important := isImportant(pkg.Filename)

	digests := []struct {
		algo integrity.Algorithm
		want string
	}{
		{integrity.AlgorithmMD5Sum, pkg.MD5sum},
		{integrity.AlgorithmSHA1, pkg.SHA1},
		{integrity.AlgorithmSHA256, pkg.SHA256},
	}

	var body []byte
	var fetched bool
	for _, d := range digests {
		if d.want == "" {
			continue
		}
		if !fetched {
			resp, err := fetcher.Fetch(ctx, base.JoinPath(pkg.Filename))
			if err != nil {
				return err
			}
			if resp.Status != 200 {
				finding := &integrity.FileRequestError{FileError: integrity.FileError{File: pkg.Filename, FileMentionedBy: mentionedBy}, Status: resp.Status}
				return dispatch(mode, failureMissing, important, finding)
			}
			body = resp.Body
			fetched = true
		}

		if digest := computeDigest(d.algo, body); !strings.EqualFold(digest, d.want) {
			finding := integrity.NewHashInvalid(d.algo, pkg.Filename, mentionedBy)
			if err := dispatch(mode, failureBadHash, important, finding); err != nil {
				return err
			}
		}
	}
	return nil
}
