// Package sigverify implements component D: verifying a suite's Release
// manifest against a trusted PGP public key, both as a detached signature
// (Release + Release.gpg) and as an inline cleartext message (InRelease).
package sigverify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"

	"github.com/aptveritas/reposcan/pkg/httpfetch"
	"github.com/aptveritas/reposcan/pkg/manifest"
)

// KeyInput is the trusted public key, supplied as a filesystem path,
// an open byte stream, or raw bytes. Any other type is a usage error.
type KeyInput any

func loadKeyRing(key KeyInput) (openpgp.EntityList, error) {
	switch k := key.(type) {
	case string:
		f, err := os.Open(k)
		if err != nil {
			return nil, fmt.Errorf("opening key file %s: %w", k, err)
		}
		defer f.Close()
		return readKeyRing(f)
	case io.Reader:
		return readKeyRing(k)
	case []byte:
		return readKeyRing(bytes.NewReader(k))
	default:
		return nil, fmt.Errorf("sigverify: unsupported key input type %T", key)
	}
}

func readKeyRing(r io.Reader) (openpgp.EntityList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading key material: %w", err)
	}
	if el, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data)); err == nil {
		return el, nil
	}
	el, err := openpgp.ReadKeyRing(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("key material is neither armored nor binary OpenPGP: %w", err)
	}
	return el, nil
}

// VerifySuite fetches suite's Release, Release.gpg, and InRelease under
// base and verifies both the detached and inline signatures against key.
// Either failure is returned as-is; callers treat any non-nil error as
// fatal regardless of the hash-verification mode in effect.
func VerifySuite(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suite string, flat bool, key KeyInput) error {
	keyring, err := loadKeyRing(key)
	if err != nil {
		return err
	}

	suiteDir := manifest.SuiteDir(suite, flat)

	releaseBody, err := fetchBody(ctx, fetcher, base, suiteDir, "Release")
	if err != nil {
		return err
	}
	sigBody, err := fetchBody(ctx, fetcher, base, suiteDir, "Release.gpg")
	if err != nil {
		return err
	}
	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(releaseBody), bytes.NewReader(sigBody), nil); err != nil {
		return fmt.Errorf("verifying detached signature for suite %q Release: %w", suite, err)
	}

	inlineBody, err := fetchBody(ctx, fetcher, base, suiteDir, "InRelease")
	if err != nil {
		return err
	}
	block, _ := clearsign.Decode(inlineBody)
	if block == nil {
		return fmt.Errorf("suite %q InRelease is not a valid clearsigned message", suite)
	}
	if _, err := openpgp.CheckDetachedSignature(keyring, bytes.NewReader(block.Bytes), block.ArmoredSignature.Body, nil); err != nil {
		return fmt.Errorf("verifying inline signature for suite %q InRelease: %w", suite, err)
	}

	return nil
}

func fetchBody(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suiteDir, name string) ([]byte, error) {
	path := name
	if suiteDir != "" {
		path = suiteDir + "/" + name
	}
	resp, err := fetcher.Fetch(ctx, base.JoinPath(path))
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("fetching %s: status %d", path, resp.Status)
	}
	return resp.Body, nil
}

// VerifyAll verifies every suite in suites, in order, failing fast on the
// first error. It clears the fetcher's response cache when it returns, so
// that content tampered with between the signature pass and the hash
// verification pass (as integration tests do) is visible to later fetches.
//
// This verifier addresses every file by an absolute URL joined directly
// against base, the same approach pkg/manifest's accessors take, rather
// than driving a navigator's cursor — so there is no checkpoint stack to
// bracket here. A caller that also holds a navigator.Navigator for suite
// discovery is unaffected: this function never touches it.
func VerifyAll(ctx context.Context, fetcher *httpfetch.Fetcher, base *url.URL, suites []string, flat bool, key KeyInput) error {
	defer fetcher.Clear()

	// A stream can only be read once; buffer it so every suite sees the key.
	if r, ok := key.(io.Reader); ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("reading key material: %w", err)
		}
		key = data
	}

	if _, err := loadKeyRing(key); err != nil {
		return err
	}

	for _, suite := range suites {
		if err := VerifySuite(ctx, fetcher, base, suite, flat, key); err != nil {
			return err
		}
	}
	return nil
}
