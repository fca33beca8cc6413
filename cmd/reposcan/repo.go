package main

import (
	"net/url"

	"github.com/aptveritas/reposcan/pkg/config"
	"github.com/aptveritas/reposcan/pkg/httpfetch"
	"github.com/aptveritas/reposcan/pkg/navigator"
)

// openRepository parses baseURL and wires up the fetcher and navigator every
// subcommand needs, following cfg's timeout.
func openRepository(baseURL string, cfg config.Config) (*url.URL, *httpfetch.Fetcher, navigator.Navigator, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	fetcher := httpfetch.New(cfg.Timeout)
	nav := navigator.NewHTML(base, fetcher)
	return base, fetcher, nav, nil
}

// publicKeyInput returns the KeyInput sigverify expects, or nil if no
// --public-key was given (signature verification is then skipped).
func publicKeyInput(cfg config.Config) any {
	if cfg.PublicKey == "" {
		return nil
	}
	return cfg.PublicKey
}
