package navigator

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/aptveritas/reposcan/pkg/httpfetch"
)

// seedDirections is offered at the base URL when the server renders no
// listing there at all (some apt mirrors serve an empty or redirecting index
// at the root but still hold normal directory listings underneath).
var seedDirections = []string{"dists", "pool"}

// HTMLNavigator walks a server that renders Apache/nginx-style autoindex
// pages: a <pre> block containing one <a> per entry. It satisfies Navigator.
type HTMLNavigator struct {
	*core
	fetcher *httpfetch.Fetcher
}

// NewHTML constructs a navigator over base, using fetcher for every page it
// needs to list.
func NewHTML(base *url.URL, fetcher *httpfetch.Fetcher) *HTMLNavigator {
	n := &HTMLNavigator{fetcher: fetcher}
	n.core = newCore(base, n)
	return n
}

func (n *HTMLNavigator) parseDirections(ctx context.Context, current *url.URL) ([]string, error) {
	resp, err := n.fetcher.Fetch(ctx, current)
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, nil
	}

	entries := parseAutoindex(resp.Body)
	if len(entries) == 0 && current.String() == n.core.base.String() {
		return seedDirections, nil
	}
	return entries, nil
}

// parseAutoindex extracts anchor text from the first <pre> element in an
// Apache/nginx-style autoindex page, the layout BeautifulSoup-based scrapers
// in this space target: one <a> per directory entry, directories suffixed
// with "/".
func parseAutoindex(body []byte) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	pre := findNode(doc, "pre")
	if pre == nil {
		return nil
	}

	var entries []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var text strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					text.WriteString(c.Data)
				}
			}
			if name := strings.TrimSuffix(strings.TrimSpace(text.String()), "/"); name != "" {
				entries = append(entries, name)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(pre)
	return entries
}

func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}
