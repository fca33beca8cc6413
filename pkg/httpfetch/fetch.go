// Package httpfetch is the single entry point for raw network reads:
// component A of the verification pipeline. Every other package that needs
// repository bytes goes through a Fetcher rather than calling net/http
// directly, so the response cache and redirect policy stay in one place.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Stats tracks cache hit/miss counts for a Fetcher, grounded on the
// teacher's apttransport.CacheStats, adapted from a disk-cache accounting
// helper into the in-memory per-call cache this package owns.
type Stats struct {
	mu     sync.RWMutex
	hits   int64
	misses int64
}

func (s *Stats) hit() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
}

func (s *Stats) miss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}

// Counts returns the accumulated hit and miss counts.
func (s *Stats) Counts() (hits, misses int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

// HitRatio returns hits / (hits + misses), or 0 if nothing has been fetched yet.
func (s *Stats) HitRatio() float64 {
	hits, misses := s.Counts()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Response is a cached or freshly-fetched result. Status is always the HTTP
// status code returned by the server; callers decide how to react to a
// non-200 status (the fetcher itself never turns a 404 into an error).
type Response struct {
	Status int
	Body   []byte
}

// Fetcher owns an explicit, URL-keyed response cache for the lifetime of a
// single verification or scrape call. There is no process-wide cache and no
// hidden global: a caller that wants a fresh view of the repository
// constructs a new Fetcher, or calls Clear on an existing one.
type Fetcher struct {
	client *http.Client
	stats  Stats

	mu    sync.Mutex
	cache map[string]Response
}

// New creates a Fetcher with the given per-request timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return nil // follow redirects, matching requests' default behavior
			},
		},
		cache: make(map[string]Response),
	}
}

// normalize trims a single trailing slash so "u" and "u/" share a cache entry.
func normalize(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	return strings.TrimSuffix(rawURL, "/")
}

// Fetch retrieves the bytes at u, following redirects, and returns the
// resulting status code and body. It returns a non-nil error only for
// transport-level failures (DNS, connection refused, context cancellation);
// a non-200 HTTP response is returned as a normal Response so the caller
// can decide how the policy in effect should react to it.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (Response, error) {
	key := normalize(u.String())

	f.mu.Lock()
	if cached, ok := f.cache[key]; ok {
		f.mu.Unlock()
		f.stats.hit()
		log.Debug().Str("url", key).Msg("httpfetch: cache hit")
		return cached, nil
	}
	f.mu.Unlock()

	f.stats.miss()
	log.Debug().Str("url", key).Msg("httpfetch: cache miss, requesting")

	var result Response
	var err error
	if u.Scheme == "file" {
		result, err = fetchFile(u)
	} else {
		result, err = f.fetchHTTP(ctx, u)
	}
	if err != nil {
		return Response{}, err
	}

	f.mu.Lock()
	f.cache[key] = result
	f.mu.Unlock()

	return result, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, u *url.URL) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("building request for %s: %w", u, err)
	}
	req.Header.Set("User-Agent", "reposcan/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("reading body of %s: %w", u, err)
	}

	return Response{Status: resp.StatusCode, Body: body}, nil
}

// fetchFile serves a file:// URL straight off the local filesystem,
// translating the usual stat failures into the HTTP status codes the rest
// of this package already expects a Response to carry: a missing file or a
// path that names a directory both come back as 404, matching the
// "a non-200 response is not an error" contract fetchHTTP gives callers.
func fetchFile(u *url.URL) (Response, error) {
	path := u.Path
	if u.Host != "" {
		path = filepath.Join(u.Host, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Response{Status: http.StatusNotFound}, nil
		}
		return Response{}, fmt.Errorf("statting %s: %w", path, err)
	}
	if info.IsDir() {
		return Response{Status: http.StatusNotFound}, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return Response{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return Response{Status: http.StatusOK, Body: body}, nil
}

// Clear empties the response cache, making subsequent fetches hit the
// network again. Tests use this to observe changes made to a fixture server
// mid-scenario; production callers use it between independent verification
// runs against the same Fetcher.
func (f *Fetcher) Clear() {
	f.mu.Lock()
	f.cache = make(map[string]Response)
	f.mu.Unlock()
}

// Stats returns the cache hit/miss counters accumulated by this Fetcher.
func (f *Fetcher) Stats() *Stats {
	return &f.stats
}
