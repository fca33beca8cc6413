// Package fixtureserver is test-only infrastructure: an HTTP server that
// replicates the Apache-style directory listing the original project's
// Flask test fixture (tests/flaskapp.py) served, so navigator, manifest,
// sigverify, and hashverify tests can run against a real HTTP round trip
// instead of mocking the fetcher.
package fixtureserver

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

var listingTemplate = template.Must(template.New("listing").Parse(
	`<html><body><pre>{{range .}}<a href="{{.}}">{{.}}</a>
{{end}}</pre></body></html>`))

// Server is an in-memory repository tree served over HTTP. Files are
// addressed by a path relative to the server's root ("dists/focal/Release",
// "pool/main/p/poem/poem_1.0_all.deb", ...); any prefix of a stored path
// that isn't itself a stored file is served as a directory listing,
// mirroring Apache's behavior for a plain static file tree.
type Server struct {
	httpServer *httptest.Server

	mu        sync.RWMutex
	files     map[string][]byte
	forbidden map[string]bool
}

// New starts a Server listening on a loopback port. Call Close when done.
func New() *Server {
	s := &Server{
		files:     make(map[string][]byte),
		forbidden: make(map[string]bool),
	}

	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(s.handle)
	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the server, with no trailing slash.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts down the underlying HTTP server.
func (s *Server) Close() {
	s.httpServer.Close()
}

// PutFile stores content at path, overwriting any existing content there.
func (s *Server) PutFile(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[strings.Trim(path, "/")] = content
}

// RemoveFile deletes path, simulating a file going missing mid-test.
func (s *Server) RemoveFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, strings.Trim(path, "/"))
}

// Forbid makes path answer with 403, matching the original fixture's
// hard-coded "forbidden" path used to exercise non-200 handling.
func (s *Server) Forbid(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forbidden[strings.Trim(path, "/")] = true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.forbidden[path] {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if content, ok := s.files[path]; ok {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(content)
		return
	}

	entries := s.listDirectory(path)
	if len(entries) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listingTemplate.Execute(w, entries); err != nil {
		http.Error(w, fmt.Sprintf("rendering listing: %v", err), http.StatusInternalServerError)
	}
}

func (s *Server) listDirectory(path string) []string {
	prefix := path
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]bool)
	for p := range s.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if rest == "" {
			continue
		}
		if idx := strings.Index(rest, "/"); idx >= 0 {
			seen[rest[:idx]+"/"] = true
		} else {
			seen[rest] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
