// Package testutil provides testing utilities for the pipeline packages.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockUpstream is a configurable mock upstream server standing in for the
// taxonomic registry, the occurrence database, or the encyclopedia.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	counts   map[string]int
	total    int
}

// NewMockUpstream creates a mock upstream. Unregistered paths return 404.
func NewMockUpstream() *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]http.HandlerFunc),
		counts:   make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.total++
		mock.counts[r.URL.Path]++
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))

	return mock
}

// URL returns the base URL of the mock server.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts the server down.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// HandleJSON registers a fixed JSON response for a path. The path is
// matched against the decoded request path.
func (m *MockUpstream) HandleJSON(path string, status int, body string) {
	m.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != "" {
			w.Write([]byte(body))
		}
	})
}

// HandleFunc registers a custom handler for a path.
func (m *MockUpstream) HandleFunc(path string, fn http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = fn
}

// Requests returns how many requests hit the given path.
func (m *MockUpstream) Requests(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[path]
}

// TotalRequests returns the total request count across all paths.
func (m *MockUpstream) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}
