// Package testutils provides shared test infrastructure.
package testutils

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// GenerateTestData returns size bytes of a deterministic pattern.
func GenerateTestData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// AssetServer serves files by path and counts the requests it receives.
type AssetServer struct {
	*httptest.Server

	mu     sync.Mutex
	files  map[string][]byte
	status map[string]int
	noSize map[string]bool
	heads  map[string]int
	gets   map[string]int
}

// StartAssetServer starts a server for files, keyed by relative path
// ("sounds/a.wav"). It is closed when the test ends.
func StartAssetServer(t *testing.T, files map[string][]byte) *AssetServer {
	t.Helper()

	s := &AssetServer{
		files:  make(map[string][]byte),
		status: make(map[string]int),
		noSize: make(map[string]bool),
		heads:  make(map[string]int),
		gets:   make(map[string]int),
	}
	for p, data := range files {
		s.files[p] = data
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *AssetServer) serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimLeft(r.URL.Path, "/")

	s.mu.Lock()
	switch r.Method {
	case http.MethodHead:
		s.heads[key]++
	case http.MethodGet:
		s.gets[key]++
	}
	data, ok := s.files[key]
	code := s.status[key]
	noSize := s.noSize[key]
	s.mu.Unlock()

	if code != 0 {
		w.WriteHeader(code)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if r.Method == http.MethodHead {
		if !noSize {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		}
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// SetFile adds or replaces a served file.
func (s *AssetServer) SetFile(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
}

// FailWith makes every request for path answer with code.
func (s *AssetServer) FailWith(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = code
}

// OmitSize makes HEAD responses for path carry no Content-Length.
func (s *AssetServer) OmitSize(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noSize[path] = true
}

// Heads returns the number of HEAD requests for path.
func (s *AssetServer) Heads(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heads[path]
}

// Gets returns the number of GET requests for path.
func (s *AssetServer) Gets(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[path]
}

// TotalGets returns the number of GET requests across all paths.
func (s *AssetServer) TotalGets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.gets {
		n += c
	}
	return n
}

// TotalHeads returns the number of HEAD requests across all paths.
func (s *AssetServer) TotalHeads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.heads {
		n += c
	}
	return n
}

// File returns the content served for path.
func (s *AssetServer) File(path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[path]
}
