package fdp_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const prefixes = `@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct: <http://purl.org/dc/terms/> .
@prefix ldp: <http://www.w3.org/ns/ldp#> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
`

// fdpServer serves canned documents by path. Occurrences of {{base}} are
// replaced by the server URL.
type fdpServer struct {
	*httptest.Server
	mu      sync.Mutex
	hits    map[string]int
	accepts map[string]string
}

func newFDPServer(t *testing.T, docs map[string]string) *fdpServer {
	t.Helper()
	s := &fdpServer{hits: make(map[string]int), accepts: make(map[string]string)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.accepts[r.URL.Path] = r.Header.Get("Accept")
		s.mu.Unlock()

		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".json") {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/turtle")
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(doc, "{{base}}", s.URL)))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *fdpServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *fdpServer) accept(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepts[path]
}
