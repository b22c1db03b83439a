// Package fakeroot serves an in-memory content root over HTTP for tests.
package fakeroot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/tqbf/doctree/pkg/contentapi"
)

type Root struct {
	HS *httptest.Server

	mu     sync.Mutex
	files  map[string]string
	delays map[string]time.Duration
	status map[string]int
	hits   map[string]int
}

// New serves files keyed by their path relative to the root, e.g.
// ".list", "articles/.list", "articles.info".
func New(files map[string]string) *Root {
	r := &Root{
		files:  make(map[string]string, len(files)),
		delays: make(map[string]time.Duration),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	for k, v := range files {
		r.files[k] = v
	}
	r.HS = httptest.NewServer(http.HandlerFunc(r.handle))
	return r
}

func (r *Root) Close() {
	r.HS.Close()
}

func (r *Root) URL() string {
	return r.HS.URL
}

// Client returns a content client pointed at this root.
func (r *Root) Client(timeout time.Duration) *contentapi.Client {
	c := contentapi.New(r.URL(), timeout)
	c.HTTPClient.Transport = r.HS.Client().Transport
	return c
}

func (r *Root) Set(path, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[path] = content
}

// Delay makes requests for path stall for d or until the client gives up.
func (r *Root) Delay(path string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays[path] = d
}

// Fail makes requests for path answer with code.
func (r *Root) Fail(path string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[path] = code
}

func (r *Root) Hits(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[path]
}

func (r *Root) TotalHits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.hits {
		n += h
	}
	return n
}

func (r *Root) handle(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", 405)
		return
	}
	path := strings.TrimPrefix(req.URL.Path, "/")

	r.mu.Lock()
	r.hits[path]++
	delay := r.delays[path]
	code := r.status[path]
	content, ok := r.files[path]
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-req.Context().Done():
			return
		}
	}
	if code != 0 {
		http.Error(w, http.StatusText(code), code)
		return
	}
	if !ok {
		http.Error(w, "not found", 404)
		return
	}

	if strings.HasSuffix(path, "/") || path == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Write([]byte(content))
}
