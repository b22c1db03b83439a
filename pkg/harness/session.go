// Package harness runs a complete doctree deployment against an
// in-memory content root, for end-to-end tests.
package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/tqbf/doctree/pkg/config"
	"github.com/tqbf/doctree/pkg/fakeroot"
	"github.com/tqbf/doctree/pkg/protocol"
	"github.com/tqbf/doctree/pkg/render"
	"github.com/tqbf/doctree/pkg/web"
)

const fetchTimeout = 500 * time.Millisecond

type Session struct {
	Root   *fakeroot.Root
	Config config.Config
	Stack  *config.Stack
	server *httptest.Server
}

// Start serves files as a content root and wires a doctree server in
// front of it. tweak, if non-nil, adjusts the configuration first.
func Start(
	files map[string]string,
	tweak func(*config.Config),
) (*Session, error) {
	root := fakeroot.New(files)

	cfg := config.Default()
	cfg.ContentRoot = root.URL()
	cfg.FetchTimeout = fetchTimeout
	if tweak != nil {
		tweak(&cfg)
	}

	st, err := cfg.Build()
	if err != nil {
		root.Close()
		return nil, fmt.Errorf("build: %w", err)
	}
	st.Client.HTTPClient.Transport = root.HS.Client().Transport

	return &Session{
		Root:   root,
		Config: cfg,
		Stack:  st,
		server: httptest.NewServer(
			web.New(st.Renderer, st.Viewer).Handler(),
		),
	}, nil
}

func (s *Session) Close() {
	s.server.Close()
	s.Root.Close()
}

// Render renders in process, bypassing the web server.
func (s *Session) Render(
	ctx context.Context,
	dir string,
	recursive bool,
) (*render.Listing, error) {
	return s.Stack.Renderer.Render(ctx, render.Request{
		Dir: dir, Recursive: recursive,
	})
}

// List fetches the same listing over the websocket stream.
func (s *Session) List(
	ctx context.Context,
	dir string,
	recursive bool,
) (*render.Listing, error) {
	return protocol.Dial(
		ctx, s.server.URL, dir, recursive, s.server.Client(),
	)
}

type Response struct {
	Status int
	Header http.Header
	Body   string
}

func (s *Session) get(
	ctx context.Context,
	path string,
	q url.Values,
) (*Response, error) {
	u := s.server.URL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.server.Client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   string(body),
	}, nil
}

// Page requests the browser page for q.
func (s *Session) Page(
	ctx context.Context,
	q url.Values,
) (*Response, error) {
	return s.get(ctx, "/", q)
}

func (s *Session) Raw(
	ctx context.Context,
	file, lang string,
) (*Response, error) {
	q := url.Values{"file": {file}}
	if lang != "" {
		q.Set("lang", lang)
	}
	return s.get(ctx, "/raw", q)
}
