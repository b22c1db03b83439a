package web

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/zeebo/blake3"

	"github.com/tqbf/doctree/pkg/contentapi"
	"github.com/tqbf/doctree/pkg/manifest"
	"github.com/tqbf/doctree/pkg/paths"
	"github.com/tqbf/doctree/pkg/present"
	"github.com/tqbf/doctree/pkg/render"
	"github.com/tqbf/doctree/pkg/viewer"
)

type Server struct {
	Renderer *render.Renderer
	Viewer   *viewer.Viewer
	Title    string
}

func New(r *render.Renderer, v *viewer.Viewer) *Server {
	return &Server{Renderer: r, Viewer: v, Title: "doctree"}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /raw", s.handleRaw)
	mux.HandleFunc("GET "+streamPath, s.handleStream)
	return RequestID(AccessLog(SecurityHeaders(mux)))
}

func parseRequest(r *http.Request) render.Request {
	q := r.URL.Query()
	return render.Request{
		Dir:       q.Get("dir"),
		File:      q.Get("file"),
		Lang:      q.Get("lang"),
		Recursive: q.Get("mode") == "tree",
	}
}

// classify maps an error to the status and message shown to the user.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, paths.ErrEscapesRoot),
		errors.Is(err, paths.ErrInvalidPath):
		return http.StatusBadRequest, "rejected: invalid path"
	case errors.Is(err, contentapi.ErrForeignRedirect):
		return http.StatusBadGateway, "content root redirected elsewhere"
	case errors.Is(err, manifest.ErrManifestUnavailable):
		return http.StatusBadGateway, "cannot list this directory"
	case errors.Is(err, viewer.ErrNotFound):
		return http.StatusNotFound, "no such file"
	case errors.Is(err, context.Canceled):
		return 499, "request canceled"
	}
	return http.StatusInternalServerError, "internal error"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	log := Logger(r.Context())
	if status >= 500 {
		log.Warn("request failed", "status", status, "err", err)
	} else {
		log.Debug("request rejected", "status", status, "err", err)
	}
	if r.Context().Err() != nil {
		return
	}

	var buf bytes.Buffer
	page := present.Page{Title: s.Title, Message: msg}
	if err := page.Write(&buf); err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// writeTagged serves body with a content-derived ETag, answering a
// matching If-None-Match with 304.
func writeTagged(
	w http.ResponseWriter,
	r *http.Request,
	contentType string,
	body []byte,
) {
	sum := blake3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}

func (s *Server) title(p string) string {
	return s.Title + ": /" + p
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req := parseRequest(r)
	if req.IsRaw() {
		s.serveEmbedded(w, r, req)
		return
	}

	listing, err := s.Renderer.Render(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	links := present.Links{Lang: req.Lang, Recursive: req.Recursive}
	body, err := present.Fragment(func(w io.Writer) error {
		return present.HTML(w, listing, links)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	page := present.Page{Title: s.title(listing.Path), Body: body}
	if err := page.Write(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	writeTagged(w, r, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) serveEmbedded(
	w http.ResponseWriter,
	r *http.Request,
	req render.Request,
) {
	p, fragment, err := s.Viewer.Embedded(r.Context(), req.File, req.Lang)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := present.Fragment(func(w io.Writer) error {
		return present.Raw(w, p, fragment)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	page := present.Page{Title: s.title(p), Body: body}
	if err := page.Write(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	writeTagged(w, r, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	req := parseRequest(r)
	c, err := s.Viewer.View(r.Context(), req.File, req.Lang)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer c.Body.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.Copy(w, c.Body); err != nil {
		Logger(r.Context()).Debug("raw copy interrupted",
			"path", c.Path, "err", err,
		)
	}
}
