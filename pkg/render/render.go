package render

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tqbf/doctree/pkg/caption"
	"github.com/tqbf/doctree/pkg/manifest"
	"github.com/tqbf/doctree/pkg/paths"
)

const (
	DefaultMaxDepth  = 2
	TruncationMarker = "…"
)

var ErrRawRequest = errors.New(
	"file requests are served by the viewer, not the renderer",
)

// Request is what one page view asks for. Dir and File are mutually
// exclusive intents; File wins when both are set.
type Request struct {
	Dir       string
	File      string
	Lang      string
	Recursive bool
}

func (r Request) IsRaw() bool {
	return r.File != ""
}

type ManifestFetcher interface {
	Fetch(ctx context.Context, dir string) (*manifest.Node, error)
}

type CaptionResolver interface {
	ResolveAll(
		ctx context.Context, dir string, names []string,
	) []caption.Result
}

type Renderer struct {
	Manifests ManifestFetcher
	Captions  CaptionResolver
	MaxDepth  int
	// Locales, if set, annotates file rows with their translations.
	Locales   *paths.LocaleMatcher
}

func New(m ManifestFetcher, c CaptionResolver) *Renderer {
	return &Renderer{
		Manifests: m,
		Captions:  c,
		MaxDepth:  DefaultMaxDepth,
	}
}

func (r *Renderer) Render(
	ctx context.Context,
	req Request,
) (*Listing, error) {
	if req.IsRaw() {
		return nil, ErrRawRequest
	}
	if err := paths.ValidateDir(req.Dir); err != nil {
		return nil, err
	}
	dir := paths.CleanRelPath(req.Dir)

	node, err := r.Manifests.Fetch(ctx, dir)
	if err != nil {
		return nil, err
	}

	l := &Listing{Path: dir, Recursive: req.Recursive}
	if req.Recursive {
		l.Lines = r.expand(ctx, node, 0)
	} else {
		l.Lines = r.lines(ctx, node, 0)
	}
	if dir != "" {
		l.Lines = append(l.Lines, Line{
			Kind:   LineBack,
			Name:   "..",
			Target: paths.Parent(dir),
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slog.Debug("rendered listing",
		"dir", dir,
		"recursive", req.Recursive,
		"lines", len(l.Lines),
	)
	return l, nil
}

// lines turns the listed entries of node into rows, resolving their
// captions as one batch.
func (r *Renderer) lines(
	ctx context.Context,
	node *manifest.Node,
	depth int,
) []Line {
	dir := node.Path
	entries := node.Listed()
	langs := node.Translations(r.Locales)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	caps := r.Captions.ResolveAll(ctx, dir, names)

	out := make([]Line, len(entries))
	for i, e := range entries {
		kind := LineFile
		if e.Kind == manifest.Directory {
			kind = LineDirectory
		}
		out[i] = Line{
			Kind:   kind,
			Name:   e.Name,
			Target: paths.Join(dir, e.Name),
			Depth:  depth,
		}
		if kind == LineFile {
			out[i].Languages = langs[e.Name]
		}
		if caps[i].OK {
			out[i].Caption = caps[i].Caption.Text
			out[i].HasCaption = true
		}
	}
	return out
}

// expand emits node's files, then each child directory followed by its
// own expansion. depth is the depth of node itself; children past
// MaxDepth are cut off with a truncation row instead of being fetched.
func (r *Renderer) expand(
	ctx context.Context,
	node *manifest.Node,
	depth int,
) []Line {
	rows := r.lines(ctx, node, depth)

	var out, dirs []Line
	for _, row := range rows {
		if row.Kind == LineDirectory {
			dirs = append(dirs, row)
			continue
		}
		out = append(out, row)
	}

	maxDepth := max(r.MaxDepth, 0)
	for _, d := range dirs {
		out = append(out, d)
		next := depth + 1
		if next > maxDepth {
			out = append(out, Line{
				Kind:   LineTruncated,
				Name:   TruncationMarker,
				Target: d.Target,
				Depth:  next,
			})
			continue
		}
		child, err := r.Manifests.Fetch(ctx, d.Target)
		if err != nil {
			slog.Warn("cannot expand directory",
				"dir", d.Target, "err", err,
			)
			out = append(out, Line{
				Kind:   LineUnavailable,
				Target: d.Target,
				Depth:  next,
			})
			continue
		}
		out = append(out, r.expand(ctx, child, next)...)
	}
	return out
}
