package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/tqbf/doctree/pkg/contentapi"
	"github.com/tqbf/doctree/pkg/manifest"
	"github.com/tqbf/doctree/pkg/paths"
)

const MaxEmbed = 8 << 20

var ErrNotFound = errors.New("file not found")

// Matches URLs in already escaped text; &amp; is the only entity that
// can be part of one.
var urlRe = regexp.MustCompile(`https?://(?:[^\s()<>&]|&amp;)+`)

type Viewer struct {
	Source  manifest.Source
	Locales *paths.LocaleMatcher
	// Trusted lists path prefixes whose content is pre-rendered HTML and
	// is embedded as is. Everything else is escaped.
	Trusted []string
}

func New(src manifest.Source, locales *paths.LocaleMatcher) *Viewer {
	return &Viewer{Source: src, Locales: locales}
}

type Content struct {
	Path string
	Body io.ReadCloser
}

// View opens file under the content root. With a recognized lang it
// prefers the translated sibling and falls back to file itself.
func (v *Viewer) View(
	ctx context.Context,
	file, lang string,
) (*Content, error) {
	if err := paths.ValidateFile(file); err != nil {
		return nil, err
	}
	file = paths.CleanRelPath(file)

	if v.Locales != nil {
		if variant := v.Locales.Variant(file, lang); variant != "" {
			body, err := v.Source.Open(ctx, variant)
			if err == nil {
				return &Content{Path: variant, Body: body}, nil
			}
			if !contentapi.IsNotFound(err) {
				return nil, fmt.Errorf("open %s: %w", variant, err)
			}
			slog.Debug("no translation, using original",
				"file", file, "lang", lang,
			)
		}
	}

	body, err := v.Source.Open(ctx, file)
	if err != nil {
		if contentapi.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, file)
		}
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	return &Content{Path: file, Body: body}, nil
}

func (v *Viewer) IsTrusted(p string) bool {
	for _, prefix := range v.Trusted {
		prefix = strings.TrimSuffix(prefix, "/")
		if prefix == "" {
			continue
		}
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// Embedded reads file and returns it as an HTML fragment ready to place
// inside a page.
func (v *Viewer) Embedded(
	ctx context.Context,
	file, lang string,
) (string, string, error) {
	c, err := v.View(ctx, file, lang)
	if err != nil {
		return "", "", err
	}
	defer c.Body.Close()

	data, err := io.ReadAll(io.LimitReader(c.Body, MaxEmbed))
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", c.Path, err)
	}
	return c.Path, Embed(data, v.IsTrusted(c.Path)), nil
}

// Embed escapes content and turns bare URLs into links, unless content
// is trusted.
func Embed(content []byte, trusted bool) string {
	if trusted {
		return string(content)
	}
	escaped := html.EscapeString(string(content))
	return urlRe.ReplaceAllStringFunc(escaped, func(u string) string {
		link := strings.TrimRight(u, ".,;:")
		return `<a href="` + link + `">` + link + `</a>` +
			u[len(link):]
	})
}
