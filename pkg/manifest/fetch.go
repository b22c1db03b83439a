package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tqbf/doctree/pkg/paths"
)

var ErrManifestUnavailable = errors.New("manifest unavailable")

const maxManifest = 1 << 20

type Mode string

const (
	// ModeList reads the ".list" file in each directory.
	ModeList Mode = "list"
	// ModeAutoindex scrapes the server's HTML directory index instead.
	ModeAutoindex Mode = "autoindex"
)

type Source interface {
	Open(ctx context.Context, rel string) (io.ReadCloser, error)
}

type Fetcher struct {
	Source     Source
	Classifier *Classifier
	Name       string
	Mode       Mode
}

func NewFetcher(src Source, cls *Classifier) *Fetcher {
	return &Fetcher{
		Source:     src,
		Classifier: cls,
		Name:       DefaultName,
		Mode:       ModeList,
	}
}

func (f *Fetcher) resource(dir string) string {
	if f.Mode == ModeAutoindex {
		if dir == "" {
			return ""
		}
		return dir + "/"
	}
	return paths.Join(dir, f.Name)
}

// Fetch retrieves and parses the manifest for dir. Any failure to
// retrieve it is reported as ErrManifestUnavailable and no partial node
// is returned.
func (f *Fetcher) Fetch(
	ctx context.Context,
	dir string,
) (*Node, error) {
	if err := paths.ValidateDir(dir); err != nil {
		return nil, err
	}
	dir = paths.CleanRelPath(dir)
	res := f.resource(dir)

	body, err := f.Source.Open(ctx, res)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: %s: %w", ErrManifestUnavailable, res, err,
		)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxManifest+1))
	if err != nil {
		return nil, fmt.Errorf(
			"%w: read %s: %w", ErrManifestUnavailable, res, err,
		)
	}
	if len(data) > maxManifest {
		slog.Warn("manifest truncated",
			"path", res, "limit", maxManifest,
		)
		data = data[:maxManifest]
		// drop the partial last line
		data = data[:bytes.LastIndexByte(data, '\n')+1]
	}

	var entries []Entry
	if f.Mode == ModeAutoindex {
		entries, err = f.Classifier.ParseAutoindex(
			bytes.NewReader(data),
		)
	} else {
		entries, err = f.Classifier.Parse(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf(
			"%w: parse %s: %w", ErrManifestUnavailable, res, err,
		)
	}

	slog.Debug("fetched manifest",
		"dir", dir, "entries", len(entries),
	)
	return &Node{Path: dir, Entries: entries}, nil
}
