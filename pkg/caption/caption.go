package caption

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/tqbf/doctree/pkg/manifest"
	"github.com/tqbf/doctree/pkg/paths"
)

const (
	DefaultConcurrency = 4
	maxCaption         = 4 << 10
)

type Caption struct {
	Text string `json:"text"`
}

type Resolver struct {
	Source      manifest.Source
	Suffix      string
	Concurrency int
}

func New(src manifest.Source) *Resolver {
	return &Resolver{
		Source:      src,
		Suffix:      manifest.DefaultCaptionSuffix,
		Concurrency: DefaultConcurrency,
	}
}

// Resolve returns the first line of <dir>/<name>.info. Absence of the
// resource, for whatever reason, is not an error.
func (r *Resolver) Resolve(
	ctx context.Context,
	dir, name string,
) (Caption, bool) {
	rel := paths.Join(dir, name+r.Suffix)
	body, err := r.Source.Open(ctx, rel)
	if err != nil {
		slog.Debug("no caption", "path", rel, "err", err)
		return Caption{}, false
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxCaption))
	if err != nil {
		slog.Debug("caption read failed", "path", rel, "err", err)
		return Caption{}, false
	}
	text := firstLine(data)
	if text == "" {
		return Caption{}, false
	}
	return Caption{Text: text}, true
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	line := strings.TrimRight(string(data), "\r")
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line
}

type Result struct {
	Caption Caption
	OK      bool
}

type job struct {
	index int
	name  string
}

// ResolveAll resolves captions for names in dir on a bounded pool of
// workers. Results are indexed like names regardless of completion order.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	dir string,
	names []string,
) []Result {
	results := make([]Result, len(names))

	workers := r.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(names) {
		workers = len(names)
	}
	if workers == 0 {
		return results
	}

	jobCh := make(chan job, len(names))
	for i, n := range names {
		jobCh <- job{index: i, name: n}
	}
	close(jobCh)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					continue
				}
				c, ok := r.Resolve(ctx, dir, j.name)
				results[j.index] = Result{Caption: c, OK: ok}
			}
		}()
	}
	wg.Wait()
	return results
}
