package harness

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tqbf/doctree/pkg/config"
	"github.com/tqbf/doctree/pkg/render"
)

// genTree builds a content root of the given depth where every
// directory holds fanout files and fanout subdirectories, with captions
// on even entries and a translation of every file.
func genTree(depth, fanout int) map[string]string {
	files := map[string]string{}
	var walk func(dir string, level int)
	walk = func(dir string, level int) {
		var b strings.Builder
		for i := 0; i < fanout; i++ {
			name := fmt.Sprintf("f%d.txt", i)
			rel := join(dir, name)
			files[rel] = "content of " + rel + "\n"
			files[rel+".ita"] = "contenuto di " + rel + "\n"
			fmt.Fprintf(&b, "%s\n%s.ita\n", name, name)
			if i%2 == 0 {
				files[rel+".info"] = "about " + name + "\n"
				fmt.Fprintf(&b, "%s.info\n", name)
			}
		}
		if level < depth {
			for i := 0; i < fanout; i++ {
				name := fmt.Sprintf("d%d", i)
				fmt.Fprintf(&b, "%s/\n", name)
				walk(join(dir, name), level+1)
			}
		}
		files[join(dir, ".list")] = b.String()
	}
	walk("", 0)
	return files
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func start(
	t *testing.T,
	files map[string]string,
	tweak func(*config.Config),
) *Session {
	t.Helper()
	s, err := Start(files, tweak)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStreamMatchesRender(t *testing.T) {
	s := start(t, genTree(3, 3), nil)
	ctx := context.Background()

	for _, dir := range []string{"", "d0", "d1/d2", "d2/d0/d1"} {
		for _, recursive := range []bool{false, true} {
			want, err := s.Render(ctx, dir, recursive)
			require.NoError(t, err)
			got, err := s.List(ctx, dir, recursive)
			require.NoError(t, err)
			assert.Equal(t, want, got, "dir=%q recursive=%v", dir, recursive)
		}
	}
}

func TestGeneratedTreeShape(t *testing.T) {
	s := start(t, genTree(1, 2), nil)

	l, err := s.Render(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, []render.Line{
		{
			Kind: render.LineFile, Name: "f0.txt", Target: "f0.txt",
			Caption: "about f0.txt", HasCaption: true,
			Languages: []string{"ita"},
		},
		{
			Kind: render.LineFile, Name: "f1.txt", Target: "f1.txt",
			Languages: []string{"ita"},
		},
		{Kind: render.LineDirectory, Name: "d0", Target: "d0"},
		{Kind: render.LineDirectory, Name: "d1", Target: "d1"},
	}, l.Lines)
}

func TestRecursiveVisitsEveryDirectoryOnce(t *testing.T) {
	s := start(t, genTree(2, 2), nil)

	_, err := s.Render(context.Background(), "", true)
	require.NoError(t, err)
	for _, dir := range []string{"", "d0", "d1", "d0/d0", "d1/d1"} {
		assert.Equal(t, 1, s.Root.Hits(join(dir, ".list")), dir)
	}
}

func TestSequentialMatchesConcurrent(t *testing.T) {
	files := genTree(2, 4)
	seq := start(t, files, func(c *config.Config) { c.Concurrency = 1 })
	par := start(t, files, func(c *config.Config) { c.Concurrency = 8 })
	ctx := context.Background()

	want, err := seq.Render(ctx, "", true)
	require.NoError(t, err)
	got, err := par.Render(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPageIdempotent(t *testing.T) {
	s := start(t, genTree(2, 2), nil)
	ctx := context.Background()

	for _, q := range []url.Values{
		{},
		{"dir": {"d1"}},
		{"dir": {"d0"}, "mode": {"tree"}},
		{"file": {"d1/f0.txt"}},
	} {
		a, err := s.Page(ctx, q)
		require.NoError(t, err)
		b, err := s.Page(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 200, a.Status, q.Encode())
		assert.Equal(t, a.Body, b.Body, q.Encode())
		assert.Equal(t, a.Header.Get("ETag"), b.Header.Get("ETag"))
	}
}

func TestRawBytes(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	s := start(t, map[string]string{
		".list":   "blob\n",
		"blob":    string(data),
		"doc":     "english\n",
		"doc.spa": "español\n",
	}, nil)
	ctx := context.Background()

	resp, err := s.Raw(ctx, "blob", "")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, string(data), resp.Body)

	resp, err = s.Raw(ctx, "doc", "spa")
	require.NoError(t, err)
	assert.Equal(t, "español\n", resp.Body)

	resp, err = s.Raw(ctx, "doc", "jp")
	require.NoError(t, err)
	assert.Equal(t, "english\n", resp.Body)
}
