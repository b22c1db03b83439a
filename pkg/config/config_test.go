package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tqbf/doctree/pkg/manifest"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "doctree.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, manifest.ModeList, cfg.Source)
	assert.Equal(t, ".list", cfg.ManifestName)
	assert.Equal(t, ".info", cfg.CaptionSuffix)
	assert.Contains(t, cfg.LocaleSuffixes, ".ita")
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, 4, cfg.Concurrency)

	assert.Error(t, cfg.Validate(), "content root is required")
	cfg.ContentRoot = "http://netsukuku.freaknet.org/2html/documentation/"
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	p := writeFile(t, `
content_root: https://docs.example/root/
source: autoindex
locale_suffixes: [".de", ".pt"]
fetch_timeout: 750ms
max_depth: 4
caption_concurrency: 8
trusted_html:
  - man/
listen: ":9000"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://docs.example/root/", cfg.ContentRoot)
	assert.Equal(t, manifest.ModeAutoindex, cfg.Source)
	assert.Equal(t, []string{".de", ".pt"}, cfg.LocaleSuffixes)
	assert.Equal(t, 750*time.Millisecond, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, []string{"man/"}, cfg.TrustedHTML)
	assert.Equal(t, ":9000", cfg.Listen)

	assert.Equal(t, ".list", cfg.ManifestName, "defaults survive")
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "content_rot: http://x/\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.ContentRoot = "http://docs.example/"

	cases := map[string]func(*Config){
		"relative root": func(c *Config) { c.ContentRoot = "docs/" },
		"ftp root": func(c *Config) {
			c.ContentRoot = "ftp://docs.example/"
		},
		"bad source":       func(c *Config) { c.Source = "gopher" },
		"nested manifest":  func(c *Config) { c.ManifestName = "a/.list" },
		"caption no dot":   func(c *Config) { c.CaptionSuffix = "info" },
		"caption only dot": func(c *Config) { c.CaptionSuffix = "." },
		"zero timeout":     func(c *Config) { c.FetchTimeout = 0 },
		"negative depth":   func(c *Config) { c.MaxDepth = -1 },
		"no workers":       func(c *Config) { c.Concurrency = 0 },
	}
	for name, mutate := range cases {
		cfg := valid
		cfg.LocaleSuffixes = append([]string(nil), valid.LocaleSuffixes...)
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestBuild(t *testing.T) {
	cfg := Default()
	cfg.ContentRoot = "http://docs.example/"
	cfg.Source = manifest.ModeAutoindex
	cfg.CaptionSuffix = ".desc"
	cfg.MaxDepth = 5
	cfg.Concurrency = 1
	cfg.TrustedHTML = []string{"html"}

	st, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, "http://docs.example", st.Client.BaseURL)
	assert.Equal(t, manifest.ModeAutoindex, st.Fetcher.Mode)
	assert.Equal(t, ".desc", st.Fetcher.Classifier.CaptionSuffix)
	assert.Equal(t, ".desc", st.Captions.Suffix)
	assert.Equal(t, 1, st.Captions.Concurrency)
	assert.Equal(t, 5, st.Renderer.MaxDepth)
	assert.True(t, st.Viewer.IsTrusted("html/index.html"))

	cfg.ContentRoot = ""
	_, err = cfg.Build()
	assert.Error(t, err)
}
