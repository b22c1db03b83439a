package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tqbf/doctree/pkg/caption"
	"github.com/tqbf/doctree/pkg/contentapi"
	"github.com/tqbf/doctree/pkg/manifest"
	"github.com/tqbf/doctree/pkg/paths"
	"github.com/tqbf/doctree/pkg/render"
	"github.com/tqbf/doctree/pkg/viewer"
)

const DefaultListen = "127.0.0.1:8080"

type Config struct {
	ContentRoot    string        `yaml:"content_root"`
	Source         manifest.Mode `yaml:"source"`
	ManifestName   string        `yaml:"manifest_name"`
	CaptionSuffix  string        `yaml:"caption_suffix"`
	LocaleSuffixes []string      `yaml:"locale_suffixes"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	MaxDepth       int           `yaml:"max_depth"`
	Concurrency    int           `yaml:"caption_concurrency"`
	TrustedHTML    []string      `yaml:"trusted_html"`
	Listen         string        `yaml:"listen"`
}

func Default() Config {
	return Config{
		Source:         manifest.ModeList,
		ManifestName:   manifest.DefaultName,
		CaptionSuffix:  manifest.DefaultCaptionSuffix,
		LocaleSuffixes: append([]string(nil), paths.DefaultLocaleSuffixes...),
		FetchTimeout:   contentapi.DefaultTimeout,
		MaxDepth:       render.DefaultMaxDepth,
		Concurrency:    caption.DefaultConcurrency,
		Listen:         DefaultListen,
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ContentRoot == "" {
		return fmt.Errorf("content_root is required")
	}
	u, err := url.Parse(c.ContentRoot)
	if err != nil {
		return fmt.Errorf("content_root: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(
			"content_root must be an http(s) URL: %s", c.ContentRoot,
		)
	}
	switch c.Source {
	case manifest.ModeList, manifest.ModeAutoindex:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if err := paths.ValidateName(c.ManifestName); err != nil {
		return fmt.Errorf("manifest_name: %w", err)
	}
	if !strings.HasPrefix(c.CaptionSuffix, ".") ||
		len(c.CaptionSuffix) < 2 {
		return fmt.Errorf(
			"caption_suffix must look like .info: %q", c.CaptionSuffix,
		)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("caption_concurrency must be at least 1")
	}
	return nil
}

// Stack is the set of components one configuration wires together.
type Stack struct {
	Client   *contentapi.Client
	Fetcher  *manifest.Fetcher
	Captions *caption.Resolver
	Renderer *render.Renderer
	Viewer   *viewer.Viewer
}

// Build validates c and wires the components it describes.
func (c Config) Build() (*Stack, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	client := contentapi.New(c.ContentRoot, c.FetchTimeout)
	locales := paths.NewLocaleMatcher(c.LocaleSuffixes)

	cls := manifest.NewClassifier(locales)
	cls.CaptionSuffix = c.CaptionSuffix

	fetcher := manifest.NewFetcher(client, cls)
	fetcher.Name = c.ManifestName
	fetcher.Mode = c.Source

	captions := caption.New(client)
	captions.Suffix = c.CaptionSuffix
	captions.Concurrency = c.Concurrency

	r := render.New(fetcher, captions)
	r.MaxDepth = c.MaxDepth
	r.Locales = locales

	v := viewer.New(client, locales)
	v.Trusted = c.TrustedHTML

	return &Stack{
		Client:   client,
		Fetcher:  fetcher,
		Captions: captions,
		Renderer: r,
		Viewer:   v,
	}, nil
}
