package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tqbf/doctree/pkg/paths"
)

func newClassifier() *Classifier {
	return NewClassifier(
		paths.NewLocaleMatcher(paths.DefaultLocaleSuffixes),
	)
}

func TestClassify(t *testing.T) {
	c := newClassifier()
	cases := []struct {
		line string
		want Entry
	}{
		{"articles/\n", Entry{"articles", Directory}},
		{"notes.txt\n", Entry{"notes.txt", File}},
		{"notes.txt\r\n", Entry{"notes.txt", File}},
		{"articles.info", Entry{"articles.info", CaptionFile}},
		{"readme.en", Entry{"readme.en", LocaleVariant}},
		{"readme.ita", Entry{"readme.ita", LocaleVariant}},
		{"readme", Entry{"readme", File}},
		{"  padded  ", Entry{"padded", File}},
		{"lang.en/", Entry{"lang.en", Directory}},
		{"old.info/", Entry{"old.info", Directory}},
	}
	for _, tc := range cases {
		got, ok := c.Classify(tc.line)
		require.True(t, ok, "line %q", tc.line)
		assert.Equal(t, tc.want, got, "line %q", tc.line)
	}
}

func TestClassifyDropsUnusableLines(t *testing.T) {
	c := newClassifier()
	for _, line := range []string{
		"", "\n", "   \t\n", "/", "../", "..", "a/b", "a/b/",
		"../../etc/passwd", ".",
	} {
		_, ok := c.Classify(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParsePreservesOrder(t *testing.T) {
	c := newClassifier()
	entries, err := c.Parse(strings.NewReader(
		"zeta/\n\nalpha.txt\nmid/\n\n\nbeta\nalpha.txt.info\n",
	))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{"zeta", Directory},
		{"alpha.txt", File},
		{"mid", Directory},
		{"beta", File},
		{"alpha.txt.info", CaptionFile},
	}, entries)
}

func TestParseNoTrailingNewline(t *testing.T) {
	c := newClassifier()
	entries, err := c.Parse(strings.NewReader("a/\nb"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"a", Directory}, {"b", File}}, entries)
}

func TestParseEmpty(t *testing.T) {
	c := newClassifier()
	entries, err := c.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNodeListed(t *testing.T) {
	n := &Node{Entries: []Entry{
		{"readme", File},
		{"readme.en", LocaleVariant},
		{"readme.info", CaptionFile},
		{"doc", Directory},
	}}
	assert.Equal(t, []Entry{
		{"readme", File},
		{"doc", Directory},
	}, n.Listed())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "directory", Directory.String())
	assert.Equal(t, "locale-variant", LocaleVariant.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestAutoindex(t *testing.T) {
	page := `<html><head><title>Index of /doc</title></head><body>
<h1>Index of /doc</h1>
<table>
<tr><th><a href="?C=N;O=D">Name</a></th><th><a href="?C=M;O=A">Last modified</a></th></tr>
<tr><td><a href="/">Parent Directory</a></td></tr>
<tr><td><a href="../">../</a></td></tr>
<tr><td><a href="main/"><img src="/icons/folder.gif"></a></td><td><a href="main/">main/</a></td></tr>
<tr><td><a href="FAQ">FAQ</a></td></tr>
<tr><td><a href="FAQ.info">FAQ.info</a></td></tr>
<tr><td><a href="FAQ.fr">FAQ.fr</a></td></tr>
<tr><td><a href="my%20notes.txt">my notes.txt</a></td></tr>
<tr><td><a href="http://elsewhere.example/x">offsite</a></td></tr>
<tr><td><a href="deep/path.txt">nested</a></td></tr>
<tr><td><a href="#top">top</a></td></tr>
</table></body></html>`

	c := newClassifier()
	entries, err := c.ParseAutoindex(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{"main", Directory},
		{"FAQ", File},
		{"FAQ.info", CaptionFile},
		{"FAQ.fr", LocaleVariant},
		{"my notes.txt", File},
	}, entries)
}

func TestNodeTranslations(t *testing.T) {
	locales := paths.NewLocaleMatcher(paths.DefaultLocaleSuffixes)
	n := &Node{Entries: []Entry{
		{"FAQ", File},
		{"FAQ.jp", LocaleVariant},
		{"FAQ.en", LocaleVariant},
		{"howto.ru", LocaleVariant},
		{"FAQ.info", CaptionFile},
	}}
	assert.Equal(t, map[string][]string{
		"FAQ":   {"jp", "en"},
		"howto": {"ru"},
	}, n.Translations(locales))
	assert.Nil(t, n.Translations(nil))
}
