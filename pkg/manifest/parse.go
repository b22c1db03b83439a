package manifest

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/tqbf/doctree/pkg/paths"
)

const (
	DefaultName          = ".list"
	DefaultCaptionSuffix = ".info"
	maxLine              = 64 << 10
)

// Classifier turns raw manifest lines into tagged entries.
type Classifier struct {
	Locales       *paths.LocaleMatcher
	CaptionSuffix string
}

func NewClassifier(locales *paths.LocaleMatcher) *Classifier {
	return &Classifier{
		Locales:       locales,
		CaptionSuffix: DefaultCaptionSuffix,
	}
}

// Classify returns the entry for one line, or false if the line carries
// no usable entry.
func (c *Classifier) Classify(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	kind := File
	name := line
	if strings.HasSuffix(line, "/") {
		kind = Directory
		name = strings.TrimSuffix(line, "/")
	}
	if err := paths.ValidateName(name); err != nil {
		slog.Warn("dropping manifest line",
			"line", line, "err", err,
		)
		return Entry{}, false
	}
	if kind == Directory {
		return Entry{Name: name, Kind: kind}, true
	}

	switch {
	case c.CaptionSuffix != "" &&
		strings.HasSuffix(name, c.CaptionSuffix):
		kind = CaptionFile
	case c.Locales != nil && c.Locales.IsLocaleVariant(name):
		kind = LocaleVariant
	}
	return Entry{Name: name, Kind: kind}, true
}

func (c *Classifier) Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxLine)

	var entries []Entry
	for scanner.Scan() {
		if e, ok := c.Classify(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
