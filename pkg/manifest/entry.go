package manifest

import "github.com/tqbf/doctree/pkg/paths"

type Kind int

const (
	Directory Kind = iota
	File
	CaptionFile
	LocaleVariant
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	case CaptionFile:
		return "caption"
	case LocaleVariant:
		return "locale-variant"
	}
	return "unknown"
}

// Listed reports whether entries of this kind appear in a listing.
func (k Kind) Listed() bool {
	return k == Directory || k == File
}

type Entry struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Node is one directory's manifest, in manifest order.
type Node struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

func (n *Node) Listed() []Entry {
	var out []Entry
	for _, e := range n.Entries {
		if e.Kind.Listed() {
			out = append(out, e)
		}
	}
	return out
}

// Translations maps canonical names to the languages of their variants
// in this node, in manifest order.
func (n *Node) Translations(m *paths.LocaleMatcher) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string)
	for _, e := range n.Entries {
		if e.Kind != LocaleVariant {
			continue
		}
		if base, lang, ok := m.Split(e.Name); ok {
			out[base] = append(out[base], lang)
		}
	}
	return out
}
