package paths

import "strings"

var DefaultLocaleSuffixes = []string{
	".en", ".ita", ".fr", ".ru", ".spa", ".chi", ".nl", ".jp",
}

// LocaleMatcher recognizes translated variants of an entry by suffix.
type LocaleMatcher struct {
	suffixes []string
}

func NewLocaleMatcher(suffixes []string) *LocaleMatcher {
	m := &LocaleMatcher{}
	for _, s := range suffixes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		m.suffixes = append(m.suffixes, s)
	}
	return m
}

func (m *LocaleMatcher) IsLocaleVariant(name string) bool {
	return m.suffixOf(name) != ""
}

func (m *LocaleMatcher) suffixOf(name string) string {
	for _, s := range m.suffixes {
		if len(name) > len(s) && strings.HasSuffix(name, s) {
			return s
		}
	}
	return ""
}

// Variant returns the translated sibling of name for lang, or "" when
// lang is not a recognized locale or name is already a variant.
func (m *LocaleMatcher) Variant(name, lang string) string {
	if lang == "" || m.IsLocaleVariant(name) {
		return ""
	}
	want := "." + strings.TrimPrefix(lang, ".")
	for _, s := range m.suffixes {
		if s == want {
			return name + s
		}
	}
	return ""
}

// Split separates a variant into its canonical name and language, e.g.
// "FAQ.ita" into "FAQ" and "ita".
func (m *LocaleMatcher) Split(name string) (string, string, bool) {
	s := m.suffixOf(name)
	if s == "" {
		return "", "", false
	}
	return strings.TrimSuffix(name, s), s[1:], true
}

func (m *LocaleMatcher) Suffixes() []string {
	out := make([]string, len(m.suffixes))
	copy(out, m.suffixes)
	return out
}
