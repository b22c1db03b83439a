package manifest

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ParseAutoindex extracts entries from an HTML directory index such as
// the ones generated by Apache or nginx. Entry names come from the
// anchors' hrefs; sort links, parent links, and anything pointing
// outside the directory are ignored.
func (c *Classifier) ParseAutoindex(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if line, ok := indexLine(attr(n, "href")); ok &&
				!seen[line] {
				seen[line] = true
				if e, ok := c.Classify(line); ok {
					entries = append(entries, e)
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	return entries, nil
}

// indexLine maps an href to the manifest line it stands for.
func indexLine(href string) (string, bool) {
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || u.RawQuery != "" ||
		u.Fragment != "" {
		return "", false
	}
	p := u.Path
	if p == "" || strings.HasPrefix(p, "/") ||
		p == "./" || p == "../" || p == "." || p == ".." {
		return "", false
	}
	if strings.Contains(strings.TrimSuffix(p, "/"), "/") {
		return "", false
	}
	return p, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
