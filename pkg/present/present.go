// Package present turns rendered listings into HTML or plain text. It
// makes no decisions about what is listed; that is the renderer's job.
package present

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/tqbf/doctree/pkg/render"
)

// Links builds the URLs rows point to.
type Links struct {
	Base      string
	Lang      string
	Recursive bool
}

func (l Links) base() string {
	if l.Base == "" {
		return "/"
	}
	return l.Base
}

func (l Links) Dir(dir string) string {
	q := url.Values{}
	if dir != "" {
		q.Set("dir", dir)
	}
	if l.Recursive {
		q.Set("mode", "tree")
	}
	if l.Lang != "" {
		q.Set("lang", l.Lang)
	}
	if len(q) == 0 {
		return l.base()
	}
	return l.base() + "?" + q.Encode()
}

func (l Links) File(file string) string {
	return l.Translation(file, l.Lang)
}

// Translation links to file shown in lang.
func (l Links) Translation(file, lang string) string {
	q := url.Values{}
	q.Set("file", file)
	if lang != "" {
		q.Set("lang", lang)
	}
	return l.base() + "?" + q.Encode()
}

type langLink struct {
	Lang string
	Href string
}

type row struct {
	Kind       string
	Indent     string
	Href       string
	Name       string
	Caption    string
	HasCaption bool
	Langs      []langLink
}

func rows(listing *render.Listing, links Links) []row {
	out := make([]row, 0, len(listing.Lines))
	for _, line := range listing.Lines {
		r := row{
			Kind:       line.Kind.String(),
			Indent:     strings.Repeat("    ", line.Depth),
			Name:       line.Name,
			Caption:    line.Caption,
			HasCaption: line.HasCaption,
		}
		switch line.Kind {
		case render.LineFile:
			r.Href = links.File(line.Target)
			for _, lang := range line.Languages {
				r.Langs = append(r.Langs, langLink{
					Lang: lang,
					Href: links.Translation(line.Target, lang),
				})
			}
		default:
			r.Href = links.Dir(line.Target)
		}
		out = append(out, r)
	}
	return out
}

var listingTmpl = template.Must(template.New("listing").Parse(
	`<pre id="filez">` +
		`{{range .}}{{.Indent}}` +
		`{{if eq .Kind "directory"}}<a href="{{.Href}}">[ {{.Name}} ]</a>` +
		`{{else if eq .Kind "file"}}<a href="{{.Href}}">{{.Name}}</a>` +
		`{{else if eq .Kind "back"}}` + "\n" + `<a href="{{.Href}}">&lt;-- Back</a>` +
		`{{else if eq .Kind "truncated"}}<a href="{{.Href}}">{{.Name}}</a>` +
		`{{else}}(cannot list this directory)` +
		`{{end}}` +
		`{{if .HasCaption}} --&gt; {{.Caption}}{{end}}` +
		`{{with .Langs}} [{{range $i, $l := .}}{{if $i}} {{end}}` +
		`<a href="{{$l.Href}}">{{$l.Lang}}</a>{{end}}]{{end}}` + "\n" +
		`{{end}}</pre>`,
))

func HTML(w io.Writer, listing *render.Listing, links Links) error {
	return listingTmpl.Execute(w, rows(listing, links))
}

func Text(w io.Writer, listing *render.Listing) error {
	var b strings.Builder
	for _, line := range listing.Lines {
		b.WriteString(strings.Repeat("    ", line.Depth))
		switch line.Kind {
		case render.LineDirectory:
			fmt.Fprintf(&b, "[ %s ]", line.Name)
		case render.LineFile:
			b.WriteString(line.Name)
		case render.LineBack:
			target := line.Target
			if target == "" {
				target = "/"
			}
			fmt.Fprintf(&b, "\n<-- Back (%s)", target)
		case render.LineTruncated:
			b.WriteString(line.Name)
		case render.LineUnavailable:
			b.WriteString("(cannot list this directory)")
		}
		if line.HasCaption {
			fmt.Fprintf(&b, " --> %s", line.Caption)
		}
		if len(line.Languages) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(line.Languages, " "))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var rawTmpl = template.Must(template.New("raw").Parse(
	`<pre id="raw" data-path="{{.Path}}">{{.Body}}</pre>`,
))

// Raw wraps an already embedded fragment; see viewer.Embed.
func Raw(w io.Writer, path, fragment string) error {
	return rawTmpl.Execute(w, struct {
		Path string
		Body template.HTML
	}{path, template.HTML(fragment)})
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{if .Message}}<p class="error">{{.Message}}</p>
{{end}}{{.Body}}
</body>
</html>
`))

type Page struct {
	Title   string
	Message string
	Body    template.HTML
}

func (p Page) Write(w io.Writer) error {
	return pageTmpl.Execute(w, p)
}

// Fragment renders fn into a string for embedding in a Page.
func Fragment(fn func(io.Writer) error) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
