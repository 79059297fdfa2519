package content

import (
	"bytes"
	"html/template"
	"io"
	"net/http"
	"sort"

	"github.com/ziadkadry99/docshell/internal/languages"
	"github.com/ziadkadry99/docshell/internal/page"
)

// DocPage renders documents from a Library.
type DocPage struct {
	lib      *Library
	registry *languages.Registry
}

// NewDocPage returns the page serving lib.
func NewDocPage(lib *Library, registry *languages.Registry) *DocPage {
	return &DocPage{lib: lib, registry: registry}
}

// InitialProps resolves the document addressed by r.
func (p *DocPage) InitialProps(r *http.Request) (page.Props, error) {
	locale, rest := p.registry.StripLocale(r.URL.Path)
	if locale == "" {
		locale = languages.LocaleFrom(r.Context())
	}
	if locale == "" {
		locale = p.registry.Fallback()
	}

	doc, version, ok := p.lib.Resolve(locale, rest)
	if !ok {
		return page.Props{}, page.ErrNotFound
	}

	return page.Props{
		Title: doc.Title,
		MainContext: &page.MainContext{
			CurrentVersion: version,
			AllVersions:    p.lib.AllVersions(),
		},
		Data: map[string]any{
			"document":      doc.Key(),
			"contentLocale": doc.Locale,
			"slug":          doc.Slug,
		},
	}, nil
}

type docView struct {
	Locale    string
	Body      template.HTML
	Version   page.Version
	Versions  []versionLink
	Languages []languageLink
}

type versionLink struct {
	Title   string
	Href    string
	Current bool
}

type languageLink struct {
	Label   string
	Href    string
	Current bool
}

var docTemplate = template.Must(template.New("doc").Parse(`<nav class="version-picker" aria-label="Versions">
{{- range .Versions}}<a href="{{.Href}}"{{if .Current}} aria-current="page"{{end}}>{{.Title}}</a>{{end -}}
</nav>
<nav class="language-picker" aria-label="Languages">
{{- range .Languages}}<a href="{{.Href}}"{{if .Current}} aria-current="page"{{end}}>{{.Label}}</a>{{end -}}
</nav>
{{with .Version.VersionTitle}}<p class="current-version">{{.}}</p>{{end}}
<article class="markdown-body" lang="{{.Locale}}">
{{.Body}}
</article>
`))

// Render writes the document body with version and language pickers.
func (p *DocPage) Render(w io.Writer, rc page.RenderContext) error {
	key, _ := rc.Props.Data["document"].(string)
	doc, ok := p.lib.Get(key)
	if !ok {
		return page.ErrNotFound
	}

	body, err := p.lib.RenderHTML(doc)
	if err != nil {
		return err
	}

	current := ""
	if rc.Props.MainContext != nil {
		current = rc.Props.MainContext.CurrentVersion
	}

	view := docView{
		Locale: doc.Locale,
		Body:   template.HTML(body),
	}
	for _, v := range p.lib.Versions() {
		if v.Version == current {
			view.Version = v
		}
		view.Versions = append(view.Versions, versionLink{
			Title:   v.VersionTitle,
			Href:    p.href(rc.Locale, v.Version, doc.Slug),
			Current: v.Version == current,
		})
	}

	codes := make([]string, 0, len(rc.Languages.Languages))
	for code := range rc.Languages.Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		entry := rc.Languages.Languages[code]
		view.Languages = append(view.Languages, languageLink{
			Label:   entry.Label(),
			Href:    p.href(code, current, doc.Slug),
			Current: code == rc.Locale,
		})
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, view); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// href builds /<locale>[/<version>]/<slug>, omitting the default version.
func (p *DocPage) href(locale, version, slug string) string {
	h := "/" + locale
	if version != "" && version != p.lib.opts.DefaultVersion {
		h += "/" + version
	}
	if slug != "" {
		h += "/" + slug
	}
	return h
}

// NotFoundPage is rendered when no document matches. It is served outside
// the languages middleware, so it renders without a language directory.
type NotFoundPage struct{}

// InitialProps implements page.Page.
func (NotFoundPage) InitialProps(r *http.Request) (page.Props, error) {
	return page.Props{Title: "Page not found"}, nil
}

// Render implements page.Page.
func (NotFoundPage) Render(w io.Writer, rc page.RenderContext) error {
	_, err := io.WriteString(w, `<article class="not-found"><h1>Ooops!</h1><p>It looks like this page doesn't exist.</p><p><a href="/">Go to the home page</a></p></article>`+"\n")
	return err
}
