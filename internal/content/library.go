// Package content loads localized markdown documentation and serves it as
// shell pages.
package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/docshell/internal/page"
)

// Document is one markdown file.
type Document struct {
	Locale string
	Slug   string
	Title  string
	Source []byte
}

// Key identifies a document within a Library.
func (d *Document) Key() string {
	return d.Locale + ":" + d.Slug
}

// Options configure a Library.
type Options struct {
	Versions       []page.Version
	DefaultVersion string
	FallbackLocale string
}

// Library is the set of documents loaded from a content tree laid out as
// <locale>/<slug>.md.
type Library struct {
	docs     map[string]*Document
	versions map[string]page.Version
	order    []string
	opts     Options
	md       goldmark.Markdown
}

// Load reads every markdown file under fsys.
func Load(fsys fs.FS, opts Options) (*Library, error) {
	if len(opts.Versions) == 0 {
		return nil, fmt.Errorf("at least one version is required")
	}

	lib := &Library{
		docs:     make(map[string]*Document),
		versions: make(map[string]page.Version, len(opts.Versions)),
		opts:     opts,
		md:       newMarkdown(),
	}
	for _, v := range opts.Versions {
		lib.versions[v.Version] = v
		lib.order = append(lib.order, v.Version)
	}
	if _, ok := lib.versions[opts.DefaultVersion]; !ok {
		return nil, fmt.Errorf("default version %q is not a configured version", opts.DefaultVersion)
	}

	paths, err := doublestar.Glob(fsys, "*/**/*.md")
	if err != nil {
		return nil, fmt.Errorf("globbing content: %w", err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		locale, rel, _ := strings.Cut(p, "/")
		slug := slugFor(rel)
		doc := &Document{
			Locale: locale,
			Slug:   slug,
			Title:  extractTitle(string(src), rel),
			Source: src,
		}
		lib.docs[doc.Key()] = doc
	}

	return lib, nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// Len returns the number of loaded documents.
func (l *Library) Len() int { return len(l.docs) }

// Documents returns all documents sorted by locale and slug.
func (l *Library) Documents() []*Document {
	out := make([]*Document, 0, len(l.docs))
	for _, d := range l.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Locale != out[j].Locale {
			return out[i].Locale < out[j].Locale
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// Get returns a document by key.
func (l *Library) Get(key string) (*Document, bool) {
	d, ok := l.docs[key]
	return d, ok
}

// AllVersions returns a fresh copy of the configured versions.
func (l *Library) AllVersions() map[string]page.Version {
	out := make(map[string]page.Version, len(l.versions))
	for k, v := range l.versions {
		out[k] = v
	}
	return out
}

// Versions returns the configured versions in configuration order.
func (l *Library) Versions() []page.Version {
	out := make([]page.Version, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.versions[id])
	}
	return out
}

// Resolve finds the document for a locale and a locale-stripped path. A
// leading version segment selects the version; otherwise the default
// version applies. Documents missing in locale fall back to the fallback
// locale.
func (l *Library) Resolve(locale, rest string) (doc *Document, version string, ok bool) {
	rest = strings.Trim(rest, "/")
	version = l.opts.DefaultVersion
	if seg, tail, _ := strings.Cut(rest, "/"); seg != "" {
		if _, known := l.versions[seg]; known {
			version = seg
			rest = tail
		}
	}
	slug := strings.Trim(rest, "/")

	if d, found := l.docs[locale+":"+slug]; found {
		return d, version, true
	}
	if fb := l.opts.FallbackLocale; fb != "" && fb != locale {
		if d, found := l.docs[fb+":"+slug]; found {
			return d, version, true
		}
	}
	return nil, "", false
}

// RenderHTML converts a document's markdown to HTML.
func (l *Library) RenderHTML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.md.Convert(d.Source, &buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", d.Key(), err)
	}
	return buf.Bytes(), nil
}

// slugFor maps "get-started/index.md" to "get-started" and "index.md" to "".
func slugFor(rel string) string {
	slug := strings.TrimSuffix(rel, ".md")
	if slug == "index" {
		return ""
	}
	return strings.TrimSuffix(slug, "/index")
}

// extractTitle returns the first H1 heading, or the file name.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(path.Base(relPath), ".md")
}
