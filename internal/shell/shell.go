// Package shell wraps every page in the document scaffolding shared by the
// whole site: head metadata, theme attributes, the language directory and
// the hydration payload for the client session.
package shell

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/ziadkadry99/docshell/internal/languages"
	"github.com/ziadkadry99/docshell/internal/page"
	"github.com/ziadkadry99/docshell/internal/staging"
	"github.com/ziadkadry99/docshell/internal/theme"
)

// Site verification tokens served on every page.
const (
	siteVerificationPrimary   = "OgdQc0GZfjDI52wDv1bkMT-SLpBUo_h5nn9mI9L22xQ"
	siteVerificationSecondary = "c1kuD-K2HIVF635lypcsWPoD4kilo5-jA_wBFyT4uMY"
)

// HydrationID is the id of the script element carrying AppProps.
const HydrationID = "__DOCSHELL_DATA__"

// AppProps is what the shell computes for one request, on top of the
// page's own props.
type AppProps struct {
	Page        page.Props        `json:"pageProps"`
	Languages   languages.Context `json:"languagesContext"`
	StagingName string            `json:"stagingName,omitempty"`
}

// Options configure a Shell.
type Options struct {
	// StagingHeader names the header carrying the external URL.
	StagingHeader string

	// Theme resolves the reader's theme. Defaults to the color_mode cookie.
	Theme theme.Resolver

	// NotFound is rendered when a page reports page.ErrNotFound.
	NotFound page.Page

	Logger *slog.Logger
}

// Shell renders pages inside the site chrome.
type Shell struct {
	header   string
	resolver theme.Resolver
	notFound page.Page
	logger   *slog.Logger
}

// New returns a Shell.
func New(opts Options) *Shell {
	s := &Shell{
		header:   opts.StagingHeader,
		resolver: opts.Theme,
		notFound: opts.NotFound,
		logger:   opts.Logger,
	}
	if s.header == "" {
		s.header = staging.DefaultHeader
	}
	if s.resolver == nil {
		s.resolver = theme.CookieResolver{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// GetInitialProps runs the page's own InitialProps and adds the language
// directory and staging name. Page props are forwarded unchanged.
func (s *Shell) GetInitialProps(r *http.Request, pg page.Page) (AppProps, error) {
	pageProps, err := pg.InitialProps(r)
	if err != nil {
		return AppProps{}, err
	}

	var raw map[string]languages.Record
	if r != nil {
		raw, _ = languages.RecordsFrom(r.Context())
	}

	return AppProps{
		Page:        pageProps,
		Languages:   languages.BuildContext(raw),
		StagingName: staging.FromRequest(r, s.header),
	}, nil
}

type alternateLink struct {
	Hreflang string
	Href     string
}

type documentView struct {
	RootAttrs     template.HTMLAttr
	Title         string
	Favicon       string
	VerificationA string
	VerificationB string
	Alternates    []alternateLink
	Theme         theme.Component
	Body          template.HTML
	HydrationID   string
	Hydration     template.JS
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html {{.RootAttrs}}>
<head>
<meta charset="utf-8">
<title>GitHub Docs</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="google-site-verification" content="{{.VerificationA}}">
<meta name="google-site-verification" content="{{.VerificationB}}">
{{with .Title}}<meta property="og:title" content="{{.}}">
{{end -}}
<link rel="manifest" href="/manifest.json">
<link rel="icon" type="image/png" href="{{.Favicon}}">
{{range .Alternates}}<link rel="alternate" hreflang="{{.Hreflang}}" href="{{.Href}}">
{{end -}}
</head>
<body>
<div class="theme-provider" data-color-mode="{{.Theme.ColorMode}}" data-light-theme="{{.Theme.DayScheme}}" data-dark-theme="{{.Theme.NightScheme}}">
{{.Body}}</div>
<script id="{{.HydrationID}}" type="application/json">{{.Hydration}}</script>
<script src="/_docshell/client.js" defer></script>
</body>
</html>
`))

// Render writes the full document for pg. The document root carries the
// theme attributes from the first byte, so there is no unthemed paint.
func (s *Shell) Render(w io.Writer, r *http.Request, pg page.Page, props AppProps) error {
	locale := activeLocale(r)
	state := s.resolver.Resolve(r)

	root := theme.NewElement()
	root.SetAttribute("lang", locale)
	theme.Sync(nil, &state, root)

	var body bytes.Buffer
	err := pg.Render(&body, page.RenderContext{
		Props:     props.Page,
		Locale:    locale,
		Languages: props.Languages,
	})
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	hydration, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encoding props: %w", err)
	}

	path := "/"
	if r != nil {
		path = r.URL.Path
	}

	// json.Marshal escapes <, > and & so the payload cannot close the script.
	view := documentView{
		RootAttrs:     root.HTMLAttrs(),
		Title:         props.Page.Title,
		Favicon:       staging.FaviconHref(props.StagingName),
		VerificationA: siteVerificationPrimary,
		VerificationB: siteVerificationSecondary,
		Alternates:    alternates(props.Languages, locale, path),
		Theme:         state.Component,
		Body:          template.HTML(body.String()),
		HydrationID:   HydrationID,
		Hydration:     template.JS(hydration),
	}
	return documentTemplate.Execute(w, view)
}

// Handler serves pg through the shell. A page that reports
// page.ErrNotFound is replaced by the not-found page.
func (s *Shell) Handler(pg page.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		props, err := s.GetInitialProps(r, pg)
		if errors.Is(err, page.ErrNotFound) {
			// The not-found page renders without a language directory.
			s.NotFoundHandler()(w, r.WithContext(languages.WithRecords(r.Context(), nil)))
			return
		}
		if err != nil {
			s.logger.Error("computing page props", "path", r.URL.Path, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		s.write(w, r, pg, props, http.StatusOK)
	}
}

// NotFoundHandler serves the configured not-found page with a 404.
func (s *Shell) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.notFound == nil {
			http.NotFound(w, r)
			return
		}
		props, err := s.GetInitialProps(r, s.notFound)
		if err != nil {
			s.logger.Error("computing not-found props", "path", r.URL.Path, "error", err)
			http.NotFound(w, r)
			return
		}
		s.write(w, r, s.notFound, props, http.StatusNotFound)
	}
}

func (s *Shell) write(w http.ResponseWriter, r *http.Request, pg page.Page, props AppProps, status int) {
	var buf bytes.Buffer
	if err := s.Render(&buf, r, pg, props); err != nil {
		s.logger.Error("rendering page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func activeLocale(r *http.Request) string {
	if r == nil {
		return fallbackLocale
	}
	if locale := languages.LocaleFrom(r.Context()); locale != "" {
		return locale
	}
	return fallbackLocale
}

const fallbackLocale = "en"

// alternates lists one alternate link per language, pointing at the same
// path under that language's prefix.
func alternates(ctx languages.Context, locale, path string) []alternateLink {
	codes := make([]string, 0, len(ctx.Languages))
	for code := range ctx.Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rest := path
	if seg, tail, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/"); seg == locale {
		rest = "/" + tail
	}
	rest = strings.TrimSuffix(rest, "/")

	out := make([]alternateLink, 0, len(codes))
	for _, code := range codes {
		entry := ctx.Languages[code]
		out = append(out, alternateLink{
			Hreflang: entry.AlternateHreflang(),
			Href:     "/" + code + rest,
		})
	}
	return out
}
