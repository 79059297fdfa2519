// Package page defines the contract between the app shell and routed pages.
package page

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/ziadkadry99/docshell/internal/languages"
)

// Version describes one documentation version.
type Version struct {
	Version      string `json:"version"`
	VersionTitle string `json:"versionTitle"`
	Plan         string `json:"plan"`
}

// MainContext is the per-page payload describing the current documentation
// version and every version the site knows about.
type MainContext struct {
	CurrentVersion string             `json:"currentVersion"`
	AllVersions    map[string]Version `json:"allVersions"`
}

// VersionIDs returns the known version identifiers in sorted order.
func (m *MainContext) VersionIDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, len(m.AllVersions))
	for id := range m.AllVersions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Props is what a page computes for a request. The shell forwards it
// unchanged.
type Props struct {
	MainContext *MainContext   `json:"mainContext,omitempty"`
	Title       string         `json:"title,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// RenderContext is everything a page may read while rendering.
type RenderContext struct {
	Props     Props
	Locale    string
	Languages languages.Context
}

// Page is a routed page.
type Page interface {
	// InitialProps is the page's own per-request property computation.
	InitialProps(r *http.Request) (Props, error)
	// Render writes the page body.
	Render(w io.Writer, rc RenderContext) error
}

// ErrNotFound is returned by pages that have nothing to render for a request.
var ErrNotFound = errors.New("page not found")
