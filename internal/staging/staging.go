// Package staging derives the staging environment name from the external
// URL header set by the edge proxy.
package staging

import (
	"net/http"
	"regexp"
	"sort"
)

// DefaultHeader carries the external URL the request was made against.
const DefaultHeader = "X-Ong-External-Url"

// The "/cb-345" segment only exists so the CDN can cache these assets
// forever. Bump it whenever the images change on disk.
const (
	DefaultFavicon  = "/assets/cb-345/images/site/favicon.png"
	evergreenPrefix = "/assets/cb-345/images/site/evergreens/"
	evergreenSuffix = ".png"
)

// names is the closed set of staging environments. Each has a matching
// evergreen icon under evergreenPrefix.
var names = map[string]bool{
	"boxwood": true,
	"cedar":   true,
	"cypress": true,
	"fir":     true,
	"hemlock": true,
	"holly":   true,
	"juniper": true,
	"laurel":  true,
	"pine":    true,
	"redwood": true,
	"sequoia": true,
	"spruce":  true,
}

var hostPattern = regexp.MustCompile(`staging-(\w+)\.`)

// Names returns the known staging names in sorted order.
func Names() []string {
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsKnown reports whether name is an allow-listed staging name.
func IsKnown(name string) bool {
	return names[name]
}

// Resolve extracts the staging name from a header value. It returns "" when
// the header does not match or the candidate is not allow-listed.
func Resolve(header string) string {
	m := hostPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	if !names[m[1]] {
		return ""
	}
	return m[1]
}

// FromRequest resolves the staging name from the named header of r. A nil
// request resolves to "".
func FromRequest(r *http.Request, header string) string {
	if r == nil {
		return ""
	}
	if header == "" {
		header = DefaultHeader
	}
	return Resolve(r.Header.Get(header))
}

// FaviconHref returns the icon path for a staging name, or the default icon
// when name is empty or unknown.
func FaviconHref(name string) string {
	if name == "" || !names[name] {
		return DefaultFavicon
	}
	return evergreenPrefix + name + evergreenSuffix
}
