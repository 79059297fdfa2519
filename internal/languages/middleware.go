package languages

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const (
	recordsKey ctxKey = iota
	localeKey
)

// WithRecords returns a context carrying the raw language records.
func WithRecords(ctx context.Context, records map[string]Record) context.Context {
	return context.WithValue(ctx, recordsKey, records)
}

// RecordsFrom returns the raw records stored by Middleware, if any.
func RecordsFrom(ctx context.Context) (map[string]Record, bool) {
	records, ok := ctx.Value(recordsKey).(map[string]Record)
	return records, ok && records != nil
}

// WithLocale returns a context carrying the active locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// LocaleFrom returns the active locale, or "" when none was detected.
func LocaleFrom(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey).(string)
	return locale
}

// Detect returns the active locale for r: a registered code as the first
// path segment wins, then Accept-Language, then the fallback.
func (reg *Registry) Detect(r *http.Request) string {
	if code := firstSegment(r.URL.Path); code != "" && reg.Has(code) {
		return code
	}
	return reg.Match(r.Header.Get("Accept-Language"))
}

// Middleware contextualizes each request with the registry's records and
// the detected locale.
func Middleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRecords(r.Context(), reg.Records())
			ctx = WithLocale(ctx, reg.Detect(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StripLocale splits a leading registered locale segment off path. The
// returned rest always begins with "/".
func (reg *Registry) StripLocale(path string) (locale, rest string) {
	seg := firstSegment(path)
	if seg == "" || !reg.Has(seg) {
		return "", ensureLeadingSlash(path)
	}
	rest = strings.TrimPrefix(strings.TrimPrefix(path, "/"), seg)
	return seg, ensureLeadingSlash(rest)
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
