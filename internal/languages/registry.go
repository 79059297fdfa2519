package languages

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultRecords is the language set served when no registry file is configured.
func DefaultRecords() map[string]Record {
	return map[string]Record{
		"en": {Name: "English", Code: "en", NativeName: "English"},
		"es": {Name: "Spanish", Code: "es", NativeName: "Español"},
		"ja": {Name: "Japanese", Code: "ja", NativeName: "日本語"},
		"pt": {Name: "Portuguese", Code: "pt", NativeName: "Português do Brasil"},
		"zh": {Name: "Simplified Chinese", Code: "zh", Hreflang: "zh-Hans", NativeName: "简体中文"},
		"ru": {Name: "Russian", Code: "ru", NativeName: "Русский"},
		"fr": {Name: "French", Code: "fr", NativeName: "Français"},
		"ko": {Name: "Korean", Code: "ko", NativeName: "한국어"},
		"de": {Name: "German", Code: "de", NativeName: "Deutsch"},
	}
}

// Registry holds the supported languages and matches requests against them.
type Registry struct {
	records  map[string]Record
	codes    []string
	matcher  language.Matcher
	fallback string
}

// NewRegistry validates records and builds a matcher with fallback as the
// preferred default.
func NewRegistry(records map[string]Record, fallback string) (*Registry, error) {
	if _, ok := records[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q is not a registered language", fallback)
	}

	codes := make([]string, 0, len(records))
	for code := range records {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	// The matcher treats the first tag as the default, so the fallback leads.
	ordered := make([]string, 0, len(codes))
	ordered = append(ordered, fallback)
	for _, code := range codes {
		if code != fallback {
			ordered = append(ordered, code)
		}
	}

	tags := make([]language.Tag, 0, len(ordered))
	for _, code := range ordered {
		rec := records[code]
		if rec.Code != code {
			return nil, fmt.Errorf("language %q: record code %q does not match its key", code, rec.Code)
		}
		raw := rec.Hreflang
		if raw == "" {
			raw = code
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("language %q: parsing tag %q: %w", code, raw, err)
		}
		tags = append(tags, tag)
	}

	return &Registry{
		records:  records,
		codes:    ordered,
		matcher:  language.NewMatcher(tags),
		fallback: fallback,
	}, nil
}

// LoadRegistry reads a YAML mapping of language code to record.
func LoadRegistry(path, fallback string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading languages file %s: %w", path, err)
	}
	var records map[string]Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing languages file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("languages file %s defines no languages", path)
	}
	return NewRegistry(records, fallback)
}

// Records returns the raw records. The map is shared and must not be modified.
func (r *Registry) Records() map[string]Record { return r.records }

// Codes returns the registered codes, fallback first.
func (r *Registry) Codes() []string { return r.codes }

// Fallback returns the default locale.
func (r *Registry) Fallback() string { return r.fallback }

// Has reports whether code is a registered language.
func (r *Registry) Has(code string) bool {
	_, ok := r.records[code]
	return ok
}

// Match picks the best registered language for an Accept-Language header.
func (r *Registry) Match(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return r.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.fallback
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.fallback
	}
	return r.codes[idx]
}
