// Package languages builds the per-request directory of documentation
// languages and detects the active locale for a request.
package languages

// Record is a raw language record as supplied by the registry. Fields other
// than the four known ones are preserved in Extra and never forwarded to the
// render tree.
type Record struct {
	Name       string         `yaml:"name" json:"name"`
	Code       string         `yaml:"code" json:"code"`
	Hreflang   string         `yaml:"hreflang,omitempty" json:"hreflang,omitempty"`
	NativeName string         `yaml:"native_name,omitempty" json:"nativeName,omitempty"`
	Extra      map[string]any `yaml:",inline" json:"-"`
}

// Entry is the minimal shape of a language exposed to pages.
type Entry struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Hreflang   string `json:"hreflang,omitempty"`
	NativeName string `json:"nativeName,omitempty"`
}

// Label returns the native name when known, otherwise the English name.
func (e Entry) Label() string {
	if e.NativeName != "" {
		return e.NativeName
	}
	return e.Name
}

// AlternateHreflang returns the value for a <link rel="alternate"> hreflang
// attribute.
func (e Entry) AlternateHreflang() string {
	if e.Hreflang != "" {
		return e.Hreflang
	}
	return e.Code
}

// Context is the read-only language directory for one rendered request.
type Context struct {
	Languages map[string]Entry `json:"languages"`
}

// BuildContext reduces raw records to the minimal Entry shape. A nil input
// yields an empty directory.
func BuildContext(raw map[string]Record) Context {
	lc := Context{Languages: make(map[string]Entry, len(raw))}
	for code, rec := range raw {
		entry := Entry{
			Name: rec.Name,
			Code: rec.Code,
		}
		// hreflang feeds <link rel="alternate"> tags; a copy of code is redundant.
		if rec.Hreflang != "" && rec.Hreflang != rec.Code {
			entry.Hreflang = rec.Hreflang
		}
		if rec.NativeName != "" {
			entry.NativeName = rec.NativeName
		}
		lc.Languages[code] = entry
	}
	return lc
}
