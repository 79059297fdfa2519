package theme

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFromCookie(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want State
	}{
		{"empty", "", Default()},
		{"garbage", "not-json", Default()},
		{
			name: "dark mode dimmed",
			raw:  `{"color_mode":"dark","light_theme":{"name":"light","color_mode":"light"},"dark_theme":{"name":"dark_dimmed","color_mode":"dark"}}`,
			want: State{
				CSS:       CSS{ColorMode: "dark", DarkTheme: "dark_dimmed", LightTheme: "light"},
				Component: Component{ColorMode: "night", DayScheme: "light", NightScheme: "dark_dimmed"},
			},
		},
		{
			name: "light mode high contrast",
			raw:  `{"color_mode":"light","light_theme":{"name":"light_high_contrast"}}`,
			want: State{
				CSS:       CSS{ColorMode: "light", DarkTheme: "dark", LightTheme: "light_high_contrast"},
				Component: Component{ColorMode: "day", DayScheme: "light_high_contrast", NightScheme: "dark"},
			},
		},
		{
			name: "unsupported values fall back",
			raw:  `{"color_mode":"sepia","light_theme":{"name":"solarized"},"dark_theme":{"name":"dracula"}}`,
			want: Default(),
		},
		{
			name: "url encoded",
			raw:  url.QueryEscape(`{"color_mode":"dark"}`),
			want: State{
				CSS:       CSS{ColorMode: "dark", DarkTheme: "dark", LightTheme: "light"},
				Component: Component{ColorMode: "night", DayScheme: "light", NightScheme: "dark"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromCookie(tt.raw); got != tt.want {
				t.Errorf("FromCookie() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCookieResolver(t *testing.T) {
	var resolver Resolver = CookieResolver{}

	if got := resolver.Resolve(nil); got != Default() {
		t.Errorf("Resolve(nil) = %+v, want default", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := resolver.Resolve(req); got != Default() {
		t.Errorf("Resolve without cookie = %+v, want default", got)
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: url.QueryEscape(`{"color_mode":"light"}`)})
	if got := resolver.Resolve(req); got.CSS.ColorMode != ModeLight {
		t.Errorf("Resolve color mode = %q, want light", got.CSS.ColorMode)
	}
}

func TestSyncWritesOnMount(t *testing.T) {
	root := NewElement()
	state := Default()
	Sync(nil, &state, root)

	want := map[string]string{
		AttrColorMode:  "auto",
		AttrDarkTheme:  "dark",
		AttrLightTheme: "light",
	}
	for name, value := range want {
		if got, ok := root.Attribute(name); !ok || got != value {
			t.Errorf("%s = %q (set=%v), want %q", name, got, ok, value)
		}
	}
}

func TestSyncIdempotent(t *testing.T) {
	state := FromCookie(`{"color_mode":"dark","dark_theme":{"name":"dark_high_contrast"}}`)

	once := NewElement()
	Sync(nil, &state, once)

	twice := NewElement()
	Sync(nil, &state, twice)
	Sync(nil, &state, twice)

	if once.HTMLAttrs() != twice.HTMLAttrs() {
		t.Errorf("applying twice changed attributes: %q vs %q", once.HTMLAttrs(), twice.HTMLAttrs())
	}
	if len(twice.Attributes()) != 3 {
		t.Errorf("expected 3 attributes, got %d", len(twice.Attributes()))
	}
}

type countingRoot struct {
	sets int
}

func (c *countingRoot) SetAttribute(name, value string) { c.sets++ }

func TestSyncSkipsUnchanged(t *testing.T) {
	root := &countingRoot{}
	a := Default()
	b := Default()
	Sync(&a, &b, root)
	if root.sets != 0 {
		t.Errorf("expected no writes for unchanged state, got %d", root.sets)
	}

	b.CSS.ColorMode = ModeDark
	Sync(&a, &b, root)
	if root.sets != 3 {
		t.Errorf("expected 3 writes for changed state, got %d", root.sets)
	}
}

func TestSyncNilRoot(t *testing.T) {
	state := Default()
	// Must not panic.
	Sync(nil, &state, nil)
	Sync(nil, nil, NewElement())
}

func TestSynchronizer(t *testing.T) {
	root := NewElement()
	s := NewSynchronizer(root)

	if !s.Apply(Default()) {
		t.Error("first Apply should write")
	}
	if s.Apply(Default()) {
		t.Error("Apply with same state should not write")
	}

	dark := Default()
	dark.CSS.ColorMode = ModeDark
	if !s.Apply(dark) {
		t.Error("Apply with new state should write")
	}
	if got, _ := root.Attribute(AttrColorMode); got != ModeDark {
		t.Errorf("color mode = %q, want dark", got)
	}

	if NewSynchronizer(nil).Apply(Default()) {
		t.Error("Apply without a root should report no write")
	}
}

func TestElementHTMLAttrs(t *testing.T) {
	e := NewElement()
	e.SetAttribute("lang", "en")
	e.SetAttribute(AttrColorMode, `a"b`)
	e.SetAttribute("lang", "ja")

	want := `lang="ja" data-color-mode="a&#34;b"`
	if got := string(e.HTMLAttrs()); got != want {
		t.Errorf("HTMLAttrs() = %s, want %s", got, want)
	}
	if m := e.Map(); m["lang"] != "ja" || len(m) != 2 {
		t.Errorf("Map() = %v", m)
	}
}

func TestStateValid(t *testing.T) {
	if !Default().Valid() {
		t.Error("default state should be valid")
	}

	bad := Default()
	bad.CSS.ColorMode = "sepia"
	if bad.Valid() {
		t.Error("unknown color mode accepted")
	}

	bad = Default()
	bad.Component.NightScheme = "solarized"
	if bad.Valid() {
		t.Error("unknown scheme accepted")
	}
}
