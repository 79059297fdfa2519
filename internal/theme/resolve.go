package theme

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// CookieName is the cookie holding the reader's theme preference.
const CookieName = "color_mode"

// Resolver derives the theme for a request.
type Resolver interface {
	Resolve(r *http.Request) State
}

// CookieResolver reads the theme from a JSON cookie.
type CookieResolver struct {
	Name string
}

// Resolve implements Resolver. A nil request or a missing cookie yields Default().
func (c CookieResolver) Resolve(r *http.Request) State {
	if r == nil {
		return Default()
	}
	name := c.Name
	if name == "" {
		name = CookieName
	}
	cookie, err := r.Cookie(name)
	if err != nil {
		return Default()
	}
	return FromCookie(cookie.Value)
}

type cookieTheme struct {
	Name      string `json:"name"`
	ColorMode string `json:"color_mode"`
}

type cookieValue struct {
	ColorMode  string      `json:"color_mode"`
	LightTheme cookieTheme `json:"light_theme"`
	DarkTheme  cookieTheme `json:"dark_theme"`
}

// FromCookie parses a (possibly URL-encoded) color_mode cookie value. Any
// field that is missing or unsupported falls back to its default.
func FromCookie(raw string) State {
	state := Default()
	if raw == "" {
		return state
	}
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}

	var v cookieValue
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return state
	}

	switch v.ColorMode {
	case ModeLight:
		state.CSS.ColorMode = ModeLight
		state.Component.ColorMode = ComponentDay
	case ModeDark:
		state.CSS.ColorMode = ModeDark
		state.Component.ColorMode = ComponentNight
	}

	if IsSupported(v.LightTheme.Name) {
		state.CSS.LightTheme = v.LightTheme.Name
		state.Component.DayScheme = v.LightTheme.Name
	}
	if IsSupported(v.DarkTheme.Name) {
		state.CSS.DarkTheme = v.DarkTheme.Name
		state.Component.NightScheme = v.DarkTheme.Name
	}

	return state
}
