// Package theme resolves the reader's color theme and mirrors it onto the
// document root element.
package theme

// CSS is the theme as seen by attribute selectors on the document root.
type CSS struct {
	ColorMode  string `json:"colorMode"`
	DarkTheme  string `json:"darkTheme"`
	LightTheme string `json:"lightTheme"`
}

// Component is the theme as passed to the component theme provider.
type Component struct {
	ColorMode   string `json:"colorMode"`
	DayScheme   string `json:"dayScheme"`
	NightScheme string `json:"nightScheme"`
}

// State is the resolved theme selection.
type State struct {
	CSS       CSS       `json:"css"`
	Component Component `json:"component"`
}

// CSS color modes.
const (
	ModeAuto  = "auto"
	ModeLight = "light"
	ModeDark  = "dark"
)

// Component color modes.
const (
	ComponentAuto  = "auto"
	ComponentDay   = "day"
	ComponentNight = "night"
)

const (
	defaultLightTheme = "light"
	defaultDarkTheme  = "dark"
)

var supportedThemes = map[string]bool{
	"light":               true,
	"light_high_contrast": true,
	"light_colorblind":    true,
	"light_tritanopia":    true,
	"dark":                true,
	"dark_dimmed":         true,
	"dark_high_contrast":  true,
	"dark_colorblind":     true,
	"dark_tritanopia":     true,
}

// Default is the theme used when the reader has expressed no preference.
func Default() State {
	return State{
		CSS: CSS{
			ColorMode:  ModeAuto,
			DarkTheme:  defaultDarkTheme,
			LightTheme: defaultLightTheme,
		},
		Component: Component{
			ColorMode:   ComponentAuto,
			DayScheme:   defaultLightTheme,
			NightScheme: defaultDarkTheme,
		},
	}
}

// IsSupported reports whether name is a theme the style layer ships.
func IsSupported(name string) bool {
	return supportedThemes[name]
}

// Valid reports whether every field of s names a known mode or theme.
func (s State) Valid() bool {
	switch s.CSS.ColorMode {
	case ModeAuto, ModeLight, ModeDark:
	default:
		return false
	}
	switch s.Component.ColorMode {
	case ComponentAuto, ComponentDay, ComponentNight:
	default:
		return false
	}
	return IsSupported(s.CSS.DarkTheme) && IsSupported(s.CSS.LightTheme) &&
		IsSupported(s.Component.DayScheme) && IsSupported(s.Component.NightScheme)
}
