package windows

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme is the viewer's theme. A theme created by NewTheme("light")
// or NewTheme("dark") ignores the system variant.
type CustomTheme struct {
	mode    string
	variant fyne.ThemeVariant
	forced  bool
}

var _ fyne.Theme = (*CustomTheme)(nil)

// NewTheme returns the theme for mode: light, dark or system.
func NewTheme(mode string) *CustomTheme {
	t := &CustomTheme{mode: strings.ToLower(mode)}
	switch t.mode {
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	default:
		t.mode = "system"
	}
	return t
}

// Mode returns light, dark or system.
func (m *CustomTheme) Mode() string {
	return m.mode
}

// nextThemeMode cycles system, light and dark.
func nextThemeMode(mode string) string {
	switch mode {
	case "system":
		return "light"
	case "light":
		return "dark"
	default:
		return "system"
	}
}

func (m *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if m.forced {
		variant = m.variant
	}
	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff} // Light gray background
		case theme.ColorNameButton:
			return color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff} // Material Blue
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff} // Material Blue
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff} // Lighter blue
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff} // Darker blue
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff} // Dark gray text
		case theme.ColorNameInputBackground:
			return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff} // White input
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0xbb, G: 0xde, B: 0xfb, A: 0xff} // Light blue selection
		case theme.ColorNameForegroundOnPrimary:
			return color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff} // Dark gray for toolbar icons
		case theme.ColorNameHeaderBackground:
			return color.NRGBA{R: 0xe3, G: 0xe8, B: 0xee, A: 0xff}
		}
	} else {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff} // Dark background
		case theme.ColorNameButton:
			return color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff} // Lighter blue for dark mode
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff}
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x90, G: 0xca, B: 0xf9, A: 0xff}
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff} // Light text
		case theme.ColorNameInputBackground:
			return color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
		case theme.ColorNameForegroundOnPrimary:
			return color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
		case theme.ColorNameHeaderBackground:
			return color.NRGBA{R: 0x2a, G: 0x2a, B: 0x2a, A: 0xff}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m *CustomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m *CustomTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 24
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
