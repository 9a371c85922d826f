package ui

// The functions below return the escape sequence of the active theme for
// one role. They return "" when colours are disabled.

// ColorRed marks errors.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen marks success.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow marks warnings and the batch sink.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorCyan marks the immediate sink and primary values.
func ColorCyan() string { return GetCurrentTheme().Primary }

// ColorMagenta marks informational values.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorBlue marks secondary text.
func ColorBlue() string { return GetCurrentTheme().Secondary }

// ColorBold starts bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline starts underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset clears all attributes.
func ColorReset() string { return GetCurrentTheme().Reset }

// Colorize wraps s in the given colour and a reset. It returns s unchanged
// when colours are disabled.
func Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset()
}
