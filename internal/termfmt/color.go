package termfmt

import (
	"fmt"
	"strings"
)

// ColorKind selects which of Color's fields holds the color.
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorKindNamed
	ColorKind256
	ColorKindRGB
)

// NamedColor is one of the 16 standard ANSI terminal colors.
type NamedColor int

const (
	Black NamedColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

var namedSGRBase = [16]int{
	30, 31, 32, 33, 34, 35, 36, 37,
	90, 91, 92, 93, 94, 95, 96, 97,
}

// Color is a terminal foreground/background color: a named ANSI color, an
// indexed 256-color palette entry, or a 24-bit RGB triple. The zero value
// means "unset" (inherit whatever the terminal is already showing).
type Color struct {
	Kind  ColorKind
	Named NamedColor
	Index uint8
	R, G, B uint8
}

// RGB builds a 24-bit color.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorKindRGB, R: r, G: g, B: b} }

// Indexed builds a 256-color palette color.
func Indexed(i uint8) Color { return Color{Kind: ColorKind256, Index: i} }

// NewNamedColor builds one of the 16 standard ANSI colors.
func NewNamedColor(n NamedColor) Color { return Color{Kind: ColorKindNamed, Named: n} }

// IsSet reports whether c carries an actual color, as opposed to "unset".
func (c Color) IsSet() bool { return c.Kind != ColorNone }

// sgrParam returns c's SGR parameter string as a foreground color, or as a
// background color when background is true. ok is false for the zero Color.
func (c Color) sgrParam(background bool) (param string, ok bool) {
	switch c.Kind {
	case ColorKindNamed:
		base := namedSGRBase[c.Named]
		if background {
			base += 10
		}
		return fmt.Sprintf("%d", base), true
	case ColorKind256:
		if background {
			return fmt.Sprintf("48;5;%d", c.Index), true
		}
		return fmt.Sprintf("38;5;%d", c.Index), true
	case ColorKindRGB:
		if background {
			return fmt.Sprintf("48;2;%d;%d;%d", c.R, c.G, c.B), true
		}
		return fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B), true
	default:
		return "", false
	}
}

// ANSIReset terminates any open SGR styling.
const ANSIReset = "\x1b[0m"

// SGR composes an ANSI SGR escape sequence for the given style attributes.
// Zero-value colors and false booleans are omitted. Returns "" when nothing
// in the style differs from the terminal default.
func SGR(fg, bg Color, bold, italic, underline, reverse, crossedOut bool) string {
	var params []string
	if bold {
		params = append(params, "1")
	}
	if italic {
		params = append(params, "3")
	}
	if underline {
		params = append(params, "4")
	}
	if reverse {
		params = append(params, "7")
	}
	if crossedOut {
		params = append(params, "9")
	}
	if p, ok := fg.sgrParam(false); ok {
		params = append(params, p)
	}
	if p, ok := bg.sgrParam(true); ok {
		params = append(params, p)
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}
