package core

// Color represents a foreground color for a screen cell.
// The platform layer maps these onto ANSI 256-color codes.
type Color uint8

// Palette used by games. ColorDefault leaves the terminal color untouched.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorPeach
	ColorSalmon
	ColorBrown
	ColorSand
	ColorGray
)

// String returns the palette name, used in config files and debug output.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorMagenta:
		return "magenta"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	case ColorBrightRed:
		return "bright_red"
	case ColorBrightYellow:
		return "bright_yellow"
	case ColorBrightCyan:
		return "bright_cyan"
	case ColorBrightWhite:
		return "bright_white"
	case ColorOrange:
		return "orange"
	case ColorPeach:
		return "peach"
	case ColorSalmon:
		return "salmon"
	case ColorBrown:
		return "brown"
	case ColorSand:
		return "sand"
	case ColorGray:
		return "gray"
	default:
		return "unknown"
	}
}
