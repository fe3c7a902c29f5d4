package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the platform renderer.
type Color uint8

// Palette used by the pad and the HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightWhite
	ColorGray
)

// Bright returns the lit variant of a base color.
// Colors without a lit variant are returned unchanged.
func (c Color) Bright() Color {
	switch c {
	case ColorRed:
		return ColorBrightRed
	case ColorGreen:
		return ColorBrightGreen
	case ColorYellow:
		return ColorBrightYellow
	case ColorBlue:
		return ColorBrightBlue
	case ColorWhite:
		return ColorBrightWhite
	default:
		return c
	}
}
