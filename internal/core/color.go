package core

import "strings"

// Color is an actor's visual tag and the foreground color of a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorPink
	ColorGray
)

var colorNames = map[Color]string{
	ColorDefault: "default",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorMagenta: "purple",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
	ColorOrange:  "orange",
	ColorPink:    "pink",
	ColorGray:    "gray",
}

// String returns the color's name.
func (c Color) String() string {
	if n, ok := colorNames[c]; ok {
		return n
	}
	return "default"
}

// ParseColor returns the color with the given name (case-insensitive).
func ParseColor(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range colorNames {
		if n == name {
			return c, true
		}
	}
	return ColorDefault, false
}

// Palette is the ordered set of colors actors can wear.
// The setcolor block indexes into it modulo its length.
var Palette = []Color{
	ColorRed,
	ColorBlue,
	ColorGreen,
	ColorYellow,
	ColorMagenta,
	ColorPink,
}
