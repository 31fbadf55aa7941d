package conrec

import "fmt"

// ColorKind tags the variant held by a [Color] value.
type ColorKind uint8

const (
	// ColorDefault means "use the theme's foreground or background",
	// depending on which slot the color occupies.
	ColorDefault ColorKind = iota
	// ColorAnsi16 is one of the 16 standard/bright ANSI colors (0..15).
	ColorAnsi16
	// ColorPalette256 is an index into the 256-color cube/grayscale palette.
	ColorPalette256
	// ColorRGB is a true 24-bit color.
	ColorRGB
)

// Color is a tagged value representing a terminal color: the theme default,
// one of 16 named ANSI colors, a 256-color palette index, or a true RGB
// triple. The zero value is ColorDefault.
type Color struct {
	Kind    ColorKind
	Index   uint8 // valid for ColorAnsi16 (0..15) and ColorPalette256 (0..255)
	R, G, B uint8 // valid for ColorRGB
}

// Ansi16Color constructs a ColorAnsi16 value. idx is clamped into 0..15.
func Ansi16Color(idx int) Color {
	if idx < 0 {
		idx = 0
	}
	if idx > 15 {
		idx = 15
	}
	return Color{Kind: ColorAnsi16, Index: uint8(idx)}
}

// Palette256Color constructs a ColorPalette256 value. idx is clamped into 0..255.
func Palette256Color(idx int) Color {
	if idx < 0 {
		idx = 0
	}
	if idx > 255 {
		idx = 255
	}
	return Color{Kind: ColorPalette256, Index: uint8(idx)}
}

// RGBColor constructs a ColorRGB value.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsDefault reports whether c carries no explicit color.
func (c Color) IsDefault() bool {
	return c.Kind == ColorDefault
}

func (c Color) String() string {
	switch c.Kind {
	case ColorDefault:
		return "default"
	case ColorAnsi16:
		return fmt.Sprintf("ansi16:%d", c.Index)
	case ColorPalette256:
		return fmt.Sprintf("palette256:%d", c.Index)
	case ColorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	default:
		return "unknown"
	}
}

// StyledCell stores the character and styling for one grid position.
// The default value is a space with no active colors or attributes.
type StyledCell struct {
	Glyph         rune
	Fg            Color
	Bg            Color
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// DefaultCell returns a cell holding a space with default style.
func DefaultCell() StyledCell {
	return StyledCell{Glyph: ' '}
}

// Equal reports whether two cells have identical glyph and style.
// Used by [GridSnapshot.Diff] to find changed cells.
func (c StyledCell) Equal(other StyledCell) bool {
	return c == other
}

// SameStyle reports whether two cells share fg/bg/attributes, ignoring glyph.
// Used by the SGR-transition logic in diff and render paths.
func (c StyledCell) SameStyle(other StyledCell) bool {
	return c.Fg == other.Fg && c.Bg == other.Bg &&
		c.Bold == other.Bold && c.Italic == other.Italic &&
		c.Underline == other.Underline && c.Strikethrough == other.Strikethrough
}
