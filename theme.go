package conrec

// RGB is a plain 24-bit color triple, used for theme colors and the
// resolved output of [Theme.ColorFor].
type RGB struct {
	R, G, B uint8
}

// Theme is an immutable named color scheme: a background, foreground,
// cursor color, and the 16 base ANSI colors. The 256-color cube and
// grayscale ramp above index 15 are derived procedurally, not stored,
// per [Theme.ColorFor].
type Theme struct {
	Name       string
	Background RGB
	Foreground RGB
	Cursor     RGB
	Palette    [16]RGB
}

// cube216 and grayscale24 are built once in init, the same procedural
// construction the teacher's colors.go uses for its DefaultPalette,
// parameterized here per-theme instead of as one package-level table.
var (
	cube216     [216]RGB
	grayscale24 [24]RGB
)

func init() {
	i := 0
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				cube216[i] = RGB{cubeAxis(r), cubeAxis(g), cubeAxis(b)}
				i++
			}
		}
	}
	for n := 0; n < 24; n++ {
		v := uint8(10*n + 8)
		grayscale24[n] = RGB{v, v, v}
	}
}

func cubeAxis(a int) uint8 {
	if a == 0 {
		return 0
	}
	return uint8(55 + 40*a)
}

// ColorFor resolves a 256-color index (0..255) against this theme's
// 16-entry palette and the shared cube/grayscale ramp.
func (t Theme) ColorFor(index int) RGB {
	switch {
	case index < 0:
		return t.Palette[0]
	case index < 16:
		return t.Palette[index]
	case index < 232:
		return cube216[index-16]
	case index < 256:
		return grayscale24[index-232]
	default:
		return grayscale24[23]
	}
}

// FgFor resolves an SGR foreground code: 30-37/90-97 index into the
// palette, 39 returns the theme foreground.
func (t Theme) FgFor(sgrCode int) (RGB, bool) {
	switch {
	case sgrCode == 39:
		return t.Foreground, true
	case sgrCode >= 30 && sgrCode <= 37:
		return t.Palette[sgrCode-30], true
	case sgrCode >= 90 && sgrCode <= 97:
		return t.Palette[8+sgrCode-90], true
	default:
		return RGB{}, false
	}
}

// BgFor resolves an SGR background code: 40-47/100-107 index into the
// palette, 49 returns the theme background.
func (t Theme) BgFor(sgrCode int) (RGB, bool) {
	switch {
	case sgrCode == 49:
		return t.Background, true
	case sgrCode >= 40 && sgrCode <= 47:
		return t.Palette[sgrCode-40], true
	case sgrCode >= 100 && sgrCode <= 107:
		return t.Palette[8+sgrCode-100], true
	default:
		return RGB{}, false
	}
}

var themes = map[string]Theme{
	"asciinema": {
		Name: "asciinema", Background: RGB{0, 0, 0}, Foreground: RGB{229, 229, 229}, Cursor: RGB{229, 229, 229},
		Palette: [16]RGB{
			{0, 0, 0}, {205, 49, 49}, {13, 188, 121}, {229, 229, 16},
			{36, 114, 200}, {188, 63, 188}, {17, 168, 205}, {229, 229, 229},
			{102, 102, 102}, {241, 76, 76}, {35, 209, 139}, {245, 245, 67},
			{59, 142, 234}, {214, 112, 214}, {41, 184, 219}, {255, 255, 255},
		},
	},
	"dracula": {
		Name: "dracula", Background: RGB{40, 42, 54}, Foreground: RGB{248, 248, 242}, Cursor: RGB{248, 248, 242},
		Palette: [16]RGB{
			{33, 34, 44}, {255, 85, 85}, {80, 250, 123}, {241, 250, 140},
			{189, 147, 249}, {255, 121, 198}, {139, 233, 253}, {248, 248, 242},
			{98, 114, 164}, {255, 110, 110}, {105, 255, 145}, {244, 249, 157},
			{212, 182, 255}, {255, 146, 208}, {154, 237, 254}, {255, 255, 255},
		},
	},
	"monokai": {
		Name: "monokai", Background: RGB{39, 40, 34}, Foreground: RGB{248, 248, 242}, Cursor: RGB{248, 248, 242},
		Palette: [16]RGB{
			{39, 40, 34}, {249, 38, 114}, {166, 226, 46}, {244, 191, 117},
			{102, 217, 239}, {174, 129, 255}, {161, 239, 228}, {248, 248, 242},
			{117, 113, 94}, {249, 38, 114}, {166, 226, 46}, {230, 219, 116},
			{102, 217, 239}, {174, 129, 255}, {161, 239, 228}, {249, 248, 245},
		},
	},
	"solarized-dark": {
		Name: "solarized-dark", Background: RGB{0, 43, 54}, Foreground: RGB{131, 148, 150}, Cursor: RGB{131, 148, 150},
		Palette: [16]RGB{
			{7, 54, 66}, {220, 50, 47}, {133, 153, 0}, {181, 137, 0},
			{38, 139, 210}, {211, 54, 130}, {42, 161, 152}, {238, 232, 213},
			{0, 43, 54}, {203, 75, 22}, {88, 110, 117}, {101, 123, 131},
			{131, 148, 150}, {108, 113, 196}, {147, 161, 161}, {253, 246, 227},
		},
	},
	"solarized-light": {
		Name: "solarized-light", Background: RGB{253, 246, 227}, Foreground: RGB{101, 123, 131}, Cursor: RGB{101, 123, 131},
		Palette: [16]RGB{
			{7, 54, 66}, {220, 50, 47}, {133, 153, 0}, {181, 137, 0},
			{38, 139, 210}, {211, 54, 130}, {42, 161, 152}, {238, 232, 213},
			{0, 43, 54}, {203, 75, 22}, {88, 110, 117}, {101, 123, 131},
			{131, 148, 150}, {108, 113, 196}, {147, 161, 161}, {253, 246, 227},
		},
	},
	"nord": {
		Name: "nord", Background: RGB{46, 52, 64}, Foreground: RGB{216, 222, 233}, Cursor: RGB{216, 222, 233},
		Palette: [16]RGB{
			{59, 66, 82}, {191, 97, 106}, {163, 190, 140}, {235, 203, 139},
			{94, 129, 172}, {180, 142, 173}, {136, 192, 208}, {229, 233, 240},
			{76, 86, 106}, {191, 97, 106}, {163, 190, 140}, {235, 203, 139},
			{94, 129, 172}, {180, 142, 173}, {143, 188, 187}, {236, 239, 244},
		},
	},
	"one-dark": {
		Name: "one-dark", Background: RGB{40, 44, 52}, Foreground: RGB{171, 178, 191}, Cursor: RGB{171, 178, 191},
		Palette: [16]RGB{
			{40, 44, 52}, {224, 108, 117}, {152, 195, 121}, {229, 192, 123},
			{97, 175, 239}, {198, 120, 221}, {86, 182, 194}, {171, 178, 191},
			{92, 99, 112}, {224, 108, 117}, {152, 195, 121}, {229, 192, 123},
			{97, 175, 239}, {198, 120, 221}, {86, 182, 194}, {255, 255, 255},
		},
	},
	"github-dark": {
		Name: "github-dark", Background: RGB{13, 17, 23}, Foreground: RGB{201, 209, 217}, Cursor: RGB{201, 209, 217},
		Palette: [16]RGB{
			{1, 4, 9}, {255, 123, 114}, {86, 211, 100}, {224, 196, 90},
			{77, 156, 255}, {188, 140, 255}, {86, 211, 220}, {201, 209, 217},
			{110, 118, 129}, {255, 166, 158}, {126, 231, 135}, {245, 223, 138},
			{130, 185, 255}, {212, 170, 255}, {118, 231, 225}, {255, 255, 255},
		},
	},
	"tokyo-night": {
		Name: "tokyo-night", Background: RGB{26, 27, 38}, Foreground: RGB{192, 202, 245}, Cursor: RGB{192, 202, 245},
		Palette: [16]RGB{
			{21, 22, 30}, {247, 118, 142}, {158, 206, 106}, {224, 175, 104},
			{122, 162, 247}, {187, 154, 247}, {125, 207, 255}, {169, 177, 214},
			{65, 72, 104}, {247, 118, 142}, {158, 206, 106}, {224, 175, 104},
			{122, 162, 247}, {187, 154, 247}, {125, 207, 255}, {192, 202, 245},
		},
	},
}

// ThemeByName returns the named theme, falling back to "asciinema" for
// unknown names per spec.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["asciinema"]
}
