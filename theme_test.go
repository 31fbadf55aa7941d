package conrec

import "testing"

func TestThemeByNameFallsBackToAsciinema(t *testing.T) {
	if got := ThemeByName("does-not-exist"); got.Name != "asciinema" {
		t.Errorf("expected fallback to asciinema, got %q", got.Name)
	}
}

func TestThemeByNameKnownThemes(t *testing.T) {
	for _, name := range []string{
		"asciinema", "dracula", "monokai", "solarized-dark", "solarized-light",
		"nord", "one-dark", "github-dark", "tokyo-night",
	} {
		if got := ThemeByName(name); got.Name != name {
			t.Errorf("ThemeByName(%q).Name = %q", name, got.Name)
		}
	}
}

func TestColorForPaletteEntries(t *testing.T) {
	th := ThemeByName("asciinema")
	for i := 0; i < 16; i++ {
		if got := th.ColorFor(i); got != th.Palette[i] {
			t.Errorf("ColorFor(%d) = %+v, want palette entry %+v", i, got, th.Palette[i])
		}
	}
}

func TestColorForCubeFormula(t *testing.T) {
	th := ThemeByName("asciinema")

	// index 16 is cube coordinate (0,0,0) -> black
	if got := th.ColorFor(16); got != (RGB{0, 0, 0}) {
		t.Errorf("ColorFor(16) = %+v, want black", got)
	}
	// index 231 is cube coordinate (5,5,5) -> 55+40*5 = 255 on each channel
	if got := th.ColorFor(231); got != (RGB{255, 255, 255}) {
		t.Errorf("ColorFor(231) = %+v, want white", got)
	}
}

func TestColorForGrayscaleFormula(t *testing.T) {
	th := ThemeByName("asciinema")

	if got := th.ColorFor(232); got != (RGB{8, 8, 8}) {
		t.Errorf("ColorFor(232) = %+v, want {8,8,8}", got)
	}
	if got := th.ColorFor(255); got != (RGB{238, 238, 238}) {
		t.Errorf("ColorFor(255) = %+v, want {238,238,238}", got)
	}
}

func TestFgForAndBgFor(t *testing.T) {
	th := ThemeByName("asciinema")

	if got, ok := th.FgFor(39); !ok || got != th.Foreground {
		t.Errorf("FgFor(39) = %+v, ok=%v, want theme foreground", got, ok)
	}
	if got, ok := th.BgFor(49); !ok || got != th.Background {
		t.Errorf("BgFor(49) = %+v, ok=%v, want theme background", got, ok)
	}
	if got, ok := th.FgFor(31); !ok || got != th.Palette[1] {
		t.Errorf("FgFor(31) = %+v, ok=%v, want palette[1]", got, ok)
	}
	if got, ok := th.BgFor(104); !ok || got != th.Palette[12] {
		t.Errorf("BgFor(104) = %+v, ok=%v, want palette[12]", got, ok)
	}
	if _, ok := th.FgFor(12); ok {
		t.Error("expected FgFor(12) to report not-ok")
	}
}
