// Package theme holds the terminal colors and glyphs, and maps Launch
// Control XL LED levels onto screen colors.
package theme

import (
	"lcxl-sequence/lcxl"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Surface mirror
	Knob   rune // ● lit knob
	Button rune // ■ lit button
	Unlit  rune // · LED off

	// Lane pattern
	StepOn       rune // ● active step
	StepOff      rune // · inactive step
	StepPlayhead rune // ▶ cursor on step
	StepBeyond   rune // - past length
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Knob:   '●',
			Button: '■',
			Unlit:  '·',

			StepOn:       '●',
			StepOff:      '·',
			StepPlayhead: '▶',
			StepBeyond:   '-',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.15
	RoleMuted   = 0.3
	RoleFG      = 0.45
	RoleAccent  = 0.6
	RoleWarning = 0.75
	RoleActive  = 0.85
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

var (
	ledRed   = colorful.Color{R: 1, G: 0.15, B: 0.1}
	ledGreen = colorful.Color{R: 0.2, G: 1, B: 0.25}
	ledAmber = colorful.Color{R: 1, G: 0.7, B: 0.1}
)

// LED returns the on-screen color of an LED level. Off maps to the muted
// role; red and green levels scale brightness, mixed levels blend through
// amber.
func (t *Theme) LED(c lcxl.Color) RGB {
	r, g := c.Red(), c.Green()
	if r == 0 && g == 0 {
		return t.Palette.Lookup(RoleMuted)
	}
	var hue colorful.Color
	switch {
	case g == 0:
		hue = ledRed
	case r == 0:
		hue = ledGreen
	case r > g:
		hue = ledRed.BlendLab(ledAmber, float64(g)/float64(r))
	case g > r:
		hue = ledGreen.BlendLab(ledAmber, float64(r)/float64(g))
	default:
		hue = ledAmber
	}
	// brightness 1-3 lifts the level off the background
	level := float64(max(r, g)) / 3
	bg := t.Palette.Lookup(RoleSurface).colorful()
	return fromColorful(bg.BlendLab(hue, 0.35+0.65*level))
}

// LEDColor is LED as a lipgloss color.
func (t *Theme) LEDColor(c lcxl.Color) lipgloss.Color {
	return lipgloss.Color(t.LED(c).Hex())
}
