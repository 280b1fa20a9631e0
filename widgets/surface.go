// Package widgets draws the terminal mirror of the controller surface.
package widgets

import (
	"fmt"
	"strings"

	"lcxl-sequence/lcxl"
	"lcxl-sequence/session"
	"lcxl-sequence/theme"

	"github.com/charmbracelet/lipgloss"
)

// faderGlyphs are eighth blocks, lowest first
var faderGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// RenderLED renders a single LED glyph in its level's color
func RenderLED(th *theme.Theme, glyph rune, c lcxl.Color) string {
	if c == lcxl.Off {
		glyph = th.Symbols.Unlit
	}
	return lipgloss.NewStyle().Foreground(th.LEDColor(c)).Render(string(glyph))
}

// RenderLEDRow renders a row of LEDs with spacing
func RenderLEDRow(th *theme.Theme, glyph rune, colors []lcxl.Color) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString("  ")
		}
		out.WriteString(RenderLED(th, glyph, c))
	}
	return out.String()
}

// RenderFaders renders fader positions 0-127 as block glyphs
func RenderFaders(th *theme.Theme, faders [lcxl.NumFaders]int) string {
	style := lipgloss.NewStyle().Foreground(th.FG())
	var out strings.Builder
	for i, v := range faders {
		if i > 0 {
			out.WriteString("  ")
		}
		idx := max(0, min(len(faderGlyphs)-1, v*(len(faderGlyphs)-1)/127))
		out.WriteString(style.Render(string(faderGlyphs[idx])))
	}
	return out.String()
}

// RenderSurface lays a frame out like the hardware: three knob rows, the
// faders, then the focus and control button rows.
func RenderSurface(th *theme.Theme, f session.Frame, faders [lcxl.NumFaders]int) string {
	var lines []string
	for row := 0; row < 3; row++ {
		colors := make([]lcxl.Color, 8)
		for col := range colors {
			colors[col] = f.Knob(row*8 + col)
		}
		lines = append(lines, RenderLEDRow(th, th.Symbols.Knob, colors))
	}
	lines = append(lines, RenderFaders(th, faders))
	for row := 0; row < 2; row++ {
		colors := make([]lcxl.Color, 8)
		for col := range colors {
			colors[col] = f.Button(row*8 + col)
		}
		lines = append(lines, RenderLEDRow(th, th.Symbols.Button, colors))
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "● Name - description"
func RenderLegendItem(th *theme.Theme, c lcxl.Color, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderLED(th, th.Symbols.Knob, c), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
