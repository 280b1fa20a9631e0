package widgets

import (
	"fmt"
	"strings"

	"lcxl-sequence/bus"
	"lcxl-sequence/satellite"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/theme"

	"github.com/charmbracelet/lipgloss"
)

// PatternCells returns one glyph per step. In dual mode A owns 0-7 and B
// owns 8-15; a step at or past its side's length shows as beyond.
func PatternCells(sym theme.Symbols, l *bus.LaneData) [sequencer.NumSteps]rune {
	var cells [sequencer.NumSteps]rune
	for i := range cells {
		cursor, length, pos := l.StepA, l.StepLengthA, i
		if !l.StepSingle && i >= sequencer.HalfSteps {
			cursor, length, pos = l.StepB, l.StepLengthB, i-sequencer.HalfSteps
		}
		switch {
		case pos >= length:
			cells[i] = sym.StepBeyond
		case pos == cursor:
			cells[i] = sym.StepPlayhead
		case l.Steps[i]:
			cells[i] = sym.StepOn
		default:
			cells[i] = sym.StepOff
		}
	}
	return cells
}

// RenderLaneRow renders one lane: index, pattern, lengths and modes.
func RenderLaneRow(th *theme.Theme, index int, l *bus.LaneData, selected bool) string {
	onStyle := lipgloss.NewStyle().Foreground(th.Success())
	headStyle := lipgloss.NewStyle().Foreground(th.Active())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	labelStyle := lipgloss.NewStyle().Foreground(th.FG())
	if selected {
		labelStyle = labelStyle.Foreground(th.Accent()).Bold(true)
	}

	var pattern strings.Builder
	for i, c := range PatternCells(th.Symbols, l) {
		if i == sequencer.HalfSteps && !l.StepSingle {
			pattern.WriteString(dimStyle.Render("|"))
		}
		switch c {
		case th.Symbols.StepPlayhead:
			pattern.WriteString(headStyle.Render(string(c)))
		case th.Symbols.StepOn:
			pattern.WriteString(onStyle.Render(string(c)))
		default:
			pattern.WriteString(dimStyle.Render(string(c)))
		}
	}

	mode := "dual " + l.Competition.String()
	if l.StepSingle {
		mode = "single " + l.Routing.String()
	}
	fire := fmt.Sprintf("%s%s", flag(l.FiredA, "A"), flag(l.FiredB, "B"))
	if l.PendingEchoA || l.PendingEchoB {
		fire += " echo"
	}

	return fmt.Sprintf("%s %s  %s  %s  %s  %s",
		labelStyle.Render(fmt.Sprintf("%d", index+1)),
		pattern.String(),
		dimStyle.Render(fmt.Sprintf("S%2d/%d V%2d/%d", l.StepLengthA, l.StepLengthB, l.ValueLengthA, l.ValueLengthB)),
		dimStyle.Render(fmt.Sprintf("%-4s%-4s", rangeText(l.RangeA, l.BipolarA), rangeText(l.RangeB, l.BipolarB))),
		labelStyle.Render(mode),
		headStyle.Render(fire),
	)
}

func flag(on bool, s string) string {
	if on {
		return s
	}
	return " "
}

func rangeText(r sequencer.Range, bipolar bool) string {
	if bipolar {
		return "±" + r.String()
	}
	return r.String()
}

// RenderLanes renders the lane table, highlighting the viewed layout.
func RenderLanes(th *theme.Theme, lanes *[sequencer.NumLanes]bus.LaneData, layout int) string {
	lines := make([]string, 0, len(lanes))
	for i := range lanes {
		lines = append(lines, RenderLaneRow(th, i, &lanes[i], layout == i+1))
	}
	return strings.Join(lines, "\n")
}

// RenderSatellites renders one panel per satellite in chain order.
func RenderSatellites(th *theme.Theme, consumers []bus.Consumer) string {
	titleStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Muted()).
		Padding(0, 1)

	var panels []string
	for _, c := range consumers {
		title := titleStyle.Render(string(c.Kind()))
		body, connected := satelliteBody(th, c)
		if !connected {
			body = dimStyle.Render("disconnected")
		}
		panels = append(panels, panel.Render(title+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func satelliteBody(th *theme.Theme, c bus.Consumer) (string, bool) {
	switch s := c.(type) {
	case *satellite.Gate:
		return voltRow(th, s.Out[:8]) + "\n" + voltRow(th, s.Out[8:]), s.Connected
	case *satellite.Knob:
		return voltRow(th, s.Out[:8]) + "\n" + voltRow(th, s.Out[8:16]) + "\n" + voltRow(th, s.Out[16:]), s.Connected
	case *satellite.Seq:
		return voltRow(th, s.TrigA[:]) + "\n" + cvRow(s.CVA[:]) + "\n" + cvRow(s.CVB[:]), s.Connected
	case *satellite.Steps:
		return stepLights(th, s), s.Connected
	case *satellite.Info:
		return strings.Join(s.Lines[:], "\n"), s.Connected
	}
	return "", false
}

func voltRow(th *theme.Theme, volts []float64) string {
	var out strings.Builder
	for i, v := range volts {
		if i > 0 {
			out.WriteString(" ")
		}
		style := lipgloss.NewStyle().Foreground(th.Color(max(0, min(1, v/10))))
		out.WriteString(style.Render(string(th.Symbols.Button)))
	}
	return out.String()
}

func cvRow(volts []float64) string {
	parts := make([]string, len(volts))
	for i, v := range volts {
		parts[i] = fmt.Sprintf("%+5.2f", v)
	}
	return strings.Join(parts, " ")
}

func stepLights(th *theme.Theme, s *satellite.Steps) string {
	lines := make([]string, 0, len(s.Lights))
	for _, lane := range s.Lights {
		var line strings.Builder
		for _, light := range lane {
			c := th.Palette.Lookup(theme.RoleSurface)
			glyph := th.Symbols.Unlit
			switch {
			case light.Green > 0:
				c = th.RGB(theme.RoleSuccess * light.Green)
				glyph = th.Symbols.Knob
			case light.Red > 0:
				c = th.RGB(theme.RoleActive * light.Red)
				glyph = th.Symbols.Knob
			}
			line.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(glyph)))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
