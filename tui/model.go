package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lcxl-sequence/bus"
	"lcxl-sequence/debug"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/midi"
	"lcxl-sequence/project"
	"lcxl-sequence/satellite"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/session"
	"lcxl-sequence/theme"
	"lcxl-sequence/widgets"
)

// prompt is what the text input is collecting
type prompt int

const (
	promptNone prompt = iota
	promptSave
	promptSavePreset
	promptLoadPreset
)

var promptTitles = map[prompt]string{
	promptSave:       "save as",
	promptSavePreset: "save lane preset",
	promptLoadPreset: "load lane preset",
}

var keyHelp = []widgets.KeySection{
	{Title: "Keys", Keys: []widgets.KeyBinding{
		{Key: "0-8", Desc: "view layout"},
		{Key: "t", Desc: "take over surface"},
		{Key: "r", Desc: "reset playheads"},
		{Key: "s / l", Desc: "save / load newest project"},
		{Key: "p / P", Desc: "save / load lane preset"},
		{Key: "q", Desc: "quit"},
	}},
}

type Model struct {
	Runner    *session.Runner
	DeviceMgr *midi.DeviceManager
	Store     *project.Store
	Theme     *theme.Theme
	Project   string

	// AutoConnect attaches a surface as soon as it is found. Otherwise it
	// waits for the takeover key.
	AutoConnect bool
	pending     *midi.DeviceEvent

	input    textinput.Model
	prompt   prompt
	status   string
	quitting bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(runner *session.Runner, deviceMgr *midi.DeviceManager, store *project.Store, th *theme.Theme) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	return Model{
		Runner:      runner,
		DeviceMgr:   deviceMgr,
		Store:       store,
		Theme:       th,
		Project:     "untitled",
		AutoConnect: true,
		input:       ti,
	}
}

func ListenForUpdates(runner *session.Runner) tea.Cmd {
	return func() tea.Msg {
		<-runner.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Runner)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Runner)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch {
		case event.Type == midi.DeviceConnected && event.Kind == midi.ControllerLaunchControl && !m.AutoConnect:
			m.pending = &event
			m.status = fmt.Sprintf("%s found, press t to take over", event.ID)
		default:
			if m.pending != nil && m.pending.ID == event.ID {
				m.pending = nil
			}
			m.Runner.Attach(event)
			if event.Type == midi.DeviceConnected {
				m.status = fmt.Sprintf("connected %s", event.ID)
			} else {
				m.status = fmt.Sprintf("disconnected %s", event.ID)
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "t":
		if m.pending != nil {
			m.Runner.Attach(*m.pending)
			m.pending = nil
		}
		m.Runner.Do(func(s *session.Session) { s.Takeover() })
		m.status = "takeover requested"

	case "r":
		m.Runner.Do(func(s *session.Session) { s.ResetPlayheads() })
		m.status = "playheads reset"

	case "0", "1", "2", "3", "4", "5", "6", "7", "8":
		n := int(key[0] - '0')
		m.Runner.Do(func(s *session.Session) { s.SwitchLayout(n) })

	case "s":
		return m.openPrompt(promptSave, "")

	case "l":
		m.loadNewest()

	case "p", "P":
		if m.Runner.View().State.Layout == 0 {
			m.status = "select a lane layout first"
			return m, nil
		}
		if key == "p" {
			return m.openPrompt(promptSavePreset, "")
		}
		return m.openPrompt(promptLoadPreset, "")
	}
	return m, nil
}

func (m Model) openPrompt(p prompt, value string) (tea.Model, tea.Cmd) {
	m.prompt = p
	m.input.Prompt = promptTitles[p] + ": "
	m.input.SetValue(value)
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		p := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		switch p {
		case promptSave:
			m.save(value)
		case promptSavePreset:
			m.savePreset(value)
		case promptLoadPreset:
			m.loadPreset(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) save(label string) {
	var st session.State
	m.Runner.Do(func(s *session.Session) { st = s.State() })
	p := project.FromState(st)
	v := m.Runner.View()
	p.OutputDevice = v.Surface
	p.InputDevice = v.Gates

	filename, err := m.Store.SaveProject(m.Project, label, p)
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		debug.Warn("tui", "save: %v", err)
		return
	}
	m.status = fmt.Sprintf("saved %s/%s", m.Project, filename)
}

func (m *Model) loadNewest() {
	p, err := m.Store.LoadProject(m.Project, "")
	if err != nil {
		m.status = fmt.Sprintf("load failed: %v", err)
		return
	}
	st := p.State()
	m.Runner.Do(func(s *session.Session) { s.Restore(st) })
	m.status = fmt.Sprintf("loaded %s", m.Project)
}

func (m *Model) savePreset(name string) {
	var lane sequencer.Lane
	ok := false
	m.Runner.Do(func(s *session.Session) {
		if s.Layout() > 0 {
			lane, ok = s.Lane(s.Layout()-1), true
		}
	})
	if !ok {
		m.status = "select a lane layout first"
		return
	}
	if err := m.Store.SavePreset(name, project.FromLane(&lane)); err != nil {
		m.status = fmt.Sprintf("preset failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("preset %s saved", name)
}

func (m *Model) loadPreset(name string) {
	lp, err := m.Store.LoadPreset(name)
	if err != nil {
		m.status = fmt.Sprintf("preset failed: %v", err)
		return
	}
	m.Runner.Do(func(s *session.Session) {
		s.UpdateLane(s.Layout()-1, func(l *sequencer.Lane) { lp.Apply(l) })
	})
	m.status = fmt.Sprintf("preset %s loaded", name)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := m.Runner.View()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	surface := "no surface"
	if v.Surface != "" {
		surface = v.Surface
		if !v.TakenOver {
			surface += warnStyle.Render(" (not taken over)")
		}
	}
	outLane := "follow"
	if v.State.OutputLane > 0 {
		outLane = fmt.Sprint(v.State.OutputLane)
	}
	mods := ""
	if v.Device {
		mods += " [device]"
	}
	if v.RecordArm {
		mods += " [rec arm]"
	}
	header := headerStyle.Render(fmt.Sprintf("lcxl-sequence  %s  out:%s  %s%s",
		satellite.LayoutName(v.State.Layout), outLane, surface, mods))

	var lanes [sequencer.NumLanes]bus.LaneData
	for i := range v.State.Lanes {
		lanes[i] = bus.LaneFrom(&v.State.Lanes[i])
	}

	var sats string
	m.Runner.Inspect(func(s *session.Session, chain *bus.Chain) {
		sats = widgets.RenderSatellites(m.Theme, chain.Consumers())
	})

	change := dimStyle.Render("no edits yet")
	if v.Change.Type != bus.ChangeNone {
		change = fmt.Sprintf("%s  %s  %s", satellite.LayoutName(v.Change.Layout), v.Change.Type, satellite.ValueText(v.Change))
	}

	outputs := dimStyle.Render(fmt.Sprintf("lane %d  trig %4.1f/%4.1f  cv %+5.2f/%+5.2f  gates %s",
		v.Out.Lane, v.Out.TrigA, v.Out.TrigB, v.Out.CVA, v.Out.CVB, orNone(v.Gates)))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.RenderSurface(m.Theme, v.Frame, v.State.Faders),
		"    ",
		widgets.RenderLanes(m.Theme, &lanes, v.State.Layout),
	))
	out.WriteString("\n\n")
	out.WriteString(outputs)
	out.WriteString("\n")
	out.WriteString(change)
	out.WriteString("\n\n")
	out.WriteString(sats)
	out.WriteString("\n\n")

	if m.prompt != promptNone {
		out.WriteString(m.input.View())
	} else {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
		out.WriteString("\n")
		out.WriteString(strings.Join([]string{
			widgets.RenderLegendItem(m.Theme, lcxl.GreenFull, "green", "knob picked up"),
			widgets.RenderLegendItem(m.Theme, lcxl.YellowFull, "yellow", "turn right to pick up"),
			widgets.RenderLegendItem(m.Theme, lcxl.RedFull, "red", "turn left to pick up"),
		}, "\n"))
	}
	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}

	return out.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
