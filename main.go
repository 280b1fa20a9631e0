package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lcxl-sequence/config"
	"lcxl-sequence/debug"
	"lcxl-sequence/midi"
	"lcxl-sequence/project"
	"lcxl-sequence/satellite"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/session"
	"lcxl-sequence/theme"
	"lcxl-sequence/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "write debug.log to the config directory")
	seed := flag.Int64("seed", 0, "random seed (0 = time seeded)")
	projectName := flag.String("project", "", "project to save into and load from")
	flag.Parse()

	if err := run(*debugFlag, *seed, *projectName); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(debugFlag bool, seed int64, projectName string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if debugFlag || cfg.Debug {
		if err := debug.Enable(dir); err != nil {
			return err
		}
		defer debug.Disable()
	}

	// Load theme
	th := theme.New(nil)
	if cfg.UI.Palette != "" {
		palette, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			debug.Warn("main", "palette: %v", err)
		} else {
			th = theme.New(palette)
		}
	}

	if seed == 0 {
		seed = cfg.Engine.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := session.New(session.Config{
		ID:       1,
		Channel:  cfg.MIDIChannel(),
		Template: uint8(cfg.Controller.Template),
		Rand:     sequencer.NewRand(seed),
	})
	s.SetOutputLane(cfg.Engine.OutputLane)

	chain, err := satellite.Chain(cfg.Engine.Satellites)
	if err != nil {
		return fmt.Errorf("satellites: %w", err)
	}

	store := project.NewStore(dir)
	if projectName == "" {
		projectName = cfg.UI.LastProject
	}
	if projectName != "" {
		if p, err := store.LoadProject(projectName, ""); err == nil {
			s.Restore(p.State())
		} else {
			debug.Log("main", "no save loaded for %s: %v", projectName, err)
		}
	}

	runner := session.NewRunner(s, chain, session.Patching{
		ClockA:      cfg.Clock.ClockA,
		ClockB:      cfg.Clock.ClockB,
		Reset:       cfg.Clock.Reset,
		LaneA:       cfg.Clock.LaneA,
		LaneB:       cfg.Clock.LaneB,
		InternalBPM: cfg.Clock.InternalBPM,
		TickRate:    cfg.Engine.TickRate,
	})
	debug.Log("main", "seed=%d satellites=%v clock expander=%v", seed, cfg.Engine.Satellites, cfg.Clock.Expander())

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(midi.Match{
		Surface:  cfg.Controller.PortMatch,
		GatePort: cfg.Clock.PortMatch,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)
	go runner.Run(ctx)

	fmt.Println("lcxl-sequence")
	fmt.Println("Connect the Launch Control XL any time - it will be detected automatically")
	fmt.Println("")

	m := tui.NewModel(runner, deviceMgr, store, th)
	m.AutoConnect = cfg.Controller.AutoConnect
	if projectName != "" {
		m.Project = projectName
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	cfg.UI.LastProject = m.Project
	if err := cfg.Save(); err != nil {
		debug.Warn("main", "save config: %v", err)
	}
	return nil
}
