package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"lcxl-sequence/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Kind       ControllerType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// Match selects which ports become controllers. Empty GatePort disables the
// gate input.
type Match struct {
	Surface  string
	GatePort string
}

// Matches reports whether the port name contains pattern, ignoring case
func Matches(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

// DeviceManager handles hot-plug detection of MIDI controllers
type DeviceManager struct {
	match       Match
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(match Match) *DeviceManager {
	return &DeviceManager{
		match:       match,
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	copy := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		copy[k] = v
	}
	return copy
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// ListPorts returns the names of every input and output port
func ListPorts() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		inPorts := gomidi.GetInPorts()
		outPorts := gomidi.GetOutPorts()
		ch <- portsResult{inPorts: inPorts, outPorts: outPorts}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		debug.Warn("midi", "port scan timed out, retrying next poll")
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		name := inPort.String()
		var kind ControllerType
		switch {
		case Matches(name, dm.match.Surface):
			kind = ControllerLaunchControl
		case Matches(name, dm.match.GatePort):
			kind = ControllerGates
		default:
			continue
		}

		id := name
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		c, err := dm.open(kind, id, inPorts[i], outPorts)
		if err != nil {
			debug.Warn("midi", "open %s: %v", id, err)
			delete(seenIDs, id)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()

		debug.Log("midi", "connected %s (%s)", id, kind)
		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Kind:       kind,
			Controller: c,
			ID:         id,
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %s", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			Kind: c.Type(),
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) open(kind ControllerType, id string, in drivers.In, outPorts []drivers.Out) (Controller, error) {
	if kind == ControllerGates {
		return NewGateController(id, in)
	}

	// Find matching output port
	var outPort drivers.Out
	for j, op := range outPorts {
		if strings.EqualFold(op.String(), id) {
			outPort = outPorts[j]
			break
		}
	}
	return NewLaunchControlController(id, in, outPort)
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}
