package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"lcxl-sequence/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Inbound buffer; a full buffer drops the newest message.
const messageBuffer = 256

var sendCount uint64

// LaunchControlController handles a Novation Launch Control XL
type LaunchControlController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	msgChan   chan gomidi.Message
	closeOnce sync.Once
	dropped   atomic.Uint64
}

// NewLaunchControlController opens the surface ports. Either port may be
// nil; a missing output makes Send a no-op.
func NewLaunchControlController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchControlController, error) {
	lc := &LaunchControlController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		msgChan: make(chan gomidi.Message, messageBuffer),
	}

	// Open output
	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output %s: %w", outPort, err)
		}
		lc.send = send
	}

	// Open input, SysEx included so template changes come through
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			lc.forward(msg)
		}, gomidi.UseSysEx())
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", inPort, err)
		}
		lc.stopFunc = stop
	}

	return lc, nil
}

// forward copies msg onto the inbound queue without blocking the driver.
func (lc *LaunchControlController) forward(msg gomidi.Message) {
	m := append(gomidi.Message(nil), msg...)
	select {
	case lc.msgChan <- m:
	default:
		n := lc.dropped.Add(1)
		debug.LogEvery(100, "midi", "%s: inbound queue full, dropped=%d", lc.id, n)
	}
}

func (lc *LaunchControlController) ID() string {
	return lc.id
}

func (lc *LaunchControlController) Type() ControllerType {
	return ControllerLaunchControl
}

func (lc *LaunchControlController) Messages() <-chan gomidi.Message {
	return lc.msgChan
}

// Send writes one message to the surface
func (lc *LaunchControlController) Send(msg gomidi.Message) error {
	if lc.send == nil {
		return nil
	}
	atomic.AddUint64(&sendCount, 1)
	if err := lc.send(msg); err != nil {
		return fmt.Errorf("send to %s: %w", lc.id, err)
	}
	return nil
}

// Dropped is the number of inbound messages lost to a full queue
func (lc *LaunchControlController) Dropped() uint64 {
	return lc.dropped.Load()
}

func (lc *LaunchControlController) Close() error {
	lc.closeOnce.Do(func() {
		if lc.stopFunc != nil {
			lc.stopFunc()
		}
		debug.Log("midi", "%s closed after %d sends", lc.id, atomic.LoadUint64(&sendCount))
	})
	return nil
}
