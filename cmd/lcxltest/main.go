package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"lcxl-sequence/lcxl"
	lmidi "lcxl-sequence/midi"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

const portMatch = "launch control xl"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect()
	case "sysex":
		testSysEx()
	case "leds":
		testLEDs()
	case "monitor":
		monitor()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Launch Control XL Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find Launch Control XL")
	fmt.Println("  sysex    - Select factory template 1 and clear LEDs")
	fmt.Println("  leds     - Test LED control")
	fmt.Println("  monitor  - Print decoded controls")
	fmt.Println("  poll     - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins, outs []string
	}
	ch := make(chan result, 1)
	go func() {
		ins, outs := lmidi.ListPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, name := range r.ins {
			fmt.Printf("  %d: %s\n", i, name)
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, name := range r.outs {
			fmt.Printf("  %d: %s\n", i, name)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func findIn() drivers.In {
	for _, p := range midi.GetInPorts() {
		if lmidi.Matches(p.String(), portMatch) {
			return p
		}
	}
	return nil
}

func findOut() drivers.Out {
	for _, p := range midi.GetOutPorts() {
		if lmidi.Matches(p.String(), portMatch) {
			return p
		}
	}
	return nil
}

func detect() {
	fmt.Println("Looking for Launch Control XL...")

	in, out := findIn(), findOut()
	if in != nil {
		fmt.Printf("Found input: %s\n", in.String())
	}
	if out != nil {
		fmt.Printf("Found output: %s\n", out.String())
	}

	if in != nil && out != nil {
		fmt.Println("\nLaunch Control XL detected!")
	} else {
		fmt.Println("\nLaunch Control XL not found")
	}
}

func openSend() func(midi.Message) error {
	outPort := findOut()
	if outPort == nil {
		fmt.Println("No Launch Control XL found")
		return nil
	}
	fmt.Printf("Using output: %s\n", outPort.String())

	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return nil
	}
	return send
}

func testSysEx() {
	send := openSend()
	if send == nil {
		return
	}

	msg := lcxl.TemplateMessage(lcxl.Template)
	fmt.Printf("Sending: template select % X\n", msg.Bytes())
	if err := send(msg); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	time.Sleep(100 * time.Millisecond)

	msg = lcxl.ResetMessage(lcxl.Channel)
	fmt.Printf("Sending: LED reset % X\n", msg.Bytes())
	if err := send(msg); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Done! Surface should be on factory template 1 with LEDs off")
}

func testLEDs() {
	send := openSend()
	if send == nil {
		return
	}

	send(lcxl.TemplateMessage(lcxl.Template))
	time.Sleep(100 * time.Millisecond)

	fmt.Println("Sweeping knob LEDs (green, amber, red)...")
	colors := []lcxl.Color{lcxl.GreenFull, lcxl.AmberFull, lcxl.RedFull}
	for i := 0; i < lcxl.NumKnobs; i++ {
		led, _ := lcxl.KnobLED(i)
		send(lcxl.LEDMessage(lcxl.Template, led, colors[i/8]))
		time.Sleep(30 * time.Millisecond)
	}
	for i := 0; i < lcxl.NumButtons; i++ {
		led, _ := lcxl.ButtonLED(i)
		send(lcxl.LEDMessage(lcxl.Template, led, lcxl.YellowLow))
		time.Sleep(30 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	send(lcxl.ResetMessage(lcxl.Channel))
	fmt.Println("Done!")
}

func monitor() {
	inPort := findIn()
	if inPort == nil {
		fmt.Println("No Launch Control XL found")
		return
	}
	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", inPort.String())

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		var ch, key, val uint8
		switch {
		case msg.GetControlChange(&ch, &key, &val):
			if c, ok := lcxl.DecodeCC(key); ok {
				fmt.Printf("ch%d %s %d\n", ch+1, describe(c), val)
				return
			}
		case msg.GetNoteOn(&ch, &key, &val):
			if c, ok := lcxl.DecodeNote(key); ok {
				fmt.Printf("ch%d %s on %d\n", ch+1, describe(c), val)
				return
			}
		case msg.GetNoteOff(&ch, &key, &val):
			if c, ok := lcxl.DecodeNote(key); ok {
				fmt.Printf("ch%d %s off\n", ch+1, describe(c))
				return
			}
		default:
			if t, ok := lcxl.ParseTemplate(msg); ok {
				fmt.Printf("template changed to %d\n", t)
				return
			}
		}
		fmt.Printf("unmapped: %s\n", msg)
	}, midi.UseSysEx())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer stop()

	select {}
}

var modifierNames = []string{"device", "mute", "solo", "record arm"}
var navNames = []string{"up", "down", "left", "right"}

func describe(c lcxl.Control) string {
	switch c.Kind {
	case lcxl.KindKnob:
		return fmt.Sprintf("knob %d", c.Index())
	case lcxl.KindFader:
		return fmt.Sprintf("fader %d", c.Col)
	case lcxl.KindButton:
		return fmt.Sprintf("button %d", c.Index())
	case lcxl.KindModifier:
		return modifierNames[c.Col]
	case lcxl.KindNav:
		return navNames[c.Col]
	}
	return "?"
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect the Launch Control XL to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		inNames, outNames := lmidi.ListPorts()

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if lmidi.Matches(name, portMatch) {
					fmt.Println("  -> Launch Control XL detected!")
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
