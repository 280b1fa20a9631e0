package lcxl

import (
	"bytes"

	gomidi "gitlab.com/gomidi/midi/v2"
)

var novationHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x11}

const (
	cmdTemplate = 0x77
	cmdLED      = 0x78
)

// TemplateMessage forces the surface onto a template:
// F0 00 20 29 02 11 77 <template> F7
func TemplateMessage(template uint8) gomidi.Message {
	return gomidi.SysEx(append(append([]byte{}, novationHeader...), cmdTemplate, template))
}

// LEDMessage sets one LED:
// F0 00 20 29 02 11 78 <template> <led> <color> F7
func LEDMessage(template, led uint8, c Color) gomidi.Message {
	return gomidi.SysEx(append(append([]byte{}, novationHeader...), cmdLED, template, led, byte(c)))
}

// ResetMessage clears every LED of the template on channel.
func ResetMessage(channel uint8) gomidi.Message {
	return gomidi.ControlChange(channel, 0, 0)
}

// ParseTemplate reports the template number from the device's
// "template changed" SysEx.
func ParseTemplate(msg gomidi.Message) (uint8, bool) {
	var data []byte
	if !msg.GetSysEx(&data) {
		return 0, false
	}
	data = bytes.TrimPrefix(data, []byte{0xf0})
	data = bytes.TrimSuffix(data, []byte{0xf7})
	if len(data) != len(novationHeader)+2 {
		return 0, false
	}
	if !bytes.Equal(data[:len(novationHeader)], novationHeader) || data[len(novationHeader)] != cmdTemplate {
		return 0, false
	}
	return data[len(data)-1], true
}
