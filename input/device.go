package input

import "fmt"

// Device selects which hardware a binding listens to.
type Device uint8

const (
	DeviceKeyboard Device = iota
	DeviceMouseButton
)

func (d Device) String() string {
	switch d {
	case DeviceKeyboard:
		return "keyboard"
	case DeviceMouseButton:
		return "mouse"
	default:
		return fmt.Sprintf("device(%d)", uint8(d))
	}
}

// KeyCode identifies a keyboard key in the source's numbering.
type KeyCode int

// MouseButton identifies a mouse button in the source's numbering.
type MouseButton int

// SignalSource reports this frame's raw signal per hardware input.
type SignalSource interface {
	KeySignal(key KeyCode) Signal
	MouseSignal(button MouseButton) Signal
}

// Binding ties an action name to one hardware input. Code is copied into
// the map; it is the key code for DeviceKeyboard and the button for
// DeviceMouseButton.
type Binding struct {
	Name   string
	Device Device
	Code   int
}

func Key(name string, key KeyCode) Binding {
	return Binding{Name: name, Device: DeviceKeyboard, Code: int(key)}
}

func Mouse(name string, button MouseButton) Binding {
	return Binding{Name: name, Device: DeviceMouseButton, Code: int(button)}
}

func (b Binding) signal(src SignalSource) Signal {
	switch b.Device {
	case DeviceKeyboard:
		return src.KeySignal(KeyCode(b.Code))
	case DeviceMouseButton:
		return src.MouseSignal(MouseButton(b.Code))
	default:
		return SignalNone
	}
}
