package component

import "image/color"

// Blink pulses a sprite toward Color. The waveform belongs to the sprite
// shader; the renderer only forwards color, amplitude and elapsed time.
type Blink struct {
	Color     color.NRGBA
	Amplitude float32
	// Duration in seconds over which Amplitude fades to zero before the
	// component is removed. Zero keeps the blink until game logic removes it.
	Duration float32
}

var BlinkComponent = NewComponent[Blink]()
