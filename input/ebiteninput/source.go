// Package ebiteninput feeds Ebitengine's keyboard and mouse state into the
// input package.
package ebiteninput

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rengine/input"
)

// Source reports signals from inpututil. Ebitengine tracks every key
// continuously, so held keys report "repeat" each frame.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) KeySignal(key input.KeyCode) input.Signal {
	k := ebiten.Key(key)
	return signal(inpututil.KeyPressDuration(k), inpututil.IsKeyJustReleased(k))
}

func (s *Source) MouseSignal(button input.MouseButton) input.Signal {
	b := ebiten.MouseButton(button)
	return signal(inpututil.MouseButtonPressDuration(b), inpututil.IsMouseButtonJustReleased(b))
}

func signal(duration int, justReleased bool) input.Signal {
	switch {
	case duration == 1:
		return input.SignalDown
	case duration > 1:
		return input.SignalRepeat
	case justReleased:
		return input.SignalUp
	default:
		return input.SignalNone
	}
}

// ParseKey resolves an Ebitengine key name such as "W", "ArrowUp" or
// "Escape".
func ParseKey(name string) (input.KeyCode, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("ebiteninput: key %q: %w", name, err)
	}
	return input.KeyCode(k), nil
}

// ParseMouseButton accepts "left", "right" or "middle".
func ParseMouseButton(name string) (input.MouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return input.MouseButton(ebiten.MouseButtonLeft), nil
	case "right":
		return input.MouseButton(ebiten.MouseButtonRight), nil
	case "middle":
		return input.MouseButton(ebiten.MouseButtonMiddle), nil
	default:
		return 0, fmt.Errorf("ebiteninput: unknown mouse button %q", name)
	}
}
