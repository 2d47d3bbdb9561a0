package system

import (
	"github.com/milk9111/rengine/common"
	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type blinkFade struct {
	tween *gween.Tween
	// last is the amplitude written back; a different value means the blink
	// was replaced and the fade restarts.
	last float32
}

// BlinkSystem fades the amplitude of timed blinks to zero and removes them
// once the fade ends. Blinks with no duration are left alone.
type BlinkSystem struct {
	dt    float32
	fades map[ecs.Entity]*blinkFade
}

// NewBlinkSystem advances fades by dt seconds per Update.
func NewBlinkSystem(dt float32) *BlinkSystem {
	if dt <= 0 {
		dt = 1.0 / 60
	}
	return &BlinkSystem{dt: dt, fades: make(map[ecs.Entity]*blinkFade)}
}

func (s *BlinkSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for e := range s.fades {
		if !ecs.Has(w, e, component.BlinkComponent) {
			delete(s.fades, e)
		}
	}

	for _, e := range w.Query(component.BlinkComponent.Kind()) {
		b, ok := ecs.Get(w, e, component.BlinkComponent)
		if !ok || b.Duration <= 0 {
			continue
		}

		f, ok := s.fades[e]
		if !ok || f.last != b.Amplitude {
			f = &blinkFade{tween: gween.New(common.Clamp01(b.Amplitude), 0, b.Duration, ease.OutQuad)}
			s.fades[e] = f
		}

		amp, done := f.tween.Update(s.dt)
		if done {
			_ = ecs.Remove(w, e, component.BlinkComponent)
			delete(s.fades, e)
			continue
		}
		b.Amplitude = amp
		f.last = amp
		_ = ecs.Add(w, e, component.BlinkComponent, b)
	}
}
