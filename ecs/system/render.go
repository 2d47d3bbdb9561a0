package system

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/milk9111/rengine/ecs/render"
	"go.uber.org/zap"
)

// RenderSystem draws every entity with a Transform and a Sprite as one
// textured quad through the sprite program.
type RenderSystem struct {
	backend render.Backend
	program render.Program
	quad    render.Quad
	state   render.RenderState

	clear   color.Color
	created time.Time
	now     func() time.Time
	logger  *zap.Logger

	warned map[ecs.Entity]bool
	stats  render.FrameStats
}

type RenderOption func(*RenderSystem)

// WithClock replaces the clock used for the shader's elapsed time.
func WithClock(now func() time.Time) RenderOption {
	return func(r *RenderSystem) { r.now = now }
}

func WithLogger(l *zap.Logger) RenderOption {
	return func(r *RenderSystem) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClearColor(c color.Color) RenderOption {
	return func(r *RenderSystem) { r.clear = c }
}

// NewRenderSystem compiles the sprite program and allocates the shared
// quad.
func NewRenderSystem(backend render.Backend, vertexSrc, fragmentSrc string, opts ...RenderOption) (*RenderSystem, error) {
	if backend == nil {
		return nil, errors.New("render system: nil backend")
	}
	r := &RenderSystem{
		backend: backend,
		state:   render.SpriteRenderState(),
		clear:   color.Black,
		now:     time.Now,
		logger:  zap.NewNop(),
		warned:  make(map[ecs.Entity]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.created = r.now()

	prog, err := backend.NewProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("render system: program: %w", err)
	}
	quad, err := backend.NewQuad()
	if err != nil {
		prog.Deallocate()
		return nil, fmt.Errorf("render system: quad: %w", err)
	}
	r.program = prog
	r.quad = quad
	return r, nil
}

// RenderFrame draws one frame into target. Entities whose texture is not
// loaded yet are skipped; their load is requested through cache. A bind or
// draw failure aborts the rest of the frame and is returned as a
// *render.RenderError.
func (r *RenderSystem) RenderFrame(target render.Target, projection, view render.Affine, w *ecs.World, cache *render.Cache) (err error) {
	r.stats = render.FrameStats{}

	pass, err := r.backend.BeginPass(target, r.clear)
	if err != nil {
		return &render.RenderError{Op: "begin pass", Err: err}
	}
	defer func() {
		if endErr := pass.End(); endErr != nil && err == nil {
			err = &render.RenderError{Op: "end pass", Err: endErr}
		}
	}()

	gate, err := pass.Shade(r.program)
	if err != nil {
		return &render.RenderError{Op: "shade", Err: err}
	}
	gate.SetGlobals(projection, view)

	for e := range r.warned {
		if !w.IsAlive(e) {
			delete(r.warned, e)
		}
	}

	elapsed := float32(r.now().Sub(r.created).Seconds())

	for _, e := range w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind()) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent)
		if !ok {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			if !r.warned[e] {
				r.warned[e] = true
				r.logger.Warn("skipping zero-sized sprite", zap.Stringer("entity", e), zap.String("texture", string(s.Texture)))
			}
			r.stats.Skipped++
			continue
		}

		tex, ok := cache.GetOrRequest(s.Texture)
		if !ok {
			r.stats.Skipped++
			continue
		}

		u := render.SpriteUniforms{Time: elapsed}
		if b, ok := ecs.Get(w, e, component.BlinkComponent); ok {
			u.ShouldBlink = true
			u.BlinkColor = render.NormalizeColor(b.Color)
			u.BlinkAmplitude = b.Amplitude
		}
		if tint, ok := ecs.Get(w, e, component.TintComponent); ok {
			u.ShouldTint = true
			u.TintColor = render.NormalizeColor(tint.Color)
		}
		u.Model = render.Model(t.X, t.Y, s.Width, s.Height)
		u.Corners = render.ProjectCorners(projection, view, u.Model)

		binding, err := pass.BindTexture(tex)
		if err != nil {
			return &render.RenderError{Op: "bind texture", Entity: uint64(e), Err: err}
		}
		if err := gate.Render(r.state, r.quad, binding, u); err != nil {
			return &render.RenderError{Op: "draw", Entity: uint64(e), Err: err}
		}
		r.stats.Drawn++
	}
	return nil
}

// Stats returns the counts of the last RenderFrame.
func (r *RenderSystem) Stats() render.FrameStats {
	return r.stats
}

// Close releases the sprite program.
func (r *RenderSystem) Close() {
	if r.program != nil {
		r.program.Deallocate()
		r.program = nil
	}
}
