package system

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/milk9111/rengine/ecs/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = render.Viewport{Width: 1280, Height: 720}

func spawnSprite(t *testing.T, w *ecs.World, tex string, x, y, width, height int) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y}))
	require.NoError(t, ecs.Add(w, e, component.SpriteComponent, component.Sprite{Texture: render.Handle(tex), Width: width, Height: height}))
	return e
}

func loadedCache(names ...string) *render.Cache {
	c := render.NewCache(nil)
	for _, n := range names {
		c.Insert(render.Handle(n), &fakeTexture{name: n})
	}
	return c
}

func newTestRenderer(t *testing.T, b *fakeBackend, opts ...RenderOption) *RenderSystem {
	t.Helper()
	r, err := NewRenderSystem(b, "", "fragment", opts...)
	require.NoError(t, err)
	return r
}

func renderFrame(r *RenderSystem, w *ecs.World, c *render.Cache) error {
	return r.RenderFrame(fakeTarget{}, render.Ortho(testViewport), render.Identity, w, c)
}

func TestRenderFrameDrawsInStoreOrder(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b, WithClearColor(color.White))
	w := ecs.NewWorld()
	spawnSprite(t, w, "a.png", 0, 0, 10, 10)
	spawnSprite(t, w, "b.png", 20, 0, 10, 10)
	spawnSprite(t, w, "c.png", 40, 0, 10, 10)
	c := loadedCache("a.png", "b.png", "c.png")

	for frame := 0; frame < 3; frame++ {
		b.draws = nil
		require.NoError(t, renderFrame(r, w, c))
		assert.Equal(t, []string{"a.png", "b.png", "c.png"}, b.drawnTextures(), "frame %d", frame)
	}

	assert.Equal(t, 3, b.passes)
	assert.Equal(t, 3, b.ended)
	assert.Equal(t, 3, b.globals, "globals are set once per pass")
	assert.Equal(t, color.White, b.clear)
	assert.Equal(t, render.Ortho(testViewport), b.projection)
	assert.Equal(t, render.FrameStats{Drawn: 3}, r.Stats())
	assert.Equal(t, "fragment", b.fragment)
	assert.Empty(t, b.vertex)
}

func TestRenderFrameSkipsMissingTextures(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b)
	w := ecs.NewWorld()
	spawnSprite(t, w, "a.png", 0, 0, 10, 10)
	spawnSprite(t, w, "pending.png", 0, 0, 10, 10)
	spawnSprite(t, w, "c.png", 0, 0, 10, 10)
	c := loadedCache("a.png", "c.png")

	require.NoError(t, renderFrame(r, w, c))
	assert.Equal(t, []string{"a.png", "c.png"}, b.drawnTextures())
	assert.Equal(t, render.FrameStats{Drawn: 2, Skipped: 1}, r.Stats())

	st, ok := c.Status("pending.png")
	require.True(t, ok, "a miss registers the handle")
	assert.Equal(t, render.StatusPending, st)
}

func TestRenderFrameSkipsZeroSizedSprites(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b)
	w := ecs.NewWorld()
	spawnSprite(t, w, "a.png", 0, 0, 0, 10)
	spawnSprite(t, w, "a.png", 0, 0, 10, 10)

	require.NoError(t, renderFrame(r, w, loadedCache("a.png")))
	assert.Len(t, b.draws, 1)
	assert.Equal(t, 1, r.Stats().Skipped)
}

func TestRenderFrameBindFailureAbortsFrame(t *testing.T) {
	b := &fakeBackend{bindErr: "b.png"}
	r := newTestRenderer(t, b)
	w := ecs.NewWorld()
	spawnSprite(t, w, "a.png", 0, 0, 10, 10)
	bad := spawnSprite(t, w, "b.png", 0, 0, 10, 10)
	spawnSprite(t, w, "c.png", 0, 0, 10, 10)

	err := renderFrame(r, w, loadedCache("a.png", "b.png", "c.png"))
	require.Error(t, err)

	var rerr *render.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "bind texture", rerr.Op)
	assert.Equal(t, uint64(bad), rerr.Entity)
	assert.ErrorIs(t, err, errBind)
	assert.False(t, render.IsFatal(err))

	assert.Equal(t, []string{"a.png"}, b.drawnTextures(), "nothing after the failing entity is drawn")
	assert.Equal(t, 1, b.ended, "the pass is still closed")
}

func TestRenderFrameSurfaceLostIsFatal(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b)
	b.passErr = render.ErrSurfaceLost

	err := renderFrame(r, ecs.NewWorld(), loadedCache())
	assert.True(t, render.IsFatal(err))
}

func TestRenderFrameDrawFailure(t *testing.T) {
	b := &fakeBackend{renderErr: errors.New("device busy")}
	r := newTestRenderer(t, b)
	w := ecs.NewWorld()
	spawnSprite(t, w, "a.png", 0, 0, 10, 10)

	var rerr *render.RenderError
	require.ErrorAs(t, renderFrame(r, w, loadedCache("a.png")), &rerr)
	assert.Equal(t, "draw", rerr.Op)
}

func TestRenderFrameUniforms(t *testing.T) {
	start := time.Unix(100, 0)
	now := start
	b := &fakeBackend{}
	r := newTestRenderer(t, b, WithClock(func() time.Time { return now }))
	w := ecs.NewWorld()

	spawnSprite(t, w, "a.png", 0, 0, 512, 512)
	blinking := spawnSprite(t, w, "a.png", 100, 50, 32, 16)
	require.NoError(t, ecs.Add(w, blinking, component.BlinkComponent, component.Blink{
		Color:     color.NRGBA{R: 255, A: 255},
		Amplitude: 0.5,
	}))
	require.NoError(t, ecs.Add(w, blinking, component.TintComponent, component.Tint{
		Color: color.NRGBA{R: 0, G: 51, B: 255, A: 255},
	}))

	now = start.Add(1500 * time.Millisecond)
	require.NoError(t, renderFrame(r, w, loadedCache("a.png")))
	require.Len(t, b.draws, 2)

	p := b.draws[0].uniforms
	assert.False(t, p.ShouldBlink)
	assert.False(t, p.ShouldTint)
	assert.InDelta(t, 1.5, p.Time, 1e-6)
	assert.Equal(t, render.Model(0, 0, 512, 512), p.Model)
	assert.InDeltaSlice(t, []float32{-1, -0.422222}, p.Corners[render.BottomLeft][:], 1e-5)
	assert.InDeltaSlice(t, []float32{-0.2, 1}, p.Corners[render.TopRight][:], 1e-5)
	assert.Equal(t, render.SpriteRenderState(), b.draws[0].state)

	u := b.draws[1].uniforms
	assert.True(t, u.ShouldBlink)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, u.BlinkColor)
	assert.Equal(t, float32(0.5), u.BlinkAmplitude)
	assert.True(t, u.ShouldTint)
	assert.InDeltaSlice(t, []float32{0, 0.2, 1, 1}, u.TintColor[:], 1e-6)
	assert.Equal(t, render.Model(100, 50, 32, 16), u.Model)
}

func TestRenderFrameModelFollowsMovement(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b)
	w := ecs.NewWorld()
	e := spawnSprite(t, w, "a.png", 0, 0, 10, 10)
	c := loadedCache("a.png")

	require.NoError(t, renderFrame(r, w, c))
	require.True(t, ecs.Update(w, e, component.TransformComponent, func(tr *component.Transform) { tr.X = 40 }))
	require.NoError(t, renderFrame(r, w, c))

	require.Len(t, b.draws, 2)
	assert.Equal(t, render.Model(40, 0, 10, 10), b.draws[1].uniforms.Model)
}

func TestRenderSpriteState(t *testing.T) {
	s := render.SpriteRenderState().Blending
	assert.Equal(t, render.EquationAdditive, s.Equation)
	assert.Equal(t, render.FactorSrcAlpha, s.ColorSrc)
	assert.Equal(t, render.FactorOneMinusSrcAlpha, s.ColorDst)
	assert.Equal(t, render.FactorOne, s.AlphaSrc)
	assert.Equal(t, render.FactorZero, s.AlphaDst)
}

func TestRenderSystemClose(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b)
	r.Close()
	assert.True(t, b.program.released)
}

func TestRenderFrameForgetsDestroyedZeroSizedSprites(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(t, b)
	w := ecs.NewWorld()
	c := loadedCache("a.png")

	for i := 0; i < 4; i++ {
		e := spawnSprite(t, w, "a.png", 0, 0, 0, 10)
		require.NoError(t, renderFrame(r, w, c))
		assert.Len(t, r.warned, 1)
		require.True(t, w.DestroyEntity(e))
	}

	require.NoError(t, renderFrame(r, w, c))
	assert.Empty(t, r.warned)
}
