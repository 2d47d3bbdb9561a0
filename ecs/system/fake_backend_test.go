package system

import (
	"errors"
	"image"
	"image/color"

	"github.com/milk9111/rengine/ecs/render"
)

type fakeTexture struct {
	name string
}

func (t *fakeTexture) Size() (int, int) { return 1, 1 }
func (t *fakeTexture) Deallocate()      {}

type fakeProgram struct{ released bool }

func (p *fakeProgram) Deallocate() { p.released = true }

type fakeQuad struct{}

func (fakeQuad) VertexCount() int { return 4 }

type fakeBinding struct{ tex render.Texture }

func (b fakeBinding) Texture() render.Texture { return b.tex }

type fakeTarget struct{}

func (fakeTarget) Size() (int, int) { return 1280, 720 }

type drawCall struct {
	texture  render.Texture
	state    render.RenderState
	uniforms render.SpriteUniforms
}

// fakeBackend records every call the renderer makes.
type fakeBackend struct {
	vertex, fragment string
	program          *fakeProgram

	passes     int
	ended      int
	clear      color.Color
	projection render.Affine
	view       render.Affine
	globals    int
	draws      []drawCall

	// bindErr fails binding of the texture with this name.
	bindErr   string
	passErr   error
	renderErr error
}

var errBind = errors.New("bind failed")

func (b *fakeBackend) NewProgram(vertex, fragment string) (render.Program, error) {
	b.vertex, b.fragment = vertex, fragment
	b.program = &fakeProgram{}
	return b.program, nil
}

func (b *fakeBackend) NewQuad() (render.Quad, error) { return fakeQuad{}, nil }

func (b *fakeBackend) NewTexture(img image.Image) (render.Texture, error) {
	return &fakeTexture{name: "uploaded"}, nil
}

func (b *fakeBackend) BeginPass(target render.Target, clear color.Color) (render.Pass, error) {
	if b.passErr != nil {
		return nil, b.passErr
	}
	b.passes++
	b.clear = clear
	return &fakePass{b: b}, nil
}

type fakePass struct{ b *fakeBackend }

func (p *fakePass) BindTexture(tex render.Texture) (render.Binding, error) {
	if ft, ok := tex.(*fakeTexture); ok && ft.name == p.b.bindErr {
		return nil, errBind
	}
	return fakeBinding{tex: tex}, nil
}

func (p *fakePass) Shade(program render.Program) (render.ShadingGate, error) {
	return &fakeGate{b: p.b}, nil
}

func (p *fakePass) End() error {
	p.b.ended++
	return nil
}

type fakeGate struct{ b *fakeBackend }

func (g *fakeGate) SetGlobals(projection, view render.Affine) {
	g.b.globals++
	g.b.projection, g.b.view = projection, view
}

func (g *fakeGate) Render(state render.RenderState, quad render.Quad, binding render.Binding, u render.SpriteUniforms) error {
	if g.b.renderErr != nil {
		return g.b.renderErr
	}
	g.b.draws = append(g.b.draws, drawCall{texture: binding.Texture(), state: state, uniforms: u})
	return nil
}

func (b *fakeBackend) drawnTextures() []string {
	out := make([]string, 0, len(b.draws))
	for _, d := range b.draws {
		out = append(out, d.texture.(*fakeTexture).name)
	}
	return out
}
