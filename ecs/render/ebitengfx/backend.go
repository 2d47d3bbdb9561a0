// Package ebitengfx implements the render backend contract on Ebitengine.
//
// Ebitengine owns the vertex stage, so programs are Kage fragment shaders
// and the quad corners computed by the renderer become destination vertices.
//
// Ebitengine hands shaders premultiplied texels while the sprite blend state
// weights the source by its alpha. Programs drawn with that state must
// un-premultiply and return straight alpha, as assets/sprite.kage does.
package ebitengfx

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rengine/ecs/render"
)

var (
	ErrVertexStage    = errors.New("ebitengfx: custom vertex shaders are not supported")
	ErrForeignTexture = errors.New("ebitengfx: texture was not created by this backend")
	ErrForeignProgram = errors.New("ebitengfx: program was not created by this backend")
)

// fanIndices splits the triangle-fan quad into two triangles.
var fanIndices = []uint16{0, 1, 2, 0, 2, 3}

type Backend struct{}

func New() *Backend {
	return &Backend{}
}

type program struct {
	shader *ebiten.Shader
}

func (p *program) Deallocate() {
	if p.shader != nil {
		p.shader.Deallocate()
	}
}

type quad struct{}

func (quad) VertexCount() int { return 4 }

// Texture wraps an Ebitengine image.
type Texture struct {
	img *ebiten.Image
}

func NewTexture(img *ebiten.Image) *Texture {
	return &Texture{img: img}
}

func (t *Texture) Size() (int, int) {
	if t == nil || t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *Texture) Deallocate() {
	if t != nil && t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

func (t *Texture) Image() *ebiten.Image {
	return t.img
}

// Surface is a render target backed by an Ebitengine image, usually the
// screen passed to Draw.
type Surface struct {
	img *ebiten.Image
}

func NewSurface(img *ebiten.Image) *Surface {
	return &Surface{img: img}
}

func (s *Surface) Size() (int, int) {
	if s == nil || s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (b *Backend) NewProgram(vertex, fragment string) (render.Program, error) {
	if strings.TrimSpace(vertex) != "" {
		return nil, ErrVertexStage
	}
	sh, err := ebiten.NewShader([]byte(fragment))
	if err != nil {
		return nil, fmt.Errorf("ebitengfx: compile shader: %w", err)
	}
	return &program{shader: sh}, nil
}

func (b *Backend) NewQuad() (render.Quad, error) {
	return quad{}, nil
}

func (b *Backend) NewTexture(img image.Image) (render.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("ebitengfx: empty image")
	}
	return &Texture{img: ebiten.NewImageFromImage(img)}, nil
}

func (b *Backend) BeginPass(target render.Target, clear color.Color) (render.Pass, error) {
	s, ok := target.(*Surface)
	if !ok || s == nil || s.img == nil {
		return nil, fmt.Errorf("%w: no drawable surface", render.ErrSurfaceLost)
	}
	if clear != nil {
		s.img.Fill(clear)
	} else {
		s.img.Clear()
	}
	return &pass{dst: s.img}, nil
}

type pass struct {
	dst *ebiten.Image
}

type binding struct {
	tex *Texture
}

func (b binding) Texture() render.Texture { return b.tex }

func (p *pass) BindTexture(tex render.Texture) (render.Binding, error) {
	t, ok := tex.(*Texture)
	if !ok {
		return nil, ErrForeignTexture
	}
	if t.img == nil {
		return nil, fmt.Errorf("ebitengfx: bind texture: image deallocated")
	}
	return binding{tex: t}, nil
}

func (p *pass) Shade(prog render.Program) (render.ShadingGate, error) {
	pr, ok := prog.(*program)
	if !ok || pr.shader == nil {
		return nil, ErrForeignProgram
	}
	return &gate{dst: p.dst, shader: pr.shader, uniforms: make(map[string]any, 12)}, nil
}

func (p *pass) End() error {
	return nil
}

type gate struct {
	dst      *ebiten.Image
	shader   *ebiten.Shader
	uniforms map[string]any
	vertices [4]ebiten.Vertex
	opts     ebiten.DrawTrianglesShaderOptions
}

func (g *gate) SetGlobals(projection, view render.Affine) {
	g.uniforms["Projection"] = projection.Float32()
	g.uniforms["View"] = view.Float32()
}

func (g *gate) Render(state render.RenderState, q render.Quad, b render.Binding, u render.SpriteUniforms) error {
	bd, ok := b.(binding)
	if !ok || bd.tex == nil || bd.tex.img == nil {
		return ErrForeignTexture
	}
	if q == nil || q.VertexCount() != 4 {
		return fmt.Errorf("ebitengfx: quad must have 4 vertices")
	}

	src := bd.tex.img.Bounds()
	dst := g.dst.Bounds()
	dw, dh := float32(dst.Dx()), float32(dst.Dy())

	texels := [4][2]int{
		{src.Min.X, src.Max.Y},
		{src.Max.X, src.Max.Y},
		{src.Max.X, src.Min.Y},
		{src.Min.X, src.Min.Y},
	}
	for i := range g.vertices {
		c := u.Corners[i]
		g.vertices[i] = ebiten.Vertex{
			DstX:   (c[0] + 1) / 2 * dw,
			DstY:   (1 - c[1]) / 2 * dh,
			SrcX:   float32(texels[i][0]),
			SrcY:   float32(texels[i][1]),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}

	g.uniforms["Model"] = u.Model.Float32()
	g.uniforms["Time"] = u.Time
	g.uniforms["ShouldBlink"] = flag(u.ShouldBlink)
	g.uniforms["BlinkColor"] = u.BlinkColor[:]
	g.uniforms["BlinkAmplitude"] = u.BlinkAmplitude
	g.uniforms["ShouldTint"] = flag(u.ShouldTint)
	g.uniforms["TintColor"] = u.TintColor[:]

	g.opts.Uniforms = g.uniforms
	g.opts.Images[0] = bd.tex.img
	g.opts.Blend = Blend(state.Blending)
	g.dst.DrawTrianglesShader(g.vertices[:], fanIndices, g.shader, &g.opts)
	return nil
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Blend converts a render blending description to Ebitengine's.
func Blend(b render.Blending) ebiten.Blend {
	op := ebiten.BlendOperationAdd
	if b.Equation == render.EquationSubtract {
		op = ebiten.BlendOperationSubtract
	}
	return ebiten.Blend{
		BlendFactorSourceRGB:        factor(b.ColorSrc),
		BlendFactorDestinationRGB:   factor(b.ColorDst),
		BlendFactorSourceAlpha:      factor(b.AlphaSrc),
		BlendFactorDestinationAlpha: factor(b.AlphaDst),
		BlendOperationRGB:           op,
		BlendOperationAlpha:         op,
	}
}

func factor(f render.BlendFactor) ebiten.BlendFactor {
	switch f {
	case render.FactorOne:
		return ebiten.BlendFactorOne
	case render.FactorSrcAlpha:
		return ebiten.BlendFactorSourceAlpha
	case render.FactorOneMinusSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	default:
		return ebiten.BlendFactorZero
	}
}
