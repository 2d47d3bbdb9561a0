package render

import (
	"image"
	"image/color"
)

// Texture is a GPU-resident image owned by the Cache.
type Texture interface {
	Size() (width, height int)
	Deallocate()
}

// Target is a surface a pass renders into.
type Target interface {
	Size() (width, height int)
}

// Program is a compiled shader program.
type Program interface {
	Deallocate()
}

// Quad is the shared 4-vertex triangle-fan primitive.
type Quad interface {
	VertexCount() int
}

// Binding is the token returned by binding a texture for the current pass.
type Binding interface {
	Texture() Texture
}

// Backend is the graphics collaborator. Its methods run on the frame thread.
type Backend interface {
	NewProgram(vertex, fragment string) (Program, error)
	NewQuad() (Quad, error)
	NewTexture(img image.Image) (Texture, error)
	BeginPass(target Target, clear color.Color) (Pass, error)
}

// Pass is one pipeline pass against a target.
type Pass interface {
	BindTexture(tex Texture) (Binding, error)
	Shade(program Program) (ShadingGate, error)
	End() error
}

// ShadingGate issues draws with one program bound.
type ShadingGate interface {
	SetGlobals(projection, view Affine)
	Render(state RenderState, quad Quad, binding Binding, uniforms SpriteUniforms) error
}

// SpriteUniforms is the per-draw uniform block of the sprite program.
type SpriteUniforms struct {
	Model   Affine
	Corners Corners
	// Time is the elapsed seconds since the renderer was created.
	Time float32

	ShouldBlink    bool
	BlinkColor     [4]float32
	BlinkAmplitude float32

	ShouldTint bool
	TintColor  [4]float32
}

type BlendEquation uint8

const (
	EquationAdditive BlendEquation = iota
	EquationSubtract
)

type BlendFactor uint8

const (
	FactorZero BlendFactor = iota
	FactorOne
	FactorSrcAlpha
	FactorOneMinusSrcAlpha
)

// Blending configures how a draw combines with the target. Color and
// Alpha name the source/destination factors for the color and auxiliary
// (alpha) channels.
type Blending struct {
	Equation BlendEquation
	ColorSrc BlendFactor
	ColorDst BlendFactor
	AlphaSrc BlendFactor
	AlphaDst BlendFactor
}

type RenderState struct {
	Blending Blending
}

// SpriteRenderState is the fixed state every sprite draw uses.
func SpriteRenderState() RenderState {
	return RenderState{Blending: Blending{
		Equation: EquationAdditive,
		ColorSrc: FactorSrcAlpha,
		ColorDst: FactorOneMinusSrcAlpha,
		AlphaSrc: FactorOne,
		AlphaDst: FactorZero,
	}}
}

// NormalizeColor converts c to non-premultiplied 0-1 channels.
func NormalizeColor(c color.Color) [4]float32 {
	if c == nil {
		return [4]float32{1, 1, 1, 1}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return [4]float32{
		float32(n.R) / 255,
		float32(n.G) / 255,
		float32(n.B) / 255,
		float32(n.A) / 255,
	}
}

// FrameStats summarizes the last render pass.
type FrameStats struct {
	Drawn   int
	Skipped int
}
