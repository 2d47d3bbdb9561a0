package render

import (
	"errors"
	"fmt"
)

var ErrZeroViewport = errors.New("render: viewport dimensions must be positive")

// Viewport is the logical drawing area in pixels.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrZeroViewport, v.Width, v.Height)
	}
	return nil
}

// Corner indexes follow the winding of the triangle-fan quad.
const (
	BottomLeft = iota
	BottomRight
	TopRight
	TopLeft
)

// Corners holds the four quad corners in normalized device coordinates,
// indexed by BottomLeft, BottomRight, TopRight, TopLeft.
type Corners [4][2]float32

// GLCoords places a pixel rectangle (top-left x, y; size w, h) in normalized
// device space. Pixel y grows downward and device y grows upward, so the y
// axis is negated. The viewport must be non-zero.
func GLCoords(x, y, w, h int, vp Viewport) Corners {
	pixels := [4][2]int{
		{x, y + h},
		{x + w, y + h},
		{x + w, y},
		{x, y},
	}

	fw := float32(vp.Width)
	fh := float32(vp.Height)

	var out Corners
	for i, p := range pixels {
		out[i][0] = (float32(p[0])/fw - 0.5) * 2
		out[i][1] = (float32(p[1])/fh - 0.5) * -2
	}
	return out
}

// unitQuad is the model-space quad in pixel orientation (y down).
var unitQuad = [4][2]float64{
	{0, 1},
	{1, 1},
	{1, 0},
	{0, 0},
}

// ProjectCorners maps the unit quad through projection·view·model.
func ProjectCorners(projection, view, model Affine) Corners {
	m := projection.Mul(view).Mul(model)
	var out Corners
	for i, p := range unitQuad {
		x, y := m.Apply(p[0], p[1])
		out[i] = [2]float32{float32(x), float32(y)}
	}
	return out
}
