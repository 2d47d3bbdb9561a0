package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ndcDelta = 1e-5

func assertCorners(t *testing.T, want, got Corners) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i][0], got[i][0], ndcDelta, "corner %d x", i)
		assert.InDelta(t, want[i][1], got[i][1], ndcDelta, "corner %d y", i)
	}
}

func TestGLCoordsConcrete(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	got := GLCoords(0, 0, 512, 512, vp)

	want := Corners{
		BottomLeft:  {-1, -0.422222},
		BottomRight: {-0.2, -0.422222},
		TopRight:    {-0.2, 1},
		TopLeft:     {-1, 1},
	}
	assertCorners(t, want, got)
}

func TestGLCoordsVerticalFlip(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	cases := []struct {
		name       string
		x, y, w, h int
	}{
		{"origin", 0, 0, 512, 512},
		{"offset", 300, 200, 64, 32},
		{"offscreen", -100, 900, 10, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := GLCoords(c.x, c.y, c.w, c.h, vp)
			assert.Less(t, got[BottomLeft][1], got[TopLeft][1], "bottom edge must sit below the top edge")
			assert.Less(t, got[BottomRight][1], got[TopRight][1])
			assert.Less(t, got[BottomLeft][0], got[BottomRight][0])
			assert.Equal(t, got[BottomLeft][1], got[BottomRight][1])
		})
	}
}

func TestGLCoordsMovingDownLowersEveryCorner(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	for _, dy := range []int{1, 10, 360} {
		before := GLCoords(100, 100, 64, 64, vp)
		after := GLCoords(100, 100+dy, 64, 64, vp)
		for i := range before {
			assert.Less(t, after[i][1], before[i][1], "corner %d, dy %d", i, dy)
			assert.Equal(t, before[i][0], after[i][0])
		}
	}
}

func TestGLCoordsFullViewport(t *testing.T) {
	vp := Viewport{Width: 640, Height: 480}
	got := GLCoords(0, 0, 640, 480, vp)
	assertCorners(t, Corners{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}, got)
}

func TestProjectCornersMatchesGLCoords(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	cases := []struct {
		name       string
		x, y, w, h int
	}{
		{"origin", 0, 0, 512, 512},
		{"offset", 37, 411, 128, 96},
		{"negative", -64, -64, 64, 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ProjectCorners(Ortho(vp), Identity, Model(c.x, c.y, c.w, c.h))
			assertCorners(t, GLCoords(c.x, c.y, c.w, c.h, vp), got)
		})
	}
}

func TestViewShiftsAndZooms(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}

	shifted := ProjectCorners(Ortho(vp), View(100, 50, 1), Model(100, 50, 10, 10))
	assertCorners(t, GLCoords(0, 0, 10, 10, vp), shifted)

	zoomed := ProjectCorners(Ortho(vp), View(0, 0, 2), Model(10, 10, 10, 10))
	assertCorners(t, GLCoords(20, 20, 20, 20, vp), zoomed)

	assert.Equal(t, View(0, 0, 1), View(0, 0, 0), "non-positive zoom falls back to 1")
}

func TestAffineMulOrder(t *testing.T) {
	m := Translate(5, 0).Mul(Scale(2, 2))
	x, y := m.Apply(1, 1)
	assert.Equal(t, 7.0, x)
	assert.Equal(t, 2.0, y)

	assert.Equal(t, []float32{2, 0, 0, 0, 2, 0, 5, 0, 1}, m.Float32())
}

func TestViewportValidate(t *testing.T) {
	require.NoError(t, Viewport{Width: 1, Height: 1}.Validate())
	assert.ErrorIs(t, Viewport{Width: 0, Height: 720}.Validate(), ErrZeroViewport)
	assert.ErrorIs(t, Viewport{Width: 1280, Height: -1}.Validate(), ErrZeroViewport)
}
