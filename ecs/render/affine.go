package render

// Affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

func Translate(x, y float64) Affine {
	return Affine{1, 0, 0, 1, x, y}
}

func Scale(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Mul returns m * n, i.e. n is applied first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Ortho maps viewport pixels to normalized device coordinates with the same
// convention as GLCoords.
func Ortho(vp Viewport) Affine {
	return Affine{
		2 / float64(vp.Width), 0,
		0, -2 / float64(vp.Height),
		-1, 1,
	}
}

// Model maps the unit quad onto the pixel rectangle (x, y, w, h).
func Model(x, y, w, h int) Affine {
	return Affine{float64(w), 0, 0, float64(h), float64(x), float64(y)}
}

// View builds a camera transform: world (x, y) lands on the viewport origin
// and the result is scaled by zoom.
func View(x, y int, zoom float64) Affine {
	if zoom <= 0 {
		zoom = 1
	}
	return Scale(zoom, zoom).Mul(Translate(-float64(x), -float64(y)))
}

// Float32 returns the matrix as a column-major mat3, the layout shader
// uniforms expect.
func (m Affine) Float32() []float32 {
	return []float32{
		float32(m[0]), float32(m[1]), 0,
		float32(m[2]), float32(m[3]), 0,
		float32(m[4]), float32(m[5]), 1,
	}
}
