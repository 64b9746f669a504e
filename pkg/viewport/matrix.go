package viewport

import "math"

// Matrix is a 2x3 affine transform in row-major order:
//
//	| A B C |
//	| D E F |
//
// A point (x, y) maps to (A*x + B*y + C, D*x + E*y + F). The zero value
// is NOT the identity; use Identity.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

func Translation(tx, ty float64) Matrix {
	return Matrix{A: 1, C: tx, E: 1, F: ty}
}

func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy}
}

// Mul returns the product m*n, the transform that applies n first and m
// second.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Translated post-concatenates a translation: the result applies m first
// and then shifts by (dx, dy).
func (m Matrix) Translated(dx, dy float64) Matrix {
	return Translation(dx, dy).Mul(m)
}

// ScaledAbout post-concatenates a scale about the pivot (px, py).
func (m Matrix) ScaledAbout(sx, sy, px, py float64) Matrix {
	s := Translation(px, py).Mul(Scaling(sx, sy)).Mul(Translation(-px, -py))
	return s.Mul(m)
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Invert returns the inverse transform. A degenerate matrix inverts to
// the identity rather than exploding.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}
	return Matrix{
		A: m.E / det,
		B: -m.B / det,
		C: (m.B*m.F - m.E*m.C) / det,
		D: -m.D / det,
		E: m.A / det,
		F: (m.D*m.C - m.A*m.F) / det,
	}
}

func (m Matrix) ScaleX() float64 { return m.A }
func (m Matrix) ScaleY() float64 { return m.E }
func (m Matrix) TransX() float64 { return m.C }
func (m Matrix) TransY() float64 { return m.F }
