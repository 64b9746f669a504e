package viewport

import "math"

// Transformer maps between a Y axis' domain values and screen pixels.
// A chart keeps one per axis side; both share the handler's committed
// pan/zoom matrix, so zooming moves every series in lockstep.
//
// The full chain is
//
//	pixel = offset * touch * value * point
//
// where value scales the axis ranges onto the content size, touch is
// the committed gesture matrix and offset places the result inside the
// content rectangle, flipping Y unless the axis is inverted.
type Transformer struct {
	valueMatrix  Matrix
	offsetMatrix Matrix

	vph *Handler
}

func NewTransformer(vph *Handler) *Transformer {
	return &Transformer{
		valueMatrix:  Identity(),
		offsetMatrix: Identity(),
		vph:          vph,
	}
}

// PrepareMatrixValuePx rebuilds the value matrix from the axis ranges.
// deltaX and deltaY are the axis ranges, xMin and yMin their lower
// bounds.
func (t *Transformer) PrepareMatrixValuePx(xMin, deltaX, deltaY, yMin float64) {
	scaleX := t.vph.ContentWidth() / deltaX
	scaleY := t.vph.ContentHeight() / deltaY

	if math.IsInf(scaleX, 0) {
		scaleX = 0
	}
	if math.IsInf(scaleY, 0) {
		scaleY = 0
	}

	t.valueMatrix = Scaling(scaleX, -scaleY).Mul(Translation(-xMin, -yMin))
}

// PrepareMatrixOffset rebuilds the offset matrix. For a normal axis the
// domain minimum lands on the content bottom; an inverted axis puts it
// at the top.
func (t *Transformer) PrepareMatrixOffset(inverted bool) {
	if inverted {
		t.offsetMatrix = Scaling(1, -1).Mul(Translation(t.vph.ContentLeft(), -t.vph.ContentTop()))
	} else {
		t.offsetMatrix = Translation(t.vph.ContentLeft(), t.vph.ContentBottom())
	}
}

// PixelMatrix returns the combined domain-to-pixel transform using the
// currently committed touch matrix.
func (t *Transformer) PixelMatrix() Matrix {
	return t.offsetMatrix.Mul(t.vph.TouchMatrix().Mul(t.valueMatrix))
}

// PointToPixel maps one domain point to screen pixels.
func (t *Transformer) PointToPixel(x, y float64) (float64, float64) {
	return t.PixelMatrix().Apply(x, y)
}

// PixelToPoint maps a screen pixel back to domain values.
func (t *Transformer) PixelToPoint(px, py float64) (float64, float64) {
	return t.PixelMatrix().Invert().Apply(px, py)
}

// TransformPoints maps interleaved x,y domain pairs to pixels in place.
func (t *Transformer) TransformPoints(pts []float64) {
	m := t.PixelMatrix()
	for i := 0; i+1 < len(pts); i += 2 {
		pts[i], pts[i+1] = m.Apply(pts[i], pts[i+1])
	}
}

// ValueMatrix exposes the current value matrix.
func (t *Transformer) ValueMatrix() Matrix { return t.valueMatrix }

// OffsetMatrix exposes the current offset matrix.
func (t *Transformer) OffsetMatrix() Matrix { return t.offsetMatrix }
