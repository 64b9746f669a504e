package viewport

import (
	"math"
	"testing"
)

// prepared returns a transformer over a 100x100 chart with a 10px
// offset on every side, mapping x in [0,10] and y in [0,100].
func prepared(inverted bool) (*Handler, *Transformer) {
	h := newTestHandler()
	tr := NewTransformer(h)
	tr.PrepareMatrixValuePx(0, 10, 100, 0)
	tr.PrepareMatrixOffset(inverted)
	return h, tr
}

func TestTransformer_CornerMapping(t *testing.T) {
	_, tr := prepared(false)

	tests := []struct {
		x, y   float64
		wantPx float64
		wantPy float64
	}{
		{0, 0, 10, 90},    // domain minimum at content bottom-left
		{10, 100, 90, 10}, // domain maximum at content top-right
		{5, 50, 50, 50},
	}

	for _, test := range tests {
		px, py := tr.PointToPixel(test.x, test.y)
		if math.Abs(px-test.wantPx) > 1e-9 || math.Abs(py-test.wantPy) > 1e-9 {
			t.Errorf("PointToPixel(%v, %v) = (%v, %v); want (%v, %v)",
				test.x, test.y, px, py, test.wantPx, test.wantPy)
		}
	}
}

func TestTransformer_InvertedFlipsVertical(t *testing.T) {
	_, tr := prepared(true)

	px, py := tr.PointToPixel(0, 0)
	if math.Abs(px-10) > 1e-9 || math.Abs(py-10) > 1e-9 {
		t.Errorf("PointToPixel(0, 0) = (%v, %v); want (10, 10)", px, py)
	}

	px, py = tr.PointToPixel(10, 100)
	if math.Abs(px-90) > 1e-9 || math.Abs(py-90) > 1e-9 {
		t.Errorf("PointToPixel(10, 100) = (%v, %v); want (90, 90)", px, py)
	}
}

func TestTransformer_RoundTrip(t *testing.T) {
	h, tr := prepared(false)

	points := [][2]float64{{3.7, 42}, {0, 0}, {10, 100}, {9.99, 0.01}}
	for _, p := range points {
		px, py := tr.PointToPixel(p[0], p[1])
		x, y := tr.PixelToPoint(px, py)
		if math.Abs(x-p[0]) > 1e-9 || math.Abs(y-p[1]) > 1e-9 {
			t.Errorf("round trip of (%v, %v) = (%v, %v)", p[0], p[1], x, y)
		}
	}

	// Still holds with pan and zoom applied.
	h.Refresh(h.Zoom(2, 3, -10, 20))
	h.Refresh(h.TouchMatrix().Translated(-15, 8))
	for _, p := range points {
		px, py := tr.PointToPixel(p[0], p[1])
		x, y := tr.PixelToPoint(px, py)
		if math.Abs(x-p[0]) > 1e-9 || math.Abs(y-p[1]) > 1e-9 {
			t.Errorf("zoomed round trip of (%v, %v) = (%v, %v)", p[0], p[1], x, y)
		}
	}
}

func TestTransformer_ZoomHalvesVisibleRange(t *testing.T) {
	h, tr := prepared(false)

	// Scale x2 about the bottom-left of the content keeps the left edge
	// anchored, so the right edge now shows the domain midpoint.
	h.Refresh(h.Zoom(2, 1, 0, 0))

	x, _ := tr.PixelToPoint(h.ContentRight(), h.ContentBottom())
	if math.Abs(x-5) > 1e-9 {
		t.Errorf("right edge domain x = %v; want 5", x)
	}

	px, _ := tr.PointToPixel(5, 0)
	if math.Abs(px-90) > 1e-9 {
		t.Errorf("pixel of x=5 = %v; want 90", px)
	}
}

func TestTransformer_TransformPoints(t *testing.T) {
	_, tr := prepared(false)

	pts := []float64{0, 0, 10, 100}
	tr.TransformPoints(pts)

	want := []float64{10, 90, 90, 10}
	for i := range want {
		if math.Abs(pts[i]-want[i]) > 1e-9 {
			t.Errorf("pts[%d] = %v; want %v", i, pts[i], want[i])
		}
	}
}

func TestTransformer_DegenerateRange(t *testing.T) {
	h := newTestHandler()
	tr := NewTransformer(h)

	// A zero range must not produce infinities.
	tr.PrepareMatrixValuePx(0, 0, 0, 0)
	px, py := tr.PointToPixel(1, 1)
	if math.IsInf(px, 0) || math.IsNaN(px) || math.IsInf(py, 0) || math.IsNaN(py) {
		t.Errorf("degenerate mapping = (%v, %v); want finite", px, py)
	}
}
