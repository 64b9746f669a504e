package highlight

import (
	"math"

	"touchplot/pkg/chartdata"
	"touchplot/pkg/viewport"
)

// PixelProvider is the view a Highlighter needs of its chart.
type PixelProvider interface {
	Data() *chartdata.ChartData
	TransformerFor(axis chartdata.AxisDependency) *viewport.Transformer

	// MaxHighlightDistance is the pixel radius beyond which a touch
	// selects nothing.
	MaxHighlightDistance() float64
}

// Highlighter resolves a touch position to the nearest data point.
// Results are deterministic: for equal distances the earlier series and
// entry win, and the left axis wins against the right.
type Highlighter struct {
	provider PixelProvider
}

func NewHighlighter(p PixelProvider) *Highlighter {
	return &Highlighter{provider: p}
}

// HighlightAt returns the data point closest to the touch pixel, or nil
// when there is no data within the highlight distance.
func (hl *Highlighter) HighlightAt(px, py float64) *Highlight {
	data := hl.provider.Data()
	if data == nil || data.EntryCount() == 0 {
		return nil
	}

	// The touch X is resolved against the left axis. Both transformers
	// share the X mapping, so the choice does not skew candidates.
	touchX, _ := hl.provider.TransformerFor(chartdata.AxisLeft).PixelToPoint(px, py)

	candidates := hl.candidatesAtX(touchX)
	if len(candidates) == 0 {
		return nil
	}

	leftDist := hl.minVerticalDistance(candidates, py, chartdata.AxisLeft)
	rightDist := hl.minVerticalDistance(candidates, py, chartdata.AxisRight)
	axis := chartdata.AxisRight
	if leftDist <= rightDist {
		axis = chartdata.AxisLeft
	}

	return hl.closestByPixel(candidates, px, py, axis, hl.provider.MaxHighlightDistance())
}

// candidatesAtX collects, per highlightable series, every entry at the
// X value nearest to the touch.
func (hl *Highlighter) candidatesAtX(xVal float64) []Highlight {
	var out []Highlight

	data := hl.provider.Data()
	for i, set := range data.DataSets() {
		if !set.HighlightEnabled || set.EntryCount() == 0 {
			continue
		}

		entries := set.EntriesForX(xVal)
		if len(entries) == 0 {
			closest, ok := set.EntryForX(xVal, chartdata.RoundClosest)
			if !ok {
				continue
			}
			entries = set.EntriesForX(closest.X)
		}

		tr := hl.provider.TransformerFor(set.Axis)
		for _, e := range entries {
			epx, epy := tr.PointToPixel(e.X, e.Y)
			out = append(out, Highlight{
				X:            e.X,
				Y:            e.Y,
				XPx:          epx,
				YPx:          epy,
				DataSetIndex: i,
				Axis:         set.Axis,
			})
		}
	}

	return out
}

// minVerticalDistance finds the smallest |yPx - touchY| among the
// candidates bound to the given axis. +Inf when the axis has none.
func (hl *Highlighter) minVerticalDistance(candidates []Highlight, touchY float64, axis chartdata.AxisDependency) float64 {
	min := math.Inf(1)
	for _, c := range candidates {
		if c.Axis != axis {
			continue
		}
		if d := math.Abs(c.YPx - touchY); d < min {
			min = d
		}
	}
	return min
}

// closestByPixel picks the candidate on the winning axis with the
// smallest Euclidean distance to the touch, if it beats maxDistance.
func (hl *Highlighter) closestByPixel(candidates []Highlight, px, py float64, axis chartdata.AxisDependency, maxDistance float64) *Highlight {
	var closest *Highlight
	distance := maxDistance

	for i := range candidates {
		c := &candidates[i]
		if c.Axis != axis {
			continue
		}
		if d := math.Hypot(px-c.XPx, py-c.YPx); d < distance {
			closest = c
			distance = d
		}
	}

	return closest
}
