package highlight

import "touchplot/pkg/chartdata"

// Highlight describes one selected data point: its domain values, where
// it currently sits on screen and which series it belongs to.
type Highlight struct {
	X   float64
	Y   float64
	XPx float64
	YPx float64

	DataSetIndex int
	Axis         chartdata.AxisDependency
}

// Equal reports whether both highlights refer to the same data point.
// The pixel position is ignored, a pan does not change identity.
func (h *Highlight) Equal(other *Highlight) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.X == other.X && h.Y == other.Y && h.DataSetIndex == other.DataSetIndex
}
