package axis

import (
	"math"

	"touchplot/pkg/chartdata"
)

// YAxis is a vertical axis bound to one side of the chart.
type YAxis struct {
	Base

	Dependency chartdata.AxisDependency

	// Inverted flips the axis so larger values draw lower.
	Inverted bool

	// SpaceTop and SpaceBottom pad the data range by a percentage of
	// itself, unless the corresponding bound is pinned.
	SpaceTop    float64
	SpaceBottom float64

	DrawZeroLine bool
}

func NewYAxis(dep chartdata.AxisDependency) *YAxis {
	return &YAxis{
		Base:        newBase(),
		Dependency:  dep,
		SpaceTop:    10,
		SpaceBottom: 10,
	}
}

// Calculate resolves the axis range from the data extremes, padding
// unpinned bounds by the space percentages.
func (y *YAxis) Calculate(dataMin, dataMax float64) {
	min := dataMin
	if y.customMin {
		min = y.pinnedMin
	}
	max := dataMax
	if y.customMax {
		max = y.pinnedMax
	}
	if min > max {
		min, max = max, min
	}

	rng := math.Abs(max - min)
	if rng == 0 {
		max++
		min--
	}
	if !y.customMax {
		max += rng * y.SpaceTop / 100
	}
	if !y.customMin {
		min -= rng * y.SpaceBottom / 100
	}

	y.Min = min
	y.Max = max
	y.Range = math.Abs(max - min)
}
