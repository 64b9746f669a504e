package chartdata

import "math"

// ChartData aggregates the data sets shown by one chart and keeps the
// combined bounds, overall and per axis side, in step with them.
type ChartData struct {
	sets []*DataSet

	xMin, xMax float64
	yMin, yMax float64

	leftYMin, leftYMax   float64
	rightYMin, rightYMax float64
}

func NewChartData(sets ...*DataSet) *ChartData {
	c := &ChartData{sets: sets}
	c.CalcMinMax()
	return c
}

// CalcMinMax rebuilds every aggregate bound from the per-set bounds.
// Sets maintain their own bounds, so this does not rescan entries.
func (c *ChartData) CalcMinMax() {
	c.xMin, c.yMin = math.Inf(1), math.Inf(1)
	c.xMax, c.yMax = math.Inf(-1), math.Inf(-1)
	c.leftYMin, c.leftYMax = math.Inf(1), math.Inf(-1)
	c.rightYMin, c.rightYMax = math.Inf(1), math.Inf(-1)

	for _, set := range c.sets {
		if set.EntryCount() == 0 {
			continue
		}
		if set.XMin() < c.xMin {
			c.xMin = set.XMin()
		}
		if set.XMax() > c.xMax {
			c.xMax = set.XMax()
		}
		if set.YMin() < c.yMin {
			c.yMin = set.YMin()
		}
		if set.YMax() > c.yMax {
			c.yMax = set.YMax()
		}
		if set.Axis == AxisLeft {
			if set.YMin() < c.leftYMin {
				c.leftYMin = set.YMin()
			}
			if set.YMax() > c.leftYMax {
				c.leftYMax = set.YMax()
			}
		} else {
			if set.YMin() < c.rightYMin {
				c.rightYMin = set.YMin()
			}
			if set.YMax() > c.rightYMax {
				c.rightYMax = set.YMax()
			}
		}
	}
}

// CalcMinMaxYRange narrows every set's Y bounds to the given X window
// and rebuilds the aggregates. Used for axis autoscaling while the
// viewport is panned or zoomed.
func (c *ChartData) CalcMinMaxYRange(fromX, toX float64) {
	for _, set := range c.sets {
		set.CalcMinMaxY(fromX, toX)
	}
	c.CalcMinMax()
}

func (c *ChartData) AddDataSet(d *DataSet) {
	if d == nil {
		return
	}
	c.sets = append(c.sets, d)
	c.CalcMinMax()
}

// RemoveDataSetAt deletes the set at index and rebuilds the bounds.
func (c *ChartData) RemoveDataSetAt(index int) bool {
	if index < 0 || index >= len(c.sets) {
		return false
	}
	c.sets = append(c.sets[:index], c.sets[index+1:]...)
	c.CalcMinMax()
	return true
}

func (c *ChartData) DataSetCount() int { return len(c.sets) }

// DataSetAt returns the set at index. The index must be in range.
func (c *ChartData) DataSetAt(index int) *DataSet { return c.sets[index] }

// DataSets exposes the backing slice in draw order. Callers must not
// modify it.
func (c *ChartData) DataSets() []*DataSet { return c.sets }

// DataSetByLabel returns the first set with the given label, or nil.
func (c *ChartData) DataSetByLabel(label string) *DataSet {
	for _, set := range c.sets {
		if set.Label == label {
			return set
		}
	}
	return nil
}

// EntryCount sums the entries over all sets.
func (c *ChartData) EntryCount() int {
	total := 0
	for _, set := range c.sets {
		total += set.EntryCount()
	}
	return total
}

func (c *ChartData) XMin() float64 { return c.xMin }
func (c *ChartData) XMax() float64 { return c.xMax }
func (c *ChartData) YMin() float64 { return c.yMin }
func (c *ChartData) YMax() float64 { return c.yMax }

// YMinFor returns the lowest Y on the given axis side. A side without
// any data sets borrows the bound of the other side, so a chart with
// only left-axis data still renders a sane right axis.
func (c *ChartData) YMinFor(axis AxisDependency) float64 {
	if axis == AxisLeft {
		if math.IsInf(c.leftYMin, 1) {
			return c.rightYMin
		}
		return c.leftYMin
	}
	if math.IsInf(c.rightYMin, 1) {
		return c.leftYMin
	}
	return c.rightYMin
}

// YMaxFor is the counterpart of YMinFor for the upper bound.
func (c *ChartData) YMaxFor(axis AxisDependency) float64 {
	if axis == AxisLeft {
		if math.IsInf(c.leftYMax, -1) {
			return c.rightYMax
		}
		return c.leftYMax
	}
	if math.IsInf(c.rightYMax, -1) {
		return c.leftYMax
	}
	return c.rightYMax
}
