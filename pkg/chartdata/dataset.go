package chartdata

import (
	"image/color"
	"math"
	"sort"
)

// AxisDependency tells which vertical axis a data set is measured against.
type AxisDependency int

const (
	AxisLeft AxisDependency = iota
	AxisRight
)

// Rounding controls how EntryIndexForX resolves an X value that falls
// between two entries.
type Rounding int

const (
	RoundClosest Rounding = iota
	RoundUp
	RoundDown
)

// Kind selects how a data set is drawn.
type Kind int

const (
	KindLine Kind = iota
	KindBar
	KindScatter
)

// Shape is the marker used for scatter data sets.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeX
)

// Entry is a single data point.
type Entry struct {
	X float64
	Y float64
}

// DataSet is one ordered series of entries plus its draw style. Entries
// are kept sorted by X at all times so lookups can binary-search.
type DataSet struct {
	Label            string
	Axis             AxisDependency
	Kind             Kind
	Shape            Shape
	Color            color.Color // nil means "pick from the palette"
	LineWidth        float32
	ShapeSize        float32
	BarWidth         float64 // in X units
	Visible          bool
	HighlightEnabled bool

	entries []Entry

	xMin, xMax float64
	yMin, yMax float64
}

// NewDataSet creates a series with sensible draw defaults. The entries
// slice is copied and sorted, callers may keep theirs.
func NewDataSet(label string, entries []Entry) *DataSet {
	d := &DataSet{
		Label:            label,
		LineWidth:        2,
		ShapeSize:        4,
		BarWidth:         0.85,
		Visible:          true,
		HighlightEnabled: true,
	}
	d.SetEntries(entries)
	return d
}

// SetEntries replaces the series content.
func (d *DataSet) SetEntries(entries []Entry) {
	d.entries = append([]Entry(nil), entries...)
	sort.SliceStable(d.entries, func(i, j int) bool { return d.entries[i].X < d.entries[j].X })
	d.CalcMinMax()
}

// AddEntry inserts e at its sorted position and extends the bounds.
// Equal X values keep insertion order.
func (d *DataSet) AddEntry(e Entry) {
	i := sort.Search(len(d.entries), func(k int) bool { return d.entries[k].X > e.X })
	d.entries = append(d.entries, Entry{})
	copy(d.entries[i+1:], d.entries[i:])
	d.entries[i] = e
	d.extendBounds(e)
}

// RemoveEntry deletes the entry at index. The bounds are recomputed when
// the removed entry sat on one of them.
func (d *DataSet) RemoveEntry(index int) bool {
	if index < 0 || index >= len(d.entries) {
		return false
	}
	e := d.entries[index]
	d.entries = append(d.entries[:index], d.entries[index+1:]...)
	if e.X <= d.xMin || e.X >= d.xMax || e.Y <= d.yMin || e.Y >= d.yMax {
		d.CalcMinMax()
	}
	return true
}

// Clear removes all entries.
func (d *DataSet) Clear() {
	d.entries = d.entries[:0]
	d.CalcMinMax()
}

// CalcMinMax recomputes the cached bounds from scratch. An empty series
// ends up with inverted infinite bounds.
func (d *DataSet) CalcMinMax() {
	d.xMin, d.yMin = math.Inf(1), math.Inf(1)
	d.xMax, d.yMax = math.Inf(-1), math.Inf(-1)
	for _, e := range d.entries {
		d.extendBounds(e)
	}
}

// CalcMinMaxY narrows the cached Y bounds to entries whose X falls in
// [fromX, toX]. The neighbouring entry on each side is included so lines
// crossing the window edge keep their slope. A later CalcMinMax undoes
// the narrowing.
func (d *DataSet) CalcMinMaxY(fromX, toX float64) {
	d.yMin, d.yMax = math.Inf(1), math.Inf(-1)
	if len(d.entries) == 0 {
		return
	}
	from := d.EntryIndexForX(fromX, RoundDown)
	to := d.EntryIndexForX(toX, RoundUp)
	for i := from; i <= to; i++ {
		e := d.entries[i]
		if e.Y < d.yMin {
			d.yMin = e.Y
		}
		if e.Y > d.yMax {
			d.yMax = e.Y
		}
	}
}

func (d *DataSet) extendBounds(e Entry) {
	if e.X < d.xMin {
		d.xMin = e.X
	}
	if e.X > d.xMax {
		d.xMax = e.X
	}
	if e.Y < d.yMin {
		d.yMin = e.Y
	}
	if e.Y > d.yMax {
		d.yMax = e.Y
	}
}

func (d *DataSet) EntryCount() int { return len(d.entries) }

// EntryAt returns the entry at index. The index must be in range.
func (d *DataSet) EntryAt(index int) Entry { return d.entries[index] }

// Entries exposes the backing slice for rendering. Callers must not
// modify it.
func (d *DataSet) Entries() []Entry { return d.entries }

func (d *DataSet) XMin() float64 { return d.xMin }
func (d *DataSet) XMax() float64 { return d.xMax }
func (d *DataSet) YMin() float64 { return d.yMin }
func (d *DataSet) YMax() float64 { return d.yMax }

// EntryForX returns the entry nearest to x under the given rounding.
// ok is false only for an empty series.
func (d *DataSet) EntryForX(x float64, r Rounding) (Entry, bool) {
	i := d.EntryIndexForX(x, r)
	if i < 0 {
		return Entry{}, false
	}
	return d.entries[i], true
}

// EntryIndexForX locates the entry nearest to x. RoundUp prefers the
// first entry at or above x, RoundDown the last entry at or below x;
// both fall back to the nearest end when x lies outside the series.
// RoundClosest resolves equidistant neighbours to the lower one, and
// always lands on the first entry of a run sharing the same X. Returns
// -1 for an empty series.
func (d *DataSet) EntryIndexForX(x float64, r Rounding) int {
	n := len(d.entries)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(k int) bool { return d.entries[k].X >= x })
	switch r {
	case RoundUp:
		if i == n {
			return n - 1
		}
		return i
	case RoundDown:
		if i < n && d.entries[i].X == x {
			return i
		}
		if i == 0 {
			return 0
		}
		return i - 1
	}
	if i == n {
		i = n - 1
	} else if i > 0 && x-d.entries[i-1].X <= d.entries[i].X-x {
		i--
	}
	return d.runStart(i)
}

// EntriesForX returns every entry whose X equals x exactly, in order.
func (d *DataSet) EntriesForX(x float64) []Entry {
	n := len(d.entries)
	i := sort.Search(n, func(k int) bool { return d.entries[k].X >= x })
	var out []Entry
	for ; i < n && d.entries[i].X == x; i++ {
		out = append(out, d.entries[i])
	}
	return out
}

// runStart steps back to the first entry sharing the X value at index i.
func (d *DataSet) runStart(i int) int {
	for i > 0 && d.entries[i-1].X == d.entries[i].X {
		i--
	}
	return i
}
