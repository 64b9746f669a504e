// Package axis models chart axes: ranges, nice tick entries and limit
// lines. Axes are pure data plus math; projecting them to pixels
// happens in layout.go and drawing them is the widget's business.
package axis

import (
	"image/color"
	"math"
	"strconv"

	"github.com/aclements/go-moremath/scale"
)

// LimitLine is a constant value marked across the chart.
type LimitLine struct {
	Value     float64
	Label     string
	LineWidth float32
	// Color nil means the theme's foreground color.
	Color color.Color
}

// Base holds what the X and Y axes share. The zero value is not ready
// for use; start from NewXAxis or NewYAxis.
type Base struct {
	Enabled       bool
	DrawLabels    bool
	DrawGridLines bool
	DrawAxisLine  bool

	TextSize float32

	// Granularity is the smallest allowed interval between ticks once
	// GranularityEnabled is set.
	Granularity        float64
	GranularityEnabled bool

	LimitLines               []LimitLine
	DrawLimitLinesBehindData bool

	// Min, Max and Range are the outputs of Calculate.
	Min   float64
	Max   float64
	Range float64

	labelCount int

	customMin bool
	customMax bool
	pinnedMin float64
	pinnedMax float64

	entries  []float64
	decimals int
}

func newBase() Base {
	return Base{
		Enabled:       true,
		DrawLabels:    true,
		DrawGridLines: true,
		DrawAxisLine:  true,
		TextSize:      10,
		Granularity:   1,
		labelCount:    6,
	}
}

// SetLabelCount bounds how many tick entries ComputeEntries may
// produce. Values outside 2..25 are clamped.
func (b *Base) SetLabelCount(n int) {
	if n < 2 {
		n = 2
	}
	if n > 25 {
		n = 25
	}
	b.labelCount = n
}

func (b *Base) LabelCount() int { return b.labelCount }

// SetAxisMinimum pins the axis minimum regardless of the data.
func (b *Base) SetAxisMinimum(v float64) {
	b.customMin = true
	b.pinnedMin = v
}

// ResetAxisMinimum lets the data drive the minimum again.
func (b *Base) ResetAxisMinimum() { b.customMin = false }

// SetAxisMaximum pins the axis maximum regardless of the data.
func (b *Base) SetAxisMaximum(v float64) {
	b.customMax = true
	b.pinnedMax = v
}

// ResetAxisMaximum lets the data drive the maximum again.
func (b *Base) ResetAxisMaximum() { b.customMax = false }

// AddLimitLine appends a limit line to the axis.
func (b *Base) AddLimitLine(ll LimitLine) {
	b.LimitLines = append(b.LimitLines, ll)
}

// RemoveAllLimitLines clears the limit lines.
func (b *Base) RemoveAllLimitLines() { b.LimitLines = nil }

// Calculate resolves the axis range from the data extremes, honoring
// pinned bounds. A degenerate range is widened so the chart never
// divides by zero.
func (b *Base) Calculate(dataMin, dataMax float64) {
	min := dataMin
	if b.customMin {
		min = b.pinnedMin
	}
	max := dataMax
	if b.customMax {
		max = b.pinnedMax
	}
	if min > max {
		min, max = max, min
	}
	if max-min == 0 {
		max++
		min--
	}
	b.Min = min
	b.Max = max
	b.Range = math.Abs(max - min)
}

// Entries returns the tick values from the last ComputeEntries.
func (b *Base) Entries() []float64 { return b.entries }

// Decimals returns the label precision from the last ComputeEntries.
func (b *Base) Decimals() int { return b.decimals }

// FormatLabel renders a tick value with the computed precision.
func (b *Base) FormatLabel(v float64) string {
	if v == 0 {
		v = 0 // never print "-0"
	}
	return strconv.FormatFloat(v, 'f', b.decimals, 64)
}

// ComputeEntries picks nice tick values for the current Min..Max. The
// interval comes from a 1-2-5 ladder searched with the tick-level
// optimizer, so the count never exceeds the label count; an enabled
// granularity acts as an interval floor.
func (b *Base) ComputeEntries() {
	b.ComputeEntriesIn(b.Min, b.Max)
}

// ComputeEntriesIn recomputes the ticks over a sub-range of the axis.
// A zoomed chart calls this with the visible stretch so tick density
// follows the zoom instead of thinning out.
func (b *Base) ComputeEntriesIn(min, max float64) {
	b.entries = nil
	b.decimals = 0
	rng := math.Abs(max - min)
	if !(rng > 0) || math.IsInf(rng, 0) {
		return
	}

	opts := scale.TickOptions{Max: b.labelCount}
	count := func(level int) int { return tickCount(min, max, ladderSpacing(level)) }
	ticks := func(level int) []float64 { return ticksAt(min, max, ladderSpacing(level)) }

	level, ok := opts.FindLevel(funcTicker{count, ticks}, guessLevel(rng, b.labelCount))
	if !ok {
		return
	}

	spacing := ladderSpacing(level)
	if b.GranularityEnabled && spacing < b.Granularity {
		spacing = b.Granularity
	}

	b.entries = ticksAt(min, max, spacing)
	b.decimals = decimalsFor(spacing)
}

// funcTicker adapts the tick closures to the scale.Ticker interface
// that TickOptions.FindLevel expects.
type funcTicker struct {
	count func(level int) int
	ticks func(level int) []float64
}

func (t funcTicker) CountTicks(level int) int           { return t.count(level) }
func (t funcTicker) TicksAtLevel(level int) interface{} { return t.ticks(level) }

// ladderSpacing maps a tick level to an interval on the 1-2-5 ladder:
// ..., 0.2, 0.5, 1, 2, 5, 10, 20, ...
func ladderSpacing(level int) float64 {
	mult := [3]float64{1, 2, 5}
	decade := level / 3
	step := level % 3
	if step < 0 {
		step += 3
		decade--
	}
	return mult[step] * math.Pow(10, float64(decade))
}

// guessLevel estimates the ladder level whose spacing is close to
// range/labels, so the level search starts near its answer.
func guessLevel(rng float64, labels int) int {
	if labels < 2 {
		labels = 2
	}
	raw := rng / float64(labels-1)
	if !(raw > 0) {
		return 0
	}
	return int(math.Round(3 * math.Log10(raw)))
}

func tickCount(min, max, spacing float64) int {
	lo := math.Ceil(min / spacing)
	hi := math.Floor(max / spacing)
	n := int(hi-lo) + 1
	if n < 0 {
		return 0
	}
	return n
}

// ticksAt returns the multiples of spacing inside [min, max].
func ticksAt(min, max, spacing float64) []float64 {
	lo := math.Ceil(min / spacing)
	hi := math.Floor(max / spacing)
	if hi < lo {
		return nil
	}
	out := make([]float64, 0, int(hi-lo)+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i*spacing)
	}
	return out
}

// decimalsFor picks the smallest precision that prints the interval
// exactly, so "0.25" never labels as "0.2".
func decimalsFor(spacing float64) int {
	if spacing <= 0 || spacing >= 1 {
		return 0
	}
	d := int(math.Ceil(-math.Log10(spacing)))
	for ; d < 10; d++ {
		scaled := spacing * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return d
		}
	}
	return d
}
