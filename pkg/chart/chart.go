// Package chart is the interactive chart widget. It glues the data
// container, viewport, axes, highlighter and touch state machine to a
// fyne canvas: gestures come in through the widget's event methods,
// flow through gesture.TouchHandler, and end up as viewport matrix
// changes that the renderer picks up on the next refresh.
package chart

import (
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"touchplot/pkg/axis"
	"touchplot/pkg/chartdata"
	"touchplot/pkg/gesture"
	"touchplot/pkg/highlight"
	"touchplot/pkg/viewport"
)

// EventSelect is delivered whenever the selected value changes. The
// payload is the new *highlight.Highlight, nil when the selection was
// cleared. The gesture event names (gesture.EventTap and friends) are
// delivered through the same listener registry.
const EventSelect = "select"

// labelPad is the gap, in pixels, between tick labels and the content
// edge they belong to.
const labelPad = 5

// Chart is a line/bar/scatter chart with touch interaction: drag to
// pan, pinch or scroll to zoom, tap to highlight, double tap to zoom
// in. All methods must be called from the fyne UI goroutine.
type Chart struct {
	widget.BaseWidget

	data *chartdata.ChartData

	xAxis     *axis.XAxis
	axisLeft  *axis.YAxis
	axisRight *axis.YAxis

	vph     *viewport.Handler
	trLeft  *viewport.Transformer
	trRight *viewport.Transformer

	highlighter *highlight.Highlighter
	touch       *gesture.TouchHandler
	source      *gesture.Registry

	dragXEnabled            bool
	dragYEnabled            bool
	scaleXEnabled           bool
	scaleYEnabled           bool
	pinchZoomEnabled        bool
	doubleTapToZoomEnabled  bool
	highlightPerTapEnabled  bool
	highlightPerDragEnabled bool
	dragDecelerationEnabled bool

	frictionCoef         float64
	maxHighlightDistance float64
	minOffset            float64

	highlighted *highlight.Highlight

	listeners      map[string][]listener
	nextListenerID uint64

	// fyne drag adapter state, see source.go
	dragging   bool
	dragTransX float64
	dragTransY float64
	dragVelX   float64
	dragVelY   float64
	dragLast   time.Time

	decel *decelRunner

	scrollLocked bool

	// OnScrollLock, when set, is told whenever the chart wants an
	// enclosing scroll container paused for a two-finger gesture.
	OnScrollLock func(locked bool)
}

var _ fyne.Widget = (*Chart)(nil)
var _ gesture.ChartHost = (*Chart)(nil)
var _ highlight.PixelProvider = (*Chart)(nil)

type listener struct {
	id uint64
	fn func(payload any)
}

// New creates an empty chart with the interaction defaults: dragging
// and per-axis scaling on, pinch zoom off, double-tap zoom and tap or
// drag highlighting on, fling deceleration on.
func New() *Chart {
	c := &Chart{
		data:      chartdata.NewChartData(),
		xAxis:     axis.NewXAxis(),
		axisLeft:  axis.NewYAxis(chartdata.AxisLeft),
		axisRight: axis.NewYAxis(chartdata.AxisRight),
		vph:       viewport.NewHandler(),

		dragXEnabled:            true,
		dragYEnabled:            true,
		scaleXEnabled:           true,
		scaleYEnabled:           true,
		doubleTapToZoomEnabled:  true,
		highlightPerTapEnabled:  true,
		highlightPerDragEnabled: true,
		dragDecelerationEnabled: true,

		frictionCoef:         0.9,
		maxHighlightDistance: 500,
		minOffset:            15,

		listeners: make(map[string][]listener),
	}
	c.trLeft = viewport.NewTransformer(c.vph)
	c.trRight = viewport.NewTransformer(c.vph)
	c.highlighter = highlight.NewHighlighter(c)
	c.touch = gesture.NewTouchHandler(c)
	c.source = &gesture.Registry{}
	c.touch.Attach(c.source)
	c.decel = newDecelRunner(c)
	c.ExtendBaseWidget(c)
	return c
}

// Resize keeps the viewport in sync with the widget surface.
func (c *Chart) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	w, h := float64(size.Width), float64(size.Height)
	if w == c.vph.ChartWidth() && h == c.vph.ChartHeight() {
		return
	}
	c.vph.SetChartDimens(w, h)
	c.CalculateOffsets()
}

// SetData replaces the chart's data and recomputes everything derived
// from it. The previous selection is dropped.
func (c *Chart) SetData(d *chartdata.ChartData) {
	if d == nil {
		d = chartdata.NewChartData()
	}
	c.data = d
	c.highlighted = nil
	c.touch.SetLastHighlight(nil)
	c.NotifyDataChanged()
}

// Data returns the chart's data container. Mutate it and call
// NotifyDataChanged to pick the changes up.
func (c *Chart) Data() *chartdata.ChartData { return c.data }

// NotifyDataChanged recomputes the data bounds, the axis ranges and
// the transformer matrices, then redraws.
func (c *Chart) NotifyDataChanged() {
	c.data.CalcMinMax()
	c.xAxis.Calculate(c.data.XMin(), c.data.XMax())
	c.axisLeft.Calculate(c.data.YMinFor(chartdata.AxisLeft), c.data.YMaxFor(chartdata.AxisLeft))
	c.axisRight.Calculate(c.data.YMinFor(chartdata.AxisRight), c.data.YMaxFor(chartdata.AxisRight))
	c.CalculateOffsets()
	c.Refresh()
}

// CalculateOffsets measures the axis labels, rebuilds the content rect
// from them and re-prepares both transformer matrices. Runs on resize,
// after data changes and when a zoom gesture ends.
func (c *Chart) CalculateOffsets() {
	if !c.vph.HasChartDimens() {
		return
	}

	// label text must exist before it can be measured
	c.computeAxisEntries()

	var left, top, right, bottom float64
	if c.axisLeft.Enabled && c.axisLeft.DrawLabels {
		left += c.yLabelWidth(c.axisLeft)
	}
	if c.axisRight.Enabled && c.axisRight.DrawLabels {
		right += c.yLabelWidth(c.axisRight)
	}
	if c.xAxis.Enabled && c.xAxis.DrawLabels {
		h := c.xLabelHeight()
		if c.xAxis.Position == axis.XAxisTop {
			top += h
		} else {
			bottom += h
		}
	}

	c.vph.RestrainViewPort(
		math.Max(c.minOffset, left),
		math.Max(c.minOffset, top),
		math.Max(c.minOffset, right),
		math.Max(c.minOffset, bottom))
	c.prepareMatrices()
}

func (c *Chart) prepareMatrices() {
	c.trLeft.PrepareMatrixValuePx(c.xAxis.Min, c.xAxis.Range, c.axisLeft.Range, c.axisLeft.Min)
	c.trRight.PrepareMatrixValuePx(c.xAxis.Min, c.xAxis.Range, c.axisRight.Range, c.axisRight.Min)
	c.trLeft.PrepareMatrixOffset(c.axisLeft.Inverted)
	c.trRight.PrepareMatrixOffset(c.axisRight.Inverted)
}

// computeAxisEntries refreshes the tick entries for every enabled
// axis. Zoomed in, each axis is recomputed over its visible stretch so
// the tick density follows the zoom.
func (c *Chart) computeAxisEntries() {
	if c.xAxis.Enabled {
		min, max := c.xAxis.Min, c.xAxis.Max
		if c.vph.ContentWidth() > 10 && !c.vph.IsFullyZoomedOutX() {
			a, _ := c.trLeft.PixelToPoint(c.vph.ContentLeft(), c.vph.ContentTop())
			b, _ := c.trLeft.PixelToPoint(c.vph.ContentRight(), c.vph.ContentTop())
			min, max = math.Min(a, b), math.Max(a, b)
		}
		c.xAxis.ComputeEntriesIn(min, max)
	}
	if c.axisLeft.Enabled {
		c.computeYEntries(c.axisLeft, c.trLeft)
	}
	if c.axisRight.Enabled {
		c.computeYEntries(c.axisRight, c.trRight)
	}
}

func (c *Chart) computeYEntries(a *axis.YAxis, tr *viewport.Transformer) {
	min, max := a.Min, a.Max
	if c.vph.ContentWidth() > 10 && !c.vph.IsFullyZoomedOutY() {
		_, p := tr.PixelToPoint(c.vph.ContentLeft(), c.vph.ContentTop())
		_, q := tr.PixelToPoint(c.vph.ContentLeft(), c.vph.ContentBottom())
		min, max = math.Min(p, q), math.Max(p, q)
	}
	a.ComputeEntriesIn(min, max)
}

func (c *Chart) yLabelWidth(a *axis.YAxis) float64 {
	var widest float32
	for _, v := range a.Entries() {
		size := fyne.MeasureText(a.FormatLabel(v), a.TextSize, fyne.TextStyle{})
		if size.Width > widest {
			widest = size.Width
		}
	}
	return float64(widest) + 2*labelPad
}

func (c *Chart) xLabelHeight() float64 {
	size := fyne.MeasureText("0", c.xAxis.TextSize, fyne.TextStyle{})
	return float64(size.Height) + 2*labelPad
}

// XAxis returns the horizontal axis.
func (c *Chart) XAxis() *axis.XAxis { return c.xAxis }

// AxisLeft returns the left vertical axis.
func (c *Chart) AxisLeft() *axis.YAxis { return c.axisLeft }

// AxisRight returns the right vertical axis.
func (c *Chart) AxisRight() *axis.YAxis { return c.axisRight }

// AxisFor returns the vertical axis a data set with the given
// dependency is measured against.
func (c *Chart) AxisFor(dep chartdata.AxisDependency) *axis.YAxis {
	if dep == chartdata.AxisRight {
		return c.axisRight
	}
	return c.axisLeft
}

// Highlighted returns the current selection, nil when nothing is
// selected.
func (c *Chart) Highlighted() *highlight.Highlight { return c.highlighted }

// On registers fn for a named chart event: the gesture names ("pan",
// "translate", "pinch", "zoom", "tap", "doubleTap") or "select". The
// returned id identifies the registration for RemoveListener.
func (c *Chart) On(event string, fn func(payload any)) uint64 {
	c.nextListenerID++
	c.listeners[event] = append(c.listeners[event], listener{id: c.nextListenerID, fn: fn})
	return c.nextListenerID
}

// RemoveListener drops one registration made with On.
func (c *Chart) RemoveListener(event string, id uint64) {
	regs := c.listeners[event]
	for i, l := range regs {
		if l.id == id {
			c.listeners[event] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// ZoomIn scales the viewport in by 1.4 about the content center.
func (c *Chart) ZoomIn() { c.zoomCenter(1.4) }

// ZoomOut scales the viewport out by 1/1.4 about the content center.
func (c *Chart) ZoomOut() { c.zoomCenter(1 / 1.4) }

func (c *Chart) zoomCenter(scale float64) {
	cx := c.vph.ContentLeft() + c.vph.ContentWidth()/2
	cy := c.vph.ContentTop() + c.vph.ContentHeight()/2
	px, py := c.vph.TouchSpacePivot(cx, cy, c.AxisInvertedAt(cx, cy))
	c.Zoom(scale, scale, px, py)
}

// FitScreen resets all zoom and translation.
func (c *Chart) FitScreen() {
	c.vph.Refresh(c.vph.FitScreen())
	c.CalculateOffsets()
	c.Refresh()
}

// SetVisibleXRangeMaximum bounds how much of the X range may be shown
// at once, by raising the minimum X scale.
func (c *Chart) SetVisibleXRangeMaximum(maxRange float64) {
	c.vph.SetMinimumScaleX(c.xAxis.Range / maxRange)
}

// SetVisibleXRangeMinimum bounds how far the chart can zoom in on X.
func (c *Chart) SetVisibleXRangeMinimum(minRange float64) {
	c.vph.SetMaximumScaleX(c.xAxis.Range / minRange)
}

// LowestVisibleX is the smallest X value inside the content rect.
func (c *Chart) LowestVisibleX() float64 {
	x, _ := c.trLeft.PixelToPoint(c.vph.ContentLeft(), c.vph.ContentBottom())
	return math.Max(c.xAxis.Min, x)
}

// HighestVisibleX is the largest X value inside the content rect.
func (c *Chart) HighestVisibleX() float64 {
	x, _ := c.trLeft.PixelToPoint(c.vph.ContentRight(), c.vph.ContentBottom())
	return math.Min(c.xAxis.Max, x)
}

// SetDragEnabled toggles panning on both axes at once.
func (c *Chart) SetDragEnabled(enabled bool) {
	c.dragXEnabled = enabled
	c.dragYEnabled = enabled
}

// SetDragXEnabled toggles horizontal panning.
func (c *Chart) SetDragXEnabled(enabled bool) { c.dragXEnabled = enabled }

// SetDragYEnabled toggles vertical panning.
func (c *Chart) SetDragYEnabled(enabled bool) { c.dragYEnabled = enabled }

// SetScaleEnabled toggles zooming on both axes at once.
func (c *Chart) SetScaleEnabled(enabled bool) {
	c.scaleXEnabled = enabled
	c.scaleYEnabled = enabled
}

// SetScaleXEnabled toggles horizontal zooming.
func (c *Chart) SetScaleXEnabled(enabled bool) { c.scaleXEnabled = enabled }

// SetScaleYEnabled toggles vertical zooming.
func (c *Chart) SetScaleYEnabled(enabled bool) { c.scaleYEnabled = enabled }

// SetPinchZoomEnabled makes pinches scale both axes by the same
// factor instead of following the wider finger spread.
func (c *Chart) SetPinchZoomEnabled(enabled bool) { c.pinchZoomEnabled = enabled }

// SetDoubleTapToZoomEnabled toggles the double-tap zoom-in shortcut.
func (c *Chart) SetDoubleTapToZoomEnabled(enabled bool) { c.doubleTapToZoomEnabled = enabled }

// SetHighlightPerTapEnabled toggles selection by tapping.
func (c *Chart) SetHighlightPerTapEnabled(enabled bool) { c.highlightPerTapEnabled = enabled }

// SetHighlightPerDragEnabled toggles selection by dragging a finger
// over the chart while it is fully zoomed out.
func (c *Chart) SetHighlightPerDragEnabled(enabled bool) { c.highlightPerDragEnabled = enabled }

// SetDragDecelerationEnabled toggles fling deceleration after a drag.
func (c *Chart) SetDragDecelerationEnabled(enabled bool) { c.dragDecelerationEnabled = enabled }

// SetDragDecelerationFrictionCoef sets the per-frame velocity retain
// factor for flings. Values outside [0, 1) are clamped.
func (c *Chart) SetDragDecelerationFrictionCoef(f float64) {
	if f < 0 {
		f = 0
	}
	if f >= 1 {
		f = 0.999
	}
	c.frictionCoef = f
}

// DragDecelerationFrictionCoef returns the fling friction factor.
func (c *Chart) DragDecelerationFrictionCoef() float64 { return c.frictionCoef }

// SetMaxHighlightDistance bounds, in pixels, how far a touch may land
// from a point and still select it.
func (c *Chart) SetMaxHighlightDistance(d float64) { c.maxHighlightDistance = d }

// SetMinOffset sets the minimum padding kept around the content rect.
func (c *Chart) SetMinOffset(o float64) { c.minOffset = o }

// ChartHost implementation. The touch handler drives the chart
// exclusively through these.

// ViewPort returns the zoom and translation state.
func (c *Chart) ViewPort() *viewport.Handler { return c.vph }

func (c *Chart) DragXEnabled() bool            { return c.dragXEnabled }
func (c *Chart) DragYEnabled() bool            { return c.dragYEnabled }
func (c *Chart) ScaleXEnabled() bool           { return c.scaleXEnabled }
func (c *Chart) ScaleYEnabled() bool           { return c.scaleYEnabled }
func (c *Chart) PinchZoomEnabled() bool        { return c.pinchZoomEnabled }
func (c *Chart) DoubleTapToZoomEnabled() bool  { return c.doubleTapToZoomEnabled }
func (c *Chart) HighlightPerTapEnabled() bool  { return c.highlightPerTapEnabled }
func (c *Chart) HighlightPerDragEnabled() bool { return c.highlightPerDragEnabled }
func (c *Chart) DragDecelerationEnabled() bool { return c.dragDecelerationEnabled }

// AxisInvertedAt resolves Y inversion for a gesture that starts at the
// given pixel: the axis of the nearest data set wins, otherwise any
// inverted axis counts.
func (c *Chart) AxisInvertedAt(px, py float64) bool {
	if !c.axisLeft.Inverted && !c.axisRight.Inverted {
		return false
	}
	if h := c.highlighter.HighlightAt(px, py); h != nil {
		return c.AxisFor(h.Axis).Inverted
	}
	return true
}

// HasEntries reports whether any data set holds at least one entry.
func (c *Chart) HasEntries() bool { return c.data.EntryCount() > 0 }

// HighlightAt resolves the pixel to the nearest highlightable entry,
// nil when nothing is within the highlight distance.
func (c *Chart) HighlightAt(px, py float64) *highlight.Highlight {
	return c.highlighter.HighlightAt(px, py)
}

// HighlightValue selects a value, programmatically or from a touch,
// runs the select listeners and redraws. Nil clears the selection.
func (c *Chart) HighlightValue(h *highlight.Highlight) {
	c.highlighted = h
	c.touch.SetLastHighlight(h)
	c.Notify(EventSelect, h)
	c.Refresh()
}

// HasListener reports whether anything listens for the event name.
func (c *Chart) HasListener(event string) bool { return len(c.listeners[event]) > 0 }

// Notify runs every listener registered for the event name.
func (c *Chart) Notify(event string, payload any) {
	for _, l := range c.listeners[event] {
		l.fn(payload)
	}
}

// DisableScroll asks the surrounding container to stop consuming
// scroll gestures while a two-finger gesture is active.
func (c *Chart) DisableScroll() { c.setScrollLocked(true) }

// EnableScroll releases the scroll fence after the gesture ends.
func (c *Chart) EnableScroll() { c.setScrollLocked(false) }

func (c *Chart) setScrollLocked(locked bool) {
	if c.scrollLocked == locked {
		return
	}
	c.scrollLocked = locked
	if c.OnScrollLock != nil {
		c.OnScrollLock(locked)
	}
}

// Invalidate schedules a redraw.
func (c *Chart) Invalidate() { c.Refresh() }

// Zoom scales the current viewport about a touch-space pivot, then
// recomputes the offsets and redraws.
func (c *Chart) Zoom(scaleX, scaleY, pivotX, pivotY float64) {
	c.vph.Refresh(c.vph.Zoom(scaleX, scaleY, pivotX, pivotY))
	c.CalculateOffsets()
	c.Refresh()
}

// StartDeceleration begins a fling with the given release velocity.
func (c *Chart) StartDeceleration(velocityX, velocityY float64, inverted bool) {
	c.decel.Start(velocityX, velocityY, inverted)
}

// StopDeceleration interrupts a running fling, if any.
func (c *Chart) StopDeceleration() { c.decel.Stop() }

// PixelProvider implementation for the highlighter.

// TransformerFor returns the pixel transformer of the given axis side.
func (c *Chart) TransformerFor(dep chartdata.AxisDependency) *viewport.Transformer {
	if dep == chartdata.AxisRight {
		return c.trRight
	}
	return c.trLeft
}

// MaxHighlightDistance is the selection distance limit in pixels.
func (c *Chart) MaxHighlightDistance() float64 { return c.maxHighlightDistance }
