package chart

import (
	"math"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"touchplot/pkg/axis"
	"touchplot/pkg/chartdata"
	"touchplot/pkg/highlight"
)

func rampData() *chartdata.ChartData {
	entries := make([]chartdata.Entry, 11)
	for i := range entries {
		entries[i] = chartdata.Entry{X: float64(i), Y: float64(i * 10)}
	}
	return chartdata.NewChartData(chartdata.NewDataSet("ramp", entries))
}

func newSizedChart(t *testing.T) *Chart {
	t.Helper()
	test.NewApp()
	c := New()
	c.Resize(fyne.NewSize(400, 300))
	return c
}

func dragEvent(x, y, dx, dy float32) *fyne.DragEvent {
	ev := &fyne.DragEvent{Dragged: fyne.Delta{DX: dx, DY: dy}}
	ev.Position = fyne.NewPos(x, y)
	return ev
}

func pointEvent(x, y float32) *fyne.PointEvent {
	return &fyne.PointEvent{Position: fyne.NewPos(x, y)}
}

func scrollEvent(x, y, dy float32) *fyne.ScrollEvent {
	ev := &fyne.ScrollEvent{Scrolled: fyne.Delta{DY: dy}}
	ev.Position = fyne.NewPos(x, y)
	return ev
}

func TestNewDefaults(t *testing.T) {
	c := New()

	if !c.DragXEnabled() || !c.DragYEnabled() {
		t.Error("dragging should default on for both axes")
	}
	if !c.ScaleXEnabled() || !c.ScaleYEnabled() {
		t.Error("scaling should default on for both axes")
	}
	if c.PinchZoomEnabled() {
		t.Error("pinch zoom should default off")
	}
	if !c.DoubleTapToZoomEnabled() || !c.HighlightPerTapEnabled() || !c.HighlightPerDragEnabled() {
		t.Error("tap interactions should default on")
	}
	if !c.DragDecelerationEnabled() {
		t.Error("deceleration should default on")
	}
	if got := c.DragDecelerationFrictionCoef(); got != 0.9 {
		t.Errorf("friction = %v, want 0.9", got)
	}
	if got := c.MaxHighlightDistance(); got != 500 {
		t.Errorf("max highlight distance = %v, want 500", got)
	}
}

func TestFrictionCoefClamped(t *testing.T) {
	c := New()
	c.SetDragDecelerationFrictionCoef(-0.5)
	if got := c.DragDecelerationFrictionCoef(); got != 0 {
		t.Errorf("friction = %v, want 0", got)
	}
	c.SetDragDecelerationFrictionCoef(1)
	if got := c.DragDecelerationFrictionCoef(); got != 0.999 {
		t.Errorf("friction = %v, want 0.999", got)
	}
}

func TestResizeSetsViewport(t *testing.T) {
	c := newSizedChart(t)

	if c.vph.ChartWidth() != 400 || c.vph.ChartHeight() != 300 {
		t.Fatalf("chart dimens = %vx%v, want 400x300",
			c.vph.ChartWidth(), c.vph.ChartHeight())
	}
	// no data, no labels to measure: sides without an x axis fall back
	// to the minimum offset
	if got := c.vph.ContentLeft(); got != 15 {
		t.Errorf("content left = %v, want 15", got)
	}
	if got := c.vph.ContentTop(); got != 15 {
		t.Errorf("content top = %v, want 15", got)
	}
	if got := c.vph.OffsetRight(); got != 15 {
		t.Errorf("right offset = %v, want 15", got)
	}
	if got := c.vph.OffsetBottom(); got < 15 {
		t.Errorf("bottom offset = %v, want >= 15", got)
	}
}

func TestSetDataComputesAxisRanges(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	if c.xAxis.Min != 0 || c.xAxis.Max != 10 {
		t.Fatalf("x axis = [%v, %v], want [0, 10]", c.xAxis.Min, c.xAxis.Max)
	}
	// ten percent space above and below the 0..100 data range
	if c.axisLeft.Min != -10 || c.axisLeft.Max != 110 {
		t.Fatalf("left axis = [%v, %v], want [-10, 110]", c.axisLeft.Min, c.axisLeft.Max)
	}
	// the right axis borrows the left bounds when it has no data
	if c.axisRight.Min != -10 || c.axisRight.Max != 110 {
		t.Fatalf("right axis = [%v, %v], want [-10, 110]", c.axisRight.Min, c.axisRight.Max)
	}

	px, py := c.trLeft.PointToPixel(0, -10)
	if math.Abs(px-c.vph.ContentLeft()) > 1e-6 || math.Abs(py-c.vph.ContentBottom()) > 1e-6 {
		t.Errorf("axis minimum maps to (%v, %v), want content bottom left (%v, %v)",
			px, py, c.vph.ContentLeft(), c.vph.ContentBottom())
	}
	px, py = c.trLeft.PointToPixel(10, 110)
	if math.Abs(px-c.vph.ContentRight()) > 1e-6 || math.Abs(py-c.vph.ContentTop()) > 1e-6 {
		t.Errorf("axis maximum maps to (%v, %v), want content top right (%v, %v)",
			px, py, c.vph.ContentRight(), c.vph.ContentTop())
	}
}

func TestXLabelsOnTopMoveTheOffset(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	bottomBefore := c.vph.OffsetBottom()
	if bottomBefore <= 15 {
		t.Fatalf("bottom offset = %v, want > 15 with labels below", bottomBefore)
	}

	c.xAxis.Position = axis.XAxisTop
	c.CalculateOffsets()
	if got := c.vph.OffsetBottom(); got != 15 {
		t.Errorf("bottom offset = %v, want 15 with labels on top", got)
	}
	if got := c.vph.ContentTop(); got <= 15 {
		t.Errorf("content top = %v, want > 15 with labels on top", got)
	}
}

func TestDragPansWhenZoomed(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())
	c.SetDragDecelerationEnabled(false)
	c.Zoom(2, 2, 0, 0)

	c.Dragged(dragEvent(200, 150, -30, 20))
	c.DragEnd()

	if got := c.vph.TransX(); math.Abs(got-(-30)) > 1e-9 {
		t.Errorf("transX = %v, want -30", got)
	}
	if got := c.vph.TransY(); math.Abs(got-20) > 1e-9 {
		t.Errorf("transY = %v, want 20", got)
	}
	if c.Highlighted() != nil {
		t.Error("a zoomed drag must pan, not highlight")
	}
}

func TestDragAtBaseScaleHighlights(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())
	c.SetDragDecelerationEnabled(false)

	var selected []*highlight.Highlight
	c.On(EventSelect, func(payload any) {
		selected = append(selected, payload.(*highlight.Highlight))
	})

	px, py := c.trLeft.PointToPixel(5, 50)
	c.Dragged(dragEvent(float32(px), float32(py), 2, 0))
	c.DragEnd()

	h := c.Highlighted()
	if h == nil {
		t.Fatal("dragging over a point at base zoom should highlight it")
	}
	if h.X != 5 || h.Y != 50 {
		t.Errorf("highlighted (%v, %v), want (5, 50)", h.X, h.Y)
	}
	if len(selected) != 1 {
		t.Errorf("select listener ran %d times, want 1", len(selected))
	}
	if c.vph.TransX() != 0 || c.vph.TransY() != 0 {
		t.Error("highlight drag must not move the viewport")
	}
}

func TestTapSelectsAndClears(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	selects := 0
	c.On(EventSelect, func(any) { selects++ })

	px, py := c.trLeft.PointToPixel(5, 50)
	c.Tapped(pointEvent(float32(px), float32(py)))
	if h := c.Highlighted(); h == nil || h.X != 5 {
		t.Fatalf("tap selected %+v, want entry at x=5", h)
	}
	if selects != 1 {
		t.Fatalf("select listener ran %d times, want 1", selects)
	}

	// tapping the same point again must not re-fire the selection
	c.Tapped(pointEvent(float32(px), float32(py)))
	if selects != 1 {
		t.Errorf("select listener ran %d times after repeat tap, want 1", selects)
	}

	// far away from any point the tap clears
	c.SetMaxHighlightDistance(20)
	c.Tapped(pointEvent(
		float32(c.vph.ContentRight()-1), float32(c.vph.ContentBottom()-1)))
	if c.Highlighted() != nil {
		t.Error("tap beyond the highlight distance should clear the selection")
	}
	if selects != 2 {
		t.Errorf("select listener ran %d times after clearing, want 2", selects)
	}
}

func TestProgrammaticHighlightSuppressesRepeatTap(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	selects := 0
	c.On(EventSelect, func(any) { selects++ })

	px, py := c.trLeft.PointToPixel(3, 30)
	c.HighlightValue(c.HighlightAt(px, py))
	if selects != 1 {
		t.Fatalf("select listener ran %d times, want 1", selects)
	}

	c.Tapped(pointEvent(float32(px), float32(py)))
	if selects != 1 {
		t.Errorf("tap on the programmatic selection re-fired, selects = %d", selects)
	}
}

func TestDoubleTapZoomsIn(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	cx := float32(c.vph.ContentLeft() + c.vph.ContentWidth()/2)
	cy := float32(c.vph.ContentTop() + c.vph.ContentHeight()/2)
	c.DoubleTapped(pointEvent(cx, cy))

	if got := c.vph.ScaleX(); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("scaleX = %v, want 1.4", got)
	}
	if got := c.vph.ScaleY(); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("scaleY = %v, want 1.4", got)
	}

	c.FitScreen()
	c.SetDoubleTapToZoomEnabled(false)
	c.DoubleTapped(pointEvent(cx, cy))
	if got := c.vph.ScaleX(); got != 1 {
		t.Errorf("scaleX = %v after disabled double tap, want 1", got)
	}
}

func TestScrollWheelZoomsXAxis(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	cx := float32(c.vph.ContentLeft() + c.vph.ContentWidth()/2)
	cy := float32(c.vph.ContentTop() + c.vph.ContentHeight()/2)

	c.Scrolled(scrollEvent(cx, cy, 1))
	if got := c.vph.ScaleX(); math.Abs(got-1.08) > 1e-9 {
		t.Errorf("scaleX = %v after scroll up, want 1.08", got)
	}
	if got := c.vph.ScaleY(); got != 1 {
		t.Errorf("scaleY = %v after scroll up, want 1 (wheel zooms X)", got)
	}

	// scrolling back out clamps at the base scale
	c.Scrolled(scrollEvent(cx, cy, -1))
	if got := c.vph.ScaleX(); got != 1 {
		t.Errorf("scaleX = %v after scroll down, want 1", got)
	}

	c.SetScaleEnabled(false)
	c.Scrolled(scrollEvent(cx, cy, 1))
	if got := c.vph.ScaleX(); got != 1 {
		t.Errorf("scaleX = %v with scaling disabled, want 1", got)
	}
}

func TestScrollLockNotifiesContainer(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	var locks []bool
	c.OnScrollLock = func(locked bool) { locks = append(locks, locked) }

	cx := float32(c.vph.ContentLeft() + 30)
	c.Scrolled(scrollEvent(cx, 100, 1))

	if len(locks) != 2 || !locks[0] || locks[1] {
		t.Errorf("scroll lock sequence = %v, want [true false]", locks)
	}

	c.Scrolled(scrollEvent(cx, 100, 0))
	if len(locks) != 2 {
		t.Errorf("zero-delta scroll changed the lock: %v", locks)
	}
}

func TestZoomInOutAndFitScreen(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	c.ZoomIn()
	if got := c.vph.ScaleX(); math.Abs(got-1.4) > 1e-9 {
		t.Fatalf("scaleX = %v after ZoomIn, want 1.4", got)
	}
	c.ZoomOut()
	if got := c.vph.ScaleX(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("scaleX = %v after ZoomOut, want 1", got)
	}

	c.Zoom(4, 4, c.vph.ContentWidth(), 0)
	if got := c.vph.ScaleX(); got != 4 {
		t.Fatalf("scaleX = %v, want 4", got)
	}
	c.FitScreen()
	if c.vph.ScaleX() != 1 || c.vph.ScaleY() != 1 {
		t.Errorf("scale = (%v, %v) after FitScreen, want (1, 1)",
			c.vph.ScaleX(), c.vph.ScaleY())
	}
	if c.vph.TransX() != 0 || c.vph.TransY() != 0 {
		t.Errorf("trans = (%v, %v) after FitScreen, want (0, 0)",
			c.vph.TransX(), c.vph.TransY())
	}
}

func TestVisibleXRangeLimits(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	c.SetVisibleXRangeMaximum(5)
	if got := c.vph.MinScaleX(); got != 2 {
		t.Fatalf("min scaleX = %v, want 2", got)
	}
	// the viewport snaps up to the new floor immediately
	if got := c.vph.ScaleX(); got != 2 {
		t.Errorf("scaleX = %v after range max, want 2", got)
	}

	c.SetVisibleXRangeMinimum(1)
	c.Zoom(20, 1, 0, 0)
	if got := c.vph.ScaleX(); got != 10 {
		t.Errorf("scaleX = %v after zooming past the cap, want 10", got)
	}
}

func TestLowestHighestVisibleX(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	if got := c.LowestVisibleX(); math.Abs(got) > 1e-9 {
		t.Errorf("lowest visible = %v at base zoom, want 0", got)
	}
	if got := c.HighestVisibleX(); math.Abs(got-10) > 1e-9 {
		t.Errorf("highest visible = %v at base zoom, want 10", got)
	}

	// zoom 2x anchored at the right edge: the upper half stays visible
	c.Zoom(2, 1, c.vph.ContentWidth(), 0)
	if got := c.LowestVisibleX(); math.Abs(got-5) > 1e-6 {
		t.Errorf("lowest visible = %v, want 5", got)
	}
	if got := c.HighestVisibleX(); math.Abs(got-10) > 1e-6 {
		t.Errorf("highest visible = %v, want 10", got)
	}
}

func TestTicksFollowZoom(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	entries := c.xAxis.Entries()
	if len(entries) == 0 || entries[0] != 0 || entries[len(entries)-1] != 10 {
		t.Fatalf("base ticks = %v, want 0..10 coverage", entries)
	}

	// deep X zoom anchored right: ticks recompute over roughly [8.75, 10]
	c.Zoom(8, 1, c.vph.ContentWidth(), 0)
	entries = c.xAxis.Entries()
	if len(entries) == 0 {
		t.Fatal("no ticks after zooming in")
	}
	if entries[0] < 8.5 {
		t.Errorf("first tick = %v after zoom, want within the visible stretch", entries[0])
	}
	if last := entries[len(entries)-1]; last > 10 {
		t.Errorf("last tick = %v, want <= 10", last)
	}
	if len(entries) > c.xAxis.LabelCount() {
		t.Errorf("%d ticks, want at most %d", len(entries), c.xAxis.LabelCount())
	}
}

func TestDecelerationStep(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())
	c.Zoom(2, 2, c.vph.ContentWidth()/2, -c.vph.ContentHeight()/2)

	d := c.decel
	d.velX = 1000
	d.velY = 0
	before := c.vph.TransX()

	if !d.step(16 * time.Millisecond) {
		t.Fatal("step with live velocity should continue")
	}
	want := 1000 * 0.9 * (16 * time.Millisecond).Seconds()
	if got := c.vph.TransX() - before; math.Abs(got-want) > 1e-9 {
		t.Errorf("step moved transX by %v, want %v", got, want)
	}
	if got := d.velX; got != 900 {
		t.Errorf("velocity after step = %v, want 900", got)
	}

	d.velX = 0.005
	if d.step(16 * time.Millisecond) {
		t.Error("step below the stop threshold should finish")
	}
}

func TestDecelerationStepRespectsDragFlags(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())
	c.Zoom(2, 2, c.vph.ContentWidth()/2, -c.vph.ContentHeight()/2)
	c.SetDragXEnabled(false)

	d := c.decel
	d.velX = 1000
	d.velY = 0
	before := c.vph.TransX()
	d.step(16 * time.Millisecond)
	if got := c.vph.TransX(); got != before {
		t.Errorf("transX moved to %v with X dragging disabled", got)
	}
}

func TestDecelerationStartStop(t *testing.T) {
	c := newSizedChart(t)
	d := c.decel

	d.Stop() // never started, must not panic
	c.StartDeceleration(120, -40, true)
	if d.velX != 120 || d.velY != -40 || !d.inverted {
		t.Errorf("runner state = (%v, %v, %v), want (120, -40, true)",
			d.velX, d.velY, d.inverted)
	}
	c.StopDeceleration()
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()
	if running {
		t.Error("runner still marked running after stop")
	}
	d.Stop() // double stop must not panic
}

func TestListenerRegistry(t *testing.T) {
	c := New()

	var order []string
	first := c.On("zoom", func(any) { order = append(order, "first") })
	c.On("zoom", func(any) { order = append(order, "second") })

	if !c.HasListener("zoom") {
		t.Fatal("HasListener(zoom) = false after registering")
	}
	if c.HasListener("pan") {
		t.Fatal("HasListener(pan) = true with nothing registered")
	}

	c.Notify("zoom", nil)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("notify order = %v, want [first second]", order)
	}

	c.RemoveListener("zoom", first)
	order = nil
	c.Notify("zoom", nil)
	if len(order) != 1 || order[0] != "second" {
		t.Errorf("after removal notify ran %v, want [second]", order)
	}

	c.RemoveListener("zoom", first) // unknown id is a no-op
}

func TestZoomListenerPayload(t *testing.T) {
	c := newSizedChart(t)
	c.SetData(rampData())

	var payloads []any
	c.On("zoom", func(p any) { payloads = append(payloads, p) })

	cx := float32(c.vph.ContentLeft() + c.vph.ContentWidth()/2)
	cy := float32(c.vph.ContentTop() + c.vph.ContentHeight()/2)
	c.DoubleTapped(pointEvent(cx, cy))

	if len(payloads) != 1 {
		t.Fatalf("zoom listener ran %d times, want 1", len(payloads))
	}
}
