package gesture

import (
	"math"

	"touchplot/pkg/highlight"
	"touchplot/pkg/viewport"
)

// Event names delivered through ChartHost.Notify.
const (
	EventPan       = "pan"
	EventTranslate = "translate"
	EventPinch     = "pinch"
	EventZoom      = "zoom"
	EventTap       = "tap"
	EventDoubleTap = "doubleTap"
)

// MinFlingVelocity is the release speed, in pixels per second, below
// which a drag ends without deceleration.
const MinFlingVelocity = 50.0

// minScalePointerDistance is the smallest finger spread that still
// produces a per-axis scale ratio.
const minScalePointerDistance = 10.0

// Mode is the touch interaction the handler is currently in. Exactly
// one is active at a time and only the handler changes it.
type Mode int

const (
	ModeNone Mode = iota
	ModeDrag
	ModeXZoom
	ModeYZoom
	ModePinchZoom
	ModePostZoom
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeDrag:
		return "drag"
	case ModeXZoom:
		return "xZoom"
	case ModeYZoom:
		return "yZoom"
	case ModePinchZoom:
		return "pinchZoom"
	case ModePostZoom:
		return "postZoom"
	}
	return "unknown"
}

// ChartHost is everything the touch handler needs from its chart. The
// handler never draws or stores chart state itself; it reads the flags,
// drives the viewport and reports back through these calls.
type ChartHost interface {
	ViewPort() *viewport.Handler

	DragXEnabled() bool
	DragYEnabled() bool
	ScaleXEnabled() bool
	ScaleYEnabled() bool
	PinchZoomEnabled() bool
	DoubleTapToZoomEnabled() bool
	HighlightPerTapEnabled() bool
	HighlightPerDragEnabled() bool
	DragDecelerationEnabled() bool

	// AxisInvertedAt reports whether the Y axis of the data set closest
	// to the pixel is inverted. With nothing in reach it answers for
	// the chart as a whole.
	AxisInvertedAt(px, py float64) bool

	HasEntries() bool

	HighlightAt(px, py float64) *highlight.Highlight
	HighlightValue(h *highlight.Highlight)

	// HasListener lets the handler skip building payloads nobody wants.
	HasListener(event string) bool
	Notify(event string, payload any)

	// DisableScroll and EnableScroll fence off an enclosing scroll
	// container for the duration of a two-finger gesture.
	DisableScroll()
	EnableScroll()

	CalculateOffsets()
	Invalidate()

	// Zoom applies a scale about a touch-space pivot, recomputes the
	// offsets and redraws.
	Zoom(scaleX, scaleY, pivotX, pivotY float64)

	StartDeceleration(velocityX, velocityY float64, inverted bool)
	StopDeceleration()
}

// TouchHandler turns recognizer events into viewport changes and
// highlights. It runs strictly on the UI thread; recognizers are
// expected to apply their own activation slop before reporting Began,
// and to deliver terminal events even for gestures they never began,
// which the handler tolerates as no-ops.
type TouchHandler struct {
	host ChartHost

	mode          Mode
	lastHighlight *highlight.Highlight

	// gesture-start snapshot
	saved    viewport.Matrix
	inverted bool

	panning           bool
	highlightDragging bool

	pinching     bool
	pinchFocal   Point
	startSpreadX float64
	startSpreadY float64

	source  Source
	handles []Handle
}

func NewTouchHandler(host ChartHost) *TouchHandler {
	return &TouchHandler{host: host, saved: viewport.Identity()}
}

// Attach registers the handler's four recognizer callbacks with the
// source. Pan and pinch declare each other simultaneous so fingers can
// move between panning and pinching without lifting; taps wait out the
// double-tap window.
func (t *TouchHandler) Attach(src Source) {
	t.Detach()
	t.source = src
	t.handles = []Handle{
		src.Register(KindPan, t.OnPan, SimultaneousWith(KindPinch)),
		src.Register(KindPinch, t.OnPinch, SimultaneousWith(KindPan)),
		src.Register(KindTap, t.OnTap, WaitFor(KindDoubleTap)),
		src.Register(KindDoubleTap, t.OnDoubleTap),
	}
}

// Detach removes the registrations made by Attach.
func (t *TouchHandler) Detach() {
	if t.source == nil {
		return
	}
	for _, h := range t.handles {
		t.source.Unregister(h)
	}
	t.handles = nil
	t.source = nil
}

// Mode exposes the current touch mode.
func (t *TouchHandler) Mode() Mode { return t.mode }

// SetLastHighlight syncs the duplicate-suppression reference when the
// chart is highlighted programmatically.
func (t *TouchHandler) SetLastHighlight(h *highlight.Highlight) { t.lastHighlight = h }

// OnPan handles one-finger drag events.
func (t *TouchHandler) OnPan(ev Event) {
	if t.pinching {
		// A two-finger gesture owns the matrix right now.
		return
	}
	switch ev.State {
	case StateBegan:
		t.host.StopDeceleration()
		t.panBegin(ev)
	case StateActive:
		t.panMove(ev)
	case StateEnded, StateCancelled, StateFailed:
		t.panEnd(ev)
	}
}

func (t *TouchHandler) panBegin(ev Event) {
	t.panning = true
	t.highlightDragging = false
	t.mode = ModeNone

	vph := t.host.ViewPort()
	t.saved = vph.TouchMatrix()
	t.inverted = t.host.AxisInvertedAt(ev.X, ev.Y)

	if !t.host.DragXEnabled() && !t.host.DragYEnabled() {
		return
	}

	// Pan the viewport if there is anywhere to pan to; otherwise the
	// drag can act as a moving highlight.
	if !vph.IsFullyZoomedOut() || !vph.HasNoDragOffset() {
		t.mode = ModeDrag
		return
	}
	if ev.NumPointers == 1 && t.host.HighlightPerDragEnabled() {
		t.highlightDragging = true
	}
}

func (t *TouchHandler) panMove(ev Event) {
	if !t.panning {
		return
	}
	switch {
	case t.mode == ModeDrag:
		if t.host.HasListener(EventPan) {
			t.host.Notify(EventPan, PanPayload{
				TranslationX: ev.TranslationX,
				TranslationY: ev.TranslationY,
				VelocityX:    ev.VelocityX,
				VelocityY:    ev.VelocityY,
				NumPointers:  ev.NumPointers,
			})
		}
		t.performDrag(ev.TranslationX, ev.TranslationY)
	case t.highlightDragging && ev.NumPointers == 1:
		t.highlightDrag(ev.X, ev.Y)
	}
}

// performDrag rebuilds the matrix from the gesture-start snapshot, so
// a move sequence always lands where applying only its last cumulative
// translation would.
func (t *TouchHandler) performDrag(dx, dy float64) {
	if !t.host.DragXEnabled() {
		dx = 0
	}
	if !t.host.DragYEnabled() {
		dy = 0
	}
	if t.inverted {
		dy = -dy
	}

	vph := t.host.ViewPort()
	before := vph.TouchMatrix()
	m := vph.Refresh(t.saved.Translated(dx, dy))

	if t.host.HasListener(EventTranslate) {
		t.host.Notify(EventTranslate, TranslatePayload{
			DX: m.TransX() - before.TransX(),
			DY: m.TransY() - before.TransY(),
		})
	}
	t.host.Invalidate()
}

// highlightDrag moves the highlight under the finger. Unlike a tap,
// empty space keeps the previous highlight instead of clearing it.
func (t *TouchHandler) highlightDrag(px, py float64) {
	h := t.host.HighlightAt(px, py)
	if h != nil && !h.Equal(t.lastHighlight) {
		t.lastHighlight = h
		t.host.HighlightValue(h)
	}
}

func (t *TouchHandler) panEnd(ev Event) {
	if !t.panning {
		return
	}
	t.panning = false
	t.highlightDragging = false

	if t.mode == ModeDrag && t.host.DragDecelerationEnabled() &&
		(math.Abs(ev.VelocityX) > MinFlingVelocity || math.Abs(ev.VelocityY) > MinFlingVelocity) {
		t.host.StartDeceleration(ev.VelocityX, ev.VelocityY, t.inverted)
	}

	t.mode = ModeNone
	t.host.EnableScroll()
}

// OnPinch handles two-finger scale events.
func (t *TouchHandler) OnPinch(ev Event) {
	switch ev.State {
	case StateBegan:
		t.pinchBegin(ev)
	case StateActive:
		t.pinchMove(ev)
	case StateEnded, StateCancelled, StateFailed:
		t.pinchEnd()
	}
}

func (t *TouchHandler) pinchBegin(ev Event) {
	if !t.host.ScaleXEnabled() && !t.host.ScaleYEnabled() {
		return
	}

	t.pinching = true
	t.host.DisableScroll()

	vph := t.host.ViewPort()
	t.saved = vph.TouchMatrix()
	t.inverted = t.host.AxisInvertedAt(ev.FocalX, ev.FocalY)
	t.pinchFocal = Point{X: ev.FocalX, Y: ev.FocalY}
	t.startSpreadX, t.startSpreadY = 0, 0
	if len(ev.Touches) >= 2 {
		t.startSpreadX = math.Abs(ev.Touches[0].X - ev.Touches[1].X)
		t.startSpreadY = math.Abs(ev.Touches[0].Y - ev.Touches[1].Y)
	}

	if t.host.PinchZoomEnabled() {
		t.mode = ModePinchZoom
		return
	}
	switch {
	case t.host.ScaleXEnabled() && !t.host.ScaleYEnabled():
		t.mode = ModeXZoom
	case t.host.ScaleYEnabled() && !t.host.ScaleXEnabled():
		t.mode = ModeYZoom
	default:
		// Both enabled: the wider initial finger spread picks the axis.
		if t.startSpreadX > t.startSpreadY {
			t.mode = ModeXZoom
		} else {
			t.mode = ModeYZoom
		}
	}
}

func (t *TouchHandler) pinchMove(ev Event) {
	if !t.pinching {
		return
	}
	if t.host.HasListener(EventPinch) {
		t.host.Notify(EventPinch, PinchPayload{
			Scale:  ev.Scale,
			FocalX: t.pinchFocal.X,
			FocalY: t.pinchFocal.Y,
		})
	}

	vph := t.host.ViewPort()
	pivotX, pivotY := vph.TouchSpacePivot(t.pinchFocal.X, t.pinchFocal.Y, t.inverted)

	switch t.mode {
	case ModePinchZoom:
		scale := ev.Scale
		if scale <= 0 {
			return
		}
		zoomingOut := scale < 1
		canX := vph.CanZoomInMoreX()
		canY := vph.CanZoomInMoreY()
		if zoomingOut {
			canX = vph.CanZoomOutMoreX()
			canY = vph.CanZoomOutMoreY()
		}
		// Out of range on both axes: skip the matrix update but keep
		// the mode, the gesture may come back into range.
		if !canX && !canY {
			return
		}
		scaleX, scaleY := 1.0, 1.0
		if t.host.ScaleXEnabled() {
			scaleX = scale
		}
		if t.host.ScaleYEnabled() {
			scaleY = scale
		}
		t.applyZoom(scaleX, scaleY, pivotX, pivotY)

	case ModeXZoom:
		if !t.host.ScaleXEnabled() {
			return
		}
		scale := t.axisSpreadScale(ev, true)
		if scale <= 0 {
			return
		}
		canZoom := vph.CanZoomInMoreX()
		if scale < 1 {
			canZoom = vph.CanZoomOutMoreX()
		}
		if !canZoom {
			return
		}
		t.applyZoom(scale, 1, pivotX, pivotY)

	case ModeYZoom:
		if !t.host.ScaleYEnabled() {
			return
		}
		scale := t.axisSpreadScale(ev, false)
		if scale <= 0 {
			return
		}
		canZoom := vph.CanZoomInMoreY()
		if scale < 1 {
			canZoom = vph.CanZoomOutMoreY()
		}
		if !canZoom {
			return
		}
		t.applyZoom(1, scale, pivotX, pivotY)
	}
}

// axisSpreadScale prefers the finger spread along one axis over the
// recognizer's overall scale, when the touches are known and far
// enough apart to be stable.
func (t *TouchHandler) axisSpreadScale(ev Event, xAxis bool) float64 {
	start := t.startSpreadY
	if xAxis {
		start = t.startSpreadX
	}
	if len(ev.Touches) < 2 || start < minScalePointerDistance {
		return ev.Scale
	}
	if xAxis {
		return math.Abs(ev.Touches[0].X-ev.Touches[1].X) / start
	}
	return math.Abs(ev.Touches[0].Y-ev.Touches[1].Y) / start
}

func (t *TouchHandler) applyZoom(scaleX, scaleY, pivotX, pivotY float64) {
	vph := t.host.ViewPort()
	vph.Refresh(t.saved.ScaledAbout(scaleX, scaleY, pivotX, pivotY))

	if t.host.HasListener(EventZoom) {
		t.host.Notify(EventZoom, ZoomPayload{
			ScaleX: scaleX,
			ScaleY: scaleY,
			FocalX: t.pinchFocal.X,
			FocalY: t.pinchFocal.Y,
		})
	}
	t.host.Invalidate()
}

func (t *TouchHandler) pinchEnd() {
	switch t.mode {
	case ModeXZoom, ModeYZoom, ModePinchZoom, ModePostZoom:
		// PostZoom is never entered here but stays handled: a source
		// that distinguishes "zoom finished, fingers still down" must
		// get the same offsets recomputation.
		t.host.CalculateOffsets()
		t.host.Invalidate()
	}
	t.pinching = false
	t.mode = ModeNone
	t.host.EnableScroll()
}

// OnTap handles confirmed single taps.
func (t *TouchHandler) OnTap(ev Event) {
	if ev.State != StateEnded {
		return
	}

	var h *highlight.Highlight
	resolved := false

	if t.host.HasListener(EventTap) {
		h = t.host.HighlightAt(ev.X, ev.Y)
		resolved = true
		t.host.Notify(EventTap, TapPayload{X: ev.X, Y: ev.Y, Highlight: h})
	}

	if !t.host.HighlightPerTapEnabled() {
		return
	}
	if !resolved {
		h = t.host.HighlightAt(ev.X, ev.Y)
	}
	t.performHighlight(h)
}

// performHighlight applies a tap highlight unless it matches the
// current one. Tapping empty space clears.
func (t *TouchHandler) performHighlight(h *highlight.Highlight) {
	if h.Equal(t.lastHighlight) {
		return
	}
	t.lastHighlight = h
	t.host.HighlightValue(h)
}

// OnDoubleTap handles confirmed double taps.
func (t *TouchHandler) OnDoubleTap(ev Event) {
	if ev.State != StateEnded {
		return
	}

	if t.host.HasListener(EventDoubleTap) {
		t.host.Notify(EventDoubleTap, TapPayload{
			X:         ev.X,
			Y:         ev.Y,
			Highlight: t.host.HighlightAt(ev.X, ev.Y),
		})
	}

	if !t.host.DoubleTapToZoomEnabled() || !t.host.HasEntries() {
		return
	}

	vph := t.host.ViewPort()
	inverted := t.host.AxisInvertedAt(ev.X, ev.Y)
	pivotX, pivotY := vph.TouchSpacePivot(ev.X, ev.Y, inverted)

	scaleX, scaleY := 1.0, 1.0
	if t.host.ScaleXEnabled() {
		scaleX = 1.4
	}
	if t.host.ScaleYEnabled() {
		scaleY = 1.4
	}
	t.host.Zoom(scaleX, scaleY, pivotX, pivotY)

	if t.host.HasListener(EventZoom) {
		t.host.Notify(EventZoom, ZoomPayload{ScaleX: scaleX, ScaleY: scaleY, FocalX: ev.X, FocalY: ev.Y})
	}
}
