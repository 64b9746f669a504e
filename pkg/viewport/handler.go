package viewport

import "math"

// Handler owns the chart's visible window: the content rectangle the
// data is drawn into and the committed pan/zoom matrix. Every matrix
// produced by a gesture goes through Refresh, which clamps it to the
// scale and translation limits before it becomes current. There is
// exactly one committed matrix at any time.
type Handler struct {
	touchMatrix Matrix

	chartWidth  float64
	chartHeight float64

	contentLeft   float64
	contentTop    float64
	contentRight  float64
	contentBottom float64

	minScaleX, maxScaleX float64
	minScaleY, maxScaleY float64

	// cached from the committed matrix by Refresh
	scaleX, scaleY float64
	transX, transY float64

	// extra pan range beyond the content edges, in pixels
	transOffsetX, transOffsetY float64
}

func NewHandler() *Handler {
	return &Handler{
		touchMatrix: Identity(),
		minScaleX:   1,
		maxScaleX:   math.Inf(1),
		minScaleY:   1,
		maxScaleY:   math.Inf(1),
		scaleX:      1,
		scaleY:      1,
	}
}

// SetChartDimens resizes the chart area, keeping the current offsets.
func (h *Handler) SetChartDimens(width, height float64) {
	offsetLeft := h.OffsetLeft()
	offsetTop := h.OffsetTop()
	offsetRight := h.OffsetRight()
	offsetBottom := h.OffsetBottom()

	h.chartWidth = width
	h.chartHeight = height

	h.RestrainViewPort(offsetLeft, offsetTop, offsetRight, offsetBottom)
}

// RestrainViewPort sets the content rectangle by its offsets from the
// chart edges.
func (h *Handler) RestrainViewPort(offsetLeft, offsetTop, offsetRight, offsetBottom float64) {
	h.contentLeft = offsetLeft
	h.contentTop = offsetTop
	h.contentRight = h.chartWidth - offsetRight
	h.contentBottom = h.chartHeight - offsetBottom
}

func (h *Handler) HasChartDimens() bool { return h.chartWidth > 0 && h.chartHeight > 0 }

func (h *Handler) ChartWidth() float64   { return h.chartWidth }
func (h *Handler) ChartHeight() float64  { return h.chartHeight }
func (h *Handler) ContentLeft() float64  { return h.contentLeft }
func (h *Handler) ContentTop() float64   { return h.contentTop }
func (h *Handler) ContentRight() float64 { return h.contentRight }

func (h *Handler) ContentBottom() float64 { return h.contentBottom }
func (h *Handler) ContentWidth() float64  { return h.contentRight - h.contentLeft }
func (h *Handler) ContentHeight() float64 { return h.contentBottom - h.contentTop }

func (h *Handler) OffsetLeft() float64   { return h.contentLeft }
func (h *Handler) OffsetTop() float64    { return h.contentTop }
func (h *Handler) OffsetRight() float64  { return h.chartWidth - h.contentRight }
func (h *Handler) OffsetBottom() float64 { return h.chartHeight - h.contentBottom }

// InBounds reports whether a pixel lies inside the content rectangle,
// with half a pixel of slack.
func (h *Handler) InBounds(x, y float64) bool {
	return h.InBoundsX(x) && h.InBoundsY(y)
}

func (h *Handler) InBoundsX(x float64) bool {
	return h.contentLeft-0.5 <= x && x <= h.contentRight+0.5
}

func (h *Handler) InBoundsY(y float64) bool {
	return h.contentTop-0.5 <= y && y <= h.contentBottom+0.5
}

// TouchMatrix returns the committed pan/zoom matrix.
func (h *Handler) TouchMatrix() Matrix { return h.touchMatrix }

// Refresh clamps the candidate matrix to the scale and translation
// limits and commits it. The returned matrix is the clamped one.
func (h *Handler) Refresh(m Matrix) Matrix {
	h.limitTransAndScale(&m)
	h.touchMatrix = m
	return h.touchMatrix
}

// limitTransAndScale forces the matrix scale into the configured range
// and keeps the translation from exposing space beyond the data, plus
// any configured drag offset.
func (h *Handler) limitTransAndScale(m *Matrix) {
	h.scaleX = math.Min(math.Max(h.minScaleX, m.A), h.maxScaleX)
	h.scaleY = math.Min(math.Max(h.minScaleY, m.E), h.maxScaleY)

	width := h.ContentWidth()
	height := h.ContentHeight()

	maxTransX := -width * (h.scaleX - 1)
	h.transX = math.Min(math.Max(m.C, maxTransX-h.transOffsetX), h.transOffsetX)

	maxTransY := height * (h.scaleY - 1)
	h.transY = math.Max(math.Min(m.F, maxTransY+h.transOffsetY), -h.transOffsetY)

	m.A = h.scaleX
	m.E = h.scaleY
	m.C = h.transX
	m.F = h.transY
}

// Zoom returns the committed matrix scaled about the touch-space pivot
// (px, py). The result still has to go through Refresh.
func (h *Handler) Zoom(scaleX, scaleY, px, py float64) Matrix {
	return h.touchMatrix.ScaledAbout(scaleX, scaleY, px, py)
}

// FitScreen resets the minimum scales and returns the matrix that shows
// all of the data.
func (h *Handler) FitScreen() Matrix {
	h.minScaleX = 1
	h.minScaleY = 1
	return Identity()
}

// TouchSpacePivot converts a screen pixel to the coordinate space the
// pan/zoom matrix operates in, which is the offset mapping undone. The
// inverted flag must match the axis the gesture works against.
func (h *Handler) TouchSpacePivot(px, py float64, inverted bool) (float64, float64) {
	if inverted {
		return px - h.contentLeft, h.contentTop - py
	}
	return px - h.contentLeft, py - h.contentBottom
}

func (h *Handler) SetMinimumScaleX(s float64) {
	if s < 1 {
		s = 1
	}
	h.minScaleX = s
	h.Refresh(h.touchMatrix)
}

func (h *Handler) SetMaximumScaleX(s float64) {
	if s == 0 {
		s = math.Inf(1)
	}
	h.maxScaleX = s
	h.Refresh(h.touchMatrix)
}

func (h *Handler) SetMinimumScaleY(s float64) {
	if s < 1 {
		s = 1
	}
	h.minScaleY = s
	h.Refresh(h.touchMatrix)
}

func (h *Handler) SetMaximumScaleY(s float64) {
	if s == 0 {
		s = math.Inf(1)
	}
	h.maxScaleY = s
	h.Refresh(h.touchMatrix)
}

// SetDragOffsetX allows panning the given number of pixels past the
// data edge horizontally.
func (h *Handler) SetDragOffsetX(offset float64) { h.transOffsetX = offset }

// SetDragOffsetY is the vertical counterpart of SetDragOffsetX.
func (h *Handler) SetDragOffsetY(offset float64) { h.transOffsetY = offset }

func (h *Handler) HasNoDragOffset() bool { return h.transOffsetX <= 0 && h.transOffsetY <= 0 }

func (h *Handler) ScaleX() float64 { return h.scaleX }
func (h *Handler) ScaleY() float64 { return h.scaleY }
func (h *Handler) TransX() float64 { return h.transX }
func (h *Handler) TransY() float64 { return h.transY }

func (h *Handler) MinScaleX() float64 { return h.minScaleX }
func (h *Handler) MinScaleY() float64 { return h.minScaleY }

func (h *Handler) CanZoomOutMoreX() bool { return h.scaleX > h.minScaleX }
func (h *Handler) CanZoomInMoreX() bool  { return h.scaleX < h.maxScaleX }
func (h *Handler) CanZoomOutMoreY() bool { return h.scaleY > h.minScaleY }
func (h *Handler) CanZoomInMoreY() bool  { return h.scaleY < h.maxScaleY }

func (h *Handler) IsFullyZoomedOutX() bool { return h.scaleX <= h.minScaleX && h.minScaleX <= 1 }
func (h *Handler) IsFullyZoomedOutY() bool { return h.scaleY <= h.minScaleY && h.minScaleY <= 1 }

func (h *Handler) IsFullyZoomedOut() bool {
	return h.IsFullyZoomedOutX() && h.IsFullyZoomedOutY()
}
