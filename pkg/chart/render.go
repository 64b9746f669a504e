package chart

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"touchplot/pkg/axis"
	"touchplot/pkg/chartdata"
	"touchplot/pkg/viewport"
)

// palette colors data sets that did not pick their own.
var palette = []color.Color{
	color.RGBA{R: 0x26, G: 0x6e, B: 0xf6, A: 0xff},
	color.RGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff},
	color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
	color.RGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff},
	color.RGBA{R: 0x9c, G: 0x27, B: 0xb0, A: 0xff},
	color.RGBA{R: 0x00, G: 0xbc, B: 0xd4, A: 0xff},
	color.RGBA{R: 0x79, G: 0x55, B: 0x48, A: 0xff},
	color.RGBA{R: 0x60, G: 0x7d, B: 0x8b, A: 0xff},
}

func (c *Chart) CreateRenderer() fyne.WidgetRenderer {
	return &chartRenderer{chart: c}
}

// chartRenderer rebuilds the object list on every pass. Everything is
// positioned in widget pixels, the same space the viewport works in,
// so the draw code is a straight read of the transformer output.
type chartRenderer struct {
	chart *Chart
}

func (r *chartRenderer) Destroy() {}

func (r *chartRenderer) Layout(fyne.Size) {}

func (r *chartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *chartRenderer) Refresh() {
	// Objects rebuilds from current state, nothing cached here.
}

func (r *chartRenderer) Objects() []fyne.CanvasObject {
	c := r.chart

	bg := canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	bg.Resize(c.Size())
	objs := []fyne.CanvasObject{bg}

	if !c.vph.HasChartDimens() {
		return objs
	}
	if c.data.EntryCount() == 0 {
		return append(objs, r.noDataText())
	}

	c.computeAxisEntries()

	objs = r.appendAxisLines(objs)
	objs = r.appendGrid(objs)
	objs = r.appendLimitLines(objs, true)
	objs = r.appendData(objs)
	objs = r.appendLimitLines(objs, false)
	objs = r.appendAxisLabels(objs)
	objs = r.appendHighlight(objs)
	return objs
}

func (r *chartRenderer) noDataText() fyne.CanvasObject {
	c := r.chart
	txt := canvas.NewText("No chart data available", theme.Color(theme.ColorNameDisabled))
	size := txt.MinSize()
	txt.Resize(size)
	txt.Move(fyne.NewPos(
		float32(c.vph.ChartWidth()/2)-size.Width/2,
		float32(c.vph.ChartHeight()/2)-size.Height/2))
	return txt
}

func (r *chartRenderer) appendAxisLines(objs []fyne.CanvasObject) []fyne.CanvasObject {
	c := r.chart
	col := theme.Color(theme.ColorNameDisabled)
	left := float32(c.vph.ContentLeft())
	top := float32(c.vph.ContentTop())
	right := float32(c.vph.ContentRight())
	bottom := float32(c.vph.ContentBottom())

	if c.xAxis.Enabled && c.xAxis.DrawAxisLine {
		y := bottom
		if c.xAxis.Position == axis.XAxisTop {
			y = top
		}
		objs = append(objs, axisLine(left, y, right, y, col))
	}
	if c.axisLeft.Enabled && c.axisLeft.DrawAxisLine {
		objs = append(objs, axisLine(left, top, left, bottom, col))
	}
	if c.axisRight.Enabled && c.axisRight.DrawAxisLine {
		objs = append(objs, axisLine(right, top, right, bottom, col))
	}
	return objs
}

func axisLine(x1, y1, x2, y2 float32, col color.Color) *canvas.Line {
	l := canvas.NewLine(col)
	l.StrokeWidth = 1
	l.Position1 = fyne.NewPos(x1, y1)
	l.Position2 = fyne.NewPos(x2, y2)
	return l
}

func (r *chartRenderer) appendGrid(objs []fyne.CanvasObject) []fyne.CanvasObject {
	c := r.chart
	col := theme.Color(theme.ColorNameSeparator)

	if c.xAxis.Enabled && c.xAxis.DrawGridLines {
		top := float32(c.vph.ContentTop())
		bottom := float32(c.vph.ContentBottom())
		for _, t := range c.xAxis.Ticks(c.trLeft, c.vph) {
			objs = append(objs, axisLine(float32(t.Px), top, float32(t.Px), bottom, col))
		}
	}
	left := float32(c.vph.ContentLeft())
	right := float32(c.vph.ContentRight())
	if c.axisLeft.Enabled && c.axisLeft.DrawGridLines {
		for _, t := range c.axisLeft.Ticks(c.trLeft, c.vph) {
			objs = append(objs, axisLine(left, float32(t.Px), right, float32(t.Px), col))
		}
	}
	if c.axisRight.Enabled && c.axisRight.DrawGridLines && !c.axisLeft.Enabled {
		// left-axis grid already covers the content, draw the right
		// axis grid only when it is the sole vertical scale
		for _, t := range c.axisRight.Ticks(c.trRight, c.vph) {
			objs = append(objs, axisLine(left, float32(t.Px), right, float32(t.Px), col))
		}
	}
	return objs
}

func (r *chartRenderer) appendLimitLines(objs []fyne.CanvasObject, behind bool) []fyne.CanvasObject {
	c := r.chart
	objs = r.appendXLimitLines(objs, behind)
	objs = r.appendYLimitLines(objs, c.axisLeft, c.trLeft, behind)
	objs = r.appendYLimitLines(objs, c.axisRight, c.trRight, behind)
	return objs
}

func (r *chartRenderer) appendXLimitLines(objs []fyne.CanvasObject, behind bool) []fyne.CanvasObject {
	c := r.chart
	a := c.xAxis
	if !a.Enabled || a.DrawLimitLinesBehindData != behind {
		return objs
	}
	top := float32(c.vph.ContentTop())
	bottom := float32(c.vph.ContentBottom())
	for i, px := range a.LimitLinePositions(c.trLeft) {
		if !c.vph.InBoundsX(px) {
			continue
		}
		ll := a.LimitLines[i]
		l := axisLine(float32(px), top, float32(px), bottom, limitColor(ll))
		l.StrokeWidth = limitWidth(ll)
		objs = append(objs, l)
		if ll.Label != "" {
			txt := canvas.NewText(ll.Label, limitColor(ll))
			txt.TextSize = a.TextSize
			txt.Resize(txt.MinSize())
			txt.Move(fyne.NewPos(float32(px)+labelPad, top))
			objs = append(objs, txt)
		}
	}
	return objs
}

func (r *chartRenderer) appendYLimitLines(objs []fyne.CanvasObject, a *axis.YAxis, tr *viewport.Transformer, behind bool) []fyne.CanvasObject {
	c := r.chart
	if !a.Enabled || a.DrawLimitLinesBehindData != behind {
		return objs
	}
	left := float32(c.vph.ContentLeft())
	right := float32(c.vph.ContentRight())
	for i, py := range a.LimitLinePositions(tr) {
		if !c.vph.InBoundsY(py) {
			continue
		}
		ll := a.LimitLines[i]
		l := axisLine(left, float32(py), right, float32(py), limitColor(ll))
		l.StrokeWidth = limitWidth(ll)
		objs = append(objs, l)
		if ll.Label != "" {
			txt := canvas.NewText(ll.Label, limitColor(ll))
			txt.TextSize = a.TextSize
			size := txt.MinSize()
			txt.Resize(size)
			txt.Move(fyne.NewPos(right-size.Width-labelPad, float32(py)-size.Height))
			objs = append(objs, txt)
		}
	}
	return objs
}

func limitColor(ll axis.LimitLine) color.Color {
	if ll.Color != nil {
		return ll.Color
	}
	return theme.Color(theme.ColorNameForeground)
}

func limitWidth(ll axis.LimitLine) float32 {
	if ll.LineWidth > 0 {
		return ll.LineWidth
	}
	return 2
}

func (r *chartRenderer) appendData(objs []fyne.CanvasObject) []fyne.CanvasObject {
	c := r.chart
	lowX := c.LowestVisibleX()
	highX := c.HighestVisibleX()

	for i := 0; i < c.data.DataSetCount(); i++ {
		ds := c.data.DataSetAt(i)
		if ds == nil || !ds.Visible || ds.EntryCount() == 0 {
			continue
		}
		tr := c.TransformerFor(ds.Axis)
		col := datasetColor(ds, i)
		switch ds.Kind {
		case chartdata.KindBar:
			objs = r.appendBars(objs, ds, tr, col, lowX, highX)
		case chartdata.KindScatter:
			objs = r.appendScatter(objs, ds, tr, col, lowX, highX)
		default:
			objs = r.appendLine(objs, ds, tr, col, lowX, highX)
		}
	}
	return objs
}

func datasetColor(ds *chartdata.DataSet, index int) color.Color {
	if ds.Color != nil {
		return ds.Color
	}
	return palette[index%len(palette)]
}

func (r *chartRenderer) appendLine(objs []fyne.CanvasObject, ds *chartdata.DataSet, tr *viewport.Transformer, col color.Color, lowX, highX float64) []fyne.CanvasObject {
	c := r.chart
	entries := ds.Entries()
	lo := ds.EntryIndexForX(lowX, chartdata.RoundDown)
	hi := ds.EntryIndexForX(highX, chartdata.RoundUp)
	if lo < 0 || hi < lo {
		return objs
	}

	xmin := c.vph.ContentLeft()
	ymin := c.vph.ContentTop()
	xmax := c.vph.ContentRight()
	ymax := c.vph.ContentBottom()

	px, py := tr.PointToPixel(entries[lo].X, entries[lo].Y)
	for i := lo + 1; i <= hi && i < len(entries); i++ {
		qx, qy := tr.PointToPixel(entries[i].X, entries[i].Y)
		if x1, y1, x2, y2, ok := clipSegment(px, py, qx, qy, xmin, ymin, xmax, ymax); ok {
			l := canvas.NewLine(col)
			l.StrokeWidth = ds.LineWidth
			l.Position1 = fyne.NewPos(float32(x1), float32(y1))
			l.Position2 = fyne.NewPos(float32(x2), float32(y2))
			objs = append(objs, l)
		}
		px, py = qx, qy
	}
	return objs
}

func (r *chartRenderer) appendScatter(objs []fyne.CanvasObject, ds *chartdata.DataSet, tr *viewport.Transformer, col color.Color, lowX, highX float64) []fyne.CanvasObject {
	c := r.chart
	entries := ds.Entries()
	lo := ds.EntryIndexForX(lowX, chartdata.RoundDown)
	hi := ds.EntryIndexForX(highX, chartdata.RoundUp)
	if lo < 0 {
		return objs
	}

	half := ds.ShapeSize / 2
	for i := lo; i <= hi && i < len(entries); i++ {
		px, py := tr.PointToPixel(entries[i].X, entries[i].Y)
		if !c.vph.InBounds(px, py) {
			continue
		}
		x, y := float32(px), float32(py)
		switch ds.Shape {
		case chartdata.ShapeSquare:
			sq := canvas.NewRectangle(col)
			sq.Move(fyne.NewPos(x-half, y-half))
			sq.Resize(fyne.NewSize(ds.ShapeSize, ds.ShapeSize))
			objs = append(objs, sq)
		case chartdata.ShapeTriangle:
			objs = append(objs,
				markerLine(x-half, y+half, x, y-half, col),
				markerLine(x, y-half, x+half, y+half, col),
				markerLine(x+half, y+half, x-half, y+half, col))
		case chartdata.ShapeX:
			objs = append(objs,
				markerLine(x-half, y-half, x+half, y+half, col),
				markerLine(x-half, y+half, x+half, y-half, col))
		default:
			ci := canvas.NewCircle(col)
			ci.Position1 = fyne.NewPos(x-half, y-half)
			ci.Position2 = fyne.NewPos(x+half, y+half)
			objs = append(objs, ci)
		}
	}
	return objs
}

func markerLine(x1, y1, x2, y2 float32, col color.Color) *canvas.Line {
	l := canvas.NewLine(col)
	l.StrokeWidth = 1.5
	l.Position1 = fyne.NewPos(x1, y1)
	l.Position2 = fyne.NewPos(x2, y2)
	return l
}

func (r *chartRenderer) appendBars(objs []fyne.CanvasObject, ds *chartdata.DataSet, tr *viewport.Transformer, col color.Color, lowX, highX float64) []fyne.CanvasObject {
	c := r.chart
	entries := ds.Entries()
	lo := ds.EntryIndexForX(lowX, chartdata.RoundDown)
	hi := ds.EntryIndexForX(highX, chartdata.RoundUp)
	if lo < 0 {
		return objs
	}

	left := c.vph.ContentLeft()
	top := c.vph.ContentTop()
	right := c.vph.ContentRight()
	bottom := c.vph.ContentBottom()
	_, zeroPy := tr.PointToPixel(0, 0)
	zeroPy = clamp(zeroPy, top, bottom)

	for i := lo; i <= hi && i < len(entries); i++ {
		e := entries[i]
		x1, yPx := tr.PointToPixel(e.X-ds.BarWidth/2, e.Y)
		x2, _ := tr.PointToPixel(e.X+ds.BarWidth/2, e.Y)
		if x2 < left || x1 > right {
			continue
		}
		x1 = clamp(x1, left, right)
		x2 = clamp(x2, left, right)
		yPx = clamp(yPx, top, bottom)

		y1 := math.Min(yPx, zeroPy)
		y2 := math.Max(yPx, zeroPy)
		bar := canvas.NewRectangle(col)
		bar.Move(fyne.NewPos(float32(x1), float32(y1)))
		bar.Resize(fyne.NewSize(float32(x2-x1), float32(y2-y1)))
		objs = append(objs, bar)
	}
	return objs
}

func (r *chartRenderer) appendAxisLabels(objs []fyne.CanvasObject) []fyne.CanvasObject {
	c := r.chart
	fg := theme.Color(theme.ColorNameForeground)

	if c.xAxis.Enabled && c.xAxis.DrawLabels {
		ticks := c.xAxis.Ticks(c.trLeft, c.vph)
		for i, t := range ticks {
			txt := canvas.NewText(t.Label, fg)
			txt.TextSize = c.xAxis.TextSize
			size := txt.MinSize()
			txt.Resize(size)

			x := float32(t.Px) - size.Width/2
			if c.xAxis.AvoidFirstLastClipping {
				if i == 0 && x < 0 {
					x = float32(t.Px)
				} else if i == len(ticks)-1 && float64(x+size.Width) > c.vph.ChartWidth() {
					x = float32(t.Px) - size.Width
				}
			}
			y := float32(c.vph.ContentBottom()) + labelPad
			if c.xAxis.Position == axis.XAxisTop {
				y = float32(c.vph.ContentTop()) - labelPad - size.Height
			}
			txt.Move(fyne.NewPos(x, y))
			objs = append(objs, txt)
		}
	}
	if c.axisLeft.Enabled && c.axisLeft.DrawLabels {
		for _, t := range c.axisLeft.Ticks(c.trLeft, c.vph) {
			txt := canvas.NewText(t.Label, fg)
			txt.TextSize = c.axisLeft.TextSize
			size := txt.MinSize()
			txt.Resize(size)
			txt.Move(fyne.NewPos(
				float32(c.vph.ContentLeft())-labelPad-size.Width,
				float32(t.Px)-size.Height/2))
			objs = append(objs, txt)
		}
	}
	if c.axisRight.Enabled && c.axisRight.DrawLabels {
		for _, t := range c.axisRight.Ticks(c.trRight, c.vph) {
			txt := canvas.NewText(t.Label, fg)
			txt.TextSize = c.axisRight.TextSize
			size := txt.MinSize()
			txt.Resize(size)
			txt.Move(fyne.NewPos(
				float32(c.vph.ContentRight())+labelPad,
				float32(t.Px)-size.Height/2))
			objs = append(objs, txt)
		}
	}
	return objs
}

func (r *chartRenderer) appendHighlight(objs []fyne.CanvasObject) []fyne.CanvasObject {
	c := r.chart
	h := c.highlighted
	if h == nil || h.DataSetIndex < 0 || h.DataSetIndex >= c.data.DataSetCount() {
		return objs
	}
	ds := c.data.DataSetAt(h.DataSetIndex)
	if ds == nil || !ds.HighlightEnabled {
		return objs
	}

	// reproject, the stored pixel position goes stale on pan and zoom
	tr := c.TransformerFor(h.Axis)
	px, py := tr.PointToPixel(h.X, h.Y)
	if !c.vph.InBounds(px, py) {
		return objs
	}

	cross := theme.Color(theme.ColorNamePrimary)
	objs = append(objs,
		axisLine(float32(px), float32(c.vph.ContentTop()), float32(px), float32(c.vph.ContentBottom()), cross),
		axisLine(float32(c.vph.ContentLeft()), float32(py), float32(c.vph.ContentRight()), float32(py), cross))

	marker := canvas.NewCircle(datasetColor(ds, h.DataSetIndex))
	marker.Position1 = fyne.NewPos(float32(px)-4, float32(py)-4)
	marker.Position2 = fyne.NewPos(float32(px)+4, float32(py)+4)
	objs = append(objs, marker)
	return objs
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// clipSegment cuts a segment to the content rect with the parametric
// line test. ok is false when the segment lies fully outside.
func clipSegment(x1, y1, x2, y2, xmin, ymin, xmax, ymax float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	dx := x2 - x1
	dy := y2 - y1
	t0, t1 := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x1 - xmin, xmax - x1, y1 - ymin, ymax - y1}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}
