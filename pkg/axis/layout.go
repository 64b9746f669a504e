package axis

import "touchplot/pkg/viewport"

// Tick is a computed axis entry projected to its pixel position: the x
// coordinate for the horizontal axis, the y coordinate for a vertical
// one.
type Tick struct {
	Value float64
	Label string
	Px    float64
}

// Ticks projects the computed entries through the transformer and
// keeps the ones inside the content rect.
func (x *XAxis) Ticks(tr *viewport.Transformer, vph *viewport.Handler) []Tick {
	out := make([]Tick, 0, len(x.entries))
	for _, v := range x.entries {
		px, _ := tr.PointToPixel(v, 0)
		if !vph.InBoundsX(px) {
			continue
		}
		out = append(out, Tick{Value: v, Label: x.FormatLabel(v), Px: px})
	}
	return out
}

// Ticks projects the computed entries through the transformer and
// keeps the ones inside the content rect.
func (y *YAxis) Ticks(tr *viewport.Transformer, vph *viewport.Handler) []Tick {
	out := make([]Tick, 0, len(y.entries))
	for _, v := range y.entries {
		_, py := tr.PointToPixel(0, v)
		if !vph.InBoundsY(py) {
			continue
		}
		out = append(out, Tick{Value: v, Label: y.FormatLabel(v), Px: py})
	}
	return out
}

// LimitLinePositions returns one x pixel per limit line, including
// lines currently outside the content rect.
func (x *XAxis) LimitLinePositions(tr *viewport.Transformer) []float64 {
	out := make([]float64, len(x.LimitLines))
	for i, ll := range x.LimitLines {
		out[i], _ = tr.PointToPixel(ll.Value, 0)
	}
	return out
}

// LimitLinePositions returns one y pixel per limit line, including
// lines currently outside the content rect.
func (y *YAxis) LimitLinePositions(tr *viewport.Transformer) []float64 {
	out := make([]float64, len(y.LimitLines))
	for i, ll := range y.LimitLines {
		_, out[i] = tr.PointToPixel(0, ll.Value)
	}
	return out
}
