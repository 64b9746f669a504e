package axis

// XAxisPosition places the horizontal axis labels.
type XAxisPosition int

const (
	XAxisBottom XAxisPosition = iota
	XAxisTop
)

// XAxis is the horizontal axis.
type XAxis struct {
	Base

	Position XAxisPosition

	// AvoidFirstLastClipping keeps the outermost labels inside the
	// content rect instead of centering them on their ticks.
	AvoidFirstLastClipping bool
}

func NewXAxis() *XAxis {
	return &XAxis{Base: newBase()}
}
