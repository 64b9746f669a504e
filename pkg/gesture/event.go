package gesture

import "touchplot/pkg/highlight"

// State is the lifecycle phase of a recognized gesture. Recognizers
// report Began exactly once, any number of Active updates, and finish
// with exactly one of Ended, Cancelled or Failed.
type State int

const (
	StatePossible State = iota
	StateBegan
	StateActive
	StateEnded
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePossible:
		return "possible"
	case StateBegan:
		return "began"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state finishes a gesture.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateCancelled || s == StateFailed
}

// Kind identifies a recognizer type.
type Kind int

const (
	KindPan Kind = iota
	KindPinch
	KindTap
	KindDoubleTap
)

func (k Kind) String() string {
	switch k {
	case KindPan:
		return "pan"
	case KindPinch:
		return "pinch"
	case KindTap:
		return "tap"
	case KindDoubleTap:
		return "doubleTap"
	}
	return "unknown"
}

// Point is a touch position in chart pixels.
type Point struct {
	X float64
	Y float64
}

// Event is one recognizer report. Which data fields are meaningful
// depends on the kind: pans carry cumulative translation and release
// velocity, pinches carry a cumulative scale and the focal point, taps
// carry only the touch position.
type Event struct {
	Kind  Kind
	State State
	Prev  State

	// X, Y is the current touch position (for pinches, the focal point
	// at gesture start).
	X float64
	Y float64

	// TranslationX, TranslationY accumulate over the whole gesture,
	// relative to where it began.
	TranslationX float64
	TranslationY float64

	// VelocityX, VelocityY are in pixels per second, populated on
	// terminal pan events.
	VelocityX float64
	VelocityY float64

	// Scale is the cumulative pinch factor, 1 at gesture start.
	Scale float64

	FocalX float64
	FocalY float64

	NumPointers int
	Touches     []Point
}

// Payloads delivered through the host's Notify. Hosts only build them
// when a listener for the event name is registered.

// PanPayload is the raw recognizer data sent with "pan" events.
type PanPayload struct {
	TranslationX float64
	TranslationY float64
	VelocityX    float64
	VelocityY    float64
	NumPointers  int
}

// TranslatePayload carries the committed matrix delta sent with
// "translate" events, after clamping.
type TranslatePayload struct {
	DX float64
	DY float64
}

// PinchPayload is the raw recognizer data sent with "pinch" events.
type PinchPayload struct {
	Scale  float64
	FocalX float64
	FocalY float64
}

// ZoomPayload is sent with "zoom" events once a scale was actually
// applied, resolved per axis.
type ZoomPayload struct {
	ScaleX float64
	ScaleY float64
	FocalX float64
	FocalY float64
}

// TapPayload is sent with "tap" and "doubleTap" events. Highlight is
// whatever the touch resolved to and may be nil.
type TapPayload struct {
	X         float64
	Y         float64
	Highlight *highlight.Highlight
}
