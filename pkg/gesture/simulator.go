package gesture

import (
	"math"
	"time"
)

// DefaultDoubleTapInterval is how long a second tap may trail the first
// one and still count as a double tap.
const DefaultDoubleTapInterval = 300 * time.Millisecond

// Simulator is a Source driven entirely by code, with a logical clock.
// It exists for tests and headless use: scripted touches run through
// the same registry and relationship hints a platform adapter would
// use, including holding taps back until the double-tap window has
// passed when a tap handler asked to WaitFor double taps.
type Simulator struct {
	Registry

	// DoubleTapInterval overrides DefaultDoubleTapInterval when set.
	DoubleTapInterval time.Duration

	now        time.Duration
	lastStates map[Kind]State

	pendingTap      *Event
	pendingDeadline time.Duration

	panActive     bool
	panStart      Point
	pinchActive   bool
	pinchInitDist float64
	pinchFocal    Point
}

func NewSimulator() *Simulator {
	return &Simulator{lastStates: make(map[Kind]State)}
}

func (s *Simulator) doubleTapInterval() time.Duration {
	if s.DoubleTapInterval > 0 {
		return s.DoubleTapInterval
	}
	return DefaultDoubleTapInterval
}

// Advance moves the logical clock. A pending tap whose double-tap
// window expires is delivered now.
func (s *Simulator) Advance(d time.Duration) {
	s.now += d
	if s.pendingTap != nil && s.now > s.pendingDeadline {
		ev := *s.pendingTap
		s.pendingTap = nil
		s.send(KindTap, ev)
	}
}

// Tap scripts a single touch-down-and-up at (x, y). Delivery is
// immediate unless a tap handler waits for double-tap failure, in which
// case the event is held until the window passes or a second tap turns
// the pair into a double tap.
func (s *Simulator) Tap(x, y float64) {
	ev := Event{State: StateEnded, X: x, Y: y, NumPointers: 1}

	if s.pendingTap != nil && s.now <= s.pendingDeadline {
		// Second tap within the window: the tap recognizer fails and
		// the pair becomes a double tap.
		s.pendingTap = nil
		s.send(KindTap, Event{State: StateFailed, X: x, Y: y})
		s.send(KindDoubleTap, ev)
		return
	}

	if s.WaitsFor(KindTap, KindDoubleTap) && s.HandlerCount(KindDoubleTap) > 0 {
		held := ev
		s.pendingTap = &held
		s.pendingDeadline = s.now + s.doubleTapInterval()
		return
	}

	s.send(KindTap, ev)
}

// DoubleTap scripts a recognized double tap directly.
func (s *Simulator) DoubleTap(x, y float64) {
	s.pendingTap = nil
	s.send(KindDoubleTap, Event{State: StateEnded, X: x, Y: y, NumPointers: 1})
}

// PanBegin starts a one-finger drag at (x, y).
func (s *Simulator) PanBegin(x, y float64) {
	s.panActive = true
	s.panStart = Point{X: x, Y: y}
	s.send(KindPan, Event{State: StateBegan, X: x, Y: y, NumPointers: 1})
}

// PanMove reports the finger at (x, y); the translation is relative to
// PanBegin.
func (s *Simulator) PanMove(x, y float64) {
	if !s.panActive {
		return
	}
	s.send(KindPan, Event{
		State:        StateActive,
		X:            x,
		Y:            y,
		TranslationX: x - s.panStart.X,
		TranslationY: y - s.panStart.Y,
		NumPointers:  1,
	})
}

// PanEnd lifts the finger at (x, y) with a release velocity.
func (s *Simulator) PanEnd(x, y, velocityX, velocityY float64) {
	if !s.panActive {
		return
	}
	s.panActive = false
	s.send(KindPan, Event{
		State:        StateEnded,
		X:            x,
		Y:            y,
		TranslationX: x - s.panStart.X,
		TranslationY: y - s.panStart.Y,
		VelocityX:    velocityX,
		VelocityY:    velocityY,
		NumPointers:  1,
	})
}

// PanCancel aborts the drag without a release.
func (s *Simulator) PanCancel() {
	if !s.panActive {
		return
	}
	s.panActive = false
	s.send(KindPan, Event{State: StateCancelled, X: s.panStart.X, Y: s.panStart.Y, NumPointers: 1})
}

// PinchBegin starts a two-finger gesture. The focal point is the touch
// midpoint and stays fixed for the whole gesture.
func (s *Simulator) PinchBegin(t1, t2 Point) {
	s.pinchActive = true
	s.pinchInitDist = dist(t1, t2)
	s.pinchFocal = Point{X: (t1.X + t2.X) / 2, Y: (t1.Y + t2.Y) / 2}
	s.send(KindPinch, Event{
		State:       StateBegan,
		X:           s.pinchFocal.X,
		Y:           s.pinchFocal.Y,
		Scale:       1,
		FocalX:      s.pinchFocal.X,
		FocalY:      s.pinchFocal.Y,
		NumPointers: 2,
		Touches:     []Point{t1, t2},
	})
}

// PinchMove reports both fingers; the scale is the spread relative to
// PinchBegin.
func (s *Simulator) PinchMove(t1, t2 Point) {
	if !s.pinchActive {
		return
	}
	scale := 1.0
	if s.pinchInitDist > 0 {
		scale = dist(t1, t2) / s.pinchInitDist
	}
	s.send(KindPinch, Event{
		State:       StateActive,
		X:           s.pinchFocal.X,
		Y:           s.pinchFocal.Y,
		Scale:       scale,
		FocalX:      s.pinchFocal.X,
		FocalY:      s.pinchFocal.Y,
		NumPointers: 2,
		Touches:     []Point{t1, t2},
	})
}

// PinchEnd finishes the two-finger gesture.
func (s *Simulator) PinchEnd() {
	if !s.pinchActive {
		return
	}
	s.pinchActive = false
	s.send(KindPinch, Event{
		State:       StateEnded,
		X:           s.pinchFocal.X,
		Y:           s.pinchFocal.Y,
		FocalX:      s.pinchFocal.X,
		FocalY:      s.pinchFocal.Y,
		NumPointers: 2,
	})
}

// PinchCancel aborts the two-finger gesture.
func (s *Simulator) PinchCancel() {
	if !s.pinchActive {
		return
	}
	s.pinchActive = false
	s.send(KindPinch, Event{
		State:       StateCancelled,
		X:           s.pinchFocal.X,
		Y:           s.pinchFocal.Y,
		FocalX:      s.pinchFocal.X,
		FocalY:      s.pinchFocal.Y,
		NumPointers: 2,
	})
}

func (s *Simulator) send(kind Kind, ev Event) {
	if s.lastStates == nil {
		s.lastStates = make(map[Kind]State)
	}
	ev.Prev = s.lastStates[kind]
	s.lastStates[kind] = ev.State
	s.Dispatch(kind, ev)
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
