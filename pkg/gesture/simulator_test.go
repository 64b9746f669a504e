package gesture

import (
	"testing"
	"time"
)

func TestTapDeliveredImmediatelyWithoutDoubleTapHandler(t *testing.T) {
	s := NewSimulator()

	var taps []Event
	s.Register(KindTap, func(ev Event) { taps = append(taps, ev) }, WaitFor(KindDoubleTap))

	// Nobody listens for double taps, so there is nothing to wait out.
	s.Tap(40, 50)

	if len(taps) != 1 {
		t.Fatalf("taps delivered = %d, want 1", len(taps))
	}
	if taps[0].State != StateEnded || taps[0].X != 40 || taps[0].Y != 50 {
		t.Errorf("tap event = %+v, want Ended at (40, 50)", taps[0])
	}
}

func TestTapHeldUntilDoubleTapWindowPasses(t *testing.T) {
	s := NewSimulator()

	var taps, doubles []Event
	s.Register(KindTap, func(ev Event) { taps = append(taps, ev) }, WaitFor(KindDoubleTap))
	s.Register(KindDoubleTap, func(ev Event) { doubles = append(doubles, ev) })

	s.Tap(40, 50)
	if len(taps) != 0 {
		t.Fatalf("tap delivered before the window passed")
	}

	// The boundary instant still belongs to the window.
	s.Advance(DefaultDoubleTapInterval)
	if len(taps) != 0 {
		t.Fatalf("tap delivered at the window boundary")
	}

	s.Advance(time.Millisecond)
	if len(taps) != 1 {
		t.Fatalf("taps delivered after window = %d, want 1", len(taps))
	}
	if taps[0].State != StateEnded || taps[0].X != 40 || taps[0].Y != 50 {
		t.Errorf("tap event = %+v, want Ended at (40, 50)", taps[0])
	}
	if len(doubles) != 0 {
		t.Errorf("double taps delivered = %d, want 0", len(doubles))
	}

	// The clock keeps running without re-delivering.
	s.Advance(time.Second)
	if len(taps) != 1 {
		t.Errorf("taps after further time = %d, want 1", len(taps))
	}
}

func TestSecondTapWithinWindowBecomesDoubleTap(t *testing.T) {
	s := NewSimulator()

	var taps, doubles []Event
	s.Register(KindTap, func(ev Event) { taps = append(taps, ev) }, WaitFor(KindDoubleTap))
	s.Register(KindDoubleTap, func(ev Event) { doubles = append(doubles, ev) })

	s.Tap(40, 50)
	s.Advance(100 * time.Millisecond)
	s.Tap(42, 51)

	if len(doubles) != 1 {
		t.Fatalf("double taps = %d, want 1", len(doubles))
	}
	if doubles[0].State != StateEnded || doubles[0].X != 42 || doubles[0].Y != 51 {
		t.Errorf("double tap event = %+v, want Ended at (42, 51)", doubles[0])
	}

	// The held tap fails instead of firing.
	if len(taps) != 1 || taps[0].State != StateFailed {
		t.Fatalf("tap events = %+v, want exactly one Failed", taps)
	}

	s.Advance(time.Second)
	if len(taps) != 1 {
		t.Errorf("stale pending tap fired after the pair resolved")
	}
}

func TestPanTranslationRelativeToStart(t *testing.T) {
	s := NewSimulator()

	var events []Event
	s.Register(KindPan, func(ev Event) { events = append(events, ev) })

	s.PanBegin(10, 20)
	s.PanMove(15, 30)
	s.PanMove(8, 18)
	s.PanEnd(8, 18, 120, -30)

	if len(events) != 4 {
		t.Fatalf("pan events = %d, want 4", len(events))
	}

	if events[0].State != StateBegan || events[0].Prev != StatePossible {
		t.Errorf("begin = %v (prev %v), want Began from Possible", events[0].State, events[0].Prev)
	}
	if events[1].TranslationX != 5 || events[1].TranslationY != 10 {
		t.Errorf("first move translation = (%v, %v), want (5, 10)", events[1].TranslationX, events[1].TranslationY)
	}
	if events[2].TranslationX != -2 || events[2].TranslationY != -2 {
		t.Errorf("second move translation = (%v, %v), want (-2, -2)", events[2].TranslationX, events[2].TranslationY)
	}
	if events[2].Prev != StateActive {
		t.Errorf("second move prev = %v, want Active", events[2].Prev)
	}

	end := events[3]
	if end.State != StateEnded || end.TranslationX != -2 || end.TranslationY != -2 {
		t.Errorf("end = %+v, want Ended with translation (-2, -2)", end)
	}
	if end.VelocityX != 120 || end.VelocityY != -30 {
		t.Errorf("end velocity = (%v, %v), want (120, -30)", end.VelocityX, end.VelocityY)
	}
}

func TestPanMoveWithoutBeginIgnored(t *testing.T) {
	s := NewSimulator()

	calls := 0
	s.Register(KindPan, func(Event) { calls++ })

	s.PanMove(5, 5)
	s.PanEnd(5, 5, 0, 0)
	s.PanCancel()

	if calls != 0 {
		t.Fatalf("events without a begin = %d, want 0", calls)
	}
}

func TestPinchScaleFromFingerSpread(t *testing.T) {
	s := NewSimulator()

	var events []Event
	s.Register(KindPinch, func(ev Event) { events = append(events, ev) })

	s.PinchBegin(Point{X: 10, Y: 50}, Point{X: 30, Y: 50})
	s.PinchMove(Point{X: 0, Y: 50}, Point{X: 40, Y: 50})
	s.PinchMove(Point{X: 15, Y: 50}, Point{X: 25, Y: 50})
	s.PinchEnd()

	if len(events) != 4 {
		t.Fatalf("pinch events = %d, want 4", len(events))
	}

	begin := events[0]
	if begin.Scale != 1 || begin.FocalX != 20 || begin.FocalY != 50 {
		t.Errorf("begin = %+v, want scale 1 at focal (20, 50)", begin)
	}
	if len(begin.Touches) != 2 {
		t.Fatalf("begin touches = %d, want 2", len(begin.Touches))
	}

	if events[1].Scale != 2 {
		t.Errorf("spread 20 to 40: scale = %v, want 2", events[1].Scale)
	}
	if events[2].Scale != 0.5 {
		t.Errorf("spread 20 to 10: scale = %v, want 0.5", events[2].Scale)
	}

	// The focal point never follows the fingers.
	for i, ev := range events {
		if ev.FocalX != 20 || ev.FocalY != 50 {
			t.Errorf("event %d focal = (%v, %v), want (20, 50)", i, ev.FocalX, ev.FocalY)
		}
	}

	if events[3].State != StateEnded {
		t.Errorf("last state = %v, want Ended", events[3].State)
	}
}

func TestPinchCancelState(t *testing.T) {
	s := NewSimulator()

	var states []State
	s.Register(KindPinch, func(ev Event) { states = append(states, ev.State) })

	s.PinchBegin(Point{X: 0, Y: 0}, Point{X: 10, Y: 0})
	s.PinchCancel()
	s.PinchCancel() // second cancel is a no-op

	if len(states) != 2 || states[1] != StateCancelled {
		t.Fatalf("states = %v, want [Began Cancelled]", states)
	}
}
