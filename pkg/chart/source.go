package chart

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"touchplot/pkg/gesture"
)

// The chart widget is its own gesture source: fyne's input callbacks
// are reshaped into recognizer events and dispatched to the registry
// the touch handler is attached to. fyne already applies drag slop and
// serializes taps against the double-tap window, so no extra
// recognition happens here.

var _ fyne.Draggable = (*Chart)(nil)
var _ fyne.Tappable = (*Chart)(nil)
var _ fyne.DoubleTappable = (*Chart)(nil)
var _ fyne.Scrollable = (*Chart)(nil)
var _ desktop.Mouseable = (*Chart)(nil)

// scrollZoomStep is the zoom factor applied per scroll notch.
const scrollZoomStep = 0.08

// scrollSpread is the half distance of the synthetic finger pair a
// scroll notch is translated into.
const scrollSpread = 20.0

// velocitySmoothing is the weight of the newest instantaneous drag
// speed in the running velocity estimate.
const velocitySmoothing = 0.75

// flingHoldTimeout discards the release velocity when the pointer
// rested before letting go.
const flingHoldTimeout = 100 * time.Millisecond

// Dragged feeds fyne drag updates to the pan recognizer. fyne reports
// per-frame deltas; the recognizer wants cumulative translation plus a
// release velocity, so both are accumulated here.
func (c *Chart) Dragged(ev *fyne.DragEvent) {
	now := time.Now()
	if !c.dragging {
		c.dragging = true
		c.dragTransX = 0
		c.dragTransY = 0
		c.dragVelX = 0
		c.dragVelY = 0
		c.dragLast = now
		c.source.Dispatch(gesture.KindPan, gesture.Event{
			State:       gesture.StateBegan,
			X:           float64(ev.Position.X - ev.Dragged.DX),
			Y:           float64(ev.Position.Y - ev.Dragged.DY),
			NumPointers: 1,
		})
	}

	c.dragTransX += float64(ev.Dragged.DX)
	c.dragTransY += float64(ev.Dragged.DY)
	if dt := now.Sub(c.dragLast).Seconds(); dt > 0 {
		c.dragVelX = (1-velocitySmoothing)*c.dragVelX + velocitySmoothing*float64(ev.Dragged.DX)/dt
		c.dragVelY = (1-velocitySmoothing)*c.dragVelY + velocitySmoothing*float64(ev.Dragged.DY)/dt
	}
	c.dragLast = now

	c.source.Dispatch(gesture.KindPan, gesture.Event{
		State:        gesture.StateActive,
		X:            float64(ev.Position.X),
		Y:            float64(ev.Position.Y),
		TranslationX: c.dragTransX,
		TranslationY: c.dragTransY,
		VelocityX:    c.dragVelX,
		VelocityY:    c.dragVelY,
		NumPointers:  1,
	})
}

// DragEnd finishes the pan with the smoothed release velocity. A
// pointer that rested before release does not fling.
func (c *Chart) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	if time.Since(c.dragLast) > flingHoldTimeout {
		c.dragVelX = 0
		c.dragVelY = 0
	}
	c.source.Dispatch(gesture.KindPan, gesture.Event{
		State:        gesture.StateEnded,
		TranslationX: c.dragTransX,
		TranslationY: c.dragTransY,
		VelocityX:    c.dragVelX,
		VelocityY:    c.dragVelY,
		NumPointers:  1,
	})
}

// Tapped forwards a completed tap. fyne holds taps back while a double
// tap may still land, so the event goes straight through.
func (c *Chart) Tapped(ev *fyne.PointEvent) {
	c.source.Dispatch(gesture.KindTap, gesture.Event{
		State: gesture.StateEnded,
		X:     float64(ev.Position.X),
		Y:     float64(ev.Position.Y),
	})
}

// DoubleTapped forwards a double tap.
func (c *Chart) DoubleTapped(ev *fyne.PointEvent) {
	c.source.Dispatch(gesture.KindDoubleTap, gesture.Event{
		State: gesture.StateEnded,
		X:     float64(ev.Position.X),
		Y:     float64(ev.Position.Y),
	})
}

// Scrolled zooms about the cursor, 8% per notch. The notch is
// synthesized into a short pinch whose fingers spread horizontally, so
// a wheel zooms the X axis like a sideways finger spread would; with
// pinch zoom enabled both axes follow.
func (c *Chart) Scrolled(ev *fyne.ScrollEvent) {
	if c.scrollLocked {
		return
	}
	dy := ev.Scrolled.DY
	if dy == 0 {
		dy = ev.Scrolled.DX
	}
	if dy == 0 {
		return
	}
	scale := 1 + scrollZoomStep
	if dy < 0 {
		scale = 1 - scrollZoomStep
	}

	x := float64(ev.Position.X)
	y := float64(ev.Position.Y)
	began := []gesture.Point{{X: x - scrollSpread, Y: y}, {X: x + scrollSpread, Y: y}}
	moved := []gesture.Point{{X: x - scrollSpread*scale, Y: y}, {X: x + scrollSpread*scale, Y: y}}

	c.source.Dispatch(gesture.KindPinch, gesture.Event{
		State: gesture.StateBegan,
		X:     x, Y: y, FocalX: x, FocalY: y,
		Scale: 1, NumPointers: 2, Touches: began,
	})
	c.source.Dispatch(gesture.KindPinch, gesture.Event{
		State: gesture.StateActive,
		X:     x, Y: y, FocalX: x, FocalY: y,
		Scale: scale, NumPointers: 2, Touches: moved,
	})
	c.source.Dispatch(gesture.KindPinch, gesture.Event{
		State: gesture.StateEnded,
		X:     x, Y: y, FocalX: x, FocalY: y,
		Scale: scale, NumPointers: 2, Touches: moved,
	})
}

// MouseDown interrupts a running fling, matching touch-down behavior
// on handheld ports.
func (c *Chart) MouseDown(*desktop.MouseEvent) {
	c.decel.Stop()
}

func (c *Chart) MouseUp(*desktop.MouseEvent) {}
