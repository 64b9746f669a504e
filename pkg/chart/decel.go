package chart

import (
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// decelFrame is the fling integration interval.
const decelFrame = 16 * time.Millisecond

// decelMinVelocity is the speed, in pixels per second, below which a
// fling stops.
const decelMinVelocity = 0.01

// decelRunner continues a pan after release, bleeding velocity by the
// chart's friction coefficient every frame. The ticker goroutine only
// schedules work; every viewport touch happens on the UI goroutine
// through fyne.Do.
type decelRunner struct {
	chart *Chart

	mu      sync.Mutex
	running bool
	stop    chan struct{}

	velX, velY float64
	inverted   bool
	lastTime   time.Time
}

func newDecelRunner(c *Chart) *decelRunner {
	return &decelRunner{chart: c}
}

// Start begins a fling with the given release velocity in pixels per
// second. A running fling is replaced.
func (d *decelRunner) Start(velocityX, velocityY float64, inverted bool) {
	d.Stop()
	d.velX = velocityX
	d.velY = velocityY
	d.inverted = inverted
	d.lastTime = time.Now()

	d.mu.Lock()
	d.running = true
	stop := make(chan struct{})
	d.stop = stop
	d.mu.Unlock()

	go func() {
		ticker := time.NewTicker(decelFrame)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(d.tick)
			}
		}
	}()
}

// Stop ends the fling without the final offset pass.
func (d *decelRunner) Stop() {
	d.mu.Lock()
	if d.running {
		d.running = false
		close(d.stop)
	}
	d.mu.Unlock()
}

func (d *decelRunner) tick() {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()
	if !running {
		return
	}
	now := time.Now()
	if d.step(now.Sub(d.lastTime)) {
		d.lastTime = now
		return
	}
	d.Stop()
	d.chart.CalculateOffsets()
	d.chart.Refresh()
}

// step advances the fling by dt and reports whether it should keep
// going. The friction factor applies per frame, like the touch ports
// it mirrors, so a lower frame rate also shortens the glide.
func (d *decelRunner) step(dt time.Duration) bool {
	c := d.chart
	d.velX *= c.frictionCoef
	d.velY *= c.frictionCoef

	dx := d.velX * dt.Seconds()
	dy := d.velY * dt.Seconds()
	if !c.dragXEnabled {
		dx = 0
	}
	if !c.dragYEnabled {
		dy = 0
	}
	if d.inverted {
		dy = -dy
	}

	c.vph.Refresh(c.vph.TouchMatrix().Translated(dx, dy))
	c.Refresh()

	return math.Abs(d.velX) >= decelMinVelocity || math.Abs(d.velY) >= decelMinVelocity
}
