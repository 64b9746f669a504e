package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"touchplot/pkg/chart"
)

const (
	DefaultOptionsPath = "config/touchplot.json"

	defaultFriction       = 0.9
	defaultMaxHighlightPx = 500
	defaultMinOffset      = 15
	defaultPollSeconds    = 5
	defaultRatePerSecond  = 4
	defaultWindowSize     = 600
	defaultTimeoutSeconds = 10
	defaultAxisLabelFloor = 2
	defaultAxisLabelCeil  = 25
)

// Options is the on-disk configuration: interaction flags for the
// chart widget plus the live feed settings.
type Options struct {
	Chart ChartOptions `json:"chart"`
	Feed  FeedOptions  `json:"feed"`
}

// ChartOptions mirrors the chart's interaction switches. The boolean
// fields that default to on are pointers so an explicit false in the
// file survives the default pass.
type ChartOptions struct {
	DragX         *bool `json:"drag_x,omitempty"`
	DragY         *bool `json:"drag_y,omitempty"`
	ScaleX        *bool `json:"scale_x,omitempty"`
	ScaleY        *bool `json:"scale_y,omitempty"`
	PinchZoom     bool  `json:"pinch_zoom,omitempty"`
	DoubleTapZoom *bool `json:"double_tap_zoom,omitempty"`
	HighlightTap  *bool `json:"highlight_per_tap,omitempty"`
	HighlightDrag *bool `json:"highlight_per_drag,omitempty"`
	Deceleration  *bool `json:"deceleration,omitempty"`

	Friction             float64 `json:"friction,omitempty"`
	MaxHighlightDistance float64 `json:"max_highlight_distance,omitempty"`
	MinOffset            float64 `json:"min_offset,omitempty"`

	XLabelCount int `json:"x_label_count,omitempty"`
	YLabelCount int `json:"y_label_count,omitempty"`
}

// FeedOptions configures the metrics feed in pkg/feed.
type FeedOptions struct {
	Targets         []string `json:"targets,omitempty"`
	PollIntervalSec int      `json:"poll_interval_seconds"`
	RatePerSecond   float64  `json:"rate_limit_per_second"`
	WindowSize      int      `json:"window_size"`
	TimeoutSec      int      `json:"timeout_seconds"`
}

func DefaultOptions() Options {
	cfg := Options{}
	cfg.applyDefaults()
	return cfg
}

func ResolveOptionsPath() string {
	if fromEnv := os.Getenv("TOUCHPLOT_CONFIG"); fromEnv != "" {
		return fromEnv
	}
	return DefaultOptionsPath
}

// LoadOptions reads the options file. A missing file is not an error,
// the defaults apply.
func LoadOptions(path string) (Options, error) {
	cfg := DefaultOptions()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return DefaultOptions(), err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (o *Options) applyDefaults() {
	if o.Chart.Friction == 0 {
		o.Chart.Friction = defaultFriction
	}
	if o.Chart.MaxHighlightDistance == 0 {
		o.Chart.MaxHighlightDistance = defaultMaxHighlightPx
	}
	if o.Chart.MinOffset == 0 {
		o.Chart.MinOffset = defaultMinOffset
	}
	if o.Feed.PollIntervalSec == 0 {
		o.Feed.PollIntervalSec = defaultPollSeconds
	}
	if o.Feed.RatePerSecond == 0 {
		o.Feed.RatePerSecond = defaultRatePerSecond
	}
	if o.Feed.WindowSize == 0 {
		o.Feed.WindowSize = defaultWindowSize
	}
	if o.Feed.TimeoutSec == 0 {
		o.Feed.TimeoutSec = defaultTimeoutSeconds
	}
}

func (o Options) Validate() error {
	if o.Chart.Friction < 0 || o.Chart.Friction >= 1 {
		return fmt.Errorf("friction must be in [0, 1): %v", o.Chart.Friction)
	}
	if o.Chart.MaxHighlightDistance <= 0 {
		return fmt.Errorf("max_highlight_distance must be > 0: %v", o.Chart.MaxHighlightDistance)
	}
	if o.Chart.MinOffset < 0 {
		return fmt.Errorf("min_offset must be >= 0: %v", o.Chart.MinOffset)
	}
	if err := validateLabelCount("x_label_count", o.Chart.XLabelCount); err != nil {
		return err
	}
	if err := validateLabelCount("y_label_count", o.Chart.YLabelCount); err != nil {
		return err
	}
	if o.Feed.PollIntervalSec <= 0 {
		return fmt.Errorf("poll_interval_seconds must be > 0")
	}
	if o.Feed.RatePerSecond <= 0 {
		return fmt.Errorf("rate_limit_per_second must be > 0")
	}
	if o.Feed.WindowSize <= 0 {
		return fmt.Errorf("window_size must be > 0")
	}
	if o.Feed.TimeoutSec <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0")
	}
	return nil
}

func validateLabelCount(name string, n int) error {
	if n == 0 {
		return nil
	}
	if n < defaultAxisLabelFloor || n > defaultAxisLabelCeil {
		return fmt.Errorf("%s must be in %d..%d: %d",
			name, defaultAxisLabelFloor, defaultAxisLabelCeil, n)
	}
	return nil
}

// Apply pushes the chart options onto a widget.
func (o ChartOptions) Apply(c *chart.Chart) {
	c.SetDragXEnabled(boolOr(o.DragX, true))
	c.SetDragYEnabled(boolOr(o.DragY, true))
	c.SetScaleXEnabled(boolOr(o.ScaleX, true))
	c.SetScaleYEnabled(boolOr(o.ScaleY, true))
	c.SetPinchZoomEnabled(o.PinchZoom)
	c.SetDoubleTapToZoomEnabled(boolOr(o.DoubleTapZoom, true))
	c.SetHighlightPerTapEnabled(boolOr(o.HighlightTap, true))
	c.SetHighlightPerDragEnabled(boolOr(o.HighlightDrag, true))
	c.SetDragDecelerationEnabled(boolOr(o.Deceleration, true))
	c.SetDragDecelerationFrictionCoef(o.Friction)
	c.SetMaxHighlightDistance(o.MaxHighlightDistance)
	c.SetMinOffset(o.MinOffset)
	if o.XLabelCount != 0 {
		c.XAxis().SetLabelCount(o.XLabelCount)
	}
	if o.YLabelCount != 0 {
		c.AxisLeft().SetLabelCount(o.YLabelCount)
		c.AxisRight().SetLabelCount(o.YLabelCount)
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (o FeedOptions) PollInterval() time.Duration {
	return time.Duration(o.PollIntervalSec) * time.Second
}

func (o FeedOptions) Timeout() time.Duration {
	return time.Duration(o.TimeoutSec) * time.Second
}
