// Package feed streams live series into a chart data container by
// scraping Prometheus text-format endpoints. Each numeric sample
// becomes an (elapsed seconds, value) entry in a per-metric data set,
// trimmed to a sliding window so long sessions stay bounded.
package feed

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"touchplot/pkg/chartdata"
)

// Config drives one Feed. Zero values fall back to the defaults below.
type Config struct {
	Targets      []string
	PollInterval time.Duration
	// RatePerSecond caps how many scrape requests may leave per second
	// across all targets.
	RatePerSecond float64
	// WindowSize is the number of entries kept per series.
	WindowSize int
	Timeout    time.Duration
}

const (
	defaultPollInterval = 5 * time.Second
	defaultRate         = 4
	defaultWindow       = 600
	defaultTimeout      = 10 * time.Second
)

// Feed polls its targets and appends samples to data sets, one per
// metric series. Scraping runs on background goroutines, but the data
// container is only ever mutated through Dispatch, so a consumer that
// also reads it from one goroutine sets Dispatch to hand work there
// and never races the poll loop.
type Feed struct {
	targets  []string
	interval time.Duration
	window   int

	client  *http.Client
	limiter *rate.Limiter

	// Dispatch runs fn on the goroutine that owns the chart data. A
	// widget consumer sets it to fyne.Do; nil runs fn inline on the
	// polling goroutine.
	Dispatch func(fn func())

	// OnUpdate runs after every poll pass that changed at least one
	// series, on the Dispatch goroutine.
	OnUpdate func()

	data  *chartdata.ChartData
	sets  map[string]*chartdata.DataSet
	start time.Time
}

// New creates a feed for the given targets. Nothing is scraped until
// Run.
func New(cfg Config) *Feed {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRate
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindow
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Feed{
		targets:  append([]string(nil), cfg.Targets...),
		interval: cfg.PollInterval,
		window:   cfg.WindowSize,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		data:     chartdata.NewChartData(),
		sets:     make(map[string]*chartdata.DataSet),
		start:    time.Now(),
	}
}

// Data returns the container the feed appends to. Hand it to a chart
// with SetData; call the chart's NotifyDataChanged from OnUpdate. The
// container is only written on the Dispatch goroutine.
func (f *Feed) Data() *chartdata.ChartData { return f.data }

// Run polls until the context is cancelled. Scrape failures are logged
// and polling continues; only context cancellation ends the loop.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.pollOnce(ctx)
		}
	}
}

// pollOnce scrapes every target concurrently and merges the samples.
func (f *Feed) pollOnce(ctx context.Context) {
	type scrape struct {
		target  string
		samples []sample
	}

	results := make([]scrape, len(f.targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range f.targets {
		g.Go(func() error {
			samples, err := f.scrapeTarget(gctx, target)
			if err != nil {
				log.Printf("feed: scrape %s: %v", target, err)
				return nil
			}
			results[i] = scrape{target: target, samples: samples}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return
	}

	elapsed := time.Since(f.start).Seconds()
	type point struct {
		label string
		value float64
	}
	var batch []point
	for _, r := range results {
		for _, s := range r.samples {
			batch = append(batch, point{label: seriesLabel(r.target, s, len(f.targets) > 1), value: s.value})
		}
	}
	if len(batch) == 0 {
		return
	}

	// The merge happens on the data owner's goroutine, never here.
	f.dispatch(func() {
		for _, p := range batch {
			f.append(p.label, elapsed, p.value)
		}
		if f.OnUpdate != nil {
			f.OnUpdate()
		}
	})
}

func (f *Feed) dispatch(fn func()) {
	if f.Dispatch != nil {
		f.Dispatch(fn)
		return
	}
	fn()
}

type sample struct {
	name   string
	labels string
	value  float64
}

// scrapeTarget fetches one exposition page and extracts every sample
// with a single numeric value. Histograms and summaries are skipped.
func (f *Feed) scrapeTarget(ctx context.Context, target string) ([]sample, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("target returned %d", resp.StatusCode)
	}

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse exposition text: %w", err)
	}

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	var samples []sample
	for _, name := range names {
		family := families[name]
		for _, m := range family.GetMetric() {
			value, ok := metricValue(family.GetType(), m)
			if !ok {
				continue
			}
			samples = append(samples, sample{
				name:   name,
				labels: labelSuffix(m.GetLabel()),
				value:  value,
			})
		}
	}
	return samples, nil
}

func metricValue(kind dto.MetricType, m *dto.Metric) (float64, bool) {
	switch kind {
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), true
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), true
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue(), true
	}
	return 0, false
}

func labelSuffix(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func seriesLabel(target string, s sample, multi bool) string {
	label := s.name + s.labels
	if multi {
		label = target + " " + label
	}
	return label
}

// append adds one entry to the named series, creating the series on
// first sight and dropping the oldest entry past the window. Runs on
// the Dispatch goroutine only.
func (f *Feed) append(label string, x, y float64) {
	set, ok := f.sets[label]
	if !ok {
		set = chartdata.NewDataSet(label, nil)
		f.sets[label] = set
		f.data.AddDataSet(set)
	}
	set.AddEntry(chartdata.Entry{X: x, Y: y})
	for set.EntryCount() > f.window {
		set.RemoveEntry(0)
	}
}
