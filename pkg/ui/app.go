// Package ui is the demo shell around the chart widget: a window with
// a toolbar, the chart and a status line showing the current
// selection.
package ui

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"touchplot/pkg/chart"
	"touchplot/pkg/chartdata"
	"touchplot/pkg/config"
	"touchplot/pkg/feed"
	"touchplot/pkg/highlight"
	"touchplot/pkg/loader"
)

type App struct {
	FyneApp fyne.App
	Window  fyne.Window
	Chart   *chart.Chart

	opts   config.Options
	status *widget.Label

	feedCancel context.CancelFunc
}

// New builds the window and wires the chart up with the given options.
func New(opts config.Options) *App {
	a := app.NewWithID("io.github.touchplot")
	a.SetIcon(Icon())
	w := a.NewWindow("Touchplot")
	w.Resize(fyne.NewSize(1024, 768))

	c := chart.New()
	opts.Chart.Apply(c)

	ta := &App{
		FyneApp: a,
		Window:  w,
		Chart:   c,
		opts:    opts,
		status:  widget.NewLabel("No selection"),
	}

	c.On(chart.EventSelect, func(payload any) {
		h, _ := payload.(*highlight.Highlight)
		ta.showSelection(h)
	})

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), ta.openFile),
		widget.NewToolbarAction(theme.ComputerIcon(), ta.promptFeed),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), c.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), c.ZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), c.FitScreen),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), func() {
			c.SetPinchZoomEnabled(!c.PinchZoomEnabled())
		}),
	)

	w.SetContent(container.NewBorder(toolbar, ta.status, nil, nil, c))
	return ta
}

func (a *App) Run() {
	a.Window.ShowAndRun()
}

func (a *App) showSelection(h *highlight.Highlight) {
	if h == nil {
		a.status.SetText("No selection")
		return
	}
	label := fmt.Sprintf("series %d", h.DataSetIndex)
	if set := a.Chart.Data().DataSetAt(h.DataSetIndex); set != nil {
		label = set.Label
	}
	a.status.SetText(fmt.Sprintf("%s: x=%.4g y=%.4g", label, h.X, h.Y))
}

// LoadFile replaces the chart data with the series of a csv or xlsx
// file.
func (a *App) LoadFile(path string) error {
	var sets []*chartdata.DataSet
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		sets, err = loader.FromXLSX(path)
	case ".csv":
		f, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		sets, err = loader.FromCSV(f)
	default:
		return fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return err
	}
	a.StopFeed()
	a.Chart.SetData(chartdata.NewChartData(sets...))
	return nil
}

func (a *App) openFile() {
	fileDialog := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.Window)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		if err := a.LoadFile(rc.URI().Path()); err != nil {
			dialog.ShowError(err, a.Window)
		}
	}, a.Window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".xlsx"}))
	fileDialog.Show()
}

func (a *App) promptFeed() {
	dialog.ShowEntryDialog("Connect feed", "Prometheus metrics URL", func(target string) {
		if strings.TrimSpace(target) == "" {
			return
		}
		a.StartFeed([]string{target})
	}, a.Window)
}

// StartFeed attaches a live metrics feed to the chart. The feed
// scrapes on background goroutines but merges through fyne.Do, so the
// chart data is only ever touched on the UI goroutine it is rendered
// from.
func (a *App) StartFeed(targets []string) {
	a.StopFeed()

	f := feed.New(feed.Config{
		Targets:       targets,
		PollInterval:  a.opts.Feed.PollInterval(),
		RatePerSecond: a.opts.Feed.RatePerSecond,
		WindowSize:    a.opts.Feed.WindowSize,
		Timeout:       a.opts.Feed.Timeout(),
	})
	f.Dispatch = fyne.Do
	f.OnUpdate = a.Chart.NotifyDataChanged
	a.Chart.SetData(f.Data())

	ctx, cancel := context.WithCancel(context.Background())
	a.feedCancel = cancel
	go func() {
		if err := f.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("feed stopped: %v", err)
		}
	}()
}

// StopFeed ends a running feed; the scraped data stays on the chart.
func (a *App) StopFeed() {
	if a.feedCancel != nil {
		a.feedCancel()
		a.feedCancel = nil
	}
}

// LoadDemo fills the chart with synthetic series, one smooth sine on
// the left axis and a noisy drift on the right.
func (a *App) LoadDemo() {
	rng := rand.New(rand.NewSource(1))

	var sine, noise []chartdata.Entry
	level := 50.0
	for i := 0; i <= 200; i++ {
		x := float64(i) / 10
		sine = append(sine, chartdata.Entry{X: x, Y: 10 * math.Sin(x)})
		level += rng.Float64()*4 - 2
		noise = append(noise, chartdata.Entry{X: x, Y: level})
	}

	left := chartdata.NewDataSet("sine", sine)
	right := chartdata.NewDataSet("drift", noise)
	right.Axis = chartdata.AxisRight
	right.Kind = chartdata.KindScatter

	a.StopFeed()
	a.Chart.SetData(chartdata.NewChartData(left, right))
}
