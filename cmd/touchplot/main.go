// Command touchplot opens a window with one interactive chart. Data
// comes from a csv/xlsx file, live Prometheus endpoints or a built-in
// demo set.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"touchplot/pkg/config"
	"touchplot/pkg/ui"
)

var (
	configPath string
	targets    []string
	filePath   string
	demo       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "touchplot",
		Short: "Interactive chart viewer",
		Long: `touchplot renders line, bar and scatter series in a chart you can
pan, pinch-zoom, tap-highlight and double-tap-zoom.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Options file (default: $TOUCHPLOT_CONFIG or config/touchplot.json)")
	rootCmd.Flags().StringArrayVarP(&targets, "target", "t", nil, "Prometheus metrics URL to stream from (repeatable)")
	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "csv or xlsx file to plot")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "Plot built-in synthetic series")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.ResolveOptionsPath()
	}
	opts, err := config.LoadOptions(path)
	if err != nil {
		log.Fatalf("load options %s: %v", path, err)
	}
	if len(targets) == 0 {
		targets = opts.Feed.Targets
	}

	a := ui.New(opts)
	switch {
	case filePath != "":
		if err := a.LoadFile(filePath); err != nil {
			log.Fatalf("load %s: %v", filePath, err)
		}
	case len(targets) > 0:
		a.StartFeed(targets)
		defer a.StopFeed()
	default:
		a.LoadDemo()
	}

	a.Run()
	return nil
}
