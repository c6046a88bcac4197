// Package charts renders analysis results as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rewired-gh/lottostat/internal/analysis"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Colors     []string // Series colors, first one for regular bars, second for highlighted bars
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "1200px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#5470C6", "#EE6666"},
	}
}

func newBar(config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)
	return bar
}

func color(config ChartConfig, i int) string {
	if len(config.Colors) == 0 {
		return ""
	}
	return config.Colors[i%len(config.Colors)]
}

// RenderFrequencyChart writes a bar chart of the occurrence count of every number.
// Hot numbers are drawn as a separate series stacked on the same axis, so each
// number has exactly one visible bar.
func RenderFrequencyChart(stats analysis.StatsResult, heat map[int]analysis.Heat, config ChartConfig, w io.Writer) error {
	if stats.Status != analysis.StatusOK {
		return fmt.Errorf("cannot chart stats with status %s", stats.Status)
	}

	sorted := stats.Sorted()
	xLabels := make([]string, len(sorted))
	regular := make([]opts.BarData, len(sorted))
	hot := make([]opts.BarData, len(sorted))
	for i, stat := range sorted {
		xLabels[i] = strconv.Itoa(stat.Number)
		if heat[stat.Number].Hot() {
			regular[i] = opts.BarData{Value: 0}
			hot[i] = opts.BarData{Value: stat.Count}
		} else {
			regular[i] = opts.BarData{Value: stat.Count}
			hot[i] = opts.BarData{Value: 0}
		}
	}

	bar := newBar(config)
	bar.SetXAxis(xLabels).
		AddSeries("Occurrences", regular, charts.WithItemStyleOpts(opts.ItemStyle{Color: color(config, 0)})).
		AddSeries("Hot", hot, charts.WithItemStyleOpts(opts.ItemStyle{Color: color(config, 1)})).
		SetSeriesOptions(
			charts.WithBarChartOpts(opts.BarChart{Stack: "count"}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderComboChart writes a bar chart of the top entries of a combination table.
func RenderComboChart(table analysis.ComboTable, topK int, config ChartConfig, w io.Writer) error {
	entries := table.Entries
	if topK > 0 {
		entries = table.Top(topK)
	}

	xLabels := make([]string, len(entries))
	yData := make([]opts.BarData, len(entries))
	for i, entry := range entries {
		xLabels[i] = entry.Combination.String()
		yData[i] = opts.BarData{Value: entry.Count}
	}

	bar := newBar(config)
	bar.SetXAxis(xLabels).
		AddSeries(fmt.Sprintf("Size %d", table.K), yData, charts.WithItemStyleOpts(opts.ItemStyle{Color: color(config, 0)})).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderFrequencyChartFile renders the frequency chart into an HTML file.
func RenderFrequencyChartFile(stats analysis.StatsResult, heat map[int]analysis.Heat, config ChartConfig, outputPath string) (err error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return RenderFrequencyChart(stats, heat, config, f)
}
