package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rewired-gh/lottostat/internal/analysis"
	"github.com/rewired-gh/lottostat/internal/charts"
	"github.com/rewired-gh/lottostat/internal/config"
	"github.com/rewired-gh/lottostat/internal/export"
	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/session"
	"github.com/rewired-gh/lottostat/internal/storage"
	"github.com/rewired-gh/lottostat/internal/telegram"
	"github.com/rewired-gh/lottostat/internal/wheel"
)

// errQuit ends the interactive loop
var errQuit = errors.New("quit")

// app ties a session to the shared store and the configured outputs
type app struct {
	store      *storage.Storage
	sess       *session.Session
	opts       session.Options
	wheelTable wheel.Table
	out        io.Writer

	chartPath    string
	exportPath   string
	exportFormat export.Format
	notifier     *telegram.Client
}

func newApp(cfg *config.Config, store *storage.Storage, gameName string, out io.Writer) (*app, error) {
	game, err := store.Game(gameName)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(game)
	if err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(cfg.Report.ExportFormat)
	if err != nil {
		return nil, err
	}

	return &app{
		store: store,
		sess:  sess,
		opts: session.Options{
			ComboSizes: cfg.Analysis.ComboSizes,
			TopK:       cfg.Analysis.TopK,
			Heat: analysis.HeatRules{
				RecentWindow: cfg.Analysis.HotWindow,
				ColdBelow:    cfg.Analysis.ColdThreshold,
			},
		},
		wheelTable:   cfg.WheelTable(),
		out:          out,
		chartPath:    cfg.Report.ChartPath,
		exportPath:   cfg.Report.ExportPath,
		exportFormat: format,
	}, nil
}

// analyze runs every query and prints the report
func (a *app) analyze() (*session.Report, error) {
	report, err := a.sess.Analyze(a.store, a.opts)
	if err != nil {
		return nil, err
	}
	printReport(a.out, report)
	if a.chartPath != "" {
		a.renderChart(report)
	}
	return report, nil
}

func (a *app) renderChart(r *session.Report) {
	chartConfig := charts.DefaultChartConfig()
	chartConfig.Title = fmt.Sprintf("%s number frequency", strings.ToUpper(r.Game))
	chartConfig.Subtitle = fmt.Sprintf("%d draws", r.Draws)
	if err := charts.RenderFrequencyChartFile(r.Stats, r.Heat, chartConfig, a.chartPath); err != nil {
		logger.Warn("Failed to render chart: %v", err)
		return
	}
	logger.Debug("Chart written to %s", a.chartPath)
}

func (a *app) exportReport(r *session.Report) error {
	if a.exportPath == "" {
		return errors.New("no export path configured")
	}
	exporter := export.NewExporter(export.Options{
		Format:     a.exportFormat,
		FilePath:   a.exportPath,
		PrettyJSON: true,
		Overwrite:  true,
	})
	paths, err := exporter.ExportReport(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %s\n", strings.Join(paths, ", "))
	return nil
}

func (a *app) notify(r *session.Report) error {
	if a.notifier == nil {
		return errors.New("telegram notifications are disabled")
	}
	return a.notifier.Send(r)
}

// runWheel generates and prints tickets, exporting them next to the report when
// an export path is configured
func (a *app) runWheel(picks []int) error {
	tickets, err := wheel.Generate(picks, a.wheelTable)
	if err != nil {
		return err
	}
	printTickets(a.out, tickets)

	if a.exportPath != "" {
		path := export.SuffixedPath(a.exportPath, "wheel")
		exporter := export.NewExporter(export.Options{
			Format:     a.exportFormat,
			FilePath:   path,
			PrettyJSON: true,
			Overwrite:  true,
		})
		if err := exporter.ExportTickets(tickets); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported %s\n", path)
	}
	return nil
}

// execute runs one interactive command. Commands that change the selection
// recompute the whole report.
func (a *app) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	switch cmd {
	case "toggle", "t":
		nums, err := parseNumbers(args)
		if err != nil {
			return err
		}
		if len(nums) == 0 {
			return errors.New("usage: toggle N [N ...]")
		}
		sel := a.sess.Selection()
		for _, n := range nums {
			if sel, err = sel.Toggle(n); err != nil {
				return err
			}
		}
		if _, err := a.sess.Set(sel.Numbers()); err != nil {
			return err
		}
	case "set", "s":
		nums, err := parseNumbers(args)
		if err != nil {
			return err
		}
		if _, err := a.sess.Set(nums); err != nil {
			return err
		}
	case "clear", "c":
		a.sess.Clear()
	case "show":
	case "game", "g":
		if args == "" {
			return fmt.Errorf("usage: game NAME (one of %s)", strings.Join(a.store.Games(), ", "))
		}
		game, err := a.store.Game(args)
		if err != nil {
			return err
		}
		if err := a.sess.SwitchGame(game); err != nil {
			return err
		}
	case "wheel", "w":
		picks, err := parseNumbers(args)
		if err != nil {
			return err
		}
		return a.runWheel(picks)
	case "export":
		report, err := a.sess.Analyze(a.store, a.opts)
		if err != nil {
			return err
		}
		return a.exportReport(report)
	case "notify":
		report, err := a.sess.Analyze(a.store, a.opts)
		if err != nil {
			return err
		}
		return a.notify(report)
	case "help", "h", "?":
		printHelp(a.out)
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, type help for a list", cmd)
	}

	_, err := a.analyze()
	return err
}

// parseNumbers reads numbers separated by commas, hyphens or whitespace
func parseNumbers(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '-' || r == ' ' || r == '\t'
	})
	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// parseSizes reads a -k flag value
func parseSizes(s string) ([]int, error) {
	sizes, err := parseNumbers(s)
	if err != nil {
		return nil, err
	}
	for _, k := range sizes {
		if k < analysis.MinComboSize || k > analysis.MaxComboSize {
			return nil, fmt.Errorf("combination size %d must be between %d and %d", k, analysis.MinComboSize, analysis.MaxComboSize)
		}
	}
	return sizes, nil
}
