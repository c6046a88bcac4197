package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewired-gh/lottostat/internal/config"
	"github.com/rewired-gh/lottostat/internal/loader"
	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/storage"
	"github.com/rewired-gh/lottostat/internal/telegram"
)

var (
	configPath  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	gameName    = flag.String("game", "", "Game to analyze (defaults to the first configured game)")
	selectFlag  = flag.String("select", "", "Selected numbers, e.g. \"3,9,17\"")
	sizesFlag   = flag.String("k", "", "Combination sizes to analyze, e.g. \"2,3\" (defaults to analysis.combo_sizes)")
	interactive = flag.Bool("interactive", false, "Read selection commands from stdin")
	wheelFlag   = flag.String("wheel", "", "Ten picks to expand into wheel tickets, e.g. \"1,5,9,...\"")
	chartPath   = flag.String("chart", "", "Write a frequency chart to this HTML file (overrides report.chart_path)")
	exportPath  = flag.String("export", "", "Export the report to this file (overrides report.export_path)")
	notify      = flag.Bool("notify", false, "Send the report to Telegram")
	watch       = flag.Bool("watch", false, "Reload draw files when they change (overrides loader.watch)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	// Load every game's history
	store := storage.New()
	sources := make([]loader.Source, 0, len(cfg.Games))
	for _, g := range cfg.Games {
		sources = append(sources, loader.Source{Game: g.Model(), Path: g.File})
	}
	ld, err := loader.New(store, sources, cfg.HistoryOrder())
	if err != nil {
		logger.Fatal("Failed to initialize loader: %v", err)
	}
	ld.SetFetcher(loader.NewFetcher(cfg.Loader.Timeout, cfg.Loader.MaxRetries, cfg.Loader.RetryDelayBase))

	loadErrors, err := ld.LoadAll(ctx)
	if err != nil {
		logger.Fatal("Failed to load draw histories: %v", err)
	}
	for _, loadErr := range loadErrors {
		logger.Warn("Draw history unavailable: %v", loadErr)
	}

	if *watch || cfg.Loader.Watch {
		watcher := loader.NewWatcher(ld, cfg.Loader.Debounce, func(game string, report loader.ParseReport, err error) {
			if err != nil {
				logger.Error("Failed to reload %s: %v", game, err)
				return
			}
			logger.Info("Reloaded %s: %d draws (%d secondary, %d malformed)", game, report.Draws, report.Secondaries, report.Malformed)
		})
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("File watcher stopped: %v", err)
			}
		}()
	}

	// Resolve the game and build the session
	name := *gameName
	if name == "" {
		name = cfg.Games[0].Name
	}
	if *chartPath != "" {
		cfg.Report.ChartPath = *chartPath
	}
	if *exportPath != "" {
		cfg.Report.ExportPath = *exportPath
	}

	a, err := newApp(cfg, store, name, os.Stdout)
	if err != nil {
		logger.Fatal("Failed to start session for %s: %v", name, err)
	}
	if *sizesFlag != "" {
		sizes, err := parseSizes(*sizesFlag)
		if err != nil {
			logger.Fatal("Invalid -k: %v", err)
		}
		a.opts.ComboSizes = sizes
	}

	// Initialize Telegram client
	if *notify || cfg.Telegram.Enabled {
		if !cfg.Telegram.Enabled {
			logger.Fatal("-notify requires telegram.enabled with bot_token and chat_id")
		}
		a.notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	if *selectFlag != "" {
		nums, err := parseNumbers(*selectFlag)
		if err != nil {
			logger.Fatal("Invalid -select: %v", err)
		}
		if _, err := a.sess.Set(nums); err != nil {
			logger.Fatal("Invalid -select: %v", err)
		}
	}

	if *wheelFlag != "" {
		picks, err := parseNumbers(*wheelFlag)
		if err != nil {
			logger.Fatal("Invalid -wheel: %v", err)
		}
		if err := a.runWheel(picks); err != nil {
			logger.Fatal("Failed to generate wheel: %v", err)
		}
	}

	if *interactive {
		runInteractive(ctx, a)
		logger.Info("Session %s ended", a.sess.ID)
		return
	}

	if err := runOnce(a, *notify); err != nil {
		logger.Fatal("%v", err)
	}
}

// runOnce prints a single report and publishes it to the configured outputs
func runOnce(a *app, notify bool) error {
	report, err := a.analyze()
	if err != nil {
		return fmt.Errorf("failed to analyze: %w", err)
	}
	if a.exportPath != "" {
		if err := a.exportReport(report); err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
	}
	if notify {
		if err := a.notify(report); err != nil {
			return fmt.Errorf("failed to send Telegram notification: %w", err)
		}
	}
	return nil
}

// runInteractive reads commands until quit, end of input or shutdown
func runInteractive(ctx context.Context, a *app) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	printHelp(a.out)
	if _, err := a.analyze(); err != nil {
		logger.Error("%v", err)
	}

	for {
		fmt.Fprint(a.out, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := a.execute(line); err != nil {
				if errors.Is(err, errQuit) {
					return
				}
				fmt.Fprintf(a.out, "error: %v\n", err)
			}
		}
	}
}
