// Package loader reads lottery result files and installs the parsed draw
// histories into storage.
//
// Files are CSV or Excel sheets with at least a "Date" and a "Winning Numbers"
// column. Two-draw games (Powerball with Double Play) may follow a drawing row
// with a secondary row; see LoadHistory for how those are paired.
package loader

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/storage"
)

// maxConcurrentLoads bounds how many files are parsed at once.
const maxConcurrentLoads = 4

// Source ties a game to the file holding its results. Path is a local file or an
// http(s) URL.
type Source struct {
	Game models.Game
	Path string
}

// LoadError represents a per-game error while loading histories
type LoadError struct {
	Game string
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("load error for game %s: %v", e.Game, e.Err)
}

func (e LoadError) Unwrap() error { return e.Err }

// Loader reads the configured sources into a Storage.
type Loader struct {
	store   *storage.Storage
	sources map[string]Source
	order   models.Order
	fetcher *Fetcher
}

// New registers every source's game in the store and returns a Loader for them.
func New(store *storage.Storage, sources []Source, order models.Order) (*Loader, error) {
	l := &Loader{
		store:   store,
		sources: make(map[string]Source, len(sources)),
		order:   order,
		fetcher: NewFetcher(0, 0, 0),
	}
	for _, src := range sources {
		if err := store.Register(src.Game); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", src.Game.Name, err)
		}
		l.sources[src.Game.Name] = src
	}
	return l, nil
}

// SetFetcher replaces the Fetcher used for remote sources.
func (l *Loader) SetFetcher(f *Fetcher) {
	l.fetcher = f
}

// Sources returns the configured sources sorted by game name.
func (l *Loader) Sources() []Source {
	out := make([]Source, 0, len(l.sources))
	for _, src := range l.sources {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Game.Name < out[j].Game.Name
	})
	return out
}

// Reload reads one game's file again and replaces its history wholesale.
func (l *Loader) Reload(ctx context.Context, game string) (ParseReport, error) {
	src, ok := l.sources[game]
	if !ok {
		return ParseReport{}, fmt.Errorf("%w: %s", storage.ErrUnknownGame, game)
	}

	start := time.Now()
	var rows []Row
	var err error
	if isRemote(src.Path) {
		rows, err = l.fetcher.ReadRows(ctx, src.Path)
	} else {
		rows, err = ReadRows(src.Path)
	}
	if err != nil {
		return ParseReport{}, err
	}

	history, report := LoadHistory(src.Game, l.order, rows)
	if err := l.store.Replace(history); err != nil {
		return report, fmt.Errorf("failed to install history: %w", err)
	}

	logger.Info("Loaded %s: %d draws from %d rows (%d secondary, %d malformed) in %v",
		game, report.Draws, report.Rows, report.Secondaries, report.Malformed, time.Since(start))
	return report, nil
}

// LoadAll loads every source concurrently. A game that fails to load is reported
// in the returned slice and leaves the other games untouched; the error is only
// set when ctx is cancelled.
func (l *Loader) LoadAll(ctx context.Context) ([]LoadError, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	var mu sync.Mutex
	var loadErrors []LoadError

	for _, src := range l.Sources() {
		name := src.Game.Name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := l.Reload(ctx, name); err != nil {
				mu.Lock()
				loadErrors = append(loadErrors, LoadError{Game: name, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return loadErrors, fmt.Errorf("loading cancelled: %w", err)
	}

	sort.Slice(loadErrors, func(i, j int) bool {
		return loadErrors[i].Game < loadErrors[j].Game
	})
	return loadErrors, nil
}
