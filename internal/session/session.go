// Package session holds the selection state of one interactive user and runs the
// analysis queries against it.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/lottostat/internal/analysis"
	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/storage"
)

// Options controls which queries Analyze runs and how results are ranked.
type Options struct {
	ComboSizes []int
	TopK       int
	Heat       analysis.HeatRules
}

// DefaultOptions returns options covering every combo size with the standard heat rules.
func DefaultOptions() Options {
	return Options{
		ComboSizes: analysis.DefaultComboSizes(),
		TopK:       10,
		Heat:       analysis.DefaultHeatRules(),
	}
}

// Report is the result of running every query for one selection.
type Report struct {
	SessionID   string
	Game        string
	Selection   models.Selection
	Generation  uint64 // History generation the report was computed from
	Draws       int
	Order       models.Order // Where the most recent draws sit in the history
	Status      analysis.Status
	Stats       analysis.StatsResult
	Heat        map[int]analysis.Heat
	Matches     analysis.MatchResult
	Combos      analysis.ComboResult
	Summary     *analysis.Summary // nil when the history is not loaded
	TopK        int
	GeneratedAt time.Time
}

// HotNumbers returns the selection members labeled hot, ascending.
func (r *Report) HotNumbers() []int {
	return r.selectedWith(analysis.Heat.Hot)
}

// ColdNumbers returns the selection members labeled cold, ascending.
func (r *Report) ColdNumbers() []int {
	return r.selectedWith(analysis.Heat.Cold)
}

func (r *Report) selectedWith(label func(analysis.Heat) bool) []int {
	out := []int{}
	for _, n := range r.Selection.Numbers() {
		if label(r.Heat[n]) {
			out = append(out, n)
		}
	}
	return out
}

// Session is one user's exclusive selection for a game. Selections are immutable
// values; every change installs a new one.
type Session struct {
	ID        uuid.UUID
	game      models.Game
	selection models.Selection
	mu        sync.Mutex
}

// New creates a session with an empty selection for game
func New(game models.Game) (*Session, error) {
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game: %w", err)
	}
	empty, err := models.NewSelection(game.MaxNumber)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.New(),
		game:      game,
		selection: empty,
	}, nil
}

// Game returns the game the session analyzes
func (s *Session) Game() models.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Selection returns the current selection
func (s *Session) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Toggle adds n to the selection, or removes it when already selected
func (s *Session) Toggle(n int) (models.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.selection.Toggle(n)
	if err != nil {
		return s.selection, err
	}
	s.selection = next
	return next, nil
}

// Set replaces the selection with nums
func (s *Session) Set(nums []int) (models.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := models.NewSelection(s.game.MaxNumber, nums...)
	if err != nil {
		return s.selection, err
	}
	s.selection = next
	return next, nil
}

// Clear empties the selection
func (s *Session) Clear() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = s.selection.Clear()
	return s.selection
}

// SwitchGame moves the session to another game. The selection is cleared since
// its numbers may not exist in the new game's range.
func (s *Session) SwitchGame(game models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("invalid game: %w", err)
	}
	empty, err := models.NewSelection(game.MaxNumber)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = game
	s.selection = empty
	return nil
}

// Analyze runs every query for the current selection against the game's history.
// A history that is not loaded yet yields a report with StatusNotLoaded; only an
// unknown game is an error.
func (s *Session) Analyze(store *storage.Storage, opts Options) (*Report, error) {
	s.mu.Lock()
	game, sel := s.game, s.selection
	s.mu.Unlock()

	generation := store.Generation(game.Name)
	h, err := store.History(game.Name)
	if err != nil && !errors.Is(err, storage.ErrNotLoaded) {
		return nil, fmt.Errorf("failed to get history for %s: %w", game.Name, err)
	}

	report := &Report{
		SessionID:   s.ID.String(),
		Game:        game.Name,
		Selection:   sel,
		Generation:  generation,
		Draws:       h.Len(),
		TopK:        opts.TopK,
		GeneratedAt: time.Now(),
	}

	order := models.NewestFirst
	if h != nil {
		order = h.Order
	}

	report.Order = order
	report.Stats = analysis.NumberStats(h, game.MaxNumber)
	report.Heat = analysis.ClassifyAll(report.Stats, order, opts.Heat)
	report.Matches = analysis.MatchGroups(sel, h)
	report.Combos = analysis.ComboFrequencies(sel, h, opts.ComboSizes)

	if report.Stats.Status == analysis.StatusOK {
		summary, err := analysis.Summarize(report.Stats)
		if err != nil {
			logger.Warn("Session %s: failed to summarize %s: %v", s.ID, game.Name, err)
		} else {
			report.Summary = &summary
		}
	}

	report.Status = reportStatus(h, sel)
	logger.Debug("Session %s: analyzed %s selection=%s status=%s draws=%d",
		s.ID, game.Name, sel, report.Status, report.Draws)
	return report, nil
}

// reportStatus gives the missing history precedence over a short selection.
func reportStatus(h *models.History, sel models.Selection) analysis.Status {
	switch {
	case h == nil:
		return analysis.StatusNotLoaded
	case sel.Len() < analysis.MinComboSize:
		return analysis.StatusInsufficientSelection
	default:
		return analysis.StatusOK
	}
}
