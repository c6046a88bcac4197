// Package storage provides thread-safe in-memory storage for loaded draw histories.
//
// Each game holds exactly one immutable *models.History. Reloading a game swaps
// the whole value, so readers that already fetched a history keep a consistent
// view while the new one is installed. Nothing is written to disk.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rewired-gh/lottostat/internal/models"
)

var (
	// ErrUnknownGame is returned for games that were never registered.
	ErrUnknownGame = errors.New("unknown game")
	// ErrNotLoaded is returned for registered games whose history has not been loaded yet.
	ErrNotLoaded = errors.New("history not loaded")
)

type entry struct {
	game       models.Game
	history    *models.History
	generation uint64
}

// Storage provides thread-safe access to the history of every configured game
type Storage struct {
	games map[string]*entry
	mu    sync.RWMutex
}

// New creates an empty Storage
func New() *Storage {
	return &Storage{
		games: make(map[string]*entry),
	}
}

// Register declares a game so queries can tell "not loaded yet" from "unknown"
func (s *Storage) Register(game models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("invalid game: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.games[game.Name]; exists {
		e.game = game
		return nil
	}
	s.games[game.Name] = &entry{game: game}
	return nil
}

// Replace installs a freshly loaded history for its game, discarding the previous one
func (s *Storage) Replace(history *models.History) error {
	if history == nil {
		return errors.New("history must not be nil")
	}
	if err := history.Validate(); err != nil {
		return fmt.Errorf("invalid history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.games[history.Game]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownGame, history.Game)
	}
	e.history = history
	e.generation++
	return nil
}

// History returns the current history of a game
func (s *Storage) History(game string) (*models.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.games[game]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}
	if e.history == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, game)
	}
	return e.history, nil
}

// Game returns the description of a registered game
func (s *Storage) Game(name string) (models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.games[name]
	if !exists {
		return models.Game{}, fmt.Errorf("%w: %s", ErrUnknownGame, name)
	}
	return e.game, nil
}

// Generation returns how many times a game's history has been replaced.
// Zero means the game has not been loaded yet.
func (s *Storage) Generation(game string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, exists := s.games[game]; exists {
		return e.generation
	}
	return 0
}

// Games returns the names of all registered games, sorted
func (s *Storage) Games() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.games))
	for name := range s.games {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
