package models

import (
	"errors"
	"slices"
	"time"
)

// Order records how the draws of a history are arranged in time.
type Order string

const (
	// NewestFirst is the layout of the official result files: latest drawing on top.
	NewestFirst Order = "newest_first"
	// OldestFirst lists draws chronologically.
	OldestFirst Order = "oldest_first"
)

// History is the loaded draw history of one game.
//
// A History is built once at load time and never mutated afterwards; reloading a
// game replaces the whole value. It is therefore safe to share between goroutines
// without locking.
type History struct {
	Game     string       `json:"game"`
	Draws    []DrawRecord `json:"draws"`
	Order    Order        `json:"order"`
	LoadedAt time.Time    `json:"loaded_at"`
}

// NewHistory builds a history from draws. The draws and their number slices are
// copied so later changes to the caller's data cannot leak in.
func NewHistory(game string, order Order, draws []DrawRecord) *History {
	if order == "" {
		order = NewestFirst
	}
	copied := make([]DrawRecord, len(draws))
	for i, d := range draws {
		d.Numbers = slices.Clone(d.Numbers)
		copied[i] = d
	}
	return &History{
		Game:     game,
		Draws:    copied,
		Order:    order,
		LoadedAt: time.Now(),
	}
}

// Len returns the number of draws, counting secondary draws separately.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Draws)
}

// TotalNumbers returns the number of number-occurrences across all draws.
func (h *History) TotalNumbers() int {
	if h == nil {
		return 0
	}
	total := 0
	for i := range h.Draws {
		total += len(h.Draws[i].Numbers)
	}
	return total
}

// Validate checks that the history and every draw in it are valid.
func (h *History) Validate() error {
	if h.Game == "" {
		return errors.New("history game must not be empty")
	}
	if h.Order != NewestFirst && h.Order != OldestFirst {
		return errors.New("history order must be newest_first or oldest_first")
	}
	for i := range h.Draws {
		if err := h.Draws[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
