package models

import "errors"

// Game describes a lottery game whose history can be loaded.
type Game struct {
	Name           string   `json:"name"`
	MaxNumber      int      `json:"max_number"`      // Highest ball number (38, 69, ...)
	DoublePlay     bool     `json:"double_play"`     // Rows may be followed by a secondary draw row
	SpecialColumns []string `json:"special_columns"` // Columns holding the multiplier / powerball
}

// Validate checks that all game fields are valid.
func (g *Game) Validate() error {
	if g.Name == "" {
		return errors.New("game name must not be empty")
	}
	if g.MaxNumber < 1 {
		return errors.New("game max number must be positive")
	}
	return nil
}
