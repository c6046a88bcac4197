// Package models defines the core domain entities for lottostat.
// These models represent historical lottery draws, the loaded draw history of a game,
// user selections and the derived statistics computed over them.
//
// Terminology:
//   - Draw: one historical lottery result. Two-draw games (e.g. Powerball with
//     Double Play) attach a secondary draw to the primary one sharing its date.
//   - Selection: the set of numbers currently chosen for analysis.
package models

import "fmt"

// DrawRecord is a single historical drawing. It is never mutated once built.
type DrawRecord struct {
	Date      string `json:"date"`              // Nominal draw date, shared by primary and secondary draws
	Numbers   []int  `json:"numbers"`           // Main numbers in source order
	Special   string `json:"special,omitempty"` // Multiplier / Powerball / Power Play value
	Secondary bool   `json:"secondary"`         // Double Play style supplemental draw
}

// Validate checks that all draw fields are valid.
func (d *DrawRecord) Validate() error {
	for _, n := range d.Numbers {
		if n <= 0 {
			return fmt.Errorf("draw %q: number %d must be positive", d.Date, n)
		}
	}
	return nil
}

// Tag returns the date tag recorded in number statistics for this draw.
func (d *DrawRecord) Tag() DateTag {
	return DateTag{Date: d.Date, Secondary: d.Secondary}
}

// DateTag is one occurrence date of a number, marked when it came from a secondary draw.
type DateTag struct {
	Date      string `json:"date"`
	Secondary bool   `json:"secondary,omitempty"`
}

func (t DateTag) String() string {
	if t.Secondary {
		return t.Date + " (Secondary)"
	}
	return t.Date
}
