package models

import (
	"strconv"
	"strings"
)

// NumberStat is the occurrence history of one number across a draw history.
type NumberStat struct {
	Number int       `json:"number"`
	Count  int       `json:"count"`
	Dates  []DateTag `json:"dates"` // In history order
}

// MatchedBall is one number of a matched draw, flagged when it is part of the selection.
type MatchedBall struct {
	Number   int  `json:"number"`
	Selected bool `json:"selected"`
}

// MatchedDraw is a historical draw reported by the match engine.
type MatchedDraw struct {
	Date      string        `json:"date"`
	Balls     []MatchedBall `json:"balls"`
	Special   string        `json:"special,omitempty"`
	Secondary bool          `json:"secondary,omitempty"`
}

// MatchGroup holds all draws sharing the same number of selected numbers.
type MatchGroup struct {
	MatchCount int           `json:"match_count"`
	Draws      []MatchedDraw `json:"draws"`
}

// Combination is a k-subset of a selection, sorted ascending.
type Combination []int

// String joins the numbers with hyphens, e.g. "2-3-17".
func (c Combination) String() string {
	parts := make([]string, len(c))
	for i, n := range c {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// Less compares two combinations component-wise as numbers, so 9-10 sorts
// before 10-11 and a shorter prefix sorts first.
func (c Combination) Less(other Combination) bool {
	for i := 0; i < len(c) && i < len(other); i++ {
		if c[i] != other[i] {
			return c[i] < other[i]
		}
	}
	return len(c) < len(other)
}

// ComboCount is the number of historical draws containing every member of a combination.
type ComboCount struct {
	Combination Combination `json:"combination"`
	Count       int         `json:"count"`
}
