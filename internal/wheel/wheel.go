// Package wheel expands a set of picked numbers into tickets using a fixed table
// of patterns. A pattern lists 1-based positions into the sorted picks, so the same
// table serves any ten numbers. Tables are supplied, never derived.
package wheel

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultPickCount is the number of picks the built-in table expects.
const DefaultPickCount = 10

var (
	// ErrPickCount is returned when the number of picks does not match the table.
	ErrPickCount = errors.New("wrong number of picks")
	// ErrInvalidPick is returned for non-positive or repeated picks.
	ErrInvalidPick = errors.New("invalid pick")
)

// Table is a set of ticket patterns over PickCount picks.
type Table struct {
	PickCount int
	Patterns  [][]int
}

// DefaultTable returns the built-in twelve-line table over ten picks. Every
// position appears in exactly six lines.
func DefaultTable() Table {
	return Table{
		PickCount: DefaultPickCount,
		Patterns: [][]int{
			{1, 2, 3, 4, 5},
			{6, 7, 8, 9, 10},
			{1, 2, 6, 7, 8},
			{3, 4, 5, 9, 10},
			{1, 3, 6, 8, 10},
			{2, 4, 5, 7, 9},
			{1, 4, 7, 9, 10},
			{2, 3, 5, 6, 8},
			{1, 2, 5, 9, 10},
			{3, 4, 6, 7, 8},
			{1, 3, 5, 7, 10},
			{2, 4, 6, 8, 9},
		},
	}
}

// Validate checks that every pattern is non-empty and only uses distinct
// positions in 1..PickCount.
func (t Table) Validate() error {
	if t.PickCount <= 0 {
		return fmt.Errorf("pick_count must be positive, got %d", t.PickCount)
	}
	if len(t.Patterns) == 0 {
		return errors.New("table has no patterns")
	}
	for i, pattern := range t.Patterns {
		if len(pattern) == 0 {
			return fmt.Errorf("pattern %d is empty", i+1)
		}
		seen := make(map[int]bool, len(pattern))
		for _, pos := range pattern {
			if pos < 1 || pos > t.PickCount {
				return fmt.Errorf("pattern %d: position %d outside 1..%d", i+1, pos, t.PickCount)
			}
			if seen[pos] {
				return fmt.Errorf("pattern %d: position %d repeated", i+1, pos)
			}
			seen[pos] = true
		}
	}
	return nil
}

// Ticket is one generated line.
type Ticket struct {
	Line    int   `json:"line"`
	Numbers []int `json:"numbers"` // Ascending
}

// Generate maps the picks onto every pattern of the table. Picks are sorted
// first, so position 1 is always the smallest pick.
func Generate(picks []int, table Table) ([]Ticket, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wheel table: %w", err)
	}
	if len(picks) != table.PickCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPickCount, len(picks), table.PickCount)
	}

	sorted := append([]int(nil), picks...)
	sort.Ints(sorted)
	for i, n := range sorted {
		if n <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPick, n)
		}
		if i > 0 && sorted[i-1] == n {
			return nil, fmt.Errorf("%w: %d picked twice", ErrInvalidPick, n)
		}
	}

	tickets := make([]Ticket, 0, len(table.Patterns))
	for i, pattern := range table.Patterns {
		nums := make([]int, len(pattern))
		for j, pos := range pattern {
			nums[j] = sorted[pos-1]
		}
		sort.Ints(nums)
		tickets = append(tickets, Ticket{Line: i + 1, Numbers: nums})
	}
	return tickets, nil
}
