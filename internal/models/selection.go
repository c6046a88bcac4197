package models

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOutOfRange is returned when a number lies outside 1..max for the game.
	ErrOutOfRange = errors.New("number out of range")
	// ErrDuplicateNumber is returned when a selection lists the same number twice.
	ErrDuplicateNumber = errors.New("duplicate number")
)

// Selection is an immutable set of distinct numbers chosen for analysis.
// Every modifying method returns a new Selection and leaves the receiver untouched,
// so a Selection can be handed to concurrent queries without copying.
type Selection struct {
	max     int
	numbers []int // sorted ascending, distinct
}

// NewSelection validates nums against the range 1..max and returns the selection.
func NewSelection(max int, nums ...int) (Selection, error) {
	if max < 1 {
		return Selection{}, fmt.Errorf("selection range must be positive, got %d", max)
	}
	seen := make(map[int]bool, len(nums))
	sorted := make([]int, 0, len(nums))
	for _, n := range nums {
		if n < 1 || n > max {
			return Selection{}, fmt.Errorf("%w: %d not in 1..%d", ErrOutOfRange, n, max)
		}
		if seen[n] {
			return Selection{}, fmt.Errorf("%w: %d", ErrDuplicateNumber, n)
		}
		seen[n] = true
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)
	return Selection{max: max, numbers: sorted}, nil
}

// Max returns the upper bound of the valid number range.
func (s Selection) Max() int { return s.max }

// Len returns the number of selected numbers.
func (s Selection) Len() int { return len(s.numbers) }

// Numbers returns a sorted copy of the selected numbers.
func (s Selection) Numbers() []int {
	out := make([]int, len(s.numbers))
	copy(out, s.numbers)
	return out
}

// Contains reports whether n is selected.
func (s Selection) Contains(n int) bool {
	i := sort.SearchInts(s.numbers, n)
	return i < len(s.numbers) && s.numbers[i] == n
}

// Toggle returns a new selection with n added when absent or removed when present.
func (s Selection) Toggle(n int) (Selection, error) {
	if n < 1 || n > s.max {
		return s, fmt.Errorf("%w: %d not in 1..%d", ErrOutOfRange, n, s.max)
	}
	out := make([]int, 0, len(s.numbers)+1)
	found := false
	for _, v := range s.numbers {
		if v == n {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, n)
		sort.Ints(out)
	}
	return Selection{max: s.max, numbers: out}, nil
}

// Clear returns an empty selection over the same range.
func (s Selection) Clear() Selection {
	return Selection{max: s.max, numbers: []int{}}
}

// Equal reports whether both selections hold the same numbers.
func (s Selection) Equal(other Selection) bool {
	if len(s.numbers) != len(other.numbers) {
		return false
	}
	for i := range s.numbers {
		if s.numbers[i] != other.numbers[i] {
			return false
		}
	}
	return true
}

func (s Selection) String() string {
	return Combination(s.numbers).String()
}
