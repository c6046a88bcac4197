// Package analysis computes statistics over a lottery draw history.
//
// Every query is a pure function of (selection, history): it never mutates its
// inputs, keeps no state between calls and always recomputes from scratch.
// Degraded inputs never produce errors; results carry a Status instead:
//
//	StatusOK                    the query ran (it may still have found nothing)
//	StatusNotLoaded             the history is not available yet
//	StatusInsufficientSelection the selection is too small for the query
//
// The queries are:
//
//	NumberStats      occurrence count and dates of every number
//	MatchGroups      historical draws bucketed by how many selected numbers they hold
//	ComboFrequencies ranked frequency of every k-subset (k = 2..5) of the selection
//	ClassifyHeat     hot/cold recency label of a number
package analysis

import "github.com/rewired-gh/lottostat/internal/models"

// Status describes whether a query could run on its inputs.
type Status string

const (
	StatusOK                    Status = "ok"
	StatusNotLoaded             Status = "data_not_loaded"
	StatusInsufficientSelection Status = "insufficient_selection"
)

// maxBitsetNumber bounds the bitset part of a numberSet. Larger numbers, such as a
// stray serial number in a results file, go to the overflow list instead.
const maxBitsetNumber = 1 << 12

// numberSet is a bitset of ball numbers used for membership tests in the hot loops.
type numberSet struct {
	bits     []uint64
	overflow []int
}

func newNumberSet(nums []int) numberSet {
	max := 0
	for _, n := range nums {
		if n > max && n <= maxBitsetNumber {
			max = n
		}
	}
	s := numberSet{bits: make([]uint64, max/64+1)}
	for _, n := range nums {
		switch {
		case n <= 0:
		case n <= maxBitsetNumber:
			s.bits[n/64] |= 1 << (uint(n) % 64)
		default:
			s.overflow = append(s.overflow, n)
		}
	}
	return s
}

func (s numberSet) has(n int) bool {
	if n <= 0 {
		return false
	}
	if n > maxBitsetNumber {
		for _, v := range s.overflow {
			if v == n {
				return true
			}
		}
		return false
	}
	if n/64 >= len(s.bits) {
		return false
	}
	return s.bits[n/64]&(1<<(uint(n)%64)) != 0
}

func (s numberSet) containsAll(nums []int) bool {
	for _, n := range nums {
		if !s.has(n) {
			return false
		}
	}
	return true
}

// drawSets builds one numberSet per draw, in history order.
func drawSets(h *models.History) []numberSet {
	sets := make([]numberSet, len(h.Draws))
	for i := range h.Draws {
		sets[i] = newNumberSet(h.Draws[i].Numbers)
	}
	return sets
}
