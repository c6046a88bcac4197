package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/models"
)

const (
	// MinComboSize and MaxComboSize bound the k-subset sizes that are analyzed.
	MinComboSize = 2
	MaxComboSize = 5
)

// DefaultComboSizes lists every supported k.
func DefaultComboSizes() []int {
	sizes := make([]int, 0, MaxComboSize-MinComboSize+1)
	for k := MinComboSize; k <= MaxComboSize; k++ {
		sizes = append(sizes, k)
	}
	return sizes
}

// ComboTable is the ranked frequency table of the k-subsets of a selection.
type ComboTable struct {
	K          int
	Status     Status
	Considered int                 // Number of k-subsets enumerated, C(|selection|, k)
	Entries    []models.ComboCount // Count descending, then combination ascending
}

// Top returns at most n leading entries.
func (t ComboTable) Top(n int) []models.ComboCount {
	if n < 0 {
		n = 0
	}
	if n > len(t.Entries) {
		n = len(t.Entries)
	}
	return t.Entries[:n]
}

// ComboResult holds one table per requested k.
type ComboResult struct {
	Status Status
	Tables map[int]ComboTable
}

// Sizes returns the table sizes in ascending order.
func (r ComboResult) Sizes() []int {
	sizes := make([]int, 0, len(r.Tables))
	for k := range r.Tables {
		sizes = append(sizes, k)
	}
	sort.Ints(sizes)
	return sizes
}

// ComboFrequencies counts, for every k-subset of the selection, how many draws of h
// contain all of its members. Subsets that never appeared are dropped. Each table is
// ranked by count descending with ties broken by numeric order of the subset.
//
// Every requested k gets a table; when the selection holds fewer than k numbers the
// table is empty and marked StatusInsufficientSelection. Sizes outside 2..5 are
// ignored and an empty sizes slice means all of 2..5.
//
// Cost is C(|selection|, k) x len(h.Draws) per k, which stays small for the ten or
// so numbers a player selects, so nothing is cached between calls.
func ComboFrequencies(sel models.Selection, h *models.History, sizes []int) ComboResult {
	sizes = normalizeSizes(sizes)
	result := ComboResult{Tables: make(map[int]ComboTable, len(sizes))}

	if h == nil {
		result.Status = StatusNotLoaded
		for _, k := range sizes {
			result.Tables[k] = ComboTable{K: k, Status: StatusNotLoaded, Entries: []models.ComboCount{}}
		}
		return result
	}

	nums := sel.Numbers()
	sets := drawSets(h)

	result.Status = StatusInsufficientSelection
	for _, k := range sizes {
		if len(nums) < k {
			result.Tables[k] = ComboTable{K: k, Status: StatusInsufficientSelection, Entries: []models.ComboCount{}}
			continue
		}
		result.Tables[k] = comboTable(nums, k, sets)
		result.Status = StatusOK
	}
	return result
}

// comboTable enumerates the k-subsets of nums (sorted ascending) in lexicographic
// order and counts the draws containing each one.
func comboTable(nums []int, k int, sets []numberSet) ComboTable {
	table := ComboTable{K: k, Status: StatusOK, Entries: []models.ComboCount{}}

	gen := combin.NewCombinationGenerator(len(nums), k)
	idx := make([]int, k)
	for gen.Next() {
		gen.Combination(idx)
		table.Considered++

		combo := make(models.Combination, k)
		for i, j := range idx {
			combo[i] = nums[j]
		}

		count := 0
		for _, set := range sets {
			if set.containsAll(combo) {
				count++
			}
		}
		if count > 0 {
			table.Entries = append(table.Entries, models.ComboCount{Combination: combo, Count: count})
		}
	}

	sort.SliceStable(table.Entries, func(i, j int) bool {
		a, b := table.Entries[i], table.Entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Combination.Less(b.Combination)
	})
	return table
}

// normalizeSizes drops unsupported and duplicate sizes and sorts the rest.
func normalizeSizes(sizes []int) []int {
	if len(sizes) == 0 {
		return DefaultComboSizes()
	}
	seen := make(map[int]bool, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, k := range sizes {
		if k < MinComboSize || k > MaxComboSize {
			logger.Debug("ComboFrequencies: ignoring unsupported size %d", k)
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
