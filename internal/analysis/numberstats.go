package analysis

import (
	"sort"

	"github.com/rewired-gh/lottostat/internal/models"
)

// StatsResult maps every number to its occurrence statistics.
type StatsResult struct {
	Status Status
	Stats  map[int]models.NumberStat
}

// NumberStats scans the history once and records, for every number occurrence,
// the count and the date tag of the draw. Numbers 1..maxNumber are always present,
// even when they never appeared. Numbers above maxNumber found in the data are kept
// too, so the counts always add up to the total number of occurrences.
func NumberStats(h *models.History, maxNumber int) StatsResult {
	if h == nil {
		return StatsResult{Status: StatusNotLoaded, Stats: map[int]models.NumberStat{}}
	}

	acc := make(map[int]*models.NumberStat, maxNumber)
	for n := 1; n <= maxNumber; n++ {
		acc[n] = &models.NumberStat{Number: n, Dates: []models.DateTag{}}
	}

	for i := range h.Draws {
		draw := &h.Draws[i]
		tag := draw.Tag()
		for _, n := range draw.Numbers {
			stat, ok := acc[n]
			if !ok {
				stat = &models.NumberStat{Number: n, Dates: []models.DateTag{}}
				acc[n] = stat
			}
			stat.Count++
			stat.Dates = append(stat.Dates, tag)
		}
	}

	result := StatsResult{Status: StatusOK, Stats: make(map[int]models.NumberStat, len(acc))}
	for n, stat := range acc {
		result.Stats[n] = *stat
	}
	return result
}

// Sorted returns the statistics ordered by number.
func (r StatsResult) Sorted() []models.NumberStat {
	out := make([]models.NumberStat, 0, len(r.Stats))
	for _, stat := range r.Stats {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}

// Total returns the sum of all counts.
func (r StatsResult) Total() int {
	total := 0
	for _, stat := range r.Stats {
		total += stat.Count
	}
	return total
}

// TopNumbers returns the n most frequent numbers, ties broken by the smaller number.
func TopNumbers(r StatsResult, n int) []models.NumberStat {
	sorted := r.Sorted()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
