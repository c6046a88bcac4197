package analysis

import (
	"sort"

	"github.com/rewired-gh/lottostat/internal/models"
)

// minMatchCount is the smallest overlap worth reporting. A single shared number
// carries no signal for a multi-number selection.
const minMatchCount = 2

// MatchResult is the outcome of MatchGroups.
type MatchResult struct {
	Status Status
	Groups []models.MatchGroup // Highest match count first
}

// Draws returns the number of draws across all groups.
func (r MatchResult) Draws() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Draws)
	}
	return total
}

// MatchGroups buckets the draws of h by how many selected numbers each contains.
// Duplicate numbers inside a draw count once. Only buckets with at least two
// matches are returned, highest first, each keeping history order.
// Selections with fewer than two numbers yield StatusInsufficientSelection.
func MatchGroups(sel models.Selection, h *models.History) MatchResult {
	if h == nil {
		return MatchResult{Status: StatusNotLoaded, Groups: []models.MatchGroup{}}
	}
	if sel.Len() < minMatchCount {
		return MatchResult{Status: StatusInsufficientSelection, Groups: []models.MatchGroup{}}
	}

	buckets := make(map[int][]models.MatchedDraw)
	for i := range h.Draws {
		draw := &h.Draws[i]

		seen := make(map[int]bool, len(draw.Numbers))
		matches := 0
		balls := make([]models.MatchedBall, len(draw.Numbers))
		for j, n := range draw.Numbers {
			selected := sel.Contains(n)
			balls[j] = models.MatchedBall{Number: n, Selected: selected}
			if selected && !seen[n] {
				seen[n] = true
				matches++
			}
		}

		if matches < minMatchCount {
			continue
		}
		buckets[matches] = append(buckets[matches], models.MatchedDraw{
			Date:      draw.Date,
			Balls:     balls,
			Special:   draw.Special,
			Secondary: draw.Secondary,
		})
	}

	groups := make([]models.MatchGroup, 0, len(buckets))
	for count, draws := range buckets {
		groups = append(groups, models.MatchGroup{MatchCount: count, Draws: draws})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].MatchCount > groups[j].MatchCount
	})

	return MatchResult{Status: StatusOK, Groups: groups}
}
