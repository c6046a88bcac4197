package analysis

import "github.com/rewired-gh/lottostat/internal/models"

// Heat is the recency label of a number. Hot and cold are independent checks,
// so a number can carry both labels, either one, or neither.
type Heat uint8

const (
	// HeatNeither is the label of a number that is neither hot nor cold.
	HeatNeither Heat = 0
	// HeatHot marks a number seen in a primary draw among its latest occurrences.
	HeatHot Heat = 1 << (iota - 1)
	// HeatCold marks a number drawn fewer times than the cold threshold.
	HeatCold
)

// Hot reports whether the hot label is set.
func (h Heat) Hot() bool { return h&HeatHot != 0 }

// Cold reports whether the cold label is set.
func (h Heat) Cold() bool { return h&HeatCold != 0 }

func (h Heat) String() string {
	switch {
	case h.Hot() && h.Cold():
		return "hot,cold"
	case h.Hot():
		return "hot"
	case h.Cold():
		return "cold"
	default:
		return "neither"
	}
}

// HeatRules parameterizes ClassifyHeat.
type HeatRules struct {
	RecentWindow int // How many of the latest occurrences are inspected for a primary draw
	ColdBelow    int // Counts strictly below this are cold
}

// DefaultHeatRules returns the standard rules: hot when one of the five latest
// occurrences is a primary draw, cold below three occurrences overall.
func DefaultHeatRules() HeatRules {
	return HeatRules{RecentWindow: 5, ColdBelow: 3}
}

// ClassifyHeat labels a number from its occurrence history. order tells where the
// most recent occurrences sit in stat.Dates.
func ClassifyHeat(stat models.NumberStat, order models.Order, rules HeatRules) Heat {
	heat := HeatNeither
	for _, tag := range recentTags(stat.Dates, order, rules.RecentWindow) {
		if !tag.Secondary {
			heat |= HeatHot
			break
		}
	}
	if stat.Count < rules.ColdBelow {
		heat |= HeatCold
	}
	return heat
}

// ClassifyAll labels every number of a stats result.
func ClassifyAll(r StatsResult, order models.Order, rules HeatRules) map[int]Heat {
	out := make(map[int]Heat, len(r.Stats))
	for n, stat := range r.Stats {
		out[n] = ClassifyHeat(stat, order, rules)
	}
	return out
}

func recentTags(dates []models.DateTag, order models.Order, window int) []models.DateTag {
	if window <= 0 || len(dates) == 0 {
		return nil
	}
	if window > len(dates) {
		window = len(dates)
	}
	if order == models.OldestFirst {
		return dates[len(dates)-window:]
	}
	return dates[:window]
}
