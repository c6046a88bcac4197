package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes how occurrences spread over the numbers of a game.
type Summary struct {
	Numbers     int     `json:"numbers"`
	Occurrences int     `json:"occurrences"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	StdDev      float64 `json:"std_dev"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
}

// Summarize computes the distribution of per-number counts.
func Summarize(r StatsResult) (Summary, error) {
	if r.Status != StatusOK {
		return Summary{}, fmt.Errorf("cannot summarize stats with status %s", r.Status)
	}

	counts := make([]float64, 0, len(r.Stats))
	for _, stat := range r.Sorted() {
		counts = append(counts, float64(stat.Count))
	}

	mean, err := stats.Mean(counts)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(counts)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute median: %w", err)
	}
	stdDev, err := stats.StandardDeviation(counts)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute standard deviation: %w", err)
	}
	min, err := stats.Min(counts)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute min: %w", err)
	}
	max, err := stats.Max(counts)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute max: %w", err)
	}

	return Summary{
		Numbers:     len(counts),
		Occurrences: r.Total(),
		Mean:        mean,
		Median:      median,
		StdDev:      stdDev,
		Min:         int(min),
		Max:         int(max),
	}, nil
}
