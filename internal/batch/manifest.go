package batch

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a finished batch.
type Summary struct {
	Total           int     `json:"total"`
	Succeeded       int     `json:"succeeded"`
	Failed          int     `json:"failed"`
	TotalDurationMS float64 `json:"total_duration_ms"`
	P50DurationMS   float64 `json:"p50_duration_ms"`
	P95DurationMS   float64 `json:"p95_duration_ms"`
}

// Manifest is the JSON document written next to the rendered images.
type Manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Results     []Result  `json:"results"`
}

// Summarize computes batch totals and duration quantiles.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}

	durations := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalDurationMS += r.DurationMS
		durations = append(durations, r.DurationMS)
	}

	if len(durations) > 0 {
		sort.Float64s(durations)
		s.P50DurationMS = stat.Quantile(0.5, stat.Empirical, durations, nil)
		s.P95DurationMS = stat.Quantile(0.95, stat.Empirical, durations, nil)
	}
	return s
}

// WriteManifest writes the results manifest as indented JSON.
func WriteManifest(path string, results []Result) error {
	m := Manifest{
		GeneratedAt: time.Now().UTC(),
		Summary:     Summarize(results),
		Results:     results,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
