package results

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary aggregates every run of one experiment. Runtimes are in seconds.
type Summary struct {
	Experiment      string
	Runs            int
	Timeouts        int
	MeanRuntime     float64
	MedianRuntime   float64
	StdDevRuntime   float64
	MeanFirstMillis float64
}

// Summarize groups rows by experiment, keeping the order in which each
// experiment first appears in the table.
func Summarize(t *Table) ([]Summary, error) {
	type group struct {
		runtimes stats.Float64Data
		firsts   stats.Float64Data
		timeouts int
	}

	var order []string
	groups := map[string]*group{}
	for _, r := range t.Rows {
		key := r.ID.String()
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.runtimes = append(g.runtimes, float64(r.RuntimeMillis)/1000)
		if r.Solutions > 0 {
			g.firsts = append(g.firsts, float64(r.FirstMillis))
		}
		if r.Timeout {
			g.timeouts++
		}
	}

	sums := make([]Summary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		s := Summary{Experiment: key, Runs: len(g.runtimes), Timeouts: g.timeouts}

		var err error
		if s.MeanRuntime, err = stats.Mean(g.runtimes); err != nil {
			return nil, fmt.Errorf("%s: mean runtime: %w", key, err)
		}
		if s.MedianRuntime, err = stats.Median(g.runtimes); err != nil {
			return nil, fmt.Errorf("%s: median runtime: %w", key, err)
		}
		if s.StdDevRuntime, err = stats.StandardDeviation(g.runtimes); err != nil {
			return nil, fmt.Errorf("%s: stddev runtime: %w", key, err)
		}
		// Left at zero when no run of the experiment found a solution.
		if len(g.firsts) > 0 {
			if s.MeanFirstMillis, err = g.firsts.Mean(); err != nil {
				return nil, fmt.Errorf("%s: mean first solution: %w", key, err)
			}
		}
		sums = append(sums, s)
	}
	return sums, nil
}
