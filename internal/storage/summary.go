package storage

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ANTSummary aggregates stored analyses for the MCP summary tool and the
// dashboard stats endpoint.
type ANTSummary struct {
	TotalAnalyses      int     `json:"total_analyses"`
	ANTReachedCount    int     `json:"ant_reached_count"`
	AvgBaselineSpeed   float64 `json:"avg_baseline_speed"`
	BaselineSpeedStdev float64 `json:"baseline_speed_stdev"`
	AvgValidReps       float64 `json:"avg_valid_reps"`
	AvgDropPercent     float64 `json:"avg_drop_percent"`
}

// GetANTSummary computes aggregate statistics over all stored analyses.
// Analyses that never established a baseline (zero speed) are excluded from
// the speed statistics.
func (db *DB) GetANTSummary(ctx context.Context) (*ANTSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT baseline_speed, total_valid_reps, ant_reached, drop_percent_at_ant
		 FROM analyses`)
	if err != nil {
		return nil, fmt.Errorf("querying analyses for summary: %w", err)
	}
	defer rows.Close()

	summary := &ANTSummary{}
	var baselines, validReps, drops []float64

	for rows.Next() {
		var baseline float64
		var reps int
		var reached bool
		var drop *float64
		if err := rows.Scan(&baseline, &reps, &reached, &drop); err != nil {
			return nil, fmt.Errorf("scanning analysis summary row: %w", err)
		}
		summary.TotalAnalyses++
		if reached {
			summary.ANTReachedCount++
		}
		if baseline > 0 {
			baselines = append(baselines, baseline)
		}
		validReps = append(validReps, float64(reps))
		if drop != nil {
			drops = append(drops, *drop)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	finalizeSummary(summary, baselines, validReps, drops)
	return summary, nil
}

// finalizeSummary fills the aggregate fields from the collected series.
// stat.StdDev is the sample deviation and needs at least two values; with a
// single baseline the spread stays zero. NaN here would make the summary
// unserializable.
func finalizeSummary(summary *ANTSummary, baselines, validReps, drops []float64) {
	if len(baselines) > 0 {
		summary.AvgBaselineSpeed = stat.Mean(baselines, nil)
	}
	if len(baselines) > 1 {
		summary.BaselineSpeedStdev = stat.StdDev(baselines, nil)
	}
	if len(validReps) > 0 {
		summary.AvgValidReps = stat.Mean(validReps, nil)
	}
	if len(drops) > 0 {
		summary.AvgDropPercent = stat.Mean(drops, nil)
	}
}
