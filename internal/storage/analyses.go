package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/models"
)

// InsertAnalysis persists an analysis result and its per-rep metrics.
func (db *DB) InsertAnalysis(ctx context.Context, row models.AnalysisRow) error {
	resultJSON, err := json.Marshal(row.Result)
	if err != nil {
		return fmt.Errorf("marshaling analysis result: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO analyses (id, created_at, movement_type, total_valid_reps,
		 video_duration_seconds, baseline_speed, ant_reached, ant_rep_index,
		 ant_timestamp_seconds, drop_percent_at_ant, result_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		row.ID, row.CreatedAt, row.MovementType, row.Result.TotalValidReps,
		row.Result.VideoDurationSeconds, row.Result.BaselineSpeed, row.Result.ANTReached,
		row.Result.ANTRepIndex, row.Result.ANTTimestampSeconds, row.Result.DropPercentAtANT,
		resultJSON)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}

	if err := db.insertRepMetrics(ctx, row.ID, row.Result.RepMetrics); err != nil {
		return err
	}
	return nil
}

// insertRepMetrics batch-inserts the per-rep rows of one analysis.
func (db *DB) insertRepMetrics(ctx context.Context, analysisID uuid.UUID, metrics []models.RepMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	query := `INSERT INTO rep_metrics (analysis_id, rep_index, start_time, end_time, duration, peak_speed, is_below_threshold) VALUES `
	args := make([]any, 0, len(metrics)*7)
	valueStrings := make([]string, 0, len(metrics))

	for i, m := range metrics {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, analysisID, m.RepIndex, m.StartTime, m.EndTime, m.Duration, m.PeakSpeed, m.IsBelowThreshold)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting rep metrics: %w", err)
	}
	return nil
}

// QueryAnalyses retrieves the most recent analyses, newest first.
func (db *DB) QueryAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, movement_type, result_json
		 FROM analyses
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var result []models.AnalysisRow
	for rows.Next() {
		var row models.AnalysisRow
		var resultJSON []byte
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.MovementType, &resultJSON); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		if err := json.Unmarshal(resultJSON, &row.Result); err != nil {
			return nil, fmt.Errorf("parsing analysis result: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetAnalysis retrieves a single analysis by ID.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error) {
	var row models.AnalysisRow
	var resultJSON []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT id, created_at, movement_type, result_json FROM analyses WHERE id = $1`, id).
		Scan(&row.ID, &row.CreatedAt, &row.MovementType, &resultJSON)
	if err != nil {
		return nil, fmt.Errorf("querying analysis: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &row.Result); err != nil {
		return nil, fmt.Errorf("parsing analysis result: %w", err)
	}
	return &row, nil
}

// QueryRepMetrics retrieves the per-rep rows of one analysis in rep order.
func (db *DB) QueryRepMetrics(ctx context.Context, analysisID uuid.UUID) ([]models.RepMetric, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT rep_index, start_time, end_time, duration, peak_speed, is_below_threshold
		 FROM rep_metrics
		 WHERE analysis_id = $1
		 ORDER BY rep_index ASC`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("querying rep metrics: %w", err)
	}
	defer rows.Close()

	var result []models.RepMetric
	for rows.Next() {
		m := models.RepMetric{IsValid: true}
		if err := rows.Scan(&m.RepIndex, &m.StartTime, &m.EndTime, &m.Duration, &m.PeakSpeed, &m.IsBelowThreshold); err != nil {
			return nil, fmt.Errorf("scanning rep metric: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
