package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/procmesh/procmesh/pkg/models"
)

// RunRecord is the summary row stored for one composite run.
type RunRecord struct {
	// RunID uniquely identifies the run.
	RunID string
	// APQCID is the taxonomy identifier of the node that ran.
	APQCID string
	// Level is the node's taxonomy level.
	Level int
	// Success reports whether every child succeeded.
	Success bool
	// Summary holds the aggregated child outcomes.
	Summary models.NodeSummary
	// CompletedAt is when the run finished.
	CompletedAt time.Time
}

// RecordRun persists a composite result and its child outcomes.
func (db *DB) RecordRun(result models.CompositeResult) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	finalData, err := json.Marshal(result.FinalData)
	if err != nil {
		return fmt.Errorf("marshal final data: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, apqc_id, level, success, total_children, successful, failed, execution_time_ms, final_data, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.APQCID, result.Level, boolToInt(result.Success),
		result.Summary.TotalChildren, result.Summary.Successful, result.Summary.Failed,
		result.Summary.ExecutionTimeMs, string(finalData), result.Timestamp.UTC())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}

	for i, child := range result.ChildResults {
		resultJSON, err := json.Marshal(child.Result)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal child result: %w", err)
		}
		metricsJSON, err := json.Marshal(child.Metrics)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal child metrics: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO child_results (run_id, position, agent_id, success, result, metrics, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, i+1, child.AgentID, boolToInt(child.Success),
			string(resultJSON), string(metricsJSON), child.Error)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert child result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// GetRun loads a full composite result by run ID.
func (db *DB) GetRun(runID string) (*models.CompositeResult, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(`
		SELECT id, apqc_id, level, success, total_children, successful, failed, execution_time_ms, final_data, completed_at
		FROM runs WHERE id = ?`, runID)

	var result models.CompositeResult
	var success int
	var finalData string
	err := row.Scan(&result.RunID, &result.APQCID, &result.Level, &success,
		&result.Summary.TotalChildren, &result.Summary.Successful, &result.Summary.Failed,
		&result.Summary.ExecutionTimeMs, &finalData, &result.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	result.Success = success != 0

	if finalData != "" {
		if err := json.Unmarshal([]byte(finalData), &result.FinalData); err != nil {
			return nil, fmt.Errorf("unmarshal final data: %w", err)
		}
	}

	rows, err := db.conn.Query(`
		SELECT agent_id, success, result, metrics, error
		FROM child_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query child results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var child models.ExecutionResult
		var childSuccess int
		var resultJSON, metricsJSON string
		if err := rows.Scan(&child.AgentID, &childSuccess, &resultJSON, &metricsJSON, &child.Error); err != nil {
			return nil, fmt.Errorf("scan child result: %w", err)
		}
		child.Success = childSuccess != 0
		if resultJSON != "" {
			if err := json.Unmarshal([]byte(resultJSON), &child.Result); err != nil {
				return nil, fmt.Errorf("unmarshal child result: %w", err)
			}
		}
		if metricsJSON != "" {
			if err := json.Unmarshal([]byte(metricsJSON), &child.Metrics); err != nil {
				return nil, fmt.Errorf("unmarshal child metrics: %w", err)
			}
		}
		result.ChildResults = append(result.ChildResults, child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child results: %w", err)
	}

	return &result, nil
}

// ListRuns returns the most recent run records, newest first.
// If apqcID is non-empty, only runs of that node are returned.
func (db *DB) ListRuns(apqcID string, limit int) ([]RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, apqc_id, level, success, total_children, successful, failed, execution_time_ms, completed_at
		FROM runs`
	args := []any{}
	if apqcID != "" {
		query += " WHERE apqc_id = ?"
		args = append(args, apqcID)
	}
	query += " ORDER BY completed_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var success int
		if err := rows.Scan(&rec.RunID, &rec.APQCID, &rec.Level, &success,
			&rec.Summary.TotalChildren, &rec.Summary.Successful, &rec.Summary.Failed,
			&rec.Summary.ExecutionTimeMs, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Success = success != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
