package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/procmesh/procmesh/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func sampleResult(runID string) models.CompositeResult {
	return models.CompositeResult{
		RunID:  runID,
		APQCID: "9.2",
		Level:  2,
		ChildResults: []models.ExecutionResult{
			{AgentID: "9.2.1.1", Success: true, Result: map[string]any{"invoice_count": float64(5)}},
			{AgentID: "9.2.1.2", Success: false, Error: "missing field"},
		},
		Summary: models.NodeSummary{
			TotalChildren: 2, Successful: 1, Failed: 1, ExecutionTimeMs: 12.5,
		},
		FinalData: map[string]any{"invoice_count": float64(5)},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRecordRun_And_GetRun(t *testing.T) {
	db := openTestDB(t)

	want := sampleResult("run-1")
	if err := db.RecordRun(want); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if got.APQCID != "9.2" || got.Level != 2 {
		t.Errorf("got node %s level %d, want 9.2 level 2", got.APQCID, got.Level)
	}
	if got.Success {
		t.Error("run should be recorded as failed")
	}
	if len(got.ChildResults) != 2 {
		t.Fatalf("got %d child results, want 2", len(got.ChildResults))
	}
	if got.ChildResults[0].AgentID != "9.2.1.1" || !got.ChildResults[0].Success {
		t.Errorf("first child = %+v", got.ChildResults[0])
	}
	if got.ChildResults[1].Error != "missing field" {
		t.Errorf("second child error = %q", got.ChildResults[1].Error)
	}
	if got.FinalData["invoice_count"] != float64(5) {
		t.Errorf("finalData = %v", got.FinalData)
	}
	if got.Summary != want.Summary {
		t.Errorf("summary = %+v, want %+v", got.Summary, want.Summary)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetRun("missing"); err == nil {
		t.Error("GetRun of unknown ID should fail")
	}
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		r := sampleResult(id)
		if i == 2 {
			r.APQCID = "4.1"
		}
		r.Timestamp = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if err := db.RecordRun(r); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", id, err)
		}
	}

	all, err := db.ListRuns("", 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].RunID != "run-c" {
		t.Errorf("newest run first, got %q", all[0].RunID)
	}

	filtered, err := db.ListRuns("9.2", 10)
	if err != nil {
		t.Fatalf("ListRuns(9.2) failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("got %d records for 9.2, want 2", len(filtered))
	}

	limited, err := db.ListRuns("", 1)
	if err != nil {
		t.Fatalf("ListRuns limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d records with limit 1", len(limited))
	}
}

func TestRecordRun_DuplicateRunID(t *testing.T) {
	db := openTestDB(t)

	if err := db.RecordRun(sampleResult("dup")); err != nil {
		t.Fatalf("first RecordRun failed: %v", err)
	}
	if err := db.RecordRun(sampleResult("dup")); err == nil {
		t.Error("recording the same run ID twice should fail")
	}
}
