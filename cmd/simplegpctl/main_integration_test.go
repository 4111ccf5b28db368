//go:build sqlite

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRunsAndStatsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "simplegp.db")
	store := []string{"--store", "sqlite", "--db-path", dbPath}
	ctx := context.Background()

	runArgs := append(quietArgs("run", "--target", "cubic", "--pop", "10", "--gens", "3", "--test-points", "25", "--seed", "11", "--json"), store...)
	var out bytes.Buffer
	if err := run(ctx, runArgs, &out); err != nil {
		t.Fatalf("run command: %v", err)
	}
	var summary struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
		t.Fatalf("decode run summary: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}

	out.Reset()
	if err := run(ctx, append(quietArgs("runs"), store...), &out); err != nil {
		t.Fatalf("runs command: %v", err)
	}
	if !strings.Contains(out.String(), summary.RunID) {
		t.Fatalf("runs output missing %s:\n%s", summary.RunID, out.String())
	}

	out.Reset()
	if err := run(ctx, append(quietArgs("stats", "--latest", "--format", "csv"), store...), &out); err != nil {
		t.Fatalf("stats command: %v", err)
	}
	rows, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// header, three train generations and one test evaluation
	if len(rows) != 5 {
		t.Fatalf("unexpected csv rows: %d", len(rows))
	}
	if rows[4][1] != "test" {
		t.Fatalf("expected final row to be the test phase, got %v", rows[4])
	}

	out.Reset()
	if err := run(ctx, append(quietArgs("stats", "--run-id", summary.RunID, "--phase", "train"), store...), &out); err != nil {
		t.Fatalf("stats table: %v", err)
	}
	if !strings.HasPrefix(out.String(), "GEN") {
		t.Fatalf("unexpected table output:\n%s", out.String())
	}

	exportDir := t.TempDir()
	out.Reset()
	if err := run(ctx, append(quietArgs("export", "--run-id", summary.RunID, "--out", exportDir), store...), &out); err != nil {
		t.Fatalf("export command: %v", err)
	}
	if _, err := os.Stat(filepath.Join(exportDir, summary.RunID, "generation_stats.csv")); err != nil {
		t.Fatalf("expected exported csv: %v", err)
	}
}
