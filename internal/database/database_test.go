// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package database

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/usagelens/internal/config"
	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/logging"
)

// testDBSemaphore serializes DuckDB usage across tests. It is held for the
// whole test so that concurrent CGO calls from parallel tests cannot contend.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{MaxMemory: "512MB", Threads: 1})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usage.csv")
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadCSV_Valid(t *testing.T) {
	db := setupTestDB(t)

	// Columns out of order plus an extra column that must be ignored.
	path := writeCSV(t, `
license,spent_amount,uuid,extra,day_id,model,feature,requests_cnt
Premium,12.5,user_2,x,2025-03-03,Model_C,Feature_1,40
Basic,0.75,user_1,y,2025-03-01,Model_A,Feature_2,3
Premium,4,user_2,z,2025-03-04,Model_D,Feature_4,11
`)

	tbl, err := db.LoadCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if !db.Loaded() {
		t.Error("Loaded() = false after successful load")
	}
	if tbl.Len() != 3 || tbl.Users() != 2 {
		t.Fatalf("Len()=%d Users()=%d, want 3 and 2", tbl.Len(), tbl.Users())
	}
	if tbl.Source() != path {
		t.Errorf("Source() = %q, want %q", tbl.Source(), path)
	}

	first := tbl.Record(0)
	if first.UserID != "user_2" || first.License != "Premium" || first.Model != "Model_C" ||
		first.Feature != "Feature_1" || first.Requests != 40 || first.Spent != 12.5 {
		t.Errorf("Record(0) = %+v", first)
	}
	if !first.Day.Equal(date(2025, time.March, 3)) {
		t.Errorf("Record(0).Day = %v, want 2025-03-03", first.Day)
	}
	if got := tbl.Record(1).UserID; got != "user_1" {
		t.Errorf("file order not preserved: Record(1).UserID = %q", got)
	}
}

func TestLoadCSV_LogsLoadOnce(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, `
uuid,day_id,model,feature,license,requests_cnt,spent_amount
user_1,2025-03-01,Model_A,Feature_1,Basic,3,0.75
user_2,2025-03-02,Model_B,Feature_2,Premium,5,2
`)

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	if _, err := db.LoadCSV(context.Background(), path); err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, `"message":"Dataset loaded"`); n != 1 {
		t.Fatalf("Dataset loaded logged %d times, want 1: %s", n, out)
	}
	for _, want := range []string{`"rows":2`, `"users":2`, `"fingerprint":`} {
		if !strings.Contains(out, want) {
			t.Errorf("load log missing %s: %s", want, out)
		}
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		path    string
		wantIs  error
		wantMsg string
	}{
		{
			name:   "empty path",
			path:   "",
			wantIs: dataset.ErrEmptyPath,
		},
		{
			name:    "missing file",
			path:    filepath.Join(os.TempDir(), "usagelens-does-not-exist.csv"),
			wantIs:  dataset.ErrFileNotFound,
			wantMsg: "dataset: file not found: ",
		},
		{
			name: "missing columns",
			csv: `
uuid,day_id,model,feature,requests_cnt
u1,2025-03-01,Model_A,Feature_1,1
`,
			wantIs:  ErrMissingColumns,
			wantMsg: "dataset: missing required columns: [license spent_amount]",
		},
		{
			name: "non-numeric requests",
			csv: `
uuid,day_id,model,feature,license,requests_cnt,spent_amount
u1,2025-03-01,Model_A,Feature_1,Basic,1,0.5
u1,2025-03-02,Model_A,Feature_1,Basic,many,0.5
u2,2025-03-02,Model_B,Feature_1,Basic,ten,0.5
`,
			wantIs:  ErrInvalidValues,
			wantMsg: "dataset: column requests_cnt: 2 values not convertible to BIGINT (first at row 2)",
		},
		{
			name: "bad date",
			csv: `
uuid,day_id,model,feature,license,requests_cnt,spent_amount
u1,yesterday,Model_A,Feature_1,Basic,1,0.5
`,
			wantIs:  ErrInvalidValues,
			wantMsg: "dataset: column day_id: 1 values not convertible to DATE (first at row 1)",
		},
		{
			name: "empty spend",
			csv: `
uuid,day_id,model,feature,license,requests_cnt,spent_amount
u1,2025-03-01,Model_A,Feature_1,Basic,1,0.5
u2,2025-03-01,Model_A,Feature_1,Basic,1,
`,
			wantIs:  ErrInvalidValues,
			wantMsg: "dataset: column spent_amount: 1 values not convertible to DOUBLE (first at row 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)

			path := tt.path
			if tt.csv != "" {
				path = writeCSV(t, tt.csv)
			}

			tbl, err := db.LoadCSV(context.Background(), path)
			if err == nil {
				t.Fatalf("LoadCSV() = %d rows, want error", tbl.Len())
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("LoadCSV() error = %v, want errors.Is %v", err, tt.wantIs)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("LoadCSV() error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if db.Loaded() {
				t.Error("Loaded() = true after failed load")
			}
		})
	}
}

func TestLoadCSV_ConversionErrorFields(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, `
uuid,day_id,model,feature,license,requests_cnt,spent_amount
u1,2025-03-01,Model_A,Feature_1,Basic,1,abc
`)

	_, err := db.LoadCSV(context.Background(), path)
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("LoadCSV() error = %v, want *ConversionError", err)
	}
	if convErr.Column != "spent_amount" || convErr.Type != "DOUBLE" || convErr.Count != 1 || convErr.FirstRow != 1 {
		t.Errorf("ConversionError = %+v", convErr)
	}
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, "uuid,day_id,model,feature,license,requests_cnt,spent_amount\n")

	tbl, err := db.LoadCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestQueriesBeforeLoad(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.GetWeeklyTotals(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("GetWeeklyTotals() error = %v, want ErrNotLoaded", err)
	}
	if _, err := db.GetBoxStats(ctx, "requests"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("GetBoxStats() error = %v, want ErrNotLoaded", err)
	}
}
