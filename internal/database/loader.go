// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/models"
)

const (
	rawTable    = "raw_usage"
	recordTable = "usage_records"
)

// typedColumns are the columns that must cast to a non-text type.
var typedColumns = []struct {
	name    string
	sqlType string
}{
	{models.ColumnDay, "DATE"},
	{models.ColumnRequests, "BIGINT"},
	{models.ColumnSpent, "DOUBLE"},
}

// LoadCSV reads the CSV at path into the usage_records table and returns the
// immutable table built from it. Any schema or value problem fails the load
// before the table is created.
func (db *DB) LoadCSV(ctx context.Context, path string) (*dataset.Table, error) {
	if path == "" {
		return nil, dataset.ErrEmptyPath
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dataset.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("dataset: failed to stat %s: %w", path, err)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	if err := db.stageRaw(ctx, path); err != nil {
		return nil, err
	}
	defer db.dropRaw()

	if err := db.checkColumns(ctx); err != nil {
		return nil, err
	}
	if err := db.checkValues(ctx); err != nil {
		return nil, err
	}
	if err := db.createRecordTable(ctx); err != nil {
		return nil, err
	}

	records, err := db.readRecords(ctx)
	if err != nil {
		return nil, err
	}
	db.loaded.Store(true)

	table := dataset.New(records, path)
	logging.Info().
		Str("path", path).
		Int("rows", table.Len()).
		Int("users", table.Users()).
		Str("fingerprint", table.Fingerprint()).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")
	return table, nil
}

// stageRaw reads every column as text, numbering rows in file order.
func (db *DB) stageRaw(ctx context.Context, path string) error {
	query := fmt.Sprintf(`
	CREATE OR REPLACE TABLE %s AS
	SELECT *, row_number() OVER () AS __row
	FROM read_csv(%s, header = true, all_varchar = true)`, rawTable, quoteLiteral(path))

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dataset: failed to read %s: %w", path, err)
	}
	return nil
}

func (db *DB) dropRaw() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+rawTable); err != nil {
		logging.Warn().Err(err).Msg("Failed to drop staging table")
	}
}

func (db *DB) checkColumns(ctx context.Context) error {
	scanName := func(rows *sql.Rows) (string, error) {
		var name string
		err := rows.Scan(&name)
		return name, err
	}
	names, err := queryAndScan(ctx, db.conn,
		"SELECT column_name FROM information_schema.columns WHERE table_name = ?",
		[]interface{}{rawTable}, scanName)
	if err != nil {
		return fmt.Errorf("dataset: failed to inspect columns: %w", err)
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	var missing []string
	for _, col := range models.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}
	return nil
}

// checkValues counts values that fail to cast, empty cells included.
func (db *DB) checkValues(ctx context.Context) error {
	for _, col := range typedColumns {
		query := fmt.Sprintf(`
		SELECT count(*), COALESCE(min(__row), 0)
		FROM %s
		WHERE TRY_CAST(%s AS %s) IS NULL`, rawTable, quoteIdent(col.name), col.sqlType)

		var count, first int64
		if err := db.conn.QueryRowContext(ctx, query).Scan(&count, &first); err != nil {
			return fmt.Errorf("dataset: failed to check column %s: %w", col.name, err)
		}
		if count > 0 {
			return &ConversionError{Column: col.name, Type: col.sqlType, Count: count, FirstRow: first}
		}
	}
	return nil
}

func (db *DB) createRecordTable(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE OR REPLACE TABLE %s AS
	SELECT
		__row AS row_id,
		COALESCE(%s, '') AS user_id,
		CAST(%s AS DATE) AS day,
		COALESCE(%s, '') AS model,
		COALESCE(%s, '') AS feature,
		COALESCE(%s, '') AS license,
		CAST(%s AS BIGINT) AS requests,
		CAST(%s AS DOUBLE) AS spent
	FROM %s
	ORDER BY __row`,
		recordTable,
		quoteIdent(models.ColumnUserID),
		quoteIdent(models.ColumnDay),
		quoteIdent(models.ColumnModel),
		quoteIdent(models.ColumnFeature),
		quoteIdent(models.ColumnLicense),
		quoteIdent(models.ColumnRequests),
		quoteIdent(models.ColumnSpent),
		rawTable)

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dataset: failed to create %s: %w", recordTable, err)
	}
	return nil
}

func (db *DB) readRecords(ctx context.Context) ([]models.UsageRecord, error) {
	query := fmt.Sprintf(`
	SELECT user_id, day, model, feature, license, requests, spent
	FROM %s
	ORDER BY row_id`, recordTable)

	scanRecord := func(rows *sql.Rows) (models.UsageRecord, error) {
		var r models.UsageRecord
		err := rows.Scan(&r.UserID, &r.Day, &r.Model, &r.Feature, &r.License, &r.Requests, &r.Spent)
		r.Day = r.Day.UTC()
		return r, err
	}

	records, err := queryAndScan(ctx, db.conn, query, nil, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to read records: %w", err)
	}
	return records, nil
}
