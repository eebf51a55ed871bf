// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package dataset holds the immutable in-memory usage table.

A Table is built once by the loader and shared read-only by the analytics
engine, the chart renderers and the page controller. It never exposes its
backing slice: Record and Each hand out copies, so callers may mutate what
they receive without affecting other readers. No lock is needed.

Each table carries a content fingerprint (xxhash64 over every record in load
order) that the analytics cache uses as its key prefix, so results computed
from one table can never be served for another.
*/
package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/usagelens/internal/models"
)

var (
	// ErrEmptyPath is returned when no dataset path is configured.
	ErrEmptyPath = errors.New("dataset: empty path")

	// ErrFileNotFound is returned when the dataset path does not exist.
	ErrFileNotFound = errors.New("dataset: file not found")
)

// Table is an immutable, ordered collection of usage records.
type Table struct {
	records     []models.UsageRecord
	source      string
	loadedAt    time.Time
	fingerprint string

	users    int
	days     []time.Time
	models   []string
	features []string
	licenses []string
}

// New builds a table from records. The slice is copied.
func New(records []models.UsageRecord, source string) *Table {
	owned := make([]models.UsageRecord, len(records))
	copy(owned, records)

	t := &Table{
		records:  owned,
		source:   source,
		loadedAt: time.Now().UTC(),
	}
	t.fingerprint = fingerprint(owned)
	t.index()
	return t
}

func (t *Table) index() {
	users := make(map[string]struct{})
	days := make(map[time.Time]struct{})
	modelSet := make(map[string]struct{})
	featureSet := make(map[string]struct{})
	licenseSet := make(map[string]struct{})

	for i := range t.records {
		r := &t.records[i]
		users[r.UserID] = struct{}{}
		days[r.Day] = struct{}{}
		modelSet[r.Model] = struct{}{}
		featureSet[r.Feature] = struct{}{}
		licenseSet[r.License] = struct{}{}
	}

	t.users = len(users)

	t.days = make([]time.Time, 0, len(days))
	for d := range days {
		t.days = append(t.days, d)
	}
	sort.Slice(t.days, func(i, j int) bool { return t.days[i].Before(t.days[j]) })

	t.models = sortedKeys(modelSet)
	t.features = sortedKeys(featureSet)
	t.licenses = sortedKeys(licenseSet)
	models.SortLicenses(t.licenses)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fingerprint hashes every field of every record in order. Fields are
// length-prefixed so that ("ab","c") and ("a","bc") differ.
func fingerprint(records []models.UsageRecord) string {
	h := xxhash.New()
	buf := make([]byte, 0, 128)
	for i := range records {
		r := &records[i]
		buf = buf[:0]
		buf = appendString(buf, r.UserID)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Day.Unix()))
		buf = appendString(buf, r.Model)
		buf = appendString(buf, r.Feature)
		buf = appendString(buf, r.License)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Requests))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Spent))
		_, _ = h.Write(buf)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Record returns a copy of the i-th record.
func (t *Table) Record(i int) models.UsageRecord { return t.records[i] }

// Each calls fn with a copy of every record in load order.
func (t *Table) Each(fn func(i int, r models.UsageRecord)) {
	for i := range t.records {
		fn(i, t.records[i])
	}
}

// Records returns a copy of all records.
func (t *Table) Records() []models.UsageRecord {
	out := make([]models.UsageRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Sample returns at most limit records picked at a fixed stride, first record
// included. The result is deterministic for a given table and limit.
func (t *Table) Sample(limit int) []models.UsageRecord {
	n := len(t.records)
	if limit <= 0 || n <= limit {
		return t.Records()
	}
	out := make([]models.UsageRecord, 0, limit)
	for k := 0; k < limit; k++ {
		out = append(out, t.records[k*n/limit])
	}
	return out
}

// Fingerprint identifies the table content.
func (t *Table) Fingerprint() string { return t.fingerprint }

// Source is the path the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt is when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Users returns the number of distinct users.
func (t *Table) Users() int { return t.users }

// Days returns the distinct days in ascending order.
func (t *Table) Days() []time.Time { return append([]time.Time(nil), t.days...) }

// Models returns the distinct models sorted by name.
func (t *Table) Models() []string { return append([]string(nil), t.models...) }

// Features returns the distinct features sorted by name.
func (t *Table) Features() []string { return append([]string(nil), t.features...) }

// Licenses returns the distinct license tiers in tier order.
func (t *Table) Licenses() []string { return append([]string(nil), t.licenses...) }

// Info summarises the table for the dataset endpoint.
func (t *Table) Info() models.DatasetInfo {
	info := models.DatasetInfo{
		Source:      t.source,
		Rows:        len(t.records),
		Users:       t.users,
		Models:      t.Models(),
		Features:    t.Features(),
		Licenses:    t.Licenses(),
		Fingerprint: t.fingerprint,
		LoadedAt:    t.loadedAt,
	}
	if len(t.days) > 0 {
		info.FirstDay = t.days[0]
		info.LastDay = t.days[len(t.days)-1]
	}
	return info
}
