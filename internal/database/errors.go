// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package database

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMissingColumns is returned when the input lacks a required column.
	ErrMissingColumns = errors.New("dataset: missing required columns")

	// ErrInvalidValues is wrapped by every ConversionError.
	ErrInvalidValues = errors.New("dataset: invalid values")

	// ErrNotLoaded is returned by queries run before LoadCSV succeeded.
	ErrNotLoaded = errors.New("dataset: not loaded")
)

// ConversionError reports values of a column that do not cast to its type.
// FirstRow is the 1-based data row, header excluded.
type ConversionError struct {
	Column   string
	Type     string
	Count    int64
	FirstRow int64
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("dataset: column %s: %d values not convertible to %s (first at row %d)",
		e.Column, e.Count, e.Type, e.FirstRow)
}

// Unwrap lets callers match any conversion failure with errors.Is.
func (e *ConversionError) Unwrap() error {
	return ErrInvalidValues
}

// closeQuietly closes a resource in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
