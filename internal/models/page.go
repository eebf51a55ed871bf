// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package models

import "github.com/goccy/go-json"

// Block types of a dashboard page.
const (
	BlockChart   = "chart"
	BlockText    = "text"
	BlockMetrics = "metrics"
	BlockTable   = "table"
	BlockColumns = "columns"
)

// PageSummary is one navigation entry.
type PageSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Page is a fully resolved dashboard page.
type Page struct {
	Slug   string  `json:"slug"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Block is one resolved element of a page. Exactly one payload field is set,
// matching Type. Figure holds an encoded Plotly figure.
type Block struct {
	Type    string          `json:"type"`
	Ref     string          `json:"ref,omitempty"`
	Heading string          `json:"heading,omitempty"`
	Text    string          `json:"text,omitempty"`
	Figure  json.RawMessage `json:"figure,omitempty"`
	Cards   []MetricCard    `json:"cards,omitempty"`
	Table   *DataTable      `json:"table,omitempty"`
	Columns []Block         `json:"columns,omitempty"`
}

// MetricCard is one formatted KPI.
type MetricCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Help  string `json:"help,omitempty"`
}

// DataTable is a labelled numeric grid.
type DataTable struct {
	Title   string         `json:"title"`
	Columns []string       `json:"columns"`
	Rows    []DataTableRow `json:"rows"`
}

// DataTableRow is one labelled row of a DataTable.
type DataTableRow struct {
	Label  string   `json:"label"`
	Values []Number `json:"values"`
}
