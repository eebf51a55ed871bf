// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package charts renders dashboard figures as Plotly JSON.

Each chart id maps to a Renderer that pulls aggregates from the analytics
engine (and, for quantile and calendar queries, from DuckDB) and arranges them
into traces and a layout. The browser shell passes figures straight to
Plotly.newPlot; no aggregation happens client side.

All figures share the plotly_dark template and the palettes in palette.go.
*/
package charts

// Template is the Plotly template name applied to every figure.
const Template = "plotly_dark"

// Figure is a complete Plotly figure.
type Figure struct {
	ID     string  `json:"id"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of Plotly trace attributes the dashboard uses.
// Axis values are interface{} because Plotly accepts numbers, strings and
// dates interchangeably.
type Trace struct {
	Type         string        `json:"type"`
	Name         string        `json:"name,omitempty"`
	Mode         string        `json:"mode,omitempty"`
	X            interface{}   `json:"x,omitempty"`
	Y            interface{}   `json:"y,omitempty"`
	Z            interface{}   `json:"z,omitempty"`
	Text         interface{}   `json:"text,omitempty"`
	TextTemplate string        `json:"texttemplate,omitempty"`
	TextPosition string        `json:"textposition,omitempty"`
	Labels       []string      `json:"labels,omitempty"`
	Values       interface{}   `json:"values,omitempty"`
	Orientation  string        `json:"orientation,omitempty"`
	Marker       *Marker       `json:"marker,omitempty"`
	Line         *Line         `json:"line,omitempty"`
	ColorScale   string        `json:"colorscale,omitempty"`
	StackGroup   string        `json:"stackgroup,omitempty"`
	Opacity      float64       `json:"opacity,omitempty"`
	ShowLegend   *bool         `json:"showlegend,omitempty"`
	LegendGroup  string        `json:"legendgroup,omitempty"`
	HoverInfo    string        `json:"hoverinfo,omitempty"`

	// Precomputed quartiles, set on box traces only.
	Q1         []float64 `json:"q1,omitempty"`
	Median     []float64 `json:"median,omitempty"`
	Q3         []float64 `json:"q3,omitempty"`
	LowerFence []float64 `json:"lowerfence,omitempty"`
	UpperFence []float64 `json:"upperfence,omitempty"`
	Mean       []float64 `json:"mean,omitempty"`
}

// Marker styles points, bars and slices.
type Marker struct {
	Color  interface{} `json:"color,omitempty"`
	Colors []string    `json:"colors,omitempty"`
	Size   int         `json:"size,omitempty"`
}

// Line styles line traces.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Shape string  `json:"shape,omitempty"`
}

// Layout is the subset of Plotly layout attributes the dashboard uses.
type Layout struct {
	Template   string  `json:"template"`
	Title      Title   `json:"title"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	BarMode    string  `json:"barmode,omitempty"`
	BoxMode    string  `json:"boxmode,omitempty"`
	HoverMode  string  `json:"hovermode,omitempty"`
	ShowLegend *bool   `json:"showlegend,omitempty"`
	Legend     *Legend `json:"legend,omitempty"`
}

// Title is a layout or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures one axis.
type Axis struct {
	Title         Title     `json:"title"`
	Range         []float64 `json:"range,omitempty"`
	Type          string    `json:"type,omitempty"`
	CategoryOrder string    `json:"categoryorder,omitempty"`
}

// Legend configures the legend box.
type Legend struct {
	Title       Title  `json:"title"`
	Orientation string `json:"orientation,omitempty"`
}

func newLayout(title, xTitle, yTitle string) Layout {
	return Layout{
		Template: Template,
		Title:    Title{Text: title},
		XAxis:    &Axis{Title: Title{Text: xTitle}},
		YAxis:    &Axis{Title: Title{Text: yTitle}},
	}
}

func boolPtr(b bool) *bool { return &b }
