// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// Package pages assembles dashboard pages from the embedded layout: charts
// from the chart registry, KPI cards formatted for display, and tables.
package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/charts"
	"github.com/tomtom215/usagelens/internal/models"
)

var (
	// ErrPageNotFound is returned for unknown page slugs.
	ErrPageNotFound = errors.New("page not found")
	// ErrInvalidLayout wraps layout validation failures.
	ErrInvalidLayout = errors.New("invalid page layout")
)

// Controller renders pages against one engine and chart registry.
type Controller struct {
	layout *Layout
	index  map[string]int
	engine *analytics.Engine
	charts *charts.Registry
}

// NewController validates layout against registry and builds a controller.
// A nil layout selects the embedded default.
func NewController(engine *analytics.Engine, registry *charts.Registry, layout *Layout) (*Controller, error) {
	if layout == nil {
		var err error
		if layout, err = DefaultLayout(); err != nil {
			return nil, err
		}
	}
	if err := ValidateLayout(layout, registry); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(layout.Pages))
	for i, p := range layout.Pages {
		index[p.Slug] = i
	}
	return &Controller{layout: layout, index: index, engine: engine, charts: registry}, nil
}

// List returns every page in navigation order.
func (c *Controller) List() []models.PageSummary {
	out := make([]models.PageSummary, len(c.layout.Pages))
	for i, p := range c.layout.Pages {
		out[i] = models.PageSummary{Slug: p.Slug, Title: p.Title}
	}
	return out
}

// Render resolves every block of the page named slug.
func (c *Controller) Render(ctx context.Context, slug string) (models.Page, error) {
	i, ok := c.index[slug]
	if !ok {
		return models.Page{}, fmt.Errorf("%w: %q", ErrPageNotFound, slug)
	}
	spec := c.layout.Pages[i]

	blocks, err := c.renderBlocks(ctx, spec.Blocks)
	if err != nil {
		return models.Page{}, fmt.Errorf("page %s: %w", slug, err)
	}
	return models.Page{Slug: spec.Slug, Title: spec.Title, Blocks: blocks}, nil
}

func (c *Controller) renderBlocks(ctx context.Context, specs []BlockSpec) ([]models.Block, error) {
	out := make([]models.Block, len(specs))
	for i, spec := range specs {
		b, err := c.renderBlock(ctx, spec)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (c *Controller) renderBlock(ctx context.Context, spec BlockSpec) (models.Block, error) {
	b := models.Block{Type: spec.Type, Ref: spec.Ref, Heading: spec.Heading}

	switch spec.Type {
	case models.BlockText:
		b.Text = spec.Text
	case models.BlockChart:
		fig, err := c.charts.Render(ctx, spec.Ref)
		if err != nil {
			return b, err
		}
		raw, err := json.Marshal(fig)
		if err != nil {
			return b, fmt.Errorf("encode chart %s: %w", spec.Ref, err)
		}
		b.Figure = raw
	case models.BlockMetrics:
		cards, err := cardGroups[spec.Ref](ctx, c.engine)
		if err != nil {
			return b, fmt.Errorf("cards %s: %w", spec.Ref, err)
		}
		b.Cards = cards
	case models.BlockTable:
		table, err := tables[spec.Ref](ctx, c.engine)
		if err != nil {
			return b, fmt.Errorf("table %s: %w", spec.Ref, err)
		}
		b.Table = table
	case models.BlockColumns:
		columns, err := c.renderBlocks(ctx, spec.Columns)
		if err != nil {
			return b, err
		}
		b.Columns = columns
	}
	return b, nil
}
