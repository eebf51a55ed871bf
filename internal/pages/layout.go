// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package pages

import (
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/usagelens/internal/models"
	"github.com/tomtom215/usagelens/internal/validation"
)

//go:embed layout.yaml
var defaultLayout []byte

// Layout is the declarative page structure.
type Layout struct {
	Pages []PageSpec `koanf:"pages" validate:"required,min=1,dive"`
}

// PageSpec declares one page.
type PageSpec struct {
	Slug   string      `koanf:"slug" validate:"required,slug"`
	Title  string      `koanf:"title" validate:"required,max=80"`
	Blocks []BlockSpec `koanf:"blocks" validate:"required,min=1,dive"`
}

// BlockSpec declares one block. Ref names a chart, card group or table
// depending on Type.
type BlockSpec struct {
	Type    string      `koanf:"type" validate:"required,oneof=chart text metrics table columns"`
	Ref     string      `koanf:"ref"`
	Heading string      `koanf:"heading"`
	Text    string      `koanf:"text"`
	Columns []BlockSpec `koanf:"columns" validate:"dive"`
}

// ChartCatalog reports which chart ids exist.
type ChartCatalog interface {
	Has(id string) bool
}

// DefaultLayout parses the embedded layout.
func DefaultLayout() (*Layout, error) {
	return ParseLayout(defaultLayout)
}

// ParseLayout reads a YAML layout.
func ParseLayout(raw []byte) (*Layout, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse page layout: %w", err)
	}
	layout := &Layout{}
	if err := k.Unmarshal("", layout); err != nil {
		return nil, fmt.Errorf("decode page layout: %w", err)
	}
	return layout, nil
}

// ValidateLayout checks field rules, that every page slug is unique, and that
// every reference resolves in charts or the card and table catalogues.
func ValidateLayout(layout *Layout, charts ChartCatalog) error {
	v := validation.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		b := sl.Current().Interface().(BlockSpec)
		switch b.Type {
		case models.BlockChart:
			if !charts.Has(b.Ref) {
				sl.ReportError(b.Ref, "Ref", "Ref", "chart_ref", b.Ref)
			}
		case models.BlockMetrics:
			if _, ok := cardGroups[b.Ref]; !ok {
				sl.ReportError(b.Ref, "Ref", "Ref", "card_ref", b.Ref)
			}
		case models.BlockTable:
			if _, ok := tables[b.Ref]; !ok {
				sl.ReportError(b.Ref, "Ref", "Ref", "table_ref", b.Ref)
			}
		case models.BlockText:
			if b.Text == "" {
				sl.ReportError(b.Text, "Text", "Text", "required", "")
			}
		case models.BlockColumns:
			if len(b.Columns) == 0 {
				sl.ReportError(b.Columns, "Columns", "Columns", "required", "")
			}
		}
	}, BlockSpec{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		l := sl.Current().Interface().(Layout)
		seen := make(map[string]bool, len(l.Pages))
		for _, p := range l.Pages {
			if seen[p.Slug] {
				sl.ReportError(p.Slug, "Pages", "Pages", "unique_slug", p.Slug)
			}
			seen[p.Slug] = true
		}
	}, Layout{})

	if verr := validation.Check(v, layout); verr != nil {
		details := make([]string, 0, len(verr.Errors()))
		for _, e := range verr.Errors() {
			details = append(details, fmt.Sprintf("%s (%s=%v)", e.Namespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidLayout, details)
	}
	return nil
}
