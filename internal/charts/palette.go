// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import "github.com/tomtom215/usagelens/internal/models"

// LicenseColors maps known license tiers to their fixed colours.
var LicenseColors = map[string]string{
	models.LicensePremium:    "#edf8fb",
	models.LicenseBasic:      "#b3cde3",
	models.LicenseEnterprise: "#8856a7",
	models.LicenseStandard:   "#810f7c",
}

// SegmentColors follows models.Segments order.
var SegmentColors = []string{"#b3cde3", "#6497b1", "#8856a7", "#810f7c"}

// BuPu is Plotly's sequential blue-purple scale.
var BuPu = []string{
	"rgb(247,252,253)",
	"rgb(224,236,244)",
	"rgb(191,211,230)",
	"rgb(158,188,218)",
	"rgb(140,150,198)",
	"rgb(140,107,177)",
	"rgb(136,65,157)",
	"rgb(129,15,124)",
	"rgb(77,0,75)",
}

// BuPuScale is the Plotly colorscale name used by heatmaps.
const BuPuScale = "BuPu"

// licenseColor falls back to the sequential scale for unknown tiers.
func licenseColor(license string, i int) string {
	if c, ok := LicenseColors[license]; ok {
		return c
	}
	return sequentialColor(i)
}

func segmentColor(s models.Segment) string {
	if i := s.Index(); i >= 0 {
		return SegmentColors[i]
	}
	return BuPu[len(BuPu)-1]
}

// sequentialColor cycles through BuPu, skipping the three lightest entries.
func sequentialColor(i int) string {
	visible := BuPu[3:]
	return visible[i%len(visible)]
}

func sequentialColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = sequentialColor(i)
	}
	return out
}

func licenseColors(licenses []string) []string {
	out := make([]string, len(licenses))
	for i, l := range licenses {
		out[i] = licenseColor(l, i)
	}
	return out
}
