// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"fmt"

	"github.com/tomtom215/usagelens/internal/models"
)

// RatioPolicy decides how rows with zero requests enter spend-per-request means.
type RatioPolicy string

const (
	// PolicyExclude skips zero-request rows. A group left with no rows is undefined.
	PolicyExclude RatioPolicy = "exclude"
	// PolicyPropagate makes any group containing a zero-request row undefined.
	PolicyPropagate RatioPolicy = "propagate"
)

// Validate rejects unknown policies.
func (p RatioPolicy) Validate() error {
	switch p {
	case PolicyExclude, PolicyPropagate:
		return nil
	default:
		return fmt.Errorf("unknown zero request policy %q", p)
	}
}

// ratioAccumulator builds the row-level mean of spend/requests for one group.
type ratioAccumulator struct {
	sum       float64
	rows      int
	undefined int
}

func (a *ratioAccumulator) add(r models.UsageRecord) {
	if r.Requests == 0 {
		a.undefined++
		return
	}
	a.sum += r.Spent / float64(r.Requests)
	a.rows++
}

func (a *ratioAccumulator) mean(policy RatioPolicy) models.Number {
	if policy == PolicyPropagate && a.undefined > 0 {
		return models.NaN()
	}
	if a.rows == 0 {
		return models.NaN()
	}
	return models.Number(a.sum / float64(a.rows))
}
