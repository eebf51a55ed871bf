// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// GenerateKey builds a compact cache key from a prefix and call arguments.
// The arguments are JSON-encoded and hashed, so struct field order is stable
// and map arguments are encoded with sorted keys.
//
// Example:
//
//	key := cache.GenerateKey(fingerprint+":kpis", opts)
//	// "9f2c1e0b7a64d3f1:kpis:4e1d..."
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
