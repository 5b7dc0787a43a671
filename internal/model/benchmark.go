package model

import (
	"regexp"
	"strconv"
)

// DefaultCategory is assumed when an incoming benchmark omits its category.
const DefaultCategory = "knowledge"

// BenchmarkDefinition describes a single benchmark tracked by the catalog.
// Definitions live in per-category shards keyed by ID; the shard key is
// authoritative and is copied into the struct at load time.
type BenchmarkDefinition struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FullName       string `json:"full_name,omitempty"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category"`
	Scale          string `json:"scale,omitempty"` // free text, e.g. "0-100" or "elo"
	HigherIsBetter bool   `json:"higher_is_better"`
}

// CategoryInfo is a display entry from the categories shard.
type CategoryInfo struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

var scaleRangeRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[-–]\s*(-?\d+(?:\.\d+)?)\s*$`)

// ScaleBounds parses Scale as a numeric "lo-hi" range. Non-numeric scales
// (elo ratings, pass@k descriptors) return ok=false and skip range checks.
func (b *BenchmarkDefinition) ScaleBounds() (lo, hi float64, ok bool) {
	m := scaleRangeRe.FindStringSubmatch(b.Scale)
	if m == nil {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(m[1], 64)
	hi, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
