package check

import (
	"fmt"
	"math"
)

// Bounds is the open interval (Min, Max) an average rate must fall in.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultBounds holds for every currency pair without an explicit entry.
var DefaultBounds = Bounds{Min: 0, Max: 100}

// Contains reports whether v is finite and strictly inside the interval.
func (b Bounds) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > b.Min && v < b.Max
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%g, %g)", b.Min, b.Max)
}

// BoundsTable resolves the bounds of a currency pair.
type BoundsTable struct {
	Default Bounds
	PerPair map[string]Bounds
}

// NewBoundsTable returns a table using DefaultBounds as the fallback.
func NewBoundsTable(perPair map[string]Bounds) BoundsTable {
	return BoundsTable{Default: DefaultBounds, PerPair: perPair}
}

// For returns the bounds configured for pair, or the default.
func (t BoundsTable) For(pair string) Bounds {
	if b, ok := t.PerPair[pair]; ok {
		return b
	}
	if t.Default == (Bounds{}) {
		return DefaultBounds
	}
	return t.Default
}
