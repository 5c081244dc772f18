package domain

import (
	"fmt"
	"math"
	"slices"
)

// Era boundaries. The late era starts at EraBoundaryYear.
const (
	EraBoundaryYear = 2010
	EarlyEraYears   = 30 // 1980–2009
	LateEraYears    = 15 // 2010–2024
)

// PercentDelta is (newer/older − 1) × 100. ok is false when older is zero
// or either value is not finite.
func PercentDelta(older, newer float64) (float64, bool) {
	if older == 0 || math.IsNaN(older) || math.IsNaN(newer) || math.IsInf(older, 0) || math.IsInf(newer, 0) {
		return 0, false
	}
	return (newer/older - 1) * 100, true
}

// FormatDelta renders a percent delta with an explicit sign, e.g. "+25.0%".
func FormatDelta(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", v)
}

// EraRates compares storm counts before and after EraBoundaryYear, normalised
// by the fixed era spans.
type EraRates struct {
	EarlyCount int
	LateCount  int
	EarlyRate  float64
	LateRate   float64
	Change     float64
	ChangeOK   bool
}

// RatesByEra splits years at EraBoundaryYear and divides each count by its
// era's span in calendar years.
func RatesByEra(years []int) EraRates {
	var r EraRates
	for _, y := range years {
		if y < EraBoundaryYear {
			r.EarlyCount++
		} else {
			r.LateCount++
		}
	}
	r.EarlyRate = float64(r.EarlyCount) / EarlyEraYears
	r.LateRate = float64(r.LateCount) / LateEraYears
	r.Change, r.ChangeOK = PercentDelta(r.EarlyRate, r.LateRate)
	return r
}

// TopN returns the indices of the n rows with the largest values in col,
// descending. Ties keep their original row order; rows with a missing value
// are skipped.
func TopN(t *Table, col string, n int) []int {
	idx := make([]int, 0, t.Len())
	vals := make(map[int]float64, t.Len())
	for i := 0; i < t.Len(); i++ {
		if v, ok := t.Float(i, col); ok {
			idx = append(idx, i)
			vals[i] = v
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case vals[a] > vals[b]:
			return -1
		case vals[a] < vals[b]:
			return 1
		}
		return 0
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	return idx
}

// SortDesc returns all row indices ordered by col descending, stable, with
// missing values last.
func SortDesc(t *Table, col string) []int {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		va, okA := t.Float(a, col)
		vb, okB := t.Float(b, col)
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case !okA && !okB:
			return 0
		case va > vb:
			return -1
		case va < vb:
			return 1
		}
		return 0
	})
	return idx
}

// DecadeCount is the number of rows falling in one decade bucket.
type DecadeCount struct {
	Decade Decade
	Count  int
}

// CountByDecade buckets the year column with DecadeOf and counts rows per
// bucket, ordered by decade label. Rows without a year are skipped.
func CountByDecade(t *Table, yearCol string) []DecadeCount {
	counts := make(map[Decade]int)
	for i := 0; i < t.Len(); i++ {
		y, ok := t.Int(i, yearCol)
		if !ok {
			continue
		}
		counts[DecadeOf(y)]++
	}
	out := make([]DecadeCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DecadeCount{Decade: d, Count: c})
	}
	slices.SortFunc(out, func(a, b DecadeCount) int {
		switch {
		case a.Decade < b.Decade:
			return -1
		case a.Decade > b.Decade:
			return 1
		}
		return 0
	})
	return out
}
