package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a table that was read but cannot be used.
var ErrMalformed = errors.New("malformed dataset")

// Contract is the column set a table must carry for the views that read it.
type Contract struct {
	Required []string
	// Numeric columns must parse as numbers where present. Only cmd/validate
	// enforces this; views tolerate unparseable cells as missing.
	Numeric []string
	// ExactRows, when positive, is the only accepted row count.
	ExactRows int
}

var contracts = map[Name]Contract{
	KPI: {
		Required: []string{"decade", "deaths", "affected", "damage_usd"},
		Numeric:  []string{"deaths", "affected", "damage_usd"},
	},
	YearlyStorms: {
		Required: []string{"year"},
		Numeric:  []string{"year"},
	},
	DecadeSummary: {
		Required: []string{"decade"},
	},
	SuperTyphoons: {
		Required: []string{"storm_name", "year", "category", "peak_winds_kmh", "notable"},
		Numeric:  []string{"year", "peak_winds_kmh", "deaths"},
	},
	EuropeComparison: {
		Required: []string{"event", "region", "rainfall_mm_24h", "gdp_percent"},
		Numeric:  []string{"rainfall_mm_24h", "gdp_percent"},
	},
	FrequencyIntensity: {
		Required: []string{"year", "storm_count", "storm_count_trend", "avg_intensity_per_storm", "avg_intensity_trend"},
		Numeric:  []string{"year", "storm_count", "storm_count_trend", "avg_intensity_per_storm", "avg_intensity_trend"},
	},
	Mindanao: {
		Required: []string{"year", "category", "max_wind_kt", "name"},
		Numeric:  []string{"year", "max_wind_kt"},
	},
	EraComparison: {
		Required:  []string{"storms_per_year", "cat5_per_year", "avg_intensity_per_storm"},
		Numeric:   []string{"storms_per_year", "cat5_per_year", "avg_intensity_per_storm"},
		ExactRows: 2,
	},
}

// ContractFor returns the contract of a dataset.
func ContractFor(n Name) Contract { return contracts[n] }

// Check verifies the table's shape. Errors wrap ErrMalformed.
func (c Contract) Check(t *Table) error {
	var missing []string
	for _, col := range c.Required {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", "))
	}
	if c.ExactRows > 0 && t.Len() != c.ExactRows {
		return fmt.Errorf("%w: %d rows, want %d", ErrMalformed, t.Len(), c.ExactRows)
	}
	return nil
}

// CheckValues reports every present-but-unparseable numeric cell, as
// "column row N: value".
func (c Contract) CheckValues(t *Table) []string {
	var problems []string
	for _, col := range c.Numeric {
		if !t.Has(col) {
			continue
		}
		for i := 0; i < t.Len(); i++ {
			s, ok := t.String(i, col)
			if !ok {
				continue
			}
			if _, ok := t.Float(i, col); !ok {
				problems = append(problems, fmt.Sprintf("%s row %d: %q", col, i+1, s))
			}
		}
	}
	return problems
}
