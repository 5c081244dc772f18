package domain

import (
	"errors"
	"fmt"
	"time"
)

// Name identifies one of the eight fixed dashboard tables.
type Name string

const (
	KPI                Name = "kpi"
	YearlyStorms       Name = "yearly_storms"
	DecadeSummary      Name = "decade_summary"
	SuperTyphoons      Name = "super_typhoons"
	EuropeComparison   Name = "europe_comparison"
	FrequencyIntensity Name = "frequency_intensity"
	Mindanao           Name = "mindanao"
	EraComparison      Name = "era_comparison"
)

// Names lists every dataset in display order.
var Names = []Name{
	KPI,
	YearlyStorms,
	DecadeSummary,
	SuperTyphoons,
	EuropeComparison,
	FrequencyIntensity,
	Mindanao,
	EraComparison,
}

var artifactFiles = map[Name]string{
	KPI:                "emdat_kpi_data.csv",
	YearlyStorms:       "emdat_yearly_storms.csv",
	DecadeSummary:      "emdat_decade_summary.csv",
	SuperTyphoons:      "emdat_super_typhoons.csv",
	EuropeComparison:   "emdat_europe_comparison.csv",
	FrequencyIntensity: "ibtracs_frequency_vs_intensity.csv",
	Mindanao:           "ibtracs_mindanao_storms.csv",
	EraComparison:      "ibtracs_era_comparison.csv",
}

// ErrUnknownDataset is returned when a name is not one of Names.
var ErrUnknownDataset = errors.New("unknown dataset")

// ParseName validates a dataset name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if _, ok := artifactFiles[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
	}
	return n, nil
}

// File is the artifact file name relative to the data directory.
func (n Name) File() string { return artifactFiles[n] }

// Dataset is the outcome of loading one named table. A nil Table is the
// Absent sentinel; Reason then says why.
type Dataset struct {
	Name     Name      `json:"name"`
	Table    *Table    `json:"-"`
	Reason   string    `json:"reason,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Loaded wraps a successfully read table.
func Loaded(name Name, t *Table) Dataset {
	return Dataset{Name: name, Table: t, LoadedAt: clock.Now()}
}

// Absent builds the sentinel for a table that could not be loaded.
func Absent(name Name, reason string) Dataset {
	return Dataset{Name: name, Reason: reason, LoadedAt: clock.Now()}
}

// Present reports whether a table was loaded. A loaded table may have zero rows.
func (d Dataset) Present() bool { return d.Table != nil }

// Snapshot maps every dataset name to its load outcome.
type Snapshot map[Name]Dataset

// Table returns the named table, or false when it is absent.
func (s Snapshot) Table(n Name) (*Table, bool) {
	d, ok := s[n]
	if !ok || !d.Present() {
		return nil, false
	}
	return d.Table, true
}

// Available lists the present datasets in display order.
func (s Snapshot) Available() []Name {
	var out []Name
	for _, n := range Names {
		if _, ok := s.Table(n); ok {
			out = append(out, n)
		}
	}
	return out
}
