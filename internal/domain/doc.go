// Package domain models the pre-aggregated Philippine typhoon tables behind
// the dashboard.
//
// # Data Sources
//
// Every table is produced upstream by a data-preparation pipeline and written
// as a comma-separated file under a single base directory (default
// "data/processed"). Two sources feed them:
//
//	EM-DAT   (emdat_*.csv)    disaster impact records: deaths, affected, damage
//	IBTrACS  (ibtracs_*.csv)  best-track storm records: counts, winds, intensity
//
// The dashboard never computes statistics from raw records. It reads the
// eight tables below and maps them to metrics, charts and tables.
//
//	kpi                  emdat_kpi_data.csv                   per-storm impact rows
//	yearly_storms        emdat_yearly_storms.csv              per-year aggregate
//	decade_summary       emdat_decade_summary.csv             per-decade aggregate
//	super_typhoons       emdat_super_typhoons.csv             named severe storms
//	europe_comparison    emdat_europe_comparison.csv          cross-region events
//	frequency_intensity  ibtracs_frequency_vs_intensity.csv   per-year trend data
//	mindanao             ibtracs_mindanao_storms.csv          storms striking Mindanao
//	era_comparison       ibtracs_era_comparison.csv           early vs late era
//
// # Conventions
//
// Decades are labelled "<start year>s", e.g. 1987 → "1980s". The decade
// filter matches the "decade" column exactly and leaves tables without one
// untouched.
//
// Eras are fixed calendar spans: early 1980–2009 (30 years) and late
// 2010–2024 (15 years). Era rates divide by these spans, never by the spread of
// years present in the data.
//
// Empty cells and the pandas NA spellings ("NaN", "nan", "NA", "N/A", "null",
// "None") are missing values. Numeric accessors report them as absent; sums
// skip them.
//
// # Absence
//
// A table that could not be loaded is represented by a [Dataset] whose Table
// is nil, the Absent sentinel. It is distinct from a loaded table with zero
// rows. Tables that violate their [Contract] are treated the same as missing
// files.
package domain
