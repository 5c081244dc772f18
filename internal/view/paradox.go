package view

import (
	"fmt"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

func renderParadox(_ Intent, snap domain.Snapshot) Page {
	p := Page{Title: "It's Not the Frequency, It's the Ferocity"}

	fi, ok := snap.Table(domain.FrequencyIntensity)
	if !ok {
		p.add(Block{Notices: []Notice{missingNotice(snap, domain.FrequencyIntensity)}})
		return p
	}
	if fi.Len() == 0 {
		p.add(Block{Notices: []Notice{emptyNotice("No yearly trend data available.")}})
	} else {
		years := labels(fi, "year")
		p.add(Block{Charts: []Chart{
			{
				ID:         "storm-count",
				Title:      "Storm Count (Stable)",
				Categories: years,
				Series: []Series{
					{Name: "storm_count", Kind: Bars, Values: column(fi, "storm_count"), Color: steelBlue},
					{Name: "Trend", Kind: Line, Values: column(fi, "storm_count_trend"), Color: darkBlue, Dashed: true},
				},
				Height: 350,
			},
			{
				ID:         "intensity",
				Title:      "Avg Intensity per Storm (Increasing)",
				Categories: years,
				Series: []Series{
					{Name: "avg_intensity_per_storm", Kind: Bars, Values: column(fi, "avg_intensity_per_storm"), Color: fireBrick},
					{Name: "Trend", Kind: Line, Values: column(fi, "avg_intensity_trend"), Color: darkRed, Dashed: true},
				},
				Height: 350,
			},
		}})
	}

	era, ok := snap.Table(domain.EraComparison)
	if !ok {
		return p
	}
	block := Block{Heading: "Era Comparison: 1980-2009 vs 2010-2024"}
	if era.Len() < 2 {
		block.Notices = []Notice{emptyNotice("Era comparison needs an early and a late era row.")}
	} else {
		block.Metrics = []Metric{
			eraMetric(era, "Storms/Year", "storms_per_year", "%.1f"),
			eraMetric(era, "Cat 5/Year", "cat5_per_year", "%.2f"),
			eraMetric(era, "Avg Intensity", "avg_intensity_per_storm", "%.3f"),
		}
	}
	p.add(block)
	return p
}

// eraMetric shows the late-era value (row 1) and its percent change from the
// early era (row 0).
func eraMetric(era *domain.Table, label, col, format string) Metric {
	early, okEarly := era.Float(0, col)
	late, okLate := era.Float(1, col)
	m := Metric{Label: label, Value: "n/a", Delta: "n/a"}
	if okLate {
		m.Value = fmt.Sprintf(format, late)
	}
	if okEarly && okLate {
		m.Delta = domain.FormatDelta(domain.PercentDelta(early, late))
	}
	return m
}
