package view

import (
	"fmt"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

func renderOverview(in Intent, snap domain.Snapshot) Page {
	p := Page{
		Title:    "The Supercharged Archipelago",
		Subtitle: "Philippine Typhoons 1980-2024: A Data-Driven Narrative",
	}

	switch kpi, ok := snap.Table(domain.KPI); {
	case !ok:
		p.add(Block{Notices: []Notice{missingNotice(snap, domain.KPI)}})
	default:
		df := domain.FilterByDecade(kpi, in.Decade)
		if df.Len() == 0 {
			p.add(Block{Notices: []Notice{emptyNotice(fmt.Sprintf("No storms recorded for the %s.", in.Decade))}})
			break
		}
		p.add(Block{Metrics: kpiMetrics(df)})
	}

	trend := Block{Heading: "Frequency vs Intensity Trend"}
	switch fi, ok := snap.Table(domain.FrequencyIntensity); {
	case !ok:
		trend.Notices = []Notice{missingNotice(snap, domain.FrequencyIntensity)}
	case fi.Len() == 0:
		trend.Notices = []Notice{emptyNotice("No yearly trend data available.")}
	default:
		trend.Charts = []Chart{frequencyIntensityChart(fi)}
	}
	p.add(trend)

	p.add(Block{
		Heading: "Key Findings",
		Notices: []Notice{
			{Level: LevelInfo, Text: "The Paradox: Storm frequency is STABLE, but intensity is INCREASING"},
			{Level: LevelWarning, Text: "Vanishing Shield: Mindanao now faces regular super typhoon strikes"},
		},
	})
	return p
}

func kpiMetrics(df *domain.Table) []Metric {
	return []Metric{
		{Label: "Storms", Value: thousands(float64(df.Len()))},
		{Label: "Deaths", Value: thousands(sum(df.Floats("deaths")))},
		{Label: "Displaced", Value: fmt.Sprintf("%.2fM", sum(df.Floats("affected"))/1e6)},
		{Label: "Damage", Value: fmt.Sprintf("$%.1fB", sum(df.Floats("damage_usd"))/1e9)},
	}
}

func frequencyIntensityChart(fi *domain.Table) Chart {
	return Chart{
		ID:         "frequency-intensity",
		Title:      "Frequency vs Intensity Trend",
		Categories: labels(fi, "year"),
		Series: []Series{
			{Name: "Storms", Kind: Bars, Values: column(fi, "storm_count"), Color: steelBlue},
			{Name: "Avg Intensity", Kind: Line, Values: column(fi, "avg_intensity_per_storm"), Color: fireBrick, Secondary: true},
			{Name: "Intensity Trend", Kind: Line, Values: column(fi, "avg_intensity_trend"), Color: darkRed, Dashed: true, Secondary: true},
		},
		YTitle:  "Storm Count",
		Y2Title: "Intensity",
		Height:  400,
	}
}
