package view

import (
	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

const homeRegion = "Philippines"

func renderComparison(_ Intent, snap domain.Snapshot) Page {
	p := Page{Title: "A Catastrophe in Europe is Annual in the Philippines"}

	df, ok := snap.Table(domain.EuropeComparison)
	if !ok {
		p.add(Block{Notices: []Notice{missingNotice(snap, domain.EuropeComparison)}})
		return p
	}
	if df.Len() == 0 {
		p.add(Block{Notices: []Notice{emptyNotice("No flood events to compare.")}})
		return p
	}

	events := labels(df, "event")
	colors := regionColors(df)
	legend := map[string]string{fireBrick: homeRegion, steelBlue: "Europe"}
	p.add(Block{Charts: []Chart{
		{
			ID:         "rainfall",
			Title:      "Rainfall (mm/24h)",
			Categories: events,
			Series:     []Series{{Name: "rainfall_mm_24h", Kind: Bars, Values: column(df, "rainfall_mm_24h"), Colors: colors}},
			Height:     350,
			Legend:     legend,
		},
		{
			ID:         "gdp",
			Title:      "GDP Impact (%)",
			Categories: events,
			Series:     []Series{{Name: "gdp_percent", Kind: Bars, Values: column(df, "gdp_percent"), Colors: colors}},
			Height:     350,
			Legend:     legend,
		},
	}})
	p.add(Block{Notices: []Notice{{
		Level: LevelInfo,
		Text:  "Key insight: Typhoon Ketsana dropped 3x the rainfall of Germany's 1-in-500-year flood",
	}}})
	return p
}

// regionColors colors the home region firebrick and every other region steelblue.
func regionColors(df *domain.Table) []string {
	out := make([]string, df.Len())
	for i := range out {
		if r, _ := df.String(i, "region"); r == homeRegion {
			out[i] = fireBrick
		} else {
			out[i] = steelBlue
		}
	}
	return out
}
