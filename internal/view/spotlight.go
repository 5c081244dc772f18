package view

import (
	"fmt"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

const topStorms = 5

func renderSpotlight(in Intent, snap domain.Snapshot) Page {
	p := Page{Title: "Storm Spotlight"}

	df, ok := snap.Table(domain.SuperTyphoons)
	if !ok {
		p.add(Block{Notices: []Notice{missingNotice(snap, domain.SuperTyphoons)}})
		return p
	}
	if df.Len() == 0 {
		p.add(Block{Notices: []Notice{emptyNotice("No super typhoons to spotlight.")}})
		return p
	}

	names := make([]string, df.Len())
	for i := range names {
		names[i], _ = df.String(i, "storm_name")
	}

	row, selected := 0, names[0]
	var notices []Notice
	if in.Storm != "" {
		found := false
		for i, n := range names {
			if n == in.Storm {
				row, selected, found = i, n, true
				break
			}
		}
		if !found {
			notices = append(notices, Notice{
				Level: LevelWarning,
				Text:  fmt.Sprintf("Storm %q not found; showing %s.", in.Storm, selected),
			})
		}
	}

	p.add(Block{
		Selector: &Selector{Param: "storm", Label: "Select Storm", Options: names, Selected: selected},
		Notices:  notices,
		Detail:   stormDetail(df, row),
	})

	side := Block{}
	if notable, ok := df.String(row, "notable"); ok {
		side.Notices = []Notice{{Level: LevelInfo, Text: "Notable: " + notable}}
	}
	top := df.Pick(domain.TopN(df, "peak_winds_kmh", topStorms))
	if top.Len() > 0 {
		winds := column(top, "peak_winds_kmh")
		side.Charts = []Chart{{
			ID:         "top-winds",
			Title:      "Top 5 by Wind Speed",
			Categories: labels(top, "storm_name"),
			Series:     []Series{{Name: "peak_winds_kmh", Kind: Bars, Values: winds, Colors: colorScale(winds)}},
			YTitle:     "km/h",
			Height:     300,
		}}
	}
	p.add(side)
	return p
}

func stormDetail(df *domain.Table, row int) *Detail {
	name, _ := df.String(row, "storm_name")
	d := &Detail{Heading: name}
	if y, ok := df.Int(row, "year"); ok {
		d.Facts = append(d.Facts, Fact{Label: "Year", Value: fmt.Sprintf("%d", y)})
	}
	if c, ok := df.String(row, "category"); ok {
		d.Facts = append(d.Facts, Fact{Label: "Category", Value: c})
	}
	if w, ok := df.Int(row, "peak_winds_kmh"); ok {
		d.Metrics = append(d.Metrics, Metric{Label: "Peak Winds", Value: fmt.Sprintf("%d km/h", w)})
	}
	if df.Has("deaths") {
		if v, ok := df.Float(row, "deaths"); ok {
			d.Metrics = append(d.Metrics, Metric{Label: "Deaths", Value: thousands(v)})
		}
	}
	return d
}
