package view

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

func renderMindanao(_ Intent, snap domain.Snapshot) Page {
	p := Page{Title: "The Vanishing Shield", Subtitle: "How Mindanao Became a Typhoon Alley"}

	df, ok := snap.Table(domain.Mindanao)
	if !ok {
		p.add(Block{Notices: []Notice{missingNotice(snap, domain.Mindanao)}})
		return p
	}

	years := make([]int, 0, df.Len())
	for i := 0; i < df.Len(); i++ {
		if y, ok := df.Int(i, "year"); ok {
			years = append(years, y)
		}
	}
	r := domain.RatesByEra(years)
	p.add(Block{Metrics: []Metric{
		{Label: "Pre-2010 (30 yrs)", Value: fmt.Sprintf("%d storms", r.EarlyCount), Delta: fmt.Sprintf("%.1f/year", r.EarlyRate)},
		{Label: "Post-2010 (15 yrs)", Value: fmt.Sprintf("%d storms", r.LateCount), Delta: fmt.Sprintf("%.1f/year", r.LateRate)},
		{Label: "Change", Value: domain.FormatDelta(r.Change, r.ChangeOK), Delta: "More exposure"},
	}})

	byDecade := Block{}
	if counts := domain.CountByDecade(df, "year"); len(counts) == 0 {
		byDecade.Notices = []Notice{emptyNotice("No Mindanao storms to group by decade.")}
	} else {
		cats := make([]string, len(counts))
		vals := make([]float64, len(counts))
		for i, c := range counts {
			cats[i] = string(c.Decade)
			vals[i] = float64(c.Count)
		}
		byDecade.Charts = []Chart{{
			ID:         "by-decade",
			Title:      "Mindanao Storms by Decade",
			Categories: cats,
			Series:     []Series{{Name: "storms", Kind: Bars, Values: vals, Colors: colorScale(vals)}},
			Height:     350,
		}}
	}
	p.add(byDecade)

	cat5 := Block{Heading: "Category 5 Storms in Mindanao"}
	strongest := df.Where(func(i int) bool {
		c, ok := df.String(i, "category")
		return ok && c == "Cat 5"
	})
	if strongest.Len() == 0 {
		cat5.Notices = []Notice{{Level: LevelEmpty, Text: "No Category 5 storms in filtered data"}}
	} else {
		sorted := strongest.Pick(domain.SortDesc(strongest, "year"))
		cat5.Table = tableOf(sorted, "name", "year", "max_wind_kt")
	}
	p.add(cat5)
	return p
}

// tableOf renders the given columns of t. Contracts guarantee the columns exist.
func tableOf(t *domain.Table, cols ...string) *Table {
	proj, err := t.Select(cols...)
	if err != nil {
		proj = t
	}
	rows := make([][]string, proj.Len())
	for i := range rows {
		rows[i] = slices.Clone(proj.Row(i))
	}
	return &Table{Columns: proj.Columns(), Rows: rows}
}
