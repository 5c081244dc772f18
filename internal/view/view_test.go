package view

import (
	"context"
	"testing"

	"github.com/couchcryptid/typhoon-dashboard/internal/dataset"
	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtures loads every artifact under the dataset package's testdata.
func fixtures(t *testing.T) domain.Snapshot {
	t.Helper()
	src := dataset.NewFileSource("../dataset/testdata/processed")
	snap := domain.Snapshot{}
	for _, n := range domain.Names {
		d, err := src.Load(context.Background(), n)
		require.NoError(t, err, n)
		snap[n] = d
	}
	return snap
}

func without(snap domain.Snapshot, names ...domain.Name) domain.Snapshot {
	out := domain.Snapshot{}
	for k, v := range snap {
		out[k] = v
	}
	for _, n := range names {
		out[n] = domain.Absent(n, "not found")
	}
	return out
}

func metricValues(p Page) map[string]string {
	out := map[string]string{}
	for _, m := range p.Metrics() {
		out[m.Label] = m.Value
	}
	return out
}

func hasLevel(p Page, level NoticeLevel) bool {
	for _, n := range p.Notices() {
		if n.Level == level {
			return true
		}
	}
	return false
}

func TestParseIntent(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		in, err := ParseIntent("", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, Intent{Section: Overview, Decade: domain.AllDecades}, in)
		assert.Empty(t, in.Query())
	})

	t.Run("full", func(t *testing.T) {
		in, err := ParseIntent("data", "1990s", "", "mindanao")
		require.NoError(t, err)
		assert.Equal(t, Explorer, in.Section)
		assert.Equal(t, "dataset=mindanao&decade=1990s", in.Query().Encode())
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := ParseIntent("weather", "", "", "")
		require.ErrorIs(t, err, ErrUnknownSection)
	})

	t.Run("unknown decade", func(t *testing.T) {
		_, err := ParseIntent("", "1970s", "", "")
		require.ErrorIs(t, err, domain.ErrUnknownDecade)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		_, err := ParseIntent("data", "", "", "rainfall")
		require.ErrorIs(t, err, domain.ErrUnknownDataset)
	})
}

func TestRender_EverySectionHasTitleAndFooter(t *testing.T) {
	snap := fixtures(t)
	for _, sec := range Sections {
		t.Run(string(sec), func(t *testing.T) {
			p := Render(Intent{Section: sec}, snap)
			assert.NotEmpty(t, p.Title)
			assert.Equal(t, footer, p.Footer)
			assert.Equal(t, domain.AllDecades, p.Intent.Decade)
		})
	}
}

func TestRender_EverySectionSurvivesAnEmptySnapshot(t *testing.T) {
	for _, sec := range Sections {
		t.Run(string(sec), func(t *testing.T) {
			p := Render(Intent{Section: sec}, domain.Snapshot{})
			assert.NotEmpty(t, p.Notices())
		})
	}
}

func TestOverview(t *testing.T) {
	snap := fixtures(t)

	t.Run("all decades", func(t *testing.T) {
		p := Render(Intent{Section: Overview}, snap)
		want := map[string]string{
			"Storms":    "9",
			"Deaths":    "18,946",
			"Displaced": "48.83M",
			"Damage":    "$13.7B",
		}
		if diff := cmp.Diff(want, metricValues(p)); diff != "" {
			t.Errorf("metrics mismatch (-want +got):\n%s", diff)
		}
		c, ok := p.Chart("frequency-intensity")
		require.True(t, ok)
		assert.Equal(t, []string{"2019", "2020", "2021", "2022", "2023"}, c.Categories)
		require.Len(t, c.Series, 3)
		assert.True(t, c.Series[2].Dashed)
		assert.True(t, c.Series[2].Secondary)
	})

	t.Run("decade filter", func(t *testing.T) {
		p := Render(Intent{Section: Overview, Decade: "1990s"}, snap)
		assert.Equal(t, "2", metricValues(p)["Storms"])
		assert.Equal(t, "6,037", metricValues(p)["Deaths"])
		assert.Equal(t, "5.30M", metricValues(p)["Displaced"])
	})

	t.Run("empty after filtering", func(t *testing.T) {
		only80s := domain.Snapshot{domain.KPI: domain.Loaded(domain.KPI, domain.MustTable(
			[]string{"storm_name", "year", "decade", "deaths", "affected", "damage_usd"},
			[]string{"Ike", "1984", "1980s", "1426", "1856000", "111000000"},
		))}
		p := Render(Intent{Section: Overview, Decade: "2020s"}, only80s)
		assert.Empty(t, metricValues(p))
		assert.True(t, hasLevel(p, LevelEmpty))
	})

	t.Run("missing kpi", func(t *testing.T) {
		p := Render(Intent{Section: Overview}, without(snap, domain.KPI))
		assert.Empty(t, metricValues(p))
		require.True(t, hasLevel(p, LevelWarning))
		assert.Contains(t, p.Notices()[0].Text, "emdat_kpi_data.csv")
		_, ok := p.Chart("frequency-intensity")
		assert.True(t, ok, "trend chart does not depend on kpi")
	})
}

func TestParadox(t *testing.T) {
	p := Render(Intent{Section: Paradox}, fixtures(t))

	_, ok := p.Chart("storm-count")
	assert.True(t, ok)
	_, ok = p.Chart("intensity")
	assert.True(t, ok)

	want := []Metric{
		{Label: "Storms/Year", Value: "2.5", Delta: "+25.0%"},
		{Label: "Cat 5/Year", Value: "0.60", Delta: "+50.0%"},
		{Label: "Avg Intensity", Value: "1.500", Delta: "+20.0%"},
	}
	if diff := cmp.Diff(want, p.Metrics()); diff != "" {
		t.Errorf("era metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestParadox_ZeroEarlyEra(t *testing.T) {
	era := domain.MustTable(
		[]string{"era", "storms_per_year", "cat5_per_year", "avg_intensity_per_storm"},
		[]string{"1980-2009", "2.0", "0", "1.25"},
		[]string{"2010-2024", "2.5", "0.6", "1.5"},
	)
	snap := domain.Snapshot{domain.EraComparison: domain.Loaded(domain.EraComparison, era)}
	p := Render(Intent{Section: Paradox}, snap)

	got := map[string]string{}
	for _, m := range p.Metrics() {
		got[m.Label] = m.Delta
	}
	assert.Equal(t, "n/a", got["Cat 5/Year"])
	assert.Equal(t, "+25.0%", got["Storms/Year"])
}

func TestMindanao(t *testing.T) {
	p := Render(Intent{Section: Mindanao}, fixtures(t))

	want := []Metric{
		{Label: "Pre-2010 (30 yrs)", Value: "2 storms", Delta: "0.1/year"},
		{Label: "Post-2010 (15 yrs)", Value: "5 storms", Delta: "0.3/year"},
		{Label: "Change", Value: "+400.0%", Delta: "More exposure"},
	}
	if diff := cmp.Diff(want, p.Metrics()); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}

	c, ok := p.Chart("by-decade")
	require.True(t, ok)
	assert.Equal(t, []string{"1990s", "2010s", "2020s"}, c.Categories)
	assert.Equal(t, []float64{2, 4, 1}, c.Series[0].Values)
	assert.Equal(t, []string{"#6a6283", "#b22222", "#4682b4"}, c.Series[0].Colors)

	var table *Table
	for _, b := range p.Blocks {
		if b.Table != nil {
			table = b.Table
		}
	}
	require.NotNil(t, table)
	assert.Equal(t, []string{"name", "year", "max_wind_kt"}, table.Columns)
	assert.Equal(t, [][]string{{"RAI", "2021", "140"}, {"BOPHA", "2012", "150"}}, table.Rows)
}

func TestMindanao_NoCategoryFive(t *testing.T) {
	df := domain.MustTable([]string{"year", "category", "max_wind_kt", "name"},
		[]string{"1998", "Cat 1", "70", "BABS"},
	)
	p := Render(Intent{Section: Mindanao}, domain.Snapshot{domain.Mindanao: domain.Loaded(domain.Mindanao, df)})

	var texts []string
	for _, n := range p.Notices() {
		texts = append(texts, n.Text)
	}
	assert.Contains(t, texts, "No Category 5 storms in filtered data")
}

func TestSpotlight(t *testing.T) {
	snap := fixtures(t)

	t.Run("default selection", func(t *testing.T) {
		p := Render(Intent{Section: Spotlight}, snap)
		require.NotNil(t, p.Blocks[0].Selector)
		assert.Equal(t, "Haiyan (Yolanda)", p.Blocks[0].Selector.Selected)
		assert.Len(t, p.Blocks[0].Selector.Options, 5)
		assert.Equal(t, map[string]string{"Peak Winds": "315 km/h", "Deaths": "6,293"}, metricValues(p))

		c, ok := p.Chart("top-winds")
		require.True(t, ok)
		assert.Equal(t, []string{"Haiyan (Yolanda)", "Goni (Rolly)", "Mangkhut (Ompong)", "Bopha (Pablo)", "Rai (Odette)"}, c.Categories)
		assert.Equal(t, fireBrick, c.Series[0].Colors[0])
		assert.Equal(t, steelBlue, c.Series[0].Colors[4])
	})

	t.Run("storm without deaths", func(t *testing.T) {
		p := Render(Intent{Section: Spotlight, Storm: "Mangkhut (Ompong)"}, snap)
		assert.Equal(t, map[string]string{"Peak Winds": "285 km/h"}, metricValues(p))
		assert.Contains(t, p.Notices(), Notice{Level: LevelInfo, Text: "Notable: Devastated northern Luzon"})
	})

	t.Run("unknown storm falls back", func(t *testing.T) {
		p := Render(Intent{Section: Spotlight, Storm: "Yolanda II"}, snap)
		assert.Equal(t, "Haiyan (Yolanda)", p.Blocks[0].Selector.Selected)
		assert.True(t, hasLevel(p, LevelWarning))
	})
}

func TestComparison(t *testing.T) {
	p := Render(Intent{Section: Comparison}, fixtures(t))

	for _, id := range []string{"rainfall", "gdp"} {
		c, ok := p.Chart(id)
		require.True(t, ok, id)
		assert.Equal(t, []string{steelBlue, steelBlue, fireBrick, fireBrick}, c.Series[0].Colors)
	}
	rain, _ := p.Chart("rainfall")
	assert.Equal(t, []float64{162, 353, 455, 280}, rain.Series[0].Values)
}

func TestExplorer(t *testing.T) {
	snap := fixtures(t)

	t.Run("selected dataset", func(t *testing.T) {
		p := Render(Intent{Section: Explorer, Dataset: domain.EraComparison}, snap)
		b := p.Blocks[0]
		require.NotNil(t, b.Selector)
		assert.Equal(t, "era_comparison", b.Selector.Selected)
		assert.Len(t, b.Selector.Options, len(domain.Names))
		assert.Equal(t, map[string]string{"Rows": "2", "Columns": "4"}, metricValues(p))
		require.Len(t, b.Downloads, 2)
		assert.Equal(t, "/export/era_comparison.csv", b.Downloads[0].Path)
		assert.Equal(t, "text/csv", b.Downloads[0].ContentType)
		assert.Equal(t, "era_comparison.xlsx", b.Downloads[1].Filename)
	})

	t.Run("unfiltered by decade", func(t *testing.T) {
		p := Render(Intent{Section: Explorer, Decade: "1990s", Dataset: domain.KPI}, snap)
		assert.Equal(t, "9", metricValues(p)["Rows"])
	})

	t.Run("absent selection falls back", func(t *testing.T) {
		p := Render(Intent{Section: Explorer, Dataset: domain.KPI}, without(snap, domain.KPI))
		assert.Equal(t, "yearly_storms", p.Blocks[0].Selector.Selected)
		assert.True(t, hasLevel(p, LevelWarning))
	})

	t.Run("nothing available", func(t *testing.T) {
		p := Render(Intent{Section: Explorer}, without(snap, domain.Names...))
		assert.Equal(t, []Notice{{Level: LevelWarning, Text: "No data files found. Run the preparation notebooks first."}}, p.Notices())
	})
}

func TestColorScale(t *testing.T) {
	assert.Nil(t, colorScale(nil))
	assert.Equal(t, []string{steelBlue, steelBlue}, colorScale([]float64{3, 3}))
	assert.Equal(t, []string{steelBlue, fireBrick}, colorScale([]float64{1, 9}))
}
