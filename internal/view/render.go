package view

import (
	"fmt"
	"math"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/montanaflynn/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const footer = "The Supercharged Archipelago | Data: EM-DAT, IBTrACS | Vennel Chenfoo"

// Chart palette.
const (
	steelBlue = "#4682b4"
	fireBrick = "#b22222"
	darkBlue  = "#00008b"
	darkRed   = "#8b0000"
)

type renderFunc func(Intent, domain.Snapshot) Page

// renderers is the intent dispatch table.
var renderers = map[Section]renderFunc{
	Overview:   renderOverview,
	Paradox:    renderParadox,
	Mindanao:   renderMindanao,
	Spotlight:  renderSpotlight,
	Comparison: renderComparison,
	Explorer:   renderExplorer,
}

// Render produces the page for an intent from already-loaded tables.
// It never fails: absent or empty tables render as notices.
func Render(in Intent, snap domain.Snapshot) Page {
	if in.Decade == "" {
		in.Decade = domain.AllDecades
	}
	r, ok := renderers[in.Section]
	if !ok {
		in.Section = Overview
		r = renderOverview
	}
	p := r(in, snap)
	p.Intent = in
	p.Footer = footer
	return p
}

var printer = message.NewPrinter(language.English)

// thousands formats a whole number with comma grouping, e.g. 12,345.
func thousands(v float64) string {
	return printer.Sprintf("%d", int64(v))
}

func sum(values []float64) float64 {
	s, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return s
}

func missingNotice(snap domain.Snapshot, n domain.Name) Notice {
	reason := "not loaded"
	if d, ok := snap[n]; ok && d.Reason != "" {
		reason = d.Reason
	}
	return Notice{Level: LevelWarning, Text: fmt.Sprintf("No data: %s (%s) is unavailable: %s.", n, n.File(), reason)}
}

func emptyNotice(text string) Notice {
	return Notice{Level: LevelEmpty, Text: text}
}

// column returns col for every row, with missing cells as zero, so series
// stay aligned with their categories.
func column(t *domain.Table, col string) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i], _ = t.Float(i, col)
	}
	return out
}

// labels returns col as category labels. Whole numbers drop the ".0" that
// float-typed year columns carry.
func labels(t *domain.Table, col string) []string {
	out := make([]string, t.Len())
	for i := range out {
		if v, ok := t.Float(i, col); ok && v == math.Trunc(v) {
			out[i] = fmt.Sprintf("%d", int64(v))
			continue
		}
		out[i], _ = t.String(i, col)
	}
	return out
}

// colorScale maps each value onto a steelblue→firebrick gradient.
func colorScale(values []float64) []string {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	from := [3]float64{0x46, 0x82, 0xb4}
	to := [3]float64{0xb2, 0x22, 0x22}

	out := make([]string, len(values))
	for i, v := range values {
		f := 0.0
		if hi > lo {
			f = (v - lo) / (hi - lo)
		}
		var c [3]int
		for k := range c {
			c[k] = int(math.Round(from[k] + (to[k]-from[k])*f))
		}
		out[i] = fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	}
	return out
}
