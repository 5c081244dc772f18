// Package chart renders view charts as SVG with go-chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/typhoon-dashboard/internal/view"
)

// ContentType is the media type written by Render.
const ContentType = "image/svg+xml"

const (
	defaultWidth  = 800
	defaultHeight = 350
	barHalfWidth  = 0.35
)

// ErrEmpty is returned for charts with no categories or series.
var ErrEmpty = errors.New("chart has no data")

// Render writes c as SVG. A single bar series becomes a bar chart with one
// color per bar; anything else becomes a combo chart over indexed categories.
func Render(w io.Writer, c view.Chart) error {
	if len(c.Categories) == 0 || len(c.Series) == 0 {
		return fmt.Errorf("render %s: %w", c.ID, ErrEmpty)
	}
	var err error
	if len(c.Series) == 1 && c.Series[0].Kind == view.Bars {
		bc := barChart(c)
		err = bc.Render(gochart.SVG, w)
	} else {
		ch := comboChart(c)
		err = ch.Render(gochart.SVG, w)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", c.ID, err)
	}
	return nil
}

func barChart(c view.Chart) gochart.BarChart {
	s := c.Series[0]
	bars := make([]gochart.Value, len(c.Categories))
	for i, label := range c.Categories {
		col := color(s.Color)
		if i < len(s.Colors) {
			col = color(s.Colors[i])
		}
		bars[i] = gochart.Value{
			Label: label,
			Value: valueAt(s.Values, i),
			Style: gochart.Style{FillColor: col, StrokeColor: col},
		}
	}
	return gochart.BarChart{
		Title:    c.Title,
		Width:    defaultWidth,
		Height:   height(c),
		BarWidth: barWidth(len(bars)),
		YAxis:    gochart.YAxis{Range: valueRange(s.Values, true)},
		Bars:     bars,
	}
}

func comboChart(c view.Chart) gochart.Chart {
	n := len(c.Categories)
	// Ticks fix the x range, so unlabelled edge ticks keep the outer bars
	// inside the canvas and a single category still spans a non-zero range.
	ticks := make([]gochart.Tick, 0, n+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i, label := range c.Categories {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(n) - 0.5})

	var primary, secondary []float64
	primaryBars := false

	series := make([]gochart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		cs := gochart.ContinuousSeries{Name: s.Name}
		col := color(s.Color)
		if s.Kind == view.Bars {
			cs.XValues, cs.YValues = barOutline(s.Values, n)
			cs.Style = gochart.Style{StrokeColor: col, FillColor: col.WithAlpha(200), StrokeWidth: 1}
		} else {
			cs.XValues = make([]float64, n)
			cs.YValues = make([]float64, n)
			for i := range n {
				cs.XValues[i] = float64(i)
				cs.YValues[i] = valueAt(s.Values, i)
			}
			cs.Style = gochart.Style{StrokeColor: col, StrokeWidth: 2}
			if s.Dashed {
				cs.Style.StrokeDashArray = []float64{6, 4}
			}
		}
		if s.Secondary {
			cs.YAxis = gochart.YAxisSecondary
			secondary = append(secondary, cs.YValues...)
		} else {
			primary = append(primary, cs.YValues...)
			primaryBars = primaryBars || s.Kind == view.Bars
		}
		series = append(series, cs)
	}

	ch := gochart.Chart{
		Title:  c.Title,
		Width:  defaultWidth,
		Height: height(c),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  gochart.XAxis{Ticks: ticks},
		YAxis:  gochart.YAxis{Name: c.YTitle, Range: valueRange(primary, primaryBars)},
		Series: series,
	}
	if len(secondary) > 0 {
		ch.YAxisSecondary = gochart.YAxis{Name: c.Y2Title, Range: valueRange(secondary, false)}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch
}

// barOutline traces every bar as a rectangle on the zero baseline so a
// single filled line series draws the whole bar group.
func barOutline(values []float64, n int) (xs, ys []float64) {
	xs = make([]float64, 0, 4*n)
	ys = make([]float64, 0, 4*n)
	for i := range n {
		x, v := float64(i), valueAt(values, i)
		xs = append(xs, x-barHalfWidth, x-barHalfWidth, x+barHalfWidth, x+barHalfWidth)
		ys = append(ys, 0, v, v, 0)
	}
	return xs, ys
}

// valueRange spans values, from zero when bars are drawn. Constant or empty
// data is padded so the range never collapses to a single point.
func valueRange(values []float64, fromZero bool) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for i, v := range values {
		if i == 0 && !fromZero {
			lo, hi = v, v
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		if fromZero {
			hi = lo + 1
		} else {
			lo, hi = lo-1, hi+1
		}
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func height(c view.Chart) int {
	if c.Height > 0 {
		return c.Height
	}
	return defaultHeight
}

func barWidth(n int) int {
	return max(12, min(80, defaultWidth/(2*n)))
}

func color(hex string) drawing.Color {
	if hex == "" {
		return gochart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
