// Package view turns loaded tables into dashboard pages. Every renderer is a
// pure function of the user's Intent and a dataset Snapshot.
package view

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

// Section is one of the six mutually exclusive dashboard views.
type Section string

const (
	Overview   Section = "overview"
	Paradox    Section = "paradox"
	Mindanao   Section = "mindanao"
	Spotlight  Section = "spotlight"
	Comparison Section = "comparison"
	Explorer   Section = "data"
)

// Sections lists the views in navigation order.
var Sections = []Section{Overview, Paradox, Mindanao, Spotlight, Comparison, Explorer}

var sectionLabels = map[Section]string{
	Overview:   "Overview",
	Paradox:    "The Paradox",
	Mindanao:   "Mindanao",
	Spotlight:  "Spotlight",
	Comparison: "Comparison",
	Explorer:   "Data",
}

// ErrUnknownSection is returned for section names outside Sections.
var ErrUnknownSection = errors.New("unknown section")

// ParseSection validates a section name. The empty string means Overview.
func ParseSection(s string) (Section, error) {
	if s == "" {
		return Overview, nil
	}
	sec := Section(s)
	if _, ok := sectionLabels[sec]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return sec, nil
}

// Label is the navigation label.
func (s Section) Label() string { return sectionLabels[s] }

// Intent is the complete user state behind one render: which section is
// shown, the decade filter, and the per-view selections.
type Intent struct {
	Section Section       `json:"section"`
	Decade  domain.Decade `json:"decade"`
	Storm   string        `json:"storm,omitempty"`
	Dataset domain.Name   `json:"dataset,omitempty"`
}

// ParseIntent validates raw user input. Empty values take their defaults.
func ParseIntent(section, decade, storm, dataset string) (Intent, error) {
	sec, err := ParseSection(section)
	if err != nil {
		return Intent{}, err
	}
	d, err := domain.ParseDecade(decade)
	if err != nil {
		return Intent{}, err
	}
	in := Intent{Section: sec, Decade: d, Storm: storm}
	if dataset != "" {
		n, err := domain.ParseName(dataset)
		if err != nil {
			return Intent{}, err
		}
		in.Dataset = n
	}
	return in, nil
}

// Query encodes the non-default selections as URL query parameters.
func (in Intent) Query() url.Values {
	q := url.Values{}
	if in.Decade != "" && in.Decade != domain.AllDecades {
		q.Set("decade", string(in.Decade))
	}
	if in.Storm != "" {
		q.Set("storm", in.Storm)
	}
	if in.Dataset != "" {
		q.Set("dataset", string(in.Dataset))
	}
	return q
}

// NoticeLevel classifies a callout.
type NoticeLevel string

const (
	LevelInfo    NoticeLevel = "info"
	LevelWarning NoticeLevel = "warning"
	LevelEmpty   NoticeLevel = "empty"
)

// Notice is a callout: an insight, a degraded-mode warning, or an empty state.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// Metric is a headline number with an optional delta line.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// SeriesKind selects how a series is drawn.
type SeriesKind string

const (
	Bars SeriesKind = "bar"
	Line SeriesKind = "line"
)

// Series is one trace of a chart, aligned with the chart's categories.
type Series struct {
	Name   string     `json:"name"`
	Kind   SeriesKind `json:"kind"`
	Values []float64  `json:"values"`
	Color  string     `json:"color,omitempty"`
	// Colors overrides Color per bar.
	Colors    []string `json:"colors,omitempty"`
	Dashed    bool     `json:"dashed,omitempty"`
	Secondary bool     `json:"secondary,omitempty"`
}

// Chart is a declarative chart over a shared categorical x axis.
type Chart struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
	YTitle     string   `json:"y_title,omitempty"`
	Y2Title    string   `json:"y2_title,omitempty"`
	Height     int      `json:"height"`
	// Legend maps a color to its meaning when bars are colored by category.
	Legend map[string]string `json:"legend,omitempty"`
}

// Table is a rendered table.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Fact is a labelled detail line.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Detail is the focus panel of a single record.
type Detail struct {
	Heading string   `json:"heading"`
	Facts   []Fact   `json:"facts,omitempty"`
	Metrics []Metric `json:"metrics,omitempty"`
}

// Selector is a single-choice input bound to a query parameter.
type Selector struct {
	Param    string   `json:"param"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// Download is an exportable rendering of a table.
type Download struct {
	Label       string `json:"label"`
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Path        string `json:"path"`
}

// Block is one vertical region of a page. Several fields may be set; they
// are rendered in declaration order.
type Block struct {
	Heading   string     `json:"heading,omitempty"`
	Selector  *Selector  `json:"selector,omitempty"`
	Notices   []Notice   `json:"notices,omitempty"`
	Metrics   []Metric   `json:"metrics,omitempty"`
	Detail    *Detail    `json:"detail,omitempty"`
	Charts    []Chart    `json:"charts,omitempty"`
	Table     *Table     `json:"table,omitempty"`
	Downloads []Download `json:"downloads,omitempty"`
}

// Page is a fully rendered view.
type Page struct {
	Intent   Intent  `json:"intent"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Blocks   []Block `json:"blocks"`
	Footer   string  `json:"footer"`
}

// Chart finds a chart by id.
func (p Page) Chart(id string) (Chart, bool) {
	for _, b := range p.Blocks {
		for _, c := range b.Charts {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Chart{}, false
}

// Notices collects every notice on the page in order.
func (p Page) Notices() []Notice {
	var out []Notice
	for _, b := range p.Blocks {
		out = append(out, b.Notices...)
	}
	return out
}

// Metrics collects every metric on the page in order, including detail metrics.
func (p Page) Metrics() []Metric {
	var out []Metric
	for _, b := range p.Blocks {
		out = append(out, b.Metrics...)
		if b.Detail != nil {
			out = append(out, b.Detail.Metrics...)
		}
	}
	return out
}

func (p *Page) add(b Block) { p.Blocks = append(p.Blocks, b) }
