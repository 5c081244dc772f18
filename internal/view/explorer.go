package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

// Export formats offered by the Data Explorer.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentTypes maps an export format to its media type.
var ContentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func renderExplorer(in Intent, snap domain.Snapshot) Page {
	p := Page{Title: "Data Explorer"}

	available := snap.Available()
	if len(available) == 0 {
		p.add(Block{Notices: []Notice{{Level: LevelWarning, Text: "No data files found. Run the preparation notebooks first."}}})
		return p
	}

	selected := available[0]
	for _, n := range available {
		if n == in.Dataset {
			selected = n
		}
	}
	options := make([]string, len(available))
	for i, n := range available {
		options[i] = string(n)
	}

	var notices []Notice
	if in.Dataset != "" && in.Dataset != selected {
		notices = append(notices, missingNotice(snap, in.Dataset))
	}
	for _, n := range domain.Names {
		if d, ok := snap[n]; ok && !d.Present() {
			notices = append(notices, Notice{Level: LevelInfo, Text: fmt.Sprintf("%s unavailable: %s", n, d.Reason)})
		}
	}

	t, _ := snap.Table(selected)
	p.add(Block{
		Selector: &Selector{Param: "dataset", Label: "Select Dataset", Options: options, Selected: string(selected)},
		Notices:  notices,
		Metrics: []Metric{
			{Label: "Rows", Value: strconv.Itoa(t.Len())},
			{Label: "Columns", Value: strconv.Itoa(len(t.Columns()))},
		},
		Table:     tableOf(t, t.Columns()...),
		Downloads: []Download{download(selected, FormatCSV), download(selected, FormatXLSX)},
	})
	return p
}

func download(n domain.Name, format string) Download {
	filename := fmt.Sprintf("%s.%s", n, format)
	return Download{
		Label:       "Download " + strings.ToUpper(format),
		Format:      format,
		Filename:    filename,
		ContentType: ContentTypes[format],
		Path:        "/export/" + filename,
	}
}
