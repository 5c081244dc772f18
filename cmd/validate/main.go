// Command validate checks the processed artifacts the dashboard reads: that
// every file is present, satisfies its column contract, holds numeric values
// where numbers are expected, and that the per-decade summary agrees with the
// KPI storm list.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data/processed
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/couchcryptid/typhoon-dashboard/internal/dataset"
	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data/processed", "directory containing the processed CSV artifacts")
	flag.Parse()

	os.Exit(run(*dataDir, os.Stdout))
}

func run(dataDir string, out io.Writer) int {
	fmt.Fprintln(out, "=== Typhoon Artifact Validation ===")
	fmt.Fprintln(out)

	tables, presence := loadArtifacts(dataDir)

	phases := []*phase{
		presence,
		validateContracts(tables),
		validateNumbers(tables),
		validateDecades(tables),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Artifacts: %d of %d present in %s\n", len(tables), len(domain.Names), dataDir)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Presence ──
// Parses every artifact without applying contracts so later phases can
// report each violation.

func loadArtifacts(dir string) (map[domain.Name]*domain.Table, *phase) {
	p := &phase{name: "Phase 1: Artifact Presence"}
	src := dataset.NewFileSource(dir)
	tables := make(map[domain.Name]*domain.Table, len(domain.Names))

	for _, n := range domain.Names {
		f, err := os.Open(src.Path(n))
		if err != nil {
			p.errorf("%s: %v", n.File(), err)
			continue
		}
		t, err := dataset.ParseCSV(f)
		f.Close()
		if err != nil {
			p.errorf("%s: %v", n.File(), err)
			continue
		}
		if t.Len() == 0 {
			p.errorf("%s: no data rows", n.File())
		}
		tables[n] = t
	}
	return tables, p
}

// ── Phase 2: Contracts ──

func validateContracts(tables map[domain.Name]*domain.Table) *phase {
	p := &phase{name: "Phase 2: Column Contracts"}
	for _, n := range domain.Names {
		t, ok := tables[n]
		if !ok {
			continue
		}
		if err := domain.ContractFor(n).Check(t); err != nil {
			p.errorf("%s: %v", n.File(), err)
		}
	}
	return p
}

// ── Phase 3: Numeric values ──

func validateNumbers(tables map[domain.Name]*domain.Table) *phase {
	p := &phase{name: "Phase 3: Numeric Values"}
	for _, n := range domain.Names {
		t, ok := tables[n]
		if !ok {
			continue
		}
		for _, problem := range domain.ContractFor(n).CheckValues(t) {
			p.errorf("%s: %s", n.File(), problem)
		}
	}
	return p
}

// ── Phase 4: Decade consistency ──
// KPI decade labels must match their years, and the decade summary must
// aggregate the KPI rows.

type decadeTotals struct {
	storms   int
	deaths   float64
	affected float64
}

func validateDecades(tables map[domain.Name]*domain.Table) *phase {
	p := &phase{name: "Phase 4: Decade Consistency"}

	kpi, ok := tables[domain.KPI]
	if !ok || !kpi.Has("decade") || !kpi.Has("year") {
		return p
	}

	totals := map[string]*decadeTotals{}
	for i := 0; i < kpi.Len(); i++ {
		year, okYear := kpi.Int(i, "year")
		label, okLabel := kpi.String(i, "decade")
		if !okYear || !okLabel {
			continue
		}
		if want := string(domain.DecadeOf(year)); label != want {
			p.errorf("kpi row %d: year %d labelled %q, want %q", i+1, year, label, want)
		}
		tot := totals[label]
		if tot == nil {
			tot = &decadeTotals{}
			totals[label] = tot
		}
		tot.storms++
		if v, ok := kpi.Float(i, "deaths"); ok {
			tot.deaths += v
		}
		if v, ok := kpi.Float(i, "affected"); ok {
			tot.affected += v
		}
	}

	summary, ok := tables[domain.DecadeSummary]
	if !ok || !summary.Has("decade") {
		return p
	}
	for i := 0; i < summary.Len(); i++ {
		label, _ := summary.String(i, "decade")
		tot := totals[label]
		if tot == nil {
			p.errorf("decade_summary %s: no kpi storms in that decade", label)
			continue
		}
		compare(p, label, "storms", summary, i, float64(tot.storms))
		compare(p, label, "deaths", summary, i, tot.deaths)
		compare(p, label, "affected", summary, i, tot.affected)
	}
	return p
}

func compare(p *phase, label, col string, summary *domain.Table, row int, want float64) {
	if !summary.Has(col) {
		return
	}
	got, ok := summary.Float(row, col)
	if !ok {
		return
	}
	if math.Abs(got-want) > 0.5 {
		p.errorf("decade_summary %s %s: got %.0f, kpi totals %.0f", label, col, got, want)
	}
}
