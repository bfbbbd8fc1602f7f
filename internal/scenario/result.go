package scenario

import (
	"github.com/oklog/ulid/v2"

	"github.com/vitrify/igucycle/internal/flow"
	"github.com/vitrify/igucycle/internal/geometry"
	"github.com/vitrify/igucycle/internal/stage"
)

// StageResult pairs one audit entry with the flow state it produced.
type StageResult struct {
	Entry    stage.Entry
	Snapshot flow.State
}

// Result is the immutable outcome of one pathway run. It is created fresh
// per run and never mutated afterwards; reporting and rendering layers
// consume it read-only.
type Result struct {
	RunID   string
	Pathway Pathway
	Group   string

	Stages []StageResult
	Totals flow.Emissions

	InitialMassKg float64
	FinalMassKg   float64
	WasteMassKg   float64
	InitialAreaM2 float64
	FinalAreaM2   float64
	InitialUnits  float64
	FinalUnits    float64
}

// newResult assembles a Result from the executor's bookkeeping.
func newResult(
	p Pathway,
	group string,
	stages []StageResult,
	initialMass float64,
	breakdown geometry.Breakdown,
	final flow.State,
) *Result {
	return &Result{
		RunID:         ulid.Make().String(),
		Pathway:       p,
		Group:         group,
		Stages:        stages,
		Totals:        final.Emitted,
		InitialMassKg: initialMass,
		FinalMassKg:   final.TotalKg(),
		WasteMassKg:   final.Waste.Total(),
		InitialAreaM2: breakdown.AreaM2,
		FinalAreaM2:   final.AreaM2,
		InitialUnits:  float64(breakdown.Units),
		FinalUnits:    final.Units,
	}
}

// TotalKgCO2e returns the grand total across emission categories.
func (r *Result) TotalKgCO2e() float64 { return r.Totals.Total() }

// MassAccountedKg returns retained plus waste mass. For a valid run it
// equals InitialMassKg.
func (r *Result) MassAccountedKg() float64 { return r.FinalMassKg + r.WasteMassKg }

// YieldPercent returns the retained area as a percentage of the input area.
func (r *Result) YieldPercent() float64 {
	if r.InitialAreaM2 <= 0 {
		return 0
	}
	return r.FinalAreaM2 / r.InitialAreaM2 * 100.0
}

// IntensityKgCO2ePerM2 returns emissions per m² of recovered output, the
// comparison metric across pathways. Zero when nothing is recovered.
func (r *Result) IntensityKgCO2ePerM2() float64 {
	if r.FinalAreaM2 <= 0 {
		return 0
	}
	return r.TotalKgCO2e() / r.FinalAreaM2
}

// StageEmission returns the summed emissions of all audit entries with the
// given stage label. Reports use it to populate per-stage columns.
func (r *Result) StageEmission(label string) float64 {
	var sum float64
	for _, s := range r.Stages {
		if s.Entry.Stage == label {
			sum += s.Entry.EmissionKgCO2e
		}
	}
	return sum
}

// StageLabels returns the distinct stage labels in first-occurrence order.
func (r *Result) StageLabels() []string {
	seen := make(map[string]bool, len(r.Stages))
	var labels []string
	for _, s := range r.Stages {
		if !seen[s.Entry.Stage] {
			seen[s.Entry.Stage] = true
			labels = append(labels, s.Entry.Stage)
		}
	}
	return labels
}
