// Package report serializes batch results into CSV and JSON.
//
// The CSV shape is one row per (product × pathway) with fixed summary
// columns followed by the union of per-stage emission columns, prefixed
// "[Stage] " and zero-filled where a pathway lacks the stage. Failed rows
// appear with their error message so a batch report is always complete.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vitrify/igucycle/internal/batch"
	"github.com/vitrify/igucycle/internal/scenario"
)

// decimals is the rounding applied to numeric report cells.
const decimals = 3

// stageColumnPrefix marks per-stage emission columns.
const stageColumnPrefix = "[Stage] "

// baseHeader is the fixed column set preceding stage columns.
var baseHeader = []string{
	"row",
	"product",
	"pathway",
	"total_kgco2e",
	"process_kgco2e",
	"transport_kgco2e",
	"embodied_new_kgco2e",
	"yield_percent",
	"final_mass_kg",
	"intensity_kgco2e_per_m2",
	"error",
}

// WriteCSV renders batch results as CSV in input row order.
func WriteCSV(w io.Writer, rows []batch.RowResult) error {
	stages := collectStageLabels(rows)

	header := make([]string, 0, len(baseHeader)+len(stages))
	header = append(header, baseHeader...)
	for _, s := range stages {
		header = append(header, stageColumnPrefix+s)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, row := range rows {
		if row.Err != nil {
			rec := make([]string, len(header))
			rec[0] = strconv.Itoa(row.Index)
			rec[1] = row.Group
			rec[10] = row.Err.Error()
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write report row %d: %w", row.Index, err)
			}
			continue
		}
		for _, res := range row.Results {
			rec := make([]string, 0, len(header))
			rec = append(rec,
				strconv.Itoa(row.Index),
				row.Group,
				res.Pathway.String(),
				formatNum(res.TotalKgCO2e()),
				formatNum(res.Totals.Process),
				formatNum(res.Totals.Transport),
				formatNum(res.Totals.EmbodiedNew),
				formatNum(res.YieldPercent()),
				formatNum(res.FinalMassKg),
				formatNum(res.IntensityKgCO2ePerM2()),
				"",
			)
			for _, s := range stages {
				rec = append(rec, formatNum(res.StageEmission(s)))
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write report row %d: %w", row.Index, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// collectStageLabels returns the sorted union of stage labels across all
// successful results.
func collectStageLabels(rows []batch.RowResult) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		for _, res := range row.Results {
			for _, label := range res.StageLabels() {
				seen[label] = true
			}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// formatNum renders a float with the report's fixed decimal policy.
func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// jsonStage is the serialized audit entry.
type jsonStage struct {
	Stage    string  `json:"stage"`
	Kind     string  `json:"kind"`
	Category string  `json:"category"`
	MassIn   float64 `json:"mass_in_kg"`
	MassOut  float64 `json:"mass_out_kg"`
	Waste    float64 `json:"waste_kg"`
	AreaIn   float64 `json:"area_in_m2"`
	AreaOut  float64 `json:"area_out_m2"`
	Emission float64 `json:"emission_kgco2e"`
	Formula  string  `json:"formula"`
	Note     string  `json:"note,omitempty"`
}

// jsonResult is the serialized scenario result.
type jsonResult struct {
	RunID       string      `json:"run_id"`
	Pathway     string      `json:"pathway"`
	Total       float64     `json:"total_kgco2e"`
	Process     float64     `json:"process_kgco2e"`
	Transport   float64     `json:"transport_kgco2e"`
	EmbodiedNew float64     `json:"embodied_new_kgco2e"`
	Yield       float64     `json:"yield_percent"`
	InitialMass float64     `json:"initial_mass_kg"`
	FinalMass   float64     `json:"final_mass_kg"`
	WasteMass   float64     `json:"waste_mass_kg"`
	Stages      []jsonStage `json:"stages"`
}

// jsonRow is the serialized batch row.
type jsonRow struct {
	Row     int          `json:"row"`
	Product string       `json:"product"`
	Error   string       `json:"error,omitempty"`
	Results []jsonResult `json:"results,omitempty"`
}

// WriteJSON renders batch results as indented JSON in input row order.
func WriteJSON(w io.Writer, rows []batch.RowResult) error {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		jr := jsonRow{Row: row.Index, Product: row.Group}
		if row.Err != nil {
			jr.Error = row.Err.Error()
		}
		for _, res := range row.Results {
			jr.Results = append(jr.Results, toJSONResult(res))
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// toJSONResult converts one scenario result to its serialized form.
func toJSONResult(res *scenario.Result) jsonResult {
	jr := jsonResult{
		RunID:       res.RunID,
		Pathway:     res.Pathway.String(),
		Total:       res.TotalKgCO2e(),
		Process:     res.Totals.Process,
		Transport:   res.Totals.Transport,
		EmbodiedNew: res.Totals.EmbodiedNew,
		Yield:       res.YieldPercent(),
		InitialMass: res.InitialMassKg,
		FinalMass:   res.FinalMassKg,
		WasteMass:   res.WasteMassKg,
	}
	for _, s := range res.Stages {
		jr.Stages = append(jr.Stages, jsonStage{
			Stage:    s.Entry.Stage,
			Kind:     s.Entry.Kind,
			Category: s.Entry.Category.String(),
			MassIn:   s.Entry.MassInKg,
			MassOut:  s.Entry.MassOutKg,
			Waste:    s.Entry.WasteKg,
			AreaIn:   s.Entry.AreaInM2,
			AreaOut:  s.Entry.AreaOutM2,
			Emission: s.Entry.EmissionKgCO2e,
			Formula:  s.Entry.Formula,
			Note:     s.Entry.Note,
		})
	}
	return jr
}
