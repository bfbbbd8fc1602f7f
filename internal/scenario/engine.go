package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/vitrify/igucycle/internal/flow"
	"github.com/vitrify/igucycle/internal/geometry"
	"github.com/vitrify/igucycle/internal/logging"
	"github.com/vitrify/igucycle/internal/params"
	"github.com/vitrify/igucycle/internal/stage"
	"github.com/vitrify/igucycle/internal/transport"
)

// Engine executes pathway pipelines. It holds only the shared read-only
// parameter registry, so a single Engine is safe for concurrent use across
// batch rows.
type Engine struct {
	reg *params.Registry
}

// New creates an Engine over the given registry.
func New(reg *params.Registry) *Engine {
	return &Engine{reg: reg}
}

// Request is one fully resolved scenario invocation.
type Request struct {
	Group   geometry.IGUGroup
	Routes  RoutePlan
	Pathway Pathway
}

// transportConfig gathers the registry values every leg computation needs.
type transportConfig struct {
	factors            transport.Factors
	backhaul           float64
	fallbackKM         float64
	fallbackLandfillKM float64
	stillageCapacity   int
	stillageMassKg     float64
	stillageEmbodied   float64
	stillageLifetime   int
	includePackaging   bool
}

// loadTransportConfig resolves transport parameters once per run. A missing
// key aborts the run before any stage executes.
func (e *Engine) loadTransportConfig(rp RoutePlan) (transportConfig, error) {
	var cfg transportConfig
	var err error

	if cfg.factors.Truck, err = e.reg.Float(params.KeyTruckEF); err != nil {
		return cfg, err
	}
	if cfg.factors.Ferry, err = e.reg.Float(params.KeyFerryEF); err != nil {
		return cfg, err
	}
	if cfg.backhaul, err = e.reg.Float(params.KeyBackhaulFactor); err != nil {
		return cfg, err
	}
	if rp.BackhaulOverride > 0 {
		cfg.backhaul = rp.BackhaulOverride
	}
	if cfg.fallbackKM, err = e.reg.Float(params.KeyFallbackKM); err != nil {
		return cfg, err
	}
	if cfg.fallbackLandfillKM, err = e.reg.Float(params.KeyFallbackLandfillKM); err != nil {
		return cfg, err
	}
	if cfg.stillageCapacity, err = e.reg.Int(params.KeyStillageCapacity); err != nil {
		return cfg, err
	}
	if cfg.stillageMassKg, err = e.reg.Float(params.KeyStillageMassKg); err != nil {
		return cfg, err
	}
	if cfg.stillageEmbodied, err = e.reg.Float(params.KeyStillageEmbodied); err != nil {
		return cfg, err
	}
	if cfg.stillageLifetime, err = e.reg.Int(params.KeyStillageLifetime); err != nil {
		return cfg, err
	}
	if cfg.includePackaging, err = e.reg.Bool(params.KeyIncludeStillageEmbodied); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Run executes the requested pathway and returns its immutable result.
//
// Execution is strictly sequential: every stage consumes the state produced
// by its predecessor. The run aborts before the first stage on geometry or
// configuration errors, and aborts mid-run only on a mass-balance violation,
// which indicates an internal defect.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	log := logging.FromContext(ctx)

	breakdown, err := geometry.Derive(req.Group, e.reg)
	if err != nil {
		return nil, err
	}

	cfg, err := e.loadTransportConfig(req.Routes)
	if err != nil {
		return nil, err
	}

	steps, err := pipelineFor(req.Pathway, e.reg)
	if err != nil {
		return nil, err
	}

	state := flow.State{
		Mass: flow.Masses{
			Glass:   breakdown.GlassKg,
			Spacer:  breakdown.SpacerKg,
			Sealant: breakdown.SealantKg,
		},
		AreaM2: breakdown.AreaM2,
		Units:  float64(breakdown.Units),
		Cargo:  flow.CargoIntact,
	}
	initialMass := state.TotalKg()

	log.Debug().
		Str("component", "scenario").
		Str("pathway", req.Pathway.String()).
		Str("group", req.Group.Name).
		Float64("initial_mass_kg", initialMass).
		Float64("initial_area_m2", state.AreaM2).
		Msg("starting pathway run")

	run := &runState{
		engine:    e,
		cfg:       cfg,
		routes:    req.Routes,
		group:     req.Group,
		breakdown: breakdown,
	}

	for _, step := range steps {
		switch {
		case step.process != nil:
			state, err = run.applyProcess(*step.process, state)
		case step.leg != nil:
			state, err = run.applyLeg(*step.leg, state)
		case step.terminal:
			state, err = run.applyTerminalDisposal(state)
		}
		if err != nil {
			return nil, fmt.Errorf("pathway %s: %w", req.Pathway, err)
		}
	}

	if err := run.verify(initialMass, state); err != nil {
		return nil, fmt.Errorf("pathway %s: %w", req.Pathway, err)
	}

	res := newResult(req.Pathway, req.Group.Name, run.stages, initialMass, breakdown, state)

	log.Info().
		Str("component", "scenario").
		Str("pathway", req.Pathway.String()).
		Str("run_id", res.RunID).
		Float64("total_kgco2e", res.TotalKgCO2e()).
		Float64("final_mass_kg", res.FinalMassKg).
		Msg("pathway run complete")

	return res, nil
}

// runState carries the per-run bookkeeping the executor threads alongside
// the flow state: current site, packaging amortization, and the audit trail.
type runState struct {
	engine    *Engine
	cfg       transportConfig
	routes    RoutePlan
	group     geometry.IGUGroup
	breakdown geometry.Breakdown

	atProcessor      bool
	packagingCharged bool
	stages           []StageResult
}

// applyProcess runs one stage primitive and routes any waste it produced to
// the disposal leg for the current site.
func (r *runState) applyProcess(step stage.Step, st flow.State) (flow.State, error) {
	if step.Kind == stage.KindAssembly {
		// New spacer and sealant are sized for the area being rebuilt.
		if r.breakdown.AreaM2 > 0 {
			step.NewSpacerKg = r.breakdown.SpacerKg / r.breakdown.AreaM2 * st.AreaM2
			step.NewSealantKg = r.breakdown.SealantKg / r.breakdown.AreaM2 * st.AreaM2
		}
	}

	next, entries, err := stage.Apply(step, r.group, st)
	if err != nil {
		return flow.State{}, err
	}
	for _, entry := range entries {
		r.record(entry, next)
	}

	wasteKg := st.TotalKg() - next.TotalKg()
	if wasteKg > 0 {
		next, err = r.routeWaste(entries[0].Stage, wasteKg, next)
		if err != nil {
			return flow.State{}, err
		}
	}
	return next, nil
}

// routeWaste charges the transport of a waste delta to the landfill leg for
// the current site. Waste always travels as loose material without
// packaging overhead.
func (r *runState) routeWaste(fromStage string, wasteKg float64, st flow.State) (flow.State, error) {
	legID := disposalLeg(r.atProcessor)
	from, to, err := r.routes.endpoints(legID)
	if err != nil {
		return flow.State{}, err
	}
	dist := transport.ResolveDistances(from, to, r.routes.override(legID), r.cfg.fallbackLandfillKM)

	emission, err := transport.LegEmissionsKg(wasteKg, dist, r.cfg.factors, r.cfg.backhaul)
	if err != nil {
		return flow.State{}, err
	}

	next := st.AddEmission(flow.CategoryTransport, emission)
	r.record(stage.Entry{
		Stage:          fmt.Sprintf("Disposal: %s waste", fromStage),
		Kind:           stage.KindDisposal.String(),
		Category:       flow.CategoryTransport,
		MassInKg:       st.TotalKg(),
		MassOutKg:      next.TotalKg(),
		WasteKg:        wasteKg,
		AreaInM2:       st.AreaM2,
		AreaOutM2:      next.AreaM2,
		UnitsIn:        st.Units,
		UnitsOut:       next.Units,
		EmissionKgCO2e: emission,
		Formula: fmt.Sprintf("%.4f t * (%.1f km * %.4f + %.1f km * %.4f) * %.2f",
			wasteKg/1000.0, dist.TruckKM, r.cfg.factors.Truck, dist.FerryKM, r.cfg.factors.Ferry, r.cfg.backhaul),
		Note: legID.String(),
	}, next)
	return next, nil
}

// applyLeg computes one transport leg for the retained flow, including
// stillage overhead for intact cargo and, once per run when enabled, the
// amortized packaging embodied carbon.
func (r *runState) applyLeg(id LegID, st flow.State) (flow.State, error) {
	from, to, err := r.routes.endpoints(id)
	if err != nil {
		return flow.State{}, err
	}

	fallback := r.cfg.fallbackKM
	if id == LegOriginToLandfill || id == LegProcessorToLandfill {
		fallback = r.cfg.fallbackLandfillKM
	}
	dist := transport.ResolveDistances(from, to, r.routes.override(id), fallback)

	cargoKg := st.TotalKg()
	stillageKg := 0.0
	if st.Cargo == flow.CargoIntact {
		stillageKg = transport.StillageMassKg(st.Units, r.cfg.stillageCapacity, r.cfg.stillageMassKg)
	}

	emission, err := transport.LegEmissionsKg(cargoKg+stillageKg, dist, r.cfg.factors, r.cfg.backhaul)
	if err != nil {
		return flow.State{}, err
	}

	next := st.AddEmission(flow.CategoryTransport, emission)
	r.record(stage.Entry{
		Stage:          id.String(),
		Kind:           "Transport",
		Category:       flow.CategoryTransport,
		MassInKg:       st.TotalKg(),
		MassOutKg:      next.TotalKg(),
		AreaInM2:       st.AreaM2,
		AreaOutM2:      next.AreaM2,
		UnitsIn:        st.Units,
		UnitsOut:       next.Units,
		EmissionKgCO2e: emission,
		Formula: fmt.Sprintf("(%.4f + %.4f stillage) t * (%.1f km * %.4f + %.1f km * %.4f) * %.2f",
			cargoKg/1000.0, stillageKg/1000.0,
			dist.TruckKM, r.cfg.factors.Truck, dist.FerryKM, r.cfg.factors.Ferry, r.cfg.backhaul),
		Note: fmt.Sprintf("cargo %s", st.Cargo),
	}, next)

	if r.cfg.includePackaging && st.Cargo == flow.CargoIntact && !r.packagingCharged {
		perUnit := transport.StillageEmbodiedPerUnitKg(
			r.cfg.stillageEmbodied, r.cfg.stillageLifetime, r.cfg.stillageCapacity)
		packaging := st.Units * perUnit
		if packaging > 0 {
			r.packagingCharged = true
			next = next.AddEmission(flow.CategoryEmbodiedNew, packaging)
			r.record(stage.Entry{
				Stage:          "Packaging (stillages)",
				Kind:           "Transport",
				Category:       flow.CategoryEmbodiedNew,
				MassInKg:       next.TotalKg(),
				MassOutKg:      next.TotalKg(),
				AreaInM2:       next.AreaM2,
				AreaOutM2:      next.AreaM2,
				UnitsIn:        next.Units,
				UnitsOut:       next.Units,
				EmissionKgCO2e: packaging,
				Formula:        fmt.Sprintf("%.2f units * %.4f kgCO2e/unit", st.Units, perUnit),
				Note:           "stillage manufacture amortized over lifetime cycles",
			}, next)
		}
	}

	if id == LegOriginToProcessor {
		r.atProcessor = true
	}
	return next, nil
}

// applyTerminalDisposal sends the entire retained flow to landfill: all
// mass becomes waste and one disposal leg is charged for it.
func (r *runState) applyTerminalDisposal(st flow.State) (flow.State, error) {
	next, wasteDelta, err := flow.ApplyYieldLoss(st, 1.0, false)
	if err != nil {
		return flow.State{}, err
	}
	r.record(stage.Entry{
		Stage:     "Disposal",
		Kind:      stage.KindDisposal.String(),
		Category:  flow.CategoryProcess,
		MassInKg:  st.TotalKg(),
		MassOutKg: next.TotalKg(),
		WasteKg:   wasteDelta.Total(),
		AreaInM2:  st.AreaM2,
		AreaOutM2: next.AreaM2,
		UnitsIn:   st.Units,
		UnitsOut:  next.Units,
		Formula:   "all retained mass to landfill",
	}, next)

	return r.routeWaste("terminal", wasteDelta.Total(), next)
}

// record appends an audit entry and the state snapshot it produced.
func (r *runState) record(entry stage.Entry, snapshot flow.State) {
	r.stages = append(r.stages, StageResult{Entry: entry, Snapshot: snapshot})
}

// verify asserts the run-level invariants: every kilogram of input is
// either retained or accounted as waste, and the audit trail sums to the
// accumulated totals.
func (r *runState) verify(initialMass float64, final flow.State) error {
	accounted := final.AccountedKg()
	if !closeEnough(initialMass, accounted) {
		return fmt.Errorf("%w: initial=%.9f accounted=%.9f",
			flow.ErrMassBalance, initialMass, accounted)
	}

	var sum float64
	for _, s := range r.stages {
		sum += s.Entry.EmissionKgCO2e
	}
	if !closeEnough(sum, final.Emitted.Total()) {
		return fmt.Errorf("%w: audit sum %.9f != accumulated total %.9f",
			flow.ErrMassBalance, sum, final.Emitted.Total())
	}
	return nil
}

// closeEnough compares within flow.RelTolerance, absolute near zero.
func closeEnough(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1.0 {
		return diff <= flow.RelTolerance
	}
	return diff <= flow.RelTolerance*scale
}
