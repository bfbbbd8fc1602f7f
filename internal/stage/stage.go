// Package stage implements the composable processing primitives a recovery
// pipeline is built from.
//
// Each primitive consumes a flow.State and a Step configuration and yields
// the successor state plus audit entries. Primitives never perform I/O and
// never mutate their input; the scenario engine owns sequencing and waste
// routing.
package stage

import (
	"fmt"

	"github.com/vitrify/igucycle/internal/flow"
	"github.com/vitrify/igucycle/internal/geometry"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrUnknownKind reports a Step with an unregistered stage kind.
const ErrUnknownKind = constError("unknown stage kind")

// Kind enumerates the stage primitives.
type Kind int

const (
	KindRemoval Kind = iota
	KindRepair
	KindRecondition
	KindDisassembly
	KindAssembly
	KindInstall
	KindRepurpose
	KindBreaking
	KindQualityGate
	KindDisposal
)

// String returns the report label for the kind.
func (k Kind) String() string {
	switch k {
	case KindRemoval:
		return "Removal"
	case KindRepair:
		return "Repair"
	case KindRecondition:
		return "Recondition"
	case KindDisassembly:
		return "Disassembly"
	case KindAssembly:
		return "Assembly"
	case KindInstall:
		return "Installation"
	case KindRepurpose:
		return "Repurpose"
	case KindBreaking:
		return "Breaking"
	case KindQualityGate:
		return "QualityGate"
	case KindDisposal:
		return "Disposal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gate is a quality predicate that can override a stage's yield fraction.
// Gates are evaluated in declaration order; the first match wins and later
// gates are not consulted.
type Gate struct {
	// Name identifies the gate in audit entries.
	Name string

	// Applies decides whether the gate triggers for this group and state.
	Applies func(geometry.IGUGroup, flow.State) bool

	// Fraction is the yield loss forced when the gate triggers. 1 rejects
	// the whole stream.
	Fraction float64

	// Reason is the audit explanation, e.g. "laminated glass rejected by
	// float plant purity requirements".
	Reason string
}

// Step configures one primitive application.
type Step struct {
	Kind Kind

	// Name overrides the default stage label in audit entries.
	Name string

	// Yield is the default yield-loss fraction in [0, 1]. Gates may
	// override it.
	Yield float64

	// EFPerM2 is the process emission factor in kgCO2e per m².
	EFPerM2 float64

	// WholeUnit marks losses that reject complete units as waste mass
	// without scaling the surviving flow's area and count.
	WholeUnit bool

	// Gates are evaluated before the yield loss, first-match-wins.
	Gates []Gate

	// NewSpacerKg/NewSealantKg and their factors describe material added by
	// Assembly. The added mass is costed as embodied-new carbon and kept
	// out of the recovered-mass balance.
	NewSpacerKg    float64
	NewSealantKg   float64
	SpacerEFPerKg  float64
	SealantEFPerKg float64
}

// label returns the audit name for the step.
func (s Step) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Kind.String()
}

// Entry is one audit record: every numeric step of a run appears as exactly
// one Entry so the full calculation can be replayed by hand.
type Entry struct {
	Stage    string
	Kind     string
	Category flow.Category

	MassInKg  float64
	MassOutKg float64
	WasteKg   float64
	AreaInM2  float64
	AreaOutM2 float64
	UnitsIn   float64
	UnitsOut  float64

	EmissionKgCO2e float64

	// Formula is the human-readable equation with substituted values.
	Formula string

	// Note carries gate decisions and other qualitative context.
	Note string
}

// Apply runs one primitive over the state and returns the successor state
// plus the audit entries it produced.
//
// Emission basis: removal, disassembly and breaking are costed on the area
// entering the stage (the work is done on everything handled, including
// what is subsequently lost); repair, recondition, assembly, installation
// and repurpose are costed on the area surviving the stage (work performed
// only on what is kept).
func Apply(step Step, group geometry.IGUGroup, st flow.State) (flow.State, []Entry, error) {
	fraction := step.Yield
	note := ""
	for _, g := range step.Gates {
		if g.Applies(group, st) {
			fraction = g.Fraction
			note = fmt.Sprintf("gate %s: %s", g.Name, g.Reason)
			break
		}
	}

	next, wasteDelta, err := flow.ApplyYieldLoss(st, fraction, step.WholeUnit)
	if err != nil {
		return flow.State{}, nil, fmt.Errorf("stage %s: %w", step.label(), err)
	}

	if step.Kind == KindBreaking {
		next.Cargo = flow.CargoCullet
	}

	areaBasis := st.AreaM2
	switch step.Kind {
	case KindRepair, KindRecondition, KindAssembly, KindInstall, KindRepurpose:
		areaBasis = next.AreaM2
	}

	emission := areaBasis * step.EFPerM2
	next = next.AddEmission(flow.CategoryProcess, emission)

	entries := []Entry{{
		Stage:          step.label(),
		Kind:           step.Kind.String(),
		Category:       flow.CategoryProcess,
		MassInKg:       st.TotalKg(),
		MassOutKg:      next.TotalKg(),
		WasteKg:        wasteDelta.Total(),
		AreaInM2:       st.AreaM2,
		AreaOutM2:      next.AreaM2,
		UnitsIn:        st.Units,
		UnitsOut:       next.Units,
		EmissionKgCO2e: emission,
		Formula:        fmt.Sprintf("%.4f m2 * %.4f kgCO2e/m2", areaBasis, step.EFPerM2),
		Note:           note,
	}}

	if step.Kind == KindAssembly {
		embodied := step.NewSpacerKg*step.SpacerEFPerKg + step.NewSealantKg*step.SealantEFPerKg
		if embodied > 0 {
			next = next.AddEmission(flow.CategoryEmbodiedNew, embodied)
			entries = append(entries, Entry{
				Stage:          step.label() + " (new materials)",
				Kind:           step.Kind.String(),
				Category:       flow.CategoryEmbodiedNew,
				MassInKg:       next.TotalKg(),
				MassOutKg:      next.TotalKg(),
				AreaInM2:       next.AreaM2,
				AreaOutM2:      next.AreaM2,
				UnitsIn:        next.Units,
				UnitsOut:       next.Units,
				EmissionKgCO2e: embodied,
				Formula: fmt.Sprintf("%.4f kg spacer * %.4f + %.4f kg sealant * %.4f kgCO2e/kg",
					step.NewSpacerKg, step.SpacerEFPerKg, step.NewSealantKg, step.SealantEFPerKg),
				Note: "embodied carbon of new spacer and sealant; mass excluded from recovery balance",
			})
		}
	}

	return next, entries, nil
}

// LaminatedGate returns the float-plant purity gate: any laminated pane in
// the build-up forces full rejection of the stream.
func LaminatedGate() Gate {
	return Gate{
		Name: "float-purity",
		Applies: func(g geometry.IGUGroup, _ flow.State) bool {
			return g.HasLaminated()
		},
		Fraction: 1.0,
		Reason:   "laminated glass rejected by float plant purity requirements",
	}
}
