// Package flow tracks mass, area and unit counts through a recovery
// pipeline.
//
// A State is the balance record threaded from stage to stage. Every stage
// transition must satisfy retained + waste == input per material stream
// within RelTolerance; a violation is an internal defect (ErrMassBalance)
// and aborts the run rather than being clamped.
package flow

import (
	"fmt"
	"math"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrMassBalance reports a stage transition whose retained and waste masses
// do not sum back to the input. This indicates a defect in stage logic, not
// bad user input, and is unrecoverable for the run.
const ErrMassBalance = constError("mass balance violation")

// ErrInvalidYield reports a yield-loss fraction outside [0, 1].
const ErrInvalidYield = constError("yield fraction out of range")

// RelTolerance is the relative tolerance for mass-balance checks.
const RelTolerance = 1e-6

// Stream identifies a material stream within the balance.
type Stream int

const (
	StreamGlass Stream = iota
	StreamSpacer
	StreamSealant
)

// String returns the lowercase stream name used in audit entries.
func (s Stream) String() string {
	switch s {
	case StreamGlass:
		return "glass"
	case StreamSpacer:
		return "spacer"
	case StreamSealant:
		return "sealant"
	default:
		return fmt.Sprintf("Stream(%d)", int(s))
	}
}

// Masses holds per-stream mass in kg.
type Masses struct {
	Glass   float64
	Spacer  float64
	Sealant float64
}

// Total returns the summed mass across streams.
func (m Masses) Total() float64 { return m.Glass + m.Spacer + m.Sealant }

// Scale returns the masses multiplied by f.
func (m Masses) Scale(f float64) Masses {
	return Masses{Glass: m.Glass * f, Spacer: m.Spacer * f, Sealant: m.Sealant * f}
}

// Add returns the per-stream sum of m and o.
func (m Masses) Add(o Masses) Masses {
	return Masses{Glass: m.Glass + o.Glass, Spacer: m.Spacer + o.Spacer, Sealant: m.Sealant + o.Sealant}
}

// Category classifies an emission contribution.
type Category int

const (
	// CategoryProcess covers emissions from physical processing stages.
	CategoryProcess Category = iota

	// CategoryTransport covers all transport legs, including waste disposal
	// legs.
	CategoryTransport

	// CategoryEmbodiedNew covers embodied carbon of new material added
	// during assembly and amortized packaging. It is tracked separately and
	// never enters the original mass balance.
	CategoryEmbodiedNew
)

// String returns the report label for the category.
func (c Category) String() string {
	switch c {
	case CategoryProcess:
		return "process"
	case CategoryTransport:
		return "transport"
	case CategoryEmbodiedNew:
		return "embodied_new"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Emissions accumulates kgCO2e by category.
type Emissions struct {
	Process     float64
	Transport   float64
	EmbodiedNew float64
}

// Total returns the summed emissions across categories.
func (e Emissions) Total() float64 { return e.Process + e.Transport + e.EmbodiedNew }

// Add accumulates delta into the matching category.
func (e Emissions) Add(c Category, delta float64) Emissions {
	switch c {
	case CategoryProcess:
		e.Process += delta
	case CategoryTransport:
		e.Transport += delta
	case CategoryEmbodiedNew:
		e.EmbodiedNew += delta
	}
	return e
}

// CargoForm describes how retained material travels, which decides whether
// stillage packaging mass applies to a transport leg.
type CargoForm int

const (
	// CargoIntact means whole units racked in stillages.
	CargoIntact CargoForm = iota

	// CargoCullet means loose broken glass, transported unpacked.
	CargoCullet
)

// String returns the lowercase cargo form name.
func (c CargoForm) String() string {
	if c == CargoCullet {
		return "cullet"
	}
	return "intact"
}

// State is the balance record threaded through a scenario pipeline.
// Stages never mutate a State in place; they derive a successor from it.
type State struct {
	Mass   Masses
	AreaM2 float64
	Units  float64
	Cargo  CargoForm

	// Waste is the cumulative mass diverted to disposal so far.
	Waste Masses

	// Emitted is the cumulative emissions by category.
	Emitted Emissions
}

// TotalKg returns the retained mass across all streams.
func (s State) TotalKg() float64 { return s.Mass.Total() }

// AccountedKg returns retained plus cumulative waste mass. For a correct
// pipeline this equals the initial mass at every point of the run.
func (s State) AccountedKg() float64 { return s.Mass.Total() + s.Waste.Total() }

// ApplyYieldLoss diverts fraction of every retained stream to waste and
// returns the successor state together with the per-stream waste delta.
//
// Area and unit count scale with the retained fraction unless wholeUnit is
// set. Whole-unit losses reject complete units as waste mass while the
// remaining flow keeps its area and count bookkeeping untouched (the loss
// is tracked purely as mass). Quality gates force fraction to 1 for full
// rejection.
func ApplyYieldLoss(s State, fraction float64, wholeUnit bool) (State, Masses, error) {
	if fraction < 0 || fraction > 1 {
		return State{}, Masses{}, fmt.Errorf("%w: %g", ErrInvalidYield, fraction)
	}

	keep := 1.0 - fraction
	wasteDelta := s.Mass.Scale(fraction)

	next := s
	next.Mass = s.Mass.Scale(keep)
	next.Waste = s.Waste.Add(wasteDelta)
	if !wholeUnit {
		next.AreaM2 = s.AreaM2 * keep
		next.Units = s.Units * keep
	}

	if err := CheckBalance(s.Mass, next.Mass, wasteDelta); err != nil {
		return State{}, Masses{}, err
	}
	return next, wasteDelta, nil
}

// AddEmission returns the state with delta accumulated under category c.
func (s State) AddEmission(c Category, delta float64) State {
	s.Emitted = s.Emitted.Add(c, delta)
	return s
}

// CheckBalance verifies out + waste == in per stream within RelTolerance.
func CheckBalance(in, out, waste Masses) error {
	checks := []struct {
		stream Stream
		in     float64
		out    float64
		waste  float64
	}{
		{StreamGlass, in.Glass, out.Glass, waste.Glass},
		{StreamSpacer, in.Spacer, out.Spacer, waste.Spacer},
		{StreamSealant, in.Sealant, out.Sealant, waste.Sealant},
	}
	for _, c := range checks {
		if !withinTolerance(c.in, c.out+c.waste) {
			return fmt.Errorf("%w: stream %s: in=%.9f retained=%.9f waste=%.9f",
				ErrMassBalance, c.stream, c.in, c.out, c.waste)
		}
	}
	return nil
}

// withinTolerance compares a and b with RelTolerance relative to their
// magnitude, falling back to an absolute check near zero.
func withinTolerance(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1.0 {
		return diff <= RelTolerance
	}
	return diff <= RelTolerance*scale
}
