// Package scenario sequences stage primitives and transport legs into the
// eleven end-of-life pathways and executes them over an IGU group.
//
// Each pathway is pure configuration of one shared pipeline skeleton:
// removal at the origin, a transport leg to the processor, processing
// primitives (possibly quality-gated), and an onward leg, with every waste
// delta immediately routed to a disposal leg. A run is a finite sequence
// with no retries; a failed precondition aborts before any stage executes.
package scenario

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrUnknownPathway reports an unrecognized pathway identifier.
const ErrUnknownPathway = constError("unknown pathway")

// Pathway identifies one of the eleven end-of-life routes.
type Pathway int

const (
	// SystemReuse reinstalls whole recovered units without intervention.
	SystemReuse Pathway = iota

	// SystemReuseRepair reinstalls whole units after a repair step with its
	// fixed yield loss.
	SystemReuseRepair

	// ComponentReuse disassembles units and rebuilds IGUs from recovered
	// components with new spacer and sealant.
	ComponentReuse

	// RepurposeLight through RepurposeHeavy divert recovered glass into a
	// different product at increasing processing intensity.
	RepurposeLight
	RepurposeMedium
	RepurposeHeavy

	// ClosedLoop returns cullet to float glass production, subject to the
	// laminated-glass purity gate.
	ClosedLoop

	// OpenLoopGlasswool, OpenLoopContainer and OpenLoopCombined down-cycle
	// cullet into glasswool, container glass, or both.
	OpenLoopGlasswool
	OpenLoopContainer
	OpenLoopCombined

	// Landfill is the disposal baseline: removal plus one transport leg to
	// landfill.
	Landfill
)

// pathwayCount is the number of defined pathways.
const pathwayCount = 11

// All returns every pathway in canonical report order.
func All() []Pathway {
	out := make([]Pathway, 0, pathwayCount)
	for p := SystemReuse; p <= Landfill; p++ {
		out = append(out, p)
	}
	return out
}

// String returns the stable identifier used on the CLI and in reports.
func (p Pathway) String() string {
	switch p {
	case SystemReuse:
		return "system-reuse"
	case SystemReuseRepair:
		return "system-reuse-repair"
	case ComponentReuse:
		return "component-reuse"
	case RepurposeLight:
		return "repurpose-light"
	case RepurposeMedium:
		return "repurpose-medium"
	case RepurposeHeavy:
		return "repurpose-heavy"
	case ClosedLoop:
		return "closed-loop"
	case OpenLoopGlasswool:
		return "open-loop-glasswool"
	case OpenLoopContainer:
		return "open-loop-container"
	case OpenLoopCombined:
		return "open-loop-combined"
	case Landfill:
		return "landfill"
	default:
		return fmt.Sprintf("Pathway(%d)", int(p))
	}
}

// Title returns the human-readable pathway name for rendering.
func (p Pathway) Title() string {
	switch p {
	case SystemReuse:
		return "System Reuse"
	case SystemReuseRepair:
		return "System Reuse (with repair)"
	case ComponentReuse:
		return "Component Reuse"
	case RepurposeLight:
		return "Component Repurpose (light)"
	case RepurposeMedium:
		return "Component Repurpose (medium)"
	case RepurposeHeavy:
		return "Component Repurpose (heavy)"
	case ClosedLoop:
		return "Closed-Loop Recycling"
	case OpenLoopGlasswool:
		return "Open-Loop Recycling (glasswool)"
	case OpenLoopContainer:
		return "Open-Loop Recycling (container)"
	case OpenLoopCombined:
		return "Open-Loop Recycling (combined)"
	case Landfill:
		return "Straight to Landfill"
	default:
		return p.String()
	}
}

// Parse maps a CLI/report identifier onto a Pathway.
func Parse(s string) (Pathway, error) {
	for _, p := range All() {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPathway, s)
}
