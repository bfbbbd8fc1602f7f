package scenario

import (
	"fmt"

	"github.com/vitrify/igucycle/internal/transport"
)

// LegID names the transport legs a pipeline can reference.
type LegID int

const (
	LegOriginToProcessor LegID = iota
	LegProcessorToDestination
	LegProcessorToRecycler
	LegOriginToLandfill
	LegProcessorToLandfill
)

// String returns the report label for the leg.
func (l LegID) String() string {
	switch l {
	case LegOriginToProcessor:
		return "Transport: Site->Processor"
	case LegProcessorToDestination:
		return "Transport: Processor->Destination"
	case LegProcessorToRecycler:
		return "Transport: Processor->Recycler"
	case LegOriginToLandfill:
		return "Transport: Site->Landfill"
	case LegProcessorToLandfill:
		return "Transport: Processor->Landfill"
	default:
		return fmt.Sprintf("LegID(%d)", int(l))
	}
}

// RoutePlan holds the resolved locations of a run plus optional per-leg
// distance overrides. Locations without coordinates fall back to configured
// distances when no override is present.
type RoutePlan struct {
	Origin      transport.Location
	Processor   transport.Location
	Destination transport.Location
	Recycler    transport.Location
	Landfill    transport.Location

	// Overrides fixes leg distances explicitly, bypassing coordinate
	// derivation. Keyed by LegID.
	Overrides map[LegID]transport.Distances

	// BackhaulOverride replaces the configured backhaul factor when > 0.
	BackhaulOverride float64
}

// endpoints resolves a leg ID to its two locations.
func (rp RoutePlan) endpoints(id LegID) (transport.Location, transport.Location, error) {
	switch id {
	case LegOriginToProcessor:
		return rp.Origin, rp.Processor, nil
	case LegProcessorToDestination:
		return rp.Processor, rp.Destination, nil
	case LegProcessorToRecycler:
		return rp.Processor, rp.Recycler, nil
	case LegOriginToLandfill:
		return rp.Origin, rp.Landfill, nil
	case LegProcessorToLandfill:
		return rp.Processor, rp.Landfill, nil
	default:
		return transport.Location{}, transport.Location{}, fmt.Errorf("unknown leg id %d", int(id))
	}
}

// override returns the explicit distances for a leg, if any.
func (rp RoutePlan) override(id LegID) *transport.Distances {
	if rp.Overrides == nil {
		return nil
	}
	if d, ok := rp.Overrides[id]; ok {
		return &d
	}
	return nil
}

// disposalLeg returns the landfill leg for waste generated at the given
// point of the pipeline: before processor arrival waste leaves from the
// origin, afterwards from the processor.
func disposalLeg(atProcessor bool) LegID {
	if atProcessor {
		return LegProcessorToLandfill
	}
	return LegOriginToLandfill
}
