// Package transport computes emissions for the logistics legs of a recovery
// pipeline.
//
// A leg's emissions are mass_tonnes × Σ(distance_mode × factor_mode) ×
// backhaul. Intact cargo carries stillage packaging overhead; loose cullet
// travels unpacked. Distances come from explicit overrides, great-circle
// derivation between located sites, or a configured fallback.
package transport

import (
	"fmt"
	"math"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidTransportInput reports a negative mass or distance, or a
// backhaul factor below 1. Fatal for the leg's run.
const ErrInvalidTransportInput = constError("invalid transport input")

// earthRadiusKM is the mean Earth radius used for great-circle distances.
const earthRadiusKM = 6371.0

// Role describes a location's function in the recovery chain.
type Role int

const (
	RoleOrigin Role = iota
	RoleProcessor
	RoleDestination
	RoleLandfill
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleOrigin:
		return "origin"
	case RoleProcessor:
		return "processor"
	case RoleDestination:
		return "destination"
	case RoleLandfill:
		return "landfill"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Coordinates is a WGS84 lat/lon pair in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Location is a named site in the recovery chain. Coordinates are optional;
// legs between unlocated sites fall back to configured distances.
type Location struct {
	Name   string
	Role   Role
	Coords *Coordinates
}

// Located reports whether the location carries coordinates.
func (l Location) Located() bool { return l.Coords != nil }

// HaversineKM computes the great-circle distance between two coordinate
// pairs in km.
func HaversineKM(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distances holds per-mode leg distances in km.
type Distances struct {
	TruckKM float64
	FerryKM float64
}

// Validate rejects negative distances.
func (d Distances) Validate() error {
	if d.TruckKM < 0 || d.FerryKM < 0 {
		return fmt.Errorf("%w: negative distance (truck=%g, ferry=%g)", ErrInvalidTransportInput, d.TruckKM, d.FerryKM)
	}
	return nil
}

// Factors holds per-mode emission factors in kgCO2e per tonne-km.
type Factors struct {
	Truck float64
	Ferry float64
}

// Leg is one transport movement between two sites.
type Leg struct {
	Name      string
	From      Location
	To        Location
	Distances Distances
	Backhaul  float64
}

// ResolveDistances derives leg distances: an explicit override wins, then
// the great-circle distance between located endpoints, then fallbackKM.
// Ferry distance is only ever taken from an explicit override.
func ResolveDistances(from, to Location, override *Distances, fallbackKM float64) Distances {
	if override != nil {
		return *override
	}
	if from.Located() && to.Located() {
		if km := HaversineKM(*from.Coords, *to.Coords); km > 0 {
			return Distances{TruckKM: km}
		}
	}
	return Distances{TruckKM: fallbackKM}
}

// LegEmissionsKg computes the emissions of moving massKg over the given
// distances: (mass in tonnes) × Σ(distance × factor) × backhaul.
func LegEmissionsKg(massKg float64, d Distances, f Factors, backhaul float64) (float64, error) {
	if massKg < 0 {
		return 0, fmt.Errorf("%w: negative mass %g kg", ErrInvalidTransportInput, massKg)
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if backhaul < 1 {
		return 0, fmt.Errorf("%w: backhaul factor %g, want >= 1", ErrInvalidTransportInput, backhaul)
	}

	massT := massKg / 1000.0
	return massT * (d.TruckKM*f.Truck + d.FerryKM*f.Ferry) * backhaul, nil
}

// StillageMassKg returns the packaging overhead for carrying the given
// number of intact units: ceil(units/capacity) × unitMassKg. Zero when the
// capacity is not configured.
func StillageMassKg(units float64, capacity int, unitMassKg float64) float64 {
	if capacity <= 0 || units <= 0 {
		return 0
	}
	return math.Ceil(units/float64(capacity)) * unitMassKg
}

// StillageEmbodiedPerUnitKg amortizes a stillage's manufacturing carbon over
// its lifetime trips and per-trip payload. Zero when either divisor is not
// configured.
func StillageEmbodiedPerUnitKg(manufactureKgCO2 float64, lifetimeCycles, capacity int) float64 {
	if lifetimeCycles <= 0 || capacity <= 0 {
		return 0
	}
	return manufactureKgCO2 / (float64(lifetimeCycles) * float64(capacity))
}
