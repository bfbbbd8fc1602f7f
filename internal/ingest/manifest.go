// Package ingest loads batch manifests: the YAML documents describing the
// sites, routes and IGU product rows of an analysis.
//
// The manifest is the only input surface of the engine; everything in it is
// resolved into geometry and scenario types before any pipeline executes,
// so a malformed row fails fast with a row-indexed error.
package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vitrify/igucycle/internal/batch"
	"github.com/vitrify/igucycle/internal/geometry"
	"github.com/vitrify/igucycle/internal/scenario"
	"github.com/vitrify/igucycle/internal/transport"
)

// LocationSpec is a manifest site entry. Coordinates are optional; legs
// touching an uncoordinated site use fallback distances unless the manifest
// overrides the leg explicitly.
type LocationSpec struct {
	Name string   `yaml:"name"`
	Lat  *float64 `yaml:"lat,omitempty"`
	Lon  *float64 `yaml:"lon,omitempty"`
}

// RouteSpec fixes one leg's distances explicitly.
type RouteSpec struct {
	TruckKM float64 `yaml:"truck_km"`
	FerryKM float64 `yaml:"ferry_km,omitempty"`
}

// PaneSpec is one glass layer of a build-up row.
type PaneSpec struct {
	ThicknessMM float64 `yaml:"thickness_mm"`
	Glass       string  `yaml:"glass,omitempty"`
}

// SealSpec mirrors geometry.SealGeometry in manifest form.
type SealSpec struct {
	PrimaryThicknessMM float64 `yaml:"primary_thickness_mm"`
	PrimaryWidthMM     float64 `yaml:"primary_width_mm"`
	SecondaryWidthMM   float64 `yaml:"secondary_width_mm"`
}

// ConditionSpec mirrors geometry.Condition in manifest form.
type ConditionSpec struct {
	NeedsRepair      bool    `yaml:"needs_repair,omitempty"`
	NeedsRecondition bool    `yaml:"needs_recondition,omitempty"`
	EdgeSealFailed   bool    `yaml:"edge_seal_failed,omitempty"`
	VisibleFogging   bool    `yaml:"visible_fogging,omitempty"`
	CracksOrChips    bool    `yaml:"cracks_or_chips,omitempty"`
	ReuseAllowed     bool    `yaml:"reuse_allowed,omitempty"`
	AgeYears         float64 `yaml:"age_years,omitempty"`
}

// GroupSpec is one product row of the manifest.
type GroupSpec struct {
	Name       string        `yaml:"name"`
	Quantity   int           `yaml:"quantity"`
	WidthMM    float64       `yaml:"width_mm"`
	HeightMM   float64       `yaml:"height_mm"`
	Glazing    string        `yaml:"glazing"`
	Panes      []PaneSpec    `yaml:"panes,omitempty"`
	CavitiesMM []float64     `yaml:"cavities_mm,omitempty"`
	Spacer     string        `yaml:"spacer,omitempty"`
	Sealant    string        `yaml:"sealant,omitempty"`
	Seal       *SealSpec     `yaml:"seal,omitempty"`
	Condition  ConditionSpec `yaml:"condition,omitempty"`
	MassPerM2  float64       `yaml:"mass_per_m2,omitempty"`
}

// Manifest is the full batch input document.
type Manifest struct {
	Locations struct {
		Origin      LocationSpec `yaml:"origin"`
		Processor   LocationSpec `yaml:"processor"`
		Destination LocationSpec `yaml:"destination"`
		Recycler    LocationSpec `yaml:"recycler"`
		Landfill    LocationSpec `yaml:"landfill"`
	} `yaml:"locations"`

	Routes struct {
		OriginToProcessor      *RouteSpec `yaml:"origin_to_processor,omitempty"`
		ProcessorToDestination *RouteSpec `yaml:"processor_to_destination,omitempty"`
		ProcessorToRecycler    *RouteSpec `yaml:"processor_to_recycler,omitempty"`
		OriginToLandfill       *RouteSpec `yaml:"origin_to_landfill,omitempty"`
		ProcessorToLandfill    *RouteSpec `yaml:"processor_to_landfill,omitempty"`
	} `yaml:"routes"`

	BackhaulFactor float64     `yaml:"backhaul_factor,omitempty"`
	Groups         []GroupSpec `yaml:"groups"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// RoutePlan resolves the manifest's sites and route overrides into the
// scenario engine's route plan.
func (m *Manifest) RoutePlan() scenario.RoutePlan {
	rp := scenario.RoutePlan{
		Origin:           m.Locations.Origin.toLocation(transport.RoleOrigin),
		Processor:        m.Locations.Processor.toLocation(transport.RoleProcessor),
		Destination:      m.Locations.Destination.toLocation(transport.RoleDestination),
		Recycler:         m.Locations.Recycler.toLocation(transport.RoleProcessor),
		Landfill:         m.Locations.Landfill.toLocation(transport.RoleLandfill),
		BackhaulOverride: m.BackhaulFactor,
		Overrides:        map[scenario.LegID]transport.Distances{},
	}

	add := func(id scenario.LegID, r *RouteSpec) {
		if r != nil {
			rp.Overrides[id] = transport.Distances{TruckKM: r.TruckKM, FerryKM: r.FerryKM}
		}
	}
	add(scenario.LegOriginToProcessor, m.Routes.OriginToProcessor)
	add(scenario.LegProcessorToDestination, m.Routes.ProcessorToDestination)
	add(scenario.LegProcessorToRecycler, m.Routes.ProcessorToRecycler)
	add(scenario.LegOriginToLandfill, m.Routes.OriginToLandfill)
	add(scenario.LegProcessorToLandfill, m.Routes.ProcessorToLandfill)
	return rp
}

// toLocation converts a manifest site to a transport location.
func (l LocationSpec) toLocation(role transport.Role) transport.Location {
	loc := transport.Location{Name: l.Name, Role: role}
	if l.Lat != nil && l.Lon != nil {
		loc.Coords = &transport.Coordinates{Lat: *l.Lat, Lon: *l.Lon}
	}
	return loc
}

// Rows converts every group spec into a batch row, failing with the row
// index on the first malformed entry.
func (m *Manifest) Rows() ([]batch.Row, error) {
	rows := make([]batch.Row, 0, len(m.Groups))
	for i, g := range m.Groups {
		group, err := g.toGroup()
		if err != nil {
			return nil, fmt.Errorf("manifest row %d (%s): %w", i, g.Name, err)
		}
		rows = append(rows, batch.Row{Index: i, Group: group})
	}
	return rows, nil
}

// toGroup resolves a group spec into a validated geometry.IGUGroup.
func (g GroupSpec) toGroup() (geometry.IGUGroup, error) {
	glazing, err := geometry.ParseGlazingType(g.Glazing)
	if err != nil {
		return geometry.IGUGroup{}, err
	}
	spacer, err := geometry.ParseSpacerMaterial(g.Spacer)
	if err != nil {
		return geometry.IGUGroup{}, err
	}
	sealant, err := geometry.ParseSealantType(g.Sealant)
	if err != nil {
		return geometry.IGUGroup{}, err
	}

	panes := make([]geometry.Pane, 0, len(g.Panes))
	for _, p := range g.Panes {
		glass := geometry.Annealed
		if p.Glass != "" {
			if glass, err = geometry.ParseGlassType(p.Glass); err != nil {
				return geometry.IGUGroup{}, err
			}
		}
		panes = append(panes, geometry.Pane{ThicknessMM: p.ThicknessMM, Glass: glass})
	}

	group := geometry.IGUGroup{
		Name:           g.Name,
		Quantity:       g.Quantity,
		WidthMM:        g.WidthMM,
		HeightMM:       g.HeightMM,
		Glazing:        glazing,
		Panes:          panes,
		CavityWidthsMM: g.CavitiesMM,
		Spacer:         spacer,
		Sealant:        sealant,
		Condition: geometry.Condition{
			NeedsRepair:      g.Condition.NeedsRepair,
			NeedsRecondition: g.Condition.NeedsRecondition,
			EdgeSealFailed:   g.Condition.EdgeSealFailed,
			VisibleFogging:   g.Condition.VisibleFogging,
			CracksOrChips:    g.Condition.CracksOrChips,
			ReuseAllowed:     g.Condition.ReuseAllowed,
			AgeYears:         g.Condition.AgeYears,
		},
		MassPerM2Override: g.MassPerM2,
	}
	if g.Seal != nil {
		group.Seal = &geometry.SealGeometry{
			PrimaryThicknessMM: g.Seal.PrimaryThicknessMM,
			PrimaryWidthMM:     g.Seal.PrimaryWidthMM,
			SecondaryWidthMM:   g.Seal.SecondaryWidthMM,
		}
	}

	if err := group.Validate(); err != nil {
		return geometry.IGUGroup{}, err
	}
	return group, nil
}
