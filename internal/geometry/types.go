// Package geometry models IGU build-ups and derives material masses from
// them.
//
// An IGUGroup describes a homogeneous set of identical units: same
// dimensions, pane composition and condition. Mass derivation supports two
// modes: a detailed build-up calculation (glass + spacer + sealant from
// densities and seal geometry) and a fallback surface-mass model (kg/m² by
// glazing type) for manifests that lack seal details.
package geometry

import (
	"fmt"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidGeometry reports a build-up that cannot be computed: zero or
// negative dimensions, or a pane count inconsistent with the glazing type.
// It is fatal for the run that supplied it and is never retried.
const ErrInvalidGeometry = constError("invalid geometry")

// GlazingType identifies the number of panes in the build-up.
type GlazingType int

const (
	Single GlazingType = iota + 1
	Double
	Triple
)

// String returns the lowercase name used in manifests and reports.
func (g GlazingType) String() string {
	switch g {
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	default:
		return fmt.Sprintf("GlazingType(%d)", int(g))
	}
}

// Panes returns the pane count implied by the glazing type.
func (g GlazingType) Panes() int { return int(g) }

// ParseGlazingType maps a manifest string onto a GlazingType.
func ParseGlazingType(s string) (GlazingType, error) {
	switch s {
	case "single":
		return Single, nil
	case "double":
		return Double, nil
	case "triple":
		return Triple, nil
	default:
		return 0, fmt.Errorf("%w: unknown glazing type %q", ErrInvalidGeometry, s)
	}
}

// GlassType identifies the treatment of an individual pane.
type GlassType int

const (
	Annealed GlassType = iota
	Tempered
	Laminated
)

// String returns the lowercase name used in manifests and reports.
func (g GlassType) String() string {
	switch g {
	case Annealed:
		return "annealed"
	case Tempered:
		return "tempered"
	case Laminated:
		return "laminated"
	default:
		return fmt.Sprintf("GlassType(%d)", int(g))
	}
}

// ParseGlassType maps a manifest string onto a GlassType.
func ParseGlassType(s string) (GlassType, error) {
	switch s {
	case "annealed":
		return Annealed, nil
	case "tempered":
		return Tempered, nil
	case "laminated":
		return Laminated, nil
	default:
		return 0, fmt.Errorf("%w: unknown glass type %q", ErrInvalidGeometry, s)
	}
}

// SpacerMaterial selects the spacer bar material, which scales its linear mass.
type SpacerMaterial int

const (
	SpacerAluminium SpacerMaterial = iota
	SpacerSteel
	SpacerWarmEdge
)

// massFactor returns the linear-mass multiplier relative to aluminium.
func (s SpacerMaterial) massFactor() float64 {
	switch s {
	case SpacerSteel:
		return 2.0
	case SpacerWarmEdge:
		return 0.6
	default:
		return 1.0
	}
}

// String returns the lowercase name used in manifests and reports.
func (s SpacerMaterial) String() string {
	switch s {
	case SpacerAluminium:
		return "aluminium"
	case SpacerSteel:
		return "steel"
	case SpacerWarmEdge:
		return "warm_edge"
	default:
		return fmt.Sprintf("SpacerMaterial(%d)", int(s))
	}
}

// ParseSpacerMaterial maps a manifest string onto a SpacerMaterial.
func ParseSpacerMaterial(s string) (SpacerMaterial, error) {
	switch s {
	case "aluminium", "":
		return SpacerAluminium, nil
	case "steel":
		return SpacerSteel, nil
	case "warm_edge", "warm_edge_composite":
		return SpacerWarmEdge, nil
	default:
		return 0, fmt.Errorf("%w: unknown spacer material %q", ErrInvalidGeometry, s)
	}
}

// SealantType selects the secondary sealant, which scales sealant density.
type SealantType int

const (
	SealantPolysulfide SealantType = iota
	SealantPolyurethane
	SealantSilicone
)

// densityFactor returns the density multiplier relative to polysulfide.
func (s SealantType) densityFactor() float64 {
	switch s {
	case SealantPolyurethane:
		return 0.85
	case SealantSilicone:
		return 0.82
	default:
		return 1.0
	}
}

// String returns the lowercase name used in manifests and reports.
func (s SealantType) String() string {
	switch s {
	case SealantPolysulfide:
		return "polysulfide"
	case SealantPolyurethane:
		return "polyurethane"
	case SealantSilicone:
		return "silicone"
	default:
		return fmt.Sprintf("SealantType(%d)", int(s))
	}
}

// ParseSealantType maps a manifest string onto a SealantType.
func ParseSealantType(s string) (SealantType, error) {
	switch s {
	case "polysulfide", "":
		return SealantPolysulfide, nil
	case "polyurethane":
		return SealantPolyurethane, nil
	case "silicone":
		return SealantSilicone, nil
	default:
		return 0, fmt.Errorf("%w: unknown sealant type %q", ErrInvalidGeometry, s)
	}
}

// Pane is one glass layer of the build-up.
type Pane struct {
	ThicknessMM float64
	Glass       GlassType
}

// SealGeometry holds the seal cross-section settings shared by a batch.
// Secondary seal thickness is not constant; it is derived from the cavity
// widths per glazing type.
type SealGeometry struct {
	PrimaryThicknessMM float64
	PrimaryWidthMM     float64
	SecondaryWidthMM   float64
}

// Condition captures the visual inspection state of a group.
type Condition struct {
	NeedsRepair      bool
	NeedsRecondition bool
	EdgeSealFailed   bool
	VisibleFogging   bool
	CracksOrChips    bool
	ReuseAllowed     bool
	AgeYears         float64
}

// IGUGroup describes a homogeneous group of IGUs with identical geometry,
// build-up and condition.
type IGUGroup struct {
	Name           string
	Quantity       int
	WidthMM        float64
	HeightMM       float64
	Glazing        GlazingType
	Panes          []Pane
	CavityWidthsMM []float64
	Spacer         SpacerMaterial
	Sealant        SealantType
	Seal           *SealGeometry
	Condition      Condition

	// MassPerM2Override bypasses the fallback surface-mass table when > 0.
	MassPerM2Override float64
}

// Validate enforces the structural invariants of the build-up.
func (g IGUGroup) Validate() error {
	if g.Quantity < 1 {
		return fmt.Errorf("%w: quantity %d, want >= 1", ErrInvalidGeometry, g.Quantity)
	}
	if g.WidthMM <= 0 || g.HeightMM <= 0 {
		return fmt.Errorf("%w: dimensions %gx%g mm, want > 0", ErrInvalidGeometry, g.WidthMM, g.HeightMM)
	}
	if g.Glazing < Single || g.Glazing > Triple {
		return fmt.Errorf("%w: unknown glazing type %d", ErrInvalidGeometry, int(g.Glazing))
	}
	if len(g.Panes) != g.Glazing.Panes() {
		return fmt.Errorf("%w: %s glazing declares %d panes, got %d",
			ErrInvalidGeometry, g.Glazing, g.Glazing.Panes(), len(g.Panes))
	}
	for i, p := range g.Panes {
		if p.ThicknessMM <= 0 {
			return fmt.Errorf("%w: pane %d thickness %g mm, want > 0", ErrInvalidGeometry, i, p.ThicknessMM)
		}
	}
	if want := g.Glazing.Panes() - 1; len(g.CavityWidthsMM) != want {
		return fmt.Errorf("%w: %s glazing wants %d cavities, got %d",
			ErrInvalidGeometry, g.Glazing, want, len(g.CavityWidthsMM))
	}
	for i, c := range g.CavityWidthsMM {
		if c <= 0 {
			return fmt.Errorf("%w: cavity %d width %g mm, want > 0", ErrInvalidGeometry, i, c)
		}
	}
	if g.Seal != nil {
		if g.Seal.PrimaryThicknessMM <= 0 || g.Seal.PrimaryWidthMM <= 0 || g.Seal.SecondaryWidthMM <= 0 {
			return fmt.Errorf("%w: seal cross-section dimensions must be > 0", ErrInvalidGeometry)
		}
	}
	return nil
}

// HasLaminated reports whether any pane in the build-up is laminated glass.
// Laminated glass is rejected outright by float-plant purity gates.
func (g IGUGroup) HasLaminated() bool {
	for _, p := range g.Panes {
		if p.Glass == Laminated {
			return true
		}
	}
	return false
}

// AreaM2 returns the surface area of one unit in m².
func (g IGUGroup) AreaM2() float64 {
	return (g.WidthMM / 1000.0) * (g.HeightMM / 1000.0)
}

// PerimeterM returns the frame perimeter of one unit in metres.
func (g IGUGroup) PerimeterM() float64 {
	return 2.0 * (g.WidthMM/1000.0 + g.HeightMM/1000.0)
}
