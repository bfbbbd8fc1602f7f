package geometry

import (
	"fmt"

	"github.com/vitrify/igucycle/internal/params"
)

// Breakdown is the derived mass and area budget for a whole group.
// Masses are totals across all units, in kg.
type Breakdown struct {
	GlassKg    float64
	SpacerKg   float64
	SealantKg  float64
	AreaM2     float64
	PerimeterM float64
	Units      int
}

// TotalKg returns the summed material mass of the group.
func (b Breakdown) TotalKg() float64 {
	return b.GlassKg + b.SpacerKg + b.SealantKg
}

// Derive computes the material breakdown for a group.
//
// With seal geometry present it sums the three material streams from first
// principles (densities, cross-sections, cavity-derived secondary seal
// thickness). Without it, total mass falls back to the per-m² surface-mass
// table and is attributed entirely to the glass stream, which dominates IGU
// mass in practice.
func Derive(g IGUGroup, reg *params.Registry) (Breakdown, error) {
	if err := g.Validate(); err != nil {
		return Breakdown{}, err
	}

	area := g.AreaM2() * float64(g.Quantity)
	perimeter := g.PerimeterM() * float64(g.Quantity)

	if g.Seal == nil {
		massPerM2 := g.MassPerM2Override
		if massPerM2 <= 0 {
			var err error
			massPerM2, err = fallbackMassPerM2(g.Glazing, reg)
			if err != nil {
				return Breakdown{}, err
			}
		}
		return Breakdown{
			GlassKg:    area * massPerM2,
			AreaM2:     area,
			PerimeterM: perimeter,
			Units:      g.Quantity,
		}, nil
	}

	glassDensity, err := reg.Float(params.KeyGlassDensity)
	if err != nil {
		return Breakdown{}, err
	}
	sealantDensity, err := reg.Float(params.KeySealantDensity)
	if err != nil {
		return Breakdown{}, err
	}
	spacerMassPerM, err := reg.Float(params.KeySpacerMassPerM)
	if err != nil {
		return Breakdown{}, err
	}

	// Glass: area × summed pane thickness × density.
	var paneThicknessM float64
	for _, p := range g.Panes {
		paneThicknessM += p.ThicknessMM / 1000.0
	}
	glassKg := area * paneThicknessM * glassDensity

	// Sealant: perimeter × cross-section × density, primary plus secondary.
	primaryCrossM2 := (g.Seal.PrimaryThicknessMM / 1000.0) * (g.Seal.PrimaryWidthMM / 1000.0)
	secondaryCrossM2 := (secondarySealThicknessMM(g) / 1000.0) * (g.Seal.SecondaryWidthMM / 1000.0)
	sealantKg := perimeter * (primaryCrossM2 + secondaryCrossM2) * sealantDensity * g.Sealant.densityFactor()

	// Spacer: one bar run per cavity.
	cavities := float64(g.Glazing.Panes() - 1)
	spacerKg := perimeter * cavities * spacerMassPerM * g.Spacer.massFactor()

	return Breakdown{
		GlassKg:    glassKg,
		SpacerKg:   spacerKg,
		SealantKg:  sealantKg,
		AreaM2:     area,
		PerimeterM: perimeter,
		Units:      g.Quantity,
	}, nil
}

// secondarySealThicknessMM derives the secondary seal thickness from the
// cavity widths: the cavity for double glazing, the widest cavity for
// triple, zero for single.
func secondarySealThicknessMM(g IGUGroup) float64 {
	switch g.Glazing {
	case Double:
		return g.CavityWidthsMM[0]
	case Triple:
		widest := g.CavityWidthsMM[0]
		if g.CavityWidthsMM[1] > widest {
			widest = g.CavityWidthsMM[1]
		}
		return widest
	default:
		return 0.0
	}
}

// fallbackMassPerM2 returns the surface-mass default for the glazing type.
func fallbackMassPerM2(gt GlazingType, reg *params.Registry) (float64, error) {
	switch gt {
	case Single:
		return reg.Float(params.KeyMassPerM2Single)
	case Double:
		return reg.Float(params.KeyMassPerM2Double)
	case Triple:
		return reg.Float(params.KeyMassPerM2Triple)
	default:
		return 0, fmt.Errorf("%w: unknown glazing type %d", ErrInvalidGeometry, int(gt))
	}
}
