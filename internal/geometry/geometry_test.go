package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrify/igucycle/internal/params"
)

func validDouble() IGUGroup {
	return IGUGroup{
		Name:           "test-double",
		Quantity:       2,
		WidthMM:        1000,
		HeightMM:       1000,
		Glazing:        Double,
		Panes:          []Pane{{ThicknessMM: 4}, {ThicknessMM: 4}},
		CavityWidthsMM: []float64{12},
		Seal: &SealGeometry{
			PrimaryThicknessMM: 3,
			PrimaryWidthMM:     9,
			SecondaryWidthMM:   6,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IGUGroup)
		ok     bool
	}{
		{name: "valid", mutate: func(*IGUGroup) {}, ok: true},
		{name: "zero quantity", mutate: func(g *IGUGroup) { g.Quantity = 0 }},
		{name: "negative width", mutate: func(g *IGUGroup) { g.WidthMM = -1 }},
		{name: "pane count mismatch", mutate: func(g *IGUGroup) { g.Panes = g.Panes[:1] }},
		{name: "zero pane thickness", mutate: func(g *IGUGroup) { g.Panes[0].ThicknessMM = 0 }},
		{name: "cavity count mismatch", mutate: func(g *IGUGroup) { g.CavityWidthsMM = nil }},
		{name: "negative cavity", mutate: func(g *IGUGroup) { g.CavityWidthsMM[0] = -5 }},
		{name: "bad seal cross-section", mutate: func(g *IGUGroup) { g.Seal.PrimaryWidthMM = 0 }},
		{name: "unknown glazing", mutate: func(g *IGUGroup) { g.Glazing = GlazingType(9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validDouble()
			tt.mutate(&g)
			err := g.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidGeometry)
			}
		})
	}
}

func TestAreaAndPerimeter(t *testing.T) {
	g := validDouble()
	g.WidthMM = 2500
	g.HeightMM = 1500

	assert.InDelta(t, 3.75, g.AreaM2(), 1e-9)
	assert.InDelta(t, 8.0, g.PerimeterM(), 1e-9)
}

func TestHasLaminated(t *testing.T) {
	g := validDouble()
	assert.False(t, g.HasLaminated())

	g.Panes[1].Glass = Laminated
	assert.True(t, g.HasLaminated())
}

func TestParsers(t *testing.T) {
	t.Run("glazing", func(t *testing.T) {
		for _, gt := range []GlazingType{Single, Double, Triple} {
			got, err := ParseGlazingType(gt.String())
			require.NoError(t, err)
			assert.Equal(t, gt, got)
		}
		_, err := ParseGlazingType("quad")
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("glass", func(t *testing.T) {
		for _, gt := range []GlassType{Annealed, Tempered, Laminated} {
			got, err := ParseGlassType(gt.String())
			require.NoError(t, err)
			assert.Equal(t, gt, got)
		}
		_, err := ParseGlassType("wired")
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("spacer defaults to aluminium", func(t *testing.T) {
		got, err := ParseSpacerMaterial("")
		require.NoError(t, err)
		assert.Equal(t, SpacerAluminium, got)
	})

	t.Run("sealant defaults to polysulfide", func(t *testing.T) {
		got, err := ParseSealantType("")
		require.NoError(t, err)
		assert.Equal(t, SealantPolysulfide, got)
	})
}

func TestDeriveDetailed(t *testing.T) {
	reg := params.DefaultRegistry()
	g := validDouble()

	b, err := Derive(g, reg)
	require.NoError(t, err)

	// 2 units of 1 m², 8 mm of glass at 2500 kg/m³.
	assert.InDelta(t, 2.0, b.AreaM2, 1e-9)
	assert.InDelta(t, 8.0, b.PerimeterM, 1e-9)
	assert.InDelta(t, 40.0, b.GlassKg, 1e-9)

	// Sealant: primary 3x9 mm plus secondary 12x6 mm cross-sections over 8 m
	// of perimeter at 1500 kg/m³.
	assert.InDelta(t, 1.188, b.SealantKg, 1e-6)

	// Spacer: one cavity, 0.16 kg/m over 8 m.
	assert.InDelta(t, 1.28, b.SpacerKg, 1e-9)

	assert.InDelta(t, b.GlassKg+b.SpacerKg+b.SealantKg, b.TotalKg(), 1e-9)
	assert.Equal(t, 2, b.Units)
}

func TestDeriveMaterialFactors(t *testing.T) {
	reg := params.DefaultRegistry()

	base := validDouble()
	baseB, err := Derive(base, reg)
	require.NoError(t, err)

	t.Run("steel spacer doubles spacer mass", func(t *testing.T) {
		g := validDouble()
		g.Spacer = SpacerSteel
		b, err := Derive(g, reg)
		require.NoError(t, err)
		assert.InDelta(t, baseB.SpacerKg*2.0, b.SpacerKg, 1e-9)
	})

	t.Run("warm edge spacer lightens", func(t *testing.T) {
		g := validDouble()
		g.Spacer = SpacerWarmEdge
		b, err := Derive(g, reg)
		require.NoError(t, err)
		assert.InDelta(t, baseB.SpacerKg*0.6, b.SpacerKg, 1e-9)
	})

	t.Run("silicone sealant lighter than polysulfide", func(t *testing.T) {
		g := validDouble()
		g.Sealant = SealantSilicone
		b, err := Derive(g, reg)
		require.NoError(t, err)
		assert.InDelta(t, baseB.SealantKg*0.82, b.SealantKg, 1e-9)
	})
}

func TestDeriveTripleSecondarySeal(t *testing.T) {
	reg := params.DefaultRegistry()

	// The widest cavity sets the secondary seal thickness for triple glazing.
	g := validDouble()
	g.Glazing = Triple
	g.Panes = []Pane{{ThicknessMM: 4}, {ThicknessMM: 4}, {ThicknessMM: 4}}
	g.CavityWidthsMM = []float64{12, 16}

	wide := g
	wide.CavityWidthsMM = []float64{16, 12}

	b1, err := Derive(g, reg)
	require.NoError(t, err)
	b2, err := Derive(wide, reg)
	require.NoError(t, err)
	assert.InDelta(t, b1.SealantKg, b2.SealantKg, 1e-9)
}

func TestDeriveFallback(t *testing.T) {
	reg := params.DefaultRegistry()

	t.Run("table by glazing type", func(t *testing.T) {
		g := IGUGroup{
			Quantity: 1,
			WidthMM:  2000, HeightMM: 1500,
			Glazing:        Single,
			Panes:          []Pane{{ThicknessMM: 4}},
			CavityWidthsMM: nil,
		}
		b, err := Derive(g, reg)
		require.NoError(t, err)

		// 3 m² at the single-glazing fallback of 10 kg/m², all on the glass
		// stream.
		assert.InDelta(t, 30.0, b.GlassKg, 1e-9)
		assert.Zero(t, b.SpacerKg)
		assert.Zero(t, b.SealantKg)
	})

	t.Run("override wins", func(t *testing.T) {
		g := validDouble()
		g.Seal = nil
		g.MassPerM2Override = 25
		b, err := Derive(g, reg)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, b.TotalKg(), 1e-9)
	})
}
