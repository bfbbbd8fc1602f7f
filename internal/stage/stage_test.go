package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrify/igucycle/internal/flow"
	"github.com/vitrify/igucycle/internal/geometry"
)

func testGroup() geometry.IGUGroup {
	return geometry.IGUGroup{
		Name:           "test",
		Quantity:       1,
		WidthMM:        2500,
		HeightMM:       1500,
		Glazing:        geometry.Double,
		Panes:          []geometry.Pane{{ThicknessMM: 4}, {ThicknessMM: 4}},
		CavityWidthsMM: []float64{16},
	}
}

func testState() flow.State {
	return flow.State{
		Mass:   flow.Masses{Glass: 70, Spacer: 3, Sealant: 2},
		AreaM2: 3.75,
		Units:  1,
		Cargo:  flow.CargoIntact,
	}
}

func TestApplyEmissionBasis(t *testing.T) {
	t.Run("removal costed on input area", func(t *testing.T) {
		next, entries, err := Apply(Step{Kind: KindRemoval, Yield: 0.2, EFPerM2: 1.5}, testGroup(), testState())
		require.NoError(t, err)
		require.Len(t, entries, 1)

		// Input area 3.75 m², even though only 3.0 m² survives.
		assert.InDelta(t, 5.625, entries[0].EmissionKgCO2e, 1e-9)
		assert.InDelta(t, 3.0, next.AreaM2, 1e-9)
	})

	t.Run("repair costed on retained area", func(t *testing.T) {
		next, entries, err := Apply(Step{Kind: KindRepair, Yield: 0.2, EFPerM2: 2.5}, testGroup(), testState())
		require.NoError(t, err)
		require.Len(t, entries, 1)

		// 3.75 m² enters, 3.0 m² survives the repair and is costed.
		assert.InDelta(t, 7.5, entries[0].EmissionKgCO2e, 1e-9)
		assert.InDelta(t, 3.0, next.AreaM2, 1e-9)
		assert.InDelta(t, 7.5, next.Emitted.Process, 1e-9)
	})
}

func TestApplyAuditEntry(t *testing.T) {
	st := testState()
	_, entries, err := Apply(Step{Kind: KindDisassembly, Yield: 0.1, EFPerM2: 0.5}, testGroup(), st)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Disassembly", e.Stage)
	assert.Equal(t, flow.CategoryProcess, e.Category)
	assert.InDelta(t, 75.0, e.MassInKg, 1e-9)
	assert.InDelta(t, 67.5, e.MassOutKg, 1e-9)
	assert.InDelta(t, 7.5, e.WasteKg, 1e-9)
	assert.InDelta(t, e.MassInKg, e.MassOutKg+e.WasteKg, 1e-9)
	assert.NotEmpty(t, e.Formula)
}

func TestApplyGates(t *testing.T) {
	always := func(geometry.IGUGroup, flow.State) bool { return true }
	never := func(geometry.IGUGroup, flow.State) bool { return false }

	t.Run("first matching gate wins", func(t *testing.T) {
		step := Step{
			Kind: KindQualityGate,
			Gates: []Gate{
				{Name: "skipped", Applies: never, Fraction: 0.5, Reason: "skipped"},
				{Name: "first", Applies: always, Fraction: 0.3, Reason: "first match"},
				{Name: "shadowed", Applies: always, Fraction: 0.9, Reason: "never reached"},
			},
		}
		next, entries, err := Apply(step, testGroup(), testState())
		require.NoError(t, err)

		assert.InDelta(t, 75.0*0.7, next.TotalKg(), 1e-9)
		assert.Contains(t, entries[0].Note, "first")
		assert.NotContains(t, entries[0].Note, "shadowed")
	})

	t.Run("no gate falls back to step yield", func(t *testing.T) {
		step := Step{
			Kind:  KindQualityGate,
			Yield: 0.25,
			Gates: []Gate{{Name: "off", Applies: never, Fraction: 1.0}},
		}
		next, entries, err := Apply(step, testGroup(), testState())
		require.NoError(t, err)
		assert.InDelta(t, 75.0*0.75, next.TotalKg(), 1e-9)
		assert.Empty(t, entries[0].Note)
	})
}

func TestLaminatedGate(t *testing.T) {
	gate := LaminatedGate()

	t.Run("rejects laminated build-ups outright", func(t *testing.T) {
		g := testGroup()
		g.Panes[0].Glass = geometry.Laminated

		step := Step{Kind: KindQualityGate, Gates: []Gate{gate}}
		next, entries, err := Apply(step, g, testState())
		require.NoError(t, err)

		assert.Zero(t, next.TotalKg())
		assert.Contains(t, entries[0].Note, "float-purity")
	})

	t.Run("passes annealed build-ups", func(t *testing.T) {
		step := Step{Kind: KindQualityGate, Gates: []Gate{gate}}
		next, _, err := Apply(step, testGroup(), testState())
		require.NoError(t, err)
		assert.InDelta(t, 75.0, next.TotalKg(), 1e-9)
	})
}

func TestApplyBreakingFlipsCargo(t *testing.T) {
	next, _, err := Apply(Step{Kind: KindBreaking, EFPerM2: 0.01}, testGroup(), testState())
	require.NoError(t, err)
	assert.Equal(t, flow.CargoCullet, next.Cargo)
}

func TestApplyAssemblyEmbodied(t *testing.T) {
	step := Step{
		Kind:           KindAssembly,
		EFPerM2:        1.0,
		NewSpacerKg:    2.0,
		NewSealantKg:   1.0,
		SpacerEFPerKg:  8.0,
		SealantEFPerKg: 2.5,
	}
	next, entries, err := Apply(step, testGroup(), testState())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Process entry on retained area plus a separate embodied-new entry.
	assert.InDelta(t, 3.75, entries[0].EmissionKgCO2e, 1e-9)
	assert.Equal(t, flow.CategoryEmbodiedNew, entries[1].Category)
	assert.InDelta(t, 18.5, entries[1].EmissionKgCO2e, 1e-9)

	// New material never enters the recovered-mass balance.
	assert.InDelta(t, 75.0, next.TotalKg(), 1e-9)
	assert.InDelta(t, 18.5, next.Emitted.EmbodiedNew, 1e-9)
}

func TestApplyWholeUnitLoss(t *testing.T) {
	next, entries, err := Apply(Step{Kind: KindRepair, Yield: 0.2, EFPerM2: 2.5, WholeUnit: true}, testGroup(), testState())
	require.NoError(t, err)

	// Whole-unit rejection moves mass only; area and count stay.
	assert.InDelta(t, 60.0, next.TotalKg(), 1e-9)
	assert.InDelta(t, 3.75, next.AreaM2, 1e-9)
	assert.InDelta(t, 1.0, next.Units, 1e-9)
	assert.InDelta(t, 3.75*2.5, entries[0].EmissionKgCO2e, 1e-9)
}

func TestApplyInvalidYield(t *testing.T) {
	_, _, err := Apply(Step{Kind: KindRemoval, Yield: 1.5}, testGroup(), testState())
	assert.ErrorIs(t, err, flow.ErrInvalidYield)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Removal", KindRemoval.String())
	assert.Equal(t, "Installation", KindInstall.String())
	assert.Equal(t, "QualityGate", KindQualityGate.String())
}
