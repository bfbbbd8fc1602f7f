package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() State {
	return State{
		Mass:   Masses{Glass: 60, Spacer: 10, Sealant: 5},
		AreaM2: 3.0,
		Units:  2.0,
		Cargo:  CargoIntact,
	}
}

func TestApplyYieldLoss(t *testing.T) {
	t.Run("fractional loss scales everything", func(t *testing.T) {
		next, waste, err := ApplyYieldLoss(testState(), 0.2, false)
		require.NoError(t, err)

		assert.InDelta(t, 60.0, next.TotalKg(), 1e-9)
		assert.InDelta(t, 15.0, waste.Total(), 1e-9)
		assert.InDelta(t, 2.4, next.AreaM2, 1e-9)
		assert.InDelta(t, 1.6, next.Units, 1e-9)
		assert.InDelta(t, 48.0, next.Mass.Glass, 1e-9)
		assert.InDelta(t, 12.0, waste.Glass, 1e-9)
	})

	t.Run("whole-unit loss keeps area and count", func(t *testing.T) {
		next, waste, err := ApplyYieldLoss(testState(), 0.2, true)
		require.NoError(t, err)

		assert.InDelta(t, 60.0, next.TotalKg(), 1e-9)
		assert.InDelta(t, 15.0, waste.Total(), 1e-9)
		assert.InDelta(t, 3.0, next.AreaM2, 1e-9)
		assert.InDelta(t, 2.0, next.Units, 1e-9)
	})

	t.Run("full rejection", func(t *testing.T) {
		next, waste, err := ApplyYieldLoss(testState(), 1.0, false)
		require.NoError(t, err)

		assert.Zero(t, next.TotalKg())
		assert.InDelta(t, 75.0, waste.Total(), 1e-9)
		assert.Zero(t, next.AreaM2)
	})

	t.Run("zero loss is identity", func(t *testing.T) {
		s := testState()
		next, waste, err := ApplyYieldLoss(s, 0.0, false)
		require.NoError(t, err)
		assert.Equal(t, s.Mass, next.Mass)
		assert.Zero(t, waste.Total())
	})

	t.Run("out-of-range fraction", func(t *testing.T) {
		for _, f := range []float64{-0.1, 1.1} {
			_, _, err := ApplyYieldLoss(testState(), f, false)
			assert.ErrorIs(t, err, ErrInvalidYield)
		}
	})

	t.Run("accounted mass is conserved", func(t *testing.T) {
		s := testState()
		initial := s.AccountedKg()
		for _, f := range []float64{0.1, 0.5, 0.9} {
			next, _, err := ApplyYieldLoss(s, f, false)
			require.NoError(t, err)
			assert.InDelta(t, initial, next.AccountedKg(), 1e-9)
			s = next
		}
	})
}

func TestCheckBalance(t *testing.T) {
	in := Masses{Glass: 10, Spacer: 2, Sealant: 1}

	t.Run("balanced", func(t *testing.T) {
		err := CheckBalance(in, Masses{Glass: 8, Spacer: 2, Sealant: 1}, Masses{Glass: 2})
		assert.NoError(t, err)
	})

	t.Run("violation names the stream", func(t *testing.T) {
		err := CheckBalance(in, Masses{Glass: 8, Spacer: 2, Sealant: 1}, Masses{})
		require.ErrorIs(t, err, ErrMassBalance)
		assert.Contains(t, err.Error(), "glass")
	})

	t.Run("tolerates float noise", func(t *testing.T) {
		err := CheckBalance(
			Masses{Glass: 1000},
			Masses{Glass: 1000 * (1 - 1e-9)},
			Masses{},
		)
		assert.NoError(t, err)
	})
}

func TestEmissionsAccounting(t *testing.T) {
	var e Emissions
	e = e.Add(CategoryProcess, 5.0)
	e = e.Add(CategoryTransport, 2.0)
	e = e.Add(CategoryEmbodiedNew, 1.5)
	e = e.Add(CategoryProcess, 0.5)

	assert.InDelta(t, 5.5, e.Process, 1e-9)
	assert.InDelta(t, 2.0, e.Transport, 1e-9)
	assert.InDelta(t, 1.5, e.EmbodiedNew, 1e-9)
	assert.InDelta(t, 9.0, e.Total(), 1e-9)
}

func TestStateAddEmission(t *testing.T) {
	s := testState()
	s2 := s.AddEmission(CategoryTransport, 3.0)

	assert.Zero(t, s.Emitted.Total())
	assert.InDelta(t, 3.0, s2.Emitted.Transport, 1e-9)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "glass", StreamGlass.String())
	assert.Equal(t, "process", CategoryProcess.String())
	assert.Equal(t, "transport", CategoryTransport.String())
	assert.Equal(t, "embodied_new", CategoryEmbodiedNew.String())
	assert.Equal(t, "intact", CargoIntact.String())
	assert.Equal(t, "cullet", CargoCullet.String())
}
