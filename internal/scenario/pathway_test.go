package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPathways(t *testing.T) {
	all := All()
	require.Len(t, all, 11)

	seen := map[string]bool{}
	for _, p := range all {
		assert.False(t, seen[p.String()], "duplicate identifier %s", p)
		seen[p.String()] = true
		assert.NotContains(t, p.String(), " ")
		assert.NotEmpty(t, p.Title())
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, p := range All() {
		got, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := Parse("incineration")
	assert.ErrorIs(t, err, ErrUnknownPathway)
}

func TestRoutePlanEndpoints(t *testing.T) {
	rp := testRoutes()

	tests := []struct {
		leg      LegID
		from, to string
	}{
		{LegOriginToProcessor, "Site", "Works"},
		{LegProcessorToDestination, "Works", "New Site"},
		{LegProcessorToRecycler, "Works", "Float Plant"},
		{LegOriginToLandfill, "Site", "Tip"},
		{LegProcessorToLandfill, "Works", "Tip"},
	}
	for _, tt := range tests {
		t.Run(tt.leg.String(), func(t *testing.T) {
			from, to, err := rp.endpoints(tt.leg)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from.Name)
			assert.Equal(t, tt.to, to.Name)
		})
	}

	_, _, err := rp.endpoints(LegID(99))
	assert.Error(t, err)
}

func TestDisposalLegFollowsSite(t *testing.T) {
	assert.Equal(t, LegOriginToLandfill, disposalLeg(false))
	assert.Equal(t, LegProcessorToLandfill, disposalLeg(true))
}
