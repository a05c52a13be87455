package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func swissSystem() System {
	return System{
		ID:          "ch",
		Name:        "CH",
		Family:      FamilyCalculative,
		Calculative: &CalculativeDetail{Bottom: 1, Top: 6, BottomPer: 20},
		LegendBands: []Band{
			{ID: "l1", Bottom: 80, Top: 101, Label: "Excellent", Level: 1},
			{ID: "l2", Bottom: 50, Top: 80, Label: "Good", Level: 2},
			{ID: "l3", Bottom: 20, Top: 50, Label: "Poor", Level: 3},
		},
	}
}

func letterSystem() System {
	return System{
		ID:     "us",
		Name:   "Letter",
		Family: FamilyRepresentative,
		Bands: []Band{
			{ID: "b", Bottom: 80, Top: 90, Label: "B", Level: 2},
			{ID: "a", Bottom: 90, Top: 100, Label: "A", Level: 1},
			{ID: "c", Bottom: 70, Top: 80, Label: "C", Level: 3},
		},
	}
}

func TestForSystem(t *testing.T) {
	_, err := ForSystem(swissSystem())
	require.NoError(t, err)

	_, err = ForSystem(letterSystem())
	require.NoError(t, err)

	// declared calculative but detail row missing
	_, err = ForSystem(System{ID: "broken", Family: FamilyCalculative})
	assert.ErrorIs(t, err, ErrConfigurationFault)

	_, err = ForSystem(System{ID: "none", Family: Family("n")})
	assert.ErrorIs(t, err, ErrConfigurationFault)
}

func TestCalculativeResolveSubmission(t *testing.T) {
	r, err := ForSystem(swissSystem())
	require.NoError(t, err)

	tests := []struct {
		name string
		sub  Submission
		want float64
	}{
		{"grade mid-scale", Submission{Grade: f(4)}, 68.0},
		{"grade top", Submission{Grade: f(6)}, 100.0},
		{"grade bottom", Submission{Grade: f(1)}, 20.0},
		{"points pair", Submission{Points: &PointsPair{Total: 20, Earned: 12}}, 68.0},
		{"points reversed", Submission{Points: &PointsPair{Total: 12, Earned: 20}}, 68.0},
		{"raw percent full", Submission{Percent: f(100)}, 100.0},
		{"raw percent zero", Submission{Percent: f(0)}, 20.0},
		{"raw percent mid", Submission{Percent: f(50)}, 60.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveSubmission(tt.sub)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculativeResolveErrors(t *testing.T) {
	r, err := ForSystem(swissSystem())
	require.NoError(t, err)

	for name, sub := range map[string]Submission{
		"empty":         {},
		"two shapes":    {Grade: f(4), Percent: f(80)},
		"zero total":    {Points: &PointsPair{Total: 0, Earned: 0}},
		"band on scale": {BandID: "a"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.ResolveSubmission(sub)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCalculativeDisplayGrade(t *testing.T) {
	r, err := ForSystem(swissSystem())
	require.NoError(t, err)

	tests := []struct {
		pct  float64
		want float64
	}{
		{68, 4.0},
		{100, 6.0},
		{20, 1.0}, // at the floor the lower branch applies: 20/20*1
		{60, 3.5},
		{10, 0.5}, // below the floor: 10/20*1
		{0, 1.0},  // zero short-circuits to the scale bottom
	}
	for _, tt := range tests {
		got, err := r.DisplayGrade(tt.pct)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Value, "pct %v", tt.pct)
	}
}

func TestRepresentativeResolveSubmission(t *testing.T) {
	r, err := ForSystem(letterSystem())
	require.NoError(t, err)

	got, err := r.ResolveSubmission(Submission{BandID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 95.0, got, "label resolves to band midpoint")

	got, err = r.ResolveSubmission(Submission{Points: &PointsPair{Total: 40, Earned: 30}})
	require.NoError(t, err)
	assert.Equal(t, 75.0, got)

	// reversed entry is swapped, not rejected
	swapped, err := r.ResolveSubmission(Submission{Points: &PointsPair{Total: 30, Earned: 40}})
	require.NoError(t, err)
	assert.Equal(t, got, swapped)

	got, err = r.ResolveSubmission(Submission{Percent: f(87.5)})
	require.NoError(t, err)
	assert.Equal(t, 87.5, got, "raw percent passes through")

	_, err = r.ResolveSubmission(Submission{BandID: "nope"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.ResolveSubmission(Submission{Grade: f(4)})
	assert.ErrorIs(t, err, ErrInvalidInput, "numeric grade has no band")
}

func TestRepresentativeDisplayGrade(t *testing.T) {
	r, err := ForSystem(letterSystem())
	require.NoError(t, err)

	got, err := r.DisplayGrade(85)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Label)
	assert.Equal(t, "b", got.BandID)

	// band bounds are bottom inclusive, top exclusive
	got, err = r.DisplayGrade(90)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Label)

	_, err = r.DisplayGrade(42)
	assert.ErrorIs(t, err, ErrNoBand)
}

func TestResolveDisplayRoundTrip(t *testing.T) {
	r, err := ForSystem(letterSystem())
	require.NoError(t, err)

	// strictly inside a band the round trip lands back in the same band
	for _, id := range []string{"a", "b", "c"} {
		pct, err := r.ResolveSubmission(Submission{BandID: id})
		require.NoError(t, err)
		d, err := r.DisplayGrade(pct)
		require.NoError(t, err)
		assert.Equal(t, id, d.BandID)
	}
}

func TestLegendFor(t *testing.T) {
	sys := swissSystem()

	b, ok := LegendFor(sys, 68)
	require.True(t, ok)
	assert.Equal(t, "Good", b.Label)

	// below every legend band: fall back to the one with the smallest top
	b, ok = LegendFor(sys, 5)
	require.True(t, ok)
	assert.Equal(t, "Poor", b.Label)

	_, ok = LegendFor(System{}, 50)
	assert.False(t, ok)
}

func TestRoundTenthHalfToEven(t *testing.T) {
	assert.Equal(t, 68.2, roundTenth(68.25))
	assert.Equal(t, 68.8, roundTenth(68.75))
	assert.Equal(t, 68.3, roundTenth(68.31))
}
