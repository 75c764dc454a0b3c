package topmass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/filter"
)

func TestRankScalingExample(t *testing.T) {
	spec := core.NewSpectrum([]int{40, 41, 42, 43}, []float64{10, 100, 50, 0})

	got := Rank(spec)

	assert.Equal(t, []Mass{
		{Mass: 41, Intensity: 999},
		{Mass: 42, Intensity: 499},
		{Mass: 40, Intensity: 99},
		{Mass: 43, Intensity: 0},
	}, got)
}

func TestRankEmptySpectrum(t *testing.T) {
	assert.Empty(t, Rank(core.Spectrum{}))
	assert.Empty(t, Normalize(nil))
}

func TestRankTruncatesToTopN(t *testing.T) {
	masses := make([]int, 25)
	intensities := make([]float64, 25)
	for i := range masses {
		masses[i] = 50 + i
		intensities[i] = float64(i + 1)
	}

	got := Rank(core.NewSpectrum(masses, intensities))

	require.Len(t, got, core.TopN)
	assert.Equal(t, 74, got[0].Mass)
	assert.Equal(t, 999, got[0].Intensity)
	assert.Equal(t, 65, got[core.TopN-1].Mass)
}

func TestRankTiesKeepMassOrder(t *testing.T) {
	spec := core.NewSpectrum([]int{77, 51, 105, 91}, []float64{40, 40, 100, 40})

	got := Rank(spec)

	require.Len(t, got, 4)
	assert.Equal(t, 105, got[0].Mass)
	assert.Equal(t, []int{77, 51, 91}, []int{got[1].Mass, got[2].Mass, got[3].Mass})
}

func TestRankAllZeroIntensities(t *testing.T) {
	got := Rank(core.NewSpectrum([]int{40, 41}, []float64{0, 0}))
	assert.Equal(t, []Mass{{40, 0}, {41, 0}}, got)
}

func TestRankReferenceDropsLowMasses(t *testing.T) {
	spec := core.NewSpectrum([]int{28, 32, 44, 50, 77}, []float64{1000, 500, 400, 20, 80})

	got := RankReference(spec)

	assert.Equal(t, []Mass{{Mass: 77, Intensity: 999}, {Mass: 50, Intensity: 249}}, got)
}

func TestRankFilteredAppliesIntensityCutoff(t *testing.T) {
	spec := core.NewSpectrum([]int{44, 51, 77, 105}, []float64{1000, 5, 40, 200})
	cfg := filter.ReferenceConfig
	cfg.IntensityCutoff = 10

	got := RankFiltered(spec, cfg)

	assert.Equal(t, []Mass{{Mass: 105, Intensity: 999}, {Mass: 77, Intensity: 199}}, got)
}

func TestRankInvalidSpectrumRanksNothing(t *testing.T) {
	assert.Empty(t, Rank(core.Spectrum{Masses: []int{40}, Intensities: []float64{1, 2}}))
	assert.Empty(t, Rank(core.Spectrum{Masses: []int{40, 41}, Intensities: []float64{1}}))
	assert.Empty(t, Rank(core.NewSpectrum([]int{40}, []float64{-1})))
}

func TestRescale(t *testing.T) {
	assert.Equal(t, 999, Rescale(100))
	assert.Equal(t, 0, Rescale(0))
	assert.Equal(t, 499, Rescale(50))
}

func TestTable(t *testing.T) {
	row := core.AlignedRow{
		Index:   0,
		Samples: []string{"p1", "u"},
		Peaks: map[string]*core.PeakRecord{
			"p1": {
				Name:      "Diphenylamine",
				Reference: core.NewSpectrum([]int{44, 51, 169}, []float64{900, 100, 1000}),
			},
			"u": nil,
		},
		Spectra: map[string]core.Spectrum{
			"p1": core.NewSpectrum([]int{51, 77, 168, 169}, []float64{10, 20, 60, 100}),
			"u":  {},
		},
	}

	tables := Table(row)

	require.Len(t, tables, 2)
	assert.Equal(t, "p1", tables[0].Sample)
	assert.Equal(t, "Diphenylamine", tables[0].Compound)
	require.Len(t, tables[0].Pairs, 4)
	assert.Equal(t, Mass{169, 999}, *tables[0].Pairs[0].Experimental)
	assert.Equal(t, Mass{169, 999}, *tables[0].Pairs[0].Reference)
	assert.Equal(t, Mass{51, 99}, *tables[0].Pairs[1].Reference)
	assert.Nil(t, tables[0].Pairs[2].Reference)
	assert.NotNil(t, tables[0].Pairs[3].Experimental)

	assert.Equal(t, "u", tables[1].Sample)
	assert.Empty(t, tables[1].Compound)
	assert.Empty(t, tables[1].Pairs)
}
