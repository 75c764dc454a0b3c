package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

func peak(no int, area float64) *core.PeakRecord {
	return &core.PeakRecord{
		PeakNo:   no,
		Area:     area,
		Combined: core.NewSpectrum([]int{40 + no}, []float64{area}),
	}
}

func TestMaxPeakAreaAndPercentages(t *testing.T) {
	p := &Profile{
		Sample: core.Sample{ID: "p1"},
		Peaks:  []*core.PeakRecord{peak(1, 50), nil, peak(2, 200), peak(3, 100)},
	}

	assert.Equal(t, 200.0, p.MaxPeakArea())
	assert.Equal(t, 3, p.PeakCount())

	p.FillAreaPercentages()
	assert.InDelta(t, 0.25, p.Peaks[0].AreaPercentage, 1e-12)
	assert.InDelta(t, 1.0, p.Peaks[2].AreaPercentage, 1e-12)

	empty := &Profile{Peaks: []*core.PeakRecord{nil, nil}}
	assert.Zero(t, empty.MaxPeakArea())
	empty.FillAreaPercentages()
}

func TestRowsTwoProfilesKeepsEveryRow(t *testing.T) {
	p1 := &Profile{Sample: core.Sample{ID: "p1"}, Peaks: []*core.PeakRecord{peak(1, 10), nil}}
	p2 := &Profile{Sample: core.Sample{ID: "p2"}, Peaks: []*core.PeakRecord{nil, peak(1, 5)}}

	rows, err := Rows(p1, p2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].ReportRow())
	assert.Equal(t, []string{"p1", "p2"}, rows[0].Samples)
	assert.NotNil(t, rows[0].Peak("p1"))
	assert.Nil(t, rows[0].Peak("p2"))
	assert.True(t, rows[0].Spectra["p2"].Empty())
	assert.False(t, rows[0].Spectra["p1"].Empty())
}

func TestRowsThreeProfilesDropsSparseRows(t *testing.T) {
	p1 := &Profile{Sample: core.Sample{ID: "p1"}, Peaks: []*core.PeakRecord{peak(1, 10), peak(2, 10), nil}}
	u := &Profile{Sample: core.Sample{ID: "u"}, Peaks: []*core.PeakRecord{nil, peak(1, 10), nil}}
	p2 := &Profile{Sample: core.Sample{ID: "p2"}, Peaks: []*core.PeakRecord{nil, nil, peak(1, 10)}}

	rows, err := Rows(p1, u, p2)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// report numbering follows the padded position, not the emitted position
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 4, rows[0].ReportRow())
}

func TestRowsAlignmentMismatch(t *testing.T) {
	p1 := &Profile{Sample: core.Sample{ID: "p1"}, Peaks: []*core.PeakRecord{peak(1, 10), nil}}
	p2 := &Profile{Sample: core.Sample{ID: "p2"}, Peaks: []*core.PeakRecord{nil}}

	_, err := Rows(p1, p2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAlignmentMismatch))
}

func TestRowsDuplicateSampleID(t *testing.T) {
	p1 := &Profile{Sample: core.Sample{ID: "p1"}}
	_, err := Rows(p1, p1)
	assert.Error(t, err)
}

func TestDisplayNames(t *testing.T) {
	p1 := &Profile{Sample: core.Sample{ID: "a", DisplayName: "Shooter A"}}
	u := &Profile{Sample: core.Sample{ID: "b", DisplayName: "Shooter A"}}
	p2 := &Profile{Sample: core.Sample{ID: "c"}}

	names := DisplayNames(p1, u, p2)

	assert.Equal(t, "Shooter A", names["a"])
	assert.Equal(t, "Shooter A (1)", names["b"])
	assert.Equal(t, "c", names["c"])
	assert.Equal(t, "Shooter A", p1.Sample.DisplayName, "display names are not mutated")
}

func TestValidate(t *testing.T) {
	p := &Profile{Sample: core.Sample{ID: "p1"}, Peaks: []*core.PeakRecord{
		nil,
		{Combined: core.NewSpectrum([]int{41, 43}, []float64{1})},
	}}
	err := p.Validate()
	require.Error(t, err)
	var verr *core.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestValidateRejectsBadArea(t *testing.T) {
	for _, area := range []float64{-1, math.NaN(), math.Inf(1)} {
		p := &Profile{Sample: core.Sample{ID: "p1"}, Peaks: []*core.PeakRecord{nil, peak(1, 10)}}
		p.Peaks[1].Area = area

		err := p.Validate()
		require.Error(t, err, "area %v", area)
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Area", verr.Field)
		assert.Contains(t, verr.Message, "row 4")
	}

	zero := &Profile{Sample: core.Sample{ID: "p1"}, Peaks: []*core.PeakRecord{peak(1, 0)}}
	assert.NoError(t, zero.Validate())
}
