package msp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

const sampleLibrary = `Name: Diphenylamine
Synon: N-Phenylaniline
CAS#: 122-39-4
Formula: C12H11N
MW: 169
Num Peaks: 5
51 40; 77 80; 168 600;
169 999; 170 130;

Name: Ethyl centralite
Formula: C17H20N2O
MW: 268
Num peaks: 3
120	999
148	450
268	120
`

func TestReaderParsesEntries(t *testing.T) {
	r := NewReader(strings.NewReader(sampleLibrary))

	require.True(t, r.Next())
	dpa := r.Entry()
	assert.Equal(t, "Diphenylamine", dpa.Name)
	assert.Equal(t, []string{"N-Phenylaniline"}, dpa.Synonyms)
	assert.Equal(t, "122-39-4", dpa.CASNumber)
	assert.Equal(t, "C12H11N", dpa.Formula)
	assert.Equal(t, 169.0, dpa.MolecularWeight)
	assert.Equal(t, []int{51, 77, 168, 169, 170}, dpa.Spectrum.Masses)
	assert.Equal(t, []float64{40, 80, 600, 999, 130}, dpa.Spectrum.Intensities)

	require.True(t, r.Next())
	ec := r.Entry()
	assert.Equal(t, "Ethyl centralite", ec.Name)
	assert.Equal(t, []int{120, 148, 268}, ec.Spectrum.Masses)

	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
	assert.Nil(t, r.Entry())
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short peak list", "Name: X\nNum Peaks: 3\n41 10; 43 20\n\n"},
		{"odd pair", "Name: X\nNum Peaks: 2\n41 10 43\n"},
		{"bad mass", "Name: X\nNum Peaks: 1\nabc 10\n"},
		{"bad count", "Name: X\nNum Peaks: many\n"},
		{"missing count", "Name: X\nMW: 10\n"},
		{"peaks before name", "Num Peaks: 1\n41 10\n"},
		{"garbage header", "Name: X\nnot a header\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			assert.False(t, r.Next())
			assert.Error(t, r.Err())
		})
	}
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader("\n\n"))
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestLibraryLookupAndResolve(t *testing.T) {
	lib, err := LoadLibrary(strings.NewReader(sampleLibrary))
	require.NoError(t, err)

	entry, ok := lib.Lookup("  DIPHENYLAMINE ")
	require.True(t, ok)
	assert.Equal(t, "Diphenylamine", entry.Name)

	bySynonym, ok := lib.Lookup("n-phenylaniline")
	require.True(t, ok)
	assert.Same(t, entry, bySynonym)

	_, ok = lib.Lookup("Nitroglycerin")
	assert.False(t, ok)

	inline := core.NewSpectrum([]int{1}, []float64{1})
	peaks := []*core.PeakRecord{
		{Name: "Diphenylamine"},
		nil,
		{Name: "Ethyl Centralite", Reference: inline},
		{Name: "Unknown"},
	}

	assert.Equal(t, 1, lib.Resolve(peaks))
	assert.Equal(t, entry.Spectrum, peaks[0].Reference)
	assert.Equal(t, inline, peaks[2].Reference, "inline reference spectra are kept")
	assert.True(t, peaks[3].Reference.Empty())

	// resolved spectra are copies
	peaks[0].Reference.Intensities[0] = -1
	assert.Equal(t, 40.0, entry.Spectrum.Intensities[0])
}
