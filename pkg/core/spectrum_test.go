package core

import (
	"errors"
	"math"
	"testing"
)

func TestSpectrumValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spectrum
		wantErr bool
	}{
		{
			name:    "valid spectrum",
			spec:    NewSpectrum([]int{41, 43, 57}, []float64{100, 250, 999}),
			wantErr: false,
		},
		{
			name:    "empty spectrum",
			spec:    Spectrum{},
			wantErr: false,
		},
		{
			name:    "length mismatch",
			spec:    NewSpectrum([]int{41, 43}, []float64{100}),
			wantErr: true,
		},
		{
			name:    "negative intensity",
			spec:    NewSpectrum([]int{41}, []float64{-1}),
			wantErr: true,
		},
		{
			name:    "NaN intensity",
			spec:    NewSpectrum([]int{41}, []float64{math.NaN()}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if err != nil && !errors.As(err, &verr) {
				t.Errorf("Validate() error is %T, want *ValidationError", err)
			}
		})
	}
}

func TestMaxIntensity(t *testing.T) {
	if got := (Spectrum{}).MaxIntensity(); got != 0 {
		t.Errorf("empty spectrum max = %v, want 0", got)
	}

	spec := NewSpectrum([]int{40, 41, 42}, []float64{10, 100, 50})
	if got := spec.MaxIntensity(); got != 100 {
		t.Errorf("MaxIntensity() = %v, want 100", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	spec := NewSpectrum([]int{40, 41}, []float64{1, 2})
	clone := spec.Clone()
	clone.Masses[0] = 99
	clone.Intensities[0] = 99

	if spec.Masses[0] != 40 || spec.Intensities[0] != 1 {
		t.Errorf("Clone shares storage with original: %+v", spec)
	}
}

func TestReportRowNumber(t *testing.T) {
	row := AlignedRow{Index: 0}
	if got := row.ReportRow(); got != 3 {
		t.Errorf("ReportRow() = %d, want 3", got)
	}
	if got := ReportRowNumber(17); got != 20 {
		t.Errorf("ReportRowNumber(17) = %d, want 20", got)
	}
}

func TestPeakCount(t *testing.T) {
	row := AlignedRow{
		Samples: []string{"a", "b", "c"},
		Peaks: map[string]*PeakRecord{
			"a": {PeakNo: 1},
			"b": nil,
			"c": {PeakNo: 4},
		},
	}
	if got := row.PeakCount(); got != 2 {
		t.Errorf("PeakCount() = %d, want 2", got)
	}
}

func TestCheckAligned(t *testing.T) {
	if err := CheckAligned(map[string]int{"a": 3, "b": 3}); err != nil {
		t.Errorf("equal lengths: unexpected error %v", err)
	}

	err := CheckAligned(map[string]int{"a": 3, "b": 4})
	if !errors.Is(err, ErrAlignmentMismatch) {
		t.Fatalf("CheckAligned() = %v, want ErrAlignmentMismatch", err)
	}
	if want := "aligned peak lists differ in length: a=3, b=4"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSampleLabel(t *testing.T) {
	if got := (Sample{ID: "p1"}).Label(); got != "p1" {
		t.Errorf("Label() = %q, want p1", got)
	}
	if got := (Sample{ID: "p1", DisplayName: "Reference A"}).Label(); got != "Reference A" {
		t.Errorf("Label() = %q, want Reference A", got)
	}
}
