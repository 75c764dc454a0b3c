package filter

import (
	"testing"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

func TestMinMass(t *testing.T) {
	spec := core.NewSpectrum([]int{18, 28, 44, 50, 51, 77}, []float64{5, 900, 80, 10, 20, 30})

	got := MinMass(spec, core.ReferenceMinMass)

	wantMasses := []int{50, 51, 77}
	if len(got.Masses) != len(wantMasses) {
		t.Fatalf("MinMass() kept %v, want %v", got.Masses, wantMasses)
	}
	for i, m := range wantMasses {
		if got.Masses[i] != m {
			t.Errorf("mass %d: got %d, want %d", i, got.Masses[i], m)
		}
	}
	if got.Intensities[0] != 10 {
		t.Errorf("intensities not carried with masses: %v", got.Intensities)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	spec := core.NewSpectrum([]int{40, 60, 80}, []float64{1, 100, 50})

	out := Config{MinMass: 50, IntensityCutoff: 60}.Apply(spec)

	if len(spec.Masses) != 3 {
		t.Errorf("input modified: %v", spec.Masses)
	}
	if len(out.Masses) != 1 || out.Masses[0] != 60 {
		t.Errorf("Apply() = %v, want [60]", out.Masses)
	}
}

func TestIntensityCutoffIsRelativeToBasePeak(t *testing.T) {
	spec := core.NewSpectrum([]int{41, 43, 57, 71}, []float64{5, 1000, 20, 9})

	out := Config{IntensityCutoff: 1}.Apply(spec)

	expected := []int{43, 57}
	if len(out.Masses) != len(expected) {
		t.Fatalf("Expected %d peaks, got %v", len(expected), out.Masses)
	}
	for i, m := range expected {
		if out.Masses[i] != m {
			t.Errorf("Peak %d: expected mass %d, got %d", i, m, out.Masses[i])
		}
	}
}

func TestMaxMass(t *testing.T) {
	tests := []struct {
		name   string
		spec   core.Spectrum
		cutoff float64
		want   int
	}{
		{"empty", core.Spectrum{}, core.MaxMassIntensityCutoff, 0},
		{"ignores weak high mass", core.NewSpectrum([]int{41, 43, 300}, []float64{1000, 500, 5}), core.MaxMassIntensityCutoff, 43},
		{"keeps ion at cutoff", core.NewSpectrum([]int{41, 300}, []float64{1000, 10}), core.MaxMassIntensityCutoff, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxMass(tt.spec, tt.cutoff); got != tt.want {
				t.Errorf("MaxMass() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemoveZeroIntensity(t *testing.T) {
	spec := core.NewSpectrum([]int{40, 41, 42}, []float64{0, 3, -1})
	out := RemoveZeroIntensity(spec)
	if len(out.Masses) != 1 || out.Masses[0] != 41 {
		t.Errorf("RemoveZeroIntensity() = %v, want [41]", out.Masses)
	}
}
