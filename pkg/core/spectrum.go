// Package core provides the shared value types, named constants and error kinds
// used by the GC-MS comparison engine.
package core

import (
	"fmt"
	"math"
	"strings"
)

// Spectrum is a mass spectrum: integer masses paired index-for-index with intensities.
// An empty spectrum means "no peak" or "no data".
type Spectrum struct {
	Masses      []int     `json:"masses"`
	Intensities []float64 `json:"intensities"`
}

// ValidationError represents an error found during spectrum validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// NewSpectrum builds a spectrum from mass and intensity lists.
func NewSpectrum(masses []int, intensities []float64) Spectrum {
	return Spectrum{Masses: masses, Intensities: intensities}
}

// Validate checks that a spectrum meets all requirements for scoring.
func (s Spectrum) Validate() error {
	var errs []string

	if len(s.Masses) != len(s.Intensities) {
		errs = append(errs, fmt.Sprintf("%d masses but %d intensities", len(s.Masses), len(s.Intensities)))
	}

	for i, intensity := range s.Intensities {
		if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		} else if intensity < 0 {
			errs = append(errs, fmt.Sprintf("peak %d intensity must be non-negative", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Spectrum",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// Empty reports whether the spectrum carries no data.
func (s Spectrum) Empty() bool {
	return len(s.Masses) == 0
}

// Len returns the number of mass/intensity pairs.
func (s Spectrum) Len() int {
	return len(s.Masses)
}

// MaxIntensity returns the largest intensity, or 0 for an empty spectrum.
func (s Spectrum) MaxIntensity() float64 {
	maxIntensity := 0.0
	for _, intensity := range s.Intensities {
		if intensity > maxIntensity {
			maxIntensity = intensity
		}
	}
	return maxIntensity
}

// Clone returns a deep copy of the spectrum.
func (s Spectrum) Clone() Spectrum {
	out := Spectrum{
		Masses:      make([]int, len(s.Masses)),
		Intensities: make([]float64, len(s.Intensities)),
	}
	copy(out.Masses, s.Masses)
	copy(out.Intensities, s.Intensities)
	return out
}
