// Package filter provides spectrum filtering functions
package filter

import "github.com/ChrisMcGann/GCMSCompare/pkg/core"

// Config holds filtering configuration
type Config struct {
	MinMass         int     // Drop masses below this value (0 = no limit)
	IntensityCutoff float64 // Keep only peaks at or above this % of base peak (0 = no cutoff)
}

// ReferenceConfig is the pre-filter applied to library reference spectra before ranking.
var ReferenceConfig = Config{MinMass: core.ReferenceMinMass}

// Apply applies all configured filters and returns a new spectrum; the input is not modified.
func (c Config) Apply(spec core.Spectrum) core.Spectrum {
	out := spec.Clone()

	if c.MinMass > 0 {
		out = MinMass(out, c.MinMass)
	}

	if c.IntensityCutoff > 0 {
		out = c.filterByIntensity(out)
	}

	return out
}

// MinMass keeps only masses at or above min, preserving order
func MinMass(spec core.Spectrum, min int) core.Spectrum {
	return keep(spec, func(mass int, _ float64) bool {
		return mass >= min
	})
}

// RemoveZeroIntensity removes peaks with zero or negative intensity
func RemoveZeroIntensity(spec core.Spectrum) core.Spectrum {
	return keep(spec, func(_ int, intensity float64) bool {
		return intensity > 0
	})
}

// MaxMass returns the largest mass whose intensity is at least cutoff × the base peak.
// Returns 0 for an empty spectrum.
func MaxMass(spec core.Spectrum, cutoff float64) int {
	if spec.Empty() {
		return 0
	}

	threshold := cutoff * spec.MaxIntensity()
	maxMass := 0
	for i, mass := range spec.Masses {
		if spec.Intensities[i] >= threshold && mass > maxMass {
			maxMass = mass
		}
	}
	return maxMass
}

// filterByIntensity removes peaks below the intensity cutoff percentage
func (c Config) filterByIntensity(spec core.Spectrum) core.Spectrum {
	if spec.Empty() {
		return spec
	}

	threshold := (c.IntensityCutoff / 100.0) * spec.MaxIntensity()
	return keep(spec, func(_ int, intensity float64) bool {
		return intensity >= threshold
	})
}

func keep(spec core.Spectrum, pred func(mass int, intensity float64) bool) core.Spectrum {
	out := core.Spectrum{}
	for i, mass := range spec.Masses {
		if pred(mass, spec.Intensities[i]) {
			out.Masses = append(out.Masses, mass)
			out.Intensities = append(out.Intensities, spec.Intensities[i])
		}
	}
	return out
}
