// Package matchfactor provides the default spectrum similarity primitive: a
// weighted cosine match factor between an experimental and a reference spectrum.
package matchfactor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/filter"
)

// Default peak weighting exponents.
const (
	DefaultMassWeight      = 1.0
	DefaultIntensityWeight = 0.5
)

// MatchFactor computes forward and reverse match factors as fractions in [0, 1].
type MatchFactor struct {
	massWeight      float64
	intensityWeight float64
}

// Option configures a MatchFactor.
type Option func(*MatchFactor)

// WithMassWeight sets the exponent applied to each mass.
func WithMassWeight(w float64) Option {
	return func(m *MatchFactor) {
		m.massWeight = w
	}
}

// WithIntensityWeight sets the exponent applied to each intensity.
func WithIntensityWeight(w float64) Option {
	return func(m *MatchFactor) {
		m.intensityWeight = w
	}
}

// New creates a match factor calculator with the default weighting.
func New(opts ...Option) *MatchFactor {
	m := &MatchFactor{
		massWeight:      DefaultMassWeight,
		intensityWeight: DefaultIntensityWeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Similarity returns the forward match factor (over all masses of both spectra)
// and the reverse match factor (over the masses present in the reference b only).
// Peaks without intensity take no part in either score.
func (m *MatchFactor) Similarity(a, b core.Spectrum) (float64, float64) {
	a, b = filter.RemoveZeroIntensity(a), filter.RemoveZeroIntensity(b)
	if a.Empty() || b.Empty() {
		return 0, 0
	}

	wa := m.weights(a)
	wb := m.weights(b)

	union := make(map[int]struct{}, len(wa)+len(wb))
	for mass := range wa {
		union[mass] = struct{}{}
	}
	for mass := range wb {
		union[mass] = struct{}{}
	}

	va, vb := vectors(sortedMasses(union), wa, wb)
	forward := cosineSquared(va, vb)

	refMasses := make(map[int]struct{}, len(wb))
	for mass, w := range wb {
		if w > 0 {
			refMasses[mass] = struct{}{}
		}
	}
	ra, rb := vectors(sortedMasses(refMasses), wa, wb)
	reverse := cosineSquared(ra, rb)

	return forward, reverse
}

func (m *MatchFactor) weights(s core.Spectrum) map[int]float64 {
	w := make(map[int]float64, s.Len())
	for i, mass := range s.Masses {
		w[mass] += math.Pow(float64(mass), m.massWeight) * math.Pow(s.Intensities[i], m.intensityWeight)
	}
	return w
}

func sortedMasses(set map[int]struct{}) []int {
	masses := make([]int, 0, len(set))
	for mass := range set {
		masses = append(masses, mass)
	}
	sort.Ints(masses)
	return masses
}

func vectors(masses []int, wa, wb map[int]float64) ([]float64, []float64) {
	va := make([]float64, len(masses))
	vb := make([]float64, len(masses))
	for i, mass := range masses {
		va[i] = wa[mass]
		vb[i] = wb[mass]
	}
	return va, vb
}

func cosineSquared(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	normA := floats.Dot(a, a)
	normB := floats.Dot(b, b)
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := floats.Dot(a, b)
	score := dot * dot / (normA * normB)
	// rounding can push identical spectra a hair above 1
	return math.Min(score, 1)
}
