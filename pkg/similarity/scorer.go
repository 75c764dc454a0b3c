package similarity

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

// Primitive computes the forward and reverse similarity of two spectra as fractions in [0, 1].
// The forward fraction is normalised by b (the reference), the reverse by a.
type Primitive interface {
	Similarity(a, b core.Spectrum) (forward, reverse float64)
}

// PrimitiveFunc adapts a function to the Primitive interface.
type PrimitiveFunc func(a, b core.Spectrum) (float64, float64)

// Similarity calls f(a, b).
func (f PrimitiveFunc) Similarity(a, b core.Spectrum) (float64, float64) {
	return f(a, b)
}

// Mode selects how a failed self-comparison is handled in within-sample matrices.
type Mode int

const (
	// Strict returns an *core.InvariantError.
	Strict Mode = iota
	// Lenient logs a warning and keeps the computed scores on the diagonal.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// Scorer builds similarity matrices with a given primitive. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	primitive Primitive
	mode      Mode
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMode sets the self-comparison policy.
func WithMode(mode Mode) Option {
	return func(s *Scorer) {
		s.mode = mode
	}
}

// NewScorer creates a strict scorer around a similarity primitive.
func NewScorer(p Primitive, opts ...Option) *Scorer {
	s := &Scorer{primitive: p, mode: Strict}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the self-comparison policy.
func (s *Scorer) Mode() Mode { return s.mode }

// Compare scores every experimental spectrum against every reference spectrum.
// Forward and reverse matrices are not symmetric under axis swap.
func (s *Scorer) Compare(experimental, reference *Set) Scores {
	scores := newScores(experimental.Names(), reference.Names())

	for _, a := range experimental.Names() {
		specA, ok := experimental.Get(a)
		if !ok {
			// whole row stays Missing
			continue
		}
		for _, b := range reference.Names() {
			specB, ok := reference.Get(b)
			if !ok {
				continue
			}
			mf, rmf := s.score(specA, specB)
			scores.Forward.Set(a, b, ScoreCell(mf))
			scores.Reverse.Set(a, b, ScoreCell(rmf))
		}
	}

	return scores
}

// Within scores a set of experimental spectra against itself. Diagonal cells are
// SelfSuppressed once the self-comparison is confirmed to be a perfect match.
func (s *Scorer) Within(experimental *Set) (Scores, error) {
	names := experimental.Names()
	scores := newScores(names, names)

	for _, a := range names {
		specA, ok := experimental.Get(a)
		if !ok {
			continue
		}
		for _, b := range names {
			specB, ok := experimental.Get(b)
			if !ok {
				continue
			}
			mf, rmf := s.score(specA, specB)

			if a == b {
				if isPerfect(mf) && isPerfect(rmf) {
					scores.Forward.Set(a, b, SelfSuppressedCell())
					scores.Reverse.Set(a, b, SelfSuppressedCell())
					continue
				}
				if s.mode == Strict {
					return Scores{}, &core.InvariantError{Sample: a, Forward: mf, Reverse: rmf}
				}
				log.Warn().Str("sample", a).Float64("forward", mf).Float64("reverse", rmf).
					Msg("self-comparison outside tolerance; keeping computed scores")
			}

			scores.Forward.Set(a, b, ScoreCell(mf))
			scores.Reverse.Set(a, b, ScoreCell(rmf))
		}
	}

	return scores, nil
}

// Row computes the cross (experimental vs reference) and within-sample matrices for one aligned row.
func (s *Scorer) Row(row core.AlignedRow) (cross, within Scores, err error) {
	experimental := ExperimentalSet(row)
	cross = s.Compare(experimental, ReferenceSet(row))
	within, err = s.Within(experimental)
	if err != nil {
		return Scores{}, Scores{}, err
	}
	log.Debug().Int("row", row.ReportRow()).Int("samples", len(row.Samples)).Msg("scored row")
	return cross, within, nil
}

func (s *Scorer) score(a, b core.Spectrum) (float64, float64) {
	mf, rmf := s.primitive.Similarity(a, b)
	return mf * core.PerfectMatchFactor, rmf * core.PerfectMatchFactor
}

func isPerfect(score float64) bool {
	return math.Abs(score-core.PerfectMatchFactor) <= core.SelfTolerance
}

func newScores(rows, cols []string) Scores {
	return Scores{
		Forward: NewMatrix(rows, cols),
		Reverse: NewMatrix(rows, cols),
	}
}
