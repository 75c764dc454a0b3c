// Package confidence scores how well an unknown sample reproduces the peak
// pattern of a reference profile.
//
// Every reference peak is worth MaxPointsPerPeak points. An aligned unknown peak
// keeps those points minus two independent penalties, each capped at PenaltyCap:
// one for disagreement in area share and one for spectral dissimilarity. The
// result is the fraction of the available points the unknown earned.
package confidence

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/profile"
	"github.com/ChrisMcGann/GCMSCompare/pkg/similarity"
)

// Keys used for the two-sample within-sample comparison of each row.
const (
	referenceKey = "reference"
	unknownKey   = "unknown"
)

// RowContribution is the confidence breakdown of one aligned row.
type RowContribution struct {
	Row                int             `json:"row"`
	ReferencePeak      bool            `json:"reference_peak"`
	UnknownPeak        bool            `json:"unknown_peak"`
	MatchFactor        similarity.Cell `json:"match_factor"`
	AreaPenalty        float64         `json:"area_penalty"`
	MatchFactorPenalty float64         `json:"match_factor_penalty"`
	Points             float64         `json:"points"`
}

// Result is a defined confidence score in [0, 1] with its totals.
type Result struct {
	Score       float64           `json:"score"`
	Theoretical float64           `json:"theoretical"`
	Actual      float64           `json:"actual"`
	Rows        []RowContribution `json:"rows"`
}

// Calculator computes confidence scores. It is stateless and safe for concurrent use.
type Calculator struct {
	scorer *similarity.Scorer
}

// New creates a calculator that compares combined spectra with scorer.
func New(scorer *similarity.Scorer) *Calculator {
	return &Calculator{scorer: scorer}
}

// Profiles scores an unknown profile against a reference profile.
func (c *Calculator) Profiles(ref, unknown *profile.Profile) (Result, error) {
	return c.Calculate(ref.Peaks, unknown.Peaks, ref.MaxPeakArea(), unknown.MaxPeakArea())
}

// Calculate scores aligned peak lists. refMaxArea and unknownMaxArea are the largest
// peak areas of each whole profile.
func (c *Calculator) Calculate(ref, unknown []*core.PeakRecord, refMaxArea, unknownMaxArea float64) (Result, error) {
	if err := core.CheckAligned(map[string]int{referenceKey: len(ref), unknownKey: len(unknown)}); err != nil {
		return Result{}, err
	}

	var res Result
	res.Rows = make([]RowContribution, 0, len(ref))

	for idx := range ref {
		refPeak, unknPeak := ref[idx], unknown[idx]
		contrib := RowContribution{
			Row:           core.ReportRowNumber(idx),
			ReferencePeak: refPeak != nil,
			UnknownPeak:   unknPeak != nil,
		}

		if refPeak == nil {
			res.Rows = append(res.Rows, contrib)
			continue
		}
		res.Theoretical += core.MaxPointsPerPeak

		if unknPeak != nil {
			if err := c.scoreRow(&contrib, refPeak, unknPeak, refMaxArea, unknownMaxArea); err != nil {
				return Result{}, err
			}
		}

		res.Actual += contrib.Points
		res.Rows = append(res.Rows, contrib)
	}

	if res.Theoretical == 0 {
		return Result{}, fmt.Errorf("%w: reference profile has no peaks", core.ErrInvalidProfile)
	}

	res.Score = res.Actual / res.Theoretical
	log.Debug().Float64("actual", res.Actual).Float64("theoretical", res.Theoretical).
		Float64("confidence", res.Score).Msg("calculated confidence")
	return res, nil
}

func (c *Calculator) scoreRow(contrib *RowContribution, refPeak, unknPeak *core.PeakRecord, refMaxArea, unknownMaxArea float64) error {
	refPct, err := areaFraction(refPeak, refMaxArea, referenceKey)
	if err != nil {
		return err
	}
	unknPct, err := areaFraction(unknPeak, unknownMaxArea, unknownKey)
	if err != nil {
		return err
	}

	spectra := similarity.NewSet().
		Add(referenceKey, refPeak.Combined).
		Add(unknownKey, unknPeak.Combined)
	within, err := c.scorer.Within(spectra)
	if err != nil {
		return fmt.Errorf("row %d: %w", contrib.Row, err)
	}

	contrib.MatchFactor = within.Forward.At(referenceKey, unknownKey)
	contrib.AreaPenalty = AreaPenalty(refPct, unknPct)
	contrib.MatchFactorPenalty = MatchFactorPenalty(contrib.MatchFactor)
	contrib.Points = core.MaxPointsPerPeak - contrib.AreaPenalty - contrib.MatchFactorPenalty

	if contrib.Points < 0 || contrib.Points > core.MaxPointsPerPeak || math.IsNaN(contrib.Points) {
		return &core.RowBoundsError{Row: contrib.Row, Contribution: contrib.Points}
	}

	log.Debug().Int("row", contrib.Row).Float64("area_penalty", contrib.AreaPenalty).
		Float64("mf_penalty", contrib.MatchFactorPenalty).Float64("points", contrib.Points).
		Msg("scored confidence row")
	return nil
}

// AreaPenalty loses one point per 10 percentage points of area-share disagreement.
func AreaPenalty(refFraction, unknownFraction float64) float64 {
	return math.Min(math.Abs(refFraction-unknownFraction)/core.AreaPenaltyDivisor, core.PenaltyCap)
}

// MatchFactorPenalty loses one point per 100 match-factor units below a perfect match.
// A Missing cell takes the full penalty.
func MatchFactorPenalty(forward similarity.Cell) float64 {
	mf, ok := forward.Value()
	if !ok {
		return core.PenaltyCap
	}
	return math.Min((core.PerfectMatchFactor-mf)/core.MatchFactorPenaltyDivisor, core.PenaltyCap)
}

func areaFraction(peak *core.PeakRecord, maxArea float64, which string) (float64, error) {
	if maxArea <= 0 {
		return 0, fmt.Errorf("%w: %s profile has maximum peak area %v", core.ErrInvalidProfile, which, maxArea)
	}
	return peak.Area / maxArea, nil
}
