package core

// Scoring and reporting constants. These are part of the reporting contract.
const (
	// MaxPointsPerPeak is what each reference peak is worth in the confidence metric.
	MaxPointsPerPeak = 10.0
	// PenaltyCap bounds each of the two per-row confidence penalties.
	PenaltyCap = 5.0
	// AreaPenaltyDivisor: one point lost per 10 percentage points of area-share disagreement.
	AreaPenaltyDivisor = 0.1
	// MatchFactorPenaltyDivisor: one point lost per 100 match-factor units below perfect.
	MatchFactorPenaltyDivisor = 100.0
	// PerfectMatchFactor is the score of identical spectra.
	PerfectMatchFactor = 1000.0
	// SelfTolerance is the allowed deviation of a self-comparison from PerfectMatchFactor.
	SelfTolerance = 0.01

	// RowOffset: report rows 1-2 hold header content.
	RowOffset = 3
	// MinPeaksPerRow is the fewest non-null peaks a row needs when an unknown takes part.
	MinPeaksPerRow = 2

	// TopN is the number of ranked masses reported per spectrum.
	TopN = 10
	// RescaleFactor maps a 0-100 normalised intensity onto 0-999.
	RescaleFactor = 9.99
	// NormalizedScale is the top of the normalised intensity range.
	NormalizedScale = 100.0
	// ReferenceMinMass drops background ions from reference spectra.
	ReferenceMinMass = 50
	// MaxMassIntensityCutoff ignores masses below this fraction of the base peak when finding the max mass.
	MaxMassIntensityCutoff = 0.01
)
