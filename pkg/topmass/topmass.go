// Package topmass ranks the most intense fragment masses of a spectrum for tabular reports.
package topmass

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/filter"
)

// Mass is a ranked fragment: the mass and its intensity rescaled to 0-999.
type Mass struct {
	Mass      int `json:"mass"`
	Intensity int `json:"intensity"`
}

// Normalize scales intensities to 0-100 relative to their own maximum.
// An empty list stays empty; an all-zero list normalises to zeros.
func Normalize(intensities []float64) []float64 {
	out := make([]float64, len(intensities))
	if len(intensities) == 0 {
		return out
	}
	maxIntensity := floats.Max(intensities)
	if maxIntensity <= 0 {
		return out
	}
	for i, v := range intensities {
		out[i] = (v / maxIntensity) * core.NormalizedScale
	}
	return out
}

// Rank returns at most TopN masses by descending normalised intensity. Ties keep
// the original mass-list order. An invalid spectrum ranks nothing.
func Rank(spec core.Spectrum) []Mass {
	if spec.Empty() || spec.Validate() != nil {
		return nil
	}

	normalized := Normalize(spec.Intensities)
	order := make([]int, len(normalized))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return normalized[order[i]] > normalized[order[j]]
	})

	if len(order) > core.TopN {
		order = order[:core.TopN]
	}

	ranked := make([]Mass, len(order))
	for i, idx := range order {
		ranked[i] = Mass{
			Mass:      spec.Masses[idx],
			Intensity: Rescale(normalized[idx]),
		}
	}
	return ranked
}

// RankReference ranks a library reference spectrum after dropping background ions below ReferenceMinMass.
func RankReference(spec core.Spectrum) []Mass {
	return RankFiltered(spec, filter.ReferenceConfig)
}

// RankFiltered ranks the spectrum left after applying cfg.
func RankFiltered(spec core.Spectrum, cfg filter.Config) []Mass {
	return Rank(cfg.Apply(spec))
}

// Rescale maps a 0-100 normalised intensity onto the 0-999 reporting range.
func Rescale(v float64) int {
	return int(math.Floor(v * core.RescaleFactor))
}
