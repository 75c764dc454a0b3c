// Package profile holds the padded peak lists of the samples in a comparison and
// assembles them into aligned rows.
package profile

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

// Profile is one sample's padded peak list as produced by the aligner.
type Profile struct {
	Sample core.Sample
	Peaks  []*core.PeakRecord // nil entries are padding
}

// MaxPeakArea returns the largest peak area in the profile, or 0 when it has no peaks.
func (p *Profile) MaxPeakArea() float64 {
	maxArea := 0.0
	for _, peak := range p.Peaks {
		if peak != nil && peak.Area > maxArea {
			maxArea = peak.Area
		}
	}
	return maxArea
}

// PeakCount returns the number of non-padding entries.
func (p *Profile) PeakCount() int {
	n := 0
	for _, peak := range p.Peaks {
		if peak != nil {
			n++
		}
	}
	return n
}

// FillAreaPercentages sets AreaPercentage on every peak from the profile's maximum area.
func (p *Profile) FillAreaPercentages() {
	maxArea := p.MaxPeakArea()
	if maxArea == 0 {
		return
	}
	for _, peak := range p.Peaks {
		if peak != nil {
			peak.AreaPercentage = peak.Area / maxArea
		}
	}
}

// Validate checks the area and spectra attached to every peak.
func (p *Profile) Validate() error {
	for i, peak := range p.Peaks {
		if peak == nil {
			continue
		}
		if peak.Area < 0 || math.IsNaN(peak.Area) || math.IsInf(peak.Area, 0) {
			return &core.ValidationError{
				Field:   "Area",
				Message: fmt.Sprintf("sample %s row %d has invalid peak area %v", p.Sample.ID, core.ReportRowNumber(i), peak.Area),
			}
		}
		if err := peak.Combined.Validate(); err != nil {
			return fmt.Errorf("sample %s row %d combined spectrum: %w", p.Sample.ID, core.ReportRowNumber(i), err)
		}
		if err := peak.Reference.Validate(); err != nil {
			return fmt.Errorf("sample %s row %d reference spectrum: %w", p.Sample.ID, core.ReportRowNumber(i), err)
		}
	}
	return nil
}

// Rows zips the profiles into aligned rows. All peak lists must share one length.
// When more than two profiles take part, rows with fewer than MinPeaksPerRow peaks are dropped.
func Rows(profiles ...*Profile) ([]core.AlignedRow, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	lengths := make(map[string]int, len(profiles))
	samples := make([]string, len(profiles))
	for i, p := range profiles {
		if _, dup := lengths[p.Sample.ID]; dup {
			return nil, fmt.Errorf("duplicate sample id %q", p.Sample.ID)
		}
		lengths[p.Sample.ID] = len(p.Peaks)
		samples[i] = p.Sample.ID
	}
	if err := core.CheckAligned(lengths); err != nil {
		return nil, err
	}

	n := len(profiles[0].Peaks)
	rows := make([]core.AlignedRow, 0, n)
	for idx := 0; idx < n; idx++ {
		row := core.AlignedRow{
			Index:   idx,
			Samples: samples,
			Peaks:   make(map[string]*core.PeakRecord, len(profiles)),
			Spectra: make(map[string]core.Spectrum, len(profiles)),
		}
		for _, p := range profiles {
			peak := p.Peaks[idx]
			row.Peaks[p.Sample.ID] = peak
			if peak != nil {
				row.Spectra[p.Sample.ID] = peak.Combined
			} else {
				row.Spectra[p.Sample.ID] = core.Spectrum{}
			}
		}

		if len(profiles) > 2 && row.PeakCount() < core.MinPeaksPerRow {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// DisplayNames returns a render-only label per sample ID. Repeated labels get a
// " (1)", " (2)", ... suffix in comparison order; IDs are never changed.
func DisplayNames(profiles ...*Profile) map[string]string {
	names := make(map[string]string, len(profiles))
	seen := make(map[string]int, len(profiles))
	for _, p := range profiles {
		label := p.Sample.Label()
		if n := seen[label]; n > 0 {
			names[p.Sample.ID] = fmt.Sprintf("%s (%d)", label, n)
		} else {
			names[p.Sample.ID] = label
		}
		seen[label]++
	}
	return names
}
