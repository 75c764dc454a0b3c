package core

import "fmt"

// Sample identifies one participant in a comparison. ID is the opaque map key used by
// every matrix and row; DisplayName is only for rendering.
type Sample struct {
	ID          string `json:"id" toml:"id"`
	DisplayName string `json:"name" toml:"name"`
}

// Label returns the display name, falling back to the ID.
func (s Sample) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.ID
}

// PeakRecord is a consolidated GC-MS peak at one aligned position of a sample.
// A nil *PeakRecord means the sample has no peak at that position.
type PeakRecord struct {
	PeakNo         int      // 1-based, sequential within the sample
	Name           string   // Compound name of the top library hit
	RetentionTime  float64  // Minutes
	Area           float64  // Peak area
	AreaPercentage float64  // Area / largest area in the sample, as a fraction
	MatchFactor    float64  // Library match factor of the top hit
	Reference      Spectrum // Library reference spectrum of the top hit
	Combined       Spectrum // Replicate runs merged into one experimental spectrum
}

// AlignedRow is one aligned position across all samples of a comparison.
type AlignedRow struct {
	Index   int                    // Zero-based position in the padded peak lists
	Samples []string               // Sample IDs in comparison order
	Peaks   map[string]*PeakRecord // Absent peaks are nil
	Spectra map[string]Spectrum    // Combined spectra; empty when the peak is absent
}

// ReportRow returns the row number exposed to external reports.
func (r AlignedRow) ReportRow() int {
	return ReportRowNumber(r.Index)
}

// PeakCount returns the number of samples with a peak at this row.
func (r AlignedRow) PeakCount() int {
	n := 0
	for _, id := range r.Samples {
		if r.Peaks[id] != nil {
			n++
		}
	}
	return n
}

// Peak returns the peak for a sample, or nil when absent.
func (r AlignedRow) Peak(sampleID string) *PeakRecord {
	return r.Peaks[sampleID]
}

// ReportRowNumber converts a zero-based aligned position to a report row number.
func ReportRowNumber(index int) int {
	return index + RowOffset
}

// String returns the row in "row N (k peaks)" form for log messages.
func (r AlignedRow) String() string {
	return fmt.Sprintf("row %d (%d peaks)", r.ReportRow(), r.PeakCount())
}
