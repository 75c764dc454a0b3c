// Package report renders comparison results: one JSON document per aligned row,
// the alignment CSV tables and confidence summaries.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/filter"
	"github.com/ChrisMcGann/GCMSCompare/pkg/similarity"
	"github.com/ChrisMcGann/GCMSCompare/pkg/topmass"
)

// PeakData is the rendered form of a peak.
type PeakData struct {
	PeakNo         int           `json:"peak_no"`
	Name           string        `json:"name"`
	RetentionTime  float64       `json:"rt"`
	Area           float64       `json:"area"`
	AreaPercentage float64       `json:"area_percentage"`
	MatchFactor    float64       `json:"match_factor"`
	Reference      core.Spectrum `json:"reference"`
}

// SampleData is one sample's slice of a row.
type SampleData struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Peak     *PeakData     `json:"peak"`
	Spectrum core.Spectrum `json:"ms"`
}

// RowData is everything known about one aligned row.
type RowData struct {
	Row              int                   `json:"row"`
	Samples          []SampleData          `json:"samples"`
	Similarity       similarity.Scores     `json:"similarity"`
	WithinSimilarity similarity.Scores     `json:"within_similarity"`
	TopMasses        []topmass.SampleTable `json:"top_masses"`
	MaxMass          int                   `json:"max_mass"`
}

// BuildRow scores one aligned row. names maps sample IDs to display names; IDs
// without an entry render as themselves.
func BuildRow(row core.AlignedRow, names map[string]string, scorer *similarity.Scorer) (RowData, error) {
	cross, within, err := scorer.Row(row)
	if err != nil {
		return RowData{}, fmt.Errorf("row %d: %w", row.ReportRow(), err)
	}

	data := RowData{
		Row:              row.ReportRow(),
		Samples:          make([]SampleData, 0, len(row.Samples)),
		Similarity:       cross,
		WithinSimilarity: within,
		TopMasses:        topmass.Table(row),
	}

	for _, id := range row.Samples {
		name := names[id]
		if name == "" {
			name = id
		}
		sample := SampleData{ID: id, Name: name, Spectrum: row.Spectra[id]}
		if peak := row.Peaks[id]; peak != nil {
			sample.Peak = &PeakData{
				PeakNo:         peak.PeakNo,
				Name:           peak.Name,
				RetentionTime:  peak.RetentionTime,
				Area:           peak.Area,
				AreaPercentage: peak.AreaPercentage,
				MatchFactor:    peak.MatchFactor,
				Reference:      peak.Reference,
			}
		}
		data.MaxMass = max(data.MaxMass, filter.MaxMass(sample.Spectrum, core.MaxMassIntensityCutoff))
		data.Samples = append(data.Samples, sample)
	}

	return data, nil
}

// RowFilename returns the file name of a row's JSON document.
func RowFilename(row int) string {
	return fmt.Sprintf("%d_spectra.json", row)
}

// WriteRow writes the row document into dir and returns its path.
func WriteRow(dir string, data RowData) (string, error) {
	b, err := sonic.ConfigDefault.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode row %d: %w", data.Row, err)
	}

	path := filepath.Join(dir, RowFilename(data.Row))
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write row %d: %w", data.Row, err)
	}
	return path, nil
}
