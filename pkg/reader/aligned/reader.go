// Package aligned reads the padded peak lists produced by the peak aligner.
//
// The document is a JSON object with one entry per sample:
//
//	{"samples": [{"id": "p1", "name": "Shooter A", "peaks": [null, {...}, ...]}]}
//
// A null peak is padding. Every sample's peak list has the same length.
package aligned

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/profile"
)

// Document is the on-disk layout of an aligned peak file.
type Document struct {
	Samples []SampleRecord `json:"samples"`
}

// SampleRecord is one sample's padded peak list.
type SampleRecord struct {
	ID    string        `json:"id"`
	Name  string        `json:"name,omitempty"`
	Peaks []*PeakRecord `json:"peaks"`
}

// PeakRecord is the serialized form of core.PeakRecord.
type PeakRecord struct {
	PeakNo        int           `json:"peak_no"`
	Name          string        `json:"name"`
	RetentionTime float64       `json:"rt"`
	Area          float64       `json:"area"`
	MatchFactor   float64       `json:"match_factor"`
	Reference     core.Spectrum `json:"reference"`
	Combined      core.Spectrum `json:"combined"`
}

// Decode parses an aligned peak document into profiles. Area percentages are filled
// from each profile's largest peak and every spectrum is validated.
func Decode(data []byte) ([]*profile.Profile, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse aligned peaks: %w", err)
	}
	return doc.Profiles()
}

// Read decodes an aligned peak document from r.
func Read(r io.Reader) ([]*profile.Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read aligned peaks: %w", err)
	}
	return Decode(data)
}

// ReadFile decodes the aligned peak document at path.
func ReadFile(path string) ([]*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open aligned peaks: %w", err)
	}

	profiles, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("samples", len(profiles)).Msg("loaded aligned peaks")
	return profiles, nil
}

// Profiles converts the document into validated profiles.
func (d Document) Profiles() ([]*profile.Profile, error) {
	profiles := make([]*profile.Profile, 0, len(d.Samples))
	seen := make(map[string]bool, len(d.Samples))

	for i, s := range d.Samples {
		if s.ID == "" {
			return nil, &core.ValidationError{Field: "id", Message: fmt.Sprintf("sample %d has no id", i)}
		}
		if seen[s.ID] {
			return nil, &core.ValidationError{Field: "id", Message: fmt.Sprintf("duplicate sample id %q", s.ID)}
		}
		seen[s.ID] = true

		p := &profile.Profile{
			Sample: core.Sample{ID: s.ID, DisplayName: s.Name},
			Peaks:  make([]*core.PeakRecord, len(s.Peaks)),
		}
		for j, rec := range s.Peaks {
			if rec != nil {
				p.Peaks[j] = rec.peak()
			}
		}

		if err := p.Validate(); err != nil {
			return nil, err
		}
		p.FillAreaPercentages()
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (r *PeakRecord) peak() *core.PeakRecord {
	return &core.PeakRecord{
		PeakNo:        r.PeakNo,
		Name:          r.Name,
		RetentionTime: r.RetentionTime,
		Area:          r.Area,
		MatchFactor:   r.MatchFactor,
		Reference:     r.Reference,
		Combined:      r.Combined,
	}
}
