package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/profile"
)

// Alignment CSV file names.
const (
	AlignmentFile         = "alignment.csv"
	AlignmentPairOnlyFile = "alignment_pair_only.csv"
)

// PeakColumns are the per-sample columns of the alignment tables.
var PeakColumns = []string{"Peak No.", "Name", "RT", "Area", "Area %", "Match Factor"}

// AlignmentRecord is one data line of the alignment tables.
type AlignmentRecord struct {
	Fields []string
	// PairOnly marks rows that also go into the pair-only table.
	PairOnly bool
}

// AlignmentHeader returns the two header lines: sample names above their column
// groups, then the repeated column titles.
func AlignmentHeader(profiles []*profile.Profile) [][]string {
	names := profile.DisplayNames(profiles...)
	top := []string{""}
	sub := []string{""}
	for _, p := range profiles {
		top = append(top, names[p.Sample.ID])
		for range len(PeakColumns) - 1 {
			top = append(top, "")
		}
		sub = append(sub, PeakColumns...)
	}
	return [][]string{top, sub}
}

// AlignmentRecords renders every padded position of the profiles, numbered like
// the row reports. When unknownID names one of the profiles, only rows where at
// least MinPeaksPerRow samples have a peak are marked PairOnly; otherwise every row is.
func AlignmentRecords(profiles []*profile.Profile, unknownID string) ([]AlignmentRecord, error) {
	lengths := make(map[string]int, len(profiles))
	hasUnknown := false
	for _, p := range profiles {
		lengths[p.Sample.ID] = len(p.Peaks)
		if p.Sample.ID == unknownID {
			hasUnknown = true
		}
	}
	if err := core.CheckAligned(lengths); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	maxAreas := make([]float64, len(profiles))
	for i, p := range profiles {
		maxAreas[i] = p.MaxPeakArea()
	}

	n := len(profiles[0].Peaks)
	records := make([]AlignmentRecord, n)
	for idx := range n {
		fields := []string{strconv.Itoa(core.ReportRowNumber(idx))}
		present := 0
		for i, p := range profiles {
			peak := p.Peaks[idx]
			if peak != nil {
				present++
			}
			fields = append(fields, peakFields(peak, maxAreas[i])...)
		}
		records[idx] = AlignmentRecord{
			Fields:   fields,
			PairOnly: !hasUnknown || present >= core.MinPeaksPerRow,
		}
	}
	return records, nil
}

func peakFields(peak *core.PeakRecord, maxArea float64) []string {
	if peak == nil {
		return make([]string, len(PeakColumns))
	}
	pct := 0.0
	if maxArea > 0 {
		pct = peak.Area / maxArea * 100
	}
	return []string{
		strconv.Itoa(peak.PeakNo),
		peak.Name,
		strconv.FormatFloat(peak.RetentionTime, 'f', 3, 64),
		strconv.FormatFloat(peak.Area, 'f', -1, 64),
		strconv.FormatFloat(pct, 'f', 2, 64),
		strconv.FormatFloat(peak.MatchFactor, 'f', -1, 64),
	}
}

// WriteAlignmentCSV writes alignment.csv and alignment_pair_only.csv into dir.
func WriteAlignmentCSV(dir string, profiles []*profile.Profile, unknownID string) error {
	records, err := AlignmentRecords(profiles, unknownID)
	if err != nil {
		return err
	}
	header := AlignmentHeader(profiles)

	var full, pairOnly bytes.Buffer
	fullWriter := csv.NewWriter(&full)
	pairWriter := csv.NewWriter(&pairOnly)

	if err := fullWriter.WriteAll(header); err != nil {
		return fmt.Errorf("failed to write alignment header: %w", err)
	}
	if err := pairWriter.WriteAll(header); err != nil {
		return fmt.Errorf("failed to write alignment header: %w", err)
	}
	for _, rec := range records {
		if err := fullWriter.Write(rec.Fields); err != nil {
			return fmt.Errorf("failed to write alignment row: %w", err)
		}
		if rec.PairOnly {
			if err := pairWriter.Write(rec.Fields); err != nil {
				return fmt.Errorf("failed to write alignment row: %w", err)
			}
		}
	}
	fullWriter.Flush()
	pairWriter.Flush()

	if err := os.WriteFile(filepath.Join(dir, AlignmentFile), full.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", AlignmentFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, AlignmentPairOnlyFile), pairOnly.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", AlignmentPairOnlyFile, err)
	}
	return nil
}
