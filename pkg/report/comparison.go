package report

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/GCMSCompare/pkg/batch"
	"github.com/ChrisMcGann/GCMSCompare/pkg/confidence"
	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/profile"
	"github.com/ChrisMcGann/GCMSCompare/pkg/similarity"
)

// Sink receives comparison results alongside the files written to disk.
// Implementations must be safe for concurrent WriteRow calls.
type Sink interface {
	WriteRow(comparison string, data RowData) error
	WriteConfidence(comparison string, score ConfidenceScore) error
}

// ConfidenceScore is the confidence of the unknown against one reference profile.
type ConfidenceScore struct {
	Reference string            `json:"reference"`
	Unknown   string            `json:"unknown"`
	Result    confidence.Result `json:"result"`
}

// Options configures a comparison run.
type Options struct {
	Name      string             // Comparison name, passed to the sink
	OutputDir string             // Created if missing
	UnknownID string             // Empty when the comparison has no unknown
	Jobs      int                // Worker count for row processing
	Scorer    *similarity.Scorer // Required
	Sink      Sink               // Optional
}

// RowFailure is a row that could not be scored or written.
type RowFailure struct {
	Row int
	Err error
}

func (f RowFailure) Error() string {
	return fmt.Sprintf("row %d: %v", f.Row, f.Err)
}

func (f RowFailure) Unwrap() error {
	return f.Err
}

// Summary reports what a comparison run produced.
type Summary struct {
	Rows             int
	Failures         []RowFailure
	Confidence       []ConfidenceScore
	ConfidenceErrors map[string]error // keyed by reference sample ID
}

// Failed reports whether any row or confidence calculation failed.
func (s *Summary) Failed() bool {
	return len(s.Failures) > 0 || len(s.ConfidenceErrors) > 0
}

// Compare runs a full comparison over profiles given in report order: every aligned
// row is scored on the worker pool and written as JSON, the alignment tables are
// written, and the unknown (if any) is scored against each other profile.
// Row failures are isolated and returned in the summary; the error return is
// reserved for failures that stop the whole comparison.
func Compare(ctx context.Context, profiles []*profile.Profile, opts Options) (*Summary, error) {
	if opts.Scorer == nil {
		return nil, fmt.Errorf("comparison %s: no scorer configured", opts.Name)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	rows, err := profile.Rows(profiles...)
	if err != nil {
		return nil, fmt.Errorf("comparison %s: %w", opts.Name, err)
	}
	names := profile.DisplayNames(profiles...)

	logger := log.With().Str("comparison", opts.Name).Logger()
	logger.Info().Int("rows", len(rows)).Int("samples", len(profiles)).Msg("processing comparison")

	failures := batch.Run(ctx, opts.Jobs, rows, func(_ context.Context, _ int, row core.AlignedRow) error {
		data, err := BuildRow(row, names, opts.Scorer)
		if err != nil {
			return err
		}
		if _, err := WriteRow(opts.OutputDir, data); err != nil {
			return err
		}
		if opts.Sink != nil {
			if err := opts.Sink.WriteRow(opts.Name, data); err != nil {
				return fmt.Errorf("failed to store row: %w", err)
			}
		}
		return nil
	})

	summary := &Summary{
		Rows:             len(rows),
		ConfidenceErrors: make(map[string]error),
	}
	for _, f := range failures {
		rf := RowFailure{Row: rows[f.Index].ReportRow(), Err: f.Err}
		logger.Error().Int("row", rf.Row).Err(f.Err).Msg("row failed")
		summary.Failures = append(summary.Failures, rf)
	}

	if err := WriteAlignmentCSV(opts.OutputDir, profiles, opts.UnknownID); err != nil {
		return summary, err
	}

	if opts.UnknownID != "" {
		scoreConfidence(profiles, opts, summary)
	}

	logger.Info().Int("failed_rows", len(summary.Failures)).Msg("comparison complete")
	return summary, nil
}

func scoreConfidence(profiles []*profile.Profile, opts Options, summary *Summary) {
	var unknown *profile.Profile
	for _, p := range profiles {
		if p.Sample.ID == opts.UnknownID {
			unknown = p
		}
	}
	if unknown == nil {
		summary.ConfidenceErrors[opts.UnknownID] = fmt.Errorf("unknown sample %q not in comparison", opts.UnknownID)
		return
	}

	calc := confidence.New(opts.Scorer)
	for _, ref := range profiles {
		if ref == unknown {
			continue
		}

		res, err := calc.Profiles(ref, unknown)
		if err != nil {
			log.Error().Str("comparison", opts.Name).Str("reference", ref.Sample.ID).Err(err).Msg("confidence failed")
			summary.ConfidenceErrors[ref.Sample.ID] = err
			continue
		}

		score := ConfidenceScore{Reference: ref.Sample.ID, Unknown: unknown.Sample.ID, Result: res}
		log.Info().Str("comparison", opts.Name).Str("reference", ref.Sample.ID).
			Float64("confidence", res.Score).Msg("confidence")
		summary.Confidence = append(summary.Confidence, score)

		if opts.Sink != nil {
			if err := opts.Sink.WriteConfidence(opts.Name, score); err != nil {
				summary.ConfidenceErrors[ref.Sample.ID] = fmt.Errorf("failed to store confidence: %w", err)
			}
		}
	}
}
