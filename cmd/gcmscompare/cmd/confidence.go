package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/GCMSCompare/pkg/confidence"
	"github.com/ChrisMcGann/GCMSCompare/pkg/profile"
	"github.com/ChrisMcGann/GCMSCompare/pkg/reader/aligned"
)

var (
	// Flags for confidence command
	alignedFile string
	referenceID string
	unknownID   string
	confLibrary string
	showRows    bool
	jsonOutput  bool
)

func init() {
	confidenceCmd.Flags().StringVar(&alignedFile, "aligned", "", "Aligned peak JSON file, or - for stdin (required)")
	confidenceCmd.Flags().StringVar(&referenceID, "reference", "", "Reference sample ID (required)")
	confidenceCmd.Flags().StringVar(&unknownID, "unknown", "", "Unknown sample ID (required)")
	confidenceCmd.Flags().StringVar(&confLibrary, "library", "", "MSP library for peaks without a reference spectrum")
	confidenceCmd.Flags().BoolVar(&showRows, "rows", false, "Print the per-row breakdown")
	confidenceCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")

	confidenceCmd.MarkFlagRequired("aligned")
	confidenceCmd.MarkFlagRequired("reference")
	confidenceCmd.MarkFlagRequired("unknown")
}

var confidenceCmd = &cobra.Command{
	Use:   "confidence",
	Short: "Rate how well an unknown reproduces a reference profile",
	Long: `Compute the confidence score of an unknown sample against one reference profile.
Every reference peak is worth 10 points; the unknown loses up to 5 points per peak
for area-share disagreement and up to 5 for spectral dissimilarity.

Examples:
  gcmscompare confidence --aligned aligned.json --reference p1 --unknown u --rows
  aligner export | gcmscompare confidence --aligned - --reference p1 --unknown u --json`,
	RunE: runConfidence,
}

func runConfidence(cmd *cobra.Command, args []string) error {
	var profiles []*profile.Profile
	var err error
	if alignedFile == "-" {
		profiles, err = aligned.Read(cmd.InOrStdin())
	} else {
		profiles, err = aligned.ReadFile(alignedFile)
	}
	if err != nil {
		return err
	}

	ref, err := findProfile(profiles, referenceID)
	if err != nil {
		return err
	}
	unknown, err := findProfile(profiles, unknownID)
	if err != nil {
		return err
	}

	lib, err := openLibrary(confLibrary)
	if err != nil {
		return err
	}
	if lib != nil {
		lib.Resolve(ref.Peaks)
		lib.Resolve(unknown.Peaks)
	}

	scorer := newScorer()
	log.Debug().Stringer("mode", scorer.Mode()).Int("reference_peaks", ref.PeakCount()).
		Int("unknown_peaks", unknown.PeakCount()).Msg("scoring confidence")

	res, err := confidence.New(scorer).Profiles(ref, unknown)
	if err != nil {
		return fmt.Errorf("confidence of %s vs %s: %w", unknownID, referenceID, err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		b, err := sonic.ConfigDefault.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	fmt.Fprintf(out, "Confidence: %.4f (%.2f / %.0f points)\n", res.Score, res.Actual, res.Theoretical)
	if showRows {
		fmt.Fprintf(out, "%5s  %6s  %8s  %8s  %6s\n", "Row", "MF", "Area", "MF pen.", "Points")
		for _, row := range res.Rows {
			if !row.ReferencePeak {
				continue
			}
			fmt.Fprintf(out, "%5d  %6s  %8.3f  %8.3f  %6.2f\n",
				row.Row, row.MatchFactor, row.AreaPenalty, row.MatchFactorPenalty, row.Points)
		}
	}
	return nil
}

func findProfile(profiles []*profile.Profile, id string) (*profile.Profile, error) {
	for _, p := range profiles {
		if p.Sample.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("sample %q not found in %s", id, alignedFile)
}
