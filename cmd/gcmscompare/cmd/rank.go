package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/GCMSCompare/pkg/filter"
	"github.com/ChrisMcGann/GCMSCompare/pkg/reader/msp"
	"github.com/ChrisMcGann/GCMSCompare/pkg/topmass"
)

var (
	// Flags for rank command
	rankLibrary  string
	compoundName string
	rankCutoff   float64
)

func init() {
	rankCmd.Flags().StringVar(&rankLibrary, "library", "", "MSP library file (required)")
	rankCmd.Flags().StringVar(&compoundName, "name", "", "Compound name or synonym (required)")
	rankCmd.Flags().Float64Var(&rankCutoff, "cutoff", 0, "Drop peaks below this % of the base peak before ranking")

	rankCmd.MarkFlagRequired("library")
	rankCmd.MarkFlagRequired("name")
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the top masses of a library reference spectrum",
	Long: `Print the ten most intense masses of a library compound, ignoring masses
below 50, with intensities rescaled to 0-999. With --cutoff, peaks weaker than the
given percentage of the base peak are dropped first.

Examples:
  gcmscompare rank --library mainlib.msp --name Diphenylamine
  gcmscompare rank --library mainlib.msp --name Diphenylamine --cutoff 1`,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankCutoff < 0 || rankCutoff > 100 {
		return fmt.Errorf("--cutoff must be between 0 and 100, got %v", rankCutoff)
	}

	lib, err := msp.OpenLibrary(rankLibrary)
	if err != nil {
		return err
	}

	entry, ok := lib.Lookup(compoundName)
	if !ok {
		return fmt.Errorf("compound %q not found in %s", compoundName, rankLibrary)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s", entry.Name)
	if entry.CASNumber != "" {
		fmt.Fprintf(out, " (CAS %s)", entry.CASNumber)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%5s  %9s\n", "Mass", "Intensity")
	cfg := filter.ReferenceConfig
	cfg.IntensityCutoff = rankCutoff
	for _, m := range topmass.RankFiltered(entry.Spectrum, cfg) {
		fmt.Fprintf(out, "%5d  %9d\n", m.Mass, m.Intensity)
	}
	return nil
}
