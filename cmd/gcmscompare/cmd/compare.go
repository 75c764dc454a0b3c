package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/GCMSCompare/pkg/config"
	"github.com/ChrisMcGann/GCMSCompare/pkg/profile"
	"github.com/ChrisMcGann/GCMSCompare/pkg/reader/aligned"
	"github.com/ChrisMcGann/GCMSCompare/pkg/reader/msp"
	"github.com/ChrisMcGann/GCMSCompare/pkg/report"
	"github.com/ChrisMcGann/GCMSCompare/pkg/writer/sqlite"
)

var (
	// Flags for compare command
	configFile  string
	jobs        int
	libraryFile string
	dbFile      string
)

func init() {
	compareCmd.Flags().StringVarP(&configFile, "config", "c", "viewer.toml", "Comparison configuration TOML file")
	compareCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of parallel workers (default GCMS_JOBS)")
	compareCmd.Flags().StringVar(&libraryFile, "library", "", "MSP library for peaks without a reference spectrum")
	compareCmd.Flags().StringVar(&dbFile, "db", "", "Also write results to this SQLite database (default GCMS_DB)")
}

var compareCmd = &cobra.Command{
	Use:   "compare [comparison]",
	Short: "Score the comparisons defined in the configuration file",
	Long: `Score one or more comparisons from the configuration file. Each comparison writes
a <row>_spectra.json document per aligned row plus alignment.csv and
alignment_pair_only.csv into its output directory.

Examples:
  # Run every comparison in viewer.toml on four workers
  gcmscompare compare :all: -j 4

  # Run two comparisons and store the results in a database
  gcmscompare compare shooter_a,shooter_b --db results.db`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	comparisons, err := cfg.Select(args[0])
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("jobs") {
		jobs = env.Jobs
	}
	if dbFile == "" {
		dbFile = env.Database
	}

	lib, err := openLibrary(libraryFile)
	if err != nil {
		return err
	}

	var sink report.Sink
	if dbFile != "" {
		writer, err := sqlite.NewWriter(dbFile, fmt.Sprintf("gcmscompare compare %s", args[0]))
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer func() {
			if err := writer.Finalize(); err != nil {
				log.Error().Err(err).Msg("failed to finalize database")
			}
		}()
		sink = writer
		log.Info().Str("db", dbFile).Str("run", writer.RunID().String()).Msg("writing results database")
	}

	scorer := newScorer()
	log.Info().Stringer("mode", scorer.Mode()).Int("jobs", jobs).Int("comparisons", len(comparisons)).Msg("starting comparisons")
	out := cmd.OutOrStdout()

	failed := 0
	for _, c := range comparisons {
		fmt.Fprintln(out, c.Name)

		profiles, err := loadComparison(c, lib)
		if err != nil {
			log.Error().Str("comparison", c.Name).Err(err).Msg("failed to load comparison")
			failed++
			continue
		}

		summary, err := report.Compare(cmd.Context(), profiles, report.Options{
			Name:      c.Name,
			OutputDir: c.OutputDir,
			UnknownID: c.Unknown,
			Jobs:      jobs,
			Scorer:    scorer,
			Sink:      sink,
		})
		if err != nil {
			log.Error().Str("comparison", c.Name).Err(err).Msg("comparison failed")
			failed++
			continue
		}

		fmt.Fprintf(out, "  rows: %d, failed rows: %d\n", summary.Rows, len(summary.Failures))
		for _, f := range summary.Failures {
			fmt.Fprintf(out, "  %v\n", f)
		}
		for _, score := range summary.Confidence {
			fmt.Fprintf(out, "  confidence %s vs %s: %.4f\n", score.Unknown, score.Reference, score.Result.Score)
		}
		for ref, err := range summary.ConfidenceErrors {
			fmt.Fprintf(out, "  confidence vs %s: %v\n", ref, err)
		}
		if summary.Failed() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d comparisons had failures", failed, len(comparisons))
	}
	return nil
}

// loadComparison reads the aligned peaks of a comparison and returns its profiles
// in report order with display names and library references applied.
func loadComparison(c *config.Comparison, lib *msp.Library) ([]*profile.Profile, error) {
	all, err := aligned.ReadFile(c.Aligned)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*profile.Profile, len(all))
	for _, p := range all {
		byID[p.Sample.ID] = p
	}

	ordered := make([]*profile.Profile, 0, len(c.References)+1)
	for _, id := range c.SampleOrder() {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("sample %q not found in %s", id, c.Aligned)
		}
		if name := c.Names[id]; name != "" {
			p.Sample.DisplayName = name
		}
		log.Debug().Str("sample", id).Int("peaks", p.PeakCount()).Msg("loaded sample")
		if lib != nil {
			filled := lib.Resolve(p.Peaks)
			log.Debug().Str("sample", id).Int("resolved", filled).Msg("attached library spectra")
		}
		ordered = append(ordered, p)
	}

	return ordered, nil
}
