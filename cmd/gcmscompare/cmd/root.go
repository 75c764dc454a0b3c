// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/GCMSCompare/internal/logger"
	"github.com/ChrisMcGann/GCMSCompare/pkg/config"
	"github.com/ChrisMcGann/GCMSCompare/pkg/matchfactor"
	"github.com/ChrisMcGann/GCMSCompare/pkg/reader/msp"
	"github.com/ChrisMcGann/GCMSCompare/pkg/similarity"
)

var (
	// Global flags
	debug    bool
	trace    bool
	logLevel string
	lenient  bool

	// Settings from the environment, loaded before any command runs
	env *config.Env
)

var rootCmd = &cobra.Command{
	Use:   "gcmscompare",
	Short: "GCMSCompare - GC-MS profile comparison tool",
	Long: `GCMSCompare scores aligned GC-MS peak profiles against each other.

For every aligned row it computes:
- Forward and reverse similarity matrices between experimental and reference spectra
- Within-sample similarity matrices between the experimental spectra
- The ten most intense masses of each experimental and reference spectrum

and rates how well an unknown sample reproduces each reference profile.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = config.LoadEnv(cmd.Context())
		if err != nil {
			return err
		}

		level := logLevel
		if level == "" {
			level = env.LogLevel
		}
		logger.Init(logger.Options{Level: level, Debug: debug, Trace: trace})
		return nil
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(confidenceCmd)
	rootCmd.AddCommand(rankCmd)

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Set log level to debug")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Set log level to trace")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides GCMS_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&lenient, "lenient", false, "Log imperfect self-comparisons instead of failing the row")
}

// newScorer builds the scorer shared by all commands. Strict mode unless --lenient
// is given or GCMS_STRICT=false.
func newScorer() *similarity.Scorer {
	mode := similarity.Strict
	if lenient || !env.Strict {
		mode = similarity.Lenient
	}
	return similarity.NewScorer(matchfactor.New(), similarity.WithMode(mode))
}

// openLibrary loads the MSP library at path, or returns nil when path is empty.
func openLibrary(path string) (*msp.Library, error) {
	if path == "" {
		return nil, nil
	}
	return msp.OpenLibrary(path)
}
