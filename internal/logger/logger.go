// Package logger configures the global zerolog logger for the command line tools
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects the log level. Debug and Trace override Level, which
// overrides the ENVIRONMENT default.
type Options struct {
	Level string // zerolog level name, e.g. "warn"
	Debug bool
	Trace bool
	Out   io.Writer // defaults to os.Stderr
}

// Init loads an optional .env file and sets up console logging.
func Init(opts Options) zerolog.Level {
	// .env is optional for a CLI
	_ = godotenv.Load()

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out}).With().Caller().Logger()

	level := Level(os.Getenv("ENVIRONMENT"), opts)
	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Msg("logging initialised")
	return level
}

// Level resolves the effective level from the environment name and options.
func Level(environment string, opts Options) zerolog.Level {
	environment = strings.ToLower(environment)
	if environment == "" {
		environment = "prod"
	}

	// Set default to Info level
	var level zerolog.Level
	switch environment {
	case "dev", "test":
		level = zerolog.DebugLevel
	default:
		level = zerolog.InfoLevel
	}

	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	if opts.Trace {
		level = zerolog.TraceLevel
	} else if opts.Debug {
		level = zerolog.DebugLevel
	}

	return level
}
