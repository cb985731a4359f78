package internal

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalFlags holds the flags shared by all commands.
type globalFlags struct {
	verbose   bool
	logJSON   bool
	profile   string
	options   []string
	source    string
	workspace string
	force     bool
}

var (
	flags  globalFlags
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "qmapcontrol-llar",
	Short: "qmapcontrol-llar builds and packages QMapControl",
	Long: `qmapcontrol-llar runs the QMapControl recipe: it resolves GDAL, configures
and builds the library with CMake and packages the result for consumers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), flags.logJSON, flags.verbose)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose build output")
	pf.BoolVar(&flags.logJSON, "log-json", false, "Log as JSON instead of console text")
	pf.StringVar(&flags.profile, "profile", "", "Build profile (TOML); defaults to $LLAR_HOME/profile.toml")
	pf.StringArrayVarP(&flags.options, "option", "o", nil, "Recipe option as name=value, e.g. shared=false")
	pf.StringVar(&flags.source, "source", "", "QMapControl source tree; fetched with git when empty")
	pf.StringVar(&flags.workspace, "workspace", "", "Workspace directory for build trees and packages")
	pf.BoolVar(&flags.force, "force", false, "Ignore cached packages")
}

// newLogger returns the process logger. Console output is the default;
// verbose lowers the level to debug.
func newLogger(w io.Writer, json, verbose bool) zerolog.Logger {
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("failed")
		stop()
		os.Exit(1)
	}
}
