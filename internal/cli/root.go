package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "SDF"

// Execute runs the sdf command tree.
func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:     "sdf",
		Short:   "Inspect, validate and convert SDF world descriptions",
		Version: version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(viper.GetString("log_level"))
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newPrintCommand())
	cmd.AddCommand(newGraphCommand())
	cmd.AddCommand(newConvertCommand())
	return cmd
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
