package cmd

import (
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagLogLevel = "log-level"
	flagHome     = "home"
)

// NewRootCmd creates the root command for perchd.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "perchd",
		Short: "Perch Chain Daemon",
		Long: `Perch is a layer-1 transaction-execution core with a built-in DEX order
book and a CDP stablecoin engine.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			viper.SetEnvPrefix("PERCHD")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
			return viper.BindPFlags(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String(flagLogLevel, "info", "logging level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "node home directory")

	rootCmd.AddCommand(
		newDemoCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".perchd"
	}
	return home + "/.perchd"
}

// newLogger builds the process logger honoring the configured level.
func newLogger() log.Logger {
	level, err := zerolog.ParseLevel(cast.ToString(viper.Get(flagLogLevel)))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return log.NewLogger(os.Stderr, log.LevelOption(level))
}
