// ABOUTME: Cobra command tree and flag binding for the API binary
// ABOUTME: Flags override environment variables, which override built-in defaults

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"modelsearch-api/pkg/config"
)

const banner = `
    __  ___          __     __   _____                      __
   /  |/  /___  ____/ /__  / /  / ___/___  ____ ___________/ /_
  / /|_/ / __ \/ __  / _ \/ /   \__ \/ _ \/ __ '/ ___/ ___/ __ \
 / /  / / /_/ / /_/ /  __/ /   ___/ /  __/ /_/ / /  / /__/ / / /
/_/  /_/\____/\__,_/\___/_/   /____/\___/\__,_/_/   \___/_/ /_/
`

// newRootCmd builds the command tree around a fresh viper instance
func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "modelsearch-api",
		Short: "3D model search aggregator",
		Long: `Searches Printables, Thingiverse and MakerWorld at once and serves the
combined, shuffled results over HTTP.

Every setting can be given as an environment variable (PORT, LOG_LEVEL,
THINGIVERSE_TOKEN, ...) or, for the common ones, as a flag.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json, text)")
	bindFlag(v, "log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag(v, "log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}
	serveCmd.Flags().String("port", "", "Port to listen on")
	serveCmd.Flags().Int("rate-limit", 0, "Requests allowed per client per window (0 disables)")
	bindFlag(v, "port", serveCmd.Flags().Lookup("port"))
	bindFlag(v, "rate_limit", serveCmd.Flags().Lookup("rate-limit"))

	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Run one search and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, v, args)
		},
	}
	searchCmd.Flags().String("format", "table", "Output format (table, json)")

	rootCmd.AddCommand(serveCmd, searchCmd)

	return rootCmd
}

// bindFlag binds a flag to a viper key; the flag only wins when set explicitly
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
	}
}
