package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skylineagle/gstd-go/cmd/gstc/commands"
	"github.com/skylineagle/gstd-go/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gstc",
	Short: "GStreamer Daemon CLI",
	Long: `A command-line interface for controlling a GStreamer Daemon (gstd).

Create and drive pipelines, read and write element properties, wait on bus
messages and signals, send events, and tune the daemon's debug output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.gstc/config.yml)")
	rootCmd.PersistentFlags().StringP("url", "u", "", "daemon URL, e.g. http://127.0.0.1:5001")
	rootCmd.PersistentFlags().String("host", "", "daemon host (used when --url is empty)")
	rootCmd.PersistentFlags().Int("port", 0, "daemon port (used when --url is empty)")
	rootCmd.PersistentFlags().StringP("token", "t", "", "bearer token for daemons behind an authenticating proxy")
	rootCmd.PersistentFlags().Duration("timeout", constants.DefaultHTTPTimeout, "client-side timeout per request (0 waits for the daemon)")
	rootCmd.PersistentFlags().Int("retries", constants.DefaultRetryMax, "connection-level retries")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every request")
	rootCmd.PersistentFlags().Bool("trace", false, "instrument requests with OpenTelemetry")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("retries", rootCmd.PersistentFlags().Lookup("retries"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("trace", rootCmd.PersistentFlags().Lookup("trace"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewPipelinesCommand())
	rootCmd.AddCommand(commands.NewElementsCommand())
	rootCmd.AddCommand(commands.NewBusCommand())
	rootCmd.AddCommand(commands.NewEventsCommand())
	rootCmd.AddCommand(commands.NewSignalsCommand())
	rootCmd.AddCommand(commands.NewDebugCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.gstc/config.yml
		viper.AddConfigPath(filepath.Join(home, ".gstc"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// GSTC_URL, GSTC_LOG_LEVEL, ...
	viper.SetEnvPrefix("GSTC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, commands.DescribeError(err))
		os.Exit(1)
	}
}
