package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
	"github.com/skylineagle/gstd-go/pkg/gstdclient"
)

// Config represents the CLI configuration file.
type Config struct {
	URL      string        `json:"url,omitempty"       yaml:"url,omitempty"`
	Host     string        `json:"host,omitempty"      yaml:"host,omitempty"`
	Port     int           `json:"port,omitempty"      yaml:"port,omitempty"`
	Token    string        `json:"token,omitempty"     yaml:"token,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"   yaml:"timeout,omitempty"`
	Retries  int           `json:"retries,omitempty"   yaml:"retries,omitempty"`
	Output   string        `json:"output,omitempty"    yaml:"output,omitempty"`
	LogLevel string        `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	NATSURL  string        `json:"nats_url,omitempty"  yaml:"nats_url,omitempty"`
}

// configKeys lists the keys `config set` accepts.
var configKeys = []string{"url", "host", "port", "token", "timeout", "retries", "output", "log_level", "nats_url"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and edit the gstc configuration stored in ~/.gstc/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration, merged from flags, GSTC_* variables and the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			return Render(cmd.OutOrStdout(), config, func(w io.Writer) error {
				return displayConfigTable(w, config)
			})
		},
	}
}

func displayConfigTable(w io.Writer, config *Config) error {
	resolved, err := gstdclient.ResolveURL(&gstd.Config{URL: config.URL, Host: config.Host, Port: config.Port})
	if err != nil {
		resolved = constants.NotAvailable
	}

	token := constants.None
	if config.Token != "" {
		token = Masked
	}

	timeout := "none"
	if config.Timeout > 0 {
		timeout = config.Timeout.String()
	}

	return RenderTable(w, []string{"Setting", "Value"}, [][]string{
		{"Daemon", resolved},
		{"Token", token},
		{"Timeout", timeout},
		{"Retries", strconv.Itoa(config.Retries)},
		{"Output", orNotAvailable(config.Output)},
		{"Log level", orNotAvailable(config.LogLevel)},
		{"NATS URL", orNotAvailable(config.NATSURL)},
		{"Config file", orNotAvailable(viper.ConfigFileUsed())},
	})
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set KEY VALUE",
		Short:     "Set a configuration value",
		Long:      "Set a configuration value and save it to the config file",
		Args:      cobra.ExactArgs(constants.TwoArguments),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if err := setConfigValue(config, args[0], args[1]); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if err := setConfigValue(config, args[0], ""); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		URL:      viper.GetString("url"),
		Host:     viper.GetString("host"),
		Port:     viper.GetInt("port"),
		Token:    viper.GetString("token"),
		Timeout:  viper.GetDuration("timeout"),
		Retries:  viper.GetInt("retries"),
		Output:   viper.GetString("output"),
		LogLevel: viper.GetString("log_level"),
		NATSURL:  viper.GetString("nats_url"),
	}
}

func setConfigValue(config *Config, key, value string) error {
	var err error

	switch key {
	case "url":
		config.URL = value
	case "host":
		config.Host = value
	case "port":
		config.Port, err = parseIntOrZero(value)
	case "token":
		config.Token = value
	case "timeout":
		config.Timeout, err = parseDurationOrZero(value)
	case "retries":
		config.Retries, err = parseIntOrZero(value)
	case "output":
		config.Output = value
	case "log_level":
		config.LogLevel = value
	case "nats_url":
		config.NATSURL = value
	default:
		return fmt.Errorf("%w %q, use one of: %s", ErrUnknownConfigKey, key, strings.Join(configKeys, ", "))
	}

	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return nil
}

func parseIntOrZero(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	return strconv.Atoi(value)
}

func parseDurationOrZero(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	return time.ParseDuration(value)
}

func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".gstc")

	if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
