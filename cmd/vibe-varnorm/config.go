package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-varnorm/internal/equiv"
	"github.com/inodb/vibe-varnorm/internal/extract"
	"github.com/inodb/vibe-varnorm/internal/lexicon"
	"github.com/inodb/vibe-varnorm/internal/store"
)

// Config keys.
const (
	keyMinConfidence   = "extract.min_confidence"
	keyContextWindow   = "extract.context_window"
	keyMethod          = "extract.method"
	keyStrictBlacklist = "extract.strict_blacklist"
	keyWorkers         = "extract.workers"
	keyLexiconFile     = "lexicon.file"
	keyStoreDriver     = "store.driver"
	keyStorePath       = "store.path"
	keyEquivThreshold  = "equiv.threshold"
)

func setDefaults() {
	d := extract.DefaultConfig()
	viper.SetDefault(keyMinConfidence, d.MinConfidence)
	viper.SetDefault(keyContextWindow, d.ContextWindow)
	viper.SetDefault(keyMethod, d.Method)
	viper.SetDefault(keyStrictBlacklist, d.StrictBlacklist)
	viper.SetDefault(keyWorkers, d.Workers)
	viper.SetDefault(keyStoreDriver, store.DriverDuckDB)
	viper.SetDefault(keyEquivThreshold, equiv.DefaultThreshold)
}

// extractConfig assembles the extractor configuration from flags,
// environment, config file and defaults.
func extractConfig() extract.Config {
	return extract.Config{
		MinConfidence:   viper.GetFloat64(keyMinConfidence),
		ContextWindow:   viper.GetInt(keyContextWindow),
		Method:          viper.GetString(keyMethod),
		StrictBlacklist: viper.GetBool(keyStrictBlacklist),
		Workers:         viper.GetInt(keyWorkers),
	}
}

// loadLexicon returns the built-in lexicon, merged with the configured
// override file when one is set.
func loadLexicon() (*lexicon.Lexicon, error) {
	path := viper.GetString(keyLexiconFile)
	if path == "" {
		return lexicon.Default(), nil
	}
	return lexicon.Load(path)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-varnorm configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-varnorm.yaml.",
		Example: `  vibe-varnorm config                                  # show all config
  vibe-varnorm config set extract.min_confidence 0.5   # lower the threshold
  vibe-varnorm config get extract.method               # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}
