// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qm9-simplify/pkg/types"
)

const (
	configName = "qm9-simplify"
	envPrefix  = "QM9_SIMPLIFY"
)

// flagKeys maps persistent flag names to their config keys.
var flagKeys = map[string]string{
	"suffix":         "suffix",
	"verbose":        "verbose",
	"ledger":         "ledger.path",
	"skip-unchanged": "ledger.skip_unchanged",
	"report":         "report.path",
}

// loadConfig merges defaults, the config file, QM9_SIMPLIFY_* environment
// variables and flags, in increasing priority, into a types.Config.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (types.Config, error) {
	var cfg types.Config
	stderr := cmd.ErrOrStderr()

	v.SetDefault("suffix", types.DefaultSuffix)
	v.SetDefault("extension", types.DefaultExtension)
	v.SetDefault("verbose", false)
	v.SetDefault("ledger.path", "")
	v.SetDefault("ledger.skip_unchanged", false)
	v.SetDefault("report.path", "")

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	}

	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return cfg, fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Extension != "" && !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	return cfg, nil
}

// newLogger returns a text logger on w: Debug level when verbose, Warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
