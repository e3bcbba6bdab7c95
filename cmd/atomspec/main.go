// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the atomspec CLI. It extracts, lints,
// and grades atom specification documents and keeps a catalog of the
// extracted records.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/atomspec/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger carries diagnostics to stderr. initConfig replaces it once the
// log level is known.
var logger = slog.Default()

// rootCmd is the base command for the atomspec CLI.
var rootCmd = &cobra.Command{
	Use:   "atomspec",
	Short: "Validate and extract atom specification documents",
	Long: `atomspec reads Markdown documents made of atoms: headed blocks with
fixed fields (ID, Type, Scope, Status, DependsOn, Rationale) and ordered
sections (Spec, Invariants, Acceptance, Metrics, TestVectors, Prompts).

lint reports every violation in a document, extract turns a valid document
into JSON or YAML records, grade scores records for documentation quality,
and catalog indexes records for search.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./atomspec.yaml or ~/.config/atomspec/atomspec.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level: debug, info, warn, error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("extract.out", types.DefaultRecordsPath)
	viper.SetDefault("catalog.dir", "catalog")
	viper.SetDefault("catalog.max_results", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("atomspec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "atomspec"))
		}
	}

	viper.SetEnvPrefix("ATOMSPEC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	logger = newLogger(os.Stderr, viper.GetString("log.level"))
	slog.SetDefault(logger)

	if readErr == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, readErr)
	}
}

// newLogger builds a text logger at the named level. Unknown levels fall
// back to warn.
func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// loadConfig returns the settings resolved from flags, environment, and
// the config file.
func loadConfig() types.Config {
	return types.Config{
		Extract: types.ExtractConfig{
			OutPath:    viper.GetString("extract.out"),
			SchemaPath: viper.GetString("extract.schema"),
			Format:     types.RecordFormat(viper.GetString("extract.format")),
		},
		Catalog: types.CatalogConfig{
			CatalogDir: viper.GetString("catalog.dir"),
			MaxResults: viper.GetInt("catalog.max_results"),
		},
		Log: types.LogConfig{
			Level: viper.GetString("log.level"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
