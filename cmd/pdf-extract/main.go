// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-extract CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-extract/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes diagnostics to stderr. It is rebuilt once the configured
// level is known.
var logger = zap.NewNop()

// rootCmd is the base command. Without a subcommand it runs extract.
var rootCmd = &cobra.Command{
	Use:   "pdf-extract [input.pdf]",
	Short: "Extract per-page text from a PDF",
	Long: `pdf-extract reads a PDF, prints the text of every page to stdout between
page delimiters, and writes the concatenated text to a file.

Running pdf-extract without a subcommand is the same as "pdf-extract extract".
Extracted documents can optionally be recorded in a local page index and
searched later with "pdf-extract pages".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString(keyLogLevel), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	RunE: runExtract,
}

func init() {
	if l, err := logging.New(logging.DefaultLevel, os.Stderr); err == nil {
		logger = l
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-extract.yaml or ~/.config/pdf-extract/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	addExtractFlags(rootCmd.Flags())
	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf-extract"))
		}
	}

	viper.SetEnvPrefix("PDF_EXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("pdf-extract failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
