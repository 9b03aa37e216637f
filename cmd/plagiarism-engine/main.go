// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the plagiarism-engine CLI. It
// analyses submissions from the command line, manages the reference
// corpus, and serves the HTTP API.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the plagiarism-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "plagiarism-engine",
	Short: "Detect textual overlap between OCR submissions and reference corpora",
	Long: `plagiarism-engine compares submitted text, typically noisy OCR output,
against a local reference corpus and the Crossref bibliographic database.

Local analysis corrects OCR errors against the corpus vocabulary, ranks
reference documents by TF-IDF cosine similarity, and reports a verdict.
External analysis queries Crossref with extracted keywords and scores each
abstract by n-gram overlap.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./plagiarism-engine.yaml or ~/.config/plagiarism-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding corpus.db (overrides corpus.data_dir)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides log_level)")
	viper.BindPFlag("corpus.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("plagiarism-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "plagiarism-engine"))
		}
	}

	viper.SetEnvPrefix("PLAGIARISM_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
