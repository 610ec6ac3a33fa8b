// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the listing-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkeene/listing-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the listing-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "listing-engine",
	Short: "Match, enrich, and rank property listings",
	Long: `listing-engine is the core of a property listing pipeline. Raw scraped
listings are matched to canonical registry properties, enriched with
external features (energy, crime, flood risk, schools, conservation
areas, valuation), and ranked against user preference weights.

Each stage is a subcommand: store manages the SQLite registry and
listing database, match links raw listings to properties, enrich builds
the full feature profile, value runs the valuation model directly, and
search filters and ranks enriched listings.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./listing-engine.yaml or ~/.config/listing-engine/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database (default: ./listing-engine.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("listing-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "listing-engine"))
		}
	}

	viper.SetEnvPrefix("LISTING_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the database path: the --db flag wins, then the config
// file, then the default next to the working directory.
func dbPath(cmd *cobra.Command) string {
	if path, _ := cmd.Root().PersistentFlags().GetString("db"); path != "" {
		return path
	}
	if path := viper.GetString("store.db_path"); path != "" {
		return path
	}
	return "listing-engine.db"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
