package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkeene/listing-engine/internal/avm"
	"github.com/mkeene/listing-engine/internal/enrich"
	"github.com/mkeene/listing-engine/internal/featurestore"
	"github.com/mkeene/listing-engine/pkg/types"
)

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultSourceTimeout = 10 * time.Second
	defaultUserAgent     = "listing-engine/0.1"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [listing-ids...]",
	Short: "Build the full feature profile for matched listings",
	Long: `Enrich joins each matched listing with its canonical property and
gathers derived features from every source: the external feature store
(energy, crime, deprivation, flood risk, broadband, planning), the
spatial registry (schools, airports, conservation areas), and the
valuation model. Sources are independent; a failing source leaves its
fields empty instead of failing the listing.

With no arguments, every stored raw listing is processed; listings
without a match result are reported and skipped.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("feature-url", "", "feature store base URL")
	enrichCmd.Flags().String("feature-api-key", "", "feature store API key (default: .secrets/feature-store-api-key)")
	enrichCmd.Flags().Duration("source-timeout", 0, "per-source lookup timeout (default 10s)")
	enrichCmd.Flags().Int("workers", 0, "batch worker pool size (default 4)")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	featureURL, _ := cmd.Flags().GetString("feature-url")
	apiKey, _ := cmd.Flags().GetString("feature-api-key")
	sourceTimeout, _ := cmd.Flags().GetDuration("source-timeout")
	if sourceTimeout == 0 {
		sourceTimeout = defaultSourceTimeout
	}
	workers, _ := cmd.Flags().GetInt("workers")

	features := featurestore.New(types.FeatureStoreConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultHTTPTimeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL: featureURL,
		APIKey:  secretDefault("feature-store-api-key", apiKey),
	})

	engine := enrich.New(st, features, avm.NewSeeded(), types.EnrichConfig{
		SourceTimeout: sourceTimeout,
		Workers:       workers,
	})

	ids, err := listingIDs(cmd.Context(), st, args, false)
	if err != nil {
		return err
	}

	result := engine.EnrichBatch(cmd.Context(), ids, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d listing(s) failed enrichment", result.Failed)
	}
	return nil
}
