package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/mkeene/listing-engine/internal/score"
	"github.com/mkeene/listing-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter and rank enriched listings by preference weights",
	Long: `Search applies hard filters (budget, bedrooms, property type, energy
rating, flood risk, conservation area, postcode, airport proximity) to
the enriched listings and ranks what remains by the weighted preference
score. Filters and weights are read from a YAML request file; an empty
result is a valid outcome.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("request", "", "YAML file with filters, weights, limit, and offset")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (overrides the request file)")
	searchCmd.Flags().Int("offset", 0, "number of ranked results to skip (overrides the request file)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	var req types.SearchRequest
	if path, _ := cmd.Flags().GetString("request"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading request file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("parsing request file %s: %w", path, err)
		}
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		req.Limit = limit
	}
	if offset, _ := cmd.Flags().GetInt("offset"); offset > 0 {
		req.Offset = offset
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	scorer := score.New(st, types.SearchConfig{
		MaxResults: viper.GetInt("search.max_results"),
	})

	results, err := scorer.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("no listings matched the filters")
		return nil
	}
	for i, r := range results {
		price := "price unknown"
		if r.Price != nil {
			price = fmt.Sprintf("%.0f", *r.Price)
		}
		fmt.Printf("%2d. [%.2f] listing %d: %s, %s (%s)\n",
			req.Offset+i+1, r.MatchScore, r.RawListingID, r.Title, r.Postcode, price)
	}
	return nil
}
