package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkeene/listing-engine/internal/avm"
)

var valueCmd = &cobra.Command{
	Use:   "value <property-id> <asking-price>",
	Short: "Run the valuation model for one property",
	Long: `Value runs the automated valuation model directly: given a property id
and an asking price it prints the estimate, confidence interval,
confidence score, and the asking-price delta. Repeated runs for the
same property return identical values.`,
	Args: cobra.ExactArgs(2),
	RunE: runValue,
}

func init() {
	valueCmd.Flags().Bool("json", false, "output the estimate as JSON")

	rootCmd.AddCommand(valueCmd)
}

func runValue(cmd *cobra.Command, args []string) error {
	propertyID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid property id %q", args[0])
	}
	askingPrice, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid asking price %q", args[1])
	}

	estimate, err := avm.NewSeeded().Estimate(cmd.Context(), propertyID, &askingPrice)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(estimate)
	}

	fmt.Printf("property %d, asking %.2f\n", propertyID, askingPrice)
	fmt.Printf("estimate:   %.2f\n", *estimate.Estimate)
	fmt.Printf("interval:   [%.2f, %.2f]\n", *estimate.CILower, *estimate.CIUpper)
	fmt.Printf("confidence: %.2f\n", *estimate.ConfidenceScore)
	fmt.Printf("delta:      %+.2f%%\n", *estimate.ValueDeltaPct)
	return nil
}
