package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkeene/listing-engine/internal/match"
	"github.com/mkeene/listing-engine/internal/store"
	"github.com/mkeene/listing-engine/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match [listing-ids...]",
	Short: "Match raw listings to canonical registry properties",
	Long: `Match links raw listings to canonical properties through three tiers:
exact property reference (confidence 1.00), postcode plus building
number (0.95), and fuzzy address similarity within the postcode
(0.70-1.00). A listing that matches no tier is left unmatched; that is
a valid outcome, not an error.

With no arguments, all unmatched raw listings are processed; pass
listing ids to re-match specific listings.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Float64("threshold", 0, "minimum fuzzy similarity (default 0.70)")
	matchCmd.Flags().Bool("all", false, "re-match every raw listing, not just unmatched ones")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	matcher := match.New(st, types.MatcherConfig{FuzzyThreshold: threshold})

	ctx := cmd.Context()
	all, _ := cmd.Flags().GetBool("all")
	ids, err := listingIDs(ctx, st, args, !all)
	if err != nil {
		return err
	}

	var matched, unmatched int
	for _, id := range ids {
		raw, err := st.RawListingByID(ctx, id)
		if err != nil {
			return err
		}

		result, err := matcher.Match(ctx, raw.RawAddress, raw.Postcode, raw.UPRN)
		if err != nil {
			return fmt.Errorf("matching listing %d: %w", id, err)
		}
		if result == nil {
			fmt.Printf("no match for listing %d (%s)\n", id, raw.RawAddress)
			unmatched++
			continue
		}

		if err := st.SaveMatchResult(ctx, id, *result); err != nil {
			return err
		}
		fmt.Printf("matched listing %d -> property %d (%s, %.2f)\n",
			id, result.PropertyID, result.Method, result.Confidence)
		matched++
	}

	fmt.Printf("\nMatch summary: %d matched, %d unmatched (total: %d)\n",
		matched, unmatched, matched+unmatched)
	return nil
}

// listingIDs resolves the listing ids to process: explicit arguments, or
// the stored raw listings (optionally unmatched only).
func listingIDs(ctx context.Context, st *store.Store, args []string, unmatchedOnly bool) ([]int64, error) {
	if len(args) > 0 {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid listing id %q", arg)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return st.RawListingIDs(ctx, unmatchedOnly)
}
