package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mkeene/listing-engine/internal/store"
	"github.com/mkeene/listing-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the registry and listing database",
	Long: `Store manages the SQLite database holding the property registry
(canonical properties, schools, airports, conservation area boundaries)
and the listing pipeline state (raw listings, match results, enriched
listings).`,
}

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath(cmd)
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Printf("initialized %s\n", path)
		return nil
	},
}

var storeLoadCmd = &cobra.Command{
	Use:   "load [seed-files...]",
	Short: "Load registry and listing data from YAML seed files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("provide one or more seed files")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, path := range args {
			fmt.Printf("loading %s\n", path)
			if _, err := st.LoadSeed(cmd.Context(), path, os.Stdout); err != nil {
				return err
			}
		}
		return nil
	},
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts for the main tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.TableCounts(cmd.Context())
		if err != nil {
			return err
		}

		tables := make([]string, 0, len(counts))
		for table := range counts {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			fmt.Printf("%-20s %d\n", table, counts[table])
		}
		return nil
	},
}

// openStore opens the SQLite store at the resolved database path,
// creating the schema if needed.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
}

func init() {
	storeCmd.AddCommand(storeInitCmd)
	storeCmd.AddCommand(storeLoadCmd)
	storeCmd.AddCommand(storeStatsCmd)

	rootCmd.AddCommand(storeCmd)
}
