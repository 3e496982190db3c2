package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/right-track/core/store"
	"github.com/right-track/core/transit"
)

var loadCmd = &cobra.Command{
	Use:   "load <feed.zip>",
	Short: "Ingests a zipped GTFS static feed into the schedule database",
	Args:  cobra.ExactArgs(1),
	RunE:  load,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func load(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	st, err := store.NewSQLiteStore(store.SQLiteConfig{OnDisk: true, Directory: dbPath})
	if err != nil {
		return fmt.Errorf("opening schedule database: %w", err)
	}
	defer st.Close()

	if _, err := transit.Load(context.Background(), st, transit.Options{}, data); err != nil {
		return fmt.Errorf("loading feed: %w", err)
	}

	fmt.Printf("loaded %s into %s/schedule.db\n", args[0], dbPath)
	return nil
}
