package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/right-track/core/query"
)

var stopsCmd = &cobra.Command{
	Use:   "stops <lat> <lon> [limit]",
	Short: "Lists stops near a geographical location, nearest first",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  stops,
}

func init() {
	rootCmd.AddCommand(stopsCmd)
}

func stops(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid lon: %w", err)
	}
	limit := 0
	if len(args) == 3 {
		limit, err = strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid limit: %w", err)
		}
	}

	sched, closeFn, err := openSchedule()
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := sched.Layer.GetStopsByLocation(context.Background(), lat, lon, query.StopsByLocationOptions{Count: limit})
	if err != nil {
		return err
	}

	for _, s := range results {
		fmt.Printf("%-12s %-30s %6.2f mi\n", s.ID, s.DisplayNameOrFallback(), s.Distance)
	}
	return nil
}
