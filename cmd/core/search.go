package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <origin-stop-id> <destination-stop-id> <YYYYMMDD> <HH:MM:SS>",
	Short: "Searches for journeys between two stops departing around the given time",
	Args:  cobra.ExactArgs(4),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	date, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", args[2], err)
	}
	departure, err := gtfstime.ParseDateTime(date, args[3])
	if err != nil {
		return fmt.Errorf("invalid departure time %q: %w", args[3], err)
	}

	sched, closeFn, err := openSchedule()
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := sched.Engine.Search(context.Background(), search.Request{
		OriginID:      args[0],
		DestinationID: args[1],
		Departure:     departure,
		Options:       search.DefaultOptions(),
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no journeys found")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. depart %s arrive %s (%d transfer(s), %s)\n",
			i+1, r.Origin.Departure.HHMM(), r.Destination.Arrival.HHMM(), r.NumTransfers, r.TravelTime)
	}
	return nil
}
