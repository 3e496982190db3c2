package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "core",
	Short:        "GTFS schedule query tool",
	Long:         "Loads a GTFS static feed and answers stop/trip/search queries against it",
	SilenceUsage: true,
}

var dbPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "", ".", "directory holding schedule.db")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
