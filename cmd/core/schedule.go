package main

import (
	"fmt"

	"github.com/right-track/core/store"
	"github.com/right-track/core/transit"
)

// openSchedule opens the on-disk schedule database at dbPath and wires
// a Schedule over it, for read-only commands.
func openSchedule() (*transit.Schedule, func() error, error) {
	st, err := store.NewSQLiteStore(store.SQLiteConfig{OnDisk: true, Directory: dbPath})
	if err != nil {
		return nil, nil, fmt.Errorf("opening schedule database: %w", err)
	}
	return transit.New(st, transit.Options{}), st.Close, nil
}
