package commands

import (
	"fmt"
	"os"

	"github.com/awarehq/aware-api/internal/database"
)

// openDatabase connects using DATABASE_URL. The CLI does not need the rest
// of the server configuration, so it reads the one variable directly.
func openDatabase() (*database.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return database.New(dsn)
}

func closeDatabase(db *database.DB) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
}
