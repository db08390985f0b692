// Package stats implements the stats CLI command: recompute and print
// the aggregate numbers for a stored run.
package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/aisatlas/langcover/pkg/db"
	"github.com/aisatlas/langcover/pkg/stats"
)

func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	var runID int64
	if c.IsSet("run") {
		runID = c.Int64("run")
	} else {
		runID, err = database.LatestRunID()
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintln(os.Stderr, "No runs recorded yet. Run: langcover analyze")
			os.Exit(1)
		}
		if err != nil {
			logger.Error("failed to find latest run", "error", err)
			os.Exit(2)
		}
	}

	results, err := database.GetRunResults(runID)
	if err != nil {
		logger.Error("failed to load run results", "run_id", runID, "error", err)
		os.Exit(2)
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "Run %d has no results\n", runID)
		os.Exit(1)
	}

	fmt.Printf("Run %d\n", runID)
	stats.Summarize(results).Print(os.Stdout)
	return nil
}
