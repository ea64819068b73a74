package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovoronin/cardvault/internal/config"
	"github.com/ovoronin/cardvault/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus()
	},
}

func runStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	printStatus("Config file", "%s", config.FilePath())
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	printStatus("Source", "%s", cfg.Source.BaseURL)

	if _, err := os.Stat(cfg.Storage.CookieFile); err == nil {
		printStatus("Credentials", "%s", cfg.Storage.CookieFile)
	} else {
		printStatus("Credentials", "none (run \"cardvault login\")")
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		printError("could not open database: %v", err)
		return nil
	}
	defer store.Close()

	if n, err := store.CountCards(); err == nil {
		printStatus("Cards", "%d", n)
	}
	if max, err := store.MaxCardID(); err == nil {
		printStatus("Max card id", "%d", max)
	}

	run, err := store.LastRun()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		printStatus("Last crawl", "never")
	case err != nil:
		printError("could not read crawl runs: %v", err)
	default:
		finished := "still running or interrupted"
		if !run.FinishedAt.IsZero() {
			finished = run.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		printStatus("Last crawl", "%s", finished)
		printStatus("Last crawl range", "[%d, %d]", run.StartID, run.EndID)
		printStatus("Last crawl counts", "%d saved, %d skipped, %d failed",
			run.Saved, run.Skipped, run.Failed)
	}

	return nil
}
