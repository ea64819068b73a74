package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovoronin/cardvault/internal/config"
	"github.com/ovoronin/cardvault/internal/query"
	"github.com/ovoronin/cardvault/internal/rank"
	"github.com/ovoronin/cardvault/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Look up one card in the local database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(args[0])
	},
}

func runShow(arg string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	id, err := query.ParseID(arg)
	if err != nil {
		return fmt.Errorf("card id must be an integer, got %q", arg)
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	estimator, err := rank.NewEstimator(rank.Default())
	if err != nil {
		return err
	}
	svc := query.New(store, estimator, cfg.Source.BaseURL)

	answer, err := svc.Lookup(id)
	switch {
	case errors.Is(err, query.ErrInvalidID):
		return fmt.Errorf("card id %d is out of range", id)
	case errors.Is(err, storage.ErrNotFound):
		printWarning("card %d is not in the database; it may have been deleted", id)
		fmt.Fprintf(os.Stderr, "  Check for yourself: %s\n", svc.CardLink(id))
		return nil
	case err != nil:
		return err
	}

	comments, err := store.ListComments(id)
	if err != nil {
		return err
	}

	printStatus("Card", "%d", answer.Card.ID)
	printStatus("Name", "%s", answer.Card.Name)
	printStatus("Image", "%s", answer.Card.ImageURL)
	if answer.Estimate != "" {
		printStatus("Estimate", "%s", answer.Estimate)
	} else {
		printStatus("Estimate", "no signal")
	}
	printStatus("Comments", "%d", len(comments))
	printStatus("Link", "%s", answer.Link)
	return nil
}
