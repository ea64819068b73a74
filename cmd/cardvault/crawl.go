package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ovoronin/cardvault/internal/config"
	"github.com/ovoronin/cardvault/internal/crawler"
	"github.com/ovoronin/cardvault/internal/render"
	"github.com/ovoronin/cardvault/internal/storage"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run one crawl pass over the card id range",
	Long: `Run one crawl pass over the card id range.

The pass walks ids in ascending order, one card at a time, and overwrites
each card and its comments in the local database. Re-running the pass is
safe: unchanged cards are rewritten with equivalent data. Requires stored
credentials; run "cardvault login" first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetInt64("start")
		end, _ := cmd.Flags().GetInt64("end")
		return runCrawl(start, end)
	},
}

func init() {
	crawlCmd.Flags().Int64("start", 0, "first card id (default from config)")
	crawlCmd.Flags().Int64("end", 0, "last card id (default from config)")
}

func runCrawl(start, end int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if start <= 0 {
		start = int64(cfg.Crawl.StartID)
	}
	if end <= 0 {
		end = int64(cfg.Crawl.EndID)
	}
	if start > end {
		return fmt.Errorf("start id %d is greater than end id %d", start, end)
	}

	cookies, err := render.LoadCookies(cfg.Storage.CookieFile)
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		return fmt.Errorf("no stored credentials at %s; run \"cardvault login\" first", cfg.Storage.CookieFile)
	}

	session, err := render.NewSession(cfg.Source.BaseURL)
	if err != nil {
		return err
	}
	session.SetCookies(cookies)

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := crawler.New(session, store, crawler.Config{
		BaseURL:        cfg.Source.BaseURL,
		TitlePrefixLen: cfg.Source.TitlePrefixLen,
		Delay:          crawlDelay(cfg),
	}, slog.Default())

	sum, err := c.Run(ctx, start, end)

	printStatus("Saved", "%d", sum.Saved)
	printStatus("Skipped", "%d", sum.Skipped)
	printStatus("Failed", "%d", sum.Failed)

	if err != nil {
		printWarning("crawl interrupted: %v", err)
		return nil
	}
	printSuccess("Crawl pass complete")
	return nil
}
