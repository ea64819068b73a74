// Package crawler walks a card id range, fetches each card's page through
// the render session, and writes the card and its parsed comments to the
// store. Each id is processed fully before the next one begins; failures
// are contained to the id they occurred on.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ovoronin/cardvault/internal/comment"
	"github.com/ovoronin/cardvault/internal/render"
	"github.com/ovoronin/cardvault/internal/storage"
)

const (
	imageClass       = "card-show__image"
	commentItemClass = "comments__item"
)

// Store is the write-side storage surface the crawler needs.
type Store interface {
	UpsertCard(storage.Card) error
	ReplaceComments(cardID int64, comments []storage.Comment) error
	StartRun(storage.CrawlRun) error
	FinishRun(id string, finishedAt time.Time, saved, skipped, failed int) error
}

// Fetcher opens card pages. *render.Session implements it; tests swap in
// a fake serving fixture pages.
type Fetcher interface {
	Open(ctx context.Context, pageURL string) (*render.Page, error)
	Resolve(ref string) string
}

// Config carries the crawl policy.
type Config struct {
	// BaseURL is the source site root, without a trailing slash.
	BaseURL string
	// TitlePrefixLen is the number of runes of fixed site prefix to strip
	// from the page title to obtain the card name.
	TitlePrefixLen int
	// Delay is the fixed throttle observed after every id, success or not.
	Delay time.Duration
}

// Summary counts the outcomes of one crawl pass.
type Summary struct {
	Saved   int
	Skipped int
	Failed  int
}

// Crawler walks an id range through one session and one store.
type Crawler struct {
	fetcher Fetcher
	store   Store
	cfg     Config
	logger  *slog.Logger
}

// New creates a Crawler. A nil logger falls back to slog.Default.
func New(fetcher Fetcher, store Store, cfg Config, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{fetcher: fetcher, store: store, cfg: cfg, logger: logger}
}

// CardURL returns the page address for one card id.
func CardURL(baseURL string, id int64) string {
	return fmt.Sprintf("%s/cards/%d/users", strings.TrimSuffix(baseURL, "/"), id)
}

// Run walks ids from start to end inclusive, strictly ascending. A
// failure on one id never stops the pass; only context cancellation
// does. The pass is recorded in the store's crawl_runs bookkeeping.
func (c *Crawler) Run(ctx context.Context, start, end int64) (Summary, error) {
	runID := uuid.NewString()
	if err := c.store.StartRun(storage.CrawlRun{
		ID:        runID,
		StartedAt: time.Now(),
		StartID:   start,
		EndID:     end,
	}); err != nil {
		c.logger.Warn("could not record crawl run", "run_id", runID, "error", err)
	}

	c.logger.Info("crawl pass starting", "run_id", runID, "start", start, "end", end)

	var sum Summary
	for id := start; id <= end; id++ {
		if ctx.Err() != nil {
			break
		}

		c.crawlOne(ctx, id, &sum)

		// Fixed throttle after every id, success or failure.
		select {
		case <-ctx.Done():
		case <-time.After(c.cfg.Delay):
		}
	}

	if err := c.store.FinishRun(runID, time.Now(), sum.Saved, sum.Skipped, sum.Failed); err != nil {
		c.logger.Warn("could not finish crawl run", "run_id", runID, "error", err)
	}

	c.logger.Info("crawl pass finished",
		"run_id", runID, "saved", sum.Saved, "skipped", sum.Skipped, "failed", sum.Failed)

	return sum, ctx.Err()
}

func (c *Crawler) crawlOne(ctx context.Context, id int64, sum *Summary) {
	pageURL := CardURL(c.cfg.BaseURL, id)

	page, err := c.fetcher.Open(ctx, pageURL)
	if err != nil {
		c.logger.Error("unexpected error fetching card, skipping", "card_id", id, "error", err)
		sum.Failed++
		return
	}

	name := c.cardName(page.Title())

	img, st := page.FindClass(imageClass)
	if st != render.LookupFound {
		c.logger.Warn("card likely deleted, skipping", "card_id", id)
		sum.Skipped++
		return
	}
	imageURL := c.fetcher.Resolve(img.Attr("src"))

	var comments []storage.Comment
	for _, el := range page.FindClassAll(commentItemClass) {
		parsed := comment.Parse(el.Text())
		comments = append(comments, storage.Comment{
			CardID:   id,
			Tag:      parsed.Tag,
			Author:   parsed.Author,
			PostedAt: parsed.PostedAt,
			Body:     parsed.Body,
		})
	}

	if err := c.store.UpsertCard(storage.Card{ID: id, Name: name, ImageURL: imageURL}); err != nil {
		c.logger.Error("saving card failed", "card_id", id, "error", err)
		sum.Failed++
		return
	}
	if err := c.store.ReplaceComments(id, comments); err != nil {
		c.logger.Error("saving comments failed", "card_id", id, "error", err)
		sum.Failed++
		return
	}

	c.logger.Info("card saved", "card_id", id, "name", name, "comments", len(comments))
	sum.Saved++
}

// cardName strips the fixed site prefix from a page title. Titles shorter
// than the prefix (error pages mostly) yield an empty name; the image
// lookup decides whether the card exists.
func (c *Crawler) cardName(title string) string {
	runes := []rune(title)
	if len(runes) <= c.cfg.TitlePrefixLen {
		return ""
	}
	return strings.TrimSpace(string(runes[c.cfg.TitlePrefixLen:]))
}
