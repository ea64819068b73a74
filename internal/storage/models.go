package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Card is one catalog entry harvested from the source site. The id is
// assigned by the site and never changes; name and image are overwritten
// on every re-crawl.
type Card struct {
	ID       int64
	Name     string
	ImageURL string
}

// Comment is one parsed comment attached to a card. PostedAt is the
// display string shown on the page, kept verbatim.
type Comment struct {
	ID       int64
	CardID   int64
	Tag      string
	Author   string
	PostedAt string
	Body     string
}

// CrawlRun records one sweep of the crawler over an id range. Runs are
// bookkeeping only; they are never consulted to resume a crawl.
type CrawlRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	StartID    int64
	EndID      int64
	Saved      int
	Skipped    int
	Failed     int
}
