package crawler

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ovoronin/cardvault/internal/render"
	"github.com/ovoronin/cardvault/internal/storage"
)

// fakeFetcher serves fixture pages by URL. A missing entry simulates a
// network failure.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Open(ctx context.Context, pageURL string) (*render.Page, error) {
	src, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return render.ParsePage(strings.NewReader(src))
}

func (f *fakeFetcher) Resolve(ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return "https://cards.example" + ref
}

const titlePrefix = "Cards catalog page — " // 21 runes

func cardPage(name, imgSrc string, comments ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>%s%s</title></head><body>`, titlePrefix, name)
	fmt.Fprintf(&b, `<img class="card-show__image" src=%q>`, imgSrc)
	for _, c := range comments {
		b.WriteString(`<div class="comments__item">`)
		for _, line := range strings.Split(c, "\n") {
			fmt.Fprintf(&b, "<div>%s</div>", line)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

const deletedPage = `<html><head><title>404</title></head><body>nothing here</body></html>`

func newTestCrawler(t *testing.T, pages map[string]string) (*Crawler, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := Config{
		BaseURL:        "https://cards.example",
		TitlePrefixLen: len([]rune(titlePrefix)),
		Delay:          0,
	}
	return New(&fakeFetcher{pages: pages}, store, cfg, nil), store
}

func TestRunSavesCardsAndComments(t *testing.T) {
	pages := map[string]string{
		CardURL("https://cards.example", 1): cardPage("Sunrise Hero", "/img/1.jpg",
			"[VIP]\nAlice\n2024-01-01\n0\nGreat item 5S\nReply",
			"Bob\n2024-01-02\n3\ntake it for 2a\nReply",
		),
	}
	c, store := newTestCrawler(t, pages)

	sum, err := c.Run(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Saved != 1 || sum.Skipped != 0 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}

	card, err := store.GetCard(1)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if card.Name != "Sunrise Hero" {
		t.Errorf("name = %q", card.Name)
	}
	if card.ImageURL != "https://cards.example/img/1.jpg" {
		t.Errorf("image url = %q", card.ImageURL)
	}

	comments, err := store.ListComments(1)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Tag != "[VIP]" || comments[0].Author != "Alice" || comments[0].Body != "Great item 5S" {
		t.Errorf("first comment = %+v", comments[0])
	}
	if comments[1].Author != "Bob" || comments[1].Body != "take it for 2a" {
		t.Errorf("second comment = %+v", comments[1])
	}
}

func TestRunSkipsDeletedCards(t *testing.T) {
	pages := map[string]string{
		CardURL("https://cards.example", 1): cardPage("Kept", "/img/1.jpg"),
		CardURL("https://cards.example", 2): deletedPage,
		CardURL("https://cards.example", 3): cardPage("Also Kept", "/img/3.jpg"),
	}
	c, store := newTestCrawler(t, pages)

	sum, err := c.Run(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Saved != 2 || sum.Skipped != 1 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}

	if _, err := store.GetCard(2); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted card written anyway: %v", err)
	}
	if _, err := store.GetCard(3); err != nil {
		t.Errorf("crawl did not continue past deleted card: %v", err)
	}
}

func TestRunContinuesPastFetchFailures(t *testing.T) {
	pages := map[string]string{
		// id 1 missing: fetch error.
		CardURL("https://cards.example", 2): cardPage("Survivor", "/img/2.jpg"),
	}
	c, store := newTestCrawler(t, pages)

	sum, err := c.Run(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Failed != 1 || sum.Saved != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if _, err := store.GetCard(2); err != nil {
		t.Errorf("crawl did not continue past fetch failure: %v", err)
	}
}

func TestRunIdempotentAcrossPasses(t *testing.T) {
	pages := map[string]string{
		CardURL("https://cards.example", 1): cardPage("Stable", "/img/1.jpg",
			"Bob\n2024-01-02\n3\n2s or nothing\nReply",
		),
	}
	c, store := newTestCrawler(t, pages)

	if _, err := c.Run(context.Background(), 1, 1); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	card1, _ := store.GetCard(1)
	comments1, _ := store.ListComments(1)

	if _, err := c.Run(context.Background(), 1, 1); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	card2, _ := store.GetCard(1)
	comments2, _ := store.ListComments(1)

	if card1 != card2 {
		t.Errorf("card changed across identical passes: %+v vs %+v", card1, card2)
	}
	if len(comments1) != len(comments2) {
		t.Fatalf("comment count changed: %d -> %d", len(comments1), len(comments2))
	}
	// Surrogate ids advance, content must not.
	for i := range comments1 {
		a, b := comments1[i], comments2[i]
		a.ID, b.ID = 0, 0
		if !reflect.DeepEqual(a, b) {
			t.Errorf("comment %d changed: %+v vs %+v", i, a, b)
		}
	}
}

func TestRunRecordsCrawlRun(t *testing.T) {
	pages := map[string]string{
		CardURL("https://cards.example", 1): cardPage("One", "/img/1.jpg"),
		CardURL("https://cards.example", 2): deletedPage,
	}
	c, store := newTestCrawler(t, pages)

	if _, err := c.Run(context.Background(), 1, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}

	run, err := store.LastRun()
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if run.StartID != 1 || run.EndID != 3 {
		t.Errorf("run range = [%d, %d]", run.StartID, run.EndID)
	}
	if run.Saved != 1 || run.Skipped != 1 || run.Failed != 1 {
		t.Errorf("run counters = %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Error("run not finished")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	pages := map[string]string{
		CardURL("https://cards.example", 1): cardPage("Only", "/img/1.jpg"),
	}
	c, store := newTestCrawler(t, pages)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Run(ctx, 1, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := store.GetCard(1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cancelled run still wrote cards: %v", err)
	}
}

func TestCardName(t *testing.T) {
	c := &Crawler{cfg: Config{TitlePrefixLen: 5}}

	if got := c.cardName("01234 Name"); got != "Name" {
		t.Errorf("cardName = %q, want Name", got)
	}
	if got := c.cardName("404"); got != "" {
		t.Errorf("short title cardName = %q, want empty", got)
	}
}
