package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/ovoronin/cardvault/internal/rank"
	"github.com/ovoronin/cardvault/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	est, err := rank.NewEstimator(rank.Default())
	if err != nil {
		t.Fatalf("rank.NewEstimator: %v", err)
	}
	return New(store, est, "https://cards.example/"), store
}

func seedCard(t *testing.T, store *storage.Store, id int64, name string, bodies ...string) {
	t.Helper()
	if err := store.UpsertCard(storage.Card{ID: id, Name: name, ImageURL: "https://cards.example/img.jpg"}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	var comments []storage.Comment
	for _, b := range bodies {
		comments = append(comments, storage.Comment{Body: b})
	}
	if err := store.ReplaceComments(id, comments); err != nil {
		t.Fatalf("ReplaceComments: %v", err)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 42 "); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "1.5", "1e3"} {
		if _, err := ParseID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ParseID(%q): expected ErrInvalidID, got %v", bad, err)
		}
	}
}

func TestLookupValidation(t *testing.T) {
	svc, store := newTestService(t)
	seedCard(t, store, 10, "Top Card")

	for _, id := range []int64{0, -5, 11} {
		if _, err := svc.Lookup(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Lookup(%d): expected ErrInvalidID, got %v", id, err)
		}
	}

	// The maximum known id is valid input.
	if _, err := svc.Lookup(10); err != nil {
		t.Errorf("Lookup(max): %v", err)
	}
}

func TestLookupNotFoundWithinRange(t *testing.T) {
	svc, store := newTestService(t)
	seedCard(t, store, 3, "Low")
	seedCard(t, store, 10, "High")

	// 7 is within [1, max] but absent: not-found, not validation failure.
	if _, err := svc.Lookup(7); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound, got %v", err)
	}
}

func TestLookupEstimate(t *testing.T) {
	svc, store := newTestService(t)
	seedCard(t, store, 5, "Priced", "sold for 3s", "3 s again", "0s nothing")

	a, err := svc.Lookup(5)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a.Estimate != "3S" {
		t.Errorf("estimate = %q, want 3S", a.Estimate)
	}
	if a.Link != "https://cards.example/cards/5/users" {
		t.Errorf("link = %q", a.Link)
	}
}

func TestLookupNoSignal(t *testing.T) {
	svc, store := newTestService(t)
	seedCard(t, store, 5, "Silent", "beautiful card")

	a, err := svc.Lookup(5)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a.Estimate != "" {
		t.Errorf("estimate = %q, want empty", a.Estimate)
	}

	caption := svc.Caption(a)
	if !strings.Contains(caption, "no signal") {
		t.Errorf("caption missing no-signal marker: %q", caption)
	}
}

func TestCaption(t *testing.T) {
	svc, store := newTestService(t)
	seedCard(t, store, 5, "Priced", "2a all day")

	a, err := svc.Lookup(5)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	caption := svc.Caption(a)
	for _, want := range []string{"Card ID: 5", "Name: Priced", "`2A`", "https://cards.example/cards/5/users"} {
		if !strings.Contains(caption, want) {
			t.Errorf("caption missing %q:\n%s", want, caption)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	svc, _ := newTestService(t)

	msg := svc.NotFoundMessage(99)
	if !strings.Contains(msg, "https://cards.example/cards/99/users") {
		t.Errorf("not-found message missing link: %q", msg)
	}
}
