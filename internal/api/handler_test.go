package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ovoronin/cardvault/internal/query"
	"github.com/ovoronin/cardvault/internal/rank"
	"github.com/ovoronin/cardvault/internal/storage"
)

func newTestHandler(t *testing.T) (http.Handler, *storage.Store) {
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
	return NewHandler(query.New(store, est, "https://cards.example")), store
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doGet(t, h, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestGetCard(t *testing.T) {
	h, store := newTestHandler(t)

	if err := store.UpsertCard(storage.Card{ID: 5, Name: "Priced", ImageURL: "https://cards.example/img.jpg"}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	if err := store.ReplaceComments(5, []storage.Comment{{Body: "sold for 3s"}, {Body: "3 s again"}}); err != nil {
		t.Fatalf("ReplaceComments: %v", err)
	}

	rec := doGet(t, h, "/cards/5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Estimate string `json:"estimate"`
		NoSignal bool   `json:"no_signal"`
		Link     string `json:"link"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != 5 || resp.Name != "Priced" || resp.Estimate != "3S" || resp.NoSignal {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Link != "https://cards.example/cards/5/users" {
		t.Errorf("link = %q", resp.Link)
	}
}

func TestGetCardNoSignal(t *testing.T) {
	h, store := newTestHandler(t)

	if err := store.UpsertCard(storage.Card{ID: 1, Name: "Silent"}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}

	rec := doGet(t, h, "/cards/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Estimate string `json:"estimate"`
		NoSignal bool   `json:"no_signal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Estimate != "" || !resp.NoSignal {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetCardValidation(t *testing.T) {
	h, store := newTestHandler(t)

	if err := store.UpsertCard(storage.Card{ID: 10}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}

	for _, path := range []string{"/cards/abc", "/cards/0", "/cards/-5", "/cards/11"} {
		rec := doGet(t, h, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, rec.Code)
		}
	}
}

func TestGetCardNotFound(t *testing.T) {
	h, store := newTestHandler(t)

	if err := store.UpsertCard(storage.Card{ID: 10}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}

	rec := doGet(t, h, "/cards/7")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Type != "not_found_error" {
		t.Errorf("error type = %q", resp.Error.Type)
	}
}
