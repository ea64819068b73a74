// Package query answers card lookups against the local store: validate
// the id, load the card, estimate its rank from stored comments, and
// format the reply. Both the Telegram bot and the HTTP API sit on top of
// it.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ovoronin/cardvault/internal/rank"
	"github.com/ovoronin/cardvault/internal/storage"
)

// ErrInvalidID marks ids that are not positive integers within the known
// range. It never reaches the store.
var ErrInvalidID = errors.New("invalid card id")

// Store is the read-side storage surface the service needs.
type Store interface {
	GetCard(id int64) (storage.Card, error)
	ListCommentBodies(cardID int64) ([]string, error)
	MaxCardID() (int64, error)
}

// Answer is one resolved lookup. Estimate is empty when the comments
// carry no rank signal.
type Answer struct {
	Card     storage.Card
	Estimate string
	Link     string
}

// Service resolves card queries.
type Service struct {
	store     Store
	estimator *rank.Estimator
	baseURL   string
}

// New creates a Service. baseURL is the source site root used to build
// deep links.
func New(store Store, estimator *rank.Estimator, baseURL string) *Service {
	return &Service{store: store, estimator: estimator, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// ParseID parses user-entered text as a card id. Any non-integer input
// is ErrInvalidID; range checking happens in Lookup.
func ParseID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// CardLink returns the public page address for a card id, included in
// replies so the answer can be checked against the live site.
func (s *Service) CardLink(id int64) string {
	return fmt.Sprintf("%s/cards/%d/users", s.baseURL, id)
}

// MaxCardID exposes the store's highest known id for greeting messages.
func (s *Service) MaxCardID() (int64, error) {
	return s.store.MaxCardID()
}

// Lookup resolves one card id. Ids outside [1, MaxCardID] return
// ErrInvalidID; the maximum id itself is valid. Absent cards return
// storage.ErrNotFound.
func (s *Service) Lookup(id int64) (Answer, error) {
	max, err := s.store.MaxCardID()
	if err != nil {
		return Answer{}, fmt.Errorf("reading max card id: %w", err)
	}
	if id <= 0 || id > max {
		return Answer{}, ErrInvalidID
	}

	card, err := s.store.GetCard(id)
	if err != nil {
		return Answer{}, err
	}

	bodies, err := s.store.ListCommentBodies(id)
	if err != nil {
		return Answer{}, fmt.Errorf("reading comments for card %d: %w", id, err)
	}

	estimate, ok := s.estimator.Estimate(strings.Join(bodies, "\n"))
	if !ok {
		estimate = ""
	}

	return Answer{Card: card, Estimate: estimate, Link: s.CardLink(id)}, nil
}

// Caption formats the photo caption for an answer.
func (s *Service) Caption(a Answer) string {
	estimate := "no signal"
	if a.Estimate != "" {
		estimate = "`" + a.Estimate + "`"
	}
	return fmt.Sprintf("Card ID: %d\nName: %s\n\nEstimated value: %s\n\nLink: %s",
		a.Card.ID, a.Card.Name, estimate, a.Link)
}

// NotFoundMessage formats the reply for a card absent from the store.
func (s *Service) NotFoundMessage(id int64) string {
	return fmt.Sprintf("Card %d is not in the database; it may have been deleted.\nCheck for yourself: %s",
		id, s.CardLink(id))
}
