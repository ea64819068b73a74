package storage

import (
	"database/sql"
)

// UpsertCard inserts a card or fully overwrites the existing row with the
// same id. Both paths succeed; re-crawling an unchanged card is a no-op
// in effect.
func (s *Store) UpsertCard(c Card) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO cards (id, name, image_url) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.ImageURL,
	)
	return err
}

// GetCard returns the card with the given id, or ErrNotFound.
func (s *Store) GetCard(id int64) (Card, error) {
	var c Card
	err := s.db.QueryRow(`SELECT id, name, image_url FROM cards WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.ImageURL)
	if err == sql.ErrNoRows {
		return Card{}, ErrNotFound
	}
	if err != nil {
		return Card{}, err
	}
	return c, nil
}

// MaxCardID returns the highest stored card id, or 0 for an empty store.
// The query surface uses it to bound the valid input range.
func (s *Store) MaxCardID() (int64, error) {
	var id sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(id) FROM cards`).Scan(&id); err != nil {
		return 0, err
	}
	return id.Int64, nil
}

// CountCards returns the number of stored cards.
func (s *Store) CountCards() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
