package storage

import (
	"fmt"
)

// ReplaceComments deletes every comment stored for cardID and inserts the
// given list in input order, all in one transaction. Readers never observe
// the deleted-but-not-reinserted state, and repeated crawls of the same
// card never accumulate duplicates.
func (s *Store) ReplaceComments(cardID int64, comments []Comment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE card_id = ?`, cardID); err != nil {
		return fmt.Errorf("deleting comments for card %d: %w", cardID, err)
	}

	for _, c := range comments {
		if _, err := tx.Exec(`
			INSERT INTO comments (card_id, tag, author, posted_at, body)
			VALUES (?, ?, ?, ?, ?)`,
			cardID, c.Tag, c.Author, c.PostedAt, c.Body,
		); err != nil {
			return fmt.Errorf("inserting comment for card %d: %w", cardID, err)
		}
	}

	return tx.Commit()
}

// ListComments returns all comments for cardID in insertion order.
func (s *Store) ListComments(cardID int64) ([]Comment, error) {
	rows, err := s.db.Query(`
		SELECT id, card_id, tag, author, posted_at, body
		FROM comments WHERE card_id = ? ORDER BY id ASC`, cardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CardID, &c.Tag, &c.Author, &c.PostedAt, &c.Body); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// ListCommentBodies returns just the comment bodies for cardID, in
// insertion order. This is the read path for rank inference.
func (s *Store) ListCommentBodies(cardID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT body FROM comments WHERE card_id = ? ORDER BY id ASC`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, rows.Err()
}
