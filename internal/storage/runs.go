package storage

import (
	"database/sql"
	"time"
)

// StartRun records the beginning of a crawl pass.
func (s *Store) StartRun(r CrawlRun) error {
	_, err := s.db.Exec(`
		INSERT INTO crawl_runs (id, started_at, start_id, end_id)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.StartID, r.EndID,
	)
	return err
}

// FinishRun records the outcome counters of a crawl pass.
func (s *Store) FinishRun(id string, finishedAt time.Time, saved, skipped, failed int) error {
	res, err := s.db.Exec(`
		UPDATE crawl_runs SET finished_at = ?, saved = ?, skipped = ?, failed = ?
		WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339), saved, skipped, failed, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LastRun returns the most recently started crawl run, or ErrNotFound for
// a store that has never been crawled.
func (s *Store) LastRun() (CrawlRun, error) {
	var r CrawlRun
	var startedAt string
	var finishedAt sql.NullString
	err := s.db.QueryRow(`
		SELECT id, started_at, finished_at, start_id, end_id, saved, skipped, failed
		FROM crawl_runs ORDER BY started_at DESC, id DESC LIMIT 1`,
	).Scan(&r.ID, &startedAt, &finishedAt, &r.StartID, &r.EndID, &r.Saved, &r.Skipped, &r.Failed)
	if err == sql.ErrNoRows {
		return CrawlRun{}, ErrNotFound
	}
	if err != nil {
		return CrawlRun{}, err
	}
	if r.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return CrawlRun{}, err
	}
	if finishedAt.Valid && finishedAt.String != "" {
		if r.FinishedAt, err = time.Parse(time.RFC3339, finishedAt.String); err != nil {
			return CrawlRun{}, err
		}
	}
	return r, nil
}
