package pg

import (
	"fmt"
)

// ReconcileAggregates recounts every denormalized counter and newest stamp
// from the source-of-truth child rows. It heals drift from crashes between
// an entity write and its counter commit, or from manual intervention.
// Returns how many rows were corrected.
func (s *Storage) ReconcileAggregates() (int64, error) {
	var fixed int64

	result, err := s.db.Exec(`
        UPDATE threads t
        SET answers_count = agg.cnt,
            newest_answer = agg.newest
        FROM (
            SELECT t2.id,
                   COUNT(a.id) AS cnt,
                   COALESCE(MAX(a.created_at), t2.created_at) AS newest
            FROM threads t2
            LEFT JOIN answers a ON a.thread_id = t2.id
            GROUP BY t2.id, t2.created_at
        ) agg
        WHERE agg.id = t.id
          AND (t.answers_count <> agg.cnt OR t.newest_answer <> agg.newest)
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile thread aggregates: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		fixed += n
	}

	result, err = s.db.Exec(`
        UPDATE boards b
        SET threads_count = agg.tcnt,
            answers_count = agg.acnt,
            newest_thread = agg.newest_thread,
            newest_answer = agg.newest_answer
        FROM (
            SELECT b2.id,
                   (SELECT COUNT(*) FROM threads t WHERE t.board_id = b2.id) AS tcnt,
                   (SELECT COUNT(*) FROM answers a WHERE a.board_id = b2.id) AS acnt,
                   COALESCE((SELECT MAX(t.created_at) FROM threads t WHERE t.board_id = b2.id), b2.created_at) AS newest_thread,
                   COALESCE((SELECT MAX(a.created_at) FROM answers a WHERE a.board_id = b2.id), b2.created_at) AS newest_answer
            FROM boards b2
        ) agg
        WHERE agg.id = b.id
          AND (b.threads_count <> agg.tcnt
               OR b.answers_count <> agg.acnt
               OR b.newest_thread <> agg.newest_thread
               OR b.newest_answer <> agg.newest_answer)
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile board aggregates: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		fixed += n
	}

	return fixed, nil
}
