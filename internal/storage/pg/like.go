package pg

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
)

// likeTables maps a toggle target to its like table and owning column.
var likeTables = map[domain.LikeTarget]struct {
	table  string
	column string
	parent string
}{
	domain.LikeThread: {"thread_likes", "thread_id", "threads"},
	domain.LikeAnswer: {"answer_likes", "answer_id", "answers"},
}

// ToggleLike flips userId's membership in the target's like set and returns
// the new state plus the refreshed set. The insert-then-delete runs inside
// one transaction keyed on current membership, so two racing toggles by the
// same user settle on a single well-defined state, and toggles by different
// users never clobber each other. Lost races surface as retryable errors and
// are retried a bounded number of times before a Conflict reaches the caller.
func (s *Storage) ToggleLike(target domain.LikeTarget, id int64, userId domain.UserId) (bool, []domain.UserId, error) {
	tables, ok := likeTables[target]
	if !ok {
		return false, nil, internal_errors.InvalidArgument("Unknown like target")
	}

	var liked bool
	var likes []domain.UserId

	err := withRetry(s.cfg.Public.LikeRetryAttempts, func() error {
		return s.toggleLikeOnce(tables.table, tables.column, tables.parent, id, userId, &liked, &likes)
	})
	if err != nil {
		if retryable(err) {
			return false, nil, internal_errors.Conflict("Like toggle lost a concurrent race, try again")
		}
		return false, nil, err
	}
	return liked, likes, nil
}

func (s *Storage) toggleLikeOnce(table, column, parent string, id int64, userId domain.UserId, liked *bool, likes *[]domain.UserId) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Existence check first so a toggle against a deleted entity is a clean 404.
	var exists bool
	err = tx.QueryRow(fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, parent), id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", parent, err)
	}
	if !exists {
		return internal_errors.NotFound("Like target not found")
	}

	// Conditional insert: zero rows affected means the membership already
	// existed, which makes this call an unlike.
	result, err := tx.Exec(fmt.Sprintf(`
        INSERT INTO %s (%s, user_id) VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `, table, column), id, userId)
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if inserted == 0 {
		if _, err = tx.Exec(fmt.Sprintf(`
            DELETE FROM %s WHERE %s = $1 AND user_id = $2
        `, table, column), id, userId); err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
	}
	*liked = inserted == 1

	var members pq.Int64Array
	err = tx.QueryRow(fmt.Sprintf(`
        SELECT COALESCE(array_agg(user_id ORDER BY created_at), '{}') FROM %s WHERE %s = $1
    `, table, column), id).Scan(&members)
	if err != nil {
		return fmt.Errorf("failed to fetch likes: %w", err)
	}
	*likes = members

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
