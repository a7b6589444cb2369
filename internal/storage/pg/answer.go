package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
)

const answerColumns = `id, thread_id, board_id, author_id, answered_to, body, created_at, edited_at`

func (s *Storage) CreateAnswer(data domain.AnswerCreationData) (domain.Answer, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Answer{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()

	// Bump the thread aggregates with an atomic delta; RETURNING hands back
	// the denormalized board id for the board-level bump.
	var board domain.BoardId
	var closed bool
	err = tx.QueryRow(`
        UPDATE threads
        SET answers_count = answers_count + 1, newest_answer = $1
        WHERE id = $2
        RETURNING board_id, closed
    `, ts, data.Thread).Scan(&board, &closed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Answer{}, internal_errors.NotFound("Thread not found")
		}
		return domain.Answer{}, fmt.Errorf("failed to update thread counters: %w", err)
	}
	if closed {
		// Rolls back the counter bump above.
		return domain.Answer{}, internal_errors.Conflict("Thread is closed")
	}

	_, err = tx.Exec(`
        UPDATE boards
        SET answers_count = answers_count + 1, newest_answer = $1
        WHERE id = $2
    `, ts, board)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("failed to update board counters: %w", err)
	}

	var answer domain.Answer
	err = tx.Get(&answer, fmt.Sprintf(`
        INSERT INTO answers (thread_id, board_id, author_id, answered_to, body, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s
    `, answerColumns), data.Thread, board, data.Author.Id, data.AnsweredTo, data.Body, ts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("failed to insert answer: %w", err)
	}

	if err := insertAttachments(tx, "answer_id", answer.Id, data.Attachments); err != nil {
		return domain.Answer{}, err
	}
	answer.Attachments = data.Attachments

	if err := tx.Commit(); err != nil {
		return domain.Answer{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return answer, nil
}

func (s *Storage) GetAnswer(id domain.AnswerId) (domain.Answer, error) {
	var answer domain.Answer
	err := s.db.Get(&answer, fmt.Sprintf(`SELECT %s FROM answers WHERE id = $1`, answerColumns), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Answer{}, internal_errors.NotFound("Answer not found")
		}
		return domain.Answer{}, fmt.Errorf("failed to fetch answer: %w", err)
	}

	likes, err := s.answerLikes(id)
	if err != nil {
		return domain.Answer{}, err
	}
	answer.Likes = likes

	attachments, err := s.attachments("answer_id", id)
	if err != nil {
		return domain.Answer{}, err
	}
	answer.Attachments = attachments

	return answer, nil
}

// ListAnswers returns answers under a thread in creation order.
func (s *Storage) ListAnswers(thread domain.ThreadId, paging domain.Paging) ([]domain.Answer, error) {
	query := fmt.Sprintf(`SELECT %s FROM answers WHERE thread_id = $1 ORDER BY created_at, id`, answerColumns)
	args := []any{thread}
	if limit, offset, all := paging.Window(s.cfg.Public.DefaultPageSize, s.cfg.Public.MaxPageSize); !all {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}

	answers := []domain.Answer{}
	if err := s.db.Select(&answers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

func (s *Storage) EditAnswer(id domain.AnswerId, body string) error {
	result, err := s.db.Exec(`
        UPDATE answers SET body = $1, edited_at = $2 WHERE id = $3
    `, body, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("Answer not found")
	}
	return nil
}

// DeleteAnswer removes the answer and walks the -1 delta up both ancestors,
// recomputing the newest stamps from the remaining children.
func (s *Storage) DeleteAnswer(id domain.AnswerId) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var thread domain.ThreadId
	var board domain.BoardId
	err = tx.QueryRow(`
        DELETE FROM answers WHERE id = $1 RETURNING thread_id, board_id
    `, id).Scan(&thread, &board)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Answer not found")
		}
		return fmt.Errorf("failed to delete answer: %w", err)
	}

	_, err = tx.Exec(`
        UPDATE threads t
        SET answers_count = answers_count - 1,
            newest_answer = COALESCE((SELECT MAX(created_at) FROM answers WHERE thread_id = t.id), t.created_at)
        WHERE t.id = $1
    `, thread)
	if err != nil {
		return fmt.Errorf("failed to update thread counters: %w", err)
	}

	_, err = tx.Exec(`
        UPDATE boards b
        SET answers_count = answers_count - 1,
            newest_answer = COALESCE((SELECT MAX(created_at) FROM answers WHERE board_id = b.id), b.created_at)
        WHERE b.id = $1
    `, board)
	if err != nil {
		return fmt.Errorf("failed to update board counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) answerLikes(id domain.AnswerId) ([]domain.UserId, error) {
	var likes pq.Int64Array
	err := s.db.QueryRow(`
        SELECT COALESCE(array_agg(user_id ORDER BY created_at), '{}') FROM answer_likes WHERE answer_id = $1
    `, id).Scan(&likes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch answer likes: %w", err)
	}
	return likes, nil
}
