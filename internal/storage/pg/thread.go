package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
)

// threadSortColumns whitelists ORDER BY targets for thread listings.
// Pinned threads always come first.
var threadSortColumns = map[domain.ThreadSort]string{
	domain.ThreadSortCreatedAt:    "pinned DESC, created_at DESC",
	domain.ThreadSortAnswersCount: "pinned DESC, answers_count DESC, created_at DESC",
	domain.ThreadSortNewestAnswer: "pinned DESC, newest_answer DESC",
}

const threadColumns = `id, board_id, title, body, pinned, closed, author_id, created_at, edited_at, answers_count, newest_answer`

func (s *Storage) CreateThread(data domain.ThreadCreationData) (domain.Thread, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()

	// Counter and entity write share the transaction, so the +1 applies
	// exactly once per committed creation. Also serves as the existence check.
	result, err := tx.Exec(`
        UPDATE boards
        SET threads_count = threads_count + 1, newest_thread = $1
        WHERE id = $2
    `, ts, data.Board)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to update board counters: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Thread{}, internal_errors.NotFound("Board not found")
	}

	var thread domain.Thread
	err = tx.Get(&thread, fmt.Sprintf(`
        INSERT INTO threads (board_id, title, body, author_id, created_at, newest_answer)
        VALUES ($1, $2, $3, $4, $5, $5)
        RETURNING %s
    `, threadColumns), data.Board, data.Title, data.Body, data.Author.Id, ts)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to insert thread: %w", err)
	}

	if err := insertAttachments(tx, "thread_id", thread.Id, data.Attachments); err != nil {
		return domain.Thread{}, err
	}
	thread.Attachments = data.Attachments

	if err := tx.Commit(); err != nil {
		return domain.Thread{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return thread, nil
}

func (s *Storage) GetThread(id domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	err := s.db.Get(&thread, fmt.Sprintf(`SELECT %s FROM threads WHERE id = $1`, threadColumns), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound("Thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}

	likes, err := s.threadLikes(id)
	if err != nil {
		return domain.Thread{}, err
	}
	thread.Likes = likes

	attachments, err := s.attachments("thread_id", id)
	if err != nil {
		return domain.Thread{}, err
	}
	thread.Attachments = attachments

	return thread, nil
}

func (s *Storage) ListThreads(board domain.BoardId, sort domain.ThreadSort, paging domain.Paging) ([]domain.Thread, error) {
	orderBy, ok := threadSortColumns[sort]
	if !ok {
		orderBy = threadSortColumns[domain.ThreadSortCreatedAt]
	}

	query := fmt.Sprintf(`SELECT %s FROM threads WHERE board_id = $1 ORDER BY %s`, threadColumns, orderBy)
	args := []any{board}
	if limit, offset, all := paging.Window(s.cfg.Public.DefaultPageSize, s.cfg.Public.MaxPageSize); !all {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}

	threads := []domain.Thread{}
	if err := s.db.Select(&threads, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

// EditThread updates content fields and optional moderation flags.
// setEdited controls the edited marker; the service passes false whenever a
// moderation flag rides along with the edit.
func (s *Storage) EditThread(id domain.ThreadId, edit domain.ThreadEdit, setEdited bool) error {
	query := `UPDATE threads SET title = $1, body = $2`
	args := []any{edit.Title, edit.Body}

	if setEdited {
		args = append(args, now())
		query += fmt.Sprintf(", edited_at = $%d", len(args))
	}
	if edit.Pinned != nil {
		args = append(args, *edit.Pinned)
		query += fmt.Sprintf(", pinned = $%d", len(args))
	}
	if edit.Closed != nil {
		args = append(args, *edit.Closed)
		query += fmt.Sprintf(", closed = $%d", len(args))
	}

	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("Thread not found")
	}
	return nil
}

// DeleteThread removes the thread and its answers, then repairs the board
// aggregates: threads_count -1, answers_count down by however many answers
// went with it, and both newest stamps recomputed from what remains.
func (s *Storage) DeleteThread(id domain.ThreadId) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var board domain.BoardId
	var cascaded int
	err = tx.QueryRow(`
        SELECT board_id, answers_count FROM threads WHERE id = $1 FOR UPDATE
    `, id).Scan(&board, &cascaded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Thread not found")
		}
		return fmt.Errorf("failed to fetch thread: %w", err)
	}

	// Answers cascade via foreign key.
	if _, err = tx.Exec(`DELETE FROM threads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}

	_, err = tx.Exec(`
        UPDATE boards b
        SET threads_count = threads_count - 1,
            answers_count = answers_count - $2,
            newest_thread = COALESCE((SELECT MAX(created_at) FROM threads WHERE board_id = b.id), b.created_at),
            newest_answer = COALESCE((SELECT MAX(created_at) FROM answers WHERE board_id = b.id), b.created_at)
        WHERE b.id = $1
    `, board, cascaded)
	if err != nil {
		return fmt.Errorf("failed to update board counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) threadLikes(id domain.ThreadId) ([]domain.UserId, error) {
	var likes pq.Int64Array
	err := s.db.QueryRow(`
        SELECT COALESCE(array_agg(user_id ORDER BY created_at), '{}') FROM thread_likes WHERE thread_id = $1
    `, id).Scan(&likes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread likes: %w", err)
	}
	return likes, nil
}

func insertAttachments(tx *sqlx.Tx, ownerColumn string, ownerId int64, attachments domain.Attachments) error {
	for _, a := range attachments {
		_, err := tx.Exec(fmt.Sprintf(`
            INSERT INTO attachments (%s, url, media_type, byte_size) VALUES ($1, $2, $3, $4)
        `, ownerColumn), ownerId, a.Url, a.MediaType, a.ByteSize)
		if err != nil {
			return fmt.Errorf("failed to insert attachment: %w", err)
		}
	}
	return nil
}

func (s *Storage) attachments(ownerColumn string, ownerId int64) (domain.Attachments, error) {
	attachments := domain.Attachments{}
	err := s.db.Select(&attachments, fmt.Sprintf(`
        SELECT url, media_type, byte_size FROM attachments WHERE %s = $1 ORDER BY id
    `, ownerColumn), ownerId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %w", err)
	}
	return attachments, nil
}
