package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"

	"github.com/talkboard-dev/talkboard/internal/domain"
)

// boardSortColumns whitelists ORDER BY targets for board listings.
var boardSortColumns = map[domain.BoardSort]string{
	domain.BoardSortPosition:     "position ASC, id ASC",
	domain.BoardSortThreadsCount: "threads_count DESC, id ASC",
	domain.BoardSortAnswersCount: "answers_count DESC, id ASC",
	domain.BoardSortNewestThread: "newest_thread DESC, id ASC",
	domain.BoardSortNewestAnswer: "newest_answer DESC, id ASC",
}

const boardColumns = `id, slug, title, body, position, created_at, threads_count, answers_count, newest_thread, newest_answer`

func (s *Storage) CreateBoard(slug domain.BoardSlug, data domain.BoardCreationData) (domain.Board, error) {
	ts := now()
	var board domain.Board
	err := s.db.Get(&board, fmt.Sprintf(`
        INSERT INTO boards (slug, title, body, position, created_at, newest_thread, newest_answer)
        VALUES ($1, $2, $3, $4, $5, $5, $5)
        RETURNING %s
    `, boardColumns), slug, data.Title, data.Body, data.Position, ts)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.Board{}, internal_errors.Conflict("Board with this slug already exists")
		}
		return domain.Board{}, fmt.Errorf("failed to insert board: %w", err)
	}
	return board, nil
}

func (s *Storage) GetBoard(id domain.BoardId) (domain.Board, error) {
	var board domain.Board
	err := s.db.Get(&board, fmt.Sprintf(`SELECT %s FROM boards WHERE id = $1`, boardColumns), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		return domain.Board{}, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}

func (s *Storage) GetBoardBySlug(slug domain.BoardSlug) (domain.Board, error) {
	var board domain.Board
	err := s.db.Get(&board, fmt.Sprintf(`SELECT %s FROM boards WHERE slug = $1`, boardColumns), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		return domain.Board{}, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}

func (s *Storage) ListBoards(sort domain.BoardSort, paging domain.Paging) ([]domain.Board, error) {
	orderBy, ok := boardSortColumns[sort]
	if !ok {
		orderBy = boardSortColumns[domain.BoardSortPosition]
	}

	query := fmt.Sprintf(`SELECT %s FROM boards ORDER BY %s`, boardColumns, orderBy)
	args := []any{}
	if limit, offset, all := paging.Window(s.cfg.Public.DefaultPageSize, s.cfg.Public.MaxPageSize); !all {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	boards := []domain.Board{}
	if err := s.db.Select(&boards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

func (s *Storage) EditBoard(id domain.BoardId, data domain.BoardCreationData) error {
	result, err := s.db.Exec(`
        UPDATE boards SET title = $1, body = $2, position = $3 WHERE id = $4
    `, data.Title, data.Body, data.Position, id)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("Board not found")
	}
	return nil
}

// DeleteBoard removes the board and everything beneath it. Threads and
// answers go with it via foreign keys, no orphans.
func (s *Storage) DeleteBoard(id domain.BoardId) error {
	result, err := s.db.Exec(`DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("Board not found")
	}
	return nil
}
