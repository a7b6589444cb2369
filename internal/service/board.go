package service

import (
	"strings"

	"github.com/talkboard-dev/talkboard/internal/authz"
	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
	"github.com/talkboard-dev/talkboard/internal/service/utils"
)

// to mock service in tests
type BoardService interface {
	Create(actor domain.User, data domain.BoardCreationData) (domain.Board, error)
	Edit(actor domain.User, id domain.BoardId, data domain.BoardCreationData) error
	Delete(actor domain.User, id domain.BoardId) error
	Get(id domain.BoardId) (domain.Board, error)
	GetBySlug(slug domain.BoardSlug) (domain.Board, error)
	List(sort domain.BoardSort, paging domain.Paging) ([]domain.Board, error)
}

type BoardStorage interface {
	CreateBoard(slug domain.BoardSlug, data domain.BoardCreationData) (domain.Board, error)
	GetBoard(id domain.BoardId) (domain.Board, error)
	GetBoardBySlug(slug domain.BoardSlug) (domain.Board, error)
	ListBoards(sort domain.BoardSort, paging domain.Paging) ([]domain.Board, error)
	EditBoard(id domain.BoardId, data domain.BoardCreationData) error
	DeleteBoard(id domain.BoardId) error
}

type Board struct {
	storage BoardStorage
}

func NewBoard(storage BoardStorage) *Board {
	return &Board{storage}
}

func validateBoardData(data *domain.BoardCreationData) error {
	data.Title = strings.TrimSpace(data.Title)
	if data.Title == "" {
		return internal_errors.InvalidArgument("Board title must not be empty")
	}
	if data.Position < 0 {
		return internal_errors.InvalidArgument("Board position must not be negative")
	}
	data.Body = utils.Sanitize(data.Body)
	return nil
}

func (b *Board) Create(actor domain.User, data domain.BoardCreationData) (domain.Board, error) {
	if !authz.CanPerform(authz.CreateBoard, actor, authz.Resource{}) {
		return domain.Board{}, internal_errors.Unauthorized("Only moderators can create boards")
	}
	if err := validateBoardData(&data); err != nil {
		return domain.Board{}, err
	}

	slug := utils.Slugify(data.Title)
	if slug == "" {
		return domain.Board{}, internal_errors.InvalidArgument("Board title must contain at least one alphanumeric character")
	}
	return b.storage.CreateBoard(slug, data)
}

func (b *Board) Edit(actor domain.User, id domain.BoardId, data domain.BoardCreationData) error {
	if !authz.CanPerform(authz.EditBoard, actor, authz.Resource{}) {
		return internal_errors.Unauthorized("Only moderators can edit boards")
	}
	if err := validateBoardData(&data); err != nil {
		return err
	}
	return b.storage.EditBoard(id, data)
}

func (b *Board) Delete(actor domain.User, id domain.BoardId) error {
	if !authz.CanPerform(authz.DeleteBoard, actor, authz.Resource{}) {
		return internal_errors.Unauthorized("Only moderators can delete boards")
	}
	return b.storage.DeleteBoard(id)
}

func (b *Board) Get(id domain.BoardId) (domain.Board, error) {
	return b.storage.GetBoard(id)
}

func (b *Board) GetBySlug(slug domain.BoardSlug) (domain.Board, error) {
	return b.storage.GetBoardBySlug(slug)
}

func (b *Board) List(sort domain.BoardSort, paging domain.Paging) ([]domain.Board, error) {
	return b.storage.ListBoards(sort, paging)
}
