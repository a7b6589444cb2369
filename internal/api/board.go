package api

import (
	"github.com/talkboard-dev/talkboard/internal/domain"
)

// Request DTOs

type CreateBoardRequest struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body,omitempty"`
	Position int    `json:"position" validate:"min=0"`
}

type EditBoardRequest struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body,omitempty"`
	Position int    `json:"position" validate:"min=0"`
}

// Response DTOs

// BoardResponse wraps a single board
type BoardResponse struct {
	domain.Board
}

// BoardListResponse wraps a list of boards
type BoardListResponse struct {
	Boards []domain.Board `json:"boards"`
}
