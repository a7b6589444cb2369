package api

import (
	"github.com/talkboard-dev/talkboard/internal/domain"
)

// Request DTOs

type CreateThreadRequest struct {
	Title       string             `json:"title" validate:"required"`
	Body        string             `json:"body" validate:"required"`
	Attachments domain.Attachments `json:"attachments,omitempty"`
}

type EditThreadRequest struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	Closed *bool  `json:"closed,omitempty"`
}

type AdminEditThreadRequest struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	Pinned *bool  `json:"pinned,omitempty"`
	Closed *bool  `json:"closed,omitempty"`
}

// Response DTOs

// ThreadResponse wraps a thread with its board context
type ThreadResponse struct {
	domain.Thread
	BoardSlug domain.BoardSlug `json:"board_slug,omitempty"`
}

// ThreadListResponse wraps threads under a board
type ThreadListResponse struct {
	Threads []domain.Thread `json:"threads"`
}

// CreateThreadResponse returns the ID of the created thread
type CreateThreadResponse struct {
	Id domain.ThreadId `json:"id"`
}
