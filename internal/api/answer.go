package api

import (
	"github.com/talkboard-dev/talkboard/internal/domain"
)

// Request DTOs

type CreateAnswerRequest struct {
	Body        string             `json:"body" validate:"required"`
	AnsweredTo  *domain.UserId     `json:"answered_to,omitempty"`
	Attachments domain.Attachments `json:"attachments,omitempty"`
}

type EditAnswerRequest struct {
	Body string `json:"body" validate:"required"`
}

// Response DTOs

// AnswerResponse wraps a full answer
type AnswerResponse struct {
	domain.Answer
}

// AnswerListResponse wraps answers in creation order
type AnswerListResponse struct {
	Answers []domain.Answer `json:"answers"`
}

// CreateAnswerResponse returns the ID of the created answer
type CreateAnswerResponse struct {
	Id domain.AnswerId `json:"id"`
}
