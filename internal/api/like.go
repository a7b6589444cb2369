package api

import (
	"github.com/talkboard-dev/talkboard/internal/domain"
)

// LikeResponse returns the refreshed membership after a toggle, resolved to
// display projections.
type LikeResponse struct {
	Liked bool             `json:"liked"` // state for the calling user after the toggle
	Likes []domain.UserRef `json:"likes"`
}
