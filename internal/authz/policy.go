// Package authz holds the single authorization policy consulted before every
// write. Role and ownership checks live here instead of being duplicated
// across services.
package authz

import (
	"github.com/talkboard-dev/talkboard/internal/domain"
)

// Action names a gated operation.
type Action string

const (
	CreateBoard Action = "board.create"
	EditBoard   Action = "board.edit"
	DeleteBoard Action = "board.delete"

	CreateThread    Action = "thread.create"
	EditThread      Action = "thread.edit"
	AdminEditThread Action = "thread.admin_edit"
	DeleteThread    Action = "thread.delete"

	CreateAnswer Action = "answer.create"
	EditAnswer   Action = "answer.edit"
	DeleteAnswer Action = "answer.delete"

	ToggleLike Action = "like.toggle"
)

// Resource carries the ownership facts the policy needs. OwnerId is ignored
// for actions that are purely role-gated.
type Resource struct {
	OwnerId domain.UserId
}

// CanPerform reports whether actor may run action against resource.
// Moderator-only actions ignore ownership; author-only actions require it.
func CanPerform(action Action, actor domain.User, resource Resource) bool {
	switch action {
	case CreateBoard, EditBoard, DeleteBoard, DeleteThread, DeleteAnswer, AdminEditThread:
		return actor.IsModerator()
	case EditThread, EditAnswer:
		return actor.Id == resource.OwnerId
	case CreateThread, CreateAnswer, ToggleLike:
		return actor.Id != 0
	default:
		return false
	}
}
