package service

import (
	"github.com/talkboard-dev/talkboard/internal/authz"
	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
)

type LikeService interface {
	Toggle(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error)
}

type LikeStorage interface {
	ToggleLike(target domain.LikeTarget, id int64, userId domain.UserId) (bool, []domain.UserId, error)
}

type Like struct {
	storage   LikeStorage
	directory domain.UserDirectory
}

func NewLike(storage LikeStorage, directory domain.UserDirectory) *Like {
	return &Like{storage, directory}
}

// Toggle flips the actor's membership in the target's like set and returns
// the refreshed set resolved to display projections. Calling it twice in a
// row restores the original membership. Counters are never touched.
func (l *Like) Toggle(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error) {
	if !authz.CanPerform(authz.ToggleLike, actor, authz.Resource{}) {
		return false, nil, internal_errors.Unauthorized("Authentication required")
	}

	liked, members, err := l.storage.ToggleLike(target, id, actor.Id)
	if err != nil {
		return false, nil, err
	}

	refs, err := l.directory.Resolve(members)
	if err != nil {
		// The toggle is already committed; degrade to bare ids rather than
		// failing the whole call on a directory hiccup.
		refs = bareRefs(members)
	}
	return liked, refs, nil
}

func bareRefs(ids []domain.UserId) []domain.UserRef {
	refs := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, domain.UserRef{Id: id})
	}
	return refs
}

// BareDirectory is the fallback UserDirectory when no identity service is
// wired: projections carry ids only.
type BareDirectory struct{}

func (BareDirectory) Resolve(ids []domain.UserId) ([]domain.UserRef, error) {
	return bareRefs(ids), nil
}
