package service

import (
	"strings"

	"github.com/talkboard-dev/talkboard/internal/authz"
	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
	"github.com/talkboard-dev/talkboard/internal/service/utils"
)

type ThreadService interface {
	Create(actor domain.User, data domain.ThreadCreationData) (domain.Thread, error)
	Edit(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error
	AdminEdit(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error
	Delete(actor domain.User, id domain.ThreadId) error
	Get(id domain.ThreadId) (domain.Thread, error)
	List(board domain.BoardId, sort domain.ThreadSort, paging domain.Paging) ([]domain.Thread, error)
}

type ThreadStorage interface {
	CreateThread(data domain.ThreadCreationData) (domain.Thread, error)
	GetThread(id domain.ThreadId) (domain.Thread, error)
	ListThreads(board domain.BoardId, sort domain.ThreadSort, paging domain.Paging) ([]domain.Thread, error)
	EditThread(id domain.ThreadId, edit domain.ThreadEdit, setEdited bool) error
	DeleteThread(id domain.ThreadId) error
}

type Thread struct {
	storage ThreadStorage
	events  EventEmitter
}

func NewThread(storage ThreadStorage, events EventEmitter) *Thread {
	return &Thread{storage, events}
}

// clipThreadContent applies the hard caps: overflow is clipped, never rejected.
func clipThreadContent(title, body *string) error {
	*title = strings.TrimSpace(*title)
	if *title == "" {
		return internal_errors.InvalidArgument("Thread title must not be empty")
	}
	*title = utils.Truncate(utils.Sanitize(*title), domain.TitleMaxRunes)
	*body = utils.Truncate(utils.Sanitize(*body), domain.BodyMaxRunes)
	return nil
}

func (t *Thread) Create(actor domain.User, data domain.ThreadCreationData) (domain.Thread, error) {
	if !authz.CanPerform(authz.CreateThread, actor, authz.Resource{}) {
		return domain.Thread{}, internal_errors.Unauthorized("Authentication required")
	}
	if err := clipThreadContent(&data.Title, &data.Body); err != nil {
		return domain.Thread{}, err
	}
	data.Author = actor

	thread, err := t.storage.CreateThread(data)
	if err != nil {
		return domain.Thread{}, err
	}

	t.events.Emit(domain.EventNewThread, thread)
	return thread, nil
}

// Edit is the author path. A submitted closed flag makes the write
// moderation-only: content fields still update but the edited marker stays
// untouched.
func (t *Thread) Edit(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
	thread, err := t.storage.GetThread(id)
	if err != nil {
		return err
	}
	if !authz.CanPerform(authz.EditThread, actor, authz.Resource{OwnerId: thread.Author}) {
		return internal_errors.Unauthorized("Only the author can edit this thread")
	}
	if err := clipThreadContent(&edit.Title, &edit.Body); err != nil {
		return err
	}
	edit.Pinned = nil // pinning is a moderator call

	return t.storage.EditThread(id, edit, edit.Closed == nil)
}

// AdminEdit is the moderator path; the edited marker is set only when the
// write carries no moderation flag at all.
func (t *Thread) AdminEdit(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
	if !authz.CanPerform(authz.AdminEditThread, actor, authz.Resource{}) {
		return internal_errors.Unauthorized("Only moderators can admin-edit threads")
	}
	if err := clipThreadContent(&edit.Title, &edit.Body); err != nil {
		return err
	}

	return t.storage.EditThread(id, edit, edit.Pinned == nil && edit.Closed == nil)
}

func (t *Thread) Delete(actor domain.User, id domain.ThreadId) error {
	if !authz.CanPerform(authz.DeleteThread, actor, authz.Resource{}) {
		return internal_errors.Unauthorized("Only moderators can delete threads")
	}
	return t.storage.DeleteThread(id)
}

func (t *Thread) Get(id domain.ThreadId) (domain.Thread, error) {
	return t.storage.GetThread(id)
}

func (t *Thread) List(board domain.BoardId, sort domain.ThreadSort, paging domain.Paging) ([]domain.Thread, error) {
	return t.storage.ListThreads(board, sort, paging)
}
