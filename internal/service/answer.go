package service

import (
	"strings"

	"github.com/talkboard-dev/talkboard/internal/authz"
	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
	"github.com/talkboard-dev/talkboard/internal/service/utils"
)

type AnswerService interface {
	Create(actor domain.User, data domain.AnswerCreationData) (domain.Answer, error)
	Edit(actor domain.User, id domain.AnswerId, body string) error
	Delete(actor domain.User, id domain.AnswerId) error
	Get(id domain.AnswerId) (domain.Answer, error)
	List(thread domain.ThreadId, paging domain.Paging) ([]domain.Answer, error)
}

type AnswerStorage interface {
	CreateAnswer(data domain.AnswerCreationData) (domain.Answer, error)
	GetAnswer(id domain.AnswerId) (domain.Answer, error)
	ListAnswers(thread domain.ThreadId, paging domain.Paging) ([]domain.Answer, error)
	EditAnswer(id domain.AnswerId, body string) error
	DeleteAnswer(id domain.AnswerId) error
}

type Answer struct {
	storage AnswerStorage
	events  EventEmitter
}

func NewAnswer(storage AnswerStorage, events EventEmitter) *Answer {
	return &Answer{storage, events}
}

func clipAnswerBody(body *string) error {
	if strings.TrimSpace(*body) == "" {
		return internal_errors.InvalidArgument("Answer body must not be empty")
	}
	*body = utils.Truncate(utils.Sanitize(*body), domain.BodyMaxRunes)
	return nil
}

func (a *Answer) Create(actor domain.User, data domain.AnswerCreationData) (domain.Answer, error) {
	if !authz.CanPerform(authz.CreateAnswer, actor, authz.Resource{}) {
		return domain.Answer{}, internal_errors.Unauthorized("Authentication required")
	}
	if err := clipAnswerBody(&data.Body); err != nil {
		return domain.Answer{}, err
	}
	data.Author = actor

	answer, err := a.storage.CreateAnswer(data)
	if err != nil {
		return domain.Answer{}, err
	}

	a.events.Emit(domain.EventNewAnswer, answer)
	if data.AnsweredTo != nil && *data.AnsweredTo != actor.Id {
		a.events.Emit(domain.EventNewNotification, domain.Notification{
			Recipient: *data.AnsweredTo,
			Thread:    answer.Thread,
			Answer:    answer.Id,
			Author:    actor.Id,
		})
	}
	return answer, nil
}

func (a *Answer) Edit(actor domain.User, id domain.AnswerId, body string) error {
	answer, err := a.storage.GetAnswer(id)
	if err != nil {
		return err
	}
	if !authz.CanPerform(authz.EditAnswer, actor, authz.Resource{OwnerId: answer.Author}) {
		return internal_errors.Unauthorized("Only the author can edit this answer")
	}
	if err := clipAnswerBody(&body); err != nil {
		return err
	}
	return a.storage.EditAnswer(id, body)
}

func (a *Answer) Delete(actor domain.User, id domain.AnswerId) error {
	if !authz.CanPerform(authz.DeleteAnswer, actor, authz.Resource{}) {
		return internal_errors.Unauthorized("Only moderators can delete answers")
	}
	return a.storage.DeleteAnswer(id)
}

func (a *Answer) Get(id domain.AnswerId) (domain.Answer, error) {
	return a.storage.GetAnswer(id)
}

func (a *Answer) List(thread domain.ThreadId, paging domain.Paging) ([]domain.Answer, error) {
	return a.storage.ListAnswers(thread, paging)
}
