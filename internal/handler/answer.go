package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talkboard-dev/talkboard/internal/api"
	"github.com/talkboard-dev/talkboard/internal/domain"
	mw "github.com/talkboard-dev/talkboard/internal/middleware"
)

func (h *Handler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.CreateAnswerRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	answer, err := h.answer.Create(*user, domain.AnswerCreationData{
		Thread:      threadId,
		Body:        body.Body,
		AnsweredTo:  body.AnsweredTo,
		Attachments: body.Attachments,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.CreateAnswerResponse{Id: answer.Id})
}

func (h *Handler) GetAnswer(w http.ResponseWriter, r *http.Request) {
	answerId, err := parseIntParam(chi.URLParam(r, "answer"), "answer ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	answer, err := h.answer.Get(answerId)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, api.AnswerResponse{Answer: answer})
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	answers, err := h.answer.List(threadId, parsePaging(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, api.AnswerListResponse{Answers: answers})
}

func (h *Handler) EditAnswer(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	answerId, err := parseIntParam(chi.URLParam(r, "answer"), "answer ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.EditAnswerRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.answer.Edit(*user, answerId, body.Body); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	answerId, err := parseIntParam(chi.URLParam(r, "answer"), "answer ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.answer.Delete(*user, answerId); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
