package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talkboard-dev/talkboard/internal/api"
	"github.com/talkboard-dev/talkboard/internal/domain"
	mw "github.com/talkboard-dev/talkboard/internal/middleware"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	boardId, err := parseIntParam(chi.URLParam(r, "board"), "board ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.CreateThreadRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	thread, err := h.thread.Create(*user, domain.ThreadCreationData{
		Board:       boardId,
		Title:       body.Title,
		Body:        body.Body,
		Attachments: body.Attachments,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.CreateThreadResponse{Id: thread.Id})
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	thread, err := h.thread.Get(threadId)
	if err != nil {
		writeError(w, err)
		return
	}

	// Board context rides along with the thread.
	response := api.ThreadResponse{Thread: thread}
	if board, err := h.board.Get(thread.Board); err == nil {
		response.BoardSlug = board.Slug
	}
	writeJSON(w, response)
}

func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	boardId, err := parseIntParam(chi.URLParam(r, "board"), "board ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sort := domain.ThreadSort(r.URL.Query().Get("sort"))
	if sort == "" {
		sort = domain.ThreadSortCreatedAt
	}

	threads, err := h.thread.List(boardId, sort, parsePaging(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, api.ThreadListResponse{Threads: threads})
}

func (h *Handler) EditThread(w http.ResponseWriter, r *http.Request) {
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

	var body api.EditThreadRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	err = h.thread.Edit(*user, threadId, domain.ThreadEdit{
		Title:  body.Title,
		Body:   body.Body,
		Closed: body.Closed,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) AdminEditThread(w http.ResponseWriter, r *http.Request) {
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

	var body api.AdminEditThreadRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	err = h.thread.AdminEdit(*user, threadId, domain.ThreadEdit{
		Title:  body.Title,
		Body:   body.Body,
		Pinned: body.Pinned,
		Closed: body.Closed,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
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

	if err := h.thread.Delete(*user, threadId); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
