package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talkboard-dev/talkboard/internal/api"
	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
	mw "github.com/talkboard-dev/talkboard/internal/middleware"
)

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateBoardRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	board, err := h.board.Create(*user, domain.BoardCreationData{
		Title:    body.Title,
		Body:     body.Body,
		Position: body.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.BoardResponse{Board: board})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "board")

	// Numeric path segments resolve as ids first, falling back to slug so an
	// all-digit slug stays reachable.
	var board domain.Board
	var err error
	if id, parseErr := parseIntParam(idOrSlug, "board ID"); parseErr == nil {
		board, err = h.board.Get(id)
		if internal_errors.StatusCode(err) == http.StatusNotFound {
			if bySlug, slugErr := h.board.GetBySlug(idOrSlug); slugErr == nil {
				board, err = bySlug, nil
			}
		}
	} else {
		board, err = h.board.GetBySlug(idOrSlug)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, api.BoardResponse{Board: board})
}

func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	sort := domain.BoardSort(r.URL.Query().Get("sort"))
	if sort == "" {
		sort = domain.BoardSortPosition
	}

	boards, err := h.board.List(sort, parsePaging(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, api.BoardListResponse{Boards: boards})
}

func (h *Handler) EditBoard(w http.ResponseWriter, r *http.Request) {
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

	var body api.EditBoardRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	err = h.board.Edit(*user, boardId, domain.BoardCreationData{
		Title:    body.Title,
		Body:     body.Body,
		Position: body.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
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

	if err := h.board.Delete(*user, boardId); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
