package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talkboard-dev/talkboard/internal/api"
	"github.com/talkboard-dev/talkboard/internal/domain"
	mw "github.com/talkboard-dev/talkboard/internal/middleware"
)

func (h *Handler) ToggleThreadLike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, domain.LikeThread, "thread")
}

func (h *Handler) ToggleAnswerLike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, domain.LikeAnswer, "answer")
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request, target domain.LikeTarget, param string) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseIntParam(chi.URLParam(r, param), param+" ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	liked, likes, err := h.like.Toggle(*user, target, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, api.LikeResponse{Liked: liked, Likes: likes})
}
