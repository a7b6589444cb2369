package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/talkboard-dev/talkboard/internal/config"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
	"github.com/talkboard-dev/talkboard/internal/logger"
	"github.com/talkboard-dev/talkboard/internal/service"
)

type Handler struct {
	board  service.BoardService
	thread service.ThreadService
	answer service.AnswerService
	like   service.LikeService
	cfg    *config.Config
}

func New(board service.BoardService, thread service.ThreadService, answer service.AnswerService, like service.LikeService, cfg *config.Config) *Handler {
	return &Handler{board, thread, answer, like, cfg}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), internal_errors.StatusCode(err))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.InvalidArgument("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		return internal_errors.InvalidArgument("Required fields missing or invalid")
	}
	return nil
}
