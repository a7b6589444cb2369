package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard-dev/talkboard/internal/api"
	"github.com/talkboard-dev/talkboard/internal/config"
	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
	mw "github.com/talkboard-dev/talkboard/internal/middleware"
)

// --- Mock services ---

type MockBoardService struct {
	createFunc    func(actor domain.User, data domain.BoardCreationData) (domain.Board, error)
	getFunc       func(id domain.BoardId) (domain.Board, error)
	getBySlugFunc func(slug domain.BoardSlug) (domain.Board, error)
	listFunc      func(sort domain.BoardSort, paging domain.Paging) ([]domain.Board, error)
	editFunc      func(actor domain.User, id domain.BoardId, data domain.BoardCreationData) error
	deleteFunc    func(actor domain.User, id domain.BoardId) error
}

func (m *MockBoardService) Create(actor domain.User, data domain.BoardCreationData) (domain.Board, error) {
	if m.createFunc != nil {
		return m.createFunc(actor, data)
	}
	return domain.Board{Id: 1, Title: data.Title}, nil
}

func (m *MockBoardService) Get(id domain.BoardId) (domain.Board, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.Board{Id: id, Slug: "general"}, nil
}

func (m *MockBoardService) GetBySlug(slug domain.BoardSlug) (domain.Board, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(slug)
	}
	return domain.Board{Id: 1, Slug: slug}, nil
}

func (m *MockBoardService) List(sort domain.BoardSort, paging domain.Paging) ([]domain.Board, error) {
	if m.listFunc != nil {
		return m.listFunc(sort, paging)
	}
	return []domain.Board{}, nil
}

func (m *MockBoardService) Edit(actor domain.User, id domain.BoardId, data domain.BoardCreationData) error {
	if m.editFunc != nil {
		return m.editFunc(actor, id, data)
	}
	return nil
}

func (m *MockBoardService) Delete(actor domain.User, id domain.BoardId) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(actor, id)
	}
	return nil
}

type MockThreadService struct {
	createFunc    func(actor domain.User, data domain.ThreadCreationData) (domain.Thread, error)
	getFunc       func(id domain.ThreadId) (domain.Thread, error)
	listFunc      func(board domain.BoardId, sort domain.ThreadSort, paging domain.Paging) ([]domain.Thread, error)
	editFunc      func(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error
	adminEditFunc func(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error
	deleteFunc    func(actor domain.User, id domain.ThreadId) error
}

func (m *MockThreadService) Create(actor domain.User, data domain.ThreadCreationData) (domain.Thread, error) {
	if m.createFunc != nil {
		return m.createFunc(actor, data)
	}
	return domain.Thread{Id: 10, Board: data.Board, Title: data.Title}, nil
}

func (m *MockThreadService) Get(id domain.ThreadId) (domain.Thread, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.Thread{Id: id, Board: 1}, nil
}

func (m *MockThreadService) List(board domain.BoardId, sort domain.ThreadSort, paging domain.Paging) ([]domain.Thread, error) {
	if m.listFunc != nil {
		return m.listFunc(board, sort, paging)
	}
	return []domain.Thread{}, nil
}

func (m *MockThreadService) Edit(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
	if m.editFunc != nil {
		return m.editFunc(actor, id, edit)
	}
	return nil
}

func (m *MockThreadService) AdminEdit(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
	if m.adminEditFunc != nil {
		return m.adminEditFunc(actor, id, edit)
	}
	return nil
}

func (m *MockThreadService) Delete(actor domain.User, id domain.ThreadId) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(actor, id)
	}
	return nil
}

type MockAnswerService struct {
	createFunc func(actor domain.User, data domain.AnswerCreationData) (domain.Answer, error)
	getFunc    func(id domain.AnswerId) (domain.Answer, error)
	listFunc   func(thread domain.ThreadId, paging domain.Paging) ([]domain.Answer, error)
	editFunc   func(actor domain.User, id domain.AnswerId, body string) error
	deleteFunc func(actor domain.User, id domain.AnswerId) error
}

func (m *MockAnswerService) Create(actor domain.User, data domain.AnswerCreationData) (domain.Answer, error) {
	if m.createFunc != nil {
		return m.createFunc(actor, data)
	}
	return domain.Answer{Id: 100, Thread: data.Thread}, nil
}

func (m *MockAnswerService) Get(id domain.AnswerId) (domain.Answer, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.Answer{Id: id}, nil
}

func (m *MockAnswerService) List(thread domain.ThreadId, paging domain.Paging) ([]domain.Answer, error) {
	if m.listFunc != nil {
		return m.listFunc(thread, paging)
	}
	return []domain.Answer{}, nil
}

func (m *MockAnswerService) Edit(actor domain.User, id domain.AnswerId, body string) error {
	if m.editFunc != nil {
		return m.editFunc(actor, id, body)
	}
	return nil
}

func (m *MockAnswerService) Delete(actor domain.User, id domain.AnswerId) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(actor, id)
	}
	return nil
}

type MockLikeService struct {
	toggleFunc func(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error)
}

func (m *MockLikeService) Toggle(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(actor, target, id)
	}
	return true, []domain.UserRef{{Id: actor.Id}}, nil
}

// --- Harness ---

type mocks struct {
	board  *MockBoardService
	thread *MockThreadService
	answer *MockAnswerService
	like   *MockLikeService
}

func newTestHandler() (*Handler, *mocks) {
	m := &mocks{
		board:  &MockBoardService{},
		thread: &MockThreadService{},
		answer: &MockAnswerService{},
		like:   &MockLikeService{},
	}
	cfg := &config.Config{Public: config.Public{}.WithDefaults()}
	return New(m.board, m.thread, m.answer, m.like, cfg), m
}

// asUser injects a caller identity the way the auth middleware does.
func asUser(r *http.Request, user domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), mw.UserClaimsKey, &user)
	return r.WithContext(ctx)
}

// withParams attaches chi URL params without running a full router.
func withParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

var (
	testModerator = domain.User{Id: 1, Role: domain.RoleModerator}
	testMember    = domain.User{Id: 2, Role: domain.RoleMember}
)

// --- Board handlers ---

func TestCreateBoardHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.createFunc = func(actor domain.User, data domain.BoardCreationData) (domain.Board, error) {
			assert.Equal(t, testModerator, actor)
			assert.Equal(t, "General", data.Title)
			return domain.Board{Id: 7, Slug: "general", Title: data.Title}, nil
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/boards", jsonBody(t, api.CreateBoardRequest{Title: "General"}))
		rec := httptest.NewRecorder()
		h.CreateBoard(rec, asUser(req, testModerator))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp api.BoardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.BoardId(7), resp.Id)
		assert.Equal(t, "general", resp.Slug)
	})

	t.Run("invalid json", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/boards", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		h.CreateBoard(rec, asUser(req, testModerator))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/boards", jsonBody(t, map[string]any{"position": 1}))
		rec := httptest.NewRecorder()
		h.CreateBoard(rec, asUser(req, testModerator))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/boards", jsonBody(t, api.CreateBoardRequest{Title: "General"}))
		rec := httptest.NewRecorder()
		h.CreateBoard(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("service conflict maps to 409", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.createFunc = func(actor domain.User, data domain.BoardCreationData) (domain.Board, error) {
			return domain.Board{}, internal_errors.Conflict("Board slug already exists")
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/boards", jsonBody(t, api.CreateBoardRequest{Title: "General"}))
		rec := httptest.NewRecorder()
		h.CreateBoard(rec, asUser(req, testModerator))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetBoardHandler(t *testing.T) {
	t.Run("numeric segment resolves by id", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.getFunc = func(id domain.BoardId) (domain.Board, error) {
			assert.Equal(t, domain.BoardId(3), id)
			return domain.Board{Id: id, Slug: "general"}, nil
		}

		req := withParams(httptest.NewRequest(http.MethodGet, "/v1/boards/3", nil), map[string]string{"board": "3"})
		rec := httptest.NewRecorder()
		h.GetBoard(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-numeric segment resolves by slug", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.getBySlugFunc = func(slug domain.BoardSlug) (domain.Board, error) {
			assert.Equal(t, "off-topic", slug)
			return domain.Board{Id: 4, Slug: slug}, nil
		}

		req := withParams(httptest.NewRequest(http.MethodGet, "/v1/boards/off-topic", nil), map[string]string{"board": "off-topic"})
		rec := httptest.NewRecorder()
		h.GetBoard(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("all-digit slug is reachable when no board has that id", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.getFunc = func(id domain.BoardId) (domain.Board, error) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		m.board.getBySlugFunc = func(slug domain.BoardSlug) (domain.Board, error) {
			assert.Equal(t, "2024", slug)
			return domain.Board{Id: 8, Slug: slug}, nil
		}

		req := withParams(httptest.NewRequest(http.MethodGet, "/v1/boards/2024", nil), map[string]string{"board": "2024"})
		rec := httptest.NewRecorder()
		h.GetBoard(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.BoardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.BoardId(8), resp.Id)
	})

	t.Run("missing board maps to 404", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.getFunc = func(id domain.BoardId) (domain.Board, error) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		m.board.getBySlugFunc = func(slug domain.BoardSlug) (domain.Board, error) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}

		req := withParams(httptest.NewRequest(http.MethodGet, "/v1/boards/99", nil), map[string]string{"board": "99"})
		rec := httptest.NewRecorder()
		h.GetBoard(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// --- Thread handlers ---

func TestCreateThreadHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, m := newTestHandler()
		m.thread.createFunc = func(actor domain.User, data domain.ThreadCreationData) (domain.Thread, error) {
			assert.Equal(t, domain.BoardId(2), data.Board)
			assert.Equal(t, testMember, actor)
			return domain.Thread{Id: 11, Board: data.Board}, nil
		}

		req := withParams(
			httptest.NewRequest(http.MethodPost, "/v1/boards/2/threads", jsonBody(t, api.CreateThreadRequest{Title: "Hi", Body: "Hello"})),
			map[string]string{"board": "2"},
		)
		rec := httptest.NewRecorder()
		h.CreateThread(rec, asUser(req, testMember))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp api.CreateThreadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.ThreadId(11), resp.Id)
	})

	t.Run("bad board id", func(t *testing.T) {
		h, _ := newTestHandler()

		req := withParams(
			httptest.NewRequest(http.MethodPost, "/v1/boards/abc/threads", jsonBody(t, api.CreateThreadRequest{Title: "Hi", Body: "Hello"})),
			map[string]string{"board": "abc"},
		)
		rec := httptest.NewRecorder()
		h.CreateThread(rec, asUser(req, testMember))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetThreadHandler(t *testing.T) {
	t.Run("board slug rides along", func(t *testing.T) {
		h, m := newTestHandler()
		m.thread.getFunc = func(id domain.ThreadId) (domain.Thread, error) {
			return domain.Thread{Id: id, Board: 2}, nil
		}
		m.board.getFunc = func(id domain.BoardId) (domain.Board, error) {
			return domain.Board{Id: id, Slug: "general"}, nil
		}

		req := withParams(httptest.NewRequest(http.MethodGet, "/v1/threads/5", nil), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.GetThread(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.ThreadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "general", resp.BoardSlug)
	})

	t.Run("board lookup failure degrades to bare thread", func(t *testing.T) {
		h, m := newTestHandler()
		m.board.getFunc = func(id domain.BoardId) (domain.Board, error) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}

		req := withParams(httptest.NewRequest(http.MethodGet, "/v1/threads/5", nil), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.GetThread(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.ThreadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.BoardSlug)
	})
}

func TestEditThreadHandler(t *testing.T) {
	t.Run("pinned flag never reaches the author path", func(t *testing.T) {
		h, m := newTestHandler()
		m.thread.editFunc = func(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
			assert.Nil(t, edit.Pinned)
			return nil
		}

		// a pinned field in the payload is simply not part of the request DTO
		body := jsonBody(t, map[string]any{"title": "T", "body": "B", "pinned": true})
		req := withParams(httptest.NewRequest(http.MethodPut, "/v1/threads/5", body), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.EditThread(rec, asUser(req, testMember))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbidden edit maps to 403", func(t *testing.T) {
		h, m := newTestHandler()
		m.thread.editFunc = func(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
			return internal_errors.Unauthorized("Only the author can edit this thread")
		}

		body := jsonBody(t, api.EditThreadRequest{Title: "T", Body: "B"})
		req := withParams(httptest.NewRequest(http.MethodPut, "/v1/threads/5", body), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.EditThread(rec, asUser(req, testMember))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAdminEditThreadHandler(t *testing.T) {
	h, m := newTestHandler()
	var got domain.ThreadEdit
	m.thread.adminEditFunc = func(actor domain.User, id domain.ThreadId, edit domain.ThreadEdit) error {
		got = edit
		return nil
	}

	pinned := true
	body := jsonBody(t, api.AdminEditThreadRequest{Title: "T", Body: "B", Pinned: &pinned})
	req := withParams(httptest.NewRequest(http.MethodPut, "/v1/threads/5/admin", body), map[string]string{"thread": "5"})
	rec := httptest.NewRecorder()
	h.AdminEditThread(rec, asUser(req, testModerator))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Pinned)
	assert.True(t, *got.Pinned)
}

// --- Answer handlers ---

func TestCreateAnswerHandler(t *testing.T) {
	t.Run("created with answered_to", func(t *testing.T) {
		h, m := newTestHandler()
		m.answer.createFunc = func(actor domain.User, data domain.AnswerCreationData) (domain.Answer, error) {
			require.NotNil(t, data.AnsweredTo)
			assert.Equal(t, domain.UserId(42), *data.AnsweredTo)
			return domain.Answer{Id: 100, Thread: data.Thread}, nil
		}

		answeredTo := domain.UserId(42)
		body := jsonBody(t, api.CreateAnswerRequest{Body: "Reply", AnsweredTo: &answeredTo})
		req := withParams(httptest.NewRequest(http.MethodPost, "/v1/threads/5/answers", body), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.CreateAnswer(rec, asUser(req, testMember))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp api.CreateAnswerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.AnswerId(100), resp.Id)
	})

	t.Run("closed thread maps to 409", func(t *testing.T) {
		h, m := newTestHandler()
		m.answer.createFunc = func(actor domain.User, data domain.AnswerCreationData) (domain.Answer, error) {
			return domain.Answer{}, internal_errors.Conflict("Thread is closed")
		}

		body := jsonBody(t, api.CreateAnswerRequest{Body: "Reply"})
		req := withParams(httptest.NewRequest(http.MethodPost, "/v1/threads/5/answers", body), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.CreateAnswer(rec, asUser(req, testMember))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

// --- Like handlers ---

func TestToggleLikeHandlers(t *testing.T) {
	t.Run("thread like returns refreshed set", func(t *testing.T) {
		h, m := newTestHandler()
		m.like.toggleFunc = func(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error) {
			assert.Equal(t, domain.LikeThread, target)
			assert.Equal(t, int64(5), id)
			return true, []domain.UserRef{{Id: actor.Id}}, nil
		}

		req := withParams(httptest.NewRequest(http.MethodPost, "/v1/threads/5/like", nil), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.ToggleThreadLike(rec, asUser(req, testMember))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.LikeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Liked)
		require.Len(t, resp.Likes, 1)
		assert.Equal(t, testMember.Id, resp.Likes[0].Id)
	})

	t.Run("answer like targets answers", func(t *testing.T) {
		h, m := newTestHandler()
		m.like.toggleFunc = func(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error) {
			assert.Equal(t, domain.LikeAnswer, target)
			return false, []domain.UserRef{}, nil
		}

		req := withParams(httptest.NewRequest(http.MethodPost, "/v1/answers/8/like", nil), map[string]string{"answer": "8"})
		rec := httptest.NewRecorder()
		h.ToggleAnswerLike(rec, asUser(req, testMember))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.LikeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Liked)
	})

	t.Run("no identity", func(t *testing.T) {
		h, _ := newTestHandler()

		req := withParams(httptest.NewRequest(http.MethodPost, "/v1/threads/5/like", nil), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.ToggleThreadLike(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("retry exhaustion maps to 409", func(t *testing.T) {
		h, m := newTestHandler()
		m.like.toggleFunc = func(actor domain.User, target domain.LikeTarget, id int64) (bool, []domain.UserRef, error) {
			return false, nil, internal_errors.Conflict("Like toggle contention, try again")
		}

		req := withParams(httptest.NewRequest(http.MethodPost, "/v1/threads/5/like", nil), map[string]string{"thread": "5"})
		rec := httptest.NewRecorder()
		h.ToggleThreadLike(rec, asUser(req, testMember))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
