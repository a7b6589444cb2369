package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard-dev/talkboard/internal/domain"
	internal_errors "github.com/talkboard-dev/talkboard/internal/errors"
)

// --- Mocks ---

// MockLikeStorage keeps a real in-memory like set so toggles behave like the
// database does.
type MockLikeStorage struct {
	mu         sync.Mutex
	members    map[domain.UserId]struct{}
	toggleFunc func(target domain.LikeTarget, id int64, userId domain.UserId) (bool, []domain.UserId, error)
	calls      int
}

func NewMockLikeStorage() *MockLikeStorage {
	return &MockLikeStorage{members: map[domain.UserId]struct{}{}}
}

func (m *MockLikeStorage) ToggleLike(target domain.LikeTarget, id int64, userId domain.UserId) (bool, []domain.UserId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.toggleFunc != nil {
		return m.toggleFunc(target, id, userId)
	}

	liked := false
	if _, ok := m.members[userId]; ok {
		delete(m.members, userId)
	} else {
		m.members[userId] = struct{}{}
		liked = true
	}
	ids := make([]domain.UserId, 0, len(m.members))
	for uid := range m.members {
		ids = append(ids, uid)
	}
	return liked, ids, nil
}

// MockDirectory resolves ids to refs, or fails on demand.
type MockDirectory struct {
	fail bool
}

func (m *MockDirectory) Resolve(ids []domain.UserId) ([]domain.UserRef, error) {
	if m.fail {
		return nil, internal_errors.NotFound("directory unavailable")
	}
	refs := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, domain.UserRef{Id: id, DisplayName: "user"})
	}
	return refs, nil
}

// --- Tests ---

func TestLikeToggle(t *testing.T) {
	t.Run("first toggle likes, second removes", func(t *testing.T) {
		storage := NewMockLikeStorage()
		service := NewLike(storage, &MockDirectory{})

		liked, refs, err := service.Toggle(member, domain.LikeThread, 1)
		require.NoError(t, err)
		assert.True(t, liked)
		require.Len(t, refs, 1)
		assert.Equal(t, member.Id, refs[0].Id)

		liked, refs, err = service.Toggle(member, domain.LikeThread, 1)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Empty(t, refs)
	})

	t.Run("double toggle restores the original set", func(t *testing.T) {
		storage := NewMockLikeStorage()
		storage.members[moderator.Id] = struct{}{}
		service := NewLike(storage, &MockDirectory{})

		_, _, err := service.Toggle(member, domain.LikeAnswer, 5)
		require.NoError(t, err)
		_, refs, err := service.Toggle(member, domain.LikeAnswer, 5)
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, moderator.Id, refs[0].Id)
	})

	t.Run("anonymous caller is rejected before storage", func(t *testing.T) {
		storage := NewMockLikeStorage()
		service := NewLike(storage, &MockDirectory{})

		_, _, err := service.Toggle(domain.User{}, domain.LikeThread, 1)
		require.Error(t, err)
		assert.Equal(t, 403, internal_errors.StatusCode(err))
		assert.Equal(t, 0, storage.calls)
	})

	t.Run("storage error surfaces unchanged", func(t *testing.T) {
		storage := NewMockLikeStorage()
		storage.toggleFunc = func(target domain.LikeTarget, id int64, userId domain.UserId) (bool, []domain.UserId, error) {
			return false, nil, internal_errors.NotFound("Thread not found")
		}
		service := NewLike(storage, &MockDirectory{})

		_, _, err := service.Toggle(member, domain.LikeThread, 404)
		require.Error(t, err)
		assert.Equal(t, 404, internal_errors.StatusCode(err))
	})

	t.Run("directory failure degrades to bare refs", func(t *testing.T) {
		storage := NewMockLikeStorage()
		service := NewLike(storage, &MockDirectory{fail: true})

		liked, refs, err := service.Toggle(member, domain.LikeThread, 1)
		require.NoError(t, err)
		assert.True(t, liked)
		require.Len(t, refs, 1)
		assert.Equal(t, member.Id, refs[0].Id)
		assert.Empty(t, refs[0].DisplayName)
	})
}

func TestBareDirectory(t *testing.T) {
	refs, err := BareDirectory{}.Resolve([]domain.UserId{3, 7})
	require.NoError(t, err)
	assert.Equal(t, []domain.UserRef{{Id: 3}, {Id: 7}}, refs)
}
