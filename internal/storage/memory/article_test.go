package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"news_portal/internal/domain"
	"news_portal/testdata/utils"
)

func seed(t *testing.T, s *ArticleStore, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		a := &domain.Article{ID: uuid.New(), Title: "article", Category: "Local"}
		require.NoError(t, s.Create(context.Background(), a))
		ids = append(ids, a.ID)
	}
	return ids
}

func countPinned(t *testing.T, s *ArticleStore) int {
	t.Helper()

	all, err := s.List(context.Background(), domain.ArticleFilter{})
	require.NoError(t, err)

	n := 0
	for _, a := range all {
		if a.IsPinned() {
			n++
		}
	}
	return n
}

func TestArticleStore_ConcurrentPins(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewArticleStore()
	ids := seed(t, s, 20)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := s.Pin(context.Background(), id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, countPinned(t, s))
}

func TestArticleStore_ReturnsCopies(t *testing.T) {
	s := NewArticleStore()
	id := seed(t, s, 1)[0]

	got, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Stype = utils.Ptr(domain.StypePinned)

	again, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "article", again.Title)
	assert.False(t, again.IsPinned())
}

func TestArticleStore_PinUnknownKeepsPinned(t *testing.T) {
	s := NewArticleStore()
	id := seed(t, s, 2)[0]

	_, err := s.Pin(context.Background(), id)
	require.NoError(t, err)

	_, err = s.Pin(context.Background(), uuid.New())
	var nerr *domain.NotFoundError
	assert.ErrorAs(t, err, &nerr)

	pinned, err := s.GetPinned(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pinned)
	assert.Equal(t, id, pinned.ID)
}

func TestArticleStore_GetPinnedEmpty(t *testing.T) {
	s := NewArticleStore()
	seed(t, s, 3)

	pinned, err := s.GetPinned(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, pinned)
}

func TestArticleStore_SetLive(t *testing.T) {
	s := NewArticleStore()
	id := seed(t, s, 1)[0]

	got, err := s.SetLive(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, got.IsLive())

	got, err = s.SetLive(context.Background(), id, false)
	require.NoError(t, err)
	assert.False(t, got.IsLive())
	assert.Nil(t, got.Live)
}

func TestArticleStore_LiveIsUnbounded(t *testing.T) {
	s := NewArticleStore()
	ids := seed(t, s, 3)

	for _, id := range ids {
		_, err := s.SetLive(context.Background(), id, true)
		require.NoError(t, err)
	}

	all, err := s.List(context.Background(), domain.ArticleFilter{})
	require.NoError(t, err)
	for _, a := range all {
		assert.True(t, a.IsLive(), a.ID)
	}
}

func TestArticleStore_PinKeepsLive(t *testing.T) {
	s := NewArticleStore()
	ids := seed(t, s, 2)

	_, err := s.SetLive(context.Background(), ids[0], true)
	require.NoError(t, err)
	_, err = s.Pin(context.Background(), ids[0])
	require.NoError(t, err)

	// Moving the pin away leaves the first article live.
	_, err = s.Pin(context.Background(), ids[1])
	require.NoError(t, err)

	first, err := s.GetByID(context.Background(), ids[0])
	require.NoError(t, err)
	assert.True(t, first.IsLive())
	assert.False(t, first.IsPinned())
}

func TestArticleStore_SetLiveKeepsPin(t *testing.T) {
	s := NewArticleStore()
	id := seed(t, s, 1)[0]

	_, err := s.Pin(context.Background(), id)
	require.NoError(t, err)

	got, err := s.SetLive(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, got.IsPinned())

	got, err = s.SetLive(context.Background(), id, false)
	require.NoError(t, err)
	assert.True(t, got.IsPinned())

	pinned, err := s.GetPinned(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pinned)
	assert.Equal(t, id, pinned.ID)
}

func TestArticleStore_ListKeepsInsertionOrder(t *testing.T) {
	s := NewArticleStore()
	ids := seed(t, s, 5)

	all, err := s.List(context.Background(), domain.ArticleFilter{})
	require.NoError(t, err)

	got := make([]uuid.UUID, 0, len(all))
	for _, a := range all {
		got = append(got, a.ID)
	}
	assert.Equal(t, ids, got)
}

func TestUserStore_Duplicate(t *testing.T) {
	s := NewUserStore()
	u := &domain.User{ID: uuid.New(), Email: "a@example.com"}

	require.NoError(t, s.Create(context.Background(), u))

	err := s.Create(context.Background(), u)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email"}, verr.Fields)

	_, err = s.GetByEmail(context.Background(), "b@example.com")
	var nerr *domain.NotFoundError
	assert.ErrorAs(t, err, &nerr)
}
