// Package memory keeps articles and users in process memory. It backs unit
// tests and the "memory" storage driver for local runs.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"news_portal/internal/domain"
)

type ArticleStore struct {
	mu       sync.RWMutex
	articles []*domain.Article
}

func NewArticleStore() *ArticleStore {
	return &ArticleStore{}
}

func (s *ArticleStore) Create(_ context.Context, article *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := article.Clone()
	if c.Tags == nil {
		c.Tags = []string{}
	}
	s.articles = append(s.articles, &c)
	return nil
}

func (s *ArticleStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, _ := s.find(id)
	if a == nil {
		return nil, notFound(id)
	}
	return cloned(a), nil
}

func (s *ArticleStore) List(_ context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title := strings.ToLower(filter.Title)
	out := make([]domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if title != "" && !strings.Contains(strings.ToLower(a.Title), title) {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

func (s *ArticleStore) GetPinned(_ context.Context) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.IsPinned() {
			return cloned(a), nil
		}
	}
	return nil, nil
}

func (s *ArticleStore) Update(_ context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, _ := s.find(id)
	if a == nil {
		return nil, notFound(id)
	}
	patch.Apply(a)
	return cloned(a), nil
}

// Pin clears every pinned article and pins id while holding the write lock,
// so concurrent pins cannot interleave.
func (s *ArticleStore) Pin(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, _ := s.find(id)
	if target == nil {
		return nil, notFound(id)
	}

	for _, a := range s.articles {
		a.Stype = nil
	}
	pinned := domain.StypePinned
	target.Stype = &pinned

	return cloned(target), nil
}

func (s *ArticleStore) Unpin(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, _ := s.find(id)
	if a == nil {
		return nil, notFound(id)
	}
	a.Stype = nil
	return cloned(a), nil
}

func (s *ArticleStore) SetLive(_ context.Context, id uuid.UUID, live bool) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, _ := s.find(id)
	if a == nil {
		return nil, notFound(id)
	}
	if live {
		v := domain.LiveOn
		a.Live = &v
	} else {
		a.Live = nil
	}
	return cloned(a), nil
}

func (s *ArticleStore) Delete(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, i := s.find(id)
	if a == nil {
		return nil, notFound(id)
	}
	s.articles = append(s.articles[:i], s.articles[i+1:]...)
	return a, nil
}

func (s *ArticleStore) find(id uuid.UUID) (*domain.Article, int) {
	for i, a := range s.articles {
		if a.ID == id {
			return a, i
		}
	}
	return nil, -1
}

func cloned(a *domain.Article) *domain.Article {
	c := a.Clone()
	return &c
}

func notFound(id uuid.UUID) error {
	return &domain.NotFoundError{Kind: "article", ID: id.String()}
}
