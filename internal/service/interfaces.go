package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"news_portal/internal/domain"
)

// ArticleStore persists articles. Implementations return
// *domain.NotFoundError for unknown ids and *domain.StorageError for
// unclassified backend failures. Pin must be atomic across the collection.
type ArticleStore interface {
	Create(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error)
	GetPinned(ctx context.Context) (*domain.Article, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error)
	Pin(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	Unpin(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	SetLive(ctx context.Context, id uuid.UUID, live bool) (*domain.Article, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

// UserStore returns *domain.ValidationError when Create hits an email that
// is already registered.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.ArticleEvent) error
	Close() error
}

// Authorizer gates write operations on the article collection.
type Authorizer interface {
	AuthorizeWrite(ctx context.Context) error
}
