package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"news_portal/internal/domain"
)

type ArticleService struct {
	articles  ArticleStore
	authz     Authorizer
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewArticleService(
	articles ArticleStore,
	authz Authorizer,
	publisher Publisher,
	logger *slog.Logger,
) *ArticleService {
	return &ArticleService{
		articles:  articles,
		authz:     authz,
		publisher: publisher,
		logger:    logger.With("component", "articles"),
		now:       time.Now,
	}
}

// ParseID converts a raw identifier into an article id.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, &domain.InvalidIDError{Value: raw}
	}
	return id, nil
}

func (s *ArticleService) Create(ctx context.Context, in domain.NewArticle) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	if err := validateNew(in); err != nil {
		return nil, err
	}

	pref := in.MediaPreference
	if pref == "" {
		pref = domain.MediaImage
	}

	now := s.now().UTC()
	article := &domain.Article{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(in.Title),
		Content:         in.Content,
		Category:        strings.TrimSpace(in.Category),
		Author:          strings.TrimSpace(in.Author),
		Tags:            normalizeTags(in.Tags),
		ImageURL:        nonEmpty(in.ImageURL),
		VideoURL:        nonEmpty(in.VideoURL),
		MediaPreference: pref,
		PublishedAt:     now,
		CreatedAt:       now,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.logger.Info("article created", "id", article.ID, "category", article.Category)
	s.publish(ctx, domain.ActionCreate, article)

	return article, nil
}

func (s *ArticleService) GetByID(ctx context.Context, rawID string) (*domain.Article, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.articles.GetByID(ctx, id)
}

func (s *ArticleService) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.articles.List(ctx, filter)
}

// GetPinned returns the pinned article, or nil when nothing is pinned.
func (s *ArticleService) GetPinned(ctx context.Context) (*domain.Article, error) {
	return s.articles.GetPinned(ctx)
}

// Update merges patch into the stored article. Toggle fields are routed
// through Pin/Unpin and SetLive so at most one article stays pinned.
func (s *ArticleService) Update(ctx context.Context, rawID string, patch domain.ArticlePatch) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	patch = normalizePatch(patch)

	var article *domain.Article
	if patch.HasContent() {
		article, err = s.articles.Update(ctx, id, patch)
		if err != nil {
			return nil, fmt.Errorf("update article: %w", err)
		}
		s.publish(ctx, domain.ActionUpdate, article)
	}

	if patch.Stype != nil {
		if *patch.Stype == domain.StypePinned {
			article, err = s.pin(ctx, id)
		} else {
			article, err = s.unpin(ctx, id)
		}
		if err != nil {
			return nil, err
		}
	}

	if patch.Live != nil {
		article, err = s.setLive(ctx, id, *patch.Live == domain.LiveOn)
		if err != nil {
			return nil, err
		}
	}

	if article == nil {
		// Nothing to change; report current state.
		return s.articles.GetByID(ctx, id)
	}

	return article, nil
}

// Pin makes id the only pinned article. A non-nil pref also updates the
// article's media preference, as the admin pin action allows.
func (s *ArticleService) Pin(ctx context.Context, rawID string, pref *domain.MediaPreference) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if pref != nil && !pref.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"mediaPreference"}, Reason: "invalid value"}
	}

	article, err := s.pin(ctx, id)
	if err != nil {
		return nil, err
	}

	if pref != nil && *pref != article.MediaPreference {
		return s.setMediaPreference(ctx, id, *pref)
	}

	return article, nil
}

func (s *ArticleService) Unpin(ctx context.Context, rawID string) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	return s.unpin(ctx, id)
}

func (s *ArticleService) SetLive(ctx context.Context, rawID string, live bool) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	return s.setLive(ctx, id, live)
}

func (s *ArticleService) SetMediaPreference(ctx context.Context, rawID string, pref domain.MediaPreference) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if !pref.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"mediaPreference"}, Reason: "invalid value"}
	}

	return s.setMediaPreference(ctx, id, pref)
}

func (s *ArticleService) Delete(ctx context.Context, rawID string) (*domain.Article, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}

	s.logger.Info("article deleted", "id", id)
	s.publish(ctx, domain.ActionDelete, article)

	return article, nil
}

func (s *ArticleService) pin(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := s.articles.Pin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pin article: %w", err)
	}

	s.logger.Info("article pinned", "id", id)
	s.publish(ctx, domain.ActionPin, article)

	return article, nil
}

func (s *ArticleService) unpin(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := s.articles.Unpin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unpin article: %w", err)
	}

	s.publish(ctx, domain.ActionUnpin, article)

	return article, nil
}

func (s *ArticleService) setLive(ctx context.Context, id uuid.UUID, live bool) (*domain.Article, error) {
	article, err := s.articles.SetLive(ctx, id, live)
	if err != nil {
		return nil, fmt.Errorf("set live: %w", err)
	}

	s.publish(ctx, domain.ActionLive, article)

	return article, nil
}

func (s *ArticleService) setMediaPreference(ctx context.Context, id uuid.UUID, pref domain.MediaPreference) (*domain.Article, error) {
	article, err := s.articles.Update(ctx, id, domain.ArticlePatch{MediaPreference: &pref})
	if err != nil {
		return nil, fmt.Errorf("set media preference: %w", err)
	}

	s.publish(ctx, domain.ActionMedia, article)

	return article, nil
}

func (s *ArticleService) authorize(ctx context.Context) error {
	if s.authz == nil {
		return nil
	}
	return s.authz.AuthorizeWrite(ctx)
}

// publish never fails the write; the store stays the source of truth.
func (s *ArticleService) publish(ctx context.Context, action string, article *domain.Article) {
	if s.publisher == nil || article == nil {
		return
	}

	event := domain.ArticleEvent{
		Action:    action,
		Article:   article.Clone(),
		Timestamp: s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publish article event failed",
			"id", article.ID,
			"action", action,
			"error", err,
		)
	}
}
