package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"news_portal/internal/domain"
)

// pinLockKey is the advisory lock serializing pin operations.
const pinLockKey int64 = 0x6e657773

const articleColumns = `id, title, content, category, author, tags, image_url, video_url,
	media_preference, stype, live, published_at, created_at`

type articleRow struct {
	ID              uuid.UUID      `db:"id"`
	Title           string         `db:"title"`
	Content         string         `db:"content"`
	Category        string         `db:"category"`
	Author          string         `db:"author"`
	Tags            pq.StringArray `db:"tags"`
	ImageURL        *string        `db:"image_url"`
	VideoURL        *string        `db:"video_url"`
	MediaPreference string         `db:"media_preference"`
	Stype           *string        `db:"stype"`
	Live            *string        `db:"live"`
	PublishedAt     time.Time      `db:"published_at"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r articleRow) toDomain() domain.Article {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.Article{
		ID:              r.ID,
		Title:           r.Title,
		Content:         r.Content,
		Category:        r.Category,
		Author:          r.Author,
		Tags:            tags,
		ImageURL:        r.ImageURL,
		VideoURL:        r.VideoURL,
		MediaPreference: domain.MediaPreference(r.MediaPreference),
		Stype:           r.Stype,
		Live:            r.Live,
		PublishedAt:     r.PublishedAt,
		CreatedAt:       r.CreatedAt,
	}
}

type ArticleStore struct {
	db *sqlx.DB
	tx *TransactionManager
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db, tx: NewTransactionManager(db)}
}

func (s *ArticleStore) Create(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (
			id, title, content, category, author, tags, image_url, video_url,
			media_preference, stype, live, published_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.Category,
		article.Author,
		pq.StringArray(tags),
		article.ImageURL,
		article.VideoURL,
		string(article.MediaPreference),
		article.Stype,
		article.Live,
		article.PublishedAt,
		article.CreatedAt,
	)
	if err != nil {
		return storageErr("insert article", err)
	}
	return nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	var row articleRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr("get article", err)
	}

	a := row.toDomain()
	return &a, nil
}

func (s *ArticleStore) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Title != "" {
		args = append(args, escapeLike(filter.Title))
		where = append(where, `title ILIKE '%' || $`+strconv.Itoa(len(args))+` || '%'`)
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, `category = $`+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + articleColumns + ` FROM articles`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq`

	var rows []articleRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, storageErr("list articles", err)
	}

	out := make([]domain.Article, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *ArticleStore) GetPinned(ctx context.Context) (*domain.Article, error) {
	var row articleRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		`SELECT `+articleColumns+` FROM articles WHERE stype = 'pinned' ORDER BY seq LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get pinned", err)
	}

	a := row.toDomain()
	return &a, nil
}

// Update locks the row, merges patch and writes the content columns back.
func (s *ArticleStore) Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	var updated domain.Article

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		var row articleRow
		err := sqlx.GetContext(ctx, exec, &row,
			`SELECT `+articleColumns+` FROM articles WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		if err != nil {
			return err
		}

		updated = row.toDomain()
		patch.Apply(&updated)

		_, err = exec.ExecContext(ctx, `
			UPDATE articles SET
				title = $2,
				content = $3,
				category = $4,
				author = $5,
				tags = $6,
				image_url = $7,
				video_url = $8,
				media_preference = $9
			WHERE id = $1`,
			id,
			updated.Title,
			updated.Content,
			updated.Category,
			updated.Author,
			pq.StringArray(updated.Tags),
			updated.ImageURL,
			updated.VideoURL,
			string(updated.MediaPreference),
		)
		return err
	})
	if err != nil {
		return nil, classify("update article", err)
	}

	return &updated, nil
}

// Pin clears stype on every article and pins id in one transaction. The
// advisory lock makes concurrent pins run one after another, so each sees
// the previous pin committed and clears it.
func (s *ArticleStore) Pin(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	var row articleRow

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		if _, err := exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, pinLockKey); err != nil {
			return err
		}

		if _, err := exec.ExecContext(ctx,
			`UPDATE articles SET stype = NULL WHERE stype IS NOT NULL`); err != nil {
			return err
		}

		err := sqlx.GetContext(ctx, exec, &row,
			`UPDATE articles SET stype = 'pinned' WHERE id = $1 RETURNING `+articleColumns, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		return err
	})
	if err != nil {
		return nil, classify("pin article", err)
	}

	a := row.toDomain()
	return &a, nil
}

func (s *ArticleStore) Unpin(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return s.updateReturning(ctx, "unpin article",
		`UPDATE articles SET stype = NULL WHERE id = $1 RETURNING `+articleColumns, id)
}

func (s *ArticleStore) SetLive(ctx context.Context, id uuid.UUID, live bool) (*domain.Article, error) {
	var value *string
	if live {
		v := domain.LiveOn
		value = &v
	}
	return s.updateReturning(ctx, "set live",
		`UPDATE articles SET live = $2 WHERE id = $1 RETURNING `+articleColumns, id, value)
}

func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return s.updateReturning(ctx, "delete article",
		`DELETE FROM articles WHERE id = $1 RETURNING `+articleColumns, id)
}

func (s *ArticleStore) updateReturning(ctx context.Context, op, query string, id uuid.UUID, args ...interface{}) (*domain.Article, error) {
	var row articleRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, append([]interface{}{id}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(op, err)
	}

	a := row.toDomain()
	return &a, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func notFound(id uuid.UUID) error {
	return &domain.NotFoundError{Kind: "article", ID: id.String()}
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}

// classify keeps not-found errors raised inside a transaction and wraps
// everything else as a storage failure.
func classify(op string, err error) error {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return storageErr(op, err)
}
